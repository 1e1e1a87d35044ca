// Package cli provides the cobra command-line interface. Commands talk
// to the core exclusively through the driving ports; services are
// injected by main before Execute runs.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/lumen-reader/lumen/internal/core/ports/driven"
	"github.com/lumen-reader/lumen/internal/core/ports/driving"
	"github.com/lumen-reader/lumen/internal/logger"
)

// version is the build version, overridable at link time.
var version = "dev"

// Injected services. Nil checks in each command keep a partially wired
// binary from panicking.
var (
	libraryService  driven.Library
	readerSession   driving.ReaderSession
	positionService driving.PositionService
	settingsService driving.SettingsService
)

var (
	verboseFlag   bool
	configDirFlag string
)

// Services bundles everything the CLI needs from the composition root.
type Services struct {
	Library   driven.Library
	Session   driving.ReaderSession
	Positions driving.PositionService
	Settings  driving.SettingsService
}

// SetServices injects the services the commands run against.
func SetServices(s Services) {
	libraryService = s.Library
	readerSession = s.Session
	positionService = s.Positions
	settingsService = s.Settings
}

// Initializer builds the service set once flags are parsed, so the
// --config flag can influence where configuration is read from. It
// returns a cleanup func run after the command finishes.
type Initializer func(configDir string) (Services, func(), error)

var (
	initializer Initializer
	cleanup     func()
)

// SetInitializer registers the composition root's service builder.
func SetInitializer(init Initializer) {
	initializer = init
}

var rootCmd = &cobra.Command{
	Use:   "lumen",
	Short: "A terminal reading app for extracted text publications",
	Long: `Lumen is a terminal reader for plain-text publications.

It tracks your reading position, bookmarks and highlights per book,
and offers full-text search inside the open publication.`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if verboseFlag {
			logger.SetVerbose(true)
		}
		if initializer != nil {
			services, c, err := initializer(configDirFlag)
			if err != nil {
				return err
			}
			SetServices(services)
			cleanup = c
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDirFlag, "config", "", "config directory (default ~/.lumen)")
}

// Execute runs the root command.
func Execute() error {
	defer func() {
		if cleanup != nil {
			cleanup()
		}
	}()
	return rootCmd.Execute()
}
