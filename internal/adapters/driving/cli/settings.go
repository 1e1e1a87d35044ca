package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lumen-reader/lumen/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	RunE:  runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsColorCmd = &cobra.Command{
	Use:   "color <colour>",
	Short: "Set the default highlight colour",
	Long: `Set the colour used for newly created highlights.

Available colours: yellow, blue, green, pink`,
	Args: cobra.ExactArgs(1),
	RunE: runSettingsColor,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsColorCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("reading settings: %w", err)
	}

	cmd.Println("Settings:")
	cmd.Printf("  books dir:        %s\n", valueOrDefault(settings.BooksDir))
	cmd.Printf("  data dir:         %s\n", valueOrDefault(settings.DataDir))
	cmd.Printf("  highlight colour: %s\n", settings.DefaultHighlightColor)
	cmd.Printf("  verbose:          %t\n", settings.Verbose)
	return nil
}

func runSettingsColor(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	color := domain.HighlightColor(args[0])
	if err := settingsService.SetDefaultHighlightColor(color); err != nil {
		return fmt.Errorf("setting highlight colour: %w", err)
	}

	cmd.Printf("Default highlight colour set to %s.\n", color)
	return nil
}

func valueOrDefault(v string) string {
	if v == "" {
		return "(default)"
	}
	return v
}
