// Command lumen is a terminal reading app for extracted text publications.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	configfile "github.com/lumen-reader/lumen/internal/adapters/driven/config/file"
	"github.com/lumen-reader/lumen/internal/adapters/driven/library"
	"github.com/lumen-reader/lumen/internal/adapters/driven/renderer/textpub"
	"github.com/lumen-reader/lumen/internal/adapters/driven/storage/sqlite"
	"github.com/lumen-reader/lumen/internal/adapters/driving/cli"
	"github.com/lumen-reader/lumen/internal/core/services"
	"github.com/lumen-reader/lumen/internal/logger"
)

func main() {
	cli.SetInitializer(buildServices)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildServices wires the full dependency graph. Runs after flag parsing
// so --config is honoured.
func buildServices(configDir string) (cli.Services, func(), error) {
	config, err := configfile.NewConfigStore(configDir)
	if err != nil {
		return cli.Services{}, nil, fmt.Errorf("initialising config: %w", err)
	}

	settingsService := services.NewSettingsService(config)
	settings, err := settingsService.Get()
	if err != nil {
		return cli.Services{}, nil, fmt.Errorf("loading settings: %w", err)
	}
	if settings.Verbose {
		logger.SetVerbose(true)
	}

	store, err := sqlite.NewStore(settings.DataDir)
	if err != nil {
		return cli.Services{}, nil, fmt.Errorf("initialising storage: %w", err)
	}
	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Warn("Closing storage: %v", err)
		}
	}

	positionService := services.NewPositionService(store)

	booksDir := settings.BooksDir
	if booksDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			cleanup()
			return cli.Services{}, nil, fmt.Errorf("getting home directory: %w", err)
		}
		booksDir = filepath.Join(home, ".lumen", "books")
		if err := os.MkdirAll(booksDir, 0700); err != nil {
			cleanup()
			return cli.Services{}, nil, fmt.Errorf("creating books directory: %w", err)
		}
	}

	lib, err := library.NewLibrary(booksDir)
	if err != nil {
		cleanup()
		return cli.Services{}, nil, fmt.Errorf("opening library: %w", err)
	}

	renderer := textpub.NewRenderer()
	session := services.NewSessionCoordinator(renderer, positionService, *settings)

	return cli.Services{
		Library:   lib,
		Session:   session,
		Positions: positionService,
		Settings:  settingsService,
	}, cleanup, nil
}
