package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/lumen-reader/lumen/internal/adapters/driving/tui"
)

var readCmd = &cobra.Command{
	Use:   "read <book>",
	Short: "Open a publication in the reader",
	Long: `Open a publication by title, directory name or path and start the
interactive reader.

Controls:
  ←/h, →/l - Previous / next chapter
  b        - Toggle bookmark at the current position
  /        - Search inside the publication
  a        - Annotations panel
  ?        - Toggle help
  q        - Quit`,
	Args: cobra.ExactArgs(1),
	RunE: runRead,
}

func init() {
	rootCmd.AddCommand(readCmd)
}

func runRead(cmd *cobra.Command, args []string) error {
	if libraryService == nil || readerSession == nil {
		return errors.New("reader not configured")
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("read requires an interactive terminal")
	}

	// Panic recovery to get stack traces out of the alt screen
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in reader: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	ctx := context.Background()

	ref, err := libraryService.Resolve(ctx, args[0])
	if err != nil {
		return fmt.Errorf("resolving %q: %w", args[0], err)
	}

	if err := readerSession.Open(ctx, *ref, nil); err != nil {
		return fmt.Errorf("opening %q: %w", ref.Title, err)
	}
	defer func() {
		if err := readerSession.Close(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "closing session: %v\n", err)
		}
	}()

	app := tui.NewApp(&tui.Ports{
		Session:   readerSession,
		Positions: positionService,
		Settings:  settingsService,
	})

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("reader error: %w", err)
	}
	return nil
}
