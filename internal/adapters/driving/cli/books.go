package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var booksJSON bool

var booksCmd = &cobra.Command{
	Use:   "books",
	Short: "List publications in the library",
	Long:  `Lists every publication found in the configured books directory.`,
	RunE:  runBooks,
}

func init() {
	booksCmd.Flags().BoolVar(&booksJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(booksCmd)
}

func runBooks(cmd *cobra.Command, _ []string) error {
	if libraryService == nil {
		return errors.New("library not configured")
	}

	refs, err := libraryService.List(context.Background())
	if err != nil {
		return fmt.Errorf("listing books: %w", err)
	}

	if booksJSON {
		type bookOut struct {
			ID    string `json:"id"`
			Title string `json:"title"`
			Path  string `json:"path"`
		}
		out := make([]bookOut, 0, len(refs))
		for _, ref := range refs {
			out = append(out, bookOut{ID: ref.BookID.String(), Title: ref.Title, Path: ref.Path})
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding books: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(refs) == 0 {
		cmd.Println("No publications found.")
		return nil
	}

	for _, ref := range refs {
		cmd.Printf("%s\t%s\n", ref.Title, ref.Path)
	}
	return nil
}
