package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/littyapp/litty/internal/config"
	"github.com/littyapp/litty/internal/database"
	"github.com/littyapp/litty/internal/database/librarystore"
	"github.com/littyapp/litty/internal/database/localstate"
	"github.com/littyapp/litty/internal/library"
)

// ListCommand prints the library with reading progress.
type ListCommand struct {
	DatabasePath string
	ShowIDs      bool
}

// NewListCommand creates a new ListCommand.
func NewListCommand() *ListCommand {
	return &ListCommand{}
}

// ParseFlags parses command line flags.
func (cmd *ListCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the local database file")
	fs.BoolVar(&cmd.ShowIDs, "ids", false, "Print book ids")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s list [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "List the books in the local library with reading progress.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

// Run executes the list command.
func (cmd *ListCommand) Run() error {
	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for database: %w", err)
	}

	db, err := database.NewDatabase(absDBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	store, err := library.NewStore(librarystore.NewRepository(localstate.NewRepository(db.DB)))
	if err != nil {
		return fmt.Errorf("failed to load library: %w", err)
	}

	books := store.All()
	if len(books) == 0 {
		fmt.Println("Your library is empty. Add a book with the 'add' command.")
		return nil
	}

	fmt.Printf("📖 %d book(s) in your library:\n\n", len(books))
	for _, book := range books {
		status := "not started"
		switch {
		case book.Completed():
			status = "finished"
		case book.Started():
			status = fmt.Sprintf("%d%% (%d/%d pages)", book.ProgressPercent(), book.PagesRead, book.TotalPages)
		}

		fmt.Printf("  %s by %s: %s\n", book.Title, book.Author, status)
		if cmd.ShowIDs {
			fmt.Printf("    id: %s\n", book.ID)
		}
	}
	return nil
}
