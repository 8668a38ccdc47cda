// Package cli implements the command-line subcommands that work directly on
// the local database, without going through the HTTP server.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/littyapp/litty/internal/config"
	"github.com/littyapp/litty/internal/content"
	"github.com/littyapp/litty/internal/database"
	"github.com/littyapp/litty/internal/database/librarystore"
	"github.com/littyapp/litty/internal/database/localstate"
	"github.com/littyapp/litty/internal/library"
	"github.com/littyapp/litty/internal/services"
)

// AddCommand adds a book to the library from the command line.
type AddCommand struct {
	DatabasePath string
	BackendURL   string
	Query        string
	Recommended  bool
}

// NewAddCommand creates a new AddCommand.
func NewAddCommand() *AddCommand {
	return &AddCommand{}
}

// ParseFlags parses command line flags.
func (cmd *AddCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the local database file")
	fs.StringVar(&cmd.BackendURL, "backend", config.DefaultBackendBaseURL, "Base URL of the book content backend")
	fs.StringVar(&cmd.Query, "query", "", "Book to search for (title or keywords)")
	fs.BoolVar(&cmd.Recommended, "recommended", false, "Treat the query as a recommended catalog title")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s add -query <book> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Search the content backend for a book and add it to the library.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s add -query dracula\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s add -query \"Moby Dick\" -recommended\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if strings.TrimSpace(cmd.Query) == "" {
		fs.Usage()
		return fmt.Errorf("-query is required")
	}
	return nil
}

// Run executes the add command.
func (cmd *AddCommand) Run() error {
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

	service := services.NewLibraryService(content.NewClient(cmd.BackendURL), store)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	var book library.Book
	if cmd.Recommended {
		book, err = service.AddRecommended(ctx, cmd.Query)
	} else {
		book, err = service.AddFromSearch(ctx, cmd.Query)
	}
	if err != nil {
		if errors.Is(err, library.ErrDuplicateTitle) {
			return fmt.Errorf("%q is already in your library", cmd.Query)
		}
		return fmt.Errorf("failed to add book: %w", err)
	}

	fmt.Printf("📚 Added %q by %s (%d pages)\n", book.Title, book.Author, book.TotalPages)
	return nil
}
