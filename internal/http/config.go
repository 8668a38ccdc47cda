package http

import (
	"github.com/littyapp/litty/internal/database"
	"github.com/littyapp/litty/internal/database/localstate"
	"github.com/littyapp/litty/internal/library"
	"github.com/littyapp/litty/internal/remote"
	"github.com/littyapp/litty/internal/services"
	"github.com/littyapp/litty/internal/session"
	"github.com/littyapp/litty/internal/tasks"
)

// RouterConfig contains all dependencies and configuration needed to create
// the HTTP router. This replaces a long parameter list in NewRouter.
type RouterConfig struct {
	// Core dependencies
	Library        *library.Store
	LibraryService *services.LibraryService
	Session        *session.Controller
	Fetcher        services.ContentFetcher
	Database       *database.Database

	// External habit backend (streaks, challenges); may be nil when the
	// backend is not configured.
	Remote *remote.Client

	// Cached client state (streak fallback and the like)
	LocalState *localstate.Repository

	// Task queue client (optional)
	TaskClient *tasks.Client

	// Application info
	Version string
}
