package config

// Default paths and endpoints
const (
	// DefaultDatabasePath is the default path for the local state database
	DefaultDatabasePath = "./litty.db"

	// DefaultBackendBaseURL is the single base URL for the external Litty
	// backend. Every endpoint path is resolved relative to it; no caller may
	// prepend its own /api prefix.
	DefaultBackendBaseURL = "http://localhost:8000/api"
)
