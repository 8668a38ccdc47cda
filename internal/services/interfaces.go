package services

import (
	"context"

	"github.com/littyapp/litty/internal/content"
)

// ContentFetcher retrieves full book text for a search query.
type ContentFetcher interface {
	FetchContent(ctx context.Context, query string) (*content.BookContent, error)
}
