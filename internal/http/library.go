package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/littyapp/litty/internal/content"
	"github.com/littyapp/litty/internal/library"
	"github.com/littyapp/litty/internal/services"
)

// LibraryController serves the personal book collection.
type LibraryController struct {
	store   *library.Store
	service *services.LibraryService
	fetcher services.ContentFetcher
}

func NewLibraryController(store *library.Store, service *services.LibraryService, fetcher services.ContentFetcher) *LibraryController {
	return &LibraryController{
		store:   store,
		service: service,
		fetcher: fetcher,
	}
}

// List returns the whole collection, newest first.
func (controller *LibraryController) List(c *gin.Context) {
	books := controller.store.All()
	c.IndentedJSON(http.StatusOK, gin.H{"books": books, "count": len(books)})
}

type addBookRequest struct {
	Query string `json:"query" binding:"required"`
}

// Add searches the content service and adds the result to the library.
func (controller *LibraryController) Add(c *gin.Context) {
	var req addBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "query is required")
		return
	}

	book, err := controller.service.AddFromSearch(c.Request.Context(), req.Query)
	switch {
	case errors.Is(err, library.ErrDuplicateTitle):
		respondConflict(c, "book is already in your library")
	case errors.Is(err, content.ErrUnavailable), errors.Is(err, content.ErrEmptyContent):
		respondBadGateway(c, "book not found or service unavailable")
	case err != nil:
		respondInternalError(c, err, "add book")
	default:
		respondCreated(c, book)
	}
}

type addRecommendedRequest struct {
	Title string `json:"title" binding:"required"`
}

// AddRecommended adds a book from the curated classics catalog. A content
// fetch failure still adds the book with placeholder text.
func (controller *LibraryController) AddRecommended(c *gin.Context) {
	var req addRecommendedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "title is required")
		return
	}

	book, err := controller.service.AddRecommended(c.Request.Context(), req.Title)
	switch {
	case errors.Is(err, library.ErrDuplicateTitle):
		respondConflict(c, "book is already in your library")
	case err != nil:
		respondBadRequest(c, err.Error())
	default:
		respondCreated(c, book)
	}
}

// Recommended returns the curated classics catalog.
func (controller *LibraryController) Recommended(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, gin.H{"books": controller.service.Recommended()})
}

// Current returns the book to resume reading, or null when none is in
// progress.
func (controller *LibraryController) Current(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, gin.H{"book": controller.service.CurrentlyReading()})
}

// Stats summarizes the collection.
func (controller *LibraryController) Stats(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, controller.service.Stats())
}

// Remove deletes a book. Removing an absent id succeeds, so the operation is
// safe to retry.
func (controller *LibraryController) Remove(c *gin.Context) {
	id := c.Param("id")
	if err := controller.store.Remove(id); err != nil {
		respondInternalError(c, err, "remove book")
		return
	}
	respondSuccess(c, "book removed")
}

type progressRequest struct {
	PagesRead *int `json:"pages_read" binding:"required"`
}

// UpdateProgress sets a book's pages-read counter directly.
func (controller *LibraryController) UpdateProgress(c *gin.Context) {
	id := c.Param("id")

	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "pages_read is required")
		return
	}

	if _, err := controller.store.FindByID(id); err != nil {
		respondNotFound(c, "book")
		return
	}

	if err := controller.store.UpdateProgress(id, *req.PagesRead); err != nil {
		respondInternalError(c, err, "update progress")
		return
	}

	book, err := controller.store.FindByID(id)
	if err != nil {
		respondInternalError(c, err, "update progress")
		return
	}
	c.IndentedJSON(http.StatusOK, book)
}

// Search proxies a content search without adding anything to the library,
// so the result can be previewed first.
func (controller *LibraryController) Search(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		respondBadRequest(c, "query parameter is required")
		return
	}

	result, err := controller.fetcher.FetchContent(c.Request.Context(), query)
	if err != nil {
		respondBadGateway(c, "book not found or service unavailable")
		return
	}
	c.IndentedJSON(http.StatusOK, result)
}
