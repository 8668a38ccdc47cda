package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/littyapp/litty/internal/content"
	"github.com/littyapp/litty/internal/library"
	"github.com/littyapp/litty/internal/services"
)

type stubFetcher struct {
	result *content.BookContent
	err    error
}

func (f *stubFetcher) FetchContent(_ context.Context, _ string) (*content.BookContent, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func setupLibraryController(t *testing.T, fetcher *stubFetcher) (*LibraryController, *library.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := library.NewStore(library.NewMemoryRepository())
	require.NoError(t, err)
	service := services.NewLibraryService(fetcher, store)
	return NewLibraryController(store, service, fetcher), store
}

func postJSON(router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestLibraryController_List(t *testing.T) {
	t.Run("returns empty list when no books", func(t *testing.T) {
		controller, _ := setupLibraryController(t, &stubFetcher{})

		router := gin.New()
		router.GET("/api/library", controller.List)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/library", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, float64(0), response["count"])
		assert.Empty(t, response["books"])
	})

	t.Run("returns books newest first", func(t *testing.T) {
		controller, store := setupLibraryController(t, &stubFetcher{})

		require.NoError(t, store.Add(library.NewBook("First", "A", "", 10, "")))
		require.NoError(t, store.Add(library.NewBook("Second", "B", "", 10, "")))

		router := gin.New()
		router.GET("/api/library", controller.List)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/library", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response struct {
			Books []library.Book `json:"books"`
			Count int            `json:"count"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, 2, response.Count)
		assert.Equal(t, "Second", response.Books[0].Title)
	})
}

func TestLibraryController_Add(t *testing.T) {
	t.Run("adds book from search", func(t *testing.T) {
		fetcher := &stubFetcher{result: &content.BookContent{
			Title:          "Dracula",
			Author:         "Bram Stoker",
			FullText:       "some text",
			EstimatedPages: 120,
		}}
		controller, store := setupLibraryController(t, fetcher)

		router := gin.New()
		router.POST("/api/library", controller.Add)

		w := postJSON(router, "/api/library", gin.H{"query": "dracula"})
		assert.Equal(t, http.StatusCreated, w.Code)

		var book library.Book
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &book))
		assert.Equal(t, "Dracula", book.Title)
		assert.Equal(t, 120, book.TotalPages)
		assert.Equal(t, 1, store.Len())
	})

	t.Run("returns 400 when query missing", func(t *testing.T) {
		controller, _ := setupLibraryController(t, &stubFetcher{})

		router := gin.New()
		router.POST("/api/library", controller.Add)

		w := postJSON(router, "/api/library", gin.H{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("returns 409 for duplicate title", func(t *testing.T) {
		fetcher := &stubFetcher{result: &content.BookContent{
			Title: "Dracula", Author: "Bram Stoker", FullText: "text", EstimatedPages: 120,
		}}
		controller, _ := setupLibraryController(t, fetcher)

		router := gin.New()
		router.POST("/api/library", controller.Add)

		w := postJSON(router, "/api/library", gin.H{"query": "dracula"})
		require.Equal(t, http.StatusCreated, w.Code)

		w = postJSON(router, "/api/library", gin.H{"query": "dracula"})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "already in your library")
	})

	t.Run("returns 502 when content service is down", func(t *testing.T) {
		controller, store := setupLibraryController(t, &stubFetcher{err: content.ErrUnavailable})

		router := gin.New()
		router.POST("/api/library", controller.Add)

		w := postJSON(router, "/api/library", gin.H{"query": "dracula"})
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, 0, store.Len())
	})
}

func TestLibraryController_AddRecommended(t *testing.T) {
	t.Run("falls back to placeholder when fetch fails", func(t *testing.T) {
		controller, store := setupLibraryController(t, &stubFetcher{err: errors.New("timeout")})

		router := gin.New()
		router.POST("/api/library/recommended", controller.AddRecommended)

		w := postJSON(router, "/api/library/recommended", gin.H{"title": "Frankenstein"})
		assert.Equal(t, http.StatusCreated, w.Code)

		var book library.Book
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &book))
		assert.Equal(t, 300, book.TotalPages)
		assert.Equal(t, 1, store.Len())
	})

	t.Run("rejects unknown recommended title", func(t *testing.T) {
		controller, _ := setupLibraryController(t, &stubFetcher{})

		router := gin.New()
		router.POST("/api/library/recommended", controller.AddRecommended)

		w := postJSON(router, "/api/library/recommended", gin.H{"title": "Not A Classic"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLibraryController_Recommended(t *testing.T) {
	controller, _ := setupLibraryController(t, &stubFetcher{})

	router := gin.New()
	router.GET("/api/library/recommended", controller.Recommended)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/library/recommended", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Books []services.RecommendedBook `json:"books"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response.Books, 6)
}

func TestLibraryController_Remove(t *testing.T) {
	t.Run("removes existing book", func(t *testing.T) {
		controller, store := setupLibraryController(t, &stubFetcher{})
		book := library.NewBook("Dracula", "Bram Stoker", "", 10, "")
		require.NoError(t, store.Add(book))

		router := gin.New()
		router.DELETE("/api/library/:id", controller.Remove)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("DELETE", "/api/library/"+book.ID, nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 0, store.Len())
	})

	t.Run("removing an unknown id succeeds", func(t *testing.T) {
		controller, _ := setupLibraryController(t, &stubFetcher{})

		router := gin.New()
		router.DELETE("/api/library/:id", controller.Remove)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("DELETE", "/api/library/no-such-id", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestLibraryController_UpdateProgress(t *testing.T) {
	t.Run("updates and clamps progress", func(t *testing.T) {
		controller, store := setupLibraryController(t, &stubFetcher{})
		book := library.NewBook("Dracula", "Bram Stoker", "", 10, "")
		require.NoError(t, store.Add(book))

		router := gin.New()
		router.POST("/api/library/:id/progress", controller.UpdateProgress)

		w := postJSON(router, "/api/library/"+book.ID+"/progress", gin.H{"pages_read": 99})
		assert.Equal(t, http.StatusOK, w.Code)

		var updated library.Book
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
		assert.Equal(t, 10, updated.PagesRead)
		assert.NotNil(t, updated.LastRead)
	})

	t.Run("returns 404 for unknown book", func(t *testing.T) {
		controller, _ := setupLibraryController(t, &stubFetcher{})

		router := gin.New()
		router.POST("/api/library/:id/progress", controller.UpdateProgress)

		w := postJSON(router, "/api/library/nope/progress", gin.H{"pages_read": 3})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestLibraryController_Search(t *testing.T) {
	t.Run("returns fetched content", func(t *testing.T) {
		fetcher := &stubFetcher{result: &content.BookContent{
			Title:          "Dracula",
			Author:         "Bram Stoker",
			FullText:       "text",
			WordCount:      1,
			EstimatedPages: 50,
		}}
		controller, _ := setupLibraryController(t, fetcher)

		router := gin.New()
		router.GET("/api/books/search", controller.Search)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/books/search?query=dracula", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Dracula")
	})

	t.Run("returns 400 when query missing", func(t *testing.T) {
		controller, _ := setupLibraryController(t, &stubFetcher{})

		router := gin.New()
		router.GET("/api/books/search", controller.Search)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/books/search", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLibraryController_CurrentAndStats(t *testing.T) {
	controller, store := setupLibraryController(t, &stubFetcher{})

	inProgress := library.NewBook("Halfway", "B", "", 10, "")
	inProgress.PagesRead = 5
	require.NoError(t, store.Add(inProgress))

	router := gin.New()
	router.GET("/api/library/current", controller.Current)
	router.GET("/api/library/stats", controller.Stats)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/library/current", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Halfway")

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/library/stats", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var stats services.LibraryStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, services.LibraryStats{Total: 1, Started: 1, Completed: 0}, stats)
}
