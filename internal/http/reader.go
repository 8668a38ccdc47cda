package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/littyapp/litty/internal/library"
	"github.com/littyapp/litty/internal/session"
	"github.com/littyapp/litty/internal/tasks"
)

// ReaderController drives the single active reading session.
type ReaderController struct {
	session    *session.Controller
	taskClient *tasks.Client
}

func NewReaderController(sess *session.Controller, taskClient *tasks.Client) *ReaderController {
	return &ReaderController{
		session:    sess,
		taskClient: taskClient,
	}
}

type openRequest struct {
	BookID string `json:"book_id" binding:"required"`
}

// Open starts a reading session on a library book, resuming at its saved
// progress. Opening over an existing session replaces it.
func (controller *ReaderController) Open(c *gin.Context) {
	var req openRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "book_id is required")
		return
	}

	if err := controller.session.Open(c.Request.Context(), req.BookID); err != nil {
		if errors.Is(err, library.ErrNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "open session")
		return
	}

	c.IndentedJSON(http.StatusOK, controller.session.Snapshot())
}

// Page returns the current page of the active session.
func (controller *ReaderController) Page(c *gin.Context) {
	view := controller.session.Snapshot()
	if view.State != session.StateReady {
		respondConflict(c, "no readable session open")
		return
	}
	c.IndentedJSON(http.StatusOK, view)
}

// Next turns to the next page. At the last page the session view is returned
// unchanged with its completed flag set.
func (controller *ReaderController) Next(c *gin.Context) {
	_, err := controller.session.NextPage()
	switch {
	case errors.Is(err, session.ErrNotReady):
		respondConflict(c, "no readable session open")
	case errors.Is(err, session.ErrLastPage):
		c.IndentedJSON(http.StatusOK, controller.session.Snapshot())
	case err != nil:
		respondInternalError(c, err, "next page")
	default:
		c.IndentedJSON(http.StatusOK, controller.session.Snapshot())
	}
}

// Previous turns back one page.
func (controller *ReaderController) Previous(c *gin.Context) {
	_, err := controller.session.PreviousPage()
	switch {
	case errors.Is(err, session.ErrNotReady):
		respondConflict(c, "no readable session open")
	case errors.Is(err, session.ErrFirstPage):
		c.IndentedJSON(http.StatusOK, controller.session.Snapshot())
	case err != nil:
		respondInternalError(c, err, "previous page")
	default:
		c.IndentedJSON(http.StatusOK, controller.session.Snapshot())
	}
}

// Close ends the session. Sessions with forward progress are reported to the
// habit backend through the task queue so streaks and challenges advance.
func (controller *ReaderController) Close(c *gin.Context) {
	summary := controller.session.Close()

	if controller.taskClient != nil && summary.PagesRead > 0 {
		task := tasks.LogReadingTask{
			ReadingSeconds: int(summary.Duration.Seconds()),
			PageCount:      summary.PagesRead,
		}
		if _, err := controller.taskClient.Add(task).Save(); err != nil {
			// The session is already closed; losing the log entry is
			// preferable to failing the close.
			log.Printf("Failed to enqueue reading log: %v", err)
		}
	}

	c.IndentedJSON(http.StatusOK, gin.H{
		"book_id":    summary.BookID,
		"title":      summary.Title,
		"pages_read": summary.PagesRead,
		"seconds":    int(summary.Duration.Seconds()),
		"completed":  summary.Completed,
	})
}
