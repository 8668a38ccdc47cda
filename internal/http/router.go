package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Create controllers with appropriate interfaces
	health := NewHealthController(cfg.Database, cfg.Version)
	libraryController := NewLibraryController(cfg.Library, cfg.LibraryService, cfg.Fetcher)
	readerController := NewReaderController(cfg.Session, cfg.TaskClient)
	userController := NewUserController(cfg.Remote, cfg.LocalState)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Library endpoints
	router.GET("/api/library", libraryController.List)
	router.POST("/api/library", libraryController.Add)
	router.GET("/api/library/recommended", libraryController.Recommended)
	router.POST("/api/library/recommended", libraryController.AddRecommended)
	router.GET("/api/library/current", libraryController.Current)
	router.GET("/api/library/stats", libraryController.Stats)
	router.DELETE("/api/library/:id", libraryController.Remove)
	router.POST("/api/library/:id/progress", libraryController.UpdateProgress)

	// Content search endpoint (preview without adding)
	router.GET("/api/books/search", libraryController.Search)

	// Reader endpoints
	router.POST("/api/reader/open", readerController.Open)
	router.GET("/api/reader/page", readerController.Page)
	router.POST("/api/reader/next", readerController.Next)
	router.POST("/api/reader/previous", readerController.Previous)
	router.POST("/api/reader/close", readerController.Close)

	// User endpoints (streaks and challenges via the habit backend)
	router.GET("/api/user/streak", userController.Streak)
	router.GET("/api/user/challenges", userController.Challenges)
	router.GET("/api/challenges", userController.AvailableChallenges)
	router.POST("/api/challenges/:id/start", userController.StartChallenge)
	router.POST("/api/challenges/:id/abandon", userController.AbandonChallenge)

	return router
}
