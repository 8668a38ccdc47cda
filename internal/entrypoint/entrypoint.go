package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/littyapp/litty/internal/config"
	"github.com/littyapp/litty/internal/content"
	"github.com/littyapp/litty/internal/database"
	"github.com/littyapp/litty/internal/database/librarystore"
	"github.com/littyapp/litty/internal/database/localstate"
	"github.com/littyapp/litty/internal/entities"
	http_controllers "github.com/littyapp/litty/internal/http"
	"github.com/littyapp/litty/internal/library"
	"github.com/littyapp/litty/internal/remote"
	"github.com/littyapp/litty/internal/scheduler"
	"github.com/littyapp/litty/internal/services"
	"github.com/littyapp/litty/internal/session"
	"github.com/littyapp/litty/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until an interrupt arrives, then drains it
// within the configured shutdown timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill (no param) sends syscall.SIGTERM, kill -2 is syscall.SIGINT.
	// kill -9 cannot be caught, so there is no point listening for it.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run wires up the whole application and serves it.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting Litty v%s", version)

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	stateRepo := localstate.NewRepository(db.DB)

	// The library lives behind a repository so the in-memory store survives
	// restarts through the entries table.
	libraryRepo := librarystore.NewRepository(stateRepo)
	store, err := library.NewStore(libraryRepo)
	if err != nil {
		log.Fatalf("Failed to load library: %v", err)
	}
	log.Printf("Library loaded with %d books", store.Len())

	// Content service client for full book text
	contentClient := content.NewClient(cfg.Backend.BaseURL)

	// Habit backend client. The token comes from config or, after a login
	// through another Litty client, from local state.
	token := cfg.Backend.Token
	if token == "" {
		if entry, err := stateRepo.Get(entities.KeyToken); err == nil {
			token = entry.Value
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("WARNING: could not read stored backend token: %v", err)
		}
	}
	if token == "" {
		log.Printf("WARNING: backend token is not set. Streaks and challenges will be unavailable. Set 'BACKEND_TOKEN' to enable.")
	}
	remoteClient := remote.NewClient(cfg.Backend.BaseURL, token)

	libraryService := services.NewLibraryService(contentClient, store)
	readingSession := session.NewController(contentClient, store)

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:           cfg.Tasks.Workers,
			MaxRetries:        cfg.Tasks.MaxRetries,
			RetryDelay:        cfg.Tasks.RetryDelay,
			TaskTimeout:       cfg.Tasks.TaskTimeout,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewLogReadingQueue(remoteClient),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	// Periodic streak refresh keeps the dashboard usable offline
	streakScheduler := scheduler.NewStreakSyncScheduler(
		remoteClient,
		stateRepo,
		cfg.StreakSync.Enabled && token != "",
		cfg.StreakSync.Schedule,
	)
	if err := streakScheduler.Start(context.Background()); err != nil {
		log.Printf("WARNING: streak sync scheduler failed to start: %v", err)
	}

	routerCfg := http_controllers.RouterConfig{
		Library:        store,
		LibraryService: libraryService,
		Session:        readingSession,
		Fetcher:        contentClient,
		Database:       db,
		Remote:         remoteClient,
		LocalState:     stateRepo,
		TaskClient:     taskClient,
		Version:        version,
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		streakScheduler.Stop()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
