package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/yukikurage/taskboard-api/internal/calendar"
	"github.com/yukikurage/taskboard-api/internal/config"
	"github.com/yukikurage/taskboard-api/internal/constants"
	"github.com/yukikurage/taskboard-api/internal/database"
	"github.com/yukikurage/taskboard-api/internal/handlers"
	"github.com/yukikurage/taskboard-api/internal/i18n"
	"github.com/yukikurage/taskboard-api/internal/logger"
	"github.com/yukikurage/taskboard-api/internal/middleware"
	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/notify"
	"github.com/yukikurage/taskboard-api/internal/repository"
	"github.com/yukikurage/taskboard-api/internal/seed"
	"github.com/yukikurage/taskboard-api/internal/services"
	"github.com/yukikurage/taskboard-api/internal/store"
	"github.com/yukikurage/taskboard-api/internal/utils"
)

const (
	defaultSessionSecret = "default-secret-key-change-me"
	reportInterval       = time.Minute
	shutdownTimeout      = 10 * time.Second
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	lg, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build logger")
	}
	log.Logger = lg

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		lg.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		lg.Fatal().Err(err).Msg("failed to run migrations")
	}

	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	snapshotRepo := repository.NewSnapshotRepository(db)
	preferenceRepo := repository.NewPreferenceRepository(db)

	if cfg.SeedDemoData {
		if err := seed.EnsureUsers(userRepo); err != nil {
			lg.Fatal().Err(err).Msg("failed to seed users")
		}
	}

	translator, err := i18n.New(cfg.DefaultLanguage)
	if err != nil {
		lg.Fatal().Err(err).Msg("failed to load translations")
	}
	formatter, err := calendar.New(cfg.Calendar)
	if err != nil {
		lg.Fatal().Err(err).Msg("failed to select calendar")
	}

	// The hub needs the board service for access checks, and both receive
	// the store's events.
	var boardService *services.BoardService
	hub := notify.NewHub(func(userID, boardID string) bool {
		_, err := boardService.BoardFor(userID, boardID)
		return err == nil
	}, cfg.CORSOrigins, lg.With().Str("component", "hub").Logger())

	sinks := store.Sinks{hub}
	st := store.New(store.WithEventSink(&sinks))
	boardService = services.NewBoardService(st, snapshotRepo, lg.With().Str("component", "boards").Logger())
	sinks = append(sinks, boardService)

	var seedBoards func(*store.Store) error
	if cfg.SeedDemoData {
		seedBoards = seed.Boards(time.Now())
	}
	if err := boardService.Restore(seedBoards); err != nil {
		lg.Fatal().Err(err).Msg("failed to restore boards")
	}

	reportService := services.NewReportService(st, services.LogMailer{Logger: lg}, translator, formatter,
		lg.With().Str("component", "reports").Logger())

	// Initialize AI service
	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey)
	}

	sessionStore, err := newSessionStore(cfg, lg)
	if err != nil {
		lg.Fatal().Err(err).Msg("failed to create session store")
	}

	// Initialize Gin router
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(lg))
	r.Use(sessions.Sessions(constants.SessionName, sessionStore))
	r.Use(middleware.Localize(translator))

	registerRoutes(r, routeDeps{
		auth:        handlers.NewAuthHandler(services.NewAuthService(userRepo)),
		boards:      handlers.NewBoardHandler(boardService, lg),
		tasks:       handlers.NewTaskHandler(boardService, aiService, formatter, lg),
		prefs:       handlers.NewPreferenceHandler(preferenceRepo, lg),
		snapshots:   handlers.NewSnapshotHandler(snapshotRepo),
		ws:          handlers.NewWSHandler(hub, lg),
		boardLoader: boardService,
	})

	srv := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: cors.New(cors.Options{
			AllowedOrigins:   cfg.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
			AllowedHeaders:   []string{"Content-Type", "Accept-Language"},
			AllowCredentials: true,
		}).Handler(r),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lg.Info().Str("addr", cfg.HTTPAddr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error { return hub.Run(gctx) })
	g.Go(func() error { return boardService.Run(gctx) })
	g.Go(func() error { return reportService.Run(gctx, reportInterval) })

	if err := g.Wait(); err != nil {
		lg.Fatal().Err(err).Msg("server stopped")
	}
	lg.Info().Msg("server stopped")
}

func newSessionStore(cfg *config.Config, lg zerolog.Logger) (sessions.Store, error) {
	secret := cfg.SessionSecret
	if secret == "" || (secret == defaultSessionSecret && cfg.Env == config.EnvLocal) {
		generated, err := utils.GenerateSecret(32)
		if err != nil {
			return nil, err
		}
		lg.Warn().Msg("SESSION_SECRET not set, sessions will not survive a restart")
		secret = generated
	}

	var store sessions.Store
	if addr := cfg.Redis.Addr(); addr != "" {
		rs, err := redisStore.NewStore(
			10,    // Redis pool size
			"tcp", // network type
			addr,
			"", // username (empty for default user)
			"", // password (empty = no password)
			[]byte(secret),
		)
		if err != nil {
			return nil, err
		}
		store = rs
	} else {
		store = cookie.NewStore([]byte(secret))
	}

	// Configure session options based on environment
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   constants.SessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}

func requestLogger(lg zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		lg.Debug().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

type routeDeps struct {
	auth        *handlers.AuthHandler
	boards      *handlers.BoardHandler
	tasks       *handlers.TaskHandler
	prefs       *handlers.PreferenceHandler
	snapshots   *handlers.SnapshotHandler
	ws          *handlers.WSHandler
	boardLoader middleware.BoardLoader
}

func registerRoutes(r *gin.Engine, d routeDeps) {
	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Task Board API is running",
		})
	})

	editor := middleware.RequireBoardRole(models.RoleEditor)
	owner := middleware.RequireBoardRole(models.RoleOwner)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", d.auth.Signup)
			auth.POST("/login", d.auth.Login)
			auth.POST("/logout", d.auth.Logout)
			auth.GET("/me", middleware.RequireAuth(), d.auth.GetCurrentUser)
		}

		protected := api.Group("")
		protected.Use(middleware.RequireAuth())
		{
			protected.GET("/users", d.auth.ListUsers)
			protected.GET("/snapshots", d.snapshots.ListSnapshots)
			protected.GET("/ws", d.ws.Connect)

			protected.GET("/preferences/:key", d.prefs.GetPreference)
			protected.PUT("/preferences/:key", d.prefs.PutPreference)
			protected.DELETE("/preferences/:key", d.prefs.DeletePreference)

			protected.GET("/boards", d.boards.ListBoards)
			protected.POST("/boards", d.boards.CreateBoard)
		}

		// Board routes (protected, board must be visible)
		board := protected.Group("/boards/:id")
		board.Use(middleware.RequireBoardAccess(d.boardLoader))
		{
			board.GET("", d.boards.GetBoard)
			board.PATCH("", editor, d.boards.UpdateBoard)
			board.DELETE("", owner, d.boards.DeleteBoard)
			board.PUT("/shares", owner, d.boards.ShareBoard)
			board.DELETE("/shares/:user_id", owner, d.boards.UnshareBoard)

			board.GET("/tasks", d.tasks.ListTasks)
			board.GET("/calendar", d.tasks.Calendar)
			board.GET("/export.ics", d.tasks.ExportICS)

			board.POST("/columns", d.boards.CreateColumn)
			board.PATCH("/columns/:column_id", d.boards.RenameColumn)
			board.POST("/columns/:column_id/archive", d.boards.ArchiveColumn)
			board.POST("/columns/:column_id/restore", d.boards.RestoreColumn)
			board.POST("/columns/:column_id/copy", d.boards.CopyColumn)
			board.DELETE("/columns/:column_id", d.boards.DeleteColumn)

			board.POST("/drag", d.boards.Drag)

			board.PUT("/labels", d.boards.PutLabel)
			board.DELETE("/labels/:label_id", d.boards.DeleteLabel)

			board.POST("/tasks", d.tasks.CreateTask)
			board.GET("/tasks/:task_id", d.tasks.GetTask)
			board.PATCH("/tasks/:task_id", d.tasks.UpdateTask)
			board.DELETE("/tasks/:task_id", d.tasks.DeleteTask)
			board.GET("/tasks/:task_id/activity", d.tasks.Activity)
			board.POST("/tasks/:task_id/move", d.tasks.MoveTask)
			board.POST("/tasks/:task_id/complete", d.tasks.CompleteTask)
			board.POST("/tasks/:task_id/archive", d.tasks.ArchiveTask)
			board.POST("/tasks/:task_id/restore", d.tasks.RestoreTask)
			board.POST("/tasks/:task_id/comments", d.tasks.AddComment)
			board.POST("/tasks/:task_id/reactions", d.tasks.ToggleReaction)
			board.POST("/tasks/:task_id/checklist", d.tasks.AddChecklistItem)
			board.POST("/tasks/:task_id/checklist/:item_id/toggle", d.tasks.ToggleChecklistItem)

			board.POST("/draft-tasks", editor, d.tasks.DraftTasks)

			board.GET("/reports", d.boards.ListReports)
			board.POST("/reports", d.boards.CreateReport)
			board.DELETE("/reports/:report_id", d.boards.DeleteReport)
		}
	}
}
