package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sashabaranov/go-openai"
	"github.com/yukikurage/teamdesk-api/internal/config"
	"github.com/yukikurage/teamdesk-api/internal/constants"
	"github.com/yukikurage/teamdesk-api/internal/database"
	"github.com/yukikurage/teamdesk-api/internal/handlers"
	"github.com/yukikurage/teamdesk-api/internal/liveview"
	"github.com/yukikurage/teamdesk-api/internal/middleware"
	"github.com/yukikurage/teamdesk-api/internal/realtime"
	"github.com/yukikurage/teamdesk-api/internal/repository"
	"github.com/yukikurage/teamdesk-api/internal/services"
	"github.com/yukikurage/teamdesk-api/internal/storage"
	"github.com/yukikurage/teamdesk-api/internal/telemetry"
	"github.com/yukikurage/teamdesk-api/internal/translator"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// feed is a realtime feed owned by main.
type feed interface {
	realtime.Feed
	Close()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := newLogger(cfg.GinMode)
	if err != nil {
		panic(err)
	}
	// Make zap available to packages that log through zap.L().
	zap.ReplaceGlobals(logger)
	defer func() {
		if err := logger.Sync(); err != nil {
			zap.L().Debug("failed to sync logger", zap.Error(err))
		}
	}()

	if err := translator.Init(cfg.DefaultLanguage); err != nil {
		logger.Fatal("failed to load translations", zap.Error(err))
	}

	flush, err := telemetry.Init(cfg.SentryDSN, cfg.GinMode)
	if err != nil {
		logger.Fatal("failed to initialize error reporting", zap.Error(err))
	}
	defer flush()

	gin.SetMode(cfg.GinMode)

	if err := database.Connect(cfg); err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}
	db := database.GetDB()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	changes := newFeed(ctx, cfg)
	defer changes.Close()

	store, err := storage.NewDiskStore(cfg.UploadDir, cfg.PublicBaseURL)
	if err != nil {
		logger.Fatal("failed to prepare upload directory", zap.Error(err))
	}

	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(openai.DefaultConfig(cfg.OpenAIAPIKey), cfg.OpenAIModel)
	}

	profileRepo := repository.NewProfileRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	notifier := services.NewNotifier(notificationRepo, changes)

	registry := liveview.NewRegistry()
	defer registry.CloseAll()

	r := gin.New()
	r.Use(gin.Recovery(), middleware.GinZapMiddleware(logger))
	r.Use(sessions.Sessions(constants.SessionCookieName, newSessionStore(cfg, logger)))
	r.Use(middleware.LanguageMiddleware(cfg.DefaultLanguage))
	r.Static("/uploads", store.Dir())

	handlers.RegisterRoutes(r, handlers.Dependencies{
		DB:       db,
		Profiles: services.NewProfileService(profileRepo, teamRepo, changes),
		Tasks:    services.NewTaskService(repository.NewTaskRepository(db), profileRepo, teamRepo, notifier, changes, aiService),
		Teams:    services.NewTeamService(teamRepo, profileRepo, changes),
		Inbox:    services.NewInboxService(notificationRepo, changes),
		Rooms:    services.NewRoomService(repository.NewRoomRepository(db), changes),
		Calendar: services.NewCalendarService(repository.NewCalendarRepository(db), teamRepo, changes),
		Uploads:  services.NewUploadService(store),
		Registry: registry,
		Feed:     changes,
		Logger:   logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("addr", srv.Addr), zap.String("realtime", cfg.RealtimeBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("could not start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	// Live streams only end once their views close.
	registry.CloseAll()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown incomplete", zap.Error(err))
	}
}

func newLogger(mode string) (*zap.Logger, error) {
	if mode == gin.DebugMode {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// newFeed builds the change feed for the configured backend. Redis and
// postgres bridges run until ctx is done and restart after failures.
func newFeed(ctx context.Context, cfg *config.Config) feed {
	switch cfg.RealtimeBackend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr(),
			Password: cfg.RedisPassword,
		})
		f := realtime.NewRedisFeed(client, cfg.RealtimeChannel)
		go realtime.Supervise(ctx, "redis", f.Run)
		return f
	case "postgres":
		f := realtime.NewPostgresFeed(database.GetDB(), cfg.PostgresDSN(), cfg.RealtimeChannel)
		go realtime.Supervise(ctx, "postgres", f.Run)
		return f
	default:
		return realtime.NewHub()
	}
}

func newSessionStore(cfg *config.Config, logger *zap.Logger) sessions.Store {
	store, err := redisStore.NewStore(
		10,              // Redis pool size
		"tcp",           // network type
		cfg.RedisAddr(), // Redis address from config
		cfg.RedisPassword,
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		logger.Fatal("failed to create redis session store", zap.Error(err))
	}

	// Configure session options based on environment
	isProduction := cfg.GinMode == gin.ReleaseMode
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
	})
	return store
}
