package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"learnhub/internal/cache"
	"learnhub/internal/config"
	"learnhub/internal/database"
	"learnhub/internal/handler"
	"learnhub/internal/imagehost"
	"learnhub/internal/mailer"
	"learnhub/internal/middleware"
	"learnhub/internal/repository"
	"learnhub/internal/router"
	"learnhub/internal/service"
)

type App struct {
	server       *http.Server
	cleanupFuncs []func()
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	slog.Info("connecting to MongoDB")
	db, err := database.Connect(context.Background(), cfg.MongoURL, cfg.MongoDatabase)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	redisClient, err := cache.Connect(context.Background(), cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		_ = db.Close(context.Background())
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	sessions := cache.NewSessionStore(redisClient, cfg.SessionTTL)
	catalog := cache.NewCatalogStore(redisClient, 0)

	userRepo, err := repository.NewUserMongoRepository(context.Background(), db.Database())
	if err != nil {
		_ = db.Close(context.Background())
		return nil, fmt.Errorf("failed to initialize user repository: %w", err)
	}
	courseRepo := repository.NewCourseMongoRepository(db.Database())
	orderRepo := repository.NewOrderMongoRepository(db.Database())
	notificationRepo := repository.NewNotificationMongoRepository(db.Database())
	slog.Info("database ready")

	tokenService, err := service.NewTokenService(
		cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.ActivationSecret,
		cfg.AccessTokenTTL, cfg.RefreshTokenTTL, cfg.ActivationTokenTTL,
	)
	if err != nil {
		_ = db.Close(context.Background())
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}

	mail, err := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
	if err != nil {
		_ = db.Close(context.Background())
		return nil, fmt.Errorf("failed to initialize mailer: %w", err)
	}
	images := imagehost.New(cfg.ImageHostURL, cfg.ImageHostAPIKey)

	authService := service.NewAuthService(userRepo, sessions, tokenService, mail)
	userService := service.NewUserService(userRepo, sessions, images)
	courseService := service.NewCourseService(courseRepo, userRepo, catalog, notificationRepo, images, mail)
	orderService := service.NewOrderService(orderRepo, courseRepo, userRepo, sessions, catalog, notificationRepo, mail)
	notificationService := service.NewNotificationService(notificationRepo)
	analyticsService := service.NewAnalyticsService(userRepo, courseRepo, orderRepo)

	authMiddleware := middleware.NewAuthMiddleware(tokenService, sessions)
	cookies := handler.NewCookieManager(cfg.AccessTokenTTL, cfg.RefreshTokenTTL, cfg.CookieSecure)

	appRouter := router.New(
		cfg,
		authMiddleware,
		handler.NewAuthHandler(authService, cookies),
		handler.NewUserHandler(userService),
		handler.NewCourseHandler(courseService),
		handler.NewOrderHandler(orderService),
		handler.NewNotificationHandler(notificationService),
		handler.NewAnalyticsHandler(analyticsService),
	)

	pruneCtx, pruneCancel := context.WithCancel(context.Background())
	go pruneNotifications(pruneCtx, notificationRepo)

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server: server,
		cleanupFuncs: []func(){
			pruneCancel,
			func() {
				_ = redisClient.Close()
			},
			func() {
				_ = db.Close(context.Background())
			},
		},
	}, nil
}

// pruneNotifications removes read notifications older than 30 days,
// once a day.
func pruneNotifications(ctx context.Context, notifications repository.NotificationRepository) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().AddDate(0, 0, -30)
			deleted, err := notifications.DeleteReadOlderThan(ctx, cutoff)
			if err != nil {
				slog.Error("notification prune failed", "error", err)
				continue
			}
			if deleted > 0 {
				slog.Info("pruned notifications", "deleted", deleted)
			}
		}
	}
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
