package main

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

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/hsm-gustavo/book-muse-backend/internal/cache"
	"github.com/hsm-gustavo/book-muse-backend/internal/config"
	"github.com/hsm-gustavo/book-muse-backend/internal/database"
	"github.com/hsm-gustavo/book-muse-backend/internal/logger"
	"github.com/hsm-gustavo/book-muse-backend/internal/mail"
	"github.com/hsm-gustavo/book-muse-backend/internal/openlibrary"
	postgresrepo "github.com/hsm-gustavo/book-muse-backend/internal/repository/postgres"
	"github.com/hsm-gustavo/book-muse-backend/internal/service"
	"github.com/hsm-gustavo/book-muse-backend/internal/storage"
	"github.com/hsm-gustavo/book-muse-backend/internal/transport/http/handlers"
	"github.com/hsm-gustavo/book-muse-backend/internal/transport/http/middleware"
	"github.com/hsm-gustavo/book-muse-backend/internal/transport/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logg, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer logg.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logg *zap.Logger) error {
	// Database
	pool, err := database.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()
	if err := database.Migrate(ctx, pool, logg); err != nil {
		return err
	}
	logg.Info("connected to database")

	// Redis
	rdb, err := cache.Connect(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	defer rdb.Close()
	store := cache.NewStore(rdb, logg)

	// Object storage
	objects, err := storage.NewR2(ctx, storage.Options{
		Endpoint:  cfg.R2Endpoint,
		Region:    cfg.R2Region,
		AccessKey: cfg.R2AccessKey,
		SecretKey: cfg.R2SecretKey,
		Bucket:    cfg.R2Bucket,
		PublicURL: cfg.R2PublicURL,
	})
	if err != nil {
		return err
	}

	// Repositories
	userRepo := postgresrepo.NewUserRepo(pool)
	tokenRepo := postgresrepo.NewRefreshTokenRepo(pool)
	followRepo := postgresrepo.NewFollowRepo(pool)
	reviewRepo := postgresrepo.NewReviewRepo(pool)
	statusRepo := postgresrepo.NewReadingStatusRepo(pool)

	// Services
	issuer := service.NewTokenIssuer(cfg.JWTSecret, cfg.JWTAudience, cfg.JWTIssuer, cfg.JWTTTL)
	profiles := service.NewProfileCache(store, followRepo, statusRepo)
	authService := service.NewAuthService(userRepo, tokenRepo, issuer)
	userService := service.NewUserService(userRepo, reviewRepo, statusRepo, profiles, objects, logg)
	followService := service.NewFollowService(followRepo, userRepo)
	reviewService := service.NewReviewService(reviewRepo, userRepo)
	statusService := service.NewReadingStatusService(statusRepo)
	bookService := service.NewBookService(openlibrary.NewClient(cfg.OpenLibraryBaseURL), store, cfg.BookCacheTTL, logg)

	// Welcome mail
	if cfg.SendGridAPIKey != "" {
		redisOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("parsing redis url for task queue: %w", err)
		}

		queue := mail.NewQueue(redisOpt, logg)
		defer queue.Close()
		userService.SetMailer(queue)

		worker := mail.NewServer(redisOpt, logg)
		sender := mail.NewSendGridSender(cfg.SendGridAPIKey, cfg.MailFrom)
		if err := worker.Start(mail.NewServeMux(mail.NewHandler(sender, logg))); err != nil {
			return fmt.Errorf("starting mail worker: %w", err)
		}
		defer worker.Shutdown()
		logg.Info("welcome mail enabled")
	} else {
		logg.Info("welcome mail disabled, SENDGRID_API_KEY not set")
	}

	// WebSocket hub
	hub := ws.NewHub(logg)
	go hub.Run(ctx)
	notifier := ws.NewHubNotifier(hub)
	followService.SetNotifier(notifier)
	reviewService.SetNotifier(notifier)

	// Routes
	mux := http.NewServeMux()
	handlers.Router{
		Auth:          handlers.NewAuthHandler(authService, logg),
		Users:         handlers.NewUserHandler(userService, logg),
		Follows:       handlers.NewFollowHandler(followService, logg),
		Reviews:       handlers.NewReviewHandler(reviewService, logg),
		ReadingStatus: handlers.NewReadingStatusHandler(statusService, logg),
		Books:         handlers.NewBookHandler(bookService, logg),
		WS:            ws.ServeWS(hub, issuer, logg),
		RequireAuth:   middleware.Auth(issuer),
		OptionalAuth:  middleware.OptionalAuth(issuer),
		AuthLimit:     middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst).Middleware,
	}.Mount(mux)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           middleware.RequestLog(logg)(middleware.CORS(mux)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logg.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
