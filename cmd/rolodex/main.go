package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	appauth "github.com/rolodexhq/rolodex/internal/application/auth"
	"github.com/rolodexhq/rolodex/internal/application/ports"
	"github.com/rolodexhq/rolodex/internal/application/users"
	"github.com/rolodexhq/rolodex/internal/config"
	infraauth "github.com/rolodexhq/rolodex/internal/infrastructure/auth"
	"github.com/rolodexhq/rolodex/internal/infrastructure/avatar"
	"github.com/rolodexhq/rolodex/internal/infrastructure/cache"
	httprouter "github.com/rolodexhq/rolodex/internal/infrastructure/http"
	"github.com/rolodexhq/rolodex/internal/infrastructure/http/handlers"
	"github.com/rolodexhq/rolodex/internal/infrastructure/http/middleware"
	"github.com/rolodexhq/rolodex/internal/infrastructure/persistence/postgres"
	"github.com/rolodexhq/rolodex/internal/infrastructure/queue"
	"github.com/rolodexhq/rolodex/internal/infrastructure/security"
	"github.com/rolodexhq/rolodex/internal/infrastructure/webhook"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to database")
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("ping database")
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis ping failed; continuing without redis")
			redisClient = nil
		}
	}

	healthHandler := handlers.NewHealthHandler(pool, redisClient)

	userRepo := postgres.NewUserRepository(pool)
	contactRepo := postgres.NewContactRepository(pool)

	var userCache ports.UserCache
	if redisClient != nil {
		userCache = cache.NewRedisUserCache(redisClient, cache.DefaultUserTTL)
	}

	// The emitter handed to handlers is async when the queue is available:
	// requests enqueue the event and the worker does the HTTP delivery.
	var emitter ports.WebhookEmitter
	if cfg.Webhook.URL != "" {
		emitter = webhook.NewHTTPEmitter(cfg.Webhook.URL, cfg.Webhook.Secret)
	}

	var taskEnqueuer ports.TaskEnqueuer
	var asynqWorker *queue.Worker
	if redisClient != nil {
		asynqOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}
		asynqEnq, err := queue.NewAsynqEnqueuer(asynqOpt, log)
		if err != nil {
			log.Fatal().Err(err).Msg("create asynq enqueuer")
		}
		defer asynqEnq.Close()
		taskEnqueuer = asynqEnq
		asynqWorker = queue.NewWorker(asynqOpt, queue.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		}, emitter, log)
		go func() {
			if err := asynqWorker.Run(); err != nil {
				log.Warn().Err(err).Msg("asynq worker stopped")
			}
		}()
		if emitter != nil {
			emitter = queue.NewAsyncEmitter(taskEnqueuer)
		}
	} else {
		taskEnqueuer = queue.NewNoopEnqueuer()
	}

	hasher := security.NewBcryptHasher(cfg.Bcrypt.Cost)
	issuer := infraauth.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.RefreshExpiry, cfg.JWT.EmailExpiry)

	var avatarStorage *avatar.MinioStorage
	if cfg.Minio.Endpoint != "" {
		avatarStorage, err = avatar.NewMinioStorage(ctx, avatar.MinioConfig{
			Endpoint:  cfg.Minio.Endpoint,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			Bucket:    cfg.Minio.Bucket,
			UseSSL:    cfg.Minio.UseSSL,
			PublicURL: cfg.Minio.PublicURL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("create avatar storage")
		}
	}

	signupUC := appauth.NewSignup(userRepo, hasher, issuer, avatar.NewGravatarSource(), taskEnqueuer, cfg.Auth.ConfirmBaseURL, log)
	loginUC := appauth.NewLogin(userRepo, hasher, issuer, cfg.JWT.AccessExpiry, cfg.Auth.RequireConfirmed)
	refreshUC := appauth.NewRefresh(userRepo, issuer, cfg.JWT.AccessExpiry)
	logoutUC := appauth.NewLogout(userRepo, issuer)
	confirmEmailUC := appauth.NewConfirmEmail(userRepo, issuer)
	sendConfirmationUC := appauth.NewSendConfirmation(userRepo, issuer, taskEnqueuer, cfg.Auth.ConfirmBaseURL)
	currentUserUC := appauth.NewCurrentUser(userRepo, userCache, issuer)

	var updateAvatarUC *users.UpdateAvatar
	if avatarStorage != nil {
		updateAvatarUC = users.NewUpdateAvatar(userRepo, avatarStorage)
	}

	authHandler := handlers.NewAuthHandler(signupUC, loginUC, refreshUC, logoutUC, confirmEmailUC, sendConfirmationUC, emitter, log)
	usersHandler := handlers.NewUsersHandler(updateAvatarUC, log)
	contactsHandler := handlers.NewContactsHandler(contactRepo, log)

	ipLimit, err := middleware.NewIPRateLimiter(cfg.RateLimit.PerIP, redisClient)
	if err != nil {
		log.Fatal().Err(err).Msg("create IP rate limiter")
	}
	userLimit, err := middleware.NewUserRateLimiter(cfg.RateLimit.PerUser, redisClient)
	if err != nil {
		log.Fatal().Err(err).Msg("create user rate limiter")
	}

	router := httprouter.NewRouter(httprouter.RouterConfig{
		Auth:          authHandler,
		Users:         usersHandler,
		Contacts:      contactsHandler,
		Health:        healthHandler,
		Session:       middleware.NewSessionResolver(currentUserUC),
		IPRateLimit:   ipLimit,
		UserRateLimit: userLimit,
		IsDevelopment: cfg.Server.IsDevelopment,
		Log:           log,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if asynqWorker != nil {
		asynqWorker.Shutdown()
	}
	log.Info().Msg("server stopped")
}
