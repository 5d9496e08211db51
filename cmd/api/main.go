// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/joho/godotenv"

	"github.com/carterperez-dev/dating-api/internal/access"
	"github.com/carterperez-dev/dating-api/internal/admin"
	"github.com/carterperez-dev/dating-api/internal/auth"
	"github.com/carterperez-dev/dating-api/internal/config"
	"github.com/carterperez-dev/dating-api/internal/core"
	"github.com/carterperez-dev/dating-api/internal/health"
	"github.com/carterperez-dev/dating-api/internal/like"
	"github.com/carterperez-dev/dating-api/internal/media"
	"github.com/carterperez-dev/dating-api/internal/member"
	"github.com/carterperez-dev/dating-api/internal/message"
	"github.com/carterperez-dev/dating-api/internal/middleware"
	"github.com/carterperez-dev/dating-api/internal/photo"
	"github.com/carterperez-dev/dating-api/internal/seed"
	"github.com/carterperez-dev/dating-api/internal/server"
)

const (
	drainDelay = 5 * time.Second

	vipRateFactor = 3
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	genKeys := flag.Bool("genkeys", false, "write a new ES256 key pair and exit")
	privateKey := flag.String("private-key", "keys/private.pem", "private key path for -genkeys")
	publicKey := flag.String("public-key", "keys/public.pem", "public key path for -genkeys")
	flag.Parse()

	if *genKeys {
		if err := auth.GenerateKeyPair(*privateKey, *publicKey); err != nil {
			slog.Error("generate key pair", "error", err)
			os.Exit(1)
		}
		slog.Info("key pair written", "private", *privateKey, "public", *publicKey)
		return
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env", "error", err)
	}

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	flushSentry, err := core.InitSentry(cfg.Sentry, cfg.App)
	if err != nil {
		logger.Warn("failed to initialize sentry", "error", err)
	}
	defer flushSentry()

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if err := core.ApplySchema(ctx, db.DB); err != nil {
		return err
	}

	if cfg.Seed.Enabled {
		if err := seed.Run(ctx, db.DB, cfg.Seed.Password); err != nil {
			return err
		}
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.GetKeyID(),
	)

	store, err := media.New(ctx, cfg.Media)
	if err != nil {
		return err
	}
	logger.Info("media store initialized", "provider", cfg.Media.Provider)

	likeSvc := like.NewService(like.NewRepository(db.DB))
	likeHandler := like.NewHandler(likeSvc)

	memberSvc := member.NewService(member.NewRepository(db.DB), likeSvc)
	memberHandler := member.NewHandler(memberSvc)

	authSvc := auth.NewService(
		auth.NewRepository(db.DB),
		jwtManager,
		memberSvc,
		redis.Client,
	)
	authHandler := auth.NewHandler(authSvc)

	photoSvc := photo.NewService(photo.NewRepository(db.DB), store)
	photoHandler := photo.NewHandler(photoSvc, cfg.Server.MaxUploadBytes)

	messageHandler := message.NewHandler(
		message.NewService(message.NewRepository(db.DB)),
	)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		Service:    admin.NewService(admin.NewRepository(db.DB), photoSvc),
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
	})

	healthHandler := health.NewHandler(
		health.Dependency{Name: "database", Checker: db},
		health.Dependency{Name: "redis", Checker: redis},
	)

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	router.Get("/.well-known/jwks.json", jwtManager.GetJWKSHandler())

	limit := middleware.ParseWindow(
		cfg.RateLimit.Requests,
		cfg.RateLimit.Burst,
		cfg.RateLimit.Window,
	)

	ipLimiter := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Limit:    limit,
		KeyFunc:  middleware.KeyByIP,
		FailOpen: true,
	})

	callerLimiter := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Limit:    limit,
		KeyFunc:  middleware.KeyByCaller,
		FailOpen: true,
		RoleLimits: map[string]redis_rate.Limit{
			access.RoleVIP: middleware.Scale(limit, vipRateFactor),
		},
	})

	protect := chi.Chain(
		middleware.Authenticator(authSvc),
		callerLimiter.Handler,
		middleware.LastActive(memberSvc, redis, cfg.Activity.Throttle),
	).Handler

	router.Route("/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(ipLimiter.Handler)
			authHandler.RegisterRoutes(r, protect)
		})

		r.Group(func(r chi.Router) {
			r.Use(protect)

			memberHandler.RegisterRoutes(r)
			likeHandler.RegisterRoutes(r)
			photoHandler.RegisterRoutes(r)
			messageHandler.RegisterRoutes(r)
		})

		adminHandler.RegisterRoutes(r, protect)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
