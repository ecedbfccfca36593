// Package main is the entrypoint for the Jobpilot API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/jobpilot/jobpilot/internal/auth"
	"github.com/jobpilot/jobpilot/internal/cache"
	"github.com/jobpilot/jobpilot/internal/config"
	"github.com/jobpilot/jobpilot/internal/handler"
	"github.com/jobpilot/jobpilot/internal/health"
	"github.com/jobpilot/jobpilot/internal/metrics"
	"github.com/jobpilot/jobpilot/internal/middleware"
	"github.com/jobpilot/jobpilot/internal/migrations"
	"github.com/jobpilot/jobpilot/internal/repository"
	"github.com/jobpilot/jobpilot/internal/server"
	"github.com/jobpilot/jobpilot/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	// Needs only config, so it fails before any connection is opened.
	tokens, err := auth.NewTokenService(cfg.SecretKey)
	if err != nil {
		logger.Error("failed to create token service", "error", err)
		os.Exit(1)
	}

	if cfg.MigrateOnStart {
		if err := migrations.Up(ctx, cfg.DatabaseURL); err != nil {
			logger.Error("failed to apply migrations",
				slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			)
			os.Exit(1)
		}
		logger.Info("migrations applied")
	}

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to database")

	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		repo.Close()
		os.Exit(1)
	}
	logger.Info("connected to Redis")

	recorder := metrics.NewInMemory()
	resolver := auth.NewSessionResolver(tokens, repo)
	userService := service.NewUserService(repo, cacheClient, tokens, cfg.AccessTokenExpire, recorder, logger)
	careerService := service.NewCareerService(repo)

	aggregator := health.NewAggregator(
		[]health.Prober{
			health.NewPingProber("database", repo),
			health.NewPingProber("cache", cacheClient),
			health.NewConfiguredProber("openai", cfg.HasOpenAI()),
		},
		health.WithCritical("database", "cache"),
		health.WithTimeout(cfg.HealthProbeTimeout),
		health.WithBuildInfo(cfg.AppVersion, cfg.AppEnv),
		health.WithLogger(logger),
	)

	r := setupRouter(routes{
		root:    handler.New(cfg.AppVersion, cfg.AppEnv),
		health:  handler.NewHealthHandler(aggregator, recorder),
		users:   handler.NewUserHandler(userService, logger),
		career:  handler.NewCareerHandler(careerService, logger),
		metrics: handler.NewMetricsHandler(recorder),
		auth: middleware.AuthConfig{
			Logger:   logger,
			Resolver: resolver,
			Metrics:  recorder,
		},
		rateLimit: middleware.RateLimitConfig{
			Logger:    logger,
			Limiter:   cacheClient,
			Metrics:   recorder,
			Enabled:   cfg.RateLimitEnabled,
			PerMinute: cfg.RateLimitPerMinute,
			Burst:     cfg.RateLimitBurst,
		},
	}, cfg, logger)

	srv := server.New(r, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	// LIFO: cache closes before the database
	srv.OnShutdown("database", func(context.Context) error {
		repo.Close()
		return nil
	})
	srv.OnShutdown("cache", func(context.Context) error {
		return cacheClient.Close()
	})

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"version", cfg.AppVersion,
		"openai_configured", cfg.HasOpenAI(),
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h).With("service", "jobpilot-api")
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// routes bundles the handlers and middleware configs the router mounts.
type routes struct {
	root      *handler.Handler
	health    *handler.HealthHandler
	users     *handler.UserHandler
	career    *handler.CareerHandler
	metrics   *handler.MetricsHandler
	auth      middleware.AuthConfig
	rateLimit middleware.RateLimitConfig
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(rt routes, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment()}))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))
	r.Use(middleware.CORS(corsCfg))

	// Probes and metrics (no auth required)
	r.Get("/", rt.root.Root)
	r.Get("/healthz", rt.health.Live)
	r.Get("/readyz", rt.health.Ready)
	r.Get("/metrics", rt.metrics.Metrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/health", func(r chi.Router) {
			r.Get("/", rt.health.Health)
			r.Get("/ready", rt.health.Ready)
			r.Get("/live", rt.health.Live)
		})

		r.Route("/users", func(r chi.Router) {
			// Anonymous endpoints are limited per client IP
			r.Group(func(r chi.Router) {
				r.Use(middleware.RateLimit(rt.rateLimit))
				r.Post("/register", rt.users.Register)
				r.Post("/login", rt.users.Login)
			})

			// Authenticated endpoints are limited per user
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(rt.auth))
				r.Use(middleware.RequireActive())
				r.Use(middleware.RateLimit(rt.rateLimit))

				r.Get("/me", rt.users.Me)
				r.Put("/me", rt.users.UpdateMe)
				r.Get("/me/profile", rt.users.GetProfile)
				r.Post("/me/profile", rt.users.CreateProfile)
				r.Put("/me/profile", rt.users.UpdateProfile)

				r.Get("/me/skills", rt.career.ListSkills)
				r.Post("/me/skills", rt.career.CreateSkill)
				r.Put("/me/skills/{id}", rt.career.UpdateSkill)
				r.Delete("/me/skills/{id}", rt.career.DeleteSkill)

				r.Get("/me/experiences", rt.career.ListExperiences)
				r.Post("/me/experiences", rt.career.CreateExperience)
				r.Put("/me/experiences/{id}", rt.career.UpdateExperience)
				r.Delete("/me/experiences/{id}", rt.career.DeleteExperience)
			})
		})
	})

	r.NotFound(rt.root.NotFound)
	r.MethodNotAllowed(rt.root.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
