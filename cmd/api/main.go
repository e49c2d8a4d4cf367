package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/budbeer/budbeer_api/internal/cache"
	"github.com/budbeer/budbeer_api/internal/config"
	"github.com/budbeer/budbeer_api/internal/database"
	"github.com/budbeer/budbeer_api/internal/handler"
	"github.com/budbeer/budbeer_api/internal/metrics"
	"github.com/budbeer/budbeer_api/internal/middleware"
	"github.com/budbeer/budbeer_api/internal/repository"
	"github.com/budbeer/budbeer_api/internal/service"
	"github.com/budbeer/budbeer_api/internal/sse"
	"github.com/budbeer/budbeer_api/internal/worker"
)

// main is the application entrypoint for the BudBeer API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting budbeer api")

	// 3. Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	if err := metrics.Init(registry); err != nil {
		fmt.Fprintf(os.Stderr, "metrics init failed: %v\n", err)
		os.Exit(1)
	}

	// 4. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 4a. Run migrations
	if err := runMigrations(db.DB, cfg.MigrationsPath); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 4b. Connect to Redis when configured
	var redisClient *cache.RedisClient
	if cfg.Redis.Enabled() {
		redisClient, err = cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			if cfg.RateLimit.Backend == config.RateLimitBackendRedis {
				log.Error().Err(err).Msg("redis connection failed")
				fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
				os.Exit(1)
			}
			log.Warn().Err(err).Msg("redis unavailable, running without bar cache")
			redisClient = nil
		} else {
			defer redisClient.Close()
			log.Info().Msg("redis connected successfully")
		}
	}

	// 5. Initialize repositories
	adminRepo := repository.NewAdminUserRepository(db)
	barRepo := repository.NewBarRepository(db)
	reportRepo := repository.NewReportRepository(db)
	banRepo := repository.NewBanRepository(db)
	rateLimitRepo := repository.NewRateLimitRepository(db)

	var barCache *cache.BarCache
	var rateLimitStore service.RateLimitStore = rateLimitRepo
	if redisClient != nil {
		barCache = cache.NewBarCache(redisClient, cfg.Cache.BarListTTL)
		if cfg.RateLimit.Backend == config.RateLimitBackendRedis {
			rateLimitStore = cache.NewRateLimitStore(redisClient, cfg.RateLimit.Window)
		}
	}
	log.Info().Str("backend", cfg.RateLimit.Backend).Int("max", cfg.RateLimit.Max).Dur("window", cfg.RateLimit.Window).Msg("submission rate limit configured")

	// 6. Initialize services
	tokenSvc := service.NewTokenService(cfg)
	totpSvc := service.NewTOTPService(cfg.Auth.TOTPIssuer)
	adminAuthSvc := service.NewAdminAuthService(adminRepo, tokenSvc, totpSvc)
	barSvc := service.NewBarService(barRepo, barCache)
	reportSvc := service.NewReportService(reportRepo, barRepo)
	banSvc := service.NewBanService(banRepo)
	guard := service.NewAbuseGuard(banRepo, rateLimitStore, &cfg.RateLimit)

	// 6a. Live moderation feed for the admin dashboard
	hub := sse.NewHub()
	notifier := sse.NewHubNotifier(hub)
	barSvc.SetNotifier(notifier)
	reportSvc.SetNotifier(notifier)

	if cfg.Seed.Enabled {
		seedCtx, seedCancel := context.WithTimeout(context.Background(), 10*time.Second)
		if _, err := adminAuthSvc.EnsureSeedAdmin(seedCtx, cfg.Seed.Username, cfg.Seed.Password); err != nil {
			log.Error().Err(err).Msg("failed to seed admin account")
		}
		seedCancel()
	}

	// 7. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 8. Initialize middleware
	jwtMw := middleware.NewJWTMiddleware(tokenSvc)
	abuseMw := middleware.NewAbuseMiddleware(guard)
	loginLimiter := middleware.NewLoginAttemptLimiter(ctx, cfg.Auth.LoginMaxFailures, cfg.Auth.LoginWindow)

	// 9. Initialize handlers
	var redisPinger handler.Pinger
	if redisClient != nil {
		redisPinger = redisClient
	}
	handlers := &Handlers{
		Health:   handler.NewHealthHandler(db, redisPinger),
		Auth:     handler.NewAuthHandler(adminAuthSvc, loginLimiter),
		Bar:      handler.NewBarHandler(barSvc),
		AdminBar: handler.NewAdminBarHandler(barSvc),
		Report:   handler.NewReportHandler(reportSvc),
		Ban:      handler.NewBanHandler(banSvc),
		SSE:      handler.NewSSEHandler(hub, tokenSvc),
	}

	// 10. Setup router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		log.Error().Err(err).Msg("invalid TRUSTED_PROXIES")
		fmt.Fprintf(os.Stderr, "invalid TRUSTED_PROXIES: %v\n", err)
		os.Exit(1)
	}
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	router.Use(middleware.LoggingMiddleware())
	router.Use(metrics.Middleware())
	router.GET("/metrics", gin.WrapH(metrics.Handler(registry)))
	setupRoutes(router, handlers, jwtMw, abuseMw, loginLimiter)

	// 11. Start workers
	if cfg.RateLimit.Backend == config.RateLimitBackendPostgres && cfg.RateLimit.SweepInterval > 0 {
		go worker.NewRateLimitSweepWorker(rateLimitRepo, cfg.RateLimit.Window, cfg.RateLimit.SweepInterval).Start(ctx)
	}

	// 12. Start HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 13. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 14. Cancel context to stop workers
	cancel()

	// 15. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health   *handler.HealthHandler
	Auth     *handler.AuthHandler
	Bar      *handler.BarHandler
	AdminBar *handler.AdminBarHandler
	Report   *handler.ReportHandler
	Ban      *handler.BanHandler
	SSE      *handler.SSEHandler
}

// setupRoutes registers all routes.
func setupRoutes(
	router *gin.Engine,
	handlers *Handlers,
	jwtMiddleware *middleware.JWTMiddleware,
	abuseMiddleware *middleware.AbuseMiddleware,
	loginLimiter *middleware.LoginAttemptLimiter,
) {
	api := router.Group("/api")
	api.GET("/health", handlers.Health.GetHealth)

	// Public bar routes
	bars := api.Group("/bars")
	{
		bars.GET("", handlers.Bar.ListBars)
		bars.POST("", abuseMiddleware.Handle(), handlers.Bar.SubmitBar)
		bars.POST("/:id/report", abuseMiddleware.Handle(), handlers.Report.SubmitReport)
	}

	// Admin login
	admin := api.Group("/admin")
	admin.POST("/login", loginLimiter.Handle(), handlers.Auth.Login)
	admin.POST("/login/2fa", loginLimiter.Handle(), handlers.Auth.LoginSecondFactor)

	// Authenticated by ?token= rather than the Authorization header
	admin.GET("/events", handlers.SSE.Stream)

	admin.Use(jwtMiddleware.Handle())
	{
		admin.GET("/me", handlers.Auth.Me)

		// Two-factor management
		admin.GET("/2fa/status", handlers.Auth.TwoFactorStatus)
		admin.POST("/2fa/setup", handlers.Auth.SetupTwoFactor)
		admin.POST("/2fa/enable", handlers.Auth.EnableTwoFactor)
		admin.POST("/2fa/disable", handlers.Auth.DisableTwoFactor)

		// Bar moderation
		admin.GET("/bars", handlers.AdminBar.ListBars)
		admin.PATCH("/bars/:id/approve", handlers.AdminBar.ApproveBar)
		admin.PATCH("/bars/:id/reject", handlers.AdminBar.RejectBar)
		admin.PUT("/bars/:id", handlers.AdminBar.UpdateBar)
		admin.DELETE("/bars/:id", handlers.AdminBar.DeleteBar)

		// Reports
		admin.GET("/reports", handlers.Report.ListReports)
		admin.PATCH("/reports/:id", handlers.Report.UpdateReportStatus)
		admin.DELETE("/reports/:id", handlers.Report.DeleteReport)

		// Bans
		admin.GET("/banned-ips", handlers.Ban.ListBans)
		admin.POST("/banned-ips", handlers.Ban.CreateBan)
		admin.DELETE("/banned-ips/:id", handlers.Ban.DeleteBan)

		admin.GET("/stats", handlers.AdminBar.Stats)
	}
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB, sourceURL string) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(sourceURL, "postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
