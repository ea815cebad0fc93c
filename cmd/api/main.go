package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dafibh/committee/committee-backend/internal/config"
	"github.com/dafibh/committee/committee-backend/internal/handler"
	"github.com/dafibh/committee/committee-backend/internal/idempotency"
	"github.com/dafibh/committee/committee-backend/internal/metrics"
	"github.com/dafibh/committee/committee-backend/internal/middleware"
	"github.com/dafibh/committee/committee-backend/internal/repository/postgres"
	"github.com/dafibh/committee/committee-backend/internal/repository/storage"
	"github.com/dafibh/committee/committee-backend/internal/service"
	"github.com/dafibh/committee/committee-backend/internal/websocket"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	echoSwagger "github.com/swaggo/echo-swagger"
)

const (
	idempotencyTTL      = 24 * time.Hour
	idempotencyPurgeGap = time.Hour
	localUploadPrefix   = "/uploads"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.DebugQueryLogging {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	postgres.SetQueryLogging(cfg.DebugQueryLogging)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to database
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()
	log.Info().Msg("Connected to database")

	// Initialize repositories
	transactor := postgres.NewTransactor(pool)
	userRepo := postgres.NewUserRepository(pool)
	committeeRepo := postgres.NewCommitteeRepository(pool)
	payoutRepo := postgres.NewPayoutRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	joinRequestRepo := postgres.NewJoinRequestRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)

	// File storage: S3 when a bucket is configured, local disk otherwise
	var files storage.FileRepository
	if cfg.S3.Enabled() {
		s3Repo, err := storage.NewS3FileRepository(ctx, cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize S3 storage")
		}
		files = s3Repo
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("Using S3 file storage")
	} else {
		localRepo, err := storage.NewLocalFileRepository(cfg.UploadDir, localUploadPrefix)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize local file storage")
		}
		files = localRepo
		log.Warn().Str("dir", cfg.UploadDir).Msg("S3 not configured, storing uploads on local disk")
	}

	// Replay store for Idempotency-Key requests
	replayStore, err := idempotency.Open(cfg.IdempotencyDBPath, idempotencyTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open idempotency store")
	}
	defer replayStore.Close()
	go purgeReplays(ctx, replayStore)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	// Realtime hub
	hub := websocket.NewHub()

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.AdminEmails)
	notificationService := service.NewNotificationService(notificationRepo, userRepo)
	notificationService.SetEventPublisher(hub)
	notificationService.SetMetrics(appMetrics)

	reserver := service.NewSlotReserver(transactor, committeeRepo, payoutRepo)
	reserver.SetMetrics(appMetrics)

	profileService := service.NewProfileService(userRepo, notificationService)
	committeeService := service.NewCommitteeService(transactor, committeeRepo, payoutRepo)
	committeeService.SetEventPublisher(hub)

	payoutService := service.NewPayoutService(payoutRepo, committeeRepo, reserver, notificationService)
	payoutService.SetEventPublisher(hub)
	payoutService.SetMetrics(appMetrics)

	joinRequestService := service.NewJoinRequestService(joinRequestRepo, committeeRepo, payoutRepo, userRepo, reserver, payoutService, notificationService)
	joinRequestService.SetEventPublisher(hub)

	paymentService := service.NewPaymentService(paymentRepo, committeeRepo, notificationService)
	paymentService.SetEventPublisher(hub)

	if cfg.ReminderInterval > 0 {
		reminderWorker := service.NewReminderWorker(paymentService, committeeRepo, log.Logger, service.ReminderWorkerConfig{
			Interval: cfg.ReminderInterval,
		})
		reminderWorker.Start(ctx)
		defer reminderWorker.Stop()
	}

	uploadService := service.NewUploadService(files)

	// Initialize auth middleware
	authMiddleware, err := middleware.NewAuthMiddleware(cfg.Auth0Domain, cfg.Auth0Audience, authService)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create auth middleware")
	}

	wsValidator, err := websocket.NewAuth0JWTValidator(cfg.Auth0Domain, cfg.Auth0Audience, authService)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create websocket token validator")
	}
	wsHandler := handler.NewWebSocketHandler(hub, wsValidator, cfg.CORSOrigins)
	wsHandler.SetMetrics(appMetrics)

	rateLimiter := middleware.NewRateLimiterWithConfig(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	defer rateLimiter.Stop()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, idempotency.HeaderKey},
		ExposeHeaders:    []string{idempotency.HeaderReplayed},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())
	e.Use(appMetrics.Middleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(appMetrics.Handler()))
	e.GET("/swagger/openapi.json", handler.NewOpenAPIHandler(apiServers(cfg)).Serve)
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/ws", wsHandler.HandleWS)
	if !cfg.S3.Enabled() {
		e.Static(localUploadPrefix, cfg.UploadDir)
	}

	// Register API routes
	handler.RegisterRoutes(e, authMiddleware, rateLimiter, replayStore, handler.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Profile:      handler.NewProfileHandler(profileService),
		Committee:    handler.NewCommitteeHandler(committeeService),
		JoinRequest:  handler.NewJoinRequestHandler(joinRequestService),
		Payout:       handler.NewPayoutHandler(payoutService),
		Payment:      handler.NewPaymentHandler(paymentService),
		Notification: handler.NewNotificationHandler(notificationService),
		Upload:       handler.NewUploadHandler(uploadService),
	})

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	<-ctx.Done()

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// apiServers lists the servers advertised in the OpenAPI document
func apiServers(cfg *config.Config) []handler.Server {
	servers := []handler.Server{{URL: "http://localhost:" + cfg.Port + "/api/v1", Description: "Local Development"}}
	if cfg.PublicAPIURL != "" {
		servers = append(servers, handler.Server{URL: cfg.PublicAPIURL, Description: cfg.Env})
	}
	return servers
}

// purgeReplays drops expired idempotency records until ctx is done
func purgeReplays(ctx context.Context, store *idempotency.Store) {
	ticker := time.NewTicker(idempotencyPurgeGap)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := store.Purge()
			if err != nil {
				log.Warn().Err(err).Msg("Failed to purge idempotency records")
				continue
			}
			if removed > 0 {
				log.Debug().Int("removed", removed).Msg("Purged idempotency records")
			}
		}
	}
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
