package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Narutostha/sanambar/internal/config"
	"github.com/Narutostha/sanambar/internal/email"
	"github.com/Narutostha/sanambar/internal/handler"
	authHandler "github.com/Narutostha/sanambar/internal/handler/auth"
	bookingHandler "github.com/Narutostha/sanambar/internal/handler/booking"
	catalogHandler "github.com/Narutostha/sanambar/internal/handler/catalog"
	locationHandler "github.com/Narutostha/sanambar/internal/handler/location"
	"github.com/Narutostha/sanambar/internal/middleware"
	"github.com/Narutostha/sanambar/internal/repository/postgres"
	"github.com/Narutostha/sanambar/internal/router"
	authService "github.com/Narutostha/sanambar/internal/service/auth"
	bookingService "github.com/Narutostha/sanambar/internal/service/booking"
	catalogService "github.com/Narutostha/sanambar/internal/service/catalog"
	locationService "github.com/Narutostha/sanambar/internal/service/location"
	"github.com/Narutostha/sanambar/pkg/logger"
	"github.com/Narutostha/sanambar/pkg/messaging"
	redisbroker "github.com/Narutostha/sanambar/pkg/messaging/redis"
)

func main() {
	// Missing .env is fine; deployments set real environment variables.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(&logger.Config{
		Level:   logger.ParseLevel(cfg.Log.Level),
		Console: cfg.Log.Console,
	})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	serviceRepo := postgres.NewServiceRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	locationRepo := postgres.NewLocationRepository(db)
	userRepo := postgres.NewUserRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)

	// Redis is optional. Without it session events stay instance-local.
	var broker messaging.Broker
	if cfg.Redis.URL != "" {
		broker, err = redisbroker.NewBroker(redisbroker.Config{
			URL:          cfg.Redis.URL,
			MaxRetries:   cfg.Redis.MaxRetries,
			RetryBackoff: cfg.Redis.RetryBackoff,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		}, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		defer broker.Close()
	}

	var mailer bookingService.Mailer
	if sender := email.NewSender(cfg.SMTP, log); sender != nil {
		mailer = sender
	}

	catalogSvc := catalogService.NewService(serviceRepo, log)
	bookingSvc := bookingService.NewService(appointmentRepo, mailer, log)
	locationSvc := locationService.NewService(locationRepo, log)
	authSvc := authService.NewService(userRepo, sessionRepo, cfg.JWT, broker, log)

	bridgeCtx, stopBridge := context.WithCancel(context.Background())
	defer stopBridge()
	if broker != nil {
		go func() {
			if err := authSvc.RunBridge(bridgeCtx); err != nil && bridgeCtx.Err() == nil {
				log.Error().Err(err).Msg("session event bridge stopped")
			}
		}()
	}

	authMiddleware := middleware.NewAuthMiddleware(authSvc)

	r := router.NewRouter(
		authMiddleware,
		authHandler.NewHandler(authSvc),
		catalogHandler.NewHandler(catalogSvc),
		bookingHandler.NewHandler(bookingSvc),
		locationHandler.NewHandler(locationSvc),
		handler.NewHealthHandler(db),
		router.Config{
			RateLimit: middleware.RateLimiterConfig{
				RPS:   cfg.RateLimit.RPS,
				Burst: cfg.RateLimit.Burst,
			},
			CORS:          corsConfig(cfg.CORS),
			MetricsPrefix: "sanambar",
			Logger:        log,
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	stopBridge()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}

func corsConfig(cfg config.CORSConfig) middleware.CORSConfig {
	c := middleware.DefaultCORSConfig()
	if len(cfg.AllowedOrigins) > 0 {
		c.AllowOrigins = cfg.AllowedOrigins
	}
	return c
}
