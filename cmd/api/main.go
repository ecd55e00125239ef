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
	"github.com/sirupsen/logrus"

	"debt-service/configs"
	"debt-service/internal/cache"
	"debt-service/internal/events"
	"debt-service/internal/handler"
	"debt-service/internal/repository"
	"debt-service/internal/service"
	"debt-service/pkg/scheduler"
)

const memoryCacheSize = 1000

func main() {
	// Load .env file for local development
	_ = godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	cfg, err := configs.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warnf("Unknown log level %q, using info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	db, err := repository.Open(context.Background(), cfg.Database.Driver, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	repos, err := repository.NewRepository(db, cfg.Database.Driver)
	if err != nil {
		log.Fatalf("Failed to initialize repositories: %v", err)
	}

	scheduleCache, closeCache := initCache(cfg, log)
	defer closeCache()

	notifier, closeNotifier := initNotifier(cfg, log)
	defer closeNotifier()

	services := service.NewService(service.Dependencies{
		Repos:    repos,
		Logger:   log,
		Config:   cfg,
		Cache:    scheduleCache,
		Notifier: notifier,
	})

	handlers := handler.NewHandler(handler.Dependencies{
		Services: services,
		Logger:   log,
		Config:   cfg,
	})

	if cfg.Scheduler.Enabled {
		paymentScheduler := scheduler.NewScheduler(services.Debt, log)
		paymentScheduler.Start(cfg.Scheduler.Interval)
		defer paymentScheduler.Stop()
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler.NewRouter(handlers, cfg, log),
		ReadTimeout:  time.Second * 15,
		WriteTimeout: time.Second * 15,
		IdleTimeout:  time.Second * 60,
	}

	go func() {
		log.Infof("Starting server on port %d", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Server shutdown failed: %v", err)
		return
	}

	log.Info("Server gracefully stopped")
}

// Redis when configured and reachable, otherwise the in-process cache
func initCache(cfg *configs.Config, log *logrus.Logger) (cache.ScheduleCache, func()) {
	memory := cache.NewMemoryCache(memoryCacheSize, cfg.Redis.TTL)

	if cfg.Redis.Addr == "" {
		log.Info("Using in-process schedule cache")
		return memory, func() {}
	}

	redisCache := cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := redisCache.Ping(ctx); err != nil {
		log.Warnf("Redis unavailable at %s, using in-process schedule cache: %v", cfg.Redis.Addr, err)
		redisCache.Close()
		return memory, func() {}
	}

	log.Infof("Using Redis schedule cache at %s", cfg.Redis.Addr)
	return redisCache, func() { redisCache.Close() }
}

// The queue when configured, otherwise direct email
func initNotifier(cfg *configs.Config, log *logrus.Logger) (service.Notifier, func()) {
	if cfg.AMQP.URL == "" {
		log.Info("Sending payment notifications by email")
		return service.NewEmailNotifier(cfg.Email, log), func() {}
	}

	client, err := events.NewClient(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue, log)
	if err != nil {
		log.Fatalf("Failed to initialize AMQP client: %v", err)
	}

	log.Infof("Publishing payment notifications to exchange %s", cfg.AMQP.Exchange)
	return service.NewQueueNotifier(client), func() { client.Close() }
}
