package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"debt-service/configs"
	"debt-service/internal/events"
	"debt-service/internal/service"
)

// Consumes payment events from the queue and emails them
func main() {
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
	if cfg.AMQP.URL == "" {
		log.Fatal("AMQP_URL is required for the notifier")
	}

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	client, err := events.NewClient(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue, log)
	if err != nil {
		log.Fatalf("Failed to initialize AMQP client: %v", err)
	}
	defer client.Close()

	email := service.NewEmailNotifier(cfg.Email, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Infof("Consuming payment events from queue %s", cfg.AMQP.Queue)

	err = client.ConsumePayments(ctx, func(ctx context.Context, event *events.PaymentEvent) error {
		return email.NotifyPayment(ctx, &event.PaymentNotification)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Errorf("Message consumption failed: %v", err)
		return
	}

	log.Info("Notifier stopped")
}
