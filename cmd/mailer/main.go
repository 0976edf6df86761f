package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/config"
	"github.com/spec-kit/complaint-service/internal/notify"
	"github.com/spec-kit/complaint-service/internal/observability"
)

// mailer drains the notification queue filled by the API and delivers each
// message over SMTP.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	cfg.App.Name += "-mailer"
	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if cfg.Notification.AMQPURL == "" {
		logger.Fatal("AMQP_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, ch, err := notify.DialAMQP(cfg.Notification.AMQPURL, cfg.Notification.AMQPQueue)
	if err != nil {
		logger.Fatal("failed to connect amqp", zap.Error(err))
	}
	defer conn.Close()
	defer ch.Close()

	var mailer notify.Mailer = notify.NewLogMailer(logger)
	if cfg.Notification.SMTPEnabled() {
		mailer = notify.NewSMTPMailer(notify.NewSMTPTransport(cfg.Notification, logger), cfg.Notification.EmailFrom, logger)
	} else {
		logger.Warn("smtp not configured; queued notifications are logged only")
	}

	logger.Info("consuming notifications", zap.String("queue", cfg.Notification.AMQPQueue))
	if err := notify.Consume(ctx, ch, cfg.Notification.AMQPQueue, mailer, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("consumer stopped", zap.Error(err))
	}
	logger.Info("mailer stopped")
}
