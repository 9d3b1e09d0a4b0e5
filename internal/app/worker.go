package app

import (
	"context"
	"errors"

	"churchops/internal/config"
	"churchops/internal/messaging/kafka"
	"churchops/internal/messaging/kafka/producer"
	"churchops/internal/shared/connection"

	"go.uber.org/zap"
)

// RunWorker relays outbox rows to kafka until ctx is cancelled.
func RunWorker(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	log := logger.Named("app.worker")
	if cfg.Kafka.Broker == "" {
		return errors.New("KAFKA_BROKER is required")
	}

	infra, err := Connect(ctx, cfg, logger, false)
	if err != nil {
		return err
	}
	defer infra.Close()

	writer, err := connection.ConnectKafkaWithRetry(ctx, cfg.Kafka.Broker, cfg.Database.MaxRetries, logger)
	if err != nil {
		return err
	}
	defer writer.Close()

	producer.ProcessOutboxEvents(ctx, kafka.NewOutboxRepository(infra.GormDB), writer, logger, producer.Options{
		PollInterval: cfg.Kafka.PollInterval,
		BatchSize:    cfg.Kafka.BatchSize,
	})

	log.Info("worker shutting down")
	return nil
}
