package app

import (
	"context"
	"errors"

	"churchops/internal/cache"
	"churchops/internal/config"
	"churchops/internal/events"
	"churchops/internal/messaging/kafka/consumer"
	"churchops/internal/shared/connection"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer drops cached views named by entity change signals until ctx
// is cancelled.
func RunConsumer(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	log := logger.Named("app.consumer")
	if cfg.Kafka.Broker == "" {
		return errors.New("KAFKA_BROKER is required")
	}

	rdb, err := connection.ConnectRedisWithRetry(ctx, cfg.Redis, logger)
	if err != nil {
		return err
	}
	defer rdb.Close()

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.Kafka.Broker},
		Topic:          events.EntityChangedTopic,
		GroupID:        cfg.Kafka.ConsumerGroup,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	consumer.ConsumeEntityChanged(ctx, reader, cache.NewInvalidator(rdb, logger), logger)

	log.Info("consumer shutting down")
	return nil
}
