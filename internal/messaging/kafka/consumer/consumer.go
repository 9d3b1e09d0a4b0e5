package consumer

import (
	"context"
	"encoding/json"

	"churchops/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// ConsumeEntityChanged hands every entity change signal to notifier until
// ctx is done. A message is committed once the notifier accepted it or it
// cannot be decoded.
func ConsumeEntityChanged(
	ctx context.Context,
	reader MessageReader,
	notifier events.Notifier,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.entity_changed")
	log.Info("entity changed consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("entity changed consumer stopped")
				return
			}
			log.Error("fetch entity changed message failed", zap.Error(err))
			continue
		}

		if !handleMessage(ctx, msg, notifier, log) {
			continue
		}
		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit entity changed message failed", zap.Error(err))
		}
	}
}

// handleMessage reports whether msg is done with and may be committed.
func handleMessage(ctx context.Context, msg kafkago.Message, notifier events.Notifier, log *zap.Logger) bool {
	var event events.EntityChangedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Error("decode entity_changed event failed",
			zap.Int64("offset", msg.Offset),
			zap.Error(err),
		)
		return true
	}
	if event.EventType != events.EntityChangedEventType {
		log.Warn("unexpected event type, skipping", zap.String("event_type", event.EventType))
		return true
	}

	if err := notifier.Notify(ctx, event); err != nil {
		log.Error("handle entity change failed",
			zap.String("entity", event.Entity),
			zap.String("entity_id", event.EntityID),
			zap.String("request_id", event.RequestID),
			zap.Error(err),
		)
		return false
	}

	log.Debug("entity change handled",
		zap.String("entity", event.Entity),
		zap.String("entity_id", event.EntityID),
		zap.String("action", event.Action),
	)
	return true
}
