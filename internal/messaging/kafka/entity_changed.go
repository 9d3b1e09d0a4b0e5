package kafka

import (
	"context"
	"database/sql"
	"encoding/json"

	"churchops/internal/events"

	"github.com/google/uuid"
)

func NewEntityChangedOutboxEvent(ev events.EntityChangedEvent) (OutboxEvent, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return OutboxEvent{}, err
	}
	return OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     ev.RequestID,
		AggregateType: ev.Entity,
		AggregateID:   ev.EntityID,
		EventType:     ev.EventType,
		Topic:         events.EntityChangedTopic,
		Payload:       payload,
		Status:        OutboxStatusPending,
	}, nil
}

// EnqueueEntityChanged stores the signals in the outbox inside tx so they
// are published only if the write they describe commits. A nil repository
// disables the outbox.
func EnqueueEntityChanged(ctx context.Context, repo OutboxRepository, tx *sql.Tx, changes ...events.EntityChangedEvent) error {
	if repo == nil || len(changes) == 0 {
		return nil
	}
	outbox := repo.WithTx(tx)
	for _, ch := range changes {
		event, err := NewEntityChangedOutboxEvent(ch)
		if err != nil {
			return err
		}
		if err := outbox.Create(ctx, event); err != nil {
			return err
		}
	}
	return nil
}
