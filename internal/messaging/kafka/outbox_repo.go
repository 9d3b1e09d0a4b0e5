package kafka

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"churchops/internal/shared/connection"

	"gorm.io/gorm"
)

const (
	OutboxStatusPending = "pending"
	OutboxStatusSent    = "sent"
	OutboxStatusFailed  = "failed"
)

const (
	maxOutboxRetries  = 10
	outboxRetryStep   = 15 * time.Second
	maxFailureMessage = 500
)

// OutboxEvent is a change signal waiting to be published. It is written in
// the same transaction as the change it describes.
type OutboxEvent struct {
	ID            string `gorm:"type:uuid;primaryKey"`
	RequestID     string
	AggregateType string
	AggregateID   string
	EventType     string
	Topic         string
	Payload       []byte `gorm:"type:jsonb"`
	Status        string
	RetryCount    int
	ErrorMessage  *string
	NextRetryAt   *time.Time
	ProcessedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (OutboxEvent) TableName() string {
	return "outbox_events"
}

//go:generate mockgen -source=outbox_repo.go -destination=mock/outbox_repo_mock.go -package=mock
type OutboxRepository interface {
	WithTx(tx *sql.Tx) OutboxRepository
	Create(ctx context.Context, event OutboxEvent) error
	ListPending(ctx context.Context, limit int) ([]OutboxEvent, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, reason string) error
}

type outboxRepository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewOutboxRepository(db *gorm.DB) OutboxRepository {
	return &outboxRepository{db: db}
}

func (r *outboxRepository) WithTx(tx *sql.Tx) OutboxRepository {
	return &outboxRepository{db: r.db, tx: tx}
}

func (r *outboxRepository) conn(ctx context.Context) *gorm.DB {
	return connection.BindTx(ctx, r.db, r.tx)
}

func (r *outboxRepository) Create(ctx context.Context, event OutboxEvent) error {
	if err := ValidateOutboxEvent(event); err != nil {
		return err
	}
	return r.conn(ctx).Create(&event).Error
}

// ListPending returns due events oldest first. Failed events come back once
// their retry delay elapsed, until they run out of attempts.
func (r *outboxRepository) ListPending(ctx context.Context, limit int) ([]OutboxEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	events := make([]OutboxEvent, 0, limit)
	err := r.conn(ctx).
		Where("status IN ?", []string{OutboxStatusPending, OutboxStatusFailed}).
		Where("retry_count < ?", maxOutboxRetries).
		Where("next_retry_at IS NULL OR next_retry_at <= NOW()").
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&events).Error
	return events, err
}

func (r *outboxRepository) MarkSent(ctx context.Context, id string) error {
	return r.conn(ctx).
		Model(&OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":        OutboxStatusSent,
			"processed_at":  gorm.Expr("NOW()"),
			"error_message": nil,
		}).Error
}

// MarkFailed counts the attempt and pushes the next one back by one more
// retry step per failure, capped at maxOutboxRetries steps.
func (r *outboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return r.conn(ctx).
		Model(&OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":        OutboxStatusFailed,
			"retry_count":   gorm.Expr("retry_count + 1"),
			"error_message": failureMessage(reason),
			"next_retry_at": gorm.Expr("NOW() + LEAST(retry_count + 1, ?) * make_interval(secs => ?)",
				maxOutboxRetries, outboxRetryStep.Seconds()),
		}).Error
}

func failureMessage(reason string) string {
	runes := []rune(reason)
	if len(runes) > maxFailureMessage {
		return string(runes[:maxFailureMessage])
	}
	return reason
}

func ValidateOutboxEvent(event OutboxEvent) error {
	if event.ID == "" {
		return errors.New("outbox id is required")
	}
	if event.Topic == "" {
		return errors.New("outbox topic is required")
	}
	if len(event.Payload) == 0 {
		return errors.New("outbox payload is required")
	}
	switch event.Status {
	case OutboxStatusPending, OutboxStatusSent, OutboxStatusFailed:
		return nil
	default:
		return fmt.Errorf("invalid outbox status: %s", event.Status)
	}
}
