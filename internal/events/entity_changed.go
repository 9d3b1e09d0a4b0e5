package events

import (
	"context"
	"time"

	"churchops/internal/shared/contextutil"
)

const EntityChangedTopic = "churchops.entity.changed.v1"

const EntityChangedEventType = "entity_changed"

const (
	EntityRegion     = "region"
	EntityDirection  = "direction"
	EntityDepartment = "department"
	EntityTeam       = "team"
	EntityCell       = "cell"
	EntityPerson     = "person"
	EntityService    = "service"
	EntityAttendance = "attendance"
)

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// EntityChangedEvent tells owners of derived views that an entity was
// written and any view built from it is stale.
type EntityChangedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	Entity     string    `json:"entity"`
	EntityID   string    `json:"entity_id"`
	Action     string    `json:"action"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewEntityChanged(ctx context.Context, entity, entityID, action string) EntityChangedEvent {
	return EntityChangedEvent{
		EventType:  EntityChangedEventType,
		RequestID:  contextutil.GetRequestID(ctx),
		Entity:     entity,
		EntityID:   entityID,
		Action:     action,
		OccurredAt: time.Now().UTC(),
	}
}

// IsHierarchy reports whether the entity is one of the five organizational levels.
func IsHierarchy(entity string) bool {
	switch entity {
	case EntityRegion, EntityDirection, EntityDepartment, EntityTeam, EntityCell:
		return true
	default:
		return false
	}
}
