package events_test

import (
	"context"
	"errors"
	"testing"

	"churchops/internal/events"
	"churchops/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
)

func TestNewEntityChanged_CarriesRequestID(t *testing.T) {
	ctx := contextutil.WithRequestID(context.Background(), "rid-1")

	ev := events.NewEntityChanged(ctx, events.EntityCell, "cell-1", events.ActionCreated)

	assert.Equal(t, events.EntityChangedEventType, ev.EventType)
	assert.Equal(t, "rid-1", ev.RequestID)
	assert.Equal(t, "cell", ev.Entity)
	assert.False(t, ev.OccurredAt.IsZero())
	assert.True(t, events.IsHierarchy(ev.Entity))
	assert.False(t, events.IsHierarchy(events.EntityPerson))
}

func TestFanout_DeliversToAllAndJoinsErrors(t *testing.T) {
	var got []string
	ok := events.NotifierFunc(func(ctx context.Context, changes ...events.EntityChangedEvent) error {
		for _, c := range changes {
			got = append(got, c.EntityID)
		}
		return nil
	})
	failing := events.NotifierFunc(func(ctx context.Context, changes ...events.EntityChangedEvent) error {
		return errors.New("redis down")
	})

	n := events.Fanout(failing, nil, ok)
	err := n.Notify(context.Background(),
		events.EntityChangedEvent{EntityID: "a"},
		events.EntityChangedEvent{EntityID: "b"},
	)

	assert.EqualError(t, err, "redis down")
	assert.Equal(t, []string{"a", "b"}, got)
	assert.NoError(t, n.Notify(context.Background()))
}

func TestCollector(t *testing.T) {
	var c events.Collector
	c.Add(events.EntityChangedEvent{EntityID: "x"})
	assert.Len(t, c.Changes(), 1)
	c.Reset()
	assert.Empty(t, c.Changes())
}
