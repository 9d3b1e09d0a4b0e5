package cache_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"churchops/internal/cache"
	"churchops/internal/events"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

type option struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestTyped_Key(t *testing.T) {
	c := cache.NewTyped[[]option](nil, cache.HierarchyOptions, time.Minute)

	assert.Equal(t, "hierarchy:options", c.Key())
	assert.Equal(t, "hierarchy:options:direction:r1:-", c.Key("direction", "r1", ""))
}

func TestTyped_GetOrLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("hit skips loader", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		c := cache.NewTyped[[]option](rdb, cache.HierarchyOptions, time.Minute)
		key := c.Key("region")

		cached, _ := json.Marshal([]option{{ID: "r1", Name: "North"}})
		mock.ExpectGet(key).SetVal(string(cached))

		got, err := c.GetOrLoad(ctx, key, func(context.Context) ([]option, error) {
			t.Fatal("loader must not run on cache hit")
			return nil, nil
		})

		assert.NoError(t, err)
		assert.Equal(t, "North", got[0].Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("miss loads and stores", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		c := cache.NewTyped[[]option](rdb, cache.HierarchyOptions, time.Minute)
		key := c.Key("region")
		loaded := []option{{ID: "r2", Name: "South"}}
		payload, _ := json.Marshal(loaded)

		mock.ExpectGet(key).RedisNil()
		mock.ExpectSet(key, payload, time.Minute).SetVal("OK")

		got, err := c.GetOrLoad(ctx, key, func(context.Context) ([]option, error) {
			return loaded, nil
		})

		assert.NoError(t, err)
		assert.Equal(t, loaded, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("loader error is returned and nothing cached", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		c := cache.NewTyped[[]option](rdb, cache.HierarchyOptions, time.Minute)
		key := c.Key("region")

		mock.ExpectGet(key).RedisNil()

		got, err := c.GetOrLoad(ctx, key, func(context.Context) ([]option, error) {
			return nil, errors.New("db down")
		})

		assert.EqualError(t, err, "db down")
		assert.Nil(t, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nil client passes through", func(t *testing.T) {
		c := cache.NewTyped[int](nil, cache.OverviewStats, 0)
		got, err := c.GetOrLoad(ctx, c.Key(), func(context.Context) (int, error) { return 7, nil })
		assert.NoError(t, err)
		assert.Equal(t, 7, got)
	})
}

func TestPrefixesFor(t *testing.T) {
	assert.Equal(t,
		[]string{cache.HierarchyOptions, cache.HierarchyTree, cache.OverviewStats},
		cache.PrefixesFor(events.EntityChangedEvent{Entity: events.EntityCell}),
	)
	assert.Equal(t,
		[]string{cache.OverviewStats},
		cache.PrefixesFor(
			events.EntityChangedEvent{Entity: events.EntityPerson},
			events.EntityChangedEvent{Entity: events.EntityAttendance},
		),
	)
	assert.Empty(t, cache.PrefixesFor())
}

func TestInvalidator_Notify(t *testing.T) {
	ctx := context.Background()
	rdb, mock := redismock.NewClientMock()
	inv := cache.NewInvalidator(rdb)

	mock.ExpectDel(cache.OverviewStats).SetVal(1)
	mock.ExpectScan(0, cache.OverviewStats+":*", 100).SetVal([]string{}, 0)

	err := inv.Notify(ctx, events.EntityChangedEvent{Entity: events.EntityPerson, EntityID: "p1"})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvalidator_InvalidatePrefix_FollowsCursor(t *testing.T) {
	ctx := context.Background()
	rdb, mock := redismock.NewClientMock()
	inv := cache.NewInvalidator(rdb)

	prefix := cache.HierarchyOptions
	mock.ExpectDel(prefix).SetVal(0)
	mock.ExpectScan(0, prefix+":*", 100).SetVal([]string{prefix + ":region"}, 12)
	mock.ExpectDel(prefix + ":region").SetVal(1)
	mock.ExpectScan(12, prefix+":*", 100).SetVal([]string{prefix + ":direction:r1"}, 0)
	mock.ExpectDel(prefix + ":direction:r1").SetVal(1)

	assert.NoError(t, inv.InvalidatePrefix(ctx, prefix))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvalidator_ScanError(t *testing.T) {
	ctx := context.Background()
	rdb, mock := redismock.NewClientMock()
	inv := cache.NewInvalidator(rdb)

	mock.ExpectDel(cache.OverviewStats).SetVal(0)
	mock.ExpectScan(0, cache.OverviewStats+":*", 100).SetErr(errors.New("conn reset"))

	err := inv.Notify(ctx, events.EntityChangedEvent{Entity: events.EntityService})
	assert.EqualError(t, err, "conn reset")
}
