package hierarchy_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"churchops/internal/hierarchy"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupGormMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	assert.NoError(t, err)
	return gdb, mock
}

func TestRepository_List_CascadesFromRegion(t *testing.T) {
	gdb, mock := setupGormMock(t)
	repo := hierarchy.NewRepository(gdb)

	regionID := uuid.New()
	d1, d2 := uuid.New(), uuid.New()
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "name", "parent_id", "created_at", "updated_at"}).
		AddRow(d1.String(), "Worship", regionID.String(), now, now).
		AddRow(d2.String(), "Youth", regionID.String(), now, now)

	mock.ExpectQuery(regexp.QuoteMeta(
		"FROM directions dr JOIN regions r ON r.id = dr.region_id WHERE r.id = $1 ORDER BY dr.name ASC, dr.id ASC",
	)).WithArgs(regionID.String()).WillReturnRows(rows)

	nodes, err := repo.List(context.Background(), hierarchy.LevelDirection, hierarchy.Selection{
		RegionID: regionID.String(),
		TeamID:   uuid.NewString(),
	})

	assert.NoError(t, err)
	assert.Len(t, nodes, 2)
	assert.Equal(t, "Worship", nodes[0].Name)
	assert.Equal(t, regionID, *nodes[1].ParentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_List_CellsUnderDirection(t *testing.T) {
	gdb, mock := setupGormMock(t)
	repo := hierarchy.NewRepository(gdb)
	directionID := uuid.NewString()

	mock.ExpectQuery(regexp.QuoteMeta(
		"FROM cells c JOIN teams tm ON tm.id = c.team_id JOIN departments dp ON dp.id = tm.department_id " +
			"JOIN directions dr ON dr.id = dp.direction_id WHERE dr.id = $1",
	)).WithArgs(directionID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "parent_id", "created_at", "updated_at"}))

	nodes, err := repo.List(context.Background(), hierarchy.LevelCell, hierarchy.Selection{DirectionID: directionID})

	assert.NoError(t, err)
	assert.Empty(t, nodes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Insert_ConflictInsideTx(t *testing.T) {
	gdb, mock := setupGormMock(t)
	repo := hierarchy.NewRepository(gdb)
	sqlDB, err := gdb.DB()
	assert.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "cells" .* ON CONFLICT DO NOTHING`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	tx, err := sqlDB.Begin()
	assert.NoError(t, err)

	teamID := uuid.New()
	inserted, err := repo.WithTx(tx).Insert(context.Background(), hierarchy.LevelCell, &hierarchy.Node{
		ID:       uuid.New(),
		Name:     "Cell A",
		ParentID: &teamID,
	})

	assert.NoError(t, err)
	assert.False(t, inserted)
	assert.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}
