package attendance_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"churchops/internal/attendance"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestRepository_PersonExists(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()
	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	assert.NoError(t, err)

	personID := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS (SELECT 1 FROM people WHERE id = $1)`)).
		WithArgs(personID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	exists, err := attendance.NewRepository(gdb).PersonExists(context.Background(), personID)

	assert.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Upsert_OnServicePerson(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()
	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	assert.NoError(t, err)

	now := time.Now().UTC()
	row := &attendance.Attendance{
		ID:          uuid.New(),
		ServiceID:   uuid.New(),
		PersonID:    uuid.New(),
		Status:      attendance.StatusPresent,
		CheckInTime: &now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(
		`ON CONFLICT ("service_id","person_id") DO UPDATE SET "status"="excluded"."status","check_in_time"="excluded"."check_in_time","updated_at"="excluded"."updated_at"`,
	)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = attendance.NewRepository(gdb).Upsert(context.Background(), row)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
