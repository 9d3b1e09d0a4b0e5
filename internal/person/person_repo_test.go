package person_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"churchops/internal/hierarchy"
	"churchops/internal/person"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

var personColumns = []string{"id", "first_name", "last_name", "cell_id", "email", "phone", "country", "gender", "is_active", "created_at", "updated_at"}

func TestRepository_FindByName(t *testing.T) {
	ctx := context.Background()

	t.Run("fuzzy matches substrings of both names", func(t *testing.T) {
		gdb, mock := setupGormMock(t)
		repo := person.NewRepository(gdb)
		id, cellID := uuid.New(), uuid.New()
		now := time.Now()

		mock.ExpectQuery(regexp.QuoteMeta(
			`WHERE LOWER(first_name) LIKE $1 ESCAPE '\' AND LOWER(last_name) LIKE $2 ESCAPE '\' ORDER BY created_at ASC, id ASC`,
		)).WithArgs("%jon%", "%smith%").
			WillReturnRows(sqlmock.NewRows(personColumns).
				AddRow(id.String(), "Jonathan", "Smith", cellID.String(), nil, nil, nil, nil, true, now, now))

		people, err := repo.FindByName(ctx, " Jon ", "SMITH", true)

		assert.NoError(t, err)
		assert.Len(t, people, 1)
		assert.Equal(t, "Jonathan", people[0].FirstName)
		assert.Nil(t, people[0].Email)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("fuzzy escapes wildcards", func(t *testing.T) {
		gdb, mock := setupGormMock(t)
		repo := person.NewRepository(gdb)

		mock.ExpectQuery(regexp.QuoteMeta(`LOWER(first_name) LIKE $1`)).
			WithArgs(`%a\_b\%%`, "%c%").
			WillReturnRows(sqlmock.NewRows(personColumns))

		people, err := repo.FindByName(ctx, "a_b%", "c", true)

		assert.NoError(t, err)
		assert.Empty(t, people)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("exact compares whole names", func(t *testing.T) {
		gdb, mock := setupGormMock(t)
		repo := person.NewRepository(gdb)

		mock.ExpectQuery(regexp.QuoteMeta(
			`WHERE LOWER(first_name) = LOWER($1) AND LOWER(last_name) = LOWER($2)`,
		)).WithArgs("Jon", "Smith").
			WillReturnRows(sqlmock.NewRows(personColumns))

		people, err := repo.FindByName(ctx, "Jon", "Smith", false)

		assert.NoError(t, err)
		assert.Empty(t, people)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_FindByPhone_Normalizes(t *testing.T) {
	gdb, mock := setupGormMock(t)
	repo := person.NewRepository(gdb)

	mock.ExpectQuery(regexp.QuoteMeta(`regexp_replace(phone, '[^0-9+]', '', 'g') = $1`)).
		WithArgs("+15550102030").
		WillReturnRows(sqlmock.NewRows(personColumns))

	_, err := repo.FindByPhone(context.Background(), "+1 (555) 010-2030")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Search_FiltersAndOrders(t *testing.T) {
	gdb, mock := setupGormMock(t)
	repo := person.NewRepository(gdb)
	regionID := uuid.NewString()
	active := true

	mock.ExpectQuery(regexp.QuoteMeta(
		`WHERE r.id = $1 AND p.is_active = $2 AND ((LOWER(p.first_name) LIKE $3 ESCAPE '\' OR LOWER(p.last_name) LIKE $4 ESCAPE '\')) ` +
			`ORDER BY r.name ASC, dr.name ASC, dp.name ASC, tm.name ASC, c.name ASC, p.last_name ASC, p.first_name ASC, p.id ASC`,
	)).WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "cell_name", "region_name"}).
		AddRow(uuid.NewString(), "Ann", "Bell", "Cell A", "North"))

	recs, err := repo.Search(context.Background(), person.Filter{
		Selection:  hierarchy.Selection{RegionID: regionID},
		IsActive:   &active,
		NameSearch: "an",
	}, 100, 0)

	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "North", recs[0].RegionName)
	assert.Equal(t, "Cell A", recs[0].Path().CellName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Delete_NotFound(t *testing.T) {
	gdb, mock := setupGormMock(t)
	repo := person.NewRepository(gdb)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "people" WHERE id = $1`)).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Delete(context.Background(), id)

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
