package attendance

import (
	"context"
	"database/sql"

	"churchops/internal/shared/connection"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	PersonExists(ctx context.Context, personID uuid.UUID) (bool, error)
	Find(ctx context.Context, serviceID, personID uuid.UUID) (*Attendance, error)
	Upsert(ctx context.Context, a *Attendance) error
	Delete(ctx context.Context, serviceID, personID uuid.UUID) (bool, error)
	StatusMap(ctx context.Context, serviceID uuid.UUID, personIDs []uuid.UUID) (map[uuid.UUID]Status, error)
	ListByService(ctx context.Context, serviceID uuid.UUID) ([]Entry, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return connection.BindTx(ctx, r.db, r.tx)
}

func (r *repository) PersonExists(ctx context.Context, personID uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).
		Raw("SELECT EXISTS (SELECT 1 FROM people WHERE id = ?)", personID).
		Scan(&exists).Error
	return exists, err
}

func (r *repository) Find(ctx context.Context, serviceID, personID uuid.UUID) (*Attendance, error) {
	var a Attendance
	err := r.conn(ctx).
		Where("service_id = ? AND person_id = ?", serviceID, personID).
		First(&a).Error
	return &a, err
}

// Upsert writes the row keyed by (service_id, person_id). A concurrent insert
// of the same pair turns into an update instead of a conflict.
func (r *repository) Upsert(ctx context.Context, a *Attendance) error {
	return r.conn(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "service_id"}, {Name: "person_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "check_in_time", "updated_at"}),
		}).
		Create(a).Error
}

func (r *repository) Delete(ctx context.Context, serviceID, personID uuid.UUID) (bool, error) {
	res := r.conn(ctx).
		Where("service_id = ? AND person_id = ?", serviceID, personID).
		Delete(&Attendance{})
	return res.RowsAffected > 0, res.Error
}

// StatusMap returns the marked people of a service. An empty personIDs means
// everyone marked for it.
func (r *repository) StatusMap(ctx context.Context, serviceID uuid.UUID, personIDs []uuid.UUID) (map[uuid.UUID]Status, error) {
	q := r.conn(ctx).
		Model(&Attendance{}).
		Select("person_id, status").
		Where("service_id = ?", serviceID)
	if len(personIDs) > 0 {
		q = q.Where("person_id IN ?", personIDs)
	}

	var rows []struct {
		PersonID uuid.UUID
		Status   Status
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]Status, len(rows))
	for _, row := range rows {
		out[row.PersonID] = row.Status
	}
	return out, nil
}

func (r *repository) ListByService(ctx context.Context, serviceID uuid.UUID) ([]Entry, error) {
	var entries []Entry
	err := r.conn(ctx).
		Table("attendance a").
		Select("a.id, a.service_id, a.person_id, a.status, a.check_in_time, a.notes, a.created_at, a.updated_at, "+
			"p.first_name, p.last_name, c.name AS cell_name").
		Joins("JOIN people p ON p.id = a.person_id").
		Joins("JOIN cells c ON c.id = p.cell_id").
		Where("a.service_id = ?", serviceID).
		Order("p.last_name ASC, p.first_name ASC, p.id ASC").
		Scan(&entries).Error
	return entries, err
}
