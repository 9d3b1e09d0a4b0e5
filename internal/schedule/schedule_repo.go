package schedule

import (
	"context"
	"database/sql"
	"time"

	"churchops/internal/shared/connection"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const serviceColumns = "s.id, s.service_type_id, s.service_date, s.service_time, s.notes, s.created_at, s.updated_at, st.name AS service_type_name"

//go:generate mockgen -source=schedule_repo.go -destination=mock/schedule_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	CreateType(ctx context.Context, st *ServiceType) error
	ListTypes(ctx context.Context) ([]ServiceType, error)
	FindTypeByID(ctx context.Context, id uuid.UUID) (*ServiceType, error)
	Create(ctx context.Context, s *Occurrence) error
	FindByID(ctx context.Context, id uuid.UUID) (*ServiceRecord, error)
	ListUpcoming(ctx context.Context, from time.Time, limit int) ([]ServiceRecord, error)
	ListInRange(ctx context.Context, rng Range, serviceTypeID *uuid.UUID, limit int) ([]ServiceRecord, error)
	CountInRange(ctx context.Context, rng Range, serviceTypeID *uuid.UUID) (int64, error)
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

func (r *repository) services(ctx context.Context) *gorm.DB {
	return r.conn(ctx).
		Table("services s").
		Select(serviceColumns).
		Joins("JOIN service_types st ON st.id = s.service_type_id")
}

func (r *repository) CreateType(ctx context.Context, st *ServiceType) error {
	return r.conn(ctx).Create(st).Error
}

func (r *repository) ListTypes(ctx context.Context) ([]ServiceType, error) {
	var types []ServiceType
	err := r.conn(ctx).Order("name ASC, id ASC").Find(&types).Error
	return types, err
}

func (r *repository) FindTypeByID(ctx context.Context, id uuid.UUID) (*ServiceType, error) {
	var st ServiceType
	err := r.conn(ctx).First(&st, "id = ?", id).Error
	return &st, err
}

func (r *repository) Create(ctx context.Context, s *Occurrence) error {
	return r.conn(ctx).Create(s).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*ServiceRecord, error) {
	var recs []ServiceRecord
	if err := r.services(ctx).Where("s.id = ?", id).Limit(1).Scan(&recs).Error; err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &recs[0], nil
}

func (r *repository) ListUpcoming(ctx context.Context, from time.Time, limit int) ([]ServiceRecord, error) {
	q := r.services(ctx).
		Where("s.service_date >= ?", Day(from).Format(DateLayout)).
		Order("s.service_date ASC, s.service_time ASC, s.id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var recs []ServiceRecord
	err := q.Scan(&recs).Error
	return recs, err
}

// ListInRange returns the services of the range, most recent first.
func (r *repository) ListInRange(ctx context.Context, rng Range, serviceTypeID *uuid.UUID, limit int) ([]ServiceRecord, error) {
	q := inRange(r.services(ctx), rng, serviceTypeID).
		Order("s.service_date DESC, s.service_time DESC, s.id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var recs []ServiceRecord
	err := q.Scan(&recs).Error
	return recs, err
}

func (r *repository) CountInRange(ctx context.Context, rng Range, serviceTypeID *uuid.UUID) (int64, error) {
	var total int64
	err := inRange(r.conn(ctx).Table("services s"), rng, serviceTypeID).Count(&total).Error
	return total, err
}

func inRange(q *gorm.DB, rng Range, serviceTypeID *uuid.UUID) *gorm.DB {
	q = q.Where("s.service_date BETWEEN ? AND ?", Day(rng.From).Format(DateLayout), Day(rng.To).Format(DateLayout))
	if serviceTypeID != nil {
		q = q.Where("s.service_type_id = ?", *serviceTypeID)
	}
	return q
}
