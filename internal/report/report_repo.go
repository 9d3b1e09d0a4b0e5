package report

import (
	"context"
	"database/sql"
	"time"

	"churchops/internal/attendance"
	"churchops/internal/person"
	"churchops/internal/schedule"
	"churchops/internal/shared/connection"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const tallyColumns = `p.id AS person_id, p.first_name, p.last_name, p.gender,
	c.name AS cell_name, tm.name AS team_name, dp.name AS department_name,
	dr.name AS direction_name, r.name AS region_name,
	COUNT(a.id) FILTER (WHERE a.status = ?) AS present,
	COUNT(a.id) FILTER (WHERE a.status = ?) AS watched_recording,
	COUNT(a.id) FILTER (WHERE a.status = ?) AS absent`

//go:generate mockgen -source=report_repo.go -destination=mock/report_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	PersonTallies(ctx context.Context, scope Scope, rng schedule.Range) ([]PersonTally, error)
	PresentByDate(ctx context.Context, scope Scope, rng schedule.Range) ([]DateCount, error)
	PresentByGroup(ctx context.Context, scope Scope, rng schedule.Range, by GroupBy) ([]GroupCount, error)
	ServiceCounts(ctx context.Context, rng schedule.Range, limit int) ([]ServiceCount, error)
	CountActivePeople(ctx context.Context) (int64, error)
	CountServicesFrom(ctx context.Context, from time.Time) (int64, error)
	TopDepartments(ctx context.Context, limit int) ([]GroupCount, error)
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

func servicesIn(q *gorm.DB, rng schedule.Range, serviceTypeID *uuid.UUID) *gorm.DB {
	q = q.Where("s.service_date BETWEEN ? AND ?",
		schedule.Day(rng.From).Format(schedule.DateLayout),
		schedule.Day(rng.To).Format(schedule.DateLayout),
	)
	if serviceTypeID != nil {
		q = q.Where("s.service_type_id = ?", *serviceTypeID)
	}
	return q
}

func (s Scope) filter(active *bool) person.Filter {
	return person.Filter{Selection: s.Selection, Gender: s.Gender, IsActive: active}
}

// PersonTallies lists every active person in scope with their marks for the
// services of the range, including people who were never marked.
func (r *repository) PersonTallies(ctx context.Context, scope Scope, rng schedule.Range) ([]PersonTally, error) {
	active := true
	join := `LEFT JOIN attendance a ON a.person_id = p.id AND a.service_id IN (
		SELECT s.id FROM services s WHERE s.service_date BETWEEN ? AND ?`
	args := []any{
		schedule.Day(rng.From).Format(schedule.DateLayout),
		schedule.Day(rng.To).Format(schedule.DateLayout),
	}
	if scope.ServiceTypeID != nil {
		join += " AND s.service_type_id = ?"
		args = append(args, *scope.ServiceTypeID)
	}
	join += ")"

	var rows []PersonTally
	err := person.Scoped(r.conn(ctx), scope.filter(&active)).
		Joins(join, args...).
		Select(tallyColumns, attendance.StatusPresent, attendance.StatusWatchedRecording, attendance.StatusAbsent).
		Group("p.id, c.name, tm.name, dp.name, dr.name, r.name").
		Order(person.RosterOrder).
		Scan(&rows).Error
	return rows, err
}

func (r *repository) presentMarks(ctx context.Context, scope Scope, rng schedule.Range) *gorm.DB {
	q := person.Scoped(r.conn(ctx), scope.filter(nil)).
		Joins("JOIN attendance a ON a.person_id = p.id").
		Joins("JOIN services s ON s.id = a.service_id").
		Where("a.status = ?", attendance.StatusPresent)
	return servicesIn(q, rng, scope.ServiceTypeID)
}

// PresentByDate counts present marks per service day and type, oldest first.
func (r *repository) PresentByDate(ctx context.Context, scope Scope, rng schedule.Range) ([]DateCount, error) {
	var rows []DateCount
	err := r.presentMarks(ctx, scope, rng).
		Joins("JOIN service_types st ON st.id = s.service_type_id").
		Select("s.service_date AS service_date, st.name AS service_type, COUNT(a.id) AS count").
		Group("s.service_date, st.name").
		Order("s.service_date ASC, st.name ASC").
		Scan(&rows).Error
	return rows, err
}

// PresentByGroup counts present marks per department or team, largest first.
func (r *repository) PresentByGroup(ctx context.Context, scope Scope, rng schedule.Range, by GroupBy) ([]GroupCount, error) {
	alias := "dp"
	if by == GroupByTeam {
		alias = "tm"
	}
	var rows []GroupCount
	err := r.presentMarks(ctx, scope, rng).
		Select(alias + ".id AS id, " + alias + ".name AS name, COUNT(a.id) AS count").
		Group(alias + ".id, " + alias + ".name").
		Order("count DESC, name ASC").
		Scan(&rows).Error
	return rows, err
}

// ServiceCounts lists the services of the range, most recent first, with
// how many people were marked and how many were present.
func (r *repository) ServiceCounts(ctx context.Context, rng schedule.Range, limit int) ([]ServiceCount, error) {
	q := servicesIn(r.conn(ctx).Table("services s"), rng, nil).
		Joins("JOIN service_types st ON st.id = s.service_type_id").
		Joins("LEFT JOIN attendance a ON a.service_id = s.id").
		Select(`s.id AS service_id, st.name AS service_type_name, s.service_date, s.service_time,
			COUNT(a.id) AS attendance_count,
			COUNT(a.id) FILTER (WHERE a.status = ?) AS present_count`, attendance.StatusPresent).
		Group("s.id, st.name").
		Order("s.service_date DESC, s.service_time DESC, s.id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []ServiceCount
	err := q.Scan(&rows).Error
	return rows, err
}

func (r *repository) CountActivePeople(ctx context.Context) (int64, error) {
	var total int64
	err := r.conn(ctx).Table("people").Where("is_active = ?", true).Count(&total).Error
	return total, err
}

func (r *repository) CountServicesFrom(ctx context.Context, from time.Time) (int64, error) {
	var total int64
	err := r.conn(ctx).Table("services").
		Where("service_date >= ?", schedule.Day(from).Format(schedule.DateLayout)).
		Count(&total).Error
	return total, err
}

// TopDepartments ranks departments by how many people their cells hold.
func (r *repository) TopDepartments(ctx context.Context, limit int) ([]GroupCount, error) {
	var rows []GroupCount
	err := r.conn(ctx).Table("departments dp").
		Joins("JOIN teams tm ON tm.department_id = dp.id").
		Joins("JOIN cells c ON c.team_id = tm.id").
		Joins("JOIN people p ON p.cell_id = c.id").
		Select("dp.id AS id, dp.name AS name, COUNT(p.id) AS count").
		Group("dp.id, dp.name").
		Order("count DESC, name ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
