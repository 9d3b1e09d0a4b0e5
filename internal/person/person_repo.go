package person

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"churchops/internal/hierarchy"
	"churchops/internal/shared/connection"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const recordColumns = `p.id, p.first_name, p.last_name, p.cell_id, p.email, p.phone, p.country, p.gender,
	p.is_active, p.created_at, p.updated_at,
	tm.id AS team_id, dp.id AS department_id, dr.id AS direction_id, r.id AS region_id,
	c.name AS cell_name, tm.name AS team_name, dp.name AS department_name,
	dr.name AS direction_name, r.name AS region_name`

// RosterOrder sorts people by their path names and then by name.
const RosterOrder = "r.name ASC, dr.name ASC, dp.name ASC, tm.name ASC, c.name ASC, p.last_name ASC, p.first_name ASC, p.id ASC"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a case-insensitive LIKE pattern matching s anywhere.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(s))) + "%"
}

//go:generate mockgen -source=person_repo.go -destination=mock/person_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*Person, error)
	FindRecord(ctx context.Context, id uuid.UUID) (*Record, error)
	Search(ctx context.Context, f Filter, limit, offset int) ([]Record, error)
	Count(ctx context.Context, f Filter) (int64, error)
	QuickSearch(ctx context.Context, term string, limit int) ([]Record, error)
	FindByEmail(ctx context.Context, email string) ([]Person, error)
	FindByPhone(ctx context.Context, phone string) ([]Person, error)
	FindByName(ctx context.Context, firstName, lastName string, fuzzy bool) ([]Person, error)
	Create(ctx context.Context, p *Person) error
	Update(ctx context.Context, p *Person) error
	Delete(ctx context.Context, id uuid.UUID) error
	Reassign(ctx context.Context, ids []uuid.UUID, cellID uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return connection.BindTx(ctx, r.db, r.tx)
}

func (r *repository) records(ctx context.Context) *gorm.DB {
	return joinPath(r.conn(ctx))
}

// Scoped selects people joined to their hierarchy path under the aliases
// p, c, tm, dp, dr and r, narrowed by f.
func Scoped(db *gorm.DB, f Filter) *gorm.DB {
	return applyFilter(joinPath(db), f)
}

func joinPath(db *gorm.DB) *gorm.DB {
	return db.
		Table("people p").
		Joins("JOIN cells c ON c.id = p.cell_id").
		Joins("JOIN teams tm ON tm.id = c.team_id").
		Joins("JOIN departments dp ON dp.id = tm.department_id").
		Joins("JOIN directions dr ON dr.id = dp.direction_id").
		Joins("JOIN regions r ON r.id = dr.region_id")
}

var selectionColumns = map[hierarchy.Level]string{
	hierarchy.LevelRegion:     "r.id",
	hierarchy.LevelDirection:  "dr.id",
	hierarchy.LevelDepartment: "dp.id",
	hierarchy.LevelTeam:       "tm.id",
	hierarchy.LevelCell:       "c.id",
}

func applyFilter(q *gorm.DB, f Filter) *gorm.DB {
	for _, level := range hierarchy.Levels {
		if id := f.Get(level); id != "" {
			q = q.Where(selectionColumns[level]+" = ?", id)
		}
	}
	if f.IsActive != nil {
		q = q.Where("p.is_active = ?", *f.IsActive)
	}
	if strings.TrimSpace(f.NameSearch) != "" {
		pattern := containsPattern(f.NameSearch)
		q = q.Where(`(LOWER(p.first_name) LIKE ? ESCAPE '\' OR LOWER(p.last_name) LIKE ? ESCAPE '\')`, pattern, pattern)
	}
	if strings.TrimSpace(f.Country) != "" {
		q = q.Where("LOWER(p.country) = LOWER(?)", strings.TrimSpace(f.Country))
	}
	if strings.TrimSpace(f.Gender) != "" {
		q = q.Where("LOWER(p.gender) = LOWER(?)", strings.TrimSpace(f.Gender))
	}
	return q
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Person, error) {
	var p Person
	err := r.conn(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *repository) FindRecord(ctx context.Context, id uuid.UUID) (*Record, error) {
	var recs []Record
	err := r.records(ctx).
		Select(recordColumns).
		Where("p.id = ?", id).
		Limit(1).
		Scan(&recs).Error
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &recs[0], nil
}

// Search lists people in roster order. A non-positive limit returns every match.
func (r *repository) Search(ctx context.Context, f Filter, limit, offset int) ([]Record, error) {
	q := applyFilter(r.records(ctx).Select(recordColumns), f).Order(RosterOrder)
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	var recs []Record
	err := q.Scan(&recs).Error
	return recs, err
}

func (r *repository) Count(ctx context.Context, f Filter) (int64, error) {
	var total int64
	err := applyFilter(r.records(ctx), f).Count(&total).Error
	return total, err
}

// QuickSearch matches active people whose first or last name contains term.
func (r *repository) QuickSearch(ctx context.Context, term string, limit int) ([]Record, error) {
	active := true
	q := applyFilter(r.records(ctx).Select(recordColumns), Filter{IsActive: &active, NameSearch: term}).
		Order("p.last_name ASC, p.first_name ASC, p.id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var recs []Record
	err := q.Scan(&recs).Error
	return recs, err
}

func (r *repository) FindByEmail(ctx context.Context, email string) ([]Person, error) {
	var people []Person
	err := r.conn(ctx).
		Where("LOWER(email) = LOWER(?)", strings.TrimSpace(email)).
		Order("created_at ASC, id ASC").
		Find(&people).Error
	return people, err
}

// FindByPhone compares numbers after stripping formatting on both sides.
func (r *repository) FindByPhone(ctx context.Context, phone string) ([]Person, error) {
	var people []Person
	err := r.conn(ctx).
		Where("regexp_replace(phone, '[^0-9+]', '', 'g') = ?", NormalizePhone(phone)).
		Order("created_at ASC, id ASC").
		Find(&people).Error
	return people, err
}

// FindByName matches both names case-insensitively. In fuzzy mode each given
// name only has to occur inside the stored one.
func (r *repository) FindByName(ctx context.Context, firstName, lastName string, fuzzy bool) ([]Person, error) {
	q := r.conn(ctx)
	if fuzzy {
		q = q.Where(`LOWER(first_name) LIKE ? ESCAPE '\'`, containsPattern(firstName)).
			Where(`LOWER(last_name) LIKE ? ESCAPE '\'`, containsPattern(lastName))
	} else {
		q = q.Where("LOWER(first_name) = LOWER(?)", strings.TrimSpace(firstName)).
			Where("LOWER(last_name) = LOWER(?)", strings.TrimSpace(lastName))
	}

	var people []Person
	err := q.Order("created_at ASC, id ASC").Find(&people).Error
	return people, err
}

func (r *repository) Create(ctx context.Context, p *Person) error {
	return r.conn(ctx).Create(p).Error
}

func (r *repository) Update(ctx context.Context, p *Person) error {
	p.UpdatedAt = time.Now().UTC()
	res := r.conn(ctx).
		Model(&Person{ID: p.ID}).
		Select("first_name", "last_name", "cell_id", "email", "phone", "country", "gender", "is_active", "updated_at").
		Updates(p)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.conn(ctx).Delete(&Person{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Reassign moves every listed person to cellID and reports how many rows moved.
func (r *repository) Reassign(ctx context.Context, ids []uuid.UUID, cellID uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.conn(ctx).
		Model(&Person{}).
		Where("id IN ?", ids).
		Updates(map[string]any{"cell_id": cellID, "updated_at": time.Now().UTC()})
	return res.RowsAffected, res.Error
}
