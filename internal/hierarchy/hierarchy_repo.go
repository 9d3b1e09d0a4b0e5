package hierarchy

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"churchops/internal/shared/connection"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const pathSelect = `
SELECT
	r.id AS region_id, r.name AS region_name,
	dr.id AS direction_id, dr.name AS direction_name,
	dp.id AS department_id, dp.name AS department_name,
	tm.id AS team_id, tm.name AS team_name,
	c.id AS cell_id, c.name AS cell_name
FROM cells c
JOIN teams tm ON tm.id = c.team_id
JOIN departments dp ON dp.id = tm.department_id
JOIN directions dr ON dr.id = dp.direction_id
JOIN regions r ON r.id = dr.region_id
`

//go:generate mockgen -source=hierarchy_repo.go -destination=mock/hierarchy_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindByID(ctx context.Context, level Level, id string) (*Node, error)
	FindByName(ctx context.Context, level Level, name string, parentID *uuid.UUID) (*Node, error)
	Insert(ctx context.Context, level Level, node *Node) (bool, error)
	List(ctx context.Context, level Level, sel Selection) ([]Node, error)
	FindPath(ctx context.Context, cellID uuid.UUID) (*Path, error)
	FindCellPaths(ctx context.Context, names Names) ([]Path, error)
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

func selectColumns(level Level) string {
	m := metas[level]
	parent := "NULL::uuid"
	if m.parentColumn != "" {
		parent = m.alias + "." + m.parentColumn
	}
	return fmt.Sprintf("%[1]s.id, %[1]s.name, %[2]s AS parent_id, %[1]s.created_at, %[1]s.updated_at", m.alias, parent)
}

func (r *repository) FindByID(ctx context.Context, level Level, id string) (*Node, error) {
	m := metas[level]
	var nodes []Node
	err := r.conn(ctx).
		Table(m.table+" "+m.alias).
		Select(selectColumns(level)).
		Where(m.alias+".id = ?", id).
		Limit(1).
		Scan(&nodes).Error
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &nodes[0], nil
}

// FindByName matches case-insensitively within one parent. The oldest row
// wins if legacy data holds duplicates.
func (r *repository) FindByName(ctx context.Context, level Level, name string, parentID *uuid.UUID) (*Node, error) {
	m := metas[level]
	q := r.conn(ctx).
		Table(m.table+" "+m.alias).
		Select(selectColumns(level)).
		Where("LOWER("+m.alias+".name) = LOWER(?)", strings.TrimSpace(name))
	if m.parentColumn != "" {
		q = q.Where(m.alias+"."+m.parentColumn+" = ?", parentID)
	}

	var nodes []Node
	if err := q.Order(m.alias + ".created_at ASC, " + m.alias + ".id ASC").Limit(1).Scan(&nodes).Error; err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &nodes[0], nil
}

// Insert adds the node unless an equally named sibling exists, in which case
// it reports false and leaves the table untouched.
func (r *repository) Insert(ctx context.Context, level Level, node *Node) (bool, error) {
	m := metas[level]
	now := time.Now().UTC()
	values := map[string]any{
		"id":         node.ID,
		"name":       node.Name,
		"created_at": now,
		"updated_at": now,
	}
	if m.parentColumn != "" {
		values[m.parentColumn] = node.ParentID
	}

	res := r.conn(ctx).
		Table(m.table).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(values)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	node.CreatedAt, node.UpdatedAt = now, now
	return true, nil
}

// List returns the nodes of one level restricted by any selected ancestor,
// ordered by name.
func (r *repository) List(ctx context.Context, level Level, sel Selection) ([]Node, error) {
	m := metas[level]
	q := r.conn(ctx).
		Table(m.table + " " + m.alias).
		Select(selectColumns(level))

	ancestors := sel.Above(level)
	top := -1
	for i, l := range Levels[:level.index()] {
		if ancestors.Get(l) != "" && top < 0 {
			top = i
		}
	}
	if top >= 0 {
		for i := level.index(); i > top; i-- {
			q = q.Joins(metas[Levels[i]].joinParent)
		}
		for _, l := range Levels[top:level.index()] {
			if id := ancestors.Get(l); id != "" {
				q = q.Where(metas[l].alias+".id = ?", id)
			}
		}
	}

	var nodes []Node
	err := q.Order(m.alias + ".name ASC, " + m.alias + ".id ASC").Scan(&nodes).Error
	return nodes, err
}

func (r *repository) FindPath(ctx context.Context, cellID uuid.UUID) (*Path, error) {
	var paths []Path
	if err := r.conn(ctx).Raw(pathSelect+"WHERE c.id = ?", cellID).Scan(&paths).Error; err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &paths[0], nil
}

// FindCellPaths finds cells by name, narrowed by any ancestor names given.
func (r *repository) FindCellPaths(ctx context.Context, names Names) ([]Path, error) {
	var (
		where []string
		args  []any
	)
	for _, l := range Levels {
		if v := strings.TrimSpace(names.Get(l)); v != "" {
			where = append(where, "LOWER("+metas[l].alias+".name) = LOWER(?)")
			args = append(args, v)
		}
	}
	if len(where) == 0 {
		return nil, nil
	}

	query := pathSelect + "WHERE " + strings.Join(where, " AND ") + " ORDER BY c.created_at ASC, c.id ASC"
	var paths []Path
	err := r.conn(ctx).Raw(query, args...).Scan(&paths).Error
	return paths, err
}
