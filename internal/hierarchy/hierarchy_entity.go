package hierarchy

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Level string

const (
	LevelRegion     Level = "region"
	LevelDirection  Level = "direction"
	LevelDepartment Level = "department"
	LevelTeam       Level = "team"
	LevelCell       Level = "cell"
)

// Levels lists the organization top-down.
var Levels = []Level{LevelRegion, LevelDirection, LevelDepartment, LevelTeam, LevelCell}

type levelMeta struct {
	table        string
	alias        string
	parentColumn string
	joinParent   string
	label        string
}

var metas = map[Level]levelMeta{
	LevelRegion: {
		table: "regions",
		alias: "r",
		label: "Region",
	},
	LevelDirection: {
		table:        "directions",
		alias:        "dr",
		parentColumn: "region_id",
		joinParent:   "JOIN regions r ON r.id = dr.region_id",
		label:        "Direction",
	},
	LevelDepartment: {
		table:        "departments",
		alias:        "dp",
		parentColumn: "direction_id",
		joinParent:   "JOIN directions dr ON dr.id = dp.direction_id",
		label:        "Department",
	},
	LevelTeam: {
		table:        "teams",
		alias:        "tm",
		parentColumn: "department_id",
		joinParent:   "JOIN departments dp ON dp.id = tm.department_id",
		label:        "Team",
	},
	LevelCell: {
		table:        "cells",
		alias:        "c",
		parentColumn: "team_id",
		joinParent:   "JOIN teams tm ON tm.id = c.team_id",
		label:        "Cell",
	},
}

func ParseLevel(s string) (Level, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimSuffix(s, "s")
	l := Level(s)
	_, ok := metas[l]
	return l, ok
}

func (l Level) index() int {
	for i, lv := range Levels {
		if lv == l {
			return i
		}
	}
	return -1
}

// Parent returns the level above l; a region has none.
func (l Level) Parent() (Level, bool) {
	i := l.index()
	if i <= 0 {
		return "", false
	}
	return Levels[i-1], true
}

func (l Level) Child() (Level, bool) {
	i := l.index()
	if i < 0 || i == len(Levels)-1 {
		return "", false
	}
	return Levels[i+1], true
}

func (l Level) Label() string {
	return metas[l].label
}

// Node is a single organizational unit at any level.
type Node struct {
	ID        uuid.UUID  `gorm:"column:id"`
	Name      string     `gorm:"column:name"`
	ParentID  *uuid.UUID `gorm:"column:parent_id"`
	CreatedAt time.Time  `gorm:"column:created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at"`
}

// Path is the full ancestor chain of one cell.
type Path struct {
	RegionID       uuid.UUID `gorm:"column:region_id"`
	RegionName     string    `gorm:"column:region_name"`
	DirectionID    uuid.UUID `gorm:"column:direction_id"`
	DirectionName  string    `gorm:"column:direction_name"`
	DepartmentID   uuid.UUID `gorm:"column:department_id"`
	DepartmentName string    `gorm:"column:department_name"`
	TeamID         uuid.UUID `gorm:"column:team_id"`
	TeamName       string    `gorm:"column:team_name"`
	CellID         uuid.UUID `gorm:"column:cell_id"`
	CellName       string    `gorm:"column:cell_name"`
}

func (p *Path) set(level Level, n Node) {
	switch level {
	case LevelRegion:
		p.RegionID, p.RegionName = n.ID, n.Name
	case LevelDirection:
		p.DirectionID, p.DirectionName = n.ID, n.Name
	case LevelDepartment:
		p.DepartmentID, p.DepartmentName = n.ID, n.Name
	case LevelTeam:
		p.TeamID, p.TeamName = n.ID, n.Name
	case LevelCell:
		p.CellID, p.CellName = n.ID, n.Name
	}
}

// Names addresses nodes by name, as spreadsheets do.
type Names struct {
	Region     string
	Direction  string
	Department string
	Team       string
	Cell       string
}

func (n Names) Get(level Level) string {
	switch level {
	case LevelRegion:
		return n.Region
	case LevelDirection:
		return n.Direction
	case LevelDepartment:
		return n.Department
	case LevelTeam:
		return n.Team
	case LevelCell:
		return n.Cell
	}
	return ""
}

// Complete reports whether every level is named.
func (n Names) Complete() bool {
	for _, l := range Levels {
		if strings.TrimSpace(n.Get(l)) == "" {
			return false
		}
	}
	return true
}

func (n Names) IsZero() bool {
	for _, l := range Levels {
		if strings.TrimSpace(n.Get(l)) != "" {
			return false
		}
	}
	return true
}

// Selection holds the cascading filter ids. Empty means any.
type Selection struct {
	RegionID     string `form:"region_id"`
	DirectionID  string `form:"direction_id"`
	DepartmentID string `form:"department_id"`
	TeamID       string `form:"team_id"`
	CellID       string `form:"cell_id"`
}

func (s Selection) Get(level Level) string {
	switch level {
	case LevelRegion:
		return s.RegionID
	case LevelDirection:
		return s.DirectionID
	case LevelDepartment:
		return s.DepartmentID
	case LevelTeam:
		return s.TeamID
	case LevelCell:
		return s.CellID
	}
	return ""
}

func (s *Selection) Set(level Level, id string) {
	switch level {
	case LevelRegion:
		s.RegionID = id
	case LevelDirection:
		s.DirectionID = id
	case LevelDepartment:
		s.DepartmentID = id
	case LevelTeam:
		s.TeamID = id
	case LevelCell:
		s.CellID = id
	}
}

// Above keeps only the ids of levels strictly above level.
func (s Selection) Above(level Level) Selection {
	var out Selection
	for _, l := range Levels {
		if l == level {
			break
		}
		out.Set(l, s.Get(l))
	}
	return out
}

// Key renders the selection for cache keys.
func (s Selection) Key() []string {
	parts := make([]string, len(Levels))
	for i, l := range Levels {
		parts[i] = s.Get(l)
	}
	return parts
}
