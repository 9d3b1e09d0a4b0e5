package person

import (
	"strings"
	"time"

	"churchops/internal/hierarchy"

	"github.com/google/uuid"
)

type Person struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	FirstName string
	LastName  string
	CellID    uuid.UUID `gorm:"type:uuid;index"`
	Email     *string
	Phone     *string
	Country   *string
	Gender    *string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Person) TableName() string {
	return "people"
}

func (p Person) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Record is a person joined with the names of its hierarchy path.
type Record struct {
	Person         `gorm:"embedded"`
	TeamID         uuid.UUID `gorm:"column:team_id"`
	DepartmentID   uuid.UUID `gorm:"column:department_id"`
	DirectionID    uuid.UUID `gorm:"column:direction_id"`
	RegionID       uuid.UUID `gorm:"column:region_id"`
	CellName       string    `gorm:"column:cell_name"`
	TeamName       string    `gorm:"column:team_name"`
	DepartmentName string    `gorm:"column:department_name"`
	DirectionName  string    `gorm:"column:direction_name"`
	RegionName     string    `gorm:"column:region_name"`
}

func (r Record) Path() hierarchy.Path {
	return hierarchy.Path{
		RegionID:       r.RegionID,
		RegionName:     r.RegionName,
		DirectionID:    r.DirectionID,
		DirectionName:  r.DirectionName,
		DepartmentID:   r.DepartmentID,
		DepartmentName: r.DepartmentName,
		TeamID:         r.TeamID,
		TeamName:       r.TeamName,
		CellID:         r.CellID,
		CellName:       r.CellName,
	}
}

// Filter narrows a roster. Zero values match everything.
type Filter struct {
	hierarchy.Selection
	IsActive   *bool
	NameSearch string
	Country    string
	Gender     string
}

// NormalizePhone keeps the digits of a phone number and a leading plus sign.
func NormalizePhone(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	out := b.String()
	if out == "+" {
		return ""
	}
	return out
}

// StringPtr returns nil for blank input so optional columns stay NULL.
func StringPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
