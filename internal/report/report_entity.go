package report

import (
	"strings"
	"time"

	"churchops/internal/hierarchy"
	reporterrors "churchops/internal/report/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DefaultDays        = 30
	MaxDays            = 3660
	RecentServiceLimit = 10
	TopDepartmentLimit = 5
)

var (
	presentPoints = decimal.NewFromInt(1)
	watchedPoints = decimal.New(5, -1)
	hundred       = decimal.NewFromInt(100)
)

// Tally counts one person's (or group's) marks in a range. Unmarked
// services are not counted anywhere.
type Tally struct {
	Present          int64 `gorm:"column:present"`
	WatchedRecording int64 `gorm:"column:watched_recording"`
	Absent           int64 `gorm:"column:absent"`
}

func (t Tally) Marked() int64 {
	return t.Present + t.WatchedRecording + t.Absent
}

// Points weighs present as 1 and watched_recording as 0.5. Absent is worth
// nothing.
func (t Tally) Points() decimal.Decimal {
	return presentPoints.Mul(decimal.NewFromInt(t.Present)).
		Add(watchedPoints.Mul(decimal.NewFromInt(t.WatchedRecording)))
}

func (t *Tally) Add(o Tally) {
	t.Present += o.Present
	t.WatchedRecording += o.WatchedRecording
	t.Absent += o.Absent
}

// Percentage is points over the number of services held, times 100. With no
// services there is nothing to attend and the result is zero.
func Percentage(points decimal.Decimal, totalServices int64) decimal.Decimal {
	if totalServices <= 0 {
		return decimal.Zero
	}
	return points.Div(decimal.NewFromInt(totalServices)).Mul(hundred)
}

// FormatPercentage renders one decimal place and a percent sign.
func FormatPercentage(p decimal.Decimal) string {
	return p.StringFixed(1) + "%"
}

// GroupBy selects the grouped report projection.
type GroupBy string

const (
	GroupByDate       GroupBy = "date"
	GroupByDepartment GroupBy = "department"
	GroupByTeam       GroupBy = "team"
)

func ParseGroupBy(s string) (GroupBy, error) {
	switch GroupBy(strings.ToLower(strings.TrimSpace(s))) {
	case "", GroupByDate:
		return GroupByDate, nil
	case GroupByDepartment:
		return GroupByDepartment, nil
	case GroupByTeam:
		return GroupByTeam, nil
	}
	return "", reporterrors.ErrInvalidReportType
}

func (g GroupBy) Level() hierarchy.Level {
	if g == GroupByTeam {
		return hierarchy.LevelTeam
	}
	return hierarchy.LevelDepartment
}

// Scope narrows which people and services a report covers.
type Scope struct {
	hierarchy.Selection
	Gender        string
	ServiceTypeID *uuid.UUID
}

// PersonTally is one exported row.
type PersonTally struct {
	PersonID       uuid.UUID `gorm:"column:person_id"`
	FirstName      string    `gorm:"column:first_name"`
	LastName       string    `gorm:"column:last_name"`
	Gender         *string   `gorm:"column:gender"`
	CellName       string    `gorm:"column:cell_name"`
	TeamName       string    `gorm:"column:team_name"`
	DepartmentName string    `gorm:"column:department_name"`
	DirectionName  string    `gorm:"column:direction_name"`
	RegionName     string    `gorm:"column:region_name"`
	Tally
}

type DateCount struct {
	ServiceDate time.Time `gorm:"column:service_date"`
	ServiceType string    `gorm:"column:service_type"`
	Count       int64     `gorm:"column:count"`
}

type GroupCount struct {
	ID    uuid.UUID `gorm:"column:id"`
	Name  string    `gorm:"column:name"`
	Count int64     `gorm:"column:count"`
}

type ServiceCount struct {
	ServiceID       uuid.UUID `gorm:"column:service_id"`
	ServiceTypeName string    `gorm:"column:service_type_name"`
	ServiceDate     time.Time `gorm:"column:service_date"`
	ServiceTime     string    `gorm:"column:service_time"`
	Attendance      int64     `gorm:"column:attendance_count"`
	Present         int64     `gorm:"column:present_count"`
}
