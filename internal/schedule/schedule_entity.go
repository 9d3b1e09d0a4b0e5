package schedule

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

type ServiceType struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (ServiceType) TableName() string {
	return "service_types"
}

// Occurrence is one occurrence of a service type on a given day.
type Occurrence struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	ServiceTypeID uuid.UUID `gorm:"type:uuid"`
	ServiceDate   time.Time `gorm:"type:date"`
	ServiceTime   string
	Notes         *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Occurrence) TableName() string {
	return "services"
}

// ServiceRecord is a service with the name of its type.
type ServiceRecord struct {
	Occurrence      `gorm:"embedded"`
	ServiceTypeName string `gorm:"column:service_type_name"`
}

func (r ServiceRecord) Label() string {
	return fmt.Sprintf("%s - %s %s", r.ServiceTypeName, r.ServiceDate.Format(DateLayout), r.ServiceTime)
}

// Day truncates t to midnight UTC, the granularity of service dates.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Range is an inclusive span of service dates.
type Range struct {
	From time.Time
	To   time.Time
}

// LastDays covers the given number of days up to and including today.
func LastDays(now time.Time, days int) Range {
	today := Day(now)
	return Range{From: today.AddDate(0, 0, -days), To: today}
}
