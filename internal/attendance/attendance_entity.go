package attendance

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is a stored attendance state. Not being marked is the absence of a
// row and has no Status value.
type Status string

const (
	StatusPresent          Status = "present"
	StatusAbsent           Status = "absent"
	StatusWatchedRecording Status = "watched_recording"
)

// Statuses lists every storable status in display order.
var Statuses = []Status{StatusPresent, StatusWatchedRecording, StatusAbsent}

func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusWatchedRecording:
		return true
	}
	return false
}

// Mark is the state a caller asks for. NotMarked removes the row.
type Mark string

const NotMarked Mark = "not-marked"

// ParseMark accepts the stored statuses and not-marked, case-insensitively.
// An empty value and the not_marked spelling also mean not-marked.
func ParseMark(s string) (Mark, bool) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "", string(NotMarked), "not_marked":
		return NotMarked, true
	}
	if Status(v).Valid() {
		return Mark(v), true
	}
	return "", false
}

// Status returns the stored status for the mark, false for NotMarked.
func (m Mark) Status() (Status, bool) {
	if m == NotMarked {
		return "", false
	}
	return Status(m), true
}

type Attendance struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ServiceID   uuid.UUID  `gorm:"type:uuid"`
	PersonID    uuid.UUID  `gorm:"type:uuid"`
	Status      Status     `gorm:"type:varchar(20)"`
	CheckInTime *time.Time `gorm:"type:timestamptz"`
	Notes       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Attendance) TableName() string {
	return "attendance"
}

// Entry is an attendance row with the person it belongs to.
type Entry struct {
	Attendance `gorm:"embedded"`
	FirstName  string `gorm:"column:first_name"`
	LastName   string `gorm:"column:last_name"`
	CellName   string `gorm:"column:cell_name"`
}

// Action is the store operation a transition needs.
type Action string

const (
	ActionNone    Action = "unchanged"
	ActionInsert  Action = "created"
	ActionUpdate  Action = "updated"
	ActionRefresh Action = "refreshed"
	ActionDelete  Action = "deleted"
)

// plan decides how to move from the current row (nil when not marked) to
// the requested mark. Marking present again refreshes the check-in time.
func plan(current *Attendance, target Mark) Action {
	status, marked := target.Status()
	switch {
	case !marked && current == nil:
		return ActionNone
	case !marked:
		return ActionDelete
	case current == nil:
		return ActionInsert
	case current.Status != status:
		return ActionUpdate
	case status == StatusPresent:
		return ActionRefresh
	default:
		return ActionNone
	}
}

// apply builds the row that results from marking current with status at now.
func apply(current *Attendance, serviceID, personID uuid.UUID, status Status, now time.Time) *Attendance {
	row := &Attendance{
		ID:        uuid.New(),
		ServiceID: serviceID,
		PersonID:  personID,
		CreatedAt: now,
	}
	if current != nil {
		row.ID = current.ID
		row.Notes = current.Notes
		row.CreatedAt = current.CreatedAt
	}
	row.Status = status
	row.UpdatedAt = now
	if status == StatusPresent {
		t := now
		row.CheckInTime = &t
	}
	return row
}
