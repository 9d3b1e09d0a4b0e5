package attendance

import "time"

type MarkRequest struct {
	ServiceID string `json:"service_id" binding:"required,uuid"`
	PersonID  string `json:"person_id" binding:"required,uuid"`
	Status    string `json:"status"`
}

type MarkItem struct {
	PersonID string `json:"person_id" binding:"required"`
	Status   string `json:"status"`
}

type BulkMarkRequest struct {
	ServiceID string     `json:"service_id" binding:"required,uuid"`
	Marks     []MarkItem `json:"marks" binding:"required,min=1,dive"`
}

// MarkResult reports one person's outcome. Exactly one of Status and Error
// is set.
type MarkResult struct {
	PersonID string `json:"person_id"`
	Status   string `json:"status,omitempty"`
	Action   string `json:"action,omitempty"`
	Error    string `json:"error,omitempty"`
}

type BulkMarkResponse struct {
	ServiceID string       `json:"service_id"`
	Results   []MarkResult `json:"results"`
	Applied   int          `json:"applied"`
	Failed    int          `json:"failed"`
}

type StatusResponse struct {
	ServiceID   string  `json:"service_id"`
	PersonID    string  `json:"person_id"`
	Status      string  `json:"status"`
	CheckInTime *string `json:"check_in_time,omitempty"`
}

type Counts struct {
	Present          int `json:"present"`
	WatchedRecording int `json:"watched_recording"`
	Absent           int `json:"absent"`
	Total            int `json:"total"`
}

func (c *Counts) add(s Status) {
	switch s {
	case StatusPresent:
		c.Present++
	case StatusWatchedRecording:
		c.WatchedRecording++
	case StatusAbsent:
		c.Absent++
	}
	c.Total++
}

type EntryResponse struct {
	PersonID    string  `json:"person_id"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	CellName    string  `json:"cell_name"`
	Status      string  `json:"status"`
	CheckInTime *string `json:"check_in_time,omitempty"`
}

type ServiceAttendanceResponse struct {
	ServiceID string          `json:"service_id"`
	Counts    Counts          `json:"counts"`
	Entries   []EntryResponse `json:"entries"`
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
