package report

import (
	"churchops/internal/hierarchy"

	"github.com/shopspring/decimal"
)

type Query struct {
	hierarchy.Selection
	Days          int    `form:"days" binding:"omitempty,min=1,max=3660"`
	ServiceTypeID string `form:"service_type_id" binding:"omitempty,uuid"`
	Gender        string `form:"gender"`
	Type          string `form:"type" binding:"omitempty,oneof=date department team"`
}

type PersonScoreResponse struct {
	PersonID             string `json:"person_id"`
	FirstName            string `json:"first_name"`
	LastName             string `json:"last_name"`
	Gender               string `json:"gender,omitempty"`
	Cell                 string `json:"cell"`
	Team                 string `json:"team"`
	Department           string `json:"department"`
	Direction            string `json:"direction"`
	Region               string `json:"region"`
	Present              int64  `json:"present_count"`
	WatchedRecording     int64  `json:"watched_recording_count"`
	Absent               int64  `json:"absent_count"`
	TotalMarked          int64  `json:"total_marked"`
	TotalServices        int64  `json:"total_services"`
	Points               string `json:"points"`
	AttendancePercentage string `json:"attendance_percentage"`

	percentage decimal.Decimal
}

type TotalsResponse struct {
	Present           int64  `json:"present_count"`
	WatchedRecording  int64  `json:"watched_recording_count"`
	Absent            int64  `json:"absent_count"`
	TotalMarked       int64  `json:"total_marked"`
	Points            string `json:"points"`
	AveragePercentage string `json:"average_percentage"`
}

type AttendanceReport struct {
	From          string                `json:"from"`
	To            string                `json:"to"`
	TotalServices int64                 `json:"total_services"`
	People        []PersonScoreResponse `json:"people"`
	Totals        TotalsResponse        `json:"totals"`
}

type ChartDataset struct {
	Label string  `json:"label"`
	Data  []int64 `json:"data"`
}

type Chart struct {
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
}

// GroupedEntry is one structured data point: a day and service type for the
// date report, a department or team otherwise.
type GroupedEntry struct {
	Date        string `json:"date,omitempty"`
	ServiceType string `json:"service_type,omitempty"`
	ID          string `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	Count       int64  `json:"count"`
}

type Table struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

type GroupedReport struct {
	Type       string         `json:"type"`
	From       string         `json:"from"`
	To         string         `json:"to"`
	Chart      Chart          `json:"chart"`
	Structured []GroupedEntry `json:"structured"`
	Table      Table          `json:"table"`
}

type RecentServiceResponse struct {
	ServiceID       string `json:"service_id"`
	ServiceType     string `json:"service_type"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	Label           string `json:"label"`
	AttendanceCount int64  `json:"attendance_count"`
	PresentCount    int64  `json:"present_count"`
}

type RecentAttendance struct {
	Service string `json:"service"`
	Date    string `json:"date"`
	Count   int64  `json:"count"`
}

type NamedCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

type OverviewResponse struct {
	TotalActivePeople   int64             `json:"total_active_people"`
	UpcomingServices    int64             `json:"upcoming_services"`
	RecentAttendance    *RecentAttendance `json:"recent_attendance"`
	DepartmentBreakdown []NamedCount      `json:"department_breakdown"`
}

// ExportFile is a rendered report ready to download.
type ExportFile struct {
	Name        string
	ContentType string
	Body        []byte
}
