package importer

import (
	"fmt"
	"strconv"
	"strings"

	"churchops/internal/hierarchy"
	importererrors "churchops/internal/importer/errors"
)

type MatchMode string

const (
	MatchExact MatchMode = "exact"
	MatchFuzzy MatchMode = "fuzzy"
)

// ParseMatchMode defaults to exact.
func ParseMatchMode(s string) (MatchMode, error) {
	switch MatchMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", MatchExact:
		return MatchExact, nil
	case MatchFuzzy:
		return MatchFuzzy, nil
	}
	return "", importererrors.ErrInvalidMatchType
}

type Options struct {
	CreateMissing  bool      `json:"create_missing"`
	UpdateExisting bool      `json:"update_existing"`
	MatchMode      MatchMode `json:"match_type"`
}

// Row is one spreadsheet line. Only the columns present in the source are
// populated; blank cells stay empty.
type Row struct {
	PersonID       string `json:"person_id,omitempty"`
	FirstName      string `json:"first_name,omitempty"`
	LastName       string `json:"last_name,omitempty"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Country        string `json:"country,omitempty"`
	Gender         string `json:"gender,omitempty"`
	CellName       string `json:"cell_name,omitempty"`
	TeamName       string `json:"team_name,omitempty"`
	DepartmentName string `json:"department_name,omitempty"`
	DirectionName  string `json:"direction_name,omitempty"`
	RegionName     string `json:"region_name,omitempty"`
	// IsActive keeps the raw cell value: bool, number or string.
	IsActive any `json:"is_active,omitempty"`
}

func (r Row) HasNames() bool {
	return strings.TrimSpace(r.FirstName) != "" && strings.TrimSpace(r.LastName) != ""
}

func (r Row) HasIdentifier() bool {
	return strings.TrimSpace(r.PersonID) != "" ||
		strings.TrimSpace(r.Email) != "" ||
		strings.TrimSpace(r.Phone) != "" ||
		r.HasNames()
}

func (r Row) Names() hierarchy.Names {
	return hierarchy.Names{
		Region:     strings.TrimSpace(r.RegionName),
		Direction:  strings.TrimSpace(r.DirectionName),
		Department: strings.TrimSpace(r.DepartmentName),
		Team:       strings.TrimSpace(r.TeamName),
		Cell:       strings.TrimSpace(r.CellName),
	}
}

func (r Row) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(r.FirstName) + " " + strings.TrimSpace(r.LastName))
	switch {
	case name != "":
		return name
	case strings.TrimSpace(r.Email) != "":
		return strings.TrimSpace(r.Email)
	case strings.TrimSpace(r.Phone) != "":
		return strings.TrimSpace(r.Phone)
	}
	return strings.TrimSpace(r.PersonID)
}

// Active coerces IsActive. Booleans pass through, strings are true only when
// they equal "true" ignoring case, numbers are true when non-zero. ok is
// false when the column was blank.
func (r Row) Active() (active bool, ok bool) {
	switch v := r.IsActive.(type) {
	case nil:
		return false, false
	case bool:
		return v, true
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return false, false
		}
		return strings.EqualFold(s, "true"), true
	case int:
		return v != 0, true
	case int64:
		return v != 0, true
	case float64:
		return v != 0, true
	default:
		return true, true
	}
}

// cellValue turns a raw is_active cell into the type a spreadsheet reader
// would infer: booleans, then numbers, otherwise the string itself.
func cellValue(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if strings.EqualFold(s, "true") || strings.EqualFold(s, "false") {
		return strings.EqualFold(s, "true")
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

const (
	DetailSuccess = "success"
	DetailWarning = "warning"
	DetailError   = "error"
)

type Detail struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type CreatedPerson struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Cell       string `json:"cell"`
	Team       string `json:"team"`
	Department string `json:"department"`
	Direction  string `json:"direction"`
	Region     string `json:"region"`
}

type Summary struct {
	Total         int             `json:"total"`
	Created       int             `json:"created"`
	Updated       int             `json:"updated"`
	Skipped       int             `json:"skipped"`
	Errors        int             `json:"errors"`
	Aborted       bool            `json:"aborted,omitempty"`
	Details       []Detail        `json:"details"`
	CreatedPeople []CreatedPerson `json:"created_people"`
}

func (s *Summary) detail(kind string, row int, format string, args ...any) {
	s.Details = append(s.Details, Detail{
		Type:    kind,
		Message: fmt.Sprintf("Row %d: ", row) + fmt.Sprintf(format, args...),
	})
}

// Outcome is the per-row result counted in the summary.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
	OutcomeSkipped Outcome = "skipped"
	OutcomeError   Outcome = "error"
)

type decision int

const (
	decideReject decision = iota
	decideUpdate
	decideCreate
	decideSkip
)

// rowState is what the rules look at once matching has run.
type rowState struct {
	row     Row
	matched bool
	opts    Options
}

type rule struct {
	when   func(st rowState) bool
	then   decision
	reason string
}

// rules are evaluated top-down; the first match decides the row.
var rules = []rule{
	{
		when:   func(st rowState) bool { return !st.row.HasIdentifier() },
		then:   decideReject,
		reason: importererrors.ErrNoIdentifier.Message,
	},
	{
		when: func(st rowState) bool { return st.matched && st.opts.UpdateExisting },
		then: decideUpdate,
	},
	{
		when:   func(st rowState) bool { return st.matched },
		then:   decideSkip,
		reason: "Updates not enabled, skipping: %s",
	},
	{
		when: func(st rowState) bool { return st.opts.CreateMissing && st.row.HasNames() },
		then: decideCreate,
	},
	{
		when:   func(st rowState) bool { return st.opts.CreateMissing },
		then:   decideSkip,
		reason: "Person not found and both names are needed to create, skipping: %s",
	},
	{
		when:   func(rowState) bool { return true },
		then:   decideSkip,
		reason: "Person not found, skipping: %s",
	},
}

func decide(st rowState) rule {
	for _, r := range rules {
		if r.when(st) {
			return r
		}
	}
	return rules[len(rules)-1]
}
