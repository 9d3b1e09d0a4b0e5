package roster

import (
	"churchops/internal/hierarchy"
	"churchops/internal/person"
	"churchops/internal/schedule"
)

type Query struct {
	hierarchy.Selection
	NameSearch string `form:"name_search"`
	Country    string `form:"country"`
	Gender     string `form:"gender"`
	ServiceID  string `form:"service_id" binding:"omitempty,uuid"`
	Organized  bool   `form:"organized"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=500"`
}

// Entry is a person on the roster with their mark for the selected service.
type Entry struct {
	person.PersonResponse
	Status string `json:"status,omitempty"`
}

// Group is one hierarchy node of the organized roster. Only cells hold people.
type Group struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Level    string  `json:"level"`
	Children []Group `json:"children,omitempty"`
	People   []Entry `json:"people,omitempty"`
}

type Response struct {
	People    []Entry                   `json:"people"`
	Organized []Group                   `json:"organized,omitempty"`
	Options   hierarchy.LevelsResponse  `json:"options"`
	Service   *schedule.ServiceResponse `json:"service,omitempty"`
	Total     int64                     `json:"total"`
	Page      int                       `json:"page"`
	PageSize  int                       `json:"page_size"`
}

type QuickEntry struct {
	person.PersonResponse
	Marked bool   `json:"marked"`
	Status string `json:"status,omitempty"`
}
