package person

import (
	"churchops/internal/hierarchy"
)

type CreatePersonRequest struct {
	FirstName string `json:"first_name" binding:"required,max=50"`
	LastName  string `json:"last_name" binding:"required,max=50"`
	CellID    string `json:"cell_id" binding:"required,uuid"`
	Email     string `json:"email" binding:"omitempty,email,max=100"`
	Phone     string `json:"phone" binding:"omitempty,max=20"`
	Country   string `json:"country" binding:"omitempty,max=50"`
	Gender    string `json:"gender" binding:"omitempty,max=10"`
	IsActive  *bool  `json:"is_active"`
}

// UpdatePersonRequest changes only the fields that are present.
type UpdatePersonRequest struct {
	FirstName *string `json:"first_name" binding:"omitempty,min=1,max=50"`
	LastName  *string `json:"last_name" binding:"omitempty,min=1,max=50"`
	CellID    *string `json:"cell_id" binding:"omitempty,uuid"`
	Email     *string `json:"email" binding:"omitempty,max=100"`
	Phone     *string `json:"phone" binding:"omitempty,max=20"`
	Country   *string `json:"country" binding:"omitempty,max=50"`
	Gender    *string `json:"gender" binding:"omitempty,max=10"`
	IsActive  *bool   `json:"is_active"`
}

type AssignRequest struct {
	PersonID string `json:"person_id" binding:"required,uuid"`
	CellID   string `json:"cell_id" binding:"required,uuid"`
}

type BulkAssignRequest struct {
	PersonIDs []string `json:"person_ids" binding:"required,min=1,dive,uuid"`
	CellID    string   `json:"cell_id" binding:"required,uuid"`
}

type BulkAssignResponse struct {
	CellID  string `json:"cell_id"`
	Updated int64  `json:"updated"`
}

type SearchQuery struct {
	hierarchy.Selection
	NameSearch string `form:"name_search"`
	Country    string `form:"country"`
	Gender     string `form:"gender"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=500"`
}

type VerifyQuery struct {
	FirstName string `form:"first_name" binding:"required"`
	LastName  string `form:"last_name" binding:"required"`
}

type PersonResponse struct {
	ID        string                  `json:"id"`
	FirstName string                  `json:"first_name"`
	LastName  string                  `json:"last_name"`
	FullName  string                  `json:"full_name"`
	Email     string                  `json:"email,omitempty"`
	Phone     string                  `json:"phone,omitempty"`
	Country   string                  `json:"country,omitempty"`
	Gender    string                  `json:"gender,omitempty"`
	IsActive  bool                    `json:"is_active"`
	CellID    string                  `json:"cell_id"`
	Path      *hierarchy.PathResponse `json:"path,omitempty"`
}

type Page struct {
	People   []PersonResponse `json:"people"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

func MapPerson(p Person) PersonResponse {
	return PersonResponse{
		ID:        p.ID.String(),
		FirstName: p.FirstName,
		LastName:  p.LastName,
		FullName:  p.FullName(),
		Email:     deref(p.Email),
		Phone:     deref(p.Phone),
		Country:   deref(p.Country),
		Gender:    deref(p.Gender),
		IsActive:  p.IsActive,
		CellID:    p.CellID.String(),
	}
}

func MapRecord(r Record) PersonResponse {
	resp := MapPerson(r.Person)
	path := hierarchy.MapPath(r.Path())
	resp.Path = &path
	return resp
}

func MapRecords(recs []Record) []PersonResponse {
	res := make([]PersonResponse, len(recs))
	for i, r := range recs {
		res[i] = MapRecord(r)
	}
	return res
}
