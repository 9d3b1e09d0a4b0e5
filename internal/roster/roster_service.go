package roster

import (
	"context"

	"churchops/internal/attendance"
	"churchops/internal/hierarchy"
	"churchops/internal/person"
	"churchops/internal/schedule"

	"go.uber.org/zap"
)

//go:generate mockgen -source=roster_service.go -destination=mock/roster_service_mock.go -package=mock
type Service interface {
	Resolve(ctx context.Context, q Query, active *bool) (Response, error)
	QuickSearch(ctx context.Context, term, serviceID string) ([]QuickEntry, error)
}

// service scopes people through the hierarchy filter and decorates them with
// the cascading options and their marks for one service.
type service struct {
	people     person.Service
	hierarchy  hierarchy.Service
	attendance attendance.Service
	schedule   schedule.Service
	logger     *zap.Logger
}

func NewService(
	people person.Service,
	hierarchySvc hierarchy.Service,
	attendanceSvc attendance.Service,
	scheduleSvc schedule.Service,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("roster.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("roster.service")
	}
	return &service{
		people:     people,
		hierarchy:  hierarchySvc,
		attendance: attendanceSvc,
		schedule:   scheduleSvc,
		logger:     l,
	}
}

func (s *service) statuses(ctx context.Context, serviceID string, people []person.PersonResponse) (map[string]string, error) {
	if serviceID == "" || len(people) == 0 {
		return map[string]string{}, nil
	}
	ids := make([]string, len(people))
	for i, p := range people {
		ids[i] = p.ID
	}
	return s.attendance.StatusMap(ctx, serviceID, ids)
}

func (s *service) Resolve(ctx context.Context, q Query, active *bool) (Response, error) {
	options, err := s.hierarchy.Options(ctx, q.Selection)
	if err != nil {
		return Response{}, err
	}

	var svc *schedule.ServiceResponse
	if q.ServiceID != "" {
		found, err := s.schedule.GetByID(ctx, q.ServiceID)
		if err != nil {
			return Response{}, err
		}
		svc = &found
	}

	page, err := s.people.Search(ctx, person.Filter{
		Selection:  q.Selection,
		IsActive:   active,
		NameSearch: q.NameSearch,
		Country:    q.Country,
		Gender:     q.Gender,
	}, q.Page, q.PageSize)
	if err != nil {
		return Response{}, err
	}

	marks, err := s.statuses(ctx, q.ServiceID, page.People)
	if err != nil {
		s.logger.Error("load roster marks failed", zap.String("service_id", q.ServiceID), zap.Error(err))
		return Response{}, err
	}

	entries := make([]Entry, len(page.People))
	for i, p := range page.People {
		entries[i] = Entry{PersonResponse: p}
		if q.ServiceID != "" {
			entries[i].Status = string(attendance.NotMarked)
			if st, ok := marks[p.ID]; ok {
				entries[i].Status = st
			}
		}
	}

	resp := Response{
		People:   entries,
		Options:  options,
		Service:  svc,
		Total:    page.Total,
		Page:     page.Page,
		PageSize: page.PageSize,
	}
	if q.Organized {
		resp.Organized = Organize(entries)
	}

	s.logger.Debug("roster resolved",
		zap.Int64("total", page.Total),
		zap.Int("page", page.Page),
		zap.Bool("organized", q.Organized),
	)
	return resp, nil
}

// QuickSearch finds active people by name and flags who is already marked
// for serviceID.
func (s *service) QuickSearch(ctx context.Context, term, serviceID string) ([]QuickEntry, error) {
	people, err := s.people.QuickSearch(ctx, term)
	if err != nil {
		return nil, err
	}
	marks, err := s.statuses(ctx, serviceID, people)
	if err != nil {
		return nil, err
	}

	res := make([]QuickEntry, len(people))
	for i, p := range people {
		st, marked := marks[p.ID]
		res[i] = QuickEntry{PersonResponse: p, Marked: marked, Status: st}
	}
	return res, nil
}
