package person

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"unicode/utf8"

	"churchops/internal/events"
	"churchops/internal/hierarchy"
	"churchops/internal/messaging/kafka"
	personerrors "churchops/internal/person/errors"
	"churchops/internal/shared/apperror"
	"churchops/internal/shared/contextutil"
	"churchops/internal/shared/pgerr"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultPageSize  = 100
	QuickSearchLimit = 20
	MinSearchLength  = 2
)

//go:generate mockgen -source=person_service.go -destination=mock/person_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreatePersonRequest) (PersonResponse, error)
	GetByID(ctx context.Context, id string) (PersonResponse, error)
	Update(ctx context.Context, id string, req UpdatePersonRequest) (PersonResponse, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, f Filter, page, pageSize int) (Page, error)
	QuickSearch(ctx context.Context, term string) ([]PersonResponse, error)
	Verify(ctx context.Context, firstName, lastName string) ([]PersonResponse, error)
	Assign(ctx context.Context, req AssignRequest) (PersonResponse, error)
	BulkAssign(ctx context.Context, req BulkAssignRequest) (BulkAssignResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	hierarchy hierarchy.Repository
	outbox    kafka.OutboxRepository
	notifier  events.Notifier
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	hierarchyRepo hierarchy.Repository,
	outboxRepo kafka.OutboxRepository,
	notifier events.Notifier,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("person.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("person.service")
	}
	if notifier == nil {
		notifier = events.Nop()
	}
	return &service{
		db:        db,
		repo:      repo,
		hierarchy: hierarchyRepo,
		outbox:    outboxRepo,
		notifier:  notifier,
		logger:    l,
	}
}

func parseID(id string, invalid error) (uuid.UUID, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return uuid.Nil, invalid
	}
	return parsed, nil
}

// checkCell makes sure the cell exists and its whole ancestor chain resolves.
func (s *service) checkCell(ctx context.Context, tx *sql.Tx, cellID uuid.UUID) error {
	if _, err := s.hierarchy.WithTx(tx).FindPath(ctx, cellID); err != nil {
		mapped := mapRepositoryError(err)
		if errors.Is(mapped, personerrors.ErrPersonNotFound) {
			return personerrors.ErrCellNotFound
		}
		return mapped
	}
	return nil
}

// mutate runs fn in one transaction, queues the change signals it returns in
// the outbox and notifies after commit.
func (s *service) mutate(ctx context.Context, op string, fn func(tx *sql.Tx, qtx Repository) ([]events.EntityChangedEvent, error)) error {
	rid := contextutil.GetRequestID(ctx)
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error(op+" begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return mapRepositoryError(err)
	}
	defer tx.Rollback()

	changes, err := fn(tx, s.repo.WithTx(tx))
	if err != nil {
		return err
	}
	if err := kafka.EnqueueEntityChanged(ctx, s.outbox, tx, changes...); err != nil {
		s.logger.Error(op+" outbox persist failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error(op+" commit failed", zap.String("request_id", rid), zap.Error(err))
		return mapRepositoryError(err)
	}
	if err := s.notifier.Notify(ctx, changes...); err != nil {
		s.logger.Error("failed to signal person change", zap.String("request_id", rid), zap.Error(err))
	}
	return nil
}

func (s *service) Create(ctx context.Context, req CreatePersonRequest) (PersonResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create person requested",
		zap.String("request_id", rid),
		zap.String("cell_id", req.CellID),
	)

	cellID, err := parseID(req.CellID, personerrors.ErrInvalidCellID)
	if err != nil {
		return PersonResponse{}, err
	}

	p := &Person{
		ID:        uuid.New(),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		CellID:    cellID,
		Email:     StringPtr(req.Email),
		Phone:     StringPtr(NormalizePhone(req.Phone)),
		Country:   StringPtr(req.Country),
		Gender:    StringPtr(req.Gender),
		IsActive:  req.IsActive == nil || *req.IsActive,
	}

	err = s.mutate(ctx, "create person", func(tx *sql.Tx, qtx Repository) ([]events.EntityChangedEvent, error) {
		if err := s.checkCell(ctx, tx, cellID); err != nil {
			s.logger.Warn("create person cell lookup failed", zap.String("cell_id", req.CellID), zap.Error(err))
			return nil, err
		}
		if err := qtx.Create(ctx, p); err != nil {
			s.logger.Error("create person persist failed", zap.Error(err))
			return nil, mapRepositoryError(err)
		}
		return []events.EntityChangedEvent{
			events.NewEntityChanged(ctx, events.EntityPerson, p.ID.String(), events.ActionCreated),
		}, nil
	})
	if err != nil {
		return PersonResponse{}, err
	}

	s.logger.Info("create person success",
		zap.String("request_id", rid),
		zap.String("person_id", p.ID.String()),
	)
	return s.GetByID(ctx, p.ID.String())
}

func (s *service) GetByID(ctx context.Context, id string) (PersonResponse, error) {
	personID, err := parseID(id, personerrors.ErrInvalidPersonID)
	if err != nil {
		return PersonResponse{}, err
	}
	rec, err := s.repo.FindRecord(ctx, personID)
	if err != nil {
		return PersonResponse{}, mapRepositoryError(err)
	}
	return MapRecord(*rec), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdatePersonRequest) (PersonResponse, error) {
	personID, err := parseID(id, personerrors.ErrInvalidPersonID)
	if err != nil {
		return PersonResponse{}, err
	}

	err = s.mutate(ctx, "update person", func(tx *sql.Tx, qtx Repository) ([]events.EntityChangedEvent, error) {
		p, err := qtx.FindByID(ctx, personID)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		if req.FirstName != nil && strings.TrimSpace(*req.FirstName) != "" {
			p.FirstName = strings.TrimSpace(*req.FirstName)
		}
		if req.LastName != nil && strings.TrimSpace(*req.LastName) != "" {
			p.LastName = strings.TrimSpace(*req.LastName)
		}
		if req.CellID != nil {
			cellID, err := parseID(*req.CellID, personerrors.ErrInvalidCellID)
			if err != nil {
				return nil, err
			}
			if cellID != p.CellID {
				if err := s.checkCell(ctx, tx, cellID); err != nil {
					return nil, err
				}
				p.CellID = cellID
			}
		}
		if req.Email != nil {
			p.Email = StringPtr(*req.Email)
		}
		if req.Phone != nil {
			p.Phone = StringPtr(NormalizePhone(*req.Phone))
		}
		if req.Country != nil {
			p.Country = StringPtr(*req.Country)
		}
		if req.Gender != nil {
			p.Gender = StringPtr(*req.Gender)
		}
		if req.IsActive != nil {
			p.IsActive = *req.IsActive
		}

		if err := qtx.Update(ctx, p); err != nil {
			s.logger.Error("update person persist failed", zap.String("person_id", id), zap.Error(err))
			return nil, mapRepositoryError(err)
		}
		return []events.EntityChangedEvent{
			events.NewEntityChanged(ctx, events.EntityPerson, p.ID.String(), events.ActionUpdated),
		}, nil
	})
	if err != nil {
		return PersonResponse{}, err
	}

	s.logger.Info("update person success", zap.String("person_id", id))
	return s.GetByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, id string) error {
	personID, err := parseID(id, personerrors.ErrInvalidPersonID)
	if err != nil {
		return err
	}

	err = s.mutate(ctx, "delete person", func(_ *sql.Tx, qtx Repository) ([]events.EntityChangedEvent, error) {
		if err := qtx.Delete(ctx, personID); err != nil {
			if pgerr.IsForeignKeyViolation(err) {
				return nil, personerrors.ErrPersonHasAttendance
			}
			return nil, mapRepositoryError(err)
		}
		return []events.EntityChangedEvent{
			events.NewEntityChanged(ctx, events.EntityPerson, id, events.ActionDeleted),
		}, nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("delete person success", zap.String("person_id", id))
	return nil
}

// Search returns one page of the roster. The page is clamped to the
// available range so a stale page number never yields an empty screen.
func (s *service) Search(ctx context.Context, f Filter, page, pageSize int) (Page, error) {
	for _, level := range hierarchy.Levels {
		if id := f.Get(level); id != "" {
			if _, err := uuid.Parse(id); err != nil {
				return Page{}, apperror.InvalidField(level.Label() + " ID")
			}
		}
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	total, err := s.repo.Count(ctx, f)
	if err != nil {
		s.logger.Error("count people failed", zap.Error(err))
		return Page{}, mapRepositoryError(err)
	}

	pages := int((total + int64(pageSize) - 1) / int64(pageSize))
	if page > pages {
		page = pages
	}
	if page < 1 {
		page = 1
	}

	recs, err := s.repo.Search(ctx, f, pageSize, (page-1)*pageSize)
	if err != nil {
		s.logger.Error("search people failed", zap.Error(err))
		return Page{}, mapRepositoryError(err)
	}
	return Page{
		People:   MapRecords(recs),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func (s *service) QuickSearch(ctx context.Context, term string) ([]PersonResponse, error) {
	term = strings.TrimSpace(term)
	if utf8.RuneCountInString(term) < MinSearchLength {
		return []PersonResponse{}, nil
	}
	recs, err := s.repo.QuickSearch(ctx, term, QuickSearchLimit)
	if err != nil {
		s.logger.Error("quick search failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return MapRecords(recs), nil
}

// Verify looks a person up the way imports match by name in fuzzy mode and
// reports where each candidate sits in the hierarchy.
func (s *service) Verify(ctx context.Context, firstName, lastName string) ([]PersonResponse, error) {
	people, err := s.repo.FindByName(ctx, firstName, lastName, true)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	res := make([]PersonResponse, 0, len(people))
	for _, p := range people {
		rec, err := s.repo.FindRecord(ctx, p.ID)
		if err != nil {
			return nil, mapRepositoryError(err)
		}
		res = append(res, MapRecord(*rec))
	}
	return res, nil
}

func (s *service) Assign(ctx context.Context, req AssignRequest) (PersonResponse, error) {
	cellID := req.CellID
	return s.Update(ctx, req.PersonID, UpdatePersonRequest{CellID: &cellID})
}

func (s *service) BulkAssign(ctx context.Context, req BulkAssignRequest) (BulkAssignResponse, error) {
	cellID, err := parseID(req.CellID, personerrors.ErrInvalidCellID)
	if err != nil {
		return BulkAssignResponse{}, err
	}
	ids := make([]uuid.UUID, 0, len(req.PersonIDs))
	for _, raw := range req.PersonIDs {
		id, err := parseID(raw, personerrors.ErrInvalidPersonID)
		if err != nil {
			return BulkAssignResponse{}, err
		}
		ids = append(ids, id)
	}

	var updated int64
	err = s.mutate(ctx, "bulk assign people", func(tx *sql.Tx, qtx Repository) ([]events.EntityChangedEvent, error) {
		if err := s.checkCell(ctx, tx, cellID); err != nil {
			return nil, err
		}
		n, err := qtx.Reassign(ctx, ids, cellID)
		if err != nil {
			s.logger.Error("bulk assign persist failed", zap.Error(err))
			return nil, mapRepositoryError(err)
		}
		updated = n

		changes := make([]events.EntityChangedEvent, 0, len(ids))
		for _, id := range ids {
			changes = append(changes, events.NewEntityChanged(ctx, events.EntityPerson, id.String(), events.ActionUpdated))
		}
		return changes, nil
	})
	if err != nil {
		return BulkAssignResponse{}, err
	}

	s.logger.Info("bulk assign people success",
		zap.String("cell_id", req.CellID),
		zap.Int64("updated", updated),
	)
	return BulkAssignResponse{CellID: cellID.String(), Updated: updated}, nil
}
