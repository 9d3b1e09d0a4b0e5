package attendance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	attendanceerrors "churchops/internal/attendance/errors"
	"churchops/internal/events"
	"churchops/internal/messaging/kafka"
	"churchops/internal/metrics"
	"churchops/internal/schedule"
	"churchops/internal/shared/apperror"
	"churchops/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	Mark(ctx context.Context, req MarkRequest) (MarkResult, error)
	BulkMark(ctx context.Context, req BulkMarkRequest) (BulkMarkResponse, error)
	GetStatus(ctx context.Context, serviceID, personID string) (StatusResponse, error)
	StatusMap(ctx context.Context, serviceID string, personIDs []string) (map[string]string, error)
	ListByService(ctx context.Context, serviceID string) (ServiceAttendanceResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	services schedule.Repository
	outbox   kafka.OutboxRepository
	notifier events.Notifier
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	serviceRepo schedule.Repository,
	outboxRepo kafka.OutboxRepository,
	notifier events.Notifier,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithClock(db, repo, serviceRepo, outboxRepo, notifier, time.Now, logger...)
}

func NewServiceWithClock(
	db *sql.DB,
	repo Repository,
	serviceRepo schedule.Repository,
	outboxRepo kafka.OutboxRepository,
	notifier events.Notifier,
	now func() time.Time,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	if notifier == nil {
		notifier = events.Nop()
	}
	return &service{
		db:       db,
		repo:     repo,
		services: serviceRepo,
		outbox:   outboxRepo,
		notifier: notifier,
		now:      now,
		logger:   l,
	}
}

// requireService parses id and checks that the service exists.
func (s *service) requireService(ctx context.Context, id string) (uuid.UUID, error) {
	serviceID, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, attendanceerrors.ErrInvalidServiceID
	}
	if _, err := s.services.FindByID(ctx, serviceID); err != nil {
		return uuid.Nil, mapRepositoryError(err)
	}
	return serviceID, nil
}

// markOne applies a single transition in its own transaction. The person
// must exist even when there is nothing to change.
func (s *service) markOne(ctx context.Context, serviceID, personID uuid.UUID, mark Mark) (Action, *events.EntityChangedEvent, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", nil, mapRepositoryError(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	exists, err := qtx.PersonExists(ctx, personID)
	if err != nil {
		return "", nil, mapRepositoryError(err)
	}
	if !exists {
		return "", nil, attendanceerrors.ErrPersonNotFound
	}

	current, err := qtx.Find(ctx, serviceID, personID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		current, err = nil, nil
	}
	if err != nil {
		return "", nil, mapRepositoryError(err)
	}

	action := plan(current, mark)
	var (
		entityID     string
		changeAction string
	)
	switch action {
	case ActionNone:
		return action, nil, nil
	case ActionDelete:
		if _, err := qtx.Delete(ctx, serviceID, personID); err != nil {
			return "", nil, mapRepositoryError(err)
		}
		entityID, changeAction = current.ID.String(), events.ActionDeleted
	default:
		status, _ := mark.Status()
		row := apply(current, serviceID, personID, status, s.now().UTC())
		if err := qtx.Upsert(ctx, row); err != nil {
			return "", nil, mapRepositoryError(err)
		}
		entityID, changeAction = row.ID.String(), events.ActionUpdated
		if action == ActionInsert {
			changeAction = events.ActionCreated
		}
	}

	change := events.NewEntityChanged(ctx, events.EntityAttendance, entityID, changeAction)
	if err := kafka.EnqueueEntityChanged(ctx, s.outbox, tx, change); err != nil {
		return "", nil, err
	}
	if err := tx.Commit(); err != nil {
		return "", nil, mapRepositoryError(err)
	}
	return action, &change, nil
}

func (s *service) Mark(ctx context.Context, req MarkRequest) (MarkResult, error) {
	rid := contextutil.GetRequestID(ctx)
	mark, ok := ParseMark(req.Status)
	if !ok {
		return MarkResult{}, attendanceerrors.ErrInvalidStatus
	}
	personID, err := uuid.Parse(req.PersonID)
	if err != nil {
		return MarkResult{}, attendanceerrors.ErrInvalidPersonID
	}
	serviceID, err := s.requireService(ctx, req.ServiceID)
	if err != nil {
		return MarkResult{}, err
	}

	action, change, err := s.markOne(ctx, serviceID, personID, mark)
	metrics.RecordAttendanceMark(string(action), err)
	if err != nil {
		s.logger.Error("mark attendance failed",
			zap.String("request_id", rid),
			zap.String("service_id", req.ServiceID),
			zap.String("person_id", req.PersonID),
			zap.Error(err),
		)
		return MarkResult{}, err
	}
	if change != nil {
		if err := s.notifier.Notify(ctx, *change); err != nil {
			s.logger.Error("failed to signal attendance change", zap.Error(err))
		}
	}

	s.logger.Info("mark attendance success",
		zap.String("request_id", rid),
		zap.String("service_id", req.ServiceID),
		zap.String("person_id", req.PersonID),
		zap.String("status", string(mark)),
		zap.String("action", string(action)),
	)
	return MarkResult{PersonID: personID.String(), Status: string(mark), Action: string(action)}, nil
}

// BulkMark applies every mark independently and in order. A failing person
// is reported in the results and never stops the others.
func (s *service) BulkMark(ctx context.Context, req BulkMarkRequest) (BulkMarkResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	if len(req.Marks) == 0 {
		return BulkMarkResponse{}, attendanceerrors.ErrEmptyBatch
	}
	serviceID, err := s.requireService(ctx, req.ServiceID)
	if err != nil {
		return BulkMarkResponse{}, err
	}

	resp := BulkMarkResponse{
		ServiceID: serviceID.String(),
		Results:   make([]MarkResult, 0, len(req.Marks)),
	}
	var changes events.Collector
	for _, item := range req.Marks {
		result := MarkResult{PersonID: item.PersonID}

		personID, err := uuid.Parse(item.PersonID)
		if err != nil {
			err = attendanceerrors.ErrInvalidPersonID
		}
		mark, ok := ParseMark(item.Status)
		if err == nil && !ok {
			err = attendanceerrors.ErrInvalidStatus
		}

		var action Action
		if err == nil {
			var change *events.EntityChangedEvent
			action, change, err = s.markOne(ctx, serviceID, personID, mark)
			if change != nil {
				changes.Add(*change)
			}
		}
		metrics.RecordAttendanceMark(string(action), err)

		if err != nil {
			s.logger.Warn("bulk mark person failed",
				zap.String("request_id", rid),
				zap.String("person_id", item.PersonID),
				zap.Error(err),
			)
			result.Error = apperror.ToHTTP(err).Message
			resp.Failed++
		} else {
			result.Status = string(mark)
			result.Action = string(action)
			resp.Applied++
		}
		resp.Results = append(resp.Results, result)
	}

	if applied := changes.Changes(); len(applied) > 0 {
		if err := s.notifier.Notify(ctx, applied...); err != nil {
			s.logger.Error("failed to signal attendance changes", zap.Error(err))
		}
	}

	s.logger.Info("bulk mark attendance finished",
		zap.String("request_id", rid),
		zap.String("service_id", req.ServiceID),
		zap.Int("applied", resp.Applied),
		zap.Int("failed", resp.Failed),
	)
	return resp, nil
}

func (s *service) GetStatus(ctx context.Context, serviceID, personID string) (StatusResponse, error) {
	sid, err := uuid.Parse(serviceID)
	if err != nil {
		return StatusResponse{}, attendanceerrors.ErrInvalidServiceID
	}
	pid, err := uuid.Parse(personID)
	if err != nil {
		return StatusResponse{}, attendanceerrors.ErrInvalidPersonID
	}

	resp := StatusResponse{ServiceID: sid.String(), PersonID: pid.String(), Status: string(NotMarked)}
	row, err := s.repo.Find(ctx, sid, pid)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return resp, nil
	}
	if err != nil {
		return StatusResponse{}, mapRepositoryError(err)
	}
	resp.Status = string(row.Status)
	resp.CheckInTime = formatTime(row.CheckInTime)
	return resp, nil
}

// StatusMap reports the stored status of each listed person. People without
// a row are left out.
func (s *service) StatusMap(ctx context.Context, serviceID string, personIDs []string) (map[string]string, error) {
	sid, err := uuid.Parse(serviceID)
	if err != nil {
		return nil, attendanceerrors.ErrInvalidServiceID
	}
	ids := make([]uuid.UUID, 0, len(personIDs))
	for _, raw := range personIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, attendanceerrors.ErrInvalidPersonID
		}
		ids = append(ids, id)
	}

	statuses, err := s.repo.StatusMap(ctx, sid, ids)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	out := make(map[string]string, len(statuses))
	for id, st := range statuses {
		out[id.String()] = string(st)
	}
	return out, nil
}

func (s *service) ListByService(ctx context.Context, serviceID string) (ServiceAttendanceResponse, error) {
	sid, err := s.requireService(ctx, serviceID)
	if err != nil {
		return ServiceAttendanceResponse{}, err
	}
	entries, err := s.repo.ListByService(ctx, sid)
	if err != nil {
		s.logger.Error("list service attendance failed", zap.String("service_id", serviceID), zap.Error(err))
		return ServiceAttendanceResponse{}, mapRepositoryError(err)
	}

	resp := ServiceAttendanceResponse{
		ServiceID: sid.String(),
		Entries:   make([]EntryResponse, 0, len(entries)),
	}
	for _, e := range entries {
		resp.Counts.add(e.Status)
		resp.Entries = append(resp.Entries, EntryResponse{
			PersonID:    e.PersonID.String(),
			FirstName:   e.FirstName,
			LastName:    e.LastName,
			CellName:    e.CellName,
			Status:      string(e.Status),
			CheckInTime: formatTime(e.CheckInTime),
		})
	}
	return resp, nil
}
