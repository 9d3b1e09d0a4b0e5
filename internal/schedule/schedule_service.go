package schedule

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"churchops/internal/events"
	"churchops/internal/messaging/kafka"
	scheduleerrors "churchops/internal/schedule/errors"
	"churchops/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	RecentDays  = 7
	RecentLimit = 10
)

//go:generate mockgen -source=schedule_service.go -destination=mock/schedule_service_mock.go -package=mock
type Service interface {
	CreateType(ctx context.Context, req CreateServiceTypeRequest) (ServiceTypeResponse, error)
	ListTypes(ctx context.Context) ([]ServiceTypeResponse, error)
	Create(ctx context.Context, req CreateServiceRequest) (ServiceResponse, error)
	GetByID(ctx context.Context, id string) (ServiceResponse, error)
	Upcoming(ctx context.Context) ([]ServiceResponse, error)
	Recent(ctx context.Context) ([]ServiceResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	outbox   kafka.OutboxRepository
	notifier events.Notifier
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	outboxRepo kafka.OutboxRepository,
	notifier events.Notifier,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithClock(db, repo, outboxRepo, notifier, time.Now, logger...)
}

func NewServiceWithClock(
	db *sql.DB,
	repo Repository,
	outboxRepo kafka.OutboxRepository,
	notifier events.Notifier,
	now func() time.Time,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("schedule.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("schedule.service")
	}
	if notifier == nil {
		notifier = events.Nop()
	}
	return &service{
		db:       db,
		repo:     repo,
		outbox:   outboxRepo,
		notifier: notifier,
		now:      now,
		logger:   l,
	}
}

func (s *service) CreateType(ctx context.Context, req CreateServiceTypeRequest) (ServiceTypeResponse, error) {
	st := &ServiceType{
		ID:   uuid.New(),
		Name: strings.TrimSpace(req.Name),
	}
	if d := strings.TrimSpace(req.Description); d != "" {
		st.Description = &d
	}

	if err := s.repo.CreateType(ctx, st); err != nil {
		s.logger.Error("create service type persist failed", zap.Error(err))
		return ServiceTypeResponse{}, mapRepositoryError(err)
	}
	s.logger.Info("create service type success", zap.String("service_type_id", st.ID.String()))
	return mapType(*st), nil
}

func (s *service) ListTypes(ctx context.Context) ([]ServiceTypeResponse, error) {
	types, err := s.repo.ListTypes(ctx)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	res := make([]ServiceTypeResponse, len(types))
	for i, st := range types {
		res[i] = mapType(st)
	}
	return res, nil
}

func (s *service) Create(ctx context.Context, req CreateServiceRequest) (ServiceResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create service requested",
		zap.String("request_id", rid),
		zap.String("service_type_id", req.ServiceTypeID),
		zap.String("date", req.Date),
	)

	typeID, err := uuid.Parse(req.ServiceTypeID)
	if err != nil {
		return ServiceResponse{}, scheduleerrors.ErrInvalidServiceTypeID
	}
	date, err := time.Parse(DateLayout, strings.TrimSpace(req.Date))
	if err != nil {
		s.logger.Warn("create service invalid date", zap.String("date", req.Date))
		return ServiceResponse{}, scheduleerrors.ErrInvalidDate
	}
	clock, err := time.Parse(TimeLayout, strings.TrimSpace(req.Time))
	if err != nil {
		s.logger.Warn("create service invalid time", zap.String("time", req.Time))
		return ServiceResponse{}, scheduleerrors.ErrInvalidTime
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create service begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return ServiceResponse{}, mapRepositoryError(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	st, err := qtx.FindTypeByID(ctx, typeID)
	if err != nil {
		mapped := mapRepositoryError(err)
		if errors.Is(mapped, scheduleerrors.ErrServiceNotFound) {
			mapped = scheduleerrors.ErrServiceTypeNotFound
		}
		return ServiceResponse{}, mapped
	}

	svc := &Occurrence{
		ID:            uuid.New(),
		ServiceTypeID: typeID,
		ServiceDate:   date,
		ServiceTime:   clock.Format(TimeLayout),
	}
	if n := strings.TrimSpace(req.Notes); n != "" {
		svc.Notes = &n
	}
	if err := qtx.Create(ctx, svc); err != nil {
		s.logger.Error("create service persist failed", zap.Error(err))
		return ServiceResponse{}, mapRepositoryError(err)
	}

	change := events.NewEntityChanged(ctx, events.EntityService, svc.ID.String(), events.ActionCreated)
	if err := kafka.EnqueueEntityChanged(ctx, s.outbox, tx, change); err != nil {
		s.logger.Error("create service outbox persist failed", zap.Error(err))
		return ServiceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("create service commit failed", zap.String("request_id", rid), zap.Error(err))
		return ServiceResponse{}, mapRepositoryError(err)
	}
	if err := s.notifier.Notify(ctx, change); err != nil {
		s.logger.Error("failed to signal service change", zap.Error(err))
	}

	s.logger.Info("create service success",
		zap.String("request_id", rid),
		zap.String("service_id", svc.ID.String()),
	)
	return MapService(ServiceRecord{Occurrence: *svc, ServiceTypeName: st.Name}), nil
}

func (s *service) GetByID(ctx context.Context, id string) (ServiceResponse, error) {
	serviceID, err := uuid.Parse(id)
	if err != nil {
		return ServiceResponse{}, scheduleerrors.ErrInvalidServiceID
	}
	rec, err := s.repo.FindByID(ctx, serviceID)
	if err != nil {
		return ServiceResponse{}, mapRepositoryError(err)
	}
	return MapService(*rec), nil
}

// Upcoming lists services from today on, soonest first.
func (s *service) Upcoming(ctx context.Context) ([]ServiceResponse, error) {
	recs, err := s.repo.ListUpcoming(ctx, s.now(), 0)
	if err != nil {
		s.logger.Error("list upcoming services failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapServices(recs), nil
}

// Recent lists the latest services of the past week for the marking screen.
func (s *service) Recent(ctx context.Context) ([]ServiceResponse, error) {
	recs, err := s.repo.ListInRange(ctx, LastDays(s.now(), RecentDays), nil, RecentLimit)
	if err != nil {
		s.logger.Error("list recent services failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapServices(recs), nil
}
