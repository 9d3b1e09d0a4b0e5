package hierarchy

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"churchops/internal/events"
	hierarchyerrors "churchops/internal/hierarchy/errors"
	"churchops/internal/messaging/kafka"
	"churchops/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=hierarchy_service.go -destination=mock/hierarchy_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, level Level, req CreateNodeRequest) (NodeResponse, error)
	List(ctx context.Context, level Level, sel Selection) ([]NodeResponse, error)
	GetByID(ctx context.Context, level Level, id string) (NodeResponse, error)
	GetPath(ctx context.Context, cellID string) (PathResponse, error)
	Options(ctx context.Context, sel Selection) (LevelsResponse, error)
	Relationships(ctx context.Context) (LevelsResponse, error)
	Tree(ctx context.Context) ([]TreeNode, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	outbox   kafka.OutboxRepository
	notifier events.Notifier
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	outboxRepo kafka.OutboxRepository,
	notifier events.Notifier,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("hierarchy.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("hierarchy.service")
	}
	if notifier == nil {
		notifier = events.Nop()
	}
	return &service{
		db:       db,
		repo:     repo,
		outbox:   outboxRepo,
		notifier: notifier,
		logger:   l,
	}
}

func validateSelection(sel Selection) error {
	for _, l := range Levels {
		if id := sel.Get(l); id != "" {
			if _, err := uuid.Parse(id); err != nil {
				return hierarchyerrors.ErrInvalidID
			}
		}
	}
	return nil
}

func (s *service) Create(ctx context.Context, level Level, req CreateNodeRequest) (NodeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create organization unit requested",
		zap.String("request_id", rid),
		zap.String("level", string(level)),
		zap.String("name", req.Name),
		zap.String("parent_id", req.ParentID),
	)

	var parentID *uuid.UUID
	parentLevel, hasParent := level.Parent()
	if hasParent {
		if req.ParentID == "" {
			return NodeResponse{}, hierarchyerrors.ErrParentRequired
		}
		id, err := uuid.Parse(req.ParentID)
		if err != nil {
			return NodeResponse{}, hierarchyerrors.ErrInvalidID
		}
		parentID = &id
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create organization unit begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return NodeResponse{}, mapRepositoryError(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if hasParent {
		if _, err := qtx.FindByID(ctx, parentLevel, parentID.String()); err != nil {
			s.logger.Warn("create organization unit parent lookup failed",
				zap.String("parent_level", string(parentLevel)),
				zap.String("parent_id", req.ParentID),
				zap.Error(err),
			)
			mapped := mapRepositoryError(err)
			if errors.Is(mapped, hierarchyerrors.ErrNodeNotFound) {
				mapped = hierarchyerrors.ErrParentNotFound
			}
			return NodeResponse{}, mapped
		}
	}

	node := Node{ID: uuid.New(), Name: strings.TrimSpace(req.Name), ParentID: parentID}
	inserted, err := qtx.Insert(ctx, level, &node)
	if err != nil {
		s.logger.Error("create organization unit persist failed", zap.Error(err))
		return NodeResponse{}, mapRepositoryError(err)
	}
	if !inserted {
		return NodeResponse{}, hierarchyerrors.ErrNodeAlreadyExists
	}

	change := events.NewEntityChanged(ctx, string(level), node.ID.String(), events.ActionCreated)
	if err := kafka.EnqueueEntityChanged(ctx, s.outbox, tx, change); err != nil {
		s.logger.Error("create organization unit outbox persist failed", zap.Error(err))
		return NodeResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create organization unit commit failed", zap.String("request_id", rid), zap.Error(err))
		return NodeResponse{}, mapRepositoryError(err)
	}

	if err := s.notifier.Notify(ctx, change); err != nil {
		s.logger.Error("failed to signal organization change", zap.Error(err))
	}

	s.logger.Info("create organization unit success",
		zap.String("request_id", rid),
		zap.String("level", string(level)),
		zap.String("id", node.ID.String()),
	)
	return mapToResponse(level, node), nil
}

func (s *service) List(ctx context.Context, level Level, sel Selection) ([]NodeResponse, error) {
	if err := validateSelection(sel); err != nil {
		return nil, err
	}
	nodes, err := s.repo.List(ctx, level, sel)
	if err != nil {
		s.logger.Error("list organization units failed", zap.String("level", string(level)), zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(level, nodes), nil
}

func (s *service) GetByID(ctx context.Context, level Level, id string) (NodeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return NodeResponse{}, hierarchyerrors.ErrInvalidID
	}
	node, err := s.repo.FindByID(ctx, level, id)
	if err != nil {
		return NodeResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(level, *node), nil
}

func (s *service) GetPath(ctx context.Context, cellID string) (PathResponse, error) {
	id, err := uuid.Parse(cellID)
	if err != nil {
		return PathResponse{}, hierarchyerrors.ErrInvalidID
	}
	path, err := s.repo.FindPath(ctx, id)
	if err != nil {
		return PathResponse{}, mapRepositoryError(err)
	}
	return MapPath(*path), nil
}

// Options lists every level narrowed by the ancestors selected above it.
// Unknown ids simply yield empty levels.
func (s *service) Options(ctx context.Context, sel Selection) (LevelsResponse, error) {
	if err := validateSelection(sel); err != nil {
		return LevelsResponse{}, err
	}

	var resp LevelsResponse
	for _, level := range Levels {
		nodes, err := s.repo.List(ctx, level, sel)
		if err != nil {
			s.logger.Error("load hierarchy options failed", zap.String("level", string(level)), zap.Error(err))
			return LevelsResponse{}, mapRepositoryError(err)
		}
		resp.set(level, mapToListResponse(level, nodes))
	}
	return resp, nil
}

func (s *service) Relationships(ctx context.Context) (LevelsResponse, error) {
	return s.Options(ctx, Selection{})
}

func (s *service) Tree(ctx context.Context) ([]TreeNode, error) {
	all, err := s.Options(ctx, Selection{})
	if err != nil {
		return nil, err
	}
	return BuildTree(all), nil
}

// BuildTree nests the flat listing Region > Direction > Department > Team > Cell,
// keeping the name order of each level.
func BuildTree(all LevelsResponse) []TreeNode {
	byParent := func(nodes []NodeResponse, children func(id string) []TreeNode) map[string][]TreeNode {
		out := make(map[string][]TreeNode)
		for _, n := range nodes {
			out[n.ParentID] = append(out[n.ParentID], TreeNode{
				ID:       n.ID,
				Name:     n.Name,
				Level:    n.Level,
				Children: children(n.ID),
			})
		}
		return out
	}
	none := func(string) []TreeNode { return nil }

	cells := byParent(all.Cells, none)
	teams := byParent(all.Teams, func(id string) []TreeNode { return cells[id] })
	departments := byParent(all.Departments, func(id string) []TreeNode { return teams[id] })
	directions := byParent(all.Directions, func(id string) []TreeNode { return departments[id] })
	regions := byParent(all.Regions, func(id string) []TreeNode { return directions[id] })

	tree := regions[""]
	if tree == nil {
		tree = []TreeNode{}
	}
	return tree
}

func mapToResponse(level Level, n Node) NodeResponse {
	resp := NodeResponse{
		ID:    n.ID.String(),
		Name:  n.Name,
		Level: string(level),
	}
	if n.ParentID != nil {
		resp.ParentID = n.ParentID.String()
	}
	return resp
}

func mapToListResponse(level Level, nodes []Node) []NodeResponse {
	res := make([]NodeResponse, len(nodes))
	for i, n := range nodes {
		res[i] = mapToResponse(level, n)
	}
	return res
}
