package hierarchy

import (
	"context"
	"errors"
	"strings"

	"churchops/internal/events"
	hierarchyerrors "churchops/internal/hierarchy/errors"
	"churchops/internal/metrics"
	"churchops/internal/shared/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrCreate returns the node called name under parentID, inserting it when
// it does not exist yet. Names compare case-insensitively. An insert that
// loses a race against a concurrent writer re-reads the winning row.
func GetOrCreate(ctx context.Context, repo Repository, level Level, name string, parentID *uuid.UUID) (Node, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Node{}, false, apperror.RequiredField(level.Label() + " Name")
	}
	if _, hasParent := level.Parent(); hasParent && parentID == nil {
		return Node{}, false, hierarchyerrors.ErrParentRequired
	}

	existing, err := repo.FindByName(ctx, level, name, parentID)
	if err == nil {
		return *existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return Node{}, false, mapRepositoryError(err)
	}

	node := Node{ID: uuid.New(), Name: name, ParentID: parentID}
	inserted, err := repo.Insert(ctx, level, &node)
	if err != nil {
		return Node{}, false, mapRepositoryError(err)
	}
	if inserted {
		return node, true, nil
	}

	metrics.RecordHierarchyConflict(string(level))
	existing, err = repo.FindByName(ctx, level, name, parentID)
	if err != nil {
		return Node{}, false, mapRepositoryError(err)
	}
	return *existing, false, nil
}

// ResolveChain walks Region to Cell, creating whatever is missing, and
// returns the cell's path with one change signal per created node. Every
// level must be named.
func ResolveChain(ctx context.Context, repo Repository, names Names) (Path, []events.EntityChangedEvent, error) {
	var (
		path    Path
		created []events.EntityChangedEvent
		parent  *uuid.UUID
	)
	for _, level := range Levels {
		node, isNew, err := GetOrCreate(ctx, repo, level, names.Get(level), parent)
		if err != nil {
			return Path{}, nil, err
		}
		if isNew {
			created = append(created, events.NewEntityChanged(ctx, string(level), node.ID.String(), events.ActionCreated))
		}
		path.set(level, node)
		id := node.ID
		parent = &id
	}
	return path, created, nil
}

// ResolveCell finds an existing cell by name and whatever ancestor names are
// given. It never creates. The oldest match wins; ambiguous reports whether
// other cells matched too.
func ResolveCell(ctx context.Context, repo Repository, names Names) (Path, bool, error) {
	if strings.TrimSpace(names.Cell) == "" {
		return Path{}, false, apperror.RequiredField("Cell Name")
	}
	paths, err := repo.FindCellPaths(ctx, names)
	if err != nil {
		return Path{}, false, mapRepositoryError(err)
	}
	if len(paths) == 0 {
		return Path{}, false, hierarchyerrors.ErrCellNotResolved
	}
	return paths[0], len(paths) > 1, nil
}
