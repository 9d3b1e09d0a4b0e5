package importer

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"churchops/internal/events"
	"churchops/internal/hierarchy"
	importererrors "churchops/internal/importer/errors"
	"churchops/internal/messaging/kafka"
	"churchops/internal/metrics"
	"churchops/internal/person"
	"churchops/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=importer_service.go -destination=mock/importer_service_mock.go -package=mock
type Service interface {
	Import(ctx context.Context, rows []Row, opts Options) (Summary, error)
}

type service struct {
	db        *sql.DB
	people    person.Repository
	hierarchy hierarchy.Repository
	outbox    kafka.OutboxRepository
	notifier  events.Notifier
	maxRows   int
	logger    *zap.Logger
}

// NewService builds the reconciliation engine. maxRows <= 0 disables the
// row limit.
func NewService(
	db *sql.DB,
	people person.Repository,
	hierarchyRepo hierarchy.Repository,
	outboxRepo kafka.OutboxRepository,
	notifier events.Notifier,
	maxRows int,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("importer.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("importer.service")
	}
	if notifier == nil {
		notifier = events.Nop()
	}
	return &service{
		db:        db,
		people:    people,
		hierarchy: hierarchyRepo,
		outbox:    outboxRepo,
		notifier:  notifier,
		maxRows:   maxRows,
		logger:    l,
	}
}

// rowResult is everything a committed row contributes to the summary.
type rowResult struct {
	outcome  Outcome
	message  string
	warnings []string
	created  *CreatedPerson
	changes  []events.EntityChangedEvent
}

func (s *service) Import(ctx context.Context, rows []Row, opts Options) (Summary, error) {
	rid := contextutil.GetRequestID(ctx)
	if len(rows) == 0 {
		return Summary{}, importererrors.ErrEmptyImport
	}
	if s.maxRows > 0 && len(rows) > s.maxRows {
		s.logger.Warn("import rejected, too many rows",
			zap.String("request_id", rid),
			zap.Int("rows", len(rows)),
			zap.Int("max_rows", s.maxRows),
		)
		return Summary{}, importererrors.ErrTooManyRows
	}
	if opts.MatchMode == "" {
		opts.MatchMode = MatchExact
	}

	s.logger.Debug("import started",
		zap.String("request_id", rid),
		zap.Int("rows", len(rows)),
		zap.Bool("create_missing", opts.CreateMissing),
		zap.Bool("update_existing", opts.UpdateExisting),
		zap.String("match_type", string(opts.MatchMode)),
	)

	summary := Summary{
		Total:         len(rows),
		Details:       []Detail{},
		CreatedPeople: []CreatedPerson{},
	}
	var collector events.Collector

	for i, row := range rows {
		n := i + 1
		res, err := s.importRow(ctx, row, opts)
		if err != nil {
			summary.Errors++
			summary.detail(DetailError, n, "Error processing row: %s", rowMessage(err))
			metrics.RecordImportRow(string(OutcomeError))

			if isStoreFailure(err) {
				s.logger.Error("import aborted, store unavailable",
					zap.String("request_id", rid),
					zap.Int("row", n),
					zap.Error(err),
				)
				for j := n + 1; j <= len(rows); j++ {
					summary.Errors++
					summary.detail(DetailError, j, "Not processed, the data store became unavailable")
					metrics.RecordImportRow(string(OutcomeError))
				}
				summary.Aborted = true
				break
			}
			s.logger.Warn("import row failed", zap.Int("row", n), zap.Error(err))
			continue
		}

		for _, w := range res.warnings {
			summary.detail(DetailWarning, n, "%s", w)
		}
		switch res.outcome {
		case OutcomeCreated:
			summary.Created++
			summary.detail(DetailSuccess, n, "%s", res.message)
			summary.CreatedPeople = append(summary.CreatedPeople, *res.created)
		case OutcomeUpdated:
			summary.Updated++
			summary.detail(DetailSuccess, n, "%s", res.message)
		default:
			summary.Skipped++
			summary.detail(DetailWarning, n, "%s", res.message)
		}
		metrics.RecordImportRow(string(res.outcome))
		for _, ch := range res.changes {
			collector.Add(ch)
		}
	}

	if changes := collector.Changes(); len(changes) > 0 {
		if err := s.notifier.Notify(ctx, changes...); err != nil {
			s.logger.Error("failed to signal import changes", zap.String("request_id", rid), zap.Error(err))
		}
	}

	s.logger.Info("import finished",
		zap.String("request_id", rid),
		zap.Int("total", summary.Total),
		zap.Int("created", summary.Created),
		zap.Int("updated", summary.Updated),
		zap.Int("skipped", summary.Skipped),
		zap.Int("errors", summary.Errors),
		zap.Bool("aborted", summary.Aborted),
	)
	return summary, nil
}

// importRow reconciles one row in its own transaction.
func (s *service) importRow(ctx context.Context, row Row, opts Options) (rowResult, error) {
	if !row.HasIdentifier() {
		return rowResult{}, importererrors.ErrNoIdentifier
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return rowResult{}, mapRepositoryError(err)
	}
	defer tx.Rollback()

	people := s.people.WithTx(tx)
	nodes := s.hierarchy.WithTx(tx)

	m, err := match(ctx, people, row, opts.MatchMode)
	if err != nil {
		return rowResult{}, err
	}

	var res rowResult
	if m.ambiguous {
		res.warnings = append(res.warnings,
			"Multiple people matched "+row.DisplayName()+" by "+m.by+"; using the earliest created ("+m.person.ID.String()+")")
	}

	r := decide(rowState{row: row, matched: m.person != nil, opts: opts})
	switch r.then {
	case decideReject:
		return rowResult{}, importererrors.ErrNoIdentifier
	case decideSkip:
		res.outcome = OutcomeSkipped
		res.message = strings.Replace(r.reason, "%s", row.DisplayName(), 1)
		return res, nil
	case decideUpdate:
		changed, warnings, changes, err := s.update(ctx, people, nodes, m.person, row)
		if err != nil {
			return rowResult{}, err
		}
		res.warnings = append(res.warnings, warnings...)
		if !changed {
			res.outcome = OutcomeSkipped
			res.message = "No updates needed for: " + row.DisplayName()
			return res, nil
		}
		res.outcome = OutcomeUpdated
		res.message = "Updated person: " + m.person.FullName()
		res.changes = changes
	case decideCreate:
		created, warnings, changes, err := s.create(ctx, people, nodes, row)
		if err != nil {
			return rowResult{}, err
		}
		res.warnings = append(res.warnings, warnings...)
		res.outcome = OutcomeCreated
		res.message = "Created new person: " + created.Name
		res.created = created
		res.changes = changes
	}

	if err := kafka.EnqueueEntityChanged(ctx, s.outbox, tx, res.changes...); err != nil {
		return rowResult{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return rowResult{}, mapRepositoryError(err)
	}
	return res, nil
}

type matchResult struct {
	person    *person.Person
	by        string
	ambiguous bool
}

// match tries person id, email, phone and then names. The first identifier
// that finds anybody wins; among several candidates the oldest is used.
func match(ctx context.Context, repo person.Repository, row Row, mode MatchMode) (matchResult, error) {
	if raw := strings.TrimSpace(row.PersonID); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return matchResult{}, importererrors.ErrInvalidPersonID
		}
		p, err := repo.FindByID(ctx, id)
		switch {
		case err == nil:
			return matchResult{person: p, by: "person_id"}, nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return matchResult{}, mapRepositoryError(err)
		}
	}

	type lookup struct {
		by   string
		skip bool
		find func() ([]person.Person, error)
	}
	lookups := []lookup{
		{
			by:   "email",
			skip: strings.TrimSpace(row.Email) == "",
			find: func() ([]person.Person, error) { return repo.FindByEmail(ctx, row.Email) },
		},
		{
			by:   "phone",
			skip: person.NormalizePhone(row.Phone) == "",
			find: func() ([]person.Person, error) { return repo.FindByPhone(ctx, row.Phone) },
		},
		{
			by:   "name",
			skip: !row.HasNames(),
			find: func() ([]person.Person, error) {
				return repo.FindByName(ctx, row.FirstName, row.LastName, mode == MatchFuzzy)
			},
		},
	}
	for _, l := range lookups {
		if l.skip {
			continue
		}
		found, err := l.find()
		if err != nil {
			return matchResult{}, mapRepositoryError(err)
		}
		if len(found) > 0 {
			p := found[0]
			return matchResult{person: &p, by: l.by, ambiguous: len(found) > 1}, nil
		}
	}
	return matchResult{}, nil
}

// resolvePath finds the cell a row points at. A fully named chain is
// get-or-created; a partial one must name an existing cell.
func resolvePath(ctx context.Context, nodes hierarchy.Repository, names hierarchy.Names) (hierarchy.Path, []string, []events.EntityChangedEvent, error) {
	if names.Complete() {
		path, created, err := hierarchy.ResolveChain(ctx, nodes, names)
		return path, nil, created, err
	}
	if strings.TrimSpace(names.Cell) == "" {
		return hierarchy.Path{}, nil, nil, importererrors.ErrCellNameRequired
	}
	path, ambiguous, err := hierarchy.ResolveCell(ctx, nodes, names)
	if err != nil {
		return hierarchy.Path{}, nil, nil, err
	}
	var warnings []string
	if ambiguous {
		warnings = append(warnings, "Several cells are named "+names.Cell+"; using "+path.CellName+" in "+path.TeamName)
	}
	return path, warnings, nil, nil
}

func (s *service) update(
	ctx context.Context,
	people person.Repository,
	nodes hierarchy.Repository,
	p *person.Person,
	row Row,
) (bool, []string, []events.EntityChangedEvent, error) {
	var (
		changed  bool
		warnings []string
		changes  []events.EntityChangedEvent
	)

	if names := row.Names(); !names.IsZero() {
		path, w, created, err := resolvePath(ctx, nodes, names)
		if err != nil {
			return false, nil, nil, err
		}
		warnings = append(warnings, w...)
		changes = append(changes, created...)
		if path.CellID != p.CellID {
			p.CellID = path.CellID
			changed = true
		}
	}

	if email := strings.TrimSpace(row.Email); email != "" && !strings.EqualFold(email, derefString(p.Email)) {
		p.Email = person.StringPtr(email)
		changed = true
	}
	if phone := person.NormalizePhone(row.Phone); phone != "" && phone != person.NormalizePhone(derefString(p.Phone)) {
		p.Phone = person.StringPtr(phone)
		changed = true
	}
	if country := strings.TrimSpace(row.Country); country != "" && country != derefString(p.Country) {
		p.Country = person.StringPtr(country)
		changed = true
	}
	if gender := strings.TrimSpace(row.Gender); gender != "" && gender != derefString(p.Gender) {
		p.Gender = person.StringPtr(gender)
		changed = true
	}
	if active, ok := row.Active(); ok && active != p.IsActive {
		p.IsActive = active
		changed = true
	}

	if !changed {
		return false, warnings, changes, nil
	}
	if err := people.Update(ctx, p); err != nil {
		return false, nil, nil, mapRepositoryError(err)
	}
	changes = append(changes, events.NewEntityChanged(ctx, events.EntityPerson, p.ID.String(), events.ActionUpdated))
	return true, warnings, changes, nil
}

func (s *service) create(
	ctx context.Context,
	people person.Repository,
	nodes hierarchy.Repository,
	row Row,
) (*CreatedPerson, []string, []events.EntityChangedEvent, error) {
	names := row.Names()
	if names.IsZero() {
		return nil, nil, nil, importererrors.ErrCellRequired
	}
	path, warnings, changes, err := resolvePath(ctx, nodes, names)
	if err != nil {
		return nil, nil, nil, err
	}

	active, ok := row.Active()
	if !ok {
		active = true
	}
	p := &person.Person{
		ID:        uuid.New(),
		FirstName: strings.TrimSpace(row.FirstName),
		LastName:  strings.TrimSpace(row.LastName),
		CellID:    path.CellID,
		Email:     person.StringPtr(row.Email),
		Phone:     person.StringPtr(person.NormalizePhone(row.Phone)),
		Country:   person.StringPtr(row.Country),
		Gender:    person.StringPtr(row.Gender),
		IsActive:  active,
	}
	if err := people.Create(ctx, p); err != nil {
		return nil, nil, nil, mapRepositoryError(err)
	}
	changes = append(changes, events.NewEntityChanged(ctx, events.EntityPerson, p.ID.String(), events.ActionCreated))

	return &CreatedPerson{
		ID:         p.ID.String(),
		Name:       p.FullName(),
		Email:      derefString(p.Email),
		Phone:      derefString(p.Phone),
		Cell:       path.CellName,
		Team:       path.TeamName,
		Department: path.DepartmentName,
		Direction:  path.DirectionName,
		Region:     path.RegionName,
	}, warnings, changes, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
