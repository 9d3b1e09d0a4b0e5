package importer

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"strings"
	"testing"
	"time"

	"churchops/internal/events"
	"churchops/internal/hierarchy"
	"churchops/internal/person"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// memNodes is an in-memory hierarchy store keyed by level.
type memNodes struct {
	nodes map[hierarchy.Level][]hierarchy.Node
	seq   int
}

func newMemNodes() *memNodes {
	return &memNodes{nodes: map[hierarchy.Level][]hierarchy.Node{}}
}

func sameParent(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (m *memNodes) WithTx(*sql.Tx) hierarchy.Repository { return m }

func (m *memNodes) FindByID(_ context.Context, level hierarchy.Level, id string) (*hierarchy.Node, error) {
	for _, n := range m.nodes[level] {
		if n.ID.String() == id {
			return &n, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memNodes) FindByName(_ context.Context, level hierarchy.Level, name string, parentID *uuid.UUID) (*hierarchy.Node, error) {
	for _, n := range m.nodes[level] {
		if strings.EqualFold(n.Name, name) && sameParent(n.ParentID, parentID) {
			return &n, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memNodes) Insert(ctx context.Context, level hierarchy.Level, node *hierarchy.Node) (bool, error) {
	if _, err := m.FindByName(ctx, level, node.Name, node.ParentID); err == nil {
		return false, nil
	}
	m.seq++
	node.CreatedAt = time.Unix(int64(m.seq), 0)
	m.nodes[level] = append(m.nodes[level], *node)
	return true, nil
}

func (m *memNodes) List(_ context.Context, level hierarchy.Level, _ hierarchy.Selection) ([]hierarchy.Node, error) {
	return m.nodes[level], nil
}

func (m *memNodes) parent(level hierarchy.Level, n hierarchy.Node) hierarchy.Node {
	up, _ := level.Parent()
	for _, p := range m.nodes[up] {
		if n.ParentID != nil && p.ID == *n.ParentID {
			return p
		}
	}
	return hierarchy.Node{}
}

func (m *memNodes) pathOf(cell hierarchy.Node) hierarchy.Path {
	team := m.parent(hierarchy.LevelCell, cell)
	dep := m.parent(hierarchy.LevelTeam, team)
	dir := m.parent(hierarchy.LevelDepartment, dep)
	reg := m.parent(hierarchy.LevelDirection, dir)
	return hierarchy.Path{
		RegionID: reg.ID, RegionName: reg.Name,
		DirectionID: dir.ID, DirectionName: dir.Name,
		DepartmentID: dep.ID, DepartmentName: dep.Name,
		TeamID: team.ID, TeamName: team.Name,
		CellID: cell.ID, CellName: cell.Name,
	}
}

func (m *memNodes) FindPath(_ context.Context, cellID uuid.UUID) (*hierarchy.Path, error) {
	for _, c := range m.nodes[hierarchy.LevelCell] {
		if c.ID == cellID {
			p := m.pathOf(c)
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memNodes) FindCellPaths(_ context.Context, names hierarchy.Names) ([]hierarchy.Path, error) {
	var out []hierarchy.Path
	for _, c := range m.nodes[hierarchy.LevelCell] {
		if !strings.EqualFold(c.Name, names.Cell) {
			continue
		}
		p := m.pathOf(c)
		if names.Team != "" && !strings.EqualFold(p.TeamName, names.Team) {
			continue
		}
		if names.Region != "" && !strings.EqualFold(p.RegionName, names.Region) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *memNodes) count() int {
	total := 0
	for _, ns := range m.nodes {
		total += len(ns)
	}
	return total
}

// memPeople keeps people in creation order. failOn makes Create and Update
// fail for the given first name.
type memPeople struct {
	people []person.Person
	failOn map[string]error
	seq    int
}

func newMemPeople() *memPeople {
	return &memPeople{failOn: map[string]error{}}
}

func (m *memPeople) add(p person.Person) person.Person {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	m.seq++
	p.CreatedAt = time.Unix(int64(m.seq), 0)
	m.people = append(m.people, p)
	return p
}

func (m *memPeople) WithTx(*sql.Tx) person.Repository { return m }

func (m *memPeople) FindByID(_ context.Context, id uuid.UUID) (*person.Person, error) {
	for _, p := range m.people {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memPeople) FindRecord(ctx context.Context, id uuid.UUID) (*person.Record, error) {
	p, err := m.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &person.Record{Person: *p}, nil
}

func (m *memPeople) Search(context.Context, person.Filter, int, int) ([]person.Record, error) {
	return nil, nil
}

func (m *memPeople) Count(context.Context, person.Filter) (int64, error) {
	return int64(len(m.people)), nil
}

func (m *memPeople) QuickSearch(context.Context, string, int) ([]person.Record, error) {
	return nil, nil
}

func (m *memPeople) FindByEmail(_ context.Context, email string) ([]person.Person, error) {
	var out []person.Person
	for _, p := range m.people {
		if p.Email != nil && strings.EqualFold(*p.Email, strings.TrimSpace(email)) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPeople) FindByPhone(_ context.Context, phone string) ([]person.Person, error) {
	var out []person.Person
	for _, p := range m.people {
		if p.Phone != nil && person.NormalizePhone(*p.Phone) == person.NormalizePhone(phone) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPeople) FindByName(_ context.Context, first, last string, fuzzy bool) ([]person.Person, error) {
	first, last = strings.ToLower(strings.TrimSpace(first)), strings.ToLower(strings.TrimSpace(last))
	var out []person.Person
	for _, p := range m.people {
		pf, pl := strings.ToLower(p.FirstName), strings.ToLower(p.LastName)
		if fuzzy && strings.Contains(pf, first) && strings.Contains(pl, last) {
			out = append(out, p)
		}
		if !fuzzy && pf == first && pl == last {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPeople) Create(_ context.Context, p *person.Person) error {
	if err := m.failOn[p.FirstName]; err != nil {
		return err
	}
	m.add(*p)
	return nil
}

func (m *memPeople) Update(_ context.Context, p *person.Person) error {
	if err := m.failOn[p.FirstName]; err != nil {
		return err
	}
	for i := range m.people {
		if m.people[i].ID == p.ID {
			m.people[i] = *p
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *memPeople) Delete(context.Context, uuid.UUID) error { return nil }

func (m *memPeople) Reassign(context.Context, []uuid.UUID, uuid.UUID) (int64, error) {
	return 0, nil
}

type engine struct {
	sqlMock  sqlmock.Sqlmock
	people   *memPeople
	nodes    *memNodes
	notified []events.EntityChangedEvent
	svc      Service
}

func setupEngine(t *testing.T) *engine {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	e := &engine{sqlMock: mock, people: newMemPeople(), nodes: newMemNodes()}
	notifier := events.NotifierFunc(func(_ context.Context, changes ...events.EntityChangedEvent) error {
		e.notified = append(e.notified, changes...)
		return nil
	})
	e.svc = NewService(db, e.people, e.nodes, nil, notifier, 100)
	return e
}

func (e *engine) expectCommit(n int) {
	for i := 0; i < n; i++ {
		e.sqlMock.ExpectBegin()
		e.sqlMock.ExpectCommit()
	}
}

func (e *engine) expectRollback(n int) {
	for i := 0; i < n; i++ {
		e.sqlMock.ExpectBegin()
		e.sqlMock.ExpectRollback()
	}
}

func placed(first, last, email string) Row {
	return Row{
		FirstName:      first,
		LastName:       last,
		Email:          email,
		RegionName:     "North",
		DirectionName:  "Central",
		DepartmentName: "Youth",
		TeamName:       "Team A",
		CellName:       "Cell 1",
	}
}

func TestRowActive(t *testing.T) {
	cases := []struct {
		raw    any
		want   bool
		wantOK bool
	}{
		{nil, false, false},
		{"", false, false},
		{true, true, true},
		{false, false, true},
		{"TRUE", true, true},
		{"yes", false, true},
		{"1", false, true},
		{float64(1), true, true},
		{float64(0), false, true},
		{2, true, true},
	}
	for _, tc := range cases {
		got, ok := Row{IsActive: tc.raw}.Active()
		assert.Equal(t, tc.wantOK, ok, "%#v", tc.raw)
		assert.Equal(t, tc.want, got, "%#v", tc.raw)
	}
}

func TestDecide(t *testing.T) {
	named := Row{FirstName: "A", LastName: "B"}
	emailOnly := Row{Email: "a@b.c"}

	assert.Equal(t, decideReject, decide(rowState{row: Row{}}).then)
	assert.Equal(t, decideUpdate, decide(rowState{row: named, matched: true, opts: Options{UpdateExisting: true}}).then)
	assert.Equal(t, decideSkip, decide(rowState{row: named, matched: true}).then)
	assert.Equal(t, decideCreate, decide(rowState{row: named, opts: Options{CreateMissing: true}}).then)
	assert.Equal(t, decideSkip, decide(rowState{row: emailOnly, opts: Options{CreateMissing: true}}).then)
	assert.Equal(t, decideSkip, decide(rowState{row: named}).then)
}

func TestImport_RowWithoutIdentifierDoesNotStopTheBatch(t *testing.T) {
	ctx := context.Background()
	e := setupEngine(t)

	rows := []Row{
		placed("Ama", "Mensah", "ama@example.com"),
		placed("Kofi", "Boateng", ""),
		{CellName: "Cell 1", IsActive: "true"},
		placed("Esi", "Owusu", ""),
		placed("Yaw", "Asante", "yaw@example.com"),
	}
	e.expectCommit(2)
	e.expectCommit(2)

	summary, err := e.svc.Import(ctx, rows, Options{CreateMissing: true})

	assert.NoError(t, err)
	assert.Equal(t, 5, summary.Total)
	assert.Equal(t, 4, summary.Created)
	assert.Equal(t, 1, summary.Errors)
	assert.Equal(t, 0, summary.Skipped)
	assert.Len(t, e.people.people, 4)
	assert.Len(t, summary.CreatedPeople, 4)
	assert.Equal(t, "Youth", summary.CreatedPeople[0].Department)

	var rowThree []Detail
	for _, d := range summary.Details {
		if strings.HasPrefix(d.Message, "Row 3:") {
			rowThree = append(rowThree, d)
		}
	}
	assert.Len(t, rowThree, 1)
	assert.Equal(t, DetailError, rowThree[0].Type)

	// five hierarchy nodes, created once
	assert.Equal(t, 5, e.nodes.count())
	var personCreated, nodeCreated int
	for _, ch := range e.notified {
		if ch.Entity == events.EntityPerson {
			personCreated++
		} else {
			nodeCreated++
		}
	}
	assert.Equal(t, 4, personCreated)
	assert.Equal(t, 5, nodeCreated)
}

func TestImport_IdenticalImportsAreIdempotent(t *testing.T) {
	ctx := context.Background()
	e := setupEngine(t)
	rows := []Row{
		placed("Ama", "Mensah", "ama@example.com"),
		placed("Kofi", "Boateng", "kofi@example.com"),
	}
	opts := Options{CreateMissing: true, UpdateExisting: true}

	e.expectCommit(2)
	first, err := e.svc.Import(ctx, rows, opts)
	assert.NoError(t, err)
	assert.Equal(t, 2, first.Created)
	nodes := e.nodes.count()

	e.expectRollback(2)
	second, err := e.svc.Import(ctx, rows, opts)

	assert.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 0, second.Updated)
	assert.Equal(t, 2, second.Skipped)
	assert.Equal(t, nodes, e.nodes.count())
	assert.Len(t, e.people.people, 2)
	assert.Contains(t, second.Details[0].Message, "No updates needed")
}

func TestImport_FuzzyNameMatching(t *testing.T) {
	ctx := context.Background()

	t.Run("row names are substrings of the stored names", func(t *testing.T) {
		e := setupEngine(t)
		stored := e.people.add(person.Person{FirstName: "Jonathan", LastName: "Smith", IsActive: true})
		e.expectCommit(1)

		summary, err := e.svc.Import(ctx,
			[]Row{{FirstName: "Jon", LastName: "Smith", IsActive: "false"}},
			Options{UpdateExisting: true, MatchMode: MatchFuzzy},
		)

		assert.NoError(t, err)
		assert.Equal(t, 1, summary.Updated)
		got, _ := e.people.FindByID(ctx, stored.ID)
		assert.False(t, got.IsActive)
		assert.Equal(t, "Jonathan", got.FirstName)
	})

	t.Run("exact mode does not match a shortened name", func(t *testing.T) {
		e := setupEngine(t)
		e.people.add(person.Person{FirstName: "Jonathan", LastName: "Smith", IsActive: true})
		e.expectRollback(1)

		summary, err := e.svc.Import(ctx,
			[]Row{{FirstName: "Jon", LastName: "Smith", IsActive: "false"}},
			Options{UpdateExisting: true},
		)

		assert.NoError(t, err)
		assert.Equal(t, 1, summary.Skipped)
		assert.Contains(t, summary.Details[0].Message, "Person not found")
	})

	t.Run("a first name alone is not an identifier", func(t *testing.T) {
		e := setupEngine(t)
		e.people.add(person.Person{FirstName: "Jonathan", LastName: "Smith", IsActive: true})

		summary, err := e.svc.Import(ctx,
			[]Row{{FirstName: "Jon", IsActive: "false"}},
			Options{CreateMissing: true, UpdateExisting: true, MatchMode: MatchFuzzy},
		)

		assert.NoError(t, err)
		assert.Equal(t, 1, summary.Errors)
		assert.Equal(t, 0, summary.Updated)
		assert.Equal(t, 0, summary.Created)
		assert.Equal(t, DetailError, summary.Details[0].Type)
		assert.Contains(t, summary.Details[0].Message, "Row has no identifier")
		assert.Len(t, e.people.people, 1)
		assert.NoError(t, e.sqlMock.ExpectationsWereMet())
	})

	t.Run("stored value must contain both names", func(t *testing.T) {
		e := setupEngine(t)
		e.people.add(person.Person{FirstName: "Jonathan", LastName: "Doe", IsActive: true})
		e.expectRollback(1)

		summary, err := e.svc.Import(ctx,
			[]Row{{FirstName: "Jon", LastName: "Smith"}},
			Options{UpdateExisting: true, MatchMode: MatchFuzzy},
		)

		assert.NoError(t, err)
		assert.Equal(t, 1, summary.Skipped)
	})
}

func TestImport_MatchingPriorityAndAmbiguity(t *testing.T) {
	ctx := context.Background()

	t.Run("person id wins over email", func(t *testing.T) {
		e := setupEngine(t)
		byID := e.people.add(person.Person{FirstName: "A", LastName: "One", IsActive: true})
		email := "shared@example.com"
		byEmail := e.people.add(person.Person{FirstName: "B", LastName: "Two", Email: &email, IsActive: true})
		e.expectCommit(1)

		summary, err := e.svc.Import(ctx,
			[]Row{{PersonID: byID.ID.String(), Email: email, IsActive: false}},
			Options{UpdateExisting: true},
		)

		assert.NoError(t, err)
		assert.Equal(t, 1, summary.Updated)
		got, _ := e.people.FindByID(ctx, byID.ID)
		assert.False(t, got.IsActive)
		other, _ := e.people.FindByID(ctx, byEmail.ID)
		assert.True(t, other.IsActive)
	})

	t.Run("normalized phone", func(t *testing.T) {
		e := setupEngine(t)
		phone := "+233201234567"
		stored := e.people.add(person.Person{FirstName: "A", LastName: "One", Phone: &phone, IsActive: true})
		e.expectCommit(1)

		summary, err := e.svc.Import(ctx,
			[]Row{{Phone: "+233 20 123 4567", Country: "Ghana"}},
			Options{UpdateExisting: true},
		)

		assert.NoError(t, err)
		assert.Equal(t, 1, summary.Updated)
		got, _ := e.people.FindByID(ctx, stored.ID)
		assert.Equal(t, "Ghana", *got.Country)
	})

	t.Run("several candidates use the oldest and warn", func(t *testing.T) {
		e := setupEngine(t)
		oldest := e.people.add(person.Person{FirstName: "Kwame", LastName: "Nkrumah", IsActive: true})
		e.people.add(person.Person{FirstName: "Kwame", LastName: "Nkrumah", IsActive: true})
		e.expectCommit(1)

		summary, err := e.svc.Import(ctx,
			[]Row{{FirstName: "kwame", LastName: "nkrumah", IsActive: false}},
			Options{UpdateExisting: true},
		)

		assert.NoError(t, err)
		assert.Equal(t, 1, summary.Updated)
		assert.Equal(t, DetailWarning, summary.Details[0].Type)
		assert.Contains(t, summary.Details[0].Message, oldest.ID.String())
		got, _ := e.people.FindByID(ctx, oldest.ID)
		assert.False(t, got.IsActive)
	})

	t.Run("malformed person id is a row error", func(t *testing.T) {
		e := setupEngine(t)
		e.expectRollback(1)

		summary, err := e.svc.Import(ctx, []Row{{PersonID: "42"}}, Options{UpdateExisting: true})

		assert.NoError(t, err)
		assert.Equal(t, 1, summary.Errors)
	})
}

func TestImport_SkipsWithoutPermissionFlags(t *testing.T) {
	ctx := context.Background()
	e := setupEngine(t)
	email := "ama@example.com"
	e.people.add(person.Person{FirstName: "Ama", LastName: "Mensah", Email: &email, IsActive: true})
	e.expectRollback(3)

	summary, err := e.svc.Import(ctx, []Row{
		{Email: email, IsActive: "false"},
		{FirstName: "New", LastName: "Person"},
		{Email: "nobody@example.com"},
	}, Options{})

	assert.NoError(t, err)
	assert.Equal(t, 3, summary.Skipped)
	assert.Contains(t, summary.Details[0].Message, "Updates not enabled")
	assert.Contains(t, summary.Details[1].Message, "Person not found")
	assert.Len(t, e.people.people, 1)
}

func TestImport_PartialHierarchy(t *testing.T) {
	ctx := context.Background()
	e := setupEngine(t)
	e.expectCommit(1)
	_, err := e.svc.Import(ctx, []Row{placed("Ama", "Mensah", "ama@example.com")}, Options{CreateMissing: true})
	assert.NoError(t, err)

	e.expectCommit(1)
	created, err := e.svc.Import(ctx, []Row{{FirstName: "Kofi", LastName: "Boateng", CellName: "cell 1"}}, Options{CreateMissing: true})
	assert.NoError(t, err)
	assert.Equal(t, 1, created.Created)
	assert.Equal(t, "Team A", created.CreatedPeople[0].Team)

	e.expectRollback(2)
	failed, err := e.svc.Import(ctx, []Row{
		{FirstName: "Esi", LastName: "Owusu", CellName: "Nowhere"},
		{FirstName: "Yaw", LastName: "Asante"},
	}, Options{CreateMissing: true})
	assert.NoError(t, err)
	assert.Equal(t, 2, failed.Errors)
	assert.Contains(t, failed.Details[1].Message, "A cell is required")
}

func TestImport_StoreFailureStopsTheBatch(t *testing.T) {
	ctx := context.Background()
	e := setupEngine(t)
	e.people.failOn["Kofi"] = driver.ErrBadConn

	e.expectCommit(1)
	e.expectRollback(1)

	summary, err := e.svc.Import(ctx, []Row{
		placed("Ama", "Mensah", ""),
		placed("Kofi", "Boateng", ""),
		placed("Esi", "Owusu", ""),
		placed("Yaw", "Asante", ""),
	}, Options{CreateMissing: true})

	assert.NoError(t, err)
	assert.True(t, summary.Aborted)
	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 3, summary.Errors)
	assert.Len(t, e.people.people, 1)
	assert.Contains(t, summary.Details[len(summary.Details)-1].Message, "Row 4: Not processed")
}

func TestImport_WholeOperationErrors(t *testing.T) {
	ctx := context.Background()
	e := setupEngine(t)

	_, err := e.svc.Import(ctx, nil, Options{})
	assert.Error(t, err)

	rows := make([]Row, 101)
	_, err = e.svc.Import(ctx, rows, Options{})
	assert.Error(t, err)
}
