package attendance

import (
	"context"
	"database/sql"
	"testing"
	"time"

	attendanceerrors "churchops/internal/attendance/errors"
	"churchops/internal/events"
	"churchops/internal/schedule"
	scheduleMock "churchops/internal/schedule/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type rowKey struct {
	serviceID uuid.UUID
	personID  uuid.UUID
}

// memRepo keeps attendance rows in memory. upsertErr fails writes for
// specific people and unknown lists people missing from the registry.
type memRepo struct {
	rows      map[rowKey]Attendance
	upsertErr map[uuid.UUID]error
	unknown   map[uuid.UUID]bool
	upserts   int
}

func newMemRepo() *memRepo {
	return &memRepo{
		rows:      map[rowKey]Attendance{},
		upsertErr: map[uuid.UUID]error{},
		unknown:   map[uuid.UUID]bool{},
	}
}

func (m *memRepo) WithTx(tx *sql.Tx) Repository { return m }

func (m *memRepo) PersonExists(ctx context.Context, personID uuid.UUID) (bool, error) {
	return !m.unknown[personID], nil
}

func (m *memRepo) Find(ctx context.Context, serviceID, personID uuid.UUID) (*Attendance, error) {
	row, ok := m.rows[rowKey{serviceID, personID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &row, nil
}

func (m *memRepo) Upsert(ctx context.Context, a *Attendance) error {
	if err := m.upsertErr[a.PersonID]; err != nil {
		return err
	}
	m.upserts++
	m.rows[rowKey{a.ServiceID, a.PersonID}] = *a
	return nil
}

func (m *memRepo) Delete(ctx context.Context, serviceID, personID uuid.UUID) (bool, error) {
	key := rowKey{serviceID, personID}
	_, ok := m.rows[key]
	delete(m.rows, key)
	return ok, nil
}

func (m *memRepo) StatusMap(ctx context.Context, serviceID uuid.UUID, personIDs []uuid.UUID) (map[uuid.UUID]Status, error) {
	out := map[uuid.UUID]Status{}
	for k, row := range m.rows {
		if k.serviceID == serviceID {
			out[k.personID] = row.Status
		}
	}
	return out, nil
}

func (m *memRepo) ListByService(ctx context.Context, serviceID uuid.UUID) ([]Entry, error) {
	var out []Entry
	for k, row := range m.rows {
		if k.serviceID == serviceID {
			out = append(out, Entry{Attendance: row})
		}
	}
	return out, nil
}

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

type ledger struct {
	sqlMock  sqlmock.Sqlmock
	repo     *memRepo
	services *scheduleMock.MockRepository
	clock    *clock
	notified []events.EntityChangedEvent
	svc      Service
}

func setupLedger(t *testing.T) *ledger {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	l := &ledger{
		sqlMock:  mock,
		repo:     newMemRepo(),
		services: scheduleMock.NewMockRepository(gomock.NewController(t)),
		clock:    &clock{now: time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)},
	}
	notifier := events.NotifierFunc(func(_ context.Context, changes ...events.EntityChangedEvent) error {
		l.notified = append(l.notified, changes...)
		return nil
	})
	l.svc = NewServiceWithClock(db, l.repo, l.services, nil, notifier, l.clock.Now)
	return l
}

func (l *ledger) serviceExists(id uuid.UUID) {
	l.services.EXPECT().FindByID(gomock.Any(), id).
		Return(&schedule.ServiceRecord{Occurrence: schedule.Occurrence{ID: id}}, nil).AnyTimes()
}

func (l *ledger) expectCommit() {
	l.sqlMock.ExpectBegin()
	l.sqlMock.ExpectCommit()
}

func (l *ledger) expectRollback() {
	l.sqlMock.ExpectBegin()
	l.sqlMock.ExpectRollback()
}

func TestPlan(t *testing.T) {
	present := &Attendance{Status: StatusPresent}
	absent := &Attendance{Status: StatusAbsent}

	cases := []struct {
		name    string
		current *Attendance
		target  Mark
		want    Action
	}{
		{"unmark nothing", nil, NotMarked, ActionNone},
		{"unmark row", absent, NotMarked, ActionDelete},
		{"first mark", nil, Mark(StatusAbsent), ActionInsert},
		{"change status", absent, Mark(StatusWatchedRecording), ActionUpdate},
		{"same non-present", absent, Mark(StatusAbsent), ActionNone},
		{"present again", present, Mark(StatusPresent), ActionRefresh},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, plan(tc.current, tc.target))
		})
	}
}

func TestParseMark(t *testing.T) {
	m, ok := ParseMark(" Watched_Recording ")
	assert.True(t, ok)
	assert.Equal(t, Mark(StatusWatchedRecording), m)

	for _, raw := range []string{"", "not-marked", "Not-Marked", "not_marked"} {
		m, ok = ParseMark(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, NotMarked, m, raw)
	}

	_, ok = ParseMark("late")
	assert.False(t, ok)
}

func TestMark_PresentThenNotMarkedRoundTrip(t *testing.T) {
	ctx := context.Background()
	l := setupLedger(t)
	serviceID, personID := uuid.New(), uuid.New()
	l.serviceExists(serviceID)

	l.expectCommit()
	res, err := l.svc.Mark(ctx, MarkRequest{ServiceID: serviceID.String(), PersonID: personID.String(), Status: "present"})
	assert.NoError(t, err)
	assert.Equal(t, string(ActionInsert), res.Action)

	status, err := l.svc.GetStatus(ctx, serviceID.String(), personID.String())
	assert.NoError(t, err)
	assert.Equal(t, "present", status.Status)
	assert.NotNil(t, status.CheckInTime)

	l.expectCommit()
	res, err = l.svc.Mark(ctx, MarkRequest{ServiceID: serviceID.String(), PersonID: personID.String(), Status: "not-marked"})
	assert.NoError(t, err)
	assert.Equal(t, string(ActionDelete), res.Action)
	assert.Empty(t, l.repo.rows)

	status, err = l.svc.GetStatus(ctx, serviceID.String(), personID.String())
	assert.NoError(t, err)
	assert.Equal(t, "not-marked", status.Status)
	assert.Nil(t, status.CheckInTime)

	// Unmarking again touches nothing.
	l.expectRollback()
	res, err = l.svc.Mark(ctx, MarkRequest{ServiceID: serviceID.String(), PersonID: personID.String(), Status: "not-marked"})
	assert.NoError(t, err)
	assert.Equal(t, string(ActionNone), res.Action)

	assert.Len(t, l.notified, 2)
	assert.Equal(t, events.ActionCreated, l.notified[0].Action)
	assert.Equal(t, events.ActionDeleted, l.notified[1].Action)
	assert.NoError(t, l.sqlMock.ExpectationsWereMet())
}

func TestMark_DoublePresentRefreshesCheckIn(t *testing.T) {
	ctx := context.Background()
	l := setupLedger(t)
	serviceID, personID := uuid.New(), uuid.New()
	l.serviceExists(serviceID)
	req := MarkRequest{ServiceID: serviceID.String(), PersonID: personID.String(), Status: "present"}

	l.expectCommit()
	_, err := l.svc.Mark(ctx, req)
	assert.NoError(t, err)
	first := l.repo.rows[rowKey{serviceID, personID}]

	l.clock.now = l.clock.now.Add(20 * time.Minute)
	l.expectCommit()
	res, err := l.svc.Mark(ctx, req)
	assert.NoError(t, err)
	assert.Equal(t, string(ActionRefresh), res.Action)

	assert.Len(t, l.repo.rows, 1)
	second := l.repo.rows[rowKey{serviceID, personID}]
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.CheckInTime.After(*first.CheckInTime))
	assert.NoError(t, l.sqlMock.ExpectationsWereMet())
}

func TestMark_NonPresentClearsCheckIn(t *testing.T) {
	ctx := context.Background()
	l := setupLedger(t)
	serviceID, personID := uuid.New(), uuid.New()
	l.serviceExists(serviceID)

	l.expectCommit()
	_, err := l.svc.Mark(ctx, MarkRequest{ServiceID: serviceID.String(), PersonID: personID.String(), Status: "present"})
	assert.NoError(t, err)

	l.expectCommit()
	res, err := l.svc.Mark(ctx, MarkRequest{ServiceID: serviceID.String(), PersonID: personID.String(), Status: "watched_recording"})
	assert.NoError(t, err)
	assert.Equal(t, string(ActionUpdate), res.Action)

	row := l.repo.rows[rowKey{serviceID, personID}]
	assert.Equal(t, StatusWatchedRecording, row.Status)
	assert.Nil(t, row.CheckInTime)
}

func TestMark_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid status", func(t *testing.T) {
		l := setupLedger(t)
		_, err := l.svc.Mark(ctx, MarkRequest{ServiceID: uuid.NewString(), PersonID: uuid.NewString(), Status: "late"})
		assert.ErrorIs(t, err, attendanceerrors.ErrInvalidStatus)
	})

	t.Run("unknown service", func(t *testing.T) {
		l := setupLedger(t)
		serviceID := uuid.New()
		l.services.EXPECT().FindByID(gomock.Any(), serviceID).Return(nil, gorm.ErrRecordNotFound)

		_, err := l.svc.Mark(ctx, MarkRequest{ServiceID: serviceID.String(), PersonID: uuid.NewString(), Status: "present"})
		assert.ErrorIs(t, err, attendanceerrors.ErrServiceNotFound)
	})
}

func TestBulkMark_PartialFailureKeepsSiblings(t *testing.T) {
	ctx := context.Background()
	l := setupLedger(t)
	serviceID := uuid.New()
	ok1, missing, ok2 := uuid.New(), uuid.New(), uuid.New()
	l.serviceExists(serviceID)
	l.repo.upsertErr[missing] = &pgconn.PgError{Code: "23503"}

	l.expectCommit()   // ok1
	l.expectRollback() // missing
	l.expectCommit()   // ok2

	resp, err := l.svc.BulkMark(ctx, BulkMarkRequest{
		ServiceID: serviceID.String(),
		Marks: []MarkItem{
			{PersonID: ok1.String(), Status: "present"},
			{PersonID: "not-a-uuid", Status: "present"},
			{PersonID: missing.String(), Status: "absent"},
			{PersonID: ok2.String(), Status: "LATE"},
			{PersonID: ok2.String(), Status: "watched_recording"},
		},
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, resp.Applied)
	assert.Equal(t, 3, resp.Failed)
	assert.Len(t, resp.Results, 5)

	assert.Equal(t, "present", resp.Results[0].Status)
	assert.Equal(t, "Invalid person ID", resp.Results[1].Error)
	assert.Equal(t, "Person not found", resp.Results[2].Error)
	assert.Empty(t, resp.Results[2].Status)
	assert.Contains(t, resp.Results[3].Error, "Status must be one of")
	assert.Equal(t, "watched_recording", resp.Results[4].Status)

	assert.Len(t, l.repo.rows, 2)
	assert.Len(t, l.notified, 2)
	assert.NoError(t, l.sqlMock.ExpectationsWereMet())
}

func TestMark_UnknownPerson(t *testing.T) {
	ctx := context.Background()

	for _, status := range []string{"not-marked", "present"} {
		t.Run(status, func(t *testing.T) {
			l := setupLedger(t)
			serviceID, personID := uuid.New(), uuid.New()
			l.serviceExists(serviceID)
			l.repo.unknown[personID] = true

			l.expectRollback()
			_, err := l.svc.Mark(ctx, MarkRequest{ServiceID: serviceID.String(), PersonID: personID.String(), Status: status})

			assert.ErrorIs(t, err, attendanceerrors.ErrPersonNotFound)
			assert.Empty(t, l.repo.rows)
			assert.Empty(t, l.notified)
			assert.NoError(t, l.sqlMock.ExpectationsWereMet())
		})
	}
}

func TestBulkMark_UnmarkingUnknownPersonFails(t *testing.T) {
	l := setupLedger(t)
	serviceID := uuid.New()
	known, unknown := uuid.New(), uuid.New()
	l.serviceExists(serviceID)
	l.repo.unknown[unknown] = true

	l.expectRollback() // unknown
	l.expectRollback() // known, nothing to remove

	resp, err := l.svc.BulkMark(context.Background(), BulkMarkRequest{
		ServiceID: serviceID.String(),
		Marks: []MarkItem{
			{PersonID: unknown.String(), Status: "not-marked"},
			{PersonID: known.String(), Status: "not-marked"},
		},
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, resp.Applied)
	assert.Equal(t, 1, resp.Failed)
	assert.Equal(t, "Person not found", resp.Results[0].Error)
	assert.Empty(t, resp.Results[0].Action)
	assert.Equal(t, string(ActionNone), resp.Results[1].Action)
	assert.NoError(t, l.sqlMock.ExpectationsWereMet())
}

func TestBulkMark_UnknownServiceAbortsWholeBatch(t *testing.T) {
	l := setupLedger(t)
	serviceID := uuid.New()
	l.services.EXPECT().FindByID(gomock.Any(), serviceID).Return(nil, gorm.ErrRecordNotFound)

	_, err := l.svc.BulkMark(context.Background(), BulkMarkRequest{
		ServiceID: serviceID.String(),
		Marks:     []MarkItem{{PersonID: uuid.NewString(), Status: "present"}},
	})

	assert.ErrorIs(t, err, attendanceerrors.ErrServiceNotFound)
	assert.Empty(t, l.repo.rows)
}

func TestListByService_Counts(t *testing.T) {
	l := setupLedger(t)
	serviceID := uuid.New()
	l.serviceExists(serviceID)
	for _, st := range []Status{StatusPresent, StatusPresent, StatusWatchedRecording, StatusAbsent} {
		pid := uuid.New()
		l.repo.rows[rowKey{serviceID, pid}] = Attendance{ID: uuid.New(), ServiceID: serviceID, PersonID: pid, Status: st}
	}

	resp, err := l.svc.ListByService(context.Background(), serviceID.String())

	assert.NoError(t, err)
	assert.Equal(t, Counts{Present: 2, WatchedRecording: 1, Absent: 1, Total: 4}, resp.Counts)
	assert.Len(t, resp.Entries, 4)
}
