package report_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"churchops/internal/cache"
	"churchops/internal/hierarchy"
	"churchops/internal/report"
	reporterrors "churchops/internal/report/errors"
	reportMock "churchops/internal/report/mock"
	"churchops/internal/schedule"
	scheduleMock "churchops/internal/schedule/mock"
	"churchops/internal/shared/apperror"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"
	"go.uber.org/mock/gomock"
)

var fixedNow = time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

type fixture struct {
	repo      *reportMock.MockRepository
	schedules *scheduleMock.MockRepository
	svc       report.Service
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)
	repo := reportMock.NewMockRepository(ctrl)
	schedules := scheduleMock.NewMockRepository(ctrl)
	svc := report.NewServiceWithClock(repo, schedules, nil, time.Minute, func() time.Time { return fixedNow })
	return fixture{repo: repo, schedules: schedules, svc: svc}
}

func tally(first, last string, present, watched, absent int64) report.PersonTally {
	return report.PersonTally{
		PersonID:       uuid.New(),
		FirstName:      first,
		LastName:       last,
		CellName:       "Cell 1",
		TeamName:       "Team A",
		DepartmentName: "Youth",
		DirectionName:  "Central",
		RegionName:     "North",
		Tally:          report.Tally{Present: present, WatchedRecording: watched, Absent: absent},
	}
}

func TestService_Attendance(t *testing.T) {
	ctx := context.Background()

	t.Run("scores people against services held", func(t *testing.T) {
		f := newFixture(t)
		f.schedules.EXPECT().CountInRange(ctx, schedule.LastDays(fixedNow, 30), (*uuid.UUID)(nil)).Return(int64(10), nil)
		f.repo.EXPECT().PersonTallies(ctx, gomock.Any(), schedule.LastDays(fixedNow, 30)).Return([]report.PersonTally{
			tally("Ama", "Mensah", 4, 2, 3),
			tally("Kofi", "Boateng", 10, 0, 0),
		}, nil)

		resp, err := f.svc.Attendance(ctx, report.Query{})

		assert.NoError(t, err)
		assert.Equal(t, "2026-02-13", resp.From)
		assert.Equal(t, "2026-03-15", resp.To)
		assert.Equal(t, int64(10), resp.TotalServices)
		assert.Len(t, resp.People, 2)
		assert.Equal(t, "5.0", resp.People[0].Points)
		assert.Equal(t, "50.0", resp.People[0].AttendancePercentage)
		assert.Equal(t, int64(9), resp.People[0].TotalMarked)
		assert.Equal(t, "100.0", resp.People[1].AttendancePercentage)
		assert.Equal(t, int64(14), resp.Totals.Present)
		assert.Equal(t, "15.0", resp.Totals.Points)
		assert.Equal(t, "75.0", resp.Totals.AveragePercentage)
	})

	t.Run("service type narrows the denominator", func(t *testing.T) {
		f := newFixture(t)
		typeID := uuid.New()
		f.schedules.EXPECT().CountInRange(ctx, schedule.LastDays(fixedNow, 7), &typeID).Return(int64(0), nil)
		f.repo.EXPECT().PersonTallies(ctx, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, sc report.Scope, _ schedule.Range) ([]report.PersonTally, error) {
				assert.Equal(t, typeID, *sc.ServiceTypeID)
				assert.Equal(t, "female", sc.Gender)
				return []report.PersonTally{tally("Efua", "Owusu", 0, 0, 0)}, nil
			})

		resp, err := f.svc.Attendance(ctx, report.Query{Days: 7, ServiceTypeID: typeID.String(), Gender: "female"})

		assert.NoError(t, err)
		assert.Equal(t, "0.0", resp.People[0].AttendancePercentage)
		assert.Equal(t, "0.0", resp.Totals.AveragePercentage)
	})

	t.Run("rejects out of range days", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Attendance(ctx, report.Query{Days: report.MaxDays + 1})
		assert.ErrorIs(t, err, reporterrors.ErrInvalidDays)
	})

	t.Run("rejects malformed filter ids", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Attendance(ctx, report.Query{ServiceTypeID: "abc"})
		assert.ErrorIs(t, err, reporterrors.ErrInvalidServiceTypeID)

		q := report.Query{}
		q.Selection.Set(hierarchy.LevelTeam, "not-a-uuid")
		_, err = f.svc.Attendance(ctx, q)
		assert.Equal(t, apperror.CodeInvalidInput, apperror.ToHTTP(err).Code)
	})

	t.Run("store failure surfaces as unavailable", func(t *testing.T) {
		f := newFixture(t)
		f.schedules.EXPECT().CountInRange(ctx, gomock.Any(), gomock.Any()).Return(int64(0), errors.New("connection refused"))
		_, err := f.svc.Attendance(ctx, report.Query{})
		assert.Error(t, err)
	})
}

func TestService_Grouped_ByDateFillsMissingDays(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	d1 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
	f.repo.EXPECT().PresentByDate(ctx, gomock.Any(), gomock.Any()).Return([]report.DateCount{
		{ServiceDate: d1, ServiceType: "Sunday Service", Count: 40},
		{ServiceDate: d1, ServiceType: "Prayer Meeting", Count: 12},
		{ServiceDate: d2, ServiceType: "Sunday Service", Count: 38},
	}, nil)

	resp, err := f.svc.Grouped(ctx, report.Query{})

	assert.NoError(t, err)
	assert.Equal(t, "date", resp.Type)
	assert.Equal(t, []string{"01 Mar", "08 Mar"}, resp.Chart.Labels)
	assert.Equal(t, []report.ChartDataset{
		{Label: "Sunday Service", Data: []int64{40, 38}},
		{Label: "Prayer Meeting", Data: []int64{12, 0}},
	}, resp.Chart.Datasets)
	assert.Len(t, resp.Structured, 3)
	assert.Equal(t, []string{"2026-03-01", "Prayer Meeting", "12"}, resp.Table.Rows[1])
}

func TestService_Grouped_ByDepartment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	youth, music := uuid.New(), uuid.New()
	f.repo.EXPECT().PresentByGroup(ctx, gomock.Any(), gomock.Any(), report.GroupByDepartment).Return([]report.GroupCount{
		{ID: youth, Name: "Youth", Count: 20},
		{ID: music, Name: "Music", Count: 7},
	}, nil)

	resp, err := f.svc.Grouped(ctx, report.Query{Type: "department"})

	assert.NoError(t, err)
	assert.Equal(t, []string{"Youth", "Music"}, resp.Chart.Labels)
	assert.Equal(t, []int64{20, 7}, resp.Chart.Datasets[0].Data)
	assert.Equal(t, youth.String(), resp.Structured[0].ID)
	assert.Equal(t, []string{"Department", "Present Count"}, resp.Table.Header)
}

func TestService_Grouped_UnknownType(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Grouped(context.Background(), report.Query{Type: "cell"})
	assert.ErrorIs(t, err, reporterrors.ErrInvalidReportType)
}

func TestService_Export(t *testing.T) {
	ctx := context.Background()
	expectReport := func(f fixture) {
		f.schedules.EXPECT().CountInRange(ctx, gomock.Any(), gomock.Any()).Return(int64(10), nil)
		f.repo.EXPECT().PersonTallies(ctx, gomock.Any(), gomock.Any()).Return([]report.PersonTally{
			tally("Ama", "Mensah", 4, 2, 3),
		}, nil)
	}

	t.Run("csv", func(t *testing.T) {
		f := newFixture(t)
		expectReport(f)

		file, err := f.svc.Export(ctx, report.Query{}, "csv")

		assert.NoError(t, err)
		assert.Equal(t, "attendance_report_2026-02-13_2026-03-15.csv", file.Name)
		records, err := csv.NewReader(bytes.NewReader(file.Body)).ReadAll()
		assert.NoError(t, err)
		assert.Equal(t, report.ExportColumns, records[0])
		assert.Equal(t, []string{
			"Ama", "Mensah", "", "Cell 1", "Team A", "Youth", "Central", "North",
			"4", "2", "3", "9", "10", "50.0%",
		}, records[1])
	})

	t.Run("xlsx", func(t *testing.T) {
		f := newFixture(t)
		expectReport(f)

		file, err := f.svc.Export(ctx, report.Query{}, "xlsx")

		assert.NoError(t, err)
		wb, err := excelize.OpenReader(bytes.NewReader(file.Body))
		assert.NoError(t, err)
		defer wb.Close()
		rows, err := wb.GetRows("Attendance")
		assert.NoError(t, err)
		assert.Len(t, rows, 2)
		assert.Equal(t, "Ama", rows[1][0])
		assert.Equal(t, "50.0%", rows[1][13])
	})

	t.Run("unknown format", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Export(ctx, report.Query{}, "pdf")
		assert.ErrorIs(t, err, reporterrors.ErrInvalidFormat)
	})
}

func TestService_RecentServices(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id := uuid.New()
	f.repo.EXPECT().ServiceCounts(ctx, schedule.LastDays(fixedNow, 30), report.RecentServiceLimit).Return([]report.ServiceCount{
		{ServiceID: id, ServiceTypeName: "Sunday Service", ServiceDate: time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC), ServiceTime: "09:00", Attendance: 50, Present: 42},
	}, nil)

	resp, err := f.svc.RecentServices(ctx)

	assert.NoError(t, err)
	assert.Equal(t, []report.RecentServiceResponse{{
		ServiceID:       id.String(),
		ServiceType:     "Sunday Service",
		Date:            "2026-03-08",
		Time:            "09:00",
		Label:           "Sunday Service - 2026-03-08 09:00",
		AttendanceCount: 50,
		PresentCount:    42,
	}}, resp)
}

func expectOverview(f fixture) {
	today := schedule.Day(fixedNow)
	f.repo.EXPECT().CountActivePeople(gomock.Any()).Return(int64(120), nil)
	f.repo.EXPECT().CountServicesFrom(gomock.Any(), today).Return(int64(3), nil)
	f.repo.EXPECT().ServiceCounts(gomock.Any(), schedule.Range{To: today}, 1).Return([]report.ServiceCount{
		{ServiceTypeName: "Sunday Service", ServiceDate: today, Attendance: 88},
	}, nil)
	f.repo.EXPECT().TopDepartments(gomock.Any(), report.TopDepartmentLimit).Return([]report.GroupCount{
		{Name: "Youth", Count: 60},
	}, nil)
}

func TestService_Overview(t *testing.T) {
	f := newFixture(t)
	expectOverview(f)

	resp, err := f.svc.Overview(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, int64(120), resp.TotalActivePeople)
	assert.Equal(t, int64(3), resp.UpcomingServices)
	assert.Equal(t, &report.RecentAttendance{Service: "Sunday Service", Date: "2026-03-15", Count: 88}, resp.RecentAttendance)
	assert.Equal(t, []report.NamedCount{{Name: "Youth", Count: 60}}, resp.DepartmentBreakdown)
}

func TestService_Overview_ServedFromCache(t *testing.T) {
	rdb, rmock := redismock.NewClientMock()
	ctrl := gomock.NewController(t)
	repo := reportMock.NewMockRepository(ctrl)
	svc := report.NewServiceWithClock(repo, scheduleMock.NewMockRepository(ctrl), rdb, time.Minute, func() time.Time { return fixedNow })

	rmock.ExpectGet(cache.OverviewStats).SetVal(`{"total_active_people":7,"upcoming_services":1,"recent_attendance":null,"department_breakdown":[]}`)

	resp, err := svc.Overview(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, int64(7), resp.TotalActivePeople)
	assert.NoError(t, rmock.ExpectationsWereMet())
}
