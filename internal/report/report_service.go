package report

import (
	"context"
	"time"

	"churchops/internal/cache"
	"churchops/internal/hierarchy"
	reporterrors "churchops/internal/report/errors"
	"churchops/internal/schedule"
	"churchops/internal/shared/apperror"
	"churchops/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const chartDateLayout = "02 Jan"

//go:generate mockgen -source=report_service.go -destination=mock/report_service_mock.go -package=mock
type Service interface {
	Attendance(ctx context.Context, q Query) (AttendanceReport, error)
	Grouped(ctx context.Context, q Query) (GroupedReport, error)
	Export(ctx context.Context, q Query, format string) (ExportFile, error)
	RecentServices(ctx context.Context) ([]RecentServiceResponse, error)
	Overview(ctx context.Context) (OverviewResponse, error)
}

type service struct {
	repo      Repository
	schedules schedule.Repository
	overview  *cache.Typed[OverviewResponse]
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(repo Repository, schedules schedule.Repository, rdb *redis.Client, ttl time.Duration, logger ...*zap.Logger) Service {
	return NewServiceWithClock(repo, schedules, rdb, ttl, time.Now, logger...)
}

func NewServiceWithClock(
	repo Repository,
	schedules schedule.Repository,
	rdb *redis.Client,
	ttl time.Duration,
	now func() time.Time,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("report.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("report.service")
	}
	return &service{
		repo:      repo,
		schedules: schedules,
		overview:  cache.NewTyped[OverviewResponse](rdb, cache.OverviewStats, ttl, logger...),
		now:       now,
		logger:    l,
	}
}

// scope validates the filter ids of q and returns the date range it covers.
func (s *service) scope(q Query) (Scope, schedule.Range, error) {
	days := q.Days
	if days == 0 {
		days = DefaultDays
	}
	if days < 0 || days > MaxDays {
		return Scope{}, schedule.Range{}, reporterrors.ErrInvalidDays
	}

	sc := Scope{Selection: q.Selection, Gender: q.Gender}
	for _, level := range hierarchy.Levels {
		if id := q.Get(level); id != "" {
			if _, err := uuid.Parse(id); err != nil {
				return Scope{}, schedule.Range{}, apperror.InvalidField(level.Label() + " ID")
			}
		}
	}
	if q.ServiceTypeID != "" {
		id, err := uuid.Parse(q.ServiceTypeID)
		if err != nil {
			return Scope{}, schedule.Range{}, reporterrors.ErrInvalidServiceTypeID
		}
		sc.ServiceTypeID = &id
	}
	return sc, schedule.LastDays(s.now(), days), nil
}

func (s *service) Attendance(ctx context.Context, q Query) (AttendanceReport, error) {
	rid := contextutil.GetRequestID(ctx)
	sc, rng, err := s.scope(q)
	if err != nil {
		return AttendanceReport{}, err
	}

	totalServices, err := s.schedules.CountInRange(ctx, rng, sc.ServiceTypeID)
	if err != nil {
		s.logger.Error("count services failed", zap.String("request_id", rid), zap.Error(err))
		return AttendanceReport{}, mapRepositoryError(err)
	}
	tallies, err := s.repo.PersonTallies(ctx, sc, rng)
	if err != nil {
		s.logger.Error("load person tallies failed", zap.String("request_id", rid), zap.Error(err))
		return AttendanceReport{}, mapRepositoryError(err)
	}

	report := AttendanceReport{
		From:          rng.From.Format(schedule.DateLayout),
		To:            rng.To.Format(schedule.DateLayout),
		TotalServices: totalServices,
		People:        make([]PersonScoreResponse, len(tallies)),
	}
	var total Tally
	for i, t := range tallies {
		report.People[i] = mapPersonScore(t, totalServices)
		total.Add(t.Tally)
	}

	average := decimal.Zero
	if n := int64(len(tallies)); n > 0 {
		average = Percentage(total.Points(), totalServices*n)
	}
	report.Totals = TotalsResponse{
		Present:           total.Present,
		WatchedRecording:  total.WatchedRecording,
		Absent:            total.Absent,
		TotalMarked:       total.Marked(),
		Points:            total.Points().StringFixed(1),
		AveragePercentage: average.StringFixed(1),
	}

	s.logger.Debug("attendance report built",
		zap.String("request_id", rid),
		zap.Int("people", len(tallies)),
		zap.Int64("total_services", totalServices),
	)
	return report, nil
}

func mapPersonScore(t PersonTally, totalServices int64) PersonScoreResponse {
	gender := ""
	if t.Gender != nil {
		gender = *t.Gender
	}
	percentage := Percentage(t.Points(), totalServices)
	return PersonScoreResponse{
		PersonID:             t.PersonID.String(),
		FirstName:            t.FirstName,
		LastName:             t.LastName,
		Gender:               gender,
		Cell:                 t.CellName,
		Team:                 t.TeamName,
		Department:           t.DepartmentName,
		Direction:            t.DirectionName,
		Region:               t.RegionName,
		Present:              t.Present,
		WatchedRecording:     t.WatchedRecording,
		Absent:               t.Absent,
		TotalMarked:          t.Marked(),
		TotalServices:        totalServices,
		Points:               t.Points().StringFixed(1),
		AttendancePercentage: percentage.StringFixed(1),
		percentage:           percentage,
	}
}

func (s *service) Grouped(ctx context.Context, q Query) (GroupedReport, error) {
	by, err := ParseGroupBy(q.Type)
	if err != nil {
		return GroupedReport{}, err
	}
	sc, rng, err := s.scope(q)
	if err != nil {
		return GroupedReport{}, err
	}

	report := GroupedReport{
		Type: string(by),
		From: rng.From.Format(schedule.DateLayout),
		To:   rng.To.Format(schedule.DateLayout),
	}
	if by == GroupByDate {
		rows, err := s.repo.PresentByDate(ctx, sc, rng)
		if err != nil {
			s.logger.Error("load date report failed", zap.Error(err))
			return GroupedReport{}, mapRepositoryError(err)
		}
		report.Chart, report.Structured, report.Table = dateProjections(rows)
		return report, nil
	}

	rows, err := s.repo.PresentByGroup(ctx, sc, rng, by)
	if err != nil {
		s.logger.Error("load grouped report failed", zap.String("type", string(by)), zap.Error(err))
		return GroupedReport{}, mapRepositoryError(err)
	}
	report.Chart, report.Structured, report.Table = groupProjections(by, rows)
	return report, nil
}

// dateProjections builds one chart series per service type over the
// ascending list of days, filling days without marks with zero.
func dateProjections(rows []DateCount) (Chart, []GroupedEntry, Table) {
	chart := Chart{Labels: []string{}, Datasets: []ChartDataset{}}
	structured := make([]GroupedEntry, 0, len(rows))
	table := Table{Header: []string{"Date", "Service Type", "Present Count"}, Rows: [][]string{}}

	dayIndex := map[string]int{}
	series := map[string]int{}
	for _, r := range rows {
		day := r.ServiceDate.Format(schedule.DateLayout)
		if _, ok := dayIndex[day]; !ok {
			dayIndex[day] = len(chart.Labels)
			chart.Labels = append(chart.Labels, r.ServiceDate.Format(chartDateLayout))
		}
		if _, ok := series[r.ServiceType]; !ok {
			series[r.ServiceType] = len(chart.Datasets)
			chart.Datasets = append(chart.Datasets, ChartDataset{Label: r.ServiceType})
		}

		structured = append(structured, GroupedEntry{Date: day, ServiceType: r.ServiceType, Count: r.Count})
		table.Rows = append(table.Rows, []string{day, r.ServiceType, itoa(r.Count)})
	}

	for i := range chart.Datasets {
		chart.Datasets[i].Data = make([]int64, len(chart.Labels))
	}
	for _, r := range rows {
		ds := series[r.ServiceType]
		chart.Datasets[ds].Data[dayIndex[r.ServiceDate.Format(schedule.DateLayout)]] = r.Count
	}
	return chart, structured, table
}

func groupProjections(by GroupBy, rows []GroupCount) (Chart, []GroupedEntry, Table) {
	label := "Attendance by " + by.Level().Label()
	chart := Chart{
		Labels:   make([]string, len(rows)),
		Datasets: []ChartDataset{{Label: label, Data: make([]int64, len(rows))}},
	}
	structured := make([]GroupedEntry, len(rows))
	table := Table{Header: []string{by.Level().Label(), "Present Count"}, Rows: make([][]string, len(rows))}

	for i, r := range rows {
		chart.Labels[i] = r.Name
		chart.Datasets[0].Data[i] = r.Count
		structured[i] = GroupedEntry{ID: r.ID.String(), Name: r.Name, Count: r.Count}
		table.Rows[i] = []string{r.Name, itoa(r.Count)}
	}
	return chart, structured, table
}

func (s *service) Export(ctx context.Context, q Query, format string) (ExportFile, error) {
	render, ok := exporters[format]
	if !ok {
		return ExportFile{}, reporterrors.ErrInvalidFormat
	}
	report, err := s.Attendance(ctx, q)
	if err != nil {
		return ExportFile{}, err
	}
	file, err := render(report)
	if err != nil {
		s.logger.Error("render export failed", zap.String("format", format), zap.Error(err))
		return ExportFile{}, err
	}
	s.logger.Info("attendance report exported",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("format", format),
		zap.Int("rows", len(report.People)),
	)
	return file, nil
}

func (s *service) RecentServices(ctx context.Context) ([]RecentServiceResponse, error) {
	rows, err := s.repo.ServiceCounts(ctx, schedule.LastDays(s.now(), DefaultDays), RecentServiceLimit)
	if err != nil {
		s.logger.Error("load recent services failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	out := make([]RecentServiceResponse, len(rows))
	for i, r := range rows {
		out[i] = mapServiceCount(r)
	}
	return out, nil
}

func mapServiceCount(r ServiceCount) RecentServiceResponse {
	rec := schedule.ServiceRecord{
		Occurrence:      schedule.Occurrence{ID: r.ServiceID, ServiceDate: r.ServiceDate, ServiceTime: r.ServiceTime},
		ServiceTypeName: r.ServiceTypeName,
	}
	return RecentServiceResponse{
		ServiceID:       r.ServiceID.String(),
		ServiceType:     r.ServiceTypeName,
		Date:            r.ServiceDate.Format(schedule.DateLayout),
		Time:            r.ServiceTime,
		Label:           rec.Label(),
		AttendanceCount: r.Attendance,
		PresentCount:    r.Present,
	}
}

// Overview is cached until a person, service or attendance change
// invalidates it.
func (s *service) Overview(ctx context.Context) (OverviewResponse, error) {
	return s.overview.GetOrLoad(ctx, s.overview.Key(), s.loadOverview)
}

func (s *service) loadOverview(ctx context.Context) (OverviewResponse, error) {
	today := schedule.Day(s.now())

	active, err := s.repo.CountActivePeople(ctx)
	if err != nil {
		return OverviewResponse{}, mapRepositoryError(err)
	}
	upcoming, err := s.repo.CountServicesFrom(ctx, today)
	if err != nil {
		return OverviewResponse{}, mapRepositoryError(err)
	}
	latest, err := s.repo.ServiceCounts(ctx, schedule.Range{To: today}, 1)
	if err != nil {
		return OverviewResponse{}, mapRepositoryError(err)
	}
	departments, err := s.repo.TopDepartments(ctx, TopDepartmentLimit)
	if err != nil {
		return OverviewResponse{}, mapRepositoryError(err)
	}

	resp := OverviewResponse{
		TotalActivePeople:   active,
		UpcomingServices:    upcoming,
		DepartmentBreakdown: make([]NamedCount, len(departments)),
	}
	if len(latest) > 0 {
		resp.RecentAttendance = &RecentAttendance{
			Service: latest[0].ServiceTypeName,
			Date:    latest[0].ServiceDate.Format(schedule.DateLayout),
			Count:   latest[0].Attendance,
		}
	}
	for i, d := range departments {
		resp.DepartmentBreakdown[i] = NamedCount{Name: d.Name, Count: d.Count}
	}
	return resp, nil
}
