package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/sma-attendance-monitor/internal/dto"
	"github.com/noah-isme/sma-attendance-monitor/internal/models"
	appErrors "github.com/noah-isme/sma-attendance-monitor/pkg/errors"
	"github.com/noah-isme/sma-attendance-monitor/pkg/export"
	"github.com/noah-isme/sma-attendance-monitor/pkg/middleware/requestid"
)

type periodReader interface {
	ListByInstitution(ctx context.Context, institutionID string) ([]models.Period, error)
}

type timetableReader interface {
	ListByInstitution(ctx context.Context, institutionID string) ([]models.TimetableEntry, error)
	ListAffectations(ctx context.Context, institutionID string) ([]models.Affectation, error)
}

type classReader interface {
	ListByInstitution(ctx context.Context, institutionID string) ([]models.Class, error)
}

type subjectReader interface {
	ListInstitutionSubjects(ctx context.Context, institutionID string) ([]models.InstitutionSubject, error)
}

type teacherReader interface {
	ListTeachers(ctx context.Context, institutionID string) ([]models.TeacherProfile, error)
}

type sessionReader interface {
	ListStartedBetween(ctx context.Context, institutionID string, from, to time.Time) ([]models.AttendanceSession, error)
}

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

const (
	defaultRangeDays = 7

	// ReferenceCacheNamespace prefixes the cached reference snapshot of each institution.
	ReferenceCacheNamespace = "monitor:ref:"
)

// AttendanceMonitorConfig tunes the monitor.
type AttendanceMonitorConfig struct {
	Classifier ClassifierConfig
}

// AttendanceMonitorServiceParams groups constructor dependencies.
type AttendanceMonitorServiceParams struct {
	Periods    periodReader
	Timetables timetableReader
	Classes    classReader
	Subjects   subjectReader
	Teachers   teacherReader
	Sessions   sessionReader
	Cache      *CacheService
	Metrics    *MetricsService
	CSV        datasetRenderer
	PDF        datasetRenderer
	Validator  *validator.Validate
	Logger     *zap.Logger
	Config     AttendanceMonitorConfig
	Now        func() time.Time
}

// AttendanceMonitorService reconciles the weekly timetable with recorded roll calls.
type AttendanceMonitorService struct {
	periods    periodReader
	timetables timetableReader
	classes    classReader
	subjects   subjectReader
	teachers   teacherReader
	sessions   sessionReader
	cache      *CacheService
	metrics    *MetricsService
	csv        datasetRenderer
	pdf        datasetRenderer
	validator  *validator.Validate
	logger     *zap.Logger
	cfg        AttendanceMonitorConfig
	now        func() time.Time
}

// NewAttendanceMonitorService constructs the service with sane defaults.
func NewAttendanceMonitorService(params AttendanceMonitorServiceParams) *AttendanceMonitorService {
	cfg := params.Config
	cfg.Classifier = cfg.Classifier.withDefaults()
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	validate := params.Validator
	if validate == nil {
		validate = validator.New()
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &AttendanceMonitorService{
		periods:    params.Periods,
		timetables: params.Timetables,
		classes:    params.Classes,
		subjects:   params.Subjects,
		teachers:   params.Teachers,
		sessions:   params.Sessions,
		cache:      params.Cache,
		metrics:    params.Metrics,
		csv:        params.CSV,
		pdf:        params.PDF,
		validator:  validate,
		logger:     logger,
		cfg:        cfg,
		now:        now,
	}
}

type monitorReference struct {
	Periods      []models.Period             `json:"periods"`
	Timetable    []models.TimetableEntry     `json:"timetable"`
	Classes      []models.Class              `json:"classes"`
	Subjects     []models.InstitutionSubject `json:"subjects"`
	Teachers     []models.TeacherProfile     `json:"teachers"`
	Affectations []models.Affectation        `json:"affectations"`
}

type monitorSnapshot struct {
	monitorReference
	Sessions []models.AttendanceSession
	CacheHit bool
}

type monitorResult struct {
	rows  []models.MonitorRow
	from  time.Time
	to    time.Time
	debug dto.MonitorDebug
}

// Monitor classifies every slot of the institution within the requested range.
func (s *AttendanceMonitorService) Monitor(ctx context.Context, institutionID string, q dto.MonitorQuery) (*dto.MonitorResponse, error) {
	if err := s.validate(q); err != nil {
		return nil, err
	}
	result, err := s.run(ctx, institutionID, q)
	if err != nil {
		return nil, err
	}
	resp := &dto.MonitorResponse{Rows: filterByStatus(result.rows, q.Status)}
	if q.WantsDebug() {
		debug := result.debug
		resp.Debug = &debug
	}
	return resp, nil
}

// Export renders the monitor rows as a CSV or PDF attachment. CSV is the default format.
func (s *AttendanceMonitorService) Export(ctx context.Context, institutionID string, q dto.MonitorExportQuery) (*dto.ExportFile, error) {
	if err := s.validate(q); err != nil {
		return nil, err
	}
	result, err := s.run(ctx, institutionID, q.MonitorQuery)
	if err != nil {
		return nil, err
	}
	rows := filterByStatus(result.rows, q.Status)

	renderer, ext, contentType := s.csv, "csv", "text/csv; charset=utf-8"
	if q.Format == "pdf" {
		renderer, ext, contentType = s.pdf, "pdf", "application/pdf"
	}
	if renderer == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s export is not available", ext))
	}

	body, err := renderer.Render(monitorDataset(rows, result.from, result.to))
	if err != nil {
		s.logger.Error("render monitor export", zap.String("format", ext), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	return &dto.ExportFile{
		Filename:    fmt.Sprintf("suivi-appels_%s_%s.%s", result.from.Format(ymdLayout), result.to.Format(ymdLayout), ext),
		ContentType: contentType,
		Body:        body,
	}, nil
}

func (s *AttendanceMonitorService) validate(q interface{}) error {
	err := s.validator.Struct(q)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Field() == "From" || fe.Field() == "To" {
				return appErrors.Wrap(err, appErrors.ErrInvalidDate.Code, appErrors.ErrInvalidDate.Status, appErrors.ErrInvalidDate.Message)
			}
		}
		fe := verrs[0]
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
			fmt.Sprintf("%s must be one of %s", fieldName(fe.Field()), fe.Param()))
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, appErrors.ErrValidation.Message)
}

func fieldName(field string) string {
	switch field {
	case "Status":
		return "status"
	case "Format":
		return "format"
	default:
		return field
	}
}

func (s *AttendanceMonitorService) run(ctx context.Context, institutionID string, q dto.MonitorQuery) (*monitorResult, error) {
	now := s.now().UTC()
	from, to, err := ResolveRange(q.From, q.To, now)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.loadSnapshot(ctx, institutionID, from, to)
	if err != nil {
		s.logger.Error("attendance monitor snapshot failed",
			zap.String("institution_id", institutionID),
			zap.String("request_id", requestid.FromContext(ctx)),
			zap.Error(err),
		)
		return nil, appErrors.Upstream(err)
	}

	started := time.Now()
	rawWeekdays := make([]int, len(snapshot.Periods))
	for i, p := range snapshot.Periods {
		rawWeekdays[i] = p.Weekday
	}
	convention := ResolveWeekdayConvention(rawWeekdays)
	calendar := ExpandCalendar(from, to, convention)
	subjects := NewSubjectIdentitySpace(snapshot.Subjects)
	affectations := NewAffectationFilter(snapshot.Affectations, subjects)
	index := IndexSessions(snapshot.Sessions)

	slots, skips := ClassifySlots(ClassifyInput{
		Entries:      snapshot.Timetable,
		Periods:      indexPeriods(snapshot.Periods),
		Calendar:     calendar,
		Sessions:     index,
		Affectations: affectations,
		Now:          now,
		Config:       s.cfg.Classifier,
	})
	rows := AssembleRows(slots, RowDirectory{
		Classes:  snapshot.Classes,
		Subjects: subjects,
		Teachers: snapshot.Teachers,
	})
	s.metrics.RecordClassification(rows, skips, time.Since(started))

	if skips.OrphanPeriod > 0 {
		s.logger.Debug("timetable entries reference unknown periods",
			zap.String("institution_id", institutionID),
			zap.Int("count", skips.OrphanPeriod),
		)
	}

	nowMin := minuteOfDay(now)
	return &monitorResult{
		rows: rows,
		from: from,
		to:   to,
		debug: dto.MonitorDebug{
			TodayYMD:   now.Format(ymdLayout),
			NowUTCHHMM: formatClock(nowMin),
			NowMinutes: nowMin,
			Range:      dto.MonitorRange{From: from.Format(ymdLayout), To: to.Format(ymdLayout)},
			Counts: dto.MonitorCounts{
				Periods:             len(snapshot.Periods),
				Timetables:          len(snapshot.Timetable),
				Classes:             len(snapshot.Classes),
				Subjects:            len(snapshot.Subjects),
				Teachers:            len(snapshot.Teachers),
				Affectations:        affectations.Count(),
				Sessions:            len(snapshot.Sessions),
				IndexedCalls:        index.Size(),
				Dates:               len(calendar.Days),
				OrphanTimetables:    skips.OrphanPeriod,
				UnauthorizedEntries: skips.Unauthorized,
				DeferredSlots:       skips.Deferred,
				Rows:                len(rows),
			},
			WeekdayMode: string(convention),
			Weekdays:    distinctWeekdays(rawWeekdays),
			Thresholds: dto.MonitorLimits{
				LateThresholdMin:        s.cfg.Classifier.LateThresholdMin,
				MissingControlWindowMin: s.cfg.Classifier.MissingControlWindowMin,
				ForgivenessMin:          s.cfg.Classifier.ForgivenessMin,
			},
			CacheHit: snapshot.CacheHit,
		},
	}, nil
}

// ResolveRange normalises the requested dates. A missing bound defaults to today, except
// that with both bounds missing the range covers the last seven days. Reversed bounds swap.
func ResolveRange(fromRaw, toRaw string, now time.Time) (time.Time, time.Time, error) {
	today := utcDay(now)
	to, err := parseYMD(toRaw, today)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	from, err := parseYMD(fromRaw, today)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if fromRaw == "" && toRaw == "" {
		from = to.AddDate(0, 0, -defaultRangeDays)
	}
	if to.Before(from) {
		from, to = to, from
	}
	return from, to, nil
}

func parseYMD(raw string, fallback time.Time) (time.Time, error) {
	if raw == "" {
		return fallback, nil
	}
	day, err := time.ParseInLocation(ymdLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, appErrors.Wrap(err, appErrors.ErrInvalidDate.Code, appErrors.ErrInvalidDate.Status, appErrors.ErrInvalidDate.Message)
	}
	return day, nil
}

// loadSnapshot fetches the reference tables and the sessions of the range concurrently. The
// first failure cancels the remaining fetches and nothing is classified.
func (s *AttendanceMonitorService) loadSnapshot(ctx context.Context, institutionID string, from, to time.Time) (*monitorSnapshot, error) {
	snapshot := &monitorSnapshot{}
	if s.cache.Load(ctx, institutionID, &snapshot.monitorReference) {
		snapshot.CacheHit = true
	} else {
		snapshot.monitorReference = monitorReference{}
	}

	g, gctx := errgroup.WithContext(ctx)
	ref := &snapshot.monitorReference
	if !snapshot.CacheHit {
		g.Go(func() (err error) {
			defer s.observe("periods", time.Now())
			ref.Periods, err = s.periods.ListByInstitution(gctx, institutionID)
			return err
		})
		g.Go(func() (err error) {
			defer s.observe("timetables", time.Now())
			ref.Timetable, err = s.timetables.ListByInstitution(gctx, institutionID)
			return err
		})
		g.Go(func() (err error) {
			defer s.observe("affectations", time.Now())
			ref.Affectations, err = s.timetables.ListAffectations(gctx, institutionID)
			return err
		})
		g.Go(func() (err error) {
			defer s.observe("classes", time.Now())
			ref.Classes, err = s.classes.ListByInstitution(gctx, institutionID)
			return err
		})
		g.Go(func() (err error) {
			defer s.observe("subjects", time.Now())
			ref.Subjects, err = s.subjects.ListInstitutionSubjects(gctx, institutionID)
			return err
		})
		g.Go(func() (err error) {
			defer s.observe("teachers", time.Now())
			ref.Teachers, err = s.teachers.ListTeachers(gctx, institutionID)
			return err
		})
	}
	g.Go(func() (err error) {
		defer s.observe("sessions", time.Now())
		snapshot.Sessions, err = s.sessions.ListStartedBetween(gctx, institutionID, from, to.AddDate(0, 0, 1))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if !snapshot.CacheHit {
		s.cache.Store(ctx, institutionID, snapshot.monitorReference)
	}
	return snapshot, nil
}

// InvalidateReference drops the cached reference tables of one institution.
func (s *AttendanceMonitorService) InvalidateReference(ctx context.Context, institutionID string) error {
	return s.cache.Drop(ctx, institutionID)
}

func (s *AttendanceMonitorService) observe(label string, started time.Time) {
	s.metrics.ObserveFetch(label, time.Since(started))
}

func filterByStatus(rows []models.MonitorRow, status string) []models.MonitorRow {
	if status == "" {
		return rows
	}
	out := make([]models.MonitorRow, 0, len(rows))
	for _, row := range rows {
		if string(row.Status) == status {
			out = append(out, row)
		}
	}
	return out
}
