package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-attendance-monitor/internal/models"
)

func strPtr(v string) *string { return &v }

func timePtr(v time.Time) *time.Time { return &v }

func TestResolveWeekdayConvention(t *testing.T) {
	cases := []struct {
		name string
		raw  []int
		want WeekdayConvention
	}{
		{"empty defaults to iso", nil, WeekdayISO},
		{"seven wins", []int{0, 1, 7}, WeekdayISO},
		{"max five is mon0", []int{0, 1, 2, 3, 4, 5}, WeekdayMon0},
		{"zero with max six is js", []int{0, 1, 6}, WeekdayJS},
		{"one to six without zero is iso", []int{1, 2, 6}, WeekdayISO},
		{"max four falls back to iso", []int{1, 2, 3, 4}, WeekdayISO},
		{"duplicates do not matter", []int{5, 5, 1, 1}, WeekdayMon0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ResolveWeekdayConvention(tc.raw)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, got, ResolveWeekdayConvention(tc.raw))
		})
	}
}

func TestWeekdayConventionCode(t *testing.T) {
	code, ok := WeekdayISO.Code(time.Sunday)
	assert.True(t, ok)
	assert.Equal(t, 7, code)

	code, _ = WeekdayJS.Code(time.Sunday)
	assert.Equal(t, 0, code)

	code, ok = WeekdayMon0.Code(time.Monday)
	assert.True(t, ok)
	assert.Equal(t, 0, code)

	code, _ = WeekdayMon0.Code(time.Saturday)
	assert.Equal(t, 5, code)

	_, ok = WeekdayMon0.Code(time.Sunday)
	assert.False(t, ok)
}

func TestExpandCalendarSingleDayAndSwap(t *testing.T) {
	d := time.Date(2026, 10, 5, 15, 0, 0, 0, time.UTC)

	single := ExpandCalendar(d, d, WeekdayISO)
	require.Len(t, single.Days, 1)
	assert.Equal(t, "2026-10-05", single.Days[0].YMD())
	assert.Equal(t, []string{"2026-10-05"}, single.DatesFor(1))

	forward := ExpandCalendar(d, d.AddDate(0, 0, 6), WeekdayISO)
	reversed := ExpandCalendar(d.AddDate(0, 0, 6), d, WeekdayISO)
	assert.Equal(t, forward, reversed)
	assert.Len(t, forward.Days, 7)
}

func TestExpandCalendarMon0NeverIndexesSunday(t *testing.T) {
	monday := time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC)
	cal := ExpandCalendar(monday, monday.AddDate(0, 0, 6), WeekdayMon0)

	require.Len(t, cal.Days, 7)
	sunday := cal.Days[6]
	assert.Equal(t, time.Sunday, sunday.Weekday)
	assert.False(t, sunday.HasCode)
	for code := 0; code <= 6; code++ {
		assert.NotContains(t, cal.DatesFor(code), sunday.YMD())
	}
	assert.Equal(t, []string{"2026-10-05"}, cal.DatesFor(0))
	assert.Equal(t, []string{"2026-10-10"}, cal.DatesFor(5))
}

func TestSubjectIdentitySpace(t *testing.T) {
	space := NewSubjectIdentitySpace([]models.InstitutionSubject{
		{ID: "inst-55", CatalogID: strPtr("math-101"), CatalogName: strPtr("Mathématiques")},
		{ID: "inst-56", CustomName: strPtr(" Maths renforcées "), CatalogID: strPtr("math-101"), CatalogName: strPtr("Mathématiques")},
		{ID: "inst-57", CustomName: strPtr("  ")},
	})

	assert.Equal(t, "Mathématiques", space.NameFor("inst-55"))
	assert.Equal(t, "Maths renforcées", space.NameFor("inst-56"))
	assert.Equal(t, "Mathématiques", space.NameFor("math-101"))
	assert.Equal(t, FallbackSubjectName, space.NameFor("inst-57"))
	assert.Equal(t, FallbackSubjectName, space.NameFor("unknown"))
	assert.Equal(t, FallbackSubjectName, space.NameFor(""))

	assert.Equal(t, []string{"inst-55", "inst-56"}, space.ResolveToInstitutionIDs("math-101"))
	assert.Empty(t, space.ResolveToInstitutionIDs("inst-55"))

	catalogID, ok := space.CatalogIDFor("inst-56")
	assert.True(t, ok)
	assert.Equal(t, "math-101", catalogID)
	_, ok = space.CatalogIDFor("inst-57")
	assert.False(t, ok)
}

func TestAffectationFilter(t *testing.T) {
	space := NewSubjectIdentitySpace([]models.InstitutionSubject{
		{ID: "inst-55", CatalogID: strPtr("math-101")},
		{ID: "inst-60", CatalogID: strPtr("phys-201")},
	})
	filter := NewAffectationFilter([]models.Affectation{
		{TeacherID: "teacher-math", SubjectID: "math-101"},
		{TeacherID: "teacher-phys", SubjectID: "inst-60"},
	}, space)

	assert.True(t, filter.Authorized("teacher-math", "math-101"), "direct match")
	assert.True(t, filter.Authorized("teacher-math", "inst-55"), "local id maps to affected catalog id")
	assert.False(t, filter.Authorized("teacher-math", "inst-60"))
	assert.True(t, filter.Authorized("teacher-phys", "phys-201"), "catalog id resolves to affected local id")
	assert.False(t, filter.Authorized("teacher-phys", ""))
	assert.True(t, filter.Authorized("teacher-free", "anything"), "no affectation means unrestricted")
	assert.True(t, filter.Authorized("teacher-free", ""))
	assert.Equal(t, 2, filter.Count())
}

func TestIndexSessions(t *testing.T) {
	started := time.Date(2026, 10, 5, 23, 50, 0, 0, time.UTC)
	calledNextDay := time.Date(2026, 10, 6, 0, 5, 0, 0, time.UTC)
	index := IndexSessions([]models.AttendanceSession{
		{ID: "s-1", ClassID: "c", SubjectID: strPtr("sub"), TeacherID: "t", StartedAt: &started, ActualCallAt: &calledNextDay, Origin: strPtr("class_device")},
		{ID: "s-2", ClassID: "c", SubjectID: strPtr("sub"), TeacherID: "t", StartedAt: &started, Origin: strPtr("kiosk")},
		{ID: "s-3", ClassID: "c", TeacherID: "t"},
	})

	key := SessionKey{Date: "2026-10-05", ClassID: "c", SubjectID: "sub", TeacherID: "t"}
	assert.Equal(t, "2026-10-05|c|sub|t", key.String())
	require.Len(t, index[key], 2)
	assert.Equal(t, IndexedCall{Minute: 5, Origin: models.OriginClassDevice}, index[key][0])
	assert.Equal(t, IndexedCall{Minute: 23*60 + 50, Origin: ""}, index[key][1])
	assert.Equal(t, 2, index.Size())
}

func TestNormalizeClock(t *testing.T) {
	assert.Equal(t, "07:10", normalizeClock(strPtr("7:10")))
	assert.Equal(t, "07:10", normalizeClock(strPtr("07:10:00")))
	assert.Equal(t, "", normalizeClock(strPtr("noon")))
	assert.Equal(t, "", normalizeClock(nil))
	assert.Equal(t, 430, clockMinutes(strPtr("07:10:00")))
	assert.Equal(t, 0, clockMinutes(strPtr("noon")))
}

// monitorFixture is Monday 2026-10-05 08:00-09:00, class 6eA, iso convention.
type monitorFixture struct {
	periods      []models.Period
	entries      []models.TimetableEntry
	subjects     []models.InstitutionSubject
	affectations []models.Affectation
	sessions     []models.AttendanceSession
	from, to     time.Time
	now          time.Time
	cfg          ClassifierConfig
}

var slotMonday = time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC)

func newMonitorFixture() *monitorFixture {
	return &monitorFixture{
		periods: []models.Period{
			{ID: "p-1", Weekday: 1, Label: nil, StartTime: strPtr("08:00:00"), EndTime: strPtr("09:00:00")},
			{ID: "p-sun", Weekday: 7, StartTime: strPtr("10:00"), EndTime: strPtr("11:00")},
		},
		entries: []models.TimetableEntry{
			{ID: "tt-1", ClassID: "class-1", SubjectID: strPtr("inst-55"), TeacherID: "teacher-1", PeriodID: "p-1"},
		},
		subjects: []models.InstitutionSubject{
			{ID: "inst-55", CatalogID: strPtr("math-101"), CatalogName: strPtr("Mathématiques")},
		},
		from: slotMonday,
		to:   slotMonday,
		now:  slotMonday.AddDate(0, 0, 14).Add(10 * time.Hour),
		cfg:  ClassifierConfig{LateThresholdMin: 15, MissingControlWindowMin: 15, ForgivenessMin: 120},
	}
}

func (f *monitorFixture) callAt(hour, minute int) *monitorFixture {
	started := slotMonday.Add(8 * time.Hour)
	call := slotMonday.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
	f.sessions = append(f.sessions, models.AttendanceSession{
		ID: "s", ClassID: "class-1", SubjectID: strPtr("inst-55"), TeacherID: "teacher-1",
		StartedAt: &started, ActualCallAt: &call, Origin: strPtr("teacher"),
	})
	return f
}

func (f *monitorFixture) rows() []models.MonitorRow {
	raw := make([]int, len(f.periods))
	for i, p := range f.periods {
		raw[i] = p.Weekday
	}
	subjects := NewSubjectIdentitySpace(f.subjects)
	slots, _ := ClassifySlots(ClassifyInput{
		Entries:      f.entries,
		Periods:      indexPeriods(f.periods),
		Calendar:     ExpandCalendar(f.from, f.to, ResolveWeekdayConvention(raw)),
		Sessions:     IndexSessions(f.sessions),
		Affectations: NewAffectationFilter(f.affectations, subjects),
		Now:          f.now,
		Config:       f.cfg,
	})
	return AssembleRows(slots, RowDirectory{
		Classes:  []models.Class{{ID: "class-1", Label: strPtr("6eA")}},
		Subjects: subjects,
		Teachers: []models.TeacherProfile{{ID: "teacher-1", Email: strPtr("k.kouassi@ecole.ci")}},
	})
}

func TestScenarioAMissingInThePast(t *testing.T) {
	rows := newMonitorFixture().rows()

	require.Len(t, rows, 1)
	row := rows[0]
	assert.Equal(t, models.StatusMissing, row.Status)
	assert.Equal(t, "2026-10-05|p-1|class-1|inst-55|teacher-1", row.ID)
	assert.Equal(t, "Lundi", *row.WeekdayLabel)
	assert.Equal(t, "08:00 – 09:00", *row.PeriodLabel)
	assert.Equal(t, "08:00", *row.PlannedStart)
	assert.Equal(t, "09:00", *row.PlannedEnd)
	assert.Equal(t, "6eA", *row.ClassLabel)
	assert.Equal(t, "Mathématiques", *row.SubjectName)
	assert.Equal(t, "k.kouassi@ecole.ci", row.TeacherName)
	assert.Nil(t, row.LateMinutes)
	assert.Nil(t, row.OpenedFrom)
}

func TestScenarioBOnTime(t *testing.T) {
	rows := newMonitorFixture().callAt(8, 12).rows()

	require.Len(t, rows, 1)
	assert.Equal(t, models.StatusOK, rows[0].Status)
	assert.Nil(t, rows[0].LateMinutes)
	require.NotNil(t, rows[0].OpenedFrom)
	assert.Equal(t, models.OriginTeacher, *rows[0].OpenedFrom)
}

func TestScenarioCLate(t *testing.T) {
	rows := newMonitorFixture().callAt(8, 30).rows()

	require.Len(t, rows, 1)
	assert.Equal(t, models.StatusLate, rows[0].Status)
	require.NotNil(t, rows[0].LateMinutes)
	assert.Equal(t, 30, *rows[0].LateMinutes)
}

func TestScenarioDTodayBeforeControlLimitIsDeferred(t *testing.T) {
	f := newMonitorFixture()
	f.now = slotMonday.Add(8*time.Hour + 10*time.Minute)

	assert.Empty(t, f.rows())
}

func TestScenarioECatalogAffectationAuthorizesLocalSubject(t *testing.T) {
	f := newMonitorFixture().callAt(8, 5)
	f.affectations = []models.Affectation{{TeacherID: "teacher-1", SubjectID: "math-101"}}

	rows := f.rows()
	require.Len(t, rows, 1)
	assert.Equal(t, models.StatusOK, rows[0].Status)
}

func TestRestrictedTeacherOutsideAffectationsIsFiltered(t *testing.T) {
	f := newMonitorFixture()
	f.affectations = []models.Affectation{{TeacherID: "teacher-1", SubjectID: "phys-201"}}

	assert.Empty(t, f.rows())
}

func TestUnrestrictedTeacherIgnoresSubjectSpaces(t *testing.T) {
	f := newMonitorFixture()
	f.entries[0].SubjectID = strPtr("not-a-known-subject")
	f.affectations = []models.Affectation{{TeacherID: "someone-else", SubjectID: "math-101"}}

	rows := f.rows()
	require.Len(t, rows, 1)
	assert.Equal(t, FallbackSubjectName, *rows[0].SubjectName)
}

func TestLateBoundaryExactness(t *testing.T) {
	onTime := newMonitorFixture().callAt(8, 15).rows()
	require.Len(t, onTime, 1)
	assert.Equal(t, models.StatusOK, onTime[0].Status)

	late := newMonitorFixture().callAt(8, 16).rows()
	require.Len(t, late, 1)
	assert.Equal(t, models.StatusLate, late[0].Status)
	assert.Equal(t, 16, *late[0].LateMinutes)
}

func TestCandidateWindowAndEarliestCall(t *testing.T) {
	beforeStart := newMonitorFixture().callAt(7, 59).rows()
	require.Len(t, beforeStart, 1)
	assert.Equal(t, models.StatusMissing, beforeStart[0].Status)

	atForgivenessEdge := newMonitorFixture().callAt(11, 0).rows()
	require.Len(t, atForgivenessEdge, 1)
	assert.Equal(t, models.StatusLate, atForgivenessEdge[0].Status)
	assert.Equal(t, 180, *atForgivenessEdge[0].LateMinutes)

	pastForgiveness := newMonitorFixture().callAt(11, 1).rows()
	require.Len(t, pastForgiveness, 1)
	assert.Equal(t, models.StatusMissing, pastForgiveness[0].Status)

	earliest := newMonitorFixture().callAt(8, 40).callAt(8, 10).callAt(7, 30).rows()
	require.Len(t, earliest, 1)
	assert.Equal(t, models.StatusOK, earliest[0].Status)
}

func TestNoFutureRows(t *testing.T) {
	f := newMonitorFixture().callAt(8, 5)
	f.now = slotMonday.AddDate(0, 0, -1).Add(12 * time.Hour)

	assert.Empty(t, f.rows())
}

func TestMissingWindowMonotonicity(t *testing.T) {
	var seenMissing bool
	for minute := 7 * 60; minute <= 23*60+59; minute++ {
		f := newMonitorFixture()
		f.now = slotMonday.Add(time.Duration(minute) * time.Minute)
		rows := f.rows()
		if seenMissing {
			require.Len(t, rows, 1, "minute %d", minute)
			assert.Equal(t, models.StatusMissing, rows[0].Status)
			continue
		}
		if len(rows) == 1 {
			assert.Equal(t, models.StatusMissing, rows[0].Status)
			assert.Equal(t, 8*60+15, minute)
			seenMissing = true
		}
	}
	assert.True(t, seenMissing)
}

func TestOrphanPeriodIsSkipped(t *testing.T) {
	f := newMonitorFixture()
	f.entries = append(f.entries, models.TimetableEntry{ID: "tt-x", ClassID: "class-1", TeacherID: "teacher-1", PeriodID: "gone"})

	raw := []int{1, 7}
	_, skips := ClassifySlots(ClassifyInput{
		Entries:  f.entries,
		Periods:  indexPeriods(f.periods),
		Calendar: ExpandCalendar(f.from, f.to, ResolveWeekdayConvention(raw)),
		Now:      f.now,
	})
	assert.Equal(t, 1, skips.OrphanPeriod)
	assert.Len(t, f.rows(), 1)
}

func TestAssembleRowsOrderingIsDeterministic(t *testing.T) {
	f := newMonitorFixture()
	f.from = slotMonday
	f.to = slotMonday.AddDate(0, 0, 7)
	f.periods = append(f.periods, models.Period{ID: "p-0", Weekday: 1, Label: strPtr("M0"), StartTime: strPtr("7:00")})
	f.entries = append(f.entries,
		models.TimetableEntry{ID: "tt-2", ClassID: "class-2", SubjectID: strPtr("inst-55"), TeacherID: "teacher-2", PeriodID: "p-1"},
		models.TimetableEntry{ID: "tt-3", ClassID: "class-1", SubjectID: strPtr("inst-55"), TeacherID: "teacher-1", PeriodID: "p-0"},
	)

	first := f.rows()
	second := f.rows()
	assert.Equal(t, first, second)

	require.Len(t, first, 6)
	assert.Equal(t, "2026-10-05", first[0].Date)
	assert.Equal(t, "M0", *first[0].PeriodLabel)
	assert.Nil(t, first[1].ClassLabel)
	assert.Equal(t, FallbackTeacherName, first[1].TeacherName)
	assert.Equal(t, "6eA", *first[2].ClassLabel)
	assert.Equal(t, "2026-10-12", first[3].Date)
}

func TestAssembleRowsUsesFrenchCollation(t *testing.T) {
	slot := func(classID string) ClassifiedSlot {
		return ClassifiedSlot{
			Entry:  models.TimetableEntry{ClassID: classID, TeacherID: "t", PeriodID: "p"},
			Period: PeriodWindow{ID: "p", Start: "08:00", StartMin: 480},
			Date:   "2026-10-05",
			Status: models.StatusMissing,
		}
	}
	rows := AssembleRows([]ClassifiedSlot{slot("c-3"), slot("c-2"), slot("c-1")}, RowDirectory{
		Classes: []models.Class{
			{ID: "c-1", Label: strPtr("Terminale")},
			{ID: "c-2", Label: strPtr("élite")},
			{ID: "c-3", Label: strPtr("Seconde")},
		},
	})

	labels := []string{*rows[0].ClassLabel, *rows[1].ClassLabel, *rows[2].ClassLabel}
	assert.Equal(t, []string{"élite", "Seconde", "Terminale"}, labels)
}

func TestTeacherNamePriority(t *testing.T) {
	assert.Equal(t, "Mme Kouassi", teacherName(models.TeacherProfile{DisplayName: strPtr("Mme Kouassi"), Email: strPtr("a@b.c")}))
	assert.Equal(t, "a@b.c", teacherName(models.TeacherProfile{DisplayName: strPtr(" "), Email: strPtr("a@b.c")}))
	assert.Equal(t, "+2250700000000", teacherName(models.TeacherProfile{Phone: strPtr("+2250700000000")}))
	assert.Equal(t, FallbackTeacherName, teacherName(models.TeacherProfile{}))
}
