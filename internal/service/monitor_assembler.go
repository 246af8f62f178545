package service

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/noah-isme/sma-attendance-monitor/internal/models"
)

// FallbackTeacherName labels a teacher without any usable contact field.
const FallbackTeacherName = "Enseignant"

// RowDirectory carries the label sources joined onto classified slots.
type RowDirectory struct {
	Classes  []models.Class
	Subjects *SubjectIdentitySpace
	Teachers []models.TeacherProfile
}

// AssembleRows labels classified slots and sorts them by date, planned start and class label.
// Class labels compare with French collation; the row id breaks remaining ties.
func AssembleRows(slots []ClassifiedSlot, dir RowDirectory) []models.MonitorRow {
	classLabels := make(map[string]string, len(dir.Classes))
	for _, class := range dir.Classes {
		classLabels[class.ID] = trimmed(class.Label)
	}
	teacherNames := make(map[string]string, len(dir.Teachers))
	for _, teacher := range dir.Teachers {
		teacherNames[teacher.ID] = teacherName(teacher)
	}

	type keyed struct {
		row      models.MonitorRow
		startMin int
	}
	items := make([]keyed, 0, len(slots))
	for _, slot := range slots {
		subjectID := derefString(slot.Entry.SubjectID)
		name, ok := teacherNames[slot.Entry.TeacherID]
		if !ok {
			name = FallbackTeacherName
		}
		subject := dir.Subjects.NameFor(subjectID)
		row := models.MonitorRow{
			ID:           strings.Join([]string{slot.Date, slot.Entry.PeriodID, slot.Entry.ClassID, subjectID, slot.Entry.TeacherID}, "|"),
			Date:         slot.Date,
			WeekdayLabel: optionalString(weekdayLabel(slot.Date)),
			PeriodLabel:  optionalString(slot.Period.DisplayLabel()),
			PlannedStart: optionalString(slot.Period.Start),
			PlannedEnd:   optionalString(slot.Period.End),
			ClassLabel:   optionalString(classLabels[slot.Entry.ClassID]),
			SubjectName:  &subject,
			TeacherName:  name,
			Status:       slot.Status,
			LateMinutes:  slot.LateMinutes,
			OpenedFrom:   slot.OpenedFrom,
		}
		items = append(items, keyed{row: row, startMin: slot.Period.StartMin})
	}

	collator := collate.New(language.French)
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.row.Date != b.row.Date {
			return a.row.Date < b.row.Date
		}
		if a.startMin != b.startMin {
			return a.startMin < b.startMin
		}
		if c := collator.CompareString(derefString(a.row.ClassLabel), derefString(b.row.ClassLabel)); c != 0 {
			return c < 0
		}
		return a.row.ID < b.row.ID
	})

	rows := make([]models.MonitorRow, len(items))
	for i, item := range items {
		rows[i] = item.row
	}
	return rows
}

// teacherName prefers the display name, then email, then phone.
func teacherName(t models.TeacherProfile) string {
	for _, candidate := range []*string{t.DisplayName, t.Email, t.Phone} {
		if v := trimmed(candidate); v != "" {
			return v
		}
	}
	return FallbackTeacherName
}

func weekdayLabel(ymd string) string {
	day, err := time.Parse(ymdLayout, ymd)
	if err != nil {
		return ""
	}
	return frenchWeekday(day.Weekday())
}
