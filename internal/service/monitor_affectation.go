package service

import "github.com/noah-isme/sma-attendance-monitor/internal/models"

// AffectationFilter decides whether a teacher may hold a slot for a subject.
//
// A teacher without any affectation row is unrestricted: missing configuration must not hide
// real sessions from the monitor.
type AffectationFilter struct {
	byTeacher map[string]map[string]struct{}
	subjects  *SubjectIdentitySpace
}

// NewAffectationFilter groups affectations by teacher.
func NewAffectationFilter(rows []models.Affectation, subjects *SubjectIdentitySpace) *AffectationFilter {
	byTeacher := make(map[string]map[string]struct{})
	for _, row := range rows {
		if row.TeacherID == "" || row.SubjectID == "" {
			continue
		}
		set, ok := byTeacher[row.TeacherID]
		if !ok {
			set = make(map[string]struct{})
			byTeacher[row.TeacherID] = set
		}
		set[row.SubjectID] = struct{}{}
	}
	return &AffectationFilter{byTeacher: byTeacher, subjects: subjects}
}

// Restricted reports whether the teacher declared at least one affectation.
func (f *AffectationFilter) Restricted(teacherID string) bool {
	if f == nil {
		return false
	}
	return len(f.byTeacher[teacherID]) > 0
}

// Authorized checks the subject id directly, then every local id it resolves to as a catalog
// id, then the catalog id it references as a local id.
func (f *AffectationFilter) Authorized(teacherID, subjectID string) bool {
	if !f.Restricted(teacherID) {
		return true
	}
	allowed := f.byTeacher[teacherID]
	if _, ok := allowed[subjectID]; ok {
		return true
	}
	for _, localID := range f.subjects.ResolveToInstitutionIDs(subjectID) {
		if _, ok := allowed[localID]; ok {
			return true
		}
	}
	if catalogID, ok := f.subjects.CatalogIDFor(subjectID); ok {
		if _, ok := allowed[catalogID]; ok {
			return true
		}
	}
	return false
}

// Count returns the number of distinct teacher/subject pairs indexed.
func (f *AffectationFilter) Count() int {
	if f == nil {
		return 0
	}
	total := 0
	for _, set := range f.byTeacher {
		total += len(set)
	}
	return total
}
