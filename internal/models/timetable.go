package models

// TimetableEntry is a weekly slot template. SubjectID may be a catalog id or an
// institution-local id depending on how the entry was created.
type TimetableEntry struct {
	ID            string  `db:"id" json:"id"`
	InstitutionID string  `db:"institution_id" json:"institution_id"`
	ClassID       string  `db:"class_id" json:"class_id"`
	SubjectID     *string `db:"subject_id" json:"subject_id,omitempty"`
	TeacherID     string  `db:"teacher_id" json:"teacher_id"`
	PeriodID      string  `db:"period_id" json:"period_id"`
}

// Affectation authorises a teacher for a subject, in either subject id space.
type Affectation struct {
	TeacherID string `db:"profile_id" json:"teacher_id"`
	SubjectID string `db:"subject_id" json:"subject_id"`
}
