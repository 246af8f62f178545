package models

// Period is an institution-defined recurring time window. Weekday is stored in the
// institution's own encoding; StartTime and EndTime come from Postgres time columns.
type Period struct {
	ID            string  `db:"id" json:"id"`
	InstitutionID string  `db:"institution_id" json:"institution_id"`
	Weekday       int     `db:"weekday" json:"weekday"`
	Label         *string `db:"label" json:"label,omitempty"`
	StartTime     *string `db:"start_time" json:"start_time,omitempty"`
	EndTime       *string `db:"end_time" json:"end_time,omitempty"`
}
