package models

// Class is a class or section label within an institution.
type Class struct {
	ID    string  `db:"id" json:"id"`
	Label *string `db:"label" json:"label,omitempty"`
}
