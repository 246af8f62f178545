package models

// InstitutionSubject is an institution-local subject joined with its catalog entry.
type InstitutionSubject struct {
	ID          string  `db:"id" json:"id"`
	CustomName  *string `db:"custom_name" json:"custom_name,omitempty"`
	CatalogID   *string `db:"catalog_id" json:"catalog_id,omitempty"`
	CatalogName *string `db:"catalog_name" json:"catalog_name,omitempty"`
}
