package models

// TeacherProfile carries the contact fields used to label a teacher.
type TeacherProfile struct {
	ID          string  `db:"id" json:"id"`
	DisplayName *string `db:"display_name" json:"display_name,omitempty"`
	Email       *string `db:"email" json:"email,omitempty"`
	Phone       *string `db:"phone" json:"phone,omitempty"`
}
