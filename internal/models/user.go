package models

// UserRole represents an institution-scoped role from user_roles.
type UserRole string

const (
	RoleSuperAdmin UserRole = "super_admin"
	RoleAdmin      UserRole = "admin"
	RoleTeacher    UserRole = "teacher"
	RoleParent     UserRole = "parent"
)

// Principal is the authenticated caller resolved to one institution and role.
type Principal struct {
	UserID        string   `json:"user_id"`
	InstitutionID string   `json:"institution_id"`
	Role          UserRole `json:"role"`
}

// ProfileInstitution is the minimal profile projection needed to scope a caller.
type ProfileInstitution struct {
	ID            string  `db:"id"`
	InstitutionID *string `db:"institution_id"`
}
