package identity

import "github.com/mealportal/backend/internal/domain/shared"

// Role is a named permission bundle assigned to users through
// user_role_map rows.
type Role struct {
	shared.AuditedEntity
	RoleName string
}

// UserRole is the user-to-role assignment record.
type UserRole struct {
	shared.AuditedEntity
	UserID int64
	RoleID int64
	// RoleName is denormalized onto the assignment when loaded with a join.
	RoleName string
}
