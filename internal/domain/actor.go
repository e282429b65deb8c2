package domain

import "github.com/google/uuid"

// Actor roles, as issued by the platform identity service.
const (
	RoleResident = "resident"
	RoleAdmin    = "admin"
)

// Actor identifies the caller of an operation.
type Actor struct {
	UserID uuid.UUID
	Role   string
}

// IsAdmin reports whether the actor holds the administrator role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Owns reports whether the actor is the reservation's requesting user.
func (a Actor) Owns(r *Reservation) bool {
	return a.UserID == r.UserID
}
