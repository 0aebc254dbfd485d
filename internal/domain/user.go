package domain

import "time"

// UserRole enumerates the mutually exclusive actor roles.
type UserRole string

const (
	RoleClient  UserRole = "CLIENT"
	RoleSupport UserRole = "SUPPORT"
	RoleManager UserRole = "MANAGER"
)

// ParseUserRole validates a role string.
func ParseUserRole(raw string) (UserRole, bool) {
	switch UserRole(raw) {
	case RoleClient, RoleSupport, RoleManager:
		return UserRole(raw), true
	}
	return "", false
}

// User is the domain model for all actors: clients, support staff, managers.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         UserRole
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ActorContext identifies the authenticated principal for an engine call.
// It is resolved once per inbound request and passed explicitly into every
// service operation.
type ActorContext struct {
	UserID string
	Role   UserRole
}
