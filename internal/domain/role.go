package domain

import "time"

// Role is the closed set of account roles known to the system.
type Role string

const (
	RoleOperator   Role = "operator"
	RoleDispatcher Role = "dispatcher"
	RoleSupervisor Role = "supervisor"
	RoleAdmin      Role = "admin"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleOperator, RoleDispatcher, RoleSupervisor, RoleAdmin:
		return true
	}
	return false
}

// RoleRecord is the persisted role row referenced by user accounts.
type RoleRecord struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}
