package domain

import "time"

// User is an operator, dispatcher, supervisor or admin account.
// PasswordHash holds the bcrypt digest and must never be serialized.
type User struct {
	ID           string
	Username     string
	FullName     string
	PasswordHash string
	RoleID       int64
	Role         *RoleRecord
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

// RoleName resolves the role enum for the account, empty when the role
// association has not been loaded.
func (u *User) RoleName() Role {
	if u == nil || u.Role == nil {
		return ""
	}
	return Role(u.Role.Name)
}
