package domain

import "time"

// Role distinguishes ordinary accounts from administrators.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is an authenticated account.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is created together with its user and carries the role.
type Profile struct {
	ID        string
	UserID    string
	FirstName *string
	LastName  *string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAdmin reports whether the profile grants triage access.
func (p *Profile) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}
