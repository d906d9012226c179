package types

import "time"

// Roles a user can hold. New accounts start as RoleUser until an admin
// assigns them to a course class.
const (
	RoleUser      = "USER"
	RoleStudent   = "STUDENT"
	RoleProfessor = "PROFESSOR"
	RoleAdmin     = "ADMIN"
)

// ValidRole reports whether role is one of the enumerated roles.
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleStudent, RoleProfessor, RoleAdmin:
		return true
	}
	return false
}

// User represents an account in the system.
// It contains identity, role, and audit metadata.
type User struct {
	// ID is the unique identifier of the user.
	ID int `json:"id" db:"id"`

	// Email is the user's unique email address, used to log in.
	Email string `json:"email" db:"email"`

	// Name is the user's first name.
	Name string `json:"name" db:"name"`

	// LastName is the user's last name.
	LastName string `json:"lastName" db:"last_name"`

	// Role indicates the user's authorization level within the
	// system. One of the Role* constants.
	Role string `json:"role" db:"role"`

	// Avatar is the path of the user's avatar image.
	Avatar string `json:"avatar" db:"avatar"`

	// PasswordHash stores the hashed representation of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the user account.
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Sanitized returns a copy of the user that is safe to hand outside the
// store boundary: the password hash is cleared.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}
