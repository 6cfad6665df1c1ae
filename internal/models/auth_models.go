package models

import "time"

// Console user roles. Admins may use the back-office override paths
// (shift edit/create, stay edit, bulk clear); staff may not.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// User represents a console user of the front-desk application.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"` // '-' means don't send in JSON response
	FullName     *string   `json:"full_name,omitempty" db:"full_name"`
	Role         string    `json:"role" db:"role"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Credentials for login request
type Credentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegistrationPayload for user registration
type RegistrationPayload struct {
	Username string  `json:"username" binding:"required"`
	Password string  `json:"password" binding:"required"`
	FullName *string `json:"full_name,omitempty"`
	Role     *string `json:"role,omitempty"` // defaults to staff
}
