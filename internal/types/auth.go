package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// User roles
const (
	RoleEmployee = "employee"
	RoleEmployer = "employer"
)

// CreateUserRequest represents the request to register a new job seeker or employer.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=1"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"user_type" validate:"required,oneof=employee employer"`
	Company  string `json:"company,omitempty" validate:"required_if=Role employer"`
}

// LoginRequest represents the login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Credentials returns the login request as authenticator credentials.
func (r *LoginRequest) Credentials() Credentials {
	return Credentials{Email: r.Email, Password: r.Password}
}

// Credentials is what a caller presents to an Authenticator.
type Credentials struct {
	Email    string
	Password string
}

// Identity is a verified user identity returned by an Authenticator.
type Identity struct {
	UserID  uuid.UUID `json:"user_id"`
	Email   string    `json:"email"`
	Role    string    `json:"user_type"`
	Company string    `json:"company,omitempty"`
}

// IsEmployer reports whether the identity may create postings.
func (i *Identity) IsEmployer() bool {
	return i != nil && i.Role == RoleEmployer
}

// User represents a user profile for API responses.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"user_type"`
	Company   string    `json:"company,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginResponse represents the login/register response with user data and authentication token.
type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// Validate validates the CreateUserRequest using the validator.
func (r *CreateUserRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the LoginRequest using the validator.
func (r *LoginRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
