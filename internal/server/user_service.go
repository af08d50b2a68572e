package server

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/jobboard/internal/config"
	"github.com/jonathan/jobboard/internal/store"
	"github.com/jonathan/jobboard/internal/types"
)

// Authenticator verifies credentials and returns the caller's identity.
// Any failure to match an account is reported as *ErrInvalidCredentials.
type Authenticator interface {
	Authenticate(ctx context.Context, creds types.Credentials) (*types.Identity, error)
}

var _ Authenticator = (*UserService)(nil)

// UserService provides business logic for user authentication operations
type UserService struct {
	users          store.UserStore
	passwordConfig *config.PasswordConfig
	dummyHash      string
}

// NewUserService creates a new UserService with the given dependencies
func NewUserService(users store.UserStore, passwordConfig *config.PasswordConfig) (*UserService, error) {
	// Verified against for unknown emails so both paths cost one bcrypt compare.
	dummy, err := passwordConfig.HashPassword(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("failed to prepare password verifier: %w", err)
	}
	return &UserService{
		users:          users,
		passwordConfig: passwordConfig,
		dummyHash:      dummy,
	}, nil
}

func identityOf(u *store.UserRecord) *types.Identity {
	return &types.Identity{UserID: u.ID, Email: u.Email, Role: u.Role, Company: u.Company}
}

// Register creates a new account and returns it with its identity.
func (s *UserService) Register(ctx context.Context, req *types.CreateUserRequest) (*types.User, *types.Identity, error) {
	if len(req.Password) < config.MinPasswordLength {
		return nil, nil, &ErrValidation{
			Field:   "password",
			Message: fmt.Sprintf("must be at least %d characters", config.MinPasswordLength),
		}
	}

	passwordHash, err := s.passwordConfig.HashPassword(req.Password)
	if err != nil {
		return nil, nil, &ErrValidation{Field: "password", Message: err.Error()}
	}

	record := &store.UserRecord{
		Name:         strings.TrimSpace(req.Name),
		Email:        store.NormalizeEmail(req.Email),
		Role:         req.Role,
		Company:      strings.TrimSpace(req.Company),
		PasswordHash: passwordHash,
	}
	if err := s.users.CreateUser(ctx, record); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return nil, nil, &ErrEmailAlreadyExists{Email: record.Email}
		}
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	return record.User(), identityOf(record), nil
}

// Authenticate checks an email and password against the stored hash.
func (s *UserService) Authenticate(ctx context.Context, creds types.Credentials) (*types.Identity, error) {
	record, err := s.users.GetUserByEmail(ctx, store.NormalizeEmail(creds.Email))
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	// Security: Always return generic error if user not found or password wrong
	if record == nil {
		s.passwordConfig.VerifyPassword(creds.Password, s.dummyHash)
		return nil, &ErrInvalidCredentials{}
	}
	if !s.passwordConfig.VerifyPassword(creds.Password, record.PasswordHash) {
		return nil, &ErrInvalidCredentials{}
	}

	return identityOf(record), nil
}

// Login authenticates a user and returns the profile with its identity.
func (s *UserService) Login(ctx context.Context, req *types.LoginRequest) (*types.User, *types.Identity, error) {
	identity, err := s.Authenticate(ctx, req.Credentials())
	if err != nil {
		return nil, nil, err
	}
	user, err := s.GetUser(ctx, identity.UserID)
	if err != nil {
		return nil, nil, err
	}
	return user, identity, nil
}

// GetUser returns the profile of an account.
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*types.User, error) {
	record, err := s.users.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if record == nil {
		return nil, &ErrUserNotFound{UserID: id}
	}
	return record.User(), nil
}
