// Package store defines the persistence interfaces for postings, applications
// and users, along with an in-memory implementation.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/jobboard/internal/ingestion"
	"github.com/jonathan/jobboard/internal/types"
)

// ErrEmailExists is returned when registering an email that is already taken.
var ErrEmailExists = errors.New("email already registered")

// NotFoundError is returned when a referenced record does not exist.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// Store is the postings backend.
type Store interface {
	// List returns every posting in insertion order.
	List(ctx context.Context) ([]types.JobPosting, error)
	// Search returns postings whose profile, company, description or any
	// tech tag contains text, case-insensitively.
	Search(ctx context.Context, text string) ([]types.JobPosting, error)
	// Create stores a posting with backend defaults applied and returns it.
	Create(ctx context.Context, post types.JobPosting) (*types.JobPosting, error)
	// Get returns the posting or nil when it does not exist.
	Get(ctx context.Context, id string) (*types.JobPosting, error)
	// Delete removes a posting owned by employerID.
	Delete(ctx context.Context, id, employerID string) error
	// RecordApplication stores an application and bumps the posting's count.
	RecordApplication(ctx context.Context, postingID string, applicantID uuid.UUID, req types.ApplicationRequest) (*types.ApplicationReceipt, error)
	// ListByEmployer returns the postings created by employerID.
	ListByEmployer(ctx context.Context, employerID string) ([]types.JobPosting, error)
}

// UserRecord is a stored account, including its password hash.
type UserRecord struct {
	ID           uuid.UUID
	Name         string
	Email        string
	Role         string
	Company      string
	PasswordHash string
	CreatedAt    time.Time
}

// User returns the public view of the record.
func (u *UserRecord) User() *types.User {
	return &types.User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Company:   u.Company,
		CreatedAt: u.CreatedAt,
	}
}

// UserStore persists accounts.
type UserStore interface {
	// CreateUser inserts u, assigning ID and CreatedAt. Returns
	// ErrEmailExists if the email is taken.
	CreateUser(ctx context.Context, u *UserRecord) error
	// GetUserByEmail returns nil when no account has that email.
	GetUserByEmail(ctx context.Context, email string) (*UserRecord, error)
	// GetUser returns nil when the account does not exist.
	GetUser(ctx context.Context, id uuid.UUID) (*UserRecord, error)
}

// ApplicationReceivedMessage is the acknowledgement returned for an application.
const ApplicationReceivedMessage = "Application submitted successfully!"

// ApplyCreateDefaults fills the fields the backend owns on creation.
func ApplyCreateDefaults(post types.JobPosting, now time.Time) types.JobPosting {
	if post.ID == "" {
		post.ID = ingestion.NewPostingID()
	}
	if post.PostedDate == nil || post.PostedDate.IsZero() {
		post.PostedDate = types.NewTimestamp(now)
	}
	if post.Status == "" {
		post.Status = types.StatusActive
	}
	if post.Skills == nil {
		post.Skills = []string{}
	}
	post.Applications = 0
	post.Views = 0
	return post
}

// NormalizeEmail lowercases and trims an email for lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// MatchesSearch reports whether post contains text in any searchable field.
func MatchesSearch(post *types.JobPosting, text string) bool {
	term := strings.ToLower(text)
	if strings.Contains(strings.ToLower(post.Title), term) ||
		strings.Contains(strings.ToLower(post.Company), term) ||
		strings.Contains(strings.ToLower(post.Description), term) {
		return true
	}
	for _, tech := range post.Skills {
		if strings.Contains(strings.ToLower(tech), term) {
			return true
		}
	}
	return false
}
