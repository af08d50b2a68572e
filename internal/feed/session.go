package feed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/jobboard/internal/types"
	"go.uber.org/zap"
)

// DefaultSessionTTL is how long an idle feed session is kept.
const DefaultSessionTTL = 30 * time.Minute

// Session is a snapshot of one job seeker's feed: the listing loaded when the
// session was opened, the notice shown if that load fell back, and the
// current state. Sessions live in memory only.
type Session struct {
	ID        uuid.UUID          `json:"id"`
	State     State              `json:"state"`
	Notice    string             `json:"notice,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	Posts     []types.JobPosting `json:"-"`

	lastAccess time.Time
}

// View returns the session's current page.
func (s *Session) View(size int) Page {
	return View(s.Posts, s.State, size)
}

// SessionNotFoundError indicates an unknown or expired session id.
type SessionNotFoundError struct {
	ID uuid.UUID
}

func (e *SessionNotFoundError) Error() string {
	return fmt.Sprintf("feed session not found: %s", e.ID)
}

// Registry holds open feed sessions keyed by id.
type Registry struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	ttl      time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

// NewRegistry creates a registry that expires sessions idle for longer than ttl.
func NewRegistry(ttl time.Duration, logger *zap.Logger) *Registry {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		sessions: make(map[uuid.UUID]*Session),
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
	}
}

// Open starts a session over posts. The posts are treated as read-only.
func (r *Registry) Open(posts []types.JobPosting, notice string) Session {
	now := r.now()
	s := &Session{
		ID:         uuid.New(),
		State:      NewState(),
		Notice:     notice,
		CreatedAt:  now,
		Posts:      posts,
		lastAccess: now,
	}

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()

	r.logger.Debug("feed session opened",
		zap.String("session_id", s.ID.String()),
		zap.Int("postings", len(posts)),
		zap.Bool("fallback", notice != ""))
	return *s
}

// Get returns a snapshot of the session.
func (r *Registry) Get(id uuid.UUID) (Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return Session{}, &SessionNotFoundError{ID: id}
	}
	s.lastAccess = r.now()
	return *s, nil
}

// Apply reduces action into the session's state and returns the updated snapshot.
// On a reducer error the session is left unchanged.
func (r *Registry) Apply(id uuid.UUID, action Action) (Session, error) {
	return r.ApplyAll(id, []Action{action})
}

// ApplyAll reduces actions in order. Either every action is applied or, on
// the first reducer error, none is.
func (r *Registry) ApplyAll(id uuid.UUID, actions []Action) (Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return Session{}, &SessionNotFoundError{ID: id}
	}
	next := s.State
	for _, action := range actions {
		var err error
		if next, err = Reduce(next, action); err != nil {
			return *s, err
		}
	}
	s.State = next
	s.lastAccess = r.now()
	return *s, nil
}

// Close removes a session. Closing an unknown session is a no-op.
func (r *Registry) Close(id uuid.UUID) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Run expires idle sessions every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := r.expire(); n > 0 {
				r.logger.Debug("expired feed sessions", zap.Int("count", n))
			}
		case <-ctx.Done():
			return nil
		}
	}
}

// expire removes sessions idle past the TTL and returns how many were removed.
func (r *Registry) expire() int {
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, s := range r.sessions {
		if s.lastAccess.Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}
