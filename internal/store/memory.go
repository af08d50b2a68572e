package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/jobboard/internal/types"
)

var (
	_ Store     = (*Memory)(nil)
	_ UserStore = (*Memory)(nil)
)

// Memory is an in-process Store and UserStore. Contents are lost on restart.
type Memory struct {
	mu           sync.RWMutex
	posts        []types.JobPosting
	applications map[string][]types.ApplicationReceipt
	users        map[uuid.UUID]*UserRecord
	byEmail      map[string]uuid.UUID
	now          func() time.Time
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{
		applications: make(map[string][]types.ApplicationReceipt),
		users:        make(map[uuid.UUID]*UserRecord),
		byEmail:      make(map[string]uuid.UUID),
		now:          time.Now,
	}
}

// Seed inserts postings as-is, bypassing creation defaults.
func (m *Memory) Seed(posts ...types.JobPosting) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range posts {
		m.posts = append(m.posts, clonePosting(p))
	}
}

func (m *Memory) List(ctx context.Context) ([]types.JobPosting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.JobPosting, 0, len(m.posts))
	for _, p := range m.posts {
		out = append(out, clonePosting(p))
	}
	return out, nil
}

func (m *Memory) Search(ctx context.Context, text string) ([]types.JobPosting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []types.JobPosting{}
	for i := range m.posts {
		if MatchesSearch(&m.posts[i], text) {
			out = append(out, clonePosting(m.posts[i]))
		}
	}
	return out, nil
}

func (m *Memory) Create(ctx context.Context, post types.JobPosting) (*types.JobPosting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	post = ApplyCreateDefaults(clonePosting(post), m.now())
	for m.indexLocked(post.ID) >= 0 {
		post.ID = ""
		post = ApplyCreateDefaults(post, m.now())
	}
	m.posts = append(m.posts, post)

	created := clonePosting(post)
	return &created, nil
}

func (m *Memory) Get(ctx context.Context, id string) (*types.JobPosting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i := m.indexLocked(id)
	if i < 0 {
		return nil, nil
	}
	p := clonePosting(m.posts[i])
	return &p, nil
}

func (m *Memory) Delete(ctx context.Context, id, employerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexLocked(id)
	if i < 0 || m.posts[i].EmployerID != employerID {
		return &NotFoundError{Kind: "posting", ID: id}
	}
	m.posts = slices.Delete(m.posts, i, i+1)
	delete(m.applications, id)
	return nil
}

func (m *Memory) RecordApplication(ctx context.Context, postingID string, applicantID uuid.UUID, req types.ApplicationRequest) (*types.ApplicationReceipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexLocked(postingID)
	if i < 0 {
		return nil, &NotFoundError{Kind: "posting", ID: postingID}
	}

	receipt := types.ApplicationReceipt{
		PostingID:   postingID,
		ApplicantID: applicantID,
		SubmittedAt: m.now().UTC(),
		Message:     ApplicationReceivedMessage,
	}
	m.applications[postingID] = append(m.applications[postingID], receipt)
	m.posts[i].Applications++
	return &receipt, nil
}

func (m *Memory) ListByEmployer(ctx context.Context, employerID string) ([]types.JobPosting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []types.JobPosting{}
	for _, p := range m.posts {
		if p.EmployerID == employerID {
			out = append(out, clonePosting(p))
		}
	}
	return out, nil
}

func (m *Memory) CreateUser(ctx context.Context, u *UserRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	email := NormalizeEmail(u.Email)
	if _, taken := m.byEmail[email]; taken {
		return ErrEmailExists
	}
	u.ID = uuid.New()
	u.Email = email
	u.CreatedAt = m.now().UTC()

	stored := *u
	m.users[u.ID] = &stored
	m.byEmail[email] = u.ID
	return nil
}

func (m *Memory) GetUserByEmail(ctx context.Context, email string) (*UserRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byEmail[NormalizeEmail(email)]
	if !ok {
		return nil, nil
	}
	u := *m.users[id]
	return &u, nil
}

func (m *Memory) GetUser(ctx context.Context, id uuid.UUID) (*UserRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stored, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	u := *stored
	return &u, nil
}

func (m *Memory) indexLocked(id string) int {
	return slices.IndexFunc(m.posts, func(p types.JobPosting) bool { return p.ID == id })
}

func clonePosting(p types.JobPosting) types.JobPosting {
	p.Skills = slices.Clone(p.Skills)
	return p
}
