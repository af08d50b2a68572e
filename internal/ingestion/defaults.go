// Package ingestion prepares fetched job postings for the feed. Defaults are
// applied once, when a listing arrives, and never again per filter pass.
package ingestion

import (
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/jobboard/internal/types"
)

// Defaults for optional posting fields.
const (
	DefaultSalary   = "Competitive"
	DefaultLocation = "Bengaluru, Karnataka, India"
	DefaultType     = "Full-time"
)

// generatedIDLength is the length of ids assigned to postings that arrive without one.
const generatedIDLength = 9

// Normalize returns a copy of posts with missing optional fields defaulted.
// now is used as the posted date for postings that carry none.
func Normalize(posts []types.JobPosting, now time.Time) []types.JobPosting {
	out := make([]types.JobPosting, len(posts))
	for i, p := range posts {
		out[i] = NormalizeOne(p, now)
	}
	return out
}

// NormalizeOne applies defaults to a single posting.
func NormalizeOne(p types.JobPosting, now time.Time) types.JobPosting {
	if p.ID == "" {
		p.ID = NewPostingID()
	}
	if p.Salary == "" {
		p.Salary = DefaultSalary
	}
	if p.Location == "" {
		p.Location = DefaultLocation
	}
	if p.Type == "" {
		p.Type = DefaultType
	}
	if p.PostedDate == nil || p.PostedDate.IsZero() {
		p.PostedDate = types.NewTimestamp(now)
	}
	if p.Skills == nil {
		p.Skills = []string{}
	} else {
		p.Skills = append([]string(nil), p.Skills...)
	}
	p.Description = CleanDescription(p.Description)
	return p
}

// NewPostingID returns a short random base-36 identifier.
func NewPostingID() string {
	id := uuid.New()
	s := new(big.Int).SetBytes(id[:]).Text(36)
	if len(s) < generatedIDLength {
		s = strings.Repeat("0", generatedIDLength-len(s)) + s
	}
	return s[:generatedIDLength]
}
