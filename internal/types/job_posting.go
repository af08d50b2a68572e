// Package types provides type definitions for structured data used throughout the job board.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Posting status values
const (
	StatusActive = "Active"
	StatusClosed = "Closed"
)

// JobPosting is a single job record as exchanged with the listing endpoint.
// JSON names follow the wire format of the posting backend.
type JobPosting struct {
	ID                  string     `json:"id"`
	Title               string     `json:"profile"`
	Company             string     `json:"company"`
	Location            string     `json:"location,omitempty"`
	Type                string     `json:"type,omitempty"`
	Experience          int        `json:"exp"`
	Salary              string     `json:"salary,omitempty"`
	Skills              []string   `json:"techs"`
	Description         string     `json:"desc"`
	Requirements        string     `json:"requirements,omitempty"`
	Benefits            string     `json:"benefits,omitempty"`
	ContactEmail        string     `json:"contactEmail,omitempty"`
	ApplicationDeadline *Timestamp `json:"applicationDeadline"`
	Status              string     `json:"status,omitempty"`
	Applications        int        `json:"applications"`
	Views               int        `json:"views"`
	PostedDate          *Timestamp `json:"postedDate,omitempty"`
	EmployerID          string     `json:"employerId,omitempty"`
}

// HasSkill reports whether any tag contains the given value, case-insensitively.
func (p *JobPosting) HasSkill(skill string) bool {
	needle := strings.ToLower(skill)
	for _, tag := range p.Skills {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

// Timestamp is a time value that tolerates the date layouts seen on the wire:
// RFC 3339, millisecond timestamps with a numeric zone, and bare dates.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// NewTimestamp wraps t.
func NewTimestamp(t time.Time) *Timestamp {
	return &Timestamp{Time: t}
}

// ParseTimestamp parses s using the accepted wire layouts.
func ParseTimestamp(s string) (*Timestamp, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &Timestamp{Time: t}, nil
		}
	}
	return nil, fmt.Errorf("unrecognized time format: %q", s)
}

// MarshalJSON implements json.Marshaler
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

// UnmarshalJSON implements json.Unmarshaler
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	if s == "" {
		return nil
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = *parsed
	return nil
}
