package types

import "strings"

// FilterState holds the structured feed filters a job seeker selects.
type FilterState struct {
	// MinExperience keeps postings requiring at least this many years when set.
	MinExperience *int `json:"min_experience,omitempty"`
	// Skills keeps postings that have any of these skills (OR semantics).
	Skills []string `json:"skills,omitempty"`
	// Query is a free-text search over title, company, description and skills.
	Query string `json:"query,omitempty"`
}

// IsEmpty reports whether no filter is active.
func (f FilterState) IsEmpty() bool {
	return f.MinExperience == nil && len(f.Skills) == 0 && strings.TrimSpace(f.Query) == ""
}

// Clone returns a deep copy so callers can derive new snapshots without aliasing.
func (f FilterState) Clone() FilterState {
	out := FilterState{Query: f.Query}
	if f.MinExperience != nil {
		v := *f.MinExperience
		out.MinExperience = &v
	}
	if f.Skills != nil {
		out.Skills = append([]string(nil), f.Skills...)
	}
	return out
}
