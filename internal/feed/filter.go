// Package feed implements the job feed pipeline: filtering a fetched listing
// by dismissed ids, free-text query, experience and skills, then paginating
// the surviving postings.
package feed

import (
	"strings"

	"github.com/jonathan/jobboard/internal/types"
)

// DefaultPageSize is the number of postings shown per feed page.
const DefaultPageSize = 9

// Filter returns the postings that survive the dismissed set and filters,
// in their original relative order. The input slice is not modified.
//
// Stages run in a fixed order: dismissed ids, query, minimum experience, skills.
func Filter(posts []types.JobPosting, filters types.FilterState, dismissed []string) []types.JobPosting {
	dismissedSet := make(map[string]struct{}, len(dismissed))
	for _, id := range dismissed {
		dismissedSet[id] = struct{}{}
	}

	// A trimmed-empty query disables search; a non-empty one is matched as typed.
	var term string
	searching := strings.TrimSpace(filters.Query) != ""
	if searching {
		term = strings.ToLower(filters.Query)
	}

	out := make([]types.JobPosting, 0, len(posts))
	for i := range posts {
		p := &posts[i]
		if _, gone := dismissedSet[p.ID]; gone {
			continue
		}
		if searching && !matchesQuery(p, term) {
			continue
		}
		if filters.MinExperience != nil && p.Experience < *filters.MinExperience {
			continue
		}
		if len(filters.Skills) > 0 && !matchesAnySkill(p, filters.Skills) {
			continue
		}
		out = append(out, *p)
	}
	return out
}

// matchesQuery reports whether the lowercased term appears in the title,
// company, description or any skill tag.
func matchesQuery(p *types.JobPosting, term string) bool {
	if strings.Contains(strings.ToLower(p.Title), term) ||
		strings.Contains(strings.ToLower(p.Company), term) ||
		strings.Contains(strings.ToLower(p.Description), term) {
		return true
	}
	for _, tag := range p.Skills {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

// matchesAnySkill reports whether any selected skill is a case-insensitive
// substring of any of the posting's tags. "Java" therefore matches "JavaScript".
func matchesAnySkill(p *types.JobPosting, skills []string) bool {
	for _, skill := range skills {
		if p.HasSkill(skill) {
			return true
		}
	}
	return false
}
