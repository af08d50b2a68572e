package feed

import (
	"fmt"
	"strings"
	"testing"

	"github.com/jonathan/jobboard/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func ids(posts []types.JobPosting) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ID)
	}
	return out
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func postingHasQuery(p types.JobPosting, q string) bool {
	if containsFold(p.Title, q) || containsFold(p.Company, q) || containsFold(p.Description, q) {
		return true
	}
	for _, s := range p.Skills {
		if containsFold(s, q) {
			return true
		}
	}
	return false
}

func TestFilter_EmptyFiltersKeepsAllButDismissed(t *testing.T) {
	posts := FallbackPostings()

	got := Filter(posts, types.FilterState{}, []string{"2", "5"})

	assert.Equal(t, []string{"1", "3", "4", "6"}, ids(got))
}

func TestFilter_NoDismissedReturnsInputInOrder(t *testing.T) {
	posts := FallbackPostings()

	got := Filter(posts, types.FilterState{}, nil)

	assert.Equal(t, posts, got)
}

func TestFilter_WhitespaceQueryIsIgnored(t *testing.T) {
	posts := FallbackPostings()

	got := Filter(posts, types.FilterState{Query: "   "}, nil)

	assert.Len(t, got, len(posts))
}

func TestFilter_QueryMatchesEachField(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "title", query: "devops", want: []string{"6"}},
		{name: "company case-insensitive", query: "GOOGLE", want: []string{"4"}},
		{name: "description", query: "aviation", want: []string{"3"}},
		{name: "skill tag", query: "pytorch", want: []string{"5"}},
		{name: "several fields", query: "react", want: []string{"1", "2", "3"}},
		{name: "no match", query: "cobol", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(FallbackPostings(), types.FilterState{Query: tt.query}, nil)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFilter_QueryPartitionsNonDismissedPostings(t *testing.T) {
	posts := FallbackPostings()
	dismissed := []string{"1"}

	for _, q := range []string{"java", "python", "engineer", "ui", "aws", "zzz"} {
		got := Filter(posts, types.FilterState{Query: q}, dismissed)
		kept := make(map[string]bool)
		for _, p := range got {
			kept[p.ID] = true
			assert.True(t, postingHasQuery(p, q), "kept %s must contain %q", p.ID, q)
		}
		for _, p := range posts {
			if p.ID == "1" || kept[p.ID] {
				continue
			}
			assert.False(t, postingHasQuery(p, q), "excluded %s must not contain %q", p.ID, q)
		}
	}
}

func TestFilter_MinExperience(t *testing.T) {
	posts := FallbackPostings()

	got := Filter(posts, types.FilterState{MinExperience: intPtr(4)}, nil)
	assert.Equal(t, []string{"4", "5"}, ids(got))

	got = Filter(posts, types.FilterState{MinExperience: intPtr(0)}, nil)
	assert.Len(t, got, len(posts))
}

func TestFilter_MinExperienceIsMonotonic(t *testing.T) {
	posts := FallbackPostings()

	prev := len(posts) + 1
	for threshold := 0; threshold <= 8; threshold++ {
		got := Filter(posts, types.FilterState{MinExperience: intPtr(threshold)}, nil)
		for _, p := range got {
			assert.GreaterOrEqual(t, p.Experience, threshold)
		}
		assert.LessOrEqual(t, len(got), prev, "raising threshold to %d grew the result", threshold)
		prev = len(got)
	}
}

func TestFilter_SkillsUseAnySemantics(t *testing.T) {
	posts := FallbackPostings()

	got := Filter(posts, types.FilterState{Skills: []string{"Docker", "Django"}}, nil)

	assert.Equal(t, []string{"4", "6"}, ids(got))
}

func TestFilter_SkillScenario(t *testing.T) {
	posts := []types.JobPosting{{ID: "a", Title: "Engineer", Skills: []string{"Go", "React"}}}

	included := Filter(posts, types.FilterState{Skills: []string{"Go"}}, nil)
	excluded := Filter(posts, types.FilterState{Skills: []string{"Rust"}}, nil)

	assert.Len(t, included, 1)
	assert.Empty(t, excluded)
}

func TestFilter_SkillSubstringOverMatch(t *testing.T) {
	posts := []types.JobPosting{
		{ID: "js", Skills: []string{"JavaScript"}},
		{ID: "py", Skills: []string{"Python"}},
	}

	got := Filter(posts, types.FilterState{Skills: []string{"java"}}, nil)

	assert.Equal(t, []string{"js"}, ids(got))
}

func TestFilter_AllStagesCombined(t *testing.T) {
	posts := FallbackPostings()
	filters := types.FilterState{
		Query:         "engineer",
		MinExperience: intPtr(3),
		Skills:        []string{"AWS", "React"},
	}

	got := Filter(posts, filters, []string{"6"})

	assert.Equal(t, []string{"1"}, ids(got))
}

func TestFilter_DoesNotModifyInput(t *testing.T) {
	posts := FallbackPostings()
	before := FallbackPostings()

	_ = Filter(posts, types.FilterState{Query: "react", Skills: []string{"CSS"}}, []string{"1"})

	require.Equal(t, before, posts)
}

func TestFilter_PostingWithoutSkills(t *testing.T) {
	posts := []types.JobPosting{{ID: "x", Title: "Go Developer"}}

	assert.Len(t, Filter(posts, types.FilterState{Query: "go"}, nil), 1)
	assert.Empty(t, Filter(posts, types.FilterState{Skills: []string{"Go"}}, nil))
}

func TestFilter_DismissedDuplicatesIgnored(t *testing.T) {
	posts := make([]types.JobPosting, 0, 5)
	for i := 1; i <= 5; i++ {
		posts = append(posts, types.JobPosting{ID: fmt.Sprint(i)})
	}

	got := Filter(posts, types.FilterState{}, []string{"3", "3", "missing"})

	assert.Equal(t, []string{"1", "2", "4", "5"}, ids(got))
}
