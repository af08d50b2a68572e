package feed

import (
	"testing"

	"github.com/jonathan/jobboard/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reduceAll(t *testing.T, state State, actions ...Action) State {
	t.Helper()
	for _, a := range actions {
		var err error
		state, err = Reduce(state, a)
		require.NoError(t, err, "action %s", a.Type)
	}
	return state
}

func TestReduce_FilterChangesResetPage(t *testing.T) {
	filterActions := []Action{
		SetQuery("react"),
		SetMinExperience(2),
		ClearMinExperience(),
		ToggleSkill("Go"),
		SetSkills("Java", "AWS"),
		ClearFilters(),
		Dismiss("3"),
	}

	for _, action := range filterActions {
		t.Run(string(action.Type), func(t *testing.T) {
			state := reduceAll(t, NewState(), GoToPage(4))
			require.Equal(t, 4, state.Page)

			next, err := Reduce(state, action)
			require.NoError(t, err)
			assert.Equal(t, 1, next.Page)
		})
	}
}

func TestReduce_BookmarkKeepsPage(t *testing.T) {
	state := reduceAll(t, NewState(), GoToPage(3), ToggleBookmark("7"))

	assert.Equal(t, 3, state.Page)
	assert.True(t, state.IsBookmarked("7"))

	state = reduceAll(t, state, ToggleBookmark("7"))
	assert.False(t, state.IsBookmarked("7"))
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	original := reduceAll(t, NewState(), SetSkills("Go"), SetMinExperience(3), Dismiss("1"))
	snapshot := original.clone()

	_ = reduceAll(t, original,
		ToggleSkill("Rust"),
		ToggleSkill("Go"),
		SetMinExperience(7),
		Dismiss("2"),
		ToggleBookmark("4"),
		SetQuery("new"),
	)

	assert.Equal(t, snapshot, original)
	require.NotNil(t, original.Filters.MinExperience)
	assert.Equal(t, 3, *original.Filters.MinExperience)
}

func TestReduce_ToggleSkill(t *testing.T) {
	state := reduceAll(t, NewState(), ToggleSkill("Go"), ToggleSkill("React"))
	assert.Equal(t, []string{"Go", "React"}, state.Filters.Skills)

	state = reduceAll(t, state, ToggleSkill("Go"))
	assert.Equal(t, []string{"React"}, state.Filters.Skills)
}

func TestReduce_DismissSurvivesClearFilters(t *testing.T) {
	posts := FallbackPostings()

	state := reduceAll(t, NewState(), SetQuery("engineer"), Dismiss("1"), ClearFilters())

	assert.True(t, state.Filters.IsEmpty())
	page := View(posts, state, DefaultPageSize)
	assert.NotContains(t, ids(page.Items), "1")
	assert.Len(t, page.Items, len(posts)-1)
}

func TestReduce_DismissIsIdempotent(t *testing.T) {
	state := reduceAll(t, NewState(), Dismiss("1"), Dismiss("1"))

	assert.Equal(t, []string{"1"}, state.Dismissed)
	assert.True(t, state.IsDismissed("1"))
}

func TestReduce_SetPageClamps(t *testing.T) {
	state := reduceAll(t, NewState(), GoToPage(-2))
	assert.Equal(t, 1, state.Page)
}

func TestReduce_Errors(t *testing.T) {
	tests := []struct {
		name   string
		action Action
		target any
	}{
		{name: "unknown type", action: Action{Type: "explode"}, target: new(*UnknownActionError)},
		{name: "dismiss without id", action: Action{Type: ActionDismiss}, target: new(*InvalidActionError)},
		{name: "bookmark without id", action: Action{Type: ActionToggleBookmark}, target: new(*InvalidActionError)},
		{name: "experience without value", action: Action{Type: ActionSetMinExperience}, target: new(*InvalidActionError)},
		{name: "blank skill", action: ToggleSkill("  "), target: new(*InvalidActionError)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := reduceAll(t, NewState(), GoToPage(2))
			got, err := Reduce(start, tt.action)
			require.Error(t, err)
			assert.ErrorAs(t, err, tt.target)
			assert.Equal(t, start, got, "state must be unchanged on error")
		})
	}
}

func TestFilterState_Clone(t *testing.T) {
	f := types.FilterState{MinExperience: intPtr(2), Skills: []string{"Go"}}
	c := f.Clone()
	*c.MinExperience = 9
	c.Skills[0] = "Rust"

	assert.Equal(t, 2, *f.MinExperience)
	assert.Equal(t, "Go", f.Skills[0])
}
