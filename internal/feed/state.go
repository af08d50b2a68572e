package feed

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jonathan/jobboard/internal/types"
)

// State is an immutable snapshot of a job seeker's feed view.
// Reduce never modifies its input; it returns a new State.
type State struct {
	Filters    types.FilterState `json:"filters"`
	Dismissed  []string          `json:"dismissed"`
	Bookmarked []string          `json:"bookmarked"`
	Page       int               `json:"page"`
}

// NewState returns the initial state: no filters, nothing dismissed, page 1.
func NewState() State {
	return State{
		Dismissed:  []string{},
		Bookmarked: []string{},
		Page:       1,
	}
}

// IsBookmarked reports whether the posting id is bookmarked.
func (s State) IsBookmarked(id string) bool {
	return slices.Contains(s.Bookmarked, id)
}

// IsDismissed reports whether the posting id is dismissed.
func (s State) IsDismissed(id string) bool {
	return slices.Contains(s.Dismissed, id)
}

func (s State) clone() State {
	return State{
		Filters:    s.Filters.Clone(),
		Dismissed:  append([]string{}, s.Dismissed...),
		Bookmarked: append([]string{}, s.Bookmarked...),
		Page:       s.Page,
	}
}

// ActionType names a feed state transition.
type ActionType string

// Feed actions
const (
	ActionSetQuery           ActionType = "setQuery"
	ActionSetMinExperience   ActionType = "setMinExperience"
	ActionClearMinExperience ActionType = "clearMinExperience"
	ActionToggleSkill        ActionType = "toggleSkill"
	ActionSetSkills          ActionType = "setSkills"
	ActionClearFilters       ActionType = "clearFilters"
	ActionDismiss            ActionType = "dismiss"
	ActionToggleBookmark     ActionType = "toggleBookmark"
	ActionSetPage            ActionType = "setPage"
)

// Action is a single feed state transition. Only the fields relevant to
// Type are read.
type Action struct {
	Type       ActionType `json:"type"`
	Query      string     `json:"query,omitempty"`
	Experience *int       `json:"experience,omitempty"`
	Skill      string     `json:"skill,omitempty"`
	Skills     []string   `json:"skills,omitempty"`
	ID         string     `json:"id,omitempty"`
	Page       int        `json:"page,omitempty"`
}

// SetQuery replaces the free-text query.
func SetQuery(q string) Action { return Action{Type: ActionSetQuery, Query: q} }

// SetMinExperience sets the minimum years of experience.
func SetMinExperience(years int) Action {
	return Action{Type: ActionSetMinExperience, Experience: &years}
}

// ClearMinExperience removes the experience threshold.
func ClearMinExperience() Action { return Action{Type: ActionClearMinExperience} }

// ToggleSkill adds the skill to the selection, or removes it if present.
func ToggleSkill(skill string) Action { return Action{Type: ActionToggleSkill, Skill: skill} }

// SetSkills replaces the skill selection.
func SetSkills(skills ...string) Action { return Action{Type: ActionSetSkills, Skills: skills} }

// ClearFilters resets query, experience and skills. Dismissed ids survive.
func ClearFilters() Action { return Action{Type: ActionClearFilters} }

// Dismiss hides a posting for the rest of the session.
func Dismiss(id string) Action { return Action{Type: ActionDismiss, ID: id} }

// ToggleBookmark bookmarks or un-bookmarks a posting.
func ToggleBookmark(id string) Action { return Action{Type: ActionToggleBookmark, ID: id} }

// GoToPage moves to the given 1-indexed page.
func GoToPage(page int) Action { return Action{Type: ActionSetPage, Page: page} }

// UnknownActionError is returned by Reduce for an unrecognized action type.
type UnknownActionError struct {
	Type ActionType
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("unknown feed action: %q", e.Type)
}

// InvalidActionError is returned when an action is missing a required value.
type InvalidActionError struct {
	Type    ActionType
	Message string
}

func (e *InvalidActionError) Error() string {
	return fmt.Sprintf("invalid %s action: %s", e.Type, e.Message)
}

// Reduce applies action to state and returns the resulting state.
// Any change to the filtered list (a filter change or a dismissal) resets
// the page to 1, so a stale page number never shows an empty page.
func Reduce(state State, action Action) (State, error) {
	next := state.clone()

	switch action.Type {
	case ActionSetQuery:
		next.Filters.Query = action.Query
		next.Page = 1

	case ActionSetMinExperience:
		if action.Experience == nil {
			return state, &InvalidActionError{Type: action.Type, Message: "experience is required"}
		}
		years := *action.Experience
		next.Filters.MinExperience = &years
		next.Page = 1

	case ActionClearMinExperience:
		next.Filters.MinExperience = nil
		next.Page = 1

	case ActionToggleSkill:
		skill := strings.TrimSpace(action.Skill)
		if skill == "" {
			return state, &InvalidActionError{Type: action.Type, Message: "skill is required"}
		}
		if i := slices.Index(next.Filters.Skills, skill); i >= 0 {
			next.Filters.Skills = slices.Delete(next.Filters.Skills, i, i+1)
		} else {
			next.Filters.Skills = append(next.Filters.Skills, skill)
		}
		next.Page = 1

	case ActionSetSkills:
		next.Filters.Skills = append([]string(nil), action.Skills...)
		next.Page = 1

	case ActionClearFilters:
		next.Filters = types.FilterState{}
		next.Page = 1

	case ActionDismiss:
		if action.ID == "" {
			return state, &InvalidActionError{Type: action.Type, Message: "id is required"}
		}
		if !slices.Contains(next.Dismissed, action.ID) {
			next.Dismissed = append(next.Dismissed, action.ID)
		}
		next.Page = 1

	case ActionToggleBookmark:
		if action.ID == "" {
			return state, &InvalidActionError{Type: action.Type, Message: "id is required"}
		}
		if i := slices.Index(next.Bookmarked, action.ID); i >= 0 {
			next.Bookmarked = slices.Delete(next.Bookmarked, i, i+1)
		} else {
			next.Bookmarked = append(next.Bookmarked, action.ID)
		}

	case ActionSetPage:
		next.Page = max(action.Page, 1)

	default:
		return state, &UnknownActionError{Type: action.Type}
	}

	return next, nil
}
