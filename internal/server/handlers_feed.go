package server

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/jobboard/internal/feed"
)

// maxPageSize caps the page size a client may request.
const maxPageSize = 100

// maxActionsBody bounds feed session action bodies.
const maxActionsBody = 64 << 10

// FeedResponse is one page of the job feed.
type FeedResponse struct {
	feed.Page
	Notice   string `json:"notice,omitempty"`
	Fallback bool   `json:"fallback"`
}

// SessionResponse is a feed session with its current page.
type SessionResponse struct {
	Session feed.Session `json:"session"`
	Page    feed.Page    `json:"page"`
}

// actionsRequest is the body of a session action call: either a single
// action or a batch under "actions".
type actionsRequest struct {
	feed.Action
	Actions []feed.Action `json:"actions,omitempty"`
}

func (req actionsRequest) list() []feed.Action {
	if len(req.Actions) > 0 {
		return req.Actions
	}
	if req.Type == "" {
		return nil
	}
	return []feed.Action{req.Action}
}

// queryList collects a repeated query parameter, also splitting
// comma-separated values. Blank entries are dropped.
func queryList(r *http.Request, key string) []string {
	var out []string
	for _, raw := range r.URL.Query()[key] {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

// pageSizeParam reads the size query parameter.
func (s *Server) pageSizeParam(r *http.Request) (int, error) {
	size, err := parseQueryInt(r, "size", s.pageSize, maxPageSize)
	if err != nil {
		return 0, err
	}
	if size == 0 {
		size = s.pageSize
	}
	return size, nil
}

// feedState builds a feed state from query parameters: q, exp, skills,
// dismissed and page.
func feedState(r *http.Request) (feed.State, error) {
	var actions []feed.Action
	q := r.URL.Query()

	if q.Has("q") {
		actions = append(actions, feed.SetQuery(q.Get("q")))
	}
	if q.Get("exp") != "" {
		years, err := parseQueryInt(r, "exp", 0, 0)
		if err != nil {
			return feed.State{}, err
		}
		actions = append(actions, feed.SetMinExperience(years))
	}
	if skills := queryList(r, "skills"); len(skills) > 0 {
		actions = append(actions, feed.SetSkills(skills...))
	}
	for _, id := range queryList(r, "dismissed") {
		actions = append(actions, feed.Dismiss(id))
	}
	page, err := parseQueryInt(r, "page", 1, 0)
	if err != nil {
		return feed.State{}, err
	}
	actions = append(actions, feed.GoToPage(page))

	state := feed.NewState()
	for _, a := range actions {
		if state, err = feed.Reduce(state, a); err != nil {
			return feed.State{}, err
		}
	}
	return state, nil
}

// handleFeed returns a stateless page of the filtered feed.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	state, err := feedState(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	size, err := s.pageSizeParam(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	listing := s.loader.Load(r.Context())
	s.jsonResponse(w, http.StatusOK, FeedResponse{
		Page:     feed.View(listing.Posts, state, size),
		Notice:   listing.Notice,
		Fallback: listing.Fallback,
	})
}

// handleOpenSession loads the listing and opens a feed session over it.
// An optional body of actions is applied to the new session.
func (s *Server) handleOpenSession(w http.ResponseWriter, r *http.Request) {
	size, err := s.pageSizeParam(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	actions, err := s.decodeActions(w, r, true)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	listing := s.loader.Load(r.Context())
	session := s.sessions.Open(listing.Posts, listing.Notice)
	if len(actions) > 0 {
		applied, err := s.sessions.ApplyAll(session.ID, actions)
		if err != nil {
			s.sessions.Close(session.ID)
			s.errorResponse(w, err)
			return
		}
		session = applied
	}

	s.jsonResponse(w, http.StatusCreated, SessionResponse{Session: session, Page: session.View(size)})
}

// handleGetSession returns the session's current page.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	size, err := s.pageSizeParam(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	session, err := s.sessions.Get(id)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, SessionResponse{Session: session, Page: session.View(size)})
}

// handleSessionActions applies one action or a batch to a session. A batch
// is all-or-nothing.
func (s *Server) handleSessionActions(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	size, err := s.pageSizeParam(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	actions, err := s.decodeActions(w, r, false)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	session, err := s.sessions.ApplyAll(id, actions)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, SessionResponse{Session: session, Page: session.View(size)})
}

// handleCloseSession discards a session.
func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.sessions.Close(id)
	w.WriteHeader(http.StatusNoContent)
}

func sessionID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: "id", Message: "must be a session UUID"}
	}
	return id, nil
}

// decodeActions reads the action body. An empty body is allowed only when
// optional is set.
func (s *Server) decodeActions(w http.ResponseWriter, r *http.Request, optional bool) ([]feed.Action, error) {
	if optional && r.ContentLength == 0 {
		return nil, nil
	}
	var req actionsRequest
	if err := decodeJSON(w, r, maxActionsBody, &req); err != nil {
		return nil, err
	}

	actions := req.list()
	if len(actions) == 0 && !optional {
		return nil, &ErrValidation{Field: "actions", Message: "at least one action is required"}
	}
	return actions, nil
}
