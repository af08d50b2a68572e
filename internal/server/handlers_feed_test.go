package server

import (
	"math"
	"net/http"
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/jobboard/internal/feed"
	"github.com/jonathan/jobboard/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feedIDs(items []types.JobPosting) []string {
	ids := make([]string, len(items))
	for i, p := range items {
		ids[i] = p.ID
	}
	return ids
}

func TestFeed(t *testing.T) {
	ts := newTestServer(t)
	ts.mem.Seed(seedPostings()...)

	tests := []struct {
		name       string
		query      string
		wantIDs    []string
		wantTotal  int
		wantPages  int
		wantEmpty  bool
		wantStatus int
	}{
		{name: "first page", query: "", wantIDs: []string{"p1", "p2", "p3", "p4"}, wantTotal: 6, wantPages: 2},
		{name: "second page", query: "page=2", wantIDs: []string{"p5", "p6"}, wantTotal: 6, wantPages: 2},
		{name: "query is case-insensitive", query: "q=DEVELOPER", wantIDs: []string{"p1", "p5", "p6"}, wantTotal: 3, wantPages: 1},
		{name: "blank query disables search", query: "q=%20%20", wantIDs: []string{"p1", "p2", "p3", "p4"}, wantTotal: 6, wantPages: 2},
		{name: "minimum experience", query: "exp=4", wantIDs: []string{"p2", "p3", "p5"}, wantTotal: 3, wantPages: 1},
		{name: "skill substring matches", query: "skills=Java", wantIDs: []string{"p2", "p5"}, wantTotal: 2, wantPages: 1},
		{name: "skills as repeated and comma list", query: "skills=Python&skills=Docker,Rust", wantIDs: []string{"p3", "p4"}, wantTotal: 2, wantPages: 1},
		{name: "dismissed ids", query: "dismissed=p1,p2", wantIDs: []string{"p3", "p4", "p5", "p6"}, wantTotal: 4, wantPages: 1},
		{name: "combined filters", query: "q=engineer&exp=4", wantIDs: []string{"p2"}, wantTotal: 1, wantPages: 1},
		{name: "no match is empty", query: "q=cobol", wantIDs: []string{}, wantTotal: 0, wantPages: 0, wantEmpty: true},
		{name: "page past the end", query: "page=9", wantIDs: []string{}, wantTotal: 6, wantPages: 2},
		{name: "custom page size", query: "size=5", wantIDs: []string{"p1", "p2", "p3", "p4", "p5"}, wantTotal: 6, wantPages: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, http.MethodGet, "/feed?"+tt.query, nil, "")

			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			resp := decode[FeedResponse](t, w)
			assert.Equal(t, tt.wantIDs, feedIDs(resp.Items))
			assert.Equal(t, tt.wantTotal, resp.TotalCount)
			assert.Equal(t, tt.wantPages, resp.TotalPages)
			assert.Equal(t, tt.wantEmpty, resp.Empty)
			assert.False(t, resp.Fallback)
			assert.Empty(t, resp.Notice)
		})
	}
}

func TestFeed_InvalidParams(t *testing.T) {
	ts := newTestServer(t)

	for _, query := range []string{"exp=abc", "exp=-1", "page=x", "size=-3"} {
		w := ts.do(t, http.MethodGet, "/feed?"+query, nil, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, query)
	}
}

func TestFeed_HugePageNumber(t *testing.T) {
	ts := newTestServer(t)
	ts.mem.Seed(seedPostings()...)
	huge := strconv.Itoa(math.MaxInt/feed.DefaultPageSize + 2)

	w := ts.do(t, http.MethodGet, "/feed?page="+huge, nil, "")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[FeedResponse](t, w)
	assert.Empty(t, resp.Items)
	assert.Equal(t, 6, resp.TotalCount)
}

func openSession(t *testing.T, ts *testServer, body any) SessionResponse {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/feed/sessions", body, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[SessionResponse](t, w)
}

func TestFeedSession_Lifecycle(t *testing.T) {
	ts := newTestServer(t)
	ts.mem.Seed(seedPostings()...)

	opened := openSession(t, ts, nil)
	id := opened.Session.ID.String()
	assert.Equal(t, 1, opened.Session.State.Page)
	assert.Equal(t, 6, opened.Page.TotalCount)
	assert.Equal(t, 1, ts.sessions.Len())

	t.Run("single action", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, "/feed/sessions/"+id+"/actions", feed.Dismiss("p1"), "")

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		resp := decode[SessionResponse](t, w)
		assert.Equal(t, []string{"p1"}, resp.Session.State.Dismissed)
		assert.Equal(t, 5, resp.Page.TotalCount)
	})

	t.Run("batch of actions", func(t *testing.T) {
		body := map[string]any{"actions": []feed.Action{feed.SetQuery("developer"), feed.ToggleBookmark("p5")}}
		w := ts.do(t, http.MethodPost, "/feed/sessions/"+id+"/actions", body, "")

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		resp := decode[SessionResponse](t, w)
		assert.Equal(t, []string{"p5", "p6"}, feedIDs(resp.Page.Items))
		assert.Equal(t, []string{"p5"}, resp.Session.State.Bookmarked)
	})

	t.Run("failed batch leaves the session unchanged", func(t *testing.T) {
		body := `{"actions":[{"type":"setQuery","query":"data"},{"type":"teleport"}]}`
		w := ts.do(t, http.MethodPost, "/feed/sessions/"+id+"/actions", body, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = ts.do(t, http.MethodGet, "/feed/sessions/"+id, nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[SessionResponse](t, w)
		assert.Equal(t, "developer", resp.Session.State.Filters.Query)
	})

	t.Run("empty action body", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, "/feed/sessions/"+id+"/actions", `{}`, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("page size from query", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/feed/sessions/"+id+"?size=1", nil, "")
		resp := decode[SessionResponse](t, w)
		assert.Equal(t, 1, resp.Page.PageSize)
		assert.Equal(t, 2, resp.Page.TotalPages)
	})

	t.Run("close", func(t *testing.T) {
		w := ts.do(t, http.MethodDelete, "/feed/sessions/"+id, nil, "")
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = ts.do(t, http.MethodGet, "/feed/sessions/"+id, nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Zero(t, ts.sessions.Len())
	})
}

func TestFeedSession_OpenWithActions(t *testing.T) {
	ts := newTestServer(t)
	ts.mem.Seed(seedPostings()...)

	resp := openSession(t, ts, map[string]any{"actions": []feed.Action{feed.SetSkills("go")}})

	// "go" is a substring of MongoDB as well as Go.
	assert.Equal(t, []string{"p1", "p6"}, feedIDs(resp.Page.Items))
}

func TestFeedSession_OpenWithInvalidActionClosesSession(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/feed/sessions", `{"type":"dismiss"}`, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, ts.sessions.Len())
}

func TestFeedSession_Errors(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/feed/sessions/not-a-uuid", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodGet, "/feed/sessions/"+uuid.NewString(), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, http.MethodPost, "/feed/sessions/"+uuid.NewString()+"/actions", feed.GoToPage(2), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFeedSession_FallbackNotice(t *testing.T) {
	ts := newTestServer(t, func(d *Deps) {
		d.Loader = newFailingLoader()
	})

	resp := openSession(t, ts, nil)

	assert.Equal(t, feed.FallbackNotice, resp.Session.Notice)
	assert.Equal(t, len(feed.FallbackPostings()), resp.Page.TotalCount)
}
