package postings

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonathan/jobboard/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL, nil, nil)
	require.NoError(t, err)
	return c
}

func TestNewClient_InvalidURL(t *testing.T) {
	for _, raw := range []string{"", "localhost:8080", "://bad"} {
		_, err := NewClient(raw, nil, nil)
		assert.Error(t, err, raw)
	}
}

func TestClient_List(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/allPosts", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"id":"a1","profile":"Go Developer","company":"Acme","exp":3,"techs":["Go"],"desc":"Build"}]`)
	})

	posts, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "a1", posts[0].ID)
	assert.Equal(t, "Go Developer", posts[0].Title)
	assert.Equal(t, []string{"Go"}, posts[0].Skills)
}

func TestClient_ListNullBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `null`)
	})

	posts, err := c.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
}

func TestClient_SearchEscapesText(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/posts/full stack", r.URL.Path)
		assert.Equal(t, "/posts/full%20stack", r.URL.EscapedPath())
		_, _ = io.WriteString(w, `[]`)
	})

	posts, err := c.Search(context.Background(), "full stack")
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestClient_Create(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/post", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var got types.JobPosting
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "Platform Engineer", got.Title)

		got.ID = "srv-1"
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(got)
	})

	created, err := c.Create(context.Background(), &types.JobPosting{Title: "Platform Engineer", Company: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, "srv-1", created.ID)
}

func TestClient_CreateMissingID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"profile":"x"}`)
	})

	_, err := c.Create(context.Background(), &types.JobPosting{Title: "x"})
	var e *Error
	assert.ErrorAs(t, err, &e)
}

func TestClient_StatusErrorCarriesBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, "profile is required")
	})

	_, err := c.Create(context.Background(), &types.JobPosting{})
	require.Error(t, err)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.StatusCode)
	assert.Equal(t, "Backend error: 400 - profile is required", err.Error())
	assert.True(t, IsStatus(err, http.StatusBadRequest))
	assert.False(t, IsStatus(err, http.StatusInternalServerError))
}

func TestClient_ContextCancellation(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.List(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_Ping(t *testing.T) {
	t.Run("connected", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `[]`)
		})
		status := c.Ping(context.Background())
		assert.True(t, status.Connected)
		assert.Equal(t, http.StatusOK, status.StatusCode)
	})

	t.Run("bad status", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
		status := c.Ping(context.Background())
		assert.False(t, status.Connected)
		assert.Equal(t, "Backend responded with status: 503", status.Message)
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		c, err := NewClient(srv.URL, nil, nil)
		require.NoError(t, err)

		status := c.Ping(context.Background())
		assert.False(t, status.Connected)
		assert.Contains(t, status.Message, "Connection failed")
	})
}
