package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/jonathan/jobboard/internal/types"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resetFlags restores every flag of cmd and its subcommands to its default,
// since flag values live in package globals shared across executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace([]string{})
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// executeCommand runs the root command in-process and returns its output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("UPSTREAM_URL", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("NATS_URL", "")

	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

// fakeBackend is an httptest postings backend.
type fakeBackend struct {
	*httptest.Server
	posts    []types.JobPosting
	created  []types.JobPosting
	requests atomic.Int32
	fail     bool
}

func newFakeBackend(t *testing.T, posts ...types.JobPosting) *fakeBackend {
	t.Helper()
	b := &fakeBackend{posts: posts}
	b.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.requests.Add(1)
		if b.fail {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/allPosts":
			_ = json.NewEncoder(w).Encode(b.posts)
		case r.Method == http.MethodPost && r.URL.Path == "/post":
			var post types.JobPosting
			if err := json.NewDecoder(r.Body).Decode(&post); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			post.ID = "created-1"
			b.created = append(b.created, post)
			_ = json.NewEncoder(w).Encode(post)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(b.Close)
	return b
}

func samplePostings() []types.JobPosting {
	return []types.JobPosting{
		{ID: "p1", Title: "Go Developer", Company: "Acme", Experience: 2, Skills: []string{"Go", "PostgreSQL"}, Description: "APIs", Status: types.StatusActive, EmployerID: "emp-1", Applications: 3, Views: 40},
		{ID: "p2", Title: "Java Engineer", Company: "Globex", Experience: 5, Skills: []string{"Java", "Spring"}, Description: "Backend", Status: types.StatusActive, EmployerID: "emp-2"},
		{ID: "p3", Title: "Data Scientist", Company: "Initech", Experience: 4, Skills: []string{"Python"}, Description: "Models", Status: types.StatusClosed, EmployerID: "emp-1", Applications: 7, Views: 90},
	}
}
