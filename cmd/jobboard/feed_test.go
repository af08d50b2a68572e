package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/jobboard/internal/feed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedCommand(t *testing.T) {
	backend := newFakeBackend(t, samplePostings()...)

	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
	}{
		{
			name: "all postings",
			args: []string{},
			want: []string{"Go Developer", "Java Engineer", "Data Scientist", "Page 1 of 1 (3 postings)"},
		},
		{
			name:    "query",
			args:    []string{"--query", "ENGINEER"},
			want:    []string{"Java Engineer"},
			notWant: []string{"Go Developer"},
		},
		{
			name:    "minimum experience",
			args:    []string{"--exp", "4"},
			want:    []string{"Java Engineer", "Data Scientist"},
			notWant: []string{"Go Developer"},
		},
		{
			name:    "skills",
			args:    []string{"--skill", "python,go"},
			want:    []string{"Go Developer", "Data Scientist"},
			notWant: []string{"Java Engineer"},
		},
		{
			name:    "dismissed",
			args:    []string{"--dismiss", "p1", "--dismiss", "p2"},
			want:    []string{"Data Scientist"},
			notWant: []string{"Go Developer", "Java Engineer"},
		},
		{
			name:    "second page",
			args:    []string{"--page-size", "2", "--page", "2"},
			want:    []string{"Page 2 of 2 (3 postings)", "Data Scientist"},
			notWant: []string{"Go Developer"},
		},
		{
			name: "no match",
			args: []string{"--query", "cobol"},
			want: []string{"No jobs match your filters."},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"feed", "--url", backend.URL}, tt.args...)
			out, err := executeCommand(t, args...)

			require.NoError(t, err)
			for _, s := range tt.want {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.notWant {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestFeedCommand_FallbackWhenBackendFails(t *testing.T) {
	backend := newFakeBackend(t)
	backend.fail = true

	out, err := executeCommand(t, "feed", "--url", backend.URL, "--page-size", "20")

	require.NoError(t, err)
	assert.Contains(t, out, feed.FallbackNotice)
	for _, p := range feed.FallbackPostings() {
		assert.Contains(t, out, "id: "+p.ID+" ")
	}
}

func TestFeedCommand_InvalidFlags(t *testing.T) {
	_, err := executeCommand(t, "feed", "--exp", "-1")
	assert.ErrorContains(t, err, "--exp")

	_, err = executeCommand(t, "feed", "--page-size", "-2")
	assert.ErrorContains(t, err, "--page-size")
}

func TestFeedCommand_ConfigFile(t *testing.T) {
	backend := newFakeBackend(t, samplePostings()...)
	path := filepath.Join(t.TempDir(), "jobboard.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"upstream_url":"`+backend.URL+`","page_size":1}`), 0o644))

	out, err := executeCommand(t, "feed", "--config", path)

	require.NoError(t, err)
	assert.Contains(t, out, "Page 1 of 3 (3 postings)")
	assert.Positive(t, backend.requests.Load())
}

func TestFeedCommand_FlagOverridesConfigFile(t *testing.T) {
	backend := newFakeBackend(t, samplePostings()...)
	path := filepath.Join(t.TempDir(), "jobboard.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"upstream_url":"http://127.0.0.1:1"}`), 0o644))

	out, err := executeCommand(t, "feed", "--config", path, "--url", backend.URL)

	require.NoError(t, err)
	assert.NotContains(t, out, feed.FallbackNotice)
	assert.Contains(t, out, "Go Developer")
}

func TestFeedCommand_InvalidConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobboard.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"upstream_url":"not-absolute"}`), 0o644))

	_, err := executeCommand(t, "feed", "--config", path)

	assert.ErrorContains(t, err, "upstream_url")
}
