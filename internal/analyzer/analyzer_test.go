package analyzer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github-radar/internal/project"
)

func strPtr(s string) *string { return &s }

func scoredFixture() project.Scored {
	return project.Scored{
		Candidate: project.Candidate{
			Name:        "octo/widgets",
			URL:         "https://github.com/octo/widgets",
			Description: strPtr("A toolkit to Hack together widgets"),
			Language:    strPtr("Go"),
			Stars:       1200,
			Forks:       80,
			Topics:      []string{"widgets", "exploit-free"},
		},
		QualityScore: 87.3,
	}
}

func TestSanitizeCopyDoesNotMutateOriginal(t *testing.T) {
	original := scoredFixture()
	copied := sanitizeCopy(original)

	assert.Equal(t, "A toolkit to Hack together widgets", *original.Description)
	assert.Equal(t, "exploit-free", original.Topics[1])

	assert.Equal(t, "a toolkit to access together widgets", *copied.Description)
	assert.Equal(t, "utilize-free", copied.Topics[1])
}

func TestBuildPrompt(t *testing.T) {
	p := scoredFixture()
	prompt := buildPrompt(p)

	assert.Contains(t, prompt, "octo/widgets")
	assert.Contains(t, prompt, "https://github.com/octo/widgets")
	assert.Contains(t, prompt, "Stars: 1200")
	assert.Contains(t, prompt, "87.3/100")

	p.Description = nil
	p.Topics = nil
	prompt = buildPrompt(p)
	assert.Contains(t, prompt, "no description")
	assert.Contains(t, prompt, "Topics: none")
}

func TestFormatAnalysis(t *testing.T) {
	raw := "# Heading\n\n\n\nThis is **bold** and `code`.  \n\n  Trailing spaces here.   "
	got := formatAnalysis(raw)

	assert.NotContains(t, got, "#")
	assert.NotContains(t, got, "*")
	assert.NotContains(t, got, "`")
	assert.NotContains(t, got, "\n\n\n")
	assert.Equal(t, "Heading\n\nThis is bold and code.\n\nTrailing spaces here.", got)
}

func chatServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func testAnalyzer(url string) *Analyzer {
	a := New(Config{
		APIKey:          "test-key",
		APIURL:          url,
		Model:           "test-model",
		MaxTokens:       100,
		RequestInterval: time.Millisecond,
	})
	a.retryBase = time.Millisecond
	return a
}

func TestAnalyzeProjectsAttachesAnalysis(t *testing.T) {
	srv := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		require.Len(t, req.Messages, 1)

		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "A solid widget toolkit."}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	})

	a := testAnalyzer(srv.URL)
	out := a.AnalyzeProjects(context.Background(), []project.Scored{scoredFixture()})

	require.Len(t, out, 1)
	assert.Equal(t, "A solid widget toolkit.", out[0].Analysis)
}

func TestAnalyzeProjectsPlaceholderOnFailure(t *testing.T) {
	srv := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
	})

	a := testAnalyzer(srv.URL)
	out := a.AnalyzeProjects(context.Background(), []project.Scored{scoredFixture()})

	require.Len(t, out, 1)
	assert.Contains(t, out[0].Analysis, "Analysis unavailable")
	assert.Contains(t, out[0].Analysis, "https://github.com/octo/widgets")
}

func TestAnalyzeProjectsRetriesTransientErrors(t *testing.T) {
	calls := 0
	srv := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "Recovered."}},
			},
		})
	})

	a := testAnalyzer(srv.URL)
	out := a.AnalyzeProjects(context.Background(), []project.Scored{scoredFixture()})

	require.Len(t, out, 1)
	assert.Equal(t, "Recovered.", out[0].Analysis)
	assert.Equal(t, 3, calls)
}
