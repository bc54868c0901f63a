package search

import (
	"testing"
	"time"

	"github.com/google/go-github/v53/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func repoFixture() *github.Repository {
	name := "octo/widgets"
	url := "https://github.com/octo/widgets"
	desc := "A widget factory"
	lang := "Go"
	stars := 1200
	forks := 80
	issues := 40
	size := 2048
	created := github.Timestamp{Time: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}
	pushed := github.Timestamp{Time: time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC)}

	return &github.Repository{
		FullName:        &name,
		HTMLURL:         &url,
		Description:     &desc,
		Language:        &lang,
		StargazersCount: &stars,
		ForksCount:      &forks,
		OpenIssuesCount: &issues,
		Size:            &size,
		Topics:          []string{"widgets", "factory"},
		CreatedAt:       &created,
		PushedAt:        &pushed,
	}
}

func TestMapCandidate(t *testing.T) {
	cand, ok := mapCandidate(repoFixture())
	require.True(t, ok)

	assert.Equal(t, "octo/widgets", cand.Name)
	assert.Equal(t, "https://github.com/octo/widgets", cand.URL)
	assert.Equal(t, 1200, cand.Stars)
	assert.Equal(t, 80, cand.Forks)
	assert.Equal(t, 40, cand.OpenIssues)
	assert.Equal(t, "Go", cand.LanguageName())
	assert.Equal(t, "A widget factory", cand.DescriptionText())
	assert.Len(t, cand.Topics, 2)
}

func TestMapCandidateSkipsIncompleteRecords(t *testing.T) {
	tests := []struct {
		name  string
		strip func(r *github.Repository)
	}{
		{"missing full name", func(r *github.Repository) { r.FullName = nil }},
		{"missing url", func(r *github.Repository) { r.HTMLURL = nil }},
		{"missing stars", func(r *github.Repository) { r.StargazersCount = nil }},
		{"missing created_at", func(r *github.Repository) { r.CreatedAt = nil }},
		{"missing pushed_at", func(r *github.Repository) { r.PushedAt = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := repoFixture()
			tt.strip(repo)
			_, ok := mapCandidate(repo)
			assert.False(t, ok)
		})
	}
}

func TestMapCandidateDefaultsOptionalFields(t *testing.T) {
	repo := repoFixture()
	repo.Description = nil
	repo.Language = nil
	repo.ForksCount = nil
	repo.OpenIssuesCount = nil
	repo.Topics = nil

	cand, ok := mapCandidate(repo)
	require.True(t, ok)
	assert.Equal(t, "", cand.DescriptionText())
	assert.Equal(t, "Unknown", cand.LanguageName())
	assert.Zero(t, cand.Forks)
	assert.Zero(t, cand.OpenIssues)
	assert.Empty(t, cand.Topics)
}

func TestRateLimitErrorMessage(t *testing.T) {
	reset := time.Date(2026, 8, 28, 14, 30, 0, 0, time.UTC)
	err := &RateLimitError{ResetAt: reset}
	assert.Contains(t, err.Error(), "rate limit exceeded")
	assert.Contains(t, err.Error(), "resets at")

	zero := &RateLimitError{}
	assert.Equal(t, "github search rate limit exceeded", zero.Error())
}
