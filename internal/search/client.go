package search

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/go-github/v53/github"
	"golang.org/x/oauth2"

	"github-radar/internal/project"
)

// RateLimitError is returned when the search API refuses the request
// because the token's quota is exhausted. It is fatal for the run; retrying
// is the caller's decision, not ours.
type RateLimitError struct {
	ResetAt time.Time
}

func (e *RateLimitError) Error() string {
	if e.ResetAt.IsZero() {
		return "github search rate limit exceeded"
	}
	return fmt.Sprintf("github search rate limit exceeded, resets at %s", e.ResetAt.Local().Format("2006-01-02 15:04:05"))
}

type Client struct {
	gh       *github.Client
	criteria Criteria
}

func NewClient(token string, criteria Criteria) *Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(context.Background(), ts)

	return &Client{
		gh:       github.NewClient(tc),
		criteria: criteria,
	}
}

// FetchCandidates runs one repository search and maps the result into
// candidates. Records missing required fields are skipped with a warning;
// one bad record must never abort the run.
func (c *Client) FetchCandidates(ctx context.Context) ([]project.Candidate, error) {
	query := BuildQuery(c.criteria, time.Now())
	log.Printf("🔍 Searching GitHub | query: %s", query)

	opts := &github.SearchOptions{
		Sort:        c.criteria.SortBy,
		Order:       c.criteria.SortOrder,
		ListOptions: github.ListOptions{PerPage: c.criteria.MaxResults},
	}

	result, _, err := c.gh.Search.Repositories(ctx, query, opts)
	if err != nil {
		var rateErr *github.RateLimitError
		if errors.As(err, &rateErr) {
			return nil, &RateLimitError{ResetAt: rateErr.Rate.Reset.Time}
		}
		var abuseErr *github.AbuseRateLimitError
		if errors.As(err, &abuseErr) {
			reset := time.Time{}
			if abuseErr.RetryAfter != nil {
				reset = time.Now().Add(*abuseErr.RetryAfter)
			}
			return nil, &RateLimitError{ResetAt: reset}
		}
		return nil, fmt.Errorf("github search failed: %w", err)
	}

	candidates := make([]project.Candidate, 0, len(result.Repositories))
	for _, repo := range result.Repositories {
		cand, ok := mapCandidate(repo)
		if !ok {
			log.Printf("⚠️ Skipping incomplete repo record: %s", repo.GetFullName())
			continue
		}
		candidates = append(candidates, cand)
	}

	log.Printf("✅ Fetched %d candidates (%d total matches)", len(candidates), result.GetTotal())
	return candidates, nil
}

// mapCandidate converts one API record. Name, URL, star count and both
// timestamps are required; everything else defaults.
func mapCandidate(repo *github.Repository) (project.Candidate, bool) {
	if repo.FullName == nil || repo.HTMLURL == nil || repo.StargazersCount == nil ||
		repo.CreatedAt == nil || repo.PushedAt == nil {
		return project.Candidate{}, false
	}

	return project.Candidate{
		Name:        *repo.FullName,
		URL:         *repo.HTMLURL,
		Description: repo.Description,
		Language:    repo.Language,
		Stars:       *repo.StargazersCount,
		Forks:       repo.GetForksCount(),
		OpenIssues:  repo.GetOpenIssuesCount(),
		Size:        repo.GetSize(),
		Topics:      repo.Topics,
		CreatedAt:   repo.CreatedAt.Time.UTC(),
		PushedAt:    repo.PushedAt.Time.UTC(),
	}, true
}
