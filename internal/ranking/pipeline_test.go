package ranking

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github-radar/internal/project"
)

func pipelineFixture(maxResults int) *Pipeline {
	return New(Options{
		Profile:      TrendingProfile(),
		MinScore:     60,
		MinForkRatio: 0.05,
		MinAgeDays:   7,
		MaxStaleDays: 7,
		MinStars:     100,
		MaxResults:   maxResults,
	})
}

// healthyCandidate sails through scoring and every strict predicate.
func healthyCandidate(i int) project.Candidate {
	lang := fmt.Sprintf("Lang%d", i)
	return project.Candidate{
		Name:        fmt.Sprintf("org/repo%d", i),
		URL:         fmt.Sprintf("https://github.com/org/repo%d", i),
		Description: strPtr(strings.Repeat("good description ", 10)),
		Language:    &lang,
		Stars:       1000 + i,
		Forks:       500,
		OpenIssues:  100,
		Topics:      []string{"a", "b", "c"},
		CreatedAt:   scoreNow.AddDate(0, 0, -400),
		PushedAt:    scoreNow.AddDate(0, 0, -1),
	}
}

func TestPipelineRunTruncatesToMaxResults(t *testing.T) {
	p := pipelineFixture(3)

	var candidates []project.Candidate
	for i := 0; i < 10; i++ {
		candidates = append(candidates, healthyCandidate(i))
	}

	out := p.Run(candidates, scoreNow)
	assert.LessOrEqual(t, len(out), 3)
	require.NotEmpty(t, out)

	seen := map[string]bool{}
	for _, s := range out {
		assert.False(t, seen[s.URL], "duplicate url in output")
		seen[s.URL] = true
		assert.GreaterOrEqual(t, s.QualityScore, 60.0)
		assert.LessOrEqual(t, s.QualityScore, 100.0)
	}
}

func TestPipelineRunEmptyInput(t *testing.T) {
	p := pipelineFixture(5)
	assert.Empty(t, p.Run(nil, scoreNow))
}

func TestPipelineRunOutputIsSubsetOfInput(t *testing.T) {
	p := pipelineFixture(10)

	candidates := []project.Candidate{
		healthyCandidate(1),
		healthyCandidate(2),
	}
	inputURLs := map[string]bool{}
	for _, c := range candidates {
		inputURLs[c.URL] = true
	}

	for _, s := range p.Run(candidates, scoreNow) {
		assert.True(t, inputURLs[s.URL], "pipeline fabricated %s", s.URL)
	}
}

func TestPipelineRunDoesNotMutateInput(t *testing.T) {
	p := pipelineFixture(5)

	candidates := []project.Candidate{healthyCandidate(1)}
	originalDesc := *candidates[0].Description
	originalTopics := append([]string(nil), candidates[0].Topics...)

	p.Run(candidates, scoreNow)

	assert.Equal(t, originalDesc, *candidates[0].Description)
	assert.Equal(t, originalTopics, candidates[0].Topics)
}

func TestPipelineRelaxationKeepsRunAlive(t *testing.T) {
	p := pipelineFixture(5)

	// All candidates fail the strict topic predicate but hold a
	// description and enough stars for the relaxed set.
	var candidates []project.Candidate
	for i := 0; i < 4; i++ {
		c := healthyCandidate(i)
		c.Topics = nil
		candidates = append(candidates, c)
	}

	out := p.Run(candidates, scoreNow)
	assert.NotEmpty(t, out)
}
