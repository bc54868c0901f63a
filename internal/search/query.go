package search

import (
	"fmt"
	"strings"
	"time"
)

// Criteria holds the search side of the configuration. It is read-only for
// the duration of a run.
type Criteria struct {
	Keywords         []string
	MinStars         int
	Language         string
	MaxResults       int
	UpdateWithinDays int
	MinForkRatio     float64
	ExcludeForks     bool
	SortBy           string
	SortOrder        string
}

// starRangeFactor widens the star filter into a range instead of an open
// minimum, so the search also surfaces smaller projects with momentum.
const starRangeFactor = 500

// BuildQuery turns the criteria into a single GitHub search qualifier
// string. Pure function: the same criteria and instant always produce the
// same query. Clauses are emitted in a fixed order and joined by spaces.
//
// Example: "llm OR agents stars:100..50000 language:go pushed:2026-08-21..2026-08-28 forks:>=5 fork:false good-first-issues:>0 topics:>=2"
func BuildQuery(c Criteria, now time.Time) string {
	now = now.UTC()
	from := now.AddDate(0, 0, -c.UpdateWithinDays).Format("2006-01-02")
	to := now.Format("2006-01-02")

	var parts []string

	if len(c.Keywords) > 0 {
		parts = append(parts, strings.Join(c.Keywords, " OR "))
	}

	parts = append(parts, fmt.Sprintf("stars:%d..%d", c.MinStars, c.MinStars*starRangeFactor))

	if c.Language != "" {
		parts = append(parts, "language:"+c.Language)
	}

	parts = append(parts, fmt.Sprintf("pushed:%s..%s", from, to))

	// Fork floor derived from the star threshold: a repo nobody forks is
	// rarely worth reporting on.
	parts = append(parts, fmt.Sprintf("forks:>=%d", int(float64(c.MinStars)*c.MinForkRatio)))

	if c.ExcludeForks {
		parts = append(parts, "fork:false")
	}

	parts = append(parts, "good-first-issues:>0")
	parts = append(parts, "topics:>=2")

	return strings.Join(parts, " ")
}
