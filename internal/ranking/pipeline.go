package ranking

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github-radar/internal/project"
)

// Pipeline runs the full ranking pass: score, threshold, predicate filter
// with one-shot relaxation, diversity selection, truncation. It holds no
// state between runs and never mutates its input, so independent
// configurations can run it in parallel.
type Pipeline struct {
	Profile    Profile
	Filter     *Filter
	MaxResults int
}

type Options struct {
	Profile      Profile
	MinScore     float64
	MinForkRatio float64
	MinAgeDays   float64
	MaxStaleDays float64
	MinStars     int
	MaxResults   int
}

func New(opts Options) *Pipeline {
	return &Pipeline{
		Profile: opts.Profile,
		Filter: &Filter{
			MinScore: opts.MinScore,
			Strict:   StrictPredicates(opts.MinForkRatio, opts.MinAgeDays, opts.MaxStaleDays),
			Relaxed:  RelaxedPredicates(opts.MinStars),
		},
		MaxResults: opts.MaxResults,
	}
}

// Run ranks a fetched candidate batch. An empty batch, or one that filters
// down to nothing, yields an empty list, never an error.
func (p *Pipeline) Run(candidates []project.Candidate, now time.Time) []project.Scored {
	runID := uuid.NewString()[:8]
	log.Printf("🔍 [%s] Ranking %d candidates | profile: %s", runID, len(candidates), p.Profile.Name)

	scored := p.Filter.Threshold(candidates, p.Profile, now)
	log.Printf("ℹ️ [%s] %d candidates at or above quality %.1f", runID, len(scored), p.Filter.MinScore)

	filtered := p.Filter.Apply(scored, now)
	log.Printf("ℹ️ [%s] %d candidates after predicate filters", runID, len(filtered))

	diverse := SelectDiverse(filtered, p.MaxResults)
	if len(diverse) > p.MaxResults {
		diverse = diverse[:p.MaxResults]
	}

	if len(diverse) > 0 {
		avg := lo.SumBy(diverse, func(s project.Scored) float64 { return s.QualityScore }) / float64(len(diverse))
		log.Printf("🎯 [%s] Selected %d projects | average quality: %.2f", runID, len(diverse), avg)
	} else {
		log.Printf("⚠️ [%s] No projects selected this run", runID)
	}
	return diverse
}
