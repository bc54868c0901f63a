package ranking

import (
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/samber/lo"

	"github-radar/internal/project"
)

// Predicates are data, not closures: a named field, an operator and a
// threshold. That keeps the strict and relaxed sets declarative and lets
// logs name the predicate that did the cutting.

type Field string

const (
	FieldStars          Field = "stars"
	FieldForkRatio      Field = "fork_ratio"
	FieldTopicCount     Field = "topic_count"
	FieldDescriptionLen Field = "description_len"
	FieldAgeDays        Field = "age_days"
	FieldStalenessDays  Field = "staleness_days"
)

type Op string

const (
	OpGte Op = ">="
	OpLte Op = "<="
	OpGt  Op = ">"
)

type Predicate struct {
	Name      string
	Field     Field
	Op        Op
	Threshold float64
}

// value extracts the predicate's field from a scored project. A missing
// description reads as -1 so ">= 0" doubles as a non-nil check.
func (p Predicate) value(s project.Scored, now time.Time) float64 {
	switch p.Field {
	case FieldStars:
		return float64(s.Stars)
	case FieldForkRatio:
		if s.Stars == 0 {
			return 0
		}
		return float64(s.Forks) / float64(s.Stars)
	case FieldTopicCount:
		return float64(len(s.Topics))
	case FieldDescriptionLen:
		if s.Description == nil {
			return -1
		}
		return float64(len(*s.Description))
	case FieldAgeDays:
		return now.UTC().Sub(s.CreatedAt.UTC()).Hours() / 24
	case FieldStalenessDays:
		return now.UTC().Sub(s.PushedAt.UTC()).Hours() / 24
	}
	return 0
}

func (p Predicate) Keep(s project.Scored, now time.Time) bool {
	v := p.value(s, now)
	switch p.Op {
	case OpGte:
		return v >= p.Threshold
	case OpLte:
		return v <= p.Threshold
	case OpGt:
		return v > p.Threshold
	}
	return false
}

func (p Predicate) String() string {
	return fmt.Sprintf("%s(%s %s %g)", p.Name, p.Field, p.Op, p.Threshold)
}

// StrictPredicates is the default Stage-B set.
func StrictPredicates(minForkRatio, minAgeDays, maxStaleDays float64) []Predicate {
	return []Predicate{
		{Name: "has_real_description", Field: FieldDescriptionLen, Op: OpGt, Threshold: 30},
		{Name: "has_topics", Field: FieldTopicCount, Op: OpGte, Threshold: 1},
		{Name: "fork_ratio_floor", Field: FieldForkRatio, Op: OpGte, Threshold: minForkRatio},
		{Name: "not_too_young", Field: FieldAgeDays, Op: OpGte, Threshold: minAgeDays},
		{Name: "recently_pushed", Field: FieldStalenessDays, Op: OpLte, Threshold: maxStaleDays},
	}
}

// RelaxedPredicates is the looser fallback set: any description at all, and
// the configured star floor.
func RelaxedPredicates(minStars int) []Predicate {
	return []Predicate{
		{Name: "has_description", Field: FieldDescriptionLen, Op: OpGte, Threshold: 0},
		{Name: "star_floor", Field: FieldStars, Op: OpGte, Threshold: float64(minStars)},
	}
}

// minSurvivors is the count below which the strict Stage-B result is
// discarded and the relaxed set applied once.
const minSurvivors = 3

type Filter struct {
	MinScore float64
	Strict   []Predicate
	Relaxed  []Predicate
}

// Threshold is Stage A: score every candidate against the profile, keep
// those at or above MinScore, and sort by push time then score, both
// descending. The input slice is never mutated.
func (f *Filter) Threshold(candidates []project.Candidate, profile Profile, now time.Time) []project.Scored {
	scored := make([]project.Scored, 0, len(candidates))
	for _, c := range candidates {
		score := profile.Score(c, now)
		if score >= f.MinScore {
			scored = append(scored, project.Scored{Candidate: c, QualityScore: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if !scored[i].PushedAt.Equal(scored[j].PushedAt) {
			return scored[i].PushedAt.After(scored[j].PushedAt)
		}
		return scored[i].QualityScore > scored[j].QualityScore
	})
	return scored
}

// Apply is Stage B: AND the strict predicates over the Stage-A survivors.
// If fewer than minSurvivors remain, the strict result is thrown away and
// the relaxed set is applied once against the same Stage-A input. There is
// no second relaxation and a small result is not an error.
func (f *Filter) Apply(scored []project.Scored, now time.Time) []project.Scored {
	strict := applyPredicates(scored, f.Strict, now)
	if len(strict) >= minSurvivors {
		return strict
	}

	log.Printf("⚠️ Only %d projects survived strict filtering, relaxing predicates...", len(strict))
	return applyPredicates(scored, f.Relaxed, now)
}

func applyPredicates(scored []project.Scored, predicates []Predicate, now time.Time) []project.Scored {
	out := scored
	for _, pred := range predicates {
		pred := pred
		out = lo.Filter(out, func(s project.Scored, _ int) bool {
			return pred.Keep(s, now)
		})
	}
	return out
}
