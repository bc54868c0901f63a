package ranking

import (
	"fmt"
	"math"
	"time"

	"github-radar/internal/project"
)

// Profile is one named tuning of the quality heuristic. Weights sum to 100;
// every sub-score is clamped to its own weight and the total to [0,100].
//
// Exactly one of GrowthWeight (fork-to-star ratio, a growth-potential
// signal) and PopularityWeight (raw stars against a reference) should be
// set, and likewise either the size-based or the composite maturity block.
type Profile struct {
	Name string

	RecencyWeight     float64
	RecencyWindowDays float64

	// Growth policy: forks/stars ratio, doubled and capped.
	GrowthWeight float64

	// Popularity policy: stars scaled against PopularityReference.
	PopularityWeight    float64
	PopularityReference float64

	MaintenanceWeight float64
	IdealIssueRatio   float64

	// Composite maturity: age + topic completeness + description length.
	AgeWeight        float64
	AgeHorizonDays   float64
	TopicsWeight     float64
	TopicsReference  float64
	DescWeight       float64
	DescReferenceLen float64

	// Size maturity: repository size against a reference, in KB.
	SizeWeight    float64
	SizeReference float64
}

// TrendingProfile favors young projects with momentum: a tight 7-day
// recency window and the fork ratio read as growth potential.
func TrendingProfile() Profile {
	return Profile{
		Name:              "trending",
		RecencyWeight:     35,
		RecencyWindowDays: 7,
		GrowthWeight:      25,
		MaintenanceWeight: 20,
		IdealIssueRatio:   0.1,
		AgeWeight:         10,
		AgeHorizonDays:    730,
		TopicsWeight:      5,
		TopicsReference:   5,
		DescWeight:        5,
		DescReferenceLen:  100,
	}
}

// EstablishedProfile favors proven projects: a 180-day recency window, raw
// popularity against a 10k-star reference, and size as the maturity signal.
func EstablishedProfile() Profile {
	return Profile{
		Name:                "established",
		RecencyWeight:       30,
		RecencyWindowDays:   180,
		PopularityWeight:    40,
		PopularityReference: 10000,
		MaintenanceWeight:   20,
		IdealIssueRatio:     0.1,
		SizeWeight:          10,
		SizeReference:       5000,
	}
}

func ProfileByName(name string) (Profile, error) {
	switch name {
	case "", "trending":
		return TrendingProfile(), nil
	case "established":
		return EstablishedProfile(), nil
	}
	return Profile{}, fmt.Errorf("unknown scoring profile %q", name)
}

// Score computes the 0-100 quality score for one candidate at the given
// instant. Day arithmetic is done in UTC on both sides.
func (p Profile) Score(c project.Candidate, now time.Time) float64 {
	now = now.UTC()

	total := p.recencyScore(c, now)

	// Star-ratio sub-scores contribute nothing when stars is zero; they
	// must never divide by it.
	if c.Stars > 0 {
		if p.GrowthWeight > 0 {
			ratio := float64(c.Forks) / float64(c.Stars)
			total += p.GrowthWeight * math.Min(ratio*2, 1)
		}
		if p.PopularityWeight > 0 {
			total += math.Min(p.PopularityWeight*float64(c.Stars)/p.PopularityReference, p.PopularityWeight)
		}

		issueRatio := float64(c.OpenIssues) / float64(c.Stars)
		total += p.MaintenanceWeight * (1 - math.Min(math.Abs(issueRatio-p.IdealIssueRatio)*5, 1))
	}

	total += p.maturityScore(c, now)

	return math.Min(math.Max(total, 0), 100)
}

func (p Profile) recencyScore(c project.Candidate, now time.Time) float64 {
	days := now.Sub(c.PushedAt.UTC()).Hours() / 24
	if days < 0 {
		days = 0
	}
	return p.RecencyWeight * (1 - math.Min(days/p.RecencyWindowDays, 1))
}

func (p Profile) maturityScore(c project.Candidate, now time.Time) float64 {
	if p.SizeWeight > 0 {
		return p.SizeWeight * math.Min(float64(c.Size)/p.SizeReference, 1)
	}

	ageDays := now.Sub(c.CreatedAt.UTC()).Hours() / 24
	if ageDays < 0 {
		ageDays = 0
	}
	age := p.AgeWeight * math.Min(ageDays/p.AgeHorizonDays, 1)
	topics := p.TopicsWeight * math.Min(float64(len(c.Topics))/p.TopicsReference, 1)
	desc := p.DescWeight * math.Min(float64(len(c.DescriptionText()))/p.DescReferenceLen, 1)
	return age + topics + desc
}
