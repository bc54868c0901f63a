package ranking

import (
	"sort"

	"github.com/samber/lo"

	"github-radar/internal/project"
)

// SelectDiverse rebalances the final pick across primary languages: when
// there are few languages every one gets at least a slot, when there are
// more languages than slots the most-starred languages win. Within a
// language the best-scored projects go first, and leftover slots are topped
// up from the best of the rest. Output is at most target long, has no
// duplicate URLs, and is sorted by score descending.
func SelectDiverse(scored []project.Scored, target int) []project.Scored {
	if len(scored) == 0 || target <= 0 {
		return nil
	}

	groups := lo.GroupBy(scored, func(s project.Scored) string {
		return s.LanguageName()
	})
	languages := lo.Keys(groups)
	sort.Strings(languages)

	perLanguage := 1
	if len(languages) <= target {
		perLanguage = max(1, target/len(languages))
	} else {
		// More languages than slots: the most-starred ones get the slots.
		sort.SliceStable(languages, func(i, j int) bool {
			return groupStars(groups[languages[i]]) > groupStars(groups[languages[j]])
		})
		languages = languages[:target]
	}

	var selected []project.Scored
	for _, lang := range languages {
		group := byScoreDesc(groups[lang])
		count := perLanguage
		if count > len(group) {
			count = len(group)
		}
		selected = append(selected, group[:count]...)
	}

	// Fill remaining slots with the best unselected projects, whatever
	// their language.
	if remaining := target - len(selected); remaining > 0 {
		taken := make(map[string]bool, len(selected))
		for _, s := range selected {
			taken[s.URL] = true
		}
		rest := lo.Filter(scored, func(s project.Scored, _ int) bool {
			return !taken[s.URL]
		})
		rest = byScoreDesc(rest)
		if remaining > len(rest) {
			remaining = len(rest)
		}
		selected = append(selected, rest[:remaining]...)
	}

	if len(selected) > target {
		selected = selected[:target]
	}
	return byScoreDesc(selected)
}

func groupStars(group []project.Scored) int {
	return lo.SumBy(group, func(s project.Scored) int { return s.Stars })
}

func byScoreDesc(scored []project.Scored) []project.Scored {
	out := make([]project.Scored, len(scored))
	copy(out, scored)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].QualityScore > out[j].QualityScore
	})
	return out
}
