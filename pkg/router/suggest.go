package router

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// closestMatch finds the candidate that most resembles target, or "" when
// nothing is close enough to be worth suggesting.
func closestMatch(target string, candidates []string) string {
	if len(candidates) == 0 || target == "" {
		return ""
	}

	ranks := fuzzy.RankFindFold(target, candidates)
	if len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}

	best, bestDist := "", len(target)/2+1
	for _, c := range candidates {
		if d := fuzzy.LevenshteinDistance(target, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
