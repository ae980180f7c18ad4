// Package consensus measures how much independently produced advisor
// responses agree, via pairwise Jaccard similarity over keyword sets.
package consensus

import (
	"math"
	"sort"

	"github.com/pbaille/council/internal/keywords"
)

// Threshold above which the average pairwise similarity counts as consensus.
const Threshold = 0.6

// Pair is the similarity between one unordered seat pair. SharedKeywords is
// populated only when both sides extracted at least one keyword.
type Pair struct {
	Seats          [2]string `json:"agents"`
	Jaccard        float64   `json:"jaccard"`
	SharedKeywords []string  `json:"shared_keywords"`
}

// Report is the consensus verdict over a full response set.
type Report struct {
	Pairs             []Pair  `json:"pairs"`
	AverageSimilarity float64 `json:"average_similarity"`
	HighConsensus     bool    `json:"high_consensus"`
}

// Score computes pairwise similarity for every unordered pair of seats.
// A pair of two empty keyword sets scores 0; it is counted, not skipped, so
// the average stays defined over all pairs. Fewer than two seats averages 0.
func Score(responses map[string]string) Report {
	seats := make([]string, 0, len(responses))
	for seat := range responses {
		seats = append(seats, seat)
	}
	sort.Strings(seats)

	sets := make(map[string]keywords.Set, len(seats))
	for _, seat := range seats {
		sets[seat] = keywords.Extract(responses[seat])
	}

	pairs := []Pair{}
	total := 0.0
	for i := 0; i < len(seats); i++ {
		for j := i + 1; j < len(seats); j++ {
			a, b := seats[i], seats[j]
			sa, sb := sets[a], sets[b]
			jaccard := round3(keywords.Jaccard(sa, sb))
			shared := []string{}
			if len(sa) > 0 && len(sb) > 0 {
				shared = sa.Intersect(sb).Sorted()
			}
			pairs = append(pairs, Pair{
				Seats:          [2]string{a, b},
				Jaccard:        jaccard,
				SharedKeywords: shared,
			})
			total += jaccard
		}
	}

	average := 0.0
	if len(pairs) > 0 {
		average = round3(total / float64(len(pairs)))
	}

	return Report{
		Pairs:             pairs,
		AverageSimilarity: average,
		HighConsensus:     average > Threshold,
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
