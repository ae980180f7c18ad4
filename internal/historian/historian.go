// Package historian ranks prior sessions by weighted keyword relevance to a
// new question.
package historian

import (
	"math"
	"sort"

	"github.com/pbaille/council/internal/domain"
	"github.com/pbaille/council/internal/keywords"
)

const (
	scoreFloor = 0.05
	maxResults = 3
)

// Lister is the slice of the session store the historian reads.
type Lister interface {
	List() ([]domain.Summary, error)
}

// Result pairs the ranked matches with the query's keyword set, which callers
// surface as diagnostics.
type Result struct {
	Related       []domain.RelevanceResult `json:"related"`
	QueryKeywords []string                 `json:"query_keywords"`
}

// Retrieve scores every stored session against the question and returns at
// most the top three with composite score above 0.05. No match is an empty
// result, not an error.
func Retrieve(sessions Lister, question string) (Result, error) {
	query := keywords.Extract(question)
	if len(query) == 0 {
		return Result{Related: []domain.RelevanceResult{}, QueryKeywords: []string{}}, nil
	}

	summaries, err := sessions.List()
	if err != nil {
		return Result{}, err
	}

	var scored []domain.RelevanceResult
	for _, s := range summaries {
		set := keywords.Extract(s.Topic + " " + s.Question)
		if len(set) == 0 {
			continue
		}
		overlap := query.Intersect(set)
		if len(overlap) == 0 {
			// Empty intersection means a composite of exactly zero; skip early.
			continue
		}

		base := float64(len(overlap)) / float64(len(query.Union(set)))
		ratingWeight := RatingWeight(s.Rating)
		outcomeWeight := OutcomeWeight(s.Outcome)

		// Rounded before ranking, so near-ties can land on the rounding.
		composite := round3(base * ratingWeight * outcomeWeight)

		scored = append(scored, domain.RelevanceResult{
			Summary:          s,
			RelevanceScore:   composite,
			BaseScore:        round3(base),
			RatingWeight:     round2(ratingWeight),
			OutcomeWeight:    outcomeWeight,
			MatchingKeywords: overlap.Sorted(),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].RelevanceScore > scored[j].RelevanceScore
	})

	related := make([]domain.RelevanceResult, 0, maxResults)
	for _, r := range scored {
		if r.RelevanceScore <= scoreFloor {
			continue
		}
		related = append(related, r)
		if len(related) == maxResults {
			break
		}
	}

	return Result{Related: related, QueryKeywords: query.Sorted()}, nil
}

// RatingWeight scales relevance by the session's 1-5 rating. Unrated sessions
// weigh neutrally, as if rated 3.
func RatingWeight(rating *int) float64 {
	r := 3
	if rating != nil {
		r = *rating
	}
	return float64(r) / 3.0
}

// OutcomeWeight boosts sessions whose advice worked out and discounts ones
// where it went wrong. Absent or unrecognized statuses weigh neutrally.
func OutcomeWeight(outcome *domain.Outcome) float64 {
	if outcome == nil {
		return 1.0
	}
	switch outcome.Status {
	case domain.OutcomeFollowed:
		return 1.2
	case domain.OutcomeWrong:
		return 0.5
	case domain.OutcomePartial:
		return 0.9
	case domain.OutcomeIgnored:
		return 0.8
	default:
		return 1.0
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
