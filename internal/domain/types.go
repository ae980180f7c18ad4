package domain

import (
	"errors"
	"fmt"
)

// Session is one recorded council consultation. The logical ID is stable and
// time-derived; it is not assumed to equal the storage filename.
type Session struct {
	ID           string            `json:"id"`
	Topic        string            `json:"topic"`
	Question     string            `json:"question"`
	Date         string            `json:"date"`
	Personas     map[string]string `json:"personas"`
	Labels       map[string]string `json:"labels,omitempty"`
	PriorContext string            `json:"prior_context,omitempty"`
	Rounds       []Round           `json:"rounds"`
	Rating       *int              `json:"rating,omitempty"`
	Outcome      *Outcome          `json:"outcome,omitempty"`
	Archived     bool              `json:"archived"`
}

// Round is one exchange appended to a session. It stays map-shaped because
// legacy files carry provider keys and per-seat values that are either bare
// text or {persona, response} objects; unrecognized fields round-trip intact.
type Round map[string]any

// Number returns the 1-based round index, or 0 when absent.
func (r Round) Number() int {
	switch n := r["round"].(type) {
	case int:
		return n
	case float64:
		return int(n)
	}
	return 0
}

// Response returns the bare response text for a seat. Structured
// {persona, response} values are collapsed to their response text.
func (r Round) Response(seat string) string {
	switch v := r[seat].(type) {
	case string:
		return v
	case map[string]any:
		if text, ok := v["response"].(string); ok {
			return text
		}
	}
	return ""
}

// Synthesis returns the mediator synthesis for the round, if any.
func (r Round) Synthesis() string {
	s, _ := r["synthesis"].(string)
	return s
}

// Outcome records what happened after the council's advice.
type Outcome struct {
	Status string `json:"status"`
	Note   string `json:"note"`
	Date   string `json:"date"`
}

// Outcome status values with a relevance weighting attached. Free-text
// statuses are allowed and weigh neutrally.
const (
	OutcomeFollowed = "followed"
	OutcomePartial  = "partial"
	OutcomeIgnored  = "ignored"
	OutcomeWrong    = "wrong"
)

// Summary is the lightweight listing view of a session.
type Summary struct {
	ID       string   `json:"id"`
	Topic    string   `json:"topic"`
	Question string   `json:"question"`
	Date     string   `json:"date"`
	Rounds   int      `json:"rounds"`
	Rating   *int     `json:"rating,omitempty"`
	Outcome  *Outcome `json:"outcome,omitempty"`
	Archived bool     `json:"archived"`
	File     string   `json:"file,omitempty"`
}

// RelevanceResult scores one prior session against a new question.
type RelevanceResult struct {
	Summary
	RelevanceScore   float64  `json:"relevance_score"`
	BaseScore        float64  `json:"base_score"`
	RatingWeight     float64  `json:"rating_weight"`
	OutcomeWeight    float64  `json:"outcome_weight"`
	MatchingKeywords []string `json:"matching_keywords"`
}

// Seats returns the canonical seat IDs for a council of the given size.
func Seats(count int) []string {
	seats := make([]string, count)
	for i := range seats {
		seats[i] = SeatID(i + 1)
	}
	return seats
}

// SeatID formats the canonical ID for the nth seat (1-based).
func SeatID(n int) string {
	return fmt.Sprintf("seat_%d", n)
}

// ValidateRating rejects ratings outside 1-5 before anything touches storage.
func ValidateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}
	return nil
}

// ErrInvalidRating marks a rating outside the 1-5 range.
var ErrInvalidRating = errors.New("rating must be between 1 and 5")
