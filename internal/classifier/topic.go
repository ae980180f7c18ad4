// Package classifier maps a free-text question to a topic category by keyword
// scoring against the catalog's topic table.
package classifier

import (
	"strings"

	"github.com/pbaille/council/internal/catalog"
)

// FallbackTopic is used when no category scores above zero.
const FallbackTopic = "architecture"

// Result holds the classification output.
type Result struct {
	Topic    string         `json:"topic"`
	Scores   map[string]int `json:"scores"`
	Personas []string       `json:"personas"`
}

// Classify counts, per category, how many of its keywords appear as
// substrings of the lowercased question. Multi-word keywords ("system
// design") match as substrings, not as separate tokens. The highest count
// wins; ties break toward the category declared first in the table.
func Classify(cat *catalog.Catalog, question string) Result {
	lower := strings.ToLower(question)

	scores := map[string]int{}
	winner := ""
	best := 0
	for _, topic := range cat.Topics() {
		score := 0
		for _, kw := range topic.Keywords {
			if strings.Contains(lower, kw) {
				score++
			}
		}
		if score > 0 {
			scores[topic.Name] = score
		}
		if score > best {
			best = score
			winner = topic.Name
		}
	}

	if winner == "" {
		winner = FallbackTopic
	}

	triad := []string(nil)
	if t, ok := cat.Topic(winner); ok {
		triad = append(triad, t.Triad...)
	}

	return Result{Topic: winner, Scores: scores, Personas: triad}
}
