package prompt

import (
	"math/rand"
	"time"
)

// tips rotate through briefings and the tip command to surface discoverable
// features.
var tips = []string{
	`Say "archive this" to save a Markdown copy to ~/Documents/council/`,
	"/rate 1-5 to rate this session — higher-rated advice surfaces more in future councils",
	"Use /council-debate to stress-test a decision the council agreed on",
	`/council-outcome followed "what happened" tracks whether advice worked out`,
	`Say "show me the raw response from Advisor 1" for the full unabridged take`,
	"/council-history to browse, recap, or resume past sessions",
	"Use --fun to add a chaotic persona like The Jokester or The Time Traveler",
	`Use --personas "Contrarian, Economist, Radical" to pick your own council`,
	"The council remembers past sessions — related history is included automatically",
	"Run /council-help for a quick reference of all commands and features",
}

// Rand matches the random-choice provider used elsewhere.
type Rand interface {
	Intn(n int) int
}

// RandomTip picks one tip. A nil rng falls back to a time-seeded source.
func RandomTip(rng Rand) string {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return tips[rng.Intn(len(tips))]
}
