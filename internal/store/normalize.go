package store

import "github.com/pbaille/council/internal/domain"

// legacyKeyMap remaps the old per-provider seat keys to canonical seat IDs.
var legacyKeyMap = map[string]string{
	"codex":  "seat_1",
	"gemini": "seat_2",
	"claude": "seat_3",
}

// legacyLabels are synthesized when a legacy session has no label map.
var legacyLabels = map[string]string{
	"seat_1": "Codex (OpenAI)",
	"seat_2": "Gemini (Google)",
	"seat_3": "Claude (Anthropic)",
}

// Normalize rewrites the closed set of recognized legacy shapes into the
// canonical one, in place. Every step is additive: canonical fields are never
// overwritten, unrecognized fields are left untouched, and running Normalize
// twice is the same as running it once.
func Normalize(s *domain.Session) {
	hadLegacyPersonas := false
	for old := range legacyKeyMap {
		if _, ok := s.Personas[old]; ok {
			hadLegacyPersonas = true
			break
		}
	}

	for old, canonical := range legacyKeyMap {
		value, ok := s.Personas[old]
		if !ok {
			continue
		}
		if _, taken := s.Personas[canonical]; !taken {
			s.Personas[canonical] = value
		}
		delete(s.Personas, old)
	}

	if hadLegacyPersonas && len(s.Labels) == 0 {
		s.Labels = make(map[string]string, len(legacyLabels))
		for seat, label := range legacyLabels {
			s.Labels[seat] = label
		}
	}

	for _, round := range s.Rounds {
		normalizeRound(round)
	}
}

func normalizeRound(round domain.Round) {
	for old, canonical := range legacyKeyMap {
		value, ok := round[old]
		if !ok {
			continue
		}
		if _, taken := round[canonical]; !taken {
			round[canonical] = value
		}
		delete(round, old)
	}

	// Old records called the mediator output a briefing.
	if briefing, ok := round["briefing"]; ok {
		if _, taken := round["synthesis"]; !taken {
			round["synthesis"] = briefing
		}
		delete(round, "briefing")
	}

	flattenResponses(round)

	for seat := range seatKeys(round) {
		round[seat] = collapseResponse(round[seat])
	}
}

// flattenResponses lifts a legacy "responses" container (positional list or
// seat-keyed map) into flat per-seat fields, filling only seats that are not
// already canonical.
func flattenResponses(round domain.Round) {
	container, ok := round["responses"]
	if !ok {
		return
	}
	switch c := container.(type) {
	case []any:
		for i, value := range c {
			seat := domain.SeatID(i + 1)
			if _, taken := round[seat]; !taken {
				round[seat] = value
			}
		}
	case map[string]any:
		for key, value := range c {
			seat := key
			if canonical, legacy := legacyKeyMap[key]; legacy {
				seat = canonical
			} else if !isSeatKey(key) {
				continue
			}
			if _, taken := round[seat]; !taken {
				round[seat] = value
			}
		}
	default:
		// Not a shape we recognize; leave it alone.
		return
	}
	delete(round, "responses")
}

// collapseResponse reduces a structured {persona, response} value to its bare
// response text. Anything else passes through unchanged.
func collapseResponse(value any) any {
	m, ok := value.(map[string]any)
	if !ok {
		return value
	}
	text, ok := m["response"].(string)
	if !ok {
		return value
	}
	if _, hasPersona := m["persona"]; !hasPersona && len(m) > 1 {
		return value
	}
	return text
}

// NormalizeSeatMap applies the legacy key remap to a bare seat→response map,
// the shape the similarity and synthesis inputs arrive in, and collapses
// structured {persona, response} values to their text. Unrecognized keys pass
// through untouched.
func NormalizeSeatMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for key, value := range m {
		out[key] = value
	}
	for old, canonical := range legacyKeyMap {
		value, ok := out[old]
		if !ok {
			continue
		}
		if _, taken := out[canonical]; !taken {
			out[canonical] = value
		}
		delete(out, old)
	}
	for key, value := range out {
		out[key] = collapseResponse(value)
	}
	return out
}

func seatKeys(round domain.Round) map[string]struct{} {
	keys := map[string]struct{}{}
	for key := range round {
		if isSeatKey(key) {
			keys[key] = struct{}{}
		}
	}
	return keys
}

func isSeatKey(key string) bool {
	if len(key) < 6 || key[:5] != "seat_" {
		return false
	}
	for _, r := range key[5:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
