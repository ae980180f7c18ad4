package store

import (
	"reflect"
	"testing"

	"github.com/pbaille/council/internal/domain"
)

func legacySession() *domain.Session {
	return &domain.Session{
		ID:       "2024-11-02-10-15-legacy",
		Topic:    "legacy",
		Question: "old format",
		Personas: map[string]string{
			"codex":  "The Pragmatist",
			"gemini": "The Economist",
			"claude": "The Contrarian",
		},
		Rounds: []domain.Round{
			{
				"round":    1.0,
				"codex":    "codex take",
				"gemini":   "gemini take",
				"claude":   "claude take",
				"briefing": "the old briefing",
			},
		},
	}
}

func TestNormalizeLegacyPersonaKeys(t *testing.T) {
	s := legacySession()
	Normalize(s)

	want := map[string]string{
		"seat_1": "The Pragmatist",
		"seat_2": "The Economist",
		"seat_3": "The Contrarian",
	}
	if !reflect.DeepEqual(s.Personas, want) {
		t.Fatalf("personas not remapped: %+v", s.Personas)
	}
	if s.Labels["seat_1"] != "Codex (OpenAI)" || s.Labels["seat_3"] != "Claude (Anthropic)" {
		t.Fatalf("labels not synthesized: %+v", s.Labels)
	}
}

func TestNormalizeLegacyRound(t *testing.T) {
	s := legacySession()
	Normalize(s)

	round := s.Rounds[0]
	if round.Response("seat_1") != "codex take" || round.Response("seat_2") != "gemini take" {
		t.Fatalf("round keys not remapped: %+v", round)
	}
	if _, ok := round["codex"]; ok {
		t.Fatalf("legacy key should be removed")
	}
	if round.Synthesis() != "the old briefing" {
		t.Fatalf("briefing should become synthesis, got %q", round.Synthesis())
	}
	if _, ok := round["briefing"]; ok {
		t.Fatalf("briefing key should be removed")
	}
}

func TestNormalizeKeepsExistingLabels(t *testing.T) {
	s := legacySession()
	s.Labels = map[string]string{"seat_1": "Custom"}
	Normalize(s)
	if len(s.Labels) != 1 || s.Labels["seat_1"] != "Custom" {
		t.Fatalf("existing labels must not be overwritten: %+v", s.Labels)
	}
}

func TestNormalizeNeverOverwritesCanonical(t *testing.T) {
	s := &domain.Session{
		Personas: map[string]string{
			"seat_1": "The Keeper",
			"codex":  "The Usurper",
		},
		Rounds: []domain.Round{
			{"seat_1": "canonical text", "codex": "legacy text"},
		},
	}
	Normalize(s)
	if s.Personas["seat_1"] != "The Keeper" {
		t.Fatalf("canonical persona overwritten: %+v", s.Personas)
	}
	if s.Rounds[0].Response("seat_1") != "canonical text" {
		t.Fatalf("canonical round value overwritten: %+v", s.Rounds[0])
	}
	if _, ok := s.Rounds[0]["codex"]; ok {
		t.Fatalf("legacy key should still be removed")
	}
}

func TestNormalizeResponsesList(t *testing.T) {
	s := &domain.Session{
		Personas: map[string]string{"seat_1": "A", "seat_2": "B"},
		Rounds: []domain.Round{
			{
				"round":     1.0,
				"responses": []any{"first take", "second take"},
			},
		},
	}
	Normalize(s)
	round := s.Rounds[0]
	if round.Response("seat_1") != "first take" || round.Response("seat_2") != "second take" {
		t.Fatalf("positional responses not flattened: %+v", round)
	}
	if _, ok := round["responses"]; ok {
		t.Fatalf("responses container should be removed")
	}
}

func TestNormalizeResponsesMapWithLegacyKeys(t *testing.T) {
	s := &domain.Session{
		Rounds: []domain.Round{
			{
				"responses": map[string]any{
					"codex":  "c take",
					"seat_2": "g take",
					"extra":  "ignored",
				},
			},
		},
	}
	Normalize(s)
	round := s.Rounds[0]
	if round.Response("seat_1") != "c take" || round.Response("seat_2") != "g take" {
		t.Fatalf("map responses not flattened: %+v", round)
	}
	if _, ok := round["extra"]; ok {
		t.Fatalf("non-seat keys inside the container must not leak into the round")
	}
}

func TestNormalizeUnrecognizedResponsesShape(t *testing.T) {
	s := &domain.Session{
		Rounds: []domain.Round{{"responses": "just a string"}},
	}
	Normalize(s)
	if s.Rounds[0]["responses"] != "just a string" {
		t.Fatalf("unrecognized container must pass through untouched")
	}
}

func TestNormalizeCollapsesStructuredResponse(t *testing.T) {
	s := &domain.Session{
		Rounds: []domain.Round{
			{
				"seat_1": map[string]any{"persona": "The Contrarian", "response": "disagree"},
				"seat_2": map[string]any{"response": "agree"},
				"seat_3": map[string]any{"response": "hmm", "confidence": 0.4},
			},
		},
	}
	Normalize(s)
	round := s.Rounds[0]
	if round["seat_1"] != "disagree" || round["seat_2"] != "agree" {
		t.Fatalf("structured responses not collapsed: %+v", round)
	}
	// A response object carrying extra fields but no persona is not the
	// recognized shape; it passes through.
	if _, ok := round["seat_3"].(map[string]any); !ok {
		t.Fatalf("unrecognized shape should pass through: %+v", round["seat_3"])
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	s := legacySession()
	Normalize(s)

	personas := map[string]string{}
	for k, v := range s.Personas {
		personas[k] = v
	}
	round := domain.Round{}
	for k, v := range s.Rounds[0] {
		round[k] = v
	}

	Normalize(s)
	if !reflect.DeepEqual(s.Personas, personas) {
		t.Fatalf("second pass changed personas: %+v", s.Personas)
	}
	if !reflect.DeepEqual(s.Rounds[0], round) {
		t.Fatalf("second pass changed round: %+v", s.Rounds[0])
	}
}

func TestNormalizeSeatMap(t *testing.T) {
	in := map[string]any{
		"codex":  "c take",
		"seat_2": map[string]any{"persona": "The Economist", "response": "g take"},
		"other":  "kept verbatim",
	}
	out := NormalizeSeatMap(in)
	if out["seat_1"] != "c take" || out["seat_2"] != "g take" || out["other"] != "kept verbatim" {
		t.Fatalf("unexpected normalization: %+v", out)
	}
	if _, ok := out["codex"]; ok {
		t.Fatalf("legacy key should be removed")
	}
	if in["codex"] != "c take" {
		t.Fatalf("input map must not be mutated")
	}
}
