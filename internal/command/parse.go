// Package command parses a raw /council invocation string into structured
// flags for the orchestration layer.
package command

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pbaille/council/internal/catalog"
)

// Parsed is the structured form of a /council command.
type Parsed struct {
	Question string   `json:"question"`
	Fun      bool     `json:"fun"`
	Mode     string   `json:"mode"`
	Personas []string `json:"personas"`
	Seats    int      `json:"seats,omitempty"`
}

var (
	prefixRe         = regexp.MustCompile(`^/council\s*`)
	funRe            = regexp.MustCompile(`--fun\b\s*`)
	modeRe           = regexp.MustCompile(`--mode\s+(parallel|staggered|sequential)`)
	personasDoubleRe = regexp.MustCompile(`--personas\s+"([^"]+)"`)
	personasSingleRe = regexp.MustCompile(`--personas\s+'([^']+)'`)
	seatsRe          = regexp.MustCompile(`--seats\s+(\d+)`)
)

// Parse extracts --fun, --mode, --personas and --seats from the raw string;
// whatever remains is the question. Persona names are resolved to their
// canonical form when the catalog knows them; unknown names pass through
// verbatim so the assignor can report them properly.
func Parse(cat *catalog.Catalog, raw string) Parsed {
	raw = strings.TrimSpace(prefixRe.ReplaceAllString(strings.TrimSpace(raw), ""))

	result := Parsed{Mode: "parallel"}

	if funRe.MatchString(raw) {
		result.Fun = true
		raw = strings.TrimSpace(funRe.ReplaceAllString(raw, ""))
	}

	if m := modeRe.FindStringSubmatchIndex(raw); m != nil {
		result.Mode = raw[m[2]:m[3]]
		raw = strings.TrimSpace(raw[:m[0]] + raw[m[1]:])
	}

	personasRe := personasDoubleRe
	m := personasRe.FindStringSubmatchIndex(raw)
	if m == nil {
		personasRe = personasSingleRe
		m = personasRe.FindStringSubmatchIndex(raw)
	}
	if m != nil {
		for _, name := range strings.Split(raw[m[2]:m[3]], ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if p, err := cat.Lookup(name); err == nil {
				name = p.Name
			}
			result.Personas = append(result.Personas, name)
		}
		raw = strings.TrimSpace(raw[:m[0]] + raw[m[1]:])
	}

	if m := seatsRe.FindStringSubmatchIndex(raw); m != nil {
		result.Seats, _ = strconv.Atoi(raw[m[2]:m[3]])
		raw = strings.TrimSpace(raw[:m[0]] + raw[m[1]:])
	}

	result.Question = raw
	return result
}
