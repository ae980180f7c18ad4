// Package assign maps personas onto council seats for a session.
package assign

import (
	"math/rand"
	"time"

	"github.com/pbaille/council/internal/catalog"
	"github.com/pbaille/council/internal/classifier"
	"github.com/pbaille/council/internal/domain"
)

// Rand is the random-choice provider used for specialist padding and the fun
// swap. *math/rand.Rand satisfies it; tests supply a seeded or scripted one.
type Rand interface {
	Intn(n int) int
}

// Request describes one assignment.
type Request struct {
	Question string
	Topic    string   // explicit topic; skips classification when recognized
	Personas []string // explicit persona names; skips topic selection entirely
	Fun      bool
	Seats    int // defaults to 3
}

// SeatAssignment is what a prompt-building caller needs for one seat.
type SeatAssignment struct {
	Persona     string `json:"persona"`
	Description string `json:"description"`
}

// Result is the structured assignment payload.
type Result struct {
	Assignment map[string]SeatAssignment `json:"assignment"`
	Personas   []string                  `json:"personas"`
	Seats      []string                  `json:"seats"`
	Topic      string                    `json:"topic,omitempty"`
	FunApplied bool                      `json:"fun_applied"`
}

// Assignor assigns personas to seats using the catalog and topic classifier.
type Assignor struct {
	catalog *catalog.Catalog
	rng     Rand
}

// New builds an Assignor. A nil rng falls back to a time-seeded source.
func New(cat *catalog.Catalog, rng Rand) *Assignor {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Assignor{catalog: cat, rng: rng}
}

// Assign resolves the persona list for a session and maps it onto the
// canonical seat ordering. An unresolved explicit persona aborts the whole
// operation; no partial assignment is returned.
func (a *Assignor) Assign(req Request) (Result, error) {
	seatCount := req.Seats
	if seatCount <= 0 {
		seatCount = 3
	}

	personas, topic, err := a.basePersonas(req)
	if err != nil {
		return Result{}, err
	}

	if len(personas) > seatCount {
		personas = personas[:seatCount]
	}
	personas = a.padWithSpecialists(personas, seatCount)

	funApplied := false
	if req.Fun {
		funApplied = a.swapInFun(personas)
	}

	seats := domain.Seats(len(personas))
	assignment := make(map[string]SeatAssignment, len(personas))
	for i, seat := range seats {
		p, err := a.catalog.Lookup(personas[i])
		if err != nil {
			return Result{}, err
		}
		assignment[seat] = SeatAssignment{Persona: p.Name, Description: p.Description}
	}

	return Result{
		Assignment: assignment,
		Personas:   personas,
		Seats:      seats,
		Topic:      topic,
		FunApplied: funApplied,
	}, nil
}

// basePersonas picks the starting persona list: explicit names, an explicit
// topic's triad, or the classified topic's triad.
func (a *Assignor) basePersonas(req Request) ([]string, string, error) {
	if len(req.Personas) > 0 {
		resolved := make([]string, 0, len(req.Personas))
		for _, name := range req.Personas {
			p, err := a.catalog.Lookup(name)
			if err != nil {
				return nil, "", err
			}
			resolved = append(resolved, p.Name)
		}
		return resolved, "", nil
	}

	if req.Topic != "" {
		if t, ok := a.catalog.Topic(req.Topic); ok {
			return append([]string(nil), t.Triad...), t.Name, nil
		}
	}

	result := classifier.Classify(a.catalog, req.Question)
	return append([]string(nil), result.Personas...), result.Topic, nil
}

// padWithSpecialists draws unused specialists at random until the list
// reaches seatCount. Running out of unused specialists is a non-fatal
// shortfall; the list simply stays short.
func (a *Assignor) padWithSpecialists(personas []string, seatCount int) []string {
	for len(personas) < seatCount {
		var available []string
		for _, p := range a.catalog.OfKind(catalog.KindSpecialist) {
			if !contains(personas, p.Name) {
				available = append(available, p.Name)
			}
		}
		if len(available) == 0 {
			break
		}
		personas = append(personas, available[a.rng.Intn(len(available))])
	}
	return personas
}

// swapInFun overwrites one randomly chosen seat with a random fun persona.
// Seats holding the always-include persona are never displaced; if no other
// seat exists the swap is skipped. Reports whether the swap fired.
func (a *Assignor) swapInFun(personas []string) bool {
	fun := a.catalog.OfKind(catalog.KindFun)
	if len(fun) == 0 {
		return false
	}
	var replaceable []int
	for i, name := range personas {
		if name != a.catalog.AlwaysInclude() {
			replaceable = append(replaceable, i)
		}
	}
	if len(replaceable) == 0 {
		return false
	}
	pick := fun[a.rng.Intn(len(fun))]
	personas[replaceable[a.rng.Intn(len(replaceable))]] = pick.Name
	return true
}

func contains(list []string, target string) bool {
	for _, item := range list {
		if item == target {
			return true
		}
	}
	return false
}
