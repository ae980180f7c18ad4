// Package archive renders sessions to human-readable Markdown in the archive
// directory.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pbaille/council/internal/domain"
	"github.com/pbaille/council/internal/store"
)

// Archiver exports sessions out of the store into a directory of Markdown
// documents.
type Archiver struct {
	store *store.Store
	dir   string
}

// New builds an Archiver writing to dir.
func New(st *store.Store, dir string) *Archiver {
	return &Archiver{store: st, dir: dir}
}

// Export renders the session to <id>.md in the archive directory and marks
// the session archived. Returns the written path.
func (a *Archiver) Export(id string) (string, error) {
	session, err := a.store.Load(id)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return "", fmt.Errorf("create archive dir: %w", err)
	}
	path := filepath.Join(a.dir, session.ID+".md")
	if err := os.WriteFile(path, []byte(Render(session)), 0o644); err != nil {
		return "", fmt.Errorf("write archive: %w", err)
	}
	if err := a.store.SetArchived(id, true); err != nil {
		return "", err
	}
	return path, nil
}

// Render produces the Markdown document for one session.
func Render(s *domain.Session) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Council Session: %s\n\n", s.Topic)
	fmt.Fprintf(&b, "- **Date:** %s\n", s.Date)
	fmt.Fprintf(&b, "- **Session:** %s\n", s.ID)
	if s.Rating != nil {
		fmt.Fprintf(&b, "- **Rating:** %d/5\n", *s.Rating)
	}
	if s.Outcome != nil {
		fmt.Fprintf(&b, "- **Outcome:** %s", s.Outcome.Status)
		if s.Outcome.Note != "" {
			fmt.Fprintf(&b, " — %s", s.Outcome.Note)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n## Question\n\n" + s.Question + "\n")
	if s.PriorContext != "" {
		b.WriteString("\n## Prior Context\n\n" + s.PriorContext + "\n")
	}

	seats := seatOrder(s.Personas)
	if len(seats) > 0 {
		b.WriteString("\n## Council\n\n")
		for _, seat := range seats {
			line := "- " + s.Personas[seat]
			if label, ok := s.Labels[seat]; ok && label != "" {
				line += " (" + label + ")"
			}
			b.WriteString(line + "\n")
		}
	}

	for _, round := range s.Rounds {
		fmt.Fprintf(&b, "\n## Round %d\n", round.Number())
		for _, seat := range seatOrder(s.Personas) {
			text := round.Response(seat)
			if text == "" {
				continue
			}
			header := s.Personas[seat]
			if header == "" {
				header = seat
			}
			fmt.Fprintf(&b, "\n### %s\n\n%s\n", header, text)
		}
		if synthesis := round.Synthesis(); synthesis != "" {
			b.WriteString("\n### Synthesis\n\n" + synthesis + "\n")
		}
	}
	return b.String()
}

func seatOrder(personas map[string]string) []string {
	seats := make([]string, 0, len(personas))
	for seat := range personas {
		seats = append(seats, seat)
	}
	sort.Strings(seats)
	return seats
}
