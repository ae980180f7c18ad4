// Package store persists council sessions as one JSON document per session
// in a single directory. The logical session ID is embedded in the document;
// filenames are derived from it at creation time but lookup never assumes
// they still match.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pbaille/council/internal/domain"
)

var (
	// ErrNotFound marks a lookup for a session ID with no stored document.
	ErrNotFound = errors.New("session not found")
	// ErrMissingQuestion rejects session creation without question text.
	ErrMissingQuestion = errors.New("question is required")
	// ErrMissingStatus rejects an outcome without a status.
	ErrMissingStatus = errors.New("outcome status is required")
)

const slugMaxLen = 40

// Store owns the session directory. Mutations are unprotected
// read-modify-write cycles: concurrent writers against the same session can
// lose an update (last writer wins). Writes themselves go through a temp file
// and rename, so a torn document is never left behind.
type Store struct {
	dir   string
	index *index
	now   func() time.Time
}

// Option customizes a Store during construction.
type Option func(*Store)

// WithClock overrides the clock used for session IDs and dates.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		s.now = clock
	}
}

// New opens (creating if needed) the session directory. The id→file index is
// a cache: failure to open it degrades lookups to a directory scan instead of
// failing the store.
func New(dir string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create sessions dir: %w", err)
	}
	s := &Store{dir: dir, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.index, _ = openIndex(filepath.Join(dir, "index.db"))
	return s, nil
}

// Close releases the index handle.
func (s *Store) Close() error {
	if s.index == nil {
		return nil
	}
	return s.index.Close()
}

// Dir returns the session directory.
func (s *Store) Dir() string {
	return s.dir
}

// Create allocates a logical ID from a minute-granularity timestamp plus a
// topic slug, so IDs sort lexicographically in creation order, and persists a
// fresh record with no rounds.
func (s *Store) Create(topic, question string, personas, labels map[string]string, priorContext string) (*domain.Session, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrMissingQuestion
	}
	if topic == "" {
		topic = question
		if len(topic) > 50 {
			topic = topic[:50]
		}
	}

	now := s.now()
	slug := Slugify(topic, slugMaxLen)
	if slug == "" {
		slug = uuid.NewString()[:8]
	}
	id := now.Format("2006-01-02-15-04") + "-" + slug

	if personas == nil {
		personas = map[string]string{}
	}
	session := &domain.Session{
		ID:           id,
		Topic:        topic,
		Question:     question,
		Date:         now.Format("2006-01-02"),
		Personas:     personas,
		Labels:       labels,
		PriorContext: priorContext,
		Rounds:       []domain.Round{},
		Archived:     false,
	}

	path := filepath.Join(s.dir, id+".json")
	if err := writeDocument(path, session); err != nil {
		return nil, err
	}
	if s.index != nil {
		_ = s.index.Put(id, filepath.Base(path))
	}
	return session, nil
}

// Load finds a session by logical ID and normalizes legacy shapes before
// returning it.
func (s *Store) Load(id string) (*domain.Session, error) {
	session, _, err := s.load(id)
	return session, err
}

// Path reports the file currently backing a session.
func (s *Store) Path(id string) (string, error) {
	_, path, err := s.load(id)
	return path, err
}

func (s *Store) load(id string) (*domain.Session, string, error) {
	// Index first; fall back to scanning every document. A stale index entry
	// (file renamed or rewritten with a different id) repairs itself here.
	if s.index != nil {
		if name, ok := s.index.Get(id); ok {
			path := filepath.Join(s.dir, name)
			if session, err := readDocument(path); err == nil && session.ID == id {
				Normalize(session)
				return session, path, nil
			}
			_ = s.index.Delete(id)
		}
	}

	names, err := s.documentNames()
	if err != nil {
		return nil, "", err
	}
	for _, name := range names {
		path := filepath.Join(s.dir, name)
		session, err := readDocument(path)
		if err != nil {
			continue
		}
		if session.ID == id {
			if s.index != nil {
				_ = s.index.Put(id, name)
			}
			Normalize(session)
			return session, path, nil
		}
	}
	return nil, "", fmt.Errorf("%w: %s", ErrNotFound, id)
}

// List returns lightweight summaries ordered by storage key descending,
// which the ID format makes equivalent to creation time descending.
// Unreadable documents are skipped, not fatal.
func (s *Store) List() ([]domain.Summary, error) {
	names, err := s.documentNames()
	if err != nil {
		return nil, err
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	summaries := make([]domain.Summary, 0, len(names))
	for _, name := range names {
		path := filepath.Join(s.dir, name)
		session, err := readDocument(path)
		if err != nil {
			continue
		}
		id := session.ID
		if id == "" {
			id = strings.TrimSuffix(name, ".json")
		}
		summaries = append(summaries, domain.Summary{
			ID:       id,
			Topic:    session.Topic,
			Question: session.Question,
			Date:     session.Date,
			Rounds:   len(session.Rounds),
			Rating:   session.Rating,
			Outcome:  session.Outcome,
			Archived: session.Archived,
			File:     path,
		})
	}
	return summaries, nil
}

// AppendRound loads the session, stamps the round with the next index
// (count of existing rounds + 1) and persists the whole record. Returns the
// assigned round number.
func (s *Store) AppendRound(id string, round domain.Round) (int, error) {
	if round == nil {
		round = domain.Round{}
	}
	session, path, err := s.load(id)
	if err != nil {
		return 0, err
	}
	number := len(session.Rounds) + 1
	round["round"] = number
	session.Rounds = append(session.Rounds, round)
	if err := writeDocument(path, session); err != nil {
		return 0, err
	}
	return number, nil
}

// SetRating records a 1-5 rating. Out-of-range values are rejected before
// storage is touched.
func (s *Store) SetRating(id string, rating int) error {
	if err := domain.ValidateRating(rating); err != nil {
		return err
	}
	session, path, err := s.load(id)
	if err != nil {
		return err
	}
	session.Rating = &rating
	return writeDocument(path, session)
}

// SetOutcome records what happened after the advice. Status is required;
// note is optional.
func (s *Store) SetOutcome(id, status, note string) (*domain.Outcome, error) {
	if strings.TrimSpace(status) == "" {
		return nil, ErrMissingStatus
	}
	session, path, err := s.load(id)
	if err != nil {
		return nil, err
	}
	outcome := &domain.Outcome{
		Status: status,
		Note:   note,
		Date:   s.now().Format("2006-01-02"),
	}
	session.Outcome = outcome
	return outcome, writeDocument(path, session)
}

// SetArchived flips the archived flag.
func (s *Store) SetArchived(id string, archived bool) error {
	session, path, err := s.load(id)
	if err != nil {
		return err
	}
	session.Archived = archived
	return writeDocument(path, session)
}

func (s *Store) documentNames() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read sessions dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

func readDocument(path string) (*domain.Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("parse session %s: %w", filepath.Base(path), err)
	}
	return &session, nil
}

// writeDocument persists via temp file + rename so readers never observe a
// partially written document.
func writeDocument(path string, session *domain.Session) error {
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".session-*.tmp")
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write session: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Slugify kebab-cases text for use in session IDs: non-alphanumeric runs
// collapse to single dashes, and over-long slugs are cut back to the last
// dash boundary rather than mid-word.
func Slugify(text string, maxLen int) string {
	var b strings.Builder
	lastDash := true // suppress a leading dash
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if maxLen > 0 && len(slug) > maxLen {
		slug = slug[:maxLen]
		if i := strings.LastIndex(slug, "-"); i >= 0 {
			slug = slug[:i]
		}
	}
	return slug
}
