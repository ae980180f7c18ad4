// Package catalog is the closed registry of advisor personas and topic
// categories. A Catalog is built once at startup and passed by reference;
// tests substitute smaller catalogs.
package catalog

import (
	"fmt"
	"strings"
)

// Kind partitions the registry.
type Kind string

const (
	KindCore       Kind = "core"
	KindSpecialist Kind = "specialist"
	KindFun        Kind = "fun"
)

// Persona is a named behavioral role with a fixed description.
type Persona struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Kind        Kind   `json:"type" yaml:"type"`
}

// Topic is one question domain: an ordered keyword list plus the default
// persona triad assigned when the topic wins classification.
type Topic struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
	Triad    []string `yaml:"personas"`
}

// UnknownPersonaError names the input that failed to resolve. Lookup never
// substitutes a default.
type UnknownPersonaError struct {
	Name string
}

func (e *UnknownPersonaError) Error() string {
	return fmt.Sprintf("unknown persona: %s", e.Name)
}

// Catalog holds the persona registry and the ordered topic table.
type Catalog struct {
	personas      []Persona
	topics        []Topic
	alwaysInclude string
}

// New builds a catalog. Topic table order is significant: classification ties
// break toward the earlier entry. alwaysInclude names the core persona the
// fun swap must never displace.
func New(personas []Persona, topics []Topic, alwaysInclude string) (*Catalog, error) {
	seen := map[string]bool{}
	for _, p := range personas {
		if p.Name == "" {
			return nil, fmt.Errorf("catalog: persona with empty name")
		}
		key := strings.ToLower(p.Name)
		if seen[key] {
			return nil, fmt.Errorf("catalog: duplicate persona %q", p.Name)
		}
		seen[key] = true
	}
	c := &Catalog{
		personas:      append([]Persona(nil), personas...),
		topics:        append([]Topic(nil), topics...),
		alwaysInclude: alwaysInclude,
	}
	for _, t := range topics {
		for _, name := range t.Triad {
			if _, err := c.Lookup(name); err != nil {
				return nil, fmt.Errorf("catalog: topic %s: %w", t.Name, err)
			}
		}
	}
	return c, nil
}

// Default returns the built-in registry.
func Default() *Catalog {
	c, err := New(defaultPersonas(), defaultTopics(), "The Contrarian")
	if err != nil {
		panic(err) // built-in data is static; a failure here is a programming error
	}
	return c
}

// DefaultWith extends the built-in registry with extra personas, typically
// loaded from the user's config file.
func DefaultWith(extras []Persona) (*Catalog, error) {
	return New(append(defaultPersonas(), extras...), defaultTopics(), "The Contrarian")
}

// Lookup resolves a persona name case-insensitively, with or without the
// leading "The " article.
func (c *Catalog) Lookup(name string) (Persona, error) {
	trimmed := strings.TrimSpace(name)
	for _, p := range c.personas {
		if p.Name == trimmed {
			return p, nil
		}
	}
	withThe := "The " + trimmed
	for _, p := range c.personas {
		if p.Name == withThe {
			return p, nil
		}
	}
	lower := strings.ToLower(trimmed)
	for _, p := range c.personas {
		pl := strings.ToLower(p.Name)
		if pl == lower || strings.TrimPrefix(pl, "the ") == lower {
			return p, nil
		}
	}
	return Persona{}, &UnknownPersonaError{Name: name}
}

// Personas returns every registered persona in declaration order.
func (c *Catalog) Personas() []Persona {
	return append([]Persona(nil), c.personas...)
}

// OfKind returns the personas of one kind, in declaration order.
func (c *Catalog) OfKind(kind Kind) []Persona {
	var out []Persona
	for _, p := range c.personas {
		if p.Kind == kind {
			out = append(out, p)
		}
	}
	return out
}

// Topics returns the ordered topic table.
func (c *Catalog) Topics() []Topic {
	return append([]Topic(nil), c.topics...)
}

// Topic finds a topic category by name.
func (c *Catalog) Topic(name string) (Topic, bool) {
	for _, t := range c.topics {
		if t.Name == name {
			return t, true
		}
	}
	return Topic{}, false
}

// AlwaysInclude is the persona the fun swap leaves alone.
func (c *Catalog) AlwaysInclude() string {
	return c.alwaysInclude
}
