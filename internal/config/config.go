// Package config resolves the council data directories and the optional
// config.yaml overlay (custom personas, default seat count).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pbaille/council/internal/catalog"
)

const defaultSeats = 3

// FileConfig models config.yaml inside the base directory.
type FileConfig struct {
	SessionsDir string            `yaml:"sessions_dir,omitempty"`
	ArchiveDir  string            `yaml:"archive_dir,omitempty"`
	Seats       int               `yaml:"seats,omitempty"`
	Personas    []catalog.Persona `yaml:"personas,omitempty"`
}

// Config is the resolved runtime configuration.
type Config struct {
	BaseDir     string
	SessionsDir string
	ArchiveDir  string
	Seats       int
	Catalog     *catalog.Catalog
}

// Load resolves configuration for the given base directory. An empty baseDir
// falls back to $COUNCIL_DIR, then ~/.council. A missing config.yaml is not
// an error; the defaults apply.
func Load(baseDir string) (*Config, error) {
	if baseDir == "" {
		baseDir = os.Getenv("COUNCIL_DIR")
	}
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".council")
	}

	cfg := &Config{
		BaseDir:     baseDir,
		SessionsDir: filepath.Join(baseDir, "sessions"),
		ArchiveDir:  defaultArchiveDir(),
		Seats:       defaultSeats,
	}

	file, err := loadFile(filepath.Join(baseDir, "config.yaml"))
	if err != nil {
		return nil, err
	}
	if file.SessionsDir != "" {
		cfg.SessionsDir = resolvePath(baseDir, file.SessionsDir)
	}
	if file.ArchiveDir != "" {
		cfg.ArchiveDir = resolvePath(baseDir, file.ArchiveDir)
	}
	if file.Seats != 0 {
		if file.Seats < 1 {
			return nil, fmt.Errorf("config: seats must be >= 1, got %d", file.Seats)
		}
		cfg.Seats = file.Seats
	}

	extras, err := normalizePersonas(file.Personas)
	if err != nil {
		return nil, err
	}
	cfg.Catalog, err = catalog.DefaultWith(extras)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func loadFile(path string) (FileConfig, error) {
	var file FileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return file, nil
		}
		return file, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return file, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return file, nil
}

func normalizePersonas(personas []catalog.Persona) ([]catalog.Persona, error) {
	out := make([]catalog.Persona, 0, len(personas))
	for i, p := range personas {
		p.Name = strings.TrimSpace(p.Name)
		if p.Name == "" {
			return nil, fmt.Errorf("config: personas[%d]: name is required", i)
		}
		switch p.Kind {
		case "":
			p.Kind = catalog.KindSpecialist
		case catalog.KindCore, catalog.KindSpecialist, catalog.KindFun:
		default:
			return nil, fmt.Errorf("config: personas[%d]: type must be core, specialist or fun", i)
		}
		out = append(out, p)
	}
	return out, nil
}

func defaultArchiveDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "council-archive"
	}
	return filepath.Join(home, "Documents", "council")
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}
