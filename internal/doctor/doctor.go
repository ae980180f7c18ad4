// Package doctor probes the advisor CLIs and data directories the council
// depends on.
package doctor

import (
	"context"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"
)

const versionTimeout = 10 * time.Second

// advisorCLIs are the external advisor tools, keyed by command name.
var advisorCLIs = map[string]struct {
	Label   string
	Install string
}{
	"codex":  {Label: "Codex (OpenAI)", Install: "npm install -g @openai/codex"},
	"gemini": {Label: "Gemini (Google)", Install: "npm install -g @google/gemini-cli"},
	"claude": {Label: "Claude (Anthropic)", Install: "https://docs.anthropic.com/en/docs/claude-code"},
}

// Agent is the probe result for one advisor CLI.
type Agent struct {
	Available bool   `json:"available"`
	Healthy   bool   `json:"healthy,omitempty"`
	Path      string `json:"path,omitempty"`
	Version   string `json:"version,omitempty"`
	Label     string `json:"label"`
	Install   string `json:"install"`
	Error     string `json:"error,omitempty"`
}

// PathReport is the fast PATH-only check.
type PathReport struct {
	Agents         map[string]Agent `json:"agents"`
	Available      []string         `json:"available"`
	Missing        []string         `json:"missing"`
	Count          int              `json:"count"`
	ModeSuggestion string           `json:"mode_suggestion"`
}

// CheckPath reports which advisor CLIs are on PATH. Lookup only; nothing is
// executed.
func CheckPath() PathReport {
	report := PathReport{Agents: map[string]Agent{}}
	for name, info := range advisorCLIs {
		path, err := exec.LookPath(name)
		agent := Agent{
			Available: err == nil,
			Path:      path,
			Label:     info.Label,
			Install:   info.Install,
		}
		report.Agents[name] = agent
		if agent.Available {
			report.Available = append(report.Available, name)
		} else {
			report.Missing = append(report.Missing, name)
		}
	}
	sort.Strings(report.Available)
	sort.Strings(report.Missing)
	report.Count = len(report.Available)
	report.ModeSuggestion = suggestMode(report.Available, len(advisorCLIs))
	return report
}

func suggestMode(available []string, total int) string {
	switch {
	case len(available) == total:
		return "all-3"
	case len(available) == 0:
		return "none"
	case len(available) == 1 && available[0] == "claude":
		return "claude-only"
	default:
		return "partial"
	}
}

// DirStatus describes one required directory.
type DirStatus struct {
	Path      string `json:"path"`
	Exists    bool   `json:"exists"`
	IsDir     bool   `json:"is_dir"`
	FileCount int    `json:"file_count,omitempty"`
}

// Report is the thorough health check.
type Report struct {
	Agents      map[string]Agent     `json:"agents"`
	Available   []string             `json:"available"`
	Missing     []string             `json:"missing"`
	Unhealthy   []string             `json:"unhealthy"`
	Directories map[string]DirStatus `json:"directories"`
	Healthy     bool                 `json:"healthy"`
}

// Check runs `<cli> --version` on every advisor found on PATH, with a
// timeout, and verifies the session and archive directories.
func Check(ctx context.Context, sessionsDir, archiveDir string) Report {
	report := Report{Agents: map[string]Agent{}}
	for name, info := range advisorCLIs {
		agent := Agent{Label: info.Label, Install: info.Install}
		path, err := exec.LookPath(name)
		if err != nil {
			agent.Error = "not on PATH"
		} else {
			agent.Available = true
			agent.Path = path
			agent.Version, agent.Error = probeVersion(ctx, name)
			agent.Healthy = agent.Error == ""
		}
		report.Agents[name] = agent
		switch {
		case agent.Healthy:
			report.Available = append(report.Available, name)
		case agent.Available:
			report.Unhealthy = append(report.Unhealthy, name)
		default:
			report.Missing = append(report.Missing, name)
		}
	}
	sort.Strings(report.Available)
	sort.Strings(report.Missing)
	sort.Strings(report.Unhealthy)

	report.Directories = map[string]DirStatus{
		"sessions": dirStatus(sessionsDir, true),
		"archive":  dirStatus(archiveDir, false),
	}
	report.Healthy = len(report.Unhealthy) == 0 &&
		report.Directories["sessions"].Exists &&
		report.Directories["archive"].Exists
	return report
}

func probeVersion(ctx context.Context, cli string) (version, errMsg string) {
	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, cli, "--version").CombinedOutput()
	version = strings.TrimSpace(string(out))
	if ctx.Err() == context.DeadlineExceeded {
		return version, "timed out"
	}
	if err != nil {
		return version, err.Error()
	}
	return version, ""
}

func dirStatus(path string, countFiles bool) DirStatus {
	status := DirStatus{Path: path}
	info, err := os.Stat(path)
	if err != nil {
		return status
	}
	status.Exists = true
	status.IsDir = info.IsDir()
	if countFiles && status.IsDir {
		entries, err := os.ReadDir(path)
		if err == nil {
			for _, e := range entries {
				if strings.HasSuffix(e.Name(), ".json") {
					status.FileCount++
				}
			}
		}
	}
	return status
}
