// Package probe defines the shared result and severity types for AFS probes.
package probe

import (
	"fmt"
	"strings"
)

// Status represents the outcome of a probe execution.
type Status string

const (
	StatusOK       Status = "ok"
	StatusWarning  Status = "warning"
	StatusCritical Status = "critical"
	StatusUnknown  Status = "unknown"
)

// Label returns the conventional monitoring label for the status.
func (s Status) Label() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusWarning:
		return "WARNING"
	case StatusCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// ExitCode returns the process exit code encoding the status.
func (s Status) ExitCode() int {
	switch s {
	case StatusOK:
		return 0
	case StatusWarning:
		return 1
	case StatusCritical:
		return 2
	default:
		return 3
	}
}

// Worse reports whether s is more severe than other. UNKNOWN sorts
// between WARNING and CRITICAL.
func (s Status) Worse(other Status) bool {
	return s.rank() > other.rank()
}

func (s Status) rank() int {
	switch s {
	case StatusOK:
		return 0
	case StatusWarning:
		return 1
	case StatusCritical:
		return 3
	default:
		return 2
	}
}

// PerfDatum is one machine-readable measurement appended after the "|"
// separator when performance data output is requested.
type PerfDatum struct {
	Label string
	Value string
	Warn  string
	Crit  string
	Min   string
	Max   string
}

func (p PerfDatum) String() string {
	return fmt.Sprintf("%s=%s;%s;%s;%s;%s", p.Label, p.Value, p.Warn, p.Crit, p.Min, p.Max)
}

// Result is the standard output format for probes.
type Result struct {
	Status  Status
	Message string
	Perf    []PerfDatum
}

// Render formats the single output line "<DOMAIN> <SEVERITY> - <message>",
// optionally followed by the performance data segment.
func (r *Result) Render(domain string, perfdata bool) string {
	line := fmt.Sprintf("%s %s - %s", domain, r.Status.Label(), r.Message)
	if perfdata && len(r.Perf) > 0 {
		tokens := make([]string, len(r.Perf))
		for i, p := range r.Perf {
			tokens[i] = p.String()
		}
		line += " | " + strings.Join(tokens, " ")
	}
	return line
}

// Description is the self-description format for probes.
type Description struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Version     string    `json:"version"`
	Subcommand  string    `json:"subcommand,omitempty"`
	Arguments   Arguments `json:"arguments"`
}

// Arguments describes required and optional probe arguments.
type Arguments struct {
	Required map[string]ArgumentSpec `json:"required,omitempty"`
	Optional map[string]ArgumentSpec `json:"optional,omitempty"`
}

// ArgumentSpec describes a single argument.
type ArgumentSpec struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Default     any    `json:"default,omitempty"`
}
