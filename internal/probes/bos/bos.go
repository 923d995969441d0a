// Package bos provides the bosserver process-status probe implementation.
//
// It runs "bos status" and classifies every output line against ordered
// pattern lists. Lines describing healthy instances are informational,
// known-degraded states are WARNING, and anything unrecognized is
// CRITICAL: output this probe has never seen is never assumed safe.
package bos

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/openafs-contrib/afsmon/internal/classify"
	"github.com/openafs-contrib/afsmon/internal/probe"
	"github.com/openafs-contrib/afsmon/internal/runner"
)

// Name is the probe subcommand name.
const Name = "bos"

// Domain is the tag prefixing the output line.
const Domain = "BOS"

// Command is the diagnostic binary the probe invokes.
const Command = "bos"

// DefaultTimeout bounds the bos status invocation.
const DefaultTimeout = 60 * time.Second

// Ordered pattern lists. Evaluation is first-match-wins, okay before
// warning, per line.
var (
	okayPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\s*$`),
		regexp.MustCompile(`^Instance \S+, currently running normally\.?$`),
		regexp.MustCompile(`^\s*Auxiliary status is: file server running\.?$`),
		regexp.MustCompile(`^\s*Auxiliary status is: volserver running\.?$`),
	}
	warningPatterns = []*regexp.Regexp{
		regexp.MustCompile(`temporarily disabled, currently shutdown`),
		regexp.MustCompile(`temporarily enabled`),
		regexp.MustCompile(`, disabled, `),
		regexp.MustCompile(`Auxiliary status is: salvaging file system`),
		regexp.MustCompile(`(?i)bosserver reports inappropriate access on server directories`),
	}
	normalPattern = regexp.MustCompile(`^Instance \S+, currently running normally`)

	// A salvage run shows up as an auxiliary line that matches no list.
	// When it directly follows the salvage instance header it is a
	// known transient, not an incident.
	salvageOverride = classify.ContextOverride{
		Prev:    regexp.MustCompile(`^Instance salvage`),
		Curr:    regexp.MustCompile(`running now`),
		Status:  probe.StatusWarning,
		Message: "salvage is running",
	}
)

// Options configures one probe run. Immutable once parsed from flags.
type Options struct {
	Host        string
	Cell        string
	Timeout     time.Duration
	Command     string
	SearchPaths []string
}

// Validate rejects unusable configuration before any command runs.
func (o *Options) Validate() error {
	if o.Host == "" {
		return errors.New("hostname is required")
	}
	return nil
}

// GetDescription returns the probe description.
func GetDescription() probe.Description {
	return probe.Description{
		Name:        Name,
		Description: "Check the status of bosserver-managed server processes",
		Version:     "1.0.0",
		Subcommand:  Name,
		Arguments: probe.Arguments{
			Required: map[string]probe.ArgumentSpec{
				"hostname": {
					Type:        "string",
					Description: "Server whose bosserver to probe",
				},
			},
			Optional: map[string]probe.ArgumentSpec{
				"cell": {
					Type:        "string",
					Description: "AFS cell to query",
				},
				"timeout": {
					Type:        "number",
					Description: "Deadline for the bos status invocation in seconds",
					Default:     60,
				},
			},
		},
	}
}

// Run executes the probe with the given options.
func Run(ctx context.Context, o *Options) *probe.Result {
	if err := o.Validate(); err != nil {
		return &probe.Result{Status: probe.StatusUnknown, Message: err.Error()}
	}

	path, err := runner.FindCommand(Command, o.Command, o.SearchPaths)
	if err != nil {
		return &probe.Result{Status: probe.StatusUnknown, Message: err.Error()}
	}

	args := []string{"status", o.Host, "-noauth"}
	if o.Cell != "" {
		args = append(args, "-cell", o.Cell)
	}
	out, err := runner.Run(ctx, o.Timeout, path, args...)
	if err != nil {
		return probe.FromInvocationError(err)
	}
	if out.ExitCode != 0 {
		return &probe.Result{
			Status:  probe.StatusCritical,
			Message: fmt.Sprintf("cannot contact bosserver on %s", o.Host),
		}
	}

	return Classify(out.Lines)
}

// Classify evaluates a bos status transcript. Exported separately from
// Run so the rule table is testable without spawning anything.
func Classify(lines []string) *probe.Result {
	c := &classify.LineClassifier{
		Okay:      okayPatterns,
		Warning:   warningPatterns,
		Normal:    normalPattern,
		Overrides: []classify.ContextOverride{salvageOverride},
	}
	v := c.Classify(lines)
	if v.Status != probe.StatusOK {
		return &probe.Result{Status: v.Status, Message: v.Message}
	}

	var message string
	switch v.NormalCount {
	case 0:
		message = "no services running normally"
	case 1:
		message = "1 service running normally"
	default:
		message = fmt.Sprintf("%d services running normally", v.NormalCount)
	}
	return &probe.Result{
		Status:  probe.StatusOK,
		Message: message,
		Perf: []probe.PerfDatum{{
			Label: "running",
			Value: strconv.Itoa(v.NormalCount),
			Min:   "0",
		}},
	}
}
