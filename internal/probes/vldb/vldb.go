// Package vldb provides the VLDB registration probe implementation.
//
// It runs "vos listaddrs" for a fileserver and verifies that the server's
// UUID and every expected network address are registered in the volume
// location database.
package vldb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/openafs-contrib/afsmon/internal/probe"
	"github.com/openafs-contrib/afsmon/internal/runner"
)

// Name is the probe subcommand name.
const Name = "vldb"

// Domain is the tag prefixing the output line.
const Domain = "VOS"

// Command is the diagnostic binary the probe invokes.
const Command = "vos"

// DefaultTimeout bounds the vos listaddrs invocation.
const DefaultTimeout = 120 * time.Second

var uuidPattern = regexp.MustCompile(`^UUID:\s+(\S+)`)

// Facts is what the probe learned from one listaddrs transcript.
type Facts struct {
	// UUID is the first registered UUID announced in the output, or
	// empty when none was announced.
	UUID string

	// Missing holds the expected addresses that never appeared, in the
	// order they were supplied.
	Missing []string
}

// Options configures one probe run. Immutable once parsed from flags.
type Options struct {
	Host        string
	Cell        string
	UUID        string
	Addresses   []string
	Timeout     time.Duration
	Command     string
	SearchPaths []string
}

// Validate rejects unusable configuration before any command runs.
func (o *Options) Validate() error {
	if o.Host == "" {
		return errors.New("hostname is required")
	}
	if o.UUID == "" && len(o.Addresses) == 0 {
		return errors.New("nothing to verify: supply an expected uuid or at least one address")
	}
	return nil
}

// GetDescription returns the probe description.
func GetDescription() probe.Description {
	return probe.Description{
		Name:        Name,
		Description: "Check fileserver UUID and address registration in the VLDB",
		Version:     "1.0.0",
		Subcommand:  Name,
		Arguments: probe.Arguments{
			Required: map[string]probe.ArgumentSpec{
				"hostname": {
					Type:        "string",
					Description: "Fileserver whose registration to verify",
				},
			},
			Optional: map[string]probe.ArgumentSpec{
				"uuid": {
					Type:        "string",
					Description: "Expected registered UUID",
				},
				"addr": {
					Type:        "string",
					Description: "Expected registered address (repeatable)",
				},
				"cell": {
					Type:        "string",
					Description: "AFS cell to query",
				},
				"timeout": {
					Type:        "number",
					Description: "Deadline for the vos listaddrs invocation in seconds",
					Default:     120,
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

	args := []string{"listaddrs", "-printuuid", "-noresolve", "-host", o.Host, "-noauth"}
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
			Message: fmt.Sprintf("cannot contact vlserver for %s", o.Host),
		}
	}

	return Classify(o, Extract(out.Lines, o.Addresses))
}

// Extract scans the transcript for the UUID announcement and checks off
// each expected address as it is observed. Whatever is never observed
// remains in Missing.
func Extract(lines []string, expected []string) Facts {
	var f Facts
	seen := make(map[string]bool, len(lines))
	for _, line := range lines {
		if f.UUID == "" {
			if m := uuidPattern.FindStringSubmatch(line); m != nil {
				f.UUID = m[1]
				continue
			}
		}
		for _, field := range strings.Fields(line) {
			seen[field] = true
		}
	}
	for _, addr := range expected {
		if !seen[addr] {
			f.Missing = append(f.Missing, addr)
		}
	}
	return f
}

// Classify applies the two independent registration gates, UUID first.
func Classify(o *Options, f Facts) *probe.Result {
	if o.UUID != "" {
		if f.UUID == "" {
			return &probe.Result{
				Status:  probe.StatusCritical,
				Message: fmt.Sprintf("No UUID associated with %s", o.Host),
			}
		}
		if f.UUID != o.UUID {
			return &probe.Result{
				Status:  probe.StatusCritical,
				Message: fmt.Sprintf("UUID %s registered, expected %s", f.UUID, o.UUID),
			}
		}
	}

	if len(f.Missing) > 0 {
		return &probe.Result{
			Status:  probe.StatusCritical,
			Message: fmt.Sprintf("missing addresses: %s", strings.Join(f.Missing, ", ")),
		}
	}

	var parts []string
	if o.UUID != "" {
		parts = append(parts, fmt.Sprintf("UUID %s registered", f.UUID))
	}
	if n := len(o.Addresses); n == 1 {
		parts = append(parts, "1 address registered")
	} else if n > 1 {
		parts = append(parts, fmt.Sprintf("%d addresses registered", n))
	}
	return &probe.Result{Status: probe.StatusOK, Message: strings.Join(parts, ", ")}
}
