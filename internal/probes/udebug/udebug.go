// Package udebug provides the Ubik quorum probe implementation.
//
// It runs udebug against a database server and checks that either this
// server is the elected sync site in an acceptable recovery state, or
// that it knows who the sync site is.
package udebug

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/openafs-contrib/afsmon/internal/probe"
	"github.com/openafs-contrib/afsmon/internal/runner"
)

// Name is the probe subcommand name.
const Name = "udebug"

// Domain is the tag prefixing the output line.
const Domain = "UBIK"

// Command is the diagnostic binary the probe invokes.
const Command = "udebug"

// DefaultTimeout bounds the udebug invocation.
const DefaultTimeout = 60 * time.Second

// DefaultPort is the vlserver port. Other Ubik services (ptserver 7002,
// buserver 7021) are selected with --port.
const DefaultPort = 7003

// acceptedStates are the recovery states that mean the sync site's
// database is current: 1f once remote copies are written, 17 before the
// first write has propagated.
var acceptedStates = map[string]bool{"1f": true, "17": true}

var (
	syncSitePattern  = regexp.MustCompile(`^I am sync site`)
	recoveryPattern  = regexp.MustCompile(`^Recovery state ([0-9a-f]+)`)
	syncHostPattern  = regexp.MustCompile(`^Sync host \d+\.\d+\.\d+\.\d+`)
	dbVersionPattern = regexp.MustCompile(`^Local db version is (\S+)`)
)

// Facts is what the probe learned from one udebug transcript. Each field
// is satisfied by the first matching line; later matches do not
// overwrite it.
type Facts struct {
	SyncSite      bool
	RecoveryState string
	SyncHost      bool
	DBVersion     string
}

// Options configures one probe run. Immutable once parsed from flags.
type Options struct {
	Host        string
	Port        int
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
		Description: "Check Ubik quorum sync-site and recovery state",
		Version:     "1.0.0",
		Subcommand:  Name,
		Arguments: probe.Arguments{
			Required: map[string]probe.ArgumentSpec{
				"hostname": {
					Type:        "string",
					Description: "Database server to probe",
				},
			},
			Optional: map[string]probe.ArgumentSpec{
				"port": {
					Type:        "number",
					Description: "Ubik service port",
					Default:     DefaultPort,
				},
				"timeout": {
					Type:        "number",
					Description: "Deadline for the udebug invocation in seconds",
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

	out, err := runner.Run(ctx, o.Timeout, path, o.Host, strconv.Itoa(o.Port))
	if err != nil {
		return probe.FromInvocationError(err)
	}
	if out.ExitCode != 0 {
		return &probe.Result{
			Status:  probe.StatusCritical,
			Message: fmt.Sprintf("cannot contact %s port %d", o.Host, o.Port),
		}
	}

	return Classify(Extract(out.Lines))
}

// Extract scans the transcript for the quorum signals. Unmatched lines
// are skipped; absent signals are left at their zero values and the
// classifier decides what absence means.
func Extract(lines []string) Facts {
	var f Facts
	for _, line := range lines {
		if !f.SyncSite && syncSitePattern.MatchString(line) {
			f.SyncSite = true
		}
		if f.RecoveryState == "" {
			if m := recoveryPattern.FindStringSubmatch(line); m != nil {
				f.RecoveryState = m[1]
			}
		}
		if !f.SyncHost && syncHostPattern.MatchString(line) {
			f.SyncHost = true
		}
		if f.DBVersion == "" {
			if m := dbVersionPattern.FindStringSubmatch(line); m != nil {
				f.DBVersion = m[1]
			}
		}
	}
	return f
}

// Classify applies the two independent quorum gates: a sync site must be
// in an accepted recovery state, and a non-sync-site must know its sync
// host. Either gate failing is sufficient for CRITICAL.
func Classify(f Facts) *probe.Result {
	if f.SyncSite {
		if !acceptedStates[f.RecoveryState] {
			state := f.RecoveryState
			if state == "" {
				state = "undefined"
			}
			return &probe.Result{
				Status:  probe.StatusCritical,
				Message: fmt.Sprintf("sync site in recovery state %s", state),
			}
		}
		message := fmt.Sprintf("sync site, recovery state %s", f.RecoveryState)
		if f.DBVersion != "" {
			message += fmt.Sprintf(", db version %s", f.DBVersion)
		}
		return &probe.Result{Status: probe.StatusOK, Message: message}
	}

	if !f.SyncHost {
		return &probe.Result{
			Status:  probe.StatusCritical,
			Message: "no sync host found",
		}
	}
	message := "sync host found"
	if f.DBVersion != "" {
		message += fmt.Sprintf(", db version %s", f.DBVersion)
	}
	return &probe.Result{Status: probe.StatusOK, Message: message}
}
