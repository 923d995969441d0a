// Package rxdebug provides the blocked-connections probe implementation.
//
// It asks rxdebug how many calls are waiting for a server thread and
// classifies the count against warning/critical thresholds. A fileserver
// with blocked calls is out of worker threads.
package rxdebug

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
const Name = "rxdebug"

// Domain is the tag prefixing the output line.
const Domain = "AFS"

// Command is the diagnostic binary the probe invokes.
const Command = "rxdebug"

// DefaultTimeout bounds the rxdebug invocation.
const DefaultTimeout = 60 * time.Second

// DefaultPort is the AFS fileserver port.
const DefaultPort = 7000

var waitingPattern = regexp.MustCompile(`(\d+) calls waiting for a thread`)

// Options configures one probe run. Immutable once parsed from flags.
type Options struct {
	Host        string
	Port        int
	Thresholds  classify.Thresholds
	Timeout     time.Duration
	Command     string
	SearchPaths []string
}

// Validate rejects unusable configuration before any command runs.
func (o *Options) Validate() error {
	if o.Host == "" {
		return errors.New("hostname is required")
	}
	return o.Thresholds.Validate()
}

// GetDescription returns the probe description.
func GetDescription() probe.Description {
	return probe.Description{
		Name:        Name,
		Description: "Check for calls blocked waiting for a fileserver thread",
		Version:     "1.0.0",
		Subcommand:  Name,
		Arguments: probe.Arguments{
			Required: map[string]probe.ArgumentSpec{
				"hostname": {
					Type:        "string",
					Description: "Fileserver to probe",
				},
			},
			Optional: map[string]probe.ArgumentSpec{
				"port": {
					Type:        "number",
					Description: "Rx service port",
					Default:     DefaultPort,
				},
				"warning": {
					Type:        "number",
					Description: "Waiting-call count that triggers a warning",
					Default:     2,
				},
				"critical": {
					Type:        "number",
					Description: "Waiting-call count that triggers a critical",
					Default:     8,
				},
				"timeout": {
					Type:        "number",
					Description: "Deadline for the rxdebug invocation in seconds",
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

	out, err := runner.Run(ctx, o.Timeout, path, o.Host, strconv.Itoa(o.Port), "-noconns")
	if err != nil {
		return probe.FromInvocationError(err)
	}
	if out.ExitCode != 0 {
		return &probe.Result{
			Status:  probe.StatusCritical,
			Message: fmt.Sprintf("cannot contact %s port %d", o.Host, o.Port),
		}
	}

	waiting := ExtractWaitingCalls(out.Lines)
	if waiting == nil {
		return &probe.Result{
			Status:  probe.StatusCritical,
			Message: "cannot parse rxdebug output",
		}
	}

	return &probe.Result{
		Status:  o.Thresholds.Classify(*waiting),
		Message: fmt.Sprintf("%d calls waiting for a thread", *waiting),
		Perf: []probe.PerfDatum{{
			Label: "waiting_calls",
			Value: strconv.FormatInt(*waiting, 10),
			Warn:  strconv.FormatInt(o.Thresholds.Warning, 10),
			Crit:  strconv.FormatInt(o.Thresholds.Critical, 10),
			Min:   "0",
		}},
	}
}

// ExtractWaitingCalls scans for the first waiting-calls report. A nil
// return means the fact was never found, which is distinct from a real
// zero and is a failure to parse, not an idle server.
func ExtractWaitingCalls(lines []string) *int64 {
	for _, line := range lines {
		m := waitingPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			continue
		}
		return &n
	}
	return nil
}
