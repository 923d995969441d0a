// Package space provides the partition-usage probe implementation.
//
// It runs "vos partinfo" against a fileserver and classifies the used
// percentage of each partition against warning/critical thresholds.
package space

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	units "github.com/docker/go-units"
	"github.com/openafs-contrib/afsmon/internal/classify"
	"github.com/openafs-contrib/afsmon/internal/probe"
	"github.com/openafs-contrib/afsmon/internal/runner"
)

// Name is the probe subcommand name.
const Name = "space"

// Domain is the tag prefixing the output line.
const Domain = "AFS"

// Command is the diagnostic binary the probe invokes.
const Command = "vos"

// DefaultTimeout bounds the vos partinfo invocation. Listing partitions
// on a large fileserver can be slow.
const DefaultTimeout = 300 * time.Second

// Options configures one probe run. Immutable once parsed from flags.
type Options struct {
	Host        string
	Partition   string
	Cell        string
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
		Description: "Check used space on fileserver partitions",
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
				"partition": {
					Type:        "string",
					Description: "Only check this partition (a, vicepa, or /vicepa)",
				},
				"cell": {
					Type:        "string",
					Description: "AFS cell to query",
				},
				"warning": {
					Type:        "number",
					Description: "Used percentage that triggers a warning",
					Default:     85,
				},
				"critical": {
					Type:        "number",
					Description: "Used percentage that triggers a critical",
					Default:     90,
				},
				"timeout": {
					Type:        "number",
					Description: "Deadline for the vos partinfo invocation in seconds",
					Default:     300,
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

	args := []string{"partinfo", o.Host, "-noauth"}
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
			Message: fmt.Sprintf("cannot contact volserver on %s", o.Host),
		}
	}

	parts := ExtractPartitions(out.Lines, o.Partition)
	if len(parts) == 0 {
		return &probe.Result{
			Status:  probe.StatusCritical,
			Message: "no partition found",
		}
	}

	return classifyPartitions(parts, o.Thresholds)
}

// Partition is one partition's space report.
type Partition struct {
	Name    string
	FreeKB  int64
	TotalKB int64
}

// UsedPercent is the integer (floored) used-space percentage.
func (p Partition) UsedPercent() int64 {
	if p.TotalKB <= 0 {
		return 0
	}
	return (p.TotalKB - p.FreeKB) * 100 / p.TotalKB
}

func (p Partition) String() string {
	return fmt.Sprintf("%s %d%% used (%s free)",
		p.Name, p.UsedPercent(), units.HumanSize(float64(p.FreeKB)*1024))
}

// ExtractPartitions parses the partition report lines, discarding lines
// for partitions other than filter when a filter is given. Malformed
// lines are skipped.
func ExtractPartitions(lines []string, filter string) []Partition {
	want := canonicalName(filter)
	var parts []Partition
	for _, line := range lines {
		p, err := parsePartitionLine(line)
		if err != nil {
			continue
		}
		if want != "" && p.Name != want {
			continue
		}
		parts = append(parts, p)
	}
	return parts
}

// parsePartitionLine parses one vos partinfo report line. The expected
// shape is exactly twelve whitespace-separated columns:
//
//	Free space on partition /vicepa: 8378999 K blocks out of total 10205436
//	0    1     2  3         4        5       6 7      8   9  10    11
//
// with the partition name in column 4 and the free and total K-block
// counts in columns 5 and 11.
func parsePartitionLine(line string) (Partition, error) {
	if !strings.HasPrefix(line, "Free space on partition ") {
		return Partition{}, fmt.Errorf("not a partition report: %q", line)
	}
	fields := strings.Fields(line)
	if len(fields) != 12 {
		return Partition{}, fmt.Errorf("expected 12 columns, got %d: %q", len(fields), line)
	}
	free, err := strconv.ParseInt(fields[5], 10, 64)
	if err != nil {
		return Partition{}, fmt.Errorf("bad free count: %q", fields[5])
	}
	total, err := strconv.ParseInt(fields[11], 10, 64)
	if err != nil {
		return Partition{}, fmt.Errorf("bad total count: %q", fields[11])
	}
	if total <= 0 || free < 0 || free > total {
		return Partition{}, fmt.Errorf("implausible sizes in %q", line)
	}
	return Partition{
		Name:    canonicalName(strings.TrimSuffix(fields[4], ":")),
		FreeKB:  free,
		TotalKB: total,
	}, nil
}

// canonicalName normalizes "a", "vicepa", and "/vicepa" to "vicepa".
func canonicalName(name string) string {
	if name == "" {
		return ""
	}
	name = strings.TrimPrefix(name, "/")
	if !strings.HasPrefix(name, "vicep") {
		name = "vicep" + name
	}
	return name
}

func classifyPartitions(parts []Partition, th classify.Thresholds) *probe.Result {
	worst := probe.StatusOK
	var breached []string
	var all []string
	perf := make([]probe.PerfDatum, 0, len(parts))

	for _, p := range parts {
		status := th.Classify(p.UsedPercent())
		if status.Worse(worst) {
			worst = status
		}
		if status != probe.StatusOK {
			breached = append(breached, p.String())
		}
		all = append(all, p.String())
		perf = append(perf, probe.PerfDatum{
			Label: p.Name,
			Value: fmt.Sprintf("%d%%", p.UsedPercent()),
			Warn:  strconv.FormatInt(th.Warning, 10),
			Crit:  strconv.FormatInt(th.Critical, 10),
			Min:   "0",
			Max:   "100",
		})
	}

	message := strings.Join(all, ", ")
	if len(breached) > 0 {
		message = strings.Join(breached, ", ")
	}
	return &probe.Result{Status: worst, Message: message, Perf: perf}
}
