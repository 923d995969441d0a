// Package classify implements the rule-evaluation engines that turn
// observed facts into a severity verdict.
package classify

import (
	"fmt"

	"github.com/openafs-contrib/afsmon/internal/probe"
)

// Thresholds holds the warning and critical bounds for a numeric check.
type Thresholds struct {
	Warning  int64
	Critical int64
}

// Validate rejects threshold sets where warning exceeds critical. This is
// a configuration error and must be caught before any command runs.
func (t Thresholds) Validate() error {
	if t.Warning > t.Critical {
		return fmt.Errorf("warning threshold (%d) must not exceed critical threshold (%d)", t.Warning, t.Critical)
	}
	return nil
}

// Classify compares value against the thresholds. Both comparisons are
// inclusive, and critical is evaluated first so a value satisfying both
// bounds reports the more severe status.
func (t Thresholds) Classify(value int64) probe.Status {
	switch {
	case value >= t.Critical:
		return probe.StatusCritical
	case value >= t.Warning:
		return probe.StatusWarning
	default:
		return probe.StatusOK
	}
}
