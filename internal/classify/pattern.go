package classify

import (
	"regexp"
	"strings"

	"github.com/openafs-contrib/afsmon/internal/probe"
)

// ContextOverride downgrades an otherwise-unrecognized line when the
// immediately preceding line matched Prev. This is the only rule with
// cross-line context; intervening lines defeat it by design of the
// underlying tool's output.
type ContextOverride struct {
	Prev    *regexp.Regexp
	Curr    *regexp.Regexp
	Status  probe.Status
	Message string
}

// LineClassifier evaluates output lines against ordered pattern lists.
// For each line the Okay list is tried first, then the Warning list;
// first match governs. A line matching neither list is CRITICAL unless a
// ContextOverride applies: unrecognized output is never assumed safe.
type LineClassifier struct {
	Okay      []*regexp.Regexp
	Warning   []*regexp.Regexp
	Normal    *regexp.Regexp
	Overrides []ContextOverride
}

// Verdict is the outcome of classifying a transcript.
type Verdict struct {
	Status  probe.Status
	Message string

	// NormalCount is the number of lines that matched the Normal
	// pattern. Only meaningful when Status is ok.
	NormalCount int
}

// Classify evaluates lines in order and returns the first breach, or an
// ok verdict counting the lines that matched Normal. Classification is
// pure: repeated runs over the same transcript yield the same verdict.
func (c *LineClassifier) Classify(lines []string) Verdict {
	normal := 0
	prev := ""
	for _, line := range lines {
		if c.Normal != nil && c.Normal.MatchString(line) {
			normal++
		}
		if matchAny(c.Okay, line) {
			prev = line
			continue
		}
		if matchAny(c.Warning, line) {
			return Verdict{Status: probe.StatusWarning, Message: strings.TrimSpace(line)}
		}
		if ov, ok := c.override(prev, line); ok {
			return Verdict{Status: ov.Status, Message: ov.Message}
		}
		return Verdict{Status: probe.StatusCritical, Message: strings.TrimSpace(line)}
	}
	return Verdict{Status: probe.StatusOK, NormalCount: normal}
}

func (c *LineClassifier) override(prev, line string) (ContextOverride, bool) {
	for _, ov := range c.Overrides {
		if ov.Prev.MatchString(prev) && ov.Curr.MatchString(line) {
			return ov, true
		}
	}
	return ContextOverride{}, false
}

func matchAny(patterns []*regexp.Regexp, line string) bool {
	for _, p := range patterns {
		if p.MatchString(line) {
			return true
		}
	}
	return false
}
