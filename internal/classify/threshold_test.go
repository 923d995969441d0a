package classify

import (
	"testing"

	"github.com/openafs-contrib/afsmon/internal/probe"
)

func TestThresholdsClassify(t *testing.T) {
	th := Thresholds{Warning: 2, Critical: 8}

	tests := []struct {
		name     string
		value    int64
		expected probe.Status
	}{
		{"below warning", 1, probe.StatusOK},
		{"zero", 0, probe.StatusOK},
		{"equal to warning", 2, probe.StatusWarning},
		{"between warning and critical", 5, probe.StatusWarning},
		{"equal to critical", 8, probe.StatusCritical},
		{"above critical", 12, probe.StatusCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := th.Classify(tt.value); got != tt.expected {
				t.Errorf("Classify(%d) = %q, want %q", tt.value, got, tt.expected)
			}
		})
	}
}

func TestThresholdsClassifyEqualBounds(t *testing.T) {
	// When warning == critical, a value at the bound is critical because
	// the critical comparison is evaluated first.
	th := Thresholds{Warning: 5, Critical: 5}
	if got := th.Classify(5); got != probe.StatusCritical {
		t.Errorf("Classify(5) = %q, want %q", got, probe.StatusCritical)
	}
	if got := th.Classify(4); got != probe.StatusOK {
		t.Errorf("Classify(4) = %q, want %q", got, probe.StatusOK)
	}
}

func TestThresholdsValidate(t *testing.T) {
	if err := (Thresholds{Warning: 2, Critical: 8}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := (Thresholds{Warning: 5, Critical: 5}).Validate(); err != nil {
		t.Errorf("unexpected error for equal bounds: %v", err)
	}
	if err := (Thresholds{Warning: 9, Critical: 8}).Validate(); err == nil {
		t.Error("expected error when warning exceeds critical")
	}
}
