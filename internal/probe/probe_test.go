package probe

import (
	"testing"
)

func TestStatusLabel(t *testing.T) {
	tests := []struct {
		status   Status
		expected string
	}{
		{StatusOK, "OK"},
		{StatusWarning, "WARNING"},
		{StatusCritical, "CRITICAL"},
		{StatusUnknown, "UNKNOWN"},
		{Status("garbage"), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.status.Label(); got != tt.expected {
			t.Errorf("Label(%q) = %q, want %q", tt.status, got, tt.expected)
		}
	}
}

func TestStatusExitCode(t *testing.T) {
	tests := []struct {
		status   Status
		expected int
	}{
		{StatusOK, 0},
		{StatusWarning, 1},
		{StatusCritical, 2},
		{StatusUnknown, 3},
		{Status(""), 3},
	}

	for _, tt := range tests {
		if got := tt.status.ExitCode(); got != tt.expected {
			t.Errorf("ExitCode(%q) = %d, want %d", tt.status, got, tt.expected)
		}
	}
}

func TestStatusWorse(t *testing.T) {
	if !StatusCritical.Worse(StatusWarning) {
		t.Error("expected critical to be worse than warning")
	}
	if !StatusWarning.Worse(StatusOK) {
		t.Error("expected warning to be worse than ok")
	}
	if !StatusCritical.Worse(StatusUnknown) {
		t.Error("expected critical to be worse than unknown")
	}
	if !StatusUnknown.Worse(StatusWarning) {
		t.Error("expected unknown to be worse than warning")
	}
	if StatusOK.Worse(StatusOK) {
		t.Error("expected ok not to be worse than itself")
	}
}

func TestRenderPlain(t *testing.T) {
	r := &Result{Status: StatusOK, Message: "3 services running normally"}
	got := r.Render("BOS", false)
	want := "BOS OK - 3 services running normally"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRenderWithPerfdata(t *testing.T) {
	r := &Result{
		Status:  StatusCritical,
		Message: "12 calls waiting for a thread",
		Perf: []PerfDatum{
			{Label: "waiting_calls", Value: "12", Warn: "2", Crit: "8", Min: "0"},
		},
	}
	got := r.Render("AFS", true)
	want := "AFS CRITICAL - 12 calls waiting for a thread | waiting_calls=12;2;8;0;"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRenderPerfdataSuppressed(t *testing.T) {
	r := &Result{
		Status:  StatusOK,
		Message: "1 calls waiting for a thread",
		Perf:    []PerfDatum{{Label: "waiting_calls", Value: "1"}},
	}
	got := r.Render("AFS", false)
	if got != "AFS OK - 1 calls waiting for a thread" {
		t.Errorf("unexpected output: %q", got)
	}
}

func TestRenderMultiplePerfTokens(t *testing.T) {
	r := &Result{
		Status:  StatusOK,
		Message: "vicepa 42%, vicepb 17%",
		Perf: []PerfDatum{
			{Label: "vicepa", Value: "42%", Warn: "85", Crit: "90", Min: "0", Max: "100"},
			{Label: "vicepb", Value: "17%", Warn: "85", Crit: "90", Min: "0", Max: "100"},
		},
	}
	got := r.Render("AFS", true)
	want := "AFS OK - vicepa 42%, vicepb 17% | vicepa=42%;85;90;0;100 vicepb=17%;85;90;0;100"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}
