package udebug

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/openafs-contrib/afsmon/internal/probe"
)

func writeScript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-udebug")
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

var syncSiteTranscript = []string{
	"Host's addresses are: 192.0.2.10",
	"Host's 192.0.2.10 time is Sun Aug 30 12:00:00 2026",
	"Local time is Sun Aug 30 12:00:00 2026 (time differential 0 secs)",
	"I am sync site until 53 secs from now (retry at Sun Aug 30 12:00:49 2026)",
	"Recovery state 1f",
	"Local db version is 1756500000.18",
	"I am currently managing 2 sites",
}

var secondaryTranscript = []string{
	"Host's addresses are: 192.0.2.11",
	"I am not sync site",
	"Lowest host 192.0.2.10 was set 120 secs ago",
	"Sync host 192.0.2.10 was set 120 secs ago",
	"Local db version is 1756500000.18",
}

func TestExtractSyncSite(t *testing.T) {
	f := Extract(syncSiteTranscript)
	if !f.SyncSite {
		t.Error("expected sync site claim")
	}
	if f.RecoveryState != "1f" {
		t.Errorf("expected recovery state 1f, got %q", f.RecoveryState)
	}
	if f.DBVersion != "1756500000.18" {
		t.Errorf("unexpected db version: %q", f.DBVersion)
	}
}

func TestExtractSecondary(t *testing.T) {
	f := Extract(secondaryTranscript)
	if f.SyncSite {
		t.Error("did not expect sync site claim")
	}
	if !f.SyncHost {
		t.Error("expected sync host to be observed")
	}
}

func TestExtractFirstMatchWins(t *testing.T) {
	f := Extract([]string{
		"Recovery state 1f",
		"Recovery state 0",
	})
	if f.RecoveryState != "1f" {
		t.Errorf("expected first recovery state to win, got %q", f.RecoveryState)
	}
}

func TestExtractEmpty(t *testing.T) {
	f := Extract(nil)
	if f.SyncSite || f.SyncHost || f.RecoveryState != "" || f.DBVersion != "" {
		t.Errorf("expected zero facts, got %+v", f)
	}
}

func TestClassifySyncSiteStates(t *testing.T) {
	tests := []struct {
		name     string
		state    string
		expected probe.Status
	}{
		{"fully recovered", "1f", probe.StatusOK},
		{"pre-propagation", "17", probe.StatusOK},
		{"recovering", "0", probe.StatusCritical},
		{"odd state", "f", probe.StatusCritical},
		{"state never reported", "", probe.StatusCritical},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Classify(Facts{SyncSite: true, RecoveryState: tt.state})
			if result.Status != tt.expected {
				t.Errorf("state %q: expected %q, got %q (%s)", tt.state, tt.expected, result.Status, result.Message)
			}
		})
	}
}

func TestClassifySyncSiteStateInMessage(t *testing.T) {
	result := Classify(Facts{SyncSite: true, RecoveryState: "0"})
	if !strings.Contains(result.Message, "recovery state 0") {
		t.Errorf("expected state in message, got: %s", result.Message)
	}
	result = Classify(Facts{SyncSite: true})
	if !strings.Contains(result.Message, "undefined") {
		t.Errorf("expected undefined state named, got: %s", result.Message)
	}
}

func TestClassifySecondary(t *testing.T) {
	result := Classify(Facts{SyncHost: true})
	if result.Status != probe.StatusOK {
		t.Errorf("expected status %q, got %q", probe.StatusOK, result.Status)
	}

	result = Classify(Facts{})
	if result.Status != probe.StatusCritical {
		t.Errorf("expected status %q, got %q", probe.StatusCritical, result.Status)
	}
	if result.Message != "no sync host found" {
		t.Errorf("unexpected message: %s", result.Message)
	}
}

func TestClassifyDBVersionIsDisplayOnly(t *testing.T) {
	with := Classify(Facts{SyncSite: true, RecoveryState: "1f", DBVersion: "123.4"})
	without := Classify(Facts{SyncSite: true, RecoveryState: "1f"})
	if with.Status != without.Status {
		t.Error("db version must not affect the verdict")
	}
	if !strings.Contains(with.Message, "123.4") {
		t.Errorf("expected db version in message, got: %s", with.Message)
	}
}

func TestRunEndToEnd(t *testing.T) {
	script := "#!/bin/sh\ncat <<'EOF'\n" + strings.Join(syncSiteTranscript, "\n") + "\nEOF\n"
	result := Run(context.Background(), &Options{
		Host:    "db1.example.com",
		Port:    DefaultPort,
		Timeout: 10 * time.Second,
		Command: writeScript(t, script),
	})
	if result.Status != probe.StatusOK {
		t.Fatalf("expected status %q, got %q (%s)", probe.StatusOK, result.Status, result.Message)
	}
}

func TestRunCommandFailure(t *testing.T) {
	result := Run(context.Background(), &Options{
		Host:    "db1.example.com",
		Port:    DefaultPort,
		Timeout: 10 * time.Second,
		Command: writeScript(t, "#!/bin/sh\nexit 1\n"),
	})
	if result.Status != probe.StatusCritical {
		t.Errorf("expected status %q, got %q", probe.StatusCritical, result.Status)
	}
	if !strings.Contains(result.Message, "cannot contact") {
		t.Errorf("unexpected message: %s", result.Message)
	}
}

func TestRunMissingHost(t *testing.T) {
	result := Run(context.Background(), &Options{Port: DefaultPort, Timeout: DefaultTimeout})
	if result.Status != probe.StatusUnknown {
		t.Errorf("expected status %q, got %q", probe.StatusUnknown, result.Status)
	}
}
