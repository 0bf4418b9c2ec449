package logfields

import (
	"errors"
	"log/slog"
	"testing"
	"time"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"AnalysisID", KeyAnalysisID, "a1", AnalysisID("a1")},
		{"ReportID", KeyReportID, "r1", ReportID("r1")},
		{"Stage", KeyStage, "summarize", Stage("summarize")},
		{"Agent", KeyAgent, "Researcher", Agent("Researcher")},
		{"Source", KeySource, "simulated", Source("simulated")},
		{"File", KeyFile, "paper.pdf", File("paper.pdf")},
		{"Industry", KeyIndustry, "Fintech", Industry("Fintech")},
		{"Method", KeyMethod, "POST", Method("POST")},
		{"Path", KeyPath, "/api/analyze", Path("/api/analyze")},
		{"Subject", KeySubject, "usecasegen.progress", Subject("usecasegen.progress")},
	}
	for _, c := range cases {
		if c.attr.Key != c.attrKey {
			t.Fatalf("%s key mismatch: got %s want %s", c.name, c.attr.Key, c.attrKey)
		}
		if c.attr.Value.String() != c.attrVal {
			t.Fatalf("%s value mismatch: got %s want %s", c.name, c.attr.Value.String(), c.attrVal)
		}
	}
}

func TestNumericHelpers(t *testing.T) {
	if a := Progress(45); a.Key != KeyProgress || a.Value.Int64() != 45 {
		t.Fatalf("unexpected progress attr %v", a)
	}
	if a := Bytes(2048); a.Key != KeyBytes || a.Value.Int64() != 2048 {
		t.Fatalf("unexpected bytes attr %v", a)
	}
	if a := Status(404); a.Value.Int64() != 404 {
		t.Fatalf("unexpected status attr %v", a)
	}
	if a := Duration(1500 * time.Microsecond); a.Key != KeyDurationMS || a.Value.Float64() != 1.5 {
		t.Fatalf("unexpected duration attr %v", a)
	}
}

func TestErrorHelper(t *testing.T) {
	if Error(nil).Value.String() != "" {
		t.Fatal("nil error should produce empty value")
	}
	if Error(errors.New("boom")).Value.String() != "boom" {
		t.Fatal("error message not preserved")
	}
}
