package main

import (
	"strings"
	"testing"
)

func TestRenderStatusLine(t *testing.T) {
	line := renderStatusLine("Driver version", statusOK, "550.54.14", false)
	if !strings.Contains(line, "Driver version:") {
		t.Errorf("missing label: %q", line)
	}
	if !strings.Contains(line, "[OK] 550.54.14") {
		t.Errorf("missing status text: %q", line)
	}
	if strings.Contains(line, ansiGreen) {
		t.Errorf("unexpected color without colorize: %q", line)
	}

	colored := renderStatusLine("Driver version", statusError, "missing", true)
	if !strings.HasPrefix(colored, ansiRed) || !strings.HasSuffix(colored, ansiReset) {
		t.Errorf("expected red wrapping: %q", colored)
	}
}

func TestRenderStatusLineWithoutMessage(t *testing.T) {
	line := renderStatusLine("NVENC API", statusWarn, "", false)
	if !strings.Contains(line, "[WARN]") {
		t.Errorf("expected bare status marker: %q", line)
	}
	if strings.HasSuffix(line, " ") {
		t.Errorf("trailing space after empty message: %q", line)
	}
}

func TestRenderSectionHeader(t *testing.T) {
	header := renderSectionHeader("Driver", false)
	if header != "== Driver ==" {
		t.Errorf("header = %q", header)
	}
	colored := renderSectionHeader("Driver", true)
	if !strings.HasPrefix(colored, ansiBlue) {
		t.Errorf("expected colored header: %q", colored)
	}
}

func TestRenderTable(t *testing.T) {
	out := renderTable(tableSpec{
		headers: []string{"FEATURE", "STATUS"},
		aligns:  []columnAlignment{alignLeft, alignLeft},
	}, [][]string{{"nvenc-api", "satisfied"}, {"driver"}})
	if !strings.Contains(out, "FEATURE") || !strings.Contains(out, "nvenc-api") {
		t.Errorf("table missing content:\n%s", out)
	}

	if renderTable(tableSpec{}, nil) != "" {
		t.Error("expected empty output for zero columns")
	}
}

func TestRenderTableStatusColumnSurvivesColorize(t *testing.T) {
	// Whether escape codes are emitted depends on the terminal go-pretty
	// detects; the labels themselves must come through either way.
	out := renderTable(tableSpec{
		headers:      []string{"FEATURE", "STATUS"},
		aligns:       []columnAlignment{alignLeft, alignLeft},
		statusColumn: 2,
		colorize:     true,
	}, [][]string{
		{"nvenc-api", "insufficient"},
		{"driver-branch", "satisfied"},
		{"other", "undetermined"},
	})
	for _, label := range []string{"insufficient", "satisfied", "undetermined"} {
		if !strings.Contains(out, label) {
			t.Errorf("missing %q in:\n%s", label, out)
		}
	}
}

func TestStatusCellTransformerPassesUnknownLabels(t *testing.T) {
	if got := statusCellTransformer("12.2"); got != "12.2" {
		t.Errorf("non-status cell must pass through untouched, got %q", got)
	}
}

func TestShortRunID(t *testing.T) {
	if got := shortRunID("0123456789abcdef"); got != "01234567" {
		t.Errorf("shortRunID = %q", got)
	}
	if got := shortRunID("abc"); got != "abc" {
		t.Errorf("short ids pass through, got %q", got)
	}
}
