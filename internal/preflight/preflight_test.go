package preflight

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"nvcheck/internal/config"
	"nvcheck/internal/testsupport"
	"nvcheck/internal/version"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestCheckPreload_WarnPolicyPasses(t *testing.T) {
	libDir := filepath.Join(t.TempDir(), "lib")
	if err := os.MkdirAll(libDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(libDir, "libcuda.so.1"), []byte{0x7f}, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := testsupport.NewConfig(t, testsupport.WithPreloadDirs(libDir))
	cfg.Preload.Libraries = []string{"libcuda.so.1", "libnvidia-encode.so.1"}
	cfg.Preload.OnFailure = "warn"

	results := CheckPreload(cfg)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if !results[0].Passed {
		t.Fatalf("found library should pass: %s", results[0].Detail)
	}
	if !results[1].Passed {
		t.Fatal("warn policy must not fail the check")
	}
	if !strings.Contains(results[1].Detail, "not found") {
		t.Fatalf("miss must be recorded in detail: %s", results[1].Detail)
	}
}

func TestCheckPreload_FailPolicyFails(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Preload.Libraries = []string{"libnvidia-encode.so.1"}
	cfg.Preload.ExtraDirs = []string{filepath.Join(t.TempDir(), "empty")}
	cfg.Preload.OnFailure = "fail"

	results := CheckPreload(cfg)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Passed {
		t.Fatal("fail policy must fail the check for a missing library")
	}
}

func TestRunAll_ReportsRequirementAndDirectories(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedSMI("550.54.14"))
	cfg.Preload.Enabled = false

	results := RunAll(context.Background(), cfg)

	var sawLogDir, sawRequirement bool
	for _, result := range results {
		switch {
		case result.Name == "Log directory":
			sawLogDir = true
			if !result.Passed {
				t.Errorf("log dir check failed: %s", result.Detail)
			}
		case result.Name == "nvenc-api":
			sawRequirement = true
			if !result.Passed {
				t.Errorf("requirement check failed: %s", result.Detail)
			}
		}
	}
	if !sawLogDir {
		t.Error("expected log directory check")
	}
	if !sawRequirement {
		t.Error("expected nvenc-api requirement check")
	}
}

type failingSource struct{}

func (failingSource) Name() string { return "failing" }

func (failingSource) Query(context.Context) (version.Version, error) {
	return version.Version{}, errors.New("query mechanism unavailable")
}

func TestCheckOneRequirement_UndeterminedStillReported(t *testing.T) {
	result := checkOneRequirement(context.Background(), failingSource{}, config.Requirement{
		Feature: "nvenc-api",
		Minimum: "12.0",
		Kind:    "nvenc-api",
	})
	if result.Passed {
		t.Fatalf("requirement should not pass without a driver: %s", result.Detail)
	}
	if result.Detail == "" {
		t.Fatal("expected diagnostic detail")
	}
}

func TestCheckOneRequirement_InvalidMinimumGuard(t *testing.T) {
	result := checkOneRequirement(context.Background(), failingSource{}, config.Requirement{
		Feature: "nvenc-api",
		Minimum: "not-a-version",
	})
	if result.Passed {
		t.Fatal("invalid minimum must not pass")
	}
	if !strings.Contains(result.Detail, "invalid minimum") {
		t.Fatalf("detail = %s", result.Detail)
	}
}
