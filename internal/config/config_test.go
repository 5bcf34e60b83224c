package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(cfg.Requirements) != 1 || cfg.Requirements[0].Feature != "nvenc-api" {
		t.Fatalf("unexpected default requirements: %+v", cfg.Requirements)
	}
	if cfg.Preload.OnFailure != "warn" {
		t.Fatalf("default preload policy = %q", cfg.Preload.OnFailure)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, path, exists, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("file should not exist")
	}
	if path == "" {
		t.Fatal("resolved path should be reported")
	}
	if cfg.SMIBinary() != "nvidia-smi" {
		t.Fatalf("SMIBinary = %q", cfg.SMIBinary())
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	content := `
[paths]
log_dir = "` + filepath.Join(dir, "logs") + `"
state_dir = "` + filepath.Join(dir, "state") + `"

[driver]
smi_binary = "/opt/nvidia/bin/nvidia-smi"

[[requirements]]
feature = "nvenc-api"
minimum = "12.2"
kind = "nvenc-api"

[[requirements]]
feature = "driver-branch"
minimum = "550.54.14"

[preload]
enabled = true
libraries = ["libnvidia-encode.so.1"]
on_failure = "FAIL"
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, _, exists, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("expected file to exist")
	}
	if len(cfg.Requirements) != 2 {
		t.Fatalf("requirements = %+v", cfg.Requirements)
	}
	// kind defaults to "driver" when omitted.
	if cfg.Requirements[1].Kind != "driver" {
		t.Fatalf("kind = %q", cfg.Requirements[1].Kind)
	}
	if cfg.Preload.OnFailure != "fail" {
		t.Fatalf("on_failure = %q", cfg.Preload.OnFailure)
	}
	if cfg.HistoryPath() != filepath.Join(dir, "state", "history.db") {
		t.Fatalf("HistoryPath = %q", cfg.HistoryPath())
	}
}

func TestLoadRejectsMalformedMinimum(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	content := `
[[requirements]]
feature = "nvenc-api"
minimum = "twelve"
kind = "nvenc-api"
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	_, _, _, err := Load(cfgPath)
	if err == nil {
		t.Fatal("expected error for malformed minimum")
	}
	if !strings.Contains(err.Error(), "minimum") {
		t.Fatalf("error should mention minimum: %v", err)
	}
}

func TestLoadRejectsUnknownKind(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	content := `
[[requirements]]
feature = "nvenc-api"
minimum = "12.0"
kind = "cuda"
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := Load(cfgPath); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestLoadRejectsDuplicateFeature(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	content := `
[[requirements]]
feature = "nvenc-api"
minimum = "12.0"
kind = "nvenc-api"

[[requirements]]
feature = "nvenc-api"
minimum = "12.2"
kind = "nvenc-api"
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := Load(cfgPath); err == nil {
		t.Fatal("expected error for duplicate feature")
	}
}

func TestExpandPathHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}
	got, err := ExpandPath("~/x")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != filepath.Join(home, "x") {
		t.Fatalf("got %q", got)
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(target); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := Load(target)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("sample should exist")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sample config invalid: %v", err)
	}
}
