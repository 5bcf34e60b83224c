package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"nvcheck/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	// Keep resolution away from the host's real library dirs.
	cfgVal.Preload.ExtraDirs = nil

	for _, dir := range []string{cfgVal.Paths.LogDir, cfgVal.Paths.StateDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	builder := &configBuilder{t: t, baseDir: base, cfg: &cfgVal}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithPreloadDirs sets the preload search directories on the test config.
func WithPreloadDirs(dirs ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Preload.ExtraDirs = dirs
	}
}

// WithStubbedSMI writes a stub nvidia-smi that prints the given driver
// version and points the config at it.
func WithStubbedSMI(driverVersion string) ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		target := filepath.Join(binDir, "nvidia-smi")
		script := []byte("#!/bin/sh\necho \"" + driverVersion + "\"\n")
		if err := os.WriteFile(target, script, 0o755); err != nil {
			b.t.Fatalf("write stub nvidia-smi: %v", err)
		}
		b.cfg.Driver.SMIBinary = target
	}
}
