package preflight

import (
	"context"
	"fmt"

	"nvcheck/internal/capability"
	"nvcheck/internal/config"
	"nvcheck/internal/driver"
	"nvcheck/internal/libpath"
	"nvcheck/internal/version"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config:
// writable directories, every configured capability requirement, and preload
// library presence when enabled.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	if cfg.History.Enabled {
		results = append(results, CheckDirectoryAccess("State directory", cfg.Paths.StateDir))
	}

	results = append(results, CheckRequirements(ctx, cfg)...)

	if cfg.Preload.Enabled {
		results = append(results, CheckPreload(cfg)...)
	}

	return results
}

// CheckRequirements evaluates each configured capability requirement against
// the production query chain.
func CheckRequirements(ctx context.Context, cfg *config.Config) []Result {
	base := driver.DefaultSource(cfg.SMIBinary())
	results := make([]Result, 0, len(cfg.Requirements))
	for _, req := range cfg.Requirements {
		results = append(results, checkOneRequirement(ctx, base, req))
	}
	return results
}

func checkOneRequirement(ctx context.Context, base capability.VersionSource, req config.Requirement) Result {
	minimum, err := version.Parse(req.Minimum)
	if err != nil {
		// Validate rejects this at load time; guard anyway for direct callers.
		return Result{Name: req.Feature, Detail: fmt.Sprintf("invalid minimum %q: %v", req.Minimum, err)}
	}

	source := base
	if req.Kind == "nvenc-api" {
		source = driver.NewNvencAPISource(base)
	}

	checker := capability.NewChecker(source)
	result, err := checker.Check(ctx, capability.Requirement{Feature: req.Feature, Minimum: minimum})
	if err != nil {
		return Result{Name: req.Feature, Detail: err.Error()}
	}
	return Result{
		Name:   req.Feature,
		Passed: result.Satisfied(),
		Detail: result.Detail,
	}
}

// CheckPreload reports one result per configured preload library. Whether a
// miss fails the check follows the configured policy: "fail" marks the
// result failed, "warn" passes it with the miss recorded in the detail.
func CheckPreload(cfg *config.Config) []Result {
	candidates := libpath.Resolve(libpath.SnapshotEnv(), cfg.Preload.ExtraDirs)
	statuses := libpath.VerifyPreload(cfg.Preload.Libraries, candidates)

	results := make([]Result, 0, len(statuses))
	for _, status := range statuses {
		name := "Library " + status.Name
		if status.Found {
			results = append(results, Result{Name: name, Passed: true, Detail: status.Path})
			continue
		}
		if cfg.Preload.OnFailure == "fail" {
			results = append(results, Result{Name: name, Detail: status.Detail})
			continue
		}
		results = append(results, Result{Name: name, Passed: true, Detail: status.Detail + " (continuing per preload.on_failure=warn)"})
	}
	return results
}
