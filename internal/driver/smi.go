package driver

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"nvcheck/internal/version"
)

const smiSourceName = "nvidia-smi"

// smiQueryArgs asks for just the driver version, one line per GPU, no header.
var smiQueryArgs = []string{"--query-gpu=driver_version", "--format=csv,noheader"}

// SMISource queries the installed driver version by executing nvidia-smi.
type SMISource struct {
	// Binary is the nvidia-smi executable name or path. Defaults to "nvidia-smi".
	Binary string

	// run is swapped out by tests; nil means exec the real binary.
	run func(ctx context.Context, binary string, args ...string) (string, error)
}

// NewSMISource builds an SMISource for the given binary ("" for the default).
func NewSMISource(binary string) *SMISource {
	return &SMISource{Binary: strings.TrimSpace(binary)}
}

// Name implements capability.VersionSource.
func (s *SMISource) Name() string { return smiSourceName }

// Query executes nvidia-smi and parses the reported driver version.
func (s *SMISource) Query(ctx context.Context) (version.Version, error) {
	binary := s.Binary
	if binary == "" {
		binary = "nvidia-smi"
	}

	if s.run == nil {
		if _, err := exec.LookPath(binary); err != nil {
			return version.Version{}, newQueryError(KindQueryUnavailable, smiSourceName,
				fmt.Sprintf("binary %q not found", binary), err)
		}
	}

	output, err := s.execute(ctx, binary, smiQueryArgs...)
	if err != nil {
		return version.Version{}, classifySMIFailure(output, err)
	}

	// Multi-GPU hosts report one line per device; the driver version is
	// system-wide, so the first line is authoritative.
	line := firstLine(output)
	if line == "" {
		return version.Version{}, newQueryError(KindMalformedVersion, smiSourceName,
			"empty response", nil)
	}
	parsed, err := version.Parse(line)
	if err != nil {
		return version.Version{}, newQueryError(KindMalformedVersion, smiSourceName,
			fmt.Sprintf("unparsable driver version %q", line), err)
	}
	return parsed, nil
}

func (s *SMISource) execute(ctx context.Context, binary string, args ...string) (string, error) {
	if s.run != nil {
		return s.run(ctx, binary, args...)
	}
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func classifySMIFailure(output string, err error) *QueryError {
	combined := strings.ToLower(output + " " + err.Error())
	switch {
	case strings.Contains(combined, "no devices were found"),
		strings.Contains(combined, "couldn't communicate with the nvidia driver"),
		strings.Contains(combined, "driver is not loaded"):
		return newQueryError(KindNoDriverPresent, smiSourceName,
			"driver not present", fmt.Errorf("%s", strings.TrimSpace(output)))
	case strings.Contains(combined, "permission denied"),
		strings.Contains(combined, "insufficient permissions"):
		return newQueryError(KindQueryDenied, smiSourceName,
			"query denied", err)
	case errors.Is(err, exec.ErrNotFound):
		return newQueryError(KindQueryUnavailable, smiSourceName,
			"binary not found", err)
	default:
		return newQueryError(KindQueryUnavailable, smiSourceName,
			fmt.Sprintf("query failed: %s", strings.TrimSpace(output)), err)
	}
}

func firstLine(output string) string {
	for _, line := range strings.Split(output, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
