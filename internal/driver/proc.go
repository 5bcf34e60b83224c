package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"nvcheck/internal/version"
)

const procSourceName = "procfs"

const (
	defaultSysModuleVersionPath = "/sys/module/nvidia/version"
	defaultProcVersionPath      = "/proc/driver/nvidia/version"
)

// ProcSource reads the installed driver version from the kernel module's
// sysfs attribute, falling back to the procfs banner. It needs no external
// binaries, so it works on minimal hosts where nvidia-smi is not installed.
type ProcSource struct {
	// SysPath and ProcPath override the kernel file locations for tests.
	SysPath  string
	ProcPath string
}

// NewProcSource builds a ProcSource against the real kernel paths.
func NewProcSource() *ProcSource {
	return &ProcSource{}
}

// Name implements capability.VersionSource.
func (s *ProcSource) Name() string { return procSourceName }

// Query reads the driver version from sysfs or procfs.
func (s *ProcSource) Query(ctx context.Context) (version.Version, error) {
	if err := ctx.Err(); err != nil {
		return version.Version{}, newQueryError(KindQueryUnavailable, procSourceName, "query canceled", err)
	}

	sysPath := s.SysPath
	if sysPath == "" {
		sysPath = defaultSysModuleVersionPath
	}
	procPath := s.ProcPath
	if procPath == "" {
		procPath = defaultProcVersionPath
	}

	sysVersion, sysErr := readSysVersion(sysPath)
	if sysErr == nil {
		return sysVersion, nil
	}

	// Always attempt the banner: procfs can be readable on hosts where the
	// sysfs attribute is restricted or carries unexpected contents.
	procVersion, procErr := readProcVersion(procPath)
	if procErr == nil {
		return procVersion, nil
	}

	if moduleEvidenceRank(queryErrorKind(procErr)) > moduleEvidenceRank(queryErrorKind(sysErr)) {
		return version.Version{}, procErr
	}
	return version.Version{}, sysErr
}

// moduleEvidenceRank orders failure kinds by how much they reveal about the
// kernel module. A file that exists but cannot be read or parsed proves the
// module is loaded, which outranks a missing file.
func moduleEvidenceRank(kind Kind) int {
	switch kind {
	case KindQueryDenied:
		return 3
	case KindMalformedVersion:
		return 2
	case KindNoDriverPresent:
		return 1
	default:
		return 0
	}
}

func queryErrorKind(err error) Kind {
	var qerr *QueryError
	if errors.As(err, &qerr) {
		return qerr.Kind
	}
	return KindQueryUnavailable
}

// readSysVersion parses /sys/module/nvidia/version, which contains the bare
// dotted version followed by a newline.
func readSysVersion(path string) (version.Version, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return version.Version{}, classifyReadError(path, err)
	}
	parsed, err := version.Parse(strings.TrimSpace(string(data)))
	if err != nil {
		return version.Version{}, newQueryError(KindMalformedVersion, procSourceName,
			fmt.Sprintf("unparsable contents of %s", path), err)
	}
	return parsed, nil
}

// readProcVersion parses the /proc/driver/nvidia/version banner, e.g.
//
//	NVRM version: NVIDIA UNIX x86_64 Kernel Module  570.86.16  Sat Jan ...
func readProcVersion(path string) (version.Version, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return version.Version{}, classifyReadError(path, err)
	}
	for _, line := range strings.Split(string(data), "\n") {
		if !strings.HasPrefix(line, "NVRM version:") {
			continue
		}
		for _, field := range strings.Fields(line) {
			if !strings.Contains(field, ".") {
				continue
			}
			if parsed, perr := version.Parse(field); perr == nil {
				return parsed, nil
			}
		}
	}
	return version.Version{}, newQueryError(KindMalformedVersion, procSourceName,
		fmt.Sprintf("no NVRM version line in %s", path), nil)
}

func classifyReadError(path string, err error) *QueryError {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// The module is not loaded: the query mechanism worked and found
		// nothing, which is distinct from the mechanism being unavailable.
		return newQueryError(KindNoDriverPresent, procSourceName,
			fmt.Sprintf("%s does not exist (kernel module not loaded)", path), err)
	case errors.Is(err, fs.ErrPermission):
		return newQueryError(KindQueryDenied, procSourceName,
			fmt.Sprintf("permission denied reading %s", path), err)
	default:
		return newQueryError(KindQueryUnavailable, procSourceName,
			fmt.Sprintf("read %s failed", path), err)
	}
}
