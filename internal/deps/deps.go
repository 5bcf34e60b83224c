package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external binary nvcheck or its host pipeline relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if resolved, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		} else {
			status.Command = resolved
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// SystemRequirements lists the binaries relevant to a capability check host.
// nvidia-smi is what the primary version source executes; the rest are
// informational for encode pipelines sitting on top of this check.
func SystemRequirements(smiBinary string) []Requirement {
	return []Requirement{
		{
			Name:        "nvidia-smi",
			Command:     smiBinary,
			Description: "Primary driver version query",
		},
		{
			Name:        "nvidia-modprobe",
			Command:     "nvidia-modprobe",
			Description: "Loads the kernel module when device nodes are absent",
			Optional:    true,
		},
		{
			Name:        "ffmpeg",
			Command:     "ffmpeg",
			Description: "Typical NVENC consumer; presence is informational",
			Optional:    true,
		},
	}
}
