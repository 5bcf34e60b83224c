package libpath

import (
	"fmt"
	"os"
)

// PreloadStatus reports whether one shared library was found and readable
// across the candidate directories.
type PreloadStatus struct {
	Name   string
	Path   string
	Found  bool
	Detail string
}

// DefaultPreloadLibraries are the driver libraries an NVENC consumer needs
// resolvable before it can initialize the encoder.
var DefaultPreloadLibraries = []string{
	"libnvidia-encode.so.1",
	"libcuda.so.1",
}

// VerifyPreload checks each named library against the candidate directories.
// It performs no loading; whether a missing library is fatal is the embedding
// application's policy, not this package's.
func VerifyPreload(names []string, candidates []Candidate) []PreloadStatus {
	statuses := make([]PreloadStatus, 0, len(names))
	for _, name := range names {
		status := PreloadStatus{Name: name}
		path, ok := Locate(name, candidates)
		if !ok {
			status.Detail = fmt.Sprintf("%s not found in %d candidate directories", name, len(candidates))
			statuses = append(statuses, status)
			continue
		}
		status.Path = path
		file, err := os.Open(path)
		if err != nil {
			status.Detail = fmt.Sprintf("%s exists but is not readable: %v", path, err)
			statuses = append(statuses, status)
			continue
		}
		_ = file.Close()
		status.Found = true
		statuses = append(statuses, status)
	}
	return statuses
}
