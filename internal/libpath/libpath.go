package libpath

import (
	"os"
	"path/filepath"
	"strings"
)

// Origin records where a candidate directory came from, for diagnostics.
type Origin string

const (
	OriginConfigured    Origin = "configured"
	OriginCUDAPath      Origin = "cuda_path"
	OriginCUDADefault   Origin = "cuda_default"
	OriginLDLibraryPath Origin = "ld_library_path"
	OriginDistroDefault Origin = "distro_default"
)

// Candidate is a directory that may hold NVIDIA shared libraries.
type Candidate struct {
	Dir    string
	Origin Origin
	Exists bool
}

// Env is an explicit snapshot of the environment variables the resolution
// consults. Callers build it once (SnapshotEnv) so Resolve stays a pure
// function of its inputs.
type Env struct {
	CUDAPath      string
	LDLibraryPath string
}

// SnapshotEnv captures the relevant process environment.
func SnapshotEnv() Env {
	return Env{
		CUDAPath:      os.Getenv("CUDA_PATH"),
		LDLibraryPath: os.Getenv("LD_LIBRARY_PATH"),
	}
}

// cudaDefaultRoots are the conventional CUDA install locations.
var cudaDefaultRoots = []string{"/usr/local/cuda", "/usr/cuda"}

// distroDefaultDirs are where distro packages place the driver libraries.
var distroDefaultDirs = []string{
	"/usr/lib/x86_64-linux-gnu",
	"/usr/lib64",
}

// Resolve produces the ordered, deduplicated list of candidate library
// directories: configured extras first, then CUDA installs (env override
// before conventional roots), NVIDIA-related LD_LIBRARY_PATH entries, and
// finally the distro defaults. The only side effect is stat'ing each
// directory to record existence.
func Resolve(env Env, extraDirs []string) []Candidate {
	var candidates []Candidate
	seen := make(map[string]struct{})

	add := func(dir string, origin Origin) {
		dir = strings.TrimSpace(dir)
		if dir == "" {
			return
		}
		dir = filepath.Clean(dir)
		if _, ok := seen[dir]; ok {
			return
		}
		seen[dir] = struct{}{}
		info, err := os.Stat(dir)
		candidates = append(candidates, Candidate{
			Dir:    dir,
			Origin: origin,
			Exists: err == nil && info.IsDir(),
		})
	}

	for _, dir := range extraDirs {
		add(dir, OriginConfigured)
	}

	if env.CUDAPath != "" {
		for _, dir := range cudaLibDirs(env.CUDAPath) {
			add(dir, OriginCUDAPath)
		}
	}
	for _, root := range cudaDefaultRoots {
		for _, dir := range cudaLibDirs(root) {
			add(dir, OriginCUDADefault)
		}
	}

	for _, dir := range filepath.SplitList(env.LDLibraryPath) {
		if strings.Contains(strings.ToLower(dir), "nvidia") {
			add(dir, OriginLDLibraryPath)
		}
	}

	for _, dir := range distroDefaultDirs {
		add(dir, OriginDistroDefault)
	}

	return candidates
}

// cudaLibDirs expands a CUDA root into its library directories. Roots that
// already point at a lib directory are used as-is.
func cudaLibDirs(root string) []string {
	root = filepath.Clean(strings.TrimSpace(root))
	base := filepath.Base(root)
	if base == "lib64" || base == "lib" {
		return []string{root}
	}
	return []string{filepath.Join(root, "lib64"), filepath.Join(root, "lib")}
}

// Locate returns the full path of the first candidate directory containing
// the named library, in resolution order.
func Locate(name string, candidates []Candidate) (string, bool) {
	for _, candidate := range candidates {
		if !candidate.Exists {
			continue
		}
		path := filepath.Join(candidate.Dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// SearchPath builds the LD_LIBRARY_PATH value a parent process would hand to
// encoder children: existing candidate dirs prepended to the current value,
// without duplicating entries already present.
func SearchPath(candidates []Candidate, existing string) string {
	present := make(map[string]struct{})
	for _, entry := range filepath.SplitList(existing) {
		if entry != "" {
			present[filepath.Clean(entry)] = struct{}{}
		}
	}

	var prepend []string
	for _, candidate := range candidates {
		if !candidate.Exists {
			continue
		}
		if _, ok := present[candidate.Dir]; ok {
			continue
		}
		present[candidate.Dir] = struct{}{}
		prepend = append(prepend, candidate.Dir)
	}

	joined := strings.Join(prepend, string(os.PathListSeparator))
	switch {
	case joined == "":
		return existing
	case existing == "":
		return joined
	default:
		return joined + string(os.PathListSeparator) + existing
	}
}
