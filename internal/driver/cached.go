package driver

import (
	"context"
	"sync"

	"nvcheck/internal/capability"
	"nvcheck/internal/version"
)

// CachedSource memoizes the wrapped source's first answer so several
// requirements in one invocation share a single driver query. The driver
// version is system-wide, so the answer cannot differ between requirements.
type CachedSource struct {
	source capability.VersionSource

	once sync.Once
	v    version.Version
	err  error
}

// NewCachedSource wraps the given source with single-query memoization.
func NewCachedSource(source capability.VersionSource) *CachedSource {
	return &CachedSource{source: source}
}

// Name implements capability.VersionSource.
func (s *CachedSource) Name() string {
	return s.source.Name()
}

// Query implements capability.VersionSource. The first call's outcome,
// success or failure, is returned to every subsequent caller.
func (s *CachedSource) Query(ctx context.Context) (version.Version, error) {
	s.once.Do(func() {
		s.v, s.err = s.source.Query(ctx)
	})
	return s.v, s.err
}
