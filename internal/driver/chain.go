package driver

import (
	"context"
	"errors"
	"strings"

	"nvcheck/internal/capability"
	"nvcheck/internal/version"
)

// Chain tries each source in order and returns the first successful answer.
// When every source fails, the combined error keeps the most informative
// classification: a positive "no driver present" beats "query unavailable",
// since the former means a query actually completed.
type Chain struct {
	sources []capability.VersionSource
}

// NewChain builds a fallback chain over the given sources.
func NewChain(sources ...capability.VersionSource) *Chain {
	return &Chain{sources: sources}
}

// Name implements capability.VersionSource.
func (c *Chain) Name() string {
	names := make([]string, 0, len(c.sources))
	for _, source := range c.sources {
		names = append(names, source.Name())
	}
	return strings.Join(names, "+")
}

// Query implements capability.VersionSource.
func (c *Chain) Query(ctx context.Context) (version.Version, error) {
	if len(c.sources) == 0 {
		return version.Version{}, newQueryError(KindQueryUnavailable, "chain", "no sources configured", nil)
	}

	var best *QueryError
	for _, source := range c.sources {
		detected, err := source.Query(ctx)
		if err == nil {
			return detected, nil
		}
		var qerr *QueryError
		if !errors.As(err, &qerr) {
			qerr = newQueryError(KindQueryUnavailable, source.Name(), "query failed", err)
		}
		if best == nil || kindRank(qerr.Kind) > kindRank(best.Kind) {
			best = qerr
		}
	}
	return version.Version{}, best
}

// kindRank orders failure classes by how much they tell the caller.
func kindRank(kind Kind) int {
	switch kind {
	case KindNoDriverPresent:
		return 3
	case KindQueryDenied:
		return 2
	case KindMalformedVersion:
		return 1
	default:
		return 0
	}
}

// DefaultSource is the production query chain: nvidia-smi when available,
// with a procfs fallback for hosts that ship the kernel module but not the
// management tooling.
func DefaultSource(smiBinary string) capability.VersionSource {
	return NewChain(NewSMISource(smiBinary), NewProcSource())
}
