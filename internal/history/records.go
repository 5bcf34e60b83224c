package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"nvcheck/internal/capability"
	"nvcheck/internal/version"
)

// Entry is one recorded requirement outcome. Runs that check several
// requirements share a RunID.
type Entry struct {
	RunID     string
	CreatedAt time.Time
	Feature   string
	Minimum   version.Version
	Detected  *version.Version
	Status    capability.Status
	Cause     capability.Cause
	Detail    string
}

// NewRunID generates the identifier shared by every entry of one invocation.
func NewRunID() string {
	return uuid.NewString()
}

// Record persists the results of one check run under the given run id.
func (s *Store) Record(ctx context.Context, runID string, results []capability.Result) error {
	if runID == "" {
		return fmt.Errorf("record history: empty run id")
	}
	if len(results) == 0 {
		return nil
	}
	ctx = ensureContext(ctx)

	now := time.Now().UTC().Format(time.RFC3339)
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin history transaction: %w", err)
		}
		defer tx.Rollback()

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO check_runs (run_id, created_at, feature, minimum, detected, status, cause, detail)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare history insert: %w", err)
		}
		defer stmt.Close()

		for _, result := range results {
			var detected any
			if result.Detected != nil {
				detected = result.Detected.String()
			}
			if _, err := stmt.ExecContext(ctx,
				runID,
				now,
				result.Requirement.Feature,
				result.Requirement.Minimum.String(),
				detected,
				result.Status.String(),
				result.Cause.String(),
				result.Detail,
			); err != nil {
				return fmt.Errorf("insert history entry for %s: %w", result.Requirement.Feature, err)
			}
		}
		return tx.Commit()
	})
}

// List returns recorded entries newest first, up to limit. A non-positive
// limit returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	ctx = ensureContext(ctx)

	query := `
		SELECT run_id, created_at, feature, minimum, detected, status, cause, detail
		FROM check_runs
		ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history rows: %w", err)
	}
	return entries, nil
}

// Prune removes entries older than the retention window and returns how many
// rows were deleted.
func (s *Store) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, nil
	}
	cutoff := time.Now().UTC().Add(-retention).Format(time.RFC3339)
	res, err := s.execWithRetry(ensureContext(ctx),
		"DELETE FROM check_runs WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune history: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count pruned rows: %w", err)
	}
	return deleted, nil
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var (
		entry     Entry
		createdAt string
		minimum   string
		detected  sql.NullString
		status    string
		cause     string
	)
	if err := rows.Scan(&entry.RunID, &createdAt, &entry.Feature, &minimum, &detected, &status, &cause, &entry.Detail); err != nil {
		return Entry{}, fmt.Errorf("scan history row: %w", err)
	}

	ts, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return Entry{}, fmt.Errorf("parse history timestamp %q: %w", createdAt, err)
	}
	entry.CreatedAt = ts

	entry.Minimum, err = version.Parse(minimum)
	if err != nil {
		return Entry{}, fmt.Errorf("parse stored minimum %q: %w", minimum, err)
	}
	if detected.Valid {
		parsed, err := version.Parse(detected.String)
		if err != nil {
			return Entry{}, fmt.Errorf("parse stored detected version %q: %w", detected.String, err)
		}
		entry.Detected = &parsed
	}

	entry.Status, err = capability.ParseStatus(status)
	if err != nil {
		return Entry{}, fmt.Errorf("decode history row: %w", err)
	}
	entry.Cause, err = capability.ParseCause(cause)
	if err != nil {
		return Entry{}, fmt.Errorf("decode history row: %w", err)
	}
	return entry, nil
}
