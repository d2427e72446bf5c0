package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ericfisherdev/reviewsync/internal/domain/model"
	"github.com/ericfisherdev/reviewsync/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.HistoryStore = (*HistoryRepo)(nil)

// HistoryRepo is the SQLite implementation of the HistoryStore port interface.
type HistoryRepo struct {
	db *DB
}

// NewHistoryRepo creates a new HistoryRepo backed by the given DB.
func NewHistoryRepo(db *DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

// RecordSync appends a sync run. Warnings are stored as a JSON array.
func (r *HistoryRepo) RecordSync(ctx context.Context, rec model.SyncRecord) error {
	warnings := rec.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	warningsJSON, err := json.Marshal(warnings)
	if err != nil {
		return fmt.Errorf("marshal warnings for run %s: %w", rec.RunID, err)
	}

	const query = `
		INSERT INTO sync_runs (
			run_id, owner, repo, pr_number, head_sha, output_dir,
			total_entries, pending_entries, warnings, synced_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.Writer.ExecContext(ctx, query,
		rec.RunID, rec.Owner, rec.Repo, rec.PRNumber, rec.HeadSHA, rec.OutputDir,
		rec.TotalEntries, rec.PendingEntries, string(warningsJSON), formatTime(rec.SyncedAt),
	)
	if err != nil {
		return fmt.Errorf("insert sync run %s: %w", rec.RunID, err)
	}
	return nil
}

// RecordResolve appends a resolve action.
func (r *HistoryRepo) RecordResolve(ctx context.Context, rec model.ResolveRecord) error {
	const query = `
		INSERT INTO resolve_actions (
			owner, repo, entity_id, entity_type, status, reaction, replied, resolved_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.Writer.ExecContext(ctx, query,
		rec.Owner, rec.Repo, rec.EntityID, string(rec.EntityType), string(rec.Status),
		rec.Reaction, rec.Replied, formatTime(rec.ResolvedAt),
	)
	if err != nil {
		return fmt.Errorf("insert resolve action for %s: %w", rec.EntityID, err)
	}
	return nil
}

// ListSyncs returns up to limit sync runs for the given PR ordered by synced_at DESC.
func (r *HistoryRepo) ListSyncs(ctx context.Context, owner, repo string, prNumber int, limit int) ([]model.SyncRecord, error) {
	const query = `
		SELECT run_id, owner, repo, pr_number, head_sha, output_dir,
		       total_entries, pending_entries, warnings, synced_at
		FROM sync_runs
		WHERE owner = ? AND repo = ? AND pr_number = ?
		ORDER BY synced_at DESC, id DESC
		LIMIT ?`

	rows, err := r.db.Reader.QueryContext(ctx, query, owner, repo, prNumber, limit)
	if err != nil {
		return nil, fmt.Errorf("list sync runs for %s/%s#%d: %w", owner, repo, prNumber, err)
	}
	defer rows.Close()

	var result []model.SyncRecord
	for rows.Next() {
		var rec model.SyncRecord
		var warnings, syncedAt string
		if err := rows.Scan(
			&rec.RunID, &rec.Owner, &rec.Repo, &rec.PRNumber, &rec.HeadSHA, &rec.OutputDir,
			&rec.TotalEntries, &rec.PendingEntries, &warnings, &syncedAt,
		); err != nil {
			return nil, fmt.Errorf("scan sync run: %w", err)
		}
		if err := json.Unmarshal([]byte(warnings), &rec.Warnings); err != nil {
			return nil, fmt.Errorf("decode warnings for run %s: %w", rec.RunID, err)
		}
		rec.SyncedAt, err = parseTime(syncedAt)
		if err != nil {
			return nil, fmt.Errorf("parse synced_at for run %s: %w", rec.RunID, err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sync runs: %w", err)
	}
	return result, nil
}

// ListResolves returns up to limit resolve actions for a repository ordered by resolved_at DESC.
func (r *HistoryRepo) ListResolves(ctx context.Context, owner, repo string, limit int) ([]model.ResolveRecord, error) {
	const query = `
		SELECT owner, repo, entity_id, entity_type, status, reaction, replied, resolved_at
		FROM resolve_actions
		WHERE owner = ? AND repo = ?
		ORDER BY resolved_at DESC, id DESC
		LIMIT ?`

	rows, err := r.db.Reader.QueryContext(ctx, query, owner, repo, limit)
	if err != nil {
		return nil, fmt.Errorf("list resolve actions for %s/%s: %w", owner, repo, err)
	}
	defer rows.Close()

	var result []model.ResolveRecord
	for rows.Next() {
		var rec model.ResolveRecord
		var entityType, status, resolvedAt string
		if err := rows.Scan(
			&rec.Owner, &rec.Repo, &rec.EntityID, &entityType, &status,
			&rec.Reaction, &rec.Replied, &resolvedAt,
		); err != nil {
			return nil, fmt.Errorf("scan resolve action: %w", err)
		}
		rec.EntityType = model.EntityType(entityType)
		rec.Status = model.ActionStatus(status)
		rec.ResolvedAt, err = parseTime(resolvedAt)
		if err != nil {
			return nil, fmt.Errorf("parse resolved_at for %s: %w", rec.EntityID, err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate resolve actions: %w", err)
	}
	return result, nil
}

// formatTime stores timestamps as UTC RFC 3339 with nanoseconds so that
// lexical order matches chronological order.
func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000000Z")
}

func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02T15:04:05.000000000Z",
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
		time.RFC3339,
		time.RFC3339Nano,
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format: %s", s)
}
