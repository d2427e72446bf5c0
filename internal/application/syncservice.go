// Package application contains use-case orchestration services.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ericfisherdev/reviewsync/internal/domain/model"
	"github.com/ericfisherdev/reviewsync/internal/domain/port/driven"
)

// SyncRequest is the input to SyncService.Sync.
type SyncRequest struct {
	Ref    model.PRRef
	Digest bool // Also render reviews.html.
}

// SyncResult describes a completed sync run.
type SyncResult struct {
	RunID     string
	Ref       model.PRRef
	OutputDir string
	Meta      model.PRMeta
	Entities  []model.Entity
	Stats     Stats
}

// SyncService fetches a pull request's review conversation, transforms it
// into the entity stream, and writes the result to the output store. Every
// step runs sequentially; the first error aborts the run.
type SyncService struct {
	source  driven.ReviewSource
	output  driven.OutputStore
	history driven.HistoryStore // May be nil.
	now     func() time.Time
}

// NewSyncService creates a SyncService. history may be nil to disable the
// local ledger.
func NewSyncService(
	source driven.ReviewSource,
	output driven.OutputStore,
	history driven.HistoryStore,
) *SyncService {
	return &SyncService{
		source:  source,
		output:  output,
		history: history,
		now:     time.Now,
	}
}

// Sync runs one full sync for req.Ref.
func (s *SyncService) Sync(ctx context.Context, req SyncRequest) (*SyncResult, error) {
	ref := req.Ref
	slog.Info("syncing pull request", "repo", ref.FullName(), "pr", ref.Number)

	snap, err := s.fetchAll(ctx, ref)
	if err != nil {
		return nil, err
	}

	metaPath, err := s.output.WriteMeta(ref, snap.Meta)
	if err != nil {
		return nil, fmt.Errorf("writing PR metadata for %s: %w", ref, err)
	}
	slog.Info("wrote file", "path", metaPath)

	entities := Transform(snap)

	jsonl, err := EncodeJSONL(entities)
	if err != nil {
		return nil, fmt.Errorf("encoding entities for %s: %w", ref, err)
	}

	entitiesPath, err := s.output.WriteEntities(ref, jsonl)
	if err != nil {
		return nil, fmt.Errorf("writing entities for %s: %w", ref, err)
	}
	slog.Info("wrote file", "path", entitiesPath, "entries", len(entities))

	if req.Digest {
		html, err := RenderDigest(snap.Meta, entities)
		if err != nil {
			return nil, fmt.Errorf("rendering digest for %s: %w", ref, err)
		}
		digestPath, err := s.output.WriteDigest(ref, html)
		if err != nil {
			return nil, fmt.Errorf("writing digest for %s: %w", ref, err)
		}
		slog.Info("wrote file", "path", digestPath)
	}

	stats := ComputeStats(snap, entities)
	for _, w := range stats.Warnings {
		slog.Warn("data inconsistency detected", "warning", w, "pr", ref.String())
	}

	result := &SyncResult{
		RunID:     uuid.NewString(),
		Ref:       ref,
		OutputDir: s.output.Dir(ref),
		Meta:      snap.Meta,
		Entities:  entities,
		Stats:     stats,
	}

	s.record(ctx, result)

	return result, nil
}

// fetchAll performs the five fetches one after another.
func (s *SyncService) fetchAll(ctx context.Context, ref model.PRRef) (model.Snapshot, error) {
	var snap model.Snapshot
	var err error

	slog.Info("fetching pr metadata", "pr", ref.String())
	if snap.Meta, err = s.source.FetchPRMeta(ctx, ref); err != nil {
		return model.Snapshot{}, fmt.Errorf("fetching PR metadata for %s: %w", ref, err)
	}

	slog.Info("fetching review threads", "pr", ref.String())
	if snap.Threads, err = s.source.FetchReviewThreads(ctx, ref); err != nil {
		return model.Snapshot{}, fmt.Errorf("fetching review threads for %s: %w", ref, err)
	}

	slog.Info("fetching reviews", "pr", ref.String())
	if snap.Reviews, err = s.source.FetchReviews(ctx, ref); err != nil {
		return model.Snapshot{}, fmt.Errorf("fetching reviews for %s: %w", ref, err)
	}

	slog.Info("fetching issue comments", "pr", ref.String())
	if snap.IssueComments, err = s.source.FetchIssueComments(ctx, ref); err != nil {
		return model.Snapshot{}, fmt.Errorf("fetching issue comments for %s: %w", ref, err)
	}

	slog.Info("fetching review comments", "pr", ref.String())
	if snap.ReviewComments, err = s.source.FetchReviewComments(ctx, ref); err != nil {
		return model.Snapshot{}, fmt.Errorf("fetching review comments for %s: %w", ref, err)
	}

	return snap, nil
}

// record appends the run to the ledger. Ledger failures are logged and
// swallowed: the output files are already written.
func (s *SyncService) record(ctx context.Context, result *SyncResult) {
	if s.history == nil {
		return
	}

	rec := model.SyncRecord{
		RunID:          result.RunID,
		Owner:          result.Ref.Owner,
		Repo:           result.Ref.Repo,
		PRNumber:       result.Ref.Number,
		HeadSHA:        result.Meta.HeadRefOid,
		OutputDir:      result.OutputDir,
		TotalEntries:   result.Stats.TotalEntries,
		PendingEntries: result.Stats.PendingEntries,
		Warnings:       result.Stats.Warnings,
		SyncedAt:       s.now().UTC(),
	}

	if err := s.history.RecordSync(ctx, rec); err != nil {
		slog.Warn("failed to record sync in history", "pr", result.Ref.String(), "error", err)
	}
}
