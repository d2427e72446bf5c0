package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/ericfisherdev/reviewsync/internal/domain/model"
	"github.com/ericfisherdev/reviewsync/internal/domain/port/driven"
)

// ErrHistoryDisabled is returned by HistoryService when no ledger is configured.
var ErrHistoryDisabled = errors.New("history ledger is disabled (set history.db)")

const defaultHistoryLimit = 20

// HistoryService reads the local ledger for the history command.
type HistoryService struct {
	store driven.HistoryStore // May be nil.
}

// NewHistoryService creates a HistoryService.
func NewHistoryService(store driven.HistoryStore) *HistoryService {
	return &HistoryService{store: store}
}

// Recent returns the latest sync runs for ref, newest first. A non-positive
// limit falls back to the default.
func (s *HistoryService) Recent(ctx context.Context, ref model.PRRef, limit int) ([]model.SyncRecord, error) {
	if s.store == nil {
		return nil, ErrHistoryDisabled
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	records, err := s.store.ListSyncs(ctx, ref.Owner, ref.Repo, ref.Number, limit)
	if err != nil {
		return nil, fmt.Errorf("listing syncs for %s: %w", ref, err)
	}
	return records, nil
}

// RecentResolves returns the latest resolve actions recorded for a repository.
func (s *HistoryService) RecentResolves(ctx context.Context, owner, repo string, limit int) ([]model.ResolveRecord, error) {
	if s.store == nil {
		return nil, ErrHistoryDisabled
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	records, err := s.store.ListResolves(ctx, owner, repo, limit)
	if err != nil {
		return nil, fmt.Errorf("listing resolves for %s/%s: %w", owner, repo, err)
	}
	return records, nil
}
