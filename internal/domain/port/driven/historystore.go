package driven

import (
	"context"

	"github.com/ericfisherdev/reviewsync/internal/domain/model"
)

// HistoryStore defines the driven port for the local ledger of sync runs and
// resolve actions. It is append-only from the point of view of the engine.
type HistoryStore interface {
	RecordSync(ctx context.Context, rec model.SyncRecord) error
	RecordResolve(ctx context.Context, rec model.ResolveRecord) error
	// ListSyncs returns the most recent runs for a PR, newest first.
	ListSyncs(ctx context.Context, owner, repo string, prNumber int, limit int) ([]model.SyncRecord, error)
	ListResolves(ctx context.Context, owner, repo string, limit int) ([]model.ResolveRecord, error)
}
