package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ericfisherdev/reviewsync/internal/domain/model"
	"github.com/ericfisherdev/reviewsync/internal/domain/port/driven"
)

var (
	// ErrReviewNotResolvable is returned when resolve is asked to change the
	// status of a review, which has no reaction surface.
	ErrReviewNotResolvable = errors.New("reviews cannot be resolved directly")
	// ErrUnknownEntityType is returned for identifiers that classify as unknown.
	ErrUnknownEntityType = errors.New("unknown entity type")
)

// ResolveRequest is the input to ResolveService.Resolve.
type ResolveRequest struct {
	Owner    string
	Repo     string
	EntityID string
	Status   model.ActionStatus
	Reply    string // Optional; posted only after the reaction succeeds.
}

// ResolveService writes an entity's status back to GitHub by adding the
// reaction that encodes it, optionally followed by a reply.
type ResolveService struct {
	mutator driven.ReviewMutator
	history driven.HistoryStore // May be nil.
	now     func() time.Time
}

// NewResolveService creates a ResolveService. history may be nil to disable
// the local ledger.
func NewResolveService(mutator driven.ReviewMutator, history driven.HistoryStore) *ResolveService {
	return &ResolveService{
		mutator: mutator,
		history: history,
		now:     time.Now,
	}
}

// Resolve performs the steps in order and stops at the first failure. A
// reaction that was applied before a failing reply is not rolled back.
func (s *ResolveService) Resolve(ctx context.Context, req ResolveRequest) error {
	entityType := ClassifyEntityID(req.EntityID)
	switch entityType {
	case model.EntityTypeReview:
		return fmt.Errorf("%w (entry: %s)", ErrReviewNotResolvable, req.EntityID)
	case model.EntityTypeUnknown:
		return fmt.Errorf("%w: cannot classify %q", ErrUnknownEntityType, req.EntityID)
	}

	reaction, ok := ReactionForStatus(req.Status)
	if !ok {
		return fmt.Errorf("%w: %q cannot be set on GitHub", model.ErrInvalidStatus, req.Status)
	}

	slog.Info("resolving entity",
		"type", entityType,
		"id", req.EntityID,
		"status", req.Status,
	)

	if err := s.addReaction(ctx, entityType, req, reaction); err != nil {
		return err
	}
	slog.Info("added reaction", "reaction", reaction)

	rec := model.ResolveRecord{
		Owner:      req.Owner,
		Repo:       req.Repo,
		EntityID:   req.EntityID,
		EntityType: entityType,
		Status:     req.Status,
		Reaction:   reaction,
	}

	if req.Reply != "" {
		slog.Info("adding comment")
		if err := s.reply(ctx, entityType, req); err != nil {
			s.record(ctx, rec)
			return err
		}
		rec.Replied = true
		slog.Info("comment added")
	}

	s.record(ctx, rec)
	slog.Info("done")
	return nil
}

func (s *ResolveService) addReaction(ctx context.Context, entityType model.EntityType, req ResolveRequest, reaction string) error {
	switch entityType {
	case model.EntityTypeThread:
		commentID, err := s.mutator.ThreadRootCommentID(ctx, req.EntityID)
		if err != nil {
			return fmt.Errorf("resolving first comment of thread %s: %w", req.EntityID, err)
		}
		if commentID <= 0 {
			return fmt.Errorf("%w: could not find comments in thread: %s", driven.ErrLookupFailed, req.EntityID)
		}
		if err := s.mutator.AddReviewCommentReaction(ctx, req.Owner, req.Repo, commentID, reaction); err != nil {
			return fmt.Errorf("adding reaction to thread %s: %w", req.EntityID, err)
		}

	case model.EntityTypeIssueComment:
		commentID, err := s.mutator.IssueCommentDatabaseID(ctx, req.EntityID)
		if err != nil {
			return fmt.Errorf("resolving issue comment %s: %w", req.EntityID, err)
		}
		if commentID <= 0 {
			return fmt.Errorf("%w: could not find issue comment with node_id: %s", driven.ErrLookupFailed, req.EntityID)
		}
		if err := s.mutator.AddIssueCommentReaction(ctx, req.Owner, req.Repo, commentID, reaction); err != nil {
			return fmt.Errorf("adding reaction to issue comment %s: %w", req.EntityID, err)
		}
	}

	return nil
}

func (s *ResolveService) reply(ctx context.Context, entityType model.EntityType, req ResolveRequest) error {
	switch entityType {
	case model.EntityTypeThread:
		prNumber, err := s.mutator.ThreadPullRequestNumber(ctx, req.EntityID)
		if err != nil {
			return fmt.Errorf("resolving pull request for thread %s: %w", req.EntityID, err)
		}
		if prNumber <= 0 {
			return fmt.Errorf("%w: could not find pull request for thread: %s", driven.ErrLookupFailed, req.EntityID)
		}
		if err := s.mutator.ReplyToThread(ctx, req.EntityID, req.Reply); err != nil {
			return fmt.Errorf("replying to thread %s on #%d: %w", req.EntityID, prNumber, err)
		}

	case model.EntityTypeIssueComment:
		issueNumber, err := s.mutator.IssueCommentIssueNumber(ctx, req.EntityID)
		if err != nil {
			return fmt.Errorf("resolving issue for comment %s: %w", req.EntityID, err)
		}
		if issueNumber <= 0 {
			return fmt.Errorf("%w: could not find issue for comment: %s", driven.ErrLookupFailed, req.EntityID)
		}
		if err := s.mutator.CreateIssueComment(ctx, req.Owner, req.Repo, issueNumber, req.Reply); err != nil {
			return fmt.Errorf("commenting on %s/%s#%d: %w", req.Owner, req.Repo, issueNumber, err)
		}
	}

	return nil
}

// record appends to the ledger. Ledger failures are logged and swallowed.
func (s *ResolveService) record(ctx context.Context, rec model.ResolveRecord) {
	if s.history == nil {
		return
	}
	rec.ResolvedAt = s.now().UTC()
	if err := s.history.RecordResolve(ctx, rec); err != nil {
		slog.Warn("failed to record resolve in history", "id", rec.EntityID, "error", err)
	}
}
