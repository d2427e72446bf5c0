package application

import (
	"time"

	"github.com/ericfisherdev/reviewsync/internal/domain/model"
)

// Transform merges the fetched sources into one ordered entity stream:
// threads first, then actionable reviews, then issue comments, each in source
// order. It has no side effects; the same snapshot always yields the same
// stream.
func Transform(snap model.Snapshot) []model.Entity {
	entities := make([]model.Entity, 0, len(snap.Threads)+len(snap.Reviews)+len(snap.IssueComments))

	for _, thread := range snap.Threads {
		entities = append(entities, threadEntity(thread, snap.ReviewComments))
	}

	for _, review := range snap.Reviews {
		if review.IsContainerOnly() {
			continue
		}
		entities = append(entities, reviewEntity(review))
	}

	for _, comment := range snap.IssueComments {
		entities = append(entities, issueCommentEntity(comment))
	}

	return entities
}

func threadEntity(thread model.ReviewThread, flat []model.ReviewComment) model.ThreadEntity {
	comments := make([]model.EntityComment, 0, len(thread.Comments))
	for _, c := range thread.Comments {
		comments = append(comments, model.EntityComment{
			ID:        c.ID,
			Author:    model.OptionalString(c.Author),
			Body:      c.Body,
			CreatedAt: formatTimestamp(c.CreatedAt),
		})
	}

	return model.ThreadEntity{
		EntityBase: model.EntityBase{
			ID:     thread.ID,
			Type:   model.EntityTypeThread,
			Action: threadAction(thread),
		},
		Commit:     correlateCommit(thread.Comments, flat),
		Path:       thread.Path,
		Line:       thread.Line,
		IsResolved: thread.IsResolved,
		Comments:   comments,
	}
}

// reviewEntity maps a review. Reviews have no lifecycle of their own and are
// always pending.
func reviewEntity(review model.Review) model.ReviewEntity {
	return model.ReviewEntity{
		EntityBase: model.EntityBase{
			ID:     review.ID,
			Type:   model.EntityTypeReview,
			Action: model.ActionPending,
		},
		Commit: model.OptionalString(review.CommitOID),
		Author: model.OptionalString(review.Author),
		State:  string(review.State),
		Body:   review.Body,
	}
}

// issueCommentEntity keys the entity by node ID, the only identifier that
// the resolve command can map back to a mutation target.
func issueCommentEntity(comment model.IssueComment) model.IssueCommentEntity {
	return model.IssueCommentEntity{
		EntityBase: model.EntityBase{
			ID:     comment.NodeID,
			Type:   model.EntityTypeIssueComment,
			Action: issueCommentAction(comment),
		},
		Author: model.OptionalString(comment.Author),
		Body:   comment.Body,
	}
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
