package driven

import (
	"context"
	"errors"
)

// ErrLookupFailed is returned when a node ID cannot be resolved to the
// backing record a mutation needs.
var ErrLookupFailed = errors.New("lookup failed")

// ReviewMutator defines the driven port for writing status back to GitHub.
// Lookups take GraphQL node IDs; reaction methods take numeric database IDs.
type ReviewMutator interface {
	// ThreadRootCommentID returns the database ID of the thread's first comment.
	ThreadRootCommentID(ctx context.Context, threadID string) (int64, error)
	// IssueCommentDatabaseID returns the database ID behind an issue comment node ID.
	IssueCommentDatabaseID(ctx context.Context, nodeID string) (int64, error)
	// ThreadPullRequestNumber returns the number of the PR owning the thread.
	ThreadPullRequestNumber(ctx context.Context, threadID string) (int, error)
	// IssueCommentIssueNumber returns the issue/PR number owning the comment.
	IssueCommentIssueNumber(ctx context.Context, nodeID string) (int, error)

	AddReviewCommentReaction(ctx context.Context, owner, repo string, commentID int64, content string) error
	AddIssueCommentReaction(ctx context.Context, owner, repo string, commentID int64, content string) error

	// ReplyToThread posts a reply into the review thread.
	ReplyToThread(ctx context.Context, threadID, body string) error
	// CreateIssueComment adds a PR-level comment.
	CreateIssueComment(ctx context.Context, owner, repo string, number int, body string) error
}
