package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/reviewsync/internal/domain/model"
)

// ErrNoPullRequestForBranch is returned when no open pull request has the
// given branch as its head.
var ErrNoPullRequestForBranch = errors.New("no open pull request for branch")

// ReviewSource defines the driven port for reading a pull request's review
// conversation from GitHub. Each fetch returns a single fixed-size page.
type ReviewSource interface {
	// FetchPRMeta returns number, title, state, and head/base refs.
	FetchPRMeta(ctx context.Context, ref model.PRRef) (model.PRMeta, error)
	// FetchReviewThreads returns up to 100 threads with up to 50 comments each,
	// including each comment's reactions in source order.
	FetchReviewThreads(ctx context.Context, ref model.PRRef) ([]model.ReviewThread, error)
	FetchReviews(ctx context.Context, ref model.PRRef) ([]model.Review, error)
	FetchIssueComments(ctx context.Context, ref model.PRRef) ([]model.IssueComment, error)
	// FetchReviewComments returns the flat REST list of inline review comments.
	FetchReviewComments(ctx context.Context, ref model.PRRef) ([]model.ReviewComment, error)

	// FindPullRequestForBranch returns the number of the open PR whose head is
	// branch, or ErrNoPullRequestForBranch.
	FindPullRequestForBranch(ctx context.Context, owner, repo, branch string) (int, error)
}
