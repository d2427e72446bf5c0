package github

import (
	"context"
	"fmt"

	gh "github.com/google/go-github/v82/github"

	"github.com/ericfisherdev/reviewsync/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ReviewMutator = (*Client)(nil)

// AddReviewCommentReaction adds a reaction to an inline review comment.
// commentID is the comment's database ID; content is a REST token such as "+1".
func (c *Client) AddReviewCommentReaction(ctx context.Context, owner, repo string, commentID int64, content string) error {
	_, resp, err := c.gh.Reactions.CreatePullRequestCommentReaction(ctx, owner, repo, commentID, content)
	if err != nil {
		return fmt.Errorf("adding %q reaction to review comment %d in %s/%s: %w", content, commentID, owner, repo, err)
	}

	logRateLimit(resp, owner+"/"+repo+"/pulls/comments/reactions", 0, 1)
	return nil
}

// AddIssueCommentReaction adds a reaction to a PR-level comment.
func (c *Client) AddIssueCommentReaction(ctx context.Context, owner, repo string, commentID int64, content string) error {
	_, resp, err := c.gh.Reactions.CreateIssueCommentReaction(ctx, owner, repo, commentID, content)
	if err != nil {
		return fmt.Errorf("adding %q reaction to issue comment %d in %s/%s: %w", content, commentID, owner, repo, err)
	}

	logRateLimit(resp, owner+"/"+repo+"/issues/comments/reactions", 0, 1)
	return nil
}

// CreateIssueComment adds a PR-level comment via the Issues API.
func (c *Client) CreateIssueComment(ctx context.Context, owner, repo string, number int, body string) error {
	comment := &gh.IssueComment{Body: gh.Ptr(body)}
	_, resp, err := c.gh.Issues.CreateComment(ctx, owner, repo, number, comment)
	if err != nil {
		return fmt.Errorf("creating comment on %s/%s#%d: %w", owner, repo, number, err)
	}

	logRateLimit(resp, owner+"/"+repo+"/create-comment", 0, 1)
	return nil
}
