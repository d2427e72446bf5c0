package model

import (
	"errors"
	"fmt"
	"strings"
)

// ReviewState represents the state of a review as reported by the GitHub GraphQL API.
type ReviewState string

const (
	ReviewStateApproved         ReviewState = "APPROVED"
	ReviewStateChangesRequested ReviewState = "CHANGES_REQUESTED"
	ReviewStateCommented        ReviewState = "COMMENTED"
	ReviewStatePending          ReviewState = "PENDING"
	ReviewStateDismissed        ReviewState = "DISMISSED"
)

// EntityType tags the variant of an output entity. It doubles as the result
// of classifying an entity identifier, hence EntityTypeUnknown.
type EntityType string

const (
	EntityTypeThread       EntityType = "thread"
	EntityTypeReview       EntityType = "review"
	EntityTypeIssueComment EntityType = "issue_comment"
	EntityTypeUnknown      EntityType = "unknown"
)

// ActionStatus is the lifecycle status attached to every output entity.
type ActionStatus string

const (
	ActionPending    ActionStatus = "pending"
	ActionDone       ActionStatus = "done"
	ActionSkip       ActionStatus = "skip"
	ActionInProgress ActionStatus = "in_progress"
	// ActionFix is reserved from the legacy status set and never emitted.
	ActionFix ActionStatus = "fix"
)

// ErrInvalidStatus is returned when a status cannot be set on a remote entity.
var ErrInvalidStatus = errors.New("invalid status")

// ParseStatus validates a user-supplied target status. Only statuses that can
// be encoded as a reaction are accepted.
func ParseStatus(s string) (ActionStatus, error) {
	switch status := ActionStatus(strings.TrimSpace(s)); status {
	case ActionDone, ActionSkip, ActionInProgress:
		return status, nil
	default:
		return "", fmt.Errorf("%w: %q (must be one of: done, skip, in_progress)", ErrInvalidStatus, s)
	}
}
