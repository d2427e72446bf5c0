package application

import (
	"strings"

	"github.com/ericfisherdev/reviewsync/internal/domain/model"
)

// reactionActions maps lower-cased reaction content to the status it encodes.
var reactionActions = map[string]model.ActionStatus{
	"+1":     model.ActionDone,
	"-1":     model.ActionSkip,
	"eyes":   model.ActionInProgress,
	"hooray": model.ActionDone,
	"rocket": model.ActionInProgress,
}

// statusReactions is the inverse of reactionActions for the settable statuses.
var statusReactions = map[model.ActionStatus]string{
	model.ActionDone:       "+1",
	model.ActionSkip:       "-1",
	model.ActionInProgress: "eyes",
}

// actionFromReactions returns the status encoded by the first recognized
// reaction, scanning in source order. ok is false when none is recognized.
func actionFromReactions(reactions []model.Reaction) (model.ActionStatus, bool) {
	for _, r := range reactions {
		if action, found := reactionActions[strings.ToLower(r.Content)]; found {
			return action, true
		}
	}
	return "", false
}

// threadAction derives a thread's status. A resolved thread is done whatever
// its reactions say; otherwise the first comment's reactions decide.
func threadAction(thread model.ReviewThread) model.ActionStatus {
	if thread.IsResolved {
		return model.ActionDone
	}
	if len(thread.Comments) > 0 {
		if action, ok := actionFromReactions(thread.Comments[0].Reactions); ok {
			return action
		}
	}
	return model.ActionPending
}

// issueCommentAction derives an issue comment's status from its own reactions.
func issueCommentAction(comment model.IssueComment) model.ActionStatus {
	if action, ok := actionFromReactions(comment.Reactions); ok {
		return action
	}
	return model.ActionPending
}

// ReactionForStatus returns the reaction content that encodes status.
func ReactionForStatus(status model.ActionStatus) (string, bool) {
	reaction, ok := statusReactions[status]
	return reaction, ok
}
