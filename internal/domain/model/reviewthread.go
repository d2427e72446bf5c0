package model

import "time"

// ReviewThread is an inline discussion anchored to a file path and line.
// Comments are kept in creation order.
type ReviewThread struct {
	ID         string // GraphQL node ID (PRRT_...).
	IsResolved bool
	Path       *string
	Line       *int
	Comments   []ThreadComment
}

// ThreadComment is a single message within a review thread.
type ThreadComment struct {
	ID        string
	Author    string
	Body      string
	CreatedAt time.Time
	Reactions []Reaction
}

// Reaction is an emoji reaction on a comment. Content uses the REST spelling
// ("+1", "-1", "eyes", ...); adapters normalize other spellings on the way in.
type Reaction struct {
	Content string
}
