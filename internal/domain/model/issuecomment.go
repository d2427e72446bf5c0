package model

import "time"

// IssueComment represents a PR-level general comment (from the Issues side of
// the API, not the review comment side).
type IssueComment struct {
	ID        string // Display identifier (numeric database ID as a string).
	NodeID    string // Stable GraphQL node ID; the canonical output key.
	Author    string
	Body      string
	CreatedAt time.Time
	Reactions []Reaction
}
