package model

// Entity is one normalized record of the synced output stream. It is a closed
// sum type: only ThreadEntity, ReviewEntity, and IssueCommentEntity implement it.
type Entity interface {
	Base() EntityBase
	isEntity()
}

// EntityBase is the shape shared by every entity variant.
type EntityBase struct {
	ID     string       `json:"id"`
	Type   EntityType   `json:"type"`
	Action ActionStatus `json:"action"`
}

// Base returns the shared fields of the entity.
func (b EntityBase) Base() EntityBase { return b }

// ThreadEntity is the output form of a review thread.
type ThreadEntity struct {
	EntityBase
	Commit     *string         `json:"commit"`
	Path       *string         `json:"path"`
	Line       *int            `json:"line"`
	IsResolved bool            `json:"is_resolved"`
	Comments   []EntityComment `json:"comments"`
}

// EntityComment is a thread comment reduced to the fields kept in the output.
type EntityComment struct {
	ID        string  `json:"id"`
	Author    *string `json:"author"`
	Body      string  `json:"body"`
	CreatedAt string  `json:"created_at"`
}

// ReviewEntity is the output form of an actionable review.
type ReviewEntity struct {
	EntityBase
	Commit *string `json:"commit"`
	Author *string `json:"author"`
	State  string  `json:"state"`
	Body   string  `json:"body"`
}

// IssueCommentEntity is the output form of a PR-level comment. Its ID is the
// comment's node ID.
type IssueCommentEntity struct {
	EntityBase
	Author *string `json:"author"`
	Body   string  `json:"body"`
}

func (ThreadEntity) isEntity()       {}
func (ReviewEntity) isEntity()       {}
func (IssueCommentEntity) isEntity() {}

// OptionalString returns nil for the empty string, otherwise a pointer to s.
// Absent values are serialized as JSON null.
func OptionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
