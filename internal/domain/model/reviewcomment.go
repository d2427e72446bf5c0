package model

import "time"

// ReviewComment is the flat REST view of an inline review comment. It is only
// used as a lookup source to recover commit SHAs for review threads, which the
// thread query does not expose.
type ReviewComment struct {
	ID                  int64
	NodeID              string
	Author              string
	Body                string
	Path                string
	Line                *int
	CommitID            string
	OriginalCommitID    string
	PullRequestReviewID *int64
	InReplyToID         *int64
	CreatedAt           time.Time
	HTMLURL             string
}
