package model

import (
	"strings"
	"time"
)

// Review is a top-level verdict submitted on a pull request.
type Review struct {
	ID          string // GraphQL node ID (PRR_...).
	Author      string // Empty when the author account no longer exists.
	State       ReviewState
	Body        string
	CommitOID   string // SHA the review was submitted against; empty if unknown.
	SubmittedAt *time.Time
}

// IsContainerOnly reports whether the review exists only to group inline
// comments: a COMMENTED review whose body is blank. Such reviews are not
// actionable and are left out of the entity stream.
func (r Review) IsContainerOnly() bool {
	return r.State == ReviewStateCommented && strings.TrimSpace(r.Body) == ""
}
