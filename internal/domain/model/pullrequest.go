package model

// PRMeta is the pull request metadata written next to the entity stream.
// JSON field names follow the GitHub CLI's `pr view --json` spelling so the
// file can be consumed by the same tooling.
type PRMeta struct {
	Number      int    `json:"number"`
	Title       string `json:"title"`
	State       string `json:"state"` // OPEN, CLOSED, or MERGED.
	HeadRefName string `json:"headRefName"`
	BaseRefName string `json:"baseRefName"`
	HeadRefOid  string `json:"headRefOid"`
}

// Snapshot holds everything fetched for one pull request during a sync run.
type Snapshot struct {
	Meta           PRMeta
	Threads        []ReviewThread
	Reviews        []Review
	IssueComments  []IssueComment
	ReviewComments []ReviewComment
}
