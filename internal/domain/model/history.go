package model

import "time"

// SyncRecord is one row of the local sync ledger. It is written after every
// successful sync and never read back by the sync itself.
type SyncRecord struct {
	RunID          string
	Owner          string
	Repo           string
	PRNumber       int
	HeadSHA        string
	OutputDir      string
	TotalEntries   int
	PendingEntries int
	Warnings       []string
	SyncedAt       time.Time
}

// ResolveRecord is one row of the local resolve ledger.
type ResolveRecord struct {
	Owner      string
	Repo       string
	EntityID   string
	EntityType EntityType
	Status     ActionStatus
	Reaction   string
	Replied    bool
	ResolvedAt time.Time
}
