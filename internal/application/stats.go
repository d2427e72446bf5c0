package application

import (
	"fmt"
	"strings"

	"github.com/ericfisherdev/reviewsync/internal/domain/model"
)

// Stats is the aggregate self-check computed after a sync. The JSON field
// names are part of the --json summary output.
type Stats struct {
	// Conversation breakdown.
	Conversation  int `json:"conversation"`
	IssueComments int `json:"issueComments"`
	ReviewsRaw    int `json:"reviewsRaw"`
	ReviewThreads int `json:"reviewThreads"`

	ThreadsResolved   int `json:"threadsResolved"`
	ThreadsUnresolved int `json:"threadsUnresolved"`

	ReviewsFiltered int `json:"reviewsFiltered"`

	// Review comments are counted from thread comment lists, not from the flat
	// REST list, which is a single page and may be incomplete.
	ReviewComments int `json:"reviewComments"`
	ThreadRoots    int `json:"threadRoots"`
	ThreadReplies  int `json:"threadReplies"`

	TotalEntries   int `json:"totalEntries"`
	PendingEntries int `json:"pendingEntries"`

	Warnings []string `json:"warnings"`
}

// ComputeStats recounts the raw sources and the emitted entities. Detected
// inconsistencies are returned as warnings; they never fail the sync.
func ComputeStats(snap model.Snapshot, entities []model.Entity) Stats {
	s := Stats{
		IssueComments: len(snap.IssueComments),
		ReviewsRaw:    len(snap.Reviews),
		ReviewThreads: len(snap.Threads),
		Warnings:      []string{},
	}
	s.Conversation = s.IssueComments + s.ReviewsRaw + s.ReviewThreads

	for _, t := range snap.Threads {
		if t.IsResolved {
			s.ThreadsResolved++
		}
		s.ReviewComments += len(t.Comments)
	}
	s.ThreadsUnresolved = s.ReviewThreads - s.ThreadsResolved

	// Recounted here rather than via Review.IsContainerOnly so the count
	// cross-checks the transform's filter.
	for _, r := range snap.Reviews {
		if r.State == model.ReviewStateCommented && strings.TrimSpace(r.Body) == "" {
			continue
		}
		s.ReviewsFiltered++
	}

	s.ThreadRoots = s.ReviewThreads
	s.ThreadReplies = s.ReviewComments - s.ThreadRoots

	s.TotalEntries = len(entities)
	for _, e := range entities {
		if e.Base().Action == model.ActionPending {
			s.PendingEntries++
		}
	}

	if expected := len(snap.IssueComments) + len(snap.Reviews) + len(snap.Threads); s.Conversation != expected {
		s.Warnings = append(s.Warnings, fmt.Sprintf(
			"Conversation mismatch: %d != %d + %d + %d",
			s.Conversation, s.IssueComments, s.ReviewsRaw, s.ReviewThreads,
		))
	}

	if s.ReviewComments < s.ThreadRoots {
		s.Warnings = append(s.Warnings, fmt.Sprintf(
			"Review comments (%d) less than thread roots (%d)",
			s.ReviewComments, s.ThreadRoots,
		))
	}

	return s
}

// FormatSummary renders stats as the human-readable block printed after a sync.
func FormatSummary(s Stats) string {
	var b strings.Builder

	b.WriteString("Summary:\n")
	fmt.Fprintf(&b, "Conversation: %d\n", s.Conversation)
	fmt.Fprintf(&b, "  Issue Comments: %d\n", s.IssueComments)
	fmt.Fprintf(&b, "  Reviews (raw): %d\n", s.ReviewsRaw)
	fmt.Fprintf(&b, "  Review Threads: %d (resolved: %d, unresolved: %d)\n",
		s.ReviewThreads, s.ThreadsResolved, s.ThreadsUnresolved)
	b.WriteString("\n")
	fmt.Fprintf(&b, "Reviews (filtered): %d\n", s.ReviewsFiltered)
	fmt.Fprintf(&b, "Review Comments: %d (thread roots: %d, replies: %d)\n",
		s.ReviewComments, s.ThreadRoots, s.ThreadReplies)
	b.WriteString("\n")
	fmt.Fprintf(&b, "Output Entries: %d (pending: %d)", s.TotalEntries, s.PendingEntries)

	if len(s.Warnings) > 0 {
		b.WriteString("\n\nWARNING: Data inconsistency detected:")
		for _, w := range s.Warnings {
			fmt.Fprintf(&b, "\n  - %s", w)
		}
	}

	return b.String()
}
