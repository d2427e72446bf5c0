package application_test

import (
	"context"
	"errors"

	"github.com/ericfisherdev/reviewsync/internal/domain/model"
)

// --- Mock implementations ---

type mockSource struct {
	meta           model.PRMeta
	threads        []model.ReviewThread
	reviews        []model.Review
	issueComments  []model.IssueComment
	reviewComments []model.ReviewComment

	failOn string
	calls  []string

	branchPR  int
	branchErr error
}

var errMock = errors.New("mock failure")

func (m *mockSource) step(name string) error {
	m.calls = append(m.calls, name)
	if m.failOn == name {
		return errMock
	}
	return nil
}

func (m *mockSource) FetchPRMeta(_ context.Context, _ model.PRRef) (model.PRMeta, error) {
	return m.meta, m.step("meta")
}

func (m *mockSource) FetchReviewThreads(_ context.Context, _ model.PRRef) ([]model.ReviewThread, error) {
	return m.threads, m.step("threads")
}

func (m *mockSource) FetchReviews(_ context.Context, _ model.PRRef) ([]model.Review, error) {
	return m.reviews, m.step("reviews")
}

func (m *mockSource) FetchIssueComments(_ context.Context, _ model.PRRef) ([]model.IssueComment, error) {
	return m.issueComments, m.step("issueComments")
}

func (m *mockSource) FetchReviewComments(_ context.Context, _ model.PRRef) ([]model.ReviewComment, error) {
	return m.reviewComments, m.step("reviewComments")
}

func (m *mockSource) FindPullRequestForBranch(_ context.Context, _, _, branch string) (int, error) {
	m.calls = append(m.calls, "branch:"+branch)
	return m.branchPR, m.branchErr
}

type mockOutput struct {
	meta     *model.PRMeta
	jsonl    *string
	digest   []byte
	failMeta bool
	writes   []string
}

func (m *mockOutput) Dir(ref model.PRRef) string {
	return "/out/" + ref.Owner + "/" + ref.Repo
}

func (m *mockOutput) WriteMeta(ref model.PRRef, meta model.PRMeta) (string, error) {
	if m.failMeta {
		return "", errMock
	}
	m.meta = &meta
	m.writes = append(m.writes, "meta")
	return m.Dir(ref) + "/pr-meta.json", nil
}

func (m *mockOutput) WriteEntities(ref model.PRRef, jsonl string) (string, error) {
	m.jsonl = &jsonl
	m.writes = append(m.writes, "entities")
	return m.Dir(ref) + "/reviews.jsonl", nil
}

func (m *mockOutput) WriteDigest(ref model.PRRef, html []byte) (string, error) {
	m.digest = html
	m.writes = append(m.writes, "digest")
	return m.Dir(ref) + "/reviews.html", nil
}

func (m *mockOutput) ReadEntities(_ model.PRRef) (string, error) {
	if m.jsonl == nil {
		return "", errMock
	}
	return *m.jsonl, nil
}

type mockHistory struct {
	syncs    []model.SyncRecord
	resolves []model.ResolveRecord
	err      error

	listOwner, listRepo string
	listPR, listLimit   int
}

func (m *mockHistory) RecordSync(_ context.Context, rec model.SyncRecord) error {
	if m.err != nil {
		return m.err
	}
	m.syncs = append(m.syncs, rec)
	return nil
}

func (m *mockHistory) RecordResolve(_ context.Context, rec model.ResolveRecord) error {
	if m.err != nil {
		return m.err
	}
	m.resolves = append(m.resolves, rec)
	return nil
}

func (m *mockHistory) ListSyncs(_ context.Context, owner, repo string, prNumber, limit int) ([]model.SyncRecord, error) {
	m.listOwner, m.listRepo, m.listPR, m.listLimit = owner, repo, prNumber, limit
	return m.syncs, m.err
}

func (m *mockHistory) ListResolves(_ context.Context, owner, repo string, limit int) ([]model.ResolveRecord, error) {
	m.listOwner, m.listRepo, m.listLimit = owner, repo, limit
	return m.resolves, m.err
}

type mockMutator struct {
	threadRootID    int64
	issueCommentID  int64
	threadPRNumber  int
	issueNumber     int
	lookupErr       error
	reactionErr     error
	replyErr        error
	calls           []string
	reactedID       int64
	reactedContent  string
	repliedBody     string
	repliedToNumber int
}

func (m *mockMutator) ThreadRootCommentID(_ context.Context, _ string) (int64, error) {
	m.calls = append(m.calls, "threadRoot")
	return m.threadRootID, m.lookupErr
}

func (m *mockMutator) IssueCommentDatabaseID(_ context.Context, _ string) (int64, error) {
	m.calls = append(m.calls, "issueCommentID")
	return m.issueCommentID, m.lookupErr
}

func (m *mockMutator) ThreadPullRequestNumber(_ context.Context, _ string) (int, error) {
	m.calls = append(m.calls, "threadPR")
	return m.threadPRNumber, nil
}

func (m *mockMutator) IssueCommentIssueNumber(_ context.Context, _ string) (int, error) {
	m.calls = append(m.calls, "issueNumber")
	return m.issueNumber, nil
}

func (m *mockMutator) AddReviewCommentReaction(_ context.Context, _, _ string, commentID int64, content string) error {
	m.calls = append(m.calls, "reviewCommentReaction")
	m.reactedID, m.reactedContent = commentID, content
	return m.reactionErr
}

func (m *mockMutator) AddIssueCommentReaction(_ context.Context, _, _ string, commentID int64, content string) error {
	m.calls = append(m.calls, "issueCommentReaction")
	m.reactedID, m.reactedContent = commentID, content
	return m.reactionErr
}

func (m *mockMutator) ReplyToThread(_ context.Context, _, body string) error {
	m.calls = append(m.calls, "replyToThread")
	m.repliedBody = body
	return m.replyErr
}

func (m *mockMutator) CreateIssueComment(_ context.Context, _, _ string, number int, body string) error {
	m.calls = append(m.calls, "createIssueComment")
	m.repliedBody, m.repliedToNumber = body, number
	return m.replyErr
}

type mockLocator struct {
	owner, repo string
	branch      string
	err         error
}

func (m *mockLocator) DetectRepo(_ context.Context) (string, string, error) {
	return m.owner, m.repo, m.err
}

func (m *mockLocator) CurrentBranch(_ context.Context) (string, error) {
	return m.branch, m.err
}

// --- Fixtures ---

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func (m *mockSource) snapshot() model.Snapshot {
	return model.Snapshot{
		Meta:           m.meta,
		Threads:        m.threads,
		Reviews:        m.reviews,
		IssueComments:  m.issueComments,
		ReviewComments: m.reviewComments,
	}
}
