package github_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	ghAdapter "github.com/ericfisherdev/reviewsync/internal/adapter/driven/github"
	"github.com/ericfisherdev/reviewsync/internal/domain/model"
	"github.com/ericfisherdev/reviewsync/internal/domain/port/driven"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRef = model.PRRef{Owner: "owner", Repo: "repo", Number: 42}

// newTestClient creates a Client backed by the given httptest handler.
func newTestClient(t *testing.T, handler http.Handler) (*ghAdapter.Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := ghAdapter.NewClientWithHTTPClient(
		server.Client(),
		server.URL+"/",
		"test-token",
	)
	require.NoError(t, err)

	return client, server
}

// prJSON is a helper struct for building GitHub API pull request responses.
type prJSON struct {
	Number   int     `json:"number"`
	Title    string  `json:"title"`
	State    string  `json:"state"`
	Merged   bool    `json:"merged"`
	Head     refJSON `json:"head"`
	Base     refJSON `json:"base"`
	MergedAt *string `json:"merged_at,omitempty"`
}

type userJSON struct {
	Login string `json:"login"`
}

type refJSON struct {
	Ref string `json:"ref"`
	SHA string `json:"sha,omitempty"`
}

func TestFetchPRMeta(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/owner/repo/pulls/42", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(prJSON{
			Number: 42,
			Title:  "Add feature X",
			State:  "open",
			Head:   refJSON{Ref: "feature-x", SHA: "abc123"},
			Base:   refJSON{Ref: "main"},
		})
	})

	client, _ := newTestClient(t, handler)
	meta, err := client.FetchPRMeta(context.Background(), testRef)
	require.NoError(t, err)

	assert.Equal(t, model.PRMeta{
		Number:      42,
		Title:       "Add feature X",
		State:       "OPEN",
		HeadRefName: "feature-x",
		BaseRefName: "main",
		HeadRefOid:  "abc123",
	}, meta)
}

func TestFetchPRMeta_MergedState(t *testing.T) {
	mergedAt := "2026-01-05T10:00:00Z"
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(prJSON{Number: 42, State: "closed", Merged: true, MergedAt: &mergedAt})
	})

	client, _ := newTestClient(t, handler)
	meta, err := client.FetchPRMeta(context.Background(), testRef)
	require.NoError(t, err)
	assert.Equal(t, "MERGED", meta.State)
}

func TestFetchPRMeta_ClosedState(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(prJSON{Number: 42, State: "closed"})
	})

	client, _ := newTestClient(t, handler)
	meta, err := client.FetchPRMeta(context.Background(), testRef)
	require.NoError(t, err)
	assert.Equal(t, "CLOSED", meta.State)
}

func TestFetchPRMeta_NotFound(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Not Found"}`))
	})

	client, _ := newTestClient(t, handler)
	_, err := client.FetchPRMeta(context.Background(), testRef)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "owner/repo#42")
}

func TestFetchReviewComments(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/owner/repo/pulls/42/comments", r.URL.Path)
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]map[string]any{
			{
				"id":                     123,
				"node_id":                "PRRC_a",
				"user":                   userJSON{Login: "alice"},
				"body":                   "nit",
				"path":                   "main.go",
				"line":                   10,
				"commit_id":              "c1",
				"original_commit_id":     "c0",
				"pull_request_review_id": 900,
				"created_at":             "2026-01-01T00:00:00Z",
				"html_url":               "https://github.com/owner/repo/pull/42#discussion_r123",
			},
			{
				"id":             124,
				"user":           userJSON{Login: "bob"},
				"body":           "reply",
				"in_reply_to_id": 123,
				"commit_id":      "c1",
				"created_at":     "2026-01-01T01:00:00Z",
			},
		})
	})

	client, _ := newTestClient(t, handler)
	comments, err := client.FetchReviewComments(context.Background(), testRef)
	require.NoError(t, err)
	require.Len(t, comments, 2)

	first := comments[0]
	assert.Equal(t, int64(123), first.ID)
	assert.Equal(t, "PRRC_a", first.NodeID)
	assert.Equal(t, "alice", first.Author)
	assert.Equal(t, "c1", first.CommitID)
	assert.Equal(t, "c0", first.OriginalCommitID)
	require.NotNil(t, first.Line)
	assert.Equal(t, 10, *first.Line)
	require.NotNil(t, first.PullRequestReviewID)
	assert.Equal(t, int64(900), *first.PullRequestReviewID)
	assert.Nil(t, first.InReplyToID)

	second := comments[1]
	assert.Nil(t, second.Line)
	require.NotNil(t, second.InReplyToID)
	assert.Equal(t, int64(123), *second.InReplyToID)
}

func TestFindPullRequestForBranch(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/owner/repo/pulls", r.URL.Path)
		assert.Equal(t, "owner:feature-x", r.URL.Query().Get("head"))
		assert.Equal(t, "open", r.URL.Query().Get("state"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]prJSON{{Number: 77, State: "open"}})
	})

	client, _ := newTestClient(t, handler)
	number, err := client.FindPullRequestForBranch(context.Background(), "owner", "repo", "feature-x")
	require.NoError(t, err)
	assert.Equal(t, 77, number)
}

func TestFindPullRequestForBranch_None(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	})

	client, _ := newTestClient(t, handler)
	_, err := client.FindPullRequestForBranch(context.Background(), "owner", "repo", "lonely")
	require.Error(t, err)
	assert.ErrorIs(t, err, driven.ErrNoPullRequestForBranch)
}

func TestNewClient_Enterprise(t *testing.T) {
	client, err := ghAdapter.NewClient("token", "https://ghe.example.com/api/v3/")
	require.NoError(t, err)
	assert.NotNil(t, client)

	client, err = ghAdapter.NewClient("token", "")
	require.NoError(t, err)
	assert.NotNil(t, client)
}
