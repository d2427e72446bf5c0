package application_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/reviewsync/internal/application"
	"github.com/ericfisherdev/reviewsync/internal/domain/model"
)

var syncRef = model.PRRef{Owner: "acme", Repo: "widgets", Number: 12}

func populatedSource() *mockSource {
	return &mockSource{
		meta: model.PRMeta{
			Number:      12,
			Title:       "Add widgets",
			State:       "OPEN",
			HeadRefName: "feature",
			BaseRefName: "main",
			HeadRefOid:  "deadbeef",
		},
		threads: []model.ReviewThread{
			{
				ID: "PRRT_1",
				Comments: []model.ThreadComment{
					{ID: "PRRC_1", Author: "alice", Body: "**bold** claim"},
					{ID: "PRRC_2", Author: "bob", Body: "agreed"},
				},
			},
		},
		reviews: []model.Review{
			{ID: "PRR_1", State: model.ReviewStateCommented},
			{ID: "PRR_2", State: model.ReviewStateApproved, Author: "bob"},
		},
		issueComments: []model.IssueComment{
			{ID: "9", NodeID: "IC_1", Author: "carol", Body: "<script>alert(1)</script>", Reactions: reactions("+1")},
		},
	}
}

func TestSync_WritesOutput(t *testing.T) {
	source := populatedSource()
	output := &mockOutput{}
	history := &mockHistory{}
	svc := application.NewSyncService(source, output, history)

	result, err := svc.Sync(context.Background(), application.SyncRequest{Ref: syncRef})
	require.NoError(t, err)

	assert.Equal(t, []string{"meta", "threads", "reviews", "issueComments", "reviewComments"}, source.calls)
	assert.Equal(t, []string{"meta", "entities"}, output.writes)

	require.NotNil(t, output.meta)
	assert.Equal(t, "deadbeef", output.meta.HeadRefOid)

	require.NotNil(t, output.jsonl)
	lines := strings.Split(*output.jsonl, "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], `"id":"PRRT_1"`)
	assert.Contains(t, lines[1], `"id":"PRR_2"`)
	assert.Contains(t, lines[2], `"id":"IC_1"`)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, "/out/acme/widgets", result.OutputDir)
	assert.Len(t, result.Entities, 3)
	assert.Equal(t, 3, result.Stats.TotalEntries)
	assert.Equal(t, 2, result.Stats.PendingEntries)
	assert.Equal(t, 1, result.Stats.ThreadReplies)

	require.Len(t, history.syncs, 1)
	rec := history.syncs[0]
	assert.Equal(t, result.RunID, rec.RunID)
	assert.Equal(t, 12, rec.PRNumber)
	assert.Equal(t, "deadbeef", rec.HeadSHA)
	assert.Equal(t, 3, rec.TotalEntries)
}

func TestSync_Digest(t *testing.T) {
	output := &mockOutput{}
	svc := application.NewSyncService(populatedSource(), output, nil)

	_, err := svc.Sync(context.Background(), application.SyncRequest{Ref: syncRef, Digest: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"meta", "entities", "digest"}, output.writes)
	html := string(output.digest)
	assert.Contains(t, html, "<strong>bold</strong>")
	assert.NotContains(t, html, "<script>")
}

func TestSync_FetchErrorAborts(t *testing.T) {
	for _, step := range []string{"meta", "threads", "reviews", "issueComments", "reviewComments"} {
		t.Run(step, func(t *testing.T) {
			source := populatedSource()
			source.failOn = step
			output := &mockOutput{}
			history := &mockHistory{}
			svc := application.NewSyncService(source, output, history)

			_, err := svc.Sync(context.Background(), application.SyncRequest{Ref: syncRef})
			require.ErrorIs(t, err, errMock)
			assert.Contains(t, err.Error(), "acme/widgets#12")

			assert.Equal(t, step, source.calls[len(source.calls)-1])
			assert.Empty(t, output.writes)
			assert.Empty(t, history.syncs)
		})
	}
}

func TestSync_WriteErrorAborts(t *testing.T) {
	output := &mockOutput{failMeta: true}
	svc := application.NewSyncService(populatedSource(), output, nil)

	_, err := svc.Sync(context.Background(), application.SyncRequest{Ref: syncRef})
	require.ErrorIs(t, err, errMock)
	assert.Nil(t, output.jsonl)
}

func TestSync_EmptyPR(t *testing.T) {
	output := &mockOutput{}
	svc := application.NewSyncService(&mockSource{meta: model.PRMeta{Number: 12}}, output, nil)

	result, err := svc.Sync(context.Background(), application.SyncRequest{Ref: syncRef})
	require.NoError(t, err)

	require.NotNil(t, output.jsonl)
	assert.Equal(t, "", *output.jsonl)
	assert.Zero(t, result.Stats.TotalEntries)
}

func TestSync_LedgerFailureIsNotFatal(t *testing.T) {
	svc := application.NewSyncService(populatedSource(), &mockOutput{}, &mockHistory{err: errMock})

	_, err := svc.Sync(context.Background(), application.SyncRequest{Ref: syncRef})
	assert.NoError(t, err)
}
