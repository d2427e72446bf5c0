package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ericfisherdev/reviewsync/internal/domain/model"
)

const reviewThreadsQuery = `query($owner: String!, $repo: String!, $number: Int!) {
	repository(owner: $owner, name: $repo) {
		pullRequest(number: $number) {
			reviewThreads(first: 100) {
				pageInfo { hasNextPage }
				nodes {
					id
					isResolved
					path
					line
					comments(first: 50) {
						nodes {
							id
							body
							author { login }
							createdAt
							reactions(first: 20) { nodes { content } }
						}
					}
				}
			}
		}
	}
}`

const reviewsQuery = `query($owner: String!, $repo: String!, $number: Int!) {
	repository(owner: $owner, name: $repo) {
		pullRequest(number: $number) {
			reviews(first: 100) {
				pageInfo { hasNextPage }
				nodes {
					id
					author { login }
					state
					body
					submittedAt
					commit { oid }
				}
			}
		}
	}
}`

const issueCommentsQuery = `query($owner: String!, $repo: String!, $number: Int!) {
	repository(owner: $owner, name: $repo) {
		pullRequest(number: $number) {
			comments(first: 100) {
				pageInfo { hasNextPage }
				nodes {
					id
					databaseId
					author { login }
					body
					createdAt
					reactions(first: 20) { nodes { content } }
				}
			}
		}
	}
}`

const threadLookupQuery = `query($threadId: ID!) {
	node(id: $threadId) {
		... on PullRequestReviewThread {
			pullRequest { number }
			comments(first: 1) { nodes { databaseId } }
		}
	}
}`

const issueCommentLookupQuery = `query($nodeId: ID!) {
	node(id: $nodeId) {
		... on IssueComment {
			databaseId
			issue { number }
		}
	}
}`

const replyToThreadMutation = `mutation($threadId: ID!, $body: String!) {
	addPullRequestReviewThreadReply(input: {pullRequestReviewThreadId: $threadId, body: $body}) {
		comment { id }
	}
}`

// graphqlRequest is the JSON body sent to the GitHub GraphQL API.
type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// graphqlResponse is the envelope of every GitHub GraphQL response. Data is
// decoded separately into the shape each query expects.
type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// doGraphQL posts query with vars and decodes the data member into out. A
// non-empty errors array is reported as an error even when data is present.
func (c *Client) doGraphQL(ctx context.Context, query string, vars map[string]any, out any) error {
	bodyBytes, err := json.Marshal(graphqlRequest{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("marshaling graphql request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.graphqlURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("creating graphql request: %w", err)
	}
	httpReq.Header.Set("Authorization", fmt.Sprintf("bearer %s", c.token))
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("graphql request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("graphql request: HTTP %d", resp.StatusCode)
	}

	var gqlResp graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&gqlResp); err != nil {
		return fmt.Errorf("decoding graphql response: %w", err)
	}

	if len(gqlResp.Errors) > 0 {
		msgs := make([]string, 0, len(gqlResp.Errors))
		for _, e := range gqlResp.Errors {
			msgs = append(msgs, e.Message)
		}
		return fmt.Errorf("graphql errors: %s", strings.Join(msgs, "; "))
	}

	if out == nil || len(gqlResp.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(gqlResp.Data, out); err != nil {
		return fmt.Errorf("decoding graphql data: %w", err)
	}
	return nil
}

func prVars(ref model.PRRef) map[string]any {
	return map[string]any{
		"owner":  ref.Owner,
		"repo":   ref.Repo,
		"number": ref.Number,
	}
}

type gqlAuthor struct {
	Login string `json:"login"`
}

// login returns the author's login, or "" for a deleted account.
func (a *gqlAuthor) login() string {
	if a == nil {
		return ""
	}
	return a.Login
}

type gqlPageInfo struct {
	HasNextPage bool `json:"hasNextPage"`
}

type gqlReactions struct {
	Nodes []struct {
		Content string `json:"content"`
	} `json:"nodes"`
}

type gqlPullRequest[T any] struct {
	Repository struct {
		PullRequest *T `json:"pullRequest"`
	} `json:"repository"`
}

type reviewThreadsData struct {
	ReviewThreads struct {
		PageInfo gqlPageInfo `json:"pageInfo"`
		Nodes    []struct {
			ID         string  `json:"id"`
			IsResolved bool    `json:"isResolved"`
			Path       *string `json:"path"`
			Line       *int    `json:"line"`
			Comments   struct {
				Nodes []struct {
					ID        string       `json:"id"`
					Body      string       `json:"body"`
					Author    *gqlAuthor   `json:"author"`
					CreatedAt time.Time    `json:"createdAt"`
					Reactions gqlReactions `json:"reactions"`
				} `json:"nodes"`
			} `json:"comments"`
		} `json:"nodes"`
	} `json:"reviewThreads"`
}

// FetchReviewThreads retrieves up to 100 review threads with up to 50 comments
// each via GraphQL.
func (c *Client) FetchReviewThreads(ctx context.Context, ref model.PRRef) ([]model.ReviewThread, error) {
	var data gqlPullRequest[reviewThreadsData]
	if err := c.doGraphQL(ctx, reviewThreadsQuery, prVars(ref), &data); err != nil {
		return nil, fmt.Errorf("fetching review threads for %s: %w", ref, err)
	}

	pr := data.Repository.PullRequest
	if pr == nil {
		return nil, fmt.Errorf("fetching review threads for %s: pull request not found", ref)
	}

	if pr.ReviewThreads.PageInfo.HasNextPage {
		slog.Warn("review threads exceed 100, remainder ignored", "pr", ref.String())
	}

	threads := make([]model.ReviewThread, 0, len(pr.ReviewThreads.Nodes))
	for _, node := range pr.ReviewThreads.Nodes {
		comments := make([]model.ThreadComment, 0, len(node.Comments.Nodes))
		for _, cn := range node.Comments.Nodes {
			comments = append(comments, model.ThreadComment{
				ID:        cn.ID,
				Author:    cn.Author.login(),
				Body:      cn.Body,
				CreatedAt: cn.CreatedAt,
				Reactions: mapReactions(cn.Reactions),
			})
		}

		threads = append(threads, model.ReviewThread{
			ID:         node.ID,
			IsResolved: node.IsResolved,
			Path:       node.Path,
			Line:       node.Line,
			Comments:   comments,
		})
	}

	return threads, nil
}

type reviewsData struct {
	Reviews struct {
		PageInfo gqlPageInfo `json:"pageInfo"`
		Nodes    []struct {
			ID          string     `json:"id"`
			Author      *gqlAuthor `json:"author"`
			State       string     `json:"state"`
			Body        string     `json:"body"`
			SubmittedAt *time.Time `json:"submittedAt"`
			Commit      *struct {
				OID string `json:"oid"`
			} `json:"commit"`
		} `json:"nodes"`
	} `json:"reviews"`
}

// FetchReviews retrieves up to 100 submitted reviews via GraphQL so each
// carries its node ID.
func (c *Client) FetchReviews(ctx context.Context, ref model.PRRef) ([]model.Review, error) {
	var data gqlPullRequest[reviewsData]
	if err := c.doGraphQL(ctx, reviewsQuery, prVars(ref), &data); err != nil {
		return nil, fmt.Errorf("fetching reviews for %s: %w", ref, err)
	}

	pr := data.Repository.PullRequest
	if pr == nil {
		return nil, fmt.Errorf("fetching reviews for %s: pull request not found", ref)
	}

	if pr.Reviews.PageInfo.HasNextPage {
		slog.Warn("reviews exceed 100, remainder ignored", "pr", ref.String())
	}

	reviews := make([]model.Review, 0, len(pr.Reviews.Nodes))
	for _, node := range pr.Reviews.Nodes {
		var commitOID string
		if node.Commit != nil {
			commitOID = node.Commit.OID
		}

		reviews = append(reviews, model.Review{
			ID:          node.ID,
			Author:      node.Author.login(),
			State:       model.ReviewState(strings.ToUpper(node.State)),
			Body:        node.Body,
			CommitOID:   commitOID,
			SubmittedAt: node.SubmittedAt,
		})
	}

	return reviews, nil
}

type issueCommentsData struct {
	Comments struct {
		PageInfo gqlPageInfo `json:"pageInfo"`
		Nodes    []struct {
			ID         string       `json:"id"`
			DatabaseID int64        `json:"databaseId"`
			Author     *gqlAuthor   `json:"author"`
			Body       string       `json:"body"`
			CreatedAt  time.Time    `json:"createdAt"`
			Reactions  gqlReactions `json:"reactions"`
		} `json:"nodes"`
	} `json:"comments"`
}

// FetchIssueComments retrieves up to 100 PR-level comments via GraphQL. The
// REST endpoint only exposes reaction counts, not the ordered reactions the
// status derivation needs.
func (c *Client) FetchIssueComments(ctx context.Context, ref model.PRRef) ([]model.IssueComment, error) {
	var data gqlPullRequest[issueCommentsData]
	if err := c.doGraphQL(ctx, issueCommentsQuery, prVars(ref), &data); err != nil {
		return nil, fmt.Errorf("fetching issue comments for %s: %w", ref, err)
	}

	pr := data.Repository.PullRequest
	if pr == nil {
		return nil, fmt.Errorf("fetching issue comments for %s: pull request not found", ref)
	}

	if pr.Comments.PageInfo.HasNextPage {
		slog.Warn("issue comments exceed 100, remainder ignored", "pr", ref.String())
	}

	comments := make([]model.IssueComment, 0, len(pr.Comments.Nodes))
	for _, node := range pr.Comments.Nodes {
		comments = append(comments, model.IssueComment{
			ID:        strconv.FormatInt(node.DatabaseID, 10),
			NodeID:    node.ID,
			Author:    node.Author.login(),
			Body:      node.Body,
			CreatedAt: node.CreatedAt,
			Reactions: mapReactions(node.Reactions),
		})
	}

	return comments, nil
}

// mapReactions keeps reactions in source order and converts GraphQL enum
// spellings to the REST content tokens.
func mapReactions(r gqlReactions) []model.Reaction {
	reactions := make([]model.Reaction, 0, len(r.Nodes))
	for _, n := range r.Nodes {
		reactions = append(reactions, model.Reaction{Content: normalizeReaction(n.Content)})
	}
	return reactions
}

// normalizeReaction maps a GraphQL ReactionContent enum to its REST token.
func normalizeReaction(content string) string {
	switch content {
	case "THUMBS_UP":
		return "+1"
	case "THUMBS_DOWN":
		return "-1"
	default:
		return strings.ToLower(content)
	}
}

type threadLookupData struct {
	Node *struct {
		PullRequest *struct {
			Number int `json:"number"`
		} `json:"pullRequest"`
		Comments struct {
			Nodes []struct {
				DatabaseID int64 `json:"databaseId"`
			} `json:"nodes"`
		} `json:"comments"`
	} `json:"node"`
}

func (c *Client) lookupThread(ctx context.Context, threadID string) (threadLookupData, error) {
	var data threadLookupData
	if err := c.doGraphQL(ctx, threadLookupQuery, map[string]any{"threadId": threadID}, &data); err != nil {
		return data, fmt.Errorf("looking up thread %s: %w", threadID, err)
	}
	return data, nil
}

// ThreadRootCommentID returns the database ID of the thread's first comment,
// or 0 when the thread does not exist or has no comments.
func (c *Client) ThreadRootCommentID(ctx context.Context, threadID string) (int64, error) {
	data, err := c.lookupThread(ctx, threadID)
	if err != nil {
		return 0, err
	}
	if data.Node == nil || len(data.Node.Comments.Nodes) == 0 {
		return 0, nil
	}
	return data.Node.Comments.Nodes[0].DatabaseID, nil
}

// ThreadPullRequestNumber returns the number of the pull request owning the
// thread, or 0 when it cannot be found.
func (c *Client) ThreadPullRequestNumber(ctx context.Context, threadID string) (int, error) {
	data, err := c.lookupThread(ctx, threadID)
	if err != nil {
		return 0, err
	}
	if data.Node == nil || data.Node.PullRequest == nil {
		return 0, nil
	}
	return data.Node.PullRequest.Number, nil
}

type issueCommentLookupData struct {
	Node *struct {
		DatabaseID int64 `json:"databaseId"`
		Issue      *struct {
			Number int `json:"number"`
		} `json:"issue"`
	} `json:"node"`
}

func (c *Client) lookupIssueComment(ctx context.Context, nodeID string) (issueCommentLookupData, error) {
	var data issueCommentLookupData
	if err := c.doGraphQL(ctx, issueCommentLookupQuery, map[string]any{"nodeId": nodeID}, &data); err != nil {
		return data, fmt.Errorf("looking up issue comment %s: %w", nodeID, err)
	}
	return data, nil
}

// IssueCommentDatabaseID returns the database ID behind an issue comment node
// ID, or 0 when the node is not an issue comment.
func (c *Client) IssueCommentDatabaseID(ctx context.Context, nodeID string) (int64, error) {
	data, err := c.lookupIssueComment(ctx, nodeID)
	if err != nil {
		return 0, err
	}
	if data.Node == nil {
		return 0, nil
	}
	return data.Node.DatabaseID, nil
}

// IssueCommentIssueNumber returns the number of the issue or pull request the
// comment belongs to, or 0 when it cannot be found.
func (c *Client) IssueCommentIssueNumber(ctx context.Context, nodeID string) (int, error) {
	data, err := c.lookupIssueComment(ctx, nodeID)
	if err != nil {
		return 0, err
	}
	if data.Node == nil || data.Node.Issue == nil {
		return 0, nil
	}
	return data.Node.Issue.Number, nil
}

// ReplyToThread posts body as a reply in the review thread. The body is sent
// as a GraphQL variable, never interpolated into the query.
func (c *Client) ReplyToThread(ctx context.Context, threadID, body string) error {
	vars := map[string]any{"threadId": threadID, "body": body}
	if err := c.doGraphQL(ctx, replyToThreadMutation, vars, nil); err != nil {
		return fmt.Errorf("replying to thread %s: %w", threadID, err)
	}
	return nil
}
