// Package github implements the ReviewSource and ReviewMutator ports using
// the go-github library and the GitHub GraphQL API.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/ericfisherdev/reviewsync/internal/domain/model"
	"github.com/ericfisherdev/reviewsync/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ReviewSource = (*Client)(nil)

// DefaultAPIURL is the public GitHub REST endpoint.
const DefaultAPIURL = "https://api.github.com/"

// Fixed page sizes. Only the first page of each collection is fetched.
const (
	threadsPageSize        = 100
	threadCommentsPageSize = 50
	reactionsPageSize      = 20
	reviewsPageSize        = 100
	issueCommentsPageSize  = 100
	reviewCommentsPageSize = 100
)

// Client implements the driven.ReviewSource and driven.ReviewMutator ports.
type Client struct {
	gh         *gh.Client
	httpClient *http.Client // Used for GraphQL requests.
	token      string       // Stored for GraphQL Authorization header.
	graphqlURL string       // "https://api.github.com/graphql" in production; derived from baseURL otherwise.
}

// NewClient creates a new GitHub API client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client with PAT auth)
//
// apiURL selects a GitHub Enterprise Server instance; empty means github.com.
func NewClient(token, apiURL string) (*Client, error) {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	client := gh.NewClient(rateLimitClient).WithAuthToken(token)

	graphqlURL := "https://api.github.com/graphql"
	if apiURL != "" && apiURL != DefaultAPIURL {
		var err error
		client, err = client.WithEnterpriseURLs(apiURL, apiURL)
		if err != nil {
			return nil, fmt.Errorf("configuring enterprise URL %q: %w", apiURL, err)
		}
		graphqlURL = enterpriseGraphQLURL(client.BaseURL)
	}

	return &Client{
		gh:         client,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		token:      token,
		graphqlURL: graphqlURL,
	}, nil
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL, token string) (*Client, error) {
	client := gh.NewClient(httpClient)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	// Derive graphqlURL from baseURL so httptest servers can intercept GraphQL requests.
	graphqlU := *u
	graphqlU.Path = "/graphql"

	return &Client{
		gh:         client,
		httpClient: httpClient,
		token:      token,
		graphqlURL: graphqlU.String(),
	}, nil
}

// enterpriseGraphQLURL maps an Enterprise REST base (https://host/api/v3/)
// to its GraphQL endpoint (https://host/api/graphql).
func enterpriseGraphQLURL(base *url.URL) string {
	u := *base
	u.Path = strings.TrimSuffix(strings.TrimSuffix(u.Path, "/"), "/v3") + "/graphql"
	return u.String()
}

// FetchPRMeta retrieves the pull request metadata written to pr-meta.json.
func (c *Client) FetchPRMeta(ctx context.Context, ref model.PRRef) (model.PRMeta, error) {
	pr, resp, err := c.gh.PullRequests.Get(ctx, ref.Owner, ref.Repo, ref.Number)
	if err != nil {
		return model.PRMeta{}, fmt.Errorf("fetching pull request %s: %w", ref, err)
	}

	logRateLimit(resp, ref.FullName()+"/pulls", 0, 1)

	return mapPRMeta(pr), nil
}

// FetchReviewComments retrieves the first page of inline review comments for a
// pull request. It does not paginate.
func (c *Client) FetchReviewComments(ctx context.Context, ref model.PRRef) ([]model.ReviewComment, error) {
	opts := &gh.PullRequestListCommentsOptions{
		ListOptions: gh.ListOptions{PerPage: reviewCommentsPageSize},
	}

	comments, resp, err := c.gh.PullRequests.ListComments(ctx, ref.Owner, ref.Repo, ref.Number, opts)
	if err != nil {
		return nil, fmt.Errorf("listing review comments for %s: %w", ref, err)
	}

	logRateLimit(resp, ref.FullName()+"/pulls/comments", 0, len(comments))
	if resp != nil && resp.NextPage != 0 {
		slog.Warn("review comments exceed one page, remainder ignored", "pr", ref.String())
	}

	result := make([]model.ReviewComment, 0, len(comments))
	for _, comment := range comments {
		result = append(result, mapReviewComment(comment))
	}

	return result, nil
}

// FindPullRequestForBranch returns the number of the open pull request whose
// head is branch in owner/repo.
func (c *Client) FindPullRequestForBranch(ctx context.Context, owner, repo, branch string) (int, error) {
	opts := &gh.PullRequestListOptions{
		State:       "open",
		Head:        owner + ":" + branch,
		ListOptions: gh.ListOptions{PerPage: 1},
	}

	prs, resp, err := c.gh.PullRequests.List(ctx, owner, repo, opts)
	if err != nil {
		return 0, fmt.Errorf("listing pull requests for %s/%s: %w", owner, repo, err)
	}

	logRateLimit(resp, owner+"/"+repo+"/pulls", 0, len(prs))

	if len(prs) == 0 {
		return 0, fmt.Errorf("%w: %s", driven.ErrNoPullRequestForBranch, branch)
	}
	return prs[0].GetNumber(), nil
}

// mapPRMeta converts a go-github PullRequest to PRMeta. A merged pull request
// reports MERGED; otherwise the REST state is upper-cased.
// It uses GetXxx() helper methods exclusively to avoid nil pointer panics.
func mapPRMeta(pr *gh.PullRequest) model.PRMeta {
	state := strings.ToUpper(pr.GetState())
	if pr.GetMerged() || !pr.GetMergedAt().IsZero() {
		state = "MERGED"
	}

	return model.PRMeta{
		Number:      pr.GetNumber(),
		Title:       pr.GetTitle(),
		State:       state,
		HeadRefName: pr.GetHead().GetRef(),
		BaseRefName: pr.GetBase().GetRef(),
		HeadRefOid:  pr.GetHead().GetSHA(),
	}
}

// mapReviewComment converts a go-github PullRequestComment to a domain model ReviewComment.
func mapReviewComment(c *gh.PullRequestComment) model.ReviewComment {
	var line *int
	if c.Line != nil {
		val := c.GetLine()
		line = &val
	}

	var reviewID *int64
	if c.PullRequestReviewID != nil {
		val := c.GetPullRequestReviewID()
		reviewID = &val
	}

	var inReplyTo *int64
	if c.InReplyTo != nil {
		val := c.GetInReplyTo()
		inReplyTo = &val
	}

	return model.ReviewComment{
		ID:                  c.GetID(),
		NodeID:              c.GetNodeID(),
		Author:              c.GetUser().GetLogin(),
		Body:                c.GetBody(),
		Path:                c.GetPath(),
		Line:                line,
		CommitID:            c.GetCommitID(),
		OriginalCommitID:    c.GetOriginalCommitID(),
		PullRequestReviewID: reviewID,
		InReplyToID:         inReplyTo,
		CreatedAt:           c.GetCreatedAt().Time,
		HTMLURL:             c.GetHTMLURL(),
	}
}

// logRateLimit logs the GitHub API rate limit status after each call.
func logRateLimit(resp *gh.Response, endpoint string, page, count int) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"endpoint", endpoint,
		"page", page,
		"count", count,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Limit > 0 && resp.Rate.Remaining < 100 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}
