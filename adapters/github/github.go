// adapters/github/github.go

// Package github exposes a handful of GitHub REST operations as tools.
package github

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/mwiater/toolbelt/pkg/restclient"
	"github.com/mwiater/toolbelt/pkg/toolkit"
)

const (
	DefaultBaseURL = "https://api.github.com"
	apiVersion     = "2022-11-28"
)

// Client calls the GitHub REST API with a personal access token.
type Client struct {
	rest *restclient.Client
}

// New returns a Client authenticated with token. Options are applied after
// the defaults, so restclient.WithBaseURL can point it at GitHub Enterprise.
func New(token string, opts ...restclient.Option) *Client {
	base := []restclient.Option{
		restclient.WithAuth(restclient.BearerToken(token)),
		restclient.WithHeader("Accept", "application/vnd.github+json"),
		restclient.WithHeader("X-GitHub-Api-Version", apiVersion),
	}
	return &Client{rest: restclient.New(DefaultBaseURL, append(base, opts...)...)}
}

// NewToolManager builds the tool manager over Definitions with h's functions.
func NewToolManager(h toolkit.Handler) (*toolkit.Manager, error) {
	return toolkit.NewManagerFromDefinitions(Definitions, h)
}

// Funcs binds each tool name to its client method.
func (c *Client) Funcs() map[string]toolkit.Func {
	return map[string]toolkit.Func{
		ToolSearchIssues:     toolkit.Bind(c.SearchIssues),
		ToolGetRepository:    toolkit.Bind(c.GetRepository),
		ToolListIssues:       toolkit.Bind(c.ListIssues),
		ToolCreateIssue:      toolkit.Bind(c.CreateIssue),
		ToolListPullRequests: toolkit.Bind(c.ListPullRequests),
	}
}

func (c *Client) SearchIssues(ctx context.Context, p SearchIssuesParams) (*SearchIssuesResult, error) {
	q := url.Values{"q": {p.Query}, "per_page": {strconv.Itoa(p.Limit)}}
	if p.Sort != "" {
		q.Set("sort", p.Sort)
		q.Set("order", p.Order)
	}
	var resp apiSearchIssues
	if err := c.rest.Get(ctx, "/search/issues", q, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to search issues")
	}
	out := &SearchIssuesResult{
		TotalCount:        resp.TotalCount,
		IncompleteResults: resp.IncompleteResults,
		Items:             make([]Issue, 0, len(resp.Items)),
	}
	for _, it := range resp.Items {
		out.Items = append(out.Items, toIssue(it))
	}
	return out, nil
}

func (c *Client) GetRepository(ctx context.Context, p RepoParams) (*Repository, error) {
	var resp apiRepository
	if err := c.rest.Get(ctx, repoPath(p.Owner, p.Repo), nil, &resp); err != nil {
		return nil, errors.Wrapf(err, "failed to get repository %s/%s", p.Owner, p.Repo)
	}
	repo := toRepository(resp)
	return &repo, nil
}

// ListIssues drops pull requests, which the issues endpoint also returns.
func (c *Client) ListIssues(ctx context.Context, p ListIssuesParams) ([]Issue, error) {
	q := url.Values{"state": {p.State}, "per_page": {strconv.Itoa(p.Limit)}}
	if len(p.Labels) > 0 {
		q.Set("labels", strings.Join(p.Labels, ","))
	}
	var resp []apiIssue
	if err := c.rest.Get(ctx, repoPath(p.Owner, p.Repo)+"/issues", q, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to list issues")
	}
	out := make([]Issue, 0, len(resp))
	for _, it := range resp {
		if it.PullRequest != nil {
			continue
		}
		out = append(out, toIssue(it))
	}
	return out, nil
}

func (c *Client) CreateIssue(ctx context.Context, p CreateIssueParams) (*Issue, error) {
	body := map[string]any{"title": p.Title}
	if p.Body != "" {
		body["body"] = p.Body
	}
	if len(p.Labels) > 0 {
		body["labels"] = p.Labels
	}
	if len(p.Assignees) > 0 {
		body["assignees"] = p.Assignees
	}
	var resp apiIssue
	if err := c.rest.PostJSON(ctx, repoPath(p.Owner, p.Repo)+"/issues", body, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to create issue")
	}
	issue := toIssue(resp)
	return &issue, nil
}

func (c *Client) ListPullRequests(ctx context.Context, p ListPullRequestsParams) ([]PullRequest, error) {
	q := url.Values{"state": {p.State}, "per_page": {strconv.Itoa(p.Limit)}}
	var resp []apiPullRequest
	if err := c.rest.Get(ctx, repoPath(p.Owner, p.Repo)+"/pulls", q, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to list pull requests")
	}
	out := make([]PullRequest, 0, len(resp))
	for _, pr := range resp {
		out = append(out, toPullRequest(pr))
	}
	return out, nil
}

func repoPath(owner, repo string) string {
	return "/repos/" + url.PathEscape(owner) + "/" + url.PathEscape(repo)
}
