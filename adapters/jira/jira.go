// adapters/jira/jira.go

// Package jira searches, reads, and creates Jira Cloud issues through REST v3.
package jira

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/mwiater/toolbelt/pkg/restclient"
	"github.com/mwiater/toolbelt/pkg/toolkit"
)

const (
	ToolSearchIssues = "searchIssues"
	ToolGetIssue     = "getIssue"
	ToolCreateIssue  = "createIssue"
)

var Definitions = []toolkit.Definition{
	{
		Name:        ToolSearchIssues,
		Description: "Search issues with JQL.",
		Parameters: toolkit.Object(map[string]any{
			"jql":        toolkit.Prop("string", "JQL query, e.g. 'project = OPS AND status = \"In Progress\"'", toolkit.MinLength(1)),
			"maxResults": toolkit.Prop("integer", "Maximum number of issues", toolkit.Default(25), toolkit.Minimum(1), toolkit.Maximum(100)),
		}, "jql"),
	},
	{
		Name:        ToolGetIssue,
		Description: "Get an issue by key, e.g. OPS-12.",
		Parameters: toolkit.Object(map[string]any{
			"issueKey": toolkit.Prop("string", "Issue key or id", toolkit.MinLength(1)),
		}, "issueKey"),
	},
	{
		Name:        ToolCreateIssue,
		Description: "Create an issue in a project.",
		Parameters: toolkit.Object(map[string]any{
			"projectKey":  toolkit.Prop("string", "Project key", toolkit.MinLength(1)),
			"summary":     toolkit.Prop("string", "Issue summary", toolkit.MinLength(1)),
			"issueType":   toolkit.Prop("string", "Issue type name", toolkit.Default("Task")),
			"description": toolkit.Prop("string", "Plain-text description"),
			"labels":      toolkit.Prop("array", "Labels", toolkit.Items(toolkit.Prop("string", ""))),
		}, "projectKey", "summary"),
	},
}

type SearchIssuesParams struct {
	JQL        string `json:"jql"`
	MaxResults int    `json:"maxResults"`
}

type GetIssueParams struct {
	IssueKey string `json:"issueKey"`
}

type CreateIssueParams struct {
	ProjectKey  string   `json:"projectKey"`
	Summary     string   `json:"summary"`
	IssueType   string   `json:"issueType"`
	Description string   `json:"description,omitempty"`
	Labels      []string `json:"labels,omitempty"`
}

type Issue struct {
	ID        string   `json:"id"`
	Key       string   `json:"key"`
	URL       string   `json:"url"`
	Summary   string   `json:"summary"`
	Status    *string  `json:"status,omitempty"`
	IssueType *string  `json:"issueType,omitempty"`
	Assignee  *string  `json:"assignee,omitempty"`
	Priority  *string  `json:"priority,omitempty"`
	Labels    []string `json:"labels,omitempty"`
	Created   string   `json:"created,omitempty"`
	Updated   string   `json:"updated,omitempty"`
}

type SearchResult struct {
	Total  int     `json:"total"`
	Issues []Issue `json:"issues"`
}

type apiNamed struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

type apiIssue struct {
	ID     string `json:"id"`
	Key    string `json:"key"`
	Fields struct {
		Summary   string    `json:"summary"`
		Status    *apiNamed `json:"status"`
		IssueType *apiNamed `json:"issuetype"`
		Assignee  *apiNamed `json:"assignee"`
		Priority  *apiNamed `json:"priority"`
		Labels    []string  `json:"labels"`
		Created   string    `json:"created"`
		Updated   string    `json:"updated"`
	} `json:"fields"`
}

type Client struct {
	siteURL string
	rest    *restclient.Client
}

// New returns a Client for a Jira Cloud site (https://<site>.atlassian.net)
// using an account email and API token.
func New(siteURL, email, apiToken string, opts ...restclient.Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(siteURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("jira: invalid base url %q", siteURL)
	}
	if email == "" || apiToken == "" {
		return nil, errors.New("jira: email and API token are required")
	}
	site := strings.TrimRight(u.String(), "/")
	base := []restclient.Option{restclient.WithAuth(restclient.BasicAuth{Username: email, Password: apiToken})}
	return &Client{siteURL: site, rest: restclient.New(site, append(base, opts...)...)}, nil
}

func NewToolManager(h toolkit.Handler) (*toolkit.Manager, error) {
	return toolkit.NewManagerFromDefinitions(Definitions, h)
}

func (c *Client) Funcs() map[string]toolkit.Func {
	return map[string]toolkit.Func{
		ToolSearchIssues: toolkit.Bind(c.SearchIssues),
		ToolGetIssue:     toolkit.Bind(c.GetIssue),
		ToolCreateIssue:  toolkit.Bind(c.CreateIssue),
	}
}

const issueFieldList = "summary,status,issuetype,assignee,priority,labels,created,updated"

func (c *Client) SearchIssues(ctx context.Context, p SearchIssuesParams) (*SearchResult, error) {
	q := url.Values{
		"jql":        {p.JQL},
		"maxResults": {strconv.Itoa(p.MaxResults)},
		"fields":     {issueFieldList},
	}
	var resp struct {
		Total  int        `json:"total"`
		Issues []apiIssue `json:"issues"`
	}
	if err := c.rest.Get(ctx, "/rest/api/3/search", q, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to search issues")
	}
	out := &SearchResult{Total: resp.Total, Issues: make([]Issue, 0, len(resp.Issues))}
	for _, it := range resp.Issues {
		out.Issues = append(out.Issues, c.toIssue(it))
	}
	return out, nil
}

func (c *Client) GetIssue(ctx context.Context, p GetIssueParams) (*Issue, error) {
	var resp apiIssue
	q := url.Values{"fields": {issueFieldList}}
	if err := c.rest.Get(ctx, "/rest/api/3/issue/"+url.PathEscape(p.IssueKey), q, &resp); err != nil {
		return nil, errors.Wrapf(err, "failed to get issue %s", p.IssueKey)
	}
	issue := c.toIssue(resp)
	return &issue, nil
}

// CreateIssue returns the new issue's id, key, and browse URL. Jira answers
// the create call with only those, so the other fields are left empty.
func (c *Client) CreateIssue(ctx context.Context, p CreateIssueParams) (*Issue, error) {
	fields := map[string]any{
		"project":   map[string]any{"key": p.ProjectKey},
		"summary":   p.Summary,
		"issuetype": map[string]any{"name": p.IssueType},
	}
	if p.Description != "" {
		fields["description"] = adfParagraph(p.Description)
	}
	if len(p.Labels) > 0 {
		fields["labels"] = p.Labels
	}
	var resp struct {
		ID  string `json:"id"`
		Key string `json:"key"`
	}
	if err := c.rest.PostJSON(ctx, "/rest/api/3/issue", map[string]any{"fields": fields}, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to create issue")
	}
	return &Issue{ID: resp.ID, Key: resp.Key, URL: c.browseURL(resp.Key), Summary: p.Summary}, nil
}

func (c *Client) browseURL(key string) string {
	return c.siteURL + "/browse/" + key
}

func (c *Client) toIssue(in apiIssue) Issue {
	name := func(n *apiNamed) *string {
		if n == nil {
			return nil
		}
		if n.DisplayName != "" {
			return &n.DisplayName
		}
		return &n.Name
	}
	return Issue{
		ID:        in.ID,
		Key:       in.Key,
		URL:       c.browseURL(in.Key),
		Summary:   in.Fields.Summary,
		Status:    name(in.Fields.Status),
		IssueType: name(in.Fields.IssueType),
		Assignee:  name(in.Fields.Assignee),
		Priority:  name(in.Fields.Priority),
		Labels:    in.Fields.Labels,
		Created:   in.Fields.Created,
		Updated:   in.Fields.Updated,
	}
}

// adfParagraph wraps plain text in the Atlassian Document Format v3 requires.
func adfParagraph(text string) map[string]any {
	return map[string]any{
		"type":    "doc",
		"version": 1,
		"content": []any{map[string]any{
			"type":    "paragraph",
			"content": []any{map[string]any{"type": "text", "text": text}},
		}},
	}
}
