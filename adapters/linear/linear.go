// adapters/linear/linear.go

// Package linear talks to the Linear GraphQL API.
package linear

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"

	"github.com/mwiater/toolbelt/pkg/restclient"
	"github.com/mwiater/toolbelt/pkg/toolkit"
)

const DefaultBaseURL = "https://api.linear.app"

const (
	ToolListIssues  = "listIssues"
	ToolGetIssue    = "getIssue"
	ToolCreateIssue = "createIssue"
	ToolListTeams   = "listTeams"
)

var Definitions = []toolkit.Definition{
	{
		Name:        ToolListIssues,
		Description: "List Linear issues, optionally limited to one team.",
		Parameters: toolkit.Object(map[string]any{
			"teamId": toolkit.Prop("string", "Team id to filter by"),
			"first":  toolkit.Prop("integer", "Number of issues to return", toolkit.Default(25), toolkit.Minimum(1), toolkit.Maximum(250)),
		}),
	},
	{
		Name:        ToolGetIssue,
		Description: "Get a Linear issue by id or identifier such as ENG-123.",
		Parameters: toolkit.Object(map[string]any{
			"id": toolkit.Prop("string", "Issue id or identifier", toolkit.MinLength(1)),
		}, "id"),
	},
	{
		Name:        ToolCreateIssue,
		Description: "Create an issue in a Linear team.",
		Parameters: toolkit.Object(map[string]any{
			"teamId":      toolkit.Prop("string", "Team that owns the issue", toolkit.MinLength(1)),
			"title":       toolkit.Prop("string", "Issue title", toolkit.MinLength(1)),
			"description": toolkit.Prop("string", "Markdown description"),
			"priority":    toolkit.Prop("integer", "0 none, 1 urgent, 2 high, 3 medium, 4 low", toolkit.Minimum(0), toolkit.Maximum(4)),
			"assigneeId":  toolkit.Prop("string", "User id to assign"),
		}, "teamId", "title"),
	},
	{
		Name:        ToolListTeams,
		Description: "List the teams visible to the API key.",
		Parameters: toolkit.Object(map[string]any{
			"first": toolkit.Prop("integer", "Number of teams to return", toolkit.Default(50), toolkit.Minimum(1), toolkit.Maximum(250)),
		}),
	},
}

type ListIssuesParams struct {
	TeamID string `json:"teamId,omitempty"`
	First  int    `json:"first"`
}

type GetIssueParams struct {
	ID string `json:"id"`
}

type CreateIssueParams struct {
	TeamID      string `json:"teamId"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Priority    *int   `json:"priority,omitempty"`
	AssigneeID  string `json:"assigneeId,omitempty"`
}

type ListTeamsParams struct {
	First int `json:"first"`
}

type Issue struct {
	ID          string  `json:"id"`
	Identifier  string  `json:"identifier"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Priority    int     `json:"priority"`
	URL         string  `json:"url"`
	State       *string `json:"state,omitempty"`
	Assignee    *string `json:"assignee,omitempty"`
	Team        *string `json:"team,omitempty"`
	CreatedAt   string  `json:"createdAt"`
}

type Team struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Client posts GraphQL documents to Linear.
type Client struct {
	rest *restclient.Client
}

// New uses a personal API key, which Linear expects without a Bearer prefix.
func New(apiKey string, opts ...restclient.Option) *Client {
	base := []restclient.Option{restclient.WithAuth(restclient.HeaderAuth{Header: "Authorization", Value: apiKey})}
	return &Client{rest: restclient.New(DefaultBaseURL, append(base, opts...)...)}
}

func NewToolManager(h toolkit.Handler) (*toolkit.Manager, error) {
	return toolkit.NewManagerFromDefinitions(Definitions, h)
}

func (c *Client) Funcs() map[string]toolkit.Func {
	return map[string]toolkit.Func{
		ToolListIssues:  toolkit.Bind(c.ListIssues),
		ToolGetIssue:    toolkit.Bind(c.GetIssue),
		ToolCreateIssue: toolkit.Bind(c.CreateIssue),
		ToolListTeams:   toolkit.Bind(c.ListTeams),
	}
}

const issueFields = `id identifier title description priority url createdAt
	state { name } assignee { name } team { key }`

func (c *Client) ListIssues(ctx context.Context, p ListIssuesParams) ([]Issue, error) {
	vars := map[string]any{"first": p.First}
	query := `query($first: Int!) { issues(first: $first) { nodes { ` + issueFields + ` } } }`
	if p.TeamID != "" {
		vars["teamId"] = p.TeamID
		query = `query($first: Int!, $teamId: ID!) { issues(first: $first, filter: { team: { id: { eq: $teamId } } }) { nodes { ` + issueFields + ` } } }`
	}
	var data struct {
		Issues struct {
			Nodes []apiIssue `json:"nodes"`
		} `json:"issues"`
	}
	if err := c.graphql(ctx, query, vars, &data); err != nil {
		return nil, errors.Wrap(err, "failed to list issues")
	}
	out := make([]Issue, 0, len(data.Issues.Nodes))
	for _, n := range data.Issues.Nodes {
		out = append(out, n.toIssue())
	}
	return out, nil
}

func (c *Client) GetIssue(ctx context.Context, p GetIssueParams) (*Issue, error) {
	query := `query($id: String!) { issue(id: $id) { ` + issueFields + ` } }`
	var data struct {
		Issue *apiIssue `json:"issue"`
	}
	if err := c.graphql(ctx, query, map[string]any{"id": p.ID}, &data); err != nil {
		return nil, errors.Wrap(err, "failed to get issue")
	}
	if data.Issue == nil {
		return nil, errors.Errorf("failed to get issue: %s not found", p.ID)
	}
	issue := data.Issue.toIssue()
	return &issue, nil
}

func (c *Client) CreateIssue(ctx context.Context, p CreateIssueParams) (*Issue, error) {
	input := map[string]any{"teamId": p.TeamID, "title": p.Title}
	if p.Description != "" {
		input["description"] = p.Description
	}
	if p.Priority != nil {
		input["priority"] = *p.Priority
	}
	if p.AssigneeID != "" {
		input["assigneeId"] = p.AssigneeID
	}
	query := `mutation($input: IssueCreateInput!) { issueCreate(input: $input) { success issue { ` + issueFields + ` } } }`
	var data struct {
		IssueCreate struct {
			Success bool      `json:"success"`
			Issue   *apiIssue `json:"issue"`
		} `json:"issueCreate"`
	}
	if err := c.graphql(ctx, query, map[string]any{"input": input}, &data); err != nil {
		return nil, errors.Wrap(err, "failed to create issue")
	}
	if !data.IssueCreate.Success || data.IssueCreate.Issue == nil {
		return nil, errors.New("failed to create issue: Linear reported success=false")
	}
	issue := data.IssueCreate.Issue.toIssue()
	return &issue, nil
}

func (c *Client) ListTeams(ctx context.Context, p ListTeamsParams) ([]Team, error) {
	query := `query($first: Int!) { teams(first: $first) { nodes { id key name } } }`
	var data struct {
		Teams struct {
			Nodes []Team `json:"nodes"`
		} `json:"teams"`
	}
	if err := c.graphql(ctx, query, map[string]any{"first": p.First}, &data); err != nil {
		return nil, errors.Wrap(err, "failed to list teams")
	}
	return data.Teams.Nodes, nil
}

type graphqlError struct {
	Message string `json:"message"`
}

// graphql posts one document. GraphQL reports most failures with HTTP 200 and
// an errors array, so those are turned into Go errors here.
func (c *Client) graphql(ctx context.Context, query string, vars map[string]any, out any) error {
	var resp struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphqlError  `json:"errors"`
	}
	body := map[string]any{"query": query, "variables": vars}
	if err := c.rest.PostJSON(ctx, "/graphql", body, &resp); err != nil {
		return err
	}
	if len(resp.Errors) > 0 {
		msgs := make([]string, 0, len(resp.Errors))
		for _, e := range resp.Errors {
			msgs = append(msgs, e.Message)
		}
		return errors.New(strings.Join(msgs, "; "))
	}
	if len(resp.Data) == 0 || string(resp.Data) == "null" {
		return errors.New("empty GraphQL response")
	}
	return json.Unmarshal(resp.Data, out)
}

type named struct {
	Name string `json:"name"`
	Key  string `json:"key"`
}

type apiIssue struct {
	ID          string  `json:"id"`
	Identifier  string  `json:"identifier"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Priority    int     `json:"priority"`
	URL         string  `json:"url"`
	CreatedAt   string  `json:"createdAt"`
	State       *named  `json:"state"`
	Assignee    *named  `json:"assignee"`
	Team        *named  `json:"team"`
}

func (a apiIssue) toIssue() Issue {
	issue := Issue{
		ID:          a.ID,
		Identifier:  a.Identifier,
		Title:       a.Title,
		Description: a.Description,
		Priority:    a.Priority,
		URL:         a.URL,
		CreatedAt:   a.CreatedAt,
	}
	if a.State != nil {
		issue.State = &a.State.Name
	}
	if a.Assignee != nil {
		issue.Assignee = &a.Assignee.Name
	}
	if a.Team != nil {
		issue.Team = &a.Team.Key
	}
	return issue
}
