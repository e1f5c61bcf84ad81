// adapters/vercel/vercel.go

// Package vercel lists Vercel projects and deployments.
package vercel

import (
	"context"
	"net/url"
	"strconv"

	"github.com/pkg/errors"

	"github.com/mwiater/toolbelt/pkg/restclient"
	"github.com/mwiater/toolbelt/pkg/toolkit"
)

const DefaultBaseURL = "https://api.vercel.com"

const (
	ToolListProjects    = "listProjects"
	ToolGetProject      = "getProject"
	ToolListDeployments = "listDeployments"
)

var teamProp = toolkit.Prop("string", "Team id or slug; omit for the personal account")

var Definitions = []toolkit.Definition{
	{
		Name:        ToolListProjects,
		Description: "List projects.",
		Parameters: toolkit.Object(map[string]any{
			"teamId": teamProp,
			"search": toolkit.Prop("string", "Filter projects by name"),
			"limit":  toolkit.Prop("integer", "Maximum number of projects", toolkit.Default(20), toolkit.Minimum(1), toolkit.Maximum(100)),
		}),
	},
	{
		Name:        ToolGetProject,
		Description: "Get a project by id or name.",
		Parameters: toolkit.Object(map[string]any{
			"idOrName": toolkit.Prop("string", "Project id or name", toolkit.MinLength(1)),
			"teamId":   teamProp,
		}, "idOrName"),
	},
	{
		Name:        ToolListDeployments,
		Description: "List deployments, newest first.",
		Parameters: toolkit.Object(map[string]any{
			"projectId": toolkit.Prop("string", "Only deployments of this project"),
			"teamId":    teamProp,
			"state":     toolkit.Prop("string", "Deployment state", toolkit.Enum("BUILDING", "ERROR", "INITIALIZING", "QUEUED", "READY", "CANCELED")),
			"target":    toolkit.Prop("string", "Deployment target", toolkit.Enum("production", "preview")),
			"limit":     toolkit.Prop("integer", "Maximum number of deployments", toolkit.Default(20), toolkit.Minimum(1), toolkit.Maximum(100)),
		}),
	},
}

type ListProjectsParams struct {
	TeamID string `json:"teamId,omitempty"`
	Search string `json:"search,omitempty"`
	Limit  int    `json:"limit"`
}

type GetProjectParams struct {
	IDOrName string `json:"idOrName"`
	TeamID   string `json:"teamId,omitempty"`
}

type ListDeploymentsParams struct {
	ProjectID string `json:"projectId,omitempty"`
	TeamID    string `json:"teamId,omitempty"`
	State     string `json:"state,omitempty"`
	Target    string `json:"target,omitempty"`
	Limit     int    `json:"limit"`
}

type Project struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Framework *string `json:"framework,omitempty"`
	CreatedAt int64   `json:"createdAt"`
	UpdatedAt int64   `json:"updatedAt"`
}

type Deployment struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	URL       string  `json:"url"`
	State     string  `json:"state"`
	Target    *string `json:"target,omitempty"`
	CreatedAt int64   `json:"createdAt"`
}

type apiDeployment struct {
	UID       string  `json:"uid"`
	Name      string  `json:"name"`
	URL       string  `json:"url"`
	State     string  `json:"state"`
	Target    *string `json:"target"`
	CreatedAt int64   `json:"createdAt"`
}

type Client struct {
	rest *restclient.Client
}

func New(token string, opts ...restclient.Option) *Client {
	base := []restclient.Option{restclient.WithAuth(restclient.BearerToken(token))}
	return &Client{rest: restclient.New(DefaultBaseURL, append(base, opts...)...)}
}

func NewToolManager(h toolkit.Handler) (*toolkit.Manager, error) {
	return toolkit.NewManagerFromDefinitions(Definitions, h)
}

func (c *Client) Funcs() map[string]toolkit.Func {
	return map[string]toolkit.Func{
		ToolListProjects:    toolkit.Bind(c.ListProjects),
		ToolGetProject:      toolkit.Bind(c.GetProject),
		ToolListDeployments: toolkit.Bind(c.ListDeployments),
	}
}

func teamQuery(teamID string) url.Values {
	q := url.Values{}
	if teamID != "" {
		q.Set("teamId", teamID)
	}
	return q
}

func (c *Client) ListProjects(ctx context.Context, p ListProjectsParams) ([]Project, error) {
	q := teamQuery(p.TeamID)
	q.Set("limit", strconv.Itoa(p.Limit))
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	var resp struct {
		Projects []Project `json:"projects"`
	}
	if err := c.rest.Get(ctx, "/v9/projects", q, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to list projects")
	}
	return resp.Projects, nil
}

func (c *Client) GetProject(ctx context.Context, p GetProjectParams) (*Project, error) {
	var resp Project
	if err := c.rest.Get(ctx, "/v9/projects/"+url.PathEscape(p.IDOrName), teamQuery(p.TeamID), &resp); err != nil {
		return nil, errors.Wrapf(err, "failed to get project %s", p.IDOrName)
	}
	return &resp, nil
}

func (c *Client) ListDeployments(ctx context.Context, p ListDeploymentsParams) ([]Deployment, error) {
	q := teamQuery(p.TeamID)
	q.Set("limit", strconv.Itoa(p.Limit))
	for k, v := range map[string]string{"projectId": p.ProjectID, "state": p.State, "target": p.Target} {
		if v != "" {
			q.Set(k, v)
		}
	}
	var resp struct {
		Deployments []apiDeployment `json:"deployments"`
	}
	if err := c.rest.Get(ctx, "/v6/deployments", q, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to list deployments")
	}
	out := make([]Deployment, 0, len(resp.Deployments))
	for _, d := range resp.Deployments {
		out = append(out, Deployment{
			ID:        d.UID,
			Name:      d.Name,
			URL:       d.URL,
			State:     d.State,
			Target:    d.Target,
			CreatedAt: d.CreatedAt,
		})
	}
	return out, nil
}
