// adapters/notion/notion.go

// Package notion exposes Notion search, page retrieval, and database queries.
package notion

import (
	"context"
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"github.com/mwiater/toolbelt/pkg/restclient"
	"github.com/mwiater/toolbelt/pkg/toolkit"
)

const (
	DefaultBaseURL = "https://api.notion.com/v1"
	notionVersion  = "2022-06-28"
)

const (
	ToolSearch        = "search"
	ToolGetPage       = "getPage"
	ToolQueryDatabase = "queryDatabase"
)

var Definitions = []toolkit.Definition{
	{
		Name:        ToolSearch,
		Description: "Search pages and databases shared with the integration by title.",
		Parameters: toolkit.Object(map[string]any{
			"query":    toolkit.Prop("string", "Text to match against titles"),
			"filter":   toolkit.Prop("string", "Restrict results to one object type", toolkit.Enum("page", "database")),
			"pageSize": toolkit.Prop("integer", "Number of results", toolkit.Default(20), toolkit.Minimum(1), toolkit.Maximum(100)),
		}),
	},
	{
		Name:        ToolGetPage,
		Description: "Retrieve a page and its properties.",
		Parameters: toolkit.Object(map[string]any{
			"pageId": toolkit.Prop("string", "Page id", toolkit.MinLength(1)),
		}, "pageId"),
	},
	{
		Name:        ToolQueryDatabase,
		Description: "Query a database with an optional Notion filter and sort.",
		Parameters: toolkit.Object(map[string]any{
			"databaseId": toolkit.Prop("string", "Database id", toolkit.MinLength(1)),
			"filter":     toolkit.Prop("object", "Notion filter object"),
			"sorts":      toolkit.Prop("array", "Notion sort objects", toolkit.Items(toolkit.Prop("object", ""))),
			"pageSize":   toolkit.Prop("integer", "Number of rows", toolkit.Default(25), toolkit.Minimum(1), toolkit.Maximum(100)),
		}, "databaseId"),
	},
}

type SearchParams struct {
	Query    string `json:"query,omitempty"`
	Filter   string `json:"filter,omitempty"`
	PageSize int    `json:"pageSize"`
}

type GetPageParams struct {
	PageID string `json:"pageId"`
}

type QueryDatabaseParams struct {
	DatabaseID string           `json:"databaseId"`
	Filter     map[string]any   `json:"filter,omitempty"`
	Sorts      []map[string]any `json:"sorts,omitempty"`
	PageSize   int              `json:"pageSize"`
}

// Object is a page or database reduced to the fields tools care about.
// Properties keeps Notion's property values as returned.
type Object struct {
	ID             string         `json:"id"`
	Object         string         `json:"object"`
	URL            string         `json:"url"`
	Title          *string        `json:"title,omitempty"`
	Archived       bool           `json:"archived"`
	CreatedTime    string         `json:"createdTime"`
	LastEditedTime string         `json:"lastEditedTime"`
	Properties     map[string]any `json:"properties,omitempty"`
}

type Results struct {
	Results    []Object `json:"results"`
	HasMore    bool     `json:"hasMore"`
	NextCursor *string  `json:"nextCursor,omitempty"`
}

type apiObject struct {
	ID             string         `json:"id"`
	Object         string         `json:"object"`
	URL            string         `json:"url"`
	Archived       bool           `json:"archived"`
	CreatedTime    string         `json:"created_time"`
	LastEditedTime string         `json:"last_edited_time"`
	Properties     map[string]any `json:"properties"`
	// databases carry their title at the top level
	Title []richText `json:"title"`
}

type richText struct {
	PlainText string `json:"plain_text"`
}

type apiList struct {
	Results    []apiObject `json:"results"`
	HasMore    bool        `json:"has_more"`
	NextCursor *string     `json:"next_cursor"`
}

type Client struct {
	rest *restclient.Client
}

func New(apiKey string, opts ...restclient.Option) *Client {
	base := []restclient.Option{
		restclient.WithAuth(restclient.BearerToken(apiKey)),
		restclient.WithHeader("Notion-Version", notionVersion),
	}
	return &Client{rest: restclient.New(DefaultBaseURL, append(base, opts...)...)}
}

func NewToolManager(h toolkit.Handler) (*toolkit.Manager, error) {
	return toolkit.NewManagerFromDefinitions(Definitions, h)
}

func (c *Client) Funcs() map[string]toolkit.Func {
	return map[string]toolkit.Func{
		ToolSearch:        toolkit.Bind(c.Search),
		ToolGetPage:       toolkit.Bind(c.GetPage),
		ToolQueryDatabase: toolkit.Bind(c.QueryDatabase),
	}
}

func (c *Client) Search(ctx context.Context, p SearchParams) (*Results, error) {
	body := map[string]any{"page_size": p.PageSize}
	if p.Query != "" {
		body["query"] = p.Query
	}
	if p.Filter != "" {
		body["filter"] = map[string]any{"property": "object", "value": p.Filter}
	}
	var resp apiList
	if err := c.rest.PostJSON(ctx, "/search", body, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to search")
	}
	return toResults(resp, false), nil
}

func (c *Client) GetPage(ctx context.Context, p GetPageParams) (*Object, error) {
	var resp apiObject
	if err := c.rest.Get(ctx, "/pages/"+url.PathEscape(p.PageID), nil, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to get page")
	}
	obj := toObject(resp, true)
	return &obj, nil
}

func (c *Client) QueryDatabase(ctx context.Context, p QueryDatabaseParams) (*Results, error) {
	body := map[string]any{"page_size": p.PageSize}
	if len(p.Filter) > 0 {
		body["filter"] = p.Filter
	}
	if len(p.Sorts) > 0 {
		body["sorts"] = p.Sorts
	}
	var resp apiList
	if err := c.rest.PostJSON(ctx, "/databases/"+url.PathEscape(p.DatabaseID)+"/query", body, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to query database")
	}
	return toResults(resp, true), nil
}

func toResults(in apiList, withProperties bool) *Results {
	out := &Results{Results: make([]Object, 0, len(in.Results)), HasMore: in.HasMore, NextCursor: in.NextCursor}
	for _, o := range in.Results {
		out.Results = append(out.Results, toObject(o, withProperties))
	}
	return out
}

func toObject(in apiObject, withProperties bool) Object {
	obj := Object{
		ID:             in.ID,
		Object:         in.Object,
		URL:            in.URL,
		Title:          titleOf(in),
		Archived:       in.Archived,
		CreatedTime:    in.CreatedTime,
		LastEditedTime: in.LastEditedTime,
	}
	if withProperties {
		obj.Properties = in.Properties
	}
	return obj
}

// titleOf finds the title of a database (top-level) or page (the property of
// type "title").
func titleOf(in apiObject) *string {
	if len(in.Title) > 0 {
		return joinText(in.Title)
	}
	for _, raw := range in.Properties {
		prop, ok := raw.(map[string]any)
		if !ok || prop["type"] != "title" {
			continue
		}
		parts, _ := prop["title"].([]any)
		var b strings.Builder
		for _, p := range parts {
			if m, ok := p.(map[string]any); ok {
				if s, ok := m["plain_text"].(string); ok {
					b.WriteString(s)
				}
			}
		}
		title := b.String()
		return &title
	}
	return nil
}

func joinText(parts []richText) *string {
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(p.PlainText)
	}
	s := b.String()
	return &s
}
