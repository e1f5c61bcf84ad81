// adapters/supabase/supabase.go

// Package supabase reads and writes table rows through PostgREST and lists
// storage buckets.
package supabase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/mwiater/toolbelt/pkg/restclient"
	"github.com/mwiater/toolbelt/pkg/toolkit"
)

const (
	ToolSelectRows  = "selectRows"
	ToolInsertRows  = "insertRows"
	ToolListBuckets = "listBuckets"
)

var Definitions = []toolkit.Definition{
	{
		Name:        ToolSelectRows,
		Description: "Select rows from a table. Filters use PostgREST operators, e.g. {\"status\": \"eq.active\"}.",
		Parameters: toolkit.Object(map[string]any{
			"table":   toolkit.Prop("string", "Table or view name", toolkit.MinLength(1)),
			"columns": toolkit.Prop("string", "Comma-separated columns to return", toolkit.Default("*")),
			"filters": toolkit.Prop("object", "Column to PostgREST filter expression", toolkit.Values(toolkit.Prop("string", ""))),
			"order":   toolkit.Prop("string", "Order clause, e.g. created_at.desc"),
			"limit":   toolkit.Prop("integer", "Maximum number of rows", toolkit.Default(100), toolkit.Minimum(1), toolkit.Maximum(1000)),
		}, "table"),
	},
	{
		Name:        ToolInsertRows,
		Description: "Insert one or more rows into a table and return them.",
		Parameters: toolkit.Object(map[string]any{
			"table": toolkit.Prop("string", "Table name", toolkit.MinLength(1)),
			"rows":  toolkit.Prop("array", "Rows to insert", toolkit.Items(toolkit.Prop("object", ""))),
		}, "table", "rows"),
	},
	{
		Name:        ToolListBuckets,
		Description: "List storage buckets.",
		Parameters:  toolkit.Object(map[string]any{}),
	},
}

type SelectRowsParams struct {
	Table   string            `json:"table"`
	Columns string            `json:"columns"`
	Filters map[string]string `json:"filters,omitempty"`
	Order   string            `json:"order,omitempty"`
	Limit   int               `json:"limit"`
}

type InsertRowsParams struct {
	Table string           `json:"table"`
	Rows  []map[string]any `json:"rows"`
}

type ListBucketsParams struct{}

type Bucket struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Public    bool   `json:"public"`
	CreatedAt string `json:"createdAt"`
}

type apiBucket struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Public    bool   `json:"public"`
	CreatedAt string `json:"created_at"`
}

type Client struct {
	rest *restclient.Client
}

// New validates projectURL (https://<ref>.supabase.co) and returns a Client
// using the anon key for both the apikey header and the bearer token.
func New(projectURL, anonKey string, opts ...restclient.Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(projectURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("supabase: invalid project url %q", projectURL)
	}
	if anonKey == "" {
		return nil, errors.New("supabase: anon key is required")
	}
	base := []restclient.Option{
		restclient.WithAuth(restclient.BearerToken(anonKey)),
		restclient.WithHeader("apikey", anonKey),
	}
	return &Client{rest: restclient.New(u.String(), append(base, opts...)...)}, nil
}

func NewToolManager(h toolkit.Handler) (*toolkit.Manager, error) {
	return toolkit.NewManagerFromDefinitions(Definitions, h)
}

func (c *Client) Funcs() map[string]toolkit.Func {
	return map[string]toolkit.Func{
		ToolSelectRows:  toolkit.Bind(c.SelectRows),
		ToolInsertRows:  toolkit.Bind(c.InsertRows),
		ToolListBuckets: toolkit.Bind(c.ListBuckets),
	}
}

func (c *Client) SelectRows(ctx context.Context, p SelectRowsParams) ([]map[string]any, error) {
	q := url.Values{"select": {p.Columns}, "limit": {strconv.Itoa(p.Limit)}}
	for col, expr := range p.Filters {
		q.Set(col, expr)
	}
	if p.Order != "" {
		q.Set("order", p.Order)
	}
	rows := []map[string]any{}
	if err := c.rest.Get(ctx, "/rest/v1/"+url.PathEscape(p.Table), q, &rows); err != nil {
		return nil, errors.Wrapf(err, "failed to select rows from %s", p.Table)
	}
	return rows, nil
}

func (c *Client) InsertRows(ctx context.Context, p InsertRowsParams) ([]map[string]any, error) {
	if len(p.Rows) == 0 {
		return []map[string]any{}, nil
	}
	rows := []map[string]any{}
	req := restclient.Request{
		Method:  http.MethodPost,
		Path:    "/rest/v1/" + url.PathEscape(p.Table),
		JSON:    p.Rows,
		Headers: map[string]string{"Prefer": "return=representation"},
	}
	if err := c.rest.Do(ctx, req, &rows); err != nil {
		return nil, errors.Wrapf(err, "failed to insert rows into %s", p.Table)
	}
	return rows, nil
}

func (c *Client) ListBuckets(ctx context.Context, _ ListBucketsParams) ([]Bucket, error) {
	var resp []apiBucket
	if err := c.rest.Get(ctx, "/storage/v1/bucket", nil, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to list buckets")
	}
	out := make([]Bucket, 0, len(resp))
	for _, b := range resp {
		out = append(out, Bucket{ID: b.ID, Name: b.Name, Public: b.Public, CreatedAt: b.CreatedAt})
	}
	return out, nil
}
