// adapters/mux/mux.go

// Package mux manages Mux Video assets.
package mux

import (
	"context"
	"net/url"
	"strconv"

	"github.com/pkg/errors"

	"github.com/mwiater/toolbelt/pkg/restclient"
	"github.com/mwiater/toolbelt/pkg/toolkit"
)

const DefaultBaseURL = "https://api.mux.com"

const (
	ToolListAssets  = "listAssets"
	ToolGetAsset    = "getAsset"
	ToolCreateAsset = "createAsset"
)

var Definitions = []toolkit.Definition{
	{
		Name:        ToolListAssets,
		Description: "List video assets, newest first.",
		Parameters: toolkit.Object(map[string]any{
			"limit": toolkit.Prop("integer", "Number of assets", toolkit.Default(25), toolkit.Minimum(1), toolkit.Maximum(100)),
			"page":  toolkit.Prop("integer", "Page number, starting at 1", toolkit.Default(1), toolkit.Minimum(1)),
		}),
	},
	{
		Name:        ToolGetAsset,
		Description: "Get a video asset by id.",
		Parameters: toolkit.Object(map[string]any{
			"assetId": toolkit.Prop("string", "Asset id", toolkit.MinLength(1)),
		}, "assetId"),
	},
	{
		Name:        ToolCreateAsset,
		Description: "Create an asset by ingesting a video from a public URL.",
		Parameters: toolkit.Object(map[string]any{
			"inputUrl":       toolkit.Prop("string", "URL of the source video", toolkit.MinLength(1)),
			"playbackPolicy": toolkit.Prop("string", "Playback policy", toolkit.Enum("public", "signed"), toolkit.Default("public")),
			"passthrough":    toolkit.Prop("string", "Arbitrary string stored on the asset"),
		}, "inputUrl"),
	},
}

type ListAssetsParams struct {
	Limit int `json:"limit"`
	Page  int `json:"page"`
}

type GetAssetParams struct {
	AssetID string `json:"assetId"`
}

type CreateAssetParams struct {
	InputURL       string `json:"inputUrl"`
	PlaybackPolicy string `json:"playbackPolicy"`
	Passthrough    string `json:"passthrough,omitempty"`
}

type Asset struct {
	ID          string   `json:"id"`
	Status      string   `json:"status"`
	Duration    *float64 `json:"duration,omitempty"`
	AspectRatio *string  `json:"aspectRatio,omitempty"`
	PlaybackIDs []string `json:"playbackIds"`
	Passthrough *string  `json:"passthrough,omitempty"`
	CreatedAt   string   `json:"createdAt"`
}

type apiAsset struct {
	ID          string   `json:"id"`
	Status      string   `json:"status"`
	Duration    *float64 `json:"duration"`
	AspectRatio *string  `json:"aspect_ratio"`
	Passthrough *string  `json:"passthrough"`
	CreatedAt   string   `json:"created_at"`
	PlaybackIDs []struct {
		ID     string `json:"id"`
		Policy string `json:"policy"`
	} `json:"playback_ids"`
}

func (a apiAsset) toAsset() Asset {
	ids := make([]string, 0, len(a.PlaybackIDs))
	for _, p := range a.PlaybackIDs {
		ids = append(ids, p.ID)
	}
	return Asset{
		ID:          a.ID,
		Status:      a.Status,
		Duration:    a.Duration,
		AspectRatio: a.AspectRatio,
		PlaybackIDs: ids,
		Passthrough: a.Passthrough,
		CreatedAt:   a.CreatedAt,
	}
}

type Client struct {
	rest *restclient.Client
}

// New authenticates with an access token id and secret pair.
func New(tokenID, tokenSecret string, opts ...restclient.Option) (*Client, error) {
	if tokenID == "" || tokenSecret == "" {
		return nil, errors.New("mux: token id and secret are required")
	}
	base := []restclient.Option{restclient.WithAuth(restclient.BasicAuth{Username: tokenID, Password: tokenSecret})}
	return &Client{rest: restclient.New(DefaultBaseURL, append(base, opts...)...)}, nil
}

func NewToolManager(h toolkit.Handler) (*toolkit.Manager, error) {
	return toolkit.NewManagerFromDefinitions(Definitions, h)
}

func (c *Client) Funcs() map[string]toolkit.Func {
	return map[string]toolkit.Func{
		ToolListAssets:  toolkit.Bind(c.ListAssets),
		ToolGetAsset:    toolkit.Bind(c.GetAsset),
		ToolCreateAsset: toolkit.Bind(c.CreateAsset),
	}
}

func (c *Client) ListAssets(ctx context.Context, p ListAssetsParams) ([]Asset, error) {
	q := url.Values{"limit": {strconv.Itoa(p.Limit)}, "page": {strconv.Itoa(p.Page)}}
	var resp struct {
		Data []apiAsset `json:"data"`
	}
	if err := c.rest.Get(ctx, "/video/v1/assets", q, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to list assets")
	}
	out := make([]Asset, 0, len(resp.Data))
	for _, a := range resp.Data {
		out = append(out, a.toAsset())
	}
	return out, nil
}

func (c *Client) GetAsset(ctx context.Context, p GetAssetParams) (*Asset, error) {
	var resp struct {
		Data apiAsset `json:"data"`
	}
	if err := c.rest.Get(ctx, "/video/v1/assets/"+url.PathEscape(p.AssetID), nil, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to get asset")
	}
	asset := resp.Data.toAsset()
	return &asset, nil
}

func (c *Client) CreateAsset(ctx context.Context, p CreateAssetParams) (*Asset, error) {
	body := map[string]any{
		"input":           []any{map[string]any{"url": p.InputURL}},
		"playback_policy": []string{p.PlaybackPolicy},
	}
	if p.Passthrough != "" {
		body["passthrough"] = p.Passthrough
	}
	var resp struct {
		Data apiAsset `json:"data"`
	}
	if err := c.rest.PostJSON(ctx, "/video/v1/assets", body, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to create asset")
	}
	asset := resp.Data.toAsset()
	return &asset, nil
}
