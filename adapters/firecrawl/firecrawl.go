// adapters/firecrawl/firecrawl.go

// Package firecrawl scrapes and crawls web pages through the Firecrawl API.
package firecrawl

import (
	"context"
	"net/url"

	"github.com/pkg/errors"

	"github.com/mwiater/toolbelt/pkg/restclient"
	"github.com/mwiater/toolbelt/pkg/toolkit"
)

const DefaultBaseURL = "https://api.firecrawl.dev"

const (
	ToolScrapeURL      = "scrapeUrl"
	ToolCrawlURL       = "crawlUrl"
	ToolGetCrawlStatus = "getCrawlStatus"
)

var formatsProp = toolkit.Prop("array", "Output formats",
	toolkit.Items(toolkit.Prop("string", "", toolkit.Enum("markdown", "html", "rawHtml", "links", "screenshot"))),
	toolkit.Default([]any{"markdown"}),
)

var Definitions = []toolkit.Definition{
	{
		Name:        ToolScrapeURL,
		Description: "Scrape a single page and return its content as markdown or HTML.",
		Parameters: toolkit.Object(map[string]any{
			"url":             toolkit.Prop("string", "Page URL", toolkit.MinLength(1)),
			"formats":         formatsProp,
			"onlyMainContent": toolkit.Prop("boolean", "Strip navigation, headers, and footers", toolkit.Default(true)),
		}, "url"),
	},
	{
		Name:        ToolCrawlURL,
		Description: "Start an asynchronous crawl from a URL. Poll getCrawlStatus with the returned id.",
		Parameters: toolkit.Object(map[string]any{
			"url":      toolkit.Prop("string", "Start URL", toolkit.MinLength(1)),
			"limit":    toolkit.Prop("integer", "Maximum number of pages", toolkit.Default(10), toolkit.Minimum(1), toolkit.Maximum(1000)),
			"maxDepth": toolkit.Prop("integer", "Maximum link depth", toolkit.Minimum(0)),
		}, "url"),
	},
	{
		Name:        ToolGetCrawlStatus,
		Description: "Get progress and results of a crawl.",
		Parameters: toolkit.Object(map[string]any{
			"crawlId": toolkit.Prop("string", "Crawl id returned by crawlUrl", toolkit.MinLength(1)),
		}, "crawlId"),
	},
}

type ScrapeURLParams struct {
	URL             string   `json:"url"`
	Formats         []string `json:"formats"`
	OnlyMainContent bool     `json:"onlyMainContent"`
}

type CrawlURLParams struct {
	URL      string `json:"url"`
	Limit    int    `json:"limit"`
	MaxDepth *int   `json:"maxDepth,omitempty"`
}

type CrawlStatusParams struct {
	CrawlID string `json:"crawlId"`
}

type Page struct {
	URL        *string        `json:"url,omitempty"`
	Title      *string        `json:"title,omitempty"`
	StatusCode *int           `json:"statusCode,omitempty"`
	Markdown   *string        `json:"markdown,omitempty"`
	HTML       *string        `json:"html,omitempty"`
	Links      []string       `json:"links,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

type CrawlJob struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type CrawlStatus struct {
	Status    string  `json:"status"`
	Total     int     `json:"total"`
	Completed int     `json:"completed"`
	Pages     []Page  `json:"pages"`
	Next      *string `json:"next,omitempty"`
}

type apiPage struct {
	Markdown *string        `json:"markdown"`
	HTML     *string        `json:"html"`
	Links    []string       `json:"links"`
	Metadata map[string]any `json:"metadata"`
}

func (p apiPage) toPage() Page {
	page := Page{Markdown: p.Markdown, HTML: p.HTML, Links: p.Links, Metadata: p.Metadata}
	if s, ok := p.Metadata["sourceURL"].(string); ok {
		page.URL = &s
	}
	if s, ok := p.Metadata["title"].(string); ok {
		page.Title = &s
	}
	if n, ok := p.Metadata["statusCode"].(float64); ok {
		code := int(n)
		page.StatusCode = &code
	}
	return page
}

type Client struct {
	rest *restclient.Client
}

func New(apiKey string, opts ...restclient.Option) *Client {
	base := []restclient.Option{restclient.WithAuth(restclient.BearerToken(apiKey))}
	return &Client{rest: restclient.New(DefaultBaseURL, append(base, opts...)...)}
}

func NewToolManager(h toolkit.Handler) (*toolkit.Manager, error) {
	return toolkit.NewManagerFromDefinitions(Definitions, h)
}

func (c *Client) Funcs() map[string]toolkit.Func {
	return map[string]toolkit.Func{
		ToolScrapeURL:      toolkit.Bind(c.ScrapeURL),
		ToolCrawlURL:       toolkit.Bind(c.CrawlURL),
		ToolGetCrawlStatus: toolkit.Bind(c.GetCrawlStatus),
	}
}

// firecrawl answers 200 with success=false for some failures
type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (e envelope) err() error {
	if e.Success {
		return nil
	}
	if e.Error == "" {
		return errors.New("request was not successful")
	}
	return errors.New(e.Error)
}

func (c *Client) ScrapeURL(ctx context.Context, p ScrapeURLParams) (*Page, error) {
	body := map[string]any{"url": p.URL, "formats": p.Formats, "onlyMainContent": p.OnlyMainContent}
	var resp struct {
		envelope
		Data apiPage `json:"data"`
	}
	if err := c.rest.PostJSON(ctx, "/v1/scrape", body, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to scrape url")
	}
	if err := resp.err(); err != nil {
		return nil, errors.Wrap(err, "failed to scrape url")
	}
	page := resp.Data.toPage()
	return &page, nil
}

func (c *Client) CrawlURL(ctx context.Context, p CrawlURLParams) (*CrawlJob, error) {
	body := map[string]any{"url": p.URL, "limit": p.Limit}
	if p.MaxDepth != nil {
		body["maxDepth"] = *p.MaxDepth
	}
	var resp struct {
		envelope
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := c.rest.PostJSON(ctx, "/v1/crawl", body, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to start crawl")
	}
	if err := resp.err(); err != nil {
		return nil, errors.Wrap(err, "failed to start crawl")
	}
	return &CrawlJob{ID: resp.ID, URL: resp.URL}, nil
}

func (c *Client) GetCrawlStatus(ctx context.Context, p CrawlStatusParams) (*CrawlStatus, error) {
	var resp struct {
		Status    string    `json:"status"`
		Total     int       `json:"total"`
		Completed int       `json:"completed"`
		Next      *string   `json:"next"`
		Data      []apiPage `json:"data"`
	}
	if err := c.rest.Get(ctx, "/v1/crawl/"+url.PathEscape(p.CrawlID), nil, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to get crawl status")
	}
	out := &CrawlStatus{
		Status:    resp.Status,
		Total:     resp.Total,
		Completed: resp.Completed,
		Next:      resp.Next,
		Pages:     make([]Page, 0, len(resp.Data)),
	}
	for _, d := range resp.Data {
		out.Pages = append(out.Pages, d.toPage())
	}
	return out, nil
}
