package firecrawl

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwiater/toolbelt/pkg/restclient"
	"github.com/mwiater/toolbelt/pkg/toolkit"
)

func TestScrapeURLDefaults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/scrape", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []any{"markdown"}, body["formats"])
		assert.Equal(t, true, body["onlyMainContent"])
		_, _ = w.Write([]byte(`{"success":true,"data":{"markdown":"# Hi","metadata":{"title":"Hi","sourceURL":"https://example.com","statusCode":200}}}`))
	}))
	defer srv.Close()

	m, err := NewToolManager(New("fc-key", restclient.WithBaseURL(srv.URL)))
	require.NoError(t, err)

	out, err := m.Execute(context.Background(), ToolScrapeURL, map[string]any{"url": "https://example.com"})
	require.NoError(t, err)
	page := out.(*Page)
	assert.Equal(t, "# Hi", *page.Markdown)
	assert.Equal(t, "Hi", *page.Title)
	assert.Equal(t, 200, *page.StatusCode)
	assert.Nil(t, page.HTML)
}

func TestUnsuccessfulEnvelopeIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"error":"URL is blocked"}`))
	}))
	defer srv.Close()

	m, err := NewToolManager(New("fc-key", restclient.WithBaseURL(srv.URL)))
	require.NoError(t, err)

	_, err = m.Execute(context.Background(), ToolCrawlURL, map[string]any{"url": "https://blocked.example"})
	require.ErrorIs(t, err, toolkit.ErrExecution)
	assert.Equal(t, "failed to start crawl: URL is blocked", err.Error())
}

func TestScrapeRejectsUnknownFormat(t *testing.T) {
	m, err := NewToolManager(New("fc-key"))
	require.NoError(t, err)
	_, err = m.Execute(context.Background(), ToolScrapeURL, map[string]any{"url": "https://x", "formats": []any{"pdf"}})
	require.ErrorIs(t, err, toolkit.ErrValidation)
}
