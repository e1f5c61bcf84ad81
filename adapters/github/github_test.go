package github

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwiater/toolbelt/pkg/restclient"
	"github.com/mwiater/toolbelt/pkg/toolkit"
)

// mockHandler records calls and returns canned results keyed by tool name.
type mockHandler struct {
	results map[string]any
	calls   map[string][]map[string]any
}

func (m *mockHandler) Funcs() map[string]toolkit.Func {
	funcs := make(map[string]toolkit.Func, len(Definitions))
	for _, def := range Definitions {
		name := def.Name
		funcs[name] = func(_ context.Context, params map[string]any) (any, error) {
			m.calls[name] = append(m.calls[name], params)
			return m.results[name], nil
		}
	}
	return funcs
}

func newMock(results map[string]any) *mockHandler {
	return &mockHandler{results: results, calls: map[string][]map[string]any{}}
}

func TestSearchIssuesReturnsHandlerResultUnchanged(t *testing.T) {
	want := map[string]any{
		"total_count": 1,
		"items":       []any{map[string]any{"number": 7, "title": "crash on start"}},
	}
	h := newMock(map[string]any{ToolSearchIssues: want})
	m, err := NewToolManager(h)
	require.NoError(t, err)

	got, err := m.Execute(context.Background(), ToolSearchIssues, map[string]any{"query": "bug", "limit": 25})
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = m.Execute(context.Background(), ToolSearchIssues, map[string]any{"query": "bug"})
	require.NoError(t, err)
	require.Len(t, h.calls[ToolSearchIssues], 2)
	assert.Equal(t, 25, h.calls[ToolSearchIssues][1]["limit"])
}

func TestSearchIssuesRejectsMalformedLimit(t *testing.T) {
	h := newMock(nil)
	m, err := NewToolManager(h)
	require.NoError(t, err)

	_, err = m.Execute(context.Background(), ToolSearchIssues, map[string]any{"query": "bug", "limit": "not-a-number"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, toolkit.ErrValidation))
	assert.Contains(t, err.Error(), "limit")
	assert.Empty(t, h.calls)
}

func TestDefinitionsMatchClientFuncs(t *testing.T) {
	c := New("t")
	funcs := c.Funcs()
	require.Len(t, funcs, len(Definitions))
	for _, def := range Definitions {
		assert.Contains(t, funcs, def.Name)
	}
	_, err := NewToolManager(c)
	require.NoError(t, err)
}

func TestClientSearchIssuesMapsResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/issues", r.URL.Path)
		assert.Equal(t, "is:open bug", r.URL.Query().Get("q"))
		assert.Equal(t, "25", r.URL.Query().Get("per_page"))
		assert.Equal(t, "Bearer ghp_test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"total_count": 1,
			"items": []any{map[string]any{
				"number":   7,
				"title":    "crash on start",
				"state":    "open",
				"html_url": "https://github.com/o/r/issues/7",
				"user":     map[string]any{"login": "octocat"},
				"labels":   []any{map[string]any{"name": "bug"}},
			}},
		})
	}))
	defer srv.Close()

	c := New("ghp_test", restclient.WithBaseURL(srv.URL))
	m, err := NewToolManager(c)
	require.NoError(t, err)

	out, err := m.Execute(context.Background(), ToolSearchIssues, map[string]any{"query": "is:open bug"})
	require.NoError(t, err)
	res := out.(*SearchIssuesResult)
	assert.Equal(t, 1, res.TotalCount)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "octocat", res.Items[0].Author)
	assert.Equal(t, []string{"bug"}, res.Items[0].Labels)
	assert.Nil(t, res.Items[0].Body)
}

func TestClientWrapsVendorErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := New("t", restclient.WithBaseURL(srv.URL))
	m, err := NewToolManager(c)
	require.NoError(t, err)

	_, err = m.Execute(context.Background(), ToolGetRepository, map[string]any{"owner": "o", "repo": "missing"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, toolkit.ErrExecution))
	assert.Contains(t, err.Error(), "failed to get repository o/missing")
	assert.Contains(t, err.Error(), "Not Found")

	var apiErr *restclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestListIssuesSkipsPullRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/o/r/issues", r.URL.Path)
		assert.Equal(t, "open", r.URL.Query().Get("state"))
		assert.Equal(t, "bug,p1", r.URL.Query().Get("labels"))
		_, _ = w.Write([]byte(`[{"number":1,"title":"a"},{"number":2,"title":"b","pull_request":{}}]`))
	}))
	defer srv.Close()

	c := New("t", restclient.WithBaseURL(srv.URL))
	issues, err := c.ListIssues(context.Background(), ListIssuesParams{Owner: "o", Repo: "r", State: "open", Labels: []string{"bug", "p1"}, Limit: 30})
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, 1, issues[0].Number)
}
