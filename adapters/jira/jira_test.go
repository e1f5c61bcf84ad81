package jira

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidatesInputs(t *testing.T) {
	_, err := New("", "me@example.com", "tok")
	require.Error(t, err)
	_, err = New("https://acme.atlassian.net", "", "tok")
	require.Error(t, err)
}

func TestSearchIssues(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/api/3/search", r.URL.Path)
		assert.Equal(t, "project = OPS", r.URL.Query().Get("jql"))
		assert.Equal(t, "25", r.URL.Query().Get("maxResults"))
		user, _, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "me@example.com", user)
		_, _ = w.Write([]byte(`{"total":1,"issues":[{"id":"100","key":"OPS-1","fields":{"summary":"disk full","status":{"name":"Open"},"assignee":null}}]}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL+"/", "me@example.com", "tok")
	require.NoError(t, err)
	m, err := NewToolManager(c)
	require.NoError(t, err)

	out, err := m.Execute(context.Background(), ToolSearchIssues, map[string]any{"jql": "project = OPS"})
	require.NoError(t, err)
	res := out.(*SearchResult)
	require.Len(t, res.Issues, 1)
	issue := res.Issues[0]
	assert.Equal(t, "OPS-1", issue.Key)
	assert.Equal(t, srv.URL+"/browse/OPS-1", issue.URL)
	assert.Equal(t, "Open", *issue.Status)
	assert.Nil(t, issue.Assignee)
}

func TestCreateIssueSendsADF(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Fields map[string]any `json:"fields"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"name": "Task"}, body.Fields["issuetype"])
		desc := body.Fields["description"].(map[string]any)
		assert.Equal(t, "doc", desc["type"])
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"101","key":"OPS-2"}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL, "me@example.com", "tok")
	require.NoError(t, err)
	m, err := NewToolManager(c)
	require.NoError(t, err)

	out, err := m.Execute(context.Background(), ToolCreateIssue, map[string]any{
		"projectKey": "OPS", "summary": "rotate keys", "description": "quarterly",
	})
	require.NoError(t, err)
	assert.Equal(t, "OPS-2", out.(*Issue).Key)
}
