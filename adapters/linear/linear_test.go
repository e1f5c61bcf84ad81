package linear

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

func graphqlServer(t *testing.T, respond func(vars map[string]any) string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/graphql", r.URL.Path)
		assert.Equal(t, "lin_api_key", r.Header.Get("Authorization"))
		var body struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = w.Write([]byte(respond(body.Variables)))
	}))
}

func TestListTeamsUsesDefaultPageSize(t *testing.T) {
	srv := graphqlServer(t, func(vars map[string]any) string {
		assert.Equal(t, float64(50), vars["first"])
		return `{"data":{"teams":{"nodes":[{"id":"t1","key":"ENG","name":"Engineering"}]}}}`
	})
	defer srv.Close()

	m, err := NewToolManager(New("lin_api_key", restclient.WithBaseURL(srv.URL)))
	require.NoError(t, err)

	out, err := m.Execute(context.Background(), ToolListTeams, map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, []Team{{ID: "t1", Key: "ENG", Name: "Engineering"}}, out)
}

func TestGraphQLErrorsBecomeExecutionErrors(t *testing.T) {
	srv := graphqlServer(t, func(map[string]any) string {
		return `{"data":null,"errors":[{"message":"Entity not found"}]}`
	})
	defer srv.Close()

	m, err := NewToolManager(New("lin_api_key", restclient.WithBaseURL(srv.URL)))
	require.NoError(t, err)

	_, err = m.Execute(context.Background(), ToolGetIssue, map[string]any{"id": "ENG-1"})
	require.ErrorIs(t, err, toolkit.ErrExecution)
	assert.Equal(t, "failed to get issue: Entity not found", err.Error())
}

func TestCreateIssueMapsNestedFields(t *testing.T) {
	srv := graphqlServer(t, func(vars map[string]any) string {
		input := vars["input"].(map[string]any)
		assert.Equal(t, "t1", input["teamId"])
		assert.Equal(t, float64(2), input["priority"])
		return `{"data":{"issueCreate":{"success":true,"issue":{"id":"i1","identifier":"ENG-9","title":"x","priority":2,"state":{"name":"Todo"},"team":{"key":"ENG"}}}}}`
	})
	defer srv.Close()

	c := New("lin_api_key", restclient.WithBaseURL(srv.URL))
	two := 2
	issue, err := c.CreateIssue(context.Background(), CreateIssueParams{TeamID: "t1", Title: "x", Priority: &two})
	require.NoError(t, err)
	assert.Equal(t, "ENG-9", issue.Identifier)
	require.NotNil(t, issue.State)
	assert.Equal(t, "Todo", *issue.State)
	assert.Nil(t, issue.Assignee)
}
