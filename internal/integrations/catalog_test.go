package integrations

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwiater/toolbelt/pkg/restclient"
)

// fullEnv satisfies every required key in the catalog.
func fullEnv() map[string]string {
	env := map[string]string{}
	for _, d := range Catalog() {
		for _, k := range d.RequiredKeys() {
			env[k.Name] = "value"
		}
	}
	env["SUPABASE_URL"] = "https://project.supabase.co"
	env["JIRA_BASE_URL"] = "https://acme.atlassian.net"
	return env
}

func TestCatalogNamesAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, d := range Catalog() {
		assert.False(t, seen[d.Name], d.Name)
		seen[d.Name] = true
		assert.NotEmpty(t, d.RequiredKeys(), d.Name)
		assert.NotEmpty(t, d.Definitions, d.Name)
	}
	assert.Len(t, seen, 12)
}

func TestEveryIntegrationLoadsWithFullEnv(t *testing.T) {
	reg, err := Load(context.Background(), LoadOptions{Lookup: MapLookup(fullEnv())})
	require.NoError(t, err)
	assert.Equal(t, len(Catalog()), reg.Len())
	assert.Empty(t, reg.Failures())

	for _, d := range Catalog() {
		m, ok := reg.Manager(d.Name)
		require.True(t, ok, d.Name)
		assert.Len(t, m.Names(), len(d.Definitions), d.Name)
	}
}

func TestToolsAndDescriptionsShareKeys(t *testing.T) {
	reg, err := Load(context.Background(), LoadOptions{Lookup: MapLookup(fullEnv())})
	require.NoError(t, err)

	for _, name := range reg.Integrations() {
		d, _ := reg.Descriptor(name)
		m, _ := reg.Manager(name)
		var toolKeys, descKeys []string
		for k := range d.Tools(m) {
			toolKeys = append(toolKeys, k)
		}
		for k := range d.ToolDescriptions() {
			descKeys = append(descKeys, k)
		}
		sort.Strings(toolKeys)
		sort.Strings(descKeys)
		assert.Equal(t, toolKeys, descKeys, name)
	}
}

func TestRegistryToolCallsGoThroughManager(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/issues", r.URL.Path)
		_, _ = w.Write([]byte(`{"total_count":0,"items":[]}`))
	}))
	defer srv.Close()

	reg, err := Load(context.Background(), LoadOptions{
		Only:          []string{"github"},
		Lookup:        MapLookup(map[string]string{"GITHUB_TOKEN": "t"}),
		ClientOptions: []restclient.Option{restclient.WithBaseURL(srv.URL)},
	})
	require.NoError(t, err)

	tool, ok := reg.Tool("github_searchIssues")
	require.True(t, ok)
	assert.Equal(t, "github", tool.Integration)
	assert.Equal(t, "searchIssues", tool.Name)
	assert.Equal(t, "GitHub: searchIssues", tool.Title)

	_, err = tool.Call(context.Background(), map[string]any{"query": "bug"})
	require.NoError(t, err)

	_, err = tool.Call(context.Background(), map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query")

	_, ok = reg.Tool("github_deleteRepo")
	assert.False(t, ok)
}
