package mux

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwiater/toolbelt/pkg/restclient"
)

func TestCreateAsset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/video/v1/assets", r.URL.Path)
		id, secret, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "tid", id)
		assert.Equal(t, "tsecret", secret)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []any{"public"}, body["playback_policy"])
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"as_1","status":"preparing","playback_ids":[{"id":"pb_1","policy":"public"}]}}`))
	}))
	defer srv.Close()

	c, err := New("tid", "tsecret", restclient.WithBaseURL(srv.URL))
	require.NoError(t, err)
	m, err := NewToolManager(c)
	require.NoError(t, err)

	out, err := m.Execute(context.Background(), ToolCreateAsset, map[string]any{"inputUrl": "https://example.com/v.mp4"})
	require.NoError(t, err)
	asset := out.(*Asset)
	assert.Equal(t, "as_1", asset.ID)
	assert.Equal(t, []string{"pb_1"}, asset.PlaybackIDs)
	assert.Nil(t, asset.Duration)
}

func TestListAssetsDefaults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "25", r.URL.Query().Get("limit"))
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	c, err := New("tid", "tsecret", restclient.WithBaseURL(srv.URL))
	require.NoError(t, err)
	m, err := NewToolManager(c)
	require.NoError(t, err)

	out, err := m.Execute(context.Background(), ToolListAssets, map[string]any{})
	require.NoError(t, err)
	assert.Empty(t, out)
}
