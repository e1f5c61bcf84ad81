package twilio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwiater/toolbelt/pkg/restclient"
)

func TestNewRequiresCredentials(t *testing.T) {
	_, err := New("", "token")
	require.Error(t, err)
	_, err = New("AC1", "")
	require.Error(t, err)
}

func TestSendSms(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Accounts/AC1/Messages.json", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "AC1", user)
		assert.Equal(t, "tok", pass)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "+15550001111", r.PostForm.Get("To"))
		assert.Equal(t, "hi", r.PostForm.Get("Body"))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"SM1","to":"+15550001111","from":"+15550002222","body":"hi","status":"queued","price":null}`))
	}))
	defer srv.Close()

	c, err := New("AC1", "tok", restclient.WithBaseURL(srv.URL))
	require.NoError(t, err)
	m, err := NewToolManager(c)
	require.NoError(t, err)

	out, err := m.Execute(context.Background(), ToolSendSms, map[string]any{
		"to": "+15550001111", "from": "+15550002222", "body": "hi",
	})
	require.NoError(t, err)
	msg := out.(*Message)
	assert.Equal(t, "SM1", msg.SID)
	assert.Equal(t, "queued", msg.Status)
	assert.Nil(t, msg.Price)
}

func TestSendSmsMissingBodyNeverCallsAPI(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { calls++ }))
	defer srv.Close()

	c, err := New("AC1", "tok", restclient.WithBaseURL(srv.URL))
	require.NoError(t, err)
	m, err := NewToolManager(c)
	require.NoError(t, err)

	_, err = m.Execute(context.Background(), ToolSendSms, map[string]any{"to": "+1", "from": "+2"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "body")
	assert.Zero(t, calls)
}
