package notifier

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyPostsMessage(t *testing.T) {
	var form map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat.postMessage", r.URL.Path)
		require.NoError(t, r.ParseForm())
		form = map[string]string{
			"channel": r.PostForm.Get("channel"),
			"text":    r.PostForm.Get("text"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"channel":"C123","ts":"1700000000.000100"}`))
	}))
	defer server.Close()

	n := NewSlackNotifier("xoxb-test", "#jira-changes", nil, slack.OptionAPIURL(server.URL+"/"))
	require.NoError(t, n.Notify(context.Background(), "Updated issue PROJ-1"))

	assert.Equal(t, "#jira-changes", form["channel"])
	assert.Equal(t, "Updated issue PROJ-1", form["text"])
}

func TestNotifyReturnsSlackError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":false,"error":"channel_not_found"}`))
	}))
	defer server.Close()

	n := NewSlackNotifier("xoxb-test", "#missing", nil, slack.OptionAPIURL(server.URL+"/"))
	err := n.Notify(context.Background(), "x")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "channel_not_found")
	assert.Contains(t, err.Error(), "#missing")
}
