package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/ai/azopenai"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewTLSServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, "test-key", "gpt-test", &azopenai.ClientOptions{
		ClientOptions: policy.ClientOptions{
			Transport: server.Client(),
			Retry:     policy.RetryOptions{MaxRetries: -1},
		},
	})
	require.NoError(t, err)
	return client
}

func TestSummarize(t *testing.T) {
	var body map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/openai/deployments/gpt-test/chat/completions"), r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("api-key"))
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"1","created":0,"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"  Login is broken for SSO users.  "}}]}`))
	})

	summary, err := client.Summarize(context.Background(), "PROJ-1", map[string]any{"key": "PROJ-1"})
	require.NoError(t, err)
	assert.Equal(t, "Login is broken for SSO users.", summary)

	messages := body["messages"].([]any)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
	assert.Contains(t, messages[1].(map[string]any)["content"], `{"key":"PROJ-1"}`)
}

func TestSummarizeEmptyChoice(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"1","created":0,"choices":[]}`))
	})

	_, err := client.Summarize(context.Background(), "PROJ-1", map[string]any{})
	assert.EqualError(t, err, "no summary returned for PROJ-1")
}

func TestSummarizeUpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"code":"401","message":"Access denied"}}`))
	})

	_, err := client.Summarize(context.Background(), "PROJ-1", map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get chat completion")
}
