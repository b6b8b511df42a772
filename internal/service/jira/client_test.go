package jira

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// newTestClient creates a Client backed by the given httptest.Server.
func newTestClient(t *testing.T, server *httptest.Server) (*Client, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	client, err := NewClient(Config{
		BaseURL:    server.URL + "/",
		Token:      "test-token",
		HTTPClient: server.Client(),
		Logger:     zap.New(core),
	})
	require.NoError(t, err)
	return client, logs
}

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := NewClient(Config{Token: "x"})
	assert.Error(t, err)
	_, err = NewClient(Config{BaseURL: "https://jira.example.com"})
	assert.Error(t, err)
}

func TestExecuteBuildsURLAndHeaders(t *testing.T) {
	var got *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"key":"PROJ-1"}`))
	}))
	defer server.Close()

	client, logs := newTestClient(t, server)
	out, err := client.Execute(context.Background(), http.MethodGet, "issue/PROJ-1", nil)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"key": "PROJ-1"}, out)
	assert.Equal(t, "/rest/api/2/issue/PROJ-1", got.URL.Path)
	assert.Equal(t, "Bearer test-token", got.Header.Get("Authorization"))
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
	assert.Equal(t, "application/json", got.Header.Get("Accept"))

	assert.Equal(t, 1, logs.FilterMessage("jira request").Len())
	responses := logs.FilterMessage("jira response").All()
	require.Len(t, responses, 1)
	assert.EqualValues(t, http.StatusOK, responses[0].ContextMap()["status"])
}

func TestExecuteSendsJSONBody(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client, _ := newTestClient(t, server)
	out, err := client.Execute(context.Background(), http.MethodPut, "issue/PROJ-1", map[string]any{"fields": map[string]any{"summary": "x"}})
	require.NoError(t, err)
	assert.Nil(t, out, "204 has no body")
	assert.Equal(t, map[string]any{"fields": map[string]any{"summary": "x"}}, body)
}

func TestExecuteClassifiesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"errorMessages":["Issue does not exist"]}`))
	}))
	defer server.Close()

	client, logs := newTestClient(t, server)
	_, err := client.Execute(context.Background(), http.MethodGet, "issue/NOPE-1", nil)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "404 Not Found", apiErr.Status)
	assert.Contains(t, apiErr.Body, "Issue does not exist")
	assert.True(t, IsNotFound(err))
	assert.Equal(t, `Jira API error: 404 Not Found: {"errorMessages":["Issue does not exist"]}`, err.Error())

	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}

func TestExecuteClassifiesTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client, logs := newTestClient(t, server)
	server.Close()

	_, err := client.Execute(context.Background(), http.MethodGet, "issue/PROJ-1", nil)
	require.Error(t, err)

	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, http.MethodGet, transportErr.Method)
	assert.Contains(t, err.Error(), "request to Jira failed: GET ")
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}

func TestExecuteRejectsMalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>login</html>`))
	}))
	defer server.Close()

	client, _ := newTestClient(t, server)
	_, err := client.Execute(context.Background(), http.MethodGet, "project", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode GET project")
}

func TestExecuteMakesSingleAttempt(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client, _ := newTestClient(t, server)
	_, err := client.Execute(context.Background(), http.MethodGet, "project", nil)
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}
