package main

import (
	"context"
	"net/http"
	"testing"

	"jira_gateway/internal/config"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupGateway(t *testing.T) {
	t.Helper()
	t.Setenv(config.KeyJiraBaseURL, "https://jira.example.com")
	t.Setenv(config.KeyJiraAPIToken, "secret")
	t.Setenv(config.KeyJiraTokenBucket, "")
	t.Setenv(config.KeyLogLevel, "error")
	require.NoError(t, initGateway(context.Background()))
}

func Test_handleRequestHealthz(t *testing.T) {
	setupGateway(t)

	resp, err := handleRequest(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodGet,
		Path:       "/healthz",
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok","name":"jira-gateway","version":"1.0.0"}`, resp.Body)
}

func Test_handleRequestInitialize(t *testing.T) {
	setupGateway(t)

	resp, err := handleRequest(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost,
		Path:       "/mcp",
		Headers: map[string]string{
			"Content-Type": "application/json",
			"Accept":       "application/json, text/event-stream",
		},
		Body: `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"lambda-test","version":"1.0.0"}}}`,
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Body, `"name":"jira-gateway"`)
}

func Test_initGatewayRequiresConfig(t *testing.T) {
	t.Setenv(config.KeyJiraBaseURL, "")
	t.Setenv(config.KeyJiraAPIToken, "")
	t.Setenv(config.KeyJiraTokenBucket, "")

	var cfgErr *config.ConfigurationError
	assert.ErrorAs(t, initGateway(context.Background()), &cfgErr)
}
