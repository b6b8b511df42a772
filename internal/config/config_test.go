package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every key so the host environment cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		KeyJiraBaseURL, KeyJiraAPIToken, KeyJiraHTTPTimeout, KeyJiraTokenBucket, KeyJiraTokenKey,
		KeyJiraTokenEncryptKey, KeyLogLevel, KeyLogFile, KeyTransport, KeyHTTPAddr,
		KeyAzureOpenAIKey, KeyAzureOpenAIEndpoint, KeyAzureOpenAIDeployment,
		KeySlackBotToken, KeySlackChannel,
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv(KeyJiraBaseURL, "https://jira.example.com/")
	t.Setenv(KeyJiraAPIToken, "secret")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://jira.example.com", cfg.JiraBaseURL, "trailing slash is trimmed")
	assert.Equal(t, "secret", cfg.JiraAPIToken)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, TransportStdio, cfg.Transport)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, time.Duration(0), cfg.JiraHTTPTimeout)
	assert.Equal(t, DefaultTokenKey, cfg.JiraTokenKey)
	assert.False(t, cfg.SummarizerEnabled())
	assert.False(t, cfg.NotifierEnabled())
}

func TestLoadMissingRequired(t *testing.T) {
	clearEnv(t)

	_, err := Load("")
	require.Error(t, err)

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.ElementsMatch(t, []string{KeyJiraBaseURL, KeyJiraAPIToken}, cfgErr.Missing)
	assert.Contains(t, err.Error(), "JIRA_BASE_URL")
}

func TestLoadTokenFromBucketNeedsEncryptKey(t *testing.T) {
	clearEnv(t)
	t.Setenv(KeyJiraBaseURL, "https://jira.example.com")
	t.Setenv(KeyJiraTokenBucket, "tokens")

	_, err := Load("")
	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, []string{KeyJiraTokenEncryptKey}, cfgErr.Missing)

	t.Setenv(KeyJiraTokenEncryptKey, "a2V5")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.JiraAPIToken)
	assert.Equal(t, "tokens", cfg.JiraTokenBucket)
}

func TestLoadRejectsUnknownTransport(t *testing.T) {
	clearEnv(t)
	t.Setenv(KeyJiraBaseURL, "https://jira.example.com")
	t.Setenv(KeyJiraAPIToken, "secret")
	t.Setenv(KeyTransport, "carrier-pigeon")

	_, err := Load("")
	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, cfgErr.Reason, "carrier-pigeon")
}

func TestLoadConfigFileWithEnvOverride(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "gateway.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
jira_base_url: https://file.example.com
jira_api_token: from-file
mcp_transport: http
jira_http_timeout: 15s
slack_bot_token: xoxb-1
slack_channel: C123
`), 0o600))
	t.Setenv(KeyJiraAPIToken, "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://file.example.com", cfg.JiraBaseURL)
	assert.Equal(t, "from-env", cfg.JiraAPIToken, "environment wins over the config file")
	assert.Equal(t, TransportHTTP, cfg.Transport)
	assert.Equal(t, 15*time.Second, cfg.JiraHTTPTimeout)
	assert.True(t, cfg.NotifierEnabled())
}

func TestLoadMissingConfigFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
}

func TestLoadRejectsBadTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv(KeyJiraBaseURL, "https://jira.example.com")
	t.Setenv(KeyJiraAPIToken, "secret")
	t.Setenv(KeyJiraHTTPTimeout, "soon")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), KeyJiraHTTPTimeout)
}

func TestLoadTokenStore(t *testing.T) {
	clearEnv(t)

	_, err := LoadTokenStore("")
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, []string{KeyJiraTokenBucket, KeyJiraTokenEncryptKey}, cfgErr.Missing)

	t.Setenv(KeyJiraTokenBucket, "tokens")
	t.Setenv(KeyJiraTokenEncryptKey, "a2V5")
	cfg, err := LoadTokenStore("")
	require.NoError(t, err)
	assert.Equal(t, "tokens", cfg.JiraTokenBucket)
	assert.Equal(t, DefaultTokenKey, cfg.JiraTokenKey)
}
