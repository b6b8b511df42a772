package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Transport selects how the MCP server is exposed.
type Transport string

const (
	TransportStdio Transport = "stdio"
	TransportHTTP  Transport = "http"
)

// Keys are the canonical environment variable names. Config files use the
// same names in lower case.
const (
	KeyJiraBaseURL         = "JIRA_BASE_URL"
	KeyJiraAPIToken        = "JIRA_API_TOKEN"
	KeyJiraHTTPTimeout     = "JIRA_HTTP_TIMEOUT"
	KeyJiraTokenBucket     = "JIRA_TOKEN_BUCKET"
	KeyJiraTokenKey        = "JIRA_TOKEN_KEY"
	KeyJiraTokenEncryptKey = "JIRA_TOKEN_ENCRYPT_KEY"

	KeyLogLevel = "LOG_LEVEL"
	KeyLogFile  = "LOG_FILE"

	KeyTransport = "MCP_TRANSPORT"
	KeyHTTPAddr  = "MCP_HTTP_ADDR"

	KeyAzureOpenAIKey        = "AZURE_OPENAI_KEY"
	KeyAzureOpenAIEndpoint   = "AZURE_OPENAI_ENDPOINT"
	KeyAzureOpenAIDeployment = "AZURE_OPENAI_DEPLOYMENT"

	KeySlackBotToken = "SLACK_BOT_TOKEN"
	KeySlackChannel  = "SLACK_CHANNEL"
)

// DefaultTokenKey is the credential store entry read when JIRA_TOKEN_KEY is unset.
const DefaultTokenKey = "default"

// Config holds all configuration for the application
type Config struct {
	// Jira configuration
	JiraBaseURL     string        // Required: root URL of the Jira instance
	JiraAPIToken    string        // Required unless JiraTokenBucket is set
	JiraHTTPTimeout time.Duration // 0 leaves upstream calls unbounded

	// S3 configuration for the encrypted token store
	JiraTokenBucket     string
	JiraTokenKey        string
	JiraTokenEncryptKey string // base64 encoded 32-byte AES key

	// Log configuration
	LogLevel string
	LogFile  string

	// Transport configuration
	Transport Transport
	HTTPAddr  string

	// Azure OpenAI configuration, all three enable summarize_issue
	AzureOpenAIKey        string
	AzureOpenAIEndpoint   string
	AzureOpenAIDeployment string

	// Slack configuration, both enable change notifications
	SlackBotToken string
	SlackChannel  string
}

// ConfigurationError reports required values missing at startup.
type ConfigurationError struct {
	Missing []string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("missing required configuration: %s", strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("invalid configuration: %s", e.Reason)
}

// Load creates a new Config from environment variables layered over the
// optional YAML file at path.
func Load(path string) (*Config, error) {
	cfg, err := read(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadTokenStore reads the same sources as Load but only requires the
// credential store settings.
func LoadTokenStore(path string) (*Config, error) {
	cfg, err := read(path)
	if err != nil {
		return nil, err
	}
	var missingVars []string
	if cfg.JiraTokenBucket == "" {
		missingVars = append(missingVars, KeyJiraTokenBucket)
	}
	if cfg.JiraTokenEncryptKey == "" {
		missingVars = append(missingVars, KeyJiraTokenEncryptKey)
	}
	if len(missingVars) > 0 {
		return nil, &ConfigurationError{Missing: missingVars}
	}
	return cfg, nil
}

func read(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)
	v.AutomaticEnv()

	if err := mergeConfigFile(v, path); err != nil {
		return nil, err
	}

	timeout, err := parseDuration(v.GetString(KeyJiraHTTPTimeout))
	if err != nil {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("%s: %v", KeyJiraHTTPTimeout, err)}
	}

	cfg := &Config{
		JiraBaseURL:           strings.TrimRight(strings.TrimSpace(v.GetString(KeyJiraBaseURL)), "/"),
		JiraAPIToken:          strings.TrimSpace(v.GetString(KeyJiraAPIToken)),
		JiraHTTPTimeout:       timeout,
		JiraTokenBucket:       v.GetString(KeyJiraTokenBucket),
		JiraTokenKey:          v.GetString(KeyJiraTokenKey),
		JiraTokenEncryptKey:   v.GetString(KeyJiraTokenEncryptKey),
		LogLevel:              v.GetString(KeyLogLevel),
		LogFile:               v.GetString(KeyLogFile),
		Transport:             Transport(strings.ToLower(v.GetString(KeyTransport))),
		HTTPAddr:              v.GetString(KeyHTTPAddr),
		AzureOpenAIKey:        v.GetString(KeyAzureOpenAIKey),
		AzureOpenAIEndpoint:   v.GetString(KeyAzureOpenAIEndpoint),
		AzureOpenAIDeployment: v.GetString(KeyAzureOpenAIDeployment),
		SlackBotToken:         v.GetString(KeySlackBotToken),
		SlackChannel:          v.GetString(KeySlackChannel),
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var missingVars []string
	if c.JiraBaseURL == "" {
		missingVars = append(missingVars, KeyJiraBaseURL)
	}
	if c.JiraAPIToken == "" && c.JiraTokenBucket == "" {
		missingVars = append(missingVars, KeyJiraAPIToken)
	}
	if c.JiraTokenBucket != "" && c.JiraTokenEncryptKey == "" {
		missingVars = append(missingVars, KeyJiraTokenEncryptKey)
	}
	if len(missingVars) > 0 {
		return &ConfigurationError{Missing: missingVars}
	}

	switch c.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return &ConfigurationError{Reason: fmt.Sprintf("%s must be %q or %q, got %q", KeyTransport, TransportStdio, TransportHTTP, c.Transport)}
	}
	return nil
}

// SummarizerEnabled reports whether the Azure OpenAI settings are complete.
func (c *Config) SummarizerEnabled() bool {
	return c.AzureOpenAIKey != "" && c.AzureOpenAIEndpoint != "" && c.AzureOpenAIDeployment != ""
}

// NotifierEnabled reports whether Slack notifications are configured.
func (c *Config) NotifierEnabled() bool {
	return c.SlackBotToken != "" && c.SlackChannel != ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyLogLevel, "debug")
	v.SetDefault(KeyTransport, string(TransportStdio))
	v.SetDefault(KeyHTTPAddr, ":8080")
	v.SetDefault(KeyJiraHTTPTimeout, "0s")
	v.SetDefault(KeyJiraTokenKey, DefaultTokenKey)
}

func mergeConfigFile(v *viper.Viper, path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &ConfigurationError{Reason: fmt.Sprintf("config file %s does not exist", path)}
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := v.MergeConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("must not be negative")
	}
	return d, nil
}
