package app

import (
	"context"
	"fmt"

	"jira_gateway/internal/config"
	"jira_gateway/internal/handler"
	mcpserver "jira_gateway/internal/service/mcp-server"
	"jira_gateway/internal/service/jira"
	"jira_gateway/internal/service/notifier"
	"jira_gateway/internal/service/openai"
	"jira_gateway/internal/storage"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// App is the wired gateway.
type App struct {
	Config     *config.Config
	Dispatcher *handler.Dispatcher
	MCPServer  *server.MCPServer
}

// New wires the gateway from cfg. When no API token is configured it is read
// once from the S3 credential store.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	var tokens storage.TokenStore
	if cfg.JiraAPIToken == "" {
		store, err := storage.NewS3TokenStoreFromEnv(ctx, cfg.JiraTokenBucket, cfg.JiraTokenEncryptKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create token store: %w", err)
		}
		tokens = store
	}
	return newWithStore(ctx, cfg, log, tokens)
}

func newWithStore(ctx context.Context, cfg *config.Config, log *zap.Logger, tokens storage.TokenStore) (*App, error) {
	token := cfg.JiraAPIToken
	if token == "" {
		var err error
		token, err = tokens.GetToken(ctx, cfg.JiraTokenKey)
		if err != nil {
			return nil, fmt.Errorf("failed to load Jira token %q: %w", cfg.JiraTokenKey, err)
		}
		log.Info("loaded Jira token from credential store",
			zap.String("bucket", cfg.JiraTokenBucket),
			zap.String("key", cfg.JiraTokenKey))
	}

	jiraClient, err := jira.NewClient(jira.Config{
		BaseURL: cfg.JiraBaseURL,
		Token:   token,
		Timeout: cfg.JiraHTTPTimeout,
		Logger:  log.Named("jira"),
	})
	if err != nil {
		return nil, err
	}

	opts := handler.Options{Logger: log.Named("dispatcher")}
	if cfg.SummarizerEnabled() {
		summarizer, err := openai.NewClient(cfg.AzureOpenAIEndpoint, cfg.AzureOpenAIKey, cfg.AzureOpenAIDeployment, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
		}
		opts.Summarizer = summarizer
	}
	if cfg.NotifierEnabled() {
		opts.Notifier = notifier.NewSlackNotifier(cfg.SlackBotToken, cfg.SlackChannel, log.Named("notifier"))
	}

	dispatcher := handler.NewDispatcher(jiraClient, opts)
	log.Info("gateway ready",
		zap.String("jira", cfg.JiraBaseURL),
		zap.Int("tools", len(dispatcher.Descriptors())),
		zap.Bool("summarizer", opts.Summarizer != nil),
		zap.Bool("notifier", opts.Notifier != nil))

	return &App{
		Config:     cfg,
		Dispatcher: dispatcher,
		MCPServer:  mcpserver.NewServer(dispatcher),
	}, nil
}
