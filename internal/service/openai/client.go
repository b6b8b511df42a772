package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"jira_gateway/internal/logger"

	"github.com/Azure/azure-sdk-for-go/sdk/ai/azopenai"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"go.uber.org/zap"
)

const summarizePrompt = "You summarize Jira issues for engineers. " +
	"Given the issue JSON, reply with at most five sentences covering what the issue is about, " +
	"its current status and the latest decisions from the comments. Reply in plain text."

// maxIssueChars bounds the issue JSON sent to the model.
const maxIssueChars = 24 * 1024

type Client struct {
	client         *azopenai.Client
	deploymentName string
}

// NewClient creates an Azure OpenAI chat client. options may be nil.
func NewClient(endpoint, apiKey, deploymentName string, options *azopenai.ClientOptions) (*Client, error) {
	keyCredential := azcore.NewKeyCredential(apiKey)
	client, err := azopenai.NewClientWithKeyCredential(endpoint, keyCredential, options)
	if err != nil {
		return nil, err
	}

	return &Client{
		client:         client,
		deploymentName: deploymentName,
	}, nil
}

func (c *Client) Chat(ctx context.Context, messages []azopenai.ChatRequestMessageClassification) (string, error) {
	logger.GetLogger().Debug("sending messages to AI", zap.Int("messages", len(messages)))
	resp, err := c.client.GetChatCompletions(ctx, azopenai.ChatCompletionsOptions{
		DeploymentName: to.Ptr(c.deploymentName),
		Messages:       messages,
		N:              to.Ptr[int32](1),
	}, nil)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message == nil || resp.Choices[0].Message.Content == nil {
		return "", nil
	}
	return *resp.Choices[0].Message.Content, nil
}

// Summarize asks the deployment for a short prose summary of a raw issue payload.
func (c *Client) Summarize(ctx context.Context, issueKey string, issue any) (string, error) {
	payload, err := json.Marshal(issue)
	if err != nil {
		return "", fmt.Errorf("failed to marshal issue %s: %w", issueKey, err)
	}
	text := string(payload)
	if len(text) > maxIssueChars {
		text = text[:maxIssueChars]
	}

	messages := []azopenai.ChatRequestMessageClassification{
		&azopenai.ChatRequestSystemMessage{
			Content: azopenai.NewChatRequestSystemMessageContent(summarizePrompt),
		},
		&azopenai.ChatRequestUserMessage{
			Content: azopenai.NewChatRequestUserMessageContent(fmt.Sprintf("Issue %s:\n%s", issueKey, text)),
		},
	}

	summary, err := c.Chat(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("failed to get chat completion: %w", err)
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return "", fmt.Errorf("no summary returned for %s", issueKey)
	}
	return summary, nil
}
