package notifier

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
	"go.uber.org/zap"
)

// SlackNotifier posts change notifications to one Slack channel.
type SlackNotifier struct {
	api     *slack.Client
	channel string
	logger  *zap.Logger
}

// NewSlackNotifier creates a notifier for channel. options are passed to
// slack.New, e.g. slack.OptionAPIURL in tests.
func NewSlackNotifier(token, channel string, logger *zap.Logger, options ...slack.Option) *SlackNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SlackNotifier{
		api:     slack.New(token, options...),
		channel: channel,
		logger:  logger,
	}
}

// Notify sends text to the configured channel.
func (n *SlackNotifier) Notify(ctx context.Context, text string) error {
	channelID, ts, err := n.api.PostMessageContext(ctx,
		n.channel,
		slack.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("post slack message to %s: %w", n.channel, err)
	}
	n.logger.Debug("posted change notification", zap.String("channel", channelID), zap.String("ts", ts))
	return nil
}
