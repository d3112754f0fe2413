// Package notify posts answers back to Slack.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/slack-go/slack"
)

// slackMaxMsgLen is the chat.postMessage text limit we stay under. One
// threaded reply per event is the contract, so long answers are truncated
// rather than split.
const slackMaxMsgLen = 4000

// ErrNotify wraps chat.postMessage failures.
var ErrNotify = errors.New("slack notify failed")

// Config configures the notifier.
type Config struct {
	BotToken string
	APIURL   string // override for tests; empty uses the real Slack API
	Logger   *slog.Logger
}

// Notifier sends at-mention threaded replies via the Slack Web API.
type Notifier struct {
	client *slack.Client
	logger *slog.Logger
}

// New creates a Slack notifier.
func New(cfg Config) *Notifier {
	opts := []slack.Option{}
	if cfg.APIURL != "" {
		opts = append(opts, slack.OptionAPIURL(cfg.APIURL))
	}
	return &Notifier{
		client: slack.New(cfg.BotToken, opts...),
		logger: cfg.Logger,
	}
}

// Notify posts text to the channel inside the given thread, prefixed with an
// at-mention of the triggering user.
func (n *Notifier) Notify(ctx context.Context, channel, text, userID, threadTS string) error {
	msg := truncate(fmt.Sprintf("<@%s> %s", userID, text), slackMaxMsgLen)

	respChannel, respTS, err := n.client.PostMessageContext(ctx, channel,
		slack.MsgOptionText(msg, false),
		slack.MsgOptionTS(threadTS),
	)
	if err != nil {
		n.logger.Error("slack post failed", "channel", channel, "thread_ts", threadTS, "err", err)
		return fmt.Errorf("%w: %v", ErrNotify, err)
	}

	n.logger.Info("slack message posted", "channel", respChannel, "ts", respTS, "content_len", len(msg))
	return nil
}

func truncate(msg string, maxLen int) string {
	if len(msg) <= maxLen {
		return msg
	}
	return msg[:maxLen-3] + "..."
}
