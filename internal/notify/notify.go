// Package notify delivers session digests to chat channels. Delivery is
// best-effort: failures are logged, never returned, so a broken webhook
// cannot disturb session shutdown.
package notify

import (
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/slack-go/slack"
	"github.com/toolbelt-dev/toolbelt/internal/config"
	"github.com/toolbelt-dev/toolbelt/internal/recorder"
)

// slackPoster abstracts the Slack webhook call for tests.
type slackPoster func(url string, msg *slack.WebhookMessage) error

// discordPoster abstracts the Discord channel send for tests.
type discordPoster func(token, channelID, content string) error

// Notifier fans a digest out to every configured target.
type Notifier struct {
	cfg         config.NotifyConfig
	postSlack   slackPoster
	postDiscord discordPoster
}

// New returns a Notifier for cfg using the real Slack and Discord clients.
func New(cfg config.NotifyConfig) *Notifier {
	return &Notifier{
		cfg:         cfg,
		postSlack:   slack.PostWebhook,
		postDiscord: postDiscordMessage,
	}
}

// Configured reports whether any delivery target is set.
func (n *Notifier) Configured() bool {
	return n.cfg.SlackWebhookURL != "" || (n.cfg.DiscordToken != "" && n.cfg.DiscordChannelID != "")
}

// SessionDigest sends a summary of a finished session to all configured
// targets.
func (n *Notifier) SessionDigest(s *recorder.Summary) {
	if s == nil || !n.Configured() {
		return
	}
	text := FormatDigest(s)

	if n.cfg.SlackWebhookURL != "" {
		if err := n.postSlack(n.cfg.SlackWebhookURL, &slack.WebhookMessage{Text: text}); err != nil {
			log.Printf("notify: slack digest: %v", err)
		}
	}
	if n.cfg.DiscordToken != "" && n.cfg.DiscordChannelID != "" {
		if err := n.postDiscord(n.cfg.DiscordToken, n.cfg.DiscordChannelID, text); err != nil {
			log.Printf("notify: discord digest: %v", err)
		}
	}
}

// FormatDigest renders a session summary as a compact chat message.
func FormatDigest(s *recorder.Summary) string {
	return fmt.Sprintf(
		"Session %s finished in %s\n%s · %s\n%d turns, %d tool calls, %d in / %d out tokens, $%.4f",
		s.SessionID,
		s.Duration.Round(time.Second),
		s.Cwd,
		s.Model,
		s.Turns,
		s.ToolCalls,
		s.InputTokens,
		s.OutputTokens,
		s.CostUSD,
	)
}

// postDiscordMessage sends one message through a short-lived bot session.
func postDiscordMessage(token, channelID, content string) error {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return err
	}
	defer dg.Close()
	_, err = dg.ChannelMessageSend(channelID, content)
	return err
}
