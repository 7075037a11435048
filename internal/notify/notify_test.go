package notify

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/slack-go/slack"
	"github.com/toolbelt-dev/toolbelt/internal/config"
	"github.com/toolbelt-dev/toolbelt/internal/recorder"
)

func sampleSummary() *recorder.Summary {
	return &recorder.Summary{
		SessionID:    "sess-42",
		Cwd:          "/repo",
		Model:        "claude-sonnet-4-5",
		Turns:        7,
		ToolCalls:    19,
		InputTokens:  120000,
		OutputTokens: 34000,
		CostUSD:      1.2345,
		Duration:     83 * time.Second,
	}
}

func TestSessionDigest_SlackOnly(t *testing.T) {
	var gotURL, gotText string
	n := &Notifier{
		cfg: config.NotifyConfig{SlackWebhookURL: "https://hooks.slack.com/services/x"},
		postSlack: func(url string, msg *slack.WebhookMessage) error {
			gotURL = url
			gotText = msg.Text
			return nil
		},
		postDiscord: func(token, channelID, content string) error {
			t.Error("discord poster called without discord config")
			return nil
		},
	}

	n.SessionDigest(sampleSummary())
	if gotURL != "https://hooks.slack.com/services/x" {
		t.Errorf("url = %q", gotURL)
	}
	if !strings.Contains(gotText, "sess-42") || !strings.Contains(gotText, "19 tool calls") {
		t.Errorf("digest text = %q", gotText)
	}
}

func TestSessionDigest_BothTargets(t *testing.T) {
	slackCalled, discordCalled := false, false
	n := &Notifier{
		cfg: config.NotifyConfig{
			SlackWebhookURL:  "https://hooks.slack.com/services/x",
			DiscordToken:     "tok",
			DiscordChannelID: "123",
		},
		postSlack: func(url string, msg *slack.WebhookMessage) error {
			slackCalled = true
			return errors.New("slack is down")
		},
		postDiscord: func(token, channelID, content string) error {
			discordCalled = true
			if channelID != "123" {
				t.Errorf("channelID = %q", channelID)
			}
			return nil
		},
	}

	// A failing target must not prevent the other from being tried.
	n.SessionDigest(sampleSummary())
	if !slackCalled || !discordCalled {
		t.Errorf("slackCalled=%v discordCalled=%v, want both", slackCalled, discordCalled)
	}
}

func TestSessionDigest_Unconfigured(t *testing.T) {
	n := New(config.NotifyConfig{})
	if n.Configured() {
		t.Error("Configured() = true for empty config")
	}
	n.SessionDigest(sampleSummary()) // must not panic or call anything
}

func TestFormatDigest(t *testing.T) {
	text := FormatDigest(sampleSummary())
	for _, want := range []string{"sess-42", "1m23s", "/repo", "claude-sonnet-4-5", "7 turns", "$1.2345"} {
		if !strings.Contains(text, want) {
			t.Errorf("digest %q missing %q", text, want)
		}
	}
}
