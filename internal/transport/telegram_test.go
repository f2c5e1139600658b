package transport

import (
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func TestTelegramInboundWithSender(t *testing.T) {
	msg := &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: 42},
		From: &tgbotapi.User{ID: 7, FirstName: "Alice", IsBot: false},
		Date: 1700000000,
		Text: "hello",
	}

	in := telegramInbound(msg)
	if in.ChannelID != "42" {
		t.Errorf("ChannelID = %q, want 42", in.ChannelID)
	}
	if in.AuthorID != "7" || in.AuthorName != "Alice" {
		t.Errorf("author = %q/%q, want 7/Alice", in.AuthorID, in.AuthorName)
	}
	if in.AuthorIsBot {
		t.Error("human sender mapped as bot")
	}
	if !in.Timestamp.Equal(time.Unix(1700000000, 0)) {
		t.Errorf("Timestamp = %v", in.Timestamp)
	}
}

func TestTelegramInboundChannelPostWithoutSender(t *testing.T) {
	msg := &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: -100123, Title: "Zoo News"},
		Date: 1700000000,
		Text: "channel post",
	}

	in := telegramInbound(msg)
	if in.ChannelID != "-100123" {
		t.Errorf("ChannelID = %q, want -100123", in.ChannelID)
	}
	if in.AuthorID != "channel:-100123" {
		t.Errorf("AuthorID = %q, want channel:-100123", in.AuthorID)
	}
	if in.AuthorName != "Zoo News" {
		t.Errorf("AuthorName = %q, want the chat title", in.AuthorName)
	}
	if !in.AuthorIsBot {
		t.Error("sender-less channel post must be agent-authored")
	}
	if in.Text != "channel post" {
		t.Errorf("Text = %q", in.Text)
	}
}

func TestTelegramInboundChannelPostWithoutTitle(t *testing.T) {
	msg := &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: -100123},
		Date: 1700000000,
		Text: "post",
	}

	if in := telegramInbound(msg); in.AuthorName != "Channel" {
		t.Errorf("AuthorName = %q, want Channel", in.AuthorName)
	}
}
