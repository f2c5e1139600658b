package transport

import (
	"context"
	"fmt"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// TelegramConfig holds the Telegram adapter settings.
type TelegramConfig struct {
	Token   string `mapstructure:"token"`
	ChatID  int64  `mapstructure:"chat_id"`
	BotName string `mapstructure:"bot_name"`
}

// TelegramTransport adapts the Telegram long-polling API to the
// Transport interface. Channel ids are the decimal chat id.
type TelegramTransport struct {
	api    *tgbotapi.BotAPI
	config TelegramConfig
	logger *zap.Logger
}

func NewTelegramTransport(cfg TelegramConfig, logger *zap.Logger) (*TelegramTransport, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	return &TelegramTransport{
		api:    api,
		config: cfg,
		logger: logger,
	}, nil
}

// Start polls for updates and blocks until ctx is cancelled.
func (t *TelegramTransport) Start(ctx context.Context, h Handler) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := t.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			t.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			msg := update.Message

			// Ignore own messages
			if msg.From != nil && msg.From.UserName == t.api.Self.UserName {
				continue
			}
			if t.config.ChatID != 0 && msg.Chat.ID != t.config.ChatID {
				continue
			}

			h(telegramInbound(msg))
		}
	}
}

// telegramInbound maps an update message to the transport-neutral form.
// Channel posts and channel-signed group posts carry no sender, so a
// nil From gets a synthesized author; such posts are automated and are
// marked agent-authored so they count toward cooldown rather than
// resetting it.
func telegramInbound(msg *tgbotapi.Message) Inbound {
	in := Inbound{
		ChannelID: strconv.FormatInt(msg.Chat.ID, 10),
		Text:      msg.Text,
		Timestamp: time.Unix(int64(msg.Date), 0),
	}
	if msg.From != nil {
		in.AuthorID = strconv.FormatInt(msg.From.ID, 10)
		in.AuthorName = msg.From.FirstName
		in.AuthorIsBot = msg.From.IsBot
		return in
	}
	in.AuthorID = "channel:" + in.ChannelID
	in.AuthorName = msg.Chat.Title
	if in.AuthorName == "" {
		in.AuthorName = "Channel"
	}
	in.AuthorIsBot = true
	return in
}

func (t *TelegramTransport) Send(ctx context.Context, channelID, text string) error {
	chatID, err := strconv.ParseInt(channelID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid telegram chat id %q: %w", channelID, err)
	}

	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}

func (t *TelegramTransport) NotifyTyping(channelID string) {
	chatID, err := strconv.ParseInt(channelID, 10, 64)
	if err != nil {
		return
	}
	action := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
	if _, err := t.api.Request(action); err != nil {
		t.logger.Debug("Failed to send typing action",
			zap.String("channel_id", channelID),
			zap.Error(err))
	}
}

func (t *TelegramTransport) BotName() string {
	return t.config.BotName
}
