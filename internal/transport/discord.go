package transport

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// DiscordConfig holds the Discord adapter settings.
type DiscordConfig struct {
	Token     string `mapstructure:"token"`
	ChannelID string `mapstructure:"channel_id"`
	BotName   string `mapstructure:"bot_name"`
}

// DiscordTransport adapts a Discord gateway session to the Transport
// interface. Messages from other bots are delivered (the whole point of
// a multi-agent channel); only the session's own messages are dropped.
type DiscordTransport struct {
	session   *discordgo.Session
	config    DiscordConfig
	logger    *zap.Logger
	handler   Handler
	botUserID string
}

func NewDiscordTransport(cfg DiscordConfig, logger *zap.Logger) (*DiscordTransport, error) {
	dg, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}

	dg.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages | discordgo.IntentMessageContent

	t := &DiscordTransport{
		session: dg,
		config:  cfg,
		logger:  logger,
	}

	dg.AddHandler(t.handleReady)
	dg.AddHandler(t.handleMessage)

	return t, nil
}

func (t *DiscordTransport) handleReady(s *discordgo.Session, r *discordgo.Ready) {
	t.botUserID = r.User.ID
	t.logger.Info("Discord bot connected",
		zap.String("user", r.User.Username))
}

func (t *DiscordTransport) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Ignore own messages
	if m.Author.ID == t.botUserID {
		return
	}

	// Only the configured channel, if one is set
	if t.config.ChannelID != "" && m.ChannelID != t.config.ChannelID {
		return
	}

	text := strings.TrimSpace(m.Content)
	if text == "" {
		return
	}

	if t.handler == nil {
		return
	}
	t.handler(Inbound{
		ChannelID:   m.ChannelID,
		AuthorID:    m.Author.ID,
		AuthorName:  m.Author.Username,
		AuthorIsBot: m.Author.Bot,
		Text:        text,
		Timestamp:   m.Timestamp,
	})
}

// Start connects to Discord and blocks until ctx is cancelled.
func (t *DiscordTransport) Start(ctx context.Context, h Handler) error {
	t.handler = h

	if err := t.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord connection: %w", err)
	}

	<-ctx.Done()
	return t.session.Close()
}

func (t *DiscordTransport) Send(ctx context.Context, channelID, text string) error {
	if _, err := t.session.ChannelMessageSend(channelID, text); err != nil {
		return fmt.Errorf("failed to send discord message: %w", err)
	}
	return nil
}

func (t *DiscordTransport) NotifyTyping(channelID string) {
	if err := t.session.ChannelTyping(channelID); err != nil {
		t.logger.Debug("Failed to send typing indicator",
			zap.String("channel_id", channelID),
			zap.Error(err))
	}
}

func (t *DiscordTransport) BotName() string {
	return t.config.BotName
}
