package transport

import (
	"context"
	"time"
)

// Inbound is a message delivered by a chat platform adapter. Adapters
// filter out the bot's own messages but pass other bots' messages
// through with AuthorIsBot set, so agents can talk to each other.
type Inbound struct {
	ChannelID   string
	AuthorID    string
	AuthorName  string
	AuthorIsBot bool
	Text        string
	Timestamp   time.Time
}

// Handler consumes inbound messages from an adapter.
type Handler func(Inbound)

// Transport connects the orchestrator to one chat platform.
type Transport interface {
	// Start connects and delivers inbound messages to h until ctx is
	// cancelled.
	Start(ctx context.Context, h Handler) error

	// Send posts text to a channel. Failures are returned for logging;
	// this layer never retries.
	Send(ctx context.Context, channelID, text string) error

	// NotifyTyping triggers the platform's typing indicator, best
	// effort.
	NotifyTyping(channelID string)

	// BotName is the display name the agent posts under.
	BotName() string
}
