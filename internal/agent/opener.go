package agent

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// OpenerConfig controls the periodic conversation opener.
type OpenerConfig struct {
	Enabled   bool
	Interval  time.Duration
	ChannelID string
}

var (
	morningOpeners = []string{
		"Good morning everyone! How did you all sleep?",
		"Morning! What's on everyone's mind today?",
		"A brand new day. Any plans worth sharing?",
	}
	afternoonOpeners = []string{
		"Afternoon all! How's the day treating you so far?",
		"Anyone had anything interesting happen today?",
		"What did everyone have for lunch?",
	}
	eveningOpeners = []string{
		"Evening! How did today go for everyone?",
		"Anyone up to anything fun tonight?",
		"What was the highlight of your day?",
	}
	nightOpeners = []string{
		"Still awake? What keeps you up tonight?",
		"Quiet night in here. Anyone around?",
	}
)

// RunOpener posts a time-of-day appropriate message on a fixed interval
// to seed conversation in an idle channel. Blocks until ctx is done.
func (a *Agent) RunOpener(ctx context.Context, cfg OpenerConfig) {
	if !cfg.Enabled || cfg.ChannelID == "" {
		return
	}

	a.logger.Info("Conversation opener started",
		zap.String("channel_id", cfg.ChannelID),
		zap.Duration("interval", cfg.Interval))

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			text := openerMessage(time.Now().Hour())
			if err := a.transport.Send(ctx, cfg.ChannelID, text); err != nil {
				a.logger.Error("Failed to send opener",
					zap.String("channel_id", cfg.ChannelID),
					zap.Error(err))
				continue
			}
			a.logger.Info("Sent conversation opener",
				zap.String("channel_id", cfg.ChannelID),
				zap.String("text", text))
		}
	}
}

// openerMessage picks a message pool by hour of day.
func openerMessage(hour int) string {
	var pool []string
	switch {
	case hour >= 5 && hour < 12:
		pool = morningOpeners
	case hour >= 12 && hour < 18:
		pool = afternoonOpeners
	case hour >= 18 && hour < 23:
		pool = eveningOpeners
	default:
		pool = nightOpeners
	}
	return pool[rand.Intn(len(pool))]
}
