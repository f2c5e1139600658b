package conversation

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/xaenox/zoo-bot/internal/models"
)

func msg(channel, author, text string, agent bool) models.Message {
	return models.Message{
		ChannelID:     channel,
		AuthorID:      author,
		AuthorName:    author,
		AgentAuthored: agent,
		Text:          text,
		Timestamp:     time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestHistoryBounding(t *testing.T) {
	const window = 10
	h := NewHistory(window)

	for i := 0; i < window+5; i++ {
		h.Append(msg("c1", "alice", fmt.Sprintf("message %d", i), false))
	}

	if h.Len() != window {
		t.Fatalf("Len() = %d, want %d", h.Len(), window)
	}

	recent := h.Recent(window)
	for i, m := range recent {
		want := fmt.Sprintf("message %d", i+5)
		if m.Text != want {
			t.Errorf("recent[%d].Text = %q, want %q", i, m.Text, want)
		}
	}
}

func TestHistoryRecentReturnsCopy(t *testing.T) {
	h := NewHistory(5)
	h.Append(msg("c1", "alice", "hello", false))

	recent := h.Recent(5)
	recent[0].Text = "mutated"

	if h.Recent(5)[0].Text != "hello" {
		t.Error("Recent returned a slice aliasing internal state")
	}
}

func TestRenderContextAnnotatesRoles(t *testing.T) {
	h := NewHistory(10)
	h.Append(msg("c1", "alice", "hi there", false))
	h.Append(msg("c1", "owl-bot", "hoot hoot", true))

	ctx := h.RenderContext(10_000)
	if !strings.Contains(ctx, "Human (alice)") {
		t.Errorf("context missing human annotation: %q", ctx)
	}
	if !strings.Contains(ctx, "Bot (owl-bot)") {
		t.Errorf("context missing bot annotation: %q", ctx)
	}

	humanIdx := strings.Index(ctx, "hi there")
	botIdx := strings.Index(ctx, "hoot hoot")
	if humanIdx > botIdx {
		t.Error("context not in insertion order")
	}
}

func TestRenderContextDropsOldestFirst(t *testing.T) {
	h := NewHistory(10)
	h.Append(msg("c1", "alice", strings.Repeat("x", 200), false))
	h.Append(msg("c1", "bob", "keep me", false))

	ctx := h.RenderContext(100)
	if strings.Contains(ctx, "xxx") {
		t.Error("oldest line should have been dropped")
	}
	if !strings.Contains(ctx, "keep me") {
		t.Error("newest line should have been kept")
	}
}
