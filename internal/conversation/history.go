package conversation

import (
	"fmt"
	"strings"

	"github.com/xaenox/zoo-bot/internal/models"
)

// History is a bounded, ordered message window for one channel. It is
// not safe for concurrent use on its own; the channel worker that owns
// it serializes all access.
type History struct {
	window int
	msgs   []models.Message
}

// NewHistory returns an empty history keeping at most window messages.
func NewHistory(window int) *History {
	if window < 1 {
		window = 1
	}
	return &History{window: window}
}

// Append adds a message at the tail, silently dropping the oldest
// entries once the window is exceeded.
func (h *History) Append(m models.Message) {
	h.msgs = append(h.msgs, m)
	if len(h.msgs) > h.window {
		h.msgs = h.msgs[len(h.msgs)-h.window:]
	}
}

// Len returns the number of retained messages.
func (h *History) Len() int {
	return len(h.msgs)
}

// Recent returns up to n of the most recent messages in original order.
func (h *History) Recent(n int) []models.Message {
	if n >= len(h.msgs) {
		return append([]models.Message(nil), h.msgs...)
	}
	return append([]models.Message(nil), h.msgs[len(h.msgs)-n:]...)
}

// RenderContext builds a role-annotated transcript for the generator,
// newest message last. Agent-authored entries are prefixed so agents
// can adapt tone toward each other. If the transcript exceeds maxChars
// the oldest lines are dropped first.
func (h *History) RenderContext(maxChars int) string {
	lines := make([]string, 0, len(h.msgs))
	for _, m := range h.msgs {
		ts := m.Timestamp.Format("2006-01-02 15:04:05")
		if m.AgentAuthored {
			lines = append(lines, fmt.Sprintf("Bot (%s) [%s]: %s", m.AuthorName, ts, m.Text))
		} else {
			lines = append(lines, fmt.Sprintf("Human (%s) [%s]: %s", m.AuthorName, ts, m.Text))
		}
	}

	total := 0
	for _, l := range lines {
		total += len(l) + 1
	}
	for len(lines) > 1 && total > maxChars {
		total -= len(lines[0]) + 1
		lines = lines[1:]
	}

	return strings.Join(lines, "\n")
}
