package conversation

import (
	"time"

	"github.com/xaenox/zoo-bot/internal/models"
)

// CooldownGuard tracks consecutive agent-authored turns for one channel
// and decides whether the channel may keep auto-responding. Like
// History, it is owned and serialized by the channel worker.
//
// The guard enters cooldown once consecutive agent turns exceed the
// threshold, and leaves it when a human message arrives or the
// configured duration elapses, whichever comes first. Duration expiry
// is checked lazily on the next Allow call so all state changes stay
// on the worker goroutine.
type CooldownGuard struct {
	threshold int
	duration  time.Duration

	turns     int
	active    bool
	enteredAt time.Time

	now func() time.Time
}

// NewCooldownGuard returns a guard in the Active state.
func NewCooldownGuard(threshold int, duration time.Duration) *CooldownGuard {
	return &CooldownGuard{
		threshold: threshold,
		duration:  duration,
		now:       time.Now,
	}
}

// Observe updates the turn counter for an arriving message. Agent
// messages increment it before the state check; human messages reset it
// and immediately restore Active.
func (g *CooldownGuard) Observe(m models.Message) {
	if m.AgentAuthored {
		g.turns++
		if !g.active && g.turns > g.threshold {
			g.active = true
			g.enteredAt = g.now()
		}
		return
	}
	g.turns = 0
	g.active = false
}

// Allow reports whether the channel may generate a reply, leaving
// cooldown if the duration has elapsed.
func (g *CooldownGuard) Allow() bool {
	if g.active && g.now().Sub(g.enteredAt) >= g.duration {
		g.active = false
		g.turns = 0
	}
	return !g.active
}

// InCooldown reports the current state without side effects.
func (g *CooldownGuard) InCooldown() bool {
	return g.active
}

// ConsecutiveAgentTurns returns the current counter value.
func (g *CooldownGuard) ConsecutiveAgentTurns() int {
	return g.turns
}
