package conversation

import (
	"testing"
	"time"
)

func TestCooldownEntersAfterThresholdExceeded(t *testing.T) {
	g := NewCooldownGuard(3, time.Minute)

	for i := 0; i < 3; i++ {
		g.Observe(msg("c1", "bot", "beep", true))
		if !g.Allow() {
			t.Fatalf("guard entered cooldown after %d agent turns, threshold is 3", i+1)
		}
	}

	g.Observe(msg("c1", "bot", "beep", true))
	if g.Allow() {
		t.Fatal("guard still active after 4 consecutive agent turns with threshold 3")
	}
	if !g.InCooldown() {
		t.Fatal("InCooldown() = false, want true")
	}
}

func TestHumanMessageRestoresActive(t *testing.T) {
	g := NewCooldownGuard(3, time.Hour)

	for i := 0; i < 4; i++ {
		g.Observe(msg("c1", "bot", "beep", true))
	}
	if g.Allow() {
		t.Fatal("expected cooldown before human interjection")
	}

	g.Observe(msg("c1", "alice", "hey bots", false))
	if !g.Allow() {
		t.Fatal("human message did not restore Active")
	}
	if g.ConsecutiveAgentTurns() != 0 {
		t.Errorf("counter = %d after human message, want 0", g.ConsecutiveAgentTurns())
	}
}

func TestCooldownExpiresAfterDuration(t *testing.T) {
	g := NewCooldownGuard(1, 2*time.Minute)

	current := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return current }

	g.Observe(msg("c1", "bot", "beep", true))
	g.Observe(msg("c1", "bot", "boop", true))
	if g.Allow() {
		t.Fatal("expected cooldown after exceeding threshold")
	}

	current = current.Add(time.Minute)
	if g.Allow() {
		t.Fatal("cooldown ended before duration elapsed")
	}

	current = current.Add(time.Minute)
	if !g.Allow() {
		t.Fatal("cooldown did not end after duration elapsed")
	}
	if g.ConsecutiveAgentTurns() != 0 {
		t.Errorf("counter = %d after expiry, want 0", g.ConsecutiveAgentTurns())
	}
}

func TestHumanMessagesNeverTriggerCooldown(t *testing.T) {
	g := NewCooldownGuard(2, time.Minute)
	for i := 0; i < 20; i++ {
		g.Observe(msg("c1", "alice", "chatter", false))
	}
	if !g.Allow() {
		t.Fatal("human-only traffic must never enter cooldown")
	}
}
