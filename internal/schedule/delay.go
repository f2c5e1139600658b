package schedule

import (
	"math/rand"
	"time"
)

// Typing speed range in characters per minute, matching a slow-to-quick
// human typist.
const (
	minTypingSpeed = 400
	maxTypingSpeed = 800

	// Discord's typing indicator only lasts ten seconds, and longer
	// waits read as the bot stalling rather than typing.
	maxTypingWait = 15 * time.Second
)

// Scheduler computes human-like pacing for replies. The delays it
// returns are advisory: callers sleep them on their own channel worker
// so other channels are never blocked.
type Scheduler struct {
	min time.Duration
	max time.Duration
}

// NewScheduler returns a scheduler drawing response delays uniformly
// from [min, max].
func NewScheduler(min, max time.Duration) *Scheduler {
	if max < min {
		max = min
	}
	return &Scheduler{min: min, max: max}
}

// ResponseDelay draws a uniform delay from the configured range.
func (s *Scheduler) ResponseDelay() time.Duration {
	if s.max == s.min {
		return s.min
	}
	return s.min + time.Duration(rand.Int63n(int64(s.max-s.min)+1))
}

// TypingDuration estimates how long typing textLen characters would
// take, with +/-20% jitter, and returns the duration alongside the
// drawn typing speed in chars/minute. The duration is capped so long
// replies don't stall the channel.
func (s *Scheduler) TypingDuration(textLen int) (time.Duration, int) {
	speed := minTypingSpeed + rand.Intn(maxTypingSpeed-minTypingSpeed+1)
	perSecond := float64(speed) / 60

	base := float64(textLen) / perSecond
	jitter := 0.8 + rand.Float64()*0.4

	d := time.Duration(base * jitter * float64(time.Second))
	if d > maxTypingWait {
		d = maxTypingWait
	}
	return d, speed
}
