package schedule

import (
	"testing"
	"time"
)

func TestResponseDelayStaysInRange(t *testing.T) {
	min := 2 * time.Second
	max := 8 * time.Second
	s := NewScheduler(min, max)

	for i := 0; i < 1000; i++ {
		d := s.ResponseDelay()
		if d < min || d > max {
			t.Fatalf("ResponseDelay() = %v outside [%v, %v]", d, min, max)
		}
	}
}

func TestResponseDelayDegenerateRange(t *testing.T) {
	s := NewScheduler(3*time.Second, 3*time.Second)
	for i := 0; i < 10; i++ {
		if d := s.ResponseDelay(); d != 3*time.Second {
			t.Fatalf("ResponseDelay() = %v, want exactly 3s", d)
		}
	}
}

func TestTypingDurationScalesWithLength(t *testing.T) {
	s := NewScheduler(0, 0)

	d, speed := s.TypingDuration(100)
	if speed < minTypingSpeed || speed > maxTypingSpeed {
		t.Errorf("speed = %d outside [%d, %d]", speed, minTypingSpeed, maxTypingSpeed)
	}
	// 100 chars at 400-800 cpm with 20% jitter: 6s upper bound.
	if d <= 0 || d > 20*time.Second {
		t.Errorf("TypingDuration(100) = %v, implausible", d)
	}

	long, _ := s.TypingDuration(100_000)
	if long > maxTypingWait {
		t.Errorf("TypingDuration(100000) = %v exceeds cap %v", long, maxTypingWait)
	}
}
