package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xaenox/zoo-bot/internal/character"
	"github.com/xaenox/zoo-bot/internal/generator"
	"github.com/xaenox/zoo-bot/internal/schedule"
	"github.com/xaenox/zoo-bot/internal/scoring"
	"github.com/xaenox/zoo-bot/internal/storage"
	"github.com/xaenox/zoo-bot/internal/transport"
	"go.uber.org/zap"
)

type sentMessage struct {
	channelID string
	text      string
}

type fakeTransport struct {
	name string
	sent chan sentMessage
}

func (f *fakeTransport) Start(ctx context.Context, h transport.Handler) error {
	<-ctx.Done()
	return nil
}

func (f *fakeTransport) Send(ctx context.Context, channelID, text string) error {
	f.sent <- sentMessage{channelID: channelID, text: text}
	return nil
}

func (f *fakeTransport) NotifyTyping(channelID string) {}

func (f *fakeTransport) BotName() string { return f.name }

type failingGenerator struct{}

func (failingGenerator) Generate(ctx context.Context, req generator.Request) ([]string, error) {
	return nil, errors.New("backend unavailable")
}

// gatedGenerator blocks until release is closed, then answers every
// call immediately. Lets a test hold the channel worker mid-generation.
type gatedGenerator struct {
	release chan struct{}
	texts   []string
}

func (g *gatedGenerator) Generate(ctx context.Context, req generator.Request) ([]string, error) {
	select {
	case <-g.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return append([]string(nil), g.texts...), nil
}

const testDefaultReply = "Hm, give me a second to think about that one."

func newTestAgent(t *testing.T, gen generator.Generator, delay time.Duration, mutate func(*Config)) (*Agent, *fakeTransport, *storage.MemoryStorage) {
	t.Helper()

	cfg := Config{
		BotName:             "zoo-bot",
		Model:               "test-model",
		CandidateCount:      3,
		HistoryWindow:       5,
		ContextMaxChars:     4000,
		CooldownThreshold:   3,
		CooldownDuration:    time.Minute,
		ResponseProbability: 1,
		SimulateTyping:      false,
		BaseRole:            "You are a chat participant in a shared channel.",
		DefaultReply:        testDefaultReply,
	}
	if mutate != nil {
		mutate(&cfg)
	}

	ft := &fakeTransport{name: cfg.BotName, sent: make(chan sentMessage, 16)}
	store := storage.NewMemoryStorage()
	scorer, err := scoring.NewScorer(scoring.DefaultWeights())
	if err != nil {
		t.Fatalf("NewScorer returned error: %v", err)
	}
	sched := schedule.NewScheduler(delay, delay)
	chars := character.NewManager(store, time.Hour, zap.NewNop())

	a := New(cfg, ft, gen, scorer, sched, chars, nil, store, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = a.Run(ctx) }()
	// Let Run install its context before messages arrive.
	time.Sleep(10 * time.Millisecond)

	return a, ft, store
}

func inbound(channel, author, text string, bot bool) transport.Inbound {
	return transport.Inbound{
		ChannelID:   channel,
		AuthorID:    author,
		AuthorName:  author,
		AuthorIsBot: bot,
		Text:        text,
		Timestamp:   time.Now(),
	}
}

func waitSend(t *testing.T, ft *fakeTransport, timeout time.Duration) sentMessage {
	t.Helper()
	select {
	case m := <-ft.sent:
		return m
	case <-time.After(timeout):
		t.Fatal("timed out waiting for a send")
		return sentMessage{}
	}
}

func expectNoSend(t *testing.T, ft *fakeTransport, within time.Duration) {
	t.Helper()
	select {
	case m := <-ft.sent:
		t.Fatalf("unexpected send: %q", m.text)
	case <-time.After(within):
	}
}

func TestRespondSendsBestCandidate(t *testing.T) {
	gen := &generator.StaticGenerator{Texts: []string{
		"ok",
		"Here are three ideas: 1. ... 2. ... 3. ...",
		"Sure!",
	}}
	a, ft, store := newTestAgent(t, gen, 0, nil)
	_ = a

	a.HandleInbound(inbound("c1", "alice", "any ideas?", false))

	got := waitSend(t, ft, 2*time.Second)
	if got.channelID != "c1" {
		t.Errorf("sent to channel %q, want c1", got.channelID)
	}
	if got.text != "Here are three ideas: 1. ... 2. ... 3. ..." {
		t.Errorf("sent %q, want the structured candidate", got.text)
	}

	// Recording happens right after the send.
	deadline := time.Now().Add(time.Second)
	for len(store.Requests()) == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	records := store.Requests()
	if len(records) != 1 {
		t.Fatalf("got %d request records, want 1", len(records))
	}
	r := records[0]
	if r.CandidateCount != 3 {
		t.Errorf("record.CandidateCount = %d, want 3", r.CandidateCount)
	}
	if r.ChosenText != got.text {
		t.Errorf("record.ChosenText = %q, want %q", r.ChosenText, got.text)
	}
	if r.Error != "" {
		t.Errorf("record.Error = %q, want empty", r.Error)
	}
}

func TestGeneratorFailureFallsBackToDefault(t *testing.T) {
	a, ft, store := newTestAgent(t, failingGenerator{}, 0, nil)

	a.HandleInbound(inbound("c1", "alice", "hello?", false))

	got := waitSend(t, ft, 2*time.Second)
	if got.text != testDefaultReply {
		t.Errorf("sent %q, want the default reply", got.text)
	}

	deadline := time.Now().Add(time.Second)
	for len(store.Requests()) == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	records := store.Requests()
	if len(records) != 1 || records[0].Error == "" {
		t.Errorf("expected one record carrying the generation error, got %+v", records)
	}
}

func TestBlankCandidatesFallBackToDefault(t *testing.T) {
	gen := &generator.StaticGenerator{Texts: []string{"", "   "}}
	a, ft, _ := newTestAgent(t, gen, 0, nil)

	a.HandleInbound(inbound("c1", "alice", "anyone?", false))

	got := waitSend(t, ft, 2*time.Second)
	if got.text != testDefaultReply {
		t.Errorf("sent %q, want the default reply", got.text)
	}
}

func TestCooldownStopsBotLoop(t *testing.T) {
	gen := &generator.StaticGenerator{Texts: []string{"echo"}}
	a, ft, _ := newTestAgent(t, gen, 0, func(c *Config) {
		c.CooldownThreshold = 1
	})

	// First bot message: one agent turn, allowed; our own reply pushes
	// the consecutive count past the threshold.
	a.HandleInbound(inbound("c1", "other-bot", "beep", true))
	waitSend(t, ft, 2*time.Second)

	// Second bot message arrives into cooldown and must be skipped.
	a.HandleInbound(inbound("c1", "other-bot", "boop", true))
	expectNoSend(t, ft, 300*time.Millisecond)
}

func TestHumanMessageEndsCooldown(t *testing.T) {
	gen := &generator.StaticGenerator{Texts: []string{"echo"}}
	a, ft, _ := newTestAgent(t, gen, 0, func(c *Config) {
		c.CooldownThreshold = 1
	})

	a.HandleInbound(inbound("c1", "other-bot", "beep", true))
	waitSend(t, ft, 2*time.Second)
	a.HandleInbound(inbound("c1", "other-bot", "boop", true))
	expectNoSend(t, ft, 200*time.Millisecond)

	a.HandleInbound(inbound("c1", "alice", "hey bots, settle down", false))
	got := waitSend(t, ft, 2*time.Second)
	if got.text != "echo" {
		t.Errorf("sent %q after human interjection, want a reply", got.text)
	}
}

func TestProbabilityZeroNeverResponds(t *testing.T) {
	gen := &generator.StaticGenerator{Texts: []string{"never"}}
	a, ft, _ := newTestAgent(t, gen, 0, func(c *Config) {
		c.ResponseProbability = 0
	})

	for i := 0; i < 5; i++ {
		a.HandleInbound(inbound("c1", "alice", "anyone there?", false))
	}
	expectNoSend(t, ft, 300*time.Millisecond)
}

func TestRespondHonorsPacing(t *testing.T) {
	gen := &generator.StaticGenerator{Texts: []string{"paced reply"}}
	a, ft, _ := newTestAgent(t, gen, 150*time.Millisecond, nil)

	start := time.Now()
	a.HandleInbound(inbound("c1", "alice", "quick question", false))
	waitSend(t, ft, 2*time.Second)

	if elapsed := time.Since(start); elapsed < 140*time.Millisecond {
		t.Errorf("reply dispatched after %v, want at least the 150ms pacing delay", elapsed)
	}
}

// A human message arriving while a reply is pending queues behind it:
// the pending reply proceeds and the newcomer gets its own reply next.
func TestPendingReplyProceedsWhenHumanInterjects(t *testing.T) {
	gen := &generator.StaticGenerator{Texts: []string{"reply"}}
	a, ft, store := newTestAgent(t, gen, 150*time.Millisecond, nil)

	a.HandleInbound(inbound("c1", "alice", "first message", false))
	time.Sleep(20 * time.Millisecond)
	a.HandleInbound(inbound("c1", "bob", "second message", false))

	waitSend(t, ft, 2*time.Second)
	waitSend(t, ft, 2*time.Second)

	deadline := time.Now().Add(time.Second)
	for len(store.Requests()) < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	records := store.Requests()
	if len(records) != 2 {
		t.Fatalf("got %d request records, want 2", len(records))
	}
	if records[0].ID == records[1].ID {
		t.Error("request records share an id")
	}
}

func TestFullInboxKeepsNewestMessage(t *testing.T) {
	gen := &gatedGenerator{release: make(chan struct{}), texts: []string{"reply"}}
	a, ft, _ := newTestAgent(t, gen, 0, func(c *Config) {
		c.CooldownThreshold = 1
	})

	// Park the worker inside generation so the inbox backs up.
	a.HandleInbound(inbound("c1", "other-bot", "turn 0", true))
	time.Sleep(50 * time.Millisecond)

	for i := 0; i < workerInboxSize; i++ {
		a.HandleInbound(inbound("c1", "other-bot", "filler", true))
	}
	// Overflow: the oldest filler is discarded, the human message stays.
	a.HandleInbound(inbound("c1", "alice", "hello bots", false))

	close(gen.release)

	// The reply to the first bot message pushes the channel into
	// cooldown, every queued bot message is skipped, and the surviving
	// human message ends the cooldown and earns the second reply.
	waitSend(t, ft, 2*time.Second)
	waitSend(t, ft, 2*time.Second)
	expectNoSend(t, ft, 300*time.Millisecond)
}

func TestChannelsProcessIndependently(t *testing.T) {
	gen := &generator.StaticGenerator{Texts: []string{"hi"}}
	a, ft, _ := newTestAgent(t, gen, 0, nil)

	a.HandleInbound(inbound("c1", "alice", "hello from one", false))
	a.HandleInbound(inbound("c2", "bob", "hello from two", false))

	got := map[string]bool{}
	for i := 0; i < 2; i++ {
		m := waitSend(t, ft, 2*time.Second)
		got[m.channelID] = true
	}
	if !got["c1"] || !got["c2"] {
		t.Errorf("replies did not cover both channels: %v", got)
	}
}

func TestSwapWeightsRejectsMismatch(t *testing.T) {
	gen := &generator.StaticGenerator{Texts: []string{"hi"}}
	a, _, _ := newTestAgent(t, gen, 0, nil)

	if err := a.SwapWeights(scoring.Weights{Evaluation: []float64{1}, Cost: []float64{1}}); err == nil {
		t.Fatal("expected mismatch to be rejected")
	}
	if err := a.SwapWeights(scoring.DefaultWeights()); err != nil {
		t.Fatalf("valid swap failed: %v", err)
	}
}
