package agent

import (
	"context"
	"sync"
	"time"

	"github.com/xaenox/zoo-bot/internal/character"
	"github.com/xaenox/zoo-bot/internal/conversation"
	"github.com/xaenox/zoo-bot/internal/fetch"
	"github.com/xaenox/zoo-bot/internal/generator"
	"github.com/xaenox/zoo-bot/internal/schedule"
	"github.com/xaenox/zoo-bot/internal/scoring"
	"github.com/xaenox/zoo-bot/internal/storage"
	"github.com/xaenox/zoo-bot/internal/transport"
	"go.uber.org/zap"
)

// Config holds the per-agent orchestration settings. Loaded once at
// startup; the only piece that changes at runtime is the scoring
// weights, through SwapWeights.
type Config struct {
	BotName             string
	Model               string
	CandidateCount      int
	HistoryWindow       int
	ContextMaxChars     int
	CooldownThreshold   int
	CooldownDuration    time.Duration
	ResponseProbability float64
	SimulateTyping      bool
	BaseRole            string
	DefaultReply        string
}

// Agent orchestrates reply generation for every channel its transport
// delivers. Each channel gets one worker goroutine that owns that
// channel's history and cooldown state, so all per-channel transitions
// are serialized while distinct channels proceed independently.
type Agent struct {
	cfg        Config
	transport  transport.Transport
	gen        generator.Generator
	scorer     *scoring.Scorer
	sched      *schedule.Scheduler
	characters *character.Manager
	fetcher    *fetch.Fetcher
	store      storage.Storage
	logger     *zap.Logger

	ctx     context.Context
	mu      sync.Mutex
	workers map[string]*worker
	wg      sync.WaitGroup
}

// New wires an agent from its collaborators. fetcher and store may be
// nil; URL enrichment and request recording are then skipped.
func New(
	cfg Config,
	tr transport.Transport,
	gen generator.Generator,
	scorer *scoring.Scorer,
	sched *schedule.Scheduler,
	characters *character.Manager,
	fetcher *fetch.Fetcher,
	store storage.Storage,
	logger *zap.Logger,
) *Agent {
	return &Agent{
		cfg:        cfg,
		transport:  tr,
		gen:        gen,
		scorer:     scorer,
		sched:      sched,
		characters: characters,
		fetcher:    fetcher,
		store:      store,
		logger:     logger,
		workers:    make(map[string]*worker),
	}
}

// Run starts the transport and blocks until ctx is cancelled and all
// channel workers have drained.
func (a *Agent) Run(ctx context.Context) error {
	a.mu.Lock()
	a.ctx = ctx
	a.mu.Unlock()

	err := a.transport.Start(ctx, a.HandleInbound)
	a.wg.Wait()
	return err
}

// HandleInbound routes a message to its channel worker, creating the
// worker on first sight of the channel. A full worker inbox discards
// the oldest queued message to make room, never the arriving one: the
// newest message carries the freshest context and, when human-authored,
// the cooldown reset.
func (a *Agent) HandleInbound(in transport.Inbound) {
	w := a.worker(in.ChannelID)

	for {
		select {
		case w.inbox <- in:
			return
		default:
		}
		select {
		case old := <-w.inbox:
			a.logger.Warn("Channel worker backlog full, dropping oldest message",
				zap.String("channel_id", in.ChannelID),
				zap.String("author", old.AuthorName))
		default:
		}
	}
}

// SwapWeights atomically replaces the utility weight vectors for all
// subsequent scoring calls.
func (a *Agent) SwapWeights(w scoring.Weights) error {
	return a.scorer.SwapWeights(w)
}

func (a *Agent) worker(channelID string) *worker {
	a.mu.Lock()
	defer a.mu.Unlock()

	if w, ok := a.workers[channelID]; ok {
		return w
	}

	w := &worker{
		channelID: channelID,
		history:   conversation.NewHistory(a.cfg.HistoryWindow),
		guard:     conversation.NewCooldownGuard(a.cfg.CooldownThreshold, a.cfg.CooldownDuration),
		inbox:     make(chan transport.Inbound, workerInboxSize),
	}
	a.workers[channelID] = w

	ctx := a.ctx
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.runWorker(ctx, w)
	}()

	return w
}
