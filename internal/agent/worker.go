package agent

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/xaenox/zoo-bot/internal/character"
	"github.com/xaenox/zoo-bot/internal/conversation"
	"github.com/xaenox/zoo-bot/internal/generator"
	"github.com/xaenox/zoo-bot/internal/models"
	"github.com/xaenox/zoo-bot/internal/scoring"
	"github.com/xaenox/zoo-bot/internal/transport"
	"go.uber.org/zap"
)

const workerInboxSize = 16

// worker serializes all processing for one channel. Only its goroutine
// touches history and guard.
type worker struct {
	channelID string
	history   *conversation.History
	guard     *conversation.CooldownGuard
	inbox     chan transport.Inbound
}

func (a *Agent) runWorker(ctx context.Context, w *worker) {
	if ctx == nil {
		ctx = context.Background()
	}
	for {
		select {
		case <-ctx.Done():
			return
		case in := <-w.inbox:
			a.process(ctx, w, in)
		}
	}
}

// process records the inbound message and decides whether to reply.
// Messages arriving while a reply is pending queue behind it in the
// inbox: a pending reply always proceeds and the newcomer is processed
// afterwards with that reply already in history.
func (a *Agent) process(ctx context.Context, w *worker, in transport.Inbound) {
	msg := models.Message{
		ChannelID:     in.ChannelID,
		AuthorID:      in.AuthorID,
		AuthorName:    in.AuthorName,
		AgentAuthored: in.AuthorIsBot,
		Text:          in.Text,
		Timestamp:     in.Timestamp,
	}
	w.history.Append(msg)
	w.guard.Observe(msg)

	if !w.guard.Allow() {
		a.logger.Info("Channel in cooldown, skipping reply",
			zap.String("channel_id", w.channelID),
			zap.Int("consecutive_agent_turns", w.guard.ConsecutiveAgentTurns()))
		return
	}

	if a.cfg.ResponseProbability < 1 && rand.Float64() >= a.cfg.ResponseProbability {
		a.logger.Debug("Probability gate declined reply",
			zap.String("channel_id", w.channelID))
		return
	}

	a.respond(ctx, w, in)
}

// respond runs the full selection pipeline: generate N candidates,
// score each, pick the max-utility one, pace the reply, send it.
//
// Generation runs first and the remaining pacing delay is slept
// afterwards, so the wall-clock delay target is honored without paying
// for delay and generation back to back.
func (a *Agent) respond(ctx context.Context, w *worker, in transport.Inbound) {
	start := time.Now()
	requestID := uuid.New().String()
	delay := a.sched.ResponseDelay()

	profile := a.characters.Character(ctx, a.cfg.BotName)
	systemPrompt := character.SystemPrompt(profile, a.cfg.BaseRole)
	if in.AuthorIsBot {
		systemPrompt += "\n\n" + character.BotGuidance
	}

	contextText := w.history.RenderContext(a.cfg.ContextMaxChars)
	if a.fetcher != nil {
		if linked := a.fetcher.FetchAll(ctx, in.Text); linked != "" {
			contextText += "\n\nLinked content:\n" + linked
		}
	}

	var errText string

	genStart := time.Now()
	texts, err := a.gen.Generate(ctx, generator.Request{
		SystemPrompt:   systemPrompt,
		Context:        contextText,
		CandidateCount: a.cfg.CandidateCount,
	})
	genTime := time.Since(genStart)
	if err != nil || len(texts) == 0 {
		a.logger.Warn("Candidate generation failed, using default reply",
			zap.String("request_id", requestID),
			zap.String("channel_id", w.channelID),
			zap.Error(err))
		if err != nil {
			errText = err.Error()
		}
		texts = []string{a.cfg.DefaultReply}
	}

	scoreStart := time.Now()
	scoreCtx := scoring.Context{CharacterKeywords: character.Keywords(profile)}
	candidates := make([]scoring.Candidate, 0, len(texts))
	for _, text := range texts {
		c, err := a.scorer.Score(text, scoreCtx)
		if err != nil {
			a.logger.Warn("Excluding unscorable candidate",
				zap.String("request_id", requestID),
				zap.Error(err))
			continue
		}
		candidates = append(candidates, c)
	}
	if len(candidates) == 0 {
		c, err := a.scorer.Score(a.cfg.DefaultReply, scoreCtx)
		if err != nil {
			a.logger.Error("Default reply is unscorable, dropping cycle",
				zap.String("request_id", requestID),
				zap.Error(err))
			return
		}
		candidates = append(candidates, c)
	}
	best, err := scoring.SelectBest(candidates)
	if err != nil {
		a.logger.Error("Selection failed",
			zap.String("request_id", requestID),
			zap.Error(err))
		return
	}
	scoreTime := time.Since(scoreStart)

	delayStart := time.Now()
	if remaining := delay - time.Since(start); remaining > 0 {
		if !a.sleep(ctx, remaining) {
			return
		}
	}
	if a.cfg.SimulateTyping {
		typingDur, typingSpeed := a.sched.TypingDuration(len(best.Text))
		a.transport.NotifyTyping(w.channelID)
		a.logger.Debug("Simulating typing",
			zap.String("channel_id", w.channelID),
			zap.Int("chars", len(best.Text)),
			zap.Int("chars_per_minute", typingSpeed),
			zap.Duration("duration", typingDur))
		if !a.sleep(ctx, typingDur) {
			return
		}
	}
	delayTime := time.Since(delayStart)

	historyStart := time.Now()
	reply := models.Message{
		ChannelID:     w.channelID,
		AuthorID:      a.cfg.BotName,
		AuthorName:    a.cfg.BotName,
		AgentAuthored: true,
		Text:          best.Text,
		Timestamp:     time.Now(),
	}
	w.history.Append(reply)
	w.guard.Observe(reply)
	historyTime := time.Since(historyStart)

	sendStart := time.Now()
	if err := a.transport.Send(ctx, w.channelID, best.Text); err != nil {
		a.logger.Error("Failed to send reply",
			zap.String("request_id", requestID),
			zap.String("channel_id", w.channelID),
			zap.Error(err))
		if errText == "" {
			errText = err.Error()
		}
	}
	sendTime := time.Since(sendStart)

	totalTime := time.Since(start)
	a.logger.Info("Reply dispatched",
		zap.String("request_id", requestID),
		zap.String("channel_id", w.channelID),
		zap.Int("candidates", len(candidates)),
		zap.Float64("utility", best.Utility),
		zap.Duration("delay", delayTime),
		zap.Duration("generation", genTime),
		zap.Duration("scoring", scoreTime),
		zap.Duration("history", historyTime),
		zap.Duration("send", sendTime),
		zap.Duration("total", totalTime))

	a.record(ctx, &models.RequestRecord{
		ID:             requestID,
		BotName:        a.cfg.BotName,
		ChannelID:      w.channelID,
		Model:          a.cfg.Model,
		PromptChars:    len(systemPrompt) + len(contextText),
		CandidateCount: len(candidates),
		ChosenText:     best.Text,
		Utility:        best.Utility,
		DelayTime:      delayTime,
		GenerationTime: genTime,
		ScoringTime:    scoreTime,
		HistoryTime:    historyTime,
		SendTime:       sendTime,
		TotalTime:      totalTime,
		Error:          errText,
		CreatedAt:      time.Now(),
	})
}

// record persists the request log entry, best effort.
func (a *Agent) record(ctx context.Context, r *models.RequestRecord) {
	if a.store == nil {
		return
	}
	if err := a.store.RecordRequest(ctx, r); err != nil {
		a.logger.Warn("Failed to record request",
			zap.String("request_id", r.ID),
			zap.Error(err))
	}
}

// sleep waits for d or until ctx is done; reports whether the full
// wait completed.
func (a *Agent) sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
