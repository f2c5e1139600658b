package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/xaenox/zoo-bot/internal/agent"
	"github.com/xaenox/zoo-bot/internal/character"
	"github.com/xaenox/zoo-bot/internal/fetch"
	"github.com/xaenox/zoo-bot/internal/generator"
	"github.com/xaenox/zoo-bot/internal/schedule"
	"github.com/xaenox/zoo-bot/internal/scoring"
	"github.com/xaenox/zoo-bot/internal/storage"
	"github.com/xaenox/zoo-bot/internal/transport"
	"github.com/xaenox/zoo-bot/pkg/config"
	"go.uber.org/zap"
)

const defaultBaseRole = "You are a participant in a group chat. Stay in character, " +
	"keep replies conversational, and never mention that you are an AI."

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load configuration
	configPath := "config.yaml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", configPath))
	}

	// Initialize storage
	var store storage.Storage
	if cfg.Database.UseInMemory {
		logger.Info("Using in-memory storage")
		store = storage.NewMemoryStorage()
	} else {
		logger.Info("Using PostgreSQL storage")
		dbConfig := storage.DatabaseConfig{
			Host:        cfg.Database.Host,
			Port:        cfg.Database.Port,
			User:        cfg.Database.User,
			Password:    cfg.Database.Password,
			DBName:      cfg.Database.DBName,
			SSLMode:     cfg.Database.SSLMode,
			UseInMemory: cfg.Database.UseInMemory,
		}
		store, err = storage.NewPostgresStorage(dbConfig)
		if err != nil {
			logger.Fatal("Failed to initialize storage", zap.Error(err))
		}
	}
	defer store.Close()

	characters := character.NewManager(store, cfg.Agent.CharacterRefresh, logger)

	gen := generator.NewOpenAIGenerator(
		cfg.OpenAI.APIKey,
		cfg.OpenAI.Model,
		cfg.OpenAI.MaxTokens,
		cfg.OpenAI.Temperature,
		cfg.Generator.Timeout,
		logger,
	)

	scorer, err := scoring.NewScorer(cfg.Weights())
	if err != nil {
		logger.Fatal("Failed to initialize scorer", zap.Error(err))
	}

	sched := schedule.NewScheduler(
		time.Duration(cfg.Delay.MinSeconds)*time.Second,
		time.Duration(cfg.Delay.MaxSeconds)*time.Second,
	)

	var fetcher *fetch.Fetcher
	if cfg.Fetch.MaxURLs > 0 {
		fetcher = fetch.NewFetcher(cfg.Fetch.MaxURLs, cfg.Fetch.MaxCharsPerURL, cfg.Fetch.Timeout, logger)
	}

	baseRole := defaultBaseRole
	if cfg.Agent.BaseRolePath != "" {
		data, err := os.ReadFile(cfg.Agent.BaseRolePath)
		if err != nil {
			logger.Fatal("Failed to read base role file",
				zap.String("path", cfg.Agent.BaseRolePath),
				zap.Error(err))
		}
		baseRole = strings.TrimSpace(string(data))
	}

	var tr transport.Transport
	switch cfg.Agent.Platform {
	case "telegram":
		tr, err = transport.NewTelegramTransport(transport.TelegramConfig{
			Token:   cfg.Telegram.Token,
			ChatID:  cfg.Telegram.ChatID,
			BotName: cfg.Agent.BotName,
		}, logger)
	default:
		tr, err = transport.NewDiscordTransport(transport.DiscordConfig{
			Token:     cfg.Discord.Token,
			ChannelID: cfg.Discord.ChannelID,
			BotName:   cfg.Agent.BotName,
		}, logger)
	}
	if err != nil {
		logger.Fatal("Failed to create transport", zap.Error(err))
	}

	a := agent.New(agent.Config{
		BotName:             cfg.Agent.BotName,
		Model:               cfg.OpenAI.Model,
		CandidateCount:      cfg.Generator.CandidateCount,
		HistoryWindow:       cfg.Conversation.HistoryWindow,
		ContextMaxChars:     cfg.Agent.ContextMaxChars,
		CooldownThreshold:   cfg.Conversation.CooldownThreshold,
		CooldownDuration:    cfg.Conversation.CooldownDuration,
		ResponseProbability: cfg.Agent.ResponseProbability,
		SimulateTyping:      cfg.Agent.SimulateTyping,
		BaseRole:            baseRole,
		DefaultReply:        cfg.Agent.DefaultReply,
	}, tr, gen, scorer, sched, characters, fetcher, store, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go a.RunOpener(ctx, agent.OpenerConfig{
		Enabled:   cfg.Opener.Enabled,
		Interval:  cfg.Opener.Interval,
		ChannelID: cfg.Opener.ChannelID,
	})

	logger.Info("Agent starting",
		zap.String("bot_name", cfg.Agent.BotName),
		zap.String("platform", cfg.Agent.Platform),
		zap.String("model", cfg.OpenAI.Model))

	if err := a.Run(ctx); err != nil {
		logger.Fatal("Agent error", zap.Error(err))
	}
}
