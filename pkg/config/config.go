package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/xaenox/zoo-bot/internal/scoring"
)

type Config struct {
	Agent        AgentConfig        `mapstructure:"agent"`
	Scoring      ScoringConfig      `mapstructure:"scoring"`
	Conversation ConversationConfig `mapstructure:"conversation"`
	Delay        DelayConfig        `mapstructure:"delay"`
	Generator    GeneratorConfig    `mapstructure:"generator"`
	Opener       OpenerConfig       `mapstructure:"opener"`
	Fetch        FetchConfig        `mapstructure:"fetch"`
	Database     DatabaseConfig     `mapstructure:"database"`
	OpenAI       OpenAIConfig       `mapstructure:"openai"`
	Discord      DiscordConfig      `mapstructure:"discord"`
	Telegram     TelegramConfig     `mapstructure:"telegram"`
}

type AgentConfig struct {
	BotName             string        `mapstructure:"bot_name"`
	Platform            string        `mapstructure:"platform"`
	ResponseProbability float64       `mapstructure:"response_probability"`
	SimulateTyping      bool          `mapstructure:"simulate_typing"`
	ContextMaxChars     int           `mapstructure:"context_max_chars"`
	BaseRolePath        string        `mapstructure:"base_role_path"`
	DefaultReply        string        `mapstructure:"default_reply"`
	CharacterRefresh    time.Duration `mapstructure:"character_refresh"`
}

type ScoringConfig struct {
	EvaluationWeights []float64 `mapstructure:"evaluation_weights"`
	CostWeights       []float64 `mapstructure:"cost_weights"`
}

type ConversationConfig struct {
	CooldownThreshold int           `mapstructure:"cooldown_threshold"`
	CooldownDuration  time.Duration `mapstructure:"cooldown_duration"`
	HistoryWindow     int           `mapstructure:"history_window"`
}

type DelayConfig struct {
	MinSeconds int `mapstructure:"min_seconds"`
	MaxSeconds int `mapstructure:"max_seconds"`
}

type GeneratorConfig struct {
	CandidateCount int           `mapstructure:"candidate_count"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

type OpenerConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Interval  time.Duration `mapstructure:"interval"`
	ChannelID string        `mapstructure:"channel_id"`
}

type FetchConfig struct {
	MaxURLs        int           `mapstructure:"max_urls"`
	MaxCharsPerURL int           `mapstructure:"max_chars_per_url"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

type DatabaseConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	User        string `mapstructure:"user"`
	Password    string `mapstructure:"password"`
	DBName      string `mapstructure:"dbname"`
	SSLMode     string `mapstructure:"sslmode"`
	UseInMemory bool   `mapstructure:"use_in_memory"`
}

type OpenAIConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
}

type DiscordConfig struct {
	Token     string `mapstructure:"token"`
	ChannelID string `mapstructure:"channel_id"`
}

type TelegramConfig struct {
	Token  string `mapstructure:"token"`
	ChatID int64  `mapstructure:"chat_id"`
}

func parseDatabaseURL(dbURL string) (DatabaseConfig, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return DatabaseConfig{}, err
	}

	password, _ := u.User.Password()
	port := 5432 // default PostgreSQL port
	if u.Port() != "" {
		fmt.Sscanf(u.Port(), "%d", &port)
	}

	// Remove leading slash from path to get database name
	dbName := strings.TrimPrefix(u.Path, "/")

	return DatabaseConfig{
		Host:     u.Hostname(),
		Port:     port,
		User:     u.User.Username(),
		Password: password,
		DBName:   dbName,
		SSLMode:  "disable",
	}, nil
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("agent.bot_name", "zoo-bot")
	v.SetDefault("agent.platform", "discord")
	v.SetDefault("agent.response_probability", 1.0)
	v.SetDefault("agent.simulate_typing", true)
	v.SetDefault("agent.context_max_chars", 6000)
	v.SetDefault("agent.default_reply", "Hm, give me a second to think about that one.")
	v.SetDefault("agent.character_refresh", "1h")
	v.SetDefault("scoring.evaluation_weights", []float64{1.0, 0.8, 0.6})
	v.SetDefault("scoring.cost_weights", []float64{0.5, 0.3, 0.2})
	v.SetDefault("conversation.cooldown_threshold", 10)
	v.SetDefault("conversation.cooldown_duration", "2m")
	v.SetDefault("conversation.history_window", 10)
	v.SetDefault("delay.min_seconds", 5)
	v.SetDefault("delay.max_seconds", 15)
	v.SetDefault("generator.candidate_count", 3)
	v.SetDefault("generator.timeout", "30s")
	v.SetDefault("opener.enabled", false)
	v.SetDefault("opener.interval", "6h")
	v.SetDefault("fetch.max_urls", 3)
	v.SetDefault("fetch.max_chars_per_url", 1000)
	v.SetDefault("fetch.timeout", "10s")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.use_in_memory", false)
	v.SetDefault("openai.model", "gpt-4")
	v.SetDefault("openai.max_tokens", 500)
	v.SetDefault("openai.temperature", 0.7)

	// Enable environment variable support
	v.AutomaticEnv()

	// Read the config file
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Check for DATABASE_URL environment variable
	if dbURL := v.GetString("DATABASE_URL"); dbURL != "" {
		dbConfig, err := parseDatabaseURL(dbURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse DATABASE_URL: %w", err)
		}
		config.Database = dbConfig
	}

	// Get other environment variables
	if token := v.GetString("DISCORD_TOKEN"); token != "" {
		config.Discord.Token = token
	}
	if token := v.GetString("TELEGRAM_TOKEN"); token != "" {
		config.Telegram.Token = token
	}
	if apiKey := v.GetString("OPENAI_API_KEY"); apiKey != "" {
		config.OpenAI.APIKey = apiKey
	}
	if name := v.GetString("BOT_NAME"); name != "" {
		config.Agent.BotName = name
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Weights returns the configured utility weight vectors.
func (c *Config) Weights() scoring.Weights {
	return scoring.Weights{
		Evaluation: c.Scoring.EvaluationWeights,
		Cost:       c.Scoring.CostWeights,
	}
}

// Validate rejects out-of-range options and weight vectors that do not
// match the scoring dimension lists. Runs at load time so a bad
// configuration never reaches a scoring call.
func (c *Config) Validate() error {
	if err := c.Weights().Validate(); err != nil {
		return err
	}

	if c.Agent.Platform != "discord" && c.Agent.Platform != "telegram" {
		return fmt.Errorf("agent.platform must be \"discord\" or \"telegram\", got %q", c.Agent.Platform)
	}
	if c.Agent.ResponseProbability < 0 || c.Agent.ResponseProbability > 1 {
		return fmt.Errorf("agent.response_probability must be in [0,1], got %v", c.Agent.ResponseProbability)
	}
	if c.Agent.ContextMaxChars < 200 {
		return fmt.Errorf("agent.context_max_chars must be at least 200, got %d", c.Agent.ContextMaxChars)
	}
	if c.Agent.CharacterRefresh < time.Minute || c.Agent.CharacterRefresh > 24*time.Hour {
		return fmt.Errorf("agent.character_refresh must be in [1m,24h], got %v", c.Agent.CharacterRefresh)
	}

	if c.Conversation.CooldownThreshold < 1 || c.Conversation.CooldownThreshold > 1000 {
		return fmt.Errorf("conversation.cooldown_threshold must be in [1,1000], got %d", c.Conversation.CooldownThreshold)
	}
	if c.Conversation.CooldownDuration < time.Second || c.Conversation.CooldownDuration > time.Hour {
		return fmt.Errorf("conversation.cooldown_duration must be in [1s,1h], got %v", c.Conversation.CooldownDuration)
	}
	if c.Conversation.HistoryWindow < 1 || c.Conversation.HistoryWindow > 500 {
		return fmt.Errorf("conversation.history_window must be in [1,500], got %d", c.Conversation.HistoryWindow)
	}

	if c.Delay.MinSeconds < 0 {
		return fmt.Errorf("delay.min_seconds must be non-negative, got %d", c.Delay.MinSeconds)
	}
	if c.Delay.MaxSeconds < c.Delay.MinSeconds || c.Delay.MaxSeconds > 600 {
		return fmt.Errorf("delay.max_seconds must be in [min_seconds,600], got %d", c.Delay.MaxSeconds)
	}

	if c.Generator.CandidateCount < 1 || c.Generator.CandidateCount > 10 {
		return fmt.Errorf("generator.candidate_count must be in [1,10], got %d", c.Generator.CandidateCount)
	}
	if c.Generator.Timeout < time.Second || c.Generator.Timeout > 5*time.Minute {
		return fmt.Errorf("generator.timeout must be in [1s,5m], got %v", c.Generator.Timeout)
	}

	if c.Opener.Enabled {
		if c.Opener.Interval < time.Minute {
			return fmt.Errorf("opener.interval must be at least 1m, got %v", c.Opener.Interval)
		}
		if c.Opener.ChannelID == "" {
			return fmt.Errorf("opener.channel_id is required when the opener is enabled")
		}
	}

	if c.Fetch.MaxURLs < 0 || c.Fetch.MaxURLs > 10 {
		return fmt.Errorf("fetch.max_urls must be in [0,10], got %d", c.Fetch.MaxURLs)
	}
	if c.Fetch.MaxURLs > 0 && (c.Fetch.MaxCharsPerURL < 100 || c.Fetch.MaxCharsPerURL > 10000) {
		return fmt.Errorf("fetch.max_chars_per_url must be in [100,10000], got %d", c.Fetch.MaxCharsPerURL)
	}
	if c.Fetch.MaxURLs > 0 && (c.Fetch.Timeout < time.Second || c.Fetch.Timeout > time.Minute) {
		return fmt.Errorf("fetch.timeout must be in [1s,1m], got %v", c.Fetch.Timeout)
	}

	return nil
}
