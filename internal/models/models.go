package models

import "time"

// Message represents a single chat turn in a channel. Immutable once created.
type Message struct {
	ChannelID     string    `json:"channel_id"`
	AuthorID      string    `json:"author_id"`
	AuthorName    string    `json:"author_name"`
	AgentAuthored bool      `json:"agent_authored"`
	Text          string    `json:"text"`
	Timestamp     time.Time `json:"timestamp"`
}

// CharacterProfile describes the persona an agent plays in chat.
type CharacterProfile struct {
	Name          string    `json:"name"`
	Personality   string    `json:"personality"`
	SpeakingStyle string    `json:"speaking_style"`
	Language      string    `json:"language"`
	Interests     []string  `json:"interests"`
	Background    string    `json:"background"`
	Model         string    `json:"model"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// RequestRecord captures one response-selection round for observability.
// Recording is best effort and never affects dispatch.
type RequestRecord struct {
	ID             string        `json:"id"`
	BotName        string        `json:"bot_name"`
	ChannelID      string        `json:"channel_id"`
	Model          string        `json:"model"`
	PromptChars    int           `json:"prompt_chars"`
	CandidateCount int           `json:"candidate_count"`
	ChosenText     string        `json:"chosen_text"`
	Utility        float64       `json:"utility"`
	DelayTime      time.Duration `json:"delay_time"`
	GenerationTime time.Duration `json:"generation_time"`
	ScoringTime    time.Duration `json:"scoring_time"`
	HistoryTime    time.Duration `json:"history_time"`
	SendTime       time.Duration `json:"send_time"`
	TotalTime      time.Duration `json:"total_time"`
	Error          string        `json:"error,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}
