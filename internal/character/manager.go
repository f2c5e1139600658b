package character

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/xaenox/zoo-bot/internal/models"
	"github.com/xaenox/zoo-bot/internal/storage"
	"go.uber.org/zap"
)

// BotGuidance is appended to the system prompt when the inbound author
// is another agent, to keep bot-to-bot exchanges from drifting into
// stilted agreement loops.
const BotGuidance = `You are currently replying to another AI agent. Follow these guidelines:
1. Do not open with agreement fillers such as "You're so right" or "Exactly as you say".
2. Answer the question directly; do not phrase things as if you already knew what they were going to say.
3. When stating opinions, own them explicitly ("I think...", "In my view...").
4. Keep the conversation natural and avoid unnatural foreshadowing.`

// Manager loads character profiles from storage with a refresh-interval
// cache and falls back to a default profile when a character is missing.
type Manager struct {
	store   storage.Storage
	refresh time.Duration
	logger  *zap.Logger

	mu          sync.RWMutex
	cache       map[string]*models.CharacterProfile
	lastRefresh time.Time
}

func NewManager(store storage.Storage, refresh time.Duration, logger *zap.Logger) *Manager {
	return &Manager{
		store:   store,
		refresh: refresh,
		logger:  logger,
		cache:   make(map[string]*models.CharacterProfile),
	}
}

// Character returns the profile for name, refreshing the cache when the
// interval has elapsed. It never returns nil: unknown characters get
// DefaultProfile so an agent can always speak.
func (m *Manager) Character(ctx context.Context, name string) *models.CharacterProfile {
	m.mu.RLock()
	stale := time.Since(m.lastRefresh) > m.refresh
	profile := m.cache[strings.ToLower(name)]
	m.mu.RUnlock()

	if stale {
		m.refreshCache(ctx)
		m.mu.RLock()
		profile = m.cache[strings.ToLower(name)]
		m.mu.RUnlock()
	}

	if profile == nil {
		m.logger.Warn("Character not found, using default profile",
			zap.String("character", name))
		return DefaultProfile(name)
	}
	copied := *profile
	return &copied
}

func (m *Manager) refreshCache(ctx context.Context) {
	profiles, err := m.store.ListCharacters(ctx)
	if err != nil {
		m.logger.Error("Failed to refresh character cache", zap.Error(err))
		return
	}

	next := make(map[string]*models.CharacterProfile, len(profiles))
	for _, p := range profiles {
		next[strings.ToLower(p.Name)] = p
	}

	m.mu.Lock()
	m.cache = next
	m.lastRefresh = time.Now()
	m.mu.Unlock()

	m.logger.Info("Character cache refreshed", zap.Int("characters", len(profiles)))
}

// DefaultProfile returns the fallback persona used when storage has no
// entry for the character.
func DefaultProfile(name string) *models.CharacterProfile {
	return &models.CharacterProfile{
		Name:          name,
		Personality:   "Friendly and helpful",
		SpeakingStyle: "Casual and conversational",
		Language:      "English",
		Model:         "gpt-4",
	}
}

// SystemPrompt formats a profile into the system prompt, prefixed with
// the shared base role.
func SystemPrompt(p *models.CharacterProfile, baseRole string) string {
	var b strings.Builder
	if baseRole != "" {
		b.WriteString(baseRole)
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "You are %s.\n", p.Name)
	if p.Personality != "" {
		fmt.Fprintf(&b, "Personality: %s\n", p.Personality)
	}
	if p.SpeakingStyle != "" {
		fmt.Fprintf(&b, "Speaking style: %s\n", p.SpeakingStyle)
	}
	if p.Language != "" {
		fmt.Fprintf(&b, "Language: %s\n", p.Language)
	}
	if len(p.Interests) > 0 {
		fmt.Fprintf(&b, "Interests: %s\n", strings.Join(p.Interests, ", "))
	}
	if p.Background != "" {
		fmt.Fprintf(&b, "Background: %s\n", p.Background)
	}
	b.WriteString("\nStay in character. Reply directly and conversationally; your reply is posted to the chat as-is. Aim for around 200 characters.")
	return b.String()
}

// Keywords extracts the character's salient terms, feeding the
// character-adherence heuristic.
func Keywords(p *models.CharacterProfile) []string {
	seen := make(map[string]struct{})
	var keywords []string
	add := func(words []string) {
		for _, w := range words {
			w = strings.ToLower(strings.TrimSpace(w))
			if w == "" {
				continue
			}
			if _, ok := seen[w]; ok {
				continue
			}
			seen[w] = struct{}{}
			keywords = append(keywords, w)
		}
	}

	add(strings.Fields(p.Personality))
	add(strings.Fields(p.SpeakingStyle))
	add(p.Interests)
	return keywords
}
