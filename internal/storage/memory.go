package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/xaenox/zoo-bot/internal/models"
)

// MemoryStorage is the in-memory twin of PostgresStorage, for local
// runs and tests.
type MemoryStorage struct {
	mu         sync.RWMutex
	characters map[string]*models.CharacterProfile
	requests   []*models.RequestRecord
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		characters: make(map[string]*models.CharacterProfile),
	}
}

func (s *MemoryStorage) GetCharacter(ctx context.Context, name string) (*models.CharacterProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if profile, exists := s.characters[strings.ToLower(name)]; exists {
		copied := *profile
		return &copied, nil
	}
	return nil, nil
}

func (s *MemoryStorage) ListCharacters(ctx context.Context) ([]*models.CharacterProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profiles := make([]*models.CharacterProfile, 0, len(s.characters))
	for _, profile := range s.characters {
		copied := *profile
		profiles = append(profiles, &copied)
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].Name < profiles[j].Name })
	return profiles, nil
}

func (s *MemoryStorage) SaveCharacter(ctx context.Context, profile *models.CharacterProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *profile
	copied.UpdatedAt = time.Now()
	s.characters[strings.ToLower(profile.Name)] = &copied
	return nil
}

func (s *MemoryStorage) RecordRequest(ctx context.Context, record *models.RequestRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *record
	s.requests = append(s.requests, &copied)
	return nil
}

// Requests returns a snapshot of the recorded requests, oldest first.
func (s *MemoryStorage) Requests() []*models.RequestRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.RequestRecord, len(s.requests))
	copy(out, s.requests)
	return out
}

func (s *MemoryStorage) Close() error {
	// Nothing to close for in-memory storage
	return nil
}
