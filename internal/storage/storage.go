package storage

import (
	"context"

	"github.com/xaenox/zoo-bot/internal/models"
)

// Storage persists character profiles and the request log. Request
// recording is best effort: callers log failures and move on.
type Storage interface {
	GetCharacter(ctx context.Context, name string) (*models.CharacterProfile, error)
	ListCharacters(ctx context.Context) ([]*models.CharacterProfile, error)
	SaveCharacter(ctx context.Context, profile *models.CharacterProfile) error

	RecordRequest(ctx context.Context, record *models.RequestRecord) error

	Close() error
}
