package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/xaenox/zoo-bot/internal/models"
)

//go:embed migrations.sql
var migrations embed.FS

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	UseInMemory bool
}

type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(config DatabaseConfig) (*PostgresStorage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	storage := &PostgresStorage{db: db}

	if err := storage.initializeSchema(); err != nil {
		return nil, fmt.Errorf("error initializing database schema: %w", err)
	}

	return storage, nil
}

func (s *PostgresStorage) initializeSchema() error {
	migrationSQL, err := migrations.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("error reading migrations file: %w", err)
	}

	if _, err := s.db.Exec(string(migrationSQL)); err != nil {
		return fmt.Errorf("error executing migrations: %w", err)
	}

	return nil
}

func (s *PostgresStorage) GetCharacter(ctx context.Context, name string) (*models.CharacterProfile, error) {
	query := `
		SELECT name, personality, speaking_style, language, interests, background, model, updated_at
		FROM characters
		WHERE LOWER(name) = LOWER($1)`

	profile := &models.CharacterProfile{}
	err := s.db.QueryRowContext(ctx, query, name).Scan(
		&profile.Name,
		&profile.Personality,
		&profile.SpeakingStyle,
		&profile.Language,
		pq.Array(&profile.Interests),
		&profile.Background,
		&profile.Model,
		&profile.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error querying character: %w", err)
	}

	return profile, nil
}

func (s *PostgresStorage) ListCharacters(ctx context.Context) ([]*models.CharacterProfile, error) {
	query := `
		SELECT name, personality, speaking_style, language, interests, background, model, updated_at
		FROM characters
		ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying characters: %w", err)
	}
	defer rows.Close()

	var profiles []*models.CharacterProfile
	for rows.Next() {
		profile := &models.CharacterProfile{}
		err := rows.Scan(
			&profile.Name,
			&profile.Personality,
			&profile.SpeakingStyle,
			&profile.Language,
			pq.Array(&profile.Interests),
			&profile.Background,
			&profile.Model,
			&profile.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning character: %w", err)
		}
		profiles = append(profiles, profile)
	}

	return profiles, rows.Err()
}

func (s *PostgresStorage) SaveCharacter(ctx context.Context, profile *models.CharacterProfile) error {
	query := `
		INSERT INTO characters (name, personality, speaking_style, language, interests, background, model, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (name) DO UPDATE SET
			personality = EXCLUDED.personality,
			speaking_style = EXCLUDED.speaking_style,
			language = EXCLUDED.language,
			interests = EXCLUDED.interests,
			background = EXCLUDED.background,
			model = EXCLUDED.model,
			updated_at = EXCLUDED.updated_at`

	_, err := s.db.ExecContext(ctx, query,
		profile.Name,
		profile.Personality,
		profile.SpeakingStyle,
		profile.Language,
		pq.Array(profile.Interests),
		profile.Background,
		profile.Model,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("error saving character: %w", err)
	}

	return nil
}

func (s *PostgresStorage) RecordRequest(ctx context.Context, record *models.RequestRecord) error {
	query := `
		INSERT INTO llm_requests (id, bot_name, channel_id, model, prompt_chars, candidate_count,
			chosen_text, utility, delay_ms, generation_ms, scoring_ms, history_ms, send_ms, total_ms, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err := s.db.ExecContext(ctx, query,
		record.ID,
		record.BotName,
		record.ChannelID,
		record.Model,
		record.PromptChars,
		record.CandidateCount,
		record.ChosenText,
		record.Utility,
		record.DelayTime.Milliseconds(),
		record.GenerationTime.Milliseconds(),
		record.ScoringTime.Milliseconds(),
		record.HistoryTime.Milliseconds(),
		record.SendTime.Milliseconds(),
		record.TotalTime.Milliseconds(),
		nullable(record.Error),
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error recording request: %w", err)
	}

	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}
