package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"cardforge-backend/internal/models"
)

type GenerationSessionRepo struct {
	pool *pgxpool.Pool
}

func NewGenerationSessionRepo(pool *pgxpool.Pool) *GenerationSessionRepo {
	return &GenerationSessionRepo{pool: pool}
}

// Create writes the session as a single insert after generation has
// completed. Sessions are immutable; there is no update method.
func (r *GenerationSessionRepo) Create(ctx context.Context, s *models.GenerationSession) error {
	s.ID = uuid.New()

	query := `INSERT INTO generation_sessions (id, user_id, session_input, input_hash, session_output)
		VALUES ($1, $2, $3, $4, $5) RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		s.ID, s.UserID, s.SessionInput, s.InputHash, s.SessionOutput,
	).Scan(&s.CreatedAt)
}

func (r *GenerationSessionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.GenerationSession, error) {
	s := &models.GenerationSession{}
	query := `SELECT id, user_id, session_input, input_hash, session_output, created_at
		FROM generation_sessions WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.UserID, &s.SessionInput, &s.InputHash, &s.SessionOutput, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *GenerationSessionRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.GenerationSession, error) {
	query := `SELECT id, user_id, session_input, input_hash, session_output, created_at
		FROM generation_sessions WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*models.GenerationSession
	for rows.Next() {
		s := &models.GenerationSession{}
		err := rows.Scan(&s.ID, &s.UserID, &s.SessionInput, &s.InputHash, &s.SessionOutput, &s.CreatedAt)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
