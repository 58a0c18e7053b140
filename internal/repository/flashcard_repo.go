package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"cardforge-backend/internal/models"
)

type FlashcardRepo struct {
	pool *pgxpool.Pool
}

func NewFlashcardRepo(pool *pgxpool.Pool) *FlashcardRepo {
	return &FlashcardRepo{pool: pool}
}

// InsertApproved writes one batch of approved cards inside a single
// transaction. Either every row is inserted or none are; there is no
// partial commit. Every inserted row is stamped source=AI and
// status=approved regardless of what the caller set on the contents.
func (r *FlashcardRepo) InsertApproved(ctx context.Context, userID uuid.UUID, cards []models.CardContent) ([]models.Flashcard, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO flashcards (id, user_id, front, back, source, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	inserted := make([]models.Flashcard, 0, len(cards))
	for _, card := range cards {
		f := models.Flashcard{
			ID:     uuid.New(),
			UserID: userID,
			Front:  card.Front,
			Back:   card.Back,
			Source: models.SourceAI,
			Status: models.StatusApproved,
		}

		err := tx.QueryRow(ctx, query,
			f.ID, f.UserID, f.Front, f.Back, f.Source, f.Status,
		).Scan(&f.CreatedAt, &f.UpdatedAt)
		if err != nil {
			return nil, err
		}
		inserted = append(inserted, f)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return inserted, nil
}

// Create inserts one card, used by the manual creation path.
func (r *FlashcardRepo) Create(ctx context.Context, f *models.Flashcard) error {
	f.ID = uuid.New()

	query := `INSERT INTO flashcards (id, user_id, front, back, source, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		f.ID, f.UserID, f.Front, f.Back, f.Source, f.Status,
	).Scan(&f.CreatedAt, &f.UpdatedAt)
}

func (r *FlashcardRepo) ListByUser(ctx context.Context, userID uuid.UUID, status string) ([]models.Flashcard, error) {
	query := `SELECT id, user_id, front, back, source, status, created_at, updated_at
		FROM flashcards WHERE user_id = $1 AND status = $2 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cards := []models.Flashcard{}
	for rows.Next() {
		var f models.Flashcard
		err := rows.Scan(&f.ID, &f.UserID, &f.Front, &f.Back, &f.Source, &f.Status, &f.CreatedAt, &f.UpdatedAt)
		if err != nil {
			return nil, err
		}
		cards = append(cards, f)
	}
	return cards, rows.Err()
}

// ListApprovedRecent returns the user's most recently created approved
// cards, capped at limit. Ordering is newest-first; the study selector
// shuffles afterwards.
func (r *FlashcardRepo) ListApprovedRecent(ctx context.Context, userID uuid.UUID, limit int) ([]models.Flashcard, error) {
	query := `SELECT id, user_id, front, back, source, status, created_at, updated_at
		FROM flashcards WHERE user_id = $1 AND status = $2
		ORDER BY created_at DESC LIMIT $3`

	rows, err := r.pool.Query(ctx, query, userID, models.StatusApproved, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cards := []models.Flashcard{}
	for rows.Next() {
		var f models.Flashcard
		err := rows.Scan(&f.ID, &f.UserID, &f.Front, &f.Back, &f.Source, &f.Status, &f.CreatedAt, &f.UpdatedAt)
		if err != nil {
			return nil, err
		}
		cards = append(cards, f)
	}
	return cards, rows.Err()
}
