package services

import (
	"context"
	"math/rand"

	"github.com/google/uuid"

	"cardforge-backend/internal/models"
)

// Study limit bounds. Out-of-range requests are clamped silently, never
// rejected.
const (
	MinStudyLimit = 1
	MaxStudyLimit = 50
)

type approvedLister interface {
	ListApprovedRecent(ctx context.Context, userID uuid.UUID, limit int) ([]models.Flashcard, error)
}

type StudyService struct {
	cards approvedLister

	// shuffle permutes n elements via swap; replaced in tests for a
	// deterministic order.
	shuffle func(n int, swap func(i, j int))
}

func NewStudyService(cards approvedLister) *StudyService {
	return &StudyService{
		cards:   cards,
		shuffle: rand.Shuffle,
	}
}

// SelectForStudy fetches the user's most-recent-N approved cards and
// returns them in uniform random order. The selected set is
// deterministic (newest N), the presented order is not. An empty result
// is a valid "nothing to study" answer, not an error.
func (s *StudyService) SelectForStudy(ctx context.Context, userID uuid.UUID, limit int) ([]models.Flashcard, error) {
	limit = ClampStudyLimit(limit)

	cards, err := s.cards.ListApprovedRecent(ctx, userID, limit)
	if err != nil {
		return nil, &PersistenceError{Message: "failed to fetch flashcards for study", Err: err}
	}

	s.shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})

	return cards, nil
}

func ClampStudyLimit(limit int) int {
	if limit < MinStudyLimit {
		return MinStudyLimit
	}
	if limit > MaxStudyLimit {
		return MaxStudyLimit
	}
	return limit
}
