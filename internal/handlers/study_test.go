package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"cardforge-backend/internal/models"
	"cardforge-backend/internal/services"
)

type stubStudySelector struct {
	gotLimit int
	cards    []models.Flashcard
	err      error
}

func (s *stubStudySelector) SelectForStudy(ctx context.Context, userID uuid.UUID, limit int) ([]models.Flashcard, error) {
	s.gotLimit = limit
	if s.err != nil {
		return nil, s.err
	}
	return s.cards, nil
}

func TestStudy_DefaultLimit(t *testing.T) {
	sel := &stubStudySelector{cards: []models.Flashcard{}}
	h := NewStudyHandler(sel)

	req := authedRequest(t, http.MethodGet, "/api/v1/flashcards/study", nil)
	rr := httptest.NewRecorder()
	h.Study(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if sel.gotLimit != defaultStudyLimit {
		t.Errorf("expected default limit %d, got %d", defaultStudyLimit, sel.gotLimit)
	}
}

func TestStudy_ExplicitLimitReachesService(t *testing.T) {
	sel := &stubStudySelector{cards: []models.Flashcard{}}
	h := NewStudyHandler(sel)

	req := authedRequest(t, http.MethodGet, "/api/v1/flashcards/study?limit=25", nil)
	rr := httptest.NewRecorder()
	h.Study(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if sel.gotLimit != 25 {
		t.Errorf("expected limit 25, got %d", sel.gotLimit)
	}
}

func TestStudy_UnparseableLimitFallsBack(t *testing.T) {
	sel := &stubStudySelector{cards: []models.Flashcard{}}
	h := NewStudyHandler(sel)

	req := authedRequest(t, http.MethodGet, "/api/v1/flashcards/study?limit=banana", nil)
	rr := httptest.NewRecorder()
	h.Study(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if sel.gotLimit != defaultStudyLimit {
		t.Errorf("expected fallback to %d, got %d", defaultStudyLimit, sel.gotLimit)
	}
}

func TestStudy_EmptyDeckIsSuccess(t *testing.T) {
	sel := &stubStudySelector{cards: []models.Flashcard{}}
	h := NewStudyHandler(sel)

	req := authedRequest(t, http.MethodGet, "/api/v1/flashcards/study", nil)
	rr := httptest.NewRecorder()
	h.Study(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var cards []models.Flashcard
	if err := json.NewDecoder(rr.Body).Decode(&cards); err != nil {
		t.Fatalf("expected a JSON array: %v", err)
	}
	if cards == nil || len(cards) != 0 {
		t.Errorf("expected empty array, got %v", cards)
	}
}

func TestStudy_RepoFailure(t *testing.T) {
	sel := &stubStudySelector{err: &services.PersistenceError{
		Message: "Failed to fetch study cards",
		Err:     context.DeadlineExceeded,
	}}
	h := NewStudyHandler(sel)

	req := authedRequest(t, http.MethodGet, "/api/v1/flashcards/study", nil)
	rr := httptest.NewRecorder()
	h.Study(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
}
