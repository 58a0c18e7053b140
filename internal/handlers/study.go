package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"cardforge-backend/internal/middleware"
	"cardforge-backend/internal/models"
)

// defaultStudyLimit applies when the limit query parameter is absent or
// unparseable.
const defaultStudyLimit = 10

type studySelector interface {
	SelectForStudy(ctx context.Context, userID uuid.UUID, limit int) ([]models.Flashcard, error)
}

type StudyHandler struct {
	study studySelector
}

func NewStudyHandler(study studySelector) *StudyHandler {
	return &StudyHandler{study: study}
}

// Study returns approved cards in random order. An empty array means
// there is nothing to study; that is a success, not an error.
func (h *StudyHandler) Study(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		limit = defaultStudyLimit
	}

	userID := middleware.GetUserID(r.Context())

	cards, err := h.study.SelectForStudy(r.Context(), userID, limit)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, cards)
}
