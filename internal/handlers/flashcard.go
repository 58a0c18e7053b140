package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"cardforge-backend/internal/middleware"
	"cardforge-backend/internal/models"
	"cardforge-backend/internal/services"
)

type flashcardRepository interface {
	InsertApproved(ctx context.Context, userID uuid.UUID, cards []models.CardContent) ([]models.Flashcard, error)
	Create(ctx context.Context, f *models.Flashcard) error
	ListByUser(ctx context.Context, userID uuid.UUID, status string) ([]models.Flashcard, error)
}

type FlashcardHandler struct {
	cards flashcardRepository
}

func NewFlashcardHandler(cards flashcardRepository) *FlashcardHandler {
	return &FlashcardHandler{cards: cards}
}

// Approve persists a reviewed batch as durable approved flashcards. The
// whole batch is validated before any row is written; the insert is
// all-or-nothing.
func (h *FlashcardHandler) Approve(w http.ResponseWriter, r *http.Request) {
	var req models.ApproveFlashcardsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, validationMsgResp("Invalid request body"))
		return
	}

	if err := services.ValidateCardContents(req.Flashcards); err != nil {
		handleServiceError(w, err)
		return
	}

	userID := middleware.GetUserID(r.Context())

	inserted, err := h.cards.InsertApproved(r.Context(), userID, req.Flashcards)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, internalResp("Failed to approve flashcards"))
		return
	}

	writeJSON(w, http.StatusCreated, models.ApproveFlashcardsResponse{
		Message:    "Flashcards approved successfully",
		Count:      len(inserted),
		Flashcards: inserted,
	})
}

// List returns the user's flashcards filtered by status, newest first,
// as a plain array.
func (h *FlashcardHandler) List(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" {
		status = models.StatusApproved
	}
	if status != models.StatusDraft && status != models.StatusApproved && status != models.StatusRejected {
		writeJSON(w, http.StatusBadRequest, validationMsgResp("status must be draft, approved, or rejected"))
		return
	}

	userID := middleware.GetUserID(r.Context())

	cards, err := h.cards.ListByUser(r.Context(), userID, status)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, internalResp("Failed to fetch flashcards"))
		return
	}

	writeJSON(w, http.StatusOK, cards)
}

// Create inserts a single manually written card.
func (h *FlashcardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateFlashcardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, validationMsgResp("Invalid request body"))
		return
	}

	req.Front = strings.TrimSpace(req.Front)
	req.Back = strings.TrimSpace(req.Back)
	if req.Front == "" || req.Back == "" {
		writeJSON(w, http.StatusBadRequest, validationMsgResp("Both front and back are required"))
		return
	}

	if req.Source == "" {
		req.Source = models.SourceManual
	}
	if req.Status == "" {
		req.Status = models.StatusApproved
	}
	if req.Source != models.SourceAI && req.Source != models.SourceManual {
		writeJSON(w, http.StatusBadRequest, validationMsgResp("source must be AI or MANUAL"))
		return
	}
	if req.Status != models.StatusDraft && req.Status != models.StatusApproved && req.Status != models.StatusRejected {
		writeJSON(w, http.StatusBadRequest, validationMsgResp("status must be draft, approved, or rejected"))
		return
	}

	card := &models.Flashcard{
		UserID: middleware.GetUserID(r.Context()),
		Front:  req.Front,
		Back:   req.Back,
		Source: req.Source,
		Status: req.Status,
	}

	if err := h.cards.Create(r.Context(), card); err != nil {
		writeJSON(w, http.StatusInternalServerError, internalResp("Failed to create flashcard"))
		return
	}

	writeJSON(w, http.StatusCreated, card)
}
