package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"cardforge-backend/internal/middleware"
	"cardforge-backend/internal/models"
	"cardforge-backend/internal/review"
	"cardforge-backend/internal/services"
)

// ReviewHandler exposes the review state machine over HTTP: one live
// session per generation, approve/reject/edit decisions, and a final
// save that persists the approved subset.
type ReviewHandler struct {
	store *review.Store
	cards flashcardRepository
}

func NewReviewHandler(store *review.Store, cards flashcardRepository) *ReviewHandler {
	return &ReviewHandler{store: store, cards: cards}
}

type reviewSessionResponse struct {
	ReviewSessionID uuid.UUID     `json:"review_session_id"`
	Items           []review.Item `json:"items"`
	ApprovedCount   int           `json:"approved_count"`
	EditingItemID   string        `json:"editing_item_id,omitempty"`
}

// CreateSession opens a review session over a generated candidate list.
// Candidates are validated up front: an item that cannot legally be
// approved must not enter the session at all.
func (h *ReviewHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req models.ApproveFlashcardsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, validationMsgResp("Invalid request body"))
		return
	}

	if err := services.ValidateCardContents(req.Flashcards); err != nil {
		handleServiceError(w, err)
		return
	}

	id, session := h.store.Create(req.Flashcards)

	writeJSON(w, http.StatusCreated, reviewSessionResponse{
		ReviewSessionID: id,
		Items:           session.Items(),
	})
}

func (h *ReviewHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, session, ok := h.lookup(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, reviewSessionResponse{
		ReviewSessionID: id,
		Items:           session.Items(),
		ApprovedCount:   session.ApprovedCount(),
		EditingItemID:   session.EditingID(),
	})
}

func (h *ReviewHandler) ApproveItem(w http.ResponseWriter, r *http.Request) {
	_, session, ok := h.lookup(w, r)
	if !ok {
		return
	}

	session.Approve(chi.URLParam(r, "itemID"))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items":          session.Items(),
		"approved_count": session.ApprovedCount(),
	})
}

func (h *ReviewHandler) RejectItem(w http.ResponseWriter, r *http.Request) {
	_, session, ok := h.lookup(w, r)
	if !ok {
		return
	}

	session.Reject(chi.URLParam(r, "itemID"))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items":          session.Items(),
		"approved_count": session.ApprovedCount(),
	})
}

func (h *ReviewHandler) BeginEdit(w http.ResponseWriter, r *http.Request) {
	_, session, ok := h.lookup(w, r)
	if !ok {
		return
	}

	session.BeginEdit(chi.URLParam(r, "itemID"))
	writeJSON(w, http.StatusOK, map[string]string{
		"editing_item_id": session.EditingID(),
	})
}

func (h *ReviewHandler) CancelEdit(w http.ResponseWriter, r *http.Request) {
	_, session, ok := h.lookup(w, r)
	if !ok {
		return
	}

	session.CancelEdit()
	writeJSON(w, http.StatusOK, map[string]string{"message": "Edit cancelled"})
}

// CommitEdit saves edited content; a saved edit is an approval.
func (h *ReviewHandler) CommitEdit(w http.ResponseWriter, r *http.Request) {
	_, session, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req models.CardContent
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, validationMsgResp("Invalid request body"))
		return
	}

	if err := session.CommitEdit(chi.URLParam(r, "itemID"), req.Front, req.Back); err != nil {
		if review.IsBlankContent(err) {
			writeJSON(w, http.StatusBadRequest, validationMsgResp("Both front and back must be non-blank"))
			return
		}
		if review.IsUnknownItem(err) {
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{
				Error:   "Not found",
				Message: "Review item not found",
			})
			return
		}
		writeJSON(w, http.StatusInternalServerError, internalResp("Failed to save edit"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items":          session.Items(),
		"approved_count": session.ApprovedCount(),
	})
}

// Save persists the approved subset and closes the session. Saving with
// zero approved items is a contract violation, not a silent no-op.
func (h *ReviewHandler) Save(w http.ResponseWriter, r *http.Request) {
	id, session, ok := h.lookup(w, r)
	if !ok {
		return
	}

	approved := session.ApprovedContents()
	if len(approved) == 0 {
		writeJSON(w, http.StatusBadRequest, validationMsgResp("No approved flashcards to save"))
		return
	}

	// Session entry and edits are both validated, so this only fires if
	// that contract is broken; nothing blank may reach the insert.
	if err := services.ValidateCardContents(approved); err != nil {
		handleServiceError(w, err)
		return
	}

	userID := middleware.GetUserID(r.Context())

	inserted, err := h.cards.InsertApproved(r.Context(), userID, approved)
	if err != nil {
		// The session stays alive so the user can retry without
		// re-approving every card.
		writeJSON(w, http.StatusInternalServerError, internalResp("Failed to approve flashcards"))
		return
	}

	h.store.Delete(id)

	writeJSON(w, http.StatusCreated, models.ApproveFlashcardsResponse{
		Message:    "Flashcards approved successfully",
		Count:      len(inserted),
		Flashcards: inserted,
	})
}

func (h *ReviewHandler) lookup(w http.ResponseWriter, r *http.Request) (uuid.UUID, *review.Session, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, validationMsgResp("Invalid review session ID"))
		return uuid.Nil, nil, false
	}

	session, ok := h.store.Get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{
			Error:   "Not found",
			Message: "Review session not found or expired",
		})
		return uuid.Nil, nil, false
	}
	return id, session, true
}
