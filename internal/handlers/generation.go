package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"cardforge-backend/internal/middleware"
	"cardforge-backend/internal/models"
	"cardforge-backend/internal/services"
)

// minSessionInputLen is the server-side floor; the frontend enforces a
// stricter 1000-10000 character window before submitting.
const minSessionInputLen = 10

// History pagination bounds.
const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type generationService interface {
	Generate(ctx context.Context, userID uuid.UUID, input string) (*models.GenerateResponse, error)
}

type generationSessionReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.GenerationSession, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.GenerationSession, error)
}

type GenerationHandler struct {
	generator generationService
	sessions  generationSessionReader
}

func NewGenerationHandler(generator generationService, sessions generationSessionReader) *GenerationHandler {
	return &GenerationHandler{generator: generator, sessions: sessions}
}

// Generate runs one synchronous generation round trip: validate the
// input, call the AI through the generation service, persist the
// session, return the candidates.
func (h *GenerationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, validationResp(map[string]string{
			"body": "Invalid request body",
		}))
		return
	}

	if utf8.RuneCountInString(req.SessionInput) < minSessionInputLen {
		writeJSON(w, http.StatusBadRequest, validationResp(map[string]string{
			"session_input": "Input text must be at least 10 characters long",
		}))
		return
	}

	userID := middleware.GetUserID(r.Context())

	result, err := h.generator.Generate(r.Context(), userID, req.SessionInput)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// History lists the user's past generation sessions, newest first.
func (h *GenerationHandler) History(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	userID := middleware.GetUserID(r.Context())

	sessions, err := h.sessions.ListByUser(r.Context(), userID, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, internalResp("Failed to fetch generation sessions"))
		return
	}
	if sessions == nil {
		sessions = []*models.GenerationSession{}
	}

	writeJSON(w, http.StatusOK, sessions)
}

// GetSession returns one session. A session owned by another user is
// reported as not found rather than forbidden.
func (h *GenerationHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, validationMsgResp("Invalid session ID"))
		return
	}

	session, err := h.sessions.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			handleServiceError(w, &services.NotFoundError{Message: "Generation session not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, internalResp("Failed to fetch generation session"))
		return
	}

	if session.UserID != middleware.GetUserID(r.Context()) {
		handleServiceError(w, &services.NotFoundError{Message: "Generation session not found"})
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// Shared helpers

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func validationResp(details map[string]string) models.ErrorResponse {
	return models.ErrorResponse{
		Error:   "Validation error",
		Details: details,
	}
}

func validationMsgResp(message string) models.ErrorResponse {
	return models.ErrorResponse{
		Error:   "Validation error",
		Message: message,
	}
}

func internalResp(message string) models.ErrorResponse {
	return models.ErrorResponse{
		Error:   "Internal server error",
		Message: message,
	}
}

// handleServiceError maps the service error taxonomy onto HTTP statuses.
// Generation failures pass their message through so the user can decide
// to retry; persistence failures stay generic.
func handleServiceError(w http.ResponseWriter, err error) {
	switch e := err.(type) {
	case *services.ValidationError:
		if len(e.Fields) > 0 {
			writeJSON(w, http.StatusBadRequest, validationResp(e.Fields))
			return
		}
		writeJSON(w, http.StatusBadRequest, validationMsgResp(e.Message))
	case *services.GenerationError:
		writeJSON(w, http.StatusInternalServerError, internalResp(e.Message))
	case *services.PersistenceError:
		log.Printf("persistence failure: %v", e.Unwrap())
		writeJSON(w, http.StatusInternalServerError, internalResp(e.Message))
	case *services.NotFoundError:
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{
			Error:   "Not found",
			Message: e.Message,
		})
	default:
		writeJSON(w, http.StatusInternalServerError, internalResp("An unexpected error occurred"))
	}
}
