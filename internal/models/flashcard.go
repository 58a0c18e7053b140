package models

import (
	"time"

	"github.com/google/uuid"
)

// Flashcard provenance and decision states. Values match the database
// check constraints in migrations/001_initial_schema.sql.
const (
	SourceAI     = "AI"
	SourceManual = "MANUAL"

	StatusDraft    = "draft"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

type Flashcard struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Front     string    `json:"front"`
	Back      string    `json:"back"`
	Source    string    `json:"source"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CardContent is a bare front/back pair, used both for AI candidates
// handed to the review flow and for approval batches.
type CardContent struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

type CreateFlashcardRequest struct {
	Front  string `json:"front"`
	Back   string `json:"back"`
	Source string `json:"source"`
	Status string `json:"status"`
}

type ApproveFlashcardsRequest struct {
	Flashcards []CardContent `json:"flashcards"`
}

type ApproveFlashcardsResponse struct {
	Message    string      `json:"message"`
	Count      int         `json:"count"`
	Flashcards []Flashcard `json:"flashcards"`
}
