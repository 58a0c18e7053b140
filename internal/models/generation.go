package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// GenerationSession is one immutable record of a single AI generation
// request: the raw input, its digest, and the structured output. There is
// no update path once the row is written.
type GenerationSession struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"user_id"`
	SessionInput  string          `json:"session_input"`
	InputHash     string          `json:"input_hash"`
	SessionOutput json.RawMessage `json:"session_output"`
	CreatedAt     time.Time       `json:"created_at"`
}

// SessionOutput is the structured payload stored in the session_output
// column alongside the raw input.
type SessionOutput struct {
	InputHash  string        `json:"input_hash"`
	Flashcards []CardContent `json:"flashcards"`
}

type GenerateRequest struct {
	SessionInput string `json:"session_input"`
}

type GenerateResponse struct {
	SessionID           uuid.UUID     `json:"session_id"`
	GeneratedFlashcards []CardContent `json:"generated_flashcards"`
	CreatedAt           time.Time     `json:"created_at"`
}
