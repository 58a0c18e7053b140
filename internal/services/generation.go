package services

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"cardforge-backend/internal/models"
)

// maxCandidates caps how many cards one generation call may yield,
// whatever the model decided to return.
const maxCandidates = 10

// fallbackFront is the placeholder question used when the reply cannot
// be parsed as JSON and the raw text becomes a single degraded card.
const fallbackFront = "Generated question from input"

// jsonArrayPattern grabs the first-to-last bracket span of the reply, the
// widest substring that could be a JSON array.
var jsonArrayPattern = regexp.MustCompile(`\[[\s\S]*\]`)

// completionClient is the outbound AI dependency; satisfied by
// OpenRouterClient and stubbed in tests.
type completionClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type sessionStore interface {
	Create(ctx context.Context, s *models.GenerationSession) error
}

type GenerationService struct {
	ai       completionClient
	sessions sessionStore
}

func NewGenerationService(ai completionClient, sessions sessionStore) *GenerationService {
	return &GenerationService{ai: ai, sessions: sessions}
}

// parseOutcome tags how the model reply was turned into candidates, so
// the degraded path is an explicit branch rather than an exception.
type parseOutcome int

const (
	outcomeParsed parseOutcome = iota
	outcomeDegraded
)

type parsedReply struct {
	outcome parseOutcome
	cards   []models.CardContent
}

// Generate runs one full generation request: prompt the AI, parse its
// reply into candidates, persist the immutable session record, and
// return the candidates with the session identity. Persistence failure
// aborts the whole request; there is no state where candidates exist
// without a session row.
func (s *GenerationService) Generate(ctx context.Context, userID uuid.UUID, input string) (*models.GenerateResponse, error) {
	if strings.TrimSpace(input) == "" {
		return nil, &ValidationError{
			Message: "session_input must not be empty",
			Fields:  map[string]string{"session_input": "Input text must not be empty"},
		}
	}

	inputHash := hashInput(input)

	reply, err := s.ai.Complete(ctx, buildGenerationPrompt(input))
	if err != nil {
		return nil, err
	}

	parsed := parseReply(reply)
	if parsed.outcome == outcomeDegraded {
		log.Printf("generation: reply was not valid JSON, falling back to a single raw-text card")
	}

	cards := filterCandidates(parsed.cards)
	if len(cards) == 0 {
		return nil, &GenerationError{Message: "no valid flashcards generated from AI response"}
	}

	output, _ := json.Marshal(models.SessionOutput{
		InputHash:  inputHash,
		Flashcards: cards,
	})

	session := &models.GenerationSession{
		UserID:        userID,
		SessionInput:  input,
		InputHash:     inputHash,
		SessionOutput: output,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, &PersistenceError{Message: "failed to save generation session", Err: err}
	}

	return &models.GenerateResponse{
		SessionID:           session.ID,
		GeneratedFlashcards: cards,
		CreatedAt:           session.CreatedAt,
	}, nil
}

// hashInput digests the raw input text. The digest is stored as a
// duplicate-submission detection aid; nothing checks it yet.
func hashInput(input string) string {
	sum := md5.Sum([]byte(input))
	return hex.EncodeToString(sum[:])
}

func buildGenerationPrompt(input string) string {
	var b strings.Builder

	b.WriteString("Based on the following text, generate educational flashcards. ")
	b.WriteString("Create questions and answers that help understand the key concepts.\n\n")
	b.WriteString(fmt.Sprintf("Text: %q\n\n", input))
	b.WriteString(`Generate 3-5 flashcards in the following JSON format:
[
  {
    "front": "Question about the concept",
    "back": "Clear and concise answer"
  }
]

Make sure the questions are specific and the answers are informative but concise. Focus on the most important concepts from the text.`)

	return b.String()
}

// parseReply extracts candidates from the free-text model reply. It
// tries the first JSON-array-shaped substring, then the whole reply;
// when neither parses as an array, the trimmed raw reply becomes the
// back of one placeholder card. Array elements are filtered
// individually: a scalar or malformed element is skipped without
// degrading the cards around it. The degraded card still passes through
// filterCandidates like any other.
func parseReply(reply string) parsedReply {
	raw := jsonArrayPattern.FindString(reply)
	if raw == "" {
		raw = reply
	}

	var elements []interface{}
	if err := json.Unmarshal([]byte(raw), &elements); err != nil || elements == nil {
		return parsedReply{
			outcome: outcomeDegraded,
			cards: []models.CardContent{
				{Front: fallbackFront, Back: strings.TrimSpace(reply)},
			},
		}
	}

	cards := make([]models.CardContent, 0, len(elements))
	for _, el := range elements {
		obj, ok := el.(map[string]interface{})
		if !ok {
			continue
		}
		front, _ := obj["front"].(string)
		back, _ := obj["back"].(string)
		cards = append(cards, models.CardContent{Front: front, Back: back})
	}
	return parsedReply{outcome: outcomeParsed, cards: cards}
}

// filterCandidates keeps cards with non-empty front and back, capped at
// maxCandidates.
func filterCandidates(cards []models.CardContent) []models.CardContent {
	valid := make([]models.CardContent, 0, len(cards))
	for _, c := range cards {
		if c.Front == "" || c.Back == "" {
			continue
		}
		valid = append(valid, c)
		if len(valid) == maxCandidates {
			break
		}
	}
	return valid
}

// ValidateCardContents checks an approval batch before any row is
// written: the batch must be non-empty and every card must carry both
// sides. A violation fails the whole batch.
func ValidateCardContents(cards []models.CardContent) error {
	if len(cards) == 0 {
		return &ValidationError{Message: "Flashcards array is required and cannot be empty"}
	}
	for _, c := range cards {
		if strings.TrimSpace(c.Front) == "" || strings.TrimSpace(c.Back) == "" {
			return &ValidationError{Message: "Each flashcard must have both front and back content"}
		}
	}
	return nil
}
