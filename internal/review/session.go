// Package review holds the per-session flashcard review state machine:
// every AI candidate becomes a draft item that the user approves,
// rejects, or edits before the approved subset is persisted. All state
// lives in memory for the lifetime of one review session and none of the
// operations perform I/O.
package review

import (
	"fmt"
	"strings"
	"sync"

	"cardforge-backend/internal/models"
)

// Item is one candidate under review. IDs are local to the session and
// never persisted.
type Item struct {
	ID     string `json:"id"`
	Front  string `json:"front"`
	Back   string `json:"back"`
	Status string `json:"status"`
}

// Session tracks decisions for one generated candidate list. A session
// belongs to a single user's browsing session; the mutex only guards
// against overlapping HTTP requests on the same session id.
type Session struct {
	mu      sync.Mutex
	items   []Item
	editing string // id currently in edit mode, empty when none
}

// NewSession wraps each candidate as a draft item with a session-local
// identifier from a monotonic counter.
func NewSession(candidates []models.CardContent) *Session {
	items := make([]Item, len(candidates))
	for i, c := range candidates {
		items[i] = Item{
			ID:     fmt.Sprintf("card-%d", i),
			Front:  c.Front,
			Back:   c.Back,
			Status: models.StatusDraft,
		}
	}
	return &Session{items: items}
}

// Approve marks a draft item approved. Unknown ids and items already
// decided are left untouched; calling twice is the same as calling once.
func (s *Session) Approve(id string) {
	s.decide(id, models.StatusApproved)
}

// Reject marks a draft item rejected, with the same idempotence rules as
// Approve.
func (s *Session) Reject(id string) {
	s.decide(id, models.StatusRejected)
}

func (s *Session) decide(id, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id && s.items[i].Status == models.StatusDraft {
			s.items[i].Status = status
			return
		}
	}
}

// BeginEdit moves the editing cursor to id. At most one item is in edit
// mode; switching items cancels the previous edit implicitly. Unknown
// ids are ignored.
func (s *Session) BeginEdit(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			s.editing = id
			return
		}
	}
}

// CancelEdit clears the editing cursor without touching item state.
func (s *Session) CancelEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editing = ""
}

// CommitEdit replaces the item's content and forces it approved: saving
// an edit is the approval decision. Both fields must be non-blank after
// trimming, otherwise nothing changes and a validation error is
// returned. An unknown id is an unknown-item error; either way the
// editing cursor is cleared so a stale cursor cannot wedge the session.
func (s *Session) CommitEdit(id, front, back string) error {
	front = strings.TrimSpace(front)
	back = strings.TrimSpace(back)
	if front == "" || back == "" {
		return &blankContentError{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Front = front
			s.items[i].Back = back
			s.items[i].Status = models.StatusApproved
			s.editing = ""
			return nil
		}
	}
	s.editing = ""
	return &unknownItemError{id: id}
}

// EditingID returns the id currently in edit mode, or "".
func (s *Session) EditingID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editing
}

// ApprovedCount is derived from current item state; it gates whether the
// save action is allowed.
func (s *Session) ApprovedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for i := range s.items {
		if s.items[i].Status == models.StatusApproved {
			n++
		}
	}
	return n
}

// Items returns a snapshot of all items in creation order.
func (s *Session) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// ApprovedContents returns the front/back pairs of approved items, the
// subset handed to approval persistence.
func (s *Session) ApprovedContents() []models.CardContent {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.CardContent
	for i := range s.items {
		if s.items[i].Status == models.StatusApproved {
			out = append(out, models.CardContent{Front: s.items[i].Front, Back: s.items[i].Back})
		}
	}
	return out
}

// blankContentError satisfies error without dragging the services
// package into this one; handlers treat it as a validation failure.
type blankContentError struct{}

func (e *blankContentError) Error() string {
	return "both front and back must be non-blank"
}

// IsBlankContent reports whether err is the CommitEdit blank-field
// rejection.
func IsBlankContent(err error) bool {
	_, ok := err.(*blankContentError)
	return ok
}

type unknownItemError struct {
	id string
}

func (e *unknownItemError) Error() string {
	return "unknown review item " + e.id
}

// IsUnknownItem reports whether err names a review item id that does not
// exist in the session.
func IsUnknownItem(err error) bool {
	_, ok := err.(*unknownItemError)
	return ok
}
