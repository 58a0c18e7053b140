package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"cardforge-backend/internal/models"
	"cardforge-backend/internal/review"
)

var errSaveBroke = errors.New("insert failed")

// reviewMux mirrors the review subtree of the real router so URL params
// resolve the same way in tests.
func reviewMux(h *ReviewHandler) http.Handler {
	r := chi.NewRouter()
	r.Route("/review/sessions", func(r chi.Router) {
		r.Post("/", h.CreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetSession)
			r.Post("/save", h.Save)
			r.Post("/edit/cancel", h.CancelEdit)
			r.Route("/items/{itemID}", func(r chi.Router) {
				r.Post("/approve", h.ApproveItem)
				r.Post("/reject", h.RejectItem)
				r.Post("/edit", h.BeginEdit)
				r.Put("/", h.CommitEdit)
			})
		})
	})
	return r
}

func newReviewSession(t *testing.T, mux http.Handler, cards []models.CardContent) reviewSessionResponse {
	t.Helper()

	req := authedRequest(t, http.MethodPost, "/review/sessions", models.ApproveFlashcardsRequest{Flashcards: cards})
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("failed to create review session: %d %s", rr.Code, rr.Body.String())
	}

	var resp reviewSessionResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode session response: %v", err)
	}
	return resp
}

func TestReviewSession_CreateStartsAllDraft(t *testing.T) {
	h := NewReviewHandler(review.NewStore(review.DefaultTTL), &stubFlashcardRepo{})
	mux := reviewMux(h)

	resp := newReviewSession(t, mux, []models.CardContent{
		{Front: "Q1", Back: "A1"},
		{Front: "Q2", Back: "A2"},
	})

	if len(resp.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(resp.Items))
	}
	for _, item := range resp.Items {
		if item.Status != models.StatusDraft {
			t.Errorf("item %s should start draft, got %s", item.ID, item.Status)
		}
	}
}

func TestReviewSession_CreateRejectsEmpty(t *testing.T) {
	h := NewReviewHandler(review.NewStore(review.DefaultTTL), &stubFlashcardRepo{})
	mux := reviewMux(h)

	req := authedRequest(t, http.MethodPost, "/review/sessions", models.ApproveFlashcardsRequest{})
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestReviewSession_CreateRejectsBlankContent(t *testing.T) {
	repo := &stubFlashcardRepo{}
	store := review.NewStore(review.DefaultTTL)
	h := NewReviewHandler(store, repo)
	mux := reviewMux(h)

	req := authedRequest(t, http.MethodPost, "/review/sessions", models.ApproveFlashcardsRequest{
		Flashcards: []models.CardContent{
			{Front: "", Back: "only a back"},
			{Front: "Valid front", Back: "Valid back"},
		},
	})
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a blank candidate, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestReviewSession_BlankItemNeverReachesStorage(t *testing.T) {
	// Even if a blank item somehow entered a session, save must refuse to
	// write it.
	repo := &stubFlashcardRepo{}
	store := review.NewStore(review.DefaultTTL)
	h := NewReviewHandler(store, repo)
	mux := reviewMux(h)

	id, session := store.Create([]models.CardContent{{Front: "", Back: "only a back"}})
	session.Approve(session.Items()[0].ID)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, authedRequest(t, http.MethodPost, "/review/sessions/"+id.String()+"/save", nil))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
	}
	if len(repo.insertedBatches) != 0 {
		t.Error("blank-content card must not be persisted")
	}
}

func TestReviewSession_CommitEditUnknownItemIs404(t *testing.T) {
	h := NewReviewHandler(review.NewStore(review.DefaultTTL), &stubFlashcardRepo{})
	mux := reviewMux(h)

	resp := newReviewSession(t, mux, []models.CardContent{{Front: "Q1", Back: "A1"}})
	base := "/review/sessions/" + resp.ReviewSessionID.String()

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, authedRequest(t, http.MethodPut, base+"/items/card-999/", models.CardContent{
		Front: "front", Back: "back",
	}))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown item, got %d", rr.Code)
	}
}

func TestReviewSession_UnknownSessionIs404(t *testing.T) {
	h := NewReviewHandler(review.NewStore(review.DefaultTTL), &stubFlashcardRepo{})
	mux := reviewMux(h)

	req := authedRequest(t, http.MethodGet, "/review/sessions/"+uuid.NewString()+"/", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestReviewSession_SaveWithZeroApprovedFails(t *testing.T) {
	repo := &stubFlashcardRepo{}
	h := NewReviewHandler(review.NewStore(review.DefaultTTL), repo)
	mux := reviewMux(h)

	resp := newReviewSession(t, mux, []models.CardContent{{Front: "Q1", Back: "A1"}})

	req := authedRequest(t, http.MethodPost, "/review/sessions/"+resp.ReviewSessionID.String()+"/save", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
	}
	if len(repo.insertedBatches) != 0 {
		t.Error("nothing should reach the repository without approvals")
	}
}

func TestReviewSession_FullFlow(t *testing.T) {
	repo := &stubFlashcardRepo{}
	store := review.NewStore(review.DefaultTTL)
	h := NewReviewHandler(store, repo)
	mux := reviewMux(h)

	resp := newReviewSession(t, mux, []models.CardContent{
		{Front: "Q1", Back: "A1"},
		{Front: "Q2", Back: "A2"},
		{Front: "Q3", Back: "A3"},
	})
	base := "/review/sessions/" + resp.ReviewSessionID.String()

	// Approve the first item.
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, authedRequest(t, http.MethodPost, base+"/items/"+resp.Items[0].ID+"/approve", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("approve failed: %d", rr.Code)
	}

	// Reject the second.
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, authedRequest(t, http.MethodPost, base+"/items/"+resp.Items[1].ID+"/reject", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("reject failed: %d", rr.Code)
	}

	// Edit the third; a committed edit counts as approval.
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, authedRequest(t, http.MethodPost, base+"/items/"+resp.Items[2].ID+"/edit", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("begin edit failed: %d", rr.Code)
	}
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, authedRequest(t, http.MethodPut, base+"/items/"+resp.Items[2].ID+"/", models.CardContent{
		Front: "Q3 revised", Back: "A3 revised",
	}))
	if rr.Code != http.StatusOK {
		t.Fatalf("commit edit failed: %d %s", rr.Code, rr.Body.String())
	}

	// Save: two approved cards persisted, session closed.
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, authedRequest(t, http.MethodPost, base+"/save", nil))
	if rr.Code != http.StatusCreated {
		t.Fatalf("save failed: %d %s", rr.Code, rr.Body.String())
	}

	var saved models.ApproveFlashcardsResponse
	if err := json.NewDecoder(rr.Body).Decode(&saved); err != nil {
		t.Fatalf("failed to decode save response: %v", err)
	}
	if saved.Count != 2 {
		t.Errorf("expected 2 saved cards, got %d", saved.Count)
	}
	if len(repo.insertedBatches) != 1 {
		t.Fatalf("expected one insert batch, got %d", len(repo.insertedBatches))
	}
	batch := repo.insertedBatches[0]
	foundRevised := false
	for _, c := range batch {
		if c.Front == "Q3 revised" {
			foundRevised = true
		}
		if c.Front == "Q2" {
			t.Error("rejected card leaked into the saved batch")
		}
	}
	if !foundRevised {
		t.Error("edited content missing from the saved batch")
	}

	// The session is gone after a successful save.
	if _, ok := store.Get(resp.ReviewSessionID); ok {
		t.Error("session should be deleted after save")
	}
}

func TestReviewSession_CommitEditBlankContent(t *testing.T) {
	h := NewReviewHandler(review.NewStore(review.DefaultTTL), &stubFlashcardRepo{})
	mux := reviewMux(h)

	resp := newReviewSession(t, mux, []models.CardContent{{Front: "Q1", Back: "A1"}})
	base := "/review/sessions/" + resp.ReviewSessionID.String()

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, authedRequest(t, http.MethodPut, base+"/items/"+resp.Items[0].ID+"/", models.CardContent{
		Front: "   ", Back: "still here",
	}))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank front, got %d", rr.Code)
	}
}

func TestReviewSession_SaveFailureKeepsSessionAlive(t *testing.T) {
	repo := &stubFlashcardRepo{insertErr: errSaveBroke}
	store := review.NewStore(review.DefaultTTL)
	h := NewReviewHandler(store, repo)
	mux := reviewMux(h)

	resp := newReviewSession(t, mux, []models.CardContent{{Front: "Q1", Back: "A1"}})
	base := "/review/sessions/" + resp.ReviewSessionID.String()

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, authedRequest(t, http.MethodPost, base+"/items/"+resp.Items[0].ID+"/approve", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("approve failed: %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, authedRequest(t, http.MethodPost, base+"/save", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}

	if _, ok := store.Get(resp.ReviewSessionID); !ok {
		t.Error("session must survive a failed save so the user can retry")
	}
}
