package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"cardforge-backend/internal/handlers"
	"cardforge-backend/internal/middleware"
)

func New(
	jwtAuth *middleware.JWTAuth,
	generateLimiter *middleware.RateLimiter,
	generationHandler *handlers.GenerationHandler,
	flashcardHandler *handlers.FlashcardHandler,
	studyHandler *handlers.StudyHandler,
	reviewHandler *handlers.ReviewHandler,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Flashcard Routes ────
		r.Route("/flashcards", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)

			// Generation hits a paid AI endpoint; rate limit per user.
			r.With(generateLimiter.Middleware).Post("/generate", generationHandler.Generate)

			r.Post("/approve", flashcardHandler.Approve)
			r.Get("/", flashcardHandler.List)
			r.Post("/", flashcardHandler.Create)
			r.Get("/study", studyHandler.Study)
		})

		// ──── Generation History Routes ────
		r.Route("/generations", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", generationHandler.History)
			r.Get("/{id}", generationHandler.GetSession)
		})

		// ──── Review Session Routes ────
		r.Route("/review/sessions", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/", reviewHandler.CreateSession)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", reviewHandler.GetSession)
				r.Post("/save", reviewHandler.Save)
				r.Post("/edit/cancel", reviewHandler.CancelEdit)

				r.Route("/items/{itemID}", func(r chi.Router) {
					r.Post("/approve", reviewHandler.ApproveItem)
					r.Post("/reject", reviewHandler.RejectItem)
					r.Post("/edit", reviewHandler.BeginEdit)
					r.Put("/", reviewHandler.CommitEdit)
				})
			})
		})
	})

	return r
}
