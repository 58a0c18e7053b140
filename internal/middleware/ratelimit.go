package middleware

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"cardforge-backend/internal/models"
)

// RateLimiter counts requests per authenticated user in Redis over a
// fixed window. It must be mounted behind the JWT middleware so the
// user id is available; unauthenticated requests fall back to the
// remote address as the key.
type RateLimiter struct {
	redis  *redis.Client
	name   string
	limit  int
	window time.Duration
}

func NewRateLimiter(redisClient *redis.Client, name string, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		name:   name,
		limit:  limit,
		window: window,
	}
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject := r.RemoteAddr
		if userID := GetUserID(r.Context()); userID != uuid.Nil {
			subject = userID.String()
		}
		key := fmt.Sprintf("ratelimit:%s:%s", rl.name, subject)

		count, err := rl.redis.Incr(r.Context(), key).Result()
		if err != nil {
			// Redis being down must not take the endpoint with it.
			log.Printf("rate limiter unavailable, allowing request: %v", err)
			next.ServeHTTP(w, r)
			return
		}
		if count == 1 {
			rl.redis.Expire(r.Context(), key, rl.window)
		}

		if count > int64(rl.limit) {
			writeEnvelope(w, http.StatusTooManyRequests, models.ErrorResponse{
				Error:   "Too many requests",
				Message: "Rate limit exceeded. Please try again later.",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}
