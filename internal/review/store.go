package review

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"cardforge-backend/internal/models"
)

// DefaultTTL is how long an untouched review session survives before a
// later access sweeps it away.
const DefaultTTL = 30 * time.Minute

type entry struct {
	session    *Session
	lastAccess time.Time
}

// Store keeps live review sessions keyed by id. Sessions are
// server-side stand-ins for the user's browsing session: abandoned ones
// are evicted lazily on the next store access, there is no background
// sweeper.
type Store struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[uuid.UUID]*entry
	now      func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		ttl:      ttl,
		sessions: make(map[uuid.UUID]*entry),
		now:      time.Now,
	}
}

// Create opens a review session over the candidate list and returns its
// id.
func (st *Store) Create(candidates []models.CardContent) (uuid.UUID, *Session) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.sweepLocked()

	id := uuid.New()
	session := NewSession(candidates)
	st.sessions[id] = &entry{session: session, lastAccess: st.now()}
	return id, session
}

// Get returns the session for id, refreshing its TTL. The second return
// is false when the session never existed or has expired.
func (st *Store) Get(id uuid.UUID) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.sweepLocked()

	e, ok := st.sessions[id]
	if !ok {
		return nil, false
	}
	e.lastAccess = st.now()
	return e.session, true
}

// Delete drops a session, used once its approved items are persisted.
func (st *Store) Delete(id uuid.UUID) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

func (st *Store) sweepLocked() {
	cutoff := st.now().Add(-st.ttl)
	for id, e := range st.sessions {
		if e.lastAccess.Before(cutoff) {
			delete(st.sessions, id)
		}
	}
}
