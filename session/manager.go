// Package session maps browser sessions to their keyword-analysis stores.
package session

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/dhchun1203/Trend-Analyzer-project/analysis"
	"github.com/dhchun1203/Trend-Analyzer-project/config"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type entry struct {
	store    *analysis.Store
	lastSeen time.Time
}

// Manager owns one analysis.Store per session cookie. Idle stores are
// evicted; with a Persister their last snapshot survives the eviction.
type Manager struct {
	mu      sync.Mutex
	entries map[string]*entry

	cookieName string
	cookieTTL  time.Duration
	idle       time.Duration
	persister  Persister
	opTimeout  time.Duration
	now        func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewManager creates a manager. persister may be nil.
func NewManager(cfg config.SessionConfig, persister Persister) *Manager {
	name := cfg.CookieName
	if name == "" {
		name = "trend_session"
	}
	idle := time.Duration(cfg.IdleTimeout) * time.Second
	if idle <= 0 {
		idle = 30 * time.Minute
	}
	return &Manager{
		entries:    make(map[string]*entry),
		cookieName: name,
		cookieTTL:  time.Duration(cfg.TTLSeconds) * time.Second,
		idle:       idle,
		persister:  persister,
		opTimeout:  2 * time.Second,
		now:        time.Now,
		stop:       make(chan struct{}),
	}
}

// Store returns the session id and store for the request, issuing a new
// session cookie when the request has none or an invalid one.
func (m *Manager) Store(w http.ResponseWriter, r *http.Request) (string, *analysis.Store) {
	if c, err := r.Cookie(m.cookieName); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value, m.lookup(r.Context(), c.Value)
		}
	}

	id := uuid.NewString()
	cookie := &http.Cookie{
		Name:     m.cookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if m.cookieTTL > 0 {
		cookie.MaxAge = int(m.cookieTTL.Seconds())
	}
	http.SetCookie(w, cookie)

	return id, m.lookup(r.Context(), id)
}

func (m *Manager) lookup(ctx context.Context, id string) *analysis.Store {
	m.mu.Lock()
	if e, ok := m.entries[id]; ok {
		e.lastSeen = m.now()
		m.mu.Unlock()
		return e.store
	}
	m.mu.Unlock()

	store := m.restore(ctx, id)

	m.mu.Lock()
	defer m.mu.Unlock()
	// Another request for the same session may have won the race
	if e, ok := m.entries[id]; ok {
		e.lastSeen = m.now()
		return e.store
	}
	m.entries[id] = &entry{store: store, lastSeen: m.now()}
	return store
}

func (m *Manager) restore(ctx context.Context, id string) *analysis.Store {
	if m.persister == nil {
		return analysis.NewStore()
	}

	ctx, cancel := context.WithTimeout(ctx, m.opTimeout)
	defer cancel()

	state, found, err := m.persister.Load(ctx, id)
	if err != nil {
		log.Warn().Err(err).Str("session", id).Msg("Failed to restore session, starting fresh")
		return analysis.NewStore()
	}
	if !found {
		return analysis.NewStore()
	}
	log.Debug().Str("session", id).Str("keyword", state.Keyword).Msg("Session restored")
	return analysis.RestoreStore(state)
}

// Save persists the store's current snapshot. Persistence failures are
// logged, never surfaced to the viewer.
func (m *Manager) Save(ctx context.Context, id string, store *analysis.Store) {
	if m.persister == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, m.opTimeout)
	defer cancel()

	if err := m.persister.Save(ctx, id, store.Snapshot()); err != nil {
		log.Warn().Err(err).Str("session", id).Msg("Failed to persist session")
	}
}

// Forget drops the persisted snapshot of a session.
func (m *Manager) Forget(ctx context.Context, id string) {
	if m.persister == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, m.opTimeout)
	defer cancel()

	if err := m.persister.Delete(ctx, id); err != nil {
		log.Warn().Err(err).Str("session", id).Msg("Failed to delete persisted session")
	}
}

// Len returns the number of in-memory stores.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// EvictIdle removes stores not used for longer than the idle timeout and
// returns how many were removed.
func (m *Manager) EvictIdle() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-m.idle)
	evicted := 0
	for id, e := range m.entries {
		if e.lastSeen.Before(cutoff) {
			delete(m.entries, id)
			evicted++
		}
	}
	return evicted
}

// StartCleanup evicts idle stores every interval until Close is called.
func (m *Manager) StartCleanup(interval time.Duration) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if n := m.EvictIdle(); n > 0 {
					log.Debug().Int("evicted", n).Int("active", m.Len()).Msg("Evicted idle sessions")
				}
			case <-m.stop:
				return
			}
		}
	}()
}

// Close stops the cleanup loop.
func (m *Manager) Close() {
	m.stopOnce.Do(func() { close(m.stop) })
	m.wg.Wait()
}
