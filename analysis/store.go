// Package analysis holds the keyword-analysis view state and the
// orchestrator that fills it from three concurrent backend calls.
package analysis

import (
	"context"
	"sync"
	"time"

	"github.com/dhchun1203/Trend-Analyzer-project/model"
)

// ViewState is everything the keyword-analysis page renders. It is replaced
// wholesale on every successful analysis, never merged field by field.
type ViewState struct {
	Keyword          string                  `json:"keyword"`
	Report           *model.TrendReport      `json:"analysis,omitempty"`
	Blogs            *model.BlogSearchResult `json:"blogs,omitempty"`
	ShoppingKeywords []model.RelatedKeyword  `json:"shopping_keywords"`
	TrendChart       []model.ChartPoint      `json:"trend_chart,omitempty"` // measured series, empty when unavailable
	CompletedAt      time.Time               `json:"completed_at,omitempty"`

	PendingKeyword string `json:"pending_keyword,omitempty"`
	Loading        bool   `json:"loading"`
	Error          string `json:"error,omitempty"`
	Seq            uint64 `json:"seq"`
}

// HasResult reports whether a completed analysis is present.
func (v ViewState) HasResult() bool {
	return v.Report != nil
}

// Store is the state container for one viewer. Only the transition methods
// mutate it. Every Submit and Reset bumps the sequence number; a
// completion carrying an older number is dropped.
type Store struct {
	mu     sync.Mutex
	state  ViewState
	seq    uint64
	cancel context.CancelFunc
}

func NewStore() *Store {
	return &Store{state: ViewState{ShoppingKeywords: []model.RelatedKeyword{}}}
}

// RestoreStore rebuilds a store from a persisted snapshot. Transient flags
// are dropped since the request that set them is gone.
func RestoreStore(snapshot ViewState) *Store {
	snapshot.Loading = false
	snapshot.PendingKeyword = ""
	if snapshot.ShoppingKeywords == nil {
		snapshot.ShoppingKeywords = []model.RelatedKeyword{}
	}
	return &Store{state: snapshot, seq: snapshot.Seq}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Submit starts a new analysis for keyword. It cancels the context of any
// analysis still in flight and returns the new sequence number together with
// the context the new analysis must run under.
func (s *Store) Submit(ctx context.Context, keyword string) (uint64, context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.seq++

	s.state.PendingKeyword = keyword
	s.state.Loading = true
	s.state.Error = ""

	return s.seq, runCtx
}

// Succeed replaces the state with next if seq is still the latest request.
func (s *Store) Succeed(seq uint64, next ViewState) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.seq {
		return false
	}
	s.release()

	if next.ShoppingKeywords == nil {
		next.ShoppingKeywords = []model.RelatedKeyword{}
	}
	next.Seq = seq
	next.Loading = false
	next.PendingKeyword = ""
	next.Error = ""
	s.state = next
	return true
}

// Fail records message if seq is still the latest request. Results of the
// previous successful analysis stay in place.
func (s *Store) Fail(seq uint64, message string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.seq {
		return false
	}
	s.release()

	s.state.Loading = false
	s.state.PendingKeyword = ""
	s.state.Error = message
	return true
}

// Abandon ends request seq without recording an error, for analyses whose
// caller went away. Results of the previous analysis stay in place.
func (s *Store) Abandon(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.seq {
		return false
	}
	s.release()

	s.state.Loading = false
	s.state.PendingKeyword = ""
	return true
}

// Reset clears the state and invalidates any analysis in flight.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.release()
	s.seq++
	s.state = ViewState{ShoppingKeywords: []model.RelatedKeyword{}, Seq: s.seq}
}

func (s *Store) release() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
