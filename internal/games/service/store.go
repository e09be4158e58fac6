package service

import (
	"sync"

	"github.com/google/uuid"

	"retrocodex_backend/internal/games/domain"
)

// batchState is the current result set for one device, tagged with the
// epoch that was live when the batch was created.
type batchState struct {
	id      uuid.UUID
	epoch   uint64
	results []domain.SearchResult
}

// Store keeps the current search batch per device. Every new batch (and
// every explicit clear) bumps the device's epoch; enrichment patches carry
// the epoch they were created under and are dropped when it no longer
// matches, so a late cover can never write into a superseded result set.
type Store struct {
	mu      sync.RWMutex
	epochs  map[string]uint64
	current map[string]*batchState
}

// NewStore creates an empty result store.
func NewStore() *Store {
	return &Store{
		epochs:  make(map[string]uint64),
		current: make(map[string]*batchState),
	}
}

// Begin replaces the device's current batch with the given results and
// returns the new batch ID and epoch. The results slice is copied; callers
// keep no shared reference into the store.
func (s *Store) Begin(deviceID string, results []domain.SearchResult) (uuid.UUID, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.epochs[deviceID]++
	epoch := s.epochs[deviceID]

	stored := make([]domain.SearchResult, len(results))
	copy(stored, results)

	id := uuid.New()
	s.current[deviceID] = &batchState{id: id, epoch: epoch, results: stored}
	return id, epoch
}

// Clear discards the device's current batch and bumps the epoch so that
// any in-flight enrichment for the old batch becomes stale.
func (s *Store) Clear(deviceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.epochs[deviceID]++
	delete(s.current, deviceID)
}

// Snapshot returns a copy of the batch's current results. The second
// return is false when the batch no longer exists or the ID does not match
// the device's current batch.
func (s *Store) Snapshot(deviceID string, batchID uuid.UUID) ([]domain.SearchResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.current[deviceID]
	if !ok || state.id != batchID {
		return nil, false
	}

	out := make([]domain.SearchResult, len(state.results))
	copy(out, state.results)
	return out, true
}

// Patch applies a positional cover patch: the element at index is replaced
// wholesale with a copy carrying the resolved cover. Returns false without
// modifying anything when the epoch is stale or the index is out of range.
func (s *Store) Patch(deviceID string, epoch uint64, index int, coverURL string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.current[deviceID]
	if !ok || state.epoch != epoch {
		return false
	}
	if index < 0 || index >= len(state.results) {
		return false
	}

	next := make([]domain.SearchResult, len(state.results))
	copy(next, state.results)
	patched := next[index]
	patched.CoverURL = coverURL
	next[index] = patched
	state.results = next
	return true
}
