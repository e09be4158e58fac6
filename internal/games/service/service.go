// Package service orchestrates generative search, detail retrieval and
// asynchronous cover enrichment for the games module.
package service

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"retrocodex_backend/internal/events"
	"retrocodex_backend/internal/games/domain"
	"retrocodex_backend/internal/games/gemini"
	"retrocodex_backend/platform/apperr"
	"retrocodex_backend/platform/logger"
)

// SearchClient is the generative backend the service depends on.
type SearchClient interface {
	Search(ctx context.Context, query, locale string) gemini.Outcome
	Detail(ctx context.Context, name, platform, locale string) *domain.DetailFields
}

// CoverResolver resolves cover art for a game name. Lookups are soft:
// any failure simply leaves the cover unset.
type CoverResolver interface {
	Enabled() bool
	CoverByName(ctx context.Context, name string) (string, error)
}

// SearchStatus is the caller-visible terminal state of a search. The three
// non-ok states must stay distinct: a legitimate empty answer, an
// out-of-domain query and a backend failure are rendered differently.
type SearchStatus string

const (
	StatusOK          SearchStatus = "ok"
	StatusNoResults   SearchStatus = "no_results"
	StatusOutOfDomain SearchStatus = "out_of_domain"
	StatusError       SearchStatus = "error"
)

// SearchOutput is the immediate response to a search: the batch renders
// before any cover arrives, and covers patch in afterwards.
type SearchOutput struct {
	Status  SearchStatus
	BatchID uuid.UUID
	Results []domain.SearchResult
}

// Service implements the search/detail/enrichment pipeline.
type Service struct {
	search SearchClient
	covers CoverResolver
	store  *Store
	bus    events.Bus
	log    *logger.Logger

	enrichment sync.WaitGroup
}

// New creates the games service. covers may be nil when cover resolution
// is not configured.
func New(search SearchClient, covers CoverResolver, store *Store, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		search: search,
		covers: covers,
		store:  store,
		bus:    bus,
		log:    log,
	}
}

// Search runs a generative search for the device and, on success, starts
// background cover enrichment for the new batch.
//
// Transport and schema failures fold into the same external shape as an
// empty answer (empty list, StatusError); the internal outcome kind is
// logged before folding.
func (s *Service) Search(ctx context.Context, deviceID, query, locale string) SearchOutput {
	outcome := s.search.Search(ctx, query, locale)
	s.log.WithDeviceID(deviceID).SearchOutcome(query, locale, outcome.Kind.String(), len(outcome.Results))

	// Any terminal state other than a non-empty OK supersedes the
	// device's previous batch so late patches against it are dropped.
	switch {
	case outcome.Failed():
		s.store.Clear(deviceID)
		return SearchOutput{Status: StatusError, Results: []domain.SearchResult{}}
	case outcome.Kind == gemini.OutcomeOutOfDomain:
		s.store.Clear(deviceID)
		return SearchOutput{Status: StatusOutOfDomain, Results: []domain.SearchResult{}}
	case len(outcome.Results) == 0:
		s.store.Clear(deviceID)
		return SearchOutput{Status: StatusNoResults, Results: []domain.SearchResult{}}
	}

	batchID, epoch := s.store.Begin(deviceID, outcome.Results)
	s.bus.Publish(ctx, events.SearchCompleted{
		BaseEvent: events.NewBaseEvent(),
		DeviceID:  deviceID,
		BatchID:   batchID,
		Query:     query,
		Results:   len(outcome.Results),
	})

	s.enrich(deviceID, batchID, epoch, outcome.Results)

	return SearchOutput{Status: StatusOK, BatchID: batchID, Results: outcome.Results}
}

// enrich fires one independent, unordered cover lookup per result. Each
// lookup patches only its own index; failures leave the element untouched.
func (s *Service) enrich(deviceID string, batchID uuid.UUID, epoch uint64, results []domain.SearchResult) {
	if s.covers == nil || !s.covers.Enabled() {
		return
	}

	for i, result := range results {
		if result.CoverURL != "" {
			// The model already supplied a cover for this one.
			continue
		}

		s.enrichment.Add(1)
		go func(index int, name string) {
			defer s.enrichment.Done()

			// The HTTP request that triggered the search completes
			// before covers resolve; lookups get their own context.
			cover, err := s.covers.CoverByName(context.Background(), name)
			if err != nil {
				s.log.CoverMiss(name, err.Error())
				return
			}
			if cover == "" {
				return
			}

			if !s.store.Patch(deviceID, epoch, index, cover) {
				s.log.StaleEnrichment(batchID.String(), index)
				return
			}

			s.bus.Publish(context.Background(), events.CoverResolved{
				BaseEvent: events.NewBaseEvent(),
				DeviceID:  deviceID,
				BatchID:   batchID,
				Index:     index,
				CoverURL:  cover,
			})
		}(i, result.Name)
	}
}

// WaitForEnrichment blocks until all in-flight cover lookups finish.
// Used on shutdown and by tests.
func (s *Service) WaitForEnrichment() {
	s.enrichment.Wait()
}

// Snapshot returns the batch's current results with whatever covers have
// resolved so far.
func (s *Service) Snapshot(deviceID string, batchID uuid.UUID) ([]domain.SearchResult, error) {
	results, ok := s.store.Snapshot(deviceID, batchID)
	if !ok {
		return nil, apperr.NotFound("search batch not found or superseded")
	}
	return results, nil
}

// Detail fetches the narrative payload for one game and merges it with the
// identifying fields supplied by the caller. Opening details supersedes the
// device's current batch, matching the result lifecycle: in-flight cover
// patches for it become stale.
func (s *Service) Detail(ctx context.Context, deviceID string, game domain.SearchResult, locale string) (*domain.GameDetail, error) {
	fields := s.search.Detail(ctx, game.Name, game.Platform, locale)
	if fields == nil {
		return nil, apperr.Unavailable("details unavailable")
	}

	s.store.Clear(deviceID)

	return &domain.GameDetail{
		SearchResult: game,
		DetailFields: *fields,
	}, nil
}
