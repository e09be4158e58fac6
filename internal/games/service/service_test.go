package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"retrocodex_backend/internal/events"
	"retrocodex_backend/internal/games/domain"
	"retrocodex_backend/internal/games/gemini"
	"retrocodex_backend/platform/apperr"
	"retrocodex_backend/platform/logger"
)

type fakeSearch struct {
	outcome gemini.Outcome
	fields  *domain.DetailFields
}

func (f *fakeSearch) Search(ctx context.Context, query, locale string) gemini.Outcome {
	return f.outcome
}

func (f *fakeSearch) Detail(ctx context.Context, name, platform, locale string) *domain.DetailFields {
	return f.fields
}

// fakeCovers resolves per-name; an optional gate blocks every lookup until
// released so tests can control completion order.
type fakeCovers struct {
	mu      sync.Mutex
	covers  map[string]string
	errs    map[string]error
	lookups []string
	gate    chan struct{}
}

func (f *fakeCovers) Enabled() bool { return true }

func (f *fakeCovers) CoverByName(ctx context.Context, name string) (string, error) {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	f.lookups = append(f.lookups, name)
	f.mu.Unlock()
	if err := f.errs[name]; err != nil {
		return "", err
	}
	return f.covers[name], nil
}

func (f *fakeCovers) lookupCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.lookups)
}

// recordingBus delivers events synchronously so tests can assert on them
// deterministically after WaitForEnrichment.
type recordingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *recordingBus) Publish(ctx context.Context, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recordingBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *recordingBus) Subscribe(eventName string, handler events.Handler) {}

func (b *recordingBus) coverEvents() []events.CoverResolved {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []events.CoverResolved
	for _, e := range b.events {
		if cr, ok := e.(events.CoverResolved); ok {
			out = append(out, cr)
		}
	}
	return out
}

func results(names ...string) []domain.SearchResult {
	out := make([]domain.SearchResult, len(names))
	for i, n := range names {
		out[i] = domain.SearchResult{
			ID:               i + 1,
			Name:             n,
			Platform:         "Mega Drive",
			Year:             "1991",
			BriefDescription: "test",
		}
	}
	return out
}

func newService(search SearchClient, covers CoverResolver) (*Service, *recordingBus) {
	bus := &recordingBus{}
	svc := New(search, covers, NewStore(), bus, logger.New("development"))
	return svc, bus
}

func TestSearch_EnrichmentIndependence(t *testing.T) {
	batch := results("G1", "G2", "G3", "G4", "G5")
	covers := &fakeCovers{
		covers: map[string]string{
			"G1": "https://img/t_cover_big/g1.jpg",
			"G3": "https://img/t_cover_big/g3.jpg",
			"G5": "https://img/t_cover_big/g5.jpg",
		},
		errs: map[string]error{
			"G2": errors.New("network down"),
			"G4": errors.New("catalog 500"),
		},
	}
	svc, _ := newService(&fakeSearch{outcome: gemini.Outcome{Kind: gemini.OutcomeOK, Results: batch}}, covers)

	out := svc.Search(context.Background(), "dev-1", "mega drive hits", gemini.LocalePTBR)
	if out.Status != StatusOK {
		t.Fatalf("expected ok status, got %s", out.Status)
	}
	for _, r := range out.Results {
		if r.CoverURL != "" {
			t.Fatal("initial batch must render before any cover arrives")
		}
	}

	svc.WaitForEnrichment()

	snapshot, err := svc.Snapshot("dev-1", out.BatchID)
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	for i, r := range snapshot {
		wantCover := i%2 == 0 // indices 0, 2, 4 succeed
		if wantCover && r.CoverURL == "" {
			t.Fatalf("expected cover at index %d", i)
		}
		if !wantCover && r.CoverURL != "" {
			t.Fatalf("expected no cover at index %d, got %q", i, r.CoverURL)
		}
	}
}

func TestSearch_StalePatchesAreDropped(t *testing.T) {
	gate := make(chan struct{})
	covers := &fakeCovers{
		covers: map[string]string{
			"Old1": "https://img/t_cover_big/old1.jpg",
			"Old2": "https://img/t_cover_big/old2.jpg",
			"New1": "https://img/t_cover_big/new1.jpg",
		},
		gate: gate,
	}
	search := &fakeSearch{outcome: gemini.Outcome{Kind: gemini.OutcomeOK, Results: results("Old1", "Old2")}}
	svc, bus := newService(search, covers)

	first := svc.Search(context.Background(), "dev-1", "old", gemini.LocalePTBR)

	// A second search supersedes the first batch while its lookups are
	// still blocked on the gate.
	search.outcome = gemini.Outcome{Kind: gemini.OutcomeOK, Results: results("New1")}
	second := svc.Search(context.Background(), "dev-1", "new", gemini.LocalePTBR)

	close(gate)
	svc.WaitForEnrichment()

	if _, err := svc.Snapshot("dev-1", first.BatchID); err == nil {
		t.Fatal("expected first batch superseded")
	}

	snapshot, err := svc.Snapshot("dev-1", second.BatchID)
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	if snapshot[0].CoverURL != "https://img/t_cover_big/new1.jpg" {
		t.Fatalf("expected new batch cover, got %q", snapshot[0].CoverURL)
	}

	for _, e := range bus.coverEvents() {
		if e.BatchID == first.BatchID {
			t.Fatal("stale cover patch must not publish an event")
		}
	}
}

func TestSearch_FailureFoldsToEmptyErrorState(t *testing.T) {
	cases := []struct {
		outcome gemini.Outcome
		status  SearchStatus
	}{
		{gemini.Outcome{Kind: gemini.OutcomeTransportError, Err: errors.New("down")}, StatusError},
		{gemini.Outcome{Kind: gemini.OutcomeSchemaError, Err: errors.New("bad json")}, StatusError},
		{gemini.Outcome{Kind: gemini.OutcomeOutOfDomain, Results: []domain.SearchResult{}}, StatusOutOfDomain},
		{gemini.Outcome{Kind: gemini.OutcomeOK, Results: []domain.SearchResult{}}, StatusNoResults},
	}

	for _, tc := range cases {
		svc, _ := newService(&fakeSearch{outcome: tc.outcome}, nil)
		out := svc.Search(context.Background(), "dev-1", "anything", gemini.LocaleENUS)
		if out.Status != tc.status {
			t.Fatalf("outcome %s: expected status %s, got %s", tc.outcome.Kind, tc.status, out.Status)
		}
		if len(out.Results) != 0 {
			t.Fatalf("outcome %s: expected empty results", tc.outcome.Kind)
		}
	}
}

func TestSearch_NewSearchSupersedesPreviousBatch(t *testing.T) {
	search := &fakeSearch{outcome: gemini.Outcome{Kind: gemini.OutcomeOK, Results: results("G1")}}
	svc, _ := newService(search, nil)

	first := svc.Search(context.Background(), "dev-1", "one", gemini.LocalePTBR)

	search.outcome = gemini.Outcome{Kind: gemini.OutcomeOK, Results: []domain.SearchResult{}}
	svc.Search(context.Background(), "dev-1", "two", gemini.LocalePTBR)

	if _, err := svc.Snapshot("dev-1", first.BatchID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not-found for superseded batch, got %v", err)
	}
}

func TestSearch_ModelSuppliedCoverSkipsLookup(t *testing.T) {
	batch := results("G1", "G2")
	batch[0].CoverURL = "https://img/t_cover_big/already.jpg"
	covers := &fakeCovers{covers: map[string]string{"G2": "https://img/t_cover_big/g2.jpg"}}
	svc, _ := newService(&fakeSearch{outcome: gemini.Outcome{Kind: gemini.OutcomeOK, Results: batch}}, covers)

	svc.Search(context.Background(), "dev-1", "q", gemini.LocalePTBR)
	svc.WaitForEnrichment()

	if n := covers.lookupCount(); n != 1 {
		t.Fatalf("expected 1 lookup, got %d", n)
	}
}

func TestSearch_BatchesAreDeviceScoped(t *testing.T) {
	search := &fakeSearch{outcome: gemini.Outcome{Kind: gemini.OutcomeOK, Results: results("G1")}}
	svc, _ := newService(search, nil)

	out := svc.Search(context.Background(), "dev-1", "q", gemini.LocalePTBR)

	if _, err := svc.Snapshot("dev-2", out.BatchID); err == nil {
		t.Fatal("expected batch invisible to another device")
	}
}

func TestDetail_MergesFieldsAndSupersedesBatch(t *testing.T) {
	search := &fakeSearch{
		outcome: gemini.Outcome{Kind: gemini.OutcomeOK, Results: results("Sonic")},
		fields: &domain.DetailFields{
			Summary:     "Blue blur.",
			ReleaseDate: "1991-06-23",
			Cheats:      "Up Down Left Right A",
			Tips:        "Keep your rings",
		},
	}
	svc, _ := newService(search, nil)

	out := svc.Search(context.Background(), "dev-1", "sonic", gemini.LocalePTBR)

	game := out.Results[0]
	detail, err := svc.Detail(context.Background(), "dev-1", game, gemini.LocalePTBR)
	if err != nil {
		t.Fatalf("detail failed: %v", err)
	}
	if detail.Name != "Sonic" || detail.Summary != "Blue blur." || detail.Cheats == "" {
		t.Fatalf("unexpected detail %+v", detail)
	}

	if _, err := svc.Snapshot("dev-1", out.BatchID); err == nil {
		t.Fatal("expected batch superseded after opening details")
	}
}

func TestDetail_NilFromClientIsUnavailable(t *testing.T) {
	svc, _ := newService(&fakeSearch{}, nil)

	_, err := svc.Detail(context.Background(), "dev-1", domain.SearchResult{Name: "Sonic", Platform: "Mega Drive"}, gemini.LocalePTBR)
	if !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
}

func TestStore_PatchOutOfRangeIsIgnored(t *testing.T) {
	store := NewStore()
	_, epoch := store.Begin("dev-1", results("G1"))

	if store.Patch("dev-1", epoch, 5, "https://x") {
		t.Fatal("expected out-of-range patch rejected")
	}
	if store.Patch("dev-1", epoch, -1, "https://x") {
		t.Fatal("expected negative index rejected")
	}
}

func TestStore_PatchStaleEpochIsIgnored(t *testing.T) {
	store := NewStore()
	_, epoch := store.Begin("dev-1", results("G1"))
	id2, _ := store.Begin("dev-1", results("G2"))

	if store.Patch("dev-1", epoch, 0, "https://stale") {
		t.Fatal("expected stale epoch patch rejected")
	}

	snapshot, ok := store.Snapshot("dev-1", id2)
	if !ok {
		t.Fatal("expected current batch")
	}
	if snapshot[0].CoverURL != "" {
		t.Fatalf("expected current batch untouched, got %q", snapshot[0].CoverURL)
	}
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	store := NewStore()
	id, epoch := store.Begin("dev-1", results("G1"))

	snapshot, _ := store.Snapshot("dev-1", id)
	snapshot[0].CoverURL = "mutated"

	if !store.Patch("dev-1", epoch, 0, "https://real") {
		t.Fatal("patch failed")
	}
	fresh, _ := store.Snapshot("dev-1", id)
	if fresh[0].CoverURL != "https://real" {
		t.Fatalf("expected stored state isolated from snapshot mutation, got %q", fresh[0].CoverURL)
	}
}

func TestStore_ConcurrentPatches(t *testing.T) {
	const n = 32
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("G%d", i)
	}
	store := NewStore()
	id, epoch := store.Begin("dev-1", results(names...))

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			store.Patch("dev-1", epoch, i, fmt.Sprintf("https://img/%d.jpg", i))
		}(i)
	}
	wg.Wait()

	snapshot, _ := store.Snapshot("dev-1", id)
	for i, r := range snapshot {
		if r.CoverURL != fmt.Sprintf("https://img/%d.jpg", i) {
			t.Fatalf("index %d: expected its own cover, got %q", i, r.CoverURL)
		}
	}
}
