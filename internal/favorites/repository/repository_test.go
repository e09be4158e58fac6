package repository

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"retrocodex_backend/internal/games/domain"
)

func testRepo(t *testing.T) (Repository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return New(rdb), mr
}

func TestListMissingKeyIsEmpty(t *testing.T) {
	repo, _ := testRepo(t)

	favorites, err := repo.List(context.Background(), "device-1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(favorites) != 0 {
		t.Fatalf("expected empty list, got %d entries", len(favorites))
	}
}

func TestSaveThenListRoundTrip(t *testing.T) {
	repo, _ := testRepo(t)
	ctx := context.Background()

	in := []domain.GameDetail{
		{SearchResult: domain.SearchResult{ID: 1, Name: "Chrono Trigger", Platform: "SNES", Year: "1995"}},
		{SearchResult: domain.SearchResult{ID: 2, Name: "Chrono Trigger", Platform: "PS1", Year: "1999"}},
	}
	if err := repo.Save(ctx, "device-1", in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out, err := repo.List(ctx, "device-1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 favorites, got %d", len(out))
	}
	if out[0].Name != "Chrono Trigger" || out[0].Platform != "SNES" {
		t.Fatalf("unexpected first favorite: %+v", out[0])
	}
	if out[1].Platform != "PS1" {
		t.Fatalf("unexpected second favorite: %+v", out[1])
	}
}

func TestListCorruptPayloadTreatedAsEmpty(t *testing.T) {
	repo, mr := testRepo(t)

	mr.Set("retrocodex:favorites:device-1", "{not json")

	favorites, err := repo.List(context.Background(), "device-1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(favorites) != 0 {
		t.Fatalf("expected corrupt payload to read as empty, got %d entries", len(favorites))
	}
}

func TestListsAreScopedPerDevice(t *testing.T) {
	repo, _ := testRepo(t)
	ctx := context.Background()

	if err := repo.Save(ctx, "device-1", []domain.GameDetail{
		{SearchResult: domain.SearchResult{Name: "Doom", Platform: "DOS"}},
	}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	other, err := repo.List(ctx, "device-2")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("device-2 should have no favorites, got %d", len(other))
	}
}
