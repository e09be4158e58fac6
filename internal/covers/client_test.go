package covers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"retrocodex_backend/platform/logger"
)

type testConfig struct {
	enabled  bool
	clientID string
	secret   string
	apiURL   string
	authURL  string
}

func (c testConfig) GetCoversEnabled() bool      { return c.enabled }
func (c testConfig) GetIGDBClientID() string     { return c.clientID }
func (c testConfig) GetIGDBClientSecret() string { return c.secret }
func (c testConfig) GetIGDBAPIURL() string       { return c.apiURL }
func (c testConfig) GetTwitchAuthURL() string    { return c.authURL }

// testProvider fakes the identity endpoint and the /games resource.
type testProvider struct {
	authCalls   atomic.Int64
	gamesCalls  atomic.Int64
	rejectToken atomic.Bool
	coverURL    string
}

func (p *testProvider) start(t *testing.T) (*httptest.Server, *httptest.Server) {
	t.Helper()

	auth := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.authCalls.Add(1)
		if err := r.ParseForm(); err != nil || r.Form.Get("grant_type") != "client_credentials" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Write([]byte(`{"access_token":"tok-` + r.Form.Get("client_id") + `"}`))
	}))
	t.Cleanup(auth.Close)

	games := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.gamesCalls.Add(1)
		if p.rejectToken.Load() {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if p.coverURL == "" {
			w.Write([]byte(`[]`))
			return
		}
		w.Write([]byte(`[{"cover":{"url":"` + p.coverURL + `"}}]`))
	}))
	t.Cleanup(games.Close)

	return auth, games
}

func newTestClient(t *testing.T, p *testProvider) (*Client, *TokenCache) {
	t.Helper()
	auth, games := p.start(t)
	cfg := testConfig{
		enabled:  true,
		clientID: "cid",
		secret:   "secret",
		apiURL:   games.URL,
		authURL:  auth.URL,
	}
	tokens := NewTokenCache()
	return NewClient(cfg, tokens, logger.New("development")), tokens
}

func TestCoverByName_ResolvesAndNormalizes(t *testing.T) {
	p := &testProvider{coverURL: "//images.example.com/t_thumb/zzz.jpg"}
	client, _ := newTestClient(t, p)

	got, err := client.CoverByName(context.Background(), "Sonic the Hedgehog!")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "https://images.example.com/t_cover_big/zzz.jpg" {
		t.Fatalf("unexpected cover url %q", got)
	}
}

func TestCoverByName_NoMatchIsSoft(t *testing.T) {
	p := &testProvider{}
	client, _ := newTestClient(t, p)

	got, err := client.CoverByName(context.Background(), "Unknown Game")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Fatalf("expected no cover, got %q", got)
	}
}

func TestCoverByName_CachesToken(t *testing.T) {
	p := &testProvider{coverURL: "//img/t_thumb/a.jpg"}
	client, _ := newTestClient(t, p)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := client.CoverByName(ctx, "Sonic"); err != nil {
			t.Fatalf("lookup %d failed: %v", i, err)
		}
	}

	if n := p.authCalls.Load(); n != 1 {
		t.Fatalf("expected exactly 1 auth exchange, got %d", n)
	}
}

func TestCoverByName_AuthRejectionInvalidatesToken(t *testing.T) {
	p := &testProvider{coverURL: "//img/t_thumb/a.jpg"}
	client, tokens := newTestClient(t, p)
	ctx := context.Background()

	// Prime the token.
	if _, err := client.CoverByName(ctx, "Sonic"); err != nil {
		t.Fatalf("priming lookup failed: %v", err)
	}

	// Provider starts rejecting the cached token.
	p.rejectToken.Store(true)
	if _, err := client.CoverByName(ctx, "Sonic"); err == nil {
		t.Fatal("expected error on rejected token")
	}
	if _, ok := tokens.Get(); ok {
		t.Fatal("expected cached token invalidated after rejection")
	}

	// The next lookup re-invokes the auth exchange exactly once.
	p.rejectToken.Store(false)
	before := p.authCalls.Load()
	if _, err := client.CoverByName(ctx, "Sonic"); err != nil {
		t.Fatalf("post-invalidation lookup failed: %v", err)
	}
	if got := p.authCalls.Load() - before; got != 1 {
		t.Fatalf("expected exactly 1 re-auth, got %d", got)
	}
}

func TestCoverByName_DisabledReturnsEmpty(t *testing.T) {
	cfg := testConfig{enabled: false}
	client := NewClient(cfg, NewTokenCache(), logger.New("development"))

	got, err := client.CoverByName(context.Background(), "Sonic")
	if err != nil || got != "" {
		t.Fatalf("expected soft empty result, got %q err=%v", got, err)
	}
}

func TestCoverByName_EmptySanitizedNameSkipsLookup(t *testing.T) {
	p := &testProvider{coverURL: "//img/t_thumb/a.jpg"}
	client, _ := newTestClient(t, p)

	got, err := client.CoverByName(context.Background(), "!!!")
	if err != nil || got != "" {
		t.Fatalf("expected skip, got %q err=%v", got, err)
	}
	if p.gamesCalls.Load() != 0 {
		t.Fatal("expected no catalog query for empty sanitized name")
	}
}
