package covers

import "sync"

// TokenCache is a single-slot cache for the metadata provider's bearer token.
// At most one value is cached at a time and there is no TTL tracking.
// Staleness is discovered reactively when the provider rejects a request, at which
// point Invalidate clears the slot so the next call re-authenticates.
//
// The cache is owned by whoever constructs it and injected into the Client,
// so tests can seed or fake it.
type TokenCache struct {
	mu    sync.Mutex
	token string
}

// NewTokenCache creates an empty token cache.
func NewTokenCache() *TokenCache {
	return &TokenCache{}
}

// Get returns the cached token and whether one is present.
func (tc *TokenCache) Get() (string, bool) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return tc.token, tc.token != ""
}

// Set stores a freshly obtained token.
func (tc *TokenCache) Set(token string) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.token = token
}

// Invalidate clears the cached token, forcing re-authentication on the
// next request. Safe to call when the slot is already empty.
func (tc *TokenCache) Invalidate() {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.token = ""
}
