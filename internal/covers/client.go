// Package covers resolves box-art images for games through an
// OAuth2-authenticated catalog provider (IGDB behind Twitch identity).
// Cover resolution is always a soft dependency: callers must treat a
// missing cover as a normal outcome, never as a failed search.
package covers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/sync/singleflight"

	"retrocodex_backend/platform/config"
	"retrocodex_backend/platform/logger"
	"retrocodex_backend/platform/sanitize"
)

// Client queries the catalog provider for cover art. Authentication uses the
// client-credentials exchange; the resulting bearer token lives in the
// injected TokenCache until the provider rejects it.
type Client struct {
	cfg    config.CoversConfig
	http   *http.Client
	tokens *TokenCache
	log    *logger.Logger

	// auth collapses concurrent token exchanges into one upstream call;
	// a search batch fires N enrichment lookups at once and all of them
	// may find the cache empty simultaneously.
	auth singleflight.Group
}

// NewClient creates a cover client with the given token cache.
func NewClient(cfg config.CoversConfig, tokens *TokenCache, log *logger.Logger) *Client {
	return &Client{
		cfg:    cfg,
		http:   &http.Client{},
		tokens: tokens,
		log:    log,
	}
}

// Enabled reports whether the provider credentials are configured.
func (c *Client) Enabled() bool {
	return c.cfg.GetCoversEnabled()
}

// CoverByName resolves a high-resolution cover URL for the given game name.
// Returns ("", nil) when the catalog has no match and an error on auth or
// transport failure. Either way the caller renders without a cover; no
// failure here may propagate into the search path.
func (c *Client) CoverByName(ctx context.Context, name string) (string, error) {
	if !c.Enabled() {
		return "", nil
	}

	cleanName := sanitize.SearchName(name)
	if cleanName == "" {
		return "", nil
	}

	token, err := c.ensureToken(ctx)
	if err != nil {
		return "", fmt.Errorf("cover auth: %w", err)
	}

	raw, err := c.queryCover(ctx, token, cleanName)
	if err != nil {
		return "", err
	}
	if raw == "" {
		c.log.CoverMiss(name, "no catalog match")
		return "", nil
	}

	return NormalizeImageURL(raw), nil
}

// ensureToken returns the cached bearer token, performing the
// client-credentials exchange when the slot is empty.
func (c *Client) ensureToken(ctx context.Context) (string, error) {
	if token, ok := c.tokens.Get(); ok {
		return token, nil
	}

	result, err, _ := c.auth.Do("token", func() (interface{}, error) {
		// Re-check under singleflight: another caller may have just
		// finished the exchange.
		if token, ok := c.tokens.Get(); ok {
			return token, nil
		}

		token, err := c.exchangeCredentials(ctx)
		if err != nil {
			return "", err
		}
		c.tokens.Set(token)
		return token, nil
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (c *Client) exchangeCredentials(ctx context.Context) (string, error) {
	form := url.Values{
		"client_id":     {c.cfg.GetIGDBClientID()},
		"client_secret": {c.cfg.GetIGDBClientSecret()},
		"grant_type":    {"client_credentials"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.GetTwitchAuthURL(), strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("identity endpoint returned %d", resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("identity endpoint returned empty token")
	}

	return body.AccessToken, nil
}

// queryCover issues the Apicalypse query against the /games resource.
// An authorization rejection invalidates the cached token so the next
// lookup re-authenticates; the failing call itself does not retry.
func (c *Client) queryCover(ctx context.Context, token, cleanName string) (string, error) {
	query := fmt.Sprintf("fields cover.url; search %q; limit 1;", cleanName)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.GetIGDBAPIURL()+"/games", strings.NewReader(query))
	if err != nil {
		return "", err
	}
	req.Header.Set("Client-ID", c.cfg.GetIGDBClientID())
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "text/plain")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		c.tokens.Invalidate()
		return "", fmt.Errorf("catalog rejected token with %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("catalog returned %d", resp.StatusCode)
	}

	var rows []struct {
		Cover struct {
			URL string `json:"url"`
		} `json:"cover"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return "", fmt.Errorf("decode catalog response: %w", err)
	}

	if len(rows) == 0 {
		return "", nil
	}
	return rows[0].Cover.URL, nil
}
