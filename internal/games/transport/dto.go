// Package transport defines the request/response DTOs for the games module.
package transport

import "retrocodex_backend/internal/games/domain"

// SearchRequest is the body of POST /games/search.
type SearchRequest struct {
	Query  string `json:"query" validate:"required,min=1,max=200"`
	Locale string `json:"locale" validate:"omitempty,oneof=pt-BR en-US"`
}

// SearchResponse returns the immediate search batch. Covers resolve after
// this response; clients pick them up via the snapshot endpoint or the SSE
// stream. Status is one of ok, no_results, out_of_domain, error.
type SearchResponse struct {
	Status  string                `json:"status"`
	BatchID string                `json:"batchId,omitempty"`
	Results []domain.SearchResult `json:"results"`
}

// DetailRequest identifies the game to fetch details for. The identifying
// fields come from a previous search result.
type DetailRequest struct {
	ID               int    `json:"id"`
	Name             string `json:"name" validate:"required"`
	Platform         string `json:"platform" validate:"required"`
	Year             string `json:"year"`
	BriefDescription string `json:"briefDescription"`
	CoverURL         string `json:"coverUrl"`
	Locale           string `json:"locale" validate:"omitempty,oneof=pt-BR en-US"`
}

// DetailResponse is the assembled game detail.
type DetailResponse struct {
	Game domain.GameDetail `json:"game"`
}

// CoverPatch is the SSE payload for one resolved cover.
type CoverPatch struct {
	BatchID  string `json:"batchId"`
	Index    int    `json:"index"`
	CoverURL string `json:"coverUrl"`
}
