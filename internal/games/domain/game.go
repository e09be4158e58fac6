// Package domain holds the core game types shared by the games module.
package domain

// SearchResult is one candidate game returned by the generative search.
// The ID is assigned by the model and is neither globally unique nor stable
// across calls. CoverURL starts empty and is filled in by enrichment; a
// patch replaces the whole element rather than mutating it in place.
type SearchResult struct {
	ID               int    `json:"id"`
	Name             string `json:"name"`
	Platform         string `json:"platform"`
	Year             string `json:"year,omitempty"`
	BriefDescription string `json:"briefDescription"`
	CoverURL         string `json:"coverUrl,omitempty"`
}

// DetailFields is the narrative payload for a single game.
type DetailFields struct {
	Summary     string `json:"summary"`
	ReleaseDate string `json:"releaseDate,omitempty"`
	Cheats      string `json:"cheats"`
	Tips        string `json:"tips"`
}

// GameDetail extends a search result with its detail payload.
// Immutable once assembled.
type GameDetail struct {
	SearchResult
	DetailFields
}
