// Package transport defines the request/response DTOs for the favorites module.
package transport

import "retrocodex_backend/internal/games/domain"

// ToggleRequest carries the full game payload so the stored favorite renders
// without another lookup. Detail fields are optional; a favorite saved from
// the results grid has only the search fields.
type ToggleRequest struct {
	ID               int    `json:"id"`
	Name             string `json:"name" validate:"required"`
	Platform         string `json:"platform" validate:"required"`
	Year             string `json:"year"`
	BriefDescription string `json:"briefDescription"`
	CoverURL         string `json:"coverUrl"`
	Summary          string `json:"summary"`
	ReleaseDate      string `json:"releaseDate"`
	Cheats           string `json:"cheats"`
	Tips             string `json:"tips"`
}

// ToggleResponse reports the new state and the full list after the toggle.
type ToggleResponse struct {
	Favorited bool                `json:"favorited"`
	Favorites []domain.GameDetail `json:"favorites"`
}

// ListResponse is the device's favorites in insertion order.
type ListResponse struct {
	Favorites []domain.GameDetail `json:"favorites"`
}

// RemoveRequest identifies the favorite to delete.
type RemoveRequest struct {
	Name     string `json:"name" validate:"required"`
	Platform string `json:"platform" validate:"required"`
}
