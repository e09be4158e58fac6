// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"retrocodex_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Games Domain Events
// =============================================================================

// SearchCompleted is published when a generative search produced a result
// batch and enrichment is about to start.
type SearchCompleted struct {
	BaseEvent
	DeviceID string    `json:"deviceId"`
	BatchID  uuid.UUID `json:"batchId"`
	Query    string    `json:"query"`
	Results  int       `json:"results"`
}

func (e SearchCompleted) EventName() string { return "games.search.completed" }

// CoverResolved is published when an enrichment lookup patched a cover into
// a result batch. Consumed by the SSE stream to push the patch to clients.
type CoverResolved struct {
	BaseEvent
	DeviceID string    `json:"deviceId"`
	BatchID  uuid.UUID `json:"batchId"`
	Index    int       `json:"index"`
	CoverURL string    `json:"coverUrl"`
}

func (e CoverResolved) EventName() string { return "games.cover.resolved" }

// =============================================================================
// Favorites Domain Events
// =============================================================================

// FavoriteToggled is published when a favorite is added or removed.
type FavoriteToggled struct {
	BaseEvent
	DeviceID string `json:"deviceId"`
	Name     string `json:"name"`
	Platform string `json:"platform"`
	Added    bool   `json:"added"`
}

func (e FavoriteToggled) EventName() string { return "favorites.toggled" }
