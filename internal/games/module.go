// Package games provides the game search bounded context module: generative
// search and details, asynchronous cover enrichment and the SSE patch stream.
package games

import (
	"context"

	"retrocodex_backend/internal/events"
	"retrocodex_backend/internal/games/handler"
	"retrocodex_backend/internal/games/service"
	"retrocodex_backend/internal/games/stream"
	"retrocodex_backend/internal/games/transport"
	apphttp "retrocodex_backend/internal/http"
	"retrocodex_backend/platform/logger"
	"retrocodex_backend/platform/validator"
)

// Module is the games bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	stream  *stream.Service
}

// NewModule creates and initializes the games module with its dependencies.
// covers may be nil when cover resolution is not configured.
func NewModule(search service.SearchClient, covers service.CoverResolver, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(search, covers, service.NewStore(), bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		stream:  stream.New(log),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "games"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Stream returns the SSE service so main can close it on shutdown.
func (m *Module) Stream() *stream.Service {
	return m.stream
}

// RegisterRoutes mounts game search routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	gamesGroup := ctx.V1.Group("/games")
	gamesGroup.POST("/search", m.handler.Search)
	gamesGroup.GET("/search/:id", m.handler.Snapshot)
	gamesGroup.POST("/detail", m.handler.Detail)
	gamesGroup.GET("/stream", m.stream.Handler(handler.DeviceID))
}

// RegisterHandlers subscribes the SSE stream to enrichment events.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.CoverResolved{}.EventName(), m)
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.CoverResolved:
		m.stream.PublishCoverPatch(e.DeviceID, transport.CoverPatch{
			BatchID:  e.BatchID.String(),
			Index:    e.Index,
			CoverURL: e.CoverURL,
		})
		return nil
	default:
		return nil
	}
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
