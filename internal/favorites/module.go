// Package favorites provides the favorites bounded context module: a
// per-device list of saved games persisted in Redis.
package favorites

import (
	"github.com/redis/go-redis/v9"

	"retrocodex_backend/internal/events"
	"retrocodex_backend/internal/favorites/handler"
	"retrocodex_backend/internal/favorites/repository"
	"retrocodex_backend/internal/favorites/service"
	apphttp "retrocodex_backend/internal/http"
	"retrocodex_backend/platform/logger"
	"retrocodex_backend/platform/validator"
)

// Module is the favorites bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the favorites module with its dependencies.
func NewModule(rdb *redis.Client, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(repository.New(rdb), bus, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "favorites"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts favorites routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/favorites")
	group.GET("", m.handler.List)
	group.POST("/toggle", m.handler.Toggle)
	group.DELETE("", m.handler.Remove)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
