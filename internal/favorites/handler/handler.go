package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"retrocodex_backend/internal/favorites/service"
	"retrocodex_backend/internal/favorites/transport"
	"retrocodex_backend/internal/games/domain"
	gamehandler "retrocodex_backend/internal/games/handler"
	"retrocodex_backend/platform/httpkit"
	"retrocodex_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgDeviceRequired   = "device ID is required"
)

// Handler handles HTTP requests for the favorites list.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new favorites handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func mustGetDeviceID(c *gin.Context) (string, bool) {
	deviceID := gamehandler.DeviceID(c)
	if deviceID == "" {
		httpkit.Error(c, http.StatusBadRequest, msgDeviceRequired, nil)
		return "", false
	}
	return deviceID, true
}

// List returns the device's favorites.
// GET /api/v1/favorites
func (h *Handler) List(c *gin.Context) {
	deviceID, ok := mustGetDeviceID(c)
	if !ok {
		return
	}

	favorites, err := h.svc.List(c.Request.Context(), deviceID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ListResponse{Favorites: favorites})
}

// Toggle adds or removes a favorite by its (name, platform) identity.
// POST /api/v1/favorites/toggle
func (h *Handler) Toggle(c *gin.Context) {
	var req transport.ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	deviceID, ok := mustGetDeviceID(c)
	if !ok {
		return
	}

	game := domain.GameDetail{
		SearchResult: domain.SearchResult{
			ID:               req.ID,
			Name:             req.Name,
			Platform:         req.Platform,
			Year:             req.Year,
			BriefDescription: req.BriefDescription,
			CoverURL:         req.CoverURL,
		},
		DetailFields: domain.DetailFields{
			Summary:     req.Summary,
			ReleaseDate: req.ReleaseDate,
			Cheats:      req.Cheats,
			Tips:        req.Tips,
		},
	}

	favorited, favorites, err := h.svc.Toggle(c.Request.Context(), deviceID, game)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToggleResponse{Favorited: favorited, Favorites: favorites})
}

// Remove deletes a favorite by identity. Removing an absent entry succeeds.
// DELETE /api/v1/favorites
func (h *Handler) Remove(c *gin.Context) {
	var req transport.RemoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	deviceID, ok := mustGetDeviceID(c)
	if !ok {
		return
	}

	favorites, err := h.svc.Remove(c.Request.Context(), deviceID, req.Name, req.Platform)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ListResponse{Favorites: favorites})
}
