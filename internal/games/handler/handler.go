package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"retrocodex_backend/internal/games/domain"
	"retrocodex_backend/internal/games/gemini"
	"retrocodex_backend/internal/games/service"
	"retrocodex_backend/internal/games/transport"
	"retrocodex_backend/platform/httpkit"
	"retrocodex_backend/platform/validator"
)

// DeviceIDHeader scopes search batches and SSE subscriptions to one client
// installation.
const DeviceIDHeader = "X-Device-ID"

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidBatchID   = "invalid batch ID"
	msgDeviceRequired   = "device ID is required"
)

// Handler handles HTTP requests for game search and details.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new games handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// DeviceID extracts the client device ID from the request.
func DeviceID(c *gin.Context) string {
	return c.GetHeader(DeviceIDHeader)
}

func mustGetDeviceID(c *gin.Context) (string, bool) {
	deviceID := DeviceID(c)
	if deviceID == "" {
		httpkit.Error(c, http.StatusBadRequest, msgDeviceRequired, nil)
		return "", false
	}
	return deviceID, true
}

func normalizeLocale(locale string) string {
	if locale == gemini.LocaleENUS {
		return gemini.LocaleENUS
	}
	return gemini.LocalePTBR
}

// Search runs a generative search and starts cover enrichment.
// POST /api/v1/games/search
func (h *Handler) Search(c *gin.Context) {
	var req transport.SearchRequest
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

	out := h.svc.Search(c.Request.Context(), deviceID, req.Query, normalizeLocale(req.Locale))

	resp := transport.SearchResponse{
		Status:  string(out.Status),
		Results: out.Results,
	}
	if out.Status == service.StatusOK {
		resp.BatchID = out.BatchID.String()
	}
	httpkit.OK(c, resp)
}

// Snapshot returns a batch with whatever covers have resolved so far.
// GET /api/v1/games/search/:id
func (h *Handler) Snapshot(c *gin.Context) {
	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidBatchID, nil)
		return
	}
	deviceID, ok := mustGetDeviceID(c)
	if !ok {
		return
	}

	results, err := h.svc.Snapshot(deviceID, batchID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.SearchResponse{
		Status:  string(service.StatusOK),
		BatchID: batchID.String(),
		Results: results,
	})
}

// Detail fetches the narrative/cheats/tips payload for one game.
// POST /api/v1/games/detail
func (h *Handler) Detail(c *gin.Context) {
	var req transport.DetailRequest
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

	game := domain.SearchResult{
		ID:               req.ID,
		Name:             req.Name,
		Platform:         req.Platform,
		Year:             req.Year,
		BriefDescription: req.BriefDescription,
		CoverURL:         req.CoverURL,
	}

	detail, err := h.svc.Detail(c.Request.Context(), deviceID, game, normalizeLocale(req.Locale))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.DetailResponse{Game: *detail})
}
