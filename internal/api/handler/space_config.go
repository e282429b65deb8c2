package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gabriellgomess/condominio-app-sub002/internal/api/middleware"
	"github.com/gabriellgomess/condominio-app-sub002/internal/api/response"
	"github.com/gabriellgomess/condominio-app-sub002/internal/domain"
	"github.com/gabriellgomess/condominio-app-sub002/internal/service"
)

// SpaceConfigHandler handles reservation-configuration endpoints
type SpaceConfigHandler struct {
	configService *service.SpaceConfigService
}

// NewSpaceConfigHandler creates a new space config handler
func NewSpaceConfigHandler(configService *service.SpaceConfigService) *SpaceConfigHandler {
	return &SpaceConfigHandler{configService: configService}
}

// Create handles configuration creation for a space
func (h *SpaceConfigHandler) Create(w http.ResponseWriter, r *http.Request) {
	condominiumID, ok := middleware.GetCondominiumID(r.Context())
	if !ok {
		response.BadRequest(w, "missing condominium ID")
		return
	}
	spaceID, ok := middleware.GetSpaceID(r.Context())
	if !ok {
		response.BadRequest(w, "missing space ID")
		return
	}

	var input domain.SpaceConfigCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	if err := input.Validate(); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	cfg, err := h.configService.Create(r.Context(), condominiumID, spaceID, input)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	response.Created(w, cfg)
}

// Get handles reading the active configuration for a space
func (h *SpaceConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	condominiumID, ok := middleware.GetCondominiumID(r.Context())
	if !ok {
		response.BadRequest(w, "missing condominium ID")
		return
	}
	spaceID, ok := middleware.GetSpaceID(r.Context())
	if !ok {
		response.BadRequest(w, "missing space ID")
		return
	}

	cfg, err := h.configService.GetActive(r.Context(), condominiumID, spaceID)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	response.OK(w, cfg)
}

// Update handles in-place configuration updates
func (h *SpaceConfigHandler) Update(w http.ResponseWriter, r *http.Request) {
	condominiumID, ok := middleware.GetCondominiumID(r.Context())
	if !ok {
		response.BadRequest(w, "missing condominium ID")
		return
	}
	spaceID, ok := middleware.GetSpaceID(r.Context())
	if !ok {
		response.BadRequest(w, "missing space ID")
		return
	}

	var input domain.SpaceConfigUpdate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	cfg, err := h.configService.Update(r.Context(), condominiumID, spaceID, input)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	response.OK(w, cfg)
}

// Deactivate handles soft-deleting the active configuration
func (h *SpaceConfigHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	condominiumID, ok := middleware.GetCondominiumID(r.Context())
	if !ok {
		response.BadRequest(w, "missing condominium ID")
		return
	}
	spaceID, ok := middleware.GetSpaceID(r.Context())
	if !ok {
		response.BadRequest(w, "missing space ID")
		return
	}

	if err := h.configService.Deactivate(r.Context(), condominiumID, spaceID); err != nil {
		WriteDomainError(w, err)
		return
	}

	response.NoContent(w)
}
