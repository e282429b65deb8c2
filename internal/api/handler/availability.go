package handler

import (
	"net/http"
	"time"

	"github.com/gabriellgomess/condominio-app-sub002/internal/api/middleware"
	"github.com/gabriellgomess/condominio-app-sub002/internal/api/response"
	"github.com/gabriellgomess/condominio-app-sub002/internal/service"
)

// AvailabilityHandler handles the availability query endpoint
type AvailabilityHandler struct {
	availabilityService *service.AvailabilityService
}

// NewAvailabilityHandler creates a new availability handler
func NewAvailabilityHandler(availabilityService *service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availabilityService: availabilityService}
}

// Get answers whether a space can be booked on a date, with the effective
// window and the day's existing reservations.
func (h *AvailabilityHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	rawDate := r.URL.Query().Get("date")
	if rawDate == "" {
		response.BadRequest(w, "missing date query parameter")
		return
	}
	date, err := time.Parse("2006-01-02", rawDate)
	if err != nil {
		response.BadRequest(w, "invalid date, expected YYYY-MM-DD")
		return
	}

	result, err := h.availabilityService.Get(r.Context(), condominiumID, spaceID, date)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	response.OK(w, result)
}
