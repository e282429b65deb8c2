package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gabriellgomess/condominio-app-sub002/internal/api/middleware"
	"github.com/gabriellgomess/condominio-app-sub002/internal/api/response"
	"github.com/gabriellgomess/condominio-app-sub002/internal/domain"
	"github.com/gabriellgomess/condominio-app-sub002/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ReservationHandler handles reservation endpoints
type ReservationHandler struct {
	reservationService *service.ReservationService
}

// NewReservationHandler creates a new reservation handler
func NewReservationHandler(reservationService *service.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservationService: reservationService}
}

// Create handles booking submission
func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
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

	var input domain.ReservationCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	res, err := h.reservationService.Create(r.Context(), actor, condominiumID, spaceID, input)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	response.Created(w, res)
}

// Get handles reading a single reservation
func (h *ReservationHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.actorAndID(w, r)
	if !ok {
		return
	}

	res, err := h.reservationService.Get(r.Context(), actor, id)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	response.OK(w, res)
}

// List handles reservation listings for a condominium
func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	condominiumID, ok := middleware.GetCondominiumID(r.Context())
	if !ok {
		response.BadRequest(w, "missing condominium ID")
		return
	}

	filter, err := parseFilter(r, condominiumID)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	reservations, err := h.reservationService.List(r.Context(), actor, filter)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	response.OK(w, reservations)
}

// Confirm handles pending -> confirmed
func (h *ReservationHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.reservationService.Confirm)
}

// Reject handles pending -> rejected
func (h *ReservationHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.reservationService.Reject)
}

// Complete handles confirmed -> completed
func (h *ReservationHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.reservationService.Complete)
}

// Cancel handles {pending,confirmed} -> cancelled with a reason
func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.actorAndID(w, r)
	if !ok {
		return
	}

	var input domain.ReservationCancel
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	res, err := h.reservationService.Cancel(r.Context(), actor, id, input.Reason)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	response.OK(w, res)
}

type transitionFunc func(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Reservation, error)

func (h *ReservationHandler) transition(w http.ResponseWriter, r *http.Request, fn transitionFunc) {
	actor, id, ok := h.actorAndID(w, r)
	if !ok {
		return
	}

	res, err := fn(r.Context(), actor, id)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	response.OK(w, res)
}

func (h *ReservationHandler) actorAndID(w http.ResponseWriter, r *http.Request) (domain.Actor, uuid.UUID, bool) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return domain.Actor{}, uuid.Nil, false
	}

	id, err := uuid.Parse(chi.URLParam(r, "reservationID"))
	if err != nil {
		response.BadRequest(w, "invalid reservation ID")
		return domain.Actor{}, uuid.Nil, false
	}

	return actor, id, true
}

func parseFilter(r *http.Request, condominiumID uuid.UUID) (domain.ReservationFilter, error) {
	q := r.URL.Query()
	filter := domain.ReservationFilter{
		CondominiumID: condominiumID,
		Search:        q.Get("q"),
	}

	if raw := q.Get("space_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, fmt.Errorf("invalid space_id parameter")
		}
		filter.SpaceID = &id
	}
	if raw := q.Get("status"); raw != "" {
		status := domain.ReservationStatus(raw)
		switch status {
		case domain.StatusPending, domain.StatusConfirmed, domain.StatusCancelled,
			domain.StatusCompleted, domain.StatusRejected:
			filter.Status = &status
		default:
			return filter, fmt.Errorf("invalid status parameter")
		}
	}
	if raw := q.Get("from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, fmt.Errorf("invalid from parameter, expected YYYY-MM-DD")
		}
		filter.DateFrom = &t
	}
	if raw := q.Get("to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, fmt.Errorf("invalid to parameter, expected YYYY-MM-DD")
		}
		filter.DateTo = &t
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return filter, fmt.Errorf("invalid limit parameter")
		}
		filter.Limit = n
	}
	if raw := q.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return filter, fmt.Errorf("invalid offset parameter")
		}
		filter.Offset = n
	}

	return filter, nil
}
