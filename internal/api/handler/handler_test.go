package handler_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gabriellgomess/condominio-app-sub002/internal/api/handler"
	"github.com/gabriellgomess/condominio-app-sub002/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestHealthCheck(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()

	handler.HealthCheck(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response map[string]any
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, true, response["success"])

	data, ok := response["data"].(map[string]any)
	assert.True(t, ok)
	assert.Equal(t, "ok", data["status"])
}

func TestWriteDomainError(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"space not found", domain.ErrSpaceNotFound, http.StatusNotFound, "space_not_found"},
		{"not configured", domain.ErrNotConfigured, http.StatusNotFound, "not_configured"},
		{"reservation not found", domain.ErrReservationNotFound, http.StatusNotFound, "reservation_not_found"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"too soon", fmt.Errorf("%w: must be booked at least 24 hours in advance", domain.ErrTooSoon), http.StatusUnprocessableEntity, "too_soon"},
		{"day unavailable", domain.ErrDayUnavailable, http.StatusUnprocessableEntity, "day_unavailable"},
		{"daily limit", domain.ErrDailyLimitReached, http.StatusUnprocessableEntity, "daily_limit_reached"},
		{"not reservable", domain.ErrNotReservable, http.StatusConflict, "not_reservable"},
		{"already configured", domain.ErrAlreadyConfigured, http.StatusConflict, "already_configured"},
		{"invalid transition", fmt.Errorf("%w: reservation is cancelled", domain.ErrInvalidTransition), http.StatusConflict, "invalid_transition"},
		{"storage unavailable", domain.ErrUnavailable, http.StatusServiceUnavailable, "unavailable"},
		{"unknown error", fmt.Errorf("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.WriteDomainError(rec, tc.err)

			assert.Equal(t, tc.wantStatus, rec.Code)

			var response struct {
				Success bool `json:"success"`
				Error   struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			assert.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
			assert.False(t, response.Success)
			assert.Equal(t, tc.wantCode, response.Error.Code)
		})
	}
}

func TestWriteDomainError_Conflict(t *testing.T) {
	err := &domain.ConflictError{Conflicts: []domain.ConflictSummary{
		{ID: uuid.New(), ContactName: "Ana", StartTime: 10 * 60, EndTime: 12 * 60, Status: domain.StatusConfirmed},
	}}

	rec := httptest.NewRecorder()
	handler.WriteDomainError(rec, err)

	assert.Equal(t, http.StatusConflict, rec.Code)

	var response struct {
		Error struct {
			Code    string `json:"code"`
			Details struct {
				Conflicts []struct {
					ContactName string `json:"contact_name"`
					StartTime   string `json:"start_time"`
				} `json:"conflicts"`
			} `json:"details"`
		} `json:"error"`
	}
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, "conflict", response.Error.Code)
	assert.Len(t, response.Error.Details.Conflicts, 1)
	assert.Equal(t, "Ana", response.Error.Details.Conflicts[0].ContactName)
	assert.Equal(t, "10:00", response.Error.Details.Conflicts[0].StartTime)
}
