package handler

import (
	"errors"
	"net/http"

	"github.com/gabriellgomess/condominio-app-sub002/internal/api/response"
	"github.com/gabriellgomess/condominio-app-sub002/internal/domain"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// WriteDomainError maps a domain error to its HTTP representation. Unknown
// errors become 500s without leaking internals.
func WriteDomainError(w http.ResponseWriter, err error) {
	code := domain.ErrorCode(err)

	var conflictErr *domain.ConflictError
	if errors.As(err, &conflictErr) {
		response.ErrorWithDetails(w, http.StatusConflict, code, err.Error(), map[string]any{
			"conflicts": conflictErr.Conflicts,
		})
		return
	}

	switch {
	case domain.IsNotFoundError(err):
		response.NotFound(w, code, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		response.Forbidden(w, err.Error())
	case domain.IsAdmissionError(err):
		response.Error(w, http.StatusUnprocessableEntity, code, err.Error())
	case errors.Is(err, domain.ErrNotReservable),
		errors.Is(err, domain.ErrAlreadyConfigured),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrConflict):
		response.Error(w, http.StatusConflict, code, err.Error())
	case errors.Is(err, domain.ErrUnavailable):
		response.Error(w, http.StatusServiceUnavailable, code, err.Error())
	default:
		response.InternalError(w, "internal server error")
	}
}
