package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gabriellgomess/condominio-app-sub002/internal/api/response"
	"github.com/gabriellgomess/condominio-app-sub002/internal/domain"
	"github.com/gabriellgomess/condominio-app-sub002/internal/repository/redis"
	"github.com/gabriellgomess/condominio-app-sub002/internal/security"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type contextKey string

const (
	actorKey         contextKey = "actor"
	condominiumIDKey contextKey = "condominiumID"
	spaceIDKey       contextKey = "spaceID"
)

// AuthMiddleware validates platform identity tokens.
type AuthMiddleware struct {
	jwtManager *security.JWTManager
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(jwtManager *security.JWTManager) *AuthMiddleware {
	return &AuthMiddleware{jwtManager: jwtManager}
}

// Authenticate validates the bearer token and stores the actor in context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(w, "invalid authorization header format")
			return
		}

		claims, err := m.jwtManager.Validate(parts[1])
		if err != nil {
			response.Unauthorized(w, "invalid or expired token: "+err.Error())
			return
		}

		actor := domain.Actor{UserID: claims.UserID, Role: claims.Role}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), actorKey, actor)))
	})
}

// RequireAdmin rejects non-administrator actors.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := GetActor(r.Context())
		if !ok {
			response.Unauthorized(w, "unauthorized")
			return
		}
		if !actor.IsAdmin() {
			response.Forbidden(w, "administrator access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetActor gets the authenticated actor from context
func GetActor(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(domain.Actor)
	return actor, ok
}

// CondominiumContext extracts the condominium ID from the URL.
func CondominiumContext(next http.Handler) http.Handler {
	return uuidParam(next, "condominiumID", condominiumIDKey)
}

// SpaceContext extracts the space ID from the URL.
func SpaceContext(next http.Handler) http.Handler {
	return uuidParam(next, "spaceID", spaceIDKey)
}

func uuidParam(next http.Handler, param string, key contextKey) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := chi.URLParam(r, param)
		if raw == "" {
			response.BadRequest(w, "missing "+param)
			return
		}

		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(w, "invalid "+param)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), key, id)))
	})
}

// GetCondominiumID gets the condominium ID from context
func GetCondominiumID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(condominiumIDKey).(uuid.UUID)
	return id, ok
}

// GetSpaceID gets the space ID from context
func GetSpaceID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(spaceIDKey).(uuid.UUID)
	return id, ok
}

// RateLimitMiddleware caps booking submissions per user.
type RateLimitMiddleware struct {
	rateLimiter *redis.RateLimiter
}

// NewRateLimitMiddleware creates a new rate limit middleware
func NewRateLimitMiddleware(rateLimiter *redis.RateLimiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{rateLimiter: rateLimiter}
}

// Limit applies rate limiting based on the actor's user ID.
func (m *RateLimitMiddleware) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := GetActor(r.Context())
		if !ok {
			response.Unauthorized(w, "unauthorized")
			return
		}

		allowed, remaining, resetTime, err := m.rateLimiter.Allow(r.Context(), actor.UserID.String())
		if err != nil {
			// A broken limiter should not take bookings down with it.
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("X-RateLimit-Reset", resetTime.Format("2006-01-02T15:04:05Z"))

		if !allowed {
			response.Error(w, http.StatusTooManyRequests, "rate_limited", "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}
