package handler

import (
	"net/http"

	"github.com/geoguard/platform/internal/domain"
	"github.com/geoguard/platform/internal/guard"
	"github.com/geoguard/platform/internal/service"
)

// AuthHandler handles the login endpoint.
type AuthHandler struct {
	authSvc *service.AuthService
	limiter *guard.RateLimiter
}

// NewAuthHandler creates a new AuthHandler. The rate limiter is keyed by
// client IP.
func NewAuthHandler(authSvc *service.AuthService, limiter *guard.RateLimiter) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, limiter: limiter}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ip := ClientIP(r)
	if result := h.limiter.Check(r.Context(), ip); !result.Allowed {
		RespondError(w, domain.ErrRateLimited(result.Reason))
		return
	}

	var input service.LoginInput
	if err := DecodeJSON(r, &input); err != nil {
		RespondJSON(w, http.StatusBadRequest, map[string]string{
			"code":    "VALIDATION_ERROR",
			"message": "invalid request body",
		})
		return
	}
	input.ClientIP = ip

	result, err := h.authSvc.Login(r.Context(), input)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, result)
}
