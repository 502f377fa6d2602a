package handler

import (
	"net/http"

	"github.com/geoguard/platform/internal/auth"
	"github.com/geoguard/platform/internal/domain"
	"github.com/geoguard/platform/internal/guard"
	"github.com/geoguard/platform/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// TargetHandler handles operation target endpoints.
type TargetHandler struct {
	targetSvc   *service.TargetService
	idempotency *guard.IdempotencyGuard
}

// NewTargetHandler creates a new TargetHandler.
func NewTargetHandler(targetSvc *service.TargetService, idempotency *guard.IdempotencyGuard) *TargetHandler {
	return &TargetHandler{targetSvc: targetSvc, idempotency: idempotency}
}

// Create handles POST /targets. Commander only. An optional
// X-Idempotency-Key header fences duplicate form submissions.
func (h *TargetHandler) Create(w http.ResponseWriter, r *http.Request) {
	key := r.Header.Get("X-Idempotency-Key")
	if result := h.idempotency.Check(r.Context(), key); !result.Allowed {
		RespondError(w, domain.ErrIdempotent(result.Reason))
		return
	}

	var input service.CreateTargetInput
	if err := DecodeJSON(r, &input); err != nil {
		RespondJSON(w, http.StatusBadRequest, map[string]string{
			"code":    "VALIDATION_ERROR",
			"message": "invalid request body",
		})
		return
	}

	target, err := h.targetSvc.CreateTarget(r.Context(), input)
	if err != nil {
		if key != "" {
			h.idempotency.Remove(key)
		}
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusCreated, target)
}

// List handles GET /targets, scoped to the caller's visibility.
func (h *TargetHandler) List(w http.ResponseWriter, r *http.Request) {
	scope := auth.ScopeFromContext(r.Context())
	targets, err := h.targetSvc.ListTargets(r.Context(), scope)
	if err != nil {
		RespondError(w, err)
		return
	}
	if targets == nil {
		targets = []domain.OperationTarget{}
	}
	RespondJSON(w, http.StatusOK, targets)
}

// Get handles GET /targets/{id}.
func (h *TargetHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, domain.ErrValidation("invalid target id"))
		return
	}

	scope := auth.ScopeFromContext(r.Context())
	target, err := h.targetSvc.GetTarget(r.Context(), scope, id)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, target)
}

// Update handles PATCH /targets/{id}. Commander only.
func (h *TargetHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, domain.ErrValidation("invalid target id"))
		return
	}

	var input service.UpdateTargetInput
	if err := DecodeJSON(r, &input); err != nil {
		RespondJSON(w, http.StatusBadRequest, map[string]string{
			"code":    "VALIDATION_ERROR",
			"message": "invalid request body",
		})
		return
	}

	target, err := h.targetSvc.UpdateTarget(r.Context(), id, input)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, target)
}

// Delete handles DELETE /targets/{id}. Commander only.
func (h *TargetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, domain.ErrValidation("invalid target id"))
		return
	}

	if err := h.targetSvc.DeleteTarget(r.Context(), id); err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
