package handler

import (
	"net/http"

	"github.com/geoguard/platform/internal/auth"
	"github.com/geoguard/platform/internal/domain"
	"github.com/geoguard/platform/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// UnitHandler handles military unit endpoints.
type UnitHandler struct {
	unitSvc *service.UnitService
}

// NewUnitHandler creates a new UnitHandler.
func NewUnitHandler(unitSvc *service.UnitService) *UnitHandler {
	return &UnitHandler{unitSvc: unitSvc}
}

// Create handles POST /units. Commander only; creates the unit together
// with its sub-commander account.
func (h *UnitHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.CreateUnitInput
	if err := DecodeJSON(r, &input); err != nil {
		RespondJSON(w, http.StatusBadRequest, map[string]string{
			"code":    "VALIDATION_ERROR",
			"message": "invalid request body",
		})
		return
	}

	result, err := h.unitSvc.CreateUnit(r.Context(), input)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusCreated, result)
}

// List handles GET /units, scoped to the caller's visibility.
func (h *UnitHandler) List(w http.ResponseWriter, r *http.Request) {
	scope := auth.ScopeFromContext(r.Context())
	units, err := h.unitSvc.ListUnits(r.Context(), scope)
	if err != nil {
		RespondError(w, err)
		return
	}
	if units == nil {
		units = []domain.MilitaryUnit{}
	}
	RespondJSON(w, http.StatusOK, units)
}

type updateUnitStatusInput struct {
	Status domain.UnitStatus `json:"status"`
}

// UpdateStatus handles PATCH /units/{id}/status.
func (h *UnitHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	unitID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, domain.ErrValidation("invalid unit id"))
		return
	}

	var input updateUnitStatusInput
	if err := DecodeJSON(r, &input); err != nil {
		RespondJSON(w, http.StatusBadRequest, map[string]string{
			"code":    "VALIDATION_ERROR",
			"message": "invalid request body",
		})
		return
	}

	scope := auth.ScopeFromContext(r.Context())
	unit, err := h.unitSvc.UpdateStatus(r.Context(), scope, unitID, input.Status)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, unit)
}
