package handler

import (
	"net/http"

	"github.com/geoguard/platform/internal/domain"
	"github.com/geoguard/platform/internal/service"
)

// OperationHandler handles the decoy-generation run and the decoy views.
type OperationHandler struct {
	opSvc *service.OperationService
}

// NewOperationHandler creates a new OperationHandler.
func NewOperationHandler(opSvc *service.OperationService) *OperationHandler {
	return &OperationHandler{opSvc: opSvc}
}

// Start handles POST /operations/start. Commander only. An optional
// X-Idempotency-Key header fences duplicate submissions.
func (h *OperationHandler) Start(w http.ResponseWriter, r *http.Request) {
	report, err := h.opSvc.StartOperation(r.Context(), r.Header.Get("X-Idempotency-Key"))
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, report)
}

// ListDecoys handles GET /decoys for authenticated callers.
func (h *OperationHandler) ListDecoys(w http.ResponseWriter, r *http.Request) {
	decoys, err := h.opSvc.ListDecoys(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	if decoys == nil {
		decoys = []domain.Decoy{}
	}
	RespondJSON(w, http.StatusOK, decoys)
}

// PublicDecoys handles GET /public/decoys: the unauthenticated broadcast
// view, names and coordinates only.
func (h *OperationHandler) PublicDecoys(w http.ResponseWriter, r *http.Request) {
	decoys, err := h.opSvc.PublicDecoys(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, decoys)
}
