package handler

import (
	"net/http"

	"github.com/SugarStoneMaster/MyMovieList/internal/service"

	"github.com/go-chi/chi/v5"
)

type MaintenanceHandler struct {
	svc *service.MaintenanceService
}

func NewMaintenanceHandler(s *service.MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{svc: s}
}

// MountMaintenanceRoutes groups the admin maintenance endpoints.
func MountMaintenanceRoutes(r chi.Router, h *MaintenanceHandler) {
	r.Get("/admin/maintenance/summary", h.Summary)
	r.Post("/admin/maintenance/reconcile", h.Reconcile)
}

// @Summary Pending-counter drift summary
// @Tags admin
// @Produce json
// @Success 200 {object} models.MaintenanceSummary
// @Router /admin/maintenance/summary [get]
func (h *MaintenanceHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Summary(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// @Summary Rebuild review caches and aggregates from ground truth
// @Tags admin
// @Produce json
// @Success 200 {object} models.MaintenanceReport
// @Router /admin/maintenance/reconcile [post]
func (h *MaintenanceHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.Reconcile(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
