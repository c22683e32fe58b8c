package handlers

import (
	"net/http"

	"github.com/dom/lightprompt/internal/service"
)

type DashboardHandler struct {
	dashboard *service.DashboardService
}

func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}
	days, ok := queryInt(w, r, "days", service.DefaultDashboardDays)
	if !ok {
		return
	}

	dashboard, err := h.dashboard.Dashboard(r.Context(), userID, days)
	if err != nil {
		respondError(w, r, "handlers.DashboardHandler.Get", err)
		return
	}
	respondJSON(w, r, http.StatusOK, dashboard)
}
