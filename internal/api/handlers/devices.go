package handlers

import (
	"net/http"

	"github.com/dom/lightprompt/internal/domain"
	"github.com/dom/lightprompt/internal/repository"
	"github.com/go-chi/chi/v5"
	"gorm.io/datatypes"
)

type DeviceHandler struct {
	store repository.DeviceStore
}

func NewDeviceHandler(store repository.DeviceStore) *DeviceHandler {
	return &DeviceHandler{store: store}
}

type CreateDeviceRequest struct {
	DeviceType  string         `json:"deviceType" validate:"required"`
	IsConnected bool           `json:"isConnected"`
	Settings    datatypes.JSON `json:"settings"`
}

func (h *DeviceHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}

	integrations, err := h.store.GetDeviceIntegrations(r.Context(), userID)
	if err != nil {
		respondError(w, r, "handlers.DeviceHandler.List", err)
		return
	}
	respondJSON(w, r, http.StatusOK, integrations)
}

// Create connects a device type. A second integration of the same type is a 409.
func (h *DeviceHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}
	var req CreateDeviceRequest
	if !decode(w, r, &req) {
		return
	}

	integration := &domain.DeviceIntegration{
		UserID:      userID,
		DeviceType:  req.DeviceType,
		IsConnected: req.IsConnected,
		Settings:    req.Settings,
	}
	if err := h.store.CreateDeviceIntegration(r.Context(), integration); err != nil {
		respondError(w, r, "handlers.DeviceHandler.Create", err)
		return
	}
	respondJSON(w, r, http.StatusCreated, integration)
}

func (h *DeviceHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}
	var changes domain.DeviceIntegrationChanges
	if !decode(w, r, &changes) {
		return
	}

	integration, err := h.store.UpdateDeviceIntegration(r.Context(), userID, chi.URLParam(r, "deviceType"), changes)
	if err != nil {
		respondError(w, r, "handlers.DeviceHandler.Update", err)
		return
	}
	respondJSON(w, r, http.StatusOK, integration)
}

func (h *DeviceHandler) Sync(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}

	result, err := h.store.SyncDeviceData(r.Context(), userID, chi.URLParam(r, "deviceType"))
	if err != nil {
		respondError(w, r, "handlers.DeviceHandler.Sync", err)
		return
	}
	respondJSON(w, r, http.StatusOK, result)
}
