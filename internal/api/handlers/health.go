package handlers

import (
	"net/http"
	"time"

	"github.com/dom/lightprompt/internal/domain"
	"github.com/dom/lightprompt/internal/repository"
	"gorm.io/datatypes"
)

// HealthHandler accepts synced device samples. Samples are append-only.
type HealthHandler struct {
	store repository.HealthStore
}

func NewHealthHandler(store repository.HealthStore) *HealthHandler {
	return &HealthHandler{store: store}
}

type AppleHealthRequest struct {
	DataType string         `json:"dataType" validate:"required"`
	Value    float64        `json:"value"`
	Unit     string         `json:"unit" validate:"required"`
	Date     *time.Time     `json:"date"`
	Metadata datatypes.JSON `json:"metadata"`
}

type HomeKitRequest struct {
	DeviceType string         `json:"deviceType" validate:"required"`
	Room       *string        `json:"room"`
	Value      float64        `json:"value"`
	Unit       *string        `json:"unit"`
	Date       *time.Time     `json:"date"`
	Metadata   datatypes.JSON `json:"metadata"`
}

type FitnessRequest struct {
	Date           *time.Time     `json:"date"`
	Steps          *int           `json:"steps" validate:"omitempty,min=0"`
	ActiveMinutes  *int           `json:"activeMinutes" validate:"omitempty,min=0"`
	CaloriesBurned *int           `json:"caloriesBurned" validate:"omitempty,min=0"`
	HeartRateAvg   *int           `json:"heartRateAvg" validate:"omitempty,min=0"`
	SleepHours     *float64       `json:"sleepHours" validate:"omitempty,min=0,max=24"`
	Source         string         `json:"source"`
	Metadata       datatypes.JSON `json:"metadata"`
}

// sampleTime defaults a missing sample date to now
func sampleTime(t *time.Time) time.Time {
	if t == nil {
		return time.Now()
	}
	return *t
}

func (h *HealthHandler) ListAppleHealth(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}
	days, ok := queryInt(w, r, "days", defaultHistoryDays)
	if !ok {
		return
	}

	data, err := h.store.GetAppleHealthData(r.Context(), userID, days)
	if err != nil {
		respondError(w, r, "handlers.HealthHandler.ListAppleHealth", err)
		return
	}
	respondJSON(w, r, http.StatusOK, data)
}

func (h *HealthHandler) SyncAppleHealth(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}
	var req AppleHealthRequest
	if !decode(w, r, &req) {
		return
	}

	data := &domain.AppleHealthData{
		UserID:   userID,
		DataType: req.DataType,
		Value:    req.Value,
		Unit:     req.Unit,
		Date:     sampleTime(req.Date),
		Metadata: req.Metadata,
	}
	if err := h.store.SyncAppleHealthData(r.Context(), data); err != nil {
		respondError(w, r, "handlers.HealthHandler.SyncAppleHealth", err)
		return
	}
	respondJSON(w, r, http.StatusCreated, data)
}

func (h *HealthHandler) ListHomeKit(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}
	days, ok := queryInt(w, r, "days", defaultHistoryDays)
	if !ok {
		return
	}

	data, err := h.store.GetHomeKitData(r.Context(), userID, days)
	if err != nil {
		respondError(w, r, "handlers.HealthHandler.ListHomeKit", err)
		return
	}
	respondJSON(w, r, http.StatusOK, data)
}

func (h *HealthHandler) SyncHomeKit(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}
	var req HomeKitRequest
	if !decode(w, r, &req) {
		return
	}

	data := &domain.HomeKitData{
		UserID:     userID,
		DeviceType: req.DeviceType,
		Room:       req.Room,
		Value:      req.Value,
		Unit:       req.Unit,
		Date:       sampleTime(req.Date),
		Metadata:   req.Metadata,
	}
	if err := h.store.SyncHomeKitData(r.Context(), data); err != nil {
		respondError(w, r, "handlers.HealthHandler.SyncHomeKit", err)
		return
	}
	respondJSON(w, r, http.StatusCreated, data)
}

func (h *HealthHandler) ListFitness(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}
	days, ok := queryInt(w, r, "days", defaultHistoryDays)
	if !ok {
		return
	}

	data, err := h.store.GetFitnessData(r.Context(), userID, days)
	if err != nil {
		respondError(w, r, "handlers.HealthHandler.ListFitness", err)
		return
	}
	respondJSON(w, r, http.StatusOK, data)
}

func (h *HealthHandler) CreateFitness(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}
	var req FitnessRequest
	if !decode(w, r, &req) {
		return
	}

	data := &domain.FitnessData{
		UserID:         userID,
		Date:           sampleTime(req.Date),
		Steps:          req.Steps,
		ActiveMinutes:  req.ActiveMinutes,
		CaloriesBurned: req.CaloriesBurned,
		HeartRateAvg:   req.HeartRateAvg,
		SleepHours:     req.SleepHours,
		Source:         req.Source,
		Metadata:       req.Metadata,
	}
	if err := h.store.CreateFitnessData(r.Context(), data); err != nil {
		respondError(w, r, "handlers.HealthHandler.CreateFitness", err)
		return
	}
	respondJSON(w, r, http.StatusCreated, data)
}

// LatestFitness answers 404 when the user has no fitness data yet
func (h *HealthHandler) LatestFitness(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}

	data, err := h.store.GetLatestFitnessData(r.Context(), userID)
	if err != nil {
		respondError(w, r, "handlers.HealthHandler.LatestFitness", err)
		return
	}
	if data == nil {
		respondError(w, r, "handlers.HealthHandler.LatestFitness", domain.ErrNotFound)
		return
	}
	respondJSON(w, r, http.StatusOK, data)
}
