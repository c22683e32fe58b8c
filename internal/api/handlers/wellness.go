package handlers

import (
	"net/http"
	"time"

	"github.com/dom/lightprompt/internal/domain"
	"github.com/dom/lightprompt/internal/repository"
	"github.com/dom/lightprompt/internal/service"
	"gorm.io/datatypes"
)

const (
	defaultMetricDays  = 7
	defaultHistoryDays = 30
)

// WellnessHandler serves daily check-ins, habits and habit entries
type WellnessHandler struct {
	store    repository.Storage
	wellness *service.WellnessService
}

func NewWellnessHandler(store repository.Storage, wellness *service.WellnessService) *WellnessHandler {
	return &WellnessHandler{store: store, wellness: wellness}
}

type CreateMetricRequest struct {
	Date         *time.Time     `json:"date"`
	Mood         *int           `json:"mood" validate:"omitempty,min=1,max=10"`
	Energy       *int           `json:"energy" validate:"omitempty,min=1,max=10"`
	Stress       *int           `json:"stress" validate:"omitempty,min=1,max=10"`
	Gratitude    *string        `json:"gratitude"`
	Reflection   *string        `json:"reflection"`
	Goals        []string       `json:"goals"`
	Achievements []string       `json:"achievements"`
	Metadata     datatypes.JSON `json:"metadata"`
}

type CreateHabitRequest struct {
	Name            string  `json:"name" validate:"required"`
	Description     *string `json:"description"`
	Category        string  `json:"category"`
	Icon            *string `json:"icon"`
	Color           *string `json:"color"`
	TargetFrequency int     `json:"targetFrequency" validate:"omitempty,min=1"`
}

type CreateHabitEntryRequest struct {
	Date      *time.Time `json:"date"`
	Completed bool       `json:"completed"`
	Count     *int       `json:"count" validate:"omitempty,min=0"`
	Notes     *string    `json:"notes"`
}

func (h *WellnessHandler) ListMetrics(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}
	days, ok := queryInt(w, r, "days", defaultMetricDays)
	if !ok {
		return
	}

	metrics, err := h.store.GetWellnessMetrics(r.Context(), userID, days)
	if err != nil {
		respondError(w, r, "handlers.WellnessHandler.ListMetrics", err)
		return
	}
	respondJSON(w, r, http.StatusOK, metrics)
}

func (h *WellnessHandler) CreateMetric(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}
	var req CreateMetricRequest
	if !decode(w, r, &req) {
		return
	}

	metric := &domain.WellnessMetric{
		UserID:       userID,
		Mood:         req.Mood,
		Energy:       req.Energy,
		Stress:       req.Stress,
		Gratitude:    req.Gratitude,
		Reflection:   req.Reflection,
		Goals:        req.Goals,
		Achievements: req.Achievements,
		Metadata:     req.Metadata,
	}
	if req.Date != nil {
		metric.Date = *req.Date
	}

	if err := h.store.CreateWellnessMetric(r.Context(), metric); err != nil {
		respondError(w, r, "handlers.WellnessHandler.CreateMetric", err)
		return
	}
	respondJSON(w, r, http.StatusCreated, metric)
}

func (h *WellnessHandler) UpdateMetric(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var changes domain.WellnessMetricChanges
	if !decode(w, r, &changes) {
		return
	}

	metric, err := h.wellness.UpdateMetric(r.Context(), userID, id, changes)
	if err != nil {
		respondError(w, r, "handlers.WellnessHandler.UpdateMetric", err)
		return
	}
	respondJSON(w, r, http.StatusOK, metric)
}

func (h *WellnessHandler) ListHabits(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}

	habits, err := h.store.GetUserHabits(r.Context(), userID)
	if err != nil {
		respondError(w, r, "handlers.WellnessHandler.ListHabits", err)
		return
	}
	respondJSON(w, r, http.StatusOK, habits)
}

func (h *WellnessHandler) CreateHabit(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}
	var req CreateHabitRequest
	if !decode(w, r, &req) {
		return
	}

	habit := &domain.Habit{
		UserID:          userID,
		Name:            req.Name,
		Description:     req.Description,
		Category:        req.Category,
		Icon:            req.Icon,
		Color:           req.Color,
		TargetFrequency: req.TargetFrequency,
		IsActive:        true,
	}
	if err := h.store.CreateHabit(r.Context(), habit); err != nil {
		respondError(w, r, "handlers.WellnessHandler.CreateHabit", err)
		return
	}
	respondJSON(w, r, http.StatusCreated, habit)
}

func (h *WellnessHandler) UpdateHabit(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var changes domain.HabitChanges
	if !decode(w, r, &changes) {
		return
	}

	habit, err := h.wellness.UpdateHabit(r.Context(), userID, id, changes)
	if err != nil {
		respondError(w, r, "handlers.WellnessHandler.UpdateHabit", err)
		return
	}
	respondJSON(w, r, http.StatusOK, habit)
}

// DeleteHabit deactivates the habit; its entries are kept
func (h *WellnessHandler) DeleteHabit(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.wellness.DeleteHabit(r.Context(), userID, id); err != nil {
		respondError(w, r, "handlers.WellnessHandler.DeleteHabit", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *WellnessHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}
	habitID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	days, ok := queryInt(w, r, "days", defaultHistoryDays)
	if !ok {
		return
	}

	entries, err := h.wellness.HabitEntries(r.Context(), userID, habitID, days)
	if err != nil {
		respondError(w, r, "handlers.WellnessHandler.ListEntries", err)
		return
	}
	respondJSON(w, r, http.StatusOK, entries)
}

func (h *WellnessHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}
	habitID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req CreateHabitEntryRequest
	if !decode(w, r, &req) {
		return
	}

	entry := &domain.HabitEntry{
		HabitID:   habitID,
		Completed: req.Completed,
		Count:     1,
		Notes:     req.Notes,
	}
	if req.Date != nil {
		entry.Date = *req.Date
	}
	if req.Count != nil {
		entry.Count = *req.Count
	}

	if err := h.wellness.AddHabitEntry(r.Context(), userID, entry); err != nil {
		respondError(w, r, "handlers.WellnessHandler.CreateEntry", err)
		return
	}
	respondJSON(w, r, http.StatusCreated, entry)
}

func (h *WellnessHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var changes domain.HabitEntryChanges
	if !decode(w, r, &changes) {
		return
	}

	entry, err := h.wellness.UpdateHabitEntry(r.Context(), userID, id, changes)
	if err != nil {
		respondError(w, r, "handlers.WellnessHandler.UpdateEntry", err)
		return
	}
	respondJSON(w, r, http.StatusOK, entry)
}
