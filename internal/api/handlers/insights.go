package handlers

import (
	"net/http"

	"github.com/dom/lightprompt/internal/domain"
	"github.com/dom/lightprompt/internal/repository"
	"github.com/dom/lightprompt/internal/service"
	"gorm.io/datatypes"
)

type InsightHandler struct {
	store    repository.InsightStore
	wellness *service.WellnessService
}

func NewInsightHandler(store repository.InsightStore, wellness *service.WellnessService) *InsightHandler {
	return &InsightHandler{store: store, wellness: wellness}
}

type CreateRecommendationRequest struct {
	Type        string         `json:"type" validate:"required"`
	Title       string         `json:"title" validate:"required"`
	Description string         `json:"description" validate:"required"`
	Priority    string         `json:"priority" validate:"omitempty,oneof=low medium high"`
	Metadata    datatypes.JSON `json:"metadata"`
}

func (h *InsightHandler) ListPatterns(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}

	patterns, err := h.store.GetWellnessPatterns(r.Context(), userID)
	if err != nil {
		respondError(w, r, "handlers.InsightHandler.ListPatterns", err)
		return
	}
	respondJSON(w, r, http.StatusOK, patterns)
}

// DetectPatterns returns what is already stored; nothing is analyzed here
func (h *InsightHandler) DetectPatterns(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}

	patterns, err := h.store.DetectPatterns(r.Context(), userID)
	if err != nil {
		respondError(w, r, "handlers.InsightHandler.DetectPatterns", err)
		return
	}
	respondJSON(w, r, http.StatusOK, patterns)
}

// ListRecommendations takes an optional limit; 0 or absent returns all
func (h *InsightHandler) ListRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}
	n, ok := queryInt(w, r, "limit", 0)
	if !ok {
		return
	}

	recs, err := h.store.GetRecommendations(r.Context(), userID, n)
	if err != nil {
		respondError(w, r, "handlers.InsightHandler.ListRecommendations", err)
		return
	}
	respondJSON(w, r, http.StatusOK, recs)
}

func (h *InsightHandler) CreateRecommendation(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}
	var req CreateRecommendationRequest
	if !decode(w, r, &req) {
		return
	}

	priority := req.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	rec := &domain.Recommendation{
		UserID:      userID,
		Type:        req.Type,
		Title:       req.Title,
		Description: req.Description,
		Priority:    priority,
		Metadata:    req.Metadata,
	}
	if err := h.store.CreateRecommendation(r.Context(), rec); err != nil {
		respondError(w, r, "handlers.InsightHandler.CreateRecommendation", err)
		return
	}
	respondJSON(w, r, http.StatusCreated, rec)
}

func (h *InsightHandler) UpdateRecommendation(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var changes domain.RecommendationChanges
	if !decode(w, r, &changes) {
		return
	}

	rec, err := h.wellness.UpdateRecommendation(r.Context(), userID, id, changes)
	if err != nil {
		respondError(w, r, "handlers.InsightHandler.UpdateRecommendation", err)
		return
	}
	respondJSON(w, r, http.StatusOK, rec)
}

func (h *InsightHandler) GenerateRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}

	recs, err := h.store.GenerateRecommendations(r.Context(), userID)
	if err != nil {
		respondError(w, r, "handlers.InsightHandler.GenerateRecommendations", err)
		return
	}
	respondJSON(w, r, http.StatusOK, recs)
}
