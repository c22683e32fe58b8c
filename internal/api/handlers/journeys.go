package handlers

import (
	"net/http"

	"github.com/dom/lightprompt/internal/domain"
	"github.com/dom/lightprompt/internal/repository"
)

// JourneyHandler exposes soul maps and vision quests. The store does not
// support them yet, so every route answers 501.
type JourneyHandler struct {
	store repository.JourneyStore
}

func NewJourneyHandler(store repository.JourneyStore) *JourneyHandler {
	return &JourneyHandler{store: store}
}

func (h *JourneyHandler) GetSoulMap(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}

	soulMap, err := h.store.GetSoulMap(r.Context(), userID)
	if err != nil {
		respondError(w, r, "handlers.JourneyHandler.GetSoulMap", err)
		return
	}
	respondJSON(w, r, http.StatusOK, soulMap)
}

func (h *JourneyHandler) CreateSoulMap(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}
	var soulMap domain.SoulMap
	if !decode(w, r, &soulMap) {
		return
	}
	soulMap.UserID = userID

	if err := h.store.CreateSoulMap(r.Context(), &soulMap); err != nil {
		respondError(w, r, "handlers.JourneyHandler.CreateSoulMap", err)
		return
	}
	respondJSON(w, r, http.StatusCreated, soulMap)
}

func (h *JourneyHandler) GetVisionQuest(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}

	quest, err := h.store.GetVisionQuest(r.Context(), userID)
	if err != nil {
		respondError(w, r, "handlers.JourneyHandler.GetVisionQuest", err)
		return
	}
	respondJSON(w, r, http.StatusOK, quest)
}

func (h *JourneyHandler) CreateVisionQuest(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}
	var quest domain.VisionQuest
	if !decode(w, r, &quest) {
		return
	}
	quest.UserID = userID

	if err := h.store.CreateVisionQuest(r.Context(), &quest); err != nil {
		respondError(w, r, "handlers.JourneyHandler.CreateVisionQuest", err)
		return
	}
	respondJSON(w, r, http.StatusCreated, quest)
}
