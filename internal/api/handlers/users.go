package handlers

import (
	"net/http"

	"github.com/dom/lightprompt/internal/domain"
	"github.com/dom/lightprompt/internal/repository"
	"github.com/dom/lightprompt/internal/service"
)

// UserHandler serves the caller's account, profile and token usage, plus the
// admin operations on other accounts.
type UserHandler struct {
	store repository.Storage
	usage *service.UsageService
}

func NewUserHandler(store repository.Storage, usage *service.UsageService) *UserHandler {
	return &UserHandler{store: store, usage: usage}
}

// UpdateMeRequest holds the account fields a user may change on their own.
// Tier, role and token limit are admin-only.
type UpdateMeRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1"`
	AvatarURL *string `json:"avatarUrl"`
}

type UpdateTierRequest struct {
	Tier domain.Tier `json:"tier" validate:"required"`
}

func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}
	var req UpdateMeRequest
	if !decode(w, r, &req) {
		return
	}

	user, err := h.store.UpdateUser(r.Context(), userID, domain.UserChanges{
		Name:      req.Name,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		respondError(w, r, "handlers.UserHandler.UpdateMe", err)
		return
	}
	respondJSON(w, r, http.StatusOK, user)
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}

	profile, err := h.store.GetUserProfile(r.Context(), userID)
	if err != nil {
		respondError(w, r, "handlers.UserHandler.GetProfile", err)
		return
	}
	if profile == nil {
		respondError(w, r, "handlers.UserHandler.GetProfile", domain.ErrNotFound)
		return
	}
	respondJSON(w, r, http.StatusOK, profile)
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}
	var changes domain.UserProfileChanges
	if !decode(w, r, &changes) {
		return
	}

	profile, err := h.store.UpdateUserProfile(r.Context(), userID, changes)
	if err != nil {
		respondError(w, r, "handlers.UserHandler.UpdateProfile", err)
		return
	}
	respondJSON(w, r, http.StatusOK, profile)
}

// ConsumeToken spends one token from the caller's allowance
func (h *UserHandler) ConsumeToken(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}

	user, err := h.usage.Consume(r.Context(), userID)
	if err != nil {
		respondError(w, r, "handlers.UserHandler.ConsumeToken", err)
		return
	}
	respondJSON(w, r, http.StatusOK, user)
}

func (h *UserHandler) ResetTokens(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	user, err := h.usage.Reset(r.Context(), userID)
	if err != nil {
		respondError(w, r, "handlers.UserHandler.ResetTokens", err)
		return
	}
	respondJSON(w, r, http.StatusOK, user)
}

func (h *UserHandler) UpdateTier(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req UpdateTierRequest
	if !decode(w, r, &req) {
		return
	}

	user, err := h.usage.Upgrade(r.Context(), userID, req.Tier)
	if err != nil {
		respondError(w, r, "handlers.UserHandler.UpdateTier", err)
		return
	}
	respondJSON(w, r, http.StatusOK, user)
}
