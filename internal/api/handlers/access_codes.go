package handlers

import (
	"net/http"

	"github.com/dom/lightprompt/internal/domain"
	"github.com/dom/lightprompt/internal/service"
	"github.com/go-chi/chi/v5"
	"gorm.io/datatypes"
)

type AccessCodeHandler struct {
	codes *service.AccessCodeService
	auth  *service.AuthService
}

func NewAccessCodeHandler(codes *service.AccessCodeService, auth *service.AuthService) *AccessCodeHandler {
	return &AccessCodeHandler{codes: codes, auth: auth}
}

type RedeemRequest struct {
	Code  string `json:"code" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// RedeemResponse signs the redeeming account in, since it may have just been created
type RedeemResponse struct {
	User        *domain.User       `json:"user"`
	AccessCode  *domain.AccessCode `json:"accessCode"`
	AccessToken string             `json:"accessToken"`
}

type CreateAccessCodeRequest struct {
	Type     string         `json:"type"`
	Metadata datatypes.JSON `json:"metadata"`
}

func (h *AccessCodeHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	var req RedeemRequest
	if !decode(w, r, &req) {
		return
	}

	result, err := h.codes.Redeem(r.Context(), req.Code, req.Email)
	if err != nil {
		respondError(w, r, "handlers.AccessCodeHandler.Redeem", err)
		return
	}

	token, err := h.auth.GenerateAccessToken(result.User)
	if err != nil {
		respondError(w, r, "handlers.AccessCodeHandler.Redeem", err)
		return
	}

	respondJSON(w, r, http.StatusOK, RedeemResponse{
		User:        result.User,
		AccessCode:  result.AccessCode,
		AccessToken: token,
	})
}

func (h *AccessCodeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAccessCodeRequest
	if !decode(w, r, &req) {
		return
	}

	code, err := h.codes.Generate(r.Context(), service.GenerateCodeInput{
		Type:     req.Type,
		Metadata: req.Metadata,
	})
	if err != nil {
		respondError(w, r, "handlers.AccessCodeHandler.Create", err)
		return
	}
	respondJSON(w, r, http.StatusCreated, code)
}

func (h *AccessCodeHandler) Get(w http.ResponseWriter, r *http.Request) {
	code, err := h.codes.Get(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		respondError(w, r, "handlers.AccessCodeHandler.Get", err)
		return
	}
	respondJSON(w, r, http.StatusOK, code)
}
