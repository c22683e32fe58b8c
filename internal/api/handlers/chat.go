package handlers

import (
	"net/http"

	"github.com/dom/lightprompt/internal/domain"
	"github.com/dom/lightprompt/internal/service"
	"gorm.io/datatypes"
)

type ChatHandler struct {
	chat *service.ChatService
}

func NewChatHandler(chat *service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

type CreateSessionRequest struct {
	BotID string  `json:"botId" validate:"omitempty,oneof=lightpromptbot bodymirror soulmap visionquest"`
	Title *string `json:"title"`
}

type UpdateSessionRequest struct {
	BotID *string `json:"botId" validate:"omitempty,oneof=lightpromptbot bodymirror soulmap visionquest"`
	Title *string `json:"title"`
}

type PostMessageRequest struct {
	Role           domain.MessageRole `json:"role" validate:"omitempty,oneof=user assistant"`
	Content        string             `json:"content" validate:"required"`
	AudioURL       *string            `json:"audioUrl"`
	Sentiment      *string            `json:"sentiment" validate:"omitempty,oneof=positive negative neutral"`
	SentimentScore *int               `json:"sentimentScore" validate:"omitempty,min=-100,max=100"`
	Metadata       datatypes.JSON     `json:"metadata"`
}

// ListSessions accepts an optional botId filter
func (h *ChatHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}

	sessions, err := h.chat.Sessions(r.Context(), userID, r.URL.Query().Get("botId"))
	if err != nil {
		respondError(w, r, "handlers.ChatHandler.ListSessions", err)
		return
	}
	respondJSON(w, r, http.StatusOK, sessions)
}

func (h *ChatHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}
	var req CreateSessionRequest
	if !decode(w, r, &req) {
		return
	}

	session, err := h.chat.StartSession(r.Context(), userID, service.StartSessionInput{
		BotID: req.BotID,
		Title: req.Title,
	})
	if err != nil {
		respondError(w, r, "handlers.ChatHandler.CreateSession", err)
		return
	}
	respondJSON(w, r, http.StatusCreated, session)
}

func (h *ChatHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}
	sessionID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	session, err := h.chat.Session(r.Context(), userID, sessionID)
	if err != nil {
		respondError(w, r, "handlers.ChatHandler.GetSession", err)
		return
	}
	respondJSON(w, r, http.StatusOK, session)
}

func (h *ChatHandler) UpdateSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}
	sessionID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req UpdateSessionRequest
	if !decode(w, r, &req) {
		return
	}

	session, err := h.chat.UpdateSession(r.Context(), userID, sessionID, domain.ChatSessionChanges{
		Title: req.Title,
		BotID: req.BotID,
	})
	if err != nil {
		respondError(w, r, "handlers.ChatHandler.UpdateSession", err)
		return
	}
	respondJSON(w, r, http.StatusOK, session)
}

func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}
	sessionID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	messages, err := h.chat.History(r.Context(), userID, sessionID)
	if err != nil {
		respondError(w, r, "handlers.ChatHandler.ListMessages", err)
		return
	}
	respondJSON(w, r, http.StatusOK, messages)
}

// PostMessage stores a message. Role defaults to user, which spends a token.
func (h *ChatHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}
	sessionID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req PostMessageRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Role == "" {
		req.Role = domain.MessageRoleUser
	}

	msg, err := h.chat.PostMessage(r.Context(), userID, sessionID, service.PostMessageInput{
		Role:           req.Role,
		Content:        req.Content,
		AudioURL:       req.AudioURL,
		Sentiment:      req.Sentiment,
		SentimentScore: req.SentimentScore,
		Metadata:       req.Metadata,
	})
	if err != nil {
		respondError(w, r, "handlers.ChatHandler.PostMessage", err)
		return
	}
	respondJSON(w, r, http.StatusCreated, msg)
}
