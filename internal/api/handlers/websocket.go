package handlers

import (
	"log/slog"
	"net/http"

	"github.com/dom/lightprompt/internal/logger"
	"github.com/dom/lightprompt/internal/service"
	"github.com/dom/lightprompt/internal/websocket"
	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
)

var upgrader = ws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // tokens, not cookies, authenticate the socket
	},
}

// WebSocketHandler streams new messages of one chat session to its owner.
// Browsers cannot set headers on the upgrade, so the token is a query parameter.
type WebSocketHandler struct {
	hub  *websocket.Hub
	auth *service.AuthService
	chat *service.ChatService
}

func NewWebSocketHandler(hub *websocket.Hub, auth *service.AuthService, chat *service.ChatService) *WebSocketHandler {
	return &WebSocketHandler{
		hub:  hub,
		auth: auth,
		chat: chat,
	}
}

func (h *WebSocketHandler) Handle(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		respondMessage(w, r, http.StatusUnauthorized, "token required")
		return
	}

	claims, err := h.auth.ValidateToken(token)
	if err != nil {
		respondError(w, r, "handlers.WebSocketHandler.Handle", err)
		return
	}

	sessionID, err := uuid.Parse(r.URL.Query().Get("sessionId"))
	if err != nil {
		respondMessage(w, r, http.StatusBadRequest, "invalid sessionId")
		return
	}
	if _, err := h.chat.Session(r.Context(), claims.UserID, sessionID); err != nil {
		respondError(w, r, "handlers.WebSocketHandler.Handle", err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "op", "handlers.WebSocketHandler.Handle", logger.Err(err))
		return
	}

	client := websocket.NewClient(h.hub, conn, claims.UserID, sessionID)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
