package websocket

import (
	"encoding/json"
	"time"
)

type MessageType string

const (
	// Client to Server
	MessageTypeTyping MessageType = "TYPING"

	// Server to Client
	MessageTypeSubscribed     MessageType = "SUBSCRIBED"
	MessageTypeMessageCreated MessageType = "MESSAGE_CREATED"
	MessageTypeUserTyping     MessageType = "USER_TYPING"
	MessageTypeError          MessageType = "ERROR"
)

type Message struct {
	Type      MessageType     `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      msgType,
		Payload:   payloadBytes,
		Timestamp: time.Now().UnixMilli(),
	}, nil
}

type SubscribedPayload struct {
	SessionID string `json:"sessionId"`
}

type UserTypingPayload struct {
	SessionID string `json:"sessionId"`
	UserID    string `json:"userId"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
