package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dom/lightprompt/internal/domain"
	"github.com/dom/lightprompt/internal/metrics"
	"github.com/dom/lightprompt/internal/repository"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

var (
	ErrSessionNotFound = errors.New("chat session not found")
	ErrInvalidRole     = errors.New("message role must be user or assistant")
	ErrEmptyMessage    = errors.New("message content is required")
)

// MessagePublisher receives every stored chat message
type MessagePublisher interface {
	PublishMessage(msg *domain.Message)
}

type ChatService struct {
	chats     repository.ChatStore
	usage     *UsageService
	publisher MessagePublisher
	metrics   metrics.Recorder
}

func NewChatService(chats repository.ChatStore, usage *UsageService, publisher MessagePublisher, recorder metrics.Recorder) *ChatService {
	return &ChatService{
		chats:     chats,
		usage:     usage,
		publisher: publisher,
		metrics:   recorder,
	}
}

type StartSessionInput struct {
	BotID string
	Title *string
}

type PostMessageInput struct {
	Role           domain.MessageRole
	Content        string
	AudioURL       *string
	Sentiment      *string
	SentimentScore *int
	Metadata       datatypes.JSON
}

func (s *ChatService) StartSession(ctx context.Context, userID uuid.UUID, input StartSessionInput) (*domain.ChatSession, error) {
	botID := input.BotID
	if botID == "" {
		botID = domain.BotLightPrompt
	}
	session := &domain.ChatSession{
		UserID: userID,
		BotID:  botID,
		Title:  input.Title,
	}
	if err := s.chats.CreateChatSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Sessions lists the user's sessions, most recently active first. An empty
// botID lists every bot.
func (s *ChatService) Sessions(ctx context.Context, userID uuid.UUID, botID string) ([]*domain.ChatSession, error) {
	if botID == "" {
		return s.chats.GetUserChatSessions(ctx, userID)
	}
	return s.chats.GetBotChatSessions(ctx, userID, botID)
}

// Session returns the session if userID owns it. Sessions owned by someone
// else are reported as not found.
func (s *ChatService) Session(ctx context.Context, userID, sessionID uuid.UUID) (*domain.ChatSession, error) {
	session, err := s.chats.GetChatSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil || session.UserID != userID {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *ChatService) UpdateSession(ctx context.Context, userID, sessionID uuid.UUID, changes domain.ChatSessionChanges) (*domain.ChatSession, error) {
	if _, err := s.Session(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	return s.chats.UpdateChatSession(ctx, sessionID, changes)
}

// PostMessage stores a message in the session and bumps the session to the
// top of the list. User messages spend one token first.
func (s *ChatService) PostMessage(ctx context.Context, userID, sessionID uuid.UUID, input PostMessageInput) (*domain.Message, error) {
	if !input.Role.IsValid() {
		return nil, ErrInvalidRole
	}
	if input.Content == "" {
		return nil, ErrEmptyMessage
	}
	if _, err := s.Session(ctx, userID, sessionID); err != nil {
		return nil, err
	}

	if input.Role == domain.MessageRoleUser {
		if _, err := s.usage.Consume(ctx, userID); err != nil {
			return nil, err
		}
	}

	msg := &domain.Message{
		SessionID:      sessionID,
		Role:           input.Role,
		Content:        input.Content,
		AudioURL:       input.AudioURL,
		Sentiment:      input.Sentiment,
		SentimentScore: input.SentimentScore,
		Metadata:       input.Metadata,
	}
	if err := s.chats.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}
	if _, err := s.chats.UpdateChatSession(ctx, sessionID, domain.ChatSessionChanges{}); err != nil {
		return nil, fmt.Errorf("touch session: %w", err)
	}

	s.metrics.RecordMessageCreated(string(msg.Role))
	if s.publisher != nil {
		s.publisher.PublishMessage(msg)
	}
	return msg, nil
}

func (s *ChatService) History(ctx context.Context, userID, sessionID uuid.UUID) ([]*domain.Message, error) {
	if _, err := s.Session(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	return s.chats.GetSessionMessages(ctx, sessionID)
}
