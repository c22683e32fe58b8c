package postgres

import (
	"context"
	"time"

	"github.com/dom/lightprompt/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type chatRepository struct {
	sessions table[domain.ChatSession]
	messages table[domain.Message]
}

func NewChatRepository(db *gorm.DB) *chatRepository {
	return &chatRepository{
		sessions: table[domain.ChatSession]{db: db, dateCol: "updated_at", touchCol: "updated_at"},
		messages: table[domain.Message]{db: db, dateCol: "created_at"},
	}
}

func (r *chatRepository) GetChatSession(ctx context.Context, id uuid.UUID) (*domain.ChatSession, error) {
	return r.sessions.find(ctx, whereEq("id", id))
}

func (r *chatRepository) GetUserChatSessions(ctx context.Context, userID uuid.UUID) ([]*domain.ChatSession, error) {
	return r.sessions.list(ctx, whereEq("user_id", userID), r.sessions.newestFirst)
}

func (r *chatRepository) GetBotChatSessions(ctx context.Context, userID uuid.UUID, botID string) ([]*domain.ChatSession, error) {
	return r.sessions.list(ctx, whereEq("user_id", userID), whereEq("bot_id", botID), r.sessions.newestFirst)
}

func (r *chatRepository) CreateChatSession(ctx context.Context, session *domain.ChatSession) error {
	return r.sessions.create(ctx, session)
}

func (r *chatRepository) UpdateChatSession(ctx context.Context, id uuid.UUID, changes domain.ChatSessionChanges) (*domain.ChatSession, error) {
	cols := changes.Columns()
	if len(cols) == 0 {
		// empty changes still bump the session to the top of the list
		cols["updated_at"] = time.Now()
	}
	return r.sessions.update(ctx, cols, whereEq("id", id))
}

func (r *chatRepository) GetMessage(ctx context.Context, id uuid.UUID) (*domain.Message, error) {
	return r.messages.find(ctx, whereEq("id", id))
}

// GetSessionMessages returns the conversation oldest first
func (r *chatRepository) GetSessionMessages(ctx context.Context, sessionID uuid.UUID) ([]*domain.Message, error) {
	return r.messages.list(ctx, whereEq("session_id", sessionID), r.messages.oldestFirst)
}

func (r *chatRepository) CreateMessage(ctx context.Context, message *domain.Message) error {
	return r.messages.create(ctx, message)
}
