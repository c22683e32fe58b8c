package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Bot identifiers a chat session can be opened with
const (
	BotLightPrompt = "lightpromptbot"
	BotBodyMirror  = "bodymirror"
	BotSoulMap     = "soulmap"
	BotVisionQuest = "visionquest"
)

type ChatSession struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;not null;index"`
	BotID     string    `json:"botId" gorm:"not null"`
	Title     *string   `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// ChatSessionChanges is a partial update of a ChatSession
type ChatSessionChanges struct {
	Title *string `json:"title"`
	BotID *string `json:"botId"`
}

// Columns maps the set fields to column assignments
func (c ChatSessionChanges) Columns() map[string]any {
	cols := make(map[string]any)
	if c.Title != nil {
		cols["title"] = *c.Title
	}
	if c.BotID != nil {
		cols["bot_id"] = *c.BotID
	}
	return cols
}

// MessageRole is the author of a chat message
type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

// IsValid checks if a message role is valid
func (r MessageRole) IsValid() bool {
	return r == MessageRoleUser || r == MessageRoleAssistant
}

// Message is immutable once created
type Message struct {
	ID             uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SessionID      uuid.UUID      `json:"sessionId" gorm:"type:uuid;not null;index"`
	Role           MessageRole    `json:"role" gorm:"type:varchar(16);not null"`
	Content        string         `json:"content" gorm:"not null"`
	AudioURL       *string        `json:"audioUrl"`
	Sentiment      *string        `json:"sentiment"`      // positive, negative, neutral
	SentimentScore *int           `json:"sentimentScore"` // -100 to 100
	Metadata       datatypes.JSON `json:"metadata" gorm:"type:jsonb"`
	CreatedAt      time.Time      `json:"createdAt"`

	Session *ChatSession `json:"-" gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
}
