package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/dom/lightprompt/internal/domain"
	"github.com/dom/lightprompt/internal/metrics"
	"github.com/dom/lightprompt/internal/repository/postgres"
	"github.com/dom/lightprompt/internal/service"
	"github.com/dom/lightprompt/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu       sync.Mutex
	messages []*domain.Message
}

func (p *recordingPublisher) PublishMessage(msg *domain.Message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
}

func TestChatService(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	store := postgres.NewStorage(testDB.DB)
	ctx := context.Background()

	newChat := func() (*service.ChatService, *recordingPublisher) {
		publisher := &recordingPublisher{}
		usage := service.NewUsageService(store, metrics.Nop{})
		return service.NewChatService(store, usage, publisher, metrics.Nop{}), publisher
	}

	t.Run("start session defaults the bot", func(t *testing.T) {
		testDB.Truncate(t)
		chat, _ := newChat()
		user, _ := testutil.NewUserBuilder().Build(t, store)

		session, err := chat.StartSession(ctx, user.ID, service.StartSessionInput{})
		require.NoError(t, err)
		assert.Equal(t, domain.BotLightPrompt, session.BotID)
	})

	t.Run("user messages spend tokens", func(t *testing.T) {
		testDB.Truncate(t)
		chat, publisher := newChat()
		user, _ := testutil.NewUserBuilder().WithTokens(0, 1).Build(t, store)
		session := testutil.BuildSession(t, store, user.ID, domain.BotLightPrompt)

		msg, err := chat.PostMessage(ctx, user.ID, session.ID, service.PostMessageInput{Role: domain.MessageRoleUser, Content: "hello"})
		require.NoError(t, err)
		assert.Equal(t, session.ID, msg.SessionID)

		_, err = chat.PostMessage(ctx, user.ID, session.ID, service.PostMessageInput{Role: domain.MessageRoleAssistant, Content: "welcome"})
		require.NoError(t, err, "assistant replies are free")

		_, err = chat.PostMessage(ctx, user.ID, session.ID, service.PostMessageInput{Role: domain.MessageRoleUser, Content: "again"})
		assert.ErrorIs(t, err, service.ErrTokenLimitReached)

		history, err := chat.History(ctx, user.ID, session.ID)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, "hello", history[0].Content)
		assert.Equal(t, "welcome", history[1].Content)

		assert.Len(t, publisher.messages, 2)

		stored, err := store.GetUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, stored.TokensUsed)
	})

	t.Run("rejects bad input before spending", func(t *testing.T) {
		testDB.Truncate(t)
		chat, _ := newChat()
		user, _ := testutil.NewUserBuilder().Build(t, store)
		session := testutil.BuildSession(t, store, user.ID, domain.BotLightPrompt)

		_, err := chat.PostMessage(ctx, user.ID, session.ID, service.PostMessageInput{Role: "system", Content: "x"})
		assert.ErrorIs(t, err, service.ErrInvalidRole)

		_, err = chat.PostMessage(ctx, user.ID, session.ID, service.PostMessageInput{Role: domain.MessageRoleUser})
		assert.ErrorIs(t, err, service.ErrEmptyMessage)

		stored, err := store.GetUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Zero(t, stored.TokensUsed)
	})

	t.Run("sessions of other users are not found", func(t *testing.T) {
		testDB.Truncate(t)
		chat, _ := newChat()
		owner, _ := testutil.NewUserBuilder().Build(t, store)
		intruder, _ := testutil.NewUserBuilder().Build(t, store)
		session := testutil.BuildSession(t, store, owner.ID, domain.BotLightPrompt)

		_, err := chat.Session(ctx, intruder.ID, session.ID)
		assert.ErrorIs(t, err, service.ErrSessionNotFound)

		_, err = chat.PostMessage(ctx, intruder.ID, session.ID, service.PostMessageInput{Role: domain.MessageRoleUser, Content: "hi"})
		assert.ErrorIs(t, err, service.ErrSessionNotFound)

		_, err = chat.Session(ctx, owner.ID, uuid.New())
		assert.ErrorIs(t, err, service.ErrSessionNotFound)
	})

	t.Run("posting bumps the session", func(t *testing.T) {
		testDB.Truncate(t)
		chat, _ := newChat()
		user, _ := testutil.NewUserBuilder().Build(t, store)
		first := testutil.BuildSession(t, store, user.ID, domain.BotLightPrompt)
		testutil.BuildSession(t, store, user.ID, domain.BotLightPrompt)

		_, err := chat.PostMessage(ctx, user.ID, first.ID, service.PostMessageInput{Role: domain.MessageRoleAssistant, Content: "still here"})
		require.NoError(t, err)

		sessions, err := chat.Sessions(ctx, user.ID, "")
		require.NoError(t, err)
		require.Len(t, sessions, 2)
		assert.Equal(t, first.ID, sessions[0].ID)
	})
}
