package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/dom/lightprompt/internal/domain"
	"github.com/dom/lightprompt/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	email      string
	name       string
	password   string
	tier       domain.Tier
	role       domain.Role
	tokenLimit int
	tokensUsed int
}

// NewUserBuilder creates a new UserBuilder with a unique email
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		email:      fmt.Sprintf("user_%s@example.com", suffix),
		name:       "user_" + suffix,
		password:   "testpassword123",
		tier:       domain.TierFree,
		role:       domain.RoleUser,
		tokenLimit: 10,
	}
}

func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

func (b *UserBuilder) WithTier(tier domain.Tier) *UserBuilder {
	b.tier = tier
	return b
}

func (b *UserBuilder) AsAdmin() *UserBuilder {
	b.role = domain.RoleAdmin
	return b
}

func (b *UserBuilder) WithTokens(used, limit int) *UserBuilder {
	b.tokensUsed = used
	b.tokenLimit = limit
	return b
}

// Build stores the user and its default profile, returning the user and raw password
func (b *UserBuilder) Build(t *testing.T, store repository.UserStore) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		Email:        b.email,
		Name:         b.name,
		PasswordHash: string(hashedPassword),
		Tier:         b.tier,
		Role:         b.role,
		TokensUsed:   b.tokensUsed,
		TokenLimit:   b.tokenLimit,
	}
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// BuildWithToken stores the user and signs an access token for it
func (b *UserBuilder) BuildWithToken(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()

	user, _ := b.Build(t, ts.Store)
	token, err := ts.Services.Auth.GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return user, token
}

// AuthResponse matches the API auth response
type AuthResponse struct {
	User        domain.User `json:"user"`
	AccessToken string      `json:"accessToken"`
}

// BuildAndAuthenticate signs up through the API and returns the user and access token
func (b *UserBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()

	resp := ts.Do(t, http.MethodPost, "/auth/signup", map[string]string{
		"email":    b.email,
		"name":     b.name,
		"password": b.password,
	}, "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected signup status code: %d", resp.StatusCode)
	}

	var authResp AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	return &authResp.User, authResp.AccessToken
}

// HabitBuilder creates test habits
type HabitBuilder struct {
	userID    uuid.UUID
	name      string
	category  string
	createdAt time.Time
}

func NewHabitBuilder(userID uuid.UUID) *HabitBuilder {
	return &HabitBuilder{
		userID:   userID,
		name:     "habit_" + uuid.New().String()[:8],
		category: "general",
	}
}

func (b *HabitBuilder) WithName(name string) *HabitBuilder {
	b.name = name
	return b
}

// CreatedAt pins the creation time so ordering is deterministic
func (b *HabitBuilder) CreatedAt(at time.Time) *HabitBuilder {
	b.createdAt = at
	return b
}

func (b *HabitBuilder) Build(t *testing.T, store repository.HabitStore) *domain.Habit {
	t.Helper()

	habit := &domain.Habit{
		UserID:          b.userID,
		Name:            b.name,
		Category:        b.category,
		TargetFrequency: 1,
		IsActive:        true,
		CreatedAt:       b.createdAt,
	}
	if err := store.CreateHabit(context.Background(), habit); err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}
	return habit
}

// BuildSession opens a chat session for userID with botID
func BuildSession(t *testing.T, store repository.ChatStore, userID uuid.UUID, botID string) *domain.ChatSession {
	t.Helper()

	session := &domain.ChatSession{UserID: userID, BotID: botID}
	if err := store.CreateChatSession(context.Background(), session); err != nil {
		t.Fatalf("failed to create chat session: %v", err)
	}
	return session
}

// BuildMetric stores a wellness check-in dated daysAgo days in the past
func BuildMetric(t *testing.T, store repository.WellnessStore, userID uuid.UUID, daysAgo, mood int) *domain.WellnessMetric {
	t.Helper()

	metric := &domain.WellnessMetric{
		UserID: userID,
		Date:   time.Now().AddDate(0, 0, -daysAgo),
		Mood:   &mood,
	}
	if err := store.CreateWellnessMetric(context.Background(), metric); err != nil {
		t.Fatalf("failed to create wellness metric: %v", err)
	}
	return metric
}

// BuildAccessCode stores an unused code expiring at expiresAt (nil never expires)
func BuildAccessCode(t *testing.T, store repository.AccessCodeStore, code string, expiresAt *time.Time) *domain.AccessCode {
	t.Helper()

	accessCode := &domain.AccessCode{
		Code:      code,
		Type:      domain.AccessCodeTypeCourse,
		ExpiresAt: expiresAt,
	}
	if err := store.CreateAccessCode(context.Background(), accessCode); err != nil {
		t.Fatalf("failed to create access code: %v", err)
	}
	return accessCode
}

// CreateAuthenticatedRequest creates an HTTP request with auth token
func CreateAuthenticatedRequest(t *testing.T, method, url string, body interface{}, token string) *http.Request {
	t.Helper()

	bodyReader := bytes.NewBuffer(nil)
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, bodyReader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}

// Do sends a JSON request to an /api/v1 path. The caller closes the body.
func (ts *TestServer) Do(t *testing.T, method, path string, body interface{}, token string) *http.Response {
	t.Helper()

	resp, err := http.DefaultClient.Do(CreateAuthenticatedRequest(t, method, ts.APIURL(path), body, token))
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	return resp
}
