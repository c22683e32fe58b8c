package repository

import (
	"context"

	"github.com/dom/lightprompt/internal/domain"
	"github.com/google/uuid"
)

// Single-row getters return (nil, nil) when nothing matches. A days argument
// of zero or less disables the time window.

type UserStore interface {
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	CreateUser(ctx context.Context, user *domain.User) error
	UpdateUser(ctx context.Context, id uuid.UUID, changes domain.UserChanges) (*domain.User, error)
	IncrementTokenUsage(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	ResetTokenUsage(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	UpgradeTier(ctx context.Context, userID uuid.UUID, tier domain.Tier) (*domain.User, error)
}

type ProfileStore interface {
	GetUserProfile(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error)
	CreateUserProfile(ctx context.Context, profile *domain.UserProfile) error
	UpdateUserProfile(ctx context.Context, userID uuid.UUID, changes domain.UserProfileChanges) (*domain.UserProfile, error)
}

type ChatStore interface {
	GetChatSession(ctx context.Context, id uuid.UUID) (*domain.ChatSession, error)
	GetUserChatSessions(ctx context.Context, userID uuid.UUID) ([]*domain.ChatSession, error)
	GetBotChatSessions(ctx context.Context, userID uuid.UUID, botID string) ([]*domain.ChatSession, error)
	CreateChatSession(ctx context.Context, session *domain.ChatSession) error
	UpdateChatSession(ctx context.Context, id uuid.UUID, changes domain.ChatSessionChanges) (*domain.ChatSession, error)

	GetMessage(ctx context.Context, id uuid.UUID) (*domain.Message, error)
	GetSessionMessages(ctx context.Context, sessionID uuid.UUID) ([]*domain.Message, error)
	CreateMessage(ctx context.Context, message *domain.Message) error
}

type AccessCodeStore interface {
	GetAccessCode(ctx context.Context, code string) (*domain.AccessCode, error)
	CreateAccessCode(ctx context.Context, code *domain.AccessCode) error
	// RedeemAccessCode marks an unused, unexpired code as used by userID.
	// It fails with domain.ErrAccessCodeRedeemed, domain.ErrAccessCodeExpired
	// or domain.ErrNotFound instead of overwriting.
	RedeemAccessCode(ctx context.Context, code string, userID uuid.UUID) (*domain.AccessCode, error)
}

type WellnessStore interface {
	GetWellnessMetric(ctx context.Context, id uuid.UUID) (*domain.WellnessMetric, error)
	GetWellnessMetrics(ctx context.Context, userID uuid.UUID, days int) ([]*domain.WellnessMetric, error)
	CreateWellnessMetric(ctx context.Context, metric *domain.WellnessMetric) error
	UpdateWellnessMetric(ctx context.Context, id uuid.UUID, changes domain.WellnessMetricChanges) (*domain.WellnessMetric, error)
}

type HabitStore interface {
	GetHabit(ctx context.Context, id uuid.UUID) (*domain.Habit, error)
	GetUserHabits(ctx context.Context, userID uuid.UUID) ([]*domain.Habit, error)
	CreateHabit(ctx context.Context, habit *domain.Habit) error
	UpdateHabit(ctx context.Context, id uuid.UUID, changes domain.HabitChanges) (*domain.Habit, error)
	DeleteHabit(ctx context.Context, id uuid.UUID) error

	GetHabitEntry(ctx context.Context, id uuid.UUID) (*domain.HabitEntry, error)
	GetHabitEntries(ctx context.Context, habitID uuid.UUID, days int) ([]*domain.HabitEntry, error)
	CreateHabitEntry(ctx context.Context, entry *domain.HabitEntry) error
	UpdateHabitEntry(ctx context.Context, id uuid.UUID, changes domain.HabitEntryChanges) (*domain.HabitEntry, error)
}

type HealthStore interface {
	GetAppleHealthData(ctx context.Context, userID uuid.UUID, days int) ([]*domain.AppleHealthData, error)
	SyncAppleHealthData(ctx context.Context, data *domain.AppleHealthData) error
	GetHomeKitData(ctx context.Context, userID uuid.UUID, days int) ([]*domain.HomeKitData, error)
	SyncHomeKitData(ctx context.Context, data *domain.HomeKitData) error
	GetFitnessData(ctx context.Context, userID uuid.UUID, days int) ([]*domain.FitnessData, error)
	CreateFitnessData(ctx context.Context, data *domain.FitnessData) error
	GetLatestFitnessData(ctx context.Context, userID uuid.UUID) (*domain.FitnessData, error)
}

type InsightStore interface {
	GetWellnessPatterns(ctx context.Context, userID uuid.UUID) ([]*domain.WellnessPattern, error)
	CreateWellnessPattern(ctx context.Context, pattern *domain.WellnessPattern) error
	// DetectPatterns returns the stored patterns. It does not analyze anything.
	DetectPatterns(ctx context.Context, userID uuid.UUID) ([]*domain.WellnessPattern, error)

	GetRecommendation(ctx context.Context, id uuid.UUID) (*domain.Recommendation, error)
	GetRecommendations(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Recommendation, error)
	CreateRecommendation(ctx context.Context, rec *domain.Recommendation) error
	UpdateRecommendation(ctx context.Context, id uuid.UUID, changes domain.RecommendationChanges) (*domain.Recommendation, error)
	// GenerateRecommendations returns the five most recent stored recommendations.
	GenerateRecommendations(ctx context.Context, userID uuid.UUID) ([]*domain.Recommendation, error)
}

type DeviceStore interface {
	GetDeviceIntegrations(ctx context.Context, userID uuid.UUID) ([]*domain.DeviceIntegration, error)
	CreateDeviceIntegration(ctx context.Context, integration *domain.DeviceIntegration) error
	UpdateDeviceIntegration(ctx context.Context, userID uuid.UUID, deviceType string, changes domain.DeviceIntegrationChanges) (*domain.DeviceIntegration, error)
	SyncDeviceData(ctx context.Context, userID uuid.UUID, deviceType string) (*domain.DeviceSyncResult, error)
}

// JourneyStore methods all return domain.ErrNotImplemented
type JourneyStore interface {
	GetSoulMap(ctx context.Context, userID uuid.UUID) (*domain.SoulMap, error)
	CreateSoulMap(ctx context.Context, soulMap *domain.SoulMap) error
	GetVisionQuest(ctx context.Context, userID uuid.UUID) (*domain.VisionQuest, error)
	CreateVisionQuest(ctx context.Context, quest *domain.VisionQuest) error
}

// Storage is the full data access contract
type Storage interface {
	UserStore
	ProfileStore
	ChatStore
	AccessCodeStore
	WellnessStore
	HabitStore
	HealthStore
	InsightStore
	DeviceStore
	JourneyStore
}
