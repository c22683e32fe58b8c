package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	Name         string    `json:"name" gorm:"not null"`
	AvatarURL    *string   `json:"avatarUrl"`
	PasswordHash string    `json:"-"`
	Tier         Tier      `json:"tier" gorm:"type:varchar(20);not null;default:'free'"`
	Role         Role      `json:"role" gorm:"type:varchar(10);not null;default:'user'"`
	TokensUsed   int       `json:"tokensUsed" gorm:"not null;default:0"`
	TokenLimit   int       `json:"tokenLimit" gorm:"not null;default:10"`
	ResetDate    time.Time `json:"resetDate" gorm:"not null;default:now()"`
	CreatedAt    time.Time `json:"createdAt"`
}

// HasTokensRemaining reports whether the user is still under their token limit
func (u *User) HasTokensRemaining() bool {
	return u.TokensUsed < u.TokenLimit
}

// IsAdmin reports whether the user may use admin routes
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Tier == TierAdmin
}

// UserChanges is a partial update of a User. Nil fields are left untouched.
type UserChanges struct {
	Name       *string `json:"name"`
	AvatarURL  *string `json:"avatarUrl"`
	Tier       *Tier   `json:"tier"`
	Role       *Role   `json:"role"`
	TokenLimit *int    `json:"tokenLimit"`
}

// Columns maps the set fields to column assignments
func (c UserChanges) Columns() map[string]any {
	cols := make(map[string]any)
	if c.Name != nil {
		cols["name"] = *c.Name
	}
	if c.AvatarURL != nil {
		cols["avatar_url"] = *c.AvatarURL
	}
	if c.Tier != nil {
		cols["tier"] = string(*c.Tier)
	}
	if c.Role != nil {
		cols["role"] = string(*c.Role)
	}
	if c.TokenLimit != nil {
		cols["token_limit"] = *c.TokenLimit
	}
	return cols
}

// UserProfile is the 1:1 extension of a User holding mood, preferences and privacy settings
type UserProfile struct {
	UserID             uuid.UUID      `json:"userId" gorm:"type:uuid;primary_key"`
	CurrentMood        string         `json:"currentMood" gorm:"not null;default:'neutral'"`
	MoodDescription    *string        `json:"moodDescription"`
	Preferences        datatypes.JSON `json:"preferences" gorm:"type:jsonb"`
	Badges             pq.StringArray `json:"badges" gorm:"type:text[];default:'{}'"`
	EvolutionScore     int            `json:"evolutionScore" gorm:"not null;default:0"`
	PrivacySettings    datatypes.JSON `json:"privacySettings" gorm:"type:jsonb;default:'{}'"`
	SoulSyncEnabled    bool           `json:"soulSyncEnabled" gorm:"not null;default:false"`
	SoulSyncVisibility string         `json:"soulSyncVisibility" gorm:"not null;default:'private'"`
	UpdatedAt          time.Time      `json:"updatedAt"`

	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (UserProfile) TableName() string {
	return "user_profiles"
}

// NewDefaultUserProfile creates the profile every new user starts with
func NewDefaultUserProfile(userID uuid.UUID) *UserProfile {
	return &UserProfile{
		UserID:             userID,
		CurrentMood:        "neutral",
		Badges:             pq.StringArray{},
		PrivacySettings:    datatypes.JSON("{}"),
		SoulSyncVisibility: "private",
	}
}

// UserProfileChanges is a partial update of a UserProfile
type UserProfileChanges struct {
	CurrentMood        *string         `json:"currentMood"`
	MoodDescription    *string         `json:"moodDescription"`
	Preferences        *datatypes.JSON `json:"preferences"`
	Badges             *[]string       `json:"badges"`
	EvolutionScore     *int            `json:"evolutionScore"`
	PrivacySettings    *datatypes.JSON `json:"privacySettings"`
	SoulSyncEnabled    *bool           `json:"soulSyncEnabled"`
	SoulSyncVisibility *string         `json:"soulSyncVisibility"`
}

// Columns maps the set fields to column assignments
func (c UserProfileChanges) Columns() map[string]any {
	cols := make(map[string]any)
	if c.CurrentMood != nil {
		cols["current_mood"] = *c.CurrentMood
	}
	if c.MoodDescription != nil {
		cols["mood_description"] = *c.MoodDescription
	}
	if c.Preferences != nil {
		cols["preferences"] = *c.Preferences
	}
	if c.Badges != nil {
		cols["badges"] = pq.StringArray(*c.Badges)
	}
	if c.EvolutionScore != nil {
		cols["evolution_score"] = *c.EvolutionScore
	}
	if c.PrivacySettings != nil {
		cols["privacy_settings"] = *c.PrivacySettings
	}
	if c.SoulSyncEnabled != nil {
		cols["soul_sync_enabled"] = *c.SoulSyncEnabled
	}
	if c.SoulSyncVisibility != nil {
		cols["soul_sync_visibility"] = *c.SoulSyncVisibility
	}
	return cols
}
