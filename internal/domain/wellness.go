package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// WellnessMetric is a daily check-in. Mood, energy and stress are 1-10 scales.
type WellnessMetric struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID       uuid.UUID      `json:"userId" gorm:"type:uuid;not null;index"`
	Date         time.Time      `json:"date" gorm:"not null;default:now();index"`
	Mood         *int           `json:"mood"`
	Energy       *int           `json:"energy"`
	Stress       *int           `json:"stress"`
	Gratitude    *string        `json:"gratitude"`
	Reflection   *string        `json:"reflection"`
	Goals        pq.StringArray `json:"goals" gorm:"type:text[]"`
	Achievements pq.StringArray `json:"achievements" gorm:"type:text[]"`
	Metadata     datatypes.JSON `json:"metadata" gorm:"type:jsonb"`
	CreatedAt    time.Time      `json:"createdAt"`

	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

type WellnessMetricChanges struct {
	Mood         *int            `json:"mood" validate:"omitempty,min=1,max=10"`
	Energy       *int            `json:"energy" validate:"omitempty,min=1,max=10"`
	Stress       *int            `json:"stress" validate:"omitempty,min=1,max=10"`
	Gratitude    *string         `json:"gratitude"`
	Reflection   *string         `json:"reflection"`
	Goals        *[]string       `json:"goals"`
	Achievements *[]string       `json:"achievements"`
	Metadata     *datatypes.JSON `json:"metadata"`
}

// Columns maps the set fields to column assignments
func (c WellnessMetricChanges) Columns() map[string]any {
	cols := make(map[string]any)
	if c.Mood != nil {
		cols["mood"] = *c.Mood
	}
	if c.Energy != nil {
		cols["energy"] = *c.Energy
	}
	if c.Stress != nil {
		cols["stress"] = *c.Stress
	}
	if c.Gratitude != nil {
		cols["gratitude"] = *c.Gratitude
	}
	if c.Reflection != nil {
		cols["reflection"] = *c.Reflection
	}
	if c.Goals != nil {
		cols["goals"] = pq.StringArray(*c.Goals)
	}
	if c.Achievements != nil {
		cols["achievements"] = pq.StringArray(*c.Achievements)
	}
	if c.Metadata != nil {
		cols["metadata"] = *c.Metadata
	}
	return cols
}

// Habit is soft deleted: IsActive is cleared instead of removing the row
type Habit struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID          uuid.UUID `json:"userId" gorm:"type:uuid;not null;index"`
	Name            string    `json:"name" gorm:"not null"`
	Description     *string   `json:"description"`
	Category        string    `json:"category" gorm:"not null;default:'general'"`
	Icon            *string   `json:"icon"`
	Color           *string   `json:"color"`
	TargetFrequency int       `json:"targetFrequency" gorm:"not null;default:1"` // per day
	IsActive        bool      `json:"isActive" gorm:"not null;default:true"`
	CreatedAt       time.Time `json:"createdAt"`

	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

type HabitChanges struct {
	Name            *string `json:"name" validate:"omitempty,min=1"`
	Description     *string `json:"description"`
	Category        *string `json:"category"`
	Icon            *string `json:"icon"`
	Color           *string `json:"color"`
	TargetFrequency *int    `json:"targetFrequency" validate:"omitempty,min=1"`
	IsActive        *bool   `json:"isActive"`
}

// Columns maps the set fields to column assignments
func (c HabitChanges) Columns() map[string]any {
	cols := make(map[string]any)
	if c.Name != nil {
		cols["name"] = *c.Name
	}
	if c.Description != nil {
		cols["description"] = *c.Description
	}
	if c.Category != nil {
		cols["category"] = *c.Category
	}
	if c.Icon != nil {
		cols["icon"] = *c.Icon
	}
	if c.Color != nil {
		cols["color"] = *c.Color
	}
	if c.TargetFrequency != nil {
		cols["target_frequency"] = *c.TargetFrequency
	}
	if c.IsActive != nil {
		cols["is_active"] = *c.IsActive
	}
	return cols
}

type HabitEntry struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	HabitID   uuid.UUID `json:"habitId" gorm:"type:uuid;not null;index"`
	Date      time.Time `json:"date" gorm:"not null;default:now()"`
	Completed bool      `json:"completed" gorm:"not null;default:false"`
	Count     int       `json:"count" gorm:"not null;default:1"`
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`

	Habit *Habit `json:"-" gorm:"foreignKey:HabitID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (HabitEntry) TableName() string {
	return "habit_entries"
}

type HabitEntryChanges struct {
	Completed *bool   `json:"completed"`
	Count     *int    `json:"count" validate:"omitempty,min=0"`
	Notes     *string `json:"notes"`
}

// Columns maps the set fields to column assignments
func (c HabitEntryChanges) Columns() map[string]any {
	cols := make(map[string]any)
	if c.Completed != nil {
		cols["completed"] = *c.Completed
	}
	if c.Count != nil {
		cols["count"] = *c.Count
	}
	if c.Notes != nil {
		cols["notes"] = *c.Notes
	}
	return cols
}

// WellnessPattern is a stored insight about a user. Nothing in this service computes them.
type WellnessPattern struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID      uuid.UUID      `json:"userId" gorm:"type:uuid;not null;index"`
	PatternType string         `json:"patternType" gorm:"not null"`
	Description string         `json:"description" gorm:"not null"`
	Confidence  int            `json:"confidence" gorm:"not null;default:0"` // 0-100
	Data        datatypes.JSON `json:"data" gorm:"type:jsonb"`
	IsActive    bool           `json:"isActive" gorm:"not null;default:true"`
	DetectedAt  time.Time      `json:"detectedAt" gorm:"not null;default:now()"`

	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// Recommendation priorities
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

type Recommendation struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID      uuid.UUID      `json:"userId" gorm:"type:uuid;not null;index"`
	Type        string         `json:"type" gorm:"not null"`
	Title       string         `json:"title" gorm:"not null"`
	Description string         `json:"description" gorm:"not null"`
	Priority    string         `json:"priority" gorm:"not null;default:'medium'"`
	IsRead      bool           `json:"isRead" gorm:"not null;default:false"`
	IsCompleted bool           `json:"isCompleted" gorm:"not null;default:false"`
	Metadata    datatypes.JSON `json:"metadata" gorm:"type:jsonb"`
	CreatedAt   time.Time      `json:"createdAt"`

	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

type RecommendationChanges struct {
	IsRead      *bool           `json:"isRead"`
	IsCompleted *bool           `json:"isCompleted"`
	Priority    *string         `json:"priority" validate:"omitempty,oneof=low medium high"`
	Metadata    *datatypes.JSON `json:"metadata"`
}

// Columns maps the set fields to column assignments
func (c RecommendationChanges) Columns() map[string]any {
	cols := make(map[string]any)
	if c.IsRead != nil {
		cols["is_read"] = *c.IsRead
	}
	if c.IsCompleted != nil {
		cols["is_completed"] = *c.IsCompleted
	}
	if c.Priority != nil {
		cols["priority"] = *c.Priority
	}
	if c.Metadata != nil {
		cols["metadata"] = *c.Metadata
	}
	return cols
}
