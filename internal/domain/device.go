package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Device types a user can connect
const (
	DeviceAppleHealth = "apple_health"
	DeviceHomeKit     = "homekit"
	DeviceFitbit      = "fitbit"
	DeviceOura        = "oura"
)

// AppleHealthData is one synced sample (steps, heart_rate, sleep...). Rows are never updated.
type AppleHealthData struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID      `json:"userId" gorm:"type:uuid;not null;index"`
	DataType  string         `json:"dataType" gorm:"not null"`
	Value     float64        `json:"value" gorm:"not null"`
	Unit      string         `json:"unit" gorm:"not null"`
	Date      time.Time      `json:"date" gorm:"not null;index"`
	Metadata  datatypes.JSON `json:"metadata" gorm:"type:jsonb"`
	CreatedAt time.Time      `json:"createdAt"`

	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (AppleHealthData) TableName() string {
	return "apple_health_data"
}

// HomeKitData is one reading from a home sensor. Rows are never updated.
type HomeKitData struct {
	ID         uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID     uuid.UUID      `json:"userId" gorm:"type:uuid;not null;index"`
	DeviceType string         `json:"deviceType" gorm:"not null"`
	Room       *string        `json:"room"`
	Value      float64        `json:"value" gorm:"not null"`
	Unit       *string        `json:"unit"`
	Date       time.Time      `json:"date" gorm:"not null;index"`
	Metadata   datatypes.JSON `json:"metadata" gorm:"type:jsonb"`
	CreatedAt  time.Time      `json:"createdAt"`

	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (HomeKitData) TableName() string {
	return "home_kit_data"
}

// FitnessData is a daily activity summary. Rows are never updated.
type FitnessData struct {
	ID             uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID         uuid.UUID      `json:"userId" gorm:"type:uuid;not null;index"`
	Date           time.Time      `json:"date" gorm:"not null;index"`
	Steps          *int           `json:"steps"`
	ActiveMinutes  *int           `json:"activeMinutes"`
	CaloriesBurned *int           `json:"caloriesBurned"`
	HeartRateAvg   *int           `json:"heartRateAvg"`
	SleepHours     *float64       `json:"sleepHours"`
	Source         string         `json:"source" gorm:"not null;default:'manual'"`
	Metadata       datatypes.JSON `json:"metadata" gorm:"type:jsonb"`
	CreatedAt      time.Time      `json:"createdAt"`

	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (FitnessData) TableName() string {
	return "fitness_data"
}

// DeviceIntegration is keyed by (UserID, DeviceType)
type DeviceIntegration struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID      uuid.UUID      `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_device_integrations_user_device"`
	DeviceType  string         `json:"deviceType" gorm:"not null;uniqueIndex:idx_device_integrations_user_device"`
	IsConnected bool           `json:"isConnected" gorm:"not null;default:false"`
	Settings    datatypes.JSON `json:"settings" gorm:"type:jsonb"`
	LastSyncAt  *time.Time     `json:"lastSyncAt"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`

	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

type DeviceIntegrationChanges struct {
	IsConnected *bool           `json:"isConnected"`
	Settings    *datatypes.JSON `json:"settings"`
}

// Columns maps the set fields to column assignments
func (c DeviceIntegrationChanges) Columns() map[string]any {
	cols := make(map[string]any)
	if c.IsConnected != nil {
		cols["is_connected"] = *c.IsConnected
	}
	if c.Settings != nil {
		cols["settings"] = *c.Settings
	}
	return cols
}

// DeviceSyncResult is the receipt returned after a device sync
type DeviceSyncResult struct {
	UserID     uuid.UUID `json:"userId"`
	DeviceType string    `json:"deviceType"`
	Synced     bool      `json:"synced"`
	SyncedAt   time.Time `json:"syncedAt"`
}

// SoulMap and VisionQuest have no persistence yet
type SoulMap struct {
	ID        uuid.UUID      `json:"id"`
	UserID    uuid.UUID      `json:"userId"`
	Data      datatypes.JSON `json:"data"`
	CreatedAt time.Time      `json:"createdAt"`
}

type VisionQuest struct {
	ID        uuid.UUID      `json:"id"`
	UserID    uuid.UUID      `json:"userId"`
	Title     string         `json:"title"`
	Data      datatypes.JSON `json:"data"`
	CreatedAt time.Time      `json:"createdAt"`
}
