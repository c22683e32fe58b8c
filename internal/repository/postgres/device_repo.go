package postgres

import (
	"context"
	"time"

	"github.com/dom/lightprompt/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type deviceRepository struct {
	integrations table[domain.DeviceIntegration]
}

func NewDeviceRepository(db *gorm.DB) *deviceRepository {
	return &deviceRepository{
		integrations: table[domain.DeviceIntegration]{db: db, dateCol: "created_at", touchCol: "updated_at"},
	}
}

func (r *deviceRepository) GetDeviceIntegrations(ctx context.Context, userID uuid.UUID) ([]*domain.DeviceIntegration, error) {
	return r.integrations.list(ctx, whereEq("user_id", userID), r.integrations.oldestFirst)
}

func (r *deviceRepository) CreateDeviceIntegration(ctx context.Context, integration *domain.DeviceIntegration) error {
	return r.integrations.create(ctx, integration)
}

func (r *deviceRepository) UpdateDeviceIntegration(ctx context.Context, userID uuid.UUID, deviceType string, changes domain.DeviceIntegrationChanges) (*domain.DeviceIntegration, error) {
	return r.integrations.update(ctx, changes.Columns(), whereEq("user_id", userID), whereEq("device_type", deviceType))
}

// SyncDeviceData records that a sync happened. Pulling samples from the
// device is done by the client, which posts them through the health routes.
func (r *deviceRepository) SyncDeviceData(ctx context.Context, userID uuid.UUID, deviceType string) (*domain.DeviceSyncResult, error) {
	now := time.Now()
	integration, err := r.integrations.update(ctx, map[string]any{"last_sync_at": now},
		whereEq("user_id", userID), whereEq("device_type", deviceType))
	if err != nil {
		return nil, err
	}
	return &domain.DeviceSyncResult{
		UserID:     integration.UserID,
		DeviceType: integration.DeviceType,
		Synced:     true,
		SyncedAt:   now,
	}, nil
}
