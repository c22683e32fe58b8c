package postgres

import (
	"context"

	"github.com/dom/lightprompt/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// healthRepository stores append-only device samples
type healthRepository struct {
	apple   table[domain.AppleHealthData]
	homeKit table[domain.HomeKitData]
	fitness table[domain.FitnessData]
}

func NewHealthRepository(db *gorm.DB) *healthRepository {
	return &healthRepository{
		apple:   table[domain.AppleHealthData]{db: db, dateCol: "date"},
		homeKit: table[domain.HomeKitData]{db: db, dateCol: "date"},
		fitness: table[domain.FitnessData]{db: db, dateCol: "date"},
	}
}

func (r *healthRepository) GetAppleHealthData(ctx context.Context, userID uuid.UUID, days int) ([]*domain.AppleHealthData, error) {
	return r.apple.list(ctx, whereEq("user_id", userID), r.apple.since(days), r.apple.newestFirst)
}

func (r *healthRepository) SyncAppleHealthData(ctx context.Context, data *domain.AppleHealthData) error {
	return r.apple.create(ctx, data)
}

func (r *healthRepository) GetHomeKitData(ctx context.Context, userID uuid.UUID, days int) ([]*domain.HomeKitData, error) {
	return r.homeKit.list(ctx, whereEq("user_id", userID), r.homeKit.since(days), r.homeKit.newestFirst)
}

func (r *healthRepository) SyncHomeKitData(ctx context.Context, data *domain.HomeKitData) error {
	return r.homeKit.create(ctx, data)
}

func (r *healthRepository) GetFitnessData(ctx context.Context, userID uuid.UUID, days int) ([]*domain.FitnessData, error) {
	return r.fitness.list(ctx, whereEq("user_id", userID), r.fitness.since(days), r.fitness.newestFirst)
}

func (r *healthRepository) CreateFitnessData(ctx context.Context, data *domain.FitnessData) error {
	return r.fitness.create(ctx, data)
}

func (r *healthRepository) GetLatestFitnessData(ctx context.Context, userID uuid.UUID) (*domain.FitnessData, error) {
	return r.fitness.find(ctx, whereEq("user_id", userID), r.fitness.newestFirst)
}
