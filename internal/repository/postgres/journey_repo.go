package postgres

import (
	"context"

	"github.com/dom/lightprompt/internal/domain"
	"github.com/google/uuid"
)

// journeyRepository has no tables behind it. Soul maps and vision quests
// report domain.ErrNotImplemented rather than pretending to persist.
type journeyRepository struct{}

func (journeyRepository) GetSoulMap(ctx context.Context, userID uuid.UUID) (*domain.SoulMap, error) {
	return nil, domain.ErrNotImplemented
}

func (journeyRepository) CreateSoulMap(ctx context.Context, soulMap *domain.SoulMap) error {
	return domain.ErrNotImplemented
}

func (journeyRepository) GetVisionQuest(ctx context.Context, userID uuid.UUID) (*domain.VisionQuest, error) {
	return nil, domain.ErrNotImplemented
}

func (journeyRepository) CreateVisionQuest(ctx context.Context, quest *domain.VisionQuest) error {
	return domain.ErrNotImplemented
}
