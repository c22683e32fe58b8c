package postgres

import (
	"context"

	"github.com/dom/lightprompt/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const generatedRecommendations = 5

type insightRepository struct {
	patterns        table[domain.WellnessPattern]
	recommendations table[domain.Recommendation]
}

func NewInsightRepository(db *gorm.DB) *insightRepository {
	return &insightRepository{
		patterns:        table[domain.WellnessPattern]{db: db, dateCol: "detected_at", activeCol: "is_active"},
		recommendations: table[domain.Recommendation]{db: db, dateCol: "created_at"},
	}
}

func (r *insightRepository) GetWellnessPatterns(ctx context.Context, userID uuid.UUID) ([]*domain.WellnessPattern, error) {
	return r.patterns.list(ctx, whereEq("user_id", userID), r.patterns.newestFirst)
}

func (r *insightRepository) CreateWellnessPattern(ctx context.Context, pattern *domain.WellnessPattern) error {
	return r.patterns.create(ctx, pattern)
}

func (r *insightRepository) DetectPatterns(ctx context.Context, userID uuid.UUID) ([]*domain.WellnessPattern, error) {
	return r.GetWellnessPatterns(ctx, userID)
}

func (r *insightRepository) GetRecommendation(ctx context.Context, id uuid.UUID) (*domain.Recommendation, error) {
	return r.recommendations.find(ctx, whereEq("id", id))
}

func (r *insightRepository) GetRecommendations(ctx context.Context, userID uuid.UUID, n int) ([]*domain.Recommendation, error) {
	return r.recommendations.list(ctx, whereEq("user_id", userID), r.recommendations.newestFirst, limit(n))
}

func (r *insightRepository) CreateRecommendation(ctx context.Context, rec *domain.Recommendation) error {
	return r.recommendations.create(ctx, rec)
}

func (r *insightRepository) UpdateRecommendation(ctx context.Context, id uuid.UUID, changes domain.RecommendationChanges) (*domain.Recommendation, error) {
	return r.recommendations.update(ctx, changes.Columns(), whereEq("id", id))
}

func (r *insightRepository) GenerateRecommendations(ctx context.Context, userID uuid.UUID) ([]*domain.Recommendation, error) {
	return r.GetRecommendations(ctx, userID, generatedRecommendations)
}
