package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dom/lightprompt/internal/domain"
	"github.com/dom/lightprompt/internal/repository/postgres"
	"github.com/dom/lightprompt/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsightRepository(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	store := postgres.NewStorage(testDB.DB)
	ctx := context.Background()

	t.Run("patterns are active only, newest first", func(t *testing.T) {
		testDB.Truncate(t)
		user, _ := testutil.NewUserBuilder().Build(t, store)

		older := &domain.WellnessPattern{UserID: user.ID, PatternType: "mood_trend", Description: "older", IsActive: true, DetectedAt: time.Now().Add(-2 * time.Hour)}
		newer := &domain.WellnessPattern{UserID: user.ID, PatternType: "sleep", Description: "newer", IsActive: true, DetectedAt: time.Now().Add(-time.Hour)}
		require.NoError(t, store.CreateWellnessPattern(ctx, older))
		require.NoError(t, store.CreateWellnessPattern(ctx, newer))

		retired := &domain.WellnessPattern{UserID: user.ID, PatternType: "energy", Description: "retired", IsActive: true}
		require.NoError(t, store.CreateWellnessPattern(ctx, retired))
		require.NoError(t, testDB.DB.Model(retired).Update("is_active", false).Error)

		patterns, err := store.GetWellnessPatterns(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, patterns, 2)
		assert.Equal(t, "newer", patterns[0].Description)
		assert.Equal(t, "older", patterns[1].Description)

		detected, err := store.DetectPatterns(ctx, user.ID)
		require.NoError(t, err)
		assert.Len(t, detected, 2)
	})

	t.Run("recommendations limit and generate", func(t *testing.T) {
		testDB.Truncate(t)
		user, _ := testutil.NewUserBuilder().Build(t, store)

		base := time.Now().Add(-time.Hour)
		for i := 0; i < 7; i++ {
			rec := &domain.Recommendation{
				UserID:      user.ID,
				Type:        "habit",
				Title:       fmt.Sprintf("rec %d", i),
				Description: "try it",
				Priority:    domain.PriorityMedium,
				CreatedAt:   base.Add(time.Duration(i) * time.Minute),
			}
			require.NoError(t, store.CreateRecommendation(ctx, rec))
		}

		all, err := store.GetRecommendations(ctx, user.ID, 0)
		require.NoError(t, err)
		assert.Len(t, all, 7)
		assert.Equal(t, "rec 6", all[0].Title)

		limited, err := store.GetRecommendations(ctx, user.ID, 3)
		require.NoError(t, err)
		assert.Len(t, limited, 3)

		generated, err := store.GenerateRecommendations(ctx, user.ID)
		require.NoError(t, err)
		assert.Len(t, generated, 5)

		read := true
		updated, err := store.UpdateRecommendation(ctx, all[0].ID, domain.RecommendationChanges{IsRead: &read})
		require.NoError(t, err)
		assert.True(t, updated.IsRead)
		assert.False(t, updated.IsCompleted)
	})
}
