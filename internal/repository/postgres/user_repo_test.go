package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dom/lightprompt/internal/domain"
	"github.com/dom/lightprompt/internal/repository/postgres"
	"github.com/dom/lightprompt/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	store := postgres.NewStorage(testDB.DB)
	ctx := context.Background()

	t.Run("create user also creates default profile", func(t *testing.T) {
		testDB.Truncate(t)

		user := &domain.User{Email: "a@example.com", Name: "a", TokenLimit: 10}
		require.NoError(t, store.CreateUser(ctx, user))
		require.NotEqual(t, uuid.Nil, user.ID)

		got, err := store.GetUser(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, domain.TierFree, got.Tier)
		assert.Equal(t, domain.RoleUser, got.Role)
		assert.Equal(t, 0, got.TokensUsed)

		profile, err := store.GetUserProfile(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, profile)
		assert.Equal(t, "neutral", profile.CurrentMood)
		assert.Equal(t, "private", profile.SoulSyncVisibility)
		assert.False(t, profile.SoulSyncEnabled)
		assert.Empty(t, profile.Badges)
	})

	t.Run("duplicate email leaves no orphan profile", func(t *testing.T) {
		testDB.Truncate(t)

		first := &domain.User{Email: "dup@example.com", Name: "first"}
		require.NoError(t, store.CreateUser(ctx, first))

		second := &domain.User{Email: "dup@example.com", Name: "second"}
		require.Error(t, store.CreateUser(ctx, second))

		var profiles int64
		require.NoError(t, testDB.DB.Model(&domain.UserProfile{}).Count(&profiles).Error)
		assert.Equal(t, int64(1), profiles)
	})

	t.Run("getters return nil for missing rows", func(t *testing.T) {
		testDB.Truncate(t)

		user, err := store.GetUser(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, user)

		user, err = store.GetUserByEmail(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.Nil(t, user)

		profile, err := store.GetUserProfile(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, profile)
	})

	t.Run("update unknown id does not insert", func(t *testing.T) {
		testDB.Truncate(t)

		name := "ghost"
		user, err := store.UpdateUser(ctx, uuid.New(), domain.UserChanges{Name: &name})
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Nil(t, user)

		var count int64
		require.NoError(t, testDB.DB.Model(&domain.User{}).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("update changes only set fields", func(t *testing.T) {
		testDB.Truncate(t)
		user, _ := testutil.NewUserBuilder().Build(t, store)

		avatar := "https://example.com/a.png"
		updated, err := store.UpdateUser(ctx, user.ID, domain.UserChanges{AvatarURL: &avatar})
		require.NoError(t, err)
		require.NotNil(t, updated.AvatarURL)
		assert.Equal(t, avatar, *updated.AvatarURL)
		assert.Equal(t, user.Name, updated.Name)
		assert.Equal(t, user.Email, updated.Email)

		unchanged, err := store.UpdateUser(ctx, user.ID, domain.UserChanges{})
		require.NoError(t, err)
		assert.Equal(t, avatar, *unchanged.AvatarURL)
	})

	t.Run("concurrent increments are not lost", func(t *testing.T) {
		testDB.Truncate(t)
		user, _ := testutil.NewUserBuilder().WithTokens(0, 100).Build(t, store)

		const n = 20
		var wg sync.WaitGroup
		errs := make(chan error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := store.IncrementTokenUsage(ctx, user.ID)
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		got, err := store.GetUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, n, got.TokensUsed)
	})

	t.Run("reset zeroes usage and stamps reset date", func(t *testing.T) {
		testDB.Truncate(t)
		user, _ := testutil.NewUserBuilder().WithTokens(7, 10).Build(t, store)
		before := time.Now().Add(-time.Second)

		reset, err := store.ResetTokenUsage(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, reset.TokensUsed)
		assert.True(t, reset.ResetDate.After(before))

		_, err = store.ResetTokenUsage(ctx, uuid.New())
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("upgrade tier overwrites", func(t *testing.T) {
		testDB.Truncate(t)
		user, _ := testutil.NewUserBuilder().Build(t, store)

		upgraded, err := store.UpgradeTier(ctx, user.ID, domain.Tier49)
		require.NoError(t, err)
		assert.Equal(t, domain.Tier49, upgraded.Tier)
	})

	t.Run("profile update refreshes updated_at", func(t *testing.T) {
		testDB.Truncate(t)
		user, _ := testutil.NewUserBuilder().Build(t, store)
		original, err := store.GetUserProfile(ctx, user.ID)
		require.NoError(t, err)

		mood := "calm"
		badges := []string{"early_bird", "streak_7"}
		updated, err := store.UpdateUserProfile(ctx, user.ID, domain.UserProfileChanges{
			CurrentMood: &mood,
			Badges:      &badges,
		})
		require.NoError(t, err)
		assert.Equal(t, "calm", updated.CurrentMood)
		assert.Equal(t, badges, []string(updated.Badges))
		assert.False(t, updated.UpdatedAt.Before(original.UpdatedAt))

		_, err = store.UpdateUserProfile(ctx, uuid.New(), domain.UserProfileChanges{CurrentMood: &mood})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
