package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dom/lightprompt/internal/domain"
	"github.com/dom/lightprompt/internal/repository/postgres"
	"github.com/dom/lightprompt/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessCodeRepository_Redeem(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	store := postgres.NewStorage(testDB.DB)
	ctx := context.Background()

	t.Run("first redemption wins", func(t *testing.T) {
		testDB.Truncate(t)
		first, _ := testutil.NewUserBuilder().Build(t, store)
		second, _ := testutil.NewUserBuilder().Build(t, store)
		testutil.BuildAccessCode(t, store, "AAAA-BBBB-CCCC", nil)

		redeemed, err := store.RedeemAccessCode(ctx, "AAAA-BBBB-CCCC", first.ID)
		require.NoError(t, err)
		assert.True(t, redeemed.IsUsed)
		require.NotNil(t, redeemed.UsedBy)
		assert.Equal(t, first.ID, *redeemed.UsedBy)
		assert.NotNil(t, redeemed.UsedAt)

		_, err = store.RedeemAccessCode(ctx, "AAAA-BBBB-CCCC", second.ID)
		assert.ErrorIs(t, err, domain.ErrAccessCodeRedeemed)

		stored, err := store.GetAccessCode(ctx, "AAAA-BBBB-CCCC")
		require.NoError(t, err)
		assert.Equal(t, first.ID, *stored.UsedBy)
	})

	t.Run("expired code", func(t *testing.T) {
		testDB.Truncate(t)
		user, _ := testutil.NewUserBuilder().Build(t, store)
		past := time.Now().Add(-time.Hour)
		testutil.BuildAccessCode(t, store, "OLD0-OLD0-OLD0", &past)

		_, err := store.RedeemAccessCode(ctx, "OLD0-OLD0-OLD0", user.ID)
		assert.ErrorIs(t, err, domain.ErrAccessCodeExpired)

		stored, err := store.GetAccessCode(ctx, "OLD0-OLD0-OLD0")
		require.NoError(t, err)
		assert.False(t, stored.IsUsed)
	})

	t.Run("unknown code", func(t *testing.T) {
		testDB.Truncate(t)
		user, _ := testutil.NewUserBuilder().Build(t, store)

		_, err := store.RedeemAccessCode(ctx, "NONE-NONE-NONE", user.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		code, err := store.GetAccessCode(ctx, "NONE-NONE-NONE")
		require.NoError(t, err)
		assert.Nil(t, code)
	})

	t.Run("concurrent redemptions succeed once", func(t *testing.T) {
		testDB.Truncate(t)
		future := time.Now().Add(time.Hour)
		testutil.BuildAccessCode(t, store, "RACE-RACE-RACE", &future)

		const n = 8
		users := make([]*domain.User, n)
		for i := range users {
			users[i], _ = testutil.NewUserBuilder().Build(t, store)
		}

		var wg sync.WaitGroup
		results := make(chan error, n)
		for _, u := range users {
			wg.Add(1)
			go func(u *domain.User) {
				defer wg.Done()
				_, err := store.RedeemAccessCode(ctx, "RACE-RACE-RACE", u.ID)
				results <- err
			}(u)
		}
		wg.Wait()
		close(results)

		wins := 0
		for err := range results {
			if err == nil {
				wins++
				continue
			}
			assert.ErrorIs(t, err, domain.ErrAccessCodeRedeemed)
		}
		assert.Equal(t, 1, wins)
	})
}
