package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/dom/lightprompt/internal/domain"
	"github.com/dom/lightprompt/internal/repository/postgres"
	"github.com/dom/lightprompt/internal/service"
	"github.com/dom/lightprompt/internal/testutil"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_Signup(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	store := postgres.NewStorage(testDB.DB)
	cfg := testutil.TestConfig()
	authService := service.NewAuthService(store, cfg)
	ctx := context.Background()

	tests := []struct {
		name    string
		input   service.SignupInput
		setup   func()
		wantErr error
	}{
		{
			name:  "successful signup",
			input: service.SignupInput{Email: "new@example.com", Name: "New", Password: "password123"},
		},
		{
			name:  "email is normalized",
			input: service.SignupInput{Email: "  Mixed@Example.COM ", Password: "password123"},
		},
		{
			name: "duplicate email",
			input: service.SignupInput{Email: "taken@example.com", Password: "password123"},
			setup: func() {
				testutil.NewUserBuilder().WithEmail("taken@example.com").Build(t, store)
			},
			wantErr: service.ErrEmailExists,
		},
		{
			name:    "short password",
			input:   service.SignupInput{Email: "short@example.com", Password: "1234567"},
			wantErr: service.ErrWeakPassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testDB.Truncate(t)
			if tt.setup != nil {
				tt.setup()
			}

			result, err := authService.Signup(ctx, tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, result.AccessToken)
			assert.Equal(t, domain.TierFree, result.User.Tier)
			assert.Equal(t, domain.RoleUser, result.User.Role)
			assert.Equal(t, cfg.DefaultTokenLimit, result.User.TokenLimit)
			assert.NotEqual(t, tt.input.Password, result.User.PasswordHash)

			stored, err := store.GetUserByEmail(ctx, result.User.Email)
			require.NoError(t, err)
			require.NotNil(t, stored)
			assert.Equal(t, result.User.ID, stored.ID)
		})
	}

	t.Run("name defaults to the email local part", func(t *testing.T) {
		testDB.Truncate(t)
		result, err := authService.Signup(ctx, service.SignupInput{Email: "seeker@example.com", Password: "password123"})
		require.NoError(t, err)
		assert.Equal(t, "seeker", result.User.Name)
	})
}

func TestAuthService_Login(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	store := postgres.NewStorage(testDB.DB)
	authService := service.NewAuthService(store, testutil.TestConfig())
	ctx := context.Background()

	user, password := testutil.NewUserBuilder().WithEmail("login@example.com").Build(t, store)
	passwordless := &domain.User{Email: "code@example.com", Name: "code", Tier: domain.TierFree, Role: domain.RoleUser, TokenLimit: 10}
	require.NoError(t, store.CreateUser(ctx, passwordless))

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "valid credentials", email: "login@example.com", password: password},
		{name: "case-insensitive email", email: "LOGIN@example.com", password: password},
		{name: "wrong password", email: "login@example.com", password: "wrong-password", wantErr: service.ErrInvalidCredentials},
		{name: "unknown email", email: "nobody@example.com", password: password, wantErr: service.ErrInvalidCredentials},
		{name: "account without password", email: "code@example.com", password: "", wantErr: service.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := authService.Login(ctx, service.LoginInput{Email: tt.email, Password: tt.password})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, user.ID, result.User.ID)
		})
	}
}

func TestAuthService_ValidateToken(t *testing.T) {
	cfg := testutil.TestConfig()
	authService := service.NewAuthService(nil, cfg)
	user := &domain.User{ID: uuid.New(), Email: "token@example.com", Role: domain.RoleAdmin}

	token, err := authService.GenerateAccessToken(user)
	require.NoError(t, err)

	claims, err := authService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, domain.RoleAdmin, claims.Role)

	t.Run("garbage", func(t *testing.T) {
		_, err := authService.ValidateToken("not-a-token")
		assert.ErrorIs(t, err, service.ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := *cfg
		other.JWTSecret = "another-secret"
		forged, err := service.NewAuthService(nil, &other).GenerateAccessToken(user)
		require.NoError(t, err)

		_, err = authService.ValidateToken(forged)
		assert.ErrorIs(t, err, service.ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": user.ID.String(),
			"exp": time.Now().Add(-time.Minute).Unix(),
		})
		signed, err := expired.SignedString([]byte(cfg.JWTSecret))
		require.NoError(t, err)

		_, err = authService.ValidateToken(signed)
		assert.ErrorIs(t, err, service.ErrInvalidToken)
	})
}
