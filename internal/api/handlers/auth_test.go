package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/dom/lightprompt/internal/domain"
	"github.com/dom/lightprompt/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthHandler_Signup(t *testing.T) {
	ts := testutil.NewTestServer(t)

	tests := []struct {
		name           string
		request        map[string]string
		setup          func()
		expectedStatus int
		checkResponse  func(*testing.T, *http.Response)
	}{
		{
			name: "successful signup",
			request: map[string]string{
				"email":    "new@example.com",
				"name":     "New Seeker",
				"password": "password123",
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp *http.Response) {
				var result testutil.AuthResponse
				testutil.AssertJSONResponse(t, resp, &result)
				assert.Equal(t, "new@example.com", result.User.Email)
				assert.Equal(t, domain.TierFree, result.User.Tier)
				assert.Equal(t, 10, result.User.TokenLimit)
				assert.NotEmpty(t, result.AccessToken)
			},
		},
		{
			name:           "invalid email",
			request:        map[string]string{"email": "not-an-email", "password": "password123"},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, resp *http.Response) {
				testutil.AssertFieldError(t, resp, "email")
			},
		},
		{
			name:           "short password",
			request:        map[string]string{"email": "short@example.com", "password": "short"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:    "duplicate email",
			request: map[string]string{"email": "taken@example.com", "password": "password123"},
			setup: func() {
				testutil.NewUserBuilder().WithEmail("taken@example.com").Build(t, ts.Store)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "empty request body",
			request:        map[string]string{},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts.DB.Truncate(t)

			if tt.setup != nil {
				tt.setup()
			}

			body, _ := json.Marshal(tt.request)
			resp, err := http.Post(ts.APIURL("/auth/signup"), "application/json", bytes.NewBuffer(body))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.checkResponse != nil {
				tt.checkResponse(t, resp)
			}
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, rawPassword := testutil.NewUserBuilder().
		WithEmail("login@example.com").
		WithPassword("correctpassword").
		Build(t, ts.Store)

	tests := []struct {
		name           string
		request        map[string]string
		expectedStatus int
	}{
		{
			name:           "successful login",
			request:        map[string]string{"email": user.Email, "password": rawPassword},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "invalid password",
			request:        map[string]string{"email": user.Email, "password": "wrongpassword"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "non-existent user",
			request:        map[string]string{"email": "nobody@example.com", "password": "anypassword"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "missing password",
			request:        map[string]string{"email": user.Email},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.Do(t, http.MethodPost, "/auth/login", tt.request, "")
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			if tt.expectedStatus == http.StatusOK {
				var result testutil.AuthResponse
				testutil.AssertJSONResponse(t, resp, &result)
				assert.Equal(t, user.ID, result.User.ID)
				assert.NotEmpty(t, result.AccessToken)
			}
		})
	}
}

func TestAuthHandler_Me(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, token := testutil.NewUserBuilder().
		WithEmail("me@example.com").
		BuildAndAuthenticate(t, ts)

	tests := []struct {
		name           string
		path           string
		token          string
		expectedStatus int
	}{
		{name: "auth me", path: "/auth/me", token: token, expectedStatus: http.StatusOK},
		{name: "me", path: "/me", token: token, expectedStatus: http.StatusOK},
		{name: "no token", path: "/me", expectedStatus: http.StatusUnauthorized},
		{name: "invalid token", path: "/me", token: "invalid-token", expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.Do(t, http.MethodGet, tt.path, nil, tt.token)
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			if tt.expectedStatus == http.StatusOK {
				var result domain.User
				testutil.AssertJSONResponse(t, resp, &result)
				assert.Equal(t, user.ID, result.ID)
				assert.Equal(t, "me@example.com", result.Email)
			}
		})
	}
}
