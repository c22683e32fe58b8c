package handlers_test

import (
	"net/http"
	"testing"

	"github.com/dom/lightprompt/internal/domain"
	"github.com/dom/lightprompt/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeviceHandler(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, token := testutil.NewUserBuilder().BuildWithToken(t, ts)

	resp := ts.Do(t, http.MethodPost, "/devices", map[string]any{"deviceType": domain.DeviceOura}, token)
	testutil.AssertStatusCode(t, resp, http.StatusCreated)
	resp.Body.Close()

	t.Run("duplicate device type", func(t *testing.T) {
		resp := ts.Do(t, http.MethodPost, "/devices", map[string]any{"deviceType": domain.DeviceOura}, token)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("connect", func(t *testing.T) {
		resp := ts.Do(t, http.MethodPatch, "/devices/"+domain.DeviceOura, map[string]any{
			"isConnected": true,
			"settings":    map[string]string{"scope": "sleep"},
		}, token)
		defer resp.Body.Close()

		testutil.AssertStatusCode(t, resp, http.StatusOK)
		var integration domain.DeviceIntegration
		testutil.AssertJSONResponse(t, resp, &integration)
		assert.True(t, integration.IsConnected)
	})

	t.Run("sync", func(t *testing.T) {
		resp := ts.Do(t, http.MethodPost, "/devices/"+domain.DeviceOura+"/sync", nil, token)
		defer resp.Body.Close()

		testutil.AssertStatusCode(t, resp, http.StatusOK)
		var result domain.DeviceSyncResult
		testutil.AssertJSONResponse(t, resp, &result)
		assert.True(t, result.Synced)
	})

	t.Run("unknown device", func(t *testing.T) {
		resp := ts.Do(t, http.MethodPatch, "/devices/"+domain.DeviceFitbit, map[string]any{"isConnected": true}, token)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("list", func(t *testing.T) {
		resp := ts.Do(t, http.MethodGet, "/devices", nil, token)
		defer resp.Body.Close()

		var integrations []domain.DeviceIntegration
		testutil.AssertJSONResponse(t, resp, &integrations)
		require.Len(t, integrations, 1)
		assert.NotNil(t, integrations[0].LastSyncAt)
	})
}

func TestHealthHandler_Fitness(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, token := testutil.NewUserBuilder().BuildWithToken(t, ts)

	resp := ts.Do(t, http.MethodGet, "/fitness/latest", nil, token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = ts.Do(t, http.MethodPost, "/fitness", map[string]any{"steps": 8500, "sleepHours": 7.5}, token)
	testutil.AssertStatusCode(t, resp, http.StatusCreated)
	resp.Body.Close()

	resp = ts.Do(t, http.MethodGet, "/fitness/latest", nil, token)
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	var latest domain.FitnessData
	testutil.AssertJSONResponse(t, resp, &latest)
	require.NotNil(t, latest.Steps)
	assert.Equal(t, 8500, *latest.Steps)

	t.Run("sleep hours out of range", func(t *testing.T) {
		resp := ts.Do(t, http.MethodPost, "/fitness", map[string]any{"sleepHours": 30}, token)
		defer resp.Body.Close()
		testutil.AssertFieldError(t, resp, "sleepHours")
	})

	t.Run("apple health sync and list", func(t *testing.T) {
		resp := ts.Do(t, http.MethodPost, "/health/apple", map[string]any{
			"dataType": "heart_rate",
			"value":    62,
			"unit":     "bpm",
		}, token)
		testutil.AssertStatusCode(t, resp, http.StatusCreated)
		resp.Body.Close()

		resp = ts.Do(t, http.MethodGet, "/health/apple", nil, token)
		defer resp.Body.Close()
		var samples []domain.AppleHealthData
		testutil.AssertJSONResponse(t, resp, &samples)
		require.Len(t, samples, 1)
		assert.Equal(t, "heart_rate", samples[0].DataType)
	})
}

func TestInsightHandler_Recommendations(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, token := testutil.NewUserBuilder().BuildWithToken(t, ts)
	_, otherToken := testutil.NewUserBuilder().BuildWithToken(t, ts)

	var created domain.Recommendation
	for i := 0; i < 3; i++ {
		resp := ts.Do(t, http.MethodPost, "/recommendations", map[string]any{
			"type":        "habit",
			"title":       "Walk after lunch",
			"description": "Ten minutes outside",
		}, token)
		testutil.AssertStatusCode(t, resp, http.StatusCreated)
		testutil.AssertJSONResponse(t, resp, &created)
		resp.Body.Close()
	}
	assert.Equal(t, domain.PriorityMedium, created.Priority)

	resp := ts.Do(t, http.MethodGet, "/recommendations?limit=2", nil, token)
	var recs []domain.Recommendation
	testutil.AssertJSONResponse(t, resp, &recs)
	resp.Body.Close()
	assert.Len(t, recs, 2)

	resp = ts.Do(t, http.MethodPatch, "/recommendations/"+created.ID.String(), map[string]any{"isRead": true}, otherToken)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = ts.Do(t, http.MethodPatch, "/recommendations/"+created.ID.String(), map[string]any{"isRead": true}, token)
	defer resp.Body.Close()
	var updated domain.Recommendation
	testutil.AssertJSONResponse(t, resp, &updated)
	assert.True(t, updated.IsRead)
}

func TestDashboardHandler(t *testing.T) {
	ts := testutil.NewTestServer(t)
	user, token := testutil.NewUserBuilder().BuildWithToken(t, ts)
	testutil.BuildMetric(t, ts.Store, user.ID, 1, 7)
	testutil.NewHabitBuilder(user.ID).Build(t, ts.Store)

	resp := ts.Do(t, http.MethodGet, "/dashboard", nil, token)
	defer resp.Body.Close()

	testutil.AssertStatusCode(t, resp, http.StatusOK)
	var dashboard struct {
		Metrics []domain.WellnessMetric `json:"metrics"`
		Habits  []domain.Habit          `json:"habits"`
	}
	testutil.AssertJSONResponse(t, resp, &dashboard)
	assert.Len(t, dashboard.Metrics, 1)
	assert.Len(t, dashboard.Habits, 1)
}
