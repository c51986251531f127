package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/reroute-fukuoka/reroute/pkg/challenges"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	plans []*challenges.Plan
	err   error
}

func (f *fakeService) Plans(ctx context.Context) ([]*challenges.Plan, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.plans, nil
}

func (f *fakeService) Plan(ctx context.Context, id string) (*challenges.Plan, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, plan := range f.plans {
		if plan.ID == id {
			return plan, nil
		}
	}
	return nil, challenges.ErrChallengeNotFound
}

func plannedService() *fakeService {
	return &fakeService{
		plans: []*challenges.Plan{
			{
				ID:               "longest-duration",
				Title:            "24 Hour Long Ride",
				StartStop:        "Stop O",
				StartTime:        "07:00",
				TotalRideMinutes: 200,
				Transfers:        2,
				Method:           "raptor",
				Legs: []challenges.Leg{
					{Sequence: 1, LineLabel: "L1", FromStop: "Stop O", ToStop: "Stop B", RideMinutes: 60},
				},
				RestStops: []challenges.RestStop{},
			},
		},
	}
}

func get(t *testing.T, service *fakeService, path string) (int, []byte) {
	t.Helper()

	app := NewApp(nil)
	if service != nil {
		app = NewApp(service)
	}

	response, err := app.Test(httptest.NewRequest("GET", path, nil))
	require.NoError(t, err)
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	require.NoError(t, err)

	return response.StatusCode, body
}

func TestHealth(t *testing.T) {
	status, body := get(t, plannedService(), "/api/v1/health")

	assert.Equal(t, 200, status)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestListChallenges(t *testing.T) {
	status, body := get(t, plannedService(), "/api/v1/challenges")
	require.Equal(t, 200, status)

	var plans []map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &plans))
	require.Len(t, plans, 1)

	assert.Equal(t, "longest-duration", plans[0]["id"])
	assert.Equal(t, float64(200), plans[0]["total_ride_minutes"])
	assert.Equal(t, "raptor", plans[0]["method"])
	assert.NotContains(t, plans[0], "legs")
	assert.NotContains(t, plans[0], "rest_stops")
}

func TestListChallengesFallback(t *testing.T) {
	for name, service := range map[string]*fakeService{
		"failing":  {err: errors.New("planner down")},
		"disabled": nil,
	} {
		t.Run(name, func(t *testing.T) {
			status, body := get(t, service, "/api/v1/challenges")
			require.Equal(t, 200, status)

			var plans []map[string]interface{}
			require.NoError(t, json.Unmarshal(body, &plans))
			require.Len(t, plans, len(challenges.Fallback()))
			assert.Equal(t, "longest-duration", plans[0]["id"])
		})
	}
}

func TestGetChallenge(t *testing.T) {
	status, body := get(t, plannedService(), "/api/v1/challenges/longest-duration")
	require.Equal(t, 200, status)

	var plan challenges.Plan
	require.NoError(t, json.Unmarshal(body, &plan))

	assert.Equal(t, "longest-duration", plan.ID)
	assert.Equal(t, 200, plan.TotalRideMinutes)
	require.Len(t, plan.Legs, 1)
	assert.Equal(t, "Stop B", plan.Legs[0].ToStop)
}

func TestGetChallengeFallsBackToCannedPlan(t *testing.T) {
	status, body := get(t, plannedService(), "/api/v1/challenges/city-loop")
	require.Equal(t, 200, status)

	var plan challenges.Plan
	require.NoError(t, json.Unmarshal(body, &plan))

	assert.Equal(t, "Fukuoka City Loop", plan.Title)
	assert.NotEmpty(t, plan.Legs)
	assert.Len(t, plan.RestStops, 1)
}

func TestGetChallengeNotFound(t *testing.T) {
	status, body := get(t, plannedService(), "/api/v1/challenges/fastest-lap")

	assert.Equal(t, 404, status)
	assert.JSONEq(t, `{"error":"Could not find Challenge matching identifier"}`, string(body))
}
