//go:build integration_test || all_tests

package test

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/2beens/workoutlog/internal/workouts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const legsAndCardio = `#Legs
-Back Squat
-5 setsX15 reps
-30 kg
-10 min

#Cardio
-Rowing
-1 set x 1 rep
-0 kg
-20 min
-250 kcal`

func (s *IntegrationTestSuite) TestWorkouts_AddAndRead() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	session := s.signUp(ctx)

	status, body := s.do(ctx, "POST", "/user/workout", session.Token, workouts.AddWorkoutRequest{WorkoutString: legsAndCardio})
	require.Equal(t, http.StatusCreated, status, string(body))

	var added struct {
		Workouts []struct {
			ID             int     `json:"id"`
			Name           string  `json:"workoutName"`
			CaloriesBurned float64 `json:"caloriesBurned"`
			Date           string  `json:"date"`
		} `json:"workouts"`
	}
	require.NoError(t, json.Unmarshal(body, &added))
	require.Len(t, added.Workouts, 2)
	assert.Equal(t, "Back Squat", added.Workouts[0].Name)
	// 8 * 10 min * (1 + 30/100)
	assert.InDelta(t, 104, added.Workouts[0].CaloriesBurned, 1e-9)
	assert.InDelta(t, 250, added.Workouts[1].CaloriesBurned, 1e-9)

	var storedCount int
	require.NoError(t, s.DB.QueryRowContext(ctx,
		`SELECT count(*) FROM workout WHERE owner_id = $1`, session.User.ID,
	).Scan(&storedCount))
	assert.Equal(t, 2, storedCount)

	today := added.Workouts[0].Date
	status, body = s.do(ctx, "GET", "/user/workout?date="+today, session.Token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `"workoutName":"Rowing"`)

	status, body = s.do(ctx, "GET", "/user/dashboard?date="+today, session.Token, nil)
	require.Equal(t, http.StatusOK, status)
	var snapshot workouts.DashboardSnapshot
	require.NoError(t, json.Unmarshal(body, &snapshot))
	assert.Equal(t, today, snapshot.ReferenceDate)
	assert.Equal(t, 2, snapshot.TotalWorkoutsToday)
	assert.InDelta(t, 354, snapshot.TotalCaloriesToday, 1e-9)
	assert.Len(t, snapshot.WeeklySeries, 7)
	assert.True(t, snapshot.PercentChangeVsPreviousPeriod.TotalCalories.NoPriorData)
}

func (s *IntegrationTestSuite) TestWorkouts_RejectionsStoreNothing() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	session := s.signUp(ctx)
	status, body := s.do(ctx, "POST", "/user/workout", session.Token, workouts.AddWorkoutRequest{WorkoutString: legsAndCardio})
	require.Equal(t, http.StatusCreated, status, string(body))

	cases := map[string]struct {
		raw            string
		expectedStatus int
		expectedKind   string
	}{
		"bad weight": {
			raw:            "#Arms\n-Curl\n-3 sets x 10 reps\n-ten kg\n-5 min",
			expectedStatus: http.StatusBadRequest,
			expectedKind:   "parse",
		},
		"missing duration": {
			raw:            "#Arms\n-Curl\n-3 sets x 10 reps\n-10 kg",
			expectedStatus: http.StatusBadRequest,
			expectedKind:   "parse",
		},
		"name already used": {
			raw:            "#Arms\n-Curl\n-3 sets x 10 reps\n-10 kg\n-5 min\n#Legs\n-Back Squat\n-1 set x 1 rep\n-0 kg\n-1 min",
			expectedStatus: http.StatusConflict,
			expectedKind:   "conflict",
		},
	}

	for name, tc := range cases {
		s.Run(name, func() {
			status, body := s.do(ctx, "POST", "/user/workout", session.Token, workouts.AddWorkoutRequest{WorkoutString: tc.raw})
			require.Equal(t, tc.expectedStatus, status, string(body))

			var errResp workouts.ErrorResponse
			require.NoError(t, json.Unmarshal(body, &errResp))
			assert.Equal(t, tc.expectedKind, errResp.Kind)
		})
	}

	// the Curl from the conflicting request was rolled back
	var storedCount int
	require.NoError(t, s.DB.QueryRowContext(ctx,
		`SELECT count(*) FROM workout WHERE owner_id = $1`, session.User.ID,
	).Scan(&storedCount))
	assert.Equal(t, 2, storedCount)
}

func (s *IntegrationTestSuite) TestWorkouts_NamesAreScopedToOwner() {
	t := s.T()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	first := s.signUp(ctx)
	second := s.signUp(ctx)

	status, body := s.do(ctx, "POST", "/user/workout", first.Token, workouts.AddWorkoutRequest{WorkoutString: legsAndCardio})
	require.Equal(t, http.StatusCreated, status, string(body))
	status, body = s.do(ctx, "POST", "/user/workout", second.Token, workouts.AddWorkoutRequest{WorkoutString: legsAndCardio})
	require.Equal(t, http.StatusCreated, status, string(body))

	// each user only sees their own dashboard
	status, body = s.do(ctx, "GET", "/user/dashboard", second.Token, nil)
	require.Equal(t, http.StatusOK, status)
	var snapshot workouts.DashboardSnapshot
	require.NoError(t, json.Unmarshal(body, &snapshot))
	assert.Equal(t, 2, snapshot.TotalWorkoutsThisWeek)
}
