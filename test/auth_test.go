//go:build integration_test || all_tests

package test

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/2beens/workoutlog/internal/auth"
	"github.com/2beens/workoutlog/internal/users"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) newRedisClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: net.JoinHostPort("localhost", s.redisPort),
	})
}

func (s *IntegrationTestSuite) TestAuth_SignInSignOut() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	status, body := s.do(ctx, "POST", "/user/signup", "", users.SignUpRequest{
		Name:     "Sign Out Tester",
		Email:    "signout.tester@example.com",
		Password: "test-password",
	})
	require.Equal(t, http.StatusCreated, status, string(body))

	status, _ = s.do(ctx, "POST", "/user/signin", "", users.SignInRequest{
		Email:    "signout.tester@example.com",
		Password: "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = s.do(ctx, "POST", "/user/signin", "", users.SignInRequest{
		Email:    "signout.tester@example.com",
		Password: "test-password",
	})
	require.Equal(t, http.StatusOK, status, string(body))
	assert.NotContains(t, string(body), "test-password")

	session := s.signUp(ctx)
	status, _ = s.do(ctx, "GET", "/user/dashboard", session.Token, nil)
	assert.Equal(t, http.StatusOK, status)

	rdb := s.newRedisClient()
	defer rdb.Close()
	isMember, err := rdb.SIsMember(ctx, "workoutlog-sessions", session.Token).Result()
	require.NoError(t, err)
	assert.True(t, isMember)

	status, _ = s.do(ctx, "POST", "/user/signout", session.Token, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = s.do(ctx, "GET", "/user/dashboard", session.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	isMember, err = rdb.SIsMember(ctx, "workoutlog-sessions", session.Token).Result()
	require.NoError(t, err)
	assert.False(t, isMember)
}

func (s *IntegrationTestSuite) TestAuth_ScanAndClean() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := s.newRedisClient()
	defer rdb.Close()

	authService := auth.NewAuthService(time.Hour, rdb)
	token, err := authService.Login(ctx, 12345, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	checker := auth.NewSessionChecker(time.Hour, rdb, 1024*1024, 1)
	_, err = checker.OwnerForToken(ctx, token)
	assert.ErrorIs(t, err, auth.ErrSessionExpired)

	removed := authService.ScanAndClean(ctx, time.Now())
	assert.GreaterOrEqual(t, removed, 1)

	isMember, err := rdb.SIsMember(ctx, "workoutlog-sessions", token).Result()
	require.NoError(t, err)
	assert.False(t, isMember)
}
