//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/2beens/workoutlog/internal/users"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
)

// do sends a request to the running server, payload is sent as JSON when set
func (s *IntegrationTestSuite) do(ctx context.Context, method, path, token string, payload any) (int, []byte) {
	t := s.T()

	var body io.Reader
	if payload != nil {
		payloadBytes, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(payloadBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, fmt.Sprintf("%s%s", serverEndpoint, path), body)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, respBytes
}

func (s *IntegrationTestSuite) signUp(ctx context.Context) users.SessionResponse {
	t := s.T()
	status, body := s.do(ctx, "POST", "/user/signup", "", users.SignUpRequest{
		Name:     gofakeit.Name(),
		Email:    gofakeit.UUID() + "@example.com",
		Password: "test-password",
	})
	require.Equal(t, http.StatusCreated, status, string(body))

	var session users.SessionResponse
	require.NoError(t, json.Unmarshal(body, &session))
	require.NotEmpty(t, session.Token)
	return session
}
