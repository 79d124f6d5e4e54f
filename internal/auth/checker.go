package auth

import (
	"context"
	"sync"
)

var (
	_ Checker = (*SessionChecker)(nil)
	_ Checker = (*TestChecker)(nil)
)

type Checker interface {
	OwnerForToken(ctx context.Context, token string) (int, error)
	Forget(token string)
}

// TestChecker is an in-memory Checker for tests and local runs.
type TestChecker struct {
	mutex    sync.Mutex
	sessions map[string]int
}

func NewTestChecker() *TestChecker {
	return &TestChecker{
		sessions: map[string]int{},
	}
}

func (c *TestChecker) Add(token string, owner int) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.sessions[token] = owner
}

func (c *TestChecker) OwnerForToken(_ context.Context, token string) (int, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	owner, ok := c.sessions[token]
	if !ok {
		return 0, ErrSessionNotFound
	}
	return owner, nil
}

func (c *TestChecker) Forget(token string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	delete(c.sessions, token)
}
