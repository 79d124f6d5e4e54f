package users

import (
	"context"
	"strings"
	"sync"
)

// TestRepo is an in-memory users store for tests and local runs.
type TestRepo struct {
	mutex  sync.Mutex
	users  []User
	nextID int
}

func NewTestRepo() *TestRepo {
	return &TestRepo{nextID: 1}
}

func (r *TestRepo) Add(_ context.Context, user User) (*User, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return nil, ErrEmailTaken
		}
	}
	user.ID = r.nextID
	r.nextID++
	r.users = append(r.users, user)
	return &user, nil
}

func (r *TestRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			found := u
			return &found, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *TestRepo) Get(_ context.Context, id int) (*User, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for _, u := range r.users {
		if u.ID == id {
			found := u
			return &found, nil
		}
	}
	return nil, ErrUserNotFound
}
