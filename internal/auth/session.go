package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)

// Session is what is stored in redis for a token: "<owner>:<created at unix>".
type Session struct {
	Owner     int
	CreatedAt time.Time
}

func (s Session) String() string {
	return fmt.Sprintf("%d:%d", s.Owner, s.CreatedAt.Unix())
}

func (s Session) Expired(ttl time.Duration, now time.Time) bool {
	return now.Sub(s.CreatedAt) > ttl
}

func ParseSession(value string) (Session, error) {
	ownerStr, createdAtStr, found := strings.Cut(value, ":")
	if !found {
		return Session{}, fmt.Errorf("malformed session value [%s]", value)
	}
	owner, err := strconv.Atoi(ownerStr)
	if err != nil {
		return Session{}, fmt.Errorf("session owner [%s]: %w", ownerStr, err)
	}
	createdAtUnix, err := strconv.ParseInt(createdAtStr, 10, 64)
	if err != nil {
		return Session{}, fmt.Errorf("session created at [%s]: %w", createdAtStr, err)
	}
	return Session{
		Owner:     owner,
		CreatedAt: time.Unix(createdAtUnix, 0),
	}, nil
}
