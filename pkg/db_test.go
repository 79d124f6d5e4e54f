package pkg

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolationOf(t *testing.T) {
	uniqueErr := fmt.Errorf("insert workout: %w", &pgconn.PgError{
		Code:           "23505",
		ConstraintName: "workout_owner_name_key",
	})
	fkErr := &pgconn.PgError{Code: "23503", ConstraintName: "workout_owner_id_fkey"}

	assert.True(t, IsUniqueViolationOf(uniqueErr, "workout_owner_name_key"))
	assert.False(t, IsUniqueViolationOf(uniqueErr, "app_user_email_key"))
	assert.False(t, IsUniqueViolationOf(fkErr, "workout_owner_id_fkey"))
	assert.False(t, IsUniqueViolationOf(errors.New("boom"), "workout_owner_name_key"))
	assert.False(t, IsUniqueViolationOf(nil, "workout_owner_name_key"))
}
