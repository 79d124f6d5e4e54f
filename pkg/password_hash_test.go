package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	passwordHash, err := HashPassword("squats-every-day")
	require.NoError(t, err)
	assert.NotEmpty(t, passwordHash)
	assert.NotEqual(t, "squats-every-day", passwordHash)
	assert.True(t, CheckPasswordHash("squats-every-day", passwordHash))
	assert.False(t, CheckPasswordHash("skip-leg-day", passwordHash))
	assert.False(t, CheckPasswordHash("squats-every-day", "not-a-hash"))
}
