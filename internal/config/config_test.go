package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigToml = `
[development]
host = "localhost"
port = 9001
log_level = "debug"
postgres_host = "localhost"
redis_host = "localhost"
session_ttl = "2h"
allowed_origins = ["http://localhost:3000"]
timezone = "Europe/Belgrade"
default_calorie_intensity = 5.5

[development.calorie_intensity]
legs = 8.0
cardio = 10.0

[production]
host = "0.0.0.0"
port = 9000
`

func TestParse_Development(t *testing.T) {
	cfg, err := Parse("dev", testConfigToml)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 9001, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL.Duration)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, 5.5, cfg.DefaultCalorieIntensity)
	assert.Equal(t, map[string]float64{"legs": 8, "cardio": 10}, cfg.CalorieIntensity)
	assert.Equal(t, "Europe/Belgrade", cfg.Location().String())

	// defaults
	assert.Equal(t, "5432", cfg.PostgresPort)
	assert.Equal(t, "workoutlog", cfg.PostgresDBName)
	assert.Equal(t, "6379", cfg.RedisPort)
	assert.Equal(t, 100, cfg.MaxWorkoutNameLength)
	assert.Equal(t, 64, cfg.MaxCategoryNameLength)
	assert.Equal(t, int64(16*1024), cfg.MaxWorkoutTextBytes)
	assert.Equal(t, 10, cfg.SignInRateLimitPerMin)
}

func TestParse_ProductionDefaults(t *testing.T) {
	cfg, err := Parse("production", testConfigToml)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, time.UTC, cfg.Location())
	assert.Equal(t, 24*7*time.Hour, cfg.SessionTTL.Duration)
	assert.Equal(t, 6.0, cfg.DefaultCalorieIntensity)
	assert.Empty(t, cfg.CalorieIntensity)
	assert.Equal(t, "workoutlog-backend", cfg.SentryServerName())
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse("staging", testConfigToml)
	assert.ErrorContains(t, err, "unknown env: staging")

	_, err = Parse("prod", "[development]\nport = 9000\n")
	assert.ErrorContains(t, err, "production config missing")

	_, err = Parse("dev", "[development]\ntimezone = \"Mars/Olympus\"\n")
	assert.ErrorContains(t, err, "timezone [Mars/Olympus]")

	_, err = Parse("dev", "[development]\nsession_ttl = \"forever\"\n")
	assert.ErrorContains(t, err, "parse duration [forever]")

	_, err = Parse("dev", "[development.calorie_intensity]\nlegs = -1.0\n")
	assert.ErrorContains(t, err, "calorie intensity for [legs] must not be negative")

	_, err = Parse("dev", "[development]\nmax_workout_name_length = -3\n")
	assert.ErrorContains(t, err, "workout limits must not be negative")

	_, err = Parse("dev", "this is not toml")
	assert.ErrorContains(t, err, "decode config")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(testConfigToml), 0o600))

	cfg, err := Load("development", path)
	require.NoError(t, err)
	assert.Equal(t, 9001, cfg.Port)

	_, err = Load("development", filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorContains(t, err, "decode config file")
}

func TestLoad_RepoConfigFile(t *testing.T) {
	for _, env := range []string{"dev", "prod"} {
		cfg, err := Load(env, "../../config.toml")
		require.NoError(t, err, env)
		assert.Equal(t, 8.0, cfg.CalorieIntensity["legs"], env)
		assert.Equal(t, 168*time.Hour, cfg.SessionTTL.Duration, env)
	}
}
