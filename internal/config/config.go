package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	defaultMaxWorkoutNameLength   = 100
	defaultMaxWorkoutTextBytes    = 16 * 1024
	defaultCalorieIntensity       = 6.0
	defaultSignInRateLimitPerMin  = 10
	defaultSessionTTL             = 24 * 7 * time.Hour
	defaultSessionCacheSizeBytes  = 8 * 1024 * 1024
	defaultSessionCacheTTLSeconds = 60
	defaultPrometheusMetricsPort  = "9091"
	defaultPrometheusMetricsHost  = "localhost"
	defaultTimezone               = "UTC"
	defaultPostgresPort           = "5432"
	defaultRedisPort              = "6379"
	defaultPostgresDBName         = "workoutlog"
	defaultHost                   = "localhost"
	defaultPort                   = 9000
	defaultSentryServerName       = "workoutlog-backend"
	defaultCategoryNameMaxLength  = 64
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`

	// redis (sessions, rate limiting)
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// prometheus
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	// auth
	SessionTTL             Duration `toml:"session_ttl"`
	SessionCacheSizeBytes  int      `toml:"session_cache_size_bytes"`
	SessionCacheTTLSeconds int      `toml:"session_cache_ttl_seconds"`
	SignInRateLimitPerMin  int      `toml:"signin_rate_limit_per_min"`
	AllowedOrigins         []string `toml:"allowed_origins"`

	// workouts
	Timezone                string             `toml:"timezone"`
	MaxWorkoutNameLength    int                `toml:"max_workout_name_length"`
	MaxCategoryNameLength   int                `toml:"max_category_name_length"`
	MaxWorkoutTextBytes     int64              `toml:"max_workout_text_bytes"`
	DefaultCalorieIntensity float64            `toml:"default_calorie_intensity"`
	CalorieIntensity        map[string]float64 `toml:"calorie_intensity"`
}

// Duration lets TOML carry durations as strings, e.g. "168h".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parse duration [%s]: %w", text, err)
	}
	d.Duration = parsed
	return nil
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		if t.Development == nil {
			return nil, fmt.Errorf("development config missing")
		}
		t.Development.Environment = "development"
		return t.Development, nil
	case "prod", "production":
		if t.Production == nil {
			return nil, fmt.Errorf("production config missing")
		}
		t.Production.Environment = "production"
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the TOML config file and returns the config for the given env,
// with defaults applied for everything left out.
func Load(env, path string) (*Config, error) {
	var tomlConfig Toml
	if _, err := toml.DecodeFile(path, &tomlConfig); err != nil {
		return nil, fmt.Errorf("decode config file [%s]: %w", path, err)
	}
	return resolve(&tomlConfig, env)
}

// Parse is like Load, but reads the TOML config from a string.
func Parse(env, data string) (*Config, error) {
	var tomlConfig Toml
	if _, err := toml.Decode(data, &tomlConfig); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return resolve(&tomlConfig, env)
}

func resolve(tomlConfig *Toml, env string) (*Config, error) {
	cfg, err := tomlConfig.Get(env)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s config: %w", env, err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Host == "" {
		c.Host = defaultHost
	}
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if c.PostgresPort == "" {
		c.PostgresPort = defaultPostgresPort
	}
	if c.PostgresDBName == "" {
		c.PostgresDBName = defaultPostgresDBName
	}
	if c.RedisPort == "" {
		c.RedisPort = defaultRedisPort
	}
	if c.PrometheusMetricsHost == "" {
		c.PrometheusMetricsHost = defaultPrometheusMetricsHost
	}
	if c.PrometheusMetricsPort == "" {
		c.PrometheusMetricsPort = defaultPrometheusMetricsPort
	}
	if c.SessionTTL.Duration == 0 {
		c.SessionTTL.Duration = defaultSessionTTL
	}
	if c.SessionCacheSizeBytes == 0 {
		c.SessionCacheSizeBytes = defaultSessionCacheSizeBytes
	}
	if c.SessionCacheTTLSeconds == 0 {
		c.SessionCacheTTLSeconds = defaultSessionCacheTTLSeconds
	}
	if c.SignInRateLimitPerMin == 0 {
		c.SignInRateLimitPerMin = defaultSignInRateLimitPerMin
	}
	if c.Timezone == "" {
		c.Timezone = defaultTimezone
	}
	if c.MaxWorkoutNameLength == 0 {
		c.MaxWorkoutNameLength = defaultMaxWorkoutNameLength
	}
	if c.MaxCategoryNameLength == 0 {
		c.MaxCategoryNameLength = defaultCategoryNameMaxLength
	}
	if c.MaxWorkoutTextBytes == 0 {
		c.MaxWorkoutTextBytes = defaultMaxWorkoutTextBytes
	}
	if c.DefaultCalorieIntensity == 0 {
		c.DefaultCalorieIntensity = defaultCalorieIntensity
	}
}

func (c *Config) Validate() error {
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("timezone [%s]: %w", c.Timezone, err)
	}
	if c.DefaultCalorieIntensity < 0 {
		return fmt.Errorf("default calorie intensity must not be negative")
	}
	for category, k := range c.CalorieIntensity {
		if k < 0 {
			return fmt.Errorf("calorie intensity for [%s] must not be negative", category)
		}
	}
	if c.MaxWorkoutNameLength < 0 || c.MaxCategoryNameLength < 0 || c.MaxWorkoutTextBytes < 0 {
		return fmt.Errorf("workout limits must not be negative")
	}
	return nil
}

// Location returns the time zone used to decide the ingestion date of workouts.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) SentryServerName() string {
	return defaultSentryServerName
}
