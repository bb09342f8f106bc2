package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds every configurable value for the pipeline and the
// simulated station it polls.
type Config struct {
	Station  StationConfig
	Database DatabaseConfig
	Pipeline PipelineConfig
	Redis    RedisConfig
	CORS     CORSConfig
	LogLevel string // debug|info|warn|error
}

type StationConfig struct {
	Port             int
	CounterFile      string        // decimal identity counter, created on demand
	GenerateInterval time.Duration // cadence of snapshot regeneration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type PipelineConfig struct {
	PollInterval  time.Duration // sleep between data polls
	ProbeInterval time.Duration // health-wait probe cadence
	RetryDelay    time.Duration // backoff after a processing fault
	MaxRetries    int           // consecutive-failure budget before giving up
	HTTPTimeout   time.Duration // per-request deadline on station calls
}

type RedisConfig struct {
	URL         string // empty disables the live publisher
	LiveChannel string
}

type CORSConfig struct {
	AllowedOrigins string
}

func (d DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// Load reads configuration from (in decreasing priority) environment
// variables (e.g. STATION_PORT, PIPELINE_MAXRETRIES) and an optional
// yaml file at ./configs/config.yaml, falling back to the defaults
// below. It returns a fully populated *Config or an error.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("station.port", 5000)
	v.SetDefault("station.counterfile", "./data/measurement_id.cfg")
	v.SetDefault("station.generateinterval", "6s")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "wim")
	v.SetDefault("database.password", "wim_dev_password")
	v.SetDefault("database.name", "wim")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("pipeline.pollinterval", "5s")
	v.SetDefault("pipeline.probeinterval", "1s")
	v.SetDefault("pipeline.retrydelay", "5s")
	v.SetDefault("pipeline.maxretries", 10)
	v.SetDefault("pipeline.httptimeout", "10s")

	v.SetDefault("redis.url", "")
	v.SetDefault("redis.livechannel", "wim:live")

	v.SetDefault("cors.allowedorigins", "*")

	v.SetDefault("loglevel", "info")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Optional yaml file, useful for local dev or a k8s ConfigMap.
	v.SetConfigName("config")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("cannot decode config: %w", err)
	}

	if cfg.Station.Port <= 0 {
		return nil, fmt.Errorf("station port must be positive, got %d", cfg.Station.Port)
	}
	if cfg.Pipeline.MaxRetries <= 0 {
		return nil, fmt.Errorf("retry budget must be positive, got %d", cfg.Pipeline.MaxRetries)
	}

	return &cfg, nil
}
