package config

import (
	"strings"
	"testing"
	"time"
)

func TestGetDSN(t *testing.T) {
	db := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "wim",
		Password: "secret",
		Name:     "wim",
		SSLMode:  "disable",
	}
	dsn := db.GetDSN()

	expected := "host=localhost port=5432 user=wim password=secret dbname=wim sslmode=disable"
	if dsn != expected {
		t.Errorf("GetDSN() = %q, want %q", dsn, expected)
	}
}

func TestGetDSNCustomValues(t *testing.T) {
	db := DatabaseConfig{
		Host:     "db.example.com",
		Port:     5433,
		User:     "admin",
		Password: "p@ss",
		Name:     "mydb",
		SSLMode:  "require",
	}
	dsn := db.GetDSN()

	if !strings.Contains(dsn, "host=db.example.com") {
		t.Errorf("DSN missing host, got: %s", dsn)
	}
	if !strings.Contains(dsn, "port=5433") {
		t.Errorf("DSN missing port, got: %s", dsn)
	}
	if !strings.Contains(dsn, "sslmode=require") {
		t.Errorf("DSN missing sslmode, got: %s", dsn)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Station.Port != 5000 {
		t.Errorf("Station.Port = %d, want 5000", cfg.Station.Port)
	}
	if cfg.Station.GenerateInterval != 6*time.Second {
		t.Errorf("Station.GenerateInterval = %v, want 6s", cfg.Station.GenerateInterval)
	}
	if cfg.Pipeline.PollInterval != 5*time.Second {
		t.Errorf("Pipeline.PollInterval = %v, want 5s", cfg.Pipeline.PollInterval)
	}
	if cfg.Pipeline.ProbeInterval != time.Second {
		t.Errorf("Pipeline.ProbeInterval = %v, want 1s", cfg.Pipeline.ProbeInterval)
	}
	if cfg.Pipeline.MaxRetries != 10 {
		t.Errorf("Pipeline.MaxRetries = %d, want 10", cfg.Pipeline.MaxRetries)
	}
	if cfg.Pipeline.RetryDelay != 5*time.Second {
		t.Errorf("Pipeline.RetryDelay = %v, want 5s", cfg.Pipeline.RetryDelay)
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("Database.Port = %d, want 5432", cfg.Database.Port)
	}
	if cfg.Redis.URL != "" {
		t.Errorf("Redis.URL = %q, want empty", cfg.Redis.URL)
	}
	if cfg.Redis.LiveChannel != "wim:live" {
		t.Errorf("Redis.LiveChannel = %q, want %q", cfg.Redis.LiveChannel, "wim:live")
	}
	if cfg.CORS.AllowedOrigins != "*" {
		t.Errorf("CORS.AllowedOrigins = %q, want %q", cfg.CORS.AllowedOrigins, "*")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("STATION_PORT", "5050")
	t.Setenv("DATABASE_HOST", "db.prod")
	t.Setenv("PIPELINE_MAXRETRIES", "3")
	t.Setenv("PIPELINE_POLLINTERVAL", "250ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Station.Port != 5050 {
		t.Errorf("Station.Port = %d, want 5050", cfg.Station.Port)
	}
	if cfg.Database.Host != "db.prod" {
		t.Errorf("Database.Host = %q, want %q", cfg.Database.Host, "db.prod")
	}
	if cfg.Pipeline.MaxRetries != 3 {
		t.Errorf("Pipeline.MaxRetries = %d, want 3", cfg.Pipeline.MaxRetries)
	}
	if cfg.Pipeline.PollInterval != 250*time.Millisecond {
		t.Errorf("Pipeline.PollInterval = %v, want 250ms", cfg.Pipeline.PollInterval)
	}
}

func TestLoadInvalidRetryBudget(t *testing.T) {
	t.Setenv("PIPELINE_MAXRETRIES", "0")

	if _, err := Load(); err == nil {
		t.Error("expected error for zero retry budget")
	}
}
