package config

import (
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Check defaults
	if cfg.Port != "8080" {
		t.Errorf("Expected Port to be 8080, got %s", cfg.Port)
	}

	if cfg.Env != "development" {
		t.Errorf("Expected Env to be development, got %s", cfg.Env)
	}

	if cfg.Session.Backend != StoreMemory {
		t.Errorf("Expected memory session store, got %s", cfg.Session.Backend)
	}

	if cfg.Session.TTL != 24*time.Hour {
		t.Errorf("Expected SESSION_TTL 24h, got %v", cfg.Session.TTL)
	}

	if cfg.Simulation.SamplePaths != 10 {
		t.Errorf("Expected 10 sample paths, got %d", cfg.Simulation.SamplePaths)
	}
}

func TestLoadWithCustomValues(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ENV", "production")
	t.Setenv("SIM_WORKERS", "8")
	t.Setenv("SESSION_MAX_ENTRIES", "50")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "9000" {
		t.Errorf("Expected Port to be 9000, got %s", cfg.Port)
	}

	if cfg.Env != "production" {
		t.Errorf("Expected Env to be production, got %s", cfg.Env)
	}

	if cfg.Simulation.Workers != 8 {
		t.Errorf("Expected 8 workers, got %d", cfg.Simulation.Workers)
	}

	if cfg.Session.MaxEntries != 50 {
		t.Errorf("Expected SESSION_MAX_ENTRIES 50, got %d", cfg.Session.MaxEntries)
	}

	if cfg.RateLimit.RPS != 2.5 {
		t.Errorf("Expected RATE_LIMIT_RPS 2.5, got %v", cfg.RateLimit.RPS)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("Expected LogLevel to be debug, got %s", cfg.LogLevel)
	}
}

func TestValidatePostgresStoreRequiresDatabaseURL(t *testing.T) {
	t.Setenv("SESSION_STORE", "postgres")
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	if err == nil {
		t.Error("Expected error when DATABASE_URL is missing, got nil")
	}
}

func TestValidateRedisStoreRequiresRedis(t *testing.T) {
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("REDIS_ENABLED", "false")

	_, err := Load()
	if err == nil {
		t.Error("Expected error when redis store selected without REDIS_ENABLED, got nil")
	}
}

func TestValidateUnknownStore(t *testing.T) {
	t.Setenv("SESSION_STORE", "etcd")

	_, err := Load()
	if err == nil {
		t.Error("Expected error for unknown SESSION_STORE, got nil")
	}
}

func TestValidateInvalidEnv(t *testing.T) {
	t.Setenv("ENV", "invalid")

	_, err := Load()
	if err == nil {
		t.Error("Expected error when ENV is invalid, got nil")
	}
}

func TestGetEnvAsDuration(t *testing.T) {
	t.Setenv("TEST_DURATION", "2h")

	duration := getEnvAsDuration("TEST_DURATION", "1h")
	expected := 2 * time.Hour

	if duration != expected {
		t.Errorf("Expected duration to be %v, got %v", expected, duration)
	}

	t.Setenv("TEST_DURATION", "garbage")
	if d := getEnvAsDuration("TEST_DURATION", "1h"); d != time.Hour {
		t.Errorf("Expected fallback 1h, got %v", d)
	}
}

func TestGetEnvAsInt(t *testing.T) {
	t.Setenv("TEST_INT", "100")

	value := getEnvAsInt("TEST_INT", 50)
	if value != 100 {
		t.Errorf("Expected value to be 100, got %d", value)
	}
}

func TestGetEnvAsFloat(t *testing.T) {
	t.Setenv("TEST_FLOAT", "0.25")

	if value := getEnvAsFloat("TEST_FLOAT", 1); value != 0.25 {
		t.Errorf("Expected value to be 0.25, got %v", value)
	}
}

func TestGetEnvAsBool(t *testing.T) {
	t.Setenv("TEST_BOOL", "true")

	value := getEnvAsBool("TEST_BOOL", false)
	if value != true {
		t.Errorf("Expected value to be true, got %v", value)
	}
}
