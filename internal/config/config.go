package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultPort          = "8080"
	defaultJWTTTL        = "24h"
	defaultSlotLockTTL   = "5m"
	defaultSweepInterval = "1m"
	defaultJWTSecret     = "change-me-jwt-secret"
	defaultEsewaStatus   = "https://rc.esewa.com.np/api/epay/transaction/status/"
	defaultKhaltiLookup  = "https://dev.khalti.com/api/v2/epayment/lookup/"
)

type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string

	JWTSecret string
	JWTTTL    time.Duration

	// SlotLockTTL bounds how long a checkout holds its slots; SweepInterval
	// is how often expired holds are reclaimed. Independent knobs.
	SlotLockTTL   time.Duration
	SweepInterval time.Duration

	EsewaStatusURL   string
	EsewaProductCode string
	KhaltiLookupURL  string
	KhaltiSecretKey  string
}

func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:           strings.ToLower(strings.TrimSpace(getEnv("APP_ENV", "dev"))),
		Port:             getEnv("PORT", defaultPort),
		DatabaseURL:      strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:        strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret)),
		EsewaStatusURL:   getEnv("ESEWA_STATUS_URL", defaultEsewaStatus),
		EsewaProductCode: os.Getenv("ESEWA_PRODUCT_CODE"),
		KhaltiLookupURL:  getEnv("KHALTI_LOOKUP_URL", defaultKhaltiLookup),
		KhaltiSecretKey:  os.Getenv("KHALTI_SECRET_KEY"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	var err error
	if cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL); err != nil {
		return nil, err
	}
	if cfg.SlotLockTTL, err = parseDurationEnv("SLOT_LOCK_TTL", defaultSlotLockTTL); err != nil {
		return nil, err
	}
	if cfg.SweepInterval, err = parseDurationEnv("SLOT_SWEEP_INTERVAL", defaultSweepInterval); err != nil {
		return nil, err
	}

	if cfg.SlotLockTTL <= 0 {
		return nil, fmt.Errorf("SLOT_LOCK_TTL must be > 0")
	}
	if cfg.SweepInterval <= 0 {
		return nil, fmt.Errorf("SLOT_SWEEP_INTERVAL must be > 0")
	}
	if isProdLike(cfg.AppEnv) && cfg.JWTSecret == defaultJWTSecret {
		return nil, fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
	}

	return cfg, nil
}

func isProdLike(env string) bool {
	return env == "prod" || env == "production" || env == "release"
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
