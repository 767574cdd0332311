package config

import (
	"os"
	"strconv"
	"time"
)

// Config captures process-level configuration so main stays lean.
type Config struct {
	Addr        string
	PGDSN       string
	AuthSecret  string
	TokenTTL    time.Duration
	EvidenceDir string
	RateBurst   int
	RatePerSec  int
}

// FromEnv builds Config from ARTS_* environment variables with sane defaults.
func FromEnv() Config {
	cfg := Config{
		Addr:        getenv("ARTS_ADDR", ":8080"),
		PGDSN:       os.Getenv("ARTS_PG_DSN"),
		AuthSecret:  os.Getenv("ARTS_AUTH_SECRET"),
		TokenTTL:    15 * time.Minute,
		EvidenceDir: getenv("ARTS_EVIDENCE_DIR", "data/evidence"),
		RateBurst:   envInt("ARTS_RATE_BURST", 20),
		RatePerSec:  envInt("ARTS_RATE_PER_SEC", 10),
	}
	if raw := os.Getenv("ARTS_TOKEN_TTL"); raw != "" {
		if ttl, err := time.ParseDuration(raw); err == nil && ttl > 0 {
			cfg.TokenTTL = ttl
		}
	}
	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return def
	}
	return v
}
