package main

import (
	"fmt"
	"image"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config carries every runtime knob. Everything comes from env vars with
// defaults; a local .env is auto-loaded by main before this runs.
type Config struct {
	Env string

	FramesDir   string
	BoostRegion image.Rectangle
	OddsRegion  image.Rectangle

	PollInterval   time.Duration
	HealthInterval time.Duration
	StaleTimeout   time.Duration
	MaxFailures    int

	DiscrepancyThreshold float64

	WebhookURL  string
	DatabaseDSN string
	RedisAddr   string

	JWTSecret string
	HTTPAddr  string
}

func loadConfig() (Config, error) {
	cfg := Config{
		Env:                  getEnv("ENV", "local"),
		FramesDir:            getEnv("FRAMES_DIR", "frames"),
		PollInterval:         getEnvDuration("POLL_INTERVAL", 5*time.Second),
		HealthInterval:       getEnvDuration("HEALTH_INTERVAL", 30*time.Second),
		StaleTimeout:         getEnvDuration("STALE_TIMEOUT", 45*time.Minute),
		MaxFailures:          getEnvInt("MAX_FAILURES", 12),
		DiscrepancyThreshold: getEnvFloat("DISCREPANCY_THRESHOLD", 10),
		WebhookURL:           getEnv("ALERT_WEBHOOK_URL", ""),
		DatabaseDSN:          getEnv("DB_DSN", ""),
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		JWTSecret:            getEnv("JWT_SECRET", "dev-insecure-secret-change"),
		HTTPAddr:             ":" + getEnv("HTTP_PORT", "8081"),
	}
	var err error
	cfg.BoostRegion, err = parseRegion(getEnv("BOOST_REGION", "40,220,1040,420"))
	if err != nil {
		return Config{}, fmt.Errorf("BOOST_REGION: %w", err)
	}
	cfg.OddsRegion, err = parseRegion(getEnv("ODDS_REGION", "40,430,1040,560"))
	if err != nil {
		return Config{}, fmt.Errorf("ODDS_REGION: %w", err)
	}
	return cfg, nil
}

// parseRegion reads "x0,y0,x1,y1" into a rectangle.
func parseRegion(s string) (image.Rectangle, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return image.Rectangle{}, fmt.Errorf("want x0,y0,x1,y1 got %q", s)
	}
	vals := make([]int, 4)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return image.Rectangle{}, fmt.Errorf("coordinate %q: %w", p, err)
		}
		vals[i] = n
	}
	r := image.Rect(vals[0], vals[1], vals[2], vals[3])
	if r.Empty() {
		return image.Rectangle{}, fmt.Errorf("empty region %q", s)
	}
	return r, nil
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
