package main

import (
	"image"
	"testing"
	"time"
)

func TestParseRegion(t *testing.T) {
	r, err := parseRegion("40,220,1040,420")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r != image.Rect(40, 220, 1040, 420) {
		t.Fatalf("got %v", r)
	}
	for _, bad := range []string{"", "1,2,3", "a,b,c,d", "10,10,10,10"} {
		if _, err := parseRegion(bad); err == nil {
			t.Fatalf("%q: expected error", bad)
		}
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.PollInterval != 5*time.Second {
		t.Fatalf("poll interval default: %v", cfg.PollInterval)
	}
	if cfg.StaleTimeout != 45*time.Minute {
		t.Fatalf("stale timeout default: %v", cfg.StaleTimeout)
	}
	if cfg.MaxFailures != 12 {
		t.Fatalf("max failures default: %d", cfg.MaxFailures)
	}
	if cfg.DiscrepancyThreshold != 10 {
		t.Fatalf("discrepancy threshold default: %v", cfg.DiscrepancyThreshold)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("POLL_INTERVAL", "2s")
	t.Setenv("MAX_FAILURES", "3")
	t.Setenv("BOOST_REGION", "0,0,100,50")
	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.PollInterval != 2*time.Second || cfg.MaxFailures != 3 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.BoostRegion != image.Rect(0, 0, 100, 50) {
		t.Fatalf("boost region: %v", cfg.BoostRegion)
	}
}
