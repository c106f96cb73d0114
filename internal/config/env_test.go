package config

import (
	"testing"
	"time"
)

func TestLoadEnvDefaults(t *testing.T) {
	for _, k := range []string{"APP_ADDR", "UPSTREAM_TIMEOUT", "ASSUMED_ACHIEVEMENT_RATE", "DAYS_TO_SELL_FALLBACK", "CORS_ALLOWED_ORIGINS", "VEHICLE_API_URL"} {
		t.Setenv(k, "")
	}
	env := LoadEnv()
	if env.AppAddr != ":8080" {
		t.Fatalf("AppAddr = %q", env.AppAddr)
	}
	if env.UpstreamTimeout != 15*time.Second {
		t.Fatalf("UpstreamTimeout = %v", env.UpstreamTimeout)
	}
	if env.AssumedAchievementRate != 0.85 || env.DaysToSellFallback != 30 {
		t.Fatalf("placeholders = %v / %d", env.AssumedAchievementRate, env.DaysToSellFallback)
	}
	if len(env.CORSAllowedOrigins) != 0 {
		t.Fatalf("expected no origins, got %v", env.CORSAllowedOrigins)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("VEHICLE_API_URL", " http://vehicles.local/api/ ")
	t.Setenv("UPSTREAM_TIMEOUT", "5")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("DAYS_TO_SELL_FALLBACK", "45")

	env := LoadEnv()
	if env.VehicleAPIURL != "http://vehicles.local/api" {
		t.Fatalf("VehicleAPIURL = %q", env.VehicleAPIURL)
	}
	if env.UpstreamTimeout != 5*time.Second {
		t.Fatalf("UpstreamTimeout = %v", env.UpstreamTimeout)
	}
	if len(env.CORSAllowedOrigins) != 2 || env.CORSAllowedOrigins[1] != "http://b.test" {
		t.Fatalf("origins = %v", env.CORSAllowedOrigins)
	}
	if env.DaysToSellFallback != 45 {
		t.Fatalf("DaysToSellFallback = %d", env.DaysToSellFallback)
	}
}
