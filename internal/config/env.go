package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Env struct {
	AppAddr  string
	GinMode  string
	LogLevel string

	VehicleAPIURL   string
	AgencyAPIURL    string
	OrderAPIURL     string
	AnalyticsAPIURL string
	ForecastAPIURL  string

	UpstreamToken     string
	UpstreamJWTSecret string
	UpstreamTimeout   time.Duration

	MySQLDSN string

	CORSAllowedOrigins []string

	// Placeholders carried over from the dashboard; see DESIGN.md.
	AssumedAchievementRate float64
	DaysToSellFallback     int
}

// LoadEnv reads .env when present, then the process environment.
func LoadEnv() Env {
	_ = godotenv.Load()

	appAddr := strings.TrimSpace(os.Getenv("APP_ADDR"))
	if appAddr == "" {
		appAddr = ":8080"
	}

	return Env{
		AppAddr:  appAddr,
		GinMode:  strings.TrimSpace(os.Getenv("GIN_MODE")),
		LogLevel: strings.TrimSpace(os.Getenv("LOG_LEVEL")),

		VehicleAPIURL:   trimURL(os.Getenv("VEHICLE_API_URL")),
		AgencyAPIURL:    trimURL(os.Getenv("AGENCY_API_URL")),
		OrderAPIURL:     trimURL(os.Getenv("ORDER_API_URL")),
		AnalyticsAPIURL: trimURL(os.Getenv("ANALYTICS_API_URL")),
		ForecastAPIURL:  trimURL(os.Getenv("FORECAST_API_URL")),

		UpstreamToken:     strings.TrimSpace(os.Getenv("UPSTREAM_TOKEN")),
		UpstreamJWTSecret: strings.TrimSpace(os.Getenv("UPSTREAM_JWT_SECRET")),
		UpstreamTimeout:   durationOr(os.Getenv("UPSTREAM_TIMEOUT"), 15*time.Second),

		MySQLDSN: strings.TrimSpace(os.Getenv("MYSQL_DSN")),

		CORSAllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),

		AssumedAchievementRate: floatOr(os.Getenv("ASSUMED_ACHIEVEMENT_RATE"), 0.85),
		DaysToSellFallback:     intOr(os.Getenv("DAYS_TO_SELL_FALLBACK"), 30),
	}
}

// Debug reports whether gin runs in debug mode (the gin default).
func (e Env) Debug() bool {
	return e.GinMode == "" || e.GinMode == "debug"
}

func trimURL(s string) string {
	return strings.TrimRight(strings.TrimSpace(s), "/")
}

func splitList(raw string) []string {
	out := []string{}
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func durationOr(raw string, fallback time.Duration) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

func floatOr(raw string, fallback float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func intOr(raw string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
