package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port        int
	APIKey      string
	EndpointURL string
	Scenario    string
	GeocodeURL  string
	RouteURL    string
	NERURL      string
	NatsURL     string
	NatsToken   string
	LogLevel    string
}

func Load() Config {
	return Config{
		Port:        envInt("DIALOG_PORT", 8650),
		APIKey:      envStr("DIALOG_API_KEY", ""),
		EndpointURL: envStr("DIALOG_ENDPOINT", ""),
		Scenario:    envStr("DIALOG_SCENARIO", "meal_planner"),
		GeocodeURL:  envStr("GEOCODE_URL", "https://nominatim.openstreetmap.org"),
		RouteURL:    envStr("ROUTE_URL", "https://router.project-osrm.org"),
		NERURL:      envStr("NER_URL", ""),
		NatsURL:     envStr("NATS_URL", ""),
		NatsToken:   envStr("NATS_TOKEN", ""),
		LogLevel:    envStr("LOG_LEVEL", "info"),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
