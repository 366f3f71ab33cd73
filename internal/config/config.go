package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig
	REST      RESTConfig
	Auth      AuthConfig
	Logging   LoggingConfig
	Websocket WebsocketConfig
	Booking   BookingConfig
}

type ServerConfig struct {
	Port string
}

type RESTConfig struct {
	BaseURL string
	Timeout time.Duration
}

// AuthConfig selects where the access/refresh pair lives between runs.
type AuthConfig struct {
	TokenStore string
	TokenFile  string
	RedisURL   string
	RedisKey   string
	Role       string
}

type LoggingConfig struct {
	Directory string
	Level     string
	Format    string
}

type WebsocketConfig struct {
	SendBuffer int
}

// BookingConfig bounds how long an untouched wizard stays open on the companion server.
type BookingConfig struct {
	WizardIdleTTL time.Duration
}

func Load() (*Config, error) {
	timeout, err := durationEnv("API_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	buffer, err := intEnv("WS_SEND_BUFFER", 16)
	if err != nil {
		return nil, err
	}
	wizardTTL, err := durationEnv("WIZARD_IDLE_TTL", 30*time.Minute)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{Port: getEnv("PORT", "8090")},
		REST: RESTConfig{
			BaseURL: getEnv("API_BASE_URL", "http://localhost:8000"),
			Timeout: timeout,
		},
		Auth: AuthConfig{
			TokenStore: strings.ToLower(getEnv("TOKEN_STORE", "file")),
			TokenFile:  getEnv("TOKEN_FILE", defaultTokenFile()),
			RedisURL:   getEnv("REDIS_URL", "redis://localhost:6379/0"),
			RedisKey:   getEnv("REDIS_TOKEN_KEY", "meishi:tokens"),
			Role:       strings.ToLower(getEnv("USER_ROLE", "normal")),
		},
		Logging: LoggingConfig{
			Directory: getEnv("LOG_DIR", "./logs"),
			Level:     getEnv("LOG_LEVEL", "info"),
			Format:    getEnv("LOG_FORMAT", "text"),
		},
		Websocket: WebsocketConfig{SendBuffer: buffer},
		Booking:   BookingConfig{WizardIdleTTL: wizardTTL},
	}

	switch cfg.Auth.TokenStore {
	case "file", "memory", "redis":
	default:
		return nil, fmt.Errorf("unsupported TOKEN_STORE %q", cfg.Auth.TokenStore)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	if seconds, err := strconv.Atoi(raw); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return parsed, nil
}

func intEnv(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return parsed, nil
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".meishi-tokens.json"
	}
	return home + string(os.PathSeparator) + ".meishi-tokens.json"
}
