package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	APIBaseURL   string
	APIToken     string
	JWTSecretKey string
	ServerPort   int

	APITimeout         time.Duration
	APIMaxRPS          float64
	FinalizeCloseDelay time.Duration
	SessionIdleTimeout time.Duration
	NotificationTTL    time.Duration
	CORSAllowedOrigins []string
	LogLevel           string

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
	R2Endpoint        string
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds the configuration from getenv, applying defaults.
func FromEnv(getenv func(string) string) (*Config, error) {
	apiURL := strings.TrimSpace(getenv("API_BASE_URL"))
	if apiURL == "" {
		return nil, fmt.Errorf("API_BASE_URL environment variable is not set")
	}
	if u, err := url.Parse(apiURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("API_BASE_URL must be an absolute URL, got %q", apiURL)
	}

	jwtKey := getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	port, err := intEnv(getenv, "SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	timeoutSec, err := intEnv(getenv, "API_TIMEOUT_SECONDS", 10)
	if err != nil {
		return nil, err
	}
	rps, err := intEnv(getenv, "API_MAX_RPS", 10)
	if err != nil {
		return nil, err
	}
	closeDelayMS, err := intEnv(getenv, "FINALIZE_CLOSE_DELAY_MS", 1500)
	if err != nil {
		return nil, err
	}
	idleMin, err := intEnv(getenv, "SESSION_IDLE_TIMEOUT_MINUTES", 60)
	if err != nil {
		return nil, err
	}
	ttlSec, err := intEnv(getenv, "NOTIFICATION_TTL_SECONDS", 5)
	if err != nil {
		return nil, err
	}
	for name, v := range map[string]int{
		"API_TIMEOUT_SECONDS":          timeoutSec,
		"SESSION_IDLE_TIMEOUT_MINUTES": idleMin,
		"NOTIFICATION_TTL_SECONDS":     ttlSec,
	} {
		if v <= 0 {
			return nil, fmt.Errorf("%s must be positive, got %d", name, v)
		}
	}
	if rps < 0 || closeDelayMS < 0 {
		return nil, fmt.Errorf("API_MAX_RPS and FINALIZE_CLOSE_DELAY_MS must not be negative")
	}

	logLevel := strings.ToLower(getenv("LOG_LEVEL"))
	if logLevel == "" {
		logLevel = "info"
	}

	cfg := &Config{
		APIBaseURL:         apiURL,
		APIToken:           getenv("API_TOKEN"),
		JWTSecretKey:       jwtKey,
		ServerPort:         port,
		APITimeout:         time.Duration(timeoutSec) * time.Second,
		APIMaxRPS:          float64(rps),
		FinalizeCloseDelay: time.Duration(closeDelayMS) * time.Millisecond,
		SessionIdleTimeout: time.Duration(idleMin) * time.Minute,
		NotificationTTL:    time.Duration(ttlSec) * time.Second,
		CORSAllowedOrigins: splitList(getenv("CORS_ALLOWED_ORIGINS"), "*"),
		LogLevel:           logLevel,

		R2AccountID:       getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:   getenv("R2_PUBLIC_BASE_URL"),
		R2Endpoint:        getenv("R2_ENDPOINT"),
	}

	return cfg, nil
}

func intEnv(getenv func(string) string, name string, def int) (int, error) {
	raw := strings.TrimSpace(getenv(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", name, err)
	}
	return v, nil
}

func splitList(raw, def string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{def}
	}
	return out
}
