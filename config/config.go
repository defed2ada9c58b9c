package config

import (
	"os"
	"strings"
	"sync"
)

// AppConfig is everything the server reads from the environment.
type AppConfig struct {
	Port        string
	CorsOrigins string

	AdminAPIKey     string
	AdminAPIKeyHash string

	// BaseURL prefixes RSVP links in outgoing email.
	BaseURL         string
	QuizVisitorSalt string

	SMTP SMTPConfig

	LogLevel string
	LogFile  string
	LogJSON  bool
}

type SMTPConfig struct {
	Host        string
	Port        string
	Username    string
	Password    string
	FromName    string
	FromAddress string
}

// Configured reports whether real delivery is possible.
func (s SMTPConfig) Configured() bool {
	return s.Host != "" && s.Port != "" && s.Username != "" && s.Password != ""
}

var (
	cached     *AppConfig
	cachedOnce sync.Once
)

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

// Load reads the environment on every call.
func Load() *AppConfig {
	baseURL := envOrDefault("SITE_URL", envOrDefault("BASE_URL", "http://localhost:3000"))

	smtpUser := envOrDefault("SMTP_USERNAME", "")
	return &AppConfig{
		Port:            envOrDefault("PORT", "8080"),
		CorsOrigins:     envOrDefault("CORS_ORIGINS", "*"),
		AdminAPIKey:     envOrDefault("ADMIN_API_KEY", ""),
		AdminAPIKeyHash: envOrDefault("ADMIN_API_KEY_HASH", ""),
		BaseURL:         strings.TrimRight(baseURL, "/"),
		QuizVisitorSalt: envOrDefault("QUIZ_VISITOR_SALT", ""),
		SMTP: SMTPConfig{
			Host:        envOrDefault("SMTP_HOST", ""),
			Port:        envOrDefault("SMTP_PORT", ""),
			Username:    smtpUser,
			Password:    envOrDefault("SMTP_PASSWORD", ""),
			FromName:    envOrDefault("SMTP_FROM_NAME", "Yannis & Alara"),
			FromAddress: envOrDefault("SMTP_FROM_ADDRESS", smtpUser),
		},
		LogLevel: envOrDefault("LOG_LEVEL", "info"),
		LogFile:  envOrDefault("LOG_FILE", ""),
		LogJSON:  strings.EqualFold(envOrDefault("LOG_FORMAT", "console"), "json"),
	}
}

// Get returns the config loaded on first use.
func Get() *AppConfig {
	cachedOnce.Do(func() {
		cached = Load()
	})
	return cached
}
