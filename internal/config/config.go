package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// DefaultJWTSecret is the placeholder signing key used when JWT_SECRET is unset.
// It is only accepted in development.
const DefaultJWTSecret = "change-me"

// EnvDevelopment is the APP_ENV value for local development.
const EnvDevelopment = "development"

// Config holds application level configuration loaded from environment variables.
type Config struct {
	AppEnv      string
	ServerPort  string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	SwaggerHost string

	JWTSecret    string
	SessionTTL   time.Duration
	CookieSecure bool
	CORSOrigins  []string

	BcryptCost         int
	ResetTokenTTL      time.Duration
	ResetPurgeSchedule string
	FrontendURL        string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	EmailFrom    string
	SupportEmail string

	LogLevel  string
	LogPretty bool
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	smtpUser := os.Getenv("SMTP_USER")
	return &Config{
		AppEnv:      strings.ToLower(getEnv("APP_ENV", EnvDevelopment)),
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		MySQLDSN:    getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/inventory?charset=utf8mb4&parseTime=True&loc=UTC"),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:     getEnvInt("REDIS_DB", 0),
		RedisPass:   os.Getenv("REDIS_PASSWORD"),
		SwaggerHost: os.Getenv("SWAGGER_HOST"),

		JWTSecret:    getEnv("JWT_SECRET", DefaultJWTSecret),
		SessionTTL:   getEnvDuration("SESSION_TTL", 72*time.Hour),
		CookieSecure: getEnvBool("COOKIE_SECURE", true),
		CORSOrigins:  getEnvList("CORS_ORIGINS", []string{"http://localhost:3000"}),

		BcryptCost:         getEnvInt("BCRYPT_COST", 10),
		ResetTokenTTL:      getEnvDuration("RESET_TOKEN_TTL", 30*time.Minute),
		ResetPurgeSchedule: getEnv("RESET_PURGE_SCHEDULE", "@every 15m"),
		FrontendURL:        strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUser:     smtpUser,
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		EmailFrom:    getEnv("EMAIL_FROM", smtpUser),
		SupportEmail: getEnv("SUPPORT_EMAIL", smtpUser),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogPretty: getEnvBool("LOG_PRETTY", false),
	}
}

// Validate reports settings that would make the service unsafe or unusable.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET must not be empty"))
	}
	if c.JWTSecret == DefaultJWTSecret && c.AppEnv != EnvDevelopment {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be set when APP_ENV is %q", c.AppEnv))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL))
	}
	if c.ResetTokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("RESET_TOKEN_TTL must be positive, got %s", c.ResetTokenTTL))
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, c.BcryptCost))
	}
	if c.ServerPort == "" {
		errs = append(errs, errors.New("SERVER_PORT must not be empty"))
	}
	return errors.Join(errs...)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
