package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultUploadMaxBytes = 5 * 1024 * 1024

// Config aggregates runtime configuration for the gateway.
type Config struct {
	App       AppConfig
	Helpdesk  HelpdeskConfig
	Captcha   CaptchaConfig
	Upload    UploadConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Logger    LoggerConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// HelpdeskConfig holds the ticketing backend credentials.
type HelpdeskConfig struct {
	Subdomain      string
	Email          string
	APIToken       string
	TimeoutSeconds int
}

// CaptchaConfig holds reCAPTCHA keys. An empty SecretKey disables verification.
type CaptchaConfig struct {
	SiteKey   string
	SecretKey string
	VerifyURL string
}

// UploadConfig controls temporary attachment storage.
type UploadConfig struct {
	Dir      string
	MaxBytes int64
}

// PostgresConfig holds DB connection values for the delivery audit log.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	MigrationsDir  string
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
	RetentionDays  int
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RateLimitConfig throttles form submissions per client.
type RateLimitConfig struct {
	PerMinute int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "helpdesk-gateway"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", getEnv("PORT", "3000")),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 60),
		},
		Helpdesk: HelpdeskConfig{
			Subdomain:      strings.TrimSpace(os.Getenv("ZENDESK_SUBDOMAIN")),
			Email:          strings.TrimSpace(os.Getenv("ZENDESK_USER_EMAIL")),
			APIToken:       strings.TrimSpace(os.Getenv("ZENDESK_API_TOKEN")),
			TimeoutSeconds: getEnvAsInt("HELPDESK_TIMEOUT_SECONDS", 30),
		},
		Captcha: CaptchaConfig{
			SiteKey:   os.Getenv("RECAPTCHA_SITE_KEY"),
			SecretKey: os.Getenv("RECAPTCHA_SECRET_KEY"),
			VerifyURL: getEnv("RECAPTCHA_VERIFY_URL", "https://www.google.com/recaptcha/api/siteverify"),
		},
		Upload: UploadConfig{
			Dir:      getEnv("UPLOAD_DIR", "uploads"),
			MaxBytes: int64(getEnvAsInt("UPLOAD_MAX_BYTES", defaultUploadMaxBytes)),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 5)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 1)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			MigrationsDir:  getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
			RetentionDays:  getEnvAsInt("DELIVERY_LOG_RETENTION_DAYS", 90),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		RateLimit: RateLimitConfig{
			PerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 10),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Helpdesk.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports missing helpdesk credentials.
func (h HelpdeskConfig) Validate() error {
	var missing []string
	if h.Subdomain == "" {
		missing = append(missing, "ZENDESK_SUBDOMAIN")
	}
	if h.Email == "" {
		missing = append(missing, "ZENDESK_USER_EMAIL")
	}
	if h.APIToken == "" {
		missing = append(missing, "ZENDESK_API_TOKEN")
	}
	if len(missing) > 0 {
		return errors.New("missing required config: " + strings.Join(missing, ", "))
	}
	return nil
}

// BaseURL returns the backend root. Subdomain may be a bare host or a full URL.
func (h HelpdeskConfig) BaseURL() string {
	base := strings.TrimRight(h.Subdomain, "/")
	if strings.HasPrefix(base, "http://") || strings.HasPrefix(base, "https://") {
		return base
	}
	return "https://" + base
}

// Timeout returns the outbound HTTP client timeout.
func (h HelpdeskConfig) Timeout() time.Duration {
	if h.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(h.TimeoutSeconds) * time.Second
}

// Enabled reports whether submissions must pass reCAPTCHA.
func (c CaptchaConfig) Enabled() bool {
	return c.SecretKey != ""
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
