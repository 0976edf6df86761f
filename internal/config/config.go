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

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Notification NotificationConfig
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

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
	AdminEmails           []string
	CookieName            string
	CookieSecure          bool
	RateLimitPerMinute    int
	RateLimitBurst        int
}

// NotificationConfig holds outbound notification settings.
type NotificationConfig struct {
	AdminEmail             string
	EmailFrom              string
	SMTPHost               string
	SMTPPort               string
	SMTPUser               string
	SMTPPassword           string
	AMQPURL                string
	AMQPQueue              string
	Workers                int
	QueueSize              int
	ShutdownTimeoutSeconds int
}

// ErrMissingJWTSecret is returned when no signing key is configured.
var ErrMissingJWTSecret = errors.New("AUTH_JWT_SECRET is required")

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	appEnv := getEnv("APP_ENV", "development")
	adminEmails := getEnvAsList("ADMIN_EMAILS")
	smtpUser := os.Getenv("SMTP_USER")

	adminEmail := getEnv("NOTIFY_ADMIN_EMAIL", "")
	if adminEmail == "" && len(adminEmails) > 0 {
		adminEmail = adminEmails[0]
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "complaint-service"),
			Env:                   appEnv,
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             os.Getenv("AUTH_JWT_SECRET"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 10),
			AdminEmails:           adminEmails,
			CookieName:            getEnv("AUTH_COOKIE_NAME", "token"),
			CookieSecure:          getEnvAsBool("AUTH_COOKIE_SECURE", appEnv == "production"),
			RateLimitPerMinute:    getEnvAsInt("AUTH_RATE_LIMIT_PER_MINUTE", 30),
			RateLimitBurst:        getEnvAsInt("AUTH_RATE_LIMIT_BURST", 10),
		},
		Notification: NotificationConfig{
			AdminEmail:             adminEmail,
			EmailFrom:              getEnv("NOTIFY_EMAIL_FROM", getEnv("SMTP_USER", adminEmail)),
			SMTPHost:               os.Getenv("SMTP_HOST"),
			SMTPPort:               getEnv("SMTP_PORT", "587"),
			SMTPUser:               smtpUser,
			SMTPPassword:           os.Getenv("SMTP_PASSWORD"),
			AMQPURL:                os.Getenv("AMQP_URL"),
			AMQPQueue:              getEnv("AMQP_NOTIFY_QUEUE", "complaints.notifications"),
			Workers:                getEnvAsInt("NOTIFY_WORKERS", 2),
			QueueSize:              getEnvAsInt("NOTIFY_QUEUE_SIZE", 256),
			ShutdownTimeoutSeconds: getEnvAsInt("NOTIFY_SHUTDOWN_TIMEOUT_SECONDS", 10),
		},
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}

	return cfg, nil
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

// IsProduction reports whether the service runs with production settings.
func (a AppConfig) IsProduction() bool {
	return strings.EqualFold(a.Env, "production")
}

// AccessTokenTTL returns the token lifetime.
func (a AuthConfig) AccessTokenTTL() time.Duration {
	if a.AccessTokenTTLMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(a.AccessTokenTTLMinutes) * time.Minute
}

// IsAdminEmail reports whether email is on the admin allow-list.
func (a AuthConfig) IsAdminEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, candidate := range a.AdminEmails {
		if candidate == email {
			return true
		}
	}
	return false
}

// ShutdownTimeout bounds how long queued notifications may drain on exit.
func (n NotificationConfig) ShutdownTimeout() time.Duration {
	if n.ShutdownTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(n.ShutdownTimeoutSeconds) * time.Second
}

// SMTPEnabled reports whether enough SMTP settings exist to deliver mail.
func (n NotificationConfig) SMTPEnabled() bool {
	return n.SMTPHost != "" && n.SMTPUser != ""
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

// getEnvAsList splits a comma separated value, lower-casing and dropping blanks.
func getEnvAsList(key string) []string {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
