package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"learnhub/pkg/apierror"
)

type Config struct {
	ServerPort              string
	ServerReadHeaderTimeout time.Duration
	ServerWriteTimeout      time.Duration
	ServerIdleTimeout       time.Duration
	RequestTimeout          time.Duration

	MongoURL      string
	MongoDatabase string
	RedisAddr     string
	RedisPassword string

	AccessTokenSecret  string
	RefreshTokenSecret string
	ActivationSecret   string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	ActivationTokenTTL time.Duration
	SessionTTL         time.Duration

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	ImageHostURL    string
	ImageHostAPIKey string

	CORSOrigins      []string
	RateLimitRPM     int
	AuthRateLimitRPM int
	CookieSecure     bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:              getEnv("PORT", "8080"),
		ServerReadHeaderTimeout: getDuration("SERVER_READ_HEADER_TIMEOUT", 15*time.Second),
		ServerWriteTimeout:      getDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		ServerIdleTimeout:       getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		RequestTimeout:          getDuration("REQUEST_TIMEOUT", 30*time.Second),

		MongoURL:      strings.TrimSpace(os.Getenv("MONGO_URL")),
		MongoDatabase: getEnv("MONGO_DATABASE", "learnhub"),
		RedisAddr:     strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		AccessTokenSecret:  strings.TrimSpace(os.Getenv("ACCESS_TOKEN_SECRET")),
		RefreshTokenSecret: strings.TrimSpace(os.Getenv("REFRESH_TOKEN_SECRET")),
		ActivationSecret:   strings.TrimSpace(os.Getenv("ACTIVATION_SECRET")),
		AccessTokenTTL:     getDuration("ACCESS_TOKEN_TTL", 30*time.Minute),
		RefreshTokenTTL:    getDuration("REFRESH_TOKEN_TTL", 168*time.Hour),
		ActivationTokenTTL: getDuration("ACTIVATION_TOKEN_TTL", 5*time.Minute),
		// Session entries live as long as a refresh token can, so a valid
		// refresh token always finds its session unless it was logged out.
		SessionTTL: getDuration("SESSION_TTL", 168*time.Hour),

		SMTPHost: strings.TrimSpace(os.Getenv("SMTP_HOST")),
		SMTPPort: getInt("SMTP_PORT", 587),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		SMTPFrom: getEnv("SMTP_FROM", "no-reply@learnhub.local"),

		ImageHostURL:    strings.TrimSpace(os.Getenv("IMAGE_HOST_URL")),
		ImageHostAPIKey: strings.TrimSpace(os.Getenv("IMAGE_HOST_API_KEY")),

		CORSOrigins:      splitCSV(getEnv("CORS_ORIGINS", "*")),
		RateLimitRPM:     getInt("RATE_LIMIT_RPM", 100),
		AuthRateLimitRPM: getInt("AUTH_RATE_LIMIT_RPM", 10),
		CookieSecure:     getBool("COOKIE_SECURE", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate fails fast at startup so a missing secret never surfaces as a
// sign-time error on a live request.
func (c *Config) Validate() error {
	if c.MongoURL == "" {
		return apierror.Configuration("MONGO_URL is required")
	}

	if c.RedisAddr == "" {
		return apierror.Configuration("REDIS_ADDR is required")
	}

	if c.AccessTokenSecret == "" {
		return apierror.Configuration("ACCESS_TOKEN_SECRET is required")
	}

	if c.RefreshTokenSecret == "" {
		return apierror.Configuration("REFRESH_TOKEN_SECRET is required")
	}

	if c.ActivationSecret == "" {
		return apierror.Configuration("ACTIVATION_SECRET is required")
	}

	if c.AccessTokenSecret == c.RefreshTokenSecret {
		return apierror.Configuration("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ")
	}

	if c.ServerPort == "" {
		return apierror.Configuration("PORT cannot be empty")
	}

	return nil
}

func getEnv(key string, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}

	return v
}

func getInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return v
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}

	return out
}
