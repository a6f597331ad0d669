package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"
)

type Config struct {
	Port   string
	AppEnv string

	DatabaseURL string
	RedisURL    string

	JWTSecret   string
	JWTAudience string
	JWTIssuer   string
	JWTTTL      time.Duration

	R2Endpoint  string
	R2Region    string
	R2AccessKey string
	R2SecretKey string
	R2Bucket    string
	R2PublicURL string

	OpenLibraryBaseURL string
	BookCacheTTL       time.Duration

	SendGridAPIKey string
	MailFrom       string

	AuthRateLimit float64
	AuthRateBurst int
}

// Load reads the environment (and a .env file when present) and reports every
// missing or malformed variable at once.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var errs error
	required := func(key string) string {
		val := os.Getenv(key)
		if val == "" {
			errs = multierr.Append(errs, fmt.Errorf("%s is required", key))
		}
		return val
	}
	requiredURL := func(key string) string {
		val := required(key)
		if val != "" {
			if u, err := url.Parse(val); err != nil || u.Scheme == "" || u.Host == "" {
				errs = multierr.Append(errs, fmt.Errorf("%s must be a valid url", key))
			}
		}
		return val
	}

	cfg := &Config{
		Port:   getEnv("PORT", "3000"),
		AppEnv: getEnv("APP_ENV", "production"),

		DatabaseURL: requiredURL("DATABASE_URL"),
		RedisURL:    requiredURL("REDIS_URL"),

		JWTSecret:   required("JWT_SECRET"),
		JWTAudience: requiredURL("JWT_TOKEN_AUDIENCE"),
		JWTIssuer:   requiredURL("JWT_TOKEN_ISSUER"),

		R2Endpoint:  requiredURL("R2_ENDPOINT"),
		R2Region:    required("R2_REGION"),
		R2AccessKey: required("R2_ACCESS_KEY"),
		R2SecretKey: required("R2_SECRET_KEY"),
		R2Bucket:    required("R2_BUCKET"),
		R2PublicURL: requiredURL("R2_PUBLIC_URL"),

		OpenLibraryBaseURL: getEnv("OPENLIBRARY_BASE_URL", "https://openlibrary.org"),

		SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		MailFrom:       getEnv("MAIL_FROM", "no-reply@bookmuse.app"),
	}

	ttl, err := strconv.Atoi(getEnv("JWT_TTL", "3600"))
	if err != nil || ttl <= 0 {
		errs = multierr.Append(errs, errors.New("JWT_TTL must be a positive number of seconds"))
	}
	cfg.JWTTTL = time.Duration(ttl) * time.Second

	cfg.BookCacheTTL, err = time.ParseDuration(getEnv("BOOK_CACHE_TTL", "6h"))
	if err != nil || cfg.BookCacheTTL <= 0 {
		errs = multierr.Append(errs, errors.New("BOOK_CACHE_TTL must be a positive duration"))
	}

	cfg.AuthRateLimit, err = strconv.ParseFloat(getEnv("AUTH_RATE_LIMIT", "5"), 64)
	if err != nil || cfg.AuthRateLimit <= 0 {
		errs = multierr.Append(errs, errors.New("AUTH_RATE_LIMIT must be a positive number"))
	}

	cfg.AuthRateBurst, err = strconv.Atoi(getEnv("AUTH_RATE_BURST", "10"))
	if err != nil || cfg.AuthRateBurst <= 0 {
		errs = multierr.Append(errs, errors.New("AUTH_RATE_BURST must be a positive integer"))
	}

	if errs != nil {
		return nil, errs
	}
	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func getEnv(key, fallback string) string {
	val, exists := os.LookupEnv(key)

	if exists {
		return val
	}

	return fallback
}
