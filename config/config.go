package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the environment driven service configuration. The getter methods
// satisfy the narrow interfaces the auth and mailer packages consume.
type Config struct {
	// HTTP server
	Port string

	// Database
	DatabasePath string

	// Session tokens
	SigningKey      string
	TokenExpiration int // hours
	Issuer          string

	// Rate limiter
	RateLimitWindow time.Duration
	RateLimitMax    int

	// Mail
	MailCourier  string // "smtp" or "log"
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	EmailFrom    string
	FrontendURL  string
}

// Load reads configuration from the environment, honoring a local .env file
// when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:         getEnv("PORT", "4000"),
		DatabasePath: getEnv("DATABASE_PATH", "./data/cashtrackr.db"),

		SigningKey:      getEnv("JWT_SECRET", ""),
		TokenExpiration: getEnvInt("JWT_EXPIRATION_HOURS", 24*30),
		Issuer:          getEnv("JWT_ISSUER", "cashtrackr"),

		RateLimitWindow: getEnvDuration("RATE_LIMIT_WINDOW", 10*time.Minute),
		RateLimitMax:    getEnvInt("RATE_LIMIT_MAX", 5),

		MailCourier:  getEnv("MAIL_COURIER", "log"),
		SMTPHost:     getEnv("EMAIL_HOST", ""),
		SMTPPort:     getEnvInt("EMAIL_PORT", 587),
		SMTPUsername: getEnv("EMAIL_USER", ""),
		SMTPPassword: getEnv("EMAIL_PASSWORD", ""),
		EmailFrom:    getEnv("EMAIL_FROM", "CashTrackr <admin@cashtrackr.com>"),
		FrontendURL:  getEnv("FRONTEND_URL", "http://localhost:3000"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port %q: must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.SigningKey == "" {
		problems = append(problems, "JWT_SECRET must be set")
	}

	if c.TokenExpiration <= 0 {
		problems = append(problems, "JWT_EXPIRATION_HOURS must be positive")
	}

	if c.RateLimitMax <= 0 || c.RateLimitWindow <= 0 {
		problems = append(problems, "rate limit window and max must be positive")
	}

	if c.MailCourier != "log" && c.MailCourier != "smtp" {
		problems = append(problems, fmt.Sprintf("invalid MAIL_COURIER %q: must be log or smtp", c.MailCourier))
	}

	if c.MailCourier == "smtp" && c.SMTPHost == "" {
		problems = append(problems, "EMAIL_HOST must be set when MAIL_COURIER is smtp")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}

	return nil
}

func (c *Config) GetSigningKey() string   { return c.SigningKey }
func (c *Config) GetTokenExpiration() int { return c.TokenExpiration }
func (c *Config) GetIssuer() string       { return c.Issuer }

func (c *Config) GetSMTPHost() string     { return c.SMTPHost }
func (c *Config) GetSMTPPort() int        { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string { return c.SMTPPassword }
func (c *Config) GetEmailFrom() string    { return c.EmailFrom }
func (c *Config) GetFrontendURL() string  { return c.FrontendURL }

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
