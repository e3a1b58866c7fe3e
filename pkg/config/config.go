package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	TransportResend = "resend"
	TransportSMTP   = "smtp"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Email    EmailConfig
	R2       R2Config
	Digest   DigestConfig
}

type ServerConfig struct {
	Port             string
	Env              string
	CORSAllowOrigins string
}

type DatabaseConfig struct {
	Driver string
	URL    string
}

type EmailConfig struct {
	Transport    string
	ResendAPIKey string
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPass     string
	From         string
	NotifyTo     string
	BusinessName string
}

type R2Config struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
}

// Enabled reports whether the quick-intake archive has everything it needs.
func (r R2Config) Enabled() bool {
	return r.AccountID != "" && r.AccessKey != "" && r.SecretKey != "" && r.BucketName != ""
}

type DigestConfig struct {
	// Schedule is a cron spec; "off" disables the digest.
	Schedule string
}

func Load() *Config {
	godotenv.Load() // .env is optional

	return &Config{
		Server: ServerConfig{
			Port:             getEnv("PORT", "3000"),
			Env:              getEnv("APP_ENV", "development"),
			CORSAllowOrigins: getEnv("CORS_ALLOW_ORIGINS", "*"),
		},
		Database: DatabaseConfig{
			Driver: strings.ToLower(getEnv("DATABASE_DRIVER", DriverPostgres)),
			URL:    getEnv("DATABASE_URL", ""),
		},
		Email: EmailConfig{
			Transport:    strings.ToLower(getEnv("EMAIL_TRANSPORT", TransportResend)),
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			SMTPHost:     getEnv("SMTP_HOST", ""),
			SMTPPort:     getEnvInt("SMTP_PORT", 465),
			SMTPUser:     getEnv("SMTP_USER", ""),
			SMTPPass:     getEnv("SMTP_PASS", ""),
			From:         getEnv("EMAIL_FROM", ""),
			NotifyTo:     getEnv("NOTIFY_EMAIL", ""),
			BusinessName: getEnv("BUSINESS_NAME", "Capital Advisory"),
		},
		R2: R2Config{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
		},
		Digest: DigestConfig{
			Schedule: getEnv("DIGEST_SCHEDULE", "0 19 * * *"),
		},
	}
}

// Validate lists every missing or unusable setting at once.
func (c *Config) Validate() error {
	var errs []error

	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("DATABASE_DRIVER must be %q or %q", DriverPostgres, DriverSQLite))
	}
	if c.Database.URL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}

	switch c.Email.Transport {
	case TransportResend:
		if c.Email.ResendAPIKey == "" {
			errs = append(errs, errors.New("RESEND_API_KEY is required for the resend transport"))
		}
	case TransportSMTP:
		if c.Email.SMTPHost == "" || c.Email.SMTPUser == "" || c.Email.SMTPPass == "" {
			errs = append(errs, errors.New("SMTP_HOST, SMTP_USER and SMTP_PASS are required for the smtp transport"))
		}
	default:
		errs = append(errs, fmt.Errorf("EMAIL_TRANSPORT must be %q or %q", TransportResend, TransportSMTP))
	}
	if c.Email.From == "" {
		errs = append(errs, errors.New("EMAIL_FROM is required"))
	}
	if c.Email.NotifyTo == "" {
		errs = append(errs, errors.New("NOTIFY_EMAIL is required"))
	}

	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}
