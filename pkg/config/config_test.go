package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T, vars map[string]string) {
	t.Helper()
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

func TestLoad_Defaults(t *testing.T) {
	setEnv(t, map[string]string{
		"PORT": "", "DATABASE_DRIVER": "", "EMAIL_TRANSPORT": "",
		"SMTP_PORT": "", "DIGEST_SCHEDULE": "", "CORS_ALLOW_ORIGINS": "",
		"BUSINESS_NAME": "",
	})

	cfg := Load()
	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "*", cfg.Server.CORSAllowOrigins)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, TransportResend, cfg.Email.Transport)
	assert.Equal(t, 465, cfg.Email.SMTPPort)
	assert.Equal(t, "Capital Advisory", cfg.Email.BusinessName)
	assert.Equal(t, "0 19 * * *", cfg.Digest.Schedule)
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	setEnv(t, map[string]string{
		"PORT":            "8080",
		"DATABASE_DRIVER": "SQLite",
		"DATABASE_URL":    "file::memory:",
		"EMAIL_TRANSPORT": "smtp",
		"SMTP_PORT":       "587",
		"SMTP_HOST":       "mail.example.com",
	})

	cfg := Load()
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, TransportSMTP, cfg.Email.Transport)
	assert.Equal(t, 587, cfg.Email.SMTPPort)
	assert.Equal(t, "mail.example.com", cfg.Email.SMTPHost)
}

func TestLoad_BadSMTPPortFallsBack(t *testing.T) {
	t.Setenv("SMTP_PORT", "abc")
	assert.Equal(t, 465, Load().Email.SMTPPort)
}

func validConfig() *Config {
	return &Config{
		Database: DatabaseConfig{Driver: DriverPostgres, URL: "postgres://localhost/intake"},
		Email: EmailConfig{
			Transport:    TransportResend,
			ResendAPIKey: "re_test",
			From:         "Leads <leads@example.com>",
			NotifyTo:     "owner@example.com",
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid resend", func(c *Config) {}, ""},
		{"missing database url", func(c *Config) { c.Database.URL = "" }, "DATABASE_URL is required"},
		{"bad driver", func(c *Config) { c.Database.Driver = "mysql" }, "DATABASE_DRIVER"},
		{"missing resend key", func(c *Config) { c.Email.ResendAPIKey = "" }, "RESEND_API_KEY"},
		{"smtp without credentials", func(c *Config) { c.Email.Transport = TransportSMTP }, "SMTP_HOST"},
		{"valid smtp", func(c *Config) {
			c.Email.Transport = TransportSMTP
			c.Email.SMTPHost = "mail.example.com"
			c.Email.SMTPUser = "u"
			c.Email.SMTPPass = "p"
		}, ""},
		{"unknown transport", func(c *Config) { c.Email.Transport = "pigeon" }, "EMAIL_TRANSPORT"},
		{"missing notify address", func(c *Config) { c.Email.NotifyTo = "" }, "NOTIFY_EMAIL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestR2Config_Enabled(t *testing.T) {
	r := R2Config{AccountID: "a", AccessKey: "k", SecretKey: "s"}
	assert.False(t, r.Enabled())
	r.BucketName = "b"
	assert.True(t, r.Enabled())
}
