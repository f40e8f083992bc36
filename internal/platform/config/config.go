package config

import (
	"os"
	"strconv"
	"time"
)

// SMTP captures the mail submission endpoint and credentials.
type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
	Sender   string
}

// Configured reports whether enough is set to attempt a submission. When
// false the notifier still runs and fails into the log instead of crashing
// request handling.
func (s SMTP) Configured() bool {
	return s.Host != "" && s.Username != "" && s.Password != ""
}

// Config captures process-level configuration.
type Config struct {
	Addr        string
	DatabaseDSN string
	AdminToken  string
	EditBaseURL string
	MailTimeout time.Duration
	SMTP        SMTP
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	addr := os.Getenv("BAZAR_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	adminToken := os.Getenv("BAZAR_ADMIN_TOKEN")
	if adminToken == "" {
		// Use a default for development - should be overridden in production
		adminToken = "dev-admin-token-change-in-production"
	}

	editBaseURL := os.Getenv("BAZAR_EDIT_BASE_URL")
	if editBaseURL == "" {
		editBaseURL = "http://localhost:5173"
	}

	mailTimeout := 30 * time.Second
	if v := os.Getenv("BAZAR_MAIL_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			mailTimeout = d
		}
	}

	smtpPort := 465
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			smtpPort = p
		}
	}

	smtpUser := os.Getenv("SMTP_USER")
	sender := os.Getenv("SENDER_EMAIL")
	if sender == "" {
		sender = smtpUser
	}

	return Config{
		Addr:        addr,
		DatabaseDSN: os.Getenv("BAZAR_DATABASE_DSN"),
		AdminToken:  adminToken,
		EditBaseURL: editBaseURL,
		MailTimeout: mailTimeout,
		SMTP: SMTP{
			Host:     os.Getenv("SMTP_SERVER"),
			Port:     smtpPort,
			Username: smtpUser,
			Password: os.Getenv("SMTP_PASS"),
			Sender:   sender,
		},
	}
}
