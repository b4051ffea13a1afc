// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package config defines the runtime configuration of the service.
package config

import (
	"fmt"
	"strings"

	altsrc "github.com/urfave/cli-altsrc/v3"
	"github.com/urfave/cli-altsrc/v3/toml"
	"github.com/urfave/cli/v3"
)

var configFile = altsrc.StringSourcer("config.toml")

type Config struct { //nolint:govet // fieldalignment not critical for config structs
	Server   ServerConfig
	Log      LogConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Session  SessionConfig
	Admin    AdminConfig
}

type ServerConfig struct { //nolint:govet // fieldalignment not critical for config structs
	Host        string
	Port        int
	BaseURL     string
	MaxBodySize int // in MB
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // text, json
}

type DatabaseConfig struct {
	DSN string
}

type SMTPConfig struct { //nolint:govet // fieldalignment not critical
	Host     string
	Port     int
	From     string
	FromName string
	Username string
	Password string
	TLS      bool
}

type SessionConfig struct { //nolint:govet // fieldalignment not critical
	CookieName string // Session cookie name
	MaxAge     int    // Session max age in seconds
	HashKey    string // 32-byte hex string for HMAC signing
	BlockKey   string // 32-byte hex string for AES encryption (optional)
}

// AdminConfig seeds the initial administrator account on first start.
type AdminConfig struct {
	Username string
	Password string
}

func NewFromCLI(cmd *cli.Command) *Config {
	cfg := &Config{
		Server: ServerConfig{
			Host:        cmd.String("host"),
			Port:        int(cmd.Int("port")),
			BaseURL:     cmd.String("base-url"),
			MaxBodySize: int(cmd.Int("max-body-size")),
		},
		Log: LogConfig{
			Level:  cmd.String("log-level"),
			Format: cmd.String("log-format"),
		},
		Database: DatabaseConfig{
			DSN: cmd.String("database-dsn"),
		},
		SMTP: SMTPConfig{
			Host:     cmd.String("smtp-host"),
			Port:     int(cmd.Int("smtp-port")),
			From:     cmd.String("smtp-from"),
			FromName: cmd.String("smtp-from-name"),
			Username: cmd.String("smtp-username"),
			Password: cmd.String("smtp-password"),
			TLS:      cmd.Bool("smtp-tls"),
		},
		Session: SessionConfig{
			CookieName: cmd.String("session-cookie-name"),
			MaxAge:     int(cmd.Int("session-max-age")),
			HashKey:    cmd.String("session-hash-key"),
			BlockKey:   cmd.String("session-block-key"),
		},
		Admin: AdminConfig{
			Username: cmd.String("admin-username"),
			Password: cmd.String("admin-password"),
		},
	}

	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = buildBaseURL(cfg)
	}

	return cfg
}

// CookieSecure reports whether cookies should carry the Secure flag.
func (c *Config) CookieSecure() bool {
	return strings.HasPrefix(c.Server.BaseURL, "https://")
}

func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "host",
			Value:   "localhost",
			Usage:   "Host to bind to",
			Sources: cli.NewValueSourceChain(cli.EnvVar("HOST"), toml.TOML("server.host", configFile)),
		},
		&cli.IntFlag{
			Name:    "port",
			Value:   8080,
			Usage:   "Port to listen on",
			Sources: cli.NewValueSourceChain(cli.EnvVar("PORT"), toml.TOML("server.port", configFile)),
		},
		&cli.StringFlag{
			Name:    "base-url",
			Usage:   "Base URL used in outgoing links",
			Sources: cli.NewValueSourceChain(cli.EnvVar("BASE_URL"), toml.TOML("server.base_url", configFile)),
		},
		&cli.IntFlag{
			Name:    "max-body-size",
			Value:   1,
			Usage:   "Maximum request body size in MB",
			Sources: cli.NewValueSourceChain(cli.EnvVar("MAX_BODY_SIZE"), toml.TOML("server.max_body_size", configFile)),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Value:   "info",
			Usage:   "Log level (debug, info, warn, error)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOG_LEVEL"), toml.TOML("log.level", configFile)),
		},
		&cli.StringFlag{
			Name:    "log-format",
			Value:   "text",
			Usage:   "Log format (text, json)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOG_FORMAT"), toml.TOML("log.format", configFile)),
		},
		&cli.StringFlag{
			Name:    "database-dsn",
			Value:   "./data/newsletter.db",
			Usage:   "Database DSN",
			Sources: cli.NewValueSourceChain(cli.EnvVar("DATABASE_DSN"), toml.TOML("database.dsn", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-host",
			Value:   "localhost",
			Usage:   "SMTP relay host",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_HOST"), toml.TOML("smtp.host", configFile)),
		},
		&cli.IntFlag{
			Name:    "smtp-port",
			Value:   587,
			Usage:   "SMTP relay port",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_PORT"), toml.TOML("smtp.port", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-from",
			Value:   "newsletter@example.com",
			Usage:   "Sender address for outgoing mail",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_FROM"), toml.TOML("smtp.from", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-from-name",
			Value:   "Newsletter",
			Usage:   "Sender display name for outgoing mail",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_FROM_NAME"), toml.TOML("smtp.from_name", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-username",
			Usage:   "SMTP username",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_USERNAME"), toml.TOML("smtp.username", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-password",
			Usage:   "SMTP password",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_PASSWORD"), toml.TOML("smtp.password", configFile)),
		},
		&cli.BoolFlag{
			Name:    "smtp-tls",
			Value:   true,
			Usage:   "Require TLS when talking to the SMTP relay",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_TLS"), toml.TOML("smtp.tls", configFile)),
		},
		&cli.StringFlag{
			Name:    "session-cookie-name",
			Value:   "session",
			Usage:   "Session cookie name",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SESSION_COOKIE_NAME"), toml.TOML("session.cookie_name", configFile)),
		},
		&cli.IntFlag{
			Name:    "session-max-age",
			Value:   86400,
			Usage:   "Session max age in seconds",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SESSION_MAX_AGE"), toml.TOML("session.max_age", configFile)),
		},
		&cli.StringFlag{
			Name:    "session-hash-key",
			Usage:   "32-byte hex key for cookie signing",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SESSION_HASH_KEY"), toml.TOML("session.hash_key", configFile)),
		},
		&cli.StringFlag{
			Name:    "session-block-key",
			Usage:   "32-byte hex key for cookie encryption (optional)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SESSION_BLOCK_KEY"), toml.TOML("session.block_key", configFile)),
		},
		&cli.StringFlag{
			Name:    "admin-username",
			Usage:   "Username for the seeded admin account",
			Sources: cli.NewValueSourceChain(cli.EnvVar("ADMIN_USERNAME"), toml.TOML("admin.username", configFile)),
		},
		&cli.StringFlag{
			Name:    "admin-password",
			Usage:   "Password for the seeded admin account",
			Sources: cli.NewValueSourceChain(cli.EnvVar("ADMIN_PASSWORD"), toml.TOML("admin.password", configFile)),
		},
	}
}

func buildBaseURL(cfg *Config) string {
	host := cfg.Server.Host
	if host == "" {
		host = "localhost"
	}
	if cfg.Server.Port == 80 {
		return fmt.Sprintf("http://%s", host)
	}
	return fmt.Sprintf("http://%s:%d", host, cfg.Server.Port)
}
