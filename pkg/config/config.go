package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for stockroom.
// Configuration can come from a YAML file (config.yaml) or environment
// variables; environment variables override YAML values. Secrets (passwords,
// session key) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	BaseURL  string `yaml:"base_url" env:"BASE_URL" env-default:""` // Auto-derived from Port if empty
	Version  string `yaml:"-"`                                      // Set at load time, not from config

	// Authentication configuration
	Auth AuthConfig `yaml:"auth"`

	// Database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// Outbound email configuration
	Mail MailConfig `yaml:"mail"`

	// MigrationsPath is the directory containing SQL migrations.
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`
}

// AuthConfig holds authentication-related configuration.
type AuthConfig struct {
	// EnableVerification controls whether bearer JWT signatures are validated
	// against the JWKS endpoints. Set to false for local development without
	// an auth server.
	EnableVerification bool `yaml:"enable_verification" env:"AUTH_ENABLE_VERIFICATION" env-default:"true"`

	// JWKSEndpointsStr is a comma-separated list of issuer=jwks_url pairs.
	// Format: "issuer1=url1,issuer2=url2"
	JWKSEndpointsStr string `yaml:"jwks_endpoints" env:"JWKS_ENDPOINTS" env-default:""`

	// JWKSEndpoints is the parsed map from JWKSEndpointsStr (not from config file).
	JWKSEndpoints map[string]string `yaml:"-"`

	// SessionSecret signs the login session cookie. Secret - not in YAML.
	SessionSecret string `yaml:"-" env:"SESSION_SECRET"`

	// SessionMaxAgeSeconds is the login session lifetime.
	SessionMaxAgeSeconds int `yaml:"session_max_age_seconds" env:"SESSION_MAX_AGE_SECONDS" env-default:"1209600"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"stockroom"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"stockroom"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
}

// URL builds a connection string for pgx.
func (c *DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}

// MailConfig holds SMTP delivery configuration.
type MailConfig struct {
	// Enabled disables outbound mail entirely when false; the service logs
	// what it would have sent instead. Useful for local development.
	Enabled bool `yaml:"enabled" env:"MAIL_ENABLED" env-default:"false"`

	Host string `yaml:"host" env:"SMTP_HOST" env-default:"localhost"`
	Port int    `yaml:"port" env:"SMTP_PORT" env-default:"587"`

	Username string `yaml:"-" env:"SMTP_USERNAME"` // Secret - not in YAML
	Password string `yaml:"-" env:"SMTP_PASSWORD"` // Secret - not in YAML

	// From is the sender address on all outbound mail.
	From string `yaml:"from" env:"MAIL_FROM" env-default:"no-reply@stockroom.local"`

	// ContactRecipient receives contact-form submissions.
	ContactRecipient string `yaml:"contact_recipient" env:"MAIL_CONTACT_RECIPIENT" env-default:"contact@stockroom.local"`
}

// Load reads configuration from config.yaml with environment variable
// overrides. The version parameter is injected at build time and set on the
// returned Config. If config.yaml does not exist, environment variables and
// defaults alone are used.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if err := cfg.parseComplexFields(); err != nil {
		return nil, fmt.Errorf("failed to parse config fields: %w", err)
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:" + cfg.Port
	}

	if cfg.Auth.SessionSecret == "" && cfg.Env != "local" {
		return nil, fmt.Errorf("SESSION_SECRET must be set outside local environment")
	}
	if cfg.Auth.SessionSecret == "" {
		cfg.Auth.SessionSecret = "stockroom-local-dev"
	}

	return cfg, nil
}

// parseComplexFields parses fields that cleanenv cannot map directly.
func (c *Config) parseComplexFields() error {
	c.Auth.JWKSEndpoints = make(map[string]string)
	if c.Auth.JWKSEndpointsStr == "" {
		if c.Auth.EnableVerification {
			return fmt.Errorf("JWKS_ENDPOINTS must be set when auth verification is enabled")
		}
		return nil
	}

	for _, pair := range strings.Split(c.Auth.JWKSEndpointsStr, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return fmt.Errorf("invalid jwks_endpoints entry: %q", pair)
		}
		c.Auth.JWKSEndpoints[parts[0]] = parts[1]
	}
	return nil
}
