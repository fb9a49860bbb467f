// Package config loads server and CLI settings from .env, an optional YAML
// file, and the environment, in increasing order of precedence.
package config

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/csg33k/wages-generator/internal/adapters/wages"
	"github.com/csg33k/wages-generator/internal/auth"
)

// Built-in operator account; override with OPERATOR_* in production.
const (
	defaultUser = "Kiri"
	defaultSalt = "+3pxaMn7WPARr4f6DBq+Fw=="
	defaultHash = "x5TuFRrMZsCOI4amPQhuQ3oaYIz9f/KI8Mg+QOxHCZg="
)

type Config struct {
	Port         string `yaml:"port"`
	DBDriver     string `yaml:"db_driver"`
	DBDSN        string `yaml:"db_dsn"`
	OutputDir    string `yaml:"output_dir"`
	DefaultBatch string `yaml:"default_batch"`
	TrailingCRLF bool   `yaml:"trailing_crlf"`
	SalaryLocale string `yaml:"salary_locale"`

	Operator Operator `yaml:"operator"`

	JWTSecret       string        `yaml:"jwt_secret"`
	SessionTTL      time.Duration `yaml:"session_ttl"`
	LockoutAttempts int           `yaml:"lockout_attempts"`
	LockoutDuration time.Duration `yaml:"lockout_duration"`
}

// Operator holds the login account. Salt and Hash are base64.
type Operator struct {
	User       string `yaml:"user"`
	Salt       string `yaml:"salt"`
	Hash       string `yaml:"hash"`
	Iterations int    `yaml:"iterations"`
}

func Defaults() Config {
	return Config{
		Port:         "8080",
		DBDriver:     "sqlite3",
		DBDSN:        "wages.db",
		OutputDir:    ".",
		DefaultBatch: "0000001",
		SalaryLocale: "es",
		Operator: Operator{
			User:       defaultUser,
			Salt:       defaultSalt,
			Hash:       defaultHash,
			Iterations: auth.DefaultIterations,
		},
		SessionTTL:      8 * time.Hour,
		LockoutAttempts: 5,
		LockoutDuration: 30 * time.Second,
	}
}

// Load reads .env (a missing file is only a warning), then the YAML file
// named by CONFIG_FILE, then individual environment variables.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("error loading .env file", "err", err)
	}
	cfg := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return cfg, err
		}
	}
	if err := cfg.mergeEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv() error {
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	str("PORT", &c.Port)
	str("DB_DRIVER", &c.DBDriver)
	str("DB_DSN", &c.DBDSN)
	str("OUTPUT_DIR", &c.OutputDir)
	str("DEFAULT_BATCH", &c.DefaultBatch)
	str("SALARY_LOCALE", &c.SalaryLocale)
	str("OPERATOR_USER", &c.Operator.User)
	str("OPERATOR_SALT", &c.Operator.Salt)
	str("OPERATOR_HASH", &c.Operator.Hash)
	str("JWT_SECRET", &c.JWTSecret)

	if v := os.Getenv("TRAILING_CRLF"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TRAILING_CRLF: %w", err)
		}
		c.TrailingCRLF = b
	}
	for key, dst := range map[string]*int{
		"OPERATOR_ITERATIONS": &c.Operator.Iterations,
		"LOCKOUT_ATTEMPTS":    &c.LockoutAttempts,
	} {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = n
		}
	}
	for key, dst := range map[string]*time.Duration{
		"SESSION_TTL":      &c.SessionTTL,
		"LOCKOUT_DURATION": &c.LockoutDuration,
	} {
		if v := os.Getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = d
		}
	}
	return nil
}

// Validate checks values that would otherwise fail later at request time.
func (c Config) Validate() error {
	switch c.DBDriver {
	case "sqlite3", "postgres":
	default:
		return fmt.Errorf("DB_DRIVER must be sqlite3 or postgres, got %q", c.DBDriver)
	}
	if _, err := wages.Locale(c.SalaryLocale); err != nil {
		return fmt.Errorf("SALARY_LOCALE: %w", err)
	}
	if c.LockoutAttempts < 1 {
		return fmt.Errorf("LOCKOUT_ATTEMPTS must be at least 1, got %d", c.LockoutAttempts)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	if _, err := c.Credentials(); err != nil {
		return err
	}
	return nil
}

// Credentials decodes the operator account for auth.
func (c Config) Credentials() (auth.Credentials, error) {
	salt, err := base64.StdEncoding.DecodeString(c.Operator.Salt)
	if err != nil {
		return auth.Credentials{}, fmt.Errorf("OPERATOR_SALT: %w", err)
	}
	hash, err := base64.StdEncoding.DecodeString(c.Operator.Hash)
	if err != nil {
		return auth.Credentials{}, fmt.Errorf("OPERATOR_HASH: %w", err)
	}
	return auth.Credentials{
		Username:   c.Operator.User,
		Salt:       salt,
		Hash:       hash,
		Iterations: c.Operator.Iterations,
	}, nil
}
