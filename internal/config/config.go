package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/clientmgr/internal/constants"
	"github.com/julianstephens/clientmgr/internal/keyring"
)

type DatabaseConfig struct {
	// Connection is a PostgreSQL URI or DSN without a password.
	Connection string `yaml:"connection"`
}

type AuthConfig struct {
	JWTSecret           string `yaml:"jwt_secret"`
	SessionTTL          string `yaml:"session_ttl"`
	RequireConfirmation bool   `yaml:"require_confirmation"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type DisplayConfig struct {
	CurrencyPrefix string `yaml:"currency_prefix"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Redis    RedisConfig    `yaml:"redis"`
	Display  DisplayConfig  `yaml:"display"`
	Log      LogConfig      `yaml:"log"`
}

func Default() Config {
	return Config{
		Auth: AuthConfig{
			SessionTTL: constants.SessionTTL.String(),
		},
		Display: DisplayConfig{
			CurrencyPrefix: constants.DefaultCurrencyPrefix,
		},
		Log: LogConfig{
			Level:      "warn",
			MaxSizeMB:  constants.LogMaxSizeMB,
			MaxBackups: constants.LogMaxBackups,
		},
	}
}

// Load reads the settings file, falling back to defaults when it does not
// exist, and then applies CLIENTMGR_* environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse settings %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("failed to read settings %s: %w", path, err)
	}

	overrideFromEnv(&cfg)

	if _, err := cfg.SessionDuration(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func overrideFromEnv(cfg *Config) {
	if v := os.Getenv(constants.EnvDBConnection); v != "" {
		cfg.Database.Connection = v
	}
	if v := os.Getenv(constants.EnvJWTSecret); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv(constants.EnvRequireConfirmation); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Auth.RequireConfirmation = b
		}
	}
	if v := os.Getenv(constants.EnvRedisAddr); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv(constants.EnvRedisPassword); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv(constants.EnvCurrencyPrefix); v != "" {
		cfg.Display.CurrencyPrefix = v
	}
	if v := os.Getenv(constants.EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
}

// Save writes the settings file, creating its directory.
func (c Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to serialize settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

// SessionDuration parses Auth.SessionTTL, defaulting when it is empty.
func (c Config) SessionDuration() (time.Duration, error) {
	if strings.TrimSpace(c.Auth.SessionTTL) == "" {
		return constants.SessionTTL, nil
	}
	d, err := time.ParseDuration(c.Auth.SessionTTL)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid auth.session_ttl %q", c.Auth.SessionTTL)
	}
	return d, nil
}

// RemoteConnection picks the PostgreSQL connection string: the flag value,
// then the environment or settings file, then the keyring. An empty result
// means no remote database is configured.
func (c Config) RemoteConnection(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if c.Database.Connection != "" {
		return c.Database.Connection, nil
	}
	connStr, err := keyring.GetConnectionString()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return connStr, nil
}

// SigningKey returns the session signing key from the settings, or from the
// keyring, generating one there on first use.
func (c Config) SigningKey() ([]byte, error) {
	if c.Auth.JWTSecret != "" {
		return []byte(c.Auth.JWTSecret), nil
	}
	return keyring.EnsureSigningKey()
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
