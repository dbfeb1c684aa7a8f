package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// databaseFilename is joined onto DATABASE_DIR when only a directory is given.
const databaseFilename = "games.db"

// Config represents the application configuration loaded from a TOML file.
//
// It is built once at startup and passed explicitly to the components that need it.
type Config struct {
	Auth     AuthConfig     `toml:"auth"`
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
	Steam    SteamConfig    `toml:"steam"`
	Log      LogConfig      `toml:"log"`
}

// AuthConfig contains the single set of basic auth credentials.
type AuthConfig struct {
	Username     string `toml:"username"`
	Password     string `toml:"password"`
	PasswordHash string `toml:"password_hash"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SteamConfig contains the endpoints of the two metadata APIs.
type SteamConfig struct {
	SpyURL         string  `toml:"spy_url"`
	StoreURL       string  `toml:"store_url"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
	ImportRate     float64 `toml:"import_rate"`
}

// Timeout returns the per-call bound for outbound requests.
func (s SteamConfig) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values of [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadDotEnv loads variables from the given .env files into the process environment.
//
// Missing files are ignored; variables already set in the environment win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides config values with environment variables looked up through getenv.
//
// Pass [os.Getenv] in production; tests inject a map-backed lookup.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("GAME_BACKLOG_USER"); v != "" {
		c.Auth.Username = v
	}
	if v := getenv("GAME_BACKLOG_PASS"); v != "" {
		c.Auth.Password = v
	}
	if v := getenv("GAME_BACKLOG_PASS_HASH"); v != "" {
		c.Auth.PasswordHash = v
	}
	if v := getenv("DATABASE_DIR"); v != "" {
		c.Database.Path = filepath.Join(v, databaseFilename)
	}
	if v := getenv("DATABASE_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := getenv("BACKLOG_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: PORT=%q is not a number", ErrInvalidConfig, v)
		}
		c.Server.Port = port
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getenv("STEAMSPY_URL"); v != "" {
		c.Steam.SpyURL = v
	}
	if v := getenv("STEAM_STORE_URL"); v != "" {
		c.Steam.StoreURL = v
	}
	return nil
}

// Validate reports configuration that would leave the server unusable.
func (c *Config) Validate() error {
	if c.Auth.Username == "" {
		return fmt.Errorf("%w: auth.username is empty", ErrMissingCredentials)
	}
	if c.Auth.Password == "" && c.Auth.PasswordHash == "" {
		return fmt.Errorf("%w: one of auth.password or auth.password_hash is required", ErrMissingCredentials)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("%w: database.path is empty", ErrInvalidConfig)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port %d out of range", ErrInvalidConfig, c.Server.Port)
	}
	if c.Steam.SpyURL == "" || c.Steam.StoreURL == "" {
		return fmt.Errorf("%w: steam.spy_url and steam.store_url are required", ErrInvalidConfig)
	}
	return nil
}

// ResolveConfig loads path when it exists (defaults otherwise), then applies the .env file and the environment.
func ResolveConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			loaded, err := LoadConfig(path)
			if err != nil {
				return nil, err
			}
			config = loaded
		}
	}

	if err := LoadDotEnv(); err != nil {
		return nil, err
	}
	if err := config.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}
