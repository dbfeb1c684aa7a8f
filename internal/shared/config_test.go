package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./games.db" {
			t.Errorf("expected database path ./games.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 5001 {
			t.Errorf("expected server port 5001, got %d", config.Server.Port)
		}

		if config.Auth.Username != "admin" {
			t.Errorf("expected username admin, got %s", config.Auth.Username)
		}

		if config.Steam.SpyURL != "https://steamspy.com/api.php" {
			t.Errorf("expected steamspy url, got %s", config.Steam.SpyURL)
		}

		if config.Steam.Timeout() != 10*time.Second {
			t.Errorf("expected 10s timeout, got %v", config.Steam.Timeout())
		}

		if err := config.Validate(); err != nil {
			t.Errorf("default config should be valid: %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[auth]
username = "player"
password_hash = "$2a$10$abcdefghijklmnopqrstuv"

[database]
path = "/custom/games.db"

[server]
port = 8080

[steam]
timeout_seconds = 3
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Auth.Username != "player" {
			t.Errorf("expected username player, got %s", config.Auth.Username)
		}
		if config.Database.Path != "/custom/games.db" {
			t.Errorf("expected database path /custom/games.db, got %s", config.Database.Path)
		}
		if config.Server.Port != 8080 {
			t.Errorf("expected server port 8080, got %d", config.Server.Port)
		}
		if config.Steam.Timeout() != 3*time.Second {
			t.Errorf("expected 3s timeout, got %v", config.Steam.Timeout())
		}
		if config.Steam.StoreURL != DefaultConfig().Steam.StoreURL {
			t.Errorf("unset keys should keep defaults, got store url %q", config.Steam.StoreURL)
		}
	})

	t.Run("LoadConfig Invalid TOML", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[server\nport ="), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestConfigApplyEnv(t *testing.T) {
	env := func(vars map[string]string) func(string) string {
		return func(key string) string { return vars[key] }
	}

	t.Run("overrides credentials and paths", func(t *testing.T) {
		config := DefaultConfig()
		err := config.ApplyEnv(env(map[string]string{
			"GAME_BACKLOG_USER":      "me",
			"GAME_BACKLOG_PASS_HASH": "hash",
			"DATABASE_DIR":           "/app/data",
			"PORT":                   "9000",
			"LOG_LEVEL":              "debug",
		}))
		if err != nil {
			t.Fatalf("ApplyEnv() error = %v", err)
		}

		if config.Auth.Username != "me" {
			t.Errorf("expected username me, got %s", config.Auth.Username)
		}
		if config.Auth.PasswordHash != "hash" {
			t.Errorf("expected password hash override, got %s", config.Auth.PasswordHash)
		}
		if config.Database.Path != filepath.Join("/app/data", "games.db") {
			t.Errorf("expected database under DATABASE_DIR, got %s", config.Database.Path)
		}
		if config.Server.Port != 9000 {
			t.Errorf("expected port 9000, got %d", config.Server.Port)
		}
		if config.Log.Level != "debug" {
			t.Errorf("expected log level debug, got %s", config.Log.Level)
		}
	})

	t.Run("DATABASE_PATH wins over DATABASE_DIR", func(t *testing.T) {
		config := DefaultConfig()
		err := config.ApplyEnv(env(map[string]string{
			"DATABASE_DIR":  "/app/data",
			"DATABASE_PATH": "/tmp/other.db",
		}))
		if err != nil {
			t.Fatalf("ApplyEnv() error = %v", err)
		}
		if config.Database.Path != "/tmp/other.db" {
			t.Errorf("expected /tmp/other.db, got %s", config.Database.Path)
		}
	})

	t.Run("invalid port", func(t *testing.T) {
		config := DefaultConfig()
		err := config.ApplyEnv(env(map[string]string{"PORT": "http"}))
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("empty environment changes nothing", func(t *testing.T) {
		config := DefaultConfig()
		if err := config.ApplyEnv(env(nil)); err != nil {
			t.Fatalf("ApplyEnv() error = %v", err)
		}
		if *config != *DefaultConfig() {
			t.Error("config should be unchanged")
		}
	})
}

func TestConfigValidate(t *testing.T) {
	tt := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{
			name:    "missing username",
			mutate:  func(c *Config) { c.Auth.Username = "" },
			wantErr: ErrMissingCredentials,
		},
		{
			name: "missing secret",
			mutate: func(c *Config) {
				c.Auth.Password = ""
				c.Auth.PasswordHash = ""
			},
			wantErr: ErrMissingCredentials,
		},
		{
			name: "hash only is fine",
			mutate: func(c *Config) {
				c.Auth.Password = ""
				c.Auth.PasswordHash = "x"
			},
			wantErr: nil,
		},
		{
			name:    "bad port",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "missing database path",
			mutate:  func(c *Config) { c.Database.Path = "" },
			wantErr: ErrInvalidConfig,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			config := DefaultConfig()
			tc.mutate(config)

			err := config.Validate()
			if tc.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	t.Run("missing file is ignored", func(t *testing.T) {
		if err := LoadDotEnv(filepath.Join(t.TempDir(), ".env")); err != nil {
			t.Errorf("LoadDotEnv() error = %v", err)
		}
	})

	t.Run("loads variables", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		if err := os.WriteFile(path, []byte("BACKLOG_TEST_DOTENV=loaded\n"), 0644); err != nil {
			t.Fatalf("failed to write .env: %v", err)
		}
		t.Cleanup(func() { os.Unsetenv("BACKLOG_TEST_DOTENV") })

		if err := LoadDotEnv(path); err != nil {
			t.Fatalf("LoadDotEnv() error = %v", err)
		}
		if got := os.Getenv("BACKLOG_TEST_DOTENV"); got != "loaded" {
			t.Errorf("expected loaded, got %q", got)
		}
	})
}
