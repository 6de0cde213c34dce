package app

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigEnv names the environment variable holding the config file path.
const ConfigEnv = "KEYWARD_CONFIG"

// Store backends.
const (
	BackendFile    = "file"
	BackendLevelDB = "leveldb"
	BackendMemory  = "memory"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	// HomeserverURL is the homeserver base URL, e.g. https://matrix.example.org.
	HomeserverURL string `yaml:"homeserver_url"`

	// AccessToken authenticates every homeserver request.
	AccessToken string `yaml:"access_token"`

	// UserID is used when the store already has a device id but no user id.
	UserID string `yaml:"user_id"`

	Store StoreConfig `yaml:"store"`
	Log   LogConfig   `yaml:"log"`

	// Rooms are handed to the room tracker during prepare.
	Rooms []string `yaml:"rooms"`

	// Passphrase protects the pickle key in the file store. Never read from
	// the config file.
	Passphrase string `yaml:"-"`

	// HTTP is optional; defaults to http.DefaultClient.
	HTTP *http.Client `yaml:"-"`
}

// StoreConfig selects where key material lives.
type StoreConfig struct {
	// Backend is one of "file", "leveldb" or "memory".
	Backend string `yaml:"backend"`
	// Path is the directory for the file and leveldb backends.
	Path string `yaml:"path"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `yaml:"level"`
	// Format is text or json.
	Format string `yaml:"format"`
}

// Default returns the configuration used before a file or flags are applied.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		Store: StoreConfig{
			Backend: BackendFile,
			Path:    filepath.Join(homeDir, ".keyward"),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the config file at path, or at $KEYWARD_CONFIG when path is
// empty. With neither set it returns Default().
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(ConfigEnv)
	}
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads configuration from a specific file, layered over Default().
// ${HOME} style variables in store.path are expanded.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("app: read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("app: parse config %s: %w", path, err)
	}
	cfg.Store.Path = os.ExpandEnv(cfg.Store.Path)
	return cfg, nil
}

// Validate reports the first missing or unsupported setting.
func (c *Config) Validate() error {
	if c.HomeserverURL == "" {
		return errors.New("app: homeserver_url is required")
	}
	if c.AccessToken == "" {
		return errors.New("app: access_token is required")
	}
	switch c.Store.Backend {
	case BackendMemory:
	case BackendFile, BackendLevelDB:
		if c.Store.Path == "" {
			return fmt.Errorf("app: store.path is required for the %s backend", c.Store.Backend)
		}
	default:
		return fmt.Errorf("app: unknown store backend %q", c.Store.Backend)
	}
	return nil
}
