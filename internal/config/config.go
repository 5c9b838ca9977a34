// Package config loads the tetsunavi configuration file.
//
// The file lives at ~/.config/tetsunavi/config.toml (or under
// $XDG_CONFIG_HOME) and every field is optional; a missing file yields the
// defaults.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/soretetsu/tetsunavi/pkg/errors"
)

const appName = "tetsunavi"

// Config is the parsed configuration with defaults applied.
type Config struct {
	API       API       `toml:"api"`
	Cache     Cache     `toml:"cache"`
	Analytics Analytics `toml:"analytics"`
	Serve     Serve     `toml:"serve"`
}

// API configures the discovery backend the client talks to.
type API struct {
	BaseURL string `toml:"base_url"`
}

// Cache selects and configures the cache backend.
type Cache struct {
	Backend   string   `toml:"backend"` // file, redis or none
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	ConfigTTL duration `toml:"config_ttl"`
}

// Analytics configures the optional usage event sink.
type Analytics struct {
	Endpoint string `toml:"endpoint"`
}

// Serve configures the companion API server.
type Serve struct {
	Addr    string `toml:"addr"`
	Catalog string `toml:"catalog"`
}

// duration wraps time.Duration so TOML values like "10m" parse directly.
type duration time.Duration

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = duration(parsed)
	return nil
}

func (d duration) Duration() time.Duration { return time.Duration(d) }

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		API:   API{BaseURL: "http://localhost:8080"},
		Cache: Cache{Backend: "file", ConfigTTL: duration(10 * time.Minute)},
		Serve: Serve{Addr: ":8080", Catalog: "episodes.csv"},
	}
}

// Load reads the configuration file at path. An empty path means the
// default location; a missing file is not an error and yields Default().
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		dir, err := configDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(dir, "config.toml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeConfigFetch, err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), errors.Wrap(errors.ErrCodeConfigFetch, err, "parse config %s", path)
	}
	return cfg, nil
}

// configDir returns the config directory using the XDG standard
// (~/.config/tetsunavi/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
