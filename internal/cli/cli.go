// Package cli implements the tetsunavi command-line interface.
//
// This package provides commands for browsing the episode catalog as an
// interactive tag cloud, running one-shot discovery searches, serving the
// companion API, and managing the response cache. The CLI is built using
// cobra and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - browse: Interactive tag-cloud discovery (the default experience)
//   - discover: One-shot episode search from the command line
//   - serve: Run the discovery API server over a CSV catalog
//   - cache: Manage the cached API responses
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/soretetsu/tetsunavi/internal/config"
	"github.com/soretetsu/tetsunavi/pkg/analytics"
	"github.com/soretetsu/tetsunavi/pkg/buildinfo"
	"github.com/soretetsu/tetsunavi/pkg/cache"
	"github.com/soretetsu/tetsunavi/pkg/discovery"
)

// appName is the application name used for directories and display.
const appName = "tetsunavi"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Tetsunavi is a discovery client for the それでも哲学したい podcast",
		Long:         `Tetsunavi browses the episode catalog of それでも哲学したい as an interactive tag cloud: pick a philosopher or theme, pick a question, and get the five episodes that fit best.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to the config file (default ~/.config/tetsunavi/config.toml)")

	root.AddCommand(c.browseCommand())
	root.AddCommand(c.discoverCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file and wires the analytics emitter.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return cfg, err
	}
	if cfg.Analytics.Endpoint != "" {
		analytics.Set(analytics.NewHTTPEmitter(cfg.Analytics.Endpoint))
	}
	return cfg, nil
}

// newClient builds the discovery client from the configuration.
func (c *CLI) newClient(cfg config.Config, noCache bool) *discovery.Client {
	backend := newCache(cfg.Cache, noCache)
	ttl := cfg.Cache.ConfigTTL.Duration()
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return discovery.NewClient(cfg.API.BaseURL, backend, ttl)
}

// newCache selects the cache backend. Backend failures degrade to the null
// cache; a broken cache must never break a search.
func newCache(cfg config.Cache, noCache bool) cache.Cache {
	if noCache || cfg.Backend == "none" {
		return cache.NewNullCache()
	}
	if cfg.Backend == "redis" && cfg.RedisAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: cfg.RedisAddr}); err == nil {
			return rc
		}
		return cache.NewNullCache()
	}
	dir := cfg.Dir
	if dir == "" {
		var err error
		if dir, err = cacheDir(); err != nil {
			return cache.NewNullCache()
		}
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return cache.NewNullCache()
	}
	return fc
}
