// Package cli implements the visunn command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/visunn/internal/config"
	"github.com/matzehuels/visunn/pkg/buildinfo"
	"github.com/matzehuels/visunn/pkg/cache"
	"github.com/matzehuels/visunn/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "visunn"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// levelSet is true once the level was chosen on the command line; the
	// config file's log level is then ignored.
	levelSet bool

	configPath string
	server     string
	prefix     string
	noCache    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	c.levelSet = true
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Visunn browses neural-network computation graphs module by module",
		Long:         `Visunn is a viewer for hierarchical neural-network computation graphs. It fetches laid-out module snapshots from a backend and lets you descend into modules, inspect node metadata and export diagrams.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default ~/.config/visunn/config.toml)")
	flags.StringVar(&c.server, "server", "", "backend base URL (overrides config)")
	flags.StringVar(&c.prefix, "prefix", "", "backend route prefix: api or topology")
	flags.BoolVar(&c.noCache, "no-cache", false, "disable the snapshot cache")

	root.AddCommand(c.viewCommand())
	root.AddCommand(c.fetchCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.sessionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig reads the config file and environment, then applies the
// persistent flags on top.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if c.server != "" {
		cfg.Server = c.server
	}
	if c.prefix != "" {
		cfg.Prefix = c.prefix
	}
	if c.noCache {
		cfg.Cache.Backend = config.CacheNone
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	if !c.levelSet {
		if level, err := log.ParseLevel(cfg.Log.Level); err == nil {
			c.Logger.SetLevel(level)
		}
	}
	return cfg, nil
}

// =============================================================================
// Navigation Environment
// =============================================================================

// env is what the navigation commands share: the resolved config, the
// snapshot cache and a store fetching from the configured backend.
type env struct {
	cfg   config.Config
	cache cache.Cache
	store *store.Store
}

// newEnv builds the navigation environment for one command invocation.
func (c *CLI) newEnv(ctx context.Context) (*env, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	cc, err := newCache(ctx, cfg)
	if err != nil {
		return nil, err
	}
	fetcher, err := store.NewHTTPFetcher(cfg.Server, cfg.Prefix, cc,
		store.WithTimeout(cfg.Timeout),
		store.WithTTL(cfg.Cache.TTL),
		store.WithHeader("User-Agent", buildinfo.UserAgent()),
	)
	if err != nil {
		cc.Close()
		return nil, err
	}
	c.Logger.Debug("backend", "server", cfg.Server, "prefix", cfg.Prefix, "cache", cfg.Cache.Backend)

	return &env{
		cfg:   cfg,
		cache: cc,
		store: store.New(fetcher, store.WithLogger(c.Logger)),
	}, nil
}

// Close releases the cache.
func (e *env) Close() error {
	return e.cache.Close()
}

// newCache opens the cache backend named by cfg. A file cache whose
// directory cannot be determined degrades to no cache.
func newCache(ctx context.Context, cfg config.Config) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr: cfg.Cache.RedisAddr,
			DB:   cfg.Cache.RedisDB,
		})
	default:
		dir, err := cfg.CacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}
