package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mhuisman/etymon/pkg/buildinfo"
	"github.com/mhuisman/etymon/pkg/cache"
	"github.com/mhuisman/etymon/pkg/config"
	"github.com/mhuisman/etymon/pkg/etymology"
	"github.com/mhuisman/etymon/pkg/garden"
	"github.com/mhuisman/etymon/pkg/httputil"
	"github.com/mhuisman/etymon/pkg/oracle"
	"github.com/mhuisman/etymon/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "etymon"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands. Config is loaded once in the
// root command's PersistentPreRunE, so every RunE sees the merged file
// values.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
}

// New creates a new CLI instance with a default logger and the built-in
// configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "etymon",
		Short:         "Etymon visualizes word origins as lineage trees",
		Long:          `Etymon traces a word's etymology through a generation service and lays the ancestry out as a tree, radial wheel, sunburst, force graph, and more, exportable to SVG, PNG, JPEG, and PDF.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ~/.config/etymon/config.toml)")

	root.AddCommand(c.traceCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.modesCommand())
	root.AddCommand(c.gardenCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Factories
// =============================================================================

// newRunner creates a pipeline runner wired to the configured cache
// backend and the oracle tracer.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.newTracer(), c.Logger), nil
}

// newCache builds the pipeline cache from config. An unusable file
// backend degrades to no caching rather than failing the command.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache || c.Config.Cache.Backend == config.BackendOff {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache.Backend {
	case config.BackendRedis:
		return cache.NewRedisCache(ctx, c.Config.Cache.RedisURL)
	case config.BackendMongo:
		return cache.NewMongoCache(ctx, c.Config.Cache.MongoURL, appName)
	default:
		dir := c.Config.Cache.Dir
		if dir == "" {
			d, err := cacheDir()
			if err != nil {
				return cache.NewNullCache(), nil
			}
			dir = d
		}
		return cache.NewFileCache(dir)
	}
}

// newTracer builds the oracle client from config. The raw response cache
// lives next to the pipeline cache; losing it only costs re-fetches.
func (c *CLI) newTracer() etymology.Tracer {
	var apiKey string
	if env := c.Config.Oracle.APIKeyEnv; env != "" {
		apiKey = os.Getenv(env)
	}

	var respCache *httputil.Cache
	if dir, err := cacheDir(); err == nil {
		if hc, err := httputil.NewCache(filepath.Join(dir, "responses"), cache.TTLTrace); err == nil {
			respCache = hc
		}
	}

	return oracle.New(oracle.Config{
		BaseURL: c.Config.Oracle.BaseURL,
		Model:   c.Config.Oracle.Model,
		APIKey:  apiKey,
		Cache:   respCache,
	})
}

// newGarden builds the saved-word store from config.
func (c *CLI) newGarden(ctx context.Context) (garden.Store, error) {
	switch c.Config.Garden.Backend {
	case config.BackendMemory:
		return garden.NewMemoryStore(), nil
	case config.BackendRedis:
		return garden.NewRedisStore(ctx, c.Config.Garden.RedisURL, c.Config.Garden.TTL.Duration)
	case config.BackendSQLite:
		return garden.NewSQLiteStore(ctx, c.Config.Garden.Path)
	default:
		return garden.NewFileStore(c.Config.Garden.Path)
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/etymon/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// applyConfig fills unset pipeline options from the config file. Flags
// set explicit values before this runs, so the precedence is flags,
// then file, then pipeline defaults.
func (c *CLI) applyConfig(opts *pipeline.Options) {
	if opts.Model == "" {
		opts.Model = c.Config.Oracle.Model
	}
	if opts.MaxDepth == 0 {
		opts.MaxDepth = c.Config.Oracle.MaxDepth
	}
	if opts.MaxNodes == 0 {
		opts.MaxNodes = c.Config.Oracle.MaxNodes
	}
	if opts.Mode == "" {
		opts.Mode = c.Config.Layout.Mode
	}
	if opts.Width == 0 {
		opts.Width = c.Config.Layout.Width
	}
	if opts.Height == 0 {
		opts.Height = c.Config.Layout.Height
	}
	if len(opts.Formats) == 0 {
		opts.Formats = c.Config.Render.Formats
	}
	if opts.Tooltips == "" {
		opts.Tooltips = c.Config.Render.Tooltips
	}
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	formats := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			formats = append(formats, p)
		}
	}
	return formats
}
