package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/recipeflow/pkg/buildinfo"
	"github.com/matzehuels/recipeflow/pkg/cache"
	"github.com/matzehuels/recipeflow/pkg/errors"
	"github.com/matzehuels/recipeflow/pkg/observability"
	"github.com/matzehuels/recipeflow/pkg/pipeline"
	"github.com/matzehuels/recipeflow/pkg/recipe"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "recipeflow"
)

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

	// Config is loaded in the root command's PersistentPreRunE.
	Config Config

	configFile string
	verbose    bool
	errOut     io.Writer // spinner output
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: DefaultConfig(),
		errOut: w,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Recipeflow draws which ingredients each recipe step uses",
		Long: `Recipeflow links a recipe's ingredients to the instruction steps that use them
and draws the result as colored flow ribbons between the two lists.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
				observability.SetPipelineHooks(logHooks{c.Logger})
				observability.SetCacheHooks(logHooks{c.Logger})
				observability.SetHTTPHooks(logHooks{c.Logger})
			}
			cfg, used, err := LoadConfig(c.configFile)
			if err != nil {
				return err
			}
			if used != "" {
				c.Logger.Debug("loaded config", "file", used)
			}
			c.Config = cfg
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (default: ./recipeflow.toml or $XDG_CONFIG_HOME/recipeflow/recipeflow.toml)")

	// Register all subcommands
	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.recipesCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	// Keys are scoped by version so a shared Redis never serves output
	// drawn by an older renderer.
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.Version+":")
	return pipeline.NewRunner(ch, keyer, c.Logger), nil
}

// newCache opens the cache selected by cache.backend. A file cache that
// cannot be created degrades to no caching.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache.Backend {
	case CacheNone:
		return cache.NewNullCache(), nil
	case CacheRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     c.Config.Cache.RedisAddr,
			Password: c.Config.Cache.RedisPassword,
			DB:       c.Config.Cache.RedisDB,
		})
	case CacheFile, "":
		dir, err := c.cacheDir()
		if err != nil {
			c.Logger.Warn("cache disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			c.Logger.Warn("cache disabled", "dir", dir, "err", err)
			return cache.NewNullCache(), nil
		}
		return fc, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q (want file, redis or none)", c.Config.Cache.Backend)
}

// =============================================================================
// Recipe Sources
// =============================================================================

// openSource returns the configured recipe source and a function that
// releases it. MongoDB wins over a recipe directory; with neither set the
// built-in sample is the only recipe.
func (c *CLI) openSource(ctx context.Context) (recipe.Source, func(), error) {
	st := c.Config.Store
	switch {
	case st.MongoURI != "":
		ms, err := recipe.NewMongoStore(ctx, recipe.MongoConfig{
			URI:        st.MongoURI,
			Database:   st.MongoDatabase,
			Collection: st.MongoCollection,
		})
		if err != nil {
			return nil, nil, err
		}
		return ms, func() { _ = ms.Close() }, nil
	case st.Dir != "":
		ds, err := recipe.NewDirStore(st.Dir)
		if err != nil {
			return nil, nil, err
		}
		return ds, func() {}, nil
	}
	return recipe.NewMemoryStore(recipe.Sample()), func() {}, nil
}

// openStore is openSource restricted to writable stores.
func (c *CLI) openStore(ctx context.Context) (recipe.Store, func(), error) {
	src, closeFn, err := c.openSource(ctx)
	if err != nil {
		return nil, nil, err
	}
	st, ok := src.(recipe.Store)
	if !ok || c.Config.Store.MongoURI == "" {
		closeFn()
		return nil, nil, errors.New(errors.ErrCodeUnsupported, "importing recipes needs a database: set store.mongo_uri or RECIPEFLOW_STORE_MONGO_URI")
	}
	return st, closeFn, nil
}

// loadRecipe resolves a command argument to a recipe: the built-in sample
// when sample is set or arg is empty, a recipe file when arg names one,
// otherwise a recipe ID in the configured source.
func (c *CLI) loadRecipe(ctx context.Context, arg string, sample bool) (*recipe.Recipe, error) {
	if sample || arg == "" {
		return recipe.Sample(), nil
	}
	if looksLikeFile(arg) {
		r, err := recipe.Load(arg)
		if err != nil {
			return nil, err
		}
		if r.ID == "" {
			r.ID = recipeID(r)
		}
		return r, nil
	}

	src, closeFn, err := c.openSource(ctx)
	if err != nil {
		return nil, err
	}
	defer closeFn()
	return src.Get(ctx, arg)
}

// looksLikeFile reports whether arg names an existing file or has a recipe
// file extension.
func looksLikeFile(arg string) bool {
	if _, ok := recipe.Extensions[filepath.Ext(arg)]; ok {
		return true
	}
	info, err := os.Stat(arg)
	return err == nil && !info.IsDir()
}

// recipeID derives an ID for a recipe that has none. Names without any
// slug-able characters get a random ID.
func recipeID(r *recipe.Recipe) string {
	if id := recipe.Slug(r.Name); id != "" {
		return id
	}
	return uuid.NewString()
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns cache.dir from the config, else the user cache directory
// (~/.cache/recipeflow/ on Linux).
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cache.DefaultDir()
}

// configDir returns the XDG config directory (~/.config/recipeflow/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName), nil
}
