package cli

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/matzehuels/recipeflow/pkg/errors"
	"github.com/matzehuels/recipeflow/pkg/flow"
	"github.com/matzehuels/recipeflow/pkg/layout"
	"github.com/matzehuels/recipeflow/pkg/linkage"
	"github.com/matzehuels/recipeflow/pkg/recipe"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

const (
	configName   = appName
	envPrefix    = "RECIPEFLOW"
	defaultAddr  = "127.0.0.1:8080"
	defaultRedis = "localhost:6379"
)

// Config is the merged configuration from defaults, the config file and
// RECIPEFLOW_* environment variables. Flags override it per command.
type Config struct {
	Linkage linkage.Config `toml:"linkage" mapstructure:"linkage"`
	Flow    FlowConfig     `toml:"flow" mapstructure:"flow"`
	Layout  LayoutConfig   `toml:"layout" mapstructure:"layout"`
	Cache   CacheConfig    `toml:"cache" mapstructure:"cache"`
	Store   StoreConfig    `toml:"store" mapstructure:"store"`
	Server  ServerConfig   `toml:"server" mapstructure:"server"`
}

// FlowConfig configures ribbon geometry.
type FlowConfig struct {
	ApexLength float64 `toml:"apex_length" mapstructure:"apex_length"`
}

// LayoutConfig configures row placement.
type LayoutConfig struct {
	Mode  string  `toml:"mode" mapstructure:"mode"`
	Width float64 `toml:"width" mapstructure:"width"`
}

// CacheConfig selects the artifact cache.
type CacheConfig struct {
	Backend       string `toml:"backend" mapstructure:"backend"`
	Dir           string `toml:"dir,omitempty" mapstructure:"dir"`
	RedisAddr     string `toml:"redis_addr" mapstructure:"redis_addr"`
	RedisPassword string `toml:"redis_password,omitempty" mapstructure:"redis_password"`
	RedisDB       int    `toml:"redis_db" mapstructure:"redis_db"`
}

// StoreConfig selects where recipes are looked up by ID.
type StoreConfig struct {
	Dir             string `toml:"dir,omitempty" mapstructure:"dir"`
	MongoURI        string `toml:"mongo_uri,omitempty" mapstructure:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database" mapstructure:"mongo_database"`
	MongoCollection string `toml:"mongo_collection" mapstructure:"mongo_collection"`
}

// ServerConfig configures `recipeflow serve`.
type ServerConfig struct {
	Addr string `toml:"addr" mapstructure:"addr"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Linkage: linkage.DefaultConfig(),
		Flow:    FlowConfig{ApexLength: flow.DefaultApexLength},
		Layout:  LayoutConfig{Mode: string(layout.ModeColumns), Width: layout.DefaultWidth},
		Cache:   CacheConfig{Backend: CacheFile, RedisAddr: defaultRedis},
		Store: StoreConfig{
			MongoDatabase:   recipe.DefaultMongoDatabase,
			MongoCollection: recipe.DefaultMongoCollection,
		},
		Server: ServerConfig{Addr: defaultAddr},
	}
}

// LoadConfig reads the config file (path, or recipeflow.toml in the working
// directory or the XDG config directory) and the environment. A missing
// default config file is not an error. It returns the file actually used.
func LoadConfig(path string) (Config, string, error) {
	v := newViper(path)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !stderrors.As(err, &notFound) {
			return Config{}, "", errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
		}
	}

	cfg := DefaultConfig()
	// Decoding into a non-nil slice overwrites element-wise and keeps the
	// tail, so configured lists must start empty.
	if v.IsSet("linkage.terms") {
		cfg.Linkage.Terms = nil
	}
	if v.IsSet("linkage.early_terms") {
		cfg.Linkage.EarlyTerms = nil
	}
	if v.IsSet("linkage.late_terms") {
		cfg.Linkage.LateTerms = nil
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, "", errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if err := cfg.Linkage.Validate(); err != nil {
		return Config{}, "", err
	}
	return cfg, v.ConfigFileUsed(), nil
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		if dir, err := configDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Environment variables are only consulted for keys viper knows about.
	def := DefaultConfig()
	w := def.Linkage.Weights
	for key, val := range map[string]any{
		"linkage.threshold":           def.Linkage.Threshold,
		"linkage.min_word_length":     def.Linkage.MinWordLength,
		"linkage.early_step_max":      def.Linkage.EarlyStepMax,
		"linkage.late_step_min":       def.Linkage.LateStepMin,
		"linkage.separate_stem_bonus": def.Linkage.SeparateStemBonus,
		"linkage.weights.word":        w.Word,
		"linkage.weights.stem":        w.Stem,
		"linkage.weights.verb_pair":   w.VerbPair,
		"linkage.weights.early_prior": w.EarlyPrior,
		"linkage.weights.late_prior":  w.LatePrior,
		"flow.apex_length":            def.Flow.ApexLength,
		"layout.mode":                 def.Layout.Mode,
		"layout.width":                def.Layout.Width,
		"cache.backend":               def.Cache.Backend,
		"cache.dir":                   def.Cache.Dir,
		"cache.redis_addr":            def.Cache.RedisAddr,
		"cache.redis_password":        def.Cache.RedisPassword,
		"cache.redis_db":              def.Cache.RedisDB,
		"store.dir":                   def.Store.Dir,
		"store.mongo_uri":             def.Store.MongoURI,
		"store.mongo_database":        def.Store.MongoDatabase,
		"store.mongo_collection":      def.Store.MongoCollection,
		"server.addr":                 def.Server.Addr,
	} {
		v.SetDefault(key, val)
	}
	return v
}

// =============================================================================
// config command
// =============================================================================

func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the merged configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			return toml.NewEncoder(cmd.OutOrStdout()).Encode(c.Config)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print where the config file is looked up",
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.configFile != "" {
				printKeyValue("file", c.configFile)
				return nil
			}
			printKeyValue("file", configName+".toml")
			if dir, err := configDir(); err == nil {
				printKeyValue("searched", strings.Join([]string{".", dir}, ", "))
				if _, err := os.Stat(filepath.Join(dir, configName+".toml")); err == nil {
					printDetail("found %s", filepath.Join(dir, configName+".toml"))
				}
			}
			return nil
		},
	})
	return cmd
}
