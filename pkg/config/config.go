package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override (TKLPORT_GENERATE_JOBS=4).
const EnvPrefix = "TKLPORT"

// Config holds all configuration for tklport
type Config struct {
	Templates TemplatesConfig `mapstructure:"templates" json:"templates"`
	Discovery DiscoveryConfig `mapstructure:"discovery" json:"discovery"`
	Generate  GenerateConfig  `mapstructure:"generate" json:"generate"`
	Report    ReportConfig    `mapstructure:"report" json:"report"`
	Cache     CacheConfig     `mapstructure:"cache" json:"cache"`
}

// TemplatesConfig locates the curated template tree
type TemplatesConfig struct {
	// Dir is resolved against each platform directory when relative.
	Dir  string `mapstructure:"dir" json:"dir"`
	Mode string `mapstructure:"mode" json:"mode"` // "auto", "bsp", "none"
}

// DiscoveryConfig holds interface directory exclusions, name -> glob.
// An empty map keeps the built-in exclusions.
type DiscoveryConfig struct {
	Exclude map[string]string `mapstructure:"exclude" json:"exclude"`
}

// GenerateConfig holds generation options
type GenerateConfig struct {
	Jobs   int  `mapstructure:"jobs" json:"jobs"`
	DryRun bool `mapstructure:"dry_run" json:"dry_run"`
	Diff   bool `mapstructure:"diff" json:"diff"`
}

// ReportConfig holds report options
type ReportConfig struct {
	Format string `mapstructure:"format" json:"format"` // "text", "json", "yaml", "toml"
}

// CacheConfig bounds in-memory caches
type CacheConfig struct {
	Headers int `mapstructure:"headers" json:"headers"`
}

var defaultConfig = Config{
	Templates: TemplatesConfig{
		Dir:  "../../tools/porting/template",
		Mode: "auto",
	},
	Generate: GenerateConfig{Jobs: 1},
	Report:   ReportConfig{Format: "text"},
	Cache:    CacheConfig{Headers: 512},
}

// Defaults returns a copy of the built-in configuration.
func Defaults() Config {
	return defaultConfig
}

// Options controls where Load looks for configuration.
type Options struct {
	// File is an explicit config file; it must exist when set.
	File string

	// EnvFile is a dotenv file loaded before environment lookup. Missing
	// files are ignored. Defaults to ".env".
	EnvFile string

	// SearchPaths replaces the default search path (cwd, tklport home, $HOME).
	SearchPaths []string
}

// LoadConfig loads configuration from various sources: defaults, tklport.yaml,
// the dotenv file and TKLPORT_* environment variables, later sources winning.
func LoadConfig(opts Options) (*Config, error) {
	v := viper.New()

	v.SetDefault("templates.dir", defaultConfig.Templates.Dir)
	v.SetDefault("templates.mode", defaultConfig.Templates.Mode)
	v.SetDefault("generate.jobs", defaultConfig.Generate.Jobs)
	v.SetDefault("generate.dry_run", defaultConfig.Generate.DryRun)
	v.SetDefault("generate.diff", defaultConfig.Generate.Diff)
	v.SetDefault("report.format", defaultConfig.Report.Format)
	v.SetDefault("cache.headers", defaultConfig.Cache.Headers)

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName("tklport")
		v.SetConfigType("yaml")
		paths := opts.SearchPaths
		if paths == nil {
			paths = []string{"."}
			if home, err := GetTklportHome(); err == nil {
				paths = append(paths, home)
			}
			paths = append(paths, "$HOME")
		}
		for _, p := range paths {
			v.AddConfigPath(p)
		}
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	// godotenv never overrides variables already present in the environment
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading %s: %w", envFile, err)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.File != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %v", err)
	}
	config.Templates.Mode = strings.ToLower(config.Templates.Mode)
	config.Report.Format = strings.ToLower(config.Report.Format)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// ExclusionSpecs returns the configured exclusions as sorted "name=pattern"
// strings, the form accepted by --exclude.
func (c *Config) ExclusionSpecs() []string {
	out := make([]string, 0, len(c.Discovery.Exclude))
	for name, pattern := range c.Discovery.Exclude {
		out = append(out, name+"="+pattern)
	}
	sort.Strings(out)
	return out
}

// GetTklportHome returns the tklport home directory
func GetTklportHome() (string, error) {
	if home := os.Getenv("TKLPORT_HOME"); home != "" {
		return home, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %v", err)
	}

	return filepath.Join(homeDir, ".tklport"), nil
}
