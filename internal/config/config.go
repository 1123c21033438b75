package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	serrors "github.com/sachi/sachi-go/internal/errors"
)

// EnvPrefix prefixes every environment variable read by the configuration
const EnvPrefix = "SACHI"

// Config holds all configuration settings
type Config struct {
	// Renderer used when no -r flag is given
	Renderer string `yaml:"renderer" mapstructure:"renderer"`

	// Workers bounds concurrent analysis, 0 means one per CPU
	Workers int `yaml:"workers" mapstructure:"workers"`

	// Checkers run on every source, in order
	Checkers []string `yaml:"checkers" mapstructure:"checkers"`

	// FailOn is the severity from which check exits non-zero
	FailOn string `yaml:"fail_on" mapstructure:"fail_on"` // "never", "warning", "error"

	Rules   RulesConfig   `yaml:"rules" mapstructure:"rules"`
	Walk    WalkConfig    `yaml:"walk" mapstructure:"walk"`
	Cache   CacheConfig   `yaml:"cache" mapstructure:"cache"`
	History HistoryConfig `yaml:"history" mapstructure:"history"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

type RulesConfig struct {
	MaxCalls int `yaml:"max_calls" mapstructure:"max_calls"`
	MaxLines int `yaml:"max_lines" mapstructure:"max_lines"`
}

type WalkConfig struct {
	Extensions  []string `yaml:"extensions" mapstructure:"extensions"`
	ExcludeDirs []string `yaml:"exclude_dirs" mapstructure:"exclude_dirs"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	Path    string        `yaml:"path" mapstructure:"path"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

type HistoryConfig struct {
	Enabled     bool   `yaml:"enabled" mapstructure:"enabled"` // record every check run
	Type        string `yaml:"type" mapstructure:"type"`       // "sqlite", "postgres"
	LocalPath   string `yaml:"local_path" mapstructure:"local_path"`
	PostgresDSN string `yaml:"postgres_dsn" mapstructure:"postgres_dsn"`
}

type LogConfig struct {
	Level      string `yaml:"level" mapstructure:"level"`
	Format     string `yaml:"format" mapstructure:"format"` // "text", "json"
	File       string `yaml:"file" mapstructure:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
}

// Default returns default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		Renderer: "raw",
		Workers:  0,
		Checkers: []string{"function", "readability"},
		FailOn:   "never",
		Rules: RulesConfig{
			MaxCalls: 5,
			MaxLines: 50,
		},
		Walk: WalkConfig{
			Extensions:  []string{".py", ".pyi", ".pyw"},
			ExcludeDirs: []string{},
		},
		Cache: CacheConfig{
			Enabled: true,
			Path:    filepath.Join(homeDir, ".sachi", "cache.db"),
			TTL:     7 * 24 * time.Hour,
		},
		History: HistoryConfig{
			Enabled:   false,
			Type:      "sqlite",
			LocalPath: filepath.Join(homeDir, ".sachi", "history.db"),
		},
		Log: LogConfig{
			Level:      "warn",
			Format:     "text",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// setDefaults registers every key so that SACHI_* variables override them
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("renderer", cfg.Renderer)
	v.SetDefault("workers", cfg.Workers)
	v.SetDefault("checkers", cfg.Checkers)
	v.SetDefault("fail_on", cfg.FailOn)

	v.SetDefault("rules.max_calls", cfg.Rules.MaxCalls)
	v.SetDefault("rules.max_lines", cfg.Rules.MaxLines)

	v.SetDefault("walk.extensions", cfg.Walk.Extensions)
	v.SetDefault("walk.exclude_dirs", cfg.Walk.ExcludeDirs)

	v.SetDefault("cache.enabled", cfg.Cache.Enabled)
	v.SetDefault("cache.path", cfg.Cache.Path)
	v.SetDefault("cache.ttl", cfg.Cache.TTL)

	v.SetDefault("history.enabled", cfg.History.Enabled)
	v.SetDefault("history.type", cfg.History.Type)
	v.SetDefault("history.local_path", cfg.History.LocalPath)
	v.SetDefault("history.postgres_dsn", cfg.History.PostgresDSN)

	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("log.file", cfg.Log.File)
	v.SetDefault("log.max_size_mb", cfg.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", cfg.Log.MaxBackups)
}

// Load loads configuration from file. Precedence, lowest first: defaults,
// config file, .env files, SACHI_* environment variables.
func Load(path string) (*Config, error) {
	v, err := newViper(path)
	if err != nil {
		return nil, err
	}
	return decode(v)
}

// newViper prepares a viper instance with defaults, config file and environment
func newViper(path string) (*viper.Viper, error) {
	// Load .env files first (in order of precedence)
	loadEnvFiles()

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v, Default())

	// Load from environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Try to find config file
	if path != "" {
		v.SetConfigFile(path)
	} else {
		// Search for config in standard locations
		v.SetConfigName("config")
		v.AddConfigPath(".sachi")
		homeDir, _ := os.UserHomeDir()
		v.AddConfigPath(filepath.Join(homeDir, ".sachi"))
	}

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, serrors.Wrap(err, serrors.ErrorTypeConfig, serrors.SeverityCritical, "failed to read config")
		}
		// Config file not found is OK, use defaults
	}

	return v, nil
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, serrors.Wrap(err, serrors.ErrorTypeConfig, serrors.SeverityCritical, "failed to unmarshal config")
	}

	cfg.Cache.Path = expandPath(cfg.Cache.Path)
	cfg.History.LocalPath = expandPath(cfg.History.LocalPath)
	cfg.Log.File = expandPath(cfg.Log.File)

	return cfg, nil
}

// loadEnvFiles loads .env files in order of precedence. godotenv never
// overrides variables that are already set, so earlier files win.
func loadEnvFiles() {
	envFiles := []string{
		".env.local", // Local overrides (highest precedence)
		".env",       // Main environment file
	}

	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			_ = godotenv.Load(file)
		}
	}

	// Also try loading from home directory
	homeDir, _ := os.UserHomeDir()
	homeEnvFile := filepath.Join(homeDir, ".sachi", ".env")
	if _, err := os.Stat(homeEnvFile); err == nil {
		_ = godotenv.Load(homeEnvFile)
	}
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if path == "" {
		return path
	}
	if path[0] == '~' {
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, path[1:])
	}
	return path
}

// Get returns the value of a dotted configuration key, as viper sees it
func Get(path, key string) (interface{}, bool, error) {
	v, err := newViper(path)
	if err != nil {
		return nil, false, err
	}
	if !v.IsSet(key) {
		return nil, false, nil
	}
	return v.Get(key), true, nil
}

// Save saves configuration to file as YAML
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return serrors.Wrap(err, serrors.ErrorTypeConfig, serrors.SeverityHigh, "failed to encode config")
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return serrors.FileSystemError(err, "failed to create config directory")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return serrors.FileSystemErrorf(err, "failed to write config %s", path)
	}

	return nil
}
