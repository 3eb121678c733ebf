package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	ServerPort string

	DBDriver    string
	DBPath      string
	DBPoolSize  int
	DatabaseURL string

	CORSAllowedOrigins []string
	RequestTimeout     time.Duration
	ShutdownTimeout    time.Duration

	LogLevel string

	SummaryMaxWords  int
	KeywordsFile     string
	EmbeddingsURL    string
	EmbeddingsAPIKey string

	NotifyBuffer int
}

// Options tells Load where to look. Both fields are optional.
type Options struct {
	// Dir holds the optional .env and kamba.yaml files. Defaults to the working directory.
	Dir string
	// Flags, when set, override every other source for the flags the user changed.
	Flags *pflag.FlagSet
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"port":      "server_port",
	"db-driver": "db_driver",
	"db-path":   "db_path",
	"log-level": "log_level",
}

// Load resolves the configuration from defaults, kamba.yaml, .env, the
// environment and flags, in increasing order of precedence.
func Load(opts Options) (*Config, error) {
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}

	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("kamba")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetDefault("server_port", "8080")
	v.SetDefault("db_driver", DriverSQLite)
	v.SetDefault("db_path", defaultDBPath())
	v.SetDefault("db_pool_size", 4)
	v.SetDefault("database_url", "")
	v.SetDefault("cors_allowed_origins", "*")
	v.SetDefault("request_timeout", 10*time.Second)
	v.SetDefault("shutdown_timeout", 10*time.Second)
	v.SetDefault("log_level", "info")
	v.SetDefault("summary_max_words", 15)
	v.SetDefault("keywords_file", "")
	v.SetDefault("embeddings_url", "")
	v.SetDefault("embeddings_api_key", "")
	v.SetDefault("notify_buffer", 64)

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading kamba.yaml: %w", err)
		}
	}

	if opts.Flags != nil {
		for name, key := range flagKeys {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := &Config{
		ServerPort:         v.GetString("server_port"),
		DBDriver:           strings.ToLower(strings.TrimSpace(v.GetString("db_driver"))),
		DBPath:             v.GetString("db_path"),
		DBPoolSize:         v.GetInt("db_pool_size"),
		DatabaseURL:        v.GetString("database_url"),
		CORSAllowedOrigins: splitList(v.GetStringSlice("cors_allowed_origins")),
		RequestTimeout:     v.GetDuration("request_timeout"),
		ShutdownTimeout:    v.GetDuration("shutdown_timeout"),
		LogLevel:           v.GetString("log_level"),
		SummaryMaxWords:    v.GetInt("summary_max_words"),
		KeywordsFile:       v.GetString("keywords_file"),
		EmbeddingsURL:      v.GetString("embeddings_url"),
		EmbeddingsAPIKey:   v.GetString("embeddings_api_key"),
		NotifyBuffer:       v.GetInt("notify_buffer"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverSQLite:
		if c.DBPath == "" {
			return errors.New("config: db_path is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("config: database_url is required for the postgres driver")
		}
	default:
		return fmt.Errorf("config: unsupported db_driver %q", c.DBDriver)
	}
	if c.ServerPort == "" {
		return errors.New("config: server_port is required")
	}
	if c.DBPoolSize <= 0 {
		return fmt.Errorf("config: db_pool_size must be positive, got %d", c.DBPoolSize)
	}
	if c.RequestTimeout <= 0 || c.ShutdownTimeout <= 0 {
		return errors.New("config: timeouts must be positive")
	}
	if c.NotifyBuffer <= 0 {
		return fmt.Errorf("config: notify_buffer must be positive, got %d", c.NotifyBuffer)
	}
	if len(c.CORSAllowedOrigins) == 0 {
		return errors.New("config: cors_allowed_origins must not be empty")
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.ServerPort
}

// AllowsAnyOrigin reports whether CORS is fully open.
func (c *Config) AllowsAnyOrigin() bool {
	for _, o := range c.CORSAllowedOrigins {
		if o == "*" {
			return true
		}
	}
	return false
}

// defaultDBPath places db.sqlite next to the running executable.
func defaultDBPath() string {
	exe, err := os.Executable()
	if err != nil {
		return "db.sqlite"
	}
	return filepath.Join(filepath.Dir(exe), "db.sqlite")
}

// splitList accepts a YAML list as well as comma-separated strings.
func splitList(items []string) []string {
	var out []string
	for _, item := range items {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
