package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files, environment variables and flags.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	BaseURI            string        `mapstructure:"anaf_base_uri"`
	PublicBaseURI      string        `mapstructure:"anaf_public_base_uri"`
	Environment        string        `mapstructure:"anaf_environment"`
	AccessToken        string        `mapstructure:"anaf_access_token"`
	UserAgent          string        `mapstructure:"user_agent"`
	HTTPTimeoutSeconds int64         `mapstructure:"http_timeout_seconds"`
	HTTPTimeout        time.Duration `mapstructure:"-"`

	CompaniesFile       string        `mapstructure:"companies_file"`
	PublishersFile      string        `mapstructure:"publishers_file"`
	DownloadDir         string        `mapstructure:"download_dir"`
	SyncIntervalSeconds int64         `mapstructure:"sync_interval"`
	SyncInterval        time.Duration `mapstructure:"-"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables, config files and the
// optional flag set. Flags that were set explicitly override the environment.
func Load(flags *pflag.FlagSet) (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "anaf-go")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("anaf_base_uri", "https://api.anaf.ro/")
	v.SetDefault("anaf_public_base_uri", "https://webservicesp.anaf.ro/")
	v.SetDefault("anaf_environment", "prod")
	v.SetDefault("anaf_access_token", "")
	v.SetDefault("user_agent", "anaf-go")
	v.SetDefault("http_timeout_seconds", 30)
	v.SetDefault("companies_file", "./configs/companies.yaml")
	v.SetDefault("publishers_file", "")
	v.SetDefault("download_dir", "./data/invoices")
	v.SetDefault("sync_interval", 3600) // seconds
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/archive.db")
	v.SetDefault("storage_ttl_seconds", int64((60*24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))

	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) finalize() error {
	cfg.Environment = strings.ToLower(strings.TrimSpace(cfg.Environment))
	if cfg.Environment != "prod" && cfg.Environment != "test" {
		return fmt.Errorf("invalid anaf_environment %q (expected prod or test)", cfg.Environment)
	}
	if strings.TrimSpace(cfg.BaseURI) == "" {
		return fmt.Errorf("anaf_base_uri is required")
	}
	if strings.TrimSpace(cfg.PublicBaseURI) == "" {
		return fmt.Errorf("anaf_public_base_uri is required")
	}

	if cfg.HTTPTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid http_timeout_seconds (must be positive seconds)")
	}
	cfg.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second

	if cfg.SyncIntervalSeconds <= 0 {
		return fmt.Errorf("invalid sync_interval (must be positive seconds)")
	}
	cfg.SyncInterval = time.Duration(cfg.SyncIntervalSeconds) * time.Second

	if cfg.StorageTTLSeconds <= 0 {
		return fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.StorageTTL = time.Duration(cfg.StorageTTLSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	return nil
}

// Redacted returns a copy safe for logging.
func (cfg Config) Redacted() Config {
	if cfg.AccessToken != "" {
		cfg.AccessToken = "***"
	}
	return cfg
}
