package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/idilsaglam/taskdeck/internal/session"
)

// Config holds all client configuration.
type Config struct {
	API    APIConfig    `mapstructure:"api"`
	Logger LoggerConfig `mapstructure:"logger"`
	UI     UIConfig     `mapstructure:"ui"`
}

// APIConfig points the client at the backend.
type APIConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryBaseDelay time.Duration `mapstructure:"retry_base_delay"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

// LoggerConfig controls the debug log. The TUI owns the terminal, so logs
// go to a file.
type LoggerConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type UIConfig struct {
	Theme string `mapstructure:"theme"`
}

// Load reads configuration: defaults, then an optional config.yaml in the
// taskdeck directory, then TASKDECK_* environment variables. A .env file
// in the working directory is honored if present.
func Load() (*Config, error) {
	_ = godotenv.Load() // best effort; absence is normal

	dir, err := session.Dir()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v, dir)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix("TASKDECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, dir string) {
	v.SetDefault("api.base_url", "http://localhost:8080/api/v1")
	v.SetDefault("api.max_retries", 3)
	v.SetDefault("api.retry_base_delay", 100*time.Millisecond)
	v.SetDefault("api.timeout", 10*time.Second)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.file", filepath.Join(dir, "taskdeck.log"))

	v.SetDefault("ui.theme", "classic")
}

func bindEnvVars(v *viper.Viper) {
	v.BindEnv("api.base_url", "TASKDECK_API_BASE_URL", "API_BASE_URL")
	v.BindEnv("api.max_retries", "TASKDECK_API_MAX_RETRIES")
	v.BindEnv("api.retry_base_delay", "TASKDECK_API_RETRY_BASE_DELAY")
	v.BindEnv("api.timeout", "TASKDECK_API_TIMEOUT")

	v.BindEnv("logger.level", "TASKDECK_LOG_LEVEL")
	v.BindEnv("logger.file", "TASKDECK_LOG_FILE")

	v.BindEnv("ui.theme", "TASKDECK_THEME")
}

func validateConfig(cfg *Config) error {
	u, err := url.Parse(cfg.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api base URL is not a valid URL: %q", cfg.API.BaseURL)
	}
	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")

	if cfg.API.MaxRetries < 0 || cfg.API.MaxRetries > 10 {
		return fmt.Errorf("api max_retries must be between 0 and 10")
	}
	if cfg.API.RetryBaseDelay <= 0 {
		return fmt.Errorf("api retry_base_delay must be positive")
	}
	return nil
}
