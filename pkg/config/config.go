package config

import (
	"fmt"
	"os"
	"time"

	"github.com/creasty/defaults"
	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string         `yaml:"environment" default:"development" env:"STOCKLENS_ENV"`
	Server      ServerConfig   `yaml:"server"`
	Logging     LoggingConfig  `yaml:"logging"`
	Metrics     MetricsConfig  `yaml:"metrics"`
	Provider    ProviderConfig `yaml:"provider"`
	Kafka       KafkaConfig    `yaml:"kafka"`
}

type ServerConfig struct {
	Port            int           `yaml:"port" default:"8080" env:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	SlowThreshold   time.Duration `yaml:"slow_threshold" default:"3s"`
	CORS            struct {
		Enabled      bool     `yaml:"enabled" default:"true"`
		AllowOrigins []string `yaml:"allow_origins" default:"[\"*\"]" env:"CORS_ALLOW_ORIGINS"`
	} `yaml:"cors"`
	RateLimit struct {
		Enabled bool    `yaml:"enabled" default:"true"`
		RPS     float64 `yaml:"rps" default:"5"`
		Burst   int     `yaml:"burst" default:"10"`
	} `yaml:"rate_limit"`
}

type LoggingConfig struct {
	Level     string `yaml:"level" default:"info" env:"LOG_LEVEL"`
	Format    string `yaml:"format" default:"console" env:"LOG_FORMAT"`
	Output    string `yaml:"output" default:"stdout"`
	Aggregate struct {
		Enabled        bool          `yaml:"enabled"`
		Topic          string        `yaml:"topic" default:"stocklens.logs"`
		Interval       time.Duration `yaml:"interval" default:"30s"`
		CountThreshold int           `yaml:"count_threshold" default:"100"`
	} `yaml:"aggregate"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" default:"true"`
	Path    string `yaml:"path" default:"/metrics"`
}

type ProviderConfig struct {
	Name    string        `yaml:"name" default:"yahoo" env:"PROVIDER"`
	Timeout time.Duration `yaml:"timeout" default:"20s"`
	Adjust  bool          `yaml:"adjust" default:"true"`
	Yahoo   struct {
		BaseURL    string        `yaml:"base_url" default:"https://query1.finance.yahoo.com" env:"YAHOO_BASE_URL"`
		ChunkYears int           `yaml:"chunk_years" default:"5"`
		Retries    int           `yaml:"retries" default:"3"`
		Backoff    time.Duration `yaml:"backoff" default:"250ms"`
		UserAgent  string        `yaml:"user_agent" default:"Mozilla/5.0 (compatible; StockLens/1.0)"`
	} `yaml:"yahoo"`
	Polygon struct {
		APIKey string `yaml:"api_key" env:"POLYGON_API_KEY"`
	} `yaml:"polygon"`
}

type KafkaConfig struct {
	Enabled      bool     `yaml:"enabled" env:"KAFKA_ENABLED"`
	Brokers      []string `yaml:"brokers" env:"KAFKA_BROKERS"`
	Topic        string   `yaml:"topic" default:"stocklens.analysis" env:"KAFKA_TOPIC"`
	RequiredAcks int      `yaml:"required_acks" default:"1"`
	Compression  string   `yaml:"compression" default:"snappy"`
	Producer     struct {
		MaxAttempts  int           `yaml:"max_attempts" default:"3"`
		Linger       time.Duration `yaml:"linger" default:"50ms"`
		BatchBytes   int           `yaml:"batch_bytes" default:"1048576"`
		BatchSize    int           `yaml:"batch_size" default:"100"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"5s"`
		ReadTimeout  time.Duration `yaml:"read_timeout" default:"5s"`
		Async        bool          `yaml:"async"`
	} `yaml:"producer"`
}

// Default returns the configuration with every default applied.
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	return &c, nil
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	c, err := read(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv is Load with environment overrides applied before validation.
// An empty path uses defaults plus environment only.
func LoadWithEnv(path string) (*Config, error) {
	c, err := read(path)
	if err != nil {
		return nil, err
	}
	if err := cleanenv.ReadEnv(c); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// read layers the file over the defaults so that keys present in the
// file win, including explicit false and zero values.
func read(path string) (*Config, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return c, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug|info|warn|error, got '%s'", c.Logging.Level)
	}
	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'console' or 'json', got '%s'", c.Logging.Format)
	}
	switch c.Provider.Name {
	case "yahoo":
		if c.Provider.Yahoo.BaseURL == "" {
			return fmt.Errorf("provider.yahoo.base_url is required")
		}
	case "polygon":
		if c.Provider.Polygon.APIKey == "" {
			return fmt.Errorf("provider.polygon.api_key is required for the polygon provider")
		}
	default:
		return fmt.Errorf("provider.name must be 'yahoo' or 'polygon', got '%s'", c.Provider.Name)
	}
	if c.Server.RateLimit.Enabled && c.Server.RateLimit.RPS <= 0 {
		return fmt.Errorf("server.rate_limit.rps must be positive")
	}
	if c.Kafka.Enabled || c.Logging.Aggregate.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("kafka.brokers cannot be empty when kafka or log aggregation is enabled")
		}
		if c.Kafka.Topic == "" {
			return fmt.Errorf("kafka.topic is required")
		}
	}
	return nil
}
