package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"StockCast/pkg/util"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	MarketData struct {
		ChartURL       string        `yaml:"chart_url"`
		APIKey         string        `yaml:"api_key"`
		WebSocketURL   string        `yaml:"websocket_url"`
		Symbols        []string      `yaml:"symbols"`
		RequestsPerSec float64       `yaml:"requests_per_sec"`
		Burst          float64       `yaml:"burst"`
		Timeout        time.Duration `yaml:"timeout"`
		ReconnectDelay time.Duration `yaml:"reconnect_delay"`
		PingInterval   time.Duration `yaml:"ping_interval"`
		StreamEnabled  bool          `yaml:"stream_enabled"`
	} `yaml:"marketdata"`
	Pipeline struct {
		SeriesTTL       time.Duration `yaml:"series_ttl"`
		DefaultHorizon  int           `yaml:"default_horizon"`
		DefaultSplits   int           `yaml:"default_splits"`
		DefaultScaling  string        `yaml:"default_scaling"`
		DefaultDuration int           `yaml:"default_duration"`
	} `yaml:"pipeline"`
	Cache struct {
		Backend string `yaml:"backend"` // memory, redis, layered
		MaxSize int    `yaml:"max_size"`
		Redis   struct {
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Queue struct {
		Enabled    bool          `yaml:"enabled"`
		Workers    int           `yaml:"workers"`
		QueueSize  int           `yaml:"queue_size"`
		RetryLimit int           `yaml:"retry_limit"`
		RetryDelay time.Duration `yaml:"retry_delay"`
	} `yaml:"queue"`
	Kafka struct {
		Enabled       bool     `yaml:"enabled"`
		Brokers       []string `yaml:"brokers"`
		EvalTopic     string   `yaml:"eval_topic"`
		ForecastTopic string   `yaml:"forecast_topic"`
		RequiredAcks  int      `yaml:"required_acks"`
		Compression   string   `yaml:"compression"`
		Producer      struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Enabled          bool          `yaml:"enabled"`
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		Table            string        `yaml:"table"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("MARKETDATA_API_KEY"); v != "" {
		c.MarketData.APIKey = v
	}
	if v := os.Getenv("MARKETDATA_CHART_URL"); v != "" {
		c.MarketData.ChartURL = v
	}
	if v := os.Getenv("SYMBOLS"); v != "" {
		c.MarketData.Symbols = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = util.ParseIntDefault(v, c.Server.Port)
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Cache.Redis.Host = v
	}
	if v := os.Getenv("REDIS_PORT"); v != "" {
		c.Cache.Redis.Port = util.ParseIntDefault(v, c.Cache.Redis.Port)
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.MarketData.ChartURL == "" {
		return fmt.Errorf("marketdata.chart_url is required")
	}
	if c.MarketData.StreamEnabled {
		if c.MarketData.WebSocketURL == "" {
			return fmt.Errorf("marketdata.websocket_url is required when stream is enabled")
		}
		if len(c.MarketData.Symbols) == 0 {
			return fmt.Errorf("marketdata.symbols cannot be empty when stream is enabled")
		}
	}
	switch c.Cache.Backend {
	case "", "memory", "redis", "layered":
	default:
		return fmt.Errorf("cache.backend must be 'memory', 'redis' or 'layered', got '%s'", c.Cache.Backend)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.ClickHouse.Enabled && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required when clickhouse is enabled")
	}
	return nil
}
