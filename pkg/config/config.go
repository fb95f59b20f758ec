package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"AdPulse/pkg/util"
)

// Dashboard data sources.
const (
	SourceSynthetic = "synthetic"
	SourceLive      = "live"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Host            string        `yaml:"host"`
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		CORSOrigins     []string      `yaml:"cors_origins"`
	} `yaml:"server"`
	Logging struct {
		Level      string `yaml:"level"`
		Format     string `yaml:"format"`
		Output     string `yaml:"output"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
	} `yaml:"logging"`
	Dashboard struct {
		Source          string        `yaml:"source"`
		Timezone        string        `yaml:"timezone"`
		Seed            uint64        `yaml:"seed"`
		RefreshInterval time.Duration `yaml:"refresh_interval"`
		SessionTTL      time.Duration `yaml:"session_ttl"`
	} `yaml:"dashboard"`
	ML struct {
		ServiceURL string        `yaml:"service_url"`
		Timeout    time.Duration `yaml:"timeout"`
		DaysAhead  int           `yaml:"days_ahead"`
		StatsTTL   time.Duration `yaml:"stats_ttl"`
		// HistoryDays is how far back the payload for predict/train reaches.
		HistoryDays int `yaml:"history_days"`
	} `yaml:"ml"`
	History struct {
		// Backend is "http" or "clickhouse".
		Backend string        `yaml:"backend"`
		URL     string        `yaml:"url"`
		Path    string        `yaml:"path"`
		Timeout time.Duration `yaml:"timeout"`
		// AggregateChannel owns records that carry no channel field.
		AggregateChannel string `yaml:"aggregate_channel"`
	} `yaml:"history"`
	RateLimit struct {
		TrainCapacity int     `yaml:"train_capacity"`
		TrainRefill   float64 `yaml:"train_refill_per_sec"`
	} `yaml:"ratelimit"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Queue struct {
		Enabled    bool          `yaml:"enabled"`
		Workers    int           `yaml:"workers"`
		MaxRetries int           `yaml:"max_retries"`
		RetryDelay time.Duration `yaml:"retry_delay"`
	} `yaml:"queue"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		IngestTopic  string   `yaml:"ingest_topic"`
		EventsTopic  string   `yaml:"events_topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
		Consumer struct {
			GroupID    string        `yaml:"group_id"`
			Workers    int           `yaml:"workers"`
			MinBytes   int           `yaml:"min_bytes"`
			MaxBytes   int           `yaml:"max_bytes"`
			RetryMax   int           `yaml:"retry_max"`
			BackoffMin time.Duration `yaml:"backoff_min"`
			BackoffMax time.Duration `yaml:"backoff_max"`
			DLQTopic   string        `yaml:"dlq_topic"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Enabled      bool          `yaml:"enabled"`
		Host         string        `yaml:"host"`
		Port         int           `yaml:"port"`
		Database     string        `yaml:"database"`
		User         string        `yaml:"user"`
		Password     string        `yaml:"password"`
		UseHTTP      bool          `yaml:"use_http"`
		AsyncInsert  bool          `yaml:"async_insert"`
		Table        string        `yaml:"table"`
		DialTimeout  time.Duration `yaml:"dial_timeout"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
	} `yaml:"clickhouse"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
// A .env file in the working directory is loaded first when present.
func LoadWithEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	c, err := Load(path)
	if err != nil {
		return nil, err
	}
	return c.withEnv()
}

// DefaultWithEnv is Default with environment overrides applied.
func DefaultWithEnv() (*Config, error) {
	_ = godotenv.Load()
	return Default().withEnv()
}

func (c *Config) withEnv() (*Config, error) {
	if v := os.Getenv("ADPULSE_ENV"); v != "" {
		c.Environment = v
	}
	if v := os.Getenv("DASHBOARD_SOURCE"); v != "" {
		c.Dashboard.Source = v
	}
	if v := os.Getenv("ML_SERVICE_URL"); v != "" {
		c.ML.ServiceURL = v
	}
	if v := os.Getenv("HISTORY_URL"); v != "" {
		c.History.URL = v
	}
	if v := os.Getenv("HTTP_PORT"); v != "" {
		c.Server.Port = util.ParseIntDefault(v, c.Server.Port)
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("CLICKHOUSE_PASSWORD"); v != "" {
		c.ClickHouse.Password = v
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Default returns a configuration usable without a file: synthetic data, no
// external stores.
func Default() *Config {
	c := &Config{Environment: "development"}
	c.Server.Host = "0.0.0.0"
	c.Server.Port = 8080
	c.Server.ReadTimeout = 15 * time.Second
	c.Server.WriteTimeout = 15 * time.Second
	c.Server.ShutdownTimeout = 10 * time.Second
	c.Logging.Level = "info"
	c.Logging.Format = "console"
	c.Logging.Output = "stdout"
	c.Dashboard.Source = SourceSynthetic
	c.Dashboard.Timezone = "UTC"
	c.Dashboard.RefreshInterval = 30 * time.Second
	c.Dashboard.SessionTTL = 30 * time.Minute
	c.ML.ServiceURL = "http://localhost:5000"
	c.ML.Timeout = 10 * time.Second
	c.ML.DaysAhead = 14
	c.ML.StatsTTL = time.Minute
	c.ML.HistoryDays = 90
	c.History.Backend = "http"
	c.History.Path = "/api/historical"
	c.History.Timeout = 5 * time.Second
	c.History.AggregateChannel = "wildberries"
	c.RateLimit.TrainCapacity = 3
	c.RateLimit.TrainRefill = 0.05
	c.Queue.Workers = 1
	c.Queue.MaxRetries = 0
	c.Kafka.IngestTopic = "ad_metrics"
	c.Kafka.EventsTopic = "dashboard_events"
	c.Kafka.Consumer.GroupID = "adpulse"
	c.Kafka.Consumer.Workers = 2
	c.Kafka.Consumer.RetryMax = 3
	c.Kafka.Consumer.BackoffMin = 200 * time.Millisecond
	c.Kafka.Consumer.BackoffMax = 5 * time.Second
	c.Kafka.Consumer.DLQTopic = "ad_metrics_dlq"
	c.Kafka.RequiredAcks = -1
	c.Kafka.Compression = "snappy"
	c.Kafka.Producer.MaxAttempts = 3
	c.Kafka.Producer.Linger = 50 * time.Millisecond
	c.Kafka.Producer.BatchSize = 500
	c.Kafka.Producer.WriteTimeout = 10 * time.Second
	c.ClickHouse.Port = 9000
	c.ClickHouse.Database = "adpulse"
	c.ClickHouse.Host = "localhost"
	c.ClickHouse.Table = "ad_metrics_daily"
	c.ClickHouse.DialTimeout = 5 * time.Second
	c.ClickHouse.ReadTimeout = 30 * time.Second
	c.Redis.Addr = "localhost:6379"
	c.Queue.RetryDelay = 5 * time.Second
	return c
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Dashboard.Source != SourceSynthetic && c.Dashboard.Source != SourceLive {
		return fmt.Errorf("dashboard.source must be '%s' or '%s', got '%s'", SourceSynthetic, SourceLive, c.Dashboard.Source)
	}
	if _, err := time.LoadLocation(c.Dashboard.Timezone); err != nil {
		return fmt.Errorf("dashboard.timezone: %w", err)
	}
	if c.Dashboard.Source == SourceLive {
		switch c.History.Backend {
		case "http":
			if c.History.URL == "" {
				return fmt.Errorf("history.url is required for the live http source")
			}
			if ch := c.History.AggregateChannel; ch != "wildberries" && ch != "ozon" {
				return fmt.Errorf("history.aggregate_channel must be 'wildberries' or 'ozon', got '%s'", ch)
			}
		case "clickhouse":
			if !c.ClickHouse.Enabled {
				return fmt.Errorf("clickhouse.enabled is required for the live clickhouse source")
			}
		default:
			return fmt.Errorf("history.backend must be 'http' or 'clickhouse', got '%s'", c.History.Backend)
		}
	}
	if c.ML.ServiceURL == "" {
		return fmt.Errorf("ml.service_url is required")
	}
	if c.ML.DaysAhead <= 0 {
		return fmt.Errorf("ml.days_ahead must be positive")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.Queue.Enabled && !c.Redis.Enabled {
		return fmt.Errorf("queue requires redis.enabled")
	}
	return nil
}

// Location returns the dashboard timezone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Dashboard.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
