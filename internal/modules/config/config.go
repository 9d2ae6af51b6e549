package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"equity_trader/internal/helper"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	configFilePathENV = "CONFIG_FILE"
	configDirENV      = "CONFIG_DIR"
	databaseDSN       = "DATABASE_DSN"
)

var ErrMissingConfig = errors.New("missing required config")

// Role selects which part of the config a binary needs.
type Role string

const (
	RoleSignaler Role = "signaler"
	RoleExecutor Role = "executor"
)

// Config ...
type Config struct {
	LogLevel string `yaml:"log_level"`

	DB struct {
		DSN      string `yaml:"dsn"`
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Name     string `yaml:"name"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		MaxConns int32  `yaml:"max_conns"`
	} `yaml:"db"`

	Kafka struct {
		Brokers []string `yaml:"brokers"`
		Topic   string   `yaml:"topic"`
		GroupID string   `yaml:"group_id"`
	} `yaml:"kafka"`

	AlphaVantage struct {
		BaseURL string        `yaml:"base_url"`
		APIKey  string        `yaml:"api_key"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"alphavantage"`

	Robinhood struct {
		BaseURL string        `yaml:"base_url"`
		Token   string        `yaml:"token"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"robinhood"`

	Signaler struct {
		Symbols []string `yaml:"symbols"`
		// 0 runs a single sweep and exits.
		Interval time.Duration `yaml:"interval"`
	} `yaml:"signaler"`

	Consumer struct {
		RetryDelay    time.Duration `yaml:"retry_delay"`
		MaxAge        time.Duration `yaml:"max_age"`
		MaxDeliveries int           `yaml:"max_deliveries"`
	} `yaml:"consumer"`

	Executor struct {
		Allocation float64 `yaml:"allocation"`
		// TestCash replaces buying power and turns order submission into a log line.
		TestCash string `yaml:"test_cash"`
	} `yaml:"executor"`

	Telegram struct {
		Token  string `yaml:"token"`
		ChatID int64  `yaml:"chat_id"`
	} `yaml:"telegram"`

	Tracing struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"tracing"`

	Health struct {
		Addr string `yaml:"addr"`
	} `yaml:"health"`
}

// Default holds every value that is safe to run with.
func Default() *Config {
	c := &Config{LogLevel: "info"}
	c.Kafka.Brokers = []string{"localhost:9092"}
	c.Kafka.Topic = "equity_signals"
	c.Kafka.GroupID = "equity-trader"
	c.AlphaVantage.BaseURL = "https://www.alphavantage.co"
	c.AlphaVantage.Timeout = 15 * time.Second
	c.Robinhood.BaseURL = "https://api.robinhood.com"
	c.Robinhood.Timeout = 10 * time.Second
	c.Consumer.RetryDelay = 5 * time.Second
	c.Consumer.MaxAge = 24 * time.Hour
	c.Consumer.MaxDeliveries = 3
	c.Executor.Allocation = 0.30
	c.Health.Addr = ":8080"
	return c
}

func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	config := Default()

	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = "values_local.yaml"
	}
	dir := getenvDefault(configDirENV, "configs")

	file, err := os.Open(filepath.Join(dir, configFileName))
	switch {
	case err == nil:
		defer func() {
			_ = file.Close()
		}()
		if err := yaml.NewDecoder(file).Decode(config); err != nil {
			return nil, fmt.Errorf("config.NewConfig: decode %s: %w", configFileName, err)
		}
	case os.IsNotExist(err):
		// env-only deployment
	default:
		return nil, fmt.Errorf("config.NewConfig: open %s: %w", configFileName, err)
	}

	if err := config.applyEnv(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) applyEnv() error {
	c.LogLevel = getenvDefault("LOG_LEVEL", c.LogLevel)

	if dsn := os.Getenv(databaseDSN); dsn != "" {
		c.DB.DSN = dsn
	}
	c.DB.Host = getenvDefault("DB_HOST", c.DB.Host)
	c.DB.Port = intFromEnv("DB_PORT", c.DB.Port)
	c.DB.Name = getenvDefault("DB_NAME", c.DB.Name)
	c.DB.User = getenvDefault("DB_USERNAME", c.DB.User)
	c.DB.Password = getenvDefault("DB_PASSWORD", c.DB.Password)

	if v := os.Getenv("KAFKA_ENDPOINT"); v != "" {
		c.Kafka.Brokers = splitList(v)
	}
	c.Kafka.Topic = getenvDefault("KAFKA_TOPIC", c.Kafka.Topic)
	c.Kafka.GroupID = getenvDefault("KAFKA_GROUP_ID", c.Kafka.GroupID)

	c.AlphaVantage.APIKey = getenvDefault("ALPHAVANTAGE_API_KEY", c.AlphaVantage.APIKey)
	c.Robinhood.Token = getenvDefault("ROBINHOOD_TOKEN", c.Robinhood.Token)

	if v := os.Getenv("POTENTIAL_SECURITIES"); v != "" {
		c.Signaler.Symbols = helper.ParseSymbols(v)
	}
	c.Signaler.Interval = durationFromEnv("SIGNAL_INTERVAL", c.Signaler.Interval)

	c.Executor.TestCash = getenvDefault("TEST_CASH", c.Executor.TestCash)
	c.Executor.Allocation = floatFromEnv("ALLOCATION", c.Executor.Allocation)

	c.Telegram.Token = getenvDefault("TELEGRAM_TOKEN", c.Telegram.Token)
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("config.NewConfig: TELEGRAM_CHAT_ID %q: %w", v, err)
		}
		c.Telegram.ChatID = id
	}

	c.Tracing.Host = getenvDefault("JAEGER_AGENT_HOST", c.Tracing.Host)
	c.Tracing.Port = intFromEnv("JAEGER_AGENT_PORT", c.Tracing.Port)
	c.Health.Addr = getenvDefault("HEALTH_ADDR", c.Health.Addr)
	return nil
}

// Validate fails fast on anything the given role cannot start without.
func (c *Config) Validate(role Role) error {
	var missing []string
	need := func(ok bool, name string) {
		if !ok {
			missing = append(missing, name)
		}
	}

	need(len(c.Kafka.Brokers) > 0, "kafka.brokers")
	need(c.Kafka.Topic != "", "kafka.topic")

	switch role {
	case RoleSignaler:
		need(c.AlphaVantage.APIKey != "", "alphavantage.api_key")
		need(c.DB.DSN != "" || c.DB.Host != "", "db.dsn")
		need(len(c.Signaler.Symbols) > 0, "signaler.symbols")
	case RoleExecutor:
		need(c.Robinhood.Token != "", "robinhood.token")
		need(c.Kafka.GroupID != "", "kafka.group_id")
		if c.Executor.Allocation <= 0 || c.Executor.Allocation > 1 {
			return fmt.Errorf("config.Validate: executor.allocation must be in (0,1], got %v", c.Executor.Allocation)
		}
	default:
		return fmt.Errorf("config.Validate: unknown role %q", role)
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingConfig, strings.Join(missing, ", "))
	}
	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func intFromEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func floatFromEnv(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationFromEnv(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
