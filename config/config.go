package config

import (
	"os"
	"strings"
	"time"

	"github.com/ClipFinance/netguard/chains"
	neterrors "github.com/ClipFinance/netguard/common/errors"
	"github.com/ClipFinance/netguard/common/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config holds the overall configuration for the daemon.
type Config struct {
	Provider ProviderConfig `yaml:"provider"`
	Guard    GuardConfig    `yaml:"guard"`
	Monitor  MonitorConfig  `yaml:"monitor"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Journal  JournalConfig  `yaml:"journal"`
}

// ProviderConfig holds the wallet provider endpoint.
type ProviderConfig struct {
	URL           string `yaml:"url"`
	DialTimeoutMs int64  `yaml:"dialTimeoutMs"`
}

// GuardConfig selects the network the guard switches to.
type GuardConfig struct {
	TargetNetwork string `yaml:"targetNetwork"` // "testnet" or "mainnet"
}

// MonitorConfig holds the connection monitor timings.
type MonitorConfig struct {
	PollIntervalMs       int64 `yaml:"pollIntervalMs"`
	ReconnectTimeoutMs   int64 `yaml:"reconnectTimeoutMs"`
	MaxReconnectAttempts int   `yaml:"maxReconnectAttempts"`
}

// LoggingConfig holds the configuration for logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // e.g., "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "text" or "json"
}

// MetricsConfig holds the Prometheus endpoint configuration.
type MetricsConfig struct {
	Enabled    bool   `yaml:"enabled"`
	ListenAddr string `yaml:"listenAddr"`
}

// JournalConfig holds the outcome journal database. An empty DSN disables it.
type JournalConfig struct {
	DSN string `yaml:"dsn"`
}

// Load reads configuration from a YAML file, applies defaults and validates it.
func Load(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logrus.Errorf("Failed to unmarshal config data from %s: %v", path, err)
		return nil, errors.Wrapf(err, "failed to unmarshal config data from %s", path)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Provider.DialTimeoutMs <= 0 {
		c.Provider.DialTimeoutMs = 5000
		logrus.Infof("Provider.DialTimeoutMs not set, defaulting to %d ms", c.Provider.DialTimeoutMs)
	}
	if c.Guard.TargetNetwork == "" {
		c.Guard.TargetNetwork = "testnet"
		logrus.Infof("Guard.TargetNetwork not set, defaulting to %s", c.Guard.TargetNetwork)
	}
	if c.Monitor.PollIntervalMs == 0 {
		c.Monitor.PollIntervalMs = 2000
		logrus.Infof("Monitor.PollIntervalMs not set, defaulting to %d ms", c.Monitor.PollIntervalMs)
	}
	if c.Monitor.ReconnectTimeoutMs == 0 {
		c.Monitor.ReconnectTimeoutMs = 5000
		logrus.Infof("Monitor.ReconnectTimeoutMs not set, defaulting to %d ms", c.Monitor.ReconnectTimeoutMs)
	}
	if c.Monitor.MaxReconnectAttempts == 0 {
		c.Monitor.MaxReconnectAttempts = 3
		logrus.Infof("Monitor.MaxReconnectAttempts not set, defaulting to %d", c.Monitor.MaxReconnectAttempts)
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Metrics.Enabled && c.Metrics.ListenAddr == "" {
		c.Metrics.ListenAddr = ":9102"
		logrus.Infof("Metrics.ListenAddr not set, defaulting to %s", c.Metrics.ListenAddr)
	}
}

// Validate checks the configuration for values the daemon cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Provider.URL) == "" {
		return errors.Wrap(neterrors.ErrInvalidConfig, "provider.url is required")
	}
	if _, err := c.Target(); err != nil {
		return err
	}
	if c.Monitor.PollIntervalMs < 0 || c.Monitor.ReconnectTimeoutMs < 0 || c.Monitor.MaxReconnectAttempts < 0 {
		return errors.Wrap(neterrors.ErrInvalidConfig, "monitor intervals must be positive")
	}
	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		return errors.Wrapf(neterrors.ErrInvalidConfig, "logging.level: %v", err)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return errors.Wrapf(neterrors.ErrInvalidConfig, "logging.format %q", c.Logging.Format)
	}
	return nil
}

// Target returns the descriptor of the configured target network.
func (c *Config) Target() (types.ChainDescriptor, error) {
	desc, ok := chains.ByType(types.ParseNetworkType(c.Guard.TargetNetwork))
	if !ok {
		return types.ChainDescriptor{}, errors.Wrapf(neterrors.ErrInvalidConfig, "unknown target network %q", c.Guard.TargetNetwork)
	}
	return desc, nil
}

// DialTimeout returns the provider dial timeout.
func (c *Config) DialTimeout() time.Duration {
	return time.Duration(c.Provider.DialTimeoutMs) * time.Millisecond
}

// PollInterval returns the connection monitor poll interval.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Monitor.PollIntervalMs) * time.Millisecond
}

// ReconnectTimeout returns the pause between reconnection attempts.
func (c *Config) ReconnectTimeout() time.Duration {
	return time.Duration(c.Monitor.ReconnectTimeoutMs) * time.Millisecond
}

// NewLogger builds a logger from the logging section.
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	if level, err := logrus.ParseLevel(c.Logging.Level); err == nil {
		logger.SetLevel(level)
	}
	if c.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}
