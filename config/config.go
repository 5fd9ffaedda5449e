package config

import (
	"fmt"
	"gopkg.in/yaml.v3"
	"os"
	"time"
)

const (
	DefaultBufferSize      = 5
	DefaultWriters         = 1
	DefaultReaders         = 1
	DefaultDelay           = time.Second
	DefaultBackoff         = 10 * time.Millisecond
	DefaultShutdownTimeout = 5 * time.Second
	DefaultTelemetryEach   = 5 * time.Second
)

// Config groups configuration of the buffer and of the tasks around it.
type Config struct {
	Buffer BufferCfg `yaml:"buffer"`

	// Writers configures producer tasks.
	Writers WorkersCfg `yaml:"writers"`

	// Readers configures consumer tasks.
	Readers WorkersCfg `yaml:"readers"`

	Shutdown ShutdownCfg `yaml:"shutdown"`

	// Telemetry configures periodic stats logs.
	// If nil, telemetry logs are disabled.
	Telemetry *TelemetryCfg `yaml:"telemetry,omitempty"`
}

func Default() *Config {
	return &Config{
		Buffer: BufferCfg{
			Size:     DefaultBufferSize,
			Strategy: StrategyBlocking,
			Backoff:  DefaultBackoff,
		},
		Writers:  WorkersCfg{Count: DefaultWriters, Delay: DefaultDelay},
		Readers:  WorkersCfg{Count: DefaultReaders, Delay: DefaultDelay},
		Shutdown: ShutdownCfg{Timeout: DefaultShutdownTimeout},
	}
}

// AdjustConfig replaces missing or malformed values with defaults.
// It never fails: a bad value is not worth refusing to start.
func (cfg *Config) AdjustConfig() {
	if cfg.Buffer.Size <= 0 {
		cfg.Buffer.Size = DefaultBufferSize
	}
	if cfg.Buffer.Strategy == "" && cfg.Buffer.UseStampedLock {
		cfg.Buffer.Strategy = StrategyStamped
	}
	if s, err := ParseStrategy(string(cfg.Buffer.Strategy)); err == nil {
		cfg.Buffer.Strategy = s
	} else {
		cfg.Buffer.Strategy = StrategyBlocking
	}
	cfg.Buffer.UseStampedLock = cfg.Buffer.Strategy == StrategyStamped
	if cfg.Buffer.Backoff <= 0 {
		cfg.Buffer.Backoff = DefaultBackoff
	}

	if cfg.Writers.Count <= 0 {
		cfg.Writers.Count = DefaultWriters
	}
	if cfg.Writers.Delay < 0 {
		cfg.Writers.Delay = DefaultDelay
	}
	if cfg.Readers.Count <= 0 {
		cfg.Readers.Count = DefaultReaders
	}
	if cfg.Readers.Delay < 0 {
		cfg.Readers.Delay = DefaultDelay
	}

	if cfg.Shutdown.Timeout <= 0 {
		cfg.Shutdown.Timeout = DefaultShutdownTimeout
	}

	if cfg.Telemetry.Enabled() && cfg.Telemetry.Interval <= 0 {
		cfg.Telemetry.Interval = DefaultTelemetryEach
	}
}

// LoadConfig reads a yaml file on top of Default, so absent keys keep their defaults.
func LoadConfig(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat config path: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config yaml file %s: %w", path, err)
	}

	cfg := Default()
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml from %s: %w", path, err)
	}
	cfg.AdjustConfig()

	return cfg, nil
}

func SaveConfig(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config yaml: %w", err)
	}
	if err = os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config yaml file %s: %w", path, err)
	}
	return nil
}
