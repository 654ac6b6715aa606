package config

import (
	"fmt"
	"time"

	"github.com/bstardust/threadpool-server/internal/utils"
	"github.com/bstardust/threadpool-server/pkg/common"
)

// Config represents the application configuration
type Config struct {
	LogLevel string       `mapstructure:"log_level"`
	Server   ServerConfig `mapstructure:"server"`
	Pool     PoolConfig   `mapstructure:"pool"`
}

// ServerConfig represents the listener and content configuration
type ServerConfig struct {
	Addr          string        `mapstructure:"addr"`
	DocRoot       string        `mapstructure:"doc_root"`
	AccessLogPath string        `mapstructure:"access_log"`
	SleepDelay    time.Duration `mapstructure:"sleep_delay"`
}

// PoolConfig represents the worker pool configuration
type PoolConfig struct {
	// Workers is the number of pool workers; 0 means one per CPU.
	Workers int `mapstructure:"workers"`
}

// New creates a new configuration with default values
func New() *Config {
	return &Config{
		LogLevel: "info",
		Server: ServerConfig{
			Addr:       "127.0.0.1:7878",
			DocRoot:    "web",
			SleepDelay: 5 * time.Second,
		},
		Pool: PoolConfig{
			Workers: 0,
		},
	}
}

// Validate checks the configuration before the server starts.
func (c *Config) Validate() error {
	if err := utils.ValidateListenAddr(c.Server.Addr); err != nil {
		return common.NewConfigError(fmt.Sprintf("invalid listen address %q: %v", c.Server.Addr, err))
	}
	if c.Server.DocRoot == "" {
		return common.NewConfigError("document root is empty")
	}
	if c.Pool.Workers < 0 {
		return common.NewConfigError(fmt.Sprintf("worker count %d is negative", c.Pool.Workers))
	}
	if c.Server.SleepDelay < 0 {
		return common.NewConfigError("sleep delay is negative")
	}
	return nil
}
