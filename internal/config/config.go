package config

import (
	"log/slog"
	"os"
	"strconv"
	"sync"

	"gopkg.in/yaml.v2"
)

// =============================================================================
// Engine-serving runtime configuration, with environment overrides
// =============================================================================

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Pools     PoolsConfig     `yaml:"pools"`
	Auth      AuthConfig      `yaml:"auth"`
	Heartbeat HeartbeatConfig `yaml:"heartbeat"`
	Request   RequestConfig   `yaml:"request"`
}

type ServerConfig struct {
	GatewayPort        string `yaml:"gateway_port"`
	StatsPort          string `yaml:"stats_port"`
	Env                string `yaml:"env"`
	ReadTimeoutSec     int    `yaml:"read_timeout_sec"`
	WriteTimeoutSec    int    `yaml:"write_timeout_sec"`
	IdleTimeoutSec     int    `yaml:"idle_timeout_sec"`
	ShutdownTimeoutSec int    `yaml:"shutdown_timeout_sec"`
}

// PoolsConfig holds one EnginePoolConfig per engine kind the core serves.
type PoolsConfig struct {
	Suggestion EnginePoolConfig `yaml:"suggestion"`
	Analysis   EnginePoolConfig `yaml:"analysis"`
}

type EnginePoolConfig struct {
	Size       int    `yaml:"size"`
	BinaryPath string `yaml:"binary_path"`
}

// AuthConfig selects and configures the Verifier implementation.
type AuthConfig struct {
	Backend    string `yaml:"backend"` // "mock" or "grpc"
	GRPCAddr   string `yaml:"grpc_addr"`
	DialTimeoutSec int `yaml:"dial_timeout_sec"`
}

type HeartbeatConfig struct {
	IntervalSec int `yaml:"interval_sec"`
	AuthTimeoutSec int `yaml:"auth_timeout_sec"`
}

// RequestConfig holds search-bound settings. They are loaded and
// defaulted here, but no other package reads them: uciengine uses its own
// constants for the search timeout, stop grace period and multipv bounds.
type RequestConfig struct {
	SearchTimeoutSec   int `yaml:"search_timeout_sec"`
	StopGraceSec       int `yaml:"stop_grace_sec"`
	MultiPVMin         int `yaml:"multipv_min"`
	MultiPVMax         int `yaml:"multipv_max"`
}

// =============================================================================
// Singleton pattern with environment overrides
// =============================================================================

var (
	instance *Config
	once     sync.Once
)

// Get returns the process-wide singleton config, loaded once from
// CONFIG_PATH (default "config.yaml") and then overridden from the
// environment.
func Get() *Config {
	once.Do(func() {
		cfg, err := LoadConfig(getEnv("CONFIG_PATH", "config.yaml"))
		if err != nil {
			slog.Warn("config: failed to load config file, using defaults", "error", err)
		}
		if cfg == nil {
			cfg = &Config{}
		}
		cfg.applyEnvOverrides()
		instance = cfg
	})
	return instance
}

// LoadConfig reads and decodes a YAML config file.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnvOverrides overlays environment variables on top of the YAML
// config, then fills in defaults for anything still unset.
func (c *Config) applyEnvOverrides() {
	c.Server.GatewayPort = getEnv("GATEWAY_PORT", c.Server.GatewayPort)
	c.Server.StatsPort = getEnv("STATS_PORT", c.Server.StatsPort)
	c.Server.Env = getEnv("ENGINECORE_ENV", c.Server.Env)

	if v := getEnvInt("SERVER_READ_TIMEOUT_SEC", 0); v > 0 {
		c.Server.ReadTimeoutSec = v
	}
	if v := getEnvInt("SERVER_WRITE_TIMEOUT_SEC", 0); v > 0 {
		c.Server.WriteTimeoutSec = v
	}
	if v := getEnvInt("SERVER_IDLE_TIMEOUT_SEC", 0); v > 0 {
		c.Server.IdleTimeoutSec = v
	}
	if v := getEnvInt("SERVER_SHUTDOWN_TIMEOUT_SEC", 0); v > 0 {
		c.Server.ShutdownTimeoutSec = v
	}

	c.Pools.Suggestion.BinaryPath = getEnv("SUGGESTION_ENGINE_PATH", c.Pools.Suggestion.BinaryPath)
	if v := getEnvInt("SUGGESTION_POOL_SIZE", 0); v > 0 {
		c.Pools.Suggestion.Size = v
	}
	c.Pools.Analysis.BinaryPath = getEnv("ANALYSIS_ENGINE_PATH", c.Pools.Analysis.BinaryPath)
	if v := getEnvInt("ANALYSIS_POOL_SIZE", 0); v > 0 {
		c.Pools.Analysis.Size = v
	}

	c.Auth.Backend = getEnv("AUTH_BACKEND", c.Auth.Backend)
	c.Auth.GRPCAddr = getEnv("AUTH_GRPC_ADDR", c.Auth.GRPCAddr)
	if v := getEnvInt("AUTH_DIAL_TIMEOUT_SEC", 0); v > 0 {
		c.Auth.DialTimeoutSec = v
	}

	if v := getEnvInt("HEARTBEAT_INTERVAL_SEC", 0); v > 0 {
		c.Heartbeat.IntervalSec = v
	}
	if v := getEnvInt("HEARTBEAT_AUTH_TIMEOUT_SEC", 0); v > 0 {
		c.Heartbeat.AuthTimeoutSec = v
	}

	if v := getEnvInt("REQUEST_SEARCH_TIMEOUT_SEC", 0); v > 0 {
		c.Request.SearchTimeoutSec = v
	}
	if v := getEnvInt("REQUEST_STOP_GRACE_SEC", 0); v > 0 {
		c.Request.StopGraceSec = v
	}
	if v := getEnvInt("REQUEST_MULTIPV_MIN", 0); v > 0 {
		c.Request.MultiPVMin = v
	}
	if v := getEnvInt("REQUEST_MULTIPV_MAX", 0); v > 0 {
		c.Request.MultiPVMax = v
	}

	c.applyDefaults()
}

// applyDefaults sets sensible defaults for zero-valued config fields.
func (c *Config) applyDefaults() {
	if c.Server.GatewayPort == "" {
		c.Server.GatewayPort = "8080"
	}
	if c.Server.StatsPort == "" {
		c.Server.StatsPort = "9090"
	}
	if c.Server.Env == "" {
		c.Server.Env = "development"
	}
	if c.Server.ReadTimeoutSec == 0 {
		c.Server.ReadTimeoutSec = 15
	}
	if c.Server.WriteTimeoutSec == 0 {
		c.Server.WriteTimeoutSec = 15
	}
	if c.Server.IdleTimeoutSec == 0 {
		c.Server.IdleTimeoutSec = 60
	}
	if c.Server.ShutdownTimeoutSec == 0 {
		c.Server.ShutdownTimeoutSec = 15
	}

	if c.Pools.Suggestion.Size == 0 {
		c.Pools.Suggestion.Size = 2
	}
	if c.Pools.Analysis.Size == 0 {
		c.Pools.Analysis.Size = 2
	}

	if c.Auth.Backend == "" {
		c.Auth.Backend = "mock"
	}
	if c.Auth.DialTimeoutSec == 0 {
		c.Auth.DialTimeoutSec = 5
	}

	if c.Heartbeat.IntervalSec == 0 {
		c.Heartbeat.IntervalSec = 30
	}
	if c.Heartbeat.AuthTimeoutSec == 0 {
		c.Heartbeat.AuthTimeoutSec = 10
	}

	if c.Request.SearchTimeoutSec == 0 {
		c.Request.SearchTimeoutSec = 30
	}
	if c.Request.StopGraceSec == 0 {
		c.Request.StopGraceSec = 2
	}
	if c.Request.MultiPVMin == 0 {
		c.Request.MultiPVMin = 1
	}
	if c.Request.MultiPVMax == 0 {
		c.Request.MultiPVMax = 3
	}
}

// =============================================================================
// Helper functions
// =============================================================================

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// =============================================================================
// Convenience methods
// =============================================================================

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}
