package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is shared by the gRPC server, the HTTP gateway and the import CLI.
type Config struct {
	Env     string        `yaml:"-"`
	GRPC    GRPCConfig    `yaml:"grpc"`
	HTTP    HTTPConfig    `yaml:"http"`
	Storage StorageConfig `yaml:"storage"`
	Kafka   KafkaConfig   `yaml:"kafka"`
	Logging LoggingConfig `yaml:"logging"`
}

type GRPCConfig struct {
	Addr        string `yaml:"addr"`
	ShutdownSec int    `yaml:"shutdown_timeout_sec"`
}

type HTTPConfig struct {
	Addr               string `yaml:"addr"`
	GRPCTarget         string `yaml:"grpc_target"`
	GRPCWaitMs         int    `yaml:"grpc_wait_timeout_ms"`
	UpstreamTimeoutSec int    `yaml:"upstream_timeout_sec"`
	ReadTimeoutSec     int    `yaml:"read_timeout_sec"`
	WriteTimeoutSec    int    `yaml:"write_timeout_sec"`
	ShutdownSec        int    `yaml:"shutdown_timeout_sec"`
}

// StorageConfig selects the reading store. Driver is one of memory, mysql, redis.
type StorageConfig struct {
	Driver  string      `yaml:"driver"`
	SeedCSV string      `yaml:"seed_csv"`
	MySQL   MySQLConfig `yaml:"mysql"`
	Redis   RedisConfig `yaml:"redis"`
}

type MySQLConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addrs     []string `yaml:"addrs"`
	Username  string   `yaml:"username"`
	Password  string   `yaml:"password"`
	DB        int      `yaml:"db"`
	KeyPrefix string   `yaml:"key_prefix"`
}

type KafkaConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
	GroupID string   `yaml:"group_id"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error; empty keeps the env default
}

// Load reads config/<env>.yaml.
func Load(env string) (Config, error) {
	return LoadFile(env, filepath.Join("config", env+".yaml"))
}

// LoadFile reads the YAML file at path, expands ${VAR} and ${VAR:-default}
// references, applies defaults and validates the result.
func LoadFile(env, path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(expandEnvVars(data), &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Env = env

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// GetEnv returns the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

func (c *Config) ApplyDefaults() {
	if c.GRPC.Addr == "" {
		c.GRPC.Addr = ":9090"
	}
	if c.GRPC.ShutdownSec <= 0 {
		c.GRPC.ShutdownSec = 5
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.HTTP.GRPCTarget == "" {
		c.HTTP.GRPCTarget = "127.0.0.1:9090"
	}
	if c.HTTP.GRPCWaitMs < 0 {
		c.HTTP.GRPCWaitMs = 0
	}
	if c.HTTP.UpstreamTimeoutSec <= 0 {
		c.HTTP.UpstreamTimeoutSec = 5
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 15
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 15
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 5
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	if c.Storage.Redis.KeyPrefix == "" {
		c.Storage.Redis.KeyPrefix = "meterreads:"
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "meterreads"
	}
}

func (c *Config) Validate() error {
	var errs []error
	switch c.Storage.Driver {
	case "memory":
	case "mysql":
		if c.Storage.MySQL.DSN == "" {
			errs = append(errs, errors.New("storage.mysql.dsn is required for the mysql driver"))
		}
	case "redis":
		if len(c.Storage.Redis.Addrs) == 0 {
			errs = append(errs, errors.New("storage.redis.addrs is required for the redis driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.driver must be memory, mysql or redis, got %q", c.Storage.Driver))
	}
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			errs = append(errs, errors.New("kafka.brokers is required when kafka is enabled"))
		}
		if c.Kafka.Topic == "" {
			errs = append(errs, errors.New("kafka.topic is required when kafka is enabled"))
		}
	}
	return errors.Join(errs...)
}

func (h HTTPConfig) UpstreamTimeout() time.Duration {
	return time.Duration(h.UpstreamTimeoutSec) * time.Second
}

func (h HTTPConfig) GRPCWait() time.Duration {
	return time.Duration(h.GRPCWaitMs) * time.Millisecond
}

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		name, def, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(name)
		if val == "" && hasDefault {
			val = def
		}
		return []byte(val)
	})
}
