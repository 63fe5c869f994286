// Package config loads the process configuration of cmd/ebay-sync from a
// yaml file and EBAY_SYNC_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Sternrassler/ebay-access-client/pkg/cache"
	"github.com/Sternrassler/ebay-access-client/pkg/logging"
	"github.com/Sternrassler/ebay-access-client/pkg/ratelimit"
	"github.com/Sternrassler/ebay-access-client/pkg/service"
	"github.com/Sternrassler/ebay-access-client/pkg/transport"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g.
// EBAY_SYNC_REDIS_ADDR for redis.addr.
const EnvPrefix = "EBAY_SYNC"

type Config struct {
	HTTPServer HTTPServerConfig
	Logger     logging.Config
	Account    AccountConfig
	Fixture    FixtureConfig
	Redis      RedisConfig
	Service    ServiceConfig
	Retry      RetryConfig
	Quota      QuotaConfig
	Cache      CacheConfig
	Tracing    TracingConfig
}

type HTTPServerConfig struct {
	Port            int
	ShutdownTimeout time.Duration
}

type AccountConfig struct {
	Name string
}

type FixtureConfig struct {
	Path string
}

// RedisConfig enables the shared call quota and the L2 item cache when
// Addr is set.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type ServiceConfig struct {
	MaxConcurrency     int
	OperationTimeout   time.Duration
	CallTimeout        time.Duration
	InventoryBatchSize int
}

type RetryConfig struct {
	Enabled        bool
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

type QuotaConfig struct {
	DailyLimit        int64
	CriticalRemaining int64
	WarningRemaining  int64
	ThrottleDelay     time.Duration
	CallsPerSecond    float64
	Burst             int
}

type CacheConfig struct {
	Enabled    bool
	MemorySize int
	MemoryTTL  time.Duration
	TTL        time.Duration
}

type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
	Insecure    bool
}

// Load reads path, or config.yaml from ./config or the working directory
// when path is empty. A missing default file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	cfg.HTTPServer.Port = v.GetInt("http_server.port")
	cfg.HTTPServer.ShutdownTimeout = v.GetDuration("http_server.shutdown_timeout")

	cfg.Logger = logging.DefaultConfig()
	cfg.Logger.Level = logging.LogLevel(v.GetString("logger.level"))
	cfg.Logger.Pretty = v.GetBool("logger.pretty")

	cfg.Account.Name = v.GetString("account.name")
	cfg.Logger.Account = cfg.Account.Name

	cfg.Fixture.Path = v.GetString("fixture.path")

	cfg.Redis.Addr = v.GetString("redis.addr")
	cfg.Redis.Password = v.GetString("redis.password")
	cfg.Redis.DB = v.GetInt("redis.db")

	cfg.Service.MaxConcurrency = v.GetInt("service.max_concurrency")
	cfg.Service.OperationTimeout = v.GetDuration("service.operation_timeout")
	cfg.Service.CallTimeout = v.GetDuration("service.call_timeout")
	cfg.Service.InventoryBatchSize = v.GetInt("service.inventory_batch_size")

	cfg.Retry.Enabled = v.GetBool("retry.enabled")
	cfg.Retry.MaxAttempts = v.GetInt("retry.max_attempts")
	cfg.Retry.InitialBackoff = v.GetDuration("retry.initial_backoff")
	cfg.Retry.MaxBackoff = v.GetDuration("retry.max_backoff")

	cfg.Quota.DailyLimit = v.GetInt64("quota.daily_limit")
	cfg.Quota.CriticalRemaining = v.GetInt64("quota.critical_remaining")
	cfg.Quota.WarningRemaining = v.GetInt64("quota.warning_remaining")
	cfg.Quota.ThrottleDelay = v.GetDuration("quota.throttle_delay")
	cfg.Quota.CallsPerSecond = v.GetFloat64("quota.calls_per_second")
	cfg.Quota.Burst = v.GetInt("quota.burst")

	cfg.Cache.Enabled = v.GetBool("cache.enabled")
	cfg.Cache.MemorySize = v.GetInt("cache.memory_size")
	cfg.Cache.MemoryTTL = v.GetDuration("cache.memory_ttl")
	cfg.Cache.TTL = v.GetDuration("cache.ttl")

	cfg.Tracing.Enabled = v.GetBool("tracing.enabled")
	cfg.Tracing.Endpoint = v.GetString("tracing.endpoint")
	cfg.Tracing.ServiceName = v.GetString("tracing.service_name")
	cfg.Tracing.Insecure = v.GetBool("tracing.insecure")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http_server.port", 8080)
	v.SetDefault("http_server.shutdown_timeout", "10s")

	v.SetDefault("logger.level", string(logging.LevelInfo))
	v.SetDefault("logger.pretty", false)

	v.SetDefault("account.name", "sandbox")
	v.SetDefault("fixture.path", "pkg/transport/fixture/testdata/sandbox.json")

	svc := service.DefaultConfig()
	v.SetDefault("service.max_concurrency", svc.MaxConcurrency)
	v.SetDefault("service.operation_timeout", svc.OperationTimeout.String())
	v.SetDefault("service.call_timeout", svc.CallTimeout.String())
	v.SetDefault("service.inventory_batch_size", svc.InventoryBatchSize)

	retry := transport.DefaultRetryConfig()
	v.SetDefault("retry.enabled", true)
	v.SetDefault("retry.max_attempts", retry.MaxAttempts)
	v.SetDefault("retry.initial_backoff", retry.InitialBackoff.String())
	v.SetDefault("retry.max_backoff", retry.MaxBackoff.String())

	quota := ratelimit.DefaultConfig("")
	v.SetDefault("quota.daily_limit", quota.DailyLimit)
	v.SetDefault("quota.critical_remaining", quota.CriticalRemaining)
	v.SetDefault("quota.warning_remaining", quota.WarningRemaining)
	v.SetDefault("quota.throttle_delay", quota.ThrottleDelay.String())
	v.SetDefault("quota.calls_per_second", quota.CallsPerSecond)
	v.SetDefault("quota.burst", quota.Burst)

	c := cache.DefaultConfig()
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.memory_size", c.MemorySize)
	v.SetDefault("cache.memory_ttl", c.MemoryTTL.String())
	v.SetDefault("cache.ttl", c.TTL.String())

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "localhost:4318")
	v.SetDefault("tracing.service_name", "ebay-sync")
	v.SetDefault("tracing.insecure", true)
}

// Validate checks values the library constructors would otherwise reject
// later and less clearly.
func (c *Config) Validate() error {
	if c.HTTPServer.Port <= 0 || c.HTTPServer.Port > 65535 {
		return fmt.Errorf("http_server.port out of range: %d", c.HTTPServer.Port)
	}
	if c.Account.Name == "" {
		return fmt.Errorf("account.name is required")
	}
	if c.Fixture.Path == "" {
		return fmt.Errorf("fixture.path is required")
	}
	if c.Service.MaxConcurrency < 1 {
		return fmt.Errorf("service.max_concurrency must be >= 1 (got %d)", c.Service.MaxConcurrency)
	}
	if c.Retry.Enabled && c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be >= 1 (got %d)", c.Retry.MaxAttempts)
	}
	return nil
}

// ServiceConfig returns the library configuration derived from c.
func (c *Config) ServiceConfig() service.Config {
	cfg := service.DefaultConfig()
	cfg.MaxConcurrency = c.Service.MaxConcurrency
	cfg.OperationTimeout = c.Service.OperationTimeout
	cfg.CallTimeout = c.Service.CallTimeout
	cfg.InventoryBatchSize = c.Service.InventoryBatchSize
	return cfg
}

// RetryPolicy returns the per-class backoff with attempt and backoff
// bounds overridden by c.
func (c *Config) RetryPolicy() transport.RetryPolicy {
	return func(class transport.ErrorClass) transport.RetryConfig {
		rc := transport.RetryConfigForErrorClass(class)
		rc.MaxAttempts = c.Retry.MaxAttempts
		if c.Retry.InitialBackoff > 0 {
			rc.InitialBackoff = c.Retry.InitialBackoff
		}
		if c.Retry.MaxBackoff > 0 {
			rc.MaxBackoff = c.Retry.MaxBackoff
		}
		return rc
	}
}

// QuotaConfig returns the call quota configuration for the account.
func (c *Config) QuotaConfig() ratelimit.Config {
	return ratelimit.Config{
		AccountName:       c.Account.Name,
		DailyLimit:        c.Quota.DailyLimit,
		CriticalRemaining: c.Quota.CriticalRemaining,
		WarningRemaining:  c.Quota.WarningRemaining,
		ThrottleDelay:     c.Quota.ThrottleDelay,
		CallsPerSecond:    c.Quota.CallsPerSecond,
		Burst:             c.Quota.Burst,
	}
}

// CacheConfig returns the item cache configuration.
func (c *Config) CacheConfig() cache.Config {
	return cache.Config{
		MemorySize: c.Cache.MemorySize,
		MemoryTTL:  c.Cache.MemoryTTL,
		TTL:        c.Cache.TTL,
	}
}
