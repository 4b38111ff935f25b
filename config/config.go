package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Mpesa     MpesaConfig     `mapstructure:"mpesa"`
	Queue     QueueConfig     `mapstructure:"queue"`
	Webhook   WebhookConfig   `mapstructure:"webhook"`
	Broadcast BroadcastConfig `mapstructure:"broadcast"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// MpesaConfig holds Daraja API credentials and endpoints.
type MpesaConfig struct {
	Environment        string `mapstructure:"environment"` // sandbox, production
	ShortCode          string `mapstructure:"short_code"`
	Passkey            string `mapstructure:"passkey"`
	ConsumerKey        string `mapstructure:"consumer_key"`
	ConsumerSecret     string `mapstructure:"consumer_secret"`
	InitiatorName      string `mapstructure:"initiator_name"`
	SecurityCredential string `mapstructure:"security_credential"`
	CallbackBaseURL    string `mapstructure:"callback_base_url"`
	// BaseURLOverride points the client at an explicit API base instead of
	// the environment-derived Safaricom host. Used by tests and sandboxes
	// behind proxies.
	BaseURLOverride string `mapstructure:"base_url_override"`
}

// BaseURL returns the Daraja API base URL for the configured environment.
func (m MpesaConfig) BaseURL() string {
	if m.Environment == "production" {
		return "https://api.safaricom.co.ke"
	}
	return "https://sandbox.safaricom.co.ke"
}

// CallbackURL builds a callback URL under the configured public base.
func (m MpesaConfig) CallbackURL(path string) string {
	return m.CallbackBaseURL + "/callbacks" + path
}

// QueueConfig tunes the retry queue processor.
type QueueConfig struct {
	BatchLimit        int           `mapstructure:"batch_limit"`
	DefaultMaxRetries int           `mapstructure:"default_max_retries"`
	Concurrency       int           `mapstructure:"concurrency"`
	HTTPTimeout       time.Duration `mapstructure:"http_timeout"`
	InitialDelay      time.Duration `mapstructure:"initial_delay"`
	MaxDelay          time.Duration `mapstructure:"max_delay"`
	Multiplier        float64       `mapstructure:"multiplier"`
	JitterFactor      float64       `mapstructure:"jitter_factor"`
}

// WebhookConfig controls callback origin verification.
type WebhookConfig struct {
	AllowedIPs       []string      `mapstructure:"allowed_ips"`
	SkipVerification bool          `mapstructure:"skip_verification"`
	RateLimit        int           `mapstructure:"rate_limit"`
	RateLimitWindow  time.Duration `mapstructure:"rate_limit_window"`
	SweepInterval    time.Duration `mapstructure:"sweep_interval"`
}

// BroadcastConfig controls the live event broadcaster.
type BroadcastConfig struct {
	HeartbeatInterval time.Duration `mapstructure:"heartbeat_interval"`
	StaleTimeout      time.Duration `mapstructure:"stale_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: MPG_ (M-Pesa Payment Gateway).
// Nested keys use underscore: MPG_DATABASE_HOST, MPG_MPESA_CONSUMER_KEY, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "mpesa_gateway")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("mpesa.environment", "sandbox")
	v.SetDefault("mpesa.short_code", "174379")
	v.SetDefault("mpesa.passkey", "")
	v.SetDefault("mpesa.consumer_key", "")
	v.SetDefault("mpesa.consumer_secret", "")
	v.SetDefault("mpesa.initiator_name", "")
	v.SetDefault("mpesa.security_credential", "")
	v.SetDefault("mpesa.callback_base_url", "https://localhost:8080")
	v.SetDefault("queue.batch_limit", 10)
	v.SetDefault("queue.default_max_retries", 5)
	v.SetDefault("queue.concurrency", 1)
	v.SetDefault("queue.http_timeout", "30s")
	v.SetDefault("queue.initial_delay", "1s")
	v.SetDefault("queue.max_delay", "5m")
	v.SetDefault("queue.multiplier", 2.0)
	v.SetDefault("queue.jitter_factor", 0.1)
	v.SetDefault("webhook.allowed_ips", []string{
		// Safaricom production ranges
		"196.201.214.0/24",
		"196.201.212.0/24",
		"41.215.136.0/24",
		"41.215.137.0/24",
		// Localhost for testing
		"127.0.0.1",
		"::1",
	})
	v.SetDefault("webhook.skip_verification", false)
	v.SetDefault("webhook.rate_limit", 100)
	v.SetDefault("webhook.rate_limit_window", "60s")
	v.SetDefault("webhook.sweep_interval", "60s")
	v.SetDefault("broadcast.heartbeat_interval", "30s")
	v.SetDefault("broadcast.stale_timeout", "60s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: MPG_DATABASE_HOST -> database.host
	v.SetEnvPrefix("MPG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required — env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
