package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the service
type Config struct {
	Server    ServerConfig
	Dataset   DatasetConfig
	Catalog   CatalogConfig
	Sessions  SessionConfig
	Auth      AuthConfig
	Kafka     KafkaConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Logging   LoggingConfig
}

// ServerConfig holds server specific configuration
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatasetConfig describes where the catalog is loaded from
type DatasetConfig struct {
	Type   string // "file", "url", "s3"
	Format string // "json", "yaml"; inferred when empty
	Watch  bool   // reload file datasets on change
	File   FileSourceConfig
	URL    URLSourceConfig
	S3     S3SourceConfig
}

// FileSourceConfig holds the local dataset path
type FileSourceConfig struct {
	Path string
}

// URLSourceConfig holds the remote dataset location
type URLSourceConfig struct {
	Address        string
	Timeout        time.Duration
	MaxElapsedTime time.Duration
}

// S3SourceConfig holds the dataset object location in S3
type S3SourceConfig struct {
	Bucket    string
	Key       string
	Region    string
	AccessKey string
	SecretKey string
	Endpoint  string
}

// CatalogConfig holds query defaults
type CatalogConfig struct {
	TagLimit     int
	DefaultLimit int
	MaxLimit     int
}

// SessionConfig holds filter session settings
type SessionConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration
}

// AuthConfig holds admin authentication configuration
type AuthConfig struct {
	JWTSecret         string
	AdminPasswordHash string
	TokenDuration     time.Duration
}

// KafkaConfig holds Kafka specific configuration
type KafkaConfig struct {
	Enabled  bool
	Brokers  string
	ClientID string
	Topic    string
}

// RedisConfig holds the response cache configuration
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
	Prefix   string
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerMinute int
	BurstSize         int
}

// LoggingConfig holds logging specific configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// BrokerList splits the comma separated broker string
func (k KafkaConfig) BrokerList() []string {
	var brokers []string
	for _, b := range strings.Split(k.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// LoadConfig loads the configuration from file and environment variables.
// An empty path skips the file and uses defaults plus environment.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables override, e.g. ATLAS_DATASET_FILE_PATH
	v.SetEnvPrefix("atlas")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readTimeout", "10s")
	v.SetDefault("server.writeTimeout", "10s")
	v.SetDefault("server.idleTimeout", "120s")

	// Dataset defaults
	v.SetDefault("dataset.type", "file")
	v.SetDefault("dataset.format", "")
	v.SetDefault("dataset.watch", false)
	v.SetDefault("dataset.file.path", "data/resources.json")
	v.SetDefault("dataset.url.timeout", "10s")
	v.SetDefault("dataset.url.maxElapsedTime", "1m")
	v.SetDefault("dataset.s3.region", "us-east-1")

	// Catalog defaults
	v.SetDefault("catalog.tagLimit", 12)
	v.SetDefault("catalog.defaultLimit", 50)
	v.SetDefault("catalog.maxLimit", 200)

	// Session defaults
	v.SetDefault("sessions.ttl", "30m")
	v.SetDefault("sessions.sweepInterval", "1m")

	// Auth defaults; empty secrets disable admin endpoints. Registered so
	// ATLAS_AUTH_JWTSECRET and ATLAS_AUTH_ADMINPASSWORDHASH are picked up.
	v.SetDefault("auth.jwtSecret", "")
	v.SetDefault("auth.adminPasswordHash", "")
	v.SetDefault("auth.tokenDuration", "1h")

	// Kafka defaults
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.clientID", "atlas-directory")
	v.SetDefault("kafka.topic", "catalog-events")

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.ttl", "5m")
	v.SetDefault("redis.prefix", "atlas")

	// Rate limit defaults
	v.SetDefault("rateLimit.enabled", true)
	v.SetDefault("rateLimit.requestsPerMinute", 600)
	v.SetDefault("rateLimit.burstSize", 50)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
