// Package config loads debt-service configuration from an optional .env
// file, an optional YAML file and DEBT_-prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	pkgpostgres "github.com/bibbank/debt-service/pkg/postgres"
)

// Storage drivers.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type DatabaseConfig struct {
	URL      string `mapstructure:"url"`
	Host     string `mapstructure:"host"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	Port     int    `mapstructure:"port"`
	MaxConns int32  `mapstructure:"max_conns"`
	Migrate  bool   `mapstructure:"migrate"`
}

// Postgres converts the section to the pool configuration.
func (d DatabaseConfig) Postgres() pkgpostgres.Config {
	return pkgpostgres.Config{
		URL:      d.URL,
		Host:     d.Host,
		Port:     d.Port,
		User:     d.User,
		Password: d.Password,
		Database: d.Name,
		SSLMode:  d.SSLMode,
		MaxConns: d.MaxConns,
	}
}

type KafkaConfig struct {
	Topic         string   `mapstructure:"topic"`
	SASLMechanism string   `mapstructure:"sasl_mechanism"`
	SASLUsername  string   `mapstructure:"sasl_username"`
	SASLPassword  string   `mapstructure:"sasl_password"`
	Brokers       []string `mapstructure:"brokers"`
	TLS           bool     `mapstructure:"tls"`
	SASLEnabled   bool     `mapstructure:"sasl_enabled"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	LockTTL  time.Duration `mapstructure:"lock_ttl"`
	LockWait time.Duration `mapstructure:"lock_wait"`
}

// GRPCConfig enables TLS when both files are set.
type GRPCConfig struct {
	TLSCertFile string `mapstructure:"tls_cert_file"`
	TLSKeyFile  string `mapstructure:"tls_key_file"`
	Reflection  bool   `mapstructure:"reflection"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type TracingConfig struct {
	Endpoint    string  `mapstructure:"endpoint"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
	Insecure    bool    `mapstructure:"insecure"`
}

// DelinquencyConfig drives the MarkOverdue sweep.
type DelinquencyConfig struct {
	GraceWindow time.Duration `mapstructure:"grace_window"`
	BatchSize   int           `mapstructure:"batch_size"`
}

type Config struct {
	ServiceName string            `mapstructure:"service_name"`
	Storage     string            `mapstructure:"storage"`
	GRPCPort    int               `mapstructure:"grpc_port"`
	HTTPPort    int               `mapstructure:"http_port"`
	GRPC        GRPCConfig        `mapstructure:"grpc"`
	DB          DatabaseConfig    `mapstructure:"db"`
	Kafka       KafkaConfig       `mapstructure:"kafka"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Log         LogConfig         `mapstructure:"log"`
	Tracing     TracingConfig     `mapstructure:"tracing"`
	Delinquency DelinquencyConfig `mapstructure:"delinquency"`
}

var defaults = map[string]any{
	"service_name":             "debt-service",
	"storage":                  StoragePostgres,
	"grpc_port":                9090,
	"http_port":                8080,
	"grpc.tls_cert_file":       "",
	"grpc.tls_key_file":        "",
	"grpc.reflection":          false,
	"db.url":                   "",
	"db.host":                  "localhost",
	"db.port":                  5432,
	"db.user":                  "debt",
	"db.password":              "",
	"db.name":                  "debt",
	"db.sslmode":               "require",
	"db.max_conns":             10,
	"db.migrate":               true,
	"kafka.brokers":            []string{},
	"kafka.topic":              "debt.events",
	"kafka.tls":                false,
	"kafka.sasl_enabled":       false,
	"kafka.sasl_mechanism":     "",
	"kafka.sasl_username":      "",
	"kafka.sasl_password":      "",
	"redis.addr":               "",
	"redis.password":           "",
	"redis.db":                 0,
	"redis.lock_ttl":           "30s",
	"redis.lock_wait":          "10s",
	"log.level":                "info",
	"log.format":               "json",
	"tracing.endpoint":         "",
	"tracing.insecure":         true,
	"tracing.sample_ratio":     1.0,
	"delinquency.grace_window": "0s",
	"delinquency.batch_size":   500,
}

// Load reads .env (if present), the YAML file at path (if non-empty) and the
// environment. DEBT_DB_PASSWORD sets db.password.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix("DEBT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.ServiceName == "":
		return errors.New("config: service_name is required")
	case c.GRPCPort <= 0 || c.GRPCPort > 65535:
		return fmt.Errorf("config: invalid grpc_port %d", c.GRPCPort)
	case c.HTTPPort <= 0 || c.HTTPPort > 65535:
		return fmt.Errorf("config: invalid http_port %d", c.HTTPPort)
	case c.GRPCPort == c.HTTPPort:
		return errors.New("config: grpc_port and http_port must differ")
	case (c.GRPC.TLSCertFile == "") != (c.GRPC.TLSKeyFile == ""):
		return errors.New("config: grpc.tls_cert_file and grpc.tls_key_file must be set together")
	case c.Delinquency.GraceWindow < 0:
		return errors.New("config: delinquency.grace_window must not be negative")
	case c.Delinquency.BatchSize <= 0:
		return errors.New("config: delinquency.batch_size must be positive")
	case c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1:
		return fmt.Errorf("config: tracing.sample_ratio %v outside [0,1]", c.Tracing.SampleRatio)
	}

	switch c.Storage {
	case StorageMemory:
	case StoragePostgres:
		if c.DB.URL == "" && c.DB.Password == "" {
			return errors.New("config: DEBT_DB_PASSWORD or DEBT_DB_URL is required for postgres storage")
		}
	default:
		return fmt.Errorf("config: unknown storage %q", c.Storage)
	}

	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		return errors.New("config: kafka.topic is required when brokers are set")
	}
	return nil
}

func (c Config) GRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
