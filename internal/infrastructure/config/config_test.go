package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/debt-service/internal/infrastructure/config"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "debt-service", cfg.ServiceName)
	assert.Equal(t, config.StoragePostgres, cfg.Storage)
	assert.Equal(t, 9090, cfg.GRPCPort)
	assert.Equal(t, ":8080", cfg.HTTPAddr())
	assert.Equal(t, "debt.events", cfg.Kafka.Topic)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, 30*time.Second, cfg.Redis.LockTTL)
	assert.Equal(t, 500, cfg.Delinquency.BatchSize)
	assert.True(t, cfg.DB.Migrate)
}

func TestLoad_Environment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DEBT_GRPC_PORT", "9999")
	t.Setenv("DEBT_DB_PASSWORD", "s3cret")
	t.Setenv("DEBT_KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("DEBT_DELINQUENCY_GRACE_WINDOW", "72h")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.GRPCPort)
	assert.Equal(t, "s3cret", cfg.DB.Password)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 72*time.Hour, cfg.Delinquency.GraceWindow)
	require.NoError(t, cfg.Validate())
}

func TestLoad_YAMLFileAndDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	yaml := "storage: memory\nlog:\n  level: debug\n  format: text\nredis:\n  addr: redis:6379\n"
	path := filepath.Join(dir, "debt.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DEBT_HTTP_PORT=8181\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("DEBT_HTTP_PORT") })

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, config.StorageMemory, cfg.Storage)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 8181, cfg.HTTPPort)
	require.NoError(t, cfg.Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := config.Load("/nonexistent/debt.yaml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() config.Config {
		return config.Config{
			ServiceName: "debt-service",
			Storage:     config.StorageMemory,
			GRPCPort:    9090,
			HTTPPort:    8080,
			Kafka:       config.KafkaConfig{Topic: "debt.events"},
			Tracing:     config.TracingConfig{SampleRatio: 1},
			Delinquency: config.DelinquencyConfig{BatchSize: 10},
		}
	}

	tests := []struct {
		name   string
		mutate func(*config.Config)
		ok     bool
	}{
		{name: "valid", mutate: func(*config.Config) {}, ok: true},
		{name: "postgres without password", mutate: func(c *config.Config) { c.Storage = config.StoragePostgres }},
		{name: "postgres with url", mutate: func(c *config.Config) {
			c.Storage = config.StoragePostgres
			c.DB.URL = "postgres://x"
		}, ok: true},
		{name: "unknown storage", mutate: func(c *config.Config) { c.Storage = "sqlite" }},
		{name: "port clash", mutate: func(c *config.Config) { c.HTTPPort = c.GRPCPort }},
		{name: "bad port", mutate: func(c *config.Config) { c.GRPCPort = 70000 }},
		{name: "tls cert without key", mutate: func(c *config.Config) { c.GRPC.TLSCertFile = "server.pem" }},
		{name: "tls pair", mutate: func(c *config.Config) {
			c.GRPC.TLSCertFile = "server.pem"
			c.GRPC.TLSKeyFile = "server-key.pem"
		}, ok: true},
		{name: "negative grace", mutate: func(c *config.Config) { c.Delinquency.GraceWindow = -time.Hour }},
		{name: "zero batch", mutate: func(c *config.Config) { c.Delinquency.BatchSize = 0 }},
		{name: "sample ratio", mutate: func(c *config.Config) { c.Tracing.SampleRatio = 2 }},
		{name: "brokers without topic", mutate: func(c *config.Config) {
			c.Kafka.Brokers = []string{"k:9092"}
			c.Kafka.Topic = ""
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
