package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "file", cfg.Dataset.Type)
	assert.Equal(t, 12, cfg.Catalog.TagLimit)
	assert.Equal(t, 30*time.Minute, cfg.Sessions.TTL)
	assert.Equal(t, "catalog-events", cfg.Kafka.Topic)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: "9090"
dataset:
  type: url
  url:
    address: https://atlas.example/resources.json
catalog:
  tagLimit: 8
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("ATLAS_LOGGING_LEVEL", "debug")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "url", cfg.Dataset.Type)
	assert.Equal(t, "https://atlas.example/resources.json", cfg.Dataset.URL.Address)
	assert.Equal(t, 8, cfg.Catalog.TagLimit)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestBrokerList(t *testing.T) {
	k := KafkaConfig{Brokers: "kafka-1:9092, kafka-2:9092,,"}
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, k.BrokerList())
	assert.Empty(t, KafkaConfig{}.BrokerList())
}
