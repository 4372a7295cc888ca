package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.LogProcessor.FetchTimeout)
	assert.Equal(t, "skip", cfg.LogProcessor.ParsePolicy)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Empty(t, cfg.Elasticsearch.Addresses)
	assert.Empty(t, cfg.Database.DSN)
	assert.Equal(t, 100, cfg.ReportState.Retention)
	assert.Equal(t, 10*time.Millisecond, cfg.Kafka.BatchTimeout)
	assert.Equal(t, 100, cfg.Kafka.BatchSize)
	assert.True(t, cfg.Kafka.Async)
}

func TestNewConfig_FromEnvironment(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("LOG_REPORT_SOURCES", "http://a/log.txt,http://b/log.txt")
	t.Setenv("LOG_FETCH_TIMEOUT", "3s")
	t.Setenv("LOG_PARSE_POLICY", "fail")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, []string{"http://a/log.txt", "http://b/log.txt"}, cfg.LogProcessor.ScheduleSources)
	assert.Equal(t, 3*time.Second, cfg.LogProcessor.FetchTimeout)
	assert.Equal(t, "fail", cfg.LogProcessor.ParsePolicy)
}

func TestNewConfig_NonPositiveFetchTimeout(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("LOG_FETCH_TIMEOUT", "0s")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, cfg.LogProcessor.FetchTimeout)
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Nil(t, splitList(" , "))
	assert.Equal(t, []string{"a", "b"}, splitList("a, b"))
}
