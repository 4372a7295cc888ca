package config

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server        ServerConfig
	Logging       LoggingConfig
	Database      DatabaseConfig
	Kafka         KafkaConfig
	LogProcessor  LogProcessorConfig
	Elasticsearch ElasticsearchConfig
	ReportState   ReportStateConfig
}

type ServerConfig struct {
	Port string
}

type LoggingConfig struct {
	Level  string
	Pretty bool
}

// DatabaseConfig points at the Postgres ledger. An empty DSN disables the
// balance endpoints.
type DatabaseConfig struct {
	DSN            string
	ConnectTimeout time.Duration
}

// KafkaConfig is optional; no brokers means no report publishing and no job consumer.
type KafkaConfig struct {
	Brokers       []string
	ReportTopic   string
	JobTopic      string
	ConsumerGroup string
	BatchSize     int
	BatchTimeout  time.Duration // Max wait before a partial batch is flushed
	Async         bool          // Publish without waiting for broker acks
}

type LogProcessorConfig struct {
	FetchTimeout    time.Duration
	ParsePolicy     string
	Schedule        string
	ScheduleSources []string
	ScheduleWorkers int
}

type ElasticsearchConfig struct {
	Addresses     []string
	ReportIndex   string
	BulkWorkers   int           // Number of concurrent goroutines for bulk indexing
	FlushBytes    int           // Flush threshold for bulk indexer
	FlushInterval time.Duration // Flush interval for bulk indexer
}

type ReportStateConfig struct {
	FilePath  string
	Retention int
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_PRETTY", false)
	viper.SetDefault("DATABASE_DSN", "")
	viper.SetDefault("DATABASE_CONNECT_TIMEOUT", "30s")
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_REPORT_TOPIC", "log_reports")
	viper.SetDefault("KAFKA_JOB_TOPIC", "log_report_jobs")
	viper.SetDefault("KAFKA_CONSUMER_GROUP", "log_report_workers")
	viper.SetDefault("KAFKA_BATCH_SIZE", 100)
	viper.SetDefault("KAFKA_BATCH_TIMEOUT", "10ms")
	viper.SetDefault("KAFKA_ASYNC", true)
	viper.SetDefault("LOG_FETCH_TIMEOUT", "10s")
	viper.SetDefault("LOG_PARSE_POLICY", "skip")
	viper.SetDefault("LOG_REPORT_SCHEDULE", "0 */15 * * * *") // Every quarter hour
	viper.SetDefault("LOG_REPORT_SOURCES", "")
	viper.SetDefault("LOG_REPORT_WORKERS", 4)
	viper.SetDefault("ELASTICSEARCH_ADDRESSES", "")
	viper.SetDefault("ELASTICSEARCH_REPORT_INDEX", "logreports")
	viper.SetDefault("ELASTICSEARCH_BULK_WORKERS", 2)
	viper.SetDefault("ELASTICSEARCH_FLUSH_BYTES", 1048576) // 1MB
	viper.SetDefault("ELASTICSEARCH_FLUSH_INTERVAL", "5s")
	viper.SetDefault("REPORT_STATE_PATH", "./report_state.json")
	viper.SetDefault("REPORT_RETENTION", 100)

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config
	config.Server.Port = viper.GetString("SERVER_PORT")

	config.Logging.Level = viper.GetString("LOG_LEVEL")
	config.Logging.Pretty = viper.GetBool("LOG_PRETTY")

	config.Database.DSN = viper.GetString("DATABASE_DSN")
	config.Database.ConnectTimeout = viper.GetDuration("DATABASE_CONNECT_TIMEOUT")

	// --- Kafka ---
	config.Kafka.Brokers = splitList(viper.GetString("KAFKA_BROKERS"))
	config.Kafka.ReportTopic = viper.GetString("KAFKA_REPORT_TOPIC")
	config.Kafka.JobTopic = viper.GetString("KAFKA_JOB_TOPIC")
	config.Kafka.ConsumerGroup = viper.GetString("KAFKA_CONSUMER_GROUP")
	config.Kafka.BatchSize = viper.GetInt("KAFKA_BATCH_SIZE")
	config.Kafka.BatchTimeout = viper.GetDuration("KAFKA_BATCH_TIMEOUT")
	config.Kafka.Async = viper.GetBool("KAFKA_ASYNC")

	// --- Log Processor ---
	config.LogProcessor.FetchTimeout = viper.GetDuration("LOG_FETCH_TIMEOUT")
	if config.LogProcessor.FetchTimeout <= 0 {
		log.Warn().Dur("fetch_timeout", config.LogProcessor.FetchTimeout).Msg("LOG_FETCH_TIMEOUT must be positive, using 10s")
		config.LogProcessor.FetchTimeout = 10 * time.Second
	}
	config.LogProcessor.ParsePolicy = viper.GetString("LOG_PARSE_POLICY")
	config.LogProcessor.Schedule = viper.GetString("LOG_REPORT_SCHEDULE")
	config.LogProcessor.ScheduleSources = splitList(viper.GetString("LOG_REPORT_SOURCES"))
	config.LogProcessor.ScheduleWorkers = viper.GetInt("LOG_REPORT_WORKERS")

	// --- Elasticsearch ---
	config.Elasticsearch.Addresses = splitList(viper.GetString("ELASTICSEARCH_ADDRESSES"))
	config.Elasticsearch.ReportIndex = viper.GetString("ELASTICSEARCH_REPORT_INDEX")
	config.Elasticsearch.BulkWorkers = viper.GetInt("ELASTICSEARCH_BULK_WORKERS")
	config.Elasticsearch.FlushBytes = viper.GetInt("ELASTICSEARCH_FLUSH_BYTES")
	config.Elasticsearch.FlushInterval = viper.GetDuration("ELASTICSEARCH_FLUSH_INTERVAL")

	// --- Report State ---
	config.ReportState.FilePath = viper.GetString("REPORT_STATE_PATH")
	config.ReportState.Retention = viper.GetInt("REPORT_RETENTION")

	log.Info().
		Str("port", config.Server.Port).
		Bool("ledger_enabled", config.Database.DSN != "").
		Strs("kafka_brokers", config.Kafka.Brokers).
		Strs("elasticsearch", config.Elasticsearch.Addresses).
		Str("parse_policy", config.LogProcessor.ParsePolicy).
		Int("scheduled_sources", len(config.LogProcessor.ScheduleSources)).
		Msg("Config loaded")
	return &config, nil
}

// splitList splits a comma separated value, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
