package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"splitledger-backend/config"
	"splitledger-backend/internal/dto"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"go.uber.org/fx"
)

type ReportProducer interface {
	Publish(ctx context.Context, report dto.StoredReport) error
	Close() error
}

type kafkaReportProducer struct {
	writer *kafka.Writer
	topic  string
	logger zerolog.Logger
}

// NewKafkaReportProducer returns nil when no brokers are configured.
func NewKafkaReportProducer(lc fx.Lifecycle, cfg *config.Config, logger zerolog.Logger) (ReportProducer, error) {
	logger = logger.With().Str("component", "kafka_producer").Logger()
	if len(cfg.Kafka.Brokers) == 0 {
		logger.Warn().Msg("Kafka brokers not configured, report publishing disabled")
		return nil, nil
	}
	if cfg.Kafka.ReportTopic == "" {
		return nil, fmt.Errorf("kafka report topic is not configured")
	}

	writer := newReportWriter(cfg, logger)
	p := &kafkaReportProducer{
		writer: writer,
		topic:  cfg.Kafka.ReportTopic,
		logger: logger,
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("Closing Kafka producer")
			return p.Close()
		},
	})
	logger.Info().
		Strs("brokers", cfg.Kafka.Brokers).
		Str("topic", cfg.Kafka.ReportTopic).
		Dur("batch_timeout", cfg.Kafka.BatchTimeout).
		Bool("async", cfg.Kafka.Async).
		Msg("Kafka producer initialized")
	return p, nil
}

// newReportWriter applies the batching settings. kafka-go otherwise holds a
// lone message for a full second before flushing it.
func newReportWriter(cfg *config.Config, logger zerolog.Logger) *kafka.Writer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Kafka.Brokers...),
		Topic:        cfg.Kafka.ReportTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		BatchSize:    cfg.Kafka.BatchSize,
		BatchTimeout: cfg.Kafka.BatchTimeout,
		Async:        cfg.Kafka.Async,
	}
	if writer.Async {
		writer.Completion = func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error().Err(err).Int("count", len(messages)).Msg("Failed to deliver reports to Kafka")
			}
		}
	}
	return writer
}

// Publish writes the report as one JSON message keyed by report id.
func (p *kafkaReportProducer) Publish(ctx context.Context, report dto.StoredReport) error {
	value, err := json.Marshal(report)
	if err != nil {
		p.logger.Error().Err(err).Str("report_id", report.ID).Msg("Failed to marshal report for Kafka")
		return fmt.Errorf("marshal report: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(report.ID),
		Value: value,
	})
	if err != nil {
		p.logger.Error().Err(err).Str("report_id", report.ID).Msg("Failed to write report to Kafka")
		return err
	}

	p.logger.Debug().Str("report_id", report.ID).Str("topic", p.topic).Msg("Successfully produced report to Kafka")
	return nil
}

func (p *kafkaReportProducer) Close() error {
	return p.writer.Close()
}
