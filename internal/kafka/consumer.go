package kafka

import (
	"context"
	"encoding/json"
	"time"

	"splitledger-backend/config"
	"splitledger-backend/internal/dto"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"go.uber.org/fx"
)

// JobConsumer reads log processing jobs. A message whose value cannot be
// decoded is returned together with the error so it can still be committed.
type JobConsumer interface {
	FetchJob(ctx context.Context) (*dto.LogProcessRequest, kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaJobConsumer struct {
	reader *kafka.Reader
	logger zerolog.Logger
}

// NewKafkaJobConsumer returns nil when no brokers are configured.
func NewKafkaJobConsumer(lc fx.Lifecycle, cfg *config.Config, logger zerolog.Logger) (JobConsumer, error) {
	logger = logger.With().Str("component", "kafka_consumer").Logger()
	if len(cfg.Kafka.Brokers) == 0 || cfg.Kafka.JobTopic == "" {
		logger.Warn().Msg("Kafka job topic not configured, job consumer disabled")
		return nil, nil
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Kafka.Brokers,
		GroupID:        cfg.Kafka.ConsumerGroup,
		Topic:          cfg.Kafka.JobTopic,
		MinBytes:       1,
		MaxBytes:       10e6,             // 10MB
		MaxWait:        10 * time.Second, // Wait up to 10 second for data
		CommitInterval: 0,
		StartOffset:    kafka.FirstOffset,
	})
	c := &kafkaJobConsumer{
		reader: reader,
		logger: logger,
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info().Str("group", cfg.Kafka.ConsumerGroup).Msg("Closing Kafka consumer")
			return c.Close()
		},
	})
	logger.Info().
		Strs("brokers", cfg.Kafka.Brokers).
		Str("topic", cfg.Kafka.JobTopic).
		Str("group", cfg.Kafka.ConsumerGroup).
		Msg("Kafka consumer initialized")
	return c, nil
}

func (c *kafkaJobConsumer) FetchJob(ctx context.Context) (*dto.LogProcessRequest, kafka.Message, error) {
	msg, err := c.reader.FetchMessage(ctx)
	if err != nil {
		return nil, kafka.Message{}, err
	}
	c.logger.Debug().
		Str("topic", msg.Topic).
		Int("partition", msg.Partition).
		Int64("offset", msg.Offset).
		Msg("Fetched job from Kafka")

	var job dto.LogProcessRequest
	if err := json.Unmarshal(msg.Value, &job); err != nil {
		c.logger.Error().Err(err).Int64("offset", msg.Offset).Msg("Failed to unmarshal Kafka job")
		return nil, msg, err
	}
	return &job, msg, nil
}

func (c *kafkaJobConsumer) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	if err := c.reader.CommitMessages(ctx, msgs...); err != nil {
		c.logger.Error().Err(err).Int("count", len(msgs)).Msg("Failed to commit Kafka messages")
		return err
	}
	c.logger.Debug().Int("count", len(msgs)).Int64("last_offset", msgs[len(msgs)-1].Offset).Msg("Committed Kafka messages")
	return nil
}

func (c *kafkaJobConsumer) Close() error {
	return c.reader.Close()
}
