package service

import (
	"context"
	"time"

	"splitledger-backend/internal/aggregator"
	"splitledger-backend/internal/dto"
	"splitledger-backend/internal/elasticsearch"
	"splitledger-backend/internal/fetcher"
	"splitledger-backend/internal/kafka"
	"splitledger-backend/internal/parser"
	"splitledger-backend/internal/store"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// LogReportService runs the log aggregation pipeline for one request:
// validate, fetch, normalize, aggregate, format. A request either yields a
// full report or an error; nothing partial is returned or stored.
type LogReportService interface {
	ProcessLogs(ctx context.Context, req dto.LogProcessRequest) (*dto.StoredReport, error)
}

type logReportService struct {
	fetcher    fetcher.Fetcher
	normalizer parser.LogNormalizer
	reports    store.ReportStore
	producer   kafka.ReportProducer
	indexer    elasticsearch.ReportIndexer
	logger     zerolog.Logger
	now        func() time.Time
}

// NewLogReportService accepts nil producer and indexer.
func NewLogReportService(
	f fetcher.Fetcher,
	normalizer parser.LogNormalizer,
	reports store.ReportStore,
	producer kafka.ReportProducer,
	indexer elasticsearch.ReportIndexer,
	logger zerolog.Logger,
) LogReportService {
	return &logReportService{
		fetcher:    f,
		normalizer: normalizer,
		reports:    reports,
		producer:   producer,
		indexer:    indexer,
		logger:     logger.With().Str("component", "log_report_service").Logger(),
		now:        time.Now,
	}
}

func (s *logReportService) ProcessLogs(ctx context.Context, req dto.LogProcessRequest) (*dto.StoredReport, error) {
	if err := fetcher.Validate(req.LogFiles, req.ParallelFileProcessingCount); err != nil {
		s.logger.Info().Err(err).
			Int("workers", req.ParallelFileProcessingCount).
			Int("sources", len(req.LogFiles)).
			Msg("Rejected log processing request")
		return nil, err
	}

	startTime := s.now()
	lines, err := s.fetcher.Fetch(ctx, req.LogFiles, req.ParallelFileProcessingCount)
	if err != nil {
		return nil, err
	}

	normalized, err := s.normalizer.Normalize(lines)
	if err != nil {
		return nil, err
	}

	report := dto.StoredReport{
		ID:        uuid.NewString(),
		CreatedAt: startTime.UTC(),
		Sources:   req.LogFiles,
		Skipped:   normalized.Skipped,
		Response:  aggregator.Format(aggregator.Aggregate(normalized.Entries)),
	}

	if s.reports != nil {
		if _, err := s.reports.Save(ctx, report); err != nil {
			s.logger.Error().Err(err).Str("report_id", report.ID).Msg("Failed to persist report, serving it anyway")
		}
	}
	s.publish(ctx, report)

	s.logger.Info().
		Str("report_id", report.ID).
		Int("sources", len(req.LogFiles)).
		Int("lines", len(lines)).
		Int("entries", len(normalized.Entries)).
		Int("skipped", normalized.Skipped).
		Int("buckets", len(report.Response)).
		Dur("duration", time.Since(startTime)).
		Msg("Log report built")
	return &report, nil
}

// publish fans the report out to the optional sinks. Failures are logged only.
func (s *logReportService) publish(ctx context.Context, report dto.StoredReport) {
	if s.producer != nil {
		if err := s.producer.Publish(ctx, report); err != nil {
			s.logger.Error().Err(err).Str("report_id", report.ID).Msg("Failed to publish report to Kafka")
		}
	}
	if s.indexer != nil {
		if err := s.indexer.IndexReport(ctx, report); err != nil {
			s.logger.Error().Err(err).Str("report_id", report.ID).Msg("Failed to index report buckets")
		}
	}
}
