package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"splitledger-backend/config"
	"splitledger-backend/internal/dto"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// ReportIndexer stores one document per (bucket, exception) of a report.
type ReportIndexer interface {
	IndexReport(ctx context.Context, report dto.StoredReport) error
	Close(ctx context.Context) error
}

type elasticReportIndexer struct {
	bulkIndexer     esutil.BulkIndexer
	indexPrefix     string
	countSuccessful uint64
	countFailed     uint64
	logger          zerolog.Logger
}

// NewElasticReportIndexer returns nil when client is nil.
func NewElasticReportIndexer(lc fx.Lifecycle, cfg *config.Config, client *elasticsearch.Client, logger zerolog.Logger) (ReportIndexer, error) {
	if client == nil {
		return nil, nil
	}
	idx := &elasticReportIndexer{
		indexPrefix: cfg.Elasticsearch.ReportIndex,
		logger:      logger.With().Str("component", "report_indexer").Logger(),
	}

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Client:        client,
		Index:         idx.indexName(time.Now()),
		NumWorkers:    cfg.Elasticsearch.BulkWorkers,
		FlushBytes:    cfg.Elasticsearch.FlushBytes,
		FlushInterval: cfg.Elasticsearch.FlushInterval,
		OnError: func(ctx context.Context, err error) {
			idx.logger.Error().Err(err).Msg("BulkIndexer error")
		},
	})
	if err != nil {
		idx.logger.Error().Err(err).Msg("Error creating the BulkIndexer")
		return nil, err
	}
	idx.bulkIndexer = bi
	idx.logger.Info().Msg("Elasticsearch BulkIndexer initialized")

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			idx.logger.Info().Msg("Closing Elasticsearch BulkIndexer...")
			return idx.Close(ctx)
		},
	})
	return idx, nil
}

// IndexReport queues the report's documents. Only failures to queue are
// returned; flush failures happen later and are logged and counted.
func (s *elasticReportIndexer) IndexReport(ctx context.Context, report dto.StoredReport) error {
	var queueErrs []error
	index := s.indexName(report.CreatedAt)
	added := 0

	for _, bucket := range report.Response {
		for _, event := range bucket.Entries {
			doc := dto.BucketDocument{
				ReportID:  report.ID,
				Bucket:    bucket.Bucket,
				Exception: event.EventKey,
				Count:     event.Count,
				CreatedAt: report.CreatedAt,
			}
			data, err := json.Marshal(doc)
			if err != nil {
				s.logger.Error().Err(err).Msg("Failed to marshal bucket document")
				atomic.AddUint64(&s.countFailed, 1)
				queueErrs = append(queueErrs, err)
				continue
			}

			err = s.bulkIndexer.Add(ctx, esutil.BulkIndexerItem{
				Action:     "index",
				Index:      index,
				DocumentID: fmt.Sprintf("%s:%s:%s", report.ID, bucket.Bucket, event.EventKey),
				Body:       bytes.NewReader(data),
				OnSuccess: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem) {
					atomic.AddUint64(&s.countSuccessful, 1)
				},
				OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
					atomic.AddUint64(&s.countFailed, 1)
					if err != nil {
						s.logger.Error().Err(err).Str("document", item.DocumentID).Msg("Bulk index failure")
					} else {
						s.logger.Error().Str("type", res.Error.Type).Str("reason", res.Error.Reason).Str("document", item.DocumentID).Msg("Bulk index failure")
					}
				},
			})
			if err != nil {
				s.logger.Error().Err(err).Msg("Failed to add item to BulkIndexer")
				atomic.AddUint64(&s.countFailed, 1)
				queueErrs = append(queueErrs, err)
				continue
			}
			added++
		}
	}
	s.logger.Debug().Str("report_id", report.ID).Int("documents", added).Msg("Added bucket documents to BulkIndexer queue")

	if len(queueErrs) > 0 {
		return fmt.Errorf("queue %d of %d bucket documents for report %s: %w",
			len(queueErrs), added+len(queueErrs), report.ID, errors.Join(queueErrs...))
	}
	return nil
}

func (s *elasticReportIndexer) Close(ctx context.Context) error {
	err := s.bulkIndexer.Close(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error closing BulkIndexer")
	}

	stats := s.bulkIndexer.Stats()
	s.logger.Info().
		Uint64("indexed", stats.NumIndexed).
		Uint64("added", stats.NumAdded).
		Uint64("flushed", stats.NumFlushed).
		Uint64("failed", stats.NumFailed).
		Uint64("requests", stats.NumRequests).
		Uint64("callback_successful", atomic.LoadUint64(&s.countSuccessful)).
		Uint64("callback_failed", atomic.LoadUint64(&s.countFailed)).
		Msg("Elasticsearch BulkIndexer final stats")
	return err
}

// indexName generates the daily index name, e.g. "logreports-2024-03-01".
func (s *elasticReportIndexer) indexName(at time.Time) string {
	return fmt.Sprintf("%s-%s", s.indexPrefix, at.UTC().Format("2006-01-02"))
}
