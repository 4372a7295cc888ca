package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"splitledger-backend/internal/kafka"

	"github.com/rs/zerolog"
)

// ReportJobWorker consumes log processing jobs from Kafka and runs each one
// through the LogReportService. Every fetched message is committed once its
// job has finished, whether it succeeded or not.
type ReportJobWorker interface {
	Run(ctx context.Context, wg *sync.WaitGroup)
}

type reportJobWorker struct {
	consumer kafka.JobConsumer
	reports  LogReportService
	logger   zerolog.Logger
	backoff  time.Duration
}

func NewReportJobWorker(consumer kafka.JobConsumer, reports LogReportService, logger zerolog.Logger) ReportJobWorker {
	if consumer == nil {
		return nil
	}
	return &reportJobWorker{
		consumer: consumer,
		reports:  reports,
		logger:   logger.With().Str("component", "report_job_worker").Logger(),
		backoff:  time.Second,
	}
}

func (w *reportJobWorker) Run(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()
	w.logger.Info().Msg("Starting report job worker loop...")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("Report job worker stopping due to context cancellation.")
			return
		default:
		}

		if err := w.processNext(ctx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				w.logger.Info().Msg("Context cancelled while processing job.")
				return
			}
			w.logger.Error().Err(err).Msg("Error fetching report job")
			select {
			case <-ctx.Done():
				return
			case <-time.After(w.backoff):
			}
		}
	}
}

func (w *reportJobWorker) processNext(ctx context.Context) error {
	job, msg, err := w.consumer.FetchJob(ctx)
	if err != nil {
		if msg.Topic == "" {
			return err
		}
		// Undecodable job: commit it so it is not redelivered.
		w.logger.Warn().Err(err).Int64("offset", msg.Offset).Msg("Dropping undecodable report job")
		return w.consumer.CommitMessages(ctx, msg)
	}

	report, err := w.reports.ProcessLogs(ctx, *job)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		w.logger.Error().Err(err).
			Int64("offset", msg.Offset).
			Int("sources", len(job.LogFiles)).
			Msg("Report job failed")
	} else {
		w.logger.Info().Str("report_id", report.ID).Int64("offset", msg.Offset).Msg("Report job completed")
	}
	return w.consumer.CommitMessages(ctx, msg)
}
