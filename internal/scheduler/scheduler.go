package scheduler

import (
	"context"

	"splitledger-backend/config"
	"splitledger-backend/internal/dto"
	"splitledger-backend/internal/service"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// NewScheduler registers the periodic report job. It returns nil when no
// sources are configured.
func NewScheduler(lc fx.Lifecycle, cfg *config.Config, reports service.LogReportService, logger zerolog.Logger) (*cron.Cron, error) {
	logger = logger.With().Str("component", "scheduler").Logger()
	if len(cfg.LogProcessor.ScheduleSources) == 0 {
		logger.Info().Msg("No scheduled log sources configured, scheduler disabled")
		return nil, nil
	}

	c, err := newCron(cfg, reports, logger)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info().Msg("Starting cron scheduler")
			c.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("Stopping cron scheduler...")
			stopCtx := c.Stop()
			select {
			case <-stopCtx.Done():
				logger.Info().Msg("Cron scheduler stopped gracefully.")
				return nil
			case <-ctx.Done():
				logger.Error().Msg("Context cancelled while waiting for cron scheduler to stop.")
				return ctx.Err()
			}
		},
	})
	return c, nil
}

func newCron(cfg *config.Config, reports service.LogReportService, logger zerolog.Logger) (*cron.Cron, error) {
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.DowOptional | cron.Descriptor)
	c := cron.New(cron.WithParser(parser), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	schedule := cfg.LogProcessor.Schedule
	req := dto.LogProcessRequest{
		ParallelFileProcessingCount: cfg.LogProcessor.ScheduleWorkers,
		LogFiles:                    cfg.LogProcessor.ScheduleSources,
	}
	if _, err := c.AddFunc(schedule, func() { runReport(reports, req, logger) }); err != nil {
		return nil, err
	}
	logger.Info().
		Str("schedule", schedule).
		Int("sources", len(req.LogFiles)).
		Int("workers", req.ParallelFileProcessingCount).
		Msg("Scheduled log report job")
	return c, nil
}

func runReport(reports service.LogReportService, req dto.LogProcessRequest, logger zerolog.Logger) {
	report, err := reports.ProcessLogs(context.Background(), req)
	if err != nil {
		logger.Error().Err(err).Msg("Error during scheduled log report")
		return
	}
	logger.Info().Str("report_id", report.ID).Int("buckets", len(report.Response)).Msg("Scheduled log report stored")
}
