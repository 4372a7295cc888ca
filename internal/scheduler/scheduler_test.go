package scheduler

import (
	"context"
	"errors"
	"testing"

	"splitledger-backend/config"
	"splitledger-backend/internal/dto"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

type recordingReportService struct {
	reqs []dto.LogProcessRequest
	err  error
}

func (s *recordingReportService) ProcessLogs(ctx context.Context, req dto.LogProcessRequest) (*dto.StoredReport, error) {
	s.reqs = append(s.reqs, req)
	if s.err != nil {
		return nil, s.err
	}
	return &dto.StoredReport{ID: "r-1"}, nil
}

func schedulerConfig(sources ...string) *config.Config {
	cfg := &config.Config{}
	cfg.LogProcessor.Schedule = "0 */15 * * * *"
	cfg.LogProcessor.ScheduleWorkers = 4
	cfg.LogProcessor.ScheduleSources = sources
	return cfg
}

func TestNewScheduler_DisabledWithoutSources(t *testing.T) {
	lc := fxtest.NewLifecycle(t)

	c, err := NewScheduler(lc, schedulerConfig(), &recordingReportService{}, zerolog.Nop())

	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestNewScheduler_InvalidSchedule(t *testing.T) {
	cfg := schedulerConfig("http://a")
	cfg.LogProcessor.Schedule = "every now and then"

	_, err := NewScheduler(fxtest.NewLifecycle(t), cfg, &recordingReportService{}, zerolog.Nop())

	assert.Error(t, err)
}

func TestNewScheduler_RegistersJob(t *testing.T) {
	lc := fxtest.NewLifecycle(t)

	c, err := NewScheduler(lc, schedulerConfig("http://a", "http://b"), &recordingReportService{}, zerolog.Nop())

	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Len(t, c.Entries(), 1)
	lc.RequireStart().RequireStop()
}

func TestRunReport(t *testing.T) {
	svc := &recordingReportService{}
	req := dto.LogProcessRequest{ParallelFileProcessingCount: 4, LogFiles: []string{"http://a"}}

	runReport(svc, req, zerolog.Nop())
	svc.err = errors.New("fetch failed")
	runReport(svc, req, zerolog.Nop())

	require.Len(t, svc.reqs, 2)
	assert.Equal(t, req, svc.reqs[0])
}
