package service_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"splitledger-backend/internal/dto"
	"splitledger-backend/internal/fetcher"
	"splitledger-backend/internal/model"
	"splitledger-backend/internal/parser"
	"splitledger-backend/internal/service"
	"splitledger-backend/internal/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	lines []string
	err   error
	calls int
}

func (f *stubFetcher) Fetch(ctx context.Context, sources []string, workers int) ([]string, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.lines, nil
}

type recordingProducer struct {
	mu      sync.Mutex
	reports []dto.StoredReport
	err     error
}

func (p *recordingProducer) Publish(ctx context.Context, report dto.StoredReport) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reports = append(p.reports, report)
	return p.err
}

func (p *recordingProducer) Close() error { return nil }

type recordingIndexer struct {
	reports []dto.StoredReport
}

func (i *recordingIndexer) IndexReport(ctx context.Context, report dto.StoredReport) error {
	i.reports = append(i.reports, report)
	return nil
}

func (i *recordingIndexer) Close(ctx context.Context) error { return nil }

func newReportStore(t *testing.T) store.ReportStore {
	t.Helper()
	s, err := store.NewReportStore(nil, 10, zerolog.Nop())
	require.NoError(t, err)
	return s
}

func TestProcessLogs_EndToEnd(t *testing.T) {
	first := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "x 1700000000000 OOM\nx 1700000001000 OOM\n")
	}))
	defer first.Close()
	second := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "x 1700000002000 NPE\n")
	}))
	defer second.Close()

	reports := newReportStore(t)
	svc := service.NewLogReportService(
		fetcher.NewHTTPFetcher(fetcher.Config{Timeout: 2 * time.Second}, nil, zerolog.Nop()),
		parser.NewLogNormalizer(parser.PolicySkip, zerolog.Nop()),
		reports, nil, nil, zerolog.Nop(),
	)

	report, err := svc.ProcessLogs(context.Background(), dto.LogProcessRequest{
		ParallelFileProcessingCount: 2,
		LogFiles:                    []string{first.URL, second.URL},
	})

	require.NoError(t, err)
	assert.Equal(t, model.Report{{
		Bucket: "22:00-22:15",
		Entries: []model.EventCount{
			{EventKey: "NPE", Count: 1},
			{EventKey: "OOM", Count: 2},
		},
	}}, report.Response)
	assert.NotEmpty(t, report.ID)

	stored, err := reports.Get(context.Background(), report.ID)
	require.NoError(t, err)
	assert.Equal(t, report.Response, stored.Response)
}

func TestProcessLogs_ValidationBeforeFetch(t *testing.T) {
	f := &stubFetcher{}
	svc := service.NewLogReportService(f, parser.NewLogNormalizer(parser.PolicySkip, zerolog.Nop()), newReportStore(t), nil, nil, zerolog.Nop())

	tests := []struct {
		name string
		req  dto.LogProcessRequest
		want error
	}{
		{name: "zero workers", req: dto.LogProcessRequest{ParallelFileProcessingCount: 0, LogFiles: []string{"http://a"}}, want: fetcher.ErrWorkerCountOutOfBounds},
		{name: "31 workers", req: dto.LogProcessRequest{ParallelFileProcessingCount: 31, LogFiles: []string{"http://a"}}, want: fetcher.ErrWorkerCountOutOfBounds},
		{name: "no files", req: dto.LogProcessRequest{ParallelFileProcessingCount: 3}, want: fetcher.ErrNoSources},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ProcessLogs(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Equal(t, 0, f.calls)
}

func TestProcessLogs_FetchFailureIsAllOrNothing(t *testing.T) {
	f := &stubFetcher{err: &fetcher.FetchError{Source: "http://a", Err: errors.New("connection refused")}}
	reports := newReportStore(t)
	producer := &recordingProducer{}
	svc := service.NewLogReportService(f, parser.NewLogNormalizer(parser.PolicySkip, zerolog.Nop()), reports, producer, nil, zerolog.Nop())

	report, err := svc.ProcessLogs(context.Background(), dto.LogProcessRequest{ParallelFileProcessingCount: 1, LogFiles: []string{"http://a"}})

	assert.Nil(t, report)
	assert.ErrorIs(t, err, fetcher.ErrFetch)
	list, _ := reports.List(context.Background())
	assert.Empty(t, list)
	assert.Empty(t, producer.reports)
}

func TestProcessLogs_ParsePolicies(t *testing.T) {
	lines := []string{"x 1700000000000 OOM", "x not-a-time OOM"}
	req := dto.LogProcessRequest{ParallelFileProcessingCount: 1, LogFiles: []string{"http://a"}}

	skip := service.NewLogReportService(&stubFetcher{lines: lines}, parser.NewLogNormalizer(parser.PolicySkip, zerolog.Nop()), newReportStore(t), nil, nil, zerolog.Nop())
	report, err := skip.ProcessLogs(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 1, report.Response.Total())

	fail := service.NewLogReportService(&stubFetcher{lines: lines}, parser.NewLogNormalizer(parser.PolicyFail, zerolog.Nop()), newReportStore(t), nil, nil, zerolog.Nop())
	_, err = fail.ProcessLogs(context.Background(), req)
	assert.ErrorIs(t, err, parser.ErrMalformedLine)
}

func TestProcessLogs_PublishesToSinks(t *testing.T) {
	producer := &recordingProducer{err: errors.New("broker down")}
	indexer := &recordingIndexer{}
	svc := service.NewLogReportService(
		&stubFetcher{lines: []string{"x 1700000000000 OOM"}},
		parser.NewLogNormalizer(parser.PolicySkip, zerolog.Nop()),
		newReportStore(t), producer, indexer, zerolog.Nop(),
	)

	report, err := svc.ProcessLogs(context.Background(), dto.LogProcessRequest{ParallelFileProcessingCount: 1, LogFiles: []string{"http://a"}})

	require.NoError(t, err, "sink failures must not fail the request")
	require.Len(t, producer.reports, 1)
	require.Len(t, indexer.reports, 1)
	assert.Equal(t, report.ID, producer.reports[0].ID)
	assert.Equal(t, report.ID, indexer.reports[0].ID)
}
