package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"splitledger-backend/internal/dto"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fetchResult struct {
	job *dto.LogProcessRequest
	msg kafka.Message
	err error
}

type fakeJobConsumer struct {
	mu        sync.Mutex
	results   []fetchResult
	committed []int64
	drained   chan struct{}
}

func (c *fakeJobConsumer) FetchJob(ctx context.Context) (*dto.LogProcessRequest, kafka.Message, error) {
	c.mu.Lock()
	if len(c.results) > 0 {
		r := c.results[0]
		c.results = c.results[1:]
		c.mu.Unlock()
		return r.job, r.msg, r.err
	}
	c.mu.Unlock()
	select {
	case c.drained <- struct{}{}:
	default:
	}
	<-ctx.Done()
	return nil, kafka.Message{}, ctx.Err()
}

func (c *fakeJobConsumer) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, m := range msgs {
		c.committed = append(c.committed, m.Offset)
	}
	return nil
}

func (c *fakeJobConsumer) Close() error { return nil }

type fakeLogReportService struct {
	mu   sync.Mutex
	jobs []dto.LogProcessRequest
	err  error
}

func (s *fakeLogReportService) ProcessLogs(ctx context.Context, req dto.LogProcessRequest) (*dto.StoredReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, req)
	if s.err != nil {
		return nil, s.err
	}
	return &dto.StoredReport{ID: "r-1"}, nil
}

func runWorker(t *testing.T, consumer *fakeJobConsumer, reports LogReportService) {
	t.Helper()
	w := NewReportJobWorker(consumer, reports, zerolog.Nop()).(*reportJobWorker)
	w.backoff = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go w.Run(ctx, &wg)

	select {
	case <-consumer.drained:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not drain the consumer")
	}
	cancel()
	wg.Wait()
}

func TestReportJobWorker_CommitsEveryJob(t *testing.T) {
	job := &dto.LogProcessRequest{ParallelFileProcessingCount: 2, LogFiles: []string{"http://a"}}
	consumer := &fakeJobConsumer{
		drained: make(chan struct{}, 1),
		results: []fetchResult{
			{job: job, msg: kafka.Message{Topic: "jobs", Offset: 1}},
			{msg: kafka.Message{Topic: "jobs", Offset: 2}, err: errors.New("invalid character 'x'")},
			{err: errors.New("broker unavailable")},
			{job: job, msg: kafka.Message{Topic: "jobs", Offset: 3}},
		},
	}
	reports := &fakeLogReportService{}

	runWorker(t, consumer, reports)

	assert.Equal(t, []int64{1, 2, 3}, consumer.committed)
	require.Len(t, reports.jobs, 2)
	assert.Equal(t, *job, reports.jobs[0])
}

func TestReportJobWorker_FailedJobIsCommitted(t *testing.T) {
	consumer := &fakeJobConsumer{
		drained: make(chan struct{}, 1),
		results: []fetchResult{
			{job: &dto.LogProcessRequest{}, msg: kafka.Message{Topic: "jobs", Offset: 9}},
		},
	}

	runWorker(t, consumer, &fakeLogReportService{err: errors.New("fetch failed")})

	assert.Equal(t, []int64{9}, consumer.committed)
}

func TestNewReportJobWorker_NilConsumer(t *testing.T) {
	assert.Nil(t, NewReportJobWorker(nil, &fakeLogReportService{}, zerolog.Nop()))
}
