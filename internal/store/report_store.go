package store

import (
	"context"
	"errors"
	"sync"

	"splitledger-backend/internal/dto"
	"splitledger-backend/internal/filestate"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrReportNotFound = errors.New("report not found")
)

type ReportStore interface {
	// Save assigns an id when report.ID is empty and returns the stored id.
	Save(ctx context.Context, report dto.StoredReport) (string, error)
	Get(ctx context.Context, id string) (*dto.StoredReport, error)
	// List returns stored reports, newest first.
	List(ctx context.Context) ([]dto.StoredReport, error)
}

type persistentReportStore struct {
	mu        sync.RWMutex
	order     []string
	reports   map[string]dto.StoredReport
	retention int
	state     filestate.Manager
	logger    zerolog.Logger
}

// NewReportStore restores the last snapshot from state (when not nil) and
// keeps at most retention reports.
func NewReportStore(state filestate.Manager, retention int, logger zerolog.Logger) (ReportStore, error) {
	if retention <= 0 {
		retention = 100
	}
	s := &persistentReportStore{
		reports:   make(map[string]dto.StoredReport),
		retention: retention,
		state:     state,
		logger:    logger.With().Str("component", "report_store").Logger(),
	}
	if state == nil {
		return s, nil
	}

	snapshot, err := state.LoadState()
	if err != nil {
		return nil, err
	}
	for _, r := range snapshot {
		s.insert(r)
	}
	s.logger.Info().Int("reports", len(s.order)).Str("file", state.GetStateFilePath()).Msg("Report store restored")
	return s, nil
}

func (s *persistentReportStore) Save(ctx context.Context, report dto.StoredReport) (string, error) {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.insert(report)

	if s.state != nil {
		if err := s.state.SaveState(s.snapshotLocked()); err != nil {
			s.logger.Error().Err(err).Str("report_id", report.ID).Msg("Failed to persist report state")
			return report.ID, err
		}
	}
	return report.ID, nil
}

func (s *persistentReportStore) Get(ctx context.Context, id string) (*dto.StoredReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r, ok := s.reports[id]; ok {
		return &r, nil
	}
	return nil, ErrReportNotFound
}

func (s *persistentReportStore) List(ctx context.Context) ([]dto.StoredReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]dto.StoredReport, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		out = append(out, s.reports[s.order[i]])
	}
	return out, nil
}

// insert must be called with mu held (or before the store is shared).
func (s *persistentReportStore) insert(report dto.StoredReport) {
	if _, exists := s.reports[report.ID]; !exists {
		s.order = append(s.order, report.ID)
	}
	s.reports[report.ID] = report
	for len(s.order) > s.retention {
		delete(s.reports, s.order[0])
		s.order = s.order[1:]
	}
}

func (s *persistentReportStore) snapshotLocked() filestate.ReportSnapshot {
	snapshot := make(filestate.ReportSnapshot, 0, len(s.order))
	for _, id := range s.order {
		snapshot = append(snapshot, s.reports[id])
	}
	return snapshot
}
