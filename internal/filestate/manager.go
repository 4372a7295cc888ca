package filestate

import (
	"encoding/json"
	"os"
	"sync"

	"splitledger-backend/internal/dto"

	"github.com/rs/zerolog"
)

// ReportSnapshot is the on-disk form of the report store, oldest first.
type ReportSnapshot []dto.StoredReport

type Manager interface {
	LoadState() (ReportSnapshot, error)
	SaveState(state ReportSnapshot) error
	GetStateFilePath() string
}

type fileStateManager struct {
	filePath string
	mu       sync.RWMutex
	logger   zerolog.Logger
}

func NewManager(filePath string, logger zerolog.Logger) Manager {
	return &fileStateManager{
		filePath: filePath,
		logger:   logger.With().Str("component", "filestate").Logger(),
	}
}

// LoadState returns an empty snapshot when the file does not exist yet.
func (m *fileStateManager) LoadState() (ReportSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, err := os.ReadFile(m.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			m.logger.Warn().Str("file", m.filePath).Msg("State file not found, starting fresh.")
			return ReportSnapshot{}, nil
		}
		m.logger.Error().Err(err).Str("file", m.filePath).Msg("Failed to read state file")
		return nil, err
	}

	if len(data) == 0 {
		m.logger.Warn().Str("file", m.filePath).Msg("State file is empty, starting fresh.")
		return ReportSnapshot{}, nil
	}
	var state ReportSnapshot
	if err := json.Unmarshal(data, &state); err != nil {
		m.logger.Error().Err(err).Str("file", m.filePath).Msg("Failed to unmarshal state file")
		return nil, err
	}

	m.logger.Debug().Str("file", m.filePath).Int("reports", len(state)).Msg("Loaded report state")
	return state, nil
}

// SaveState writes to a temporary file and renames it over the old one.
func (m *fileStateManager) SaveState(state ReportSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		m.logger.Error().Err(err).Msg("Failed to marshal state")
		return err
	}

	tempFilePath := m.filePath + ".tmp"
	err = os.WriteFile(tempFilePath, data, 0644)
	if err != nil {
		m.logger.Error().Err(err).Str("file", tempFilePath).Msg("Failed to write temporary state file")
		return err
	}

	err = os.Rename(tempFilePath, m.filePath)
	if err != nil {
		m.logger.Error().Err(err).Str("from", tempFilePath).Str("to", m.filePath).Msg("Failed to rename state file")
		_ = os.Remove(tempFilePath)
		return err
	}
	m.logger.Debug().Str("file", m.filePath).Int("reports", len(state)).Msg("Saved report state")
	return nil
}

func (m *fileStateManager) GetStateFilePath() string {
	return m.filePath
}
