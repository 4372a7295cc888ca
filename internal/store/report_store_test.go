package store_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"splitledger-backend/internal/dto"
	"splitledger-backend/internal/filestate"
	"splitledger-backend/internal/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingState struct{}

func (failingState) LoadState() (filestate.ReportSnapshot, error) { return nil, nil }
func (failingState) SaveState(filestate.ReportSnapshot) error    { return errors.New("disk full") }
func (failingState) GetStateFilePath() string                    { return "/dev/null" }

func TestReportStore_SaveGetList(t *testing.T) {
	ctx := context.Background()
	s, err := store.NewReportStore(nil, 10, zerolog.Nop())
	require.NoError(t, err)

	first, err := s.Save(ctx, dto.StoredReport{Sources: []string{"a"}})
	require.NoError(t, err)
	assert.NotEmpty(t, first)
	second, err := s.Save(ctx, dto.StoredReport{ID: "fixed", Sources: []string{"b"}})
	require.NoError(t, err)
	assert.Equal(t, "fixed", second)

	got, err := s.Get(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got.Sources)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "fixed", list[0].ID)

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrReportNotFound)
}

func TestReportStore_Retention(t *testing.T) {
	ctx := context.Background()
	s, err := store.NewReportStore(nil, 2, zerolog.Nop())
	require.NoError(t, err)

	for _, id := range []string{"r1", "r2", "r3"} {
		_, err := s.Save(ctx, dto.StoredReport{ID: id})
		require.NoError(t, err)
	}

	_, err = s.Get(ctx, "r1")
	assert.ErrorIs(t, err, store.ErrReportNotFound)
	list, _ := s.List(ctx)
	assert.Len(t, list, 2)
}

func TestReportStore_RestoresFromState(t *testing.T) {
	ctx := context.Background()
	state := filestate.NewManager(filepath.Join(t.TempDir(), "reports.json"), zerolog.Nop())

	s, err := store.NewReportStore(state, 10, zerolog.Nop())
	require.NoError(t, err)
	id, err := s.Save(ctx, dto.StoredReport{Sources: []string{"http://a"}})
	require.NoError(t, err)

	restored, err := store.NewReportStore(state, 10, zerolog.Nop())
	require.NoError(t, err)
	got, err := restored.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"http://a"}, got.Sources)
}

func TestReportStore_PersistFailureStillKeepsReport(t *testing.T) {
	ctx := context.Background()
	s, err := store.NewReportStore(failingState{}, 10, zerolog.Nop())
	require.NoError(t, err)

	id, err := s.Save(ctx, dto.StoredReport{})
	assert.Error(t, err)
	_, getErr := s.Get(ctx, id)
	assert.NoError(t, getErr)
}
