package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestSQLiteRecorder_RoundTrip(t *testing.T) {
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "tracker.db"))
	require.NoError(t, err)
	defer r.Close()

	base := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	ok := &RefreshEvent{
		StartedAt: base,
		Duration:  1500 * time.Millisecond,
		Period:    "5y",
		Requested: []string{"Gold", "Silver", "Bitcoin"},
		Returned:  []string{"Gold", "Bitcoin"},
		Rows:      1820,
	}
	failed := &RefreshEvent{
		ID:        uuid.New(),
		StartedAt: base.Add(5 * time.Minute),
		Period:    "5y",
		Requested: []string{"Gold"},
		Err:       "yahoo GC=F: status 429",
	}
	require.NoError(t, r.RecordRefresh(ok))
	require.NoError(t, r.RecordRefresh(failed))
	require.NotEqual(t, uuid.Nil, ok.ID, "an id is assigned on insert")

	runs, err := r.Recent(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	require.Equal(t, failed.ID, runs[0].ID)
	require.False(t, runs[0].OK())
	require.Nil(t, runs[0].Returned)

	require.Equal(t, ok.ID, runs[1].ID)
	require.True(t, runs[1].OK())
	require.True(t, base.Equal(runs[1].StartedAt))
	require.Equal(t, 1500*time.Millisecond, runs[1].Duration)
	require.Equal(t, []string{"Gold", "Bitcoin"}, runs[1].Returned)
	require.Equal(t, 1820, runs[1].Rows)
}

func TestNoopRecorder(t *testing.T) {
	r := NewNoopRecorder()
	require.NoError(t, r.RecordRefresh(&RefreshEvent{}))
	runs, err := r.Recent(5)
	require.NoError(t, err)
	require.Empty(t, runs)
	require.NoError(t, r.Close())
}
