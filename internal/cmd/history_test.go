package cmd

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jbalzer/daiacheck/internal/history"
)

func seedHistory(t *testing.T, dbPath string, runs int) {
	t.Helper()
	store, err := history.NewStore(dbPath)
	require.NoError(t, err)
	defer store.Close()

	for i := 0; i < runs; i++ {
		run := &history.Run{
			Mode:      "availability",
			Total:     2,
			Failed:    i % 2,
			StartedAt: time.Now().Add(time.Duration(i-runs) * time.Minute).UTC(),
		}
		require.NoError(t, store.RecordRun(context.Background(), run))
	}
}

func TestHistoryStatsEmptyDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	out, _, err := execute(t, "history", "stats", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Runs:       0")
}

func TestHistoryStats(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	seedHistory(t, dbPath, 4)

	out, _, err := execute(t, "history", "stats", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Runs:       4")
	assert.Contains(t, out, "Assertions: 8")
	assert.Contains(t, out, "Failures:   2")
	assert.Contains(t, out, "Pass rate:  75.0%")
}

func TestHistoryClearAll(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	seedHistory(t, dbPath, 3)

	out, _, err := execute(t, "history", "clear", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted 3 run(s)")
}

func TestHistoryClearKeep(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	seedHistory(t, dbPath, 5)

	out, _, err := execute(t, "history", "clear", "--db", dbPath, "--keep", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted 3 run(s)")

	out, _, err = execute(t, "history", "stats", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Runs:       2")
}
