package store

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soocke/gauge-reader-go/domain/gauge"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "readings.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleReadings() []gauge.Reading {
	return []gauge.Reading{
		{TimestampMS: 0, Round: 0, Phase: gauge.PhaseIntro},
		{TimestampMS: 100, Round: 0, Phase: gauge.PhaseBattle, P1Health: 100, P2Health: 100},
		{TimestampMS: 200, Round: 0, Phase: gauge.PhaseBattle, P1Health: 72.5, P1Damage: 10, P2Health: 100},
		{TimestampMS: 300, Round: 1, Phase: gauge.PhaseKO, P1Health: 0.5, P2Health: 64.2},
	}
}

func TestRecordAndReadBack(t *testing.T) {
	db := openTestDB(t)
	runID := uuid.New()

	require.NoError(t, db.RecordRun(runID, "match.mp4", 100, sampleReadings()))

	got, err := db.Readings(runID)
	require.NoError(t, err)
	assert.Equal(t, sampleReadings(), got)
}

func TestReadingsOrderedByTimestamp(t *testing.T) {
	db := openTestDB(t)
	runID := uuid.New()

	shuffled := []gauge.Reading{
		{TimestampMS: 300, Phase: gauge.PhaseBattle, P1Health: 50, P2Health: 100},
		{TimestampMS: 0, Phase: gauge.PhaseIntro},
		{TimestampMS: 200, Phase: gauge.PhaseBattle, P1Health: 80, P2Health: 100},
	}
	require.NoError(t, db.RecordRun(runID, "match.mp4", 100, shuffled))

	got, err := db.Readings(runID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i := 1; i < len(got); i++ {
		assert.Less(t, got[i-1].TimestampMS, got[i].TimestampMS)
	}
}

func TestRunsIsolated(t *testing.T) {
	db := openTestDB(t)
	first, second := uuid.New(), uuid.New()

	require.NoError(t, db.RecordRun(first, "a.mp4", 100, sampleReadings()))
	require.NoError(t, db.RecordRun(second, "b.mp4", 50, sampleReadings()[:2]))

	got, err := db.Readings(second)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	runs, err := db.Runs()
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{first, second}, runs)
}

func TestDuplicateRunRejected(t *testing.T) {
	db := openTestDB(t)
	runID := uuid.New()

	require.NoError(t, db.RecordRun(runID, "match.mp4", 100, nil))
	assert.Error(t, db.RecordRun(runID, "match.mp4", 100, nil))
}

func TestUnknownRunIsEmpty(t *testing.T) {
	db := openTestDB(t)

	got, err := db.Readings(uuid.New())
	require.NoError(t, err)
	assert.Empty(t, got)
}
