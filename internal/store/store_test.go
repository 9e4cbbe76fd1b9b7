package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christopherklint97/timecard/internal/timesheet"
)

type fixedSource struct{}

func (fixedSource) IntN(n int) int { return n / 2 }

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleRecords(t *testing.T) []*timesheet.DayRecord {
	t.Helper()
	records := timesheet.NewAggregator(nil).Aggregate([]timesheet.Table{{
		Days: map[int]int{1: 3, 2: 4},
		Rows: [][]string{
			{"P-9", "", "001", "7,5", ""},
			{"P-9", "", "002", "", "8"},
		},
	}})
	synth, err := timesheet.NewSynthesizer(timesheet.SynthConfig{BaseArrival: 9 * 60, ScatteringMinutes: 10}, fixedSource{})
	require.NoError(t, err)
	synth.SynthesizeAll(records)
	return records
}

func TestInsertAndReadBack(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	doc := &Document{
		Input:       "in/september.pdf",
		Employee:    "Ana Novak",
		Period:      "september 2025",
		Outputs:     []string{"out/a.pdf", "out/a.csv"},
		Status:      StatusOK,
		ProcessedAt: time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC),
		Days:        DaysFromRecords(sampleRecords(t), false),
	}
	id, err := db.InsertDocument(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, id, doc.ID)

	docs, err := db.ListDocuments(ctx, 10)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	got := docs[0]
	assert.Equal(t, "Ana Novak", got.Employee)
	assert.Equal(t, []string{"out/a.pdf", "out/a.csv"}, got.Outputs)
	assert.Empty(t, got.Error)
	assert.True(t, doc.ProcessedAt.Equal(got.ProcessedAt))

	days, err := db.DaysFor(ctx, id)
	require.NoError(t, err)
	require.Len(t, days, 2)

	assert.Equal(t, 1, days[0].Day)
	assert.Equal(t, "7.5", days[0].Hours001.String())
	assert.Equal(t, "normal-work", days[0].Kind)
	assert.Equal(t, "09:00", days[0].Arrival)
	assert.Equal(t, "16:30", days[0].Departure)
	assert.Equal(t, 28, days[0].BreakMinutes)

	assert.Equal(t, "business-trip", days[1].Kind)
	assert.Equal(t, "8", days[1].Hours002.String())
	assert.Empty(t, days[1].Arrival)
}

func TestListDocuments_NewestFirstWithLimit(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, name := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		_, err := db.InsertDocument(ctx, &Document{
			Input:       name,
			Status:      StatusFailed,
			Error:       "no table",
			ProcessedAt: base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	docs, err := db.ListDocuments(ctx, 2)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "c.pdf", docs[0].Input)
	assert.Equal(t, "b.pdf", docs[1].Input)
	assert.Equal(t, "no table", docs[0].Error)
	assert.Nil(t, docs[0].Outputs)
}

func TestState(t *testing.T) {
	db := openTestDB(t)

	v, err := db.GetState("last_run")
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, db.SetState("last_run", "one"))
	require.NoError(t, db.SetState("last_run", "two"))

	v, err = db.GetState("last_run")
	require.NoError(t, err)
	assert.Equal(t, "two", v)
}
