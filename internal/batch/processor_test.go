package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/christopherklint97/timecard/internal/config"
	"github.com/christopherklint97/timecard/internal/store"
	"github.com/christopherklint97/timecard/internal/timesheet"
)

// midSource always draws a zero offset.
type midSource struct{}

func (midSource) IntN(n int) int { return n / 2 }

type recordingNotifier struct {
	messages []string
}

func (n *recordingNotifier) Notify(title, message string) error {
	n.messages = append(n.messages, message)
	return nil
}

var timesheetRows = [][]any{
	{"Ime in priimek: Ana Novak"},
	{"STROŠKOVNIK ZA ODBOBJE: 01.09.2025 - 30.09.2025"},
	{},
	{"Projekt", "Opis", "Šifra", "1", "2", "3", "Dejanske ure"},
	{"P-1", "razvoj", "001", "8", "", "4"},
	{"P-1", "pot", "002", "", "8", ""},
	{"Skupaj", "", "", "8", "8", "4"},
}

func writeWorkbook(t *testing.T, path string, rows [][]any) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.OutputDir = filepath.Join(t.TempDir(), "out")
	cfg.ScatteringMinutes = 10
	return cfg
}

func TestProcessFile_WritesAllOutputs(t *testing.T) {
	in := filepath.Join(t.TempDir(), "september.xlsx")
	writeWorkbook(t, in, timesheetRows)

	cfg := testConfig(t)
	cfg.WriteCSV = true
	cfg.WriteICS = true
	cfg.EnableSecondary = true
	cfg.SecondaryName = "Projekt X"
	cfg.SecondaryPercent = 25

	p, err := New(cfg, midSource{}, nil, nil, nil)
	require.NoError(t, err)

	res := p.ProcessFile(context.Background(), in, "")
	require.NoError(t, res.Err)

	base := filepath.Join(cfg.OutputDir, "September_2025_Ana_Novak")
	assert.Equal(t, []string{
		base + ".pdf", base + ".csv", base + ".ics",
		base + "_Projekt_X.pdf", base + "_Projekt_X.csv", base + "_Projekt_X.ics",
	}, res.Outputs)
	for _, out := range res.Outputs {
		assert.FileExists(t, out)
	}

	assert.Equal(t, "september 2025", res.Period.Label())
	require.Len(t, res.Records, 3)
	require.Len(t, res.Secondary, 3)

	day1, ok := res.Records[0].Times()
	require.True(t, ok)
	assert.Equal(t, "09:00", day1.Arrival.String())
	assert.Equal(t, "17:00", day1.Departure.String())

	sec1, ok := res.Secondary[0].Times()
	require.True(t, ok)
	assert.Equal(t, day1.Departure, sec1.Arrival)
	assert.Equal(t, "19:00", sec1.Departure.String())
	assert.Equal(t, 8, sec1.BreakMinutes)

	assert.True(t, res.Records[1].IsBusinessTrip())
	assert.True(t, res.Secondary[1].IsBusinessTrip())
}

func TestProcessFile_ExplicitOutput(t *testing.T) {
	in := filepath.Join(t.TempDir(), "september.xlsx")
	writeWorkbook(t, in, timesheetRows)
	out := filepath.Join(t.TempDir(), "reports", "mine.pdf")

	p, err := New(testConfig(t), midSource{}, nil, nil, nil)
	require.NoError(t, err)

	res := p.ProcessFile(context.Background(), in, out)
	require.NoError(t, res.Err)
	assert.Equal(t, []string{out}, res.Outputs)
	assert.FileExists(t, out)
}

func TestProcessFile_Failures(t *testing.T) {
	dir := t.TempDir()

	noName := filepath.Join(dir, "noname.xlsx")
	writeWorkbook(t, noName, timesheetRows[1:])

	noTable := filepath.Join(dir, "notable.xlsx")
	writeWorkbook(t, noTable, timesheetRows[:3])

	text := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(text, []byte("hello"), 0644))

	tests := []struct {
		name  string
		path  string
		stage string
		want  error
	}{
		{"missing name", noName, "period", timesheet.ErrNameNotFound},
		{"missing table", noTable, "table", timesheet.ErrNoTimesheetTable},
		{"unsupported file", text, "extract", timesheet.ErrExtraction},
		{"missing file", filepath.Join(dir, "absent.pdf"), "extract", timesheet.ErrExtraction},
	}

	p, err := New(testConfig(t), midSource{}, nil, nil, nil)
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := p.ProcessFile(context.Background(), tt.path, "")

			require.Error(t, res.Err)
			assert.ErrorIs(t, res.Err, tt.want)
			var de *timesheet.DocumentError
			require.True(t, errors.As(res.Err, &de))
			assert.Equal(t, tt.stage, de.Stage)
			assert.Equal(t, tt.path, de.Path)
			assert.Empty(t, res.Outputs)
		})
	}
}

func TestProcessFolder(t *testing.T) {
	in := t.TempDir()
	writeWorkbook(t, filepath.Join(in, "b_good.xlsx"), timesheetRows)
	writeWorkbook(t, filepath.Join(in, "a_broken.xlsx"), timesheetRows[1:])
	require.NoError(t, os.WriteFile(filepath.Join(in, "readme.txt"), []byte("skip me"), 0644))

	db, err := store.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer db.Close()

	cfg := testConfig(t)
	cfg.Notify = true
	notifier := &recordingNotifier{}

	p, err := New(cfg, midSource{}, db, notifier, nil)
	require.NoError(t, err)

	sum, err := p.ProcessFolder(context.Background(), in)
	require.NoError(t, err)

	assert.True(t, sum.OK())
	assert.Equal(t, 1, sum.Succeeded)
	assert.Equal(t, 1, sum.Failed)
	require.Len(t, sum.Results, 2)
	assert.Equal(t, filepath.Join(in, "a_broken.xlsx"), sum.Results[0].Input)
	assert.FileExists(t, filepath.Join(cfg.OutputDir, "September_2025", "September_2025_Ana_Novak.pdf"))
	assert.Equal(t, []string{"Processed 1 of 2 timesheets"}, notifier.messages)

	docs, err := db.ListDocuments(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	statuses := map[string]string{}
	for _, d := range docs {
		statuses[filepath.Base(d.Input)] = d.Status
	}
	assert.Equal(t, map[string]string{"a_broken.xlsx": store.StatusFailed, "b_good.xlsx": store.StatusOK}, statuses)

	lastRun, err := db.GetState("last_run")
	require.NoError(t, err)
	assert.NotEmpty(t, lastRun)
}

func TestProcessFolder_NothingToDo(t *testing.T) {
	p, err := New(testConfig(t), midSource{}, nil, nil, nil)
	require.NoError(t, err)

	sum, err := p.ProcessFolder(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.False(t, sum.OK())

	_, err = p.ProcessFolder(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestProcessFolder_StopsWhenCancelled(t *testing.T) {
	in := t.TempDir()
	writeWorkbook(t, filepath.Join(in, "good.xlsx"), timesheetRows)

	p, err := New(testConfig(t), midSource{}, nil, nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sum, err := p.ProcessFolder(ctx, in)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, sum.Results)
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.ArrivalTime = "noon"

	_, err := New(cfg, midSource{}, nil, nil, nil)
	assert.Error(t, err)
}
