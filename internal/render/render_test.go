package render

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/christopherklint97/timecard/internal/timesheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// zeroSource always draws the lowest offset.
type zeroSource struct{}

func (zeroSource) IntN(int) int { return 0 }

var testPeriod = timesheet.PeriodInfo{
	EmployeeName: "Ana Novak",
	MonthName:    "september",
	Month:        time.September,
	Year:         2025,
}

func testRecords(t *testing.T) []*timesheet.DayRecord {
	t.Helper()
	tables := []timesheet.Table{{
		Days: map[int]int{1: 3, 2: 4, 3: 5},
		Rows: [][]string{
			{"P-1", "", "001", "8", "", "4"},
			{"P-1", "", "002", "", "8", ""},
		},
	}}
	records := timesheet.NewAggregator(nil).Aggregate(tables)

	synth, err := timesheet.NewSynthesizer(timesheet.SynthConfig{BaseArrival: 9 * 60, ScatteringMinutes: 5}, zeroSource{})
	require.NoError(t, err)
	synth.SynthesizeAll(records)
	return records
}

func TestBuildReport(t *testing.T) {
	rep := BuildReport(testPeriod, testRecords(t))

	assert.Equal(t, Title, rep.Title)
	assert.Equal(t, "september 2025 - Ana Novak", rep.Subtitle)
	require.Len(t, rep.Rows, 4)
	assert.Equal(t, [5]string{"01.09.2025", "08:55", "16:55", "8.0", "30 min"}, rep.Rows[0])
	assert.Equal(t, [5]string{"02.09.2025", "-", "-", TripLabel, "-"}, rep.Rows[1])
	assert.Equal(t, [5]string{"03.09.2025", "08:55", "12:55", "4.0", "15 min"}, rep.Rows[2])
	assert.Equal(t, [5]string{TotalLabel, "", "", "12.0", "45 min"}, rep.Rows[3])
	assert.Equal(t, 12.0, rep.TotalHours)
	assert.Equal(t, 45, rep.TotalBreaks)
	assert.Len(t, rep.Table(), 5)
}

func TestBuildReport_ZeroBreakShowsPlaceholder(t *testing.T) {
	records := timesheet.NewAggregator(nil).Aggregate([]timesheet.Table{{
		Days: map[int]int{4: 3},
		Rows: [][]string{{"P", "", "010", "8"}},
	}})
	synth, err := timesheet.NewSynthesizer(timesheet.SynthConfig{BaseArrival: 8 * 60}, zeroSource{})
	require.NoError(t, err)
	synth.SynthesizeAll(records)

	rep := BuildReport(testPeriod, records)

	assert.Equal(t, [5]string{"04.09.2025", "08:00", "08:00", "0.0", "-"}, rep.Rows[0])
}

func TestPDFRenderer_Render(t *testing.T) {
	rep := BuildReport(testPeriod, testRecords(t))
	path := filepath.Join(t.TempDir(), "report.pdf")

	err := NewPDFRenderer("", nil).Render(context.Background(), rep, path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestPDFRenderer_ManyRowsSpanPages(t *testing.T) {
	rep := Report{Title: "T", Subtitle: "S", Headers: Headers, Style: DefaultStyle()}
	for i := 0; i < 80; i++ {
		rep.Rows = append(rep.Rows, [5]string{"01.01.2025", "09:00", "17:00", "8.0", "30 min"})
	}
	path := filepath.Join(t.TempDir(), "long.pdf")

	require.NoError(t, NewPDFRenderer("", nil).Render(context.Background(), rep, path))
	assert.FileExists(t, path)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, testPeriod, testRecords(t)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "date,type,project,hours_001,hours_002,arrival,departure,break_minutes", lines[0])
	assert.Equal(t, "01.09.2025,normal-work,P-1,8,0,08:55,16:55,30", lines[1])
	assert.Equal(t, "02.09.2025,business-trip,P-1,0,8,,,0", lines[2])
}
