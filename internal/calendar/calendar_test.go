package calendar

import (
	"bytes"
	"testing"
	"time"

	"github.com/christopherklint97/timecard/internal/timesheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lowSource struct{}

func (lowSource) IntN(int) int { return 0 }

func TestExportRead(t *testing.T) {
	info := timesheet.PeriodInfo{EmployeeName: "Ana Novak", MonthName: "marec", Month: time.March, Year: 2025}
	records := timesheet.NewAggregator(nil).Aggregate([]timesheet.Table{{
		Days: map[int]int{3: 3, 4: 4},
		Rows: [][]string{
			{"P-7", "", "001", "7,5", ""},
			{"P-7", "", "002", "", "8"},
		},
	}})
	synth, err := timesheet.NewSynthesizer(timesheet.SynthConfig{BaseArrival: 8 * 60}, lowSource{})
	require.NoError(t, err)
	synth.SynthesizeAll(records)

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, info, records, "Delo"))
	assert.Contains(t, buf.String(), "BEGIN:VCALENDAR")

	events, err := Read(&buf)
	require.NoError(t, err)

	require.Len(t, events, 1)
	ev := events[0]
	assert.Equal(t, "Delo", ev.Summary)
	assert.Equal(t, "20250303-Ana_Novak-delo@timecard", ev.UID)
	assert.Equal(t, "2025-03-03 08:00", ev.StartTime.Format("2006-01-02 15:04"))
	assert.Equal(t, "2025-03-03 15:30", ev.EndTime.Format("2006-01-02 15:04"))
}
