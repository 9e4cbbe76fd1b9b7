package render

import (
	"fmt"
	"io"

	"github.com/christopherklint97/timecard/internal/timesheet"
	"github.com/gocarina/gocsv"
)

type csvRow struct {
	Date         string  `csv:"date"`
	Type         string  `csv:"type"`
	Project      string  `csv:"project"`
	Hours001     float64 `csv:"hours_001"`
	Hours002     float64 `csv:"hours_002"`
	Arrival      string  `csv:"arrival"`
	Departure    string  `csv:"departure"`
	BreakMinutes int     `csv:"break_minutes"`
}

// WriteCSV writes one line per record. Business-trip days leave the time
// columns empty.
func WriteCSV(w io.Writer, info timesheet.PeriodInfo, records []*timesheet.DayRecord) error {
	rows := make([]csvRow, 0, len(records))
	for _, rec := range records {
		row := csvRow{
			Date:     info.FormatDay(rec.Day),
			Type:     rec.Kind().String(),
			Project:  rec.ProjectCode,
			Hours001: rec.TotalHours001(),
			Hours002: rec.TotalHours002(),
		}
		if t, ok := rec.Times(); ok {
			row.Arrival = t.Arrival.String()
			row.Departure = t.Departure.String()
			row.BreakMinutes = t.BreakMinutes
		}
		rows = append(rows, row)
	}

	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}
