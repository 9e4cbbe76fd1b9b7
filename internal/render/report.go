package render

import (
	"fmt"
	"math"

	"github.com/christopherklint97/timecard/internal/timesheet"
)

const (
	Title       = "Pregled delovnega časa"
	TripLabel   = "Službeno potovanje"
	TotalLabel  = "Skupaj:"
	Placeholder = "-"
	hoursFormat = "%.1f"
	breakFormat = "%d min"
)

var Headers = [5]string{"Datum", "Čas prihoda", "Čas odhoda", "Skupaj število ur", "Odmor med delovnim časom"}

// Style carries the presentation directives the renderer applies.
type Style struct {
	TitleSize  float64
	InfoSize   float64
	HeaderSize float64
	BodySize   float64
	RowHeight  float64
	// Column widths as fractions of the table width.
	Columns [5]float64
}

func DefaultStyle() Style {
	return Style{
		TitleSize:  16,
		InfoSize:   12,
		HeaderSize: 10,
		BodySize:   9,
		RowHeight:  18,
		Columns:    [5]float64{0.17, 0.17, 0.17, 0.22, 0.27},
	}
}

type Report struct {
	Title    string
	Subtitle string
	Headers  [5]string
	Rows     [][5]string
	Style    Style

	TotalHours  float64
	TotalBreaks int
}

// BuildReport lays out one table row per record plus a totals row. Records
// without synthesized times render as business trips.
func BuildReport(info timesheet.PeriodInfo, records []*timesheet.DayRecord) Report {
	r := Report{
		Title:    Title,
		Subtitle: fmt.Sprintf("%s - %s", info.Label(), info.EmployeeName),
		Headers:  Headers,
		Style:    DefaultStyle(),
	}

	for _, rec := range records {
		date := info.FormatDay(rec.Day)
		times, ok := rec.Times()
		if rec.IsBusinessTrip() || !ok {
			r.Rows = append(r.Rows, [5]string{date, Placeholder, Placeholder, TripLabel, Placeholder})
			continue
		}

		hours := rec.TotalHours001()
		brk := Placeholder
		if times.BreakMinutes > 0 {
			brk = fmt.Sprintf(breakFormat, times.BreakMinutes)
		}
		r.Rows = append(r.Rows, [5]string{
			date,
			times.Arrival.String(),
			times.Departure.String(),
			fmt.Sprintf(hoursFormat, hours),
			brk,
		})
		r.TotalHours += hours
		r.TotalBreaks += times.BreakMinutes
	}

	r.TotalHours = math.Round(r.TotalHours*100) / 100
	r.Rows = append(r.Rows, [5]string{
		TotalLabel, "", "",
		fmt.Sprintf(hoursFormat, r.TotalHours),
		fmt.Sprintf(breakFormat, r.TotalBreaks),
	})
	return r
}

// Table returns the header row followed by the body rows.
func (r Report) Table() [][5]string {
	return append([][5]string{r.Headers}, r.Rows...)
}
