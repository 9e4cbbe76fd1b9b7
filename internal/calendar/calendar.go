package calendar

import (
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/emersion/go-ical"

	"github.com/christopherklint97/timecard/internal/timesheet"
)

const productID = "-//timecard//timesheet export//SL"

// Event is one work session as stored in a calendar.
type Event struct {
	UID       string
	Summary   string
	StartTime time.Time
	EndTime   time.Time
}

// Export writes an iCalendar document with one event per record that has
// synthesized times. Times are written in the local zone, the same
// wall-clock values the PDF report shows.
func Export(w io.Writer, info timesheet.PeriodInfo, records []*timesheet.DayRecord, summary string) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)

	stamp := time.Now().UTC()
	for _, rec := range records {
		t, ok := rec.Times()
		if !ok {
			continue
		}
		day := info.Date(rec.Day)

		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, eventUID(info, rec.Day, summary))
		event.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
		event.Props.SetDateTime(ical.PropDateTimeStart, day.Add(time.Duration(t.Arrival)*time.Minute))
		event.Props.SetDateTime(ical.PropDateTimeEnd, day.Add(time.Duration(t.Departure)*time.Minute))
		event.Props.SetText(ical.PropSummary, summary)
		if rec.ProjectCode != "" {
			event.Props.SetText(ical.PropDescription, rec.ProjectCode)
		}
		cal.Children = append(cal.Children, event.Component)
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encoding calendar: %w", err)
	}
	return nil
}

func eventUID(info timesheet.PeriodInfo, day int, summary string) string {
	name := timesheet.CleanName(info.EmployeeName)
	kind := strings.ToLower(timesheet.CleanName(summary))
	return fmt.Sprintf("%d%02d%02d-%s-%s@timecard", info.Year, int(info.Month), day, name, kind)
}

// Read decodes every VEVENT in r. Times without a zone are read as local.
func Read(r io.Reader) ([]Event, error) {
	dec := ical.NewDecoder(r)
	var events []Event

	for {
		cal, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing calendar: %w", err)
		}

		for _, component := range cal.Children {
			if component.Name != ical.CompEvent {
				continue
			}
			event := ical.Event{Component: component}

			start, err := event.DateTimeStart(time.Local)
			if err != nil {
				continue // skip malformed events
			}
			end, err := event.DateTimeEnd(time.Local)
			if err != nil {
				continue
			}
			uid, _ := event.Props.Text(ical.PropUID)
			summary, _ := event.Props.Text(ical.PropSummary)
			events = append(events, Event{
				UID:       uid,
				Summary:   summary,
				StartTime: start,
				EndTime:   end,
			})
		}
	}

	return events, nil
}
