package timesheet

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type SecondaryConfig struct {
	Enabled       bool
	Name          string
	Percent       float64
	IncludeBreaks bool
}

// Active reports whether a secondary record set should be produced.
func (c SecondaryConfig) Active() bool {
	return c.Enabled && c.Percent > 0
}

func (c SecondaryConfig) Validate() error {
	if c.Percent < 0 || c.Percent > 100 {
		return fmt.Errorf("secondary percent must be within 0-100, got %g", c.Percent)
	}
	return nil
}

// Hours is the length of one secondary session.
func (c SecondaryConfig) Hours() float64 {
	return c.Percent / 100 * FullDayHours
}

// Allocate derives the secondary engagement from the primary records. Each
// secondary session starts exactly when the primary one ends, so the
// primary times are synthesized first (or reused when already present).
// The returned records are new values aligned with primary by index.
func Allocate(primary []*DayRecord, synth *Synthesizer, cfg SecondaryConfig) []*DayRecord {
	hours := cfg.Hours()
	breakMins := 0
	if cfg.IncludeBreaks {
		breakMins = BreakMinutes(hours)
	}

	out := make([]*DayRecord, 0, len(primary))
	for _, p := range primary {
		rec := NewDayRecord(p.Day, p.ProjectCode)

		pt, ok := synth.Times(p)
		if !ok {
			rec.hours002 = p.hours002
			out = append(out, rec)
			continue
		}

		rec.hours001 = decimal.NewFromFloat(hours)
		arrival := pt.Departure
		rec.setTimes(Times{
			Arrival:      arrival,
			Departure:    (arrival + Clock(WorkMinutes(hours))).Clamp(),
			BreakMinutes: breakMins,
		})
		out = append(out, rec)
	}
	return out
}
