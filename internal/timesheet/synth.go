package timesheet

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// FullDayHours is the length of a full working day; breaks scale against it.
const FullDayHours = 8.0

// FullDayBreakMinutes is the break earned by a full working day.
const FullDayBreakMinutes = 30.0

// Source draws the scattering offsets. *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

func NewSeededSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

type SynthConfig struct {
	BaseArrival       Clock
	ScatteringMinutes int
}

type Synthesizer struct {
	cfg SynthConfig
	src Source
}

func NewSynthesizer(cfg SynthConfig, src Source) (*Synthesizer, error) {
	if cfg.ScatteringMinutes < 0 {
		return nil, fmt.Errorf("scattering minutes must not be negative, got %d", cfg.ScatteringMinutes)
	}
	if src == nil {
		return nil, fmt.Errorf("random source is required")
	}
	return &Synthesizer{cfg: cfg, src: src}, nil
}

// Times returns the arrival, departure and break for r, computing them on
// first use. The result is stored on the record so rendering and the
// secondary allocation see the same draw. Business-trip days have no times.
func (s *Synthesizer) Times(r *DayRecord) (Times, bool) {
	if r.IsBusinessTrip() {
		return Times{}, false
	}
	if t, ok := r.Times(); ok {
		return t, true
	}

	hours := r.TotalHours001()
	arrival := s.cfg.BaseArrival + Clock(s.offset())
	departure := arrival + Clock(WorkMinutes(hours))

	t := Times{
		Arrival:      arrival.Clamp(),
		Departure:    departure.Clamp(),
		BreakMinutes: BreakMinutes(hours),
	}
	r.setTimes(t)
	return t, true
}

func (s *Synthesizer) SynthesizeAll(records []*DayRecord) {
	for _, r := range records {
		s.Times(r)
	}
}

// offset is uniform in [-ScatteringMinutes, +ScatteringMinutes].
func (s *Synthesizer) offset() int {
	n := s.cfg.ScatteringMinutes
	if n == 0 {
		return 0
	}
	return s.src.IntN(2*n+1) - n
}

func WorkMinutes(hours float64) int {
	return int(math.Round(hours * 60))
}

func BreakMinutes(hours float64) int {
	return int(math.Round(FullDayBreakMinutes * hours / FullDayHours))
}
