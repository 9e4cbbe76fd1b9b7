package timesheet

import "github.com/shopspring/decimal"

type WorkType int

const (
	WorkOther WorkType = iota
	WorkNormal
	WorkBusinessTrip
)

const (
	CodeNormalWork   = "001"
	CodeBusinessTrip = "002"
)

func ParseWorkType(code string) WorkType {
	switch code {
	case CodeNormalWork:
		return WorkNormal
	case CodeBusinessTrip:
		return WorkBusinessTrip
	default:
		return WorkOther
	}
}

// Kind classifies a day by which accumulators carry hours.
type Kind int

const (
	KindNormal Kind = iota
	KindBusinessTrip
	KindMixed
)

func (k Kind) String() string {
	switch k {
	case KindBusinessTrip:
		return "business-trip"
	case KindMixed:
		return "mixed"
	default:
		return "normal-work"
	}
}

type Times struct {
	Arrival      Clock
	Departure    Clock
	BreakMinutes int
}

// DayRecord is the aggregated work entry for one calendar day.
//
// Hours only ever grow, so once trip hours are recorded the day stays a
// business-trip day regardless of later normal-work contributions.
type DayRecord struct {
	Day         int
	ProjectCode string

	hours001 decimal.Decimal
	hours002 decimal.Decimal
	times    *Times
}

func NewDayRecord(day int, projectCode string) *DayRecord {
	return &DayRecord{Day: day, ProjectCode: projectCode}
}

// Contribution is one positive cell value routed to a day.
type Contribution struct {
	Day         int
	ProjectCode string
	Type        WorkType
	Hours       decimal.Decimal
}

// merge folds c into r. Non-positive hours and other work types leave the
// accumulators untouched.
func (r *DayRecord) merge(c Contribution) {
	if !c.Hours.IsPositive() {
		return
	}
	switch c.Type {
	case WorkNormal:
		r.hours001 = r.hours001.Add(c.Hours)
	case WorkBusinessTrip:
		r.hours002 = r.hours002.Add(c.Hours)
	}
}

func (r *DayRecord) Hours001() decimal.Decimal { return r.hours001 }
func (r *DayRecord) Hours002() decimal.Decimal { return r.hours002 }

func (r *DayRecord) TotalHours001() float64 { return r.hours001.InexactFloat64() }
func (r *DayRecord) TotalHours002() float64 { return r.hours002.InexactFloat64() }

func (r *DayRecord) TotalHours() float64 {
	return r.hours001.Add(r.hours002).InexactFloat64()
}

func (r *DayRecord) Kind() Kind {
	switch {
	case !r.hours002.IsPositive():
		return KindNormal
	case r.hours001.IsPositive():
		return KindMixed
	default:
		return KindBusinessTrip
	}
}

// IsBusinessTrip reports whether the day renders as a business trip.
// Mixed days count as trips.
func (r *DayRecord) IsBusinessTrip() bool {
	return r.Kind() != KindNormal
}

// Times returns the synthesized times, if any have been assigned.
func (r *DayRecord) Times() (Times, bool) {
	if r.times == nil {
		return Times{}, false
	}
	return *r.times, true
}

func (r *DayRecord) setTimes(t Times) {
	r.times = &t
}
