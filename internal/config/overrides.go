package config

// Overrides carries settings given on the command line. Nil pointers and
// false flags leave the loaded value alone.
type Overrides struct {
	ArrivalTime       *string
	ScatteringMinutes *int
	OutputDir         *string

	// Secondary enables the secondary engagement with the Secondary* values
	// below, replacing whatever the file configured. It needs a positive
	// SecondaryPercent; otherwise the file settings stay in place.
	Secondary         bool
	SecondaryName     string
	SecondaryPercent  float64
	SecondaryNoBreaks bool

	WriteCSV  bool
	WriteICS  bool
	Notify    bool
	NoHistory bool
}

// Apply returns a copy of c with o merged on top and whether any persisted
// setting changed. c itself is not modified.
func (c Config) Apply(o Overrides) (Config, bool) {
	out := c
	out.TableMarkers = append([]string(nil), c.TableMarkers...)
	changed := false

	if o.ArrivalTime != nil && *o.ArrivalTime != c.ArrivalTime {
		out.ArrivalTime = *o.ArrivalTime
		changed = true
	}
	if o.ScatteringMinutes != nil && *o.ScatteringMinutes != c.ScatteringMinutes {
		out.ScatteringMinutes = *o.ScatteringMinutes
		changed = true
	}
	if o.OutputDir != nil {
		out.OutputDir = *o.OutputDir
	}

	if o.Secondary && o.SecondaryPercent > 0 {
		name := o.SecondaryName
		if name == "" {
			name = DefaultSecondaryName
		}
		out.EnableSecondary = true
		out.SecondaryName = name
		out.SecondaryPercent = o.SecondaryPercent
		out.SecondaryIncludeBreaks = !o.SecondaryNoBreaks
		changed = changed ||
			!c.EnableSecondary ||
			c.SecondaryName != out.SecondaryName ||
			c.SecondaryPercent != out.SecondaryPercent ||
			c.SecondaryIncludeBreaks != out.SecondaryIncludeBreaks
	}

	// Output toggles are per run and never written back.
	if o.WriteCSV {
		out.WriteCSV = true
	}
	if o.WriteICS {
		out.WriteICS = true
	}
	if o.Notify {
		out.Notify = true
	}
	if o.NoHistory {
		out.History = false
	}

	return out, changed
}
