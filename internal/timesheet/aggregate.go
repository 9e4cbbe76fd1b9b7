package timesheet

import (
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	ProjectColumn = 0
	CodeColumn    = 2
)

type Aggregator struct {
	logger *slog.Logger
}

func NewAggregator(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Aggregator{logger: logger}
}

// Aggregate folds the data rows of every table into one record per day,
// ordered by day. Hours are summed exactly, so the result does not depend
// on the order rows are visited in.
func (a *Aggregator) Aggregate(tables []Table) []*DayRecord {
	days := make(map[int]*DayRecord)

	for _, t := range tables {
		cols := t.DayColumns()
		for _, row := range t.Rows {
			// Rows too short to carry a code are plain work.
			workType := WorkNormal
			if len(row) > CodeColumn {
				workType = ParseWorkType(cell(row, CodeColumn))
			}
			project := cell(row, ProjectColumn)

			for _, dc := range cols {
				if dc.Column >= len(row) {
					continue
				}
				hours, ok := a.parseHours(row[dc.Column], dc.Day)
				if !ok {
					continue
				}

				rec, exists := days[dc.Day]
				if !exists {
					rec = NewDayRecord(dc.Day, project)
					days[dc.Day] = rec
				}
				rec.merge(Contribution{
					Day:         dc.Day,
					ProjectCode: project,
					Type:        workType,
					Hours:       hours,
				})
			}
		}
	}

	records := make([]*DayRecord, 0, len(days))
	for _, rec := range days {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Day < records[j].Day })
	return records
}

// parseHours reads a cell as a positive number of hours. Comma decimals are
// accepted. Empty, zero and malformed cells contribute nothing.
func (a *Aggregator) parseHours(raw string, day int) (decimal.Decimal, bool) {
	s := strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	if s == "" {
		return decimal.Zero, false
	}
	hours, err := decimal.NewFromString(s)
	if err != nil {
		a.logger.Debug("ignoring malformed hours cell", "day", day, "value", raw)
		return decimal.Zero, false
	}
	if !hours.IsPositive() {
		return decimal.Zero, false
	}
	return hours, true
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
