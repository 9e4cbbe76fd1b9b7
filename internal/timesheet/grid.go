package timesheet

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Grid is a table extracted from a page. Absent cells are empty strings.
type Grid [][]string

var (
	DefaultMarkers       = []string{"Dejanske ure", "Dejanske", "ure"}
	DefaultTotalKeywords = []string{"vsota", "total", "skupaj", "sum"}
)

var dayNumberRe = regexp.MustCompile(`\d+`)

// Table is an accepted timesheet grid: the day→column map plus its data rows.
type Table struct {
	Days map[int]int
	Rows [][]string
}

type DayColumn struct {
	Day    int
	Column int
}

// DayColumns returns the day→column pairs ordered by day.
func (t Table) DayColumns() []DayColumn {
	cols := make([]DayColumn, 0, len(t.Days))
	for day, col := range t.Days {
		cols = append(cols, DayColumn{Day: day, Column: col})
	}
	sort.Slice(cols, func(i, j int) bool { return cols[i].Day < cols[j].Day })
	return cols
}

type Normalizer struct {
	Markers       []string
	TotalKeywords []string
}

func NewNormalizer(markers []string) *Normalizer {
	if len(markers) == 0 {
		markers = DefaultMarkers
	}
	return &Normalizer{
		Markers:       markers,
		TotalKeywords: DefaultTotalKeywords,
	}
}

// Normalize picks the timesheet tables out of grids from every page.
// Grids without a marker in their first row are unrelated tables and are
// skipped, as are grids without any day column.
func (n *Normalizer) Normalize(grids []Grid) []Table {
	var tables []Table
	for _, g := range grids {
		if len(g) < 2 || !n.IsHeader(g[0]) {
			continue
		}

		days := DayColumns(g[0])
		if len(days) == 0 {
			continue
		}

		var rows [][]string
		for _, row := range g[1:] {
			if n.isTotalRow(row) {
				continue
			}
			rows = append(rows, row)
		}

		tables = append(tables, Table{Days: days, Rows: rows})
	}
	return tables
}

// IsHeader reports whether a row carries one of the table markers.
func (n *Normalizer) IsHeader(header []string) bool {
	text := strings.Join(header, " ")
	for _, m := range n.Markers {
		if m != "" && strings.Contains(text, m) {
			return true
		}
	}
	return false
}

func (n *Normalizer) isTotalRow(row []string) bool {
	if len(row) == 0 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(row[0]))
	if first == "" {
		return false
	}
	for _, kw := range n.TotalKeywords {
		if strings.Contains(first, kw) {
			return true
		}
	}
	return false
}

// DayColumns maps day numbers to header column indexes. Headers such as
// "P 1" or "T 2" carry the day as their first embedded integer; cells
// without one, or with one outside [1,31], are ignored. When a day appears
// twice the rightmost column wins.
func DayColumns(header []string) map[int]int {
	days := make(map[int]int)
	for i, cell := range header {
		match := dayNumberRe.FindString(cell)
		if match == "" {
			continue
		}
		day, err := strconv.Atoi(match)
		if err != nil || day < 1 || day > 31 {
			continue
		}
		days[day] = i
	}
	return days
}
