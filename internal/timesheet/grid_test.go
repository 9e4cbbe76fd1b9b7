package timesheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayColumns(t *testing.T) {
	header := []string{"Šifra", "P 1", "T 2", "3", "", "Dejanske ure", "45", "0", "S 3"}

	days := DayColumns(header)

	assert.Equal(t, map[int]int{1: 1, 2: 2, 3: 8}, days)
}

func TestDayColumns_RepeatedDayUsesLastColumn(t *testing.T) {
	days := DayColumns([]string{"Šifra", "1", "2", "Dejanske ure", "1"})

	assert.Equal(t, map[int]int{1: 4, 2: 2}, days)
}

func TestNormalize_AcceptsHoursSuffixHeader(t *testing.T) {
	grids := []Grid{{
		{"Šifra", "1", "2", "Skupaj ure"},
		{"001", "8", "6", "14"},
	}}

	tables := NewNormalizer(nil).Normalize(grids)

	require.Len(t, tables, 1)
	assert.Equal(t, map[int]int{1: 1, 2: 2}, tables[0].Days)
	require.Len(t, tables[0].Rows, 1)
}

func TestNormalize_SkipsUnrelatedGrids(t *testing.T) {
	n := NewNormalizer(nil)
	grids := []Grid{
		{{"Naziv", "Znesek"}, {"Kilometrina", "12,30"}},
		{{"Dejanske ure"}},
		{{"Dejanske ure", "brez dni"}, {"001", "x"}},
	}

	assert.Empty(t, n.Normalize(grids))
}

func TestNormalize_DropsTotalRows(t *testing.T) {
	n := NewNormalizer(nil)
	grids := []Grid{{
		{"Projekt", "Opis", "Šifra", "1", "2", "Dejanske ure"},
		{"P-100", "razvoj", "001", "8", "8", "16"},
		{"Vsota", "", "", "8", "8", "16"},
		{" SKUPAJ ", "", "", "8", "8", "16"},
		{"", "", "002", "", "4", ""},
	}}

	tables := n.Normalize(grids)

	require.Len(t, tables, 1)
	assert.Equal(t, map[int]int{1: 3, 2: 4}, tables[0].Days)
	require.Len(t, tables[0].Rows, 2)
	assert.Equal(t, "P-100", tables[0].Rows[0][0])
	assert.Equal(t, "002", tables[0].Rows[1][2])
}

func TestNormalize_CustomMarker(t *testing.T) {
	n := NewNormalizer([]string{"Actual hours"})
	grids := []Grid{
		{{"Code", "1", "Actual hours"}, {"001", "8"}},
		{{"Dejanske ure", "1"}, {"001", "8"}},
	}

	tables := n.Normalize(grids)

	require.Len(t, tables, 1)
	assert.Equal(t, map[int]int{1: 1}, tables[0].Days)
}

func TestTable_DayColumnsOrdered(t *testing.T) {
	tbl := Table{Days: map[int]int{3: 9, 1: 4, 2: 7}}

	assert.Equal(t, []DayColumn{{1, 4}, {2, 7}, {3, 9}}, tbl.DayColumns())
}
