package extract

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/christopherklint97/timecard/internal/timesheet"
	"github.com/ledongthuc/pdf"
)

const (
	// lineTolerance is how far apart (in points) two glyphs may sit
	// vertically and still belong to the same line.
	lineTolerance = 2.0
	// Horizontal gaps are measured in multiples of the font size.
	wordGapRatio = 0.2
	cellGapRatio = 1.0
	// A vertical gap this many font sizes tall separates two tables.
	blockGapRatio = 3.0
)

type textCell struct {
	start, end float64
	s          string
}

func (c textCell) center() float64 { return (c.start + c.end) / 2 }

type textLine struct {
	y     float64
	size  float64
	texts []pdf.Text
	cells []textCell
}

func (l textLine) strings() []string {
	out := make([]string, len(l.cells))
	for i, c := range l.cells {
		out[i] = c.s
	}
	return out
}

// readPDF rebuilds lines and cells from positioned glyphs, since PDF
// content carries no table structure. Empty cells vanish in PDF text, so
// every data row is aligned against its grid's header columns.
func (e *Extractor) readPDF(path string) (pages []Page, err error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pdf: %w", err)
	}
	defer f.Close()

	// The content stream parser panics on some malformed input.
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("reading pdf content: %v", rec)
		}
	}()

	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}

		lines := groupLines(p.Content().Text)
		rows := make([][]string, len(lines))
		for j, l := range lines {
			rows[j] = l.strings()
		}

		var grids []timesheet.Grid
		for _, idx := range e.segment(rows) {
			group := make([]textLine, len(idx))
			for k, j := range idx {
				group[k] = lines[j]
			}
			grids = append(grids, alignColumns(group))
		}

		pages = append(pages, Page{Text: joinRows(rows), Tables: grids})
	}
	return pages, nil
}

// groupLines clusters glyphs into lines top to bottom, splits each line
// into cells at wide gaps, and inserts an empty line wherever the vertical
// gap is large enough to separate two tables.
func groupLines(texts []pdf.Text) []textLine {
	var lines []textLine
	for _, t := range texts {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		placed := false
		for i := range lines {
			if math.Abs(lines[i].y-t.Y) < lineTolerance {
				lines[i].texts = append(lines[i].texts, t)
				lines[i].size = math.Max(lines[i].size, t.FontSize)
				placed = true
				break
			}
		}
		if !placed {
			lines = append(lines, textLine{y: t.Y, size: t.FontSize, texts: []pdf.Text{t}})
		}
	}

	// PDF y grows upwards.
	sort.Slice(lines, func(i, j int) bool { return lines[i].y > lines[j].y })

	var out []textLine
	for i := range lines {
		lines[i].cells = splitCells(lines[i].texts)
		if i > 0 {
			gap := lines[i-1].y - lines[i].y
			if gap > blockGapRatio*fontSize(lines[i-1].size) {
				out = append(out, textLine{})
			}
		}
		out = append(out, lines[i])
	}
	return out
}

func splitCells(texts []pdf.Text) []textCell {
	sort.Slice(texts, func(i, j int) bool { return texts[i].X < texts[j].X })

	var (
		cells []textCell
		cur   *textCell
	)
	for _, t := range texts {
		size := fontSize(t.FontSize)
		width := t.W
		if width <= 0 {
			width = 0.5 * size * float64(utf8.RuneCountInString(t.S))
		}
		s := strings.TrimSpace(t.S)

		if cur != nil {
			gap := t.X - cur.end
			switch {
			case gap > cellGapRatio*size:
				cells = append(cells, *cur)
				cur = nil
			case gap > wordGapRatio*size:
				cur.s += " " + s
				cur.end = t.X + width
				continue
			default:
				cur.s += s
				cur.end = t.X + width
				continue
			}
		}
		cur = &textCell{start: t.X, end: t.X + width, s: s}
	}
	if cur != nil {
		cells = append(cells, *cur)
	}
	return cells
}

// alignColumns uses the first line's cells as column anchors and places
// each cell of the following lines in the column whose center is nearest.
func alignColumns(lines []textLine) timesheet.Grid {
	if len(lines) == 0 {
		return nil
	}
	header := lines[0].cells
	grid := timesheet.Grid{lines[0].strings()}

	for _, l := range lines[1:] {
		row := make([]string, len(header))
		for _, c := range l.cells {
			col := nearestColumn(header, c.center())
			if row[col] != "" {
				row[col] += " " + c.s
			} else {
				row[col] = c.s
			}
		}
		grid = append(grid, row)
	}
	return grid
}

func nearestColumn(header []textCell, x float64) int {
	best, bestDist := 0, math.Inf(1)
	for i, h := range header {
		if d := math.Abs(h.center() - x); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func fontSize(size float64) float64 {
	if size <= 0 {
		return 10
	}
	return size
}
