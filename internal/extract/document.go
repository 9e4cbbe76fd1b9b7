package extract

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/christopherklint97/timecard/internal/timesheet"
)

// Page is the extraction output for one page (or worksheet).
type Page struct {
	Text   string
	Tables []timesheet.Grid
}

type Document struct {
	Path  string
	Pages []Page
}

// Text concatenates the text of every page, one page per block.
func (d *Document) Text() string {
	var b strings.Builder
	for _, p := range d.Pages {
		b.WriteString(p.Text)
		b.WriteString("\n")
	}
	return b.String()
}

// Grids returns the grids of all pages in page order.
func (d *Document) Grids() []timesheet.Grid {
	var grids []timesheet.Grid
	for _, p := range d.Pages {
		grids = append(grids, p.Tables...)
	}
	return grids
}

// Extractor turns PDF and XLSX timesheets into pages of text and grids.
//
// Neither format marks where a table starts, so a row accepted by
// TableStart begins a new grid. Without a hint, blank lines separate grids.
type Extractor struct {
	TableStart func(row []string) bool
	logger     *slog.Logger
}

func NewExtractor(tableStart func(row []string) bool, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Extractor{TableStart: tableStart, logger: logger}
}

// Supported reports whether path has an extension the extractor can read.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf", ".xlsx":
		return true
	}
	return false
}

func (e *Extractor) Open(path string) (*Document, error) {
	var (
		pages []Page
		err   error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".pdf":
		pages, err = e.readPDF(path)
	case ".xlsx":
		pages, err = e.readXLSX(path)
	default:
		return nil, fmt.Errorf("%w: unsupported file type %q", timesheet.ErrExtraction, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", timesheet.ErrExtraction, err)
	}

	e.logger.Debug("extracted document", "path", path, "pages", len(pages))
	return &Document{Path: path, Pages: pages}, nil
}

// segment cuts a run of rows into grids at TableStart rows and at blank
// rows, returning the row indexes of each grid. Blank rows are dropped.
func (e *Extractor) segment(rows [][]string) [][]int {
	var (
		groups  [][]int
		current []int
	)
	flush := func() {
		if len(current) > 0 {
			groups = append(groups, current)
		}
		current = nil
	}

	for i, row := range rows {
		if isBlank(row) {
			flush()
			continue
		}
		if e.TableStart != nil && e.TableStart(row) {
			flush()
		}
		current = append(current, i)
	}
	flush()
	return groups
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func joinRows(rows [][]string) string {
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		var cells []string
		for _, c := range row {
			if c = strings.TrimSpace(c); c != "" {
				cells = append(cells, c)
			}
		}
		lines = append(lines, strings.Join(cells, " "))
	}
	return strings.Join(lines, "\n")
}
