package extract

import (
	"fmt"

	"github.com/christopherklint97/timecard/internal/timesheet"
	"github.com/xuri/excelize/v2"
)

// readXLSX maps every worksheet to a page. The cell values as displayed
// form the grid; the page text is each row's non-empty cells joined.
func (e *Extractor) readXLSX(path string) ([]Page, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	var pages []Page
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			e.logger.Warn("skipping unreadable sheet", "sheet", sheet, "error", err)
			continue
		}
		var grids []timesheet.Grid
		for _, idx := range e.segment(rows) {
			grid := make(timesheet.Grid, 0, len(idx))
			for _, i := range idx {
				grid = append(grid, rows[i])
			}
			grids = append(grids, grid)
		}
		pages = append(pages, Page{Text: joinRows(rows), Tables: grids})
	}
	return pages, nil
}
