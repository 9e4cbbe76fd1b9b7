package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/christopherklint97/timecard/internal/batch"
	"github.com/christopherklint97/timecard/internal/render"
	"github.com/christopherklint97/timecard/internal/store"
	"github.com/christopherklint97/timecard/internal/timesheet"
)

// RenderDays shows the records the way the PDF report lays them out.
func RenderDays(info timesheet.PeriodInfo, records []*timesheet.DayRecord) string {
	rep := render.BuildReport(info, records)
	last := len(rep.Rows) - 1

	rows := make([][]string, 0, len(rep.Rows))
	for _, r := range rep.Rows {
		rows = append(rows, r[:])
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(rep.Headers[:]...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row == last:
				return totalStyle
			case rows[row][3] == render.TripLabel:
				return tripStyle
			}
			return cellStyle
		})

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(rep.Title))
	sb.WriteString("\n")
	sb.WriteString(subtitleStyle.Render(rep.Subtitle))
	sb.WriteString("\n")
	sb.WriteString(t.String())
	sb.WriteString("\n")
	return sb.String()
}

// RenderSummary lists every document of a run with its outputs or error.
func RenderSummary(sum batch.Summary) string {
	var sb strings.Builder
	for _, r := range sum.Results {
		if r.OK() {
			sb.WriteString(successStyle.Render("✓ ") + r.Input + "\n")
			for _, out := range r.Outputs {
				sb.WriteString(dimStyle.Render("    → "+out) + "\n")
			}
			continue
		}
		sb.WriteString(errorStyle.Render("✗ ") + r.Input + "\n")
		sb.WriteString(dimStyle.Render(fmt.Sprintf("    %v", r.Err)) + "\n")
	}

	total := sum.Succeeded + sum.Failed
	line := fmt.Sprintf("Successfully processed: %d/%d files", sum.Succeeded, total)
	if sum.OK() {
		sb.WriteString(successStyle.Render(line))
	} else {
		sb.WriteString(errorStyle.Render(line))
	}
	sb.WriteString("\n")
	return sb.String()
}

// RenderHistory shows stored runs, newest first.
func RenderHistory(docs []store.Document) string {
	if len(docs) == 0 {
		return dimStyle.Render("No documents processed yet.") + "\n"
	}

	rows := make([][]string, 0, len(docs))
	for _, d := range docs {
		detail := strings.Join(d.Outputs, ", ")
		if d.Status != store.StatusOK {
			detail = d.Error
		}
		rows = append(rows, []string{
			fmt.Sprint(d.ID),
			d.ProcessedAt.Local().Format("2006-01-02 15:04"),
			d.Employee,
			d.Period,
			d.Status,
			detail,
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers("ID", "Processed", "Employee", "Period", "Status", "Outputs").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 4 && rows[row][4] != store.StatusOK {
				return errorStyle.Padding(0, 1)
			}
			return cellStyle
		})
	return t.String() + "\n"
}
