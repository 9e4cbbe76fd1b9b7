package render

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"unicode/utf8"

	"github.com/christopherklint97/timecard/internal/timesheet"
	"github.com/coregx/gxpdf/creator"
)

const (
	pageMargin   = 50.0
	titleGap     = 30.0
	subtitleGap  = 20.0
	cellPadding  = 4.0
	borderWidth  = 1.0
	bottomMargin = 60.0
)

// Unicode-capable fonts probed when no font is configured. The standard
// Helvetica fallback cannot show every Slovenian character.
var regularFontPaths = []string{
	"C:/Windows/Fonts/arial.ttf",
	"/Library/Fonts/Arial.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
}

var boldFontPaths = []string{
	"C:/Windows/Fonts/arialbd.ttf",
	"/Library/Fonts/Arial Bold.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
}

type PDFRenderer struct {
	fontPath string
	logger   *slog.Logger
}

func NewPDFRenderer(fontPath string, logger *slog.Logger) *PDFRenderer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &PDFRenderer{fontPath: fontPath, logger: logger}
}

type fontSet struct {
	regular *creator.CustomFont
	bold    *creator.CustomFont
}

func (r *PDFRenderer) loadFonts() fontSet {
	var fs fontSet
	regular := r.fontPath
	if regular == "" {
		regular = findFont(regularFontPaths)
	}
	if regular == "" {
		return fs
	}

	f, err := creator.LoadFont(regular)
	if err != nil {
		r.logger.Warn("falling back to Helvetica", "font", regular, "error", err)
		return fs
	}
	fs.regular, fs.bold = f, f

	if r.fontPath == "" {
		if boldPath := findFont(boldFontPaths); boldPath != "" {
			if b, err := creator.LoadFont(boldPath); err == nil {
				fs.bold = b
			}
		}
	}
	return fs
}

func findFont(paths []string) string {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func (fs fontSet) width(s string, size float64, bold bool) float64 {
	if f := fs.pick(bold); f != nil {
		return f.MeasureString(s, size)
	}
	return 0.5 * size * float64(utf8.RuneCountInString(s))
}

func (fs fontSet) pick(bold bool) *creator.CustomFont {
	if bold {
		return fs.bold
	}
	return fs.regular
}

func (fs fontSet) text(page *creator.Page, s string, x, y, size float64, bold bool) error {
	if f := fs.pick(bold); f != nil {
		return page.AddTextCustomFont(s, x, y, f, size)
	}
	font := creator.Helvetica
	if bold {
		font = creator.HelveticaBold
	}
	return page.AddText(s, x, y, font, size)
}

func (fs fontSet) centered(page *creator.Page, s string, cx, y, size float64, bold bool) error {
	return fs.text(page, s, cx-fs.width(s, size, bold)/2, y, size, bold)
}

// Render writes the report as an A4 PDF at path. Long tables continue on
// further pages with the header row repeated.
func (r *PDFRenderer) Render(ctx context.Context, rep Report, path string) error {
	c := creator.New()
	c.SetTitle(rep.Title)
	c.SetSubject(rep.Subtitle)

	fonts := r.loadFonts()
	st := rep.Style

	page, err := c.NewPage()
	if err != nil {
		return fmt.Errorf("%w: adding page: %v", timesheet.ErrRendering, err)
	}

	width := page.Width()
	y := page.Height() - pageMargin
	if err := fonts.centered(page, rep.Title, width/2, y, st.TitleSize, true); err != nil {
		return fmt.Errorf("%w: drawing title: %v", timesheet.ErrRendering, err)
	}
	y -= titleGap
	if err := fonts.centered(page, rep.Subtitle, width/2, y, st.InfoSize, false); err != nil {
		return fmt.Errorf("%w: drawing subtitle: %v", timesheet.ErrRendering, err)
	}
	y -= subtitleGap

	tableWidth := width - 2*pageMargin
	y, err = drawRow(page, fonts, st, rep.Headers, y, tableWidth, true)
	if err != nil {
		return err
	}

	for _, row := range rep.Rows {
		if y-st.RowHeight < bottomMargin {
			if page, err = c.NewPage(); err != nil {
				return fmt.Errorf("%w: adding page: %v", timesheet.ErrRendering, err)
			}
			y, err = drawRow(page, fonts, st, rep.Headers, page.Height()-pageMargin, tableWidth, true)
			if err != nil {
				return err
			}
		}
		if y, err = drawRow(page, fonts, st, row, y, tableWidth, false); err != nil {
			return err
		}
	}

	if err := c.WriteToFileContext(ctx, path); err != nil {
		return fmt.Errorf("%w: writing %s: %v", timesheet.ErrRendering, path, err)
	}
	r.logger.Debug("rendered report", "path", path, "rows", len(rep.Rows))
	return nil
}

// drawRow draws one bordered table row whose top edge is at y and returns
// the y of its bottom edge.
func drawRow(page *creator.Page, fonts fontSet, st Style, cells [5]string, y, tableWidth float64, header bool) (float64, error) {
	fill := creator.White
	size := st.BodySize
	if header {
		fill = creator.LightGray
		size = st.HeaderSize
	}
	border := creator.Black

	x := pageMargin
	for i, cell := range cells {
		w := tableWidth * st.Columns[i]
		if err := page.DrawRect(x, y-st.RowHeight, w, st.RowHeight, &creator.RectOptions{
			FillColor:   &fill,
			StrokeColor: &border,
			StrokeWidth: borderWidth,
		}); err != nil {
			return y, fmt.Errorf("%w: drawing cell: %v", timesheet.ErrRendering, err)
		}

		if cell != "" {
			label := fitText(fonts, cell, w-2*cellPadding, size, header)
			textY := y - st.RowHeight + (st.RowHeight-size)/2 + 1
			if err := fonts.centered(page, label, x+w/2, textY, size, header); err != nil {
				return y, fmt.Errorf("%w: drawing text: %v", timesheet.ErrRendering, err)
			}
		}
		x += w
	}
	return y - st.RowHeight, nil
}

// fitText shortens s with an ellipsis until it fits in width.
func fitText(fonts fontSet, s string, width, size float64, bold bool) string {
	if fonts.width(s, size, bold) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 1 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + "…"
		if fonts.pick(bold) == nil {
			candidate = string(runes) + "."
		}
		if fonts.width(candidate, size, bold) <= width {
			return candidate
		}
	}
	return string(runes)
}
