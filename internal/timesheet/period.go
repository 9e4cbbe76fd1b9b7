package timesheet

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	NameLabel   = "Ime in priimek:"
	PeriodLabel = "STROŠKOVNIK ZA ODBOBJE:"
)

var monthNames = [12]string{
	"januar", "februar", "marec", "april", "maj", "junij",
	"julij", "avgust", "september", "oktober", "november", "december",
}

var (
	nameRe  = regexp.MustCompile(regexp.QuoteMeta(NameLabel) + `\s*([^\n]+)`)
	rangeRe = regexp.MustCompile(`(\d{2})\.(\d{2})\.(\d{4})\s*[-–]\s*(\d{2})\.(\d{2})\.(\d{4})`)
)

// PeriodInfo identifies whose timesheet a document is and which month it covers.
type PeriodInfo struct {
	EmployeeName string
	MonthName    string
	Month        time.Month
	Year         int
	Start        time.Time
	End          time.Time
}

// Label renders the period as "<month> <year>", e.g. "september 2025".
func (p PeriodInfo) Label() string {
	return fmt.Sprintf("%s %d", p.MonthName, p.Year)
}

// FormatDay renders a day of the period's month as dd.mm.yyyy. The day is
// not validated against the month length.
func (p PeriodInfo) FormatDay(day int) string {
	return fmt.Sprintf("%02d.%02d.%d", day, int(p.Month), p.Year)
}

// Date returns the calendar date for day in the period's month.
func (p PeriodInfo) Date(day int) time.Time {
	return time.Date(p.Year, p.Month, day, 0, 0, 0, 0, time.Local)
}

func MonthName(m time.Month) (string, bool) {
	if m < time.January || m > time.December {
		return "", false
	}
	return monthNames[m-1], true
}

// ResolvePeriod extracts the employee name and the reporting period from
// the concatenated page text. Both are required for the whole document.
func ResolvePeriod(text string) (PeriodInfo, error) {
	m := nameRe.FindStringSubmatch(text)
	if m == nil || strings.TrimSpace(m[1]) == "" {
		return PeriodInfo{}, ErrNameNotFound
	}
	name := strings.TrimSpace(m[1])

	search := text
	if i := strings.Index(text, PeriodLabel); i >= 0 {
		search = text[i+len(PeriodLabel):]
	}
	r := rangeRe.FindStringSubmatch(search)
	if r == nil {
		return PeriodInfo{}, ErrPeriodNotFound
	}

	start, err := parseDate(r[1], r[2], r[3])
	if err != nil {
		return PeriodInfo{}, fmt.Errorf("%w: %v", ErrPeriodNotFound, err)
	}
	end, err := parseDate(r[4], r[5], r[6])
	if err != nil {
		return PeriodInfo{}, fmt.Errorf("%w: %v", ErrPeriodNotFound, err)
	}

	month, _ := MonthName(start.Month())
	return PeriodInfo{
		EmployeeName: name,
		MonthName:    month,
		Month:        start.Month(),
		Year:         start.Year(),
		Start:        start,
		End:          end,
	}, nil
}

func parseDate(d, m, y string) (time.Time, error) {
	t, err := time.ParseInLocation("02.01.2006", d+"."+m+"."+y, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %s.%s.%s: %w", d, m, y, err)
	}
	return t, nil
}

var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// CleanName reduces an employee name to ASCII letters joined by
// underscores, e.g. "Žiga Šket" becomes "Ziga_Sket".
func CleanName(name string) string {
	folded, _, err := transform.String(foldDiacritics, name)
	if err != nil {
		folded = name
	}
	kept := strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsSpace(r)) {
			return r
		}
		if unicode.IsSpace(r) {
			return ' '
		}
		return -1
	}, folded)
	return strings.Join(strings.Fields(kept), "_")
}

func cleanSecondaryName(name string) string {
	name = strings.ReplaceAll(name, " ", "_")
	return strings.Map(func(r rune) rune {
		if r == '_' || (r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))) {
			return r
		}
		return -1
	}, name)
}

// BaseFilename returns <Month>_<Year>_<Name>[_<Secondary>] without extension.
func BaseFilename(p PeriodInfo, secondaryName string) string {
	name := CleanName(p.EmployeeName)
	if name == "" {
		name = "Timesheet"
	}
	base := MonthDir(p) + "_" + name
	if secondaryName == "" {
		return base
	}
	sec := cleanSecondaryName(secondaryName)
	if sec == "" {
		sec = "Secondary"
	}
	return base + "_" + sec
}

// MonthDir is the per-month output folder name, e.g. "September_2025".
func MonthDir(p PeriodInfo) string {
	month := p.MonthName
	if month != "" {
		month = strings.ToUpper(month[:1]) + month[1:]
	}
	return month + "_" + strconv.Itoa(p.Year)
}
