package timesheet

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleText = `PODJETJE d.o.o.
STROŠKOVNIK ZA ODBOBJE: 01.09.2025 - 30.09.2025
Ime in priimek: Žiga Šket
Dejanske ure
`

func TestResolvePeriod(t *testing.T) {
	info, err := ResolvePeriod(sampleText)
	require.NoError(t, err)

	assert.Equal(t, "Žiga Šket", info.EmployeeName)
	assert.Equal(t, "september", info.MonthName)
	assert.Equal(t, time.September, info.Month)
	assert.Equal(t, 2025, info.Year)
	assert.Equal(t, "september 2025", info.Label())
	assert.Equal(t, 30, info.End.Day())
	assert.Equal(t, "05.09.2025", info.FormatDay(5))
}

func TestResolvePeriod_Failures(t *testing.T) {
	_, err := ResolvePeriod("STROŠKOVNIK ZA ODBOBJE: 01.09.2025 - 30.09.2025\n")
	assert.True(t, errors.Is(err, ErrNameNotFound))

	_, err = ResolvePeriod("Ime in priimek: Ana Novak\nSTROŠKOVNIK ZA ODBOBJE: september\n")
	assert.True(t, errors.Is(err, ErrPeriodNotFound))

	_, err = ResolvePeriod("Ime in priimek: Ana Novak\n01.13.2025 - 30.13.2025\n")
	assert.True(t, errors.Is(err, ErrPeriodNotFound))
}

func TestResolvePeriod_NameOnNextLine(t *testing.T) {
	info, err := ResolvePeriod("Ime in priimek:\nJanez Novak\nSTROŠKOVNIK ZA ODBOBJE: 01.09.2025 - 30.09.2025")
	require.NoError(t, err)
	assert.Equal(t, "Janez Novak", info.EmployeeName)
	assert.Equal(t, time.September, info.Month)
}

func TestResolvePeriod_RangeWithoutLabel(t *testing.T) {
	info, err := ResolvePeriod("Ime in priimek: Ana Novak\nobdobje 01.02.2024-29.02.2024")
	require.NoError(t, err)
	assert.Equal(t, "februar", info.MonthName)
	assert.Equal(t, 2024, info.Year)
}

func TestBaseFilename(t *testing.T) {
	info := PeriodInfo{EmployeeName: "Žiga  Šket-Novak 2", MonthName: "oktober", Month: time.October, Year: 2025}

	assert.Equal(t, "Oktober_2025", MonthDir(info))
	assert.Equal(t, "Oktober_2025_Ziga_SketNovak", BaseFilename(info, ""))
	assert.Equal(t, "Oktober_2025_Ziga_SketNovak_Projekt_X2", BaseFilename(info, "Projekt X2!"))
	assert.Equal(t, "Oktober_2025_Ziga_SketNovak_Secondary", BaseFilename(info, "!!"))

	info.EmployeeName = "123"
	assert.Equal(t, "Oktober_2025_Timesheet", BaseFilename(info, ""))
}

func TestMonthName(t *testing.T) {
	name, ok := MonthName(time.May)
	assert.True(t, ok)
	assert.Equal(t, "maj", name)

	_, ok = MonthName(time.Month(13))
	assert.False(t, ok)
}
