package timesheet

import (
	"errors"
	"fmt"
)

var (
	ErrExtraction       = errors.New("extraction failed")
	ErrNameNotFound     = errors.New("employee name not found")
	ErrPeriodNotFound   = errors.New("reporting period not found")
	ErrNoTimesheetTable = errors.New("no timesheet table found")
	ErrRendering        = errors.New("rendering failed")
)

// DocumentError reports a fatal failure while processing one document.
type DocumentError struct {
	Path  string
	Stage string // "extract", "period", "table", "render", "store"
	Err   error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Path, e.Stage, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

func NewDocumentError(path, stage string, err error) *DocumentError {
	return &DocumentError{
		Path:  path,
		Stage: stage,
		Err:   err,
	}
}
