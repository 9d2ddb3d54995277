package sheettable

import (
	"errors"
	"fmt"
)

// ErrInvalidWorkbook indicates the upload could not be parsed as xlsx.
var ErrInvalidWorkbook = errors.New("invalid xlsx workbook")

// ErrSheetNotFound indicates the requested sheet does not exist.
var ErrSheetNotFound = errors.New("sheet not found")

// LoadError carries the workbook and sheet a load failure happened in.
type LoadError struct {
	File  string
	Sheet string
	Err   error
}

func (e *LoadError) Error() string {
	switch {
	case e.File != "" && e.Sheet != "":
		return fmt.Sprintf("load %q sheet %q: %v", e.File, e.Sheet, e.Err)
	case e.Sheet != "":
		return fmt.Sprintf("load sheet %q: %v", e.Sheet, e.Err)
	case e.File != "":
		return fmt.Sprintf("load %q: %v", e.File, e.Err)
	}
	return fmt.Sprintf("load: %v", e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
