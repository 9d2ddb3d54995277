package domain

import "errors"

var (
	ErrNoWorkbooks      = errors.New("no workbooks uploaded")
	ErrWorkbookNotFound = errors.New("workbook not found")
	ErrTooManyWorkbooks = errors.New("too many workbooks")
)
