package domain

import "context"

// WorkbookStore keeps the uploaded workbooks of each session.
type WorkbookStore interface {
	// Put adds workbooks to a session, replacing any with the same name.
	// When limit is positive and the session would hold more than limit
	// distinct names, nothing is stored and ErrTooManyWorkbooks is returned.
	Put(ctx context.Context, sessionID string, limit int, workbooks ...Workbook) error
	// List returns the session's workbooks in upload order.
	List(ctx context.Context, sessionID string) ([]Workbook, error)
	Get(ctx context.Context, sessionID, name string) (Workbook, error)
	Clear(ctx context.Context, sessionID string) error
}
