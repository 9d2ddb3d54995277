package domain

import (
	"fmt"
	"time"

	"github.com/locvowork/excel_intelligence/pkg/sheetinsight"
	"github.com/locvowork/excel_intelligence/pkg/sheetview"
)

// PromptMessage is shown instead of a view while nothing is uploaded.
const PromptMessage = "Upload one or more Excel files to begin."

// ==================== WORKBOOKS ====================

// Workbook is an uploaded file kept for the lifetime of a session.
type Workbook struct {
	Name       string    `json:"name"`
	Data       []byte    `json:"-"`
	Size       int64     `json:"size"`
	Sheets     []string  `json:"sheets"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Upload is a file as received, before validation.
type Upload struct {
	Name string
	Data []byte
}

// ==================== VIEWS ====================

// Mode selects how a sheet is presented.
type Mode string

const (
	ModeInteractive Mode = "interactive"
	ModeExecutive   Mode = "executive"
)

// ParseMode accepts interactive and executive; empty means interactive.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeInteractive:
		return ModeInteractive, nil
	case ModeExecutive:
		return ModeExecutive, nil
	}
	return "", fmt.Errorf("%w: mode %q", sheetview.ErrInvalidSetting, s)
}

// ViewRequest is the whole user input of one view. Every interaction sends
// a complete request and the view is recomputed from it.
type ViewRequest struct {
	File      string                             `json:"file"`
	Sheet     string                             `json:"sheet"`
	Mode      Mode                               `json:"mode"`
	Columns   map[string]sheetview.ColumnSetting `json:"columns"`
	Highlight sheetview.HighlightSettings        `json:"highlight"`
}

type ColumnState struct {
	Name     string          `json:"name"`
	Numeric  bool            `json:"numeric"`
	Align    sheetview.Align `json:"align"`
	Decimals int             `json:"decimals"`
}

type HighlightState struct {
	Columns []string `json:"columns"`
	Rows    []int    `json:"rows"`
	Color   string   `json:"color"`
}

// ViewState is everything the page needs to draw the selected sheet.
type ViewState struct {
	Prompt          string                     `json:"prompt,omitempty"`
	Files           []Workbook                 `json:"files"`
	Sheets          []string                   `json:"sheets"`
	File            string                     `json:"file,omitempty"`
	Sheet           string                     `json:"sheet,omitempty"`
	Mode            Mode                       `json:"mode"`
	Columns         []ColumnState              `json:"columns"`
	Grid            *sheetview.GridConfig      `json:"grid,omitempty"`
	Highlight       HighlightState             `json:"highlight"`
	Insights        *sheetinsight.Insights     `json:"insights,omitempty"`
	InsightsMessage string                     `json:"insights_message,omitempty"`
	Consolidated    *sheetinsight.Consolidated `json:"consolidated,omitempty"`
}
