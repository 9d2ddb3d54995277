package handler

import "github.com/locvowork/excel_intelligence/internal/domain"

// WorkbookListResponse lists a session's uploads. Prompt is set while the
// list is empty.
type WorkbookListResponse struct {
	Files  []domain.Workbook `json:"files"`
	Prompt string            `json:"prompt,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
