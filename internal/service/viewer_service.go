package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/locvowork/excel_intelligence/internal/config"
	"github.com/locvowork/excel_intelligence/internal/domain"
	"github.com/locvowork/excel_intelligence/internal/logger"
	"github.com/locvowork/excel_intelligence/pkg/pdfexport"
	"github.com/locvowork/excel_intelligence/pkg/sheetinsight"
	"github.com/locvowork/excel_intelligence/pkg/sheettable"
	"github.com/locvowork/excel_intelligence/pkg/sheetview"
	"github.com/locvowork/excel_intelligence/pkg/xlsxexport"
)

// ViewerOptions are the limits of a ViewerService.
type ViewerOptions struct {
	// ScanWorkers is how many workbooks the consolidated scan parses at once.
	ScanWorkers int
	// MaxFiles caps the workbooks of one session; 0 means no cap.
	MaxFiles int
}

// ViewerService turns a session's uploads and a ViewRequest into views and
// exports. It holds no view state: every call recomputes from the request.
type ViewerService struct {
	store domain.WorkbookStore
	view  config.ViewConfig
	opts  ViewerOptions
	pdf   *pdfexport.Exporter
	xlsx  *xlsxexport.Exporter
	now   func() time.Time
}

// NewViewerService creates a new ViewerService instance
func NewViewerService(store domain.WorkbookStore, view config.ViewConfig, opts ViewerOptions) *ViewerService {
	if opts.ScanWorkers <= 0 {
		opts.ScanWorkers = 1
	}
	return &ViewerService{
		store: store,
		view:  view,
		opts:  opts,
		pdf:   pdfexport.New(view.PDF),
		xlsx:  xlsxexport.New(view.XLSXOptions()),
		now:   time.Now,
	}
}

// ==================== Workbook Operations ====================

// Upload validates every file and stores them all, or none when any file is
// not a readable workbook. A file named like an earlier upload replaces it.
func (s *ViewerService) Upload(ctx context.Context, sessionID string, uploads []domain.Upload) ([]domain.Workbook, error) {
	if len(uploads) == 0 {
		return nil, domain.ErrNoWorkbooks
	}

	workbooks := make([]domain.Workbook, 0, len(uploads))
	for _, u := range uploads {
		f, err := sheettable.OpenBytes(u.Name, u.Data)
		if err != nil {
			return nil, err
		}
		sheets := sheettable.SheetNames(f)
		f.Close()

		workbooks = append(workbooks, domain.Workbook{
			Name:       u.Name,
			Data:       u.Data,
			Size:       int64(len(u.Data)),
			Sheets:     sheets,
			UploadedAt: s.now(),
		})
	}
	if err := s.store.Put(ctx, sessionID, s.opts.MaxFiles, workbooks...); err != nil {
		return nil, err
	}
	logger.InfoLog(ctx, "Stored %d workbooks", len(workbooks))
	return s.store.List(ctx, sessionID)
}

// List returns the session's workbooks in upload order.
func (s *ViewerService) List(ctx context.Context, sessionID string) ([]domain.Workbook, error) {
	return s.store.List(ctx, sessionID)
}

// Clear forgets every upload of the session.
func (s *ViewerService) Clear(ctx context.Context, sessionID string) error {
	return s.store.Clear(ctx, sessionID)
}

// ==================== View Operations ====================

type preparedView struct {
	file      domain.Workbook
	sheets    []string
	table     *sheettable.Table
	formatted *sheetview.FormattedTable
	highlight sheetview.Highlight
}

// Render recomputes the view of req. With nothing uploaded it returns a
// state carrying only the upload prompt.
func (s *ViewerService) Render(ctx context.Context, sessionID string, req domain.ViewRequest) (*domain.ViewState, error) {
	mode, err := domain.ParseMode(string(req.Mode))
	if err != nil {
		return nil, err
	}
	workbooks, err := s.store.List(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	state := &domain.ViewState{
		Files:     workbooks,
		Sheets:    []string{},
		Mode:      mode,
		Columns:   []domain.ColumnState{},
		Highlight: domain.HighlightState{Columns: []string{}, Rows: []int{}},
	}
	if len(workbooks) == 0 {
		state.Files = []domain.Workbook{}
		state.Prompt = domain.PromptMessage
		return state, nil
	}

	p, err := s.prepare(workbooks, req)
	if err != nil {
		return nil, err
	}

	state.File = p.file.Name
	state.Sheet = p.table.Sheet
	state.Sheets = p.sheets
	for _, col := range p.formatted.Columns {
		state.Columns = append(state.Columns, domain.ColumnState{
			Name:     col.Name,
			Numeric:  col.Numeric,
			Align:    col.Align,
			Decimals: col.Decimals,
		})
	}

	gridOpts := s.view.Grid.GridOptions
	gridOpts.Height = s.view.Grid.InteractiveHeight
	if mode == domain.ModeExecutive {
		gridOpts.Height = s.view.Grid.ExecutiveHeight
	}
	grid := sheetview.BuildGrid(p.formatted, p.highlight, gridOpts)
	state.Grid = &grid
	state.Highlight = domain.HighlightState{
		Columns: p.highlight.ColumnList(p.table.ColumnNames()),
		Rows:    p.highlight.RowList(),
		Color:   p.highlight.Color,
	}

	if mode == domain.ModeExecutive {
		ins := sheetinsight.Compute(p.table)
		state.Insights = &ins
		state.InsightsMessage = ins.Message()
	}

	// Cross-file totals are rescanned on every render, in both modes.
	consolidated, err := s.consolidate(ctx, workbooks)
	if err != nil {
		return nil, err
	}
	state.Consolidated = consolidated
	return state, nil
}

// Consolidated scans every sheet of every uploaded workbook.
func (s *ViewerService) Consolidated(ctx context.Context, sessionID string) (*sheetinsight.Consolidated, error) {
	workbooks, err := s.store.List(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(workbooks) == 0 {
		return nil, domain.ErrNoWorkbooks
	}
	return s.consolidate(ctx, workbooks)
}

func (s *ViewerService) consolidate(ctx context.Context, workbooks []domain.Workbook) (*sheetinsight.Consolidated, error) {
	scan := make([]sheetinsight.Workbook, len(workbooks))
	for i, wb := range workbooks {
		scan[i] = sheetinsight.Workbook{Name: wb.Name, Data: wb.Data}
	}
	start := s.now()
	c, err := sheetinsight.Consolidate(ctx, scan, sheetinsight.WithWorkers(s.opts.ScanWorkers))
	if err != nil {
		return nil, err
	}
	logger.DebugLog(ctx, "Consolidated %d sheets of %d files in %v", c.SheetCount, c.Files, s.now().Sub(start))
	return &c, nil
}

// ==================== Export Operations ====================

// ExportPDF renders the view of req into a temporary PDF. The caller serves
// the file at path and must call cleanup afterwards.
func (s *ViewerService) ExportPDF(ctx context.Context, sessionID string, req domain.ViewRequest) (name, path string, cleanup func(), err error) {
	p, err := s.load(ctx, sessionID, req)
	if err != nil {
		return "", "", nil, err
	}
	path, cleanup, err = s.pdf.ExportTemp(pdfexport.FromTable(p.file.Name, p.formatted))
	if err != nil {
		return "", "", nil, err
	}
	logger.InfoLog(ctx, "Exported %s/%s to PDF", p.file.Name, p.table.Sheet)
	return pdfexport.FileName(p.table.Sheet), path, cleanup, nil
}

// ExportXLSX renders the view of req into an xlsx workbook.
func (s *ViewerService) ExportXLSX(ctx context.Context, sessionID string, req domain.ViewRequest) (name string, data []byte, err error) {
	p, err := s.load(ctx, sessionID, req)
	if err != nil {
		return "", nil, err
	}
	data, err = s.xlsx.ToBytes(xlsxexport.View{
		Table:     p.table,
		Formatted: p.formatted,
		Highlight: p.highlight,
	})
	if err != nil {
		return "", nil, err
	}
	logger.InfoLog(ctx, "Exported %s/%s to xlsx", p.file.Name, p.table.Sheet)
	return xlsxexport.FileName(p.table.Sheet), data, nil
}

func (s *ViewerService) load(ctx context.Context, sessionID string, req domain.ViewRequest) (*preparedView, error) {
	workbooks, err := s.store.List(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(workbooks) == 0 {
		return nil, domain.ErrNoWorkbooks
	}
	return s.prepare(workbooks, req)
}

func (s *ViewerService) prepare(workbooks []domain.Workbook, req domain.ViewRequest) (*preparedView, error) {
	if _, err := domain.ParseMode(string(req.Mode)); err != nil {
		return nil, err
	}
	if err := validateSettings(req.Columns); err != nil {
		return nil, err
	}
	wb, err := selectFile(workbooks, req.File)
	if err != nil {
		return nil, err
	}

	f, err := sheettable.OpenBytes(wb.Name, wb.Data)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := sheettable.SheetNames(f)
	sheet, err := selectSheet(sheets, req.Sheet)
	if err != nil {
		return nil, &sheettable.LoadError{File: wb.Name, Sheet: req.Sheet, Err: err}
	}
	table, err := sheettable.Load(f, sheet)
	if err != nil {
		var le *sheettable.LoadError
		if errors.As(err, &le) {
			le.File = wb.Name
		}
		return nil, err
	}

	hl, err := sheetview.BuildHighlight(table.ColumnNames(), table.Rows, req.Highlight,
		s.view.Highlight.Keywords, s.view.Highlight.Color)
	if err != nil {
		return nil, err
	}
	return &preparedView{
		file:      wb,
		sheets:    sheets,
		table:     table,
		formatted: sheetview.Format(table, req.Columns),
		highlight: hl,
	}, nil
}

// selectFile picks the named workbook, or the first one when name is empty.
func selectFile(workbooks []domain.Workbook, name string) (domain.Workbook, error) {
	if name == "" {
		return workbooks[0], nil
	}
	for _, wb := range workbooks {
		if wb.Name == name {
			return wb, nil
		}
	}
	return domain.Workbook{}, fmt.Errorf("%w: %q", domain.ErrWorkbookNotFound, name)
}

// selectSheet picks the named sheet, or the first one when name is empty.
func selectSheet(sheets []string, name string) (string, error) {
	if len(sheets) == 0 {
		return "", sheettable.ErrSheetNotFound
	}
	if name == "" {
		return sheets[0], nil
	}
	for _, s := range sheets {
		if s == name {
			return s, nil
		}
	}
	return "", sheettable.ErrSheetNotFound
}

func validateSettings(settings map[string]sheetview.ColumnSetting) error {
	for name, st := range settings {
		if _, err := sheetview.ParseAlign(string(st.Align)); err != nil {
			return fmt.Errorf("column %q: %w", name, err)
		}
		switch st.Decimals {
		case sheetview.DecimalsAuto, sheetview.Decimals2, sheetview.Decimals6:
		default:
			return fmt.Errorf("column %q: %w: decimals %d", name, sheetview.ErrInvalidSetting, int(st.Decimals))
		}
	}
	return nil
}
