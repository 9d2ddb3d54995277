package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/locvowork/excel_intelligence/internal/domain"
	"github.com/locvowork/excel_intelligence/internal/service"
	"github.com/locvowork/excel_intelligence/internal/service/serviceutils"
	"github.com/locvowork/excel_intelligence/pkg/sheettable"
	"github.com/locvowork/excel_intelligence/pkg/sheetview"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ViewerHandler struct {
	svc *service.ViewerService
}

func NewViewerHandler(svc *service.ViewerService) *ViewerHandler {
	return &ViewerHandler{svc: svc}
}

func (h *ViewerHandler) IndexHandler(c echo.Context) error {
	return c.HTMLBlob(http.StatusOK, indexHTML)
}

func (h *ViewerHandler) HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (h *ViewerHandler) UploadHandler(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid upload", err)
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "No files in upload", domain.ErrNoWorkbooks)
	}

	uploads := make([]domain.Upload, 0, len(headers))
	for _, fh := range headers {
		data, err := readPart(fh)
		if err != nil {
			return serviceutils.ResponseError(c, http.StatusBadRequest, "Failed to read upload", err)
		}
		uploads = append(uploads, domain.Upload{Name: fh.Filename, Data: data})
	}

	files, err := h.svc.Upload(c.Request().Context(), sessionID(c), uploads)
	if err != nil {
		return serviceutils.ResponseError(c, statusFor(err), "Failed to upload workbooks", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusCreated, "Workbooks uploaded successfully", WorkbookListResponse{Files: files})
}

func (h *ViewerHandler) ListHandler(c echo.Context) error {
	files, err := h.svc.List(c.Request().Context(), sessionID(c))
	if err != nil {
		return serviceutils.ResponseError(c, statusFor(err), "Failed to list workbooks", err)
	}
	resp := WorkbookListResponse{Files: files}
	if len(files) == 0 {
		resp.Files = []domain.Workbook{}
		resp.Prompt = domain.PromptMessage
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Workbooks listed successfully", resp)
}

func (h *ViewerHandler) ClearHandler(c echo.Context) error {
	if err := h.svc.Clear(c.Request().Context(), sessionID(c)); err != nil {
		return serviceutils.ResponseError(c, statusFor(err), "Failed to clear workbooks", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Workbooks cleared successfully", nil)
}

func (h *ViewerHandler) ViewHandler(c echo.Context) error {
	req, err := bindViewRequest(c)
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid view request", err)
	}

	state, err := h.svc.Render(c.Request().Context(), sessionID(c), req)
	if err != nil {
		return serviceutils.ResponseError(c, statusFor(err), "Failed to render view", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "View rendered successfully", state)
}

func (h *ViewerHandler) InsightsHandler(c echo.Context) error {
	consolidated, err := h.svc.Consolidated(c.Request().Context(), sessionID(c))
	if err != nil {
		return serviceutils.ResponseError(c, statusFor(err), "Failed to compute insights", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Insights computed successfully", consolidated)
}

func (h *ViewerHandler) ExportPDFHandler(c echo.Context) error {
	req, err := bindViewRequest(c)
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid view request", err)
	}

	name, path, cleanup, err := h.svc.ExportPDF(c.Request().Context(), sessionID(c), req)
	if err != nil {
		return serviceutils.ResponseError(c, statusFor(err), "Failed to generate PDF file", err)
	}
	defer cleanup()

	return c.Attachment(path, name)
}

func (h *ViewerHandler) ExportXLSXHandler(c echo.Context) error {
	req, err := bindViewRequest(c)
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid view request", err)
	}

	name, data, err := h.svc.ExportXLSX(c.Request().Context(), sessionID(c), req)
	if err != nil {
		return serviceutils.ResponseError(c, statusFor(err), "Failed to generate Excel file", err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	c.Response().Header().Set(echo.HeaderContentLength, strconv.Itoa(len(data)))
	return c.Blob(http.StatusOK, xlsxContentType, data)
}

func bindViewRequest(c echo.Context) (domain.ViewRequest, error) {
	var req domain.ViewRequest
	if err := c.Bind(&req); err != nil {
		return domain.ViewRequest{}, err
	}
	return req, nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// statusFor maps service errors onto HTTP statuses. Anything unrecognised is
// a server-side failure.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrWorkbookNotFound), errors.Is(err, sheettable.ErrSheetNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNoWorkbooks),
		errors.Is(err, domain.ErrTooManyWorkbooks),
		errors.Is(err, sheettable.ErrInvalidWorkbook),
		errors.Is(err, sheetview.ErrInvalidSetting):
		return http.StatusBadRequest
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}
