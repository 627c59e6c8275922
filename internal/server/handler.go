package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"fjacquet/bilanci/internal/logging"
	"fjacquet/bilanci/internal/models"
	"fjacquet/bilanci/internal/parsererror"
	"fjacquet/bilanci/internal/report"
	"fjacquet/bilanci/internal/store"
	"fjacquet/bilanci/internal/tabular"

	"github.com/gin-gonic/gin"
)

// Analyzer is the part of the extraction pipeline the HTTP API drives.
type Analyzer interface {
	Analyze(ctx context.Context, name string, r io.Reader) (*models.Analysis, error)
	MapDocument(ctx context.Context, name string, r io.Reader, mapping models.ColumnMapping) (*models.Analysis, error)
	InvoiceFromDocument(ctx context.Context, name string, r io.Reader) (*models.InvoiceRecord, error)
	MinConfidence() int
	Last() (*models.Analysis, error)
}

// Handler serves the analysis endpoints.
type Handler struct {
	analyzer Analyzer
	exporter *report.Exporter
	maxSize  int64
	logger   logging.Logger
}

// NewHandler creates a Handler. Uploads above maxSize bytes are rejected
// before they are read.
func NewHandler(analyzer Analyzer, exporter *report.Exporter, maxSize int64, logger logging.Logger) *Handler {
	return &Handler{
		analyzer: analyzer,
		exporter: exporter,
		maxSize:  maxSize,
		logger:   logging.OrDefault(logger),
	}
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "healthy", Service: "bilanci"})
}

// Analyze handles POST /api/v1/analyze with a multipart "file".
func (h *Handler) Analyze(c *gin.Context) {
	file, ok := h.upload(c)
	if !ok {
		return
	}
	defer h.closeUpload(file)

	analysis, err := h.analyzer.Analyze(c.Request.Context(), file.name, file.reader)
	if err != nil {
		h.sendAnalysisError(c, err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}

// Invoice handles POST /api/v1/invoice. The reading is returned even below
// the acceptance threshold; Accepted tells the caller whether to use it.
func (h *Handler) Invoice(c *gin.Context) {
	file, ok := h.upload(c)
	if !ok {
		return
	}
	defer h.closeUpload(file)

	inv, err := h.analyzer.InvoiceFromDocument(c.Request.Context(), file.name, file.reader)
	if err != nil {
		h.sendAnalysisError(c, err)
		return
	}
	c.JSON(http.StatusOK, InvoiceResponse{
		Invoice:       inv,
		Accepted:      inv.Accepted(h.analyzer.MinConfidence()),
		MinConfidence: h.analyzer.MinConfidence(),
	})
}

// Mapping handles POST /api/v1/mapping: a multipart "file" plus a "mapping"
// form value holding a JSON object of field to column index.
func (h *Handler) Mapping(c *gin.Context) {
	raw := c.PostForm("mapping")
	if strings.TrimSpace(raw) == "" {
		h.sendError(c, http.StatusBadRequest, CodeInvalidMapping, "A mapping form value is required", nil)
		return
	}
	var mapping models.ColumnMapping
	if err := json.Unmarshal([]byte(raw), &mapping); err != nil {
		h.sendError(c, http.StatusBadRequest, CodeInvalidMapping, "Mapping must be a JSON object of field to column", err)
		return
	}

	file, ok := h.upload(c)
	if !ok {
		return
	}
	defer h.closeUpload(file)

	analysis, err := h.analyzer.MapDocument(c.Request.Context(), file.name, file.reader, mapping)
	if err != nil {
		h.sendAnalysisError(c, err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}

// LastAnalysis handles GET /api/v1/analysis/last.
func (h *Handler) LastAnalysis(c *gin.Context) {
	analysis, ok := h.last(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, analysis)
}

// ExportLast handles GET /api/v1/analysis/last/export?format=. JSON is the
// default format.
func (h *Handler) ExportLast(c *gin.Context) {
	format, err := report.ParseFormat(c.DefaultQuery("format", string(report.FormatJSON)))
	if err != nil {
		h.sendError(c, http.StatusBadRequest, CodeBadRequest, "Unsupported export format", err)
		return
	}

	analysis, ok := h.last(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.exporter.Export(&buf, analysis, format); err != nil {
		h.sendError(c, http.StatusInternalServerError, CodeInternal, "Failed to export analysis", err)
		return
	}

	name := strings.TrimSuffix(analysis.SourceFile, filepath.Ext(analysis.SourceFile))
	if name == "" {
		name = "analisi"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+format.Extension()))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

func (h *Handler) last(c *gin.Context) (*models.Analysis, bool) {
	analysis, err := h.analyzer.Last()
	if err != nil {
		if errors.Is(err, store.ErrNoAnalysis) {
			h.sendError(c, http.StatusNotFound, CodeNotFound, "No analysis has been stored yet", nil)
			return nil, false
		}
		h.sendError(c, http.StatusInternalServerError, CodeInternal, "Failed to load last analysis", err)
		return nil, false
	}
	return analysis, true
}

type uploadedFile struct {
	name   string
	reader multipart.File
}

// upload opens the "file" form part, enforcing the size guard on the
// declared part size.
func (h *Handler) upload(c *gin.Context) (*uploadedFile, bool) {
	header, err := c.FormFile("file")
	if err != nil {
		h.sendError(c, http.StatusBadRequest, CodeBadRequest, "A file is required", err)
		return nil, false
	}
	if h.maxSize > 0 && header.Size > h.maxSize {
		h.sendAnalysisError(c, &parsererror.FileTooLargeError{FilePath: header.Filename, Size: header.Size, Limit: h.maxSize})
		return nil, false
	}

	f, err := header.Open()
	if err != nil {
		h.sendError(c, http.StatusInternalServerError, CodeInternal, "Failed to open uploaded file", err)
		return nil, false
	}

	h.logger.Debug("Received upload",
		logging.Field{Key: logging.FieldFile, Value: header.Filename},
		logging.Field{Key: logging.FieldSize, Value: header.Size})
	return &uploadedFile{name: filepath.Base(header.Filename), reader: f}, true
}

func (h *Handler) closeUpload(f *uploadedFile) {
	if err := f.reader.Close(); err != nil {
		h.logger.WithError(err).Warn("Failed to close upload",
			logging.Field{Key: logging.FieldFile, Value: f.name})
	}
}

// sendAnalysisError maps ingestion errors onto status codes.
func (h *Handler) sendAnalysisError(c *gin.Context, err error) {
	var (
		tooLarge   *parsererror.FileTooLargeError
		format     *parsererror.InvalidFormatError
		extraction *parsererror.DataExtractionError
		parse      *parsererror.ParseError
		mapping    *parsererror.MappingRequiredError
	)

	switch {
	case errors.As(err, &mapping):
		h.logger.Info("Column mapping required",
			logging.Field{Key: logging.FieldFile, Value: mapping.FilePath})
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   CodeMappingRequired,
			Message: err.Error(),
			Code:    http.StatusUnprocessableEntity,
			Headers: mapping.Headers,
		})
	case errors.As(err, &tooLarge):
		h.sendError(c, http.StatusRequestEntityTooLarge, CodeFileTooLarge, "File too large", err)
	case errors.As(err, &format):
		h.sendError(c, http.StatusUnsupportedMediaType, CodeInvalidFormat, "Unsupported file", err)
	case errors.As(err, &extraction):
		h.sendError(c, http.StatusUnprocessableEntity, CodeExtractionFailed, "No data could be extracted", err)
	case errors.As(err, &parse):
		h.sendError(c, http.StatusUnprocessableEntity, CodeParseFailed, "File could not be parsed", err)
	case errors.Is(err, tabular.ErrInvalidMapping):
		h.sendError(c, http.StatusBadRequest, CodeInvalidMapping, "Invalid column mapping", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		h.sendError(c, http.StatusServiceUnavailable, CodeInternal, "Request cancelled", err)
	default:
		h.sendError(c, http.StatusInternalServerError, CodeInternal, "Analysis failed", err)
	}
}

// sendError sends a structured error response
func (h *Handler) sendError(c *gin.Context, statusCode int, code, message string, err error) {
	errorMsg := message
	if err != nil {
		errorMsg = err.Error()
		entry := h.logger.WithError(err).WithField(logging.FieldStatus, statusCode)
		if statusCode >= http.StatusInternalServerError {
			entry.Error(message)
		} else {
			entry.Warn(message)
		}
	}

	c.JSON(statusCode, ErrorResponse{
		Error:   code,
		Message: errorMsg,
		Code:    statusCode,
	})
}
