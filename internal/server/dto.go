package server

import "fjacquet/bilanci/internal/models"

// Error codes returned in ErrorResponse.Error.
const (
	CodeBadRequest       = "BAD_REQUEST"
	CodeFileTooLarge     = "FILE_TOO_LARGE"
	CodeInvalidFormat    = "INVALID_FORMAT"
	CodeExtractionFailed = "DATA_EXTRACTION_FAILED"
	CodeParseFailed      = "PARSE_FAILED"
	CodeMappingRequired  = "MAPPING_REQUIRED"
	CodeInvalidMapping   = "INVALID_MAPPING"
	CodeNotFound         = "NOT_FOUND"
	CodeInternal         = "INTERNAL_ERROR"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
	// Headers is set with MAPPING_REQUIRED and lists the columns to map.
	Headers []string `json:"headers,omitempty"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// InvoiceResponse wraps an invoice reading with its acceptance verdict.
type InvoiceResponse struct {
	Invoice       *models.InvoiceRecord `json:"invoice"`
	Accepted      bool                  `json:"accepted"`
	MinConfidence int                   `json:"minConfidence"`
}
