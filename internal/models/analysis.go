package models

import (
	"time"

	"github.com/google/uuid"
)

// FileType identifies how a source document was decoded.
type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeText FileType = "txt"
	FileTypeCSV  FileType = "csv"
	FileTypeXLSX FileType = "xlsx"
)

// Tabular reports whether documents of this type decode to a row matrix.
func (t FileType) Tabular() bool {
	return t == FileTypeCSV || t == FileTypeXLSX
}

// InsightKind classifies an Insight for display.
type InsightKind string

const (
	InsightPositive InsightKind = "positive"
	InsightNegative InsightKind = "negative"
	InsightWarning  InsightKind = "warning"
)

// Insight is a short reading of one ratio.
type Insight struct {
	Kind        InsightKind `json:"type" yaml:"type"`
	Title       string      `json:"title" yaml:"title"`
	Description string      `json:"description" yaml:"description"`
}

// ChangeIndicators are simulated period-over-period changes shown next to
// the headline figures. Like the history series they are illustrative.
type ChangeIndicators struct {
	RevenueChange   float64 `json:"revenueChange" yaml:"revenueChange"`
	EBITDAChange    float64 `json:"ebitdaChange" yaml:"ebitdaChange"`
	NetMarginChange float64 `json:"netMarginChange" yaml:"netMarginChange"`
	ROIChange       float64 `json:"roiChange" yaml:"roiChange"`
}

// Analysis bundles everything produced for one document.
type Analysis struct {
	ID         uuid.UUID        `json:"id" yaml:"id"`
	SourceFile string           `json:"sourceFile" yaml:"sourceFile"`
	FileType   FileType         `json:"fileType" yaml:"fileType"`
	CreatedAt  time.Time        `json:"createdAt" yaml:"createdAt"`
	Record     FinancialRecord  `json:"record" yaml:"record"`
	Invoice    *InvoiceRecord   `json:"invoice,omitempty" yaml:"invoice,omitempty"`
	Insights   []Insight        `json:"insights" yaml:"insights"`
	Changes    ChangeIndicators `json:"changes" yaml:"changes"`
}

// NewAnalysis starts an Analysis for a source file with a fresh ID.
func NewAnalysis(sourceFile string, fileType FileType) *Analysis {
	return &Analysis{
		ID:         uuid.New(),
		SourceFile: sourceFile,
		FileType:   fileType,
		CreatedAt:  time.Now().UTC(),
		Insights:   []Insight{},
	}
}

// File permissions used when persisting results.
const (
	PermissionFile      = 0600
	PermissionDirectory = 0750
)
