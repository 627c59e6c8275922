package pdfparser

import (
	"bytes"
	"fmt"
	"strings"

	"fjacquet/bilanci/internal/logging"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor turns PDF bytes into reading order text.
type PDFExtractor interface {
	ExtractText(data []byte) (string, error)
}

// RealPDFExtractor decodes PDFs with github.com/ledongthuc/pdf and rebuilds
// lines with ReconstructLines.
type RealPDFExtractor struct {
	tolerance float64
	logger    logging.Logger
}

// NewRealPDFExtractor returns an extractor grouping lines within tolerance.
func NewRealPDFExtractor(tolerance float64, logger logging.Logger) *RealPDFExtractor {
	if tolerance <= 0 {
		tolerance = DefaultLineTolerance
	}
	return &RealPDFExtractor{tolerance: tolerance, logger: logging.OrDefault(logger)}
}

// ExtractText returns the text of every page, one line per reconstructed
// line and a newline after each page. Decoder panics on malformed files are
// reported as errors.
func (e *RealPDFExtractor) ExtractText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf decoder failed: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	var b strings.Builder
	pages := reader.NumPage()
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content := page.Content()
		fragments := make([]Fragment, 0, len(content.Text))
		for _, t := range content.Text {
			fragments = append(fragments, Fragment{X: t.X, Y: t.Y, W: t.W, FontSize: t.FontSize, Text: t.S})
		}
		e.logger.Debug("Decoded PDF page",
			logging.Field{Key: logging.FieldPage, Value: i},
			logging.Field{Key: logging.FieldCount, Value: len(fragments)})

		b.WriteString(PageText(fragments, e.tolerance))
		b.WriteString("\n")
	}
	return b.String(), nil
}

// MockPDFExtractor returns canned text for tests.
type MockPDFExtractor struct {
	MockText string
	MockErr  error
	Calls    int
}

// NewMockPDFExtractor returns a MockPDFExtractor.
func NewMockPDFExtractor(mockText string, mockErr error) *MockPDFExtractor {
	return &MockPDFExtractor{MockText: mockText, MockErr: mockErr}
}

// ExtractText returns the canned text or error.
func (e *MockPDFExtractor) ExtractText(_ []byte) (string, error) {
	e.Calls++
	if e.MockErr != nil {
		return "", e.MockErr
	}
	return e.MockText, nil
}
