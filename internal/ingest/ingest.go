// Package ingest decodes uploaded documents into the two shapes the
// extractors understand: free text (PDF, TXT) and a row matrix (CSV, XLSX).
package ingest

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"fjacquet/bilanci/internal/logging"
	"fjacquet/bilanci/internal/models"
	"fjacquet/bilanci/internal/parsererror"
	"fjacquet/bilanci/internal/pdfparser"
	"fjacquet/bilanci/internal/tabular"

	"github.com/gabriel-vasile/mimetype"
	"github.com/xuri/excelize/v2"
)

// DefaultMaxFileSize is the size guard applied when none is configured.
const DefaultMaxFileSize int64 = 10 << 20

const utf8BOM = "\ufeff"

// candidateDelimiters are tried in order; ties keep the earlier one.
var candidateDelimiters = []rune{',', ';', '\t'}

// SupportedExtensions lists the file extensions the decoder accepts.
var SupportedExtensions = []string{".pdf", ".txt", ".csv", ".xlsx", ".xls"}

// Document is a decoded source. Exactly one of Text or Rows is set,
// depending on Type.
type Document struct {
	Name string
	Type models.FileType
	Text string
	Rows []tabular.Row
}

// Decoder turns raw file contents into a Document.
type Decoder struct {
	pdf     pdfparser.PDFExtractor
	maxSize int64
	logger  logging.Logger
}

// NewDecoder creates a decoder. maxSize <= 0 means DefaultMaxFileSize.
func NewDecoder(pdf pdfparser.PDFExtractor, maxSize int64, logger logging.Logger) *Decoder {
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	logger = logging.OrDefault(logger)
	if pdf == nil {
		pdf = pdfparser.NewRealPDFExtractor(pdfparser.DefaultLineTolerance, logger)
	}
	return &Decoder{pdf: pdf, maxSize: maxSize, logger: logger}
}

// MaxSize returns the size guard in bytes.
func (d *Decoder) MaxSize() int64 {
	return d.maxSize
}

// DetectType resolves the file type from the extension of name, falling
// back to sniffing the content when the extension is missing or unknown.
func DetectType(name string, data []byte) (models.FileType, error) {
	if t, ok := typeForExtension(filepath.Ext(name)); ok {
		return t, nil
	}

	if len(data) > 0 {
		if t, ok := typeForExtension(mimetype.Detect(data).Extension()); ok {
			return t, nil
		}
	}

	return "", &parsererror.InvalidFormatError{
		FilePath:       name,
		ExpectedFormat: strings.Join(SupportedExtensions, ", "),
		Msg:            "unsupported file type",
	}
}

func typeForExtension(ext string) (models.FileType, bool) {
	switch strings.ToLower(ext) {
	case ".pdf":
		return models.FileTypePDF, true
	case ".txt":
		return models.FileTypeText, true
	case ".csv":
		return models.FileTypeCSV, true
	case ".xlsx", ".xls":
		return models.FileTypeXLSX, true
	default:
		return "", false
	}
}

// Decode reads at most the size limit from r and decodes it.
func (d *Decoder) Decode(ctx context.Context, name string, r io.Reader) (*Document, error) {
	data, err := io.ReadAll(io.LimitReader(r, d.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return d.DecodeBytes(ctx, name, data)
}

// DecodeBytes decodes data, using name for type detection and error reports.
func (d *Decoder) DecodeBytes(ctx context.Context, name string, data []byte) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if int64(len(data)) > d.maxSize {
		return nil, &parsererror.FileTooLargeError{FilePath: name, Size: int64(len(data)), Limit: d.maxSize}
	}

	fileType, err := DetectType(name, data)
	if err != nil {
		return nil, err
	}

	log := d.logger.WithFields(
		logging.Field{Key: logging.FieldFile, Value: name},
		logging.Field{Key: logging.FieldFileType, Value: string(fileType)},
		logging.Field{Key: logging.FieldSize, Value: len(data)},
	)
	log.Debug("Decoding document")

	doc := &Document{Name: name, Type: fileType}
	switch fileType {
	case models.FileTypePDF:
		doc.Text, err = d.decodePDF(name, data)
	case models.FileTypeText:
		doc.Text, err = decodeText(name, data)
	case models.FileTypeCSV:
		doc.Rows, err = decodeCSV(name, data)
	case models.FileTypeXLSX:
		doc.Rows, err = decodeXLSX(name, data)
	}
	if err != nil {
		log.WithError(err).Warn("Failed to decode document")
		return nil, err
	}

	if fileType.Tabular() {
		log.Debug("Decoded rows", logging.Field{Key: logging.FieldCount, Value: len(doc.Rows)})
	}
	return doc, nil
}

func (d *Decoder) decodePDF(name string, data []byte) (string, error) {
	if !mimetype.Detect(data).Is("application/pdf") {
		return "", &parsererror.InvalidFormatError{FilePath: name, ExpectedFormat: "PDF", Msg: "content is not a PDF document"}
	}

	text, err := d.pdf.ExtractText(data)
	if err != nil {
		return "", &parsererror.ParseError{Parser: "pdf", Field: "content", Value: name, Err: err}
	}
	if strings.TrimSpace(text) == "" {
		return "", &parsererror.DataExtractionError{FilePath: name, Reason: "no text layer found (scanned document?)"}
	}
	return text, nil
}

func decodeText(name string, data []byte) (string, error) {
	text := normalizeText(data)
	if strings.TrimSpace(text) == "" {
		return "", &parsererror.DataExtractionError{FilePath: name, Reason: "file contains no text"}
	}
	return text, nil
}

func normalizeText(data []byte) string {
	text := strings.TrimPrefix(string(data), utf8BOM)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

// DetectDelimiter picks the candidate delimiter occurring most often on the
// first non-empty line. Comma wins when none occurs.
func DetectDelimiter(text string) rune {
	var first string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			first = line
			break
		}
	}

	best, bestCount := candidateDelimiters[0], 0
	for _, delim := range candidateDelimiters {
		if n := strings.Count(first, string(delim)); n > bestCount {
			best, bestCount = delim, n
		}
	}
	return best
}

func decodeCSV(name string, data []byte) ([]tabular.Row, error) {
	text := normalizeText(data)

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = DetectDelimiter(text)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows []tabular.Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &parsererror.ParseError{Parser: "csv", Field: "row", Value: name, Err: err}
		}
		if blankRow(record) {
			continue
		}
		rows = append(rows, tabular.Row(record))
	}

	if len(rows) == 0 {
		return nil, &parsererror.DataExtractionError{FilePath: name, Reason: "no rows found"}
	}
	return rows, nil
}

// decodeXLSX reads the first sheet of a workbook. Cells are read raw, so
// display formats such as "#,##0" do not leak separators; numeric cells are
// then written in the European form the row parsers expect.
func decodeXLSX(name string, data []byte) (rows []tabular.Row, err error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &parsererror.InvalidFormatError{FilePath: name, ExpectedFormat: "XLSX", Msg: err.Error()}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close workbook: %w", cerr)
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &parsererror.DataExtractionError{FilePath: name, Reason: "workbook has no sheets"}
	}

	sheet := sheets[0]
	records, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &parsererror.ParseError{Parser: "xlsx", Field: "sheet", Value: sheet, Err: err}
	}

	for r, record := range records {
		if blankRow(record) {
			continue
		}
		for c, cell := range record {
			record[c] = numericCell(f, sheet, c, r, cell)
		}
		rows = append(rows, tabular.Row(record))
	}
	if len(rows) == 0 {
		return nil, &parsererror.DataExtractionError{FilePath: name, Reason: "first sheet is empty"}
	}
	return rows, nil
}

// numericCell rewrites the raw value of a number cell at the zero based
// col and row with a decimal comma. Text cells are returned unchanged, so a
// label typed as "1.234" keeps its European reading.
func numericCell(f *excelize.File, sheet string, col, row int, raw string) string {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return raw
	}
	ref, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return raw
	}
	cellType, err := f.GetCellType(sheet, ref)
	if err != nil || (cellType != excelize.CellTypeUnset && cellType != excelize.CellTypeNumber) {
		return raw
	}
	return strings.Replace(strconv.FormatFloat(v, 'f', -1, 64), ".", ",", 1)
}

func blankRow(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
