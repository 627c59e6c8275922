// Package parsererror defines the errors returned at the document ingestion
// boundary. The extraction core itself never fails; these describe files
// that could not be turned into text or rows in the first place.
package parsererror

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMappingRequired is matched with errors.Is on a MappingRequiredError.
var ErrMappingRequired = errors.New("column mapping required")

// ParseError wraps a decoder failure.
type ParseError struct {
	Parser string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v", e.Parser, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// InvalidFormatError reports a file whose type is not supported or whose
// contents do not match its declared type.
type InvalidFormatError struct {
	FilePath       string
	ExpectedFormat string
	Msg            string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s", e.FilePath, e.Msg, e.ExpectedFormat)
}

// DataExtractionError reports a readable file that yielded nothing usable,
// such as a scanned PDF without a text layer.
type DataExtractionError struct {
	FilePath string
	Reason   string
}

func (e *DataExtractionError) Error() string {
	return fmt.Sprintf("data extraction failed in file '%s': %s", e.FilePath, e.Reason)
}

// FileTooLargeError reports a file above the configured size limit.
type FileTooLargeError struct {
	FilePath string
	Size     int64
	Limit    int64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("file '%s' is %d bytes, above the %d byte limit", e.FilePath, e.Size, e.Limit)
}

// MappingRequiredError signals that automatic detection found no figure in
// a tabular source and the caller must supply a column mapping. Headers are
// the column labels to offer.
type MappingRequiredError struct {
	FilePath string
	Headers  []string
}

func (e *MappingRequiredError) Error() string {
	return fmt.Sprintf("no financial fields detected in '%s', map columns manually (columns: %s)",
		e.FilePath, strings.Join(e.Headers, ", "))
}

func (e *MappingRequiredError) Is(target error) bool {
	return target == ErrMappingRequired
}
