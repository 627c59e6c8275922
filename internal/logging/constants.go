package logging

// Field keys shared by every log call site.
const (
	FieldFile       = "file_path"
	FieldFileType   = "file_type"
	FieldSize       = "size_bytes"
	FieldField      = "field"
	FieldKeyword    = "keyword"
	FieldValue      = "value"
	FieldStep       = "step"
	FieldConfidence = "confidence"
	FieldOperation  = "operation"
	FieldStatus     = "status"
	FieldError      = "error"
	FieldDuration   = "duration_ms"
	FieldCount      = "count"
	FieldDelimiter  = "delimiter"
	FieldPage       = "page"
	FieldFormat     = "format"
	FieldAnalysisID = "analysis_id"
	FieldOutputFile = "output_file"
)
