package errors

import "fmt"

// ParseError represents a structured failure raised by one stage of the
// ingestion pipeline. Code is a stable machine-readable identifier; Message
// is what callers surface verbatim in ParseResult.Errors.
type ParseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`

	cause error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause for errors.Is/As chains
func (e *ParseError) Unwrap() error {
	return e.cause
}

// New creates a new ParseError with the given code and message
func New(code, message string) *ParseError {
	return &ParseError{Code: code, Message: message}
}

// NewWithDetails creates a new ParseError with additional details
func NewWithDetails(code, message string, details any) *ParseError {
	return &ParseError{Code: code, Message: message, Details: details}
}

// Wrap creates a ParseError that records and unwraps to an underlying cause
func Wrap(code, message string, err error) *ParseError {
	return &ParseError{
		Code:    code,
		Message: fmt.Sprintf("%s: %v", message, err),
		cause:   err,
	}
}

// Predefined errors for the fatal-extraction taxonomy
var (
	ErrNoDataRows  = New("NO_DATA_ROWS", "No data rows found in file")
	ErrNoValidRows = New("NO_VALID_ROWS", "No valid data rows could be parsed")

	ErrEmptyWorkbook = New("WORKBOOK_EMPTY", "Excel file must contain at least a header row and one data row")
	ErrShortTextFile = New("TEXT_TOO_SHORT", "Text file must contain at least a header line and one data line")
	ErrNoDelimiter   = New("NO_DELIMITER", "Could not detect a column delimiter in text content")
	ErrJSONShape     = New("JSON_SHAPE", "JSON data must be an array or object")
	ErrXMLShape      = New("XML_SHAPE", "XML document contains no recognizable row collection")
)

// WorkbookError wraps an excelize decode failure
func WorkbookError(err error) *ParseError {
	return Wrap("WORKBOOK_DECODE_FAILED", "Excel parsing failed", err)
}

// JSONError wraps a JSON decode failure
func JSONError(err error) *ParseError {
	return Wrap("JSON_DECODE_FAILED", "JSON parsing failed", err)
}

// XMLError wraps an XML decode failure
func XMLError(err error) *ParseError {
	return Wrap("XML_DECODE_FAILED", "XML parsing failed", err)
}

// DelimitedError wraps a delimited-text failure that survived the manual
// fallback parser
func DelimitedError(err error) *ParseError {
	return Wrap("DELIMITED_PARSE_FAILED", "Delimited file parsing failed", err)
}
