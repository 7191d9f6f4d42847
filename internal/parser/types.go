package parser

// Format identifies the structural family of an uploaded report file.
type Format string

const (
	FormatExcel   Format = "excel"
	FormatCSV     Format = "csv"
	FormatTSV     Format = "tsv"
	FormatTXT     Format = "txt"
	FormatJSON    Format = "json"
	FormatXML     Format = "xml"
	FormatUnknown Format = "unknown"
)

// Encoding identifies the detected text encoding of the buffer.
type Encoding string

const (
	EncodingUTF8    Encoding = "utf-8"
	EncodingUTF8BOM Encoding = "utf-8-bom"
)

// RawRow maps a header name to the raw textual value found in one data row.
type RawRow map[string]string

// RawTable is the format-neutral output of extraction: the header names in
// the order they appeared, and the data rows in file order. Delimiter is set
// only by the delimited-text readers, for diagnostics.
type RawTable struct {
	Headers   []string
	Rows      []RawRow
	Delimiter string
}
