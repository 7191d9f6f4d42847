package parser

import (
	"bytes"
	"path/filepath"
	"strings"
)

// extensionFormats is the fixed extension-to-format table. The .dat and .tab
// entries are pragmatic fallbacks seen in the wild for plain and tab-delimited
// exports respectively.
var extensionFormats = map[string]Format{
	"xlsx": FormatExcel,
	"xls":  FormatExcel,
	"csv":  FormatCSV,
	"tsv":  FormatTSV,
	"txt":  FormatTXT,
	"json": FormatJSON,
	"xml":  FormatXML,
	"dat":  FormatTXT,
	"tab":  FormatTSV,
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DetectFormat classifies a file by its extension, case-insensitively.
// Unknown extensions return FormatUnknown, which extraction treats as a
// best-effort delimited-text attempt rather than a failure.
func DetectFormat(filename string) Format {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if format, ok := extensionFormats[ext]; ok {
		return format
	}
	return FormatUnknown
}

// DetectEncoding inspects the first bytes of the buffer. Only a UTF-8
// byte-order mark is recognized; everything else is reported as plain UTF-8.
// Full charset sniffing is a known limitation.
func DetectEncoding(data []byte) Encoding {
	if bytes.HasPrefix(data, utf8BOM) {
		return EncodingUTF8BOM
	}
	return EncodingUTF8
}

func stripBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, utf8BOM)
}
