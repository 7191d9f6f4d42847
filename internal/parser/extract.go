package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	apperrors "stocklens/internal/errors"
)

// delimiterCandidates are tried in order when auto-detecting; ties keep the
// earlier candidate, so comma wins by default.
var delimiterCandidates = []rune{',', ';', '\t', '|'}

// textFallbackDelimiters are tried against the first line of a file with an
// unknown format.
var textFallbackDelimiters = []rune{'\t', ',', ';', '|', ' '}

// extract turns the byte buffer into a RawTable using the format-specific
// reader. Unknown formats fall through to the best-effort plain-text path.
func (p *Parser) extract(format Format, data []byte) (*RawTable, error) {
	switch format {
	case FormatExcel:
		return extractWorkbook(data)
	case FormatCSV, FormatTSV, FormatTXT:
		return p.extractDelimited(data, format)
	case FormatJSON:
		return extractJSON(data)
	case FormatXML:
		return extractXML(data)
	default:
		return p.extractPlainText(data)
	}
}

// extractDelimited parses CSV/TSV/TXT content with a streaming reader after
// auto-detecting the delimiter. If the streaming reader chokes on malformed
// input, the manual split parser takes over with the same delimiter so that
// one bad quote does not abort extraction entirely.
func (p *Parser) extractDelimited(data []byte, format Format) (*RawTable, error) {
	content := string(stripBOM(data))

	delimiter := detectDelimiter(content, format, p.cfg.DelimiterSampleLines)

	table, err := streamDelimited(content, delimiter)
	if err != nil {
		table, err = manualDelimitedParse(content, delimiter)
		if err != nil {
			return nil, apperrors.DelimitedError(err)
		}
	}
	table.Delimiter = string(delimiter)
	return table, nil
}

// detectDelimiter samples the first few lines and scores each candidate by
// average column count weighted by consistency across lines:
// score = avg x (1 - (max-min)/avg). TSV is always tab.
func detectDelimiter(content string, format Format, sampleLines int) rune {
	if format == FormatTSV {
		return '\t'
	}
	if sampleLines < 2 {
		sampleLines = 2
	}

	lines := splitLines(content)
	if len(lines) > sampleLines {
		lines = lines[:sampleLines]
	}

	best := ','
	bestScore := 0.0

	for _, delimiter := range delimiterCandidates {
		var counts []int
		for _, line := range lines {
			counts = append(counts, len(strings.Split(line, string(delimiter))))
		}
		if len(counts) < 2 {
			continue
		}

		sum, minCount, maxCount := 0, counts[0], counts[0]
		for _, c := range counts {
			sum += c
			if c < minCount {
				minCount = c
			}
			if c > maxCount {
				maxCount = c
			}
		}
		avg := float64(sum) / float64(len(counts))
		consistency := 1 - float64(maxCount-minCount)/avg
		score := avg * consistency

		if score > bestScore && avg > 1 {
			bestScore = score
			best = delimiter
		}
	}

	return best
}

// streamDelimited reads the content with encoding/csv. The header row is
// trimmed, unnamed headers become Column_N, and rows whose values are all
// empty are dropped.
func streamDelimited(content string, delimiter rune) (*RawTable, error) {
	reader := csv.NewReader(strings.NewReader(content))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return &RawTable{}, nil
	}
	if err != nil {
		return nil, err
	}
	headers := normalizeHeaders(header)

	table := &RawTable{Headers: headers}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row := recordToRow(headers, record)
		if !rowEmpty(row) {
			table.Rows = append(table.Rows, row)
		}
	}
	return table, nil
}

// manualDelimitedParse is the fallback for input the csv reader rejects:
// naive line splitting with surrounding quotes trimmed per cell.
func manualDelimitedParse(content string, delimiter rune) (*RawTable, error) {
	lines := splitLines(content)
	if len(lines) < 2 {
		return nil, apperrors.ErrShortTextFile
	}

	headers := normalizeHeaders(splitAndTrim(lines[0], delimiter))
	table := &RawTable{Headers: headers}

	for _, line := range lines[1:] {
		row := recordToRow(headers, splitAndTrim(line, delimiter))
		if !rowEmpty(row) {
			table.Rows = append(table.Rows, row)
		}
	}
	return table, nil
}

// extractPlainText handles unknown formats: probe the first line with common
// delimiters, take whichever yields the most columns, and reuse the manual
// parser.
func (p *Parser) extractPlainText(data []byte) (*RawTable, error) {
	content := string(stripBOM(data))
	lines := splitLines(content)
	if len(lines) < 2 {
		return nil, apperrors.ErrShortTextFile
	}

	best := ','
	maxColumns := 0
	for _, delimiter := range textFallbackDelimiters {
		columns := len(strings.Split(lines[0], string(delimiter)))
		if columns > maxColumns && columns > 1 {
			maxColumns = columns
			best = delimiter
		}
	}
	if maxColumns <= 1 {
		return nil, apperrors.ErrNoDelimiter
	}

	table, err := manualDelimitedParse(content, best)
	if err != nil {
		return nil, err
	}
	table.Delimiter = string(best)
	return table, nil
}

// splitLines splits on \n or \r\n and drops blank lines
func splitLines(content string) []string {
	raw := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func splitAndTrim(line string, delimiter rune) []string {
	parts := strings.Split(line, string(delimiter))
	for i, part := range parts {
		parts[i] = strings.Trim(strings.TrimSpace(part), `"'`)
	}
	return parts
}

// normalizeHeaders trims header names and substitutes Column_N for empty ones
func normalizeHeaders(header []string) []string {
	headers := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Column_%d", i+1)
		}
		headers[i] = h
	}
	return headers
}

// recordToRow pairs header names with cell values; missing cells default to
// the empty string and surplus cells are ignored.
func recordToRow(headers []string, record []string) RawRow {
	row := make(RawRow, len(headers))
	for i, h := range headers {
		value := ""
		if i < len(record) {
			value = strings.TrimSpace(record[i])
		}
		row[h] = value
	}
	return row
}

func rowEmpty(row RawRow) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
