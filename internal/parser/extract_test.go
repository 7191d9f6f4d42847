package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocklens/internal/config"
)

func newTestParser(t *testing.T) *Parser {
	t.Helper()
	return New(nil, config.DefaultParserConfig())
}

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		name    string
		content string
		format  Format
		want    rune
	}{
		{
			name:    "comma",
			content: "sku,qty\nA,1\nB,2",
			format:  FormatCSV,
			want:    ',',
		},
		{
			name:    "semicolon",
			content: "sku;qty;price\nA;1;9.99\nB;2;4.50",
			format:  FormatCSV,
			want:    ';',
		},
		{
			name:    "pipe",
			content: "sku|qty|name\nA|1|Widget\nB|2|Gadget",
			format:  FormatTXT,
			want:    '|',
		},
		{
			name:    "tsv always tab regardless of content",
			content: "sku,qty\nA,1",
			format:  FormatTSV,
			want:    '\t',
		},
		{
			name:    "no delimiter falls back to comma",
			content: "just some text\nmore text",
			format:  FormatTXT,
			want:    ',',
		},
		{
			name:    "inconsistent counts lose to consistent ones",
			content: "a,b;c;d\n1;2;3\n4;5;6",
			format:  FormatCSV,
			want:    ';',
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectDelimiter(tt.content, tt.format, 5)
			assert.Equal(t, string(tt.want), string(got))
		})
	}
}

func TestDetectDelimiter_Deterministic(t *testing.T) {
	content := "sku,qty\nA,1\nB,2\nC,3"
	first := detectDelimiter(content, FormatCSV, 5)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, detectDelimiter(content, FormatCSV, 5))
	}
}

func TestExtractDelimited(t *testing.T) {
	p := newTestParser(t)

	table, err := p.extractDelimited([]byte("sku,qty\nA,1\nB,2"), FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, []string{"sku", "qty"}, table.Headers)
	assert.Equal(t, ",", table.Delimiter)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "A", table.Rows[0]["sku"])
	assert.Equal(t, "2", table.Rows[1]["qty"])
}

func TestExtractDelimited_QuotedFields(t *testing.T) {
	p := newTestParser(t)

	table, err := p.extractDelimited([]byte("sku,name\nA,\"Widget, large\""), FormatCSV)
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Widget, large", table.Rows[0]["name"])
}

func TestExtractDelimited_ManualFallbackOnMalformedQuotes(t *testing.T) {
	p := newTestParser(t)

	// a stray quote makes encoding/csv bail; the manual parser takes over
	table, err := p.extractDelimited([]byte("sku,qty\n\"A,5\nB,7"), FormatCSV)
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "A", table.Rows[0]["sku"])
	assert.Equal(t, "5", table.Rows[0]["qty"])
	assert.Equal(t, "B", table.Rows[1]["sku"])
}

func TestExtractDelimited_DropsEmptyRows(t *testing.T) {
	p := newTestParser(t)

	table, err := p.extractDelimited([]byte("sku,qty\nA,1\n,\nB,2"), FormatCSV)
	require.NoError(t, err)
	assert.Len(t, table.Rows, 2)
}

func TestExtractDelimited_StripsBOM(t *testing.T) {
	p := newTestParser(t)

	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("sku,qty\nA,1")...)
	table, err := p.extractDelimited(data, FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, []string{"sku", "qty"}, table.Headers)
}

func TestExtractPlainText(t *testing.T) {
	p := newTestParser(t)

	table, err := p.extractPlainText([]byte("sku|qty\nA|1\nB|2"))
	require.NoError(t, err)
	assert.Equal(t, "|", table.Delimiter)
	assert.Len(t, table.Rows, 2)
}

func TestExtractPlainText_NoDelimiter(t *testing.T) {
	p := newTestParser(t)

	_, err := p.extractPlainText([]byte("onlyoneword\nanotherword"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delimiter")
}

func TestExtractPlainText_TooShort(t *testing.T) {
	p := newTestParser(t)

	_, err := p.extractPlainText([]byte("sku|qty"))
	require.Error(t, err)
}

func TestNormalizeHeaders(t *testing.T) {
	got := normalizeHeaders([]string{" sku ", "", "qty", ""})
	assert.Equal(t, []string{"sku", "Column_2", "qty", "Column_4"}, got)
}

func TestRecordToRow(t *testing.T) {
	headers := []string{"sku", "qty", "price"}

	row := recordToRow(headers, []string{"A", "5"})
	assert.Equal(t, "A", row["sku"])
	assert.Equal(t, "5", row["qty"])
	assert.Equal(t, "", row["price"])

	row = recordToRow(headers, []string{"A", "5", "9.99", "surplus"})
	assert.Len(t, row, 3)
}

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitLines("a\r\nb\n\n"))
	assert.Empty(t, splitLines("\n\n"))
}
