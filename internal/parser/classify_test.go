package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocklens/internal/config"
)

func TestMatchScore(t *testing.T) {
	p := newTestParser(t)

	tests := []struct {
		name   string
		header string
		field  string
		want   float64
	}{
		{name: "exact match", header: "sku", field: FieldSKU, want: 1.0},
		{name: "exact match is case-insensitive", header: "SKU", field: FieldSKU, want: 1.0},
		{name: "exact match trims whitespace", header: "  quantity  ", field: FieldStock, want: 1.0},
		{name: "substring match", header: "Product SKU", field: FieldSKU, want: 0.8},
		{name: "alias match", header: "item number", field: FieldSKU, want: 0.7},
		{name: "fuzzy regex match", header: "rapid", field: FieldSKU, want: 0.6},
		{name: "edit-distance near miss", header: "mode1", field: FieldSKU, want: 0.4},
		{name: "no match", header: "color", field: FieldStock, want: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := definitionFor(tt.field)
			require.NotNil(t, def)
			assert.InDelta(t, tt.want, p.matchScore(tt.header, def), 0.001)
		})
	}
}

func TestMapColumns(t *testing.T) {
	p := newTestParser(t)

	mapping := p.mapColumns([]string{"SKU", "Quantity", "Price", "Product Name", "Category"})

	assert.Equal(t, map[string]string{
		FieldSKU:      "SKU",
		FieldStock:    "Quantity",
		FieldName:     "Product Name",
		FieldPrice:    "Price",
		FieldCategory: "Category",
	}, mapping)
}

func TestMapColumns_AmazonHeaders(t *testing.T) {
	p := newTestParser(t)

	mapping := p.mapColumns([]string{"asin", "afn-fulfillable-quantity"})

	assert.Equal(t, "asin", mapping[FieldSKU])
	assert.Equal(t, "afn-fulfillable-quantity", mapping[FieldStock])
}

func TestMapColumns_NoHeaderReuse(t *testing.T) {
	p := newTestParser(t)

	// both headers score 1.0 for sku; the first claims it and the second
	// must not be handed to any later field it doesn't match
	mapping := p.mapColumns([]string{"item_id", "product_id"})

	assert.Equal(t, "item_id", mapping[FieldSKU])
	for field, header := range mapping {
		if field != FieldSKU {
			assert.NotEqual(t, "item_id", header)
		}
	}
}

func TestMapColumns_RequiredFieldsClaimFirst(t *testing.T) {
	p := newTestParser(t)

	// "stock code" matches both sku and stock; sku runs first in catalog
	// order and claims it, leaving "units" for stock
	mapping := p.mapColumns([]string{"Stock Code", "Units"})

	assert.Equal(t, "Stock Code", mapping[FieldSKU])
	assert.Equal(t, "Units", mapping[FieldStock])
}

func TestMapColumns_BelowThresholdUnmapped(t *testing.T) {
	p := newTestParser(t)

	mapping := p.mapColumns([]string{"color", "weight"})
	assert.NotContains(t, mapping, FieldSKU)
	assert.NotContains(t, mapping, FieldStock)
}

func TestBuildSuggestions(t *testing.T) {
	strict := New(nil, config.ParserConfig{
		AssignThreshold:      0.95,
		SuggestThreshold:     0.2,
		SimilarityFloor:      0.7,
		DelimiterSampleLines: 5,
	})

	headers := []string{"Product SKU", "Stock Level", "Notes"}
	mapping := strict.mapColumns(headers)
	require.Empty(t, mapping)

	suggestions := strict.buildSuggestions(headers, mapping)
	assert.Equal(t, []string{"Product SKU", "Stock Level", "Notes"}, suggestions.UnmappedColumns)
	assert.Equal(t, []string{"Product SKU"}, suggestions.PossibleSKU)
	assert.Equal(t, []string{"Stock Level"}, suggestions.PossibleStock)
}

func TestBuildSuggestions_MappedFieldsGetNoHints(t *testing.T) {
	p := newTestParser(t)

	headers := []string{"sku", "quantity", "color"}
	mapping := p.mapColumns(headers)
	suggestions := p.buildSuggestions(headers, mapping)

	assert.Empty(t, suggestions.PossibleSKU)
	assert.Empty(t, suggestions.PossibleStock)
	assert.Equal(t, []string{"color"}, suggestions.UnmappedColumns)
}

func TestColumnSuggestions(t *testing.T) {
	p := newTestParser(t)

	ranked := p.ColumnSuggestions([]string{"sku", "barcode", "quantity"})

	skuEntry := ranked[FieldSKU]
	assert.InDelta(t, 1.0, skuEntry.Score, 0.001)
	assert.Equal(t, []string{"sku", "barcode"}, skuEntry.Headers)

	stockEntry := ranked[FieldStock]
	assert.Equal(t, []string{"quantity"}, stockEntry.Headers)
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"sku", "", 3},
		{"", "sku", 3},
		{"sku", "sku", 0},
		{"sku", "skq", 1},
		{"model", "mode1", 1},
		{"kitten", "sitting", 3},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, levenshtein(tt.a, tt.b), "levenshtein(%q, %q)", tt.a, tt.b)
	}
}
