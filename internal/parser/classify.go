package parser

import (
	"regexp"
	"sort"
	"strings"

	"stocklens/pkg/contracts/domain"
)

// Canonical semantic field names. SKU and stock are required for a row to be
// accepted; the rest are optional enrichment.
const (
	FieldSKU      = "sku"
	FieldStock    = "currentStock"
	FieldName     = "name"
	FieldPrice    = "price"
	FieldCategory = "category"
)

// Transformer converts a raw or previously transformed value into the next
// representation; Validator accepts or rejects a fully transformed value.
type (
	Transformer func(any) (any, error)
	Validator   func(any) bool
)

// FieldDefinition is the static matching profile for one semantic field:
// exact pattern strings, human alias phrases, fuzzy regexes, and the ordered
// transformer/validator chains applied during row normalization. The catalog
// is built once and never mutated.
type FieldDefinition struct {
	Field        string
	Patterns     []string
	Aliases      []string
	Fuzzy        []*regexp.Regexp
	Transformers []Transformer
	Validators   []Validator
}

// fieldCatalog is ordered by priority: sku and stock first because they are
// required, so they claim contested headers before the optional fields.
var fieldCatalog = []FieldDefinition{
	{
		Field: FieldSKU,
		Patterns: []string{
			"sku", "product_sku", "product-sku", "seller-sku", "seller_sku",
			"asin", "fnsku", "upc", "barcode", "item_id",
			"item-id", "product_id", "product-id", "variant_id", "variant-id",
			"handle", "listing_id", "custom_label", "custom-label", "model",
			"part_number", "part-number", "mpn", "gtin",
			"code", "item_code", "product_code", "reference", "identifier",
		},
		Aliases: []string{"product code", "item number", "catalog number", "stock code"},
		Fuzzy: compilePatterns(
			`^.*sku.*$`, `^.*code.*$`, `^.*id.*$`, `^.*asin.*$`,
			`^.*barcode.*$`, `^.*upc.*$`, `^.*model.*$`, `^.*part.*$`,
		),
		Transformers: []Transformer{transformSKU},
		Validators:   []Validator{validateNonEmptyString},
	},
	{
		Field: FieldStock,
		Patterns: []string{
			"stock", "quantity", "qty",
			"inventory", "available", "in_stock",
			"in-stock", "stock_quantity", "stock-quantity", "current_stock",
			"current-stock", "on_hand", "on-hand", "afn-fulfillable-quantity",
			"afn_fulfillable_quantity", "variant-inventory-qty", "variant_inventory_qty",
			"available_quantity", "available-quantity", "units_available",
			"units-available", "inventory_level", "inventory-level", "count",
			"units", "pieces", "total_stock", "stock_level",
		},
		Aliases: []string{"stock level", "inventory count", "units in stock", "available units"},
		Fuzzy: compilePatterns(
			`^.*stock.*$`, `^.*qty.*$`, `^.*quantity.*$`, `^.*inventory.*$`,
			`^.*available.*$`, `^.*count.*$`, `^.*units.*$`,
		),
		Transformers: []Transformer{transformStock},
		Validators:   []Validator{validateNonNegativeInt},
	},
	{
		Field: FieldName,
		Patterns: []string{
			"name", "title", "product_name", "product-name",
			"product_title", "product-title", "item_name", "item-name",
			"listing_title", "listing-title", "description",
			"product_description", "product-description", "label",
		},
		Aliases: []string{"product name", "item name", "product title"},
		Fuzzy: compilePatterns(
			`^.*name.*$`, `^.*title.*$`, `^.*description.*$`, `^.*label.*$`,
		),
		Transformers: []Transformer{transformTrim},
		Validators:   []Validator{validateNonEmptyString},
	},
	{
		Field: FieldPrice,
		Patterns: []string{
			"price", "cost", "unit_price", "unit-price",
			"regular_price", "regular-price", "sale_price", "sale-price",
			"variant-price", "variant_price", "list_price", "list-price",
			"amount", "value", "retail_price",
		},
		Aliases: []string{"unit price", "retail price", "selling price"},
		Fuzzy: compilePatterns(
			`^.*price.*$`, `^.*cost.*$`, `^.*amount.*$`, `^.*value.*$`,
		),
		Transformers: []Transformer{transformPrice},
		Validators:   []Validator{validateNonNegativeFloat},
	},
	{
		Field: FieldCategory,
		Patterns: []string{
			"category", "product_type", "product-type",
			"item_type", "item-type", "tags", "department",
			"section", "group", "class", "family",
		},
		Aliases: []string{"product category", "item category", "product type"},
		Fuzzy: compilePatterns(
			`^.*category.*$`, `^.*type.*$`, `^.*tags.*$`, `^.*department.*$`,
		),
		Transformers: []Transformer{transformTrim},
		Validators:   []Validator{validateNonEmptyString},
	},
}

func compilePatterns(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		compiled[i] = regexp.MustCompile(`(?i)` + p)
	}
	return compiled
}

func definitionFor(field string) *FieldDefinition {
	for i := range fieldCatalog {
		if fieldCatalog[i].Field == field {
			return &fieldCatalog[i]
		}
	}
	return nil
}

// mapColumns assigns at most one header to each semantic field. A header is
// claimed by the first field (in catalog priority order) whose best score
// clears the assignment threshold, and is never reused for a later field.
func (p *Parser) mapColumns(headers []string) map[string]string {
	mapping := make(map[string]string)
	used := make(map[string]bool)

	for i := range fieldCatalog {
		def := &fieldCatalog[i]
		bestHeader := ""
		bestScore := 0.0

		for _, header := range headers {
			if used[header] {
				continue
			}
			score := p.matchScore(header, def)
			if score > bestScore && score > p.cfg.AssignThreshold {
				bestScore = score
				bestHeader = header
			}
		}

		if bestHeader != "" {
			mapping[def.Field] = bestHeader
			used[bestHeader] = true
		}
	}

	return mapping
}

// matchScore rates one header against one field definition. Match kinds are
// weighted by reliability: exact 1.0, substring 0.8, alias 0.7, fuzzy regex
// 0.6, and edit-distance similarity above the floor at similarity x 0.5.
func (p *Parser) matchScore(header string, def *FieldDefinition) float64 {
	normalized := strings.ToLower(strings.TrimSpace(header))
	maxScore := 0.0

	for _, pattern := range def.Patterns {
		if normalized == strings.ToLower(pattern) {
			return 1.0
		}
	}

	for _, pattern := range def.Patterns {
		lower := strings.ToLower(pattern)
		if strings.Contains(normalized, lower) || strings.Contains(lower, normalized) {
			maxScore = maxFloat(maxScore, 0.8)
		}
	}

	for _, alias := range def.Aliases {
		lower := strings.ToLower(alias)
		if strings.Contains(normalized, lower) || strings.Contains(lower, normalized) {
			maxScore = maxFloat(maxScore, 0.7)
		}
	}

	for _, fuzzy := range def.Fuzzy {
		if fuzzy.MatchString(normalized) {
			maxScore = maxFloat(maxScore, 0.6)
		}
	}

	for _, pattern := range def.Patterns {
		lower := strings.ToLower(pattern)
		distance := levenshtein(normalized, lower)
		longest := len(normalized)
		if len(lower) > longest {
			longest = len(lower)
		}
		if longest == 0 {
			continue
		}
		similarity := 1 - float64(distance)/float64(longest)
		if similarity > p.cfg.SimilarityFloor {
			maxScore = maxFloat(maxScore, similarity*0.5)
		}
	}

	return maxScore
}

// buildSuggestions lists unchosen headers that still look like SKU or stock
// columns (above the lower suggestion bar), plus every header mapped to no
// field. Suggestion lists preserve header order for stable output.
func (p *Parser) buildSuggestions(headers []string, mapping map[string]string) domain.Suggestions {
	suggestions := domain.Suggestions{
		PossibleSKU:     []string{},
		PossibleStock:   []string{},
		UnmappedColumns: []string{},
	}

	mapped := make(map[string]bool, len(mapping))
	for _, header := range mapping {
		mapped[header] = true
	}

	var unmapped []string
	for _, header := range headers {
		if !mapped[header] {
			unmapped = append(unmapped, header)
		}
	}
	suggestions.UnmappedColumns = append(suggestions.UnmappedColumns, unmapped...)

	if _, ok := mapping[FieldSKU]; !ok {
		def := definitionFor(FieldSKU)
		for _, header := range unmapped {
			if p.matchScore(header, def) > p.cfg.SuggestThreshold {
				suggestions.PossibleSKU = append(suggestions.PossibleSKU, header)
			}
		}
	}

	if _, ok := mapping[FieldStock]; !ok {
		def := definitionFor(FieldStock)
		for _, header := range unmapped {
			if p.matchScore(header, def) > p.cfg.SuggestThreshold {
				suggestions.PossibleStock = append(suggestions.PossibleStock, header)
			}
		}
	}

	return suggestions
}

// ColumnSuggestions ranks candidate headers per semantic field for callers
// that offer manual column mapping. The top three candidates are returned
// with the best score.
func (p *Parser) ColumnSuggestions(headers []string) map[string]domain.FieldCandidates {
	result := make(map[string]domain.FieldCandidates, len(fieldCatalog))

	for i := range fieldCatalog {
		def := &fieldCatalog[i]
		type candidate struct {
			header string
			score  float64
		}
		var candidates []candidate
		for _, header := range headers {
			if score := p.matchScore(header, def); score > 0.1 {
				candidates = append(candidates, candidate{header: header, score: score})
			}
		}
		sort.SliceStable(candidates, func(a, b int) bool {
			return candidates[a].score > candidates[b].score
		})

		entry := domain.FieldCandidates{Headers: []string{}}
		for idx, c := range candidates {
			if idx == 0 {
				entry.Score = c.score
			}
			if idx == 3 {
				break
			}
			entry.Headers = append(entry.Headers, c.header)
		}
		result[def.Field] = entry
	}

	return result
}

// levenshtein computes the edit distance between two strings
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(ra)+1)
	curr := make([]int, len(ra)+1)
	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(rb); j++ {
		curr[0] = j
		for i := 1; i <= len(ra); i++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[i] = minInt(curr[i-1]+1, prev[i]+1, prev[i-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(ra)]
}

func minInt(values ...int) int {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
