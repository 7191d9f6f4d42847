package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"stocklens/pkg/contracts/domain"
)

var recordValidate = validator.New()

// stripNonNumeric removes everything that cannot be part of a number, so
// values like "1,234 units" or "$19.99" survive coercion.
func stripNonNumeric(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '+' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func transformSKU(value any) (any, error) {
	return strings.ToUpper(strings.TrimSpace(fmt.Sprint(value))), nil
}

func transformTrim(value any) (any, error) {
	return strings.TrimSpace(fmt.Sprint(value)), nil
}

// transformStock coerces free-form stock text to an integer: strip units and
// thousands separators, parse, floor. "1,234 pcs" becomes 1234.
func transformStock(value any) (any, error) {
	cleaned := stripNonNumeric(fmt.Sprint(value))
	parsed, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil, fmt.Errorf("not a number: %q", fmt.Sprint(value))
	}
	return int(math.Floor(parsed)), nil
}

// transformPrice keeps the fractional part, unlike stock
func transformPrice(value any) (any, error) {
	cleaned := stripNonNumeric(fmt.Sprint(value))
	parsed, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil, fmt.Errorf("not a number: %q", fmt.Sprint(value))
	}
	return parsed, nil
}

func validateNonEmptyString(value any) bool {
	s, ok := value.(string)
	return ok && strings.TrimSpace(s) != ""
}

func validateNonNegativeInt(value any) bool {
	n, ok := value.(int)
	return ok && n >= 0
}

func validateNonNegativeFloat(value any) bool {
	f, ok := value.(float64)
	return ok && f >= 0
}

// lookupValue fetches a row value by header, falling back to a
// case-insensitive scan to tolerate header normalization drift between
// extraction and classification.
func lookupValue(row RawRow, header string) (string, bool) {
	if value, ok := row[header]; ok {
		return value, true
	}
	for key, value := range row {
		if strings.EqualFold(key, header) {
			return value, true
		}
	}
	return "", false
}

// normalizeRow applies the mapped fields' transformer and validator chains
// to one raw row. The returned record is nil when the row is rejected; the
// warnings describe every problem found, not just the first, so a reviewer
// sees the full picture.
func (p *Parser) normalizeRow(row RawRow, mapping map[string]string, rowNumber int) (*domain.StockRecord, []string) {
	var warnings []string
	values := make(map[string]any, len(mapping))

	for i := range fieldCatalog {
		def := &fieldCatalog[i]
		header, ok := mapping[def.Field]
		if !ok {
			if def.Field == FieldSKU || def.Field == FieldStock {
				warnings = append(warnings, fmt.Sprintf(
					"Row %d: missing required field '%s' (no matching column)", rowNumber, def.Field))
			}
			continue
		}

		raw, found := lookupValue(row, header)
		if !found || strings.TrimSpace(raw) == "" {
			if def.Field == FieldSKU || def.Field == FieldStock {
				warnings = append(warnings, fmt.Sprintf(
					"Row %d: missing required field '%s' (column: '%s')", rowNumber, def.Field, header))
			}
			continue
		}

		transformed := any(raw)
		var err error
		for _, transform := range def.Transformers {
			transformed, err = transform(transformed)
			if err != nil {
				break
			}
		}
		if err != nil {
			warnings = append(warnings, fmt.Sprintf(
				"Row %d: error processing '%s': %v", rowNumber, def.Field, err))
			continue
		}

		valid := true
		for _, validate := range def.Validators {
			if !validate(transformed) {
				valid = false
				break
			}
		}
		if !valid {
			warnings = append(warnings, fmt.Sprintf(
				"Row %d: invalid value for '%s': '%s' (transformed: '%v')", rowNumber, def.Field, raw, transformed))
			continue
		}

		values[def.Field] = transformed
	}

	sku, hasSKU := values[FieldSKU].(string)
	stock, hasStock := values[FieldStock].(int)
	if !hasSKU || !hasStock {
		if len(warnings) == 0 {
			warnings = append(warnings, fmt.Sprintf(
				"Row %d: could not extract required data (SKU and stock)", rowNumber))
		}
		return nil, warnings
	}

	record := domain.StockRecord{
		SKU:          sku,
		CurrentStock: stock,
	}
	if name, ok := values[FieldName].(string); ok {
		record.Name = name
	}
	if price, ok := values[FieldPrice].(float64); ok {
		record.Price = price
	}
	if category, ok := values[FieldCategory].(string); ok {
		record.Category = category
	}

	if err := recordValidate.Struct(&record); err != nil {
		warnings = append(warnings, fmt.Sprintf(
			"Row %d: record failed final validation: %v", rowNumber, err))
		return nil, warnings
	}

	return &record, warnings
}
