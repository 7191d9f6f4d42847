package parser

import (
	"encoding/json"
	"sort"
	"strconv"

	apperrors "stocklens/internal/errors"
)

// extractJSON accepts a top-level array of objects or a single object
// (treated as a one-row table). Any other shape is a fatal parse error.
// Header order is not meaningful in JSON, so keys are sorted for
// deterministic output.
func extractJSON(data []byte) (*RawTable, error) {
	var decoded any
	if err := json.Unmarshal(stripBOM(data), &decoded); err != nil {
		return nil, apperrors.JSONError(err)
	}

	var elements []any
	switch v := decoded.(type) {
	case []any:
		elements = v
	case map[string]any:
		elements = []any{v}
	default:
		return nil, apperrors.ErrJSONShape
	}

	table := &RawTable{}
	for _, element := range elements {
		obj, ok := element.(map[string]any)
		if !ok {
			continue
		}
		row := make(RawRow, len(obj))
		for key, value := range obj {
			row[key] = stringifyValue(value)
		}
		if len(table.Headers) == 0 {
			table.Headers = sortedKeys(obj)
		}
		if !rowEmpty(row) {
			table.Rows = append(table.Rows, row)
		}
	}
	return table, nil
}

// stringifyValue renders a decoded JSON value as the raw text the row
// normalizer expects. Nested structures are re-serialized.
func stringifyValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(encoded)
	}
}

func sortedKeys(obj map[string]any) []string {
	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
