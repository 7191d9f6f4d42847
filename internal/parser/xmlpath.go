package parser

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	apperrors "stocklens/internal/errors"
)

// rowCollectionPaths are the common tabular XML shapes, probed in order.
// The first path holding an array or object wins.
var rowCollectionPaths = []string{
	"root.items.item",
	"root.products.product",
	"root.data.row",
	"root.records.record",
	"items.item",
	"products.product",
	"data.row",
	"records.record",
	"item",
	"product",
	"row",
	"record",
}

// extractXML decodes the document into a map tree with namespace prefixes
// stripped and attributes preserved, then probes the known tabular shapes
// for a row collection. When nothing matches, the whole document is
// flattened into a single synthetic row as a last resort.
func extractXML(data []byte) (*RawTable, error) {
	tree, err := parseXMLTree(stripBOM(data))
	if err != nil {
		return nil, apperrors.XMLError(err)
	}

	elements := probeRowCollection(tree)
	if elements == nil {
		flat := flattenTree(tree, "")
		if len(flat) == 0 {
			return nil, apperrors.ErrXMLShape
		}
		elements = []any{treeFromFlat(flat)}
	}

	table := &RawTable{}
	for _, element := range elements {
		obj, ok := element.(map[string]any)
		if !ok {
			continue
		}
		flat := flattenTree(obj, "")
		row := make(RawRow, len(flat))
		for key, value := range flat {
			row[key] = value
		}
		if len(table.Headers) == 0 {
			keys := make(map[string]any, len(flat))
			for key := range flat {
				keys[key] = nil
			}
			table.Headers = sortedKeys(keys)
		}
		if !rowEmpty(row) {
			table.Rows = append(table.Rows, row)
		}
	}
	return table, nil
}

// parseXMLTree builds a nested map from the token stream. Repeated sibling
// elements collapse into a slice; leaf elements become their trimmed text.
func parseXMLTree(data []byte) (map[string]any, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			return nil, fmt.Errorf("document has no root element")
		}
		if err != nil {
			return nil, err
		}
		if start, ok := token.(xml.StartElement); ok {
			value, err := parseElement(decoder, start)
			if err != nil {
				return nil, err
			}
			return map[string]any{start.Name.Local: value}, nil
		}
	}
}

func parseElement(decoder *xml.Decoder, start xml.StartElement) (any, error) {
	children := make(map[string]any)
	for _, attr := range start.Attr {
		if attr.Name.Space == "xmlns" || attr.Name.Local == "xmlns" {
			continue
		}
		children[attr.Name.Local] = attr.Value
	}

	var text strings.Builder
	for {
		token, err := decoder.Token()
		if err != nil {
			return nil, err
		}
		switch t := token.(type) {
		case xml.StartElement:
			child, err := parseElement(decoder, t)
			if err != nil {
				return nil, err
			}
			addChild(children, t.Name.Local, child)
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			content := strings.TrimSpace(text.String())
			if len(children) == 0 {
				return content, nil
			}
			if content != "" {
				children["#text"] = content
			}
			return children, nil
		}
	}
}

// addChild collapses repeated sibling names into a slice
func addChild(parent map[string]any, name string, child any) {
	existing, ok := parent[name]
	if !ok {
		parent[name] = child
		return
	}
	if list, ok := existing.([]any); ok {
		parent[name] = append(list, child)
		return
	}
	parent[name] = []any{existing, child}
}

// probeRowCollection walks each candidate path through the tree and returns
// the first array (as-is) or object (wrapped) found
func probeRowCollection(tree map[string]any) []any {
	for _, path := range rowCollectionPaths {
		var current any = tree
		found := true
		for _, part := range strings.Split(path, ".") {
			obj, ok := current.(map[string]any)
			if !ok {
				found = false
				break
			}
			current, ok = obj[part]
			if !ok {
				found = false
				break
			}
		}
		if !found || current == nil {
			continue
		}
		switch v := current.(type) {
		case []any:
			return v
		case map[string]any:
			return []any{v}
		}
	}
	return nil
}

// flattenTree turns a nested map into dotted-key leaf values. Arrays
// contribute their first item only; this is the last-resort shape for
// documents that match none of the known row collections.
func flattenTree(obj map[string]any, prefix string) map[string]string {
	flat := make(map[string]string)
	for key, value := range obj {
		name := key
		if prefix != "" {
			name = prefix + "." + key
		}
		switch v := value.(type) {
		case map[string]any:
			for k, leaf := range flattenTree(v, name) {
				flat[k] = leaf
			}
		case []any:
			if len(v) == 0 {
				continue
			}
			if nested, ok := v[0].(map[string]any); ok {
				for k, leaf := range flattenTree(nested, name) {
					flat[k] = leaf
				}
			} else {
				flat[name] = fmt.Sprintf("%v", v[0])
			}
		case string:
			flat[name] = v
		default:
			flat[name] = fmt.Sprintf("%v", v)
		}
	}
	return flat
}

func treeFromFlat(flat map[string]string) map[string]any {
	obj := make(map[string]any, len(flat))
	for key, value := range flat {
		obj[key] = value
	}
	return obj
}
