// Package exporter writes normalized stock records to CSV files.
//
// CSVWriter is the core writer: it handles directory creation, a UTF-8 BOM
// prefix for Excel compatibility, and the canonical record column order used
// by every export.
package exporter
