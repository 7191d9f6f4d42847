package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"stocklens/pkg/contracts/domain"
)

// recordHeaders is the fixed column order for exported records
var recordHeaders = []string{"sku", "currentStock", "name", "price", "category"}

// CSVWriter writes normalized stock records back out as CSV, typically next
// to the JSON parse results so downstream tooling can consume either shape.
type CSVWriter struct {
	baseDir string
}

// NewCSVWriter creates a writer rooted at baseDir. Relative output paths are
// resolved against it.
func NewCSVWriter(baseDir string) *CSVWriter {
	return &CSVWriter{baseDir: baseDir}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // UTF-8 BOM so Excel opens the file correctly
}

// WriteCSV writes rows to a CSV file, creating parent directories as needed
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	fullPath := w.resolvePath(filePath)

	slog.Info("Writing CSV file",
		slog.String("path", fullPath),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	if options.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteRecords exports normalized records with the canonical column order.
// Optional fields are left empty rather than zero-filled so the output
// reflects what the source file actually carried.
func (w *CSVWriter) WriteRecords(filePath string, records []domain.StockRecord) error {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		price := ""
		if record.Price != 0 {
			price = strconv.FormatFloat(record.Price, 'f', -1, 64)
		}
		rows = append(rows, []string{
			record.SKU,
			strconv.Itoa(record.CurrentStock),
			record.Name,
			price,
			record.Category,
		})
	}

	return w.WriteCSV(filePath, WriteOptions{
		Headers:   recordHeaders,
		Records:   rows,
		BOMPrefix: true,
	})
}

func (w *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) || w.baseDir == "" {
		return filePath
	}
	return filepath.Join(w.baseDir, filePath)
}
