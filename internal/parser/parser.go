package parser

import (
	"context"
	"log/slog"

	"stocklens/internal/config"
	apperrors "stocklens/internal/errors"
	"stocklens/pkg/contracts/domain"
)

// Parser is the ingestion engine. It is safe for concurrent use: every
// invocation works on its own data and the catalogs are read-only.
type Parser struct {
	logger *slog.Logger
	cfg    config.ParserConfig
}

// New creates a parser with the given logger and tunables. A nil logger
// falls back to slog.Default; a zero config falls back to the shipped
// defaults.
func New(logger *slog.Logger, cfg config.ParserConfig) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.AssignThreshold == 0 {
		cfg = config.DefaultParserConfig()
	}
	return &Parser{logger: logger, cfg: cfg}
}

// ParseFile runs the full pipeline over an in-memory file: format and
// encoding detection, raw table extraction, column classification, platform
// fingerprinting, row normalization, and result assembly. It never returns
// an error: file-level failures land in ParseResult.Errors and row-level
// problems in Warnings, with metadata populated either way so callers can
// drive review UIs from partial diagnostics.
func (p *Parser) ParseFile(ctx context.Context, data []byte, filename string) *domain.ParseResult {
	result := &domain.ParseResult{
		Data:     []domain.StockRecord{},
		Errors:   []string{},
		Warnings: []string{},
		Metadata: domain.ParseMetadata{
			DetectedPlatform: "unknown",
			DetectedColumns:  map[string]string{},
			Suggestions: domain.Suggestions{
				PossibleSKU:     []string{},
				PossibleStock:   []string{},
				UnmappedColumns: []string{},
			},
		},
	}

	format := DetectFormat(filename)
	encoding := DetectEncoding(data)
	result.Metadata.FileFormat = string(format)
	result.Metadata.Encoding = string(encoding)

	p.logger.InfoContext(ctx, "parsing stock report",
		slog.String("filename", filename),
		slog.String("format", string(format)),
		slog.String("encoding", string(encoding)),
		slog.Int("bytes", len(data)))

	table, err := p.extract(format, data)
	if err != nil {
		p.logger.WarnContext(ctx, "extraction failed",
			slog.String("filename", filename),
			slog.String("error", err.Error()))
		result.Errors = append(result.Errors, err.Error())
		return result
	}
	result.Metadata.Delimiter = table.Delimiter

	if len(table.Rows) == 0 {
		result.Errors = append(result.Errors, apperrors.ErrNoDataRows.Error())
		return result
	}
	result.Metadata.TotalRows = len(table.Rows)

	mapping := p.mapColumns(table.Headers)
	platform, confidence := detectPlatform(table.Headers)

	result.Metadata.DetectedColumns = mapping
	result.Metadata.DetectedPlatform = platform
	result.Metadata.Confidence = confidence
	result.Metadata.Suggestions = p.buildSuggestions(table.Headers, mapping)

	p.logger.DebugContext(ctx, "columns classified",
		slog.Any("mapping", mapping),
		slog.String("platform", platform),
		slog.Float64("confidence", confidence))

	for i, row := range table.Rows {
		record, warnings := p.normalizeRow(row, mapping, i+1)
		result.Warnings = append(result.Warnings, warnings...)
		if record != nil {
			result.Data = append(result.Data, *record)
			result.Metadata.ValidRows++
		}
	}
	result.Metadata.SkippedRows = result.Metadata.TotalRows - result.Metadata.ValidRows

	result.Success = result.Metadata.ValidRows > 0
	if !result.Success {
		result.Errors = append(result.Errors, apperrors.ErrNoValidRows.Error())
	}

	p.logger.InfoContext(ctx, "parsing complete",
		slog.String("filename", filename),
		slog.Bool("success", result.Success),
		slog.Int("total_rows", result.Metadata.TotalRows),
		slog.Int("valid_rows", result.Metadata.ValidRows),
		slog.Int("skipped_rows", result.Metadata.SkippedRows),
		slog.String("platform", platform))

	return result
}
