package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"stocklens/internal/config"
	"stocklens/internal/exporter"
	"stocklens/internal/files"
	"stocklens/internal/infrastructure"
	"stocklens/internal/parser"
	"stocklens/internal/validation"
)

func main() {
	in := flag.String("in", "", "input stock report file or directory of reports")
	out := flag.String("out", "", "output directory for result JSON (default: stdout)")
	pretty := flag.Bool("pretty", false, "indent result JSON")
	exportCSV := flag.Bool("csv", false, "also export normalized records as CSV (requires -out)")
	workers := flag.Int("workers", 4, "number of files parsed concurrently")
	trace := flag.Bool("trace", false, "emit trace spans to stdout")
	flag.Parse()

	if *in == "" {
		fmt.Fprintln(os.Stderr, "usage: ingest -in <file-or-dir> [-out <dir>] [-pretty] [-workers N]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx := context.Background()

	if *trace {
		tp, err := infrastructure.InitializeTracing(ctx, logger, nil)
		if err != nil {
			logger.Error("Failed to initialize tracing", "error", err)
			os.Exit(1)
		}
		defer tp.Shutdown(ctx)
	}

	inputs, err := collectInputs(*in, cfg)
	if err != nil {
		logger.Error("Failed to collect input files", "error", err)
		os.Exit(1)
	}
	if len(inputs) == 0 {
		logger.Error("No admissible report files found", slog.String("input", *in))
		os.Exit(1)
	}

	if *out != "" {
		if err := os.MkdirAll(*out, 0o755); err != nil {
			logger.Error("Failed to create output directory", "error", err)
			os.Exit(1)
		}
	}

	logger.Info("Starting ingestion",
		slog.Int("files", len(inputs)),
		slog.Int("workers", *workers))

	engine := parser.New(logger, cfg.Parser)

	var csvWriter *exporter.CSVWriter
	if *exportCSV && *out != "" {
		csvWriter = exporter.NewCSVWriter(*out)
	}

	var succeeded atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(*workers)

	for _, input := range inputs {
		input := input
		g.Go(func() error {
			if parseOne(gctx, engine, logger, input, *out, *pretty, csvWriter) {
				succeeded.Add(1)
			}
			// per-file failures are reported in the result, never abort the batch
			return nil
		})
	}
	_ = g.Wait()

	logger.Info("Ingestion complete",
		slog.Int("files", len(inputs)),
		slog.Int64("succeeded", succeeded.Load()))

	if succeeded.Load() == 0 {
		os.Exit(1)
	}
}

// collectInputs resolves -in to the list of admissible files. Directories
// are scanned with discovery; single files still pass admission.
func collectInputs(in string, cfg *config.Config) ([]files.FileInfo, error) {
	validator := validation.NewUploadValidator(infrastructure.GetLogger(), cfg.Validation)

	info, err := os.Stat(in)
	if err != nil {
		return nil, err
	}

	var candidates []files.FileInfo
	if info.IsDir() {
		discovery := files.NewDiscovery(in)
		candidates, err = discovery.FindReportFiles(".", cfg.Validation.AllowedExtensions)
		if err != nil {
			return nil, err
		}
	} else {
		candidates = []files.FileInfo{{
			Path: in,
			Name: filepath.Base(in),
			Size: info.Size(),
		}}
	}

	admitted := make([]files.FileInfo, 0, len(candidates))
	for _, candidate := range candidates {
		if err := validator.ValidateUpload(candidate.Name, candidate.Size); err != nil {
			continue
		}
		admitted = append(admitted, candidate)
	}
	return admitted, nil
}

// parseOne reads, parses, and writes the result for a single file. Returns
// whether the parse succeeded.
func parseOne(ctx context.Context, engine *parser.Parser, logger *slog.Logger, input files.FileInfo, outDir string, pretty bool, csvWriter *exporter.CSVWriter) bool {
	ctx = infrastructure.ContextWithTraceID(ctx)
	ctx, span := infrastructure.Tracer().Start(ctx, "parse_stock_report")
	defer span.End()

	data, err := os.ReadFile(input.Path)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to read file",
			slog.String("path", input.Path),
			slog.String("error", err.Error()))
		return false
	}

	result := engine.ParseFile(ctx, data, input.Name)

	var encoded []byte
	if pretty {
		encoded, err = json.MarshalIndent(result, "", "  ")
	} else {
		encoded, err = json.Marshal(result)
	}
	if err != nil {
		logger.ErrorContext(ctx, "Failed to encode result",
			slog.String("file", input.Name),
			slog.String("error", err.Error()))
		return false
	}

	if outDir == "" {
		fmt.Println(string(encoded))
	} else {
		outPath := filepath.Join(outDir, input.Name+".result.json")
		if err := os.WriteFile(outPath, append(encoded, '\n'), 0o644); err != nil {
			logger.ErrorContext(ctx, "Failed to write result",
				slog.String("path", outPath),
				slog.String("error", err.Error()))
			return false
		}
	}

	if csvWriter != nil && result.Success {
		if err := csvWriter.WriteRecords(input.Name+".records.csv", result.Data); err != nil {
			logger.ErrorContext(ctx, "Failed to export records CSV",
				slog.String("file", input.Name),
				slog.String("error", err.Error()))
		}
	}

	return result.Success
}
