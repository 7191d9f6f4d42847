package validation

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"stocklens/internal/config"
)

// UploadValidator enforces the admission rules a caller applies before
// handing bytes to the parsing engine: extension allowlist and size cap.
// The engine itself performs no size or type enforcement.
type UploadValidator struct {
	logger  *slog.Logger
	allowed map[string]bool
	maxSize int64
}

// NewUploadValidator creates a validator from the configured admission rules
func NewUploadValidator(logger *slog.Logger, cfg config.ValidationConfig) *UploadValidator {
	if logger == nil {
		logger = slog.Default()
	}
	allowed := make(map[string]bool, len(cfg.AllowedExtensions))
	for _, ext := range cfg.AllowedExtensions {
		allowed[strings.ToLower(strings.TrimSpace(ext))] = true
	}
	return &UploadValidator{
		logger:  logger,
		allowed: allowed,
		maxSize: cfg.MaxFileSize,
	}
}

// ValidateUpload checks a candidate file against the admission rules
func (v *UploadValidator) ValidateUpload(filename string, size int64) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		v.logger.Warn("rejected file without extension",
			slog.String("filename", filename))
		return fmt.Errorf("file %s has no extension", filename)
	}
	if !v.allowed[ext] {
		v.logger.Warn("rejected file with unsupported extension",
			slog.String("filename", filename),
			slog.String("extension", ext))
		return fmt.Errorf("file type %s is not supported", ext)
	}
	if size > v.maxSize {
		v.logger.Warn("rejected oversized file",
			slog.String("filename", filename),
			slog.Int64("size", size),
			slog.Int64("max_size", v.maxSize))
		return fmt.Errorf("file %s exceeds maximum size of %d bytes", filename, v.maxSize)
	}
	return nil
}

// AllowedExtensions returns the configured allowlist, sorted for stable
// output
func (v *UploadValidator) AllowedExtensions() []string {
	exts := make([]string, 0, len(v.allowed))
	for ext := range v.allowed {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
