package validation

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"claimsheet/internal/loader"
)

// ErrEmptyFile is returned for zero-byte input files.
var ErrEmptyFile = errors.New("file is empty")

// FileValidator checks local input files and the output directory before a
// batch run touches them.
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateInputFile checks that path is a readable, non-empty file in one of
// the loader's formats and returns that format. field names the upload the
// file stands in for.
func (v *FileValidator) ValidateInputFile(field, path string) (loader.Format, error) {
	info, err := os.Stat(path)
	if err != nil {
		v.logger.Error("Input file not accessible",
			slog.String("field", field),
			slog.String("file", path),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("%s file %s: %w", field, path, err)
	}
	if info.IsDir() {
		v.logger.Error("Input path is a directory, not a file",
			slog.String("field", field),
			slog.String("path", path))
		return "", fmt.Errorf("%s file %s is a directory", field, path)
	}

	// Excel lock files share the workbook's extension.
	if strings.HasPrefix(filepath.Base(path), "~$") {
		v.logger.Warn("Rejecting temporary Excel file",
			slog.String("field", field),
			slog.String("file", path))
		return "", fmt.Errorf("%s file %s is a temporary Excel file", field, path)
	}

	format, err := loader.DetectFormat(path)
	if err != nil {
		v.logger.Error("Unsupported input file",
			slog.String("field", field),
			slog.String("file", path),
			slog.String("error", err.Error()))
		return "", err
	}

	if info.Size() == 0 {
		return "", fmt.Errorf("%s file %s: %w", field, path, ErrEmptyFile)
	}

	v.logger.Debug("Input file validated",
		slog.String("field", field),
		slog.String("file", path),
		slog.String("format", string(format)),
		slog.Int64("size", info.Size()))
	return format, nil
}

// ValidateOutputDirectory ensures output directory exists or can be created
// and that a file can be written into it.
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	probe, err := os.CreateTemp(dir, ".write_test-*")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	probe.Close()
	os.Remove(probe.Name())

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}
