// Package export writes ghost lists to single-column CSV files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ifatinha/ghost-following/backend/internal/constants"
	apperrors "github.com/ifatinha/ghost-following/backend/pkg/errors"
)

// Exporter writes ghost lists to a fixed path
type Exporter struct {
	path   string
	logger *zap.Logger
}

// NewExporter creates an exporter for path; empty path means the default
func NewExporter(path string, logger *zap.Logger) *Exporter {
	if path == "" {
		path = constants.DefaultCSVPath
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{path: path, logger: logger}
}

// Path returns the destination file
func (e *Exporter) Path() string {
	return e.path
}

// Export overwrites the destination file with logins
func (e *Exporter) Export(logins []string) error {
	if err := WriteCSV(e.path, logins); err != nil {
		e.logger.Error("Failed to export CSV", zap.String("path", e.path), zap.Error(err))
		return err
	}
	e.logger.Info("Result exported", zap.String("path", e.path), zap.Int("rows", len(logins)))
	return nil
}

// WriteCSV writes the header row followed by one login per row, creating
// parent directories and truncating any previous file.
func WriteCSV(path string, logins []string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return apperrors.NewExportError(path, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return apperrors.NewExportError(path, err)
	}

	if err := write(f, logins); err != nil {
		f.Close()
		return apperrors.NewExportError(path, err)
	}
	if err := f.Close(); err != nil {
		return apperrors.NewExportError(path, err)
	}
	return nil
}

func write(w io.Writer, logins []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{constants.CSVHeader}); err != nil {
		return err
	}
	for _, l := range logins {
		if err := cw.Write([]string{l}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV reads an export back, returning the logins below the header
func ReadCSV(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewExportError(path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, apperrors.NewExportError(path, err)
	}
	if len(rows) == 0 || rows[0][0] != constants.CSVHeader {
		return nil, apperrors.NewExportError(path, fmt.Errorf("missing header %q", constants.CSVHeader))
	}

	logins := make([]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		logins = append(logins, row[0])
	}
	return logins, nil
}
