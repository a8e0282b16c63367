// Package validation checks uploaded spreadsheet files before they
// reach the parser.
package validation

import (
	"bytes"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
)

// xlsx files are zip archives; the magic bytes identify them regardless
// of the claimed extension.
var zipMagic = []byte{0x50, 0x4B, 0x03, 0x04}

// UploadValidator validates spreadsheet uploads by name and content.
type UploadValidator struct {
	logger *slog.Logger
}

// NewUploadValidator creates an upload validator.
func NewUploadValidator(logger *slog.Logger) *UploadValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &UploadValidator{logger: logger.With(slog.String("component", "upload_validator"))}
}

// Validate checks the filename extension against the leading bytes of
// the file. head needs at most the first 512 bytes.
func (v *UploadValidator) Validate(filename string, head []byte) error {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".csv":
		if bytes.HasPrefix(head, zipMagic) {
			v.logger.Warn("csv upload has xlsx content",
				slog.String("filename", filename))
			return fmt.Errorf("file %s has a .csv extension but xlsx content", filename)
		}
		if bytes.IndexByte(head, 0x00) >= 0 {
			return fmt.Errorf("file %s is not a text CSV file", filename)
		}
		return nil
	case ".xlsx":
		if !bytes.HasPrefix(head, zipMagic) {
			v.logger.Warn("xlsx upload is not a zip archive",
				slog.String("filename", filename))
			return fmt.Errorf("file %s has an .xlsx extension but is not a valid workbook", filename)
		}
		return nil
	default:
		return fmt.Errorf("unsupported file type %q: expected .csv or .xlsx", ext)
	}
}
