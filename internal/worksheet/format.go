package worksheet

import (
	"strings"

	apperrors "github.com/louisbranch/tenfacts/internal/platform/errors"
)

// Format is the output document format.
type Format string

const (
	// FormatTeX writes LaTeX sources and hands them to the TeX engine.
	FormatTeX Format = "tex"
	// FormatPDF renders PDF directly.
	FormatPDF Format = "pdf"
)

// ParseFormat accepts "tex" or "pdf", case-insensitively. Empty means tex.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", string(FormatTeX):
		return FormatTeX, nil
	case string(FormatPDF):
		return FormatPDF, nil
	default:
		return "", apperrors.WithMetadata(apperrors.CodeInvalidInput,
			"unknown output format", map[string]string{"format": value})
	}
}
