package config

import (
	"fmt"
	"io"
	"os"

	apperrors "github.com/louisbranch/tenfacts/internal/platform/errors"
)

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// Exit reports err on stderr and exits with code 1. Nil errors return.
func Exit(err error) {
	if err == nil {
		return
	}
	WriteDiagnostic(os.Stderr, err)
	os.Exit(1)
}

// WriteDiagnostic writes the one-line message for err with a hint for
// errors the user can act on.
func WriteDiagnostic(w io.Writer, err error) {
	switch apperrors.CodeOf(err) {
	case apperrors.CodeGenerationExhausted:
		fmt.Fprintf(w, "error: %v\nhint: reduce -count; only 90 facts without a zero exist\n", err)
	case apperrors.CodeInvalidInput:
		fmt.Fprintf(w, "error: %v\nhint: -count and -pages must be positive\n", err)
	default:
		fmt.Fprintf(w, "error: %v\n", err)
	}
}
