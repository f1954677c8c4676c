// Package requestctx carries per-request identifiers through context.
package requestctx

import (
	"context"
	"strings"
)

// Header is the HTTP header a request id is read from and echoed in.
const Header = "X-Request-ID"

const maxRequestIDLen = 64

type requestIDContextKey struct{}

// WithRequestID stores a request identifier in context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, requestIDContextKey{}, requestID)
}

// RequestIDFromContext returns the request identifier stored in context.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(requestIDContextKey{}).(string)
	return value
}

// Resolve keeps a caller supplied id when it is short and printable,
// otherwise it returns a fresh one from newID.
func Resolve(incoming string, newID func() (string, error)) (string, error) {
	incoming = strings.TrimSpace(incoming)
	if incoming != "" && len(incoming) <= maxRequestIDLen && printable(incoming) {
		return incoming, nil
	}
	return newID()
}

func printable(s string) bool {
	for _, r := range s {
		if r < 0x21 || r > 0x7e {
			return false
		}
	}
	return true
}
