package requestctx

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestRequestIDFromContextRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-42")
	if got := RequestIDFromContext(ctx); got != "req-42" {
		t.Fatalf("RequestIDFromContext = %q, want %q", got, "req-42")
	}
}

func TestRequestIDFromContextEmpty(t *testing.T) {
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
	if got := RequestIDFromContext(nil); got != "" {
		t.Fatalf("expected empty string for nil context, got %q", got)
	}
}

func TestWithRequestIDNilContext(t *testing.T) {
	ctx := WithRequestID(nil, "req-99")
	if got := RequestIDFromContext(ctx); got != "req-99" {
		t.Fatalf("RequestIDFromContext = %q, want %q", got, "req-99")
	}
}

func TestResolve(t *testing.T) {
	fresh := func() (string, error) { return "fresh", nil }
	tests := []struct {
		incoming string
		want     string
	}{
		{incoming: "abc-123", want: "abc-123"},
		{incoming: "  padded  ", want: "padded"},
		{incoming: "", want: "fresh"},
		{incoming: "has space", want: "fresh"},
		{incoming: "日本", want: "fresh"},
		{incoming: strings.Repeat("a", 65), want: "fresh"},
	}
	for _, tt := range tests {
		got, err := Resolve(tt.incoming, fresh)
		if err != nil || got != tt.want {
			t.Errorf("Resolve(%q) = %q, %v; want %q", tt.incoming, got, err, tt.want)
		}
	}

	if _, err := Resolve("", func() (string, error) { return "", errors.New("no entropy") }); err == nil {
		t.Fatal("expected generator error")
	}
}
