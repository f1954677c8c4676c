// Package typeset runs an external TeX engine over generated documents.
package typeset

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	apperrors "github.com/louisbranch/tenfacts/internal/platform/errors"
	"github.com/louisbranch/tenfacts/internal/platform/logging"
	"github.com/louisbranch/tenfacts/internal/platform/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	// DefaultEngine compiles the CJK worksheet templates.
	DefaultEngine = "xelatex"
	// EngineNone disables typesetting; only .tex files are written.
	EngineNone = "none"

	outputTailBytes = 2048
)

// Commander builds the command for one engine invocation. Tests replace it.
type Commander func(ctx context.Context, name string, args ...string) *exec.Cmd

// Runner invokes the engine on a document from the document's directory.
type Runner struct {
	Engine string
	// Passes repeats the invocation so cross references settle; minimum 1.
	Passes  int
	Logger  *logging.Logger
	Command Commander
}

// Enabled reports whether the runner invokes an engine at all.
func (r Runner) Enabled() bool {
	engine := strings.TrimSpace(r.Engine)
	return engine != "" && engine != EngineNone
}

// Run typesets texPath. A non-zero exit aborts with a render error
// carrying the tail of the engine output.
func (r Runner) Run(ctx context.Context, texPath string) error {
	if !r.Enabled() {
		return nil
	}
	if strings.TrimSpace(texPath) == "" {
		return apperrors.New(apperrors.CodeInvalidInput, "document path is required")
	}
	command := r.Command
	if command == nil {
		command = exec.CommandContext
	}
	passes := max(1, r.Passes)
	dir, name := filepath.Split(texPath)
	if dir == "" {
		dir = "."
	}

	ctx, span := otel.Tracer("typeset").Start(ctx, "typeset.run")
	defer span.End()
	span.SetAttributes(
		attribute.String("typeset.engine", r.Engine),
		attribute.String("typeset.document", name),
		attribute.Int("typeset.passes", passes),
	)

	for pass := 1; pass <= passes; pass++ {
		cmd := command(ctx, r.Engine, "-interaction=nonstopmode", name)
		cmd.Dir = dir
		var out bytes.Buffer
		cmd.Stdout = &out
		cmd.Stderr = &out

		r.Logger.Debug("typeset pass", "engine", r.Engine, "document", name, "pass", pass)
		if err := cmd.Run(); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "engine failed")
			return apperrors.WrapWithMetadata(apperrors.CodeRenderFailed,
				fmt.Sprintf("%s %s (pass %d)", r.Engine, name, pass),
				map[string]string{"output": tail(out.String(), outputTailBytes)},
				err)
		}
	}
	r.Logger.Info("typeset document", "engine", r.Engine, "document", texPath, "passes", passes)
	return nil
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
