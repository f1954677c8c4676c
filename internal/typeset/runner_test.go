package typeset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	apperrors "github.com/louisbranch/tenfacts/internal/platform/errors"
)

// TestHelperProcess stands in for the TeX engine. It is only active when
// started by fakeCommand.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("TYPESET_HELPER_PROCESS") != "1" {
		return
	}
	wd, _ := os.Getwd()
	fmt.Printf("engine ran in %s with %s\n", wd, strings.Join(os.Args[len(os.Args)-2:], " "))
	code, _ := strconv.Atoi(os.Getenv("TYPESET_HELPER_EXIT"))
	if code != 0 {
		fmt.Fprintln(os.Stderr, "! LaTeX Error: File `ctex.sty' not found.")
	}
	os.Exit(code)
}

type call struct {
	name string
	args []string
}

func fakeCommand(exitCode int, calls *[]call) Commander {
	return func(ctx context.Context, name string, args ...string) *exec.Cmd {
		*calls = append(*calls, call{name: name, args: args})
		cs := append([]string{"-test.run=^TestHelperProcess$", "--", name}, args...)
		cmd := exec.CommandContext(ctx, os.Args[0], cs...)
		cmd.Env = append(os.Environ(), "TYPESET_HELPER_PROCESS=1", "TYPESET_HELPER_EXIT="+strconv.Itoa(exitCode))
		return cmd
	}
}

func TestRunInvokesEngineFromDocumentDir(t *testing.T) {
	dir := t.TempDir()
	var calls []call
	r := Runner{Engine: "xelatex", Passes: 2, Command: fakeCommand(0, &calls)}

	if err := r.Run(context.Background(), filepath.Join(dir, "worksheet_a.tex")); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(calls) != 2 {
		t.Fatalf("expected 2 passes, got %d", len(calls))
	}
	for _, c := range calls {
		if c.name != "xelatex" {
			t.Fatalf("engine = %q", c.name)
		}
		if strings.Join(c.args, " ") != "-interaction=nonstopmode worksheet_a.tex" {
			t.Fatalf("args = %v", c.args)
		}
	}
}

func TestRunReportsEngineFailure(t *testing.T) {
	var calls []call
	r := Runner{Engine: "xelatex", Passes: 3, Command: fakeCommand(1, &calls)}

	err := r.Run(context.Background(), filepath.Join(t.TempDir(), "broken.tex"))
	if !errors.Is(err, apperrors.ErrRenderFailed) {
		t.Fatalf("expected render failure, got %v", err)
	}
	if len(calls) != 1 {
		t.Fatalf("expected to stop after the failed pass, got %d calls", len(calls))
	}
	var domainErr *apperrors.Error
	if !errors.As(err, &domainErr) || !strings.Contains(domainErr.Metadata["output"], "ctex.sty") {
		t.Fatalf("expected engine output in metadata, got %+v", domainErr)
	}
}

func TestRunDisabledEngine(t *testing.T) {
	for _, engine := range []string{"", EngineNone} {
		var calls []call
		r := Runner{Engine: engine, Command: fakeCommand(1, &calls)}
		if r.Enabled() {
			t.Fatalf("engine %q should be disabled", engine)
		}
		if err := r.Run(context.Background(), "worksheet.tex"); err != nil {
			t.Fatalf("run: %v", err)
		}
		if len(calls) != 0 {
			t.Fatalf("expected no engine calls for %q", engine)
		}
	}
}

func TestRunRequiresPath(t *testing.T) {
	r := Runner{Engine: DefaultEngine}
	if err := r.Run(context.Background(), " "); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestTail(t *testing.T) {
	if got := tail("abcdef", 3); got != "def" {
		t.Fatalf("tail = %q", got)
	}
	if got := tail("ab", 3); got != "ab" {
		t.Fatalf("tail = %q", got)
	}
}
