// Package storage defines the run archive records and the interface the
// worksheet service writes them through.
//
// An archived run captures what was generated (mode, page range, seeds and
// the canonical fact keys per page) so a sheet can be audited or reprinted
// without regenerating it. Implementations live in subpackages.
package storage

import (
	"context"
	"time"

	apperrors "github.com/louisbranch/tenfacts/internal/platform/errors"
)

// ErrNotFound indicates a requested run is missing.
var ErrNotFound = apperrors.ErrNotFound

// Mode is the generation mode of a run.
type Mode string

const (
	ModeSingle Mode = "single"
	ModeMulti  Mode = "multi"
)

// Run is one archived invocation.
type Run struct {
	ID     string
	Mode   Mode
	Start  int
	Pages  int
	Count  int
	Seed   int64
	Date   string
	Locale string
	Format string

	QuestionFile string
	AnswerFile   string
	CreatedAt    time.Time

	// PageRecords is populated by GetRun only.
	PageRecords []RunPage
}

// RunPage records one generated page of a run.
type RunPage struct {
	Number int
	Seed   int64
	Keys   []string
}

// RunStore persists worksheet runs.
type RunStore interface {
	PutRun(ctx context.Context, run Run) error
	GetRun(ctx context.Context, id string) (Run, error)
	ListRuns(ctx context.Context, limit int) ([]Run, error)
}
