package sheet

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	apperrors "github.com/louisbranch/tenfacts/internal/platform/errors"
	"golang.org/x/sync/errgroup"
)

// DefaultCount is the number of questions per page when none is given.
const DefaultCount = 20

// MaxPages bounds one BuildPages call.
const MaxPages = 10000

// CheckRequestCount validates a count arriving from a request. Counts above
// MaxDistinctFacts can never be satisfied and are rejected before any work.
func CheckRequestCount(count int) error {
	if count <= 0 || count > MaxDistinctFacts {
		return apperrors.WithMetadata(apperrors.CodeInvalidInput,
			fmt.Sprintf("count must be between 1 and %d", MaxDistinctFacts),
			map[string]string{"count": strconv.Itoa(count), "max": strconv.Itoa(MaxDistinctFacts)})
	}
	return nil
}

// Page is one generated worksheet page in both views.
type Page struct {
	Number    int
	Seed      int64
	Total     int
	Set       QuestionSet
	Questions Grouping
	Answers   Grouping
}

// BuildPage generates and arranges one page from seed.
func BuildPage(number int, seed int64, count int) (Page, error) {
	set, err := Generate(NewRNG(seed), count)
	if err != nil {
		return Page{}, err
	}
	return Page{
		Number:    number,
		Seed:      seed,
		Total:     count,
		Set:       set,
		Questions: Arrange(set, ViewQuestion),
		Answers:   Arrange(set, ViewAnswer),
	}, nil
}

// PagesOptions tunes BuildPages.
type PagesOptions struct {
	// Concurrency bounds parallel page generation; zero means GOMAXPROCS.
	Concurrency int
}

// BuildPages generates pages numbered start..start+pages-1, each seeded by
// its own number. Page content depends only on its number and count, so
// pages are generated independently and returned in order.
func BuildPages(ctx context.Context, start, pages, count int, opts PagesOptions) ([]Page, error) {
	if pages <= 0 || pages > MaxPages {
		return nil, apperrors.WithMetadata(apperrors.CodeInvalidInput,
			fmt.Sprintf("pages must be between 1 and %d", MaxPages),
			map[string]string{"pages": strconv.Itoa(pages)})
	}
	if count <= 0 {
		return nil, apperrors.WithMetadata(apperrors.CodeInvalidInput,
			"count must be positive", map[string]string{"count": strconv.Itoa(count)})
	}
	if ctx == nil {
		ctx = context.Background()
	}
	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	out := make([]Page, pages)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for offset := 0; offset < pages; offset++ {
		number := start + offset
		idx := offset
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			page, err := BuildPage(number, int64(number), count)
			if err != nil {
				return apperrors.Wrap(apperrors.CodeOf(err), "build page "+strconv.Itoa(number), err)
			}
			out[idx] = page
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
