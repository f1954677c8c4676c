// Package worksheets parses multi page worksheet flags and runs generation.
package worksheets

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/louisbranch/tenfacts/internal/app"
	entrypoint "github.com/louisbranch/tenfacts/internal/platform/cmd"
	apperrors "github.com/louisbranch/tenfacts/internal/platform/errors"
	"github.com/louisbranch/tenfacts/internal/sheet"
	"github.com/louisbranch/tenfacts/internal/worksheet"
)

// Config holds multi page command configuration.
type Config struct {
	app.Config
	Count int
	Start int
	Pages int
}

// ParseConfig parses environment and flags into Config. -start and -pages
// are required.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfigFromArgs(&cfg, fs, args, bindFlags); err != nil {
		return Config{}, err
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	for _, name := range []string{"start", "pages"} {
		if !set[name] {
			return Config{}, apperrors.New(apperrors.CodeInvalidInput, "-"+name+" is required")
		}
	}
	return cfg, nil
}

func bindFlags(fs *flag.FlagSet, cfg *Config) {
	app.BindFlags(fs, &cfg.Config)
	fs.IntVar(&cfg.Count, "count", sheet.DefaultCount, "questions per page")
	fs.IntVar(&cfg.Start, "start", 0, "first page number; each page is seeded by its number")
	fs.IntVar(&cfg.Pages, "pages", 0, "number of pages")
}

// Run generates the page range and prints the written file names to out.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	rt, err := app.Build(cfg.Config)
	if err != nil {
		return err
	}
	defer rt.Close()

	return entrypoint.RunWithTelemetryAndOptions(ctx, entrypoint.ServiceWorksheets, entrypoint.RunOptions{Logger: rt.Logger}, func(ctx context.Context) error {
		result, err := rt.Service.Multi(ctx, worksheet.MultiRequest{
			Start: cfg.Start,
			Pages: cfg.Pages,
			Count: cfg.Count,
		})
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, result.Summary())
		return err
	})
}
