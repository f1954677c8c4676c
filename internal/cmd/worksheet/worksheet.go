// Package worksheet parses single page worksheet flags and runs generation.
package worksheet

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/louisbranch/tenfacts/internal/app"
	entrypoint "github.com/louisbranch/tenfacts/internal/platform/cmd"
	apperrors "github.com/louisbranch/tenfacts/internal/platform/errors"
	"github.com/louisbranch/tenfacts/internal/sheet"
	"github.com/louisbranch/tenfacts/internal/worksheet"
)

// Config holds single page command configuration.
type Config struct {
	app.Config
	Count int
	// Seed is empty when the seed should be derived from the clock.
	Seed string
	Date string
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfigFromArgs(&cfg, fs, args, bindFlags); err != nil {
		return Config{}, err
	}
	if _, err := cfg.seed(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func bindFlags(fs *flag.FlagSet, cfg *Config) {
	app.BindFlags(fs, &cfg.Config)
	fs.IntVar(&cfg.Count, "count", sheet.DefaultCount, "number of questions")
	fs.StringVar(&cfg.Seed, "seed", "", "random seed (default: current unix time)")
	fs.StringVar(&cfg.Date, "date", "", "date shown on the worksheet (default: today)")
}

func (c Config) seed() (*int64, error) {
	raw := strings.TrimSpace(c.Seed)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, apperrors.WrapWithMetadata(apperrors.CodeInvalidInput, "seed must be an integer", map[string]string{"seed": raw}, err)
	}
	return &v, nil
}

// Run generates one page and prints the written file names to out.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	seed, err := cfg.seed()
	if err != nil {
		return err
	}
	rt, err := app.Build(cfg.Config)
	if err != nil {
		return err
	}
	defer rt.Close()

	return entrypoint.RunWithTelemetryAndOptions(ctx, entrypoint.ServiceWorksheet, entrypoint.RunOptions{Logger: rt.Logger}, func(ctx context.Context) error {
		result, err := rt.Service.Single(ctx, worksheet.SingleRequest{
			Count: cfg.Count,
			Seed:  seed,
			Date:  cfg.Date,
		})
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, result.Summary())
		return err
	})
}
