// Package export writes collected entities out as seed data: JSON files, a
// Rails seeds.rb, Rails YAML fixtures and CSV.
package export

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/taco-index/internal/model"
)

// Format is an export target.
type Format string

// Supported formats.
const (
	FormatJSON     Format = "json"
	FormatRails    Format = "rails"
	FormatFixtures Format = "fixtures"
	FormatCSV      Format = "csv"
)

// ParseFormats validates format names. Duplicates are dropped.
func ParseFormats(names []string) ([]Format, error) {
	seen := make(map[Format]bool)
	var out []Format
	for _, n := range names {
		f := Format(strings.ToLower(strings.TrimSpace(n)))
		switch f {
		case FormatJSON, FormatRails, FormatFixtures, FormatCSV:
		case "":
			continue
		default:
			return nil, eris.Errorf("export: unknown format %q", n)
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out, nil
}

// Options selects formats and destinations.
type Options struct {
	Formats     []Format
	SeedsDir    string // JSON files
	SeedsFile   string // seeds.rb
	FixturesDir string
	CSVDir      string
	CSVPrefix   string
	Now         func() time.Time // CSV file stamp; defaults to time.Now
}

// Write exports ds in every requested format concurrently and returns the
// files written. Free text is cleaned before any format sees it.
func Write(ctx context.Context, ds *model.Dataset, opts Options) ([]string, error) {
	log := zap.L().With(zap.String("component", "export"))
	clean := cleanDataset(ds)
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	var (
		mu    sync.Mutex
		files []string
	)
	collect := func(paths ...string) {
		mu.Lock()
		files = append(files, paths...)
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, f := range opts.Formats {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var (
				paths []string
				err   error
			)
			switch f {
			case FormatJSON:
				paths, err = writeJSON(opts.SeedsDir, clean)
			case FormatRails:
				err = writeRails(opts.SeedsFile, clean)
				paths = []string{opts.SeedsFile}
			case FormatFixtures:
				paths, err = writeFixtures(opts.FixturesDir, clean)
			case FormatCSV:
				paths, err = writeCSV(opts.CSVDir, opts.CSVPrefix, now(), clean)
			default:
				return eris.Errorf("export: unknown format %q", f)
			}
			if err != nil {
				return eris.Wrapf(err, "export: %s", f)
			}
			collect(paths...)
			log.Info("export: format written", zap.String("format", string(f)), zap.Strings("files", paths))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return files, err
	}

	log.Info("export complete",
		zap.Int("restaurants", len(ds.Restaurants)),
		zap.Int("tacos", len(ds.Tacos)),
		zap.Int("photos", len(ds.Photos)),
		zap.Int("reviews", len(ds.Reviews)),
	)
	return files, nil
}
