package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/taco-index/internal/config"
	"github.com/sells-group/taco-index/internal/cost"
	"github.com/sells-group/taco-index/internal/discovery"
	"github.com/sells-group/taco-index/internal/export"
	"github.com/sells-group/taco-index/internal/model"
	"github.com/sells-group/taco-index/internal/monitoring"
	"github.com/sells-group/taco-index/internal/pipeline"
	"github.com/sells-group/taco-index/pkg/google"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Search, enrich and store taco restaurants",
	Long:  "Runs every search term around a center point, keeps likely bean and cheese taco places, fetches their details, and stores restaurants, tacos, reviews and photos.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		applyCollectFlags(cmd)

		noSave, _ := cmd.Flags().GetBool("no-save")
		mode := "collect"
		if noSave {
			mode = "search"
		}
		if err := cfg.Validate(mode); err != nil {
			return err
		}

		// Check export settings before spending API quota.
		doExport, _ := cmd.Flags().GetBool("export")
		var exportOpts export.Options
		if doExport {
			if err := cfg.Validate("seeds"); err != nil {
				return err
			}
			opts, err := exportOptions(cmd)
			if err != nil {
				return err
			}
			exportOpts = opts
		}

		if near, _ := cmd.Flags().GetString("near"); near != "" {
			ll, err := google.Locate(ctx, google.NewGeocoder(cfg.Google.Key, googleOptions(cfg.Google)...), near)
			if err != nil {
				return err
			}
			cfg.Search.Lat, cfg.Search.Lng = ll.Lat, ll.Lng
			zap.L().Info("collect: search center from address",
				zap.String("near", near), zap.Float64("lat", ll.Lat), zap.Float64("lng", ll.Lng))
		}

		metrics := monitoring.NewMetrics()
		deps := pipeline.Deps{
			Google:  newGoogleClient(cfg.Google),
			APIKey:  cfg.Google.Key,
			Pacing:  pacing(cfg.Search),
			Metrics: metrics,
			Rates:   rates(cfg.Pricing),
		}

		if !noSave {
			st, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck
			if err := st.Migrate(ctx); err != nil {
				return err
			}
			deps.Persister = pipeline.NewPersister(st, metrics)
		}

		res, err := pipeline.New(deps).Run(ctx, discovery.SearchParams{
			Center:       model.LatLng{Lat: cfg.Search.Lat, Lng: cfg.Search.Lng},
			RadiusMeters: cfg.Search.RadiusMeters,
		})
		// Run always returns a result; a cancelled run still reports what it gathered.
		fmt.Fprint(os.Stdout, pipeline.FormatReport(pipeline.Summarize(&res.Dataset)))
		fmt.Fprintf(os.Stdout, "\nPlaces API: %d searches, %d details, ~$%.2f list price\n",
			res.Usage.NearbySearches, res.Usage.Details, res.EstimatedCost)
		if err != nil {
			return eris.Wrapf(err, "collect: stopped while %s", res.EndedAt)
		}

		if doExport {
			files, err := export.Write(ctx, &res.Dataset, exportOpts)
			if err != nil {
				return eris.Wrap(err, "collect: export")
			}
			fmt.Fprintf(os.Stdout, "\nExported %d files\n", len(files))
		}

		if err := metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			zap.L().Warn("collect: write metrics textfile", zap.Error(err))
		}
		return nil
	},
}

// applyCollectFlags lets flags override the configured search area.
func applyCollectFlags(cmd *cobra.Command) {
	if cmd.Flags().Changed("lat") {
		cfg.Search.Lat, _ = cmd.Flags().GetFloat64("lat")
	}
	if cmd.Flags().Changed("lng") {
		cfg.Search.Lng, _ = cmd.Flags().GetFloat64("lng")
	}
	if cmd.Flags().Changed("radius") {
		cfg.Search.RadiusMeters, _ = cmd.Flags().GetInt("radius")
	}
}

func newGoogleClient(gc config.GoogleConfig) google.Client {
	return google.NewClient(gc.Key, googleOptions(gc)...)
}

func googleOptions(gc config.GoogleConfig) []google.Option {
	opts := []google.Option{
		google.WithHTTPClient(&http.Client{Timeout: time.Duration(gc.TimeoutSecs) * time.Second}),
	}
	if gc.BaseURL != "" {
		opts = append(opts, google.WithBaseURL(gc.BaseURL))
	}
	return opts
}

// pacing converts configured delays. A zero keeps the live-API default; the
// CLI never runs unpaced.
func pacing(sc config.SearchConfig) discovery.Pacing {
	p := discovery.DefaultPacing()
	setMs(&p.RequestDelay, sc.RequestDelayMs)
	setMs(&p.PageTokenDelay, sc.PageTokenDelayMs)
	setMs(&p.TermDelay, sc.TermDelayMs)
	setMs(&p.CandidateDelay, sc.CandidateDelayMs)
	return p
}

func setMs(d *time.Duration, ms int) {
	if ms > 0 {
		*d = time.Duration(ms) * time.Millisecond
	}
}

func rates(pc config.PricingConfig) *cost.Rates {
	return &cost.Rates{
		NearbySearch:      pc.NearbySearch,
		DetailsBasic:      pc.DetailsBasic,
		DetailsContact:    pc.DetailsContact,
		DetailsAtmosphere: pc.DetailsAtmosphere,
		MonthlyCredit:     pc.MonthlyCredit,
	}
}

func init() {
	collectCmd.Flags().Float64("lat", 0, "search center latitude (default from config)")
	collectCmd.Flags().Float64("lng", 0, "search center longitude (default from config)")
	collectCmd.Flags().Int("radius", 0, "search radius in meters (default from config)")
	collectCmd.Flags().String("near", "", "geocode this address and search around it instead of --lat/--lng")
	collectCmd.Flags().Bool("no-save", false, "collect without writing to the store")
	collectCmd.Flags().Bool("export", false, "export the collected entities after the run")
	collectCmd.Flags().StringSlice("format", nil, "export formats (json, rails, fixtures, csv)")

	rootCmd.AddCommand(collectCmd)
}
