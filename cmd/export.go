package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/taco-index/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored entities as seed data",
	Long:  "Loads every stored restaurant, taco, photo and review and writes them as JSON files, a Rails seeds.rb, YAML fixtures or timestamped CSV files.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("export"); err != nil {
			return err
		}
		opts, err := exportOptions(cmd)
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		ds, err := st.LoadDataset(ctx)
		if err != nil {
			return eris.Wrap(err, "export: load dataset")
		}

		files, err := export.Write(ctx, ds, opts)
		if err != nil {
			return err
		}
		zap.L().Info("export complete",
			zap.Int("restaurants", len(ds.Restaurants)),
			zap.Int("tacos", len(ds.Tacos)),
			zap.Int("photos", len(ds.Photos)),
			zap.Int("reviews", len(ds.Reviews)),
			zap.Int("files", len(files)),
		)
		for _, f := range files {
			fmt.Fprintln(os.Stdout, f)
		}
		return nil
	},
}

// exportOptions builds export options from config, letting --format replace
// the configured formats.
func exportOptions(cmd *cobra.Command) (export.Options, error) {
	names := cfg.Export.Formats
	if cmd.Flags().Changed("format") {
		names, _ = cmd.Flags().GetStringSlice("format")
	}
	formats, err := export.ParseFormats(names)
	if err != nil {
		return export.Options{}, err
	}
	if len(formats) == 0 {
		return export.Options{}, eris.New("export: no formats selected")
	}
	return export.Options{
		Formats:     formats,
		SeedsDir:    cfg.Export.SeedsDir,
		SeedsFile:   cfg.Export.SeedsFile,
		FixturesDir: cfg.Export.FixturesDir,
		CSVDir:      cfg.Export.CSVDir,
		CSVPrefix:   cfg.Export.CSVPrefix,
	}, nil
}

func init() {
	exportCmd.Flags().StringSlice("format", nil, "export formats (json, rails, fixtures, csv)")

	rootCmd.AddCommand(exportCmd)
}
