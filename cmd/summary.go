package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/taco-index/internal/discovery"
	"github.com/sells-group/taco-index/internal/extract"
	"github.com/sells-group/taco-index/internal/model"
	"github.com/sells-group/taco-index/internal/pipeline"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print statistics for stored entities",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("summary"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		ds, err := st.LoadDataset(ctx)
		if err != nil {
			return eris.Wrap(err, "summary: load dataset")
		}
		rehydrate(ds)

		fmt.Fprint(os.Stdout, pipeline.FormatReport(pipeline.Summarize(ds)))
		return nil
	},
}

// rehydrate restores the run-only fields of a stored dataset. The likelihood
// score is recomputed from name and tags, and mention counts are parsed back
// out of taco descriptions.
func rehydrate(ds *model.Dataset) {
	for i := range ds.Restaurants {
		r := &ds.Restaurants[i]
		r.LikelihoodScore = discovery.Score(r.Name, r.Tags).Score()
	}
	for i := range ds.Tacos {
		if n, ok := extract.MentionsFromDescription(ds.Tacos[i].Description); ok {
			ds.Tacos[i].MentionCount = n
		}
	}
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}
