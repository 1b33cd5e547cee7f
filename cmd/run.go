package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/customer360-cli/internal/pipeline"
)

var runNoStore bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full integration batch",
	Long:  "Loads the three configured sources, resolves identities, integrates, enriches, segments, and writes the Customer 360 CSV.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		p := pipeline.New(cfg, nil)
		if !runNoStore {
			st, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()
			p = pipeline.New(cfg, st)
		}

		result, err := p.Run(ctx)
		if err != nil {
			return eris.Wrap(err, "pipeline run")
		}

		for _, w := range result.Warnings {
			zap.L().Warn("pipeline warning", zap.String("warning", w))
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	runCmd.Flags().BoolVar(&runNoStore, "no-store", false, "skip recording the run in the history database")
	rootCmd.AddCommand(runCmd)
}
