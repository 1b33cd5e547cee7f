package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/customer360-cli/internal/pipeline"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Profile the raw sources without running the batch",
	Long:  "Reports shape, null counts, duplicate rows, and numeric summaries for each configured source.",
	RunE: func(cmd *cobra.Command, args []string) error {
		reports, err := pipeline.New(cfg, nil).Profile(cmd.Context())
		if err != nil {
			return eris.Wrap(err, "profile sources")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
}
