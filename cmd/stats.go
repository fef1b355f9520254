package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/spigell/resume-studio/internal/score"
	"github.com/spigell/resume-studio/internal/storage"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the dashboard summary of recorded analyses",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		svc, err := newServices()
		if err != nil {
			return err
		}
		defer svc.close()

		stats, err := svc.openStats()
		if err != nil {
			return err
		}

		summary, err := stats.Summary(ctx)
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("output-json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(summary)
		}
		return renderSummary(cmd.OutOrStdout(), summary)
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().Bool("output-json", false, "print the summary as json")
}

func renderSummary(w io.Writer, s *storage.Summary) error {
	fmt.Fprintf(w, "Total analyses: %d\n", s.TotalAnalyses)
	if s.TotalAnalyses == 0 {
		return nil
	}

	fmt.Fprintf(w, "Average score:  %.1f\n", s.AverageScore)
	if s.LastAnalysisAt != nil {
		fmt.Fprintf(w, "Last analysis:  %s\n", s.LastAnalysisAt.Local().Format("2006-01-02 15:04"))
	}

	fmt.Fprintln(w, "\nScore distribution")
	for _, tier := range []score.Tier{score.TierExcellent, score.TierGood, score.TierNeedsImprovement} {
		fmt.Fprintf(w, "  %-10s %d\n", tier.Label(), s.ScoreDistribution[tier])
	}

	fmt.Fprintln(w, "\nBy role")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, rc := range s.ByRole {
		fmt.Fprintf(tw, "  %s\t%d\t%.1f\n", rc.Role, rc.Count, rc.AverageScore)
	}
	return tw.Flush()
}
