package cmd

import (
	"github.com/spf13/cobra"

	"github.com/atikulmunna/gastroguard/internal/aggregator"
)

var (
	statsPeriod periodFlags
	statsRemedy string
	statsTop    int
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show food, remedy and peak-hour statistics",
	Long: `Summarize the entries in a time window: an overview, foods ranked by
mean pain, remedies ranked by how low pain stayed, and the hours of the day
with the worst symptoms. With --remedy, rate a single remedy instead.

Examples:
  gastroguard stats --period this-month
  gastroguard stats --remedy "Ginger tea"`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	statsPeriod.register(statsCmd)
	statsCmd.Flags().StringVar(&statsRemedy, "remedy", "", "rate the effectiveness of one remedy")
	statsCmd.Flags().IntVar(&statsTop, "top", aggregator.DefaultPeakHours, "number of peak hours to show")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	t := now()
	res, err := statsPeriod.load(cmd.Context(), t)
	if err != nil {
		return err
	}
	r, err := newRenderer(cmd)
	if err != nil {
		return err
	}

	if statsRemedy != "" {
		return r.Rating(aggregator.RateRemedy(res.Entries, statsRemedy, t))
	}

	if err := r.Overview(aggregator.Summarize(res.Entries, t)); err != nil {
		return err
	}
	if err := r.Rows("Foods by mean pain ("+res.Label+")", aggregator.ByMeal(res.Entries)); err != nil {
		return err
	}
	if err := r.Rows("Remedies by mean pain ("+res.Label+")", aggregator.ByRemedy(res.Entries)); err != nil {
		return err
	}
	return r.Hours(aggregator.PeakHours(res.Entries, timeField(), statsTop))
}
