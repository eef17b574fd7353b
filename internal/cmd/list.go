package cmd

import (
	"github.com/spf13/cobra"
)

var listPeriod periodFlags

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List logged entries for a time window",
	Long: `List entries, oldest first, optionally restricted to a time window.

Examples:
  gastroguard list --period today
  gastroguard list --period custom --start 2026-02-01 --end 2026-02-14
  gastroguard list --period last-7-days --field ingested --output json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listPeriod.register(listCmd)
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	res, err := listPeriod.load(cmd.Context(), now())
	if err != nil {
		return err
	}
	r, err := newRenderer(cmd)
	if err != nil {
		return err
	}
	return r.Entries(res.Label, res.Entries)
}
