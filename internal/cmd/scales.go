package cmd

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/atikulmunna/gastroguard/internal/model"
)

var scalesCmd = &cobra.Command{
	Use:   "scales [scale [level]]",
	Short: "Describe the 0-10 scales and tracked conditions",
	Long: `Without arguments, print every scale and the condition catalogue.
With a scale name, print that scale; with a level too, print one label.

Examples:
  gastroguard scales
  gastroguard scales pain 7`,
	Args: cobra.MaximumNArgs(2),
	RunE: runScales,
}

func init() {
	rootCmd.AddCommand(scalesCmd)
}

func runScales(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()

	if len(args) == 2 {
		level, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("level must be an integer: %q", args[1])
		}
		label, err := model.Describe(args[0], level)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%d: %s\n", level, label)
		return nil
	}

	keys := model.ScaleKeys()
	if len(args) == 1 {
		if _, ok := model.Scales[args[0]]; !ok {
			return fmt.Errorf("unknown scale %q (choose from %v)", args[0], keys)
		}
		keys = []string{args[0]}
	}

	for _, k := range keys {
		s := model.Scales[k]
		fmt.Fprintf(w, "%s - %s\n", s.Name, s.Description)
		for level, label := range s.Levels {
			fmt.Fprintf(w, "  %2d  %s\n", level, label)
		}
		fmt.Fprintln(w)
	}
	if len(args) == 1 {
		return nil
	}

	condKeys := make([]string, 0, len(model.Conditions))
	for k := range model.Conditions {
		condKeys = append(condKeys, k)
	}
	sort.Strings(condKeys)

	fmt.Fprintln(w, "Conditions")
	for _, k := range condKeys {
		c := model.Conditions[k]
		fmt.Fprintf(w, "  %-17s %s: %s\n", c.Key, c.Name, c.Description)
		fmt.Fprintf(w, "  %-17s %s\n", "", c.Pattern)
	}
	return nil
}
