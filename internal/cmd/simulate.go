package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atikulmunna/gastroguard/internal/simulator"
)

var (
	simStress int
	simHours  float64
	simClamp  bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Simulate symptom severity over the next 48 hours",
	Long: `Integrate the severity model for a stress level and the hours since your
last meal. Without --hours, the gap since the last logged meal is used.

Examples:
  gastroguard simulate --stress 6
  gastroguard simulate --stress 10 --hours 5 --output json`,
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

func init() {
	f := simulateCmd.Flags()
	f.IntVarP(&simStress, "stress", "s", 0, "current stress level")
	f.Float64Var(&simHours, "hours", simulator.DefaultHours, "hours since last meal (default: derived from the log)")
	f.BoolVar(&simClamp, "clamp", false, "clamp reported severity into [0,1] (default from config)")
	_ = simulateCmd.MarkFlagRequired("stress")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	hours := simHours
	if !cmd.Flags().Changed("hours") {
		s, err := openStore(ctx)
		if err != nil {
			return err
		}
		entries, err := s.All(ctx)
		s.Close()
		if err != nil {
			return fmt.Errorf("read entries: %w", err)
		}
		hours = simulator.HoursSinceLastMeal(entries, now())
	}

	clamp := cfg.Simulation.Clamp
	if cmd.Flags().Changed("clamp") {
		clamp = simClamp
	}

	res, err := simulator.New(simulator.Options{Clamp: clamp}).Run(simStress, hours)
	if err != nil {
		return err
	}
	r, err := newRenderer(cmd)
	if err != nil {
		return err
	}
	return r.Simulation(res)
}
