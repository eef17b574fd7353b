package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/atikulmunna/gastroguard/internal/advisor"
	"github.com/atikulmunna/gastroguard/internal/model"
	"github.com/atikulmunna/gastroguard/internal/parser"
	"github.com/atikulmunna/gastroguard/internal/profile"
)

var (
	logInput     parser.Input
	logNoSuggest bool
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Log a meal with pain and stress levels",
	Long: `Record one entry. Levels are 0-10. The logging time defaults to now and
the ingestion time defaults to the logging time.

Examples:
  gastroguard log --meal "Spicy curry" --pain 7 --stress 5 --remedy Antacid
  gastroguard log --meal Toast --pain 2 --stress 3 --ingested "2026-02-18 08:15"`,
	Args: cobra.NoArgs,
	RunE: runLog,
}

func init() {
	f := logCmd.Flags()
	f.StringVarP(&logInput.Meal, "meal", "m", "", "what you ate")
	f.StringVar(&logInput.Pain, "pain", "", "pain level 0-10")
	f.StringVar(&logInput.Stress, "stress", "", "stress level 0-10")
	f.StringVarP(&logInput.Remedy, "remedy", "r", "", "remedy used, if any")
	f.StringVar(&logInput.Condition, "condition", "", "condition key (see `gastroguard scales`)")
	f.StringVar(&logInput.Notes, "notes", "", "free-form notes")
	f.StringVar(&logInput.LoggedAt, "at", "", "logging time (default now)")
	f.StringVar(&logInput.IngestedAt, "ingested", "", "when the food was eaten (default: logging time)")
	f.BoolVar(&logNoSuggest, "no-suggest", false, "skip remedy suggestions")
	_ = logCmd.MarkFlagRequired("meal")
	_ = logCmd.MarkFlagRequired("pain")
	_ = logCmd.MarkFlagRequired("stress")

	rootCmd.AddCommand(logCmd)
}

func runLog(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	entry, err := parser.Build(logInput, now())
	if err != nil {
		return fmt.Errorf("invalid entry: %w", err)
	}

	s, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Append(ctx, entry); err != nil {
		return fmt.Errorf("store entry: %w", err)
	}
	log.Debug("entry logged", zap.String("meal", entry.Meal), zap.Int("pain", entry.PainLevel))

	r, err := newRenderer(cmd)
	if err != nil {
		return err
	}
	if err := r.Entries("Logged", []model.LogEntry{entry}); err != nil {
		return err
	}
	if logNoSuggest {
		return nil
	}

	history, err := s.All(ctx)
	if err != nil {
		return fmt.Errorf("read entries: %w", err)
	}
	sc := advisor.Context{
		Now:       entry.LoggedAt,
		Pain:      entry.PainLevel,
		Stress:    entry.StressLevel,
		Condition: entry.Condition,
		History:   history,
	}
	if p, err := profile.Load(cfg.Profile.Path); err != nil {
		log.Warn("profile not loaded", zap.Error(err))
	} else {
		sc.Profile = p.Get()
	}
	return r.Suggestions(advisor.Suggest(sc))
}
