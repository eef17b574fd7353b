package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/atikulmunna/gastroguard/internal/config"
	"github.com/atikulmunna/gastroguard/internal/filter"
	"github.com/atikulmunna/gastroguard/internal/logger"
	"github.com/atikulmunna/gastroguard/internal/model"
	"github.com/atikulmunna/gastroguard/internal/output"
	"github.com/atikulmunna/gastroguard/internal/store"
)

var (
	cfgFile   string
	outputFmt string
	fieldFlag string

	cfg config.Config
	log = zap.NewNop()

	// now is the clock every command reads.
	now = time.Now
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "gastroguard",
	Short: "GastroGuard - meal, pain and stress tracker",
	Long: `GastroGuard logs meals together with pain and stress levels and the
remedies you tried, then shows which foods hurt, which remedies help, when
symptoms peak, and a simple severity model driven by stress and hunger.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: $HOME/.gastroguard.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "text", "output format: text, json")
	rootCmd.PersistentFlags().StringVar(&fieldFlag, "field", "", "timestamp used for filtering and peak hours: logged, ingested (default from config)")
}

func initConfig() {
	c, err := config.Load(cfgFile)
	cobra.CheckErr(err)

	l, err := logger.New(c.Log)
	cobra.CheckErr(err)

	cfg, log = c, l
}

func openStore(ctx context.Context) (store.Store, error) {
	s, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	log.Debug("store opened", zap.String("driver", cfg.Store.Driver), zap.String("path", cfg.Store.Path))
	return s, nil
}

func newRenderer(cmd *cobra.Command) (output.Renderer, error) {
	return output.New(outputFmt, cmd.OutOrStdout())
}

func timeField() model.TimeField {
	if fieldFlag != "" {
		return model.ParseTimeField(fieldFlag)
	}
	return model.ParseTimeField(cfg.Filter.Field)
}

// periodFlags are the --period/--start/--end flags shared by reporting commands.
type periodFlags struct {
	name  string
	start string
	end   string
}

func (p *periodFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&p.name, "period", "p", "all", "all, today, this-week, this-month, last-7-days, last-30-days, custom")
	cmd.Flags().StringVar(&p.start, "start", "", "custom range start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&p.end, "end", "", "custom range end date (YYYY-MM-DD), inclusive")
}

// load reads every stored entry and applies the period at t.
func (p *periodFlags) load(ctx context.Context, t time.Time) (filter.Result, error) {
	period, err := filter.ParsePeriod(p.name, p.start, p.end, t.Location())
	if err != nil {
		return filter.Result{}, err
	}

	s, err := openStore(ctx)
	if err != nil {
		return filter.Result{}, err
	}
	defer s.Close()

	entries, err := s.All(ctx)
	if err != nil {
		return filter.Result{}, fmt.Errorf("read entries: %w", err)
	}
	return filter.Apply(entries, period, t, timeField()), nil
}
