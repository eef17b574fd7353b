package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/atikulmunna/gastroguard/internal/export"
	"github.com/atikulmunna/gastroguard/internal/model"
)

var (
	exportPeriod periodFlags
	exportDir    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export entries in a time window to CSV",
	Long: `Write the entries in a time window to a timestamped CSV file.

Examples:
  gastroguard export --period this-week
  gastroguard export --period all --dir ~/reports`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

var importCmd = &cobra.Command{
	Use:   "import [files or globs...]",
	Short: "Import entries from CSV exports",
	Long: `Append every row of one or more CSV exports to the log. Glob patterns,
including ** for nested directories, are expanded.

Rows are not deduplicated: importing the same file twice appends its rows
twice. Imported rows go after the existing entries in file order, so the
log is not kept sorted by logging time.

Examples:
  gastroguard import gastroguard_All_20260218_150000.csv
  gastroguard import "backups/**/*.csv"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	exportPeriod.register(exportCmd)
	exportCmd.Flags().StringVarP(&exportDir, "dir", "d", "", "output directory (default from config)")
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	t := now()
	res, err := exportPeriod.load(cmd.Context(), t)
	if err != nil {
		return err
	}
	if res.Len() == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No entries for %s, nothing exported.\n", res.Label)
		return nil
	}

	dir := exportDir
	if dir == "" {
		dir = cfg.Export.Dir
	}
	path, err := export.WriteFile(dir, res.Label, res.Entries, t)
	if err != nil {
		return err
	}
	log.Info("export written", zap.String("path", path), zap.Int("entries", res.Len()))
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	files, err := export.Expand(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files matched the given patterns: %v", args)
	}

	var entries []model.LogEntry
	for _, f := range files {
		got, err := export.ReadFile(f, time.Local)
		if err != nil {
			return err
		}
		log.Debug("read export", zap.String("path", f), zap.Int("entries", len(got)))
		entries = append(entries, got...)
	}

	s, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	for _, e := range entries {
		if err := s.Append(ctx, e); err != nil {
			return fmt.Errorf("store entry: %w", err)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d entries from %d file(s).\n", len(entries), len(files))
	return nil
}
