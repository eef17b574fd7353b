// Package export writes and reads the CSV interchange format.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/atikulmunna/gastroguard/internal/model"
	"github.com/atikulmunna/gastroguard/internal/parser"
)

// Column names, in the order they are written.
const (
	ColTime      = "Time"
	ColIngestion = "Time_of_Ingestion"
	ColMeal      = "Meal"
	ColPain      = "Pain Level"
	ColStress    = "Stress Level"
	ColRemedy    = "Remedy"
	ColCondition = "Condition"
	ColNotes     = "Notes"
)

var Header = []string{ColTime, ColIngestion, ColMeal, ColPain, ColStress, ColRemedy, ColCondition, ColNotes}

var ErrMissingColumn = errors.New("missing required column")

// Write encodes entries as CSV with a header row.
func Write(w io.Writer, entries []model.LogEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, e := range entries {
		if err := cw.Write(record(e)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func record(e model.LogEntry) []string {
	return []string{
		parser.FormatTimestamp(e.LoggedAt),
		parser.FormatTimestamp(e.EventTime(model.FieldIngested)),
		e.Meal,
		strconv.Itoa(e.PainLevel),
		strconv.Itoa(e.StressLevel),
		e.Remedy,
		e.Condition,
		e.Notes,
	}
}

// Read decodes a CSV export. Columns are located by header name, so older
// files without the ingestion, condition or notes columns still load. Every
// row goes through the same validation as a newly logged entry; loc is the
// zone naive timestamps are read in.
func Read(r io.Reader, loc *time.Location) ([]model.LogEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[normalizeColumn(name)] = i
	}
	for _, required := range []string{ColTime, ColMeal, ColPain, ColStress} {
		if _, ok := cols[normalizeColumn(required)]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, required)
		}
	}

	get := func(rec []string, name string) string {
		i, ok := cols[normalizeColumn(name)]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	if loc == nil {
		loc = time.Local
	}
	// Build only uses now for defaults, and every row carries a Time.
	now := time.Now().In(loc)

	var out []model.LogEntry
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line, _ := cr.FieldPos(0)

		if strings.TrimSpace(get(rec, ColTime)) == "" {
			return nil, fmt.Errorf("line %d: %w", line, parser.ErrBadTimestamp)
		}
		e, err := parser.Build(parser.Input{
			LoggedAt:   get(rec, ColTime),
			IngestedAt: get(rec, ColIngestion),
			Meal:       get(rec, ColMeal),
			Pain:       get(rec, ColPain),
			Stress:     get(rec, ColStress),
			Remedy:     get(rec, ColRemedy),
			Condition:  get(rec, ColCondition),
			Notes:      get(rec, ColNotes),
		}, now)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, e)
	}
	return out, nil
}

// normalizeColumn lets "Pain Level", "Pain_Level" and "pain level" match.
func normalizeColumn(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}

// FileName returns the export file name for a filter label at now, e.g.
// gastroguard_Last_7_Days_20260218_150405.csv.
func FileName(label string, now time.Time) string {
	r := strings.NewReplacer(" ", "_", ":", "", "/", "-")
	return fmt.Sprintf("gastroguard_%s_%s.csv", r.Replace(label), now.Format("20060102_150405"))
}

// WriteFile exports entries to dir under FileName and returns the path.
// The file is written to a temporary name first and renamed into place.
func WriteFile(dir, label string, entries []model.LogEntry, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	path := filepath.Join(dir, FileName(label, now))

	f, err := os.CreateTemp(dir, ".gastroguard-export-*")
	if err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	tmp := f.Name()

	if err := Write(f, entries); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("export: write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("export: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("export: %w", err)
	}
	return path, nil
}

// ReadFile reads one CSV export from disk.
func ReadFile(path string, loc *time.Location) ([]model.LogEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	entries, err := Read(f, loc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}

// Expand resolves import patterns to file paths. Recursive patterns such as
// exports/**/*.csv are supported. Patterns without glob characters are
// returned as-is so a missing file surfaces as an open error.
func Expand(patterns []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	for _, pattern := range patterns {
		if !strings.ContainsAny(pattern, "*?[{") {
			if !seen[pattern] {
				seen[pattern] = true
				out = append(out, pattern)
			}
			continue
		}
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
		if err != nil {
			return nil, fmt.Errorf("expand %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	return out, nil
}
