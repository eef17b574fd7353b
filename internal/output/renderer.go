package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/atikulmunna/gastroguard/internal/aggregator"
	"github.com/atikulmunna/gastroguard/internal/model"
	"github.com/atikulmunna/gastroguard/internal/simulator"
)

const timeLayout = "2006-01-02 15:04"

// Renderer writes entries, reports and simulation results to an output stream.
type Renderer interface {
	Entries(label string, entries []model.LogEntry) error
	Rows(title string, rows []aggregator.Row) error
	Hours(rows []aggregator.HourRow) error
	Overview(o aggregator.Overview) error
	Rating(r aggregator.Rating) error
	Simulation(r simulator.Result) error
	Suggestions(lines []string) error
}

// New returns the renderer for format ("text" or "json") writing to w.
// A nil w means stdout.
func New(format string, w io.Writer) (Renderer, error) {
	if w == nil {
		w = os.Stdout
	}
	switch strings.ToLower(format) {
	case "", "text":
		return NewTextRenderer(w), nil
	case "json":
		return NewJSONRenderer(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use text or json)", format)
	}
}

// ---------------------------------------------------------------------------
// Text Renderer (colorized terminal output)
// ---------------------------------------------------------------------------

// TextRenderer prints tables with pain-based colors. Colors are dropped
// automatically when w is not a terminal.
type TextRenderer struct {
	w io.Writer

	title  lipgloss.Style
	faint  lipgloss.Style
	low    lipgloss.Style
	medium lipgloss.Style
	high   lipgloss.Style
	alert  lipgloss.Style
}

// NewTextRenderer returns a Renderer that writes colorized text to w.
func NewTextRenderer(w io.Writer) *TextRenderer {
	lr := lipgloss.NewRenderer(w)
	return &TextRenderer{
		w:      w,
		title:  lr.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),  // cyan
		faint:  lr.NewStyle().Foreground(lipgloss.Color("245")).Faint(true), // gray
		low:    lr.NewStyle().Foreground(lipgloss.Color("42")),              // green
		medium: lr.NewStyle().Foreground(lipgloss.Color("220")),             // yellow
		high:   lr.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),  // red bold
		alert: lr.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("196")).
			Bold(true), // white on red
	}
}

func (r *TextRenderer) pain(v float64, text string) string {
	switch {
	case v >= 7:
		return r.high.Render(text)
	case v >= 4:
		return r.medium.Render(text)
	default:
		return r.low.Render(text)
	}
}

func (r *TextRenderer) println(format string, args ...any) error {
	_, err := fmt.Fprintf(r.w, format+"\n", args...)
	return err
}

func (r *TextRenderer) Entries(label string, entries []model.LogEntry) error {
	if err := r.println("%s %s", r.title.Render(label), r.faint.Render(fmt.Sprintf("(%d entries)", len(entries)))); err != nil {
		return err
	}
	for _, e := range entries {
		remedy := e.Remedy
		if !e.HasRemedy() {
			remedy = "-"
		}
		line := fmt.Sprintf("%s  %-20s pain %s  stress %2d  remedy %s",
			e.LoggedAt.Format(timeLayout),
			e.Meal,
			r.pain(float64(e.PainLevel), fmt.Sprintf("%2d", e.PainLevel)),
			e.StressLevel,
			remedy)
		if e.Condition != "" {
			line += "  " + r.faint.Render(e.Condition)
		}
		if err := r.println("%s", line); err != nil {
			return err
		}
	}
	return nil
}

func (r *TextRenderer) Rows(title string, rows []aggregator.Row) error {
	if err := r.println("%s", r.title.Render(title)); err != nil {
		return err
	}
	if len(rows) == 0 {
		return r.println("%s", r.faint.Render("no data"))
	}
	if err := r.println("%-24s %5s %9s %4s %4s %11s", "key", "count", "mean pain", "max", "min", "mean stress"); err != nil {
		return err
	}
	for _, row := range rows {
		if err := r.println("%-24s %5d %s %4d %4d %11.2f",
			row.Key, row.Count,
			r.pain(row.MeanPain, fmt.Sprintf("%9.2f", row.MeanPain)),
			row.MaxPain, row.MinPain, row.MeanStress); err != nil {
			return err
		}
	}
	return nil
}

func (r *TextRenderer) Hours(rows []aggregator.HourRow) error {
	if err := r.println("%s", r.title.Render("Peak pain hours")); err != nil {
		return err
	}
	if len(rows) == 0 {
		return r.println("%s", r.faint.Render("no data"))
	}
	for _, h := range rows {
		if err := r.println("%02d:00  %s  (%d entries)", h.Hour,
			r.pain(h.MeanPain, fmt.Sprintf("%.2f", h.MeanPain)), h.Count); err != nil {
			return err
		}
	}
	return nil
}

func (r *TextRenderer) Overview(o aggregator.Overview) error {
	lines := []struct {
		k string
		v string
	}{
		{"Total entries", fmt.Sprint(o.TotalEntries)},
		{"Mean pain", r.pain(o.MeanPain, fmt.Sprintf("%.2f", o.MeanPain))},
		{"Mean stress", fmt.Sprintf("%.2f", o.MeanStress)},
		{"Unique meals", fmt.Sprint(o.UniqueMeals)},
		{"Unique remedies", fmt.Sprint(o.UniqueRemedies)},
		{"Conditions tracked", fmt.Sprint(o.ConditionsTracked)},
		{"Entries (last 7 days)", fmt.Sprint(o.RecentEntries)},
		{"Entries with remedy", fmt.Sprint(o.WithRemedy)},
		{"Mean pain with remedy", fmt.Sprintf("%.2f", o.MeanPainWithRemedy)},
		{"Mean pain without remedy", fmt.Sprintf("%.2f", o.MeanPainNoRemedy)},
	}
	if err := r.println("%s", r.title.Render("Overview")); err != nil {
		return err
	}
	for _, l := range lines {
		if err := r.println("%-26s %s", l.k, l.v); err != nil {
			return err
		}
	}
	return nil
}

func (r *TextRenderer) Rating(rt aggregator.Rating) error {
	if err := r.println("%s", r.title.Render("Remedy: "+rt.Remedy)); err != nil {
		return err
	}
	if rt.Recommendation == aggregator.InsufficientData {
		return r.println("%d uses, %s", rt.Uses, r.faint.Render("not enough data (need at least 2)"))
	}
	return r.println("uses %d  effectiveness %.2f  mean pain %.2f  consistency %.2f  confidence %s  -> %s",
		rt.Uses, rt.Effectiveness, rt.MeanPain, rt.Consistency, rt.Confidence,
		strings.ReplaceAll(rt.Recommendation, "_", " "))
}

// simulationRows is how many trajectory samples the text view prints.
const simulationRows = 9

func (r *TextRenderer) Simulation(res simulator.Result) error {
	var class string
	switch res.Class {
	case simulator.High:
		class = r.alert.Render(string(res.Class))
	case simulator.Moderate:
		class = r.medium.Render(string(res.Class))
	default:
		class = r.low.Render(string(res.Class))
	}

	if err := r.println("%s", r.title.Render("Severity simulation")); err != nil {
		return err
	}
	if err := r.println("stress %d  hours since meal %.1f  hunger %t  drive %.3f",
		res.Stress, res.HoursSinceMeal, res.Hunger, res.Drive); err != nil {
		return err
	}
	last := -1
	for k := 0; k < simulationRows && len(res.Points) > 0; k++ {
		i := k * (len(res.Points) - 1) / (simulationRows - 1)
		if i == last {
			continue
		}
		last = i
		p := res.Points[i]
		if err := r.println("  t=%5.1fh  S=%.4f", p.T, p.S); err != nil {
			return err
		}
	}
	return r.println("final severity %.4f: %s", res.Final, class)
}

func (r *TextRenderer) Suggestions(lines []string) error {
	if err := r.println("%s", r.title.Render("Suggestions")); err != nil {
		return err
	}
	for i, l := range lines {
		if err := r.println("%2d. %s", i+1, l); err != nil {
			return err
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// JSON Renderer (structured output for piping)
// ---------------------------------------------------------------------------

// JSONRenderer prints one JSON object per line. Lists are emitted one
// element per line.
type JSONRenderer struct {
	enc *json.Encoder
}

// NewJSONRenderer returns a Renderer that writes JSON lines to w.
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{enc: json.NewEncoder(w)}
}

func (r *JSONRenderer) Entries(_ string, entries []model.LogEntry) error {
	for _, e := range entries {
		if err := r.enc.Encode(e); err != nil {
			return err
		}
	}
	return nil
}

func (r *JSONRenderer) Rows(_ string, rows []aggregator.Row) error {
	for _, row := range rows {
		if err := r.enc.Encode(row); err != nil {
			return err
		}
	}
	return nil
}

func (r *JSONRenderer) Hours(rows []aggregator.HourRow) error {
	for _, h := range rows {
		if err := r.enc.Encode(h); err != nil {
			return err
		}
	}
	return nil
}

func (r *JSONRenderer) Overview(o aggregator.Overview) error { return r.enc.Encode(o) }

func (r *JSONRenderer) Rating(rt aggregator.Rating) error { return r.enc.Encode(rt) }

func (r *JSONRenderer) Simulation(res simulator.Result) error { return r.enc.Encode(res) }

func (r *JSONRenderer) Suggestions(lines []string) error {
	for _, l := range lines {
		if err := r.enc.Encode(map[string]string{"suggestion": l}); err != nil {
			return err
		}
	}
	return nil
}
