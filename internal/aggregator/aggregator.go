package aggregator

import (
	"sort"
	"strings"
	"time"

	"github.com/atikulmunna/gastroguard/internal/model"
)

// DefaultPeakHours is how many hours PeakHours reports when n <= 0.
const DefaultPeakHours = 3

// Row holds summary statistics for one group of entries.
type Row struct {
	Key        string  `json:"key"`
	Count      int     `json:"count"`
	MeanPain   float64 `json:"mean_pain"`
	MaxPain    int     `json:"max_pain"`
	MinPain    int     `json:"min_pain"`
	MeanStress float64 `json:"mean_stress"`
}

// HourRow is the pain summary for one hour of the day.
type HourRow struct {
	Hour     int     `json:"hour"`
	Count    int     `json:"count"`
	MeanPain float64 `json:"mean_pain"`
}

// group accumulates one Row. Groups are kept in first-seen order so that
// results are deterministic before sorting.
type group struct {
	key       string
	count     int
	painSum   int
	stressSum int
	maxPain   int
	minPain   int
}

func (g *group) add(e model.LogEntry) {
	if g.count == 0 || e.PainLevel > g.maxPain {
		g.maxPain = e.PainLevel
	}
	if g.count == 0 || e.PainLevel < g.minPain {
		g.minPain = e.PainLevel
	}
	g.count++
	g.painSum += e.PainLevel
	g.stressSum += e.StressLevel
}

func (g *group) row() Row {
	return Row{
		Key:        g.key,
		Count:      g.count,
		MeanPain:   float64(g.painSum) / float64(g.count),
		MaxPain:    g.maxPain,
		MinPain:    g.minPain,
		MeanStress: float64(g.stressSum) / float64(g.count),
	}
}

// groupBy builds one row per distinct key. Entries for which key reports
// false are skipped.
func groupBy(entries []model.LogEntry, key func(model.LogEntry) (string, bool)) []Row {
	index := make(map[string]*group)
	var order []*group
	for _, e := range entries {
		k, ok := key(e)
		if !ok {
			continue
		}
		g, exists := index[k]
		if !exists {
			g = &group{key: k}
			index[k] = g
			order = append(order, g)
		}
		g.add(e)
	}

	rows := make([]Row, len(order))
	for i, g := range order {
		rows[i] = g.row()
	}
	return rows
}

// sortRows orders rows by mean pain, then count descending, then key.
func sortRows(rows []Row, ascending bool) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.MeanPain != b.MeanPain {
			if ascending {
				return a.MeanPain < b.MeanPain
			}
			return a.MeanPain > b.MeanPain
		}
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Key < b.Key
	})
}

// ByMeal groups entries by meal, worst foods first. Meal names are used
// verbatim, so "Pizza" and "pizza" are separate groups.
func ByMeal(entries []model.LogEntry) []Row {
	rows := groupBy(entries, func(e model.LogEntry) (string, bool) {
		return e.Meal, true
	})
	sortRows(rows, false)
	return rows
}

// ByRemedy groups entries that used a remedy, most helpful remedies first.
func ByRemedy(entries []model.LogEntry) []Row {
	rows := groupBy(entries, func(e model.LogEntry) (string, bool) {
		if !e.HasRemedy() {
			return "", false
		}
		return e.Remedy, true
	})
	sortRows(rows, true)
	return rows
}

// PeakHours ranks hours of the day by mean pain and returns the top n.
// The hour is taken from field; ingestion time falls back to logging time.
func PeakHours(entries []model.LogEntry, field model.TimeField, n int) []HourRow {
	if n <= 0 {
		n = DefaultPeakHours
	}

	var counts, sums [24]int
	for _, e := range entries {
		h := e.EventTime(field).Hour()
		counts[h]++
		sums[h] += e.PainLevel
	}

	rows := make([]HourRow, 0, 24)
	for h := 0; h < 24; h++ {
		if counts[h] == 0 {
			continue
		}
		rows = append(rows, HourRow{Hour: h, Count: counts[h], MeanPain: float64(sums[h]) / float64(counts[h])})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.MeanPain != b.MeanPain {
			return a.MeanPain > b.MeanPain
		}
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Hour < b.Hour
	})

	if len(rows) > n {
		rows = rows[:n]
	}
	return rows
}

// Overview is a point-in-time summary of a set of entries.
type Overview struct {
	TotalEntries       int     `json:"total_entries"`
	MeanPain           float64 `json:"mean_pain"`
	MeanStress         float64 `json:"mean_stress"`
	UniqueMeals        int     `json:"unique_meals"`
	UniqueRemedies     int     `json:"unique_remedies"`
	ConditionsTracked  int     `json:"conditions_tracked"`
	RecentEntries      int     `json:"recent_entries"` // logged within the last 7 days
	WithRemedy         int     `json:"with_remedy"`
	MeanPainWithRemedy float64 `json:"mean_pain_with_remedy"`
	MeanPainNoRemedy   float64 `json:"mean_pain_no_remedy"`
}

// Summarize computes the overview of entries as of now. Means over an empty
// set are zero.
func Summarize(entries []model.LogEntry, now time.Time) Overview {
	o := Overview{TotalEntries: len(entries)}
	if len(entries) == 0 {
		return o
	}

	meals := make(map[string]struct{})
	remedies := make(map[string]struct{})
	conditions := make(map[string]struct{})
	cutoff := now.Add(-7 * 24 * time.Hour)

	var pain, stress, painRemedy, painNone int
	for _, e := range entries {
		pain += e.PainLevel
		stress += e.StressLevel
		meals[e.Meal] = struct{}{}
		if e.HasRemedy() {
			remedies[e.Remedy] = struct{}{}
			o.WithRemedy++
			painRemedy += e.PainLevel
		} else {
			painNone += e.PainLevel
		}
		if c := strings.TrimSpace(e.Condition); c != "" {
			conditions[c] = struct{}{}
		}
		if !e.LoggedAt.Before(cutoff) {
			o.RecentEntries++
		}
	}

	n := float64(len(entries))
	o.MeanPain = float64(pain) / n
	o.MeanStress = float64(stress) / n
	o.UniqueMeals = len(meals)
	o.UniqueRemedies = len(remedies)
	o.ConditionsTracked = len(conditions)
	if o.WithRemedy > 0 {
		o.MeanPainWithRemedy = float64(painRemedy) / float64(o.WithRemedy)
	}
	if without := len(entries) - o.WithRemedy; without > 0 {
		o.MeanPainNoRemedy = float64(painNone) / float64(without)
	}
	return o
}
