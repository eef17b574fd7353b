package aggregator

import (
	"math"
	"testing"
	"time"

	"github.com/atikulmunna/gastroguard/internal/model"
)

var now = time.Date(2026, 2, 18, 15, 0, 0, 0, time.UTC)

func entry(meal string, pain, stress int, remedy string, hour int) model.LogEntry {
	ts := time.Date(2026, 2, 18, hour, 0, 0, 0, time.UTC)
	return model.LogEntry{LoggedAt: ts, IngestedAt: ts, Meal: meal, PainLevel: pain, StressLevel: stress, Remedy: remedy}
}

func sample() []model.LogEntry {
	return []model.LogEntry{
		entry("Pizza", 8, 5, "Tums", 20),
		entry("Oatmeal", 1, 2, "", 8),
		entry("Pizza", 6, 3, "Ginger tea", 21),
		entry("Coffee", 5, 6, "Tums", 9),
		entry("pizza", 2, 1, "  ", 13),
		entry("Rice", 5, 4, "Ginger tea", 12),
		entry("Coffee", 7, 7, "Tums", 9),
	}
}

func TestByMealPartitionAndOrder(t *testing.T) {
	entries := sample()
	rows := ByMeal(entries)

	total := 0
	for _, r := range rows {
		total += r.Count
	}
	if total != len(entries) {
		t.Errorf("expected counts to sum to %d, got %d", len(entries), total)
	}

	for i := 1; i < len(rows); i++ {
		if rows[i-1].MeanPain < rows[i].MeanPain {
			t.Errorf("rows not sorted descending at %d: %.2f < %.2f", i, rows[i-1].MeanPain, rows[i].MeanPain)
		}
	}

	want := []string{"Pizza", "Coffee", "Rice", "pizza", "Oatmeal"}
	if len(rows) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(rows))
	}
	for i, k := range want {
		if rows[i].Key != k {
			t.Errorf("row %d: expected %q, got %q", i, k, rows[i].Key)
		}
	}

	pizza := rows[0]
	if pizza.Count != 2 || pizza.MaxPain != 8 || pizza.MinPain != 6 || pizza.MeanStress != 4 {
		t.Errorf("unexpected Pizza row: %+v", pizza)
	}
}

func TestByMealSingleOccurrence(t *testing.T) {
	rows := ByMeal([]model.LogEntry{entry("Soup", 3, 9, "", 10)})
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	r := rows[0]
	if r.MeanPain != 3 || r.MinPain != 3 || r.MaxPain != 3 || r.MeanStress != 9 || r.Count != 1 {
		t.Errorf("unexpected single row: %+v", r)
	}
}

func TestByRemedyAscendingSkipsEmpty(t *testing.T) {
	rows := ByRemedy(sample())

	if len(rows) != 2 {
		t.Fatalf("expected 2 remedy rows, got %d: %+v", len(rows), rows)
	}
	if rows[0].Key != "Ginger tea" || rows[0].MeanPain != 5.5 {
		t.Errorf("expected Ginger tea first at 5.5, got %+v", rows[0])
	}
	if rows[1].Key != "Tums" || rows[1].Count != 3 {
		t.Errorf("expected Tums second with 3 uses, got %+v", rows[1])
	}
}

func TestTieBreakByCount(t *testing.T) {
	rows := ByMeal([]model.LogEntry{
		entry("A", 4, 0, "", 1),
		entry("B", 4, 0, "", 1),
		entry("B", 4, 0, "", 1),
	})
	if rows[0].Key != "B" {
		t.Errorf("expected higher count to win the tie, got %q first", rows[0].Key)
	}
}

func TestEmpty(t *testing.T) {
	if rows := ByMeal(nil); len(rows) != 0 {
		t.Errorf("expected no meal rows, got %d", len(rows))
	}
	if rows := ByRemedy(nil); len(rows) != 0 {
		t.Errorf("expected no remedy rows, got %d", len(rows))
	}
	if rows := PeakHours(nil, model.FieldLogged, 3); rows == nil || len(rows) != 0 {
		t.Errorf("expected empty non-nil peak hours, got %#v", rows)
	}
	if o := Summarize(nil, now); o.TotalEntries != 0 || o.MeanPain != 0 {
		t.Errorf("expected zero overview, got %+v", o)
	}
}

func TestPeakHours(t *testing.T) {
	rows := PeakHours(sample(), model.FieldLogged, 0)

	if len(rows) != DefaultPeakHours {
		t.Fatalf("expected %d rows, got %d", DefaultPeakHours, len(rows))
	}
	if rows[0].Hour != 20 || rows[0].MeanPain != 8 {
		t.Errorf("expected hour 20 first, got %+v", rows[0])
	}
	// Hour 9 averages 6 over two entries, hour 21 averages 6 over one.
	if rows[1].Hour != 9 || rows[2].Hour != 21 {
		t.Errorf("expected hours 9 then 21, got %d then %d", rows[1].Hour, rows[2].Hour)
	}
}

func TestPeakHoursIngestionField(t *testing.T) {
	e := entry("Late snack", 9, 3, "", 23)
	e.IngestedAt = time.Date(2026, 2, 18, 18, 0, 0, 0, time.UTC)

	rows := PeakHours([]model.LogEntry{e}, model.FieldIngested, 3)
	if len(rows) != 1 || rows[0].Hour != 18 {
		t.Errorf("expected ingestion hour 18, got %+v", rows)
	}
}

func TestSummarize(t *testing.T) {
	entries := sample()
	entries[0].Condition = "gerd"
	entries[1].Condition = "ibs"
	entries[2].LoggedAt = now.Add(-10 * 24 * time.Hour)

	o := Summarize(entries, now)
	if o.TotalEntries != 7 {
		t.Errorf("expected 7 entries, got %d", o.TotalEntries)
	}
	if math.Abs(o.MeanPain-34.0/7) > 1e-9 {
		t.Errorf("expected mean pain %.3f, got %.3f", 34.0/7, o.MeanPain)
	}
	if o.UniqueMeals != 5 || o.UniqueRemedies != 2 || o.ConditionsTracked != 2 {
		t.Errorf("unexpected unique counts: %+v", o)
	}
	if o.RecentEntries != 6 {
		t.Errorf("expected 6 recent entries, got %d", o.RecentEntries)
	}
	if o.WithRemedy != 5 || o.MeanPainWithRemedy != 31.0/5 || o.MeanPainNoRemedy != 1.5 {
		t.Errorf("unexpected remedy split: %+v", o)
	}
}
