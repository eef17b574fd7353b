package simulator

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/atikulmunna/gastroguard/internal/model"
)

func closeTo(got, want, rel float64) bool {
	return math.Abs(got-want) <= rel*math.Max(1, math.Abs(want))
}

func TestHighStressHungry(t *testing.T) {
	res, err := Simulate(10, 5)
	if err != nil {
		t.Fatal(err)
	}

	if !res.Hunger {
		t.Error("expected hunger after 5 hours")
	}
	if math.Abs(res.Drive-0.9) > 1e-12 {
		t.Errorf("expected drive 0.9, got %f", res.Drive)
	}
	if res.Class != High {
		t.Errorf("expected %q, got %q (final %.3f)", High, res.Class, res.Final)
	}
	if want := Exact(0.9, HorizonHours); !closeTo(res.Final, want, 1e-3) {
		t.Errorf("expected final near %.4f, got %.4f", want, res.Final)
	}
}

func TestNoDriveMatchesClosedForm(t *testing.T) {
	res, err := Simulate(0, 0)
	if err != nil {
		t.Fatal(err)
	}

	if res.Hunger || res.Drive != 0 {
		t.Errorf("expected no hunger and zero drive, got %v/%f", res.Hunger, res.Drive)
	}

	// With D = 0 the equilibrium S* = 1 is unstable and S(0) = 0.4 sits below
	// it, so the state falls away from 1 for the whole horizon.
	for i := 1; i < len(res.Points); i++ {
		if res.Points[i].S >= res.Points[i-1].S {
			t.Fatalf("expected strictly decreasing trajectory at sample %d", i)
		}
	}
	if want := Exact(0, HorizonHours); !closeTo(res.Final, want, 1e-3) {
		t.Errorf("expected final near %.4f, got %.4f", want, res.Final)
	}
	if res.Final >= 1 {
		t.Errorf("expected final below 1, got %f", res.Final)
	}
	if res.Class != Mild {
		t.Errorf("expected %q, got %q", Mild, res.Class)
	}
}

func TestTrajectoryMatchesClosedForm(t *testing.T) {
	for _, stress := range []int{0, 1, 3, 7, 10} {
		for _, hours := range []float64{0, 4, 4.5, 12} {
			res, err := Simulate(stress, hours)
			if err != nil {
				t.Fatal(err)
			}
			for _, p := range res.Points {
				if want := Exact(res.Drive, p.T); !closeTo(p.S, want, 1e-3) {
					t.Fatalf("stress=%d hours=%g t=%.2f: expected %.5f, got %.5f", stress, hours, p.T, want, p.S)
				}
			}
		}
	}
}

func TestSampling(t *testing.T) {
	res, err := Simulate(5, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Points) != Samples {
		t.Fatalf("expected %d samples, got %d", Samples, len(res.Points))
	}
	if res.Points[0].T != 0 || res.Points[0].S != InitialState {
		t.Errorf("unexpected first sample %+v", res.Points[0])
	}
	if res.Points[Samples-1].T != HorizonHours {
		t.Errorf("expected last sample at %g, got %g", HorizonHours, res.Points[Samples-1].T)
	}
	if res.Final != res.Points[Samples-1].S {
		t.Error("expected final severity to equal the last sample")
	}
}

func TestDeterministic(t *testing.T) {
	a, _ := Simulate(6, 3.5)
	b, _ := Simulate(6, 3.5)
	if a.Final != b.Final {
		t.Errorf("expected identical results, got %v and %v", a.Final, b.Final)
	}
}

func TestHungerThreshold(t *testing.T) {
	if _, hunger := Drive(0, 4); hunger {
		t.Error("expected no hunger at exactly 4 hours")
	}
	if _, hunger := Drive(0, 4.01); !hunger {
		t.Error("expected hunger just past 4 hours")
	}
}

func TestRejectsNegativeInput(t *testing.T) {
	if _, err := Simulate(-1, 2); !errors.Is(err, ErrNegativeInput) {
		t.Errorf("expected ErrNegativeInput for negative stress, got %v", err)
	}
	if _, err := Simulate(2, -0.5); !errors.Is(err, ErrNegativeInput) {
		t.Errorf("expected ErrNegativeInput for negative hours, got %v", err)
	}
}

func TestClamp(t *testing.T) {
	res, err := New(Options{Clamp: true}).Run(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range res.Points {
		if p.S < 0 || p.S > 1 {
			t.Fatalf("sample %+v outside [0,1]", p)
		}
	}
	if res.Final != 0 || res.Class != Mild {
		t.Errorf("expected clamped final 0 (mild), got %f (%s)", res.Final, res.Class)
	}

	res, _ = New(Options{Clamp: true}).Run(10, 5)
	if res.Final != 1 || res.Class != High {
		t.Errorf("expected clamped final 1 (high), got %f (%s)", res.Final, res.Class)
	}
}

func TestClassify(t *testing.T) {
	cases := map[float64]Severity{
		-2:     Mild,
		0:      Mild,
		0.2999: Mild,
		0.3:    Moderate,
		0.5999: Moderate,
		0.6:    High,
		1:      High,
	}
	for s, want := range cases {
		if got := Classify(s); got != want {
			t.Errorf("Classify(%g): expected %q, got %q", s, want, got)
		}
	}
}

func TestHoursSinceLastMeal(t *testing.T) {
	now := time.Date(2026, 2, 18, 15, 0, 0, 0, time.UTC)

	if h := HoursSinceLastMeal(nil, now); h != DefaultHours {
		t.Errorf("expected default %g hours, got %g", DefaultHours, h)
	}

	entries := []model.LogEntry{
		{LoggedAt: now.Add(-1 * time.Hour), IngestedAt: now.Add(-6 * time.Hour)},
		{LoggedAt: now.Add(-5 * time.Hour), IngestedAt: now.Add(-3 * time.Hour)},
	}
	if h := HoursSinceLastMeal(entries, now); math.Abs(h-3) > 1e-9 {
		t.Errorf("expected 3 hours since latest ingestion, got %g", h)
	}

	future := []model.LogEntry{{LoggedAt: now, IngestedAt: now.Add(time.Hour)}}
	if h := HoursSinceLastMeal(future, now); h != 0 {
		t.Errorf("expected 0 hours for a future meal, got %g", h)
	}
}
