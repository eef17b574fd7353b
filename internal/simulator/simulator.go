// Package simulator runs the toy symptom-severity model: a first-order
// linear ODE driven by stress and hunger. It is illustrative only and makes
// no diagnostic claim.
package simulator

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/atikulmunna/gastroguard/internal/model"
)

// Model constants.
const (
	StressRate    = 0.08 // k_s
	HungerRate    = 0.1  // k_f
	HealingRate   = 0.05 // k_h
	InitialState  = 0.4  // S(0)
	HorizonHours  = 48.0
	Samples       = 300
	HungerAfter   = 4.0 // hours without food before hunger kicks in
	DefaultHours  = 5.0 // hours since last meal when nothing is logged
	mildBelow     = 0.3
	moderateBelow = 0.6
)

var ErrNegativeInput = errors.New("stress and hours since last meal must be non-negative")

// Severity is the classification of the final state.
type Severity string

const (
	Mild     Severity = "mild"
	Moderate Severity = "moderate"
	High     Severity = "high severity"
)

// Classify maps a final severity value to its label.
func Classify(s float64) Severity {
	switch {
	case s < mildBelow:
		return Mild
	case s < moderateBelow:
		return Moderate
	default:
		return High
	}
}

// Point is one sample of the trajectory.
type Point struct {
	T float64 `json:"t"`
	S float64 `json:"s"`
}

// Result is a simulated trajectory and its outcome.
type Result struct {
	Stress         int      `json:"stress"`
	HoursSinceMeal float64  `json:"hours_since_meal"`
	Hunger         bool     `json:"hunger"`
	Drive          float64  `json:"drive"` // D = k_s*stress + k_f*hunger
	Points         []Point  `json:"points"`
	Final          float64  `json:"final_severity"`
	Class          Severity `json:"classification"`
}

// Options tune how results are reported. The zero value reproduces the
// model exactly.
type Options struct {
	// Clamp limits every reported sample, and the final value, to [0,1].
	Clamp      bool
	Tolerances Tolerances
}

// Simulator runs the model with fixed options.
type Simulator struct {
	opts Options
}

// New returns a Simulator. Zero tolerances select DefaultTolerances.
func New(opts Options) *Simulator {
	if opts.Tolerances == (Tolerances{}) {
		opts.Tolerances = DefaultTolerances
	}
	return &Simulator{opts: opts}
}

// Drive returns D and whether the hunger term is active.
func Drive(stress int, hoursSinceMeal float64) (float64, bool) {
	hunger := hoursSinceMeal > HungerAfter
	d := StressRate * float64(stress)
	if hunger {
		d += HungerRate
	}
	return d, hunger
}

// SampleTimes returns the evenly spaced evaluation points over the horizon.
func SampleTimes() []float64 {
	ts := make([]float64, Samples)
	for i := range ts {
		ts[i] = HorizonHours * float64(i) / float64(Samples-1)
	}
	return ts
}

// Run integrates dS/dt = D - k_h*(1-S) from S(0) over the horizon. stress is
// not range-checked beyond rejecting negative values.
func (s *Simulator) Run(stress int, hoursSinceMeal float64) (Result, error) {
	if stress < 0 || hoursSinceMeal < 0 || math.IsNaN(hoursSinceMeal) {
		return Result{}, fmt.Errorf("%w: stress=%d hours=%g", ErrNegativeInput, stress, hoursSinceMeal)
	}

	d, hunger := Drive(stress, hoursSinceMeal)
	rhs := func(_, y float64) float64 {
		return d - HealingRate*(1-y)
	}

	ts := SampleTimes()
	ys, err := Solve(rhs, InitialState, ts, s.opts.Tolerances)
	if err != nil {
		return Result{}, fmt.Errorf("simulate: %w", err)
	}

	points := make([]Point, len(ts))
	for i := range ts {
		y := ys[i]
		if s.opts.Clamp {
			y = math.Min(1, math.Max(0, y))
		}
		points[i] = Point{T: ts[i], S: y}
	}
	final := points[len(points)-1].S

	return Result{
		Stress:         stress,
		HoursSinceMeal: hoursSinceMeal,
		Hunger:         hunger,
		Drive:          d,
		Points:         points,
		Final:          final,
		Class:          Classify(final),
	}, nil
}

// Simulate runs the model with default options.
func Simulate(stress int, hoursSinceMeal float64) (Result, error) {
	return New(Options{}).Run(stress, hoursSinceMeal)
}

// Exact is the closed-form solution of the model at t:
// S(t) = S* + (S0 - S*) e^(k_h t), with S* = 1 - D/k_h.
func Exact(d, t float64) float64 {
	eq := 1 - d/HealingRate
	return eq + (InitialState-eq)*math.Exp(HealingRate*t)
}

// HoursSinceLastMeal returns the hours between the latest ingestion time in
// entries and now, or DefaultHours when entries is empty. A latest meal in
// the future counts as zero hours.
func HoursSinceLastMeal(entries []model.LogEntry, now time.Time) float64 {
	if len(entries) == 0 {
		return DefaultHours
	}
	var latest time.Time
	for _, e := range entries {
		if ts := e.EventTime(model.FieldIngested); ts.After(latest) {
			latest = ts
		}
	}
	h := now.Sub(latest).Hours()
	if h < 0 {
		return 0
	}
	return h
}
