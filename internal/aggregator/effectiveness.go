package aggregator

import (
	"math"
	"time"

	"github.com/atikulmunna/gastroguard/internal/model"
)

// MinUses is the number of uses a remedy needs before it is rated.
const MinUses = 2

// Recommendation labels produced by Effectiveness.
const (
	InsufficientData    = "insufficient_data"
	HighlyEffective     = "highly_effective"
	Effective           = "effective"
	ModeratelyEffective = "moderately_effective"
	Ineffective         = "ineffective"
)

const (
	recentWeight = 1.2
	oldWeight    = 0.8
	recentDays   = 7
)

// Rating is the effectiveness score of one remedy.
type Rating struct {
	Remedy         string  `json:"remedy"`
	Uses           int     `json:"usage_count"`
	Effectiveness  float64 `json:"effectiveness"`
	Confidence     string  `json:"confidence"`
	Recommendation string  `json:"recommendation"`
	MeanPain       float64 `json:"avg_pain"`
	Consistency    float64 `json:"consistency"`
}

// RateRemedy scores remedy from the entries that used it. Recent uses (within
// seven days of now) weigh more than older ones, and consistent outcomes
// score higher than scattered ones.
func RateRemedy(entries []model.LogEntry, remedy string, now time.Time) Rating {
	var pains []float64
	var weights []float64
	for _, e := range entries {
		if e.Remedy != remedy {
			continue
		}
		pains = append(pains, float64(e.PainLevel))
		daysAgo := int(now.Sub(e.LoggedAt).Hours() / 24)
		if daysAgo <= recentDays {
			weights = append(weights, recentWeight)
		} else {
			weights = append(weights, oldWeight)
		}
	}

	r := Rating{Remedy: remedy, Uses: len(pains), Confidence: "low"}
	if len(pains) < MinUses {
		r.Recommendation = InsufficientData
		return r
	}

	mean, sd := meanStd(pains)
	r.MeanPain = mean
	r.Consistency = math.Max(0, 1-sd/10)

	var weighted, total float64
	for i, p := range pains {
		weighted += p * weights[i]
		total += weights[i]
	}
	weighted /= total

	base := math.Max(0, (10-weighted)/10)
	r.Effectiveness = base * (0.7 + 0.3*r.Consistency)

	switch {
	case r.Uses >= 10:
		r.Confidence = "high"
	case r.Uses >= 5:
		r.Confidence = "medium"
	}

	switch {
	case r.Effectiveness >= 0.8:
		r.Recommendation = HighlyEffective
	case r.Effectiveness >= 0.6:
		r.Recommendation = Effective
	case r.Effectiveness >= 0.4:
		r.Recommendation = ModeratelyEffective
	default:
		r.Recommendation = Ineffective
	}
	return r
}

// EffectiveRemedies returns up to three remedy rows with at least MinUses
// uses and a mean pain no higher than maxPain, best first. rows must come
// from ByRemedy.
func EffectiveRemedies(rows []Row, maxPain float64) []Row {
	var out []Row
	for _, r := range rows {
		if r.Count >= MinUses && r.MeanPain <= maxPain {
			out = append(out, r)
		}
		if len(out) == 3 {
			break
		}
	}
	return out
}

// meanStd returns the mean and sample standard deviation of xs.
func meanStd(xs []float64) (float64, float64) {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(len(xs))
	if len(xs) < 2 {
		return mean, 0
	}
	var ss float64
	for _, x := range xs {
		ss += (x - mean) * (x - mean)
	}
	return mean, math.Sqrt(ss / float64(len(xs)-1))
}
