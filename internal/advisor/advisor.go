package advisor

import (
	"fmt"
	"strings"
	"time"

	"github.com/atikulmunna/gastroguard/internal/aggregator"
	"github.com/atikulmunna/gastroguard/internal/model"
)

// DefaultMaxPain is the mean pain at or below which a remedy counts as
// effective in the user's own history.
const DefaultMaxPain = 4.0

// Context is everything Suggest looks at.
type Context struct {
	Now       time.Time
	Pain      int
	Stress    int
	Condition string
	Profile   model.Profile
	History   []model.LogEntry
	MaxPain   float64 // zero means DefaultMaxPain
}

var (
	morning = []string{
		"Ginger tea - Gentle on morning stomach",
		"Small, bland breakfast",
		"Probiotic supplement",
		"Deep breathing exercises",
	}
	afternoon = []string{
		"Peppermint tea - Soothes afternoon discomfort",
		"Light, frequent meals",
		"Walking after meals",
		"Stress management techniques",
	}
	evening = []string{
		"Chamomile tea - Calming for evening",
		"Avoid large meals",
		"Elevate head while sleeping (for GERD)",
		"Heat therapy",
	}

	severePain = []string{
		"Immediate: Antacid or prescribed medication",
		"Heat therapy for pain relief",
		"Small sips of water",
		"Rest in comfortable position",
	}
	moderatePain = []string{
		"Natural remedies: Ginger or peppermint",
		"Gentle abdominal massage",
		"Stress reduction techniques",
		"Avoid trigger foods",
	}
	mildPain = []string{
		"Preventive measures: Probiotics",
		"Maintain regular meal schedule",
		"Stay hydrated",
		"Continue current management strategy",
	}

	highStress = []string{
		"Priority: Stress management",
		"Meditation or deep breathing",
		"Gentle exercise",
		"Consider counseling support",
	}

	byCondition = map[string][]string{
		"gerd": {
			"Avoid lying down after eating",
			"Elevate head of bed",
			"Smaller, more frequent meals",
			"Avoid trigger foods (spicy, acidic)",
		},
		"ibs": {
			"FODMAP diet consideration",
			"Stress management is crucial",
			"Regular exercise",
			"Probiotic supplementation",
		},
	}
)

// Suggest returns remedy suggestions for the current symptoms. Output is
// deterministic and free of duplicates; the first occurrence of a line wins.
func Suggest(c Context) []string {
	var out []string
	seen := make(map[string]struct{})
	add := func(lines ...string) {
		for _, l := range lines {
			if _, ok := seen[l]; ok {
				continue
			}
			seen[l] = struct{}{}
			out = append(out, l)
		}
	}

	p := c.Profile
	if len(p.Allergies) > 0 {
		add("Remember your allergies: " + strings.Join(p.Allergies, ", "))
	}
	if len(p.CurrentMedications) > 0 {
		add("Current medications: " + strings.Join(p.CurrentMedications, ", ") + " - check for interactions")
	}
	condition := strings.ToLower(strings.TrimSpace(c.Condition))
	if len(p.KnownConditions) > 0 && !contains(p.KnownConditions, condition) {
		names := make([]string, len(p.KnownConditions))
		for i, k := range p.KnownConditions {
			names[i] = model.ConditionName(k)
		}
		add("You have multiple conditions: " + strings.Join(names, ", "))
	}

	switch h := c.Now.Hour(); {
	case h < 10:
		add(morning...)
	case h < 16:
		add(afternoon...)
	default:
		add(evening...)
	}

	switch {
	case c.Pain >= 7:
		add(severePain...)
	case c.Pain >= 4:
		add(moderatePain...)
	default:
		add(mildPain...)
	}

	if c.Stress >= 7 {
		add(highStress...)
	}

	add(byCondition[condition]...)

	maxPain := c.MaxPain
	if maxPain == 0 {
		maxPain = DefaultMaxPain
	}
	for _, r := range aggregator.EffectiveRemedies(aggregator.ByRemedy(c.History), maxPain) {
		add(fmt.Sprintf("Your effective remedy: %s (avg pain: %.1f)", r.Key, r.MeanPain))
	}
	return out
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if strings.EqualFold(x, s) {
			return true
		}
	}
	return false
}
