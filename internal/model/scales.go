package model

import (
	"fmt"
	"sort"
)

// MinLevel and MaxLevel bound every 0-10 scale.
const (
	MinLevel = 0
	MaxLevel = 10
)

// Scale is a named 0-10 rating scale with a label for every level.
type Scale struct {
	Key         string
	Name        string
	Description string
	Levels      [MaxLevel + 1]string
}

var Scales = map[string]Scale{
	"pain": {
		Key:         "pain",
		Name:        "Pain Level Scale",
		Description: "Standardized 0-10 pain assessment scale",
		Levels: [MaxLevel + 1]string{
			"No pain - Complete comfort",
			"Minimal pain - Barely noticeable",
			"Mild pain - Noticeable but not bothersome",
			"Mild pain - Slightly bothersome",
			"Moderate pain - Bothersome but manageable",
			"Moderate pain - Distracting, affects daily activities",
			"Moderate-severe pain - Difficult to ignore, limits activities",
			"Severe pain - Dominates senses, limits concentration",
			"Intense pain - Physical activity severely limited",
			"Excruciating pain - Unable to speak, bedridden",
			"Unbearable pain - Emergency medical attention needed",
		},
	},
	"stress": {
		Key:         "stress",
		Name:        "Stress Level Scale",
		Description: "Perceived stress scale for gastrointestinal symptom correlation",
		Levels: [MaxLevel + 1]string{
			"No stress - Completely relaxed",
			"Minimal stress - Slightly tense",
			"Mild stress - Noticeable tension",
			"Mild stress - Some worry or anxiety",
			"Moderate stress - Feeling pressured",
			"Moderate stress - Significant worry affecting mood",
			"Moderate-severe stress - Difficulty concentrating",
			"Severe stress - Feeling overwhelmed",
			"Intense stress - Panic or extreme anxiety",
			"Extreme stress - Unable to function normally",
			"Crisis stress - Immediate intervention needed",
		},
	},
	"severity": {
		Key:         "severity",
		Name:        "Symptom Severity Scale",
		Description: "Symptom assessment for chronic GI conditions",
		Levels: [MaxLevel + 1]string{
			"No symptoms - Normal function",
			"Minimal symptoms - Barely noticeable",
			"Mild symptoms - Slight discomfort",
			"Mild symptoms - Noticeable but manageable",
			"Moderate symptoms - Affects daily activities",
			"Moderate symptoms - Significant impact on quality of life",
			"Moderate-severe symptoms - Frequent disruption",
			"Severe symptoms - Major lifestyle limitations",
			"Intense symptoms - Constant discomfort",
			"Extreme symptoms - Debilitating",
			"Critical symptoms - Emergency care needed",
		},
	},
}

// Describe returns the label of level on the named scale.
func Describe(scale string, level int) (string, error) {
	s, ok := Scales[scale]
	if !ok {
		return "", fmt.Errorf("unknown scale %q", scale)
	}
	if level < MinLevel || level > MaxLevel {
		return "", fmt.Errorf("level %d outside %d-%d", level, MinLevel, MaxLevel)
	}
	return s.Levels[level], nil
}

// ScaleKeys returns the scale keys in a stable order.
func ScaleKeys() []string {
	keys := make([]string, 0, len(Scales))
	for k := range Scales {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Condition describes a tracked chronic GI condition.
type Condition struct {
	Key         string
	Name        string
	Description string
	Pattern     string
}

var Conditions = map[string]Condition{
	"gastritis": {
		Key:         "gastritis",
		Name:        "Gastritis",
		Description: "Inflammation of the stomach lining",
		Pattern:     "Pain often occurs 30-60 minutes after eating",
	},
	"gerd": {
		Key:         "gerd",
		Name:        "Gastroesophageal Reflux Disease (GERD)",
		Description: "Chronic acid reflux affecting the esophagus",
		Pattern:     "Symptoms worsen when lying down or bending over",
	},
	"ibs": {
		Key:         "ibs",
		Name:        "Irritable Bowel Syndrome (IBS)",
		Description: "Functional disorder affecting the large intestine",
		Pattern:     "Symptoms often improve after bowel movements",
	},
	"dyspepsia": {
		Key:         "dyspepsia",
		Name:        "Functional Dyspepsia",
		Description: "Chronic indigestion without obvious cause",
		Pattern:     "Symptoms often occur during or after meals",
	},
	"food_sensitivity": {
		Key:         "food_sensitivity",
		Name:        "Food Sensitivity/Intolerance",
		Description: "Adverse reactions to specific foods",
		Pattern:     "Symptoms occur 2-6 hours after consuming trigger foods",
	},
}

// ConditionName returns the display name for key, or key itself if unknown.
func ConditionName(key string) string {
	if c, ok := Conditions[key]; ok {
		return c.Name
	}
	return key
}
