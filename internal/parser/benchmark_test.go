package parser

import (
	"testing"
	"time"
)

// BenchmarkBuild measures validation of form-style input.
func BenchmarkBuild(b *testing.B) {
	in := Input{
		LoggedAt:   "2026-02-17 12:00:00",
		IngestedAt: "2026-02-17 11:30",
		Meal:       "Spicy tacos",
		Pain:       "6",
		Stress:     "4",
		Remedy:     "Ginger tea",
		Condition:  "gastritis",
	}
	now := time.Now()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = Build(in, now)
	}
}

// BenchmarkJSONParser measures decoding of posted entries.
func BenchmarkJSONParser(b *testing.B) {
	p := NewJSONParser()
	raw := []byte(`{"logged_at":"2026-02-17T12:00:00Z","meal":"Pizza","pain_level":7,"stress_level":5,"remedy":"Tums"}`)
	now := time.Now()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = p.Parse(raw, now)
	}
}
