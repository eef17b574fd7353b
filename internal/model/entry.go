package model

import (
	"strings"
	"time"
)

// TimeField selects which timestamp of an entry a query looks at.
type TimeField string

const (
	FieldLogged   TimeField = "logged"
	FieldIngested TimeField = "ingested"
)

// ParseTimeField maps a user-supplied name to a TimeField. Anything that is
// not recognisably "ingested" means the logging time.
func ParseTimeField(s string) TimeField {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ingested", "ingestion", "ingested_at", "time_of_ingestion":
		return FieldIngested
	default:
		return FieldLogged
	}
}

// LogEntry is one logged meal/pain/stress/remedy record. Entries are values
// and are never modified after they are built.
type LogEntry struct {
	LoggedAt    time.Time `json:"logged_at"`
	IngestedAt  time.Time `json:"ingested_at"` // when the food was consumed, may be backdated
	Meal        string    `json:"meal"`
	PainLevel   int       `json:"pain_level"`   // 0-10
	StressLevel int       `json:"stress_level"` // 0-10
	Remedy      string    `json:"remedy,omitempty"`
	Condition   string    `json:"condition,omitempty"` // key into Conditions
	Notes       string    `json:"notes,omitempty"`
}

// HasRemedy reports whether a remedy was recorded. Whitespace counts as none.
func (e LogEntry) HasRemedy() bool {
	return strings.TrimSpace(e.Remedy) != ""
}

// EventTime returns the timestamp selected by field. The ingestion time
// falls back to the logging time when it was never set.
func (e LogEntry) EventTime(field TimeField) time.Time {
	if field == FieldIngested && !e.IngestedAt.IsZero() {
		return e.IngestedAt
	}
	return e.LoggedAt
}
