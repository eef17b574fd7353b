package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/atikulmunna/gastroguard/internal/model"
)

var (
	ErrBadTimestamp     = errors.New("unparseable timestamp")
	ErrBadLevel         = errors.New("level is not an integer")
	ErrOutOfRange       = errors.New("level outside 0-10")
	ErrEmptyMeal        = errors.New("meal is required")
	ErrUnknownCondition = errors.New("unknown condition")
)

// TimestampLayout is the layout entries are exported with.
const TimestampLayout = "2006-01-02 15:04:05"

// layouts accepted on input, tried in order.
var layouts = []string{
	TimestampLayout,
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// Parser converts one raw record into a validated LogEntry.
type Parser interface {
	Parse(raw []byte, now time.Time) (model.LogEntry, error)
}

// Input carries raw field values as they arrive from a form, flag set or
// file row. Empty strings mean "not supplied".
type Input struct {
	LoggedAt   string
	IngestedAt string
	Meal       string
	Pain       string
	Stress     string
	Remedy     string
	Condition  string
	Notes      string
}

// Build validates in and returns the entry it describes. A missing logging
// time becomes now, a missing ingestion time becomes the logging time.
func Build(in Input, now time.Time) (model.LogEntry, error) {
	var entry model.LogEntry

	loggedAt := now.Truncate(time.Second)
	if s := strings.TrimSpace(in.LoggedAt); s != "" {
		t, err := ParseTimestamp(s, now.Location())
		if err != nil {
			return entry, fmt.Errorf("logged_at: %w", err)
		}
		loggedAt = t
	}

	ingestedAt := loggedAt
	if s := strings.TrimSpace(in.IngestedAt); s != "" {
		t, err := ParseTimestamp(s, now.Location())
		if err != nil {
			return entry, fmt.Errorf("ingested_at: %w", err)
		}
		ingestedAt = t
	}

	meal := strings.TrimSpace(in.Meal)
	if meal == "" {
		return entry, ErrEmptyMeal
	}

	pain, err := ParseLevel(in.Pain)
	if err != nil {
		return entry, fmt.Errorf("pain_level: %w", err)
	}
	stress, err := ParseLevel(in.Stress)
	if err != nil {
		return entry, fmt.Errorf("stress_level: %w", err)
	}

	condition := strings.ToLower(strings.TrimSpace(in.Condition))
	if condition != "" {
		if _, ok := model.Conditions[condition]; !ok {
			return entry, fmt.Errorf("%w: %q", ErrUnknownCondition, in.Condition)
		}
	}

	return model.LogEntry{
		LoggedAt:    loggedAt,
		IngestedAt:  ingestedAt,
		Meal:        meal,
		PainLevel:   pain,
		StressLevel: stress,
		Remedy:      strings.TrimSpace(in.Remedy),
		Condition:   condition,
		Notes:       strings.TrimSpace(in.Notes),
	}, nil
}

// ParseTimestamp parses s in loc. RFC 3339 values are converted to loc so
// every parsed time is a wall clock in the same zone.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrBadTimestamp, s)
}

// FormatTimestamp renders t in the export layout.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// ParseLevel parses a 0-10 integer rating.
func ParseLevel(s string) (int, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadLevel, s)
	}
	if n < model.MinLevel || n > model.MaxLevel {
		return 0, fmt.Errorf("%w: %d", ErrOutOfRange, n)
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// JSON Parser
// ---------------------------------------------------------------------------

// JSONParser handles one JSON object per record, as posted by the API.
// Levels may be sent as numbers or strings.
type JSONParser struct{}

func NewJSONParser() *JSONParser { return &JSONParser{} }

type jsonEntry struct {
	LoggedAt   string          `json:"logged_at"`
	IngestedAt string          `json:"ingested_at"`
	Meal       string          `json:"meal"`
	Pain       json.RawMessage `json:"pain_level"`
	Stress     json.RawMessage `json:"stress_level"`
	Remedy     string          `json:"remedy"`
	Condition  string          `json:"condition"`
	Notes      string          `json:"notes"`
}

func (p *JSONParser) Parse(raw []byte, now time.Time) (model.LogEntry, error) {
	var data jsonEntry
	if err := json.Unmarshal(raw, &data); err != nil {
		return model.LogEntry{}, fmt.Errorf("invalid entry JSON: %w", err)
	}

	return Build(Input{
		LoggedAt:   data.LoggedAt,
		IngestedAt: data.IngestedAt,
		Meal:       data.Meal,
		Pain:       levelField(data.Pain),
		Stress:     levelField(data.Stress),
		Remedy:     data.Remedy,
		Condition:  data.Condition,
		Notes:      data.Notes,
	}, now)
}

// levelField turns a JSON number or string into the string ParseLevel expects.
func levelField(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}
