// Package filter selects the entries that fall inside a named time window.
//
// All windows are computed in the location of the evaluation instant. There
// is no timezone model: timestamps are naive local clock values and window
// boundaries are not corrected for DST transitions.
package filter

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atikulmunna/gastroguard/internal/model"
)

var ErrUnknownPeriod = errors.New("unknown filter period")
var ErrBadRange = errors.New("invalid custom range")

// Kind enumerates the supported periods.
type Kind int

const (
	All Kind = iota
	Today
	ThisWeek
	ThisMonth
	Last7Days
	Last30Days
	Custom
)

var labels = map[Kind]string{
	All:        "All",
	Today:      "Today",
	ThisWeek:   "This Week",
	ThisMonth:  "This Month",
	Last7Days:  "Last 7 Days",
	Last30Days: "Last 30 Days",
}

// DateLayout is the layout of custom range bounds.
const DateLayout = "2006-01-02"

// Period is a period selector. Start and End are only meaningful for Custom
// and hold calendar dates (midnight); End is inclusive.
type Period struct {
	Kind  Kind
	Start time.Time
	End   time.Time
}

// NewCustom returns a custom range covering start through the whole of end.
func NewCustom(start, end time.Time) (Period, error) {
	start, end = midnight(start), midnight(end)
	if end.Before(start) {
		return Period{}, fmt.Errorf("%w: end %s before start %s", ErrBadRange, end.Format(DateLayout), start.Format(DateLayout))
	}
	return Period{Kind: Custom, Start: start, End: end}, nil
}

// Label returns the human-readable name shown next to filtered data.
func (p Period) Label() string {
	if p.Kind == Custom {
		return fmt.Sprintf("Custom: %s to %s", p.Start.Format(DateLayout), p.End.Format(DateLayout))
	}
	return labels[p.Kind]
}

// ParsePeriod maps a period name to a Period. Names are matched ignoring
// case, spaces, dashes and underscores, so "This Week", "this-week" and
// "this_week" are equivalent. start and end are only read for "custom" and
// are parsed as YYYY-MM-DD dates in loc.
func ParsePeriod(name, start, end string, loc *time.Location) (Period, error) {
	if loc == nil {
		loc = time.Local
	}

	switch normalize(name) {
	case "", "all":
		return Period{Kind: All}, nil
	case "today":
		return Period{Kind: Today}, nil
	case "thisweek", "week":
		return Period{Kind: ThisWeek}, nil
	case "thismonth", "month":
		return Period{Kind: ThisMonth}, nil
	case "last7days", "7d":
		return Period{Kind: Last7Days}, nil
	case "last30days", "30d":
		return Period{Kind: Last30Days}, nil
	case "custom", "customrange":
		s, err := time.ParseInLocation(DateLayout, strings.TrimSpace(start), loc)
		if err != nil {
			return Period{}, fmt.Errorf("%w: start %q", ErrBadRange, start)
		}
		e, err := time.ParseInLocation(DateLayout, strings.TrimSpace(end), loc)
		if err != nil {
			return Period{}, fmt.Errorf("%w: end %q", ErrBadRange, end)
		}
		return NewCustom(s, e)
	default:
		return Period{}, fmt.Errorf("%w: %q", ErrUnknownPeriod, name)
	}
}

func normalize(s string) string {
	r := strings.NewReplacer(" ", "", "-", "", "_", "")
	return r.Replace(strings.ToLower(strings.TrimSpace(s)))
}

// Window returns the [start, end] bounds of p evaluated at now. For Custom
// the end bound is exclusive (midnight after the last day). bounded is false
// for All.
func Window(p Period, now time.Time) (start, end time.Time, bounded bool) {
	switch p.Kind {
	case Today:
		return midnight(now), now, true
	case ThisWeek:
		// time.Weekday counts from Sunday; weeks start on Monday.
		offset := (int(now.Weekday()) + 6) % 7
		return midnight(now.AddDate(0, 0, -offset)), now, true
	case ThisMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), now, true
	case Last7Days:
		return now.Add(-7 * 24 * time.Hour), now, true
	case Last30Days:
		return now.Add(-30 * 24 * time.Hour), now, true
	case Custom:
		return p.Start, p.End.AddDate(0, 0, 1), true
	default:
		return time.Time{}, time.Time{}, false
	}
}

// Contains reports whether ts falls inside p's window at now.
func Contains(p Period, now, ts time.Time) bool {
	start, end, bounded := Window(p, now)
	if !bounded {
		return true
	}
	if ts.Before(start) {
		return false
	}
	if p.Kind == Custom {
		return ts.Before(end)
	}
	return !ts.After(end)
}

// Result is a filtered view of the entry table.
type Result struct {
	Label   string           `json:"label"`
	Entries []model.LogEntry `json:"entries"`
}

// Len returns the number of entries selected.
func (r Result) Len() int { return len(r.Entries) }

// Apply returns the entries whose field timestamp lies in p's window at now,
// in their original order. The input slice is never modified.
func Apply(entries []model.LogEntry, p Period, now time.Time, field model.TimeField) Result {
	out := make([]model.LogEntry, 0, len(entries))
	for _, e := range entries {
		if Contains(p, now, e.EventTime(field)) {
			out = append(out, e)
		}
	}
	return Result{Label: p.Label(), Entries: out}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
