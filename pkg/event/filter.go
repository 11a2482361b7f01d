package event

import (
	"slices"
	"strings"
	"time"

	"github.com/eventnexus/eventnexus/internal/utils"
	"github.com/eventnexus/eventnexus/pkg/taxonomy"
)

// Criteria is one combination of the three filter controls. Empty values
// behave like "all".
type Criteria struct {
	Category string
	Time     string
	Query    string
}

func (c Criteria) IsActive() bool {
	return !isAll(c.Category) || !isAll(c.Time) || c.Query != ""
}

func isAll(v string) bool {
	return v == "" || strings.EqualFold(v, taxonomy.All)
}

// Window is a half-open interval [From, To).
type Window struct {
	From time.Time
	To   time.Time
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && t.Before(w.To)
}

// TodayWindow spans the local calendar day of now.
func TodayWindow(now time.Time) Window {
	today := utils.StartOfDay(now)
	return Window{From: today, To: today.AddDate(0, 0, 1)}
}

// WeekendWindow spans the next Saturday and Sunday. On a Saturday it points
// to the following week's Saturday, not today.
func WeekendWindow(now time.Time) Window {
	today := utils.StartOfDay(now)
	daysUntilSaturday := (int(time.Saturday) - int(now.Weekday()) + 7) % 7
	if daysUntilSaturday == 0 {
		daysUntilSaturday = 7
	}
	saturday := today.AddDate(0, 0, daysUntilSaturday)
	return Window{From: saturday, To: saturday.AddDate(0, 0, 2)}
}

// Filter returns the events matching c, in their original order. The input
// slice is never modified.
func Filter(events []Event, c Criteria, now time.Time) []Event {
	filtered := slices.Clone(events)
	if filtered == nil {
		filtered = []Event{}
	}

	if !isAll(c.Category) {
		category := strings.ToLower(c.Category)
		filtered = slices.DeleteFunc(filtered, func(e Event) bool {
			return !hasCategory(e, category)
		})
	}

	if !isAll(c.Time) {
		var window Window
		switch c.Time {
		case taxonomy.Today:
			window = TodayWindow(now)
		case taxonomy.Weekend:
			window = WeekendWindow(now)
		}
		if !window.From.IsZero() {
			filtered = slices.DeleteFunc(filtered, func(e Event) bool {
				return !window.Contains(e.Date)
			})
		}
	}

	if strings.TrimSpace(c.Query) != "" {
		query := strings.ToLower(c.Query)
		filtered = slices.DeleteFunc(filtered, func(e Event) bool {
			return !strings.Contains(strings.ToLower(e.Title), query) &&
				!strings.Contains(strings.ToLower(e.Location), query) &&
				!strings.Contains(strings.ToLower(e.Description), query)
		})
	}

	return filtered
}

// hasCategory checks Categories, falling back to the scalar Category only
// when no category list is present.
func hasCategory(e Event, category string) bool {
	if len(e.Categories) > 0 {
		return slices.Contains(e.Categories, category)
	}
	return e.Category == category
}

// Engine filters relative to its clock.
type Engine struct {
	clock utils.Clock
}

func NewEngine(clock utils.Clock) *Engine {
	return &Engine{clock: clock}
}

func (e *Engine) Filter(events []Event, c Criteria) []Event {
	return Filter(events, c, e.clock.Now())
}
