package grid

import "time"

// Season is the fixed date range the dense grid covers. Reopen marks the end
// of the pre-season closure week: the resort sells nothing between the second
// season day and that date.
type Season struct {
	Start  time.Time
	End    time.Time
	Reopen time.Time
}

// DefaultSeason is the 2025/26 winter season.
func DefaultSeason() Season {
	return Season{
		Start:  time.Date(2025, time.December, 13, 0, 0, 0, 0, time.UTC),
		End:    time.Date(2026, time.April, 12, 0, 0, 0, 0, time.UTC),
		Reopen: time.Date(2025, time.December, 19, 0, 0, 0, 0, time.UTC),
	}
}

// remainingRule maps a date predicate to the sellable days remaining. Rules
// are evaluated in order, first match wins; the last rule is the catch-all
// linear formula. The first three are fixed calendar exceptions for the
// pre-season days and the closure week, not derivable from the formula.
type remainingRule struct {
	matches   func(s Season, day time.Time) bool
	remaining func(s Season, day time.Time) int
}

var remainingRules = []remainingRule{
	{
		// opening day
		matches:   func(s Season, day time.Time) bool { return day.Equal(s.Start) },
		remaining: func(Season, time.Time) int { return 2 },
	},
	{
		// second day
		matches:   func(s Season, day time.Time) bool { return day.Equal(s.Start.AddDate(0, 0, 1)) },
		remaining: func(Season, time.Time) int { return 1 },
	},
	{
		// closed during the pre-season week
		matches: func(s Season, day time.Time) bool {
			return day.After(s.Start.AddDate(0, 0, 1)) && day.Before(s.Reopen)
		},
		remaining: func(Season, time.Time) int { return 0 },
	},
	{
		matches: func(Season, time.Time) bool { return true },
		remaining: func(s Season, day time.Time) int {
			return int(s.End.Sub(day).Hours()/24) + 1
		},
	},
}

// RemainingDays returns how many sellable days are left in the season as of
// day, including day itself.
func (s Season) RemainingDays(day time.Time) int {
	for _, rule := range remainingRules {
		if rule.matches(s, day) {
			return rule.remaining(s, day)
		}
	}
	return 0
}

// Active reports whether a product with the given duration is still
// purchasable on day: its full duration must fit into the remaining days.
func (s Season) Active(day time.Time, durationDays int) bool {
	return s.RemainingDays(day) >= durationDays
}
