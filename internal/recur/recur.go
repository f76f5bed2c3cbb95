// Package recur parses recurrence patterns and performs the calendar
// arithmetic used when a recurring task is completed or deferred.
//
// Dates are exchanged as "YYYY-MM-DD" strings. A string can be date-shaped
// (four digits, dash, two digits, dash, two digits) without being a valid
// calendar date; callers store such values verbatim and only the arithmetic
// in this package interprets them.
package recur

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the layout of every date in task text.
const DateLayout = "2006-01-02"

// Unit is the step of a recurrence pattern.
type Unit byte

const (
	Day         Unit = 'd'
	Week        Unit = 'w'
	Month       Unit = 'm'
	Year        Unit = 'y'
	BusinessDay Unit = 'b'
)

// Pattern is a parsed rec: value such as "2d" or "+1m".
type Pattern struct {
	Amount int
	Unit   Unit
	// Strict is set by the "+" prefix: the next date is computed from the
	// task's own prior due/threshold date instead of the completion date.
	Strict bool
}

var (
	datePattern     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	patternPattern  = regexp.MustCompile(`^(\+?)(\d+)([dwmybDWMYB])$`)
	intervalPattern = regexp.MustCompile(`(\d+)([dwmybDWMYB])`)
)

// IsDateShaped reports whether s looks like a YYYY-MM-DD date.
// It does not check that the date exists.
func IsDateShaped(s string) bool {
	return datePattern.MatchString(s)
}

// ParseDate parses a YYYY-MM-DD date. Out of range values such as
// 2014-99-99 are rejected.
func ParseDate(s string) (time.Time, bool) {
	if !IsDateShaped(s) {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate formats t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Parse parses a rec: value. The unit letter is case-insensitive.
func Parse(s string) (Pattern, bool) {
	m := patternPattern.FindStringSubmatch(s)
	if m == nil {
		return Pattern{}, false
	}
	amount, err := strconv.Atoi(m[2])
	if err != nil {
		return Pattern{}, false
	}
	return Pattern{
		Amount: amount,
		Unit:   Unit(strings.ToLower(m[3])[0]),
		Strict: m[1] == "+",
	}, true
}

// ParseInterval extracts the first amount/unit pair from s, ignoring any
// surrounding text. It is used for defer intervals like "3d" or "+1w".
func ParseInterval(s string) (Pattern, bool) {
	m := intervalPattern.FindStringSubmatch(s)
	if m == nil {
		return Pattern{}, false
	}
	amount, err := strconv.Atoi(m[1])
	if err != nil {
		return Pattern{}, false
	}
	return Pattern{
		Amount: amount,
		Unit:   Unit(strings.ToLower(m[2])[0]),
		Strict: strings.HasPrefix(s, "+"),
	}, true
}

// String renders p in rec: value form.
func (p Pattern) String() string {
	prefix := ""
	if p.Strict {
		prefix = "+"
	}
	return fmt.Sprintf("%s%d%c", prefix, p.Amount, p.Unit)
}

// Add returns t advanced by the pattern's interval.
// Month and year steps clamp the day to the end of the target month.
func (p Pattern) Add(t time.Time) time.Time {
	switch p.Unit {
	case Day:
		return t.AddDate(0, 0, p.Amount)
	case Week:
		return t.AddDate(0, 0, 7*p.Amount)
	case Month:
		return addMonthsClamped(t, p.Amount)
	case Year:
		return addMonthsClamped(t, 12*p.Amount)
	case BusinessDay:
		return addBusinessDays(t, p.Amount)
	default:
		return t
	}
}

// Advance adds the pattern to a YYYY-MM-DD date. It returns false when the
// base is not a valid date.
func (p Pattern) Advance(base string) (string, bool) {
	t, ok := ParseDate(base)
	if !ok {
		return "", false
	}
	return FormatDate(p.Add(t)), true
}

func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(first); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, t.Location())
}

func daysIn(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// addBusinessDays moves t forward by working days; a step from Friday or
// the weekend lands on Monday. From a weekday, five steps are one week.
func addBusinessDays(t time.Time, days int) time.Time {
	if days <= 0 {
		return t
	}
	if wd := t.Weekday(); wd == time.Saturday || wd == time.Sunday {
		t = nextBusinessDay(t)
		days--
	}
	t = t.AddDate(0, 0, days/5*7)
	for days %= 5; days > 0; days-- {
		t = nextBusinessDay(t)
	}
	return t
}

func nextBusinessDay(t time.Time) time.Time {
	switch t.Weekday() {
	case time.Friday:
		return t.AddDate(0, 0, 3)
	case time.Saturday:
		return t.AddDate(0, 0, 2)
	default:
		return t.AddDate(0, 0, 1)
	}
}
