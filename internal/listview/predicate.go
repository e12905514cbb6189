package listview

import (
	"cmp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ContainsFold reports whether any field contains query, ignoring case and
// surrounding whitespace in query. An empty query matches everything.
func ContainsFold(query string, fields ...string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// EqualFold reports whether got equals want ignoring case. An empty want
// matches everything.
func EqualFold(want, got string) bool {
	want = strings.TrimSpace(want)
	if want == "" {
		return true
	}
	return got != "" && strings.EqualFold(want, got)
}

// Exact reports whether got equals the trimmed want. An empty want matches
// everything.
func Exact(want, got string) bool {
	want = strings.TrimSpace(want)
	return want == "" || got == want
}

// DateRange is an inclusive range of YYYY-MM-DD dates. Empty bounds are open.
type DateRange struct {
	Start string
	End   string
}

// IsZero reports whether neither bound is set.
func (r DateRange) IsZero() bool { return r.Start == "" && r.End == "" }

// Contains compares the date prefix of value (anything after a "T" is
// ignored) against the bounds. A missing value only matches an open range.
func (r DateRange) Contains(value string) bool {
	if r.IsZero() {
		return true
	}
	day, _, _ := strings.Cut(value, "T")
	if day == "" {
		return false
	}
	if r.Start != "" && day < r.Start {
		return false
	}
	if r.End != "" && day > r.End {
		return false
	}
	return true
}

// ContainsTime is Contains for an optional timestamp.
func (r DateRange) ContainsTime(t *time.Time) bool {
	if t == nil {
		return r.IsZero()
	}
	return r.Contains(t.Format("2006-01-02"))
}

// ByString orders rows by a text column.
func ByString[T any](field func(T) string) Compare[T] {
	return func(a, b T) int { return cmp.Compare(field(a), field(b)) }
}

// ByBool orders false before true.
func ByBool[T any](field func(T) bool) Compare[T] {
	return func(a, b T) int {
		x, y := field(a), field(b)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		default:
			return 1
		}
	}
}

// ByTime orders rows by an optional timestamp; missing values sort first.
func ByTime[T any](field func(T) *time.Time) Compare[T] {
	return func(a, b T) int {
		x, y := field(a), field(b)
		switch {
		case x == nil && y == nil:
			return 0
		case x == nil:
			return -1
		case y == nil:
			return 1
		}
		return x.Compare(*y)
	}
}

// ByDecimal orders rows by an amount column.
func ByDecimal[T any](field func(T) decimal.Decimal) Compare[T] {
	return func(a, b T) int { return field(a).Cmp(field(b)) }
}

// activeMatches compares a "true"/"false" filter value against a flag.
func activeMatches(want string, active bool) bool {
	want = strings.ToLower(strings.TrimSpace(want))
	if want == "" {
		return true
	}
	if active {
		return want == "true"
	}
	return want == "false"
}
