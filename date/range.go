package date

import "fmt"

// Range represents a range of dates, boundaries included.
// A zero From or To leaves that side open.
type Range struct{ From, To Date }

// Contains return true if date is included in the range.
func (r Range) Contains(date Date) bool {
	if !r.From.IsZero() && date.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && date.After(r.To) {
		return false
	}
	return true
}

// IsZero reports whether the range is open on both sides.
func (r Range) IsZero() bool { return r.From.IsZero() && r.To.IsZero() }

// ParseRange parses the boundaries of a range, empty strings leave the side open.
func ParseRange(from, to string) (r Range, err error) {
	if from != "" {
		if r.From, err = Parse(from); err != nil {
			return r, fmt.Errorf("invalid range start: %w", err)
		}
	}
	if to != "" {
		if r.To, err = Parse(to); err != nil {
			return r, fmt.Errorf("invalid range end: %w", err)
		}
	}
	if !r.From.IsZero() && !r.To.IsZero() && r.To.Before(r.From) {
		return r, fmt.Errorf("invalid range: %s is before %s", r.To, r.From)
	}
	return r, nil
}

// String formats the range as "from..to".
func (r Range) String() string { return r.From.String() + ".." + r.To.String() }
