package calendar

import (
	"encoding/json"
	"fmt"
	"time"
)

// Layout is the ISO text form used for dates in config, data files and reports.
const Layout = "2006-01-02"

// Date is a calendar day without time of day.
type Date struct {
	t time.Time
}

// New builds a Date; out-of-range days normalise like time.Date.
func New(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime drops the clock part of t, keeping its local calendar day.
func FromTime(t time.Time) Date {
	return New(t.Year(), t.Month(), t.Day())
}

// Today returns the current local day. Only outer layers call this; the
// simulator receives its start date explicitly.
func Today() Date {
	return FromTime(time.Now())
}

// Parse reads an ISO date.
func Parse(s string) (Date, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return FromTime(t), nil
}

// MustParse is Parse for tests and constants.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) Year() int          { return d.t.Year() }
func (d Date) Month() time.Month  { return d.t.Month() }
func (d Date) Day() int           { return d.t.Day() }
func (d Date) IsZero() bool       { return d.t.IsZero() }
func (d Date) Time() time.Time    { return d.t }
func (d Date) Before(o Date) bool { return d.t.Before(o.t) }
func (d Date) After(o Date) bool  { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool  { return d.t.Equal(o.t) }

// Compare returns -1, 0 or +1.
func (d Date) Compare(o Date) int { return d.t.Compare(o.t) }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(Layout)
}

// AddDays moves n days forward (or back when n is negative).
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// AddMonth returns the same day next month, clamped to the last valid day.
func (d Date) AddMonth() Date {
	return AddMonths(d, 1)
}

// DaysUntil counts whole days from d to o; negative when o is earlier.
func (d Date) DaysUntil(o Date) int {
	return int(o.t.Sub(d.t).Hours() / 24)
}

// IsLastOfMonth reports whether the next day starts a new month.
func (d Date) IsLastOfMonth() bool {
	return d.AddDays(1).Month() != d.Month()
}

// DaysIn returns the length of the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddMonths moves n months from anchor and clamps the anchor's day to the
// target month. Always computed from the anchor so a day-31 schedule returns
// to the 31st after passing through shorter months.
func AddMonths(anchor Date, n int) Date {
	total := int(anchor.Month()) - 1 + n
	year := anchor.Year() + total/12
	m := total % 12
	if m < 0 {
		m += 12
		year--
	}
	month := time.Month(m + 1)
	day := anchor.Day()
	if last := DaysIn(year, month); day > last {
		day = last
	}
	return New(year, month, day)
}

// NextOccurrence returns the first monthly recurrence of anchor that is on or
// after from, along with its index counted from the anchor.
func NextOccurrence(anchor, from Date) (Date, int) {
	if !anchor.Before(from) {
		return anchor, 0
	}
	// Jump close to the target month, then step; clamping never moves a
	// recurrence into a different month.
	k := (from.Year()-anchor.Year())*12 + int(from.Month()) - int(anchor.Month())
	if k < 0 {
		k = 0
	}
	if k > 0 {
		k--
	}
	for {
		occ := AddMonths(anchor, k)
		if !occ.Before(from) {
			return occ, k
		}
		k++
	}
}

// MarshalJSON encodes the date as an ISO string; the zero date becomes null.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts an ISO string, an empty string or null.
func (d *Date) UnmarshalJSON(b []byte) error {
	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if s == nil || *s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := Parse(*s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
