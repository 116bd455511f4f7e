package model

import (
	"fmt"
	"time"
)

// MonthKey identifies a calendar month as a "YYYY-MM" string with a
// zero-padded month. Keys compare chronologically with plain string
// comparison, which is how every month-ranged rule in the ledger is
// expressed.
type MonthKey string

// MonthOf returns the MonthKey for the month containing t.
func MonthOf(t time.Time) MonthKey {
	return MonthKey(t.Format("2006-01"))
}

// MonthFromParts builds a MonthKey from a year and a zero-based month
// (0 = January), which is how clients pass months over the wire.
func MonthFromParts(year, month int) (MonthKey, error) {
	if month < 0 || month > 11 {
		return "", fmt.Errorf("month out of range: %d", month)
	}
	if year < 1 {
		return "", fmt.Errorf("year out of range: %d", year)
	}
	return MonthKey(fmt.Sprintf("%04d-%02d", year, month+1)), nil
}

// Valid reports whether m parses as a "YYYY-MM" key.
func (m MonthKey) Valid() bool {
	_, err := time.Parse("2006-01", string(m))
	return err == nil
}

// Time returns midnight UTC on the first day of the month. Invalid keys
// return the zero time.
func (m MonthKey) Time() time.Time {
	t, err := time.Parse("2006-01", string(m))
	if err != nil {
		return time.Time{}
	}
	return t
}

// AddMonths returns the key n calendar months after m (n may be negative).
// Year boundaries roll over naturally.
func (m MonthKey) AddMonths(n int) MonthKey {
	return MonthOf(m.Time().AddDate(0, n, 0))
}

// Next returns the month immediately following m.
func (m MonthKey) Next() MonthKey {
	return m.AddMonths(1)
}

// DayIn anchors a day-of-month inside m, clamping to the month's last day
// (a bill due on the 31st lands on Feb 28 in February).
func (m MonthKey) DayIn(day int) time.Time {
	first := m.Time()
	last := first.AddDate(0, 1, -1).Day()
	if day < 1 {
		day = 1
	}
	if day > last {
		day = last
	}
	return first.AddDate(0, 0, day-1)
}

// MonthSet is an insertion-ordered set of month keys. It backs the
// paid/skipped bookkeeping on bills, forecasts and card invoices, which
// only ever query membership.
type MonthSet []MonthKey

// Contains reports whether m is in the set.
func (s MonthSet) Contains(m MonthKey) bool {
	for _, k := range s {
		if k == m {
			return true
		}
	}
	return false
}

// Add appends m if not already present and returns the updated set.
func (s MonthSet) Add(m MonthKey) MonthSet {
	if s.Contains(m) {
		return s
	}
	return append(s, m)
}

// Remove deletes m if present and returns the updated set.
func (s MonthSet) Remove(m MonthKey) MonthSet {
	for i, k := range s {
		if k == m {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}
