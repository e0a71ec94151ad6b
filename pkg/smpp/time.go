package smpp

import (
	"fmt"
	"strconv"
	"time"
)

// TimeValue is a decoded SMPP time string. Absolute times resolve to Time;
// relative times keep their components and mark Relative.
type TimeValue struct {
	Time     time.Time
	Relative bool

	Years   int
	Months  int
	Days    int
	Hours   int
	Minutes int
	Seconds int
}

// ParseTime decodes the 16-character time format: YYMMDDhhmmsstnnp for
// absolute values, the same digits ending in 'R' for relative ones. The
// tenths digit and the quarter-hour offset may both be zero for UTC.
func ParseTime(s string) (TimeValue, error) {
	if len(s) != 16 {
		return TimeValue{}, fmt.Errorf("time string %q must be 16 characters", s)
	}
	for i := 0; i < 15; i++ {
		if s[i] < '0' || s[i] > '9' {
			return TimeValue{}, fmt.Errorf("time string %q has non-digit at %d", s, i)
		}
	}

	num := func(from, to int) int {
		n, _ := strconv.Atoi(s[from:to])
		return n
	}

	tv := TimeValue{
		Years:   num(0, 2),
		Months:  num(2, 4),
		Days:    num(4, 6),
		Hours:   num(6, 8),
		Minutes: num(8, 10),
		Seconds: num(10, 12),
	}

	switch s[15] {
	case 'R':
		tv.Relative = true
		return tv, nil
	case '+', '-':
		tenths := num(12, 13)
		quarters := num(13, 15)
		offset := time.Duration(quarters) * 15 * time.Minute
		if s[15] == '-' {
			offset = -offset
		}
		loc := time.FixedZone("", int(offset/time.Second))
		tv.Time = time.Date(2000+tv.Years, time.Month(tv.Months), tv.Days,
			tv.Hours, tv.Minutes, tv.Seconds, tenths*int(100*time.Millisecond), loc)
		return tv, nil
	default:
		return TimeValue{}, fmt.Errorf("time string %q has invalid sign %q", s, s[15])
	}
}

// Offset returns the duration a relative time value represents, using the
// protocol's calendar approximations for years and months.
func (tv TimeValue) Offset() time.Duration {
	days := tv.Years*365 + tv.Months*30 + tv.Days
	return time.Duration(days)*24*time.Hour +
		time.Duration(tv.Hours)*time.Hour +
		time.Duration(tv.Minutes)*time.Minute +
		time.Duration(tv.Seconds)*time.Second
}

// FormatAbsoluteTime renders t as an absolute SMPP time string in UTC.
func FormatAbsoluteTime(t time.Time) string {
	return t.UTC().Format("060102150405") + "000+"
}

// FormatRelativeTime renders a validity period of d from now as a relative
// SMPP time string. Fractions below one second are dropped.
func FormatRelativeTime(d time.Duration) string {
	total := int(d / time.Second)
	days := total / 86400
	rest := total % 86400
	return fmt.Sprintf("%02d%02d%02d%02d%02d%02d000R",
		days/365, (days%365)/30, (days%365)%30,
		rest/3600, (rest%3600)/60, rest%60)
}
