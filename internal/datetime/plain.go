package datetime

import (
	"fmt"
	"time"
)

const (
	nanosPerSecond = int64(time.Second)
	nanosPerDay    = 24 * int64(time.Hour)
	secondsPerDay  = 24 * 60 * 60
)

// PlainDateTime is a calendar date and wall-clock time with no zone attached.
// It cannot be placed on the timeline until combined with a Zone (InZone).
type PlainDateTime struct {
	year       int
	month      time.Month
	day        int
	hour       int
	minute     int
	second     int
	nanosecond int
}

// NewPlainDateTime validates the fields and builds a PlainDateTime.
func NewPlainDateTime(year int, month time.Month, day, hour, minute, second, nanosecond int) (PlainDateTime, error) {
	switch {
	case month < time.January || month > time.December:
		return PlainDateTime{}, fmt.Errorf("%w: month %d", ErrOutOfRange, month)
	case day < 1 || day > daysIn(year, month):
		return PlainDateTime{}, fmt.Errorf("%w: day %d of %04d-%02d", ErrOutOfRange, day, year, month)
	case hour < 0 || hour > 23:
		return PlainDateTime{}, fmt.Errorf("%w: hour %d", ErrOutOfRange, hour)
	case minute < 0 || minute > 59:
		return PlainDateTime{}, fmt.Errorf("%w: minute %d", ErrOutOfRange, minute)
	case second < 0 || second > 59:
		return PlainDateTime{}, fmt.Errorf("%w: second %d", ErrOutOfRange, second)
	case nanosecond < 0 || nanosecond > 999_999_999:
		return PlainDateTime{}, fmt.Errorf("%w: nanosecond %d", ErrOutOfRange, nanosecond)
	}
	return PlainDateTime{year, month, day, hour, minute, second, nanosecond}, nil
}

// PlainDateTimeOf takes the wall-clock fields of t, dropping its location.
func PlainDateTimeOf(t time.Time) PlainDateTime {
	y, mo, d := t.Date()
	h, mi, s := t.Clock()
	return PlainDateTime{y, mo, d, h, mi, s, t.Nanosecond()}
}

func (p PlainDateTime) Year() int             { return p.year }
func (p PlainDateTime) Month() time.Month     { return p.month }
func (p PlainDateTime) Day() int              { return p.day }
func (p PlainDateTime) Hour() int             { return p.hour }
func (p PlainDateTime) Minute() int           { return p.minute }
func (p PlainDateTime) Second() int           { return p.second }
func (p PlainDateTime) Nanosecond() int       { return p.nanosecond }
func (p PlainDateTime) Weekday() time.Weekday { return p.wall().Weekday() }

// wall places the fields on a UTC time.Time so the stdlib can do the
// proleptic Gregorian bookkeeping.
func (p PlainDateTime) wall() time.Time {
	return time.Date(p.year, p.month, p.day, p.hour, p.minute, p.second, p.nanosecond, time.UTC)
}

func (p PlainDateTime) Compare(o PlainDateTime) int { return p.wall().Compare(o.wall()) }

func (p PlainDateTime) Equal(o PlainDateTime) bool { return p == o }

// String renders e.g. 2022-02-15T15:00:00, with a fraction only when non-zero.
// Years outside 0000..9999 use the signed six-digit form (-000001, +012345).
func (p PlainDateTime) String() string {
	year := fmt.Sprintf("%04d", p.year)
	switch {
	case p.year < 0:
		year = fmt.Sprintf("-%06d", -p.year)
	case p.year > 9999:
		year = fmt.Sprintf("+%06d", p.year)
	}
	s := fmt.Sprintf("%s-%02d-%02dT%02d:%02d:%02d", year, p.month, p.day, p.hour, p.minute, p.second)
	return s + fraction(p.nanosecond)
}

// Add applies d in calendar order: years and months (day clamped to the end
// of the target month), then weeks and days, then the clock part with any
// overflow carried into days.
func (p PlainDateTime) Add(d Duration) PlainDateTime {
	tod := int64(p.hour)*int64(time.Hour) + int64(p.minute)*int64(time.Minute) +
		int64(p.second)*nanosPerSecond + int64(p.nanosecond)
	secs, nanos := d.clockSplit()
	days := floorDiv(secs, secondsPerDay)
	total := tod + (secs-days*secondsPerDay)*nanosPerSecond + nanos
	carry := floorDiv(total, nanosPerDay)
	tod = total - carry*nanosPerDay

	y, mo, day := addMonthsClamped(p.year, p.month, p.day, d.Years*12+d.Months)
	date := time.Date(y, mo, day+int(d.Weeks*7+d.Days+days+carry), 0, 0, 0, 0, time.UTC)

	return PlainDateTimeOf(date.Add(time.Duration(tod)))
}

// Subtract is Add with the negated duration.
func (p PlainDateTime) Subtract(d Duration) PlainDateTime { return p.Add(d.Negated()) }

// Disambiguation picks an instant for wall-clock times that a zone skips
// (gap) or repeats (overlap).
type Disambiguation int

const (
	// Compatible takes the earlier instant in an overlap and shifts forward
	// across a gap.
	Compatible Disambiguation = iota
	Earlier
	Later
)

// InZone resolves p to an exact time in zone.
func (p PlainDateTime) InZone(zone *Zone, dis Disambiguation) ZonedDateTime {
	return ToZone(resolveWall(p, zone, dis), zone)
}

func resolveWall(p PlainDateTime, zone *Zone, dis Disambiguation) Instant {
	w := p.wall()
	if zone.IsFixed() {
		return InstantOf(w.Add(-time.Duration(zone.offsetAt(w)) * time.Second))
	}

	before := zone.offsetAt(w.Add(-24 * time.Hour))
	after := zone.offsetAt(w.Add(24 * time.Hour))

	var valid []time.Time
	for _, off := range []int{before, after} {
		c := w.Add(-time.Duration(off) * time.Second)
		if zone.offsetAt(c) != off {
			continue
		}
		if len(valid) == 1 && valid[0].Equal(c) {
			continue
		}
		valid = append(valid, c)
	}

	switch len(valid) {
	case 1:
		return InstantOf(valid[0])
	case 2:
		first, second := valid[0], valid[1]
		if second.Before(first) {
			first, second = second, first
		}
		if dis == Later {
			return InstantOf(second)
		}
		return InstantOf(first)
	}

	// Gap: the wall time does not exist.
	if dis == Earlier {
		return InstantOf(w.Add(-time.Duration(after) * time.Second))
	}
	return InstantOf(w.Add(-time.Duration(before) * time.Second))
}

// addMonthsClamped shifts by n months and clamps the day to the month end.
func addMonthsClamped(year int, month time.Month, day int, n int64) (int, time.Month, int) {
	idx := int64(year)*12 + int64(month-1) + n
	y := int(floorDiv(idx, 12))
	m := time.Month(idx-int64(y)*12) + 1
	if last := daysIn(y, m); day > last {
		day = last
	}
	return y, m, day
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// fraction renders nanoseconds as ".fff" with trailing zeros trimmed.
func fraction(ns int) string {
	if ns == 0 {
		return ""
	}
	s := fmt.Sprintf(".%09d", ns)
	for s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	return s
}
