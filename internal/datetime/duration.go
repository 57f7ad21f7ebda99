package datetime

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Duration is a signed amount of calendar and clock units. Calendar units
// (years, months, weeks, days) follow the calendar of the value they are
// added to; clock units are exact elapsed time.
type Duration struct {
	Years        int64
	Months       int64
	Weeks        int64
	Days         int64
	Hours        int64
	Minutes      int64
	Seconds      int64
	Milliseconds int64
	Microseconds int64
	Nanoseconds  int64
}

// DurationOf converts an exact time.Duration into clock units.
func DurationOf(d time.Duration) Duration {
	return Duration{Nanoseconds: int64(d)}.balanceClock()
}

func (d Duration) Negated() Duration {
	return Duration{
		Years: -d.Years, Months: -d.Months, Weeks: -d.Weeks, Days: -d.Days,
		Hours: -d.Hours, Minutes: -d.Minutes, Seconds: -d.Seconds,
		Milliseconds: -d.Milliseconds, Microseconds: -d.Microseconds, Nanoseconds: -d.Nanoseconds,
	}
}

func (d Duration) IsZero() bool { return d == Duration{} }

func (d Duration) calendarPart() Duration {
	return Duration{Years: d.Years, Months: d.Months, Weeks: d.Weeks, Days: d.Days}
}

// clockSplit folds the clock units into whole seconds plus a nanosecond
// remainder of the same sign, so large hour counts do not overflow int64
// nanoseconds.
func (d Duration) clockSplit() (secs, nanos int64) {
	secs = d.Hours*3600 + d.Minutes*60 + d.Seconds +
		d.Milliseconds/1e3 + d.Microseconds/1e6 + d.Nanoseconds/1e9
	nanos = d.Milliseconds%1e3*1e6 + d.Microseconds%1e6*1e3 + d.Nanoseconds%1e9
	secs, nanos = secs+nanos/1e9, nanos%1e9
	switch {
	case secs > 0 && nanos < 0:
		secs, nanos = secs-1, nanos+1e9
	case secs < 0 && nanos > 0:
		secs, nanos = secs+1, nanos-1e9
	}
	return secs, nanos
}

// balanceClock redistributes the clock part into hours..nanoseconds.
func (d Duration) balanceClock() Duration {
	secs, ns := d.clockSplit()
	out := d.calendarPart()
	out.Hours, secs = secs/3600, secs%3600
	out.Minutes, out.Seconds = secs/60, secs%60
	out.Milliseconds, ns = ns/int64(time.Millisecond), ns%int64(time.Millisecond)
	out.Microseconds, out.Nanoseconds = ns/int64(time.Microsecond), ns%int64(time.Microsecond)
	return out
}

// String renders the ISO-8601 form, e.g. PT3H30M or -P1M. A duration whose
// fields disagree in sign is rendered per field.
func (d Duration) String() string {
	if d.IsZero() {
		return "PT0S"
	}

	sign := ""
	if d.sign() < 0 {
		sign = "-"
		d = d.Negated()
	}

	var b strings.Builder
	b.WriteString(sign + "P")
	unit := func(v int64, u byte) {
		if v != 0 {
			b.WriteString(strconv.FormatInt(v, 10))
			b.WriteByte(u)
		}
	}
	unit(d.Years, 'Y')
	unit(d.Months, 'M')
	unit(d.Weeks, 'W')
	unit(d.Days, 'D')

	sub := d.Milliseconds*int64(time.Millisecond) + d.Microseconds*int64(time.Microsecond) + d.Nanoseconds
	secs := d.Seconds + sub/nanosPerSecond
	sub %= nanosPerSecond
	if d.Hours != 0 || d.Minutes != 0 || secs != 0 || sub != 0 {
		b.WriteByte('T')
		unit(d.Hours, 'H')
		unit(d.Minutes, 'M')
		if secs != 0 || sub != 0 {
			b.WriteString(strconv.FormatInt(secs, 10))
			if sub > 0 {
				b.WriteString(fraction(int(sub)))
			}
			b.WriteByte('S')
		}
	}
	return b.String()
}

// sign is -1 when no field is positive and some field is negative.
func (d Duration) sign() int {
	neg, pos := false, false
	for _, v := range []int64{d.Years, d.Months, d.Weeks, d.Days, d.Hours, d.Minutes,
		d.Seconds, d.Milliseconds, d.Microseconds, d.Nanoseconds} {
		neg = neg || v < 0
		pos = pos || v > 0
	}
	switch {
	case neg && !pos:
		return -1
	case pos:
		return 1
	default:
		return 0
	}
}

var durationRe = regexp.MustCompile(`(?i)^([+-])?P(?:(\d+)Y)?(?:(\d+)M)?(?:(\d+)W)?(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)(?:[.,](\d{1,9}))?S)?)?$`)

// ParseDuration reads an ISO-8601 duration such as "PT3H30M", "P1M" or "-P1DT12H".
func ParseDuration(s string) (Duration, error) {
	trimmed := strings.TrimSpace(s)
	m := durationRe.FindStringSubmatch(trimmed)
	if m == nil {
		return Duration{}, &ParseError{Input: s, Reason: "not an ISO-8601 duration"}
	}
	upper := strings.ToUpper(trimmed)
	if strings.HasSuffix(upper, "P") || strings.HasSuffix(upper, "T") {
		return Duration{}, &ParseError{Input: s, Reason: "duration has no units"}
	}

	var fields [7]int64
	for i := range fields {
		if m[i+2] == "" {
			continue
		}
		v, err := strconv.ParseInt(m[i+2], 10, 64)
		if err != nil {
			return Duration{}, &ParseError{Input: s, Reason: "duration field overflows", Err: err}
		}
		fields[i] = v
	}

	d := Duration{
		Years: fields[0], Months: fields[1], Weeks: fields[2], Days: fields[3],
		Hours: fields[4], Minutes: fields[5], Seconds: fields[6],
	}
	if frac := m[9]; frac != "" {
		ns, _ := strconv.ParseInt((frac + "000000000")[:9], 10, 64)
		d.Nanoseconds = ns
	}
	if m[1] == "-" {
		d = d.Negated()
	}
	return d, nil
}
