package datetime

import "time"

// Instant is an absolute point on the UTC timeline with nanosecond precision.
// The zero value is 0001-01-01T00:00:00Z.
type Instant struct {
	t time.Time // always UTC, no monotonic reading
}

// InstantOf converts a time.Time to an Instant, discarding its location.
func InstantOf(t time.Time) Instant {
	return Instant{t: t.UTC()}
}

func FromEpochSeconds(sec int64) Instant { return InstantOf(time.Unix(sec, 0)) }

func FromEpochMilliseconds(ms int64) Instant { return InstantOf(time.UnixMilli(ms)) }

func FromEpochNanoseconds(ns int64) Instant { return InstantOf(time.Unix(0, ns)) }

func (i Instant) EpochSeconds() int64 { return i.t.Unix() }

func (i Instant) EpochMilliseconds() int64 { return i.t.UnixMilli() }

// EpochNanoseconds overflows outside the years 1678..2262, like time.Time.UnixNano.
func (i Instant) EpochNanoseconds() int64 { return i.t.UnixNano() }

// Time returns the instant as a UTC time.Time.
func (i Instant) Time() time.Time { return i.t }

func (i Instant) Add(d time.Duration) Instant { return Instant{t: i.t.Add(d)} }

func (i Instant) Sub(o Instant) time.Duration { return i.t.Sub(o.t) }

func (i Instant) Compare(o Instant) int { return i.t.Compare(o.t) }

func (i Instant) Equal(o Instant) bool { return i.t.Equal(o.t) }

func (i Instant) Before(o Instant) bool { return i.t.Before(o.t) }

func (i Instant) After(o Instant) bool { return i.t.After(o.t) }

func (i Instant) IsZero() bool { return i.t.IsZero() }

// String renders the canonical UTC form, e.g. 2022-02-15T21:00:00Z.
func (i Instant) String() string { return PlainDateTimeOf(i.t).String() + "Z" }

func (i Instant) isoString() string { return i.String() }

func (i Instant) zonedFor(fallback *Zone) ZonedDateTime { return ToZone(i, fallback) }
