package datetime

import "time"

// Clock supplies the current time. Tests inject FixedClock.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the process wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always reports T.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }

// Now returns the current Instant from clock, or from the system clock when
// clock is nil.
func Now(clock Clock) Instant {
	if clock == nil {
		clock = SystemClock{}
	}
	return InstantOf(clock.Now())
}

// NowZoned returns the current time as seen in zone.
func NowZoned(clock Clock, zone *Zone) ZonedDateTime {
	return ToZone(Now(clock), zone)
}
