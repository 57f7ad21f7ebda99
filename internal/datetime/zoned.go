package datetime

import "time"

// ZonedDateTime is an Instant viewed through a Zone's rules. Wall-clock
// fields are derived on every access; only the instant and zone are stored.
type ZonedDateTime struct {
	instant Instant
	zone    *Zone
}

// ToZone converts i into zone. A nil zone means UTC.
func ToZone(i Instant, zone *Zone) ZonedDateTime {
	if zone == nil {
		zone = UTC
	}
	return ZonedDateTime{instant: i, zone: zone}
}

func (z ZonedDateTime) Instant() Instant { return z.instant }

func (z ZonedDateTime) Zone() *Zone {
	if z.zone == nil {
		return UTC
	}
	return z.zone
}

// Time returns the value as a time.Time in the zone's location.
func (z ZonedDateTime) Time() time.Time { return z.instant.t.In(z.Zone().Location()) }

func (z ZonedDateTime) PlainDateTime() PlainDateTime { return PlainDateTimeOf(z.Time()) }

// OffsetSeconds is the UTC offset in effect at this instant.
func (z ZonedDateTime) OffsetSeconds() int { return z.Zone().offsetAt(z.instant.t) }

// Offset renders the offset as ±HH:MM.
func (z ZonedDateTime) Offset() string { return formatOffset(z.OffsetSeconds(), true) }

// Abbreviation is the zone abbreviation in effect, e.g. "CST".
func (z ZonedDateTime) Abbreviation() string {
	name, _ := z.Time().Zone()
	return name
}

// WithZone keeps the instant and changes the zone.
func (z ZonedDateTime) WithZone(zone *Zone) ZonedDateTime { return ToZone(z.instant, zone) }

func (z ZonedDateTime) Equal(o ZonedDateTime) bool {
	return z.instant.Equal(o.instant) && z.Zone().Name() == o.Zone().Name()
}

// Add applies the calendar part of d to the wall clock and re-resolves the
// offset in the zone, then adds the clock part as exact elapsed time. Adding
// P1D across a DST change keeps the wall time; adding PT24H does not.
func (z ZonedDateTime) Add(d Duration) ZonedDateTime {
	inst := z.instant
	if cal := d.calendarPart(); !cal.IsZero() {
		inst = resolveWall(z.PlainDateTime().Add(cal), z.Zone(), Compatible)
	}
	secs, nanos := d.clockSplit()
	inst = Instant{t: time.Unix(inst.t.Unix()+secs, int64(inst.t.Nanosecond())+nanos).UTC()}
	return ToZone(inst, z.Zone())
}

// Subtract is Add with the negated duration.
func (z ZonedDateTime) Subtract(d Duration) ZonedDateTime { return z.Add(d.Negated()) }

// String renders e.g. 2022-02-16T05:00:00+08:00[Asia/Singapore].
func (z ZonedDateTime) String() string {
	return z.PlainDateTime().String() + z.Offset() + "[" + z.Zone().Name() + "]"
}

func (z ZonedDateTime) isoString() string { return z.String() }

func (z ZonedDateTime) zonedFor(*Zone) ZonedDateTime { return z }
