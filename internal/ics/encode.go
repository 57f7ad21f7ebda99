package ics

import (
	ical "github.com/arran4/golang-ical"

	"tzkit/internal/datetime"
)

const (
	layoutUTC   = "20060102T150405Z"
	layoutLocal = "20060102T150405"
	layoutDate  = "20060102"
)

// Encode serializes events into a VCALENDAR. Times in IANA zones are written
// as wall clock with a TZID parameter; UTC and fixed-offset times use the UTC
// "Z" form. stamp becomes every event's DTSTAMP.
func Encode(prodID string, stamp datetime.Instant, events []Event) string {
	cal := ical.NewCalendar()
	if prodID != "" {
		cal.SetProductId(prodID)
	}

	for _, ev := range events {
		ve := cal.AddEvent(ev.UID)
		ve.SetDtStampTime(stamp.Time())
		if ev.Summary != "" {
			ve.SetSummary(ev.Summary)
		}
		if ev.Location != "" {
			ve.SetLocation(ev.Location)
		}

		setTime(ve, ical.ComponentPropertyDtStart, ev.Start, ev.AllDay)
		if !ev.End.Instant().IsZero() {
			setTime(ve, ical.ComponentPropertyDtEnd, ev.End, ev.AllDay)
		}

		if ev.RRule != "" {
			ve.AddProperty(ical.ComponentPropertyRrule, ev.RRule)
		}
		for _, ex := range ev.ExDates {
			ve.AddProperty(ical.ComponentPropertyExdate, ex.Time().UTC().Format(layoutUTC))
		}
	}

	return cal.Serialize()
}

func setTime(ve *ical.VEvent, prop ical.ComponentProperty, z datetime.ZonedDateTime, allDay bool) {
	if allDay {
		ve.SetProperty(prop, z.Time().Format(layoutDate),
			&ical.KeyValues{Key: "VALUE", Value: []string{"DATE"}})
		return
	}

	zone := z.Zone()
	if zone.IsFixed() {
		ve.SetProperty(prop, z.Time().UTC().Format(layoutUTC))
		return
	}
	ve.SetProperty(prop, z.Time().Format(layoutLocal),
		&ical.KeyValues{Key: "TZID", Value: []string{zone.Name()}})
}

