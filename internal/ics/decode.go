package ics

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"tzkit/internal/datetime"
	appLog "tzkit/internal/log"
)

// Decode parses an iCalendar payload into events.
//
//   - TZID parameters are resolved through db (nil means the default ZoneDB).
//   - Floating times (no TZID, no Z) are read as wall clock in floating; nil
//     means UTC.
//   - VALUE=DATE or a date-only value marks the event all-day.
//   - A VEVENT that cannot be resolved is logged and skipped.
func Decode(body []byte, db *datetime.ZoneDB, floating *datetime.Zone) ([]Event, error) {
	if len(body) == 0 {
		return nil, errors.New("ics: empty body")
	}
	if db == nil {
		db = datetime.DefaultZoneDB()
	}
	if floating == nil {
		floating = datetime.UTC
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ics: parse calendar: %w", err)
	}

	d := decoder{db: db, floating: floating}
	events := make([]Event, 0)
	for _, ve := range cal.Events() {
		ev, err := d.event(ve)
		if err != nil {
			appLog.Error("ics: vevent decode failed", err, "uid", propValue(ve, ical.ComponentPropertyUniqueId))
			continue
		}
		events = append(events, ev)
	}

	appLog.Debug("ics: decode completed", "event_count", len(events))
	return events, nil
}

type decoder struct {
	db       *datetime.ZoneDB
	floating *datetime.Zone
}

func (d decoder) event(ve *ical.VEvent) (Event, error) {
	var out Event

	out.UID = propValue(ve, ical.ComponentPropertyUniqueId)
	if out.UID == "" {
		return out, errors.New("missing UID")
	}
	out.Summary = propValue(ve, ical.ComponentPropertySummary)
	out.Location = propValue(ve, ical.ComponentPropertyLocation)

	startProp := ve.GetProperty(ical.ComponentPropertyDtStart)
	if startProp == nil {
		return out, errors.New("missing DTSTART")
	}
	start, allDay, err := d.value(startProp.Value, startProp.ICalParameters)
	if err != nil {
		return out, fmt.Errorf("DTSTART: %w", err)
	}
	out.Start = start
	out.AllDay = allDay

	if endProp := ve.GetProperty(ical.ComponentPropertyDtEnd); endProp != nil {
		end, _, err := d.value(endProp.Value, endProp.ICalParameters)
		if err != nil {
			return out, fmt.Errorf("DTEND: %w", err)
		}
		out.End = end
	} else if allDay {
		out.End = start.Add(datetime.Duration{Days: 1})
	} else {
		out.End = start
	}

	out.RRule = propValue(ve, ical.ComponentPropertyRrule)

	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			ex, _, err := d.value(part, p.ICalParameters)
			if err != nil {
				return out, fmt.Errorf("EXDATE: %w", err)
			}
			out.ExDates = append(out.ExDates, ex.Instant())
		}
	}

	return out, nil
}

// value resolves one DATE or DATE-TIME value with its parameters.
func (d decoder) value(v string, params map[string][]string) (datetime.ZonedDateTime, bool, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return datetime.ZonedDateTime{}, false, errors.New("empty time value")
	}

	if strings.HasSuffix(v, "Z") {
		t, err := time.Parse(layoutUTC, v)
		if err != nil {
			return datetime.ZonedDateTime{}, false, err
		}
		return datetime.ToZone(datetime.InstantOf(t), datetime.UTC), false, nil
	}

	zone := d.floating
	if tzid := param(params, "TZID"); tzid != "" {
		z, err := d.db.Load(tzid)
		if err != nil {
			return datetime.ZonedDateTime{}, false, err
		}
		zone = z
	}

	allDay := strings.EqualFold(param(params, "VALUE"), "DATE") || !strings.Contains(v, "T")
	layout := layoutLocal
	if allDay {
		layout = layoutDate
	}
	t, err := time.Parse(layout, v)
	if err != nil {
		return datetime.ZonedDateTime{}, false, err
	}
	return datetime.PlainDateTimeOf(t).InZone(zone, datetime.Compatible), allDay, nil
}

func propValue(ve *ical.VEvent, prop ical.ComponentProperty) string {
	if p := ve.GetProperty(prop); p != nil {
		return p.Value
	}
	return ""
}

func param(params map[string][]string, key string) string {
	if vs, ok := params[key]; ok && len(vs) > 0 {
		return vs[0]
	}
	return ""
}
