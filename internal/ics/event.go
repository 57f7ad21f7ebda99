// Package ics converts zoned events to and from iCalendar (RFC 5545) text.
package ics

import (
	"tzkit/internal/datetime"
	"tzkit/internal/recur"
)

// Event is a VEVENT with its times resolved to zoned values.
type Event struct {
	UID      string
	Summary  string
	Location string

	Start  datetime.ZonedDateTime
	End    datetime.ZonedDateTime
	AllDay bool

	// RRule is the raw rule body; empty for single events.
	RRule   string
	ExDates []datetime.Instant
}

// Occurrences lists the starts of ev inside w. Recurring events are expanded
// with recur.Expand; a single event yields itself when it overlaps w.
func Occurrences(ev Event, w recur.Window, max int) (recur.Result, error) {
	if ev.RRule == "" {
		var res recur.Result
		if overlaps(ev.Start.Instant(), ev.End.Instant(), w.Start, w.End) {
			res.Occurrences = append(res.Occurrences, ev.Start)
		}
		return res, nil
	}

	return recur.Expand(recur.Series{
		Start:   ev.Start,
		RRule:   ev.RRule,
		ExDates: ev.ExDates,
	}, w, max)
}

func overlaps(aStart, aEnd, bStart, bEnd datetime.Instant) bool {
	if aEnd.Before(bStart) {
		return false
	}
	if bEnd.Before(aStart) {
		return false
	}
	return true
}
