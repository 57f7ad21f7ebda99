// Package recur expands recurring schedules (RFC 5545 RRULEs and cron
// expressions) into concrete zoned date-times.
package recur

import (
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/teambition/rrule-go"

	"tzkit/internal/datetime"
	appLog "tzkit/internal/log"
)

const (
	defaultMaxOccurrences = 5000
)

// Series is a recurring event anchored at a zoned start. Occurrences keep the
// start's wall-clock time in its zone, so the offset follows DST.
type Series struct {
	Start datetime.ZonedDateTime
	// RRule is the rule body, e.g. "FREQ=WEEKLY;BYDAY=MO,WE;COUNT=10".
	RRule string
	// ExDates removes occurrences starting at these instants.
	ExDates []datetime.Instant
}

// Window bounds expansion; both ends are inclusive.
type Window struct {
	Start datetime.Instant
	End   datetime.Instant
}

// Result holds the expanded occurrences and whether the cap cut them short.
type Result struct {
	Occurrences []datetime.ZonedDateTime
	Truncated   bool
}

// Expand lists the occurrences of s inside w. max caps the number returned;
// zero or negative means defaultMaxOccurrences.
func Expand(s Series, w Window, max int) (Result, error) {
	var result Result

	if w.End.Before(w.Start) {
		return result, errors.New("recur: window end is before start")
	}
	if max <= 0 {
		max = defaultMaxOccurrences
	}

	r, err := rrule.StrToRRule(s.RRule)
	if err != nil {
		return result, fmt.Errorf("recur: parse rrule %q: %w", s.RRule, err)
	}

	zone := s.Start.Zone()
	loc := zone.Location()
	r.DTStart(s.Start.Time())

	var set rrule.Set
	set.RRule(r)
	for _, ex := range s.ExDates {
		set.ExDate(ex.Time().In(loc))
	}

	times := set.Between(w.Start.Time().In(loc), w.End.Time().In(loc), true)
	if len(times) > max {
		times = times[:max]
		result.Truncated = true
		appLog.Error("recur: truncated occurrences due to cap",
			errors.New("max occurrences reached"),
			"rrule", s.RRule,
			"cap", max,
		)
	}

	result.Occurrences = make([]datetime.ZonedDateTime, 0, len(times))
	for _, t := range times {
		result.Occurrences = append(result.Occurrences, datetime.ToZone(datetime.InstantOf(t), zone))
	}
	return result, nil
}

// NextCron returns the next n firings of a standard five-field cron expression
// strictly after the given time. The schedule is evaluated in after's zone
// unless the expression carries its own CRON_TZ= prefix; results are always
// reported in after's zone.
func NextCron(expr string, after datetime.ZonedDateTime, n int) ([]datetime.ZonedDateTime, error) {
	if n <= 0 {
		return nil, fmt.Errorf("recur: cron count must be positive, got %d", n)
	}
	sched, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("recur: parse cron %q: %w", expr, err)
	}

	out := make([]datetime.ZonedDateTime, 0, n)
	t := after.Time()
	for i := 0; i < n; i++ {
		t = sched.Next(t)
		if t.IsZero() {
			break
		}
		out = append(out, datetime.ToZone(datetime.InstantOf(t), after.Zone()))
	}
	return out, nil
}
