package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"tzkit/internal/config"
	"tzkit/internal/datetime"
	"tzkit/internal/ics"
	"tzkit/internal/locale"
	appLog "tzkit/internal/log"
	"tzkit/internal/recur"
)

func main() {
	appLog.Info("tzkit starting", "version", "0.1.0")

	path := config.Path()
	conf, err := config.Load(path)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", path)
		os.Exit(1)
	}

	if lvl, ok := appLog.ParseLevel(conf.LogLevel); ok {
		appLog.SetLevel(lvl)
	}

	appLog.Info("effective config",
		"config_path", path,
		"timezone", conf.Timezone,
		"locale", conf.Locale,
		"date_style", conf.DateStyle,
		"time_style", conf.TimeStyle,
		"zoneinfo_dir", conf.ZoneInfoDir,
	)

	if err := run(os.Stdout, conf, datetime.SystemClock{}); err != nil {
		appLog.Error("tzkit failed", err)
		os.Exit(1)
	}
}

// demo holds what every task needs: the local zone, the zone database and
// the injected clock.
type demo struct {
	out   io.Writer
	conf  *config.Config
	db    *datetime.ZoneDB
	local *datetime.Zone
	clock datetime.Clock
}

func run(out io.Writer, conf *config.Config, clock datetime.Clock) error {
	d := demo{
		out:   out,
		conf:  conf,
		db:    datetime.NewZoneDB(conf.ZoneInfoDir),
		clock: clock,
	}

	if conf.Timezone == "" {
		d.local = datetime.SystemZone(d.db)
	} else {
		z, err := d.db.Load(conf.Timezone)
		if err != nil {
			return err
		}
		d.local = z
	}

	steps := []func() error{
		d.currentZone,
		d.parseNaiveLocal,
		d.parseOffsetLocal,
		d.parseOffsetOtherZone,
		d.unixSeconds,
		d.currentISO,
		d.addDuration,
		d.subtractDuration,
		d.formatLocale,
		d.weeklySeries,
		d.cronFirings,
		d.calendarRoundTrip,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func (d demo) table(title string, rows ...[2]string) {
	fmt.Fprintf(d.out, "\n%s\n", title)
	tw := tabwriter.NewWriter(d.out, 0, 0, 2, ' ', 0)
	for _, r := range rows {
		fmt.Fprintf(tw, "  %s\t%s\n", r[0], r[1])
	}
	tw.Flush()
}

func (d demo) currentZone() error {
	now := datetime.Now(d.clock)
	tr := datetime.Transitions(d.local, now)

	d.table("Current Timezone",
		[2]string{"Timezone:", d.local.Name()},
		[2]string{"Last time clocks changed:", orNone(tr.Previous)},
		[2]string{"Next time clocks will change:", orNone(tr.Next)},
	)
	return nil
}

func orNone(i *datetime.Instant) string {
	if i == nil {
		return "none"
	}
	return i.String()
}

func (d demo) parseNaiveLocal() error {
	const in = "2022-05-15T15:00:00"
	p, err := datetime.Parse(in, datetime.ParseOptions{
		Mode:        datetime.NaiveLocal,
		DefaultZone: d.local,
		Zones:       d.db,
	})
	if err != nil {
		return err
	}
	zdt, _ := p.Zoned()

	d.table(fmt.Sprintf("1) Parse a timestamp with no timezone offset into local time (%s)", in),
		[2]string{"instant", p.Instant.String()},
		[2]string{"zoned", zdt.String()},
	)
	return nil
}

func (d demo) parseOffsetLocal() error {
	const in = "2022-05-22T15:00:00-06:00"
	i, err := datetime.ParseInstant(in)
	if err != nil {
		return err
	}

	d.table(fmt.Sprintf("2) Parse a timestamp with a timezone offset into local timezone (%s)", in),
		[2]string{"instant", i.String()},
		[2]string{"zoned", datetime.ToZone(i, d.local).String()},
	)
	return nil
}

func (d demo) parseOffsetOtherZone() error {
	const (
		in     = "2022-02-15T15:00:00-06:00"
		target = "Asia/Singapore"
	)
	i, err := datetime.ParseInstant(in)
	if err != nil {
		return err
	}
	zdt, err := d.db.ToZone(i, target)
	if err != nil {
		return err
	}

	d.table(fmt.Sprintf("3) Parse a timestamp with a timezone offset into another timezone entirely (%s)", in),
		[2]string{"zoned", zdt.String()},
	)
	return nil
}

func (d demo) unixSeconds() error {
	d.table("4) Get the current unix timestamp (in seconds)",
		[2]string{"epochSeconds", fmt.Sprint(datetime.Now(d.clock).EpochSeconds())},
	)
	return nil
}

func (d demo) currentISO() error {
	s, err := datetime.Format(datetime.Now(d.clock), datetime.ISO8601())
	if err != nil {
		return err
	}
	d.table("5) Get the current time (as ISO-8601)",
		[2]string{"instant", s},
	)
	return nil
}

var threeThirty = datetime.Duration{Hours: 3, Minutes: 30}

func (d demo) addDuration() error {
	const in = "2022-02-15T15:00:00"
	p, err := datetime.ParsePlainDateTime(in)
	if err != nil {
		return err
	}
	zdt := p.InZone(d.local, datetime.Compatible)

	d.table(fmt.Sprintf("6) Adding a set amount of time to a datetime (%s + %s)", in, threeThirty),
		[2]string{"plain", p.Add(threeThirty).String()},
		[2]string{"zoned", zdt.Add(threeThirty).String()},
	)
	return nil
}

func (d demo) subtractDuration() error {
	const in = "2022-02-15T15:00:00"
	p, err := datetime.ParsePlainDateTime(in)
	if err != nil {
		return err
	}
	zdt := p.InZone(d.local, datetime.Compatible)

	d.table(fmt.Sprintf("7) Subtracting a set amount of time to a datetime (%s - %s)", in, threeThirty),
		[2]string{"plain", p.Subtract(threeThirty).String()},
		[2]string{"zoned", zdt.Subtract(threeThirty).String()},
	)
	return nil
}

func (d demo) formatLocale() error {
	const in = "2022-06-19T15:00:00-06:00"
	i, err := datetime.ParseInstant(in)
	if err != nil {
		return err
	}
	zdt := datetime.ToZone(i, d.local)

	full, err := datetime.Format(i, datetime.LocaleStyle(d.conf.Locale, datetime.LocaleOptions{
		DateStyle: locale.Style(d.conf.DateStyle),
		TimeStyle: locale.Style(d.conf.TimeStyle),
		Hour12:    d.conf.Hour12,
		TimeZone:  d.local,
	}))
	if err != nil {
		return err
	}

	data, err := locale.Default().Lookup(d.conf.Locale)
	if err != nil {
		return err
	}
	pattern := data.Layout(zdt.Time(), "Monday, January 2 2006, 3:04:05 PM")

	d.table(fmt.Sprintf("8) Formatting a date for local use (%s)", in),
		[2]string{"pattern", pattern},
		[2]string{d.conf.Locale, full},
	)
	return nil
}

const weeklyRule = "FREQ=WEEKLY;COUNT=3"

// seriesStart is 09:00 local, one week before the next clock change so the
// series crosses it. Zones without transitions start a week before today.
func (d demo) seriesStart() (datetime.ZonedDateTime, error) {
	now := datetime.Now(d.clock)
	anchor := now
	if next := datetime.Transitions(d.local, now).Next; next != nil {
		anchor = *next
	}
	day := datetime.ToZone(anchor, d.local).PlainDateTime().Subtract(datetime.Duration{Weeks: 1})
	p, err := datetime.NewPlainDateTime(day.Year(), day.Month(), day.Day(), 9, 0, 0, 0)
	if err != nil {
		return datetime.ZonedDateTime{}, err
	}
	return p.InZone(d.local, datetime.Compatible), nil
}

func (d demo) weeklySeries() error {
	start, err := d.seriesStart()
	if err != nil {
		return err
	}
	res, err := recur.Expand(recur.Series{Start: start, RRule: weeklyRule}, recur.Window{
		Start: start.Instant(),
		End:   start.Instant().Add(30 * 24 * time.Hour),
	}, 0)
	if err != nil {
		return err
	}

	rows := make([][2]string, 0, len(res.Occurrences))
	for n, occ := range res.Occurrences {
		rows = append(rows, [2]string{fmt.Sprintf("#%d", n+1), occ.String()})
	}
	d.table(fmt.Sprintf("9) Expanding a weekly series across a clock change (%s)", weeklyRule), rows...)
	return nil
}

const weekdayMornings = "0 9 * * 1-5"

func (d demo) cronFirings() error {
	next, err := recur.NextCron(weekdayMornings, datetime.NowZoned(d.clock, d.local), 3)
	if err != nil {
		return err
	}

	rows := make([][2]string, 0, len(next))
	for n, z := range next {
		rows = append(rows, [2]string{fmt.Sprintf("#%d", n+1), z.String()})
	}
	d.table(fmt.Sprintf("10) Next cron firings in the local zone (%s)", weekdayMornings), rows...)
	return nil
}

func (d demo) calendarRoundTrip() error {
	start, err := d.seriesStart()
	if err != nil {
		return err
	}
	body := ics.Encode("-//tzkit//demo//EN", datetime.Now(d.clock), []ics.Event{{
		UID:     "standup@tzkit",
		Summary: "Standup",
		Start:   start,
		End:     start.Add(datetime.Duration{Minutes: 15}),
		RRule:   weeklyRule,
	}})

	events, err := ics.Decode([]byte(body), d.db, d.local)
	if err != nil {
		return err
	}
	if len(events) != 1 {
		return fmt.Errorf("calendar round trip: got %d events, want 1", len(events))
	}
	res, err := ics.Occurrences(events[0], recur.Window{
		Start: start.Instant(),
		End:   start.Instant().Add(30 * 24 * time.Hour),
	}, 0)
	if err != nil {
		return err
	}

	d.table("11) Writing the series as iCalendar and reading it back",
		[2]string{"encoded", dtStartLine(body)},
		[2]string{"decoded", events[0].Start.String()},
		[2]string{"occurrences", fmt.Sprint(len(res.Occurrences))},
	)
	return nil
}

func dtStartLine(body string) string {
	for _, line := range strings.Split(body, "\n") {
		if line = strings.TrimRight(line, "\r"); strings.HasPrefix(line, "DTSTART") {
			return line
		}
	}
	return ""
}
