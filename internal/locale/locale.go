// Package locale provides localized date and time text keyed by BCP 47 tags.
// Month and weekday names and the date layouts come from goodsign/monday;
// the clock conventions (12/24-hour, day-period markers, date/time joins)
// come from a small embedded table.
package locale

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goodsign/monday"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Style is a CLDR-like length for date or time rendering.
type Style string

const (
	StyleFull   Style = "full"
	StyleLong   Style = "long"
	StyleMedium Style = "medium"
	StyleShort  Style = "short"
)

// Valid reports whether s is one of the four named styles.
func (s Style) Valid() bool {
	switch s {
	case StyleFull, StyleLong, StyleMedium, StyleShort:
		return true
	}
	return false
}

var (
	ErrUnsupported = errors.New("locale: unsupported locale")
	ErrInvalidTag  = errors.New("locale: invalid tag")
	ErrStyle       = errors.New("locale: unknown style")
)

// Provider maps a locale tag to its calendar data.
type Provider interface {
	Lookup(tag string) (*Data, error)
}

// Clock holds the time-of-day conventions of a locale.
type Clock struct {
	Hour12 bool `yaml:"hour12"`
	// AM and PM replace the "PM" token of a Go layout.
	AM string `yaml:"am"`
	PM string `yaml:"pm"`
	// MarkerFirst puts the day period before the hour ("오후 4:00:00").
	MarkerFirst bool `yaml:"marker_first"`
	// JoinLong and JoinShort combine a date and a time for full/long and
	// medium/short date styles; {1} is the date and {0} the time.
	JoinLong  string `yaml:"join_long"`
	JoinShort string `yaml:"join_short"`
}

// Data is the calendar text for one locale.
type Data struct {
	Tag    string
	Locale monday.Locale
	Clock  Clock
	// Dates overrides monday's date layouts (Go reference layouts) per style.
	Dates map[Style]string
}

// Options selects what Format renders. Empty styles mean "omit", except when
// both are empty: then short date and medium time are used. Hour12 nil means
// the locale default.
type Options struct {
	DateStyle Style
	TimeStyle Style
	Hour12    *bool
}

// Format renders t (already in its display location) per opts. zoneID is the
// name shown by the full time style.
func (d *Data) Format(t time.Time, zoneID string, opts Options) (string, error) {
	ds, ts := opts.DateStyle, opts.TimeStyle
	if ds == "" && ts == "" {
		ds, ts = StyleShort, StyleMedium
	}
	if ds != "" && !ds.Valid() {
		return "", fmt.Errorf("%w: dateStyle %q", ErrStyle, ds)
	}
	if ts != "" && !ts.Valid() {
		return "", fmt.Errorf("%w: timeStyle %q", ErrStyle, ts)
	}

	hour12 := d.Clock.Hour12
	if opts.Hour12 != nil {
		hour12 = *opts.Hour12
	}

	var date, clock string
	if ds != "" {
		date = d.Layout(t, d.DateLayout(ds))
	}
	if ts != "" {
		clock = d.Layout(t, d.timeLayout(ts, hour12))
		switch ts {
		case StyleFull:
			if zoneID == "" {
				zoneID = shortZoneName(t)
			}
			clock += " " + zoneID
		case StyleLong:
			clock += " " + shortZoneName(t)
		}
	}

	switch {
	case date == "":
		return clock, nil
	case clock == "":
		return date, nil
	}
	join := d.Clock.JoinShort
	if ds == StyleFull || ds == StyleLong {
		join = d.Clock.JoinLong
	}
	joined := strings.ReplaceAll(join, "{1}", date)
	return strings.ReplaceAll(joined, "{0}", clock), nil
}

// DateLayout is the Go reference layout for a date style: the Dates override
// if set, else monday's table for the locale.
func (d *Data) DateLayout(s Style) string {
	if l := d.Dates[s]; l != "" {
		return l
	}
	var table map[monday.Locale]string
	switch s {
	case StyleFull:
		table = monday.FullFormatsByLocale
	case StyleLong:
		table = monday.LongFormatsByLocale
	case StyleMedium:
		table = monday.MediumFormatsByLocale
	default:
		table = monday.ShortFormatsByLocale
	}
	if l := table[d.Locale]; l != "" {
		return l
	}
	return fallbackDates[s]
}

var fallbackDates = map[Style]string{
	StyleFull:   "Monday, 2 January 2006",
	StyleLong:   "2 January 2006",
	StyleMedium: "2 Jan 2006",
	StyleShort:  "2006-01-02",
}

func (d *Data) timeLayout(s Style, hour12 bool) string {
	short := s == StyleShort
	switch {
	case !hour12 && short:
		return "15:04"
	case !hour12:
		return "15:04:05"
	case short && d.Clock.MarkerFirst:
		return "PM 3:04"
	case short:
		return "3:04 PM"
	case d.Clock.MarkerFirst:
		return "PM 3:04:05"
	default:
		return "3:04:05 PM"
	}
}

// Layout formats t with a Go reference layout, translating month and weekday
// names through monday. A "PM" token becomes the locale's day-period marker.
func (d *Data) Layout(t time.Time, layout string) string {
	if layout == "" {
		return ""
	}
	before, after, found := strings.Cut(layout, "PM")
	if !found {
		return monday.Format(t, layout, d.Locale)
	}
	marker := d.Clock.AM
	if t.Hour() >= 12 {
		marker = d.Clock.PM
	}
	return d.Layout(t, before) + marker + d.Layout(t, after)
}

// shortZoneName is the zone abbreviation, or GMT±H when the database only
// has a numeric one (e.g. "+08").
func shortZoneName(t time.Time) string {
	name, off := t.Zone()
	if name != "" && name[0] != '+' && name[0] != '-' {
		return name
	}
	if off == 0 {
		return "GMT"
	}
	sign := "+"
	if off < 0 {
		sign, off = "-", -off
	}
	s := "GMT" + sign + strconv.Itoa(off/3600)
	if m := off / 60 % 60; m != 0 {
		s += fmt.Sprintf(":%02d", m)
	}
	return s
}

// Registry is a Provider over monday's locales. Tags are matched with
// golang.org/x/text/language, so "en" or "de-AT" resolve to the closest
// supported locale.
type Registry struct {
	data    []*Data
	matcher language.Matcher
}

// clockTable is the document shape of data/clock.yaml.
type clockTable struct {
	Default Clock            `yaml:"default"`
	Locales map[string]Clock `yaml:"locales"`
}

// NewRegistry builds a Registry over locales, taking clock conventions from
// a YAML clock table. The first locale is the matcher's fallback on ties.
func NewRegistry(clockYAML []byte, locales ...monday.Locale) (*Registry, error) {
	if len(locales) == 0 {
		return nil, errors.New("locale: no locales")
	}

	var ct clockTable
	if err := yaml.Unmarshal(clockYAML, &ct); err != nil {
		return nil, fmt.Errorf("locale: decode clock table: %w", err)
	}
	if ct.Default.JoinLong == "" || ct.Default.JoinShort == "" {
		return nil, errors.New("locale: clock table has no default joins")
	}

	r := &Registry{}
	tags := make([]language.Tag, 0, len(locales))
	for _, l := range locales {
		name := strings.ReplaceAll(string(l), "_", "-")
		tag, err := language.Parse(name)
		if err != nil {
			// monday names a few locales outside BCP 47; they stay unreachable.
			continue
		}
		clock := ct.Default
		if c, ok := ct.Locales[name]; ok {
			clock = mergeClock(ct.Default, c)
		}
		r.data = append(r.data, &Data{Tag: tag.String(), Locale: l, Clock: clock})
		tags = append(tags, tag)
	}
	if len(tags) == 0 {
		return nil, errors.New("locale: no locale has a valid tag")
	}
	r.matcher = language.NewMatcher(tags)
	return r, nil
}

func mergeClock(base, over Clock) Clock {
	out := base
	out.Hour12 = over.Hour12
	out.MarkerFirst = over.MarkerFirst
	if over.AM != "" {
		out.AM = over.AM
	}
	if over.PM != "" {
		out.PM = over.PM
	}
	if over.JoinLong != "" {
		out.JoinLong = over.JoinLong
	}
	if over.JoinShort != "" {
		out.JoinShort = over.JoinShort
	}
	return out
}

// Lookup returns the closest supported locale for tag.
func (r *Registry) Lookup(tag string) (*Data, error) {
	t, err := language.Parse(tag)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidTag, tag, err)
	}
	_, idx, conf := r.matcher.Match(t)
	if conf == language.No {
		return nil, fmt.Errorf("%w %q", ErrUnsupported, tag)
	}
	return r.data[idx], nil
}

// Tags lists the supported locale tags in registration order.
func (r *Registry) Tags() []string {
	out := make([]string, len(r.data))
	for i, d := range r.data {
		out[i] = d.Tag
	}
	return out
}

//go:embed data/clock.yaml
var clockYAML []byte

var (
	builtinOnce sync.Once
	builtin     *Registry
)

// Default returns the registry of every locale monday supports, with en-US
// first. It panics if the embedded clock table is malformed.
func Default() *Registry {
	builtinOnce.Do(func() {
		locales := monday.ListLocales()
		sort.Slice(locales, func(i, j int) bool {
			if (locales[i] == monday.LocaleEnUS) != (locales[j] == monday.LocaleEnUS) {
				return locales[i] == monday.LocaleEnUS
			}
			return locales[i] < locales[j]
		})
		r, err := NewRegistry(clockYAML, locales...)
		if err != nil {
			panic(err)
		}
		builtin = r
	})
	return builtin
}
