package datetime

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	appLog "tzkit/internal/log"
)

// Mode selects how Parse treats input without a UTC offset.
type Mode int

const (
	// Strict keeps offset-less input as a PlainDateTime.
	Strict Mode = iota
	// NaiveLocal places offset-less input in ParseOptions.DefaultZone.
	NaiveLocal
	// Lenient behaves like NaiveLocal and additionally accepts non-ISO
	// spellings ("May 15, 2022 3:00 PM", "2022/05/15 15:00").
	Lenient
)

func (m Mode) String() string {
	switch m {
	case Strict:
		return "strict"
	case NaiveLocal:
		return "naive-local"
	case Lenient:
		return "lenient"
	default:
		return "mode(" + strconv.Itoa(int(m)) + ")"
	}
}

// ParseOptions configures Parse. The default zone is always explicit; a nil
// DefaultZone means UTC, never the process zone.
type ParseOptions struct {
	Mode        Mode
	DefaultZone *Zone
	// Zones resolves bracketed zone annotations. Nil means DefaultZoneDB.
	Zones *ZoneDB
}

// Kind says which field of Parsed holds the result.
type Kind int

const (
	KindPlain Kind = iota
	KindInstant
)

// Parsed is the result of Parse: an Instant when the input carried an offset
// or was resolved in a zone, otherwise a PlainDateTime.
type Parsed struct {
	Kind    Kind
	Instant Instant
	Plain   PlainDateTime
	// Zone is the bracketed annotation, or the zone used to resolve
	// offset-less input. Nil when neither applies.
	Zone *Zone
	// HasOffset reports an explicit offset or Z in the input.
	HasOffset bool
}

// Zoned returns the instant in Zone when both are known.
func (p Parsed) Zoned() (ZonedDateTime, bool) {
	if p.Kind != KindInstant || p.Zone == nil {
		return ZonedDateTime{}, false
	}
	return ToZone(p.Instant, p.Zone), true
}

var (
	isoRe = regexp.MustCompile(`^([+-]?\d{4,6})-(\d{2})-(\d{2})` +
		`(?:[Tt ](\d{2}):(\d{2})(?::(\d{2})(?:[.,](\d{1,9}))?)?` +
		`(?:([Zz])|([+-])(\d{2})(?::?(\d{2}))?)?)?` +
		`((?:\[[^\[\]]*\])*)$`)
	offsetRe     = regexp.MustCompile(`^([+-])(\d{2})(?::?(\d{2}))?$`)
	annotationRe = regexp.MustCompile(`\[([^\[\]]*)\]`)
)

// isoFields is the syntactic breakdown of an ISO-8601 string.
type isoFields struct {
	plain     PlainDateTime
	utc       bool // Z designator
	hasOffset bool
	offset    int
	zoneName  string
}

func scanISO(input string) (isoFields, *ParseError) {
	var out isoFields
	m := isoRe.FindStringSubmatch(input)
	if m == nil {
		return out, &ParseError{Input: input, Reason: "not an ISO-8601 date-time"}
	}

	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	hour, minute, second, nanos := atoiOr(m[4]), atoiOr(m[5]), atoiOr(m[6]), 0
	if m[7] != "" {
		nanos, _ = strconv.Atoi((m[7] + "000000000")[:9])
	}

	p, err := NewPlainDateTime(year, time.Month(month), day, hour, minute, second, nanos)
	if err != nil {
		return out, &ParseError{Input: input, Reason: "invalid field", Err: err}
	}
	out.plain = p

	switch {
	case m[8] != "":
		out.utc, out.hasOffset = true, true
	case m[9] != "":
		off, ok := offsetSeconds(m[9], m[10], m[11])
		if !ok {
			return out, &ParseError{Input: input, Reason: "offset out of range"}
		}
		out.hasOffset, out.offset = true, off
	}

	for _, a := range annotationRe.FindAllStringSubmatch(m[12], -1) {
		body := strings.TrimPrefix(a[1], "!")
		if strings.Contains(body, "=") {
			// Calendar and other key=value annotations; only ISO is supported.
			continue
		}
		if out.zoneName != "" {
			return out, &ParseError{Input: input, Reason: "multiple zone annotations"}
		}
		if body == "" {
			return out, &ParseError{Input: input, Reason: "empty zone annotation"}
		}
		out.zoneName = body
	}
	return out, nil
}

func offsetSeconds(sign, hh, mm string) (int, bool) {
	h := atoiOr(hh)
	m := atoiOr(mm)
	if h > 23 || m > 59 {
		return 0, false
	}
	off := h*3600 + m*60
	if sign == "-" {
		off = -off
	}
	return off, true
}

func atoiOr(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// Parse reads an ISO-8601 date-time such as "2022-02-15T15:00:00",
// "2022-02-15T15:00:00-06:00" or "2022-02-15T15:00:00-06:00[America/Chicago]".
//
// Input with an offset or Z always yields an Instant; the offset is taken as
// given and never checked against a zone's rules. Input without an offset
// yields a PlainDateTime in Strict mode, and in NaiveLocal mode an Instant
// resolved in the bracketed zone if any, else in opts.DefaultZone.
func Parse(input string, opts ParseOptions) (Parsed, error) {
	db := opts.Zones
	if db == nil {
		db = defaultDB
	}

	f, perr := scanISO(input)
	if perr != nil {
		if opts.Mode == Lenient {
			return parseLenient(input, opts, perr)
		}
		return Parsed{}, perr
	}

	var out Parsed
	if f.zoneName != "" {
		z, err := db.Load(f.zoneName)
		if err != nil {
			return Parsed{}, &ParseError{Input: input, Reason: "zone annotation", Err: err}
		}
		out.Zone = z
	}

	if f.hasOffset {
		out.Kind = KindInstant
		out.HasOffset = true
		out.Instant = resolveWall(f.plain, FixedZone(f.offset), Compatible)
		return out, nil
	}

	if opts.Mode == Strict {
		out.Kind = KindPlain
		out.Plain = f.plain
		return out, nil
	}

	zone := out.Zone
	if zone == nil {
		zone = opts.DefaultZone
		if zone == nil {
			zone = UTC
		}
		out.Zone = zone
	}
	out.Kind = KindInstant
	out.Instant = resolveWall(f.plain, zone, Compatible)
	return out, nil
}

func parseLenient(input string, opts ParseOptions, cause *ParseError) (Parsed, error) {
	zone := opts.DefaultZone
	if zone == nil {
		zone = UTC
	}
	t, err := dateparse.ParseIn(strings.TrimSpace(input), zone.Location())
	if err != nil {
		return Parsed{}, &ParseError{Input: input, Reason: cause.Reason, Err: err}
	}
	appLog.Debug("lenient parse fallback", "input", input, "zone", zone.Name())
	return Parsed{Kind: KindInstant, Instant: InstantOf(t), Zone: zone}, nil
}

// ParseInstant parses input that must carry an offset or Z.
func ParseInstant(input string) (Instant, error) {
	p, err := Parse(input, ParseOptions{Mode: Strict})
	if err != nil {
		return Instant{}, err
	}
	if p.Kind != KindInstant {
		return Instant{}, &ParseError{Input: input, Reason: "missing UTC offset"}
	}
	return p.Instant, nil
}

// ParsePlainDateTime parses the wall-clock fields and ignores any numeric
// offset or zone annotation. A Z designator is rejected because it names an
// exact time, not a wall-clock reading.
func ParsePlainDateTime(input string) (PlainDateTime, error) {
	f, perr := scanISO(input)
	if perr != nil {
		return PlainDateTime{}, perr
	}
	if f.utc {
		return PlainDateTime{}, &ParseError{Input: input, Reason: "Z designator not allowed for a plain date-time"}
	}
	return f.plain, nil
}

// ParseZoned parses input with a bracketed zone annotation. An explicit
// offset fixes the instant; otherwise the wall clock is resolved in the zone.
func ParseZoned(input string, db *ZoneDB) (ZonedDateTime, error) {
	f, perr := scanISO(input)
	if perr != nil {
		return ZonedDateTime{}, perr
	}
	if f.zoneName == "" {
		return ZonedDateTime{}, &ParseError{Input: input, Reason: "missing zone annotation"}
	}
	p, err := Parse(input, ParseOptions{Mode: NaiveLocal, Zones: db})
	if err != nil {
		return ZonedDateTime{}, err
	}
	zdt, _ := p.Zoned()
	return zdt, nil
}
