package datetime

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	_ "time/tzdata" // fallback IANA database when the host has none

	appLog "tzkit/internal/log"
)

// Zone identifies a set of UTC offset rules: an IANA zone, UTC, or a fixed offset.
type Zone struct {
	name   string
	loc    *time.Location
	fixed  bool
	offset int // seconds east of UTC, fixed zones only
}

// UTC is the zero-offset zone.
var UTC = &Zone{name: "UTC", loc: time.UTC, fixed: true}

// FixedZone returns a zone with a constant offset, named like "+08:00".
func FixedZone(offsetSeconds int) *Zone {
	name := formatOffset(offsetSeconds, true)
	return &Zone{
		name:   name,
		loc:    time.FixedZone(name, offsetSeconds),
		fixed:  true,
		offset: offsetSeconds,
	}
}

// Name is the IANA identifier, "UTC", or the "+HH:MM" offset.
func (z *Zone) Name() string {
	if z == nil {
		return UTC.name
	}
	return z.name
}

func (z *Zone) String() string { return z.Name() }

// IsFixed reports whether the zone never changes offset.
func (z *Zone) IsFixed() bool { return z == nil || z.fixed }

// Location exposes the zone as a *time.Location.
func (z *Zone) Location() *time.Location {
	if z == nil {
		return time.UTC
	}
	return z.loc
}

// offsetAt returns the UTC offset in seconds in effect at t.
func (z *Zone) offsetAt(t time.Time) int {
	if z.IsFixed() {
		if z == nil {
			return 0
		}
		return z.offset
	}
	_, off := t.In(z.loc).Zone()
	return off
}

// ZoneDB resolves zone identifiers against the IANA database. Loaded zones are
// cached; a ZoneDB is safe for concurrent use.
type ZoneDB struct {
	dir string

	mu    sync.RWMutex
	cache map[string]*Zone
}

// NewZoneDB creates a ZoneDB. When dir is empty the host database is used,
// falling back to the copy embedded in the binary. Otherwise zone files are
// read from dir (a zoneinfo tree such as /usr/share/zoneinfo).
func NewZoneDB(dir string) *ZoneDB {
	return &ZoneDB{
		dir:   dir,
		cache: make(map[string]*Zone),
	}
}

var defaultDB = NewZoneDB("")

// DefaultZoneDB returns the process-wide ZoneDB backed by the host database.
func DefaultZoneDB() *ZoneDB { return defaultDB }

// LoadZone resolves name through DefaultZoneDB.
func LoadZone(name string) (*Zone, error) { return defaultDB.Load(name) }

// Load resolves an IANA name, "UTC"/"Z", or a "+HH:MM" offset.
func (db *ZoneDB) Load(name string) (*Zone, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return nil, &UnknownZoneError{Name: name, Err: errors.New("empty zone name")}
	case strings.EqualFold(name, "UTC"), strings.EqualFold(name, "Z"), name == "Etc/UTC":
		return UTC, nil
	case name == "Local":
		// Would silently bind to process state; callers use SystemZone instead.
		return nil, &UnknownZoneError{Name: name}
	case name[0] == '+' || name[0] == '-':
		off, ok := parseOffsetDesignator(name)
		if !ok {
			return nil, &UnknownZoneError{Name: name, Err: errors.New("malformed offset")}
		}
		return FixedZone(off), nil
	}

	db.mu.RLock()
	z, ok := db.cache[name]
	db.mu.RUnlock()
	if ok {
		return z, nil
	}

	loc, err := db.loadLocation(name)
	if err != nil {
		return nil, &UnknownZoneError{Name: name, Err: err}
	}
	appLog.Debug("zone loaded", "zone", name, "dir", db.dir)

	z = &Zone{name: name, loc: loc}
	db.mu.Lock()
	if cached, ok := db.cache[name]; ok {
		z = cached
	} else {
		db.cache[name] = z
	}
	db.mu.Unlock()
	return z, nil
}

func (db *ZoneDB) loadLocation(name string) (*time.Location, error) {
	if db.dir == "" {
		return time.LoadLocation(name)
	}
	if strings.Contains(name, "..") || filepath.IsAbs(name) {
		return nil, fmt.Errorf("invalid zone name")
	}
	data, err := os.ReadFile(filepath.Join(db.dir, filepath.FromSlash(name)))
	if err != nil {
		return nil, err
	}
	return time.LoadLocationFromTZData(name, data)
}

// ToZone looks up name and converts i into that zone.
func (db *ZoneDB) ToZone(i Instant, name string) (ZonedDateTime, error) {
	z, err := db.Load(name)
	if err != nil {
		return ZonedDateTime{}, err
	}
	return ToZone(i, z), nil
}

// Transitions looks up name and reports the offset transitions around i.
func (db *ZoneDB) Transitions(name string, around Instant) (TransitionPair, error) {
	z, err := db.Load(name)
	if err != nil {
		return TransitionPair{}, err
	}
	return Transitions(z, around), nil
}

// SystemZone returns the host zone by IANA name: $TZ first, then the
// /etc/localtime symlink target. It falls back to UTC.
func SystemZone(db *ZoneDB) *Zone {
	if db == nil {
		db = defaultDB
	}
	if tz, found := os.LookupEnv("TZ"); found {
		if tz == "" {
			return UTC
		}
		if z, err := db.Load(strings.TrimPrefix(tz, ":")); err == nil {
			return z
		}
		appLog.Debug("TZ not resolvable, trying /etc/localtime", "tz", tz)
	}
	if target, err := os.Readlink("/etc/localtime"); err == nil {
		if i := strings.Index(target, "zoneinfo/"); i >= 0 {
			if z, err := db.Load(target[i+len("zoneinfo/"):]); err == nil {
				return z
			}
		}
	}
	return UTC
}

// TransitionPair holds the offset transitions surrounding a reference instant.
// A nil field means the zone has no transition in that direction.
type TransitionPair struct {
	Previous *Instant
	Next     *Instant
}

// maxTransitionHops bounds the walk over abbreviation-only zone changes.
const maxTransitionHops = 256

// Transitions returns the last offset change strictly before around and the
// first one strictly after it. Changes that keep the offset (abbreviation
// renames) are skipped.
func Transitions(zone *Zone, around Instant) TransitionPair {
	var out TransitionPair
	if zone.IsFixed() {
		return out
	}

	t := around.t.In(zone.loc)

	cur := t
	for i := 0; i < maxTransitionHops; i++ {
		_, end := cur.ZoneBounds()
		if end.IsZero() {
			break
		}
		if zone.offsetAt(end) != zone.offsetAt(end.Add(-time.Nanosecond)) {
			next := InstantOf(end)
			out.Next = &next
			break
		}
		cur = end
	}

	cur = t
	for i := 0; i < maxTransitionHops; i++ {
		start, _ := cur.ZoneBounds()
		if start.IsZero() {
			break
		}
		before := start.Add(-time.Nanosecond)
		if start.Before(t) && zone.offsetAt(start) != zone.offsetAt(before) {
			prev := InstantOf(start)
			out.Previous = &prev
			break
		}
		cur = before
	}

	return out
}

// formatOffset renders seconds east of UTC as ±HH:MM (±HH:MM:SS when needed).
func formatOffset(seconds int, colon bool) string {
	sign := byte('+')
	if seconds < 0 {
		sign = '-'
		seconds = -seconds
	}
	h, m, s := seconds/3600, seconds/60%60, seconds%60
	sep := ""
	if colon {
		sep = ":"
	}
	out := fmt.Sprintf("%c%02d%s%02d", sign, h, sep, m)
	if s != 0 {
		out += fmt.Sprintf("%s%02d", sep, s)
	}
	return out
}

// parseOffsetDesignator accepts ±HH, ±HHMM and ±HH:MM.
func parseOffsetDesignator(s string) (int, bool) {
	m := offsetRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	off, ok := offsetSeconds(m[1], m[2], m[3])
	return off, ok
}
