package datetime

import (
	"errors"

	"tzkit/internal/locale"
)

// Value is anything Format accepts: Instant or ZonedDateTime.
type Value interface {
	isoString() string
	zonedFor(fallback *Zone) ZonedDateTime
}

type styleKind int

const (
	styleInvalid styleKind = iota
	styleISO
	styleLocale
)

// Style selects an output form. The zero Style is invalid.
type Style struct {
	kind   styleKind
	locale string
	opts   LocaleOptions
}

// ISO8601 is the canonical round-trippable form.
func ISO8601() Style { return Style{kind: styleISO} }

// LocaleStyle renders human-readable text using the given locale tag.
func LocaleStyle(tag string, opts LocaleOptions) Style {
	return Style{kind: styleLocale, locale: tag, opts: opts}
}

func (s Style) String() string {
	switch s.kind {
	case styleISO:
		return "iso8601"
	case styleLocale:
		return "locale(" + s.locale + ")"
	default:
		return "invalid"
	}
}

const (
	StyleFull   = locale.StyleFull
	StyleLong   = locale.StyleLong
	StyleMedium = locale.StyleMedium
	StyleShort  = locale.StyleShort
)

// LocaleOptions mirrors Intl-style options. TimeZone picks the display zone
// for an Instant (nil means UTC); a ZonedDateTime always uses its own zone.
type LocaleOptions struct {
	DateStyle locale.Style
	TimeStyle locale.Style
	Hour12    *bool
	TimeZone  *Zone
}

// Format renders v using the built-in locale data.
func Format(v Value, style Style) (string, error) {
	return FormatWith(v, style, locale.Default())
}

// FormatWith renders v, taking locale text from p.
func FormatWith(v Value, style Style, p locale.Provider) (string, error) {
	switch style.kind {
	case styleISO:
		return v.isoString(), nil
	case styleLocale:
	default:
		return "", &FormatError{Style: style.String(), Reason: "unrecognized style"}
	}

	if p == nil {
		return "", &FormatError{Style: style.String(), Locale: style.locale, Reason: "no locale provider"}
	}
	data, err := p.Lookup(style.locale)
	if err != nil {
		return "", &FormatError{Style: style.String(), Locale: style.locale, Reason: "unsupported locale", Err: err}
	}

	zdt := v.zonedFor(style.opts.TimeZone)
	out, err := data.Format(zdt.Time(), zdt.Zone().Name(), locale.Options{
		DateStyle: style.opts.DateStyle,
		TimeStyle: style.opts.TimeStyle,
		Hour12:    style.opts.Hour12,
	})
	if err != nil {
		reason := "render failed"
		if errors.Is(err, locale.ErrStyle) {
			reason = "unknown date/time style"
		}
		return "", &FormatError{Style: style.String(), Locale: style.locale, Reason: reason, Err: err}
	}
	return out, nil
}
