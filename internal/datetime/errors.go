package datetime

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is. The concrete error types below match them.
var (
	ErrParse       = errors.New("datetime: parse error")
	ErrUnknownZone = errors.New("datetime: unknown time zone")
	ErrFormat      = errors.New("datetime: format error")
	ErrOutOfRange  = errors.New("datetime: field out of range")
)

// ParseError reports input that does not follow the ISO-8601 date-time grammar.
type ParseError struct {
	Input  string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("datetime: cannot parse %q: %s", e.Input, e.Reason)
}

func (e *ParseError) Is(target error) bool { return target == ErrParse }

func (e *ParseError) Unwrap() error { return e.Err }

// UnknownZoneError reports a zone identifier missing from the tz database.
type UnknownZoneError struct {
	Name string
	Err  error
}

func (e *UnknownZoneError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("datetime: unknown time zone %q: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("datetime: unknown time zone %q", e.Name)
}

func (e *UnknownZoneError) Is(target error) bool { return target == ErrUnknownZone }

func (e *UnknownZoneError) Unwrap() error { return e.Err }

// FormatError reports an unrecognized style or an unsupported locale.
type FormatError struct {
	Style  string
	Locale string
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	msg := "datetime: format"
	if e.Style != "" {
		msg += " style=" + e.Style
	}
	if e.Locale != "" {
		msg += " locale=" + e.Locale
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Is(target error) bool { return target == ErrFormat }

func (e *FormatError) Unwrap() error { return e.Err }
