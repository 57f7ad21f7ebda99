package ics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tzkit/internal/datetime"
	"tzkit/internal/recur"
)

func mustZoned(t *testing.T, s string) datetime.ZonedDateTime {
	t.Helper()
	z, err := datetime.ParseZoned(s, nil)
	require.NoError(t, err)
	return z
}

func mustInstant(t *testing.T, s string) datetime.Instant {
	t.Helper()
	i, err := datetime.ParseInstant(s)
	require.NoError(t, err)
	return i
}

func TestEncode(t *testing.T) {
	stamp := mustInstant(t, "2022-06-01T12:00:00Z")
	events := []Event{
		{
			UID:     "standup@tzkit",
			Summary: "Standup",
			Start:   mustZoned(t, "2022-06-19T16:00:00[America/Chicago]"),
			End:     mustZoned(t, "2022-06-19T16:15:00[America/Chicago]"),
			RRule:   "FREQ=WEEKLY;BYDAY=MO",
		},
		{
			UID:   "call@tzkit",
			Start: mustZoned(t, "2022-06-19T21:00:00+00:00[UTC]"),
			End:   mustZoned(t, "2022-06-19T22:00:00+00:00[UTC]"),
		},
	}

	out := Encode("-//tzkit//test//EN", stamp, events)

	assert.Contains(t, out, "PRODID:-//tzkit//test//EN")
	assert.Contains(t, out, "DTSTART;TZID=America/Chicago:20220619T160000")
	assert.Contains(t, out, "DTEND;TZID=America/Chicago:20220619T161500")
	assert.Contains(t, out, "RRULE:FREQ=WEEKLY;BYDAY=MO")
	assert.Contains(t, out, "DTSTART:20220619T210000Z")
	assert.Contains(t, out, "DTSTAMP:20220601T120000Z")
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	in := []Event{
		{
			UID:     "a@tzkit",
			Summary: "Berlin lunch",
			Start:   mustZoned(t, "2022-10-30T12:00:00[Europe/Berlin]"),
			End:     mustZoned(t, "2022-10-30T13:00:00[Europe/Berlin]"),
			RRule:   "FREQ=DAILY;COUNT=3",
			ExDates: []datetime.Instant{mustInstant(t, "2022-10-31T11:00:00Z")},
		},
		{
			UID:    "b@tzkit",
			Start:  mustZoned(t, "2022-07-04T00:00:00[America/New_York]"),
			End:    mustZoned(t, "2022-07-05T00:00:00[America/New_York]"),
			AllDay: true,
		},
	}

	newYork, err := datetime.LoadZone("America/New_York")
	require.NoError(t, err)

	body := Encode("", mustInstant(t, "2022-06-01T00:00:00Z"), in)
	out, err := Decode([]byte(body), nil, newYork)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "a@tzkit", out[0].UID)
	assert.Equal(t, "Berlin lunch", out[0].Summary)
	assert.True(t, in[0].Start.Equal(out[0].Start))
	assert.True(t, in[0].End.Equal(out[0].End))
	assert.Equal(t, "FREQ=DAILY;COUNT=3", out[0].RRule)
	require.Len(t, out[0].ExDates, 1)
	assert.True(t, in[0].ExDates[0].Equal(out[0].ExDates[0]))

	assert.True(t, out[1].AllDay)
	assert.Equal(t, "2022-07-04T00:00:00-04:00[America/New_York]", out[1].Start.String())
}

const sample = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//sample//EN
BEGIN:VEVENT
UID:floating@sample
DTSTART:20220315T090000
SUMMARY:Floating
END:VEVENT
BEGIN:VEVENT
UID:seoul@sample
DTSTART;TZID=Asia/Seoul:20220315T090000
DTEND;TZID=Asia/Seoul:20220315T100000
END:VEVENT
BEGIN:VEVENT
UID:bad-zone@sample
DTSTART;TZID=Mars/Olympus_Mons:20220315T090000
END:VEVENT
BEGIN:VEVENT
SUMMARY:no uid
DTSTART:20220315T090000Z
END:VEVENT
BEGIN:VEVENT
UID:holiday@sample
DTSTART;VALUE=DATE:20220316
END:VEVENT
END:VCALENDAR
`

func TestDecode_Sample(t *testing.T) {
	chicago, err := datetime.LoadZone("America/Chicago")
	require.NoError(t, err)

	events, err := Decode([]byte(strings.ReplaceAll(sample, "\n", "\r\n")), nil, chicago)
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, "floating@sample", events[0].UID)
	assert.Equal(t, "2022-03-15T09:00:00-05:00[America/Chicago]", events[0].Start.String())
	assert.True(t, events[0].Start.Equal(events[0].End))

	assert.Equal(t, "2022-03-15T09:00:00+09:00[Asia/Seoul]", events[1].Start.String())
	assert.Equal(t, "2022-03-15T00:00:00Z", events[1].Start.Instant().String())

	assert.True(t, events[2].AllDay)
	assert.Equal(t, "2022-03-17T00:00:00-05:00[America/Chicago]", events[2].End.String())
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode(nil, nil, nil)
	assert.Error(t, err)
}

func TestOccurrences(t *testing.T) {
	w := recur.Window{
		Start: mustInstant(t, "2022-10-29T00:00:00Z"),
		End:   mustInstant(t, "2022-11-05T00:00:00Z"),
	}

	recurring := Event{
		UID:     "a@tzkit",
		Start:   mustZoned(t, "2022-10-29T12:00:00[Europe/Berlin]"),
		End:     mustZoned(t, "2022-10-29T13:00:00[Europe/Berlin]"),
		RRule:   "FREQ=DAILY;COUNT=3",
		ExDates: []datetime.Instant{mustInstant(t, "2022-10-30T11:00:00Z")},
	}
	res, err := Occurrences(recurring, w, 0)
	require.NoError(t, err)
	require.Len(t, res.Occurrences, 2)
	assert.Equal(t, "2022-10-29T12:00:00+02:00[Europe/Berlin]", res.Occurrences[0].String())
	assert.Equal(t, "2022-10-31T12:00:00+01:00[Europe/Berlin]", res.Occurrences[1].String())

	single := Event{
		UID:   "b@tzkit",
		Start: mustZoned(t, "2022-11-04T23:30:00+00:00[UTC]"),
		End:   mustZoned(t, "2022-11-05T00:30:00+00:00[UTC]"),
	}
	res, err = Occurrences(single, w, 0)
	require.NoError(t, err)
	assert.Len(t, res.Occurrences, 1)

	single.Start = mustZoned(t, "2022-12-01T00:00:00+00:00[UTC]")
	single.End = single.Start
	res, err = Occurrences(single, w, 0)
	require.NoError(t, err)
	assert.Empty(t, res.Occurrences)
}
