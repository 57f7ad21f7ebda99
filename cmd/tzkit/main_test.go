package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tzkit/internal/config"
	"tzkit/internal/datetime"
)

func TestRun_Chicago(t *testing.T) {
	conf := config.DefaultConfig()
	conf.Timezone = "America/Chicago"
	clock := datetime.FixedClock{T: time.Unix(1644958800, 0)}

	var buf bytes.Buffer
	require.NoError(t, run(&buf, conf, clock))
	out := buf.String()

	for _, want := range []string{
		"America/Chicago",
		"2021-11-07T07:00:00Z",
		"2022-03-13T08:00:00Z",
		"2022-05-15T20:00:00Z",
		"2022-05-15T15:00:00-05:00[America/Chicago]",
		"2022-05-22T16:00:00-05:00[America/Chicago]",
		"2022-02-16T05:00:00+08:00[Asia/Singapore]",
		"1644958800",
		"2022-02-15T21:00:00Z",
		"2022-02-15T18:30:00-06:00[America/Chicago]",
		"2022-02-15T11:30:00-06:00[America/Chicago]",
		"Sunday, June 19 2022, 4:00:00 pm",
		"at 4:00:00 pm America/Chicago",
		"2022-03-06T09:00:00-06:00[America/Chicago]",
		"2022-03-13T09:00:00-05:00[America/Chicago]",
		"2022-03-20T09:00:00-05:00[America/Chicago]",
		"2022-02-16T09:00:00-06:00[America/Chicago]",
		"2022-02-18T09:00:00-06:00[America/Chicago]",
		"DTSTART;TZID=America/Chicago:20220306T090000",
	} {
		assert.Contains(t, out, want)
	}
}

func TestRun_UnknownZone(t *testing.T) {
	conf := config.DefaultConfig()
	conf.Timezone = "Nowhere/Special"

	var buf bytes.Buffer
	err := run(&buf, conf, datetime.FixedClock{T: time.Unix(0, 0)})
	assert.ErrorIs(t, err, datetime.ErrUnknownZone)
}

func TestRun_FixedOffsetHasNoTransitions(t *testing.T) {
	conf := config.DefaultConfig()
	conf.Timezone = "+05:30"

	var buf bytes.Buffer
	require.NoError(t, run(&buf, conf, datetime.FixedClock{T: time.Unix(1644958800, 0)}))
	assert.Contains(t, buf.String(), "none")
	assert.Contains(t, buf.String(), "2022-05-15T15:00:00+05:30[+05:30]")
	assert.Contains(t, buf.String(), "2022-02-09T09:00:00+05:30[+05:30]")
	assert.Contains(t, buf.String(), "DTSTART:20220209T033000Z")
}

func TestRun_CalendarRoundTripKeepsZone(t *testing.T) {
	conf := config.DefaultConfig()
	conf.Timezone = "Europe/Berlin"

	var buf bytes.Buffer
	require.NoError(t, run(&buf, conf, datetime.FixedClock{T: time.Unix(1644958800, 0)}))
	out := buf.String()

	// Berlin moves its clocks on 2022-03-27, so the series starts 03-20.
	assert.Contains(t, out, "2022-03-20T09:00:00+01:00[Europe/Berlin]")
	assert.Contains(t, out, "2022-03-27T09:00:00+02:00[Europe/Berlin]")
	assert.Contains(t, out, "DTSTART;TZID=Europe/Berlin:20220320T090000")
	assert.Regexp(t, `occurrences\s+3`, out)
}
