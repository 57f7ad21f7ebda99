package datetime_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tzkit/internal/datetime"
	"tzkit/internal/locale"
)

func boolPtr(b bool) *bool { return &b }

func TestFormat_ISO(t *testing.T) {
	i := mustInstant(t, "2022-06-19T15:00:00-06:00")

	s, err := datetime.Format(i, datetime.ISO8601())
	require.NoError(t, err)
	assert.Equal(t, "2022-06-19T21:00:00Z", s)

	s, err = datetime.Format(datetime.ToZone(i, mustZone(t, "America/Chicago")), datetime.ISO8601())
	require.NoError(t, err)
	assert.Equal(t, "2022-06-19T16:00:00-05:00[America/Chicago]", s)

	s, err = datetime.Format(datetime.ToZone(i, datetime.UTC), datetime.ISO8601())
	require.NoError(t, err)
	assert.Equal(t, "2022-06-19T21:00:00+00:00[UTC]", s)
}

func TestFormat_Locale(t *testing.T) {
	i := mustInstant(t, "2022-06-19T15:00:00-06:00")
	chicago := datetime.ToZone(i, mustZone(t, "America/Chicago"))

	testCases := []struct {
		name     string
		value    datetime.Value
		tag      string
		opts     datetime.LocaleOptions
		exact    string
		suffix   string
		contains []string
	}{
		{
			name:     "en-GB full hour12",
			value:    chicago,
			tag:      "en-GB",
			opts:     datetime.LocaleOptions{DateStyle: datetime.StyleFull, TimeStyle: datetime.StyleFull, Hour12: boolPtr(true)},
			suffix:   " at 4:00:00 pm America/Chicago",
			contains: []string{"Sunday", "June", "19", "2022"},
		},
		{
			name:   "en-GB defaults in UTC",
			value:  i,
			tag:    "en-GB",
			suffix: ", 21:00:00",
		},
		{
			name:     "en-US medium date short time",
			value:    i,
			tag:      "en-US",
			opts:     datetime.LocaleOptions{DateStyle: datetime.StyleMedium, TimeStyle: datetime.StyleShort},
			suffix:   ", 9:00 PM",
			contains: []string{"Jun"},
		},
		{
			name:  "en-US 24h override",
			value: chicago,
			tag:   "en-US",
			opts:  datetime.LocaleOptions{TimeStyle: datetime.StyleLong, Hour12: boolPtr(false)},
			exact: "16:00:00 CDT",
		},
		{
			name:  "de-DE long in Berlin",
			value: i,
			tag:   "de-DE",
			opts: datetime.LocaleOptions{
				DateStyle: datetime.StyleLong,
				TimeStyle: datetime.StyleLong,
				TimeZone:  mustZone(t, "Europe/Berlin"),
			},
			suffix:   " um 23:00:00 CEST",
			contains: []string{"Juni", "19"},
		},
		{
			name:     "ko-KR date only crosses midnight",
			value:    i,
			tag:      "ko-KR",
			opts:     datetime.LocaleOptions{DateStyle: datetime.StyleFull, TimeZone: mustZone(t, "Asia/Seoul")},
			contains: []string{"2022", "20", "월요일"},
		},
		{
			name:  "ko time medium",
			value: datetime.ToZone(i, mustZone(t, "Asia/Seoul")),
			tag:   "ko",
			opts:  datetime.LocaleOptions{TimeStyle: datetime.StyleMedium},
			exact: "오전 6:00:00",
		},
		{
			name:  "numeric zone abbreviation",
			value: datetime.ToZone(i, mustZone(t, "Asia/Singapore")),
			tag:   "en-GB",
			opts:  datetime.LocaleOptions{TimeStyle: datetime.StyleLong},
			exact: "05:00:00 GMT+8",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := datetime.Format(tc.value, datetime.LocaleStyle(tc.tag, tc.opts))
			require.NoError(t, err)
			if tc.exact != "" {
				assert.Equal(t, tc.exact, got)
			}
			if tc.suffix != "" {
				assert.True(t, strings.HasSuffix(got, tc.suffix), "%q lacks suffix %q", got, tc.suffix)
			}
			for _, c := range tc.contains {
				assert.Contains(t, got, c)
			}
		})
	}
}

func TestFormat_Errors(t *testing.T) {
	i := mustInstant(t, "2022-06-19T15:00:00-06:00")

	testCases := []struct {
		name  string
		style datetime.Style
	}{
		{"zero style", datetime.Style{}},
		{"malformed tag", datetime.LocaleStyle("not a tag!", datetime.LocaleOptions{})},
		{"unsupported locale", datetime.LocaleStyle("zu-ZA", datetime.LocaleOptions{})},
		{"unknown date style", datetime.LocaleStyle("en-GB", datetime.LocaleOptions{DateStyle: "huge"})},
		{"unknown time style", datetime.LocaleStyle("en-GB", datetime.LocaleOptions{TimeStyle: "tiny"})},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := datetime.Format(i, tc.style)
			require.Error(t, err)
			assert.True(t, errors.Is(err, datetime.ErrFormat))

			var fe *datetime.FormatError
			assert.True(t, errors.As(err, &fe))
		})
	}

	_, err := datetime.FormatWith(i, datetime.LocaleStyle("en-GB", datetime.LocaleOptions{}), nil)
	assert.ErrorIs(t, err, datetime.ErrFormat)
}

type stubProvider struct{ data *locale.Data }

func (s stubProvider) Lookup(string) (*locale.Data, error) { return s.data, nil }

func TestFormatWith_CustomProvider(t *testing.T) {
	base, err := locale.Default().Lookup("en-US")
	require.NoError(t, err)

	custom := *base
	custom.Dates = map[locale.Style]string{
		locale.StyleFull: "Monday, January 2 2006",
	}

	i := mustInstant(t, "2022-06-19T15:00:00-06:00")
	got, err := datetime.FormatWith(i, datetime.LocaleStyle("x-any", datetime.LocaleOptions{DateStyle: datetime.StyleFull}), stubProvider{&custom})
	require.NoError(t, err)
	assert.Equal(t, "Sunday, June 19 2022", got)
}
