package scalar_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/coerce/pkg/scalar"
)

func TestParseDate(t *testing.T) {
	t.Parallel()

	d, err := scalar.ParseDate("2017-01-01")
	require.NoError(t, err)
	assert.Equal(t, scalar.Date{Year: 2017, Month: 1, Day: 1}, d)

	tests := map[string]string{
		"2017-01":             "input is too short",
		"2017-13-01":          "month value is outside expected range of 1-12",
		"2023-02-29":          "day value is outside expected range",
		"20x7-01-01":          "invalid character in year",
		"2017-01-01T00:00:00": "unexpected extra characters at the end of the input",
	}
	for in, reason := range tests {
		t.Run(in, func(t *testing.T) {
			_, err := scalar.ParseDate(in)
			require.ErrorIs(t, err, scalar.ErrDateParsing)
			assert.Equal(t, reason, scalar.Reason(err))
		})
	}

	leap, err := scalar.ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, 29, leap.Day)
}

func TestParseTime(t *testing.T) {
	t.Parallel()

	tm, err := scalar.ParseTime("12:13:14.567", scalar.Truncate)
	require.NoError(t, err)
	assert.Equal(t, scalar.Time{Hour: 12, Minute: 13, Second: 14, Microsecond: 567000}, tm)

	tm, err = scalar.ParseTime("08:30+02:00", scalar.Truncate)
	require.NoError(t, err)
	assert.True(t, tm.HasOffset)
	assert.Equal(t, 7200, tm.OffsetSeconds)

	tm, err = scalar.ParseTime("08:30:00Z", scalar.Truncate)
	require.NoError(t, err)
	assert.True(t, tm.HasOffset)
	assert.Equal(t, 0, tm.OffsetSeconds)

	_, err = scalar.ParseTime("25:00", scalar.Truncate)
	assert.ErrorIs(t, err, scalar.ErrTimeParsing)
}

func TestMicrosecondsOverflowPolicy(t *testing.T) {
	t.Parallel()

	const long = "12:00:00.1234567"

	tm, err := scalar.ParseTime(long, scalar.Truncate)
	require.NoError(t, err)
	assert.Equal(t, 123456, tm.Microsecond)

	_, err = scalar.ParseTime(long, scalar.Error)
	require.ErrorIs(t, err, scalar.ErrTimeParsing)
	assert.Equal(t, "second fraction value is more than 6 digits long", scalar.Reason(err))

	_, err = scalar.ParseDateTime("2020-01-01T"+long, scalar.Error)
	assert.ErrorIs(t, err, scalar.ErrDateTimeParsing)

	d, err := scalar.ParseDuration("PT1.1234567S", scalar.Truncate)
	require.NoError(t, err)
	assert.Equal(t, 123456, d.Microsecond)

	_, err = scalar.ParseDuration("PT1.1234567S", scalar.Error)
	assert.ErrorIs(t, err, scalar.ErrDurationParsing)
}

func TestParseDateTime(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"2017-01-01T12:13:14.567", "2017-01-01 12:13:14.567", "2017-01-01_12:13:14.567"} {
		dt, err := scalar.ParseDateTime(in, scalar.Truncate)
		require.NoError(t, err, in)
		assert.Equal(t, scalar.Date{Year: 2017, Month: 1, Day: 1}, dt.Date)
		assert.Equal(t, 567000, dt.Time.Microsecond)
		assert.False(t, dt.Time.HasOffset)
	}

	dt, err := scalar.ParseDateTime("1672531200", scalar.Truncate)
	require.NoError(t, err)
	assert.Equal(t, "2023-01-01T00:00:00Z", dt.String())

	_, err = scalar.ParseDateTime("2017-01-01", scalar.Truncate)
	assert.ErrorIs(t, err, scalar.ErrDateTimeParsing)
}

func TestIntAsDateTime_Milliseconds(t *testing.T) {
	dt, err := scalar.IntAsDateTime(1672531200000, 0)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), dt.GoTime())
}

func TestParseDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want time.Duration
	}{
		{"P1DT2H3M4S", 26*time.Hour + 3*time.Minute + 4*time.Second},
		{"P2W", 14 * 24 * time.Hour},
		{"-PT30M", -30 * time.Minute},
		{"01:02:03", time.Hour + 2*time.Minute + 3*time.Second},
		{"1 day, 00:00:01.5", 24*time.Hour + 1500*time.Millisecond},
		{"3 days", 72 * time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := scalar.ParseDuration(tt.in, scalar.Truncate)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.GoDuration())
		})
	}

	for _, bad := range []string{"", "P", "PT", "1:2", "P1.5D", "abc"} {
		_, err := scalar.ParseDuration(bad, scalar.Truncate)
		assert.ErrorIs(t, err, scalar.ErrDurationParsing, bad)
	}
}

func TestSecondsAsTime(t *testing.T) {
	tm, err := scalar.SecondsAsTime(3661, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, tm.Hour)
	assert.Equal(t, 1, tm.Minute)
	assert.Equal(t, 1, tm.Second)

	_, err = scalar.SecondsAsTime(86400, 0)
	assert.ErrorIs(t, err, scalar.ErrTimeParsing)
}

func TestDuration_Normalize(t *testing.T) {
	d := scalar.NewDuration(true, 0, 90000, 1_500_000)
	assert.Equal(t, scalar.Duration{Positive: true, Day: 1, Second: 3601, Microsecond: 500000}, d)
	assert.Equal(t, d, scalar.DurationOf(d.GoDuration()))
}

func TestTemporal_JSON(t *testing.T) {
	t.Parallel()
	out, err := json.Marshal([]any{
		scalar.Date{Year: 2024, Month: 2, Day: 29},
		scalar.Time{Hour: 12, Minute: 30, HasOffset: true},
		scalar.DateTime{Date: scalar.Date{Year: 2024, Month: 1, Day: 1}, Time: scalar.Time{Microsecond: 5}},
		scalar.NewDuration(false, 1, 30, 0),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `["2024-02-29", "12:30:00Z", "2024-01-01T00:00:00.000005", "-P1DT30S"]`, string(out))
}
