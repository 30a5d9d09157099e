package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/coerce/pkg/input"
	"github.com/dmitrymomot/coerce/pkg/scalar"
	"github.com/dmitrymomot/coerce/pkg/valerr"
	"github.com/dmitrymomot/coerce/pkg/validator"
)

func TestDate_FromDateTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		strict  bool
		want    scalar.Date
		errType valerr.ErrorType
	}{
		{name: "midnight datetime", in: `"2023-01-01T00:00:00"`, want: scalar.Date{Year: 2023, Month: 1, Day: 1}},
		{name: "midnight with offset", in: `"2023-01-01T00:00:00Z"`, want: scalar.Date{Year: 2023, Month: 1, Day: 1}},
		{name: "one second past midnight", in: `"2023-01-01T00:00:01"`, errType: valerr.DateFromDatetimeInexact},
		{name: "garbage", in: `"foo"`, errType: valerr.DateFromDatetimeParsing},
		{name: "strict keeps the date error", in: `"2023-01-01T00:00:00"`, strict: true, errType: valerr.DateParsing},
		{name: "plain date", in: `"2023-06-30"`, strict: true, want: scalar.Date{Year: 2023, Month: 6, Day: 30}},
	}

	tree := build(t, "type: date")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := tree.Validate(jsonInput(t, tt.in), validator.StrictOverride(tt.strict))
			if tt.errType != "" {
				assert.Equal(t, []valerr.ErrorType{tt.errType}, failure(t, err).Types())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestDate_FromDateTimeRanksLax(t *testing.T) {
	t.Parallel()
	tree := build(t, "{type: union, choices: [{type: date}, {type: str}]}")

	out, err := tree.Validate(jsonInput(t, `"2023-01-01T00:00:00"`))
	require.NoError(t, err)
	assert.Equal(t, "2023-01-01T00:00:00", out)
}

func TestNowConstraints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		doc     string
		in      string
		errType valerr.ErrorType
	}{
		{name: "date in the past", doc: "{type: date, now_op: past}", in: `"2000-01-01"`},
		{name: "date not in the past", doc: "{type: date, now_op: past}", in: `"2999-01-01"`, errType: valerr.DatePast},
		{name: "date in the future", doc: "{type: date, now_op: future, now_utc_offset: 0}", in: `"2999-01-01"`},
		{name: "date not in the future", doc: "{type: date, now_op: future, now_utc_offset: 3600}", in: `"2000-01-01"`, errType: valerr.DateFuture},
		{name: "datetime in the past", doc: "{type: datetime, now_op: past}", in: `"2000-01-01T10:00:00Z"`},
		{name: "naive datetime not in the future", doc: "{type: datetime, now_op: future}", in: `"2000-01-01T10:00:00"`, errType: valerr.DatetimeFuture},
		{name: "datetime not in the past", doc: "{type: datetime, now_op: past, now_utc_offset: 0}", in: `"2999-01-01T10:00:00"`, errType: valerr.DatetimePast},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tree := build(t, tt.doc)

			_, err := tree.Validate(jsonInput(t, tt.in))
			if tt.errType != "" {
				assert.Equal(t, []valerr.ErrorType{tt.errType}, failure(t, err).Types())
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestTemporal_Values(t *testing.T) {
	t.Parallel()

	t.Run("timedelta", func(t *testing.T) {
		t.Parallel()
		out, err := build(t, "type: timedelta").Validate(jsonInput(t, `"P1DT2S"`))
		require.NoError(t, err)
		assert.Equal(t, scalar.NewDuration(true, 1, 2, 0), out)
	})

	t.Run("timedelta from seconds is lax", func(t *testing.T) {
		t.Parallel()
		tree := build(t, "type: timedelta")

		out, err := tree.Validate(jsonInput(t, `90`))
		require.NoError(t, err)
		assert.Equal(t, scalar.NewDuration(true, 0, 90, 0), out)

		_, err = tree.Validate(jsonInput(t, `90`), validator.StrictOverride(true))
		assert.Equal(t, []valerr.ErrorType{valerr.TimeDeltaType}, failure(t, err).Types())
	})

	t.Run("microseconds overflow", func(t *testing.T) {
		t.Parallel()
		in := jsonInput(t, `"PT1.1234567S"`)

		out, err := build(t, "type: timedelta").Validate(in)
		require.NoError(t, err)
		assert.Equal(t, scalar.NewDuration(true, 0, 1, 123456), out)

		_, err = build(t, "{type: timedelta, microseconds_overflow: error}").Validate(in)
		assert.Equal(t, []valerr.ErrorType{valerr.TimeDeltaParsing}, failure(t, err).Types())

		_, err = build(t, "type: timedelta", validator.WithMicrosecondsOverflow(scalar.Error)).Validate(in)
		assert.Equal(t, []valerr.ErrorType{valerr.TimeDeltaParsing}, failure(t, err).Types())
	})

	t.Run("time", func(t *testing.T) {
		t.Parallel()
		out, err := build(t, "type: time").Validate(input.From("12:30:15"))
		require.NoError(t, err)
		assert.Equal(t, "12:30:15", out.(scalar.Time).String())
	})
}
