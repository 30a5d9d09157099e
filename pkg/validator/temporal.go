package validator

import (
	"time"

	"github.com/dmitrymomot/coerce/pkg/input"
	"github.com/dmitrymomot/coerce/pkg/scalar"
	"github.com/dmitrymomot/coerce/pkg/valerr"
)

// Now operators for date and datetime constraints.
const (
	NowPast   = "past"
	NowFuture = "future"
)

// nowConstraint compares a value against the current moment. Without an
// explicit offset the local zone of the process is used.
type nowConstraint struct {
	op     string
	offset *int
}

func (c *nowConstraint) offsetSeconds() int {
	if c.offset != nil {
		return *c.offset
	}
	_, off := time.Now().Zone()
	return off
}

// accepts reports whether a comparison result (value vs now) satisfies op.
func (c *nowConstraint) accepts(cmp int) bool {
	if c.op == NowPast {
		return cmp < 0
	}
	return cmp > 0
}

type dateValidator struct {
	strict bool
	now    *nowConstraint
}

func (v *dateValidator) Validate(in input.Input, st *State) (any, error) {
	strict := st.Strict(v.strict)
	d, err := record[scalar.Date](st)(in.ValidateDate(strict))
	if err != nil {
		if valerr.IsInternal(err) || strict {
			return nil, err
		}
		if d, err = dateFromDateTime(in, st, err); err != nil {
			return nil, err
		}
	}
	if v.now != nil && !v.now.accepts(d.Compare(scalar.Today(v.now.offsetSeconds()))) {
		t := valerr.DatePast
		if v.now.op == NowFuture {
			t = valerr.DateFuture
		}
		return nil, valerr.New(t, in.AsErrorValue()).Err()
	}
	return d, nil
}

// dateFromDateTime accepts datetimes with a zero time of day in lax mode.
// When the input does not parse as a datetime either, datetime parsing
// errors are reported as date_from_datetime_parsing; any other failure
// keeps the original date error.
func dateFromDateTime(in input.Input, st *State, dateErr error) (scalar.Date, error) {
	m, err := in.ValidateDateTime(false, scalar.Truncate)
	if err != nil {
		lines, ok := valerr.Lines(err)
		if !ok {
			return scalar.Date{}, err
		}
		for _, line := range lines {
			if line.Type != valerr.DatetimeParsing {
				return scalar.Date{}, dateErr
			}
			line.Type = valerr.DateFromDatetimeParsing
		}
		return scalar.Date{}, lines
	}
	if !m.Value.Time.IsMidnight() {
		return scalar.Date{}, valerr.New(valerr.DateFromDatetimeInexact, in.AsErrorValue()).Err()
	}
	st.SetExactnessCeiling(input.Lax)
	return m.Value.Date, nil
}

func (v *dateValidator) Name() string { return "date" }
func (v *dateValidator) DifferentStrictBehavior(ultraStrict bool) bool { return !ultraStrict }

type timeValidator struct {
	strict   bool
	overflow *scalar.MicrosecondsOverflow
}

func (v *timeValidator) Validate(in input.Input, st *State) (any, error) {
	t, err := record[scalar.Time](st)(in.ValidateTime(st.Strict(v.strict), overflowOf(v.overflow, st)))
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (v *timeValidator) Name() string { return "time" }
func (v *timeValidator) DifferentStrictBehavior(ultraStrict bool) bool { return !ultraStrict }

type dateTimeValidator struct {
	strict   bool
	overflow *scalar.MicrosecondsOverflow
	now      *nowConstraint
}

func (v *dateTimeValidator) Validate(in input.Input, st *State) (any, error) {
	dt, err := record[scalar.DateTime](st)(in.ValidateDateTime(st.Strict(v.strict), overflowOf(v.overflow, st)))
	if err != nil {
		return nil, err
	}
	if v.now != nil {
		at := dt
		if !at.Time.HasOffset {
			at.Time.HasOffset = true
			at.Time.OffsetSeconds = v.now.offsetSeconds()
		}
		if !v.now.accepts(at.GoTime().Compare(time.Now())) {
			t := valerr.DatetimePast
			if v.now.op == NowFuture {
				t = valerr.DatetimeFuture
			}
			return nil, valerr.New(t, in.AsErrorValue()).Err()
		}
	}
	return dt, nil
}

func (v *dateTimeValidator) Name() string { return "datetime" }
func (v *dateTimeValidator) DifferentStrictBehavior(ultraStrict bool) bool { return !ultraStrict }

type timedeltaValidator struct {
	strict   bool
	overflow *scalar.MicrosecondsOverflow
}

func (v *timedeltaValidator) Validate(in input.Input, st *State) (any, error) {
	d, err := record[scalar.Duration](st)(in.ValidateTimedelta(st.Strict(v.strict), overflowOf(v.overflow, st)))
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (v *timedeltaValidator) Name() string { return "timedelta" }
func (v *timedeltaValidator) DifferentStrictBehavior(ultraStrict bool) bool { return !ultraStrict }

func overflowOf(own *scalar.MicrosecondsOverflow, st *State) scalar.MicrosecondsOverflow {
	if own != nil {
		return *own
	}
	return st.Overflow()
}
