// Package validation evaluates field constraints of inbound payloads.
//
// Every constraint is a go-playground/validator tag. Rules are run one by one
// against a field value, so a value breaking several rules yields one
// Violation per broken rule.
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Custom tags registered on every Validator.
const (
	TagNotBlank     = "notblank"
	TagEmailPattern = "email_pattern"
	TagPhonePattern = "phone_pattern"
	TagBeforeToday  = "before_today"
	TagValidAge     = "valid_age"
)

const (
	EmailPattern = `^[A-Za-z0-9+_.-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,4}$`
	PhonePattern = `^(\+\d{1,3}( )?)?((\(\d{3}\))|\d{3})[- .]?\d{3}[- .]?\d{4}$` +
		`|^(\+\d{1,3}( )?)?(\d{3}[ ]?){2}\d{3}$` +
		`|^(\+\d{1,3}( )?)?(\d{3}[ ]?)(\d{2}[ ]?){2}\d{2}$`
)

const (
	msgNotBlank    = "must not be blank"
	msgNotNull     = "must not be null"
	msgLength      = "length must be between %d and %d"
	msgWrongEmail  = "The email address can be 5 to 50 characters in length and the domain part can be 2 to 4 characters in length."
	msgWrongPhone  = "The phone number format is incorrect. Acceptable phone number formats: +38(123)456-7890, +381234567890, 0504567890."
	msgBeforeToday = "The defined date must precede the current date"
	msgMinAge      = "The User must be over: %d years old"
)

var (
	emailRe = regexp.MustCompile(EmailPattern)
	phoneRe = regexp.MustCompile(PhonePattern)
)

// Validator checks values against rules. It captures the global minimum
// acceptable age and the clock used to decide what "today" is.
type Validator struct {
	validate *validator.Validate
	minAge   int
	now      func() time.Time
}

// Option configures a Validator.
type Option func(*Validator)

// WithClock overrides the source of the current time.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		v.now = now
	}
}

// New creates a Validator using minAge as the default minimum age.
func New(minAge int, opts ...Option) *Validator {
	v := &Validator{
		validate: validator.New(),
		minAge:   minAge,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}

	v.mustRegister(TagNotBlank, func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	v.mustRegister(TagEmailPattern, func(fl validator.FieldLevel) bool {
		return emailRe.MatchString(fl.Field().String())
	})
	v.mustRegister(TagPhonePattern, func(fl validator.FieldLevel) bool {
		return phoneRe.MatchString(fl.Field().String())
	})
	v.mustRegister(TagBeforeToday, func(fl validator.FieldLevel) bool {
		date, ok := fl.Field().Interface().(time.Time)
		return ok && v.IsBeforeToday(date)
	})
	v.mustRegister(TagValidAge, func(fl validator.FieldLevel) bool {
		date, ok := fl.Field().Interface().(time.Time)
		if !ok {
			return false
		}
		minAge, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return v.IsValidAge(date, minAge)
	})

	return v
}

func (v *Validator) mustRegister(tag string, fn validator.Func) {
	if err := v.validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %q: %v", tag, err))
	}
}

// Today returns the current calendar date at UTC midnight.
func (v *Validator) Today() time.Time {
	return DateOnly(v.now())
}

// IsBeforeToday reports whether date is strictly earlier than today.
// The zero time counts as absent and is valid.
func (v *Validator) IsBeforeToday(date time.Time) bool {
	if date.IsZero() {
		return true
	}
	return DateOnly(date).Before(v.Today())
}

// IsValidAge reports whether someone born on date has reached the effective
// minimum age today. The zero time counts as absent and is valid.
func (v *Validator) IsValidAge(date time.Time, minAge int) bool {
	if date.IsZero() {
		return true
	}
	return Age(date, v.Today()) >= v.EffectiveMinAge(minAge)
}

// EffectiveMinAge returns custom unless it is 0, in which case the
// configured default applies.
func (v *Validator) EffectiveMinAge(custom int) int {
	if custom != 0 {
		return custom
	}
	return v.minAge
}

// Age returns the number of whole calendar years between birth and today.
func Age(birth, today time.Time) int {
	by, bm, bd := birth.Date()
	ty, tm, td := today.Date()

	age := ty - by
	if tm < bm || (tm == bm && td < bd) {
		age--
	}
	return age
}

// DateOnly drops the clock part of t, keeping its calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
