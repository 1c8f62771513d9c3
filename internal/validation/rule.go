package validation

import "fmt"

// Rule is a single constraint: a validator tag and the message reported when
// the tag fails.
type Rule struct {
	tag     string
	message string

	// set for minimum age rules, whose message depends on the effective age
	ageRule bool
	minAge  int
}

// Check binds a field value to the rules it must satisfy. A nil Value means
// the field is absent and no rule is evaluated.
type Check struct {
	Field string
	Value any
	Rules []Rule
}

// NotBlank rejects empty and whitespace-only strings.
func NotBlank() Rule {
	return Rule{tag: TagNotBlank, message: msgNotBlank}
}

// NotNull rejects zero values such as an unset date.
func NotNull() Rule {
	return Rule{tag: "required", message: msgNotNull}
}

// Length bounds the number of characters of a string, inclusive.
func Length(min, max int) Rule {
	return Rule{
		tag:     fmt.Sprintf("min=%d,max=%d", min, max),
		message: fmt.Sprintf(msgLength, min, max),
	}
}

// Email requires a string to look like an e-mail address.
func Email() Rule {
	return Rule{tag: TagEmailPattern, message: msgWrongEmail}
}

// Phone requires a string to be one of the accepted phone number shapes.
func Phone() Rule {
	return Rule{tag: TagPhonePattern, message: msgWrongPhone}
}

// BeforeToday requires a date strictly in the past.
func BeforeToday() Rule {
	return Rule{tag: TagBeforeToday, message: msgBeforeToday}
}

// MinAge requires a birth date old enough. Zero selects the configured default.
func MinAge(minAge int) Rule {
	return Rule{
		tag:     fmt.Sprintf("%s=%d", TagValidAge, minAge),
		ageRule: true,
		minAge:  minAge,
	}
}

func (v *Validator) messageFor(r Rule) string {
	if r.ageRule {
		return fmt.Sprintf(msgMinAge, v.EffectiveMinAge(r.minAge))
	}
	return r.message
}

// Check evaluates every rule of every present field and returns an *Error
// listing each violation, or nil when all rules hold.
func (v *Validator) Check(checks ...Check) error {
	var violations []Violation
	for _, c := range checks {
		if c.Value == nil {
			continue
		}
		for _, r := range c.Rules {
			if err := v.validate.Var(c.Value, r.tag); err != nil {
				violations = append(violations, Violation{Field: c.Field, Message: v.messageFor(r)})
			}
		}
	}

	if len(violations) == 0 {
		return nil
	}
	return &Error{Violations: violations}
}
