package validation

import "strings"

// Violation is one failed constraint of one field.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	return v.Field + " - " + v.Message
}

// Error is returned when a payload breaks one or more rules.
type Error struct {
	Violations []Violation
}

func (e *Error) Error() string {
	return "validation failed: " + strings.Join(e.Messages(), "; ")
}

// Messages renders every violation as "field - message".
func (e *Error) Messages() []string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.String())
	}
	return msgs
}
