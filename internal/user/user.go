package user

import (
	"strings"

	"github.com/wichananm65/userdemo/internal/validation"
)

const (
	nameMinLength    = 3
	nameMaxLength    = 30
	emailMinLength   = 5
	emailMaxLength   = 50
	addressMinLength = 5
	addressMaxLength = 120
)

// User is a persisted user record. Address and PhoneNumber are optional.
type User struct {
	ID          int64   `json:"id"`
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	Email       string  `json:"email"`
	DateOfBirth Date    `json:"dateOfBirth"`
	Address     *string `json:"address"`
	PhoneNumber *string `json:"phoneNumber"`
}

// Update carries a partial update; nil fields are left untouched.
type Update struct {
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	Email       *string `json:"email"`
	DateOfBirth *Date   `json:"dateOfBirth"`
	Address     *string `json:"address"`
	PhoneNumber *string `json:"phoneNumber"`
}

var (
	requiredNameRules = []validation.Rule{validation.NotBlank(), validation.Length(nameMinLength, nameMaxLength)}
	nameRules         = []validation.Rule{validation.Length(nameMinLength, nameMaxLength)}

	requiredEmailRules = []validation.Rule{validation.NotBlank(), validation.Length(emailMinLength, emailMaxLength), validation.Email()}
	emailRules         = []validation.Rule{validation.Length(emailMinLength, emailMaxLength), validation.Email()}

	requiredBirthRules = []validation.Rule{validation.NotNull(), validation.BeforeToday(), validation.MinAge(0)}
	birthRules         = []validation.Rule{validation.MinAge(0), validation.BeforeToday()}

	addressRules = []validation.Rule{validation.Length(addressMinLength, addressMaxLength)}
	phoneRules   = []validation.Rule{validation.Phone()}
)

// Validate checks every field of a full user record.
func (u User) Validate(v *validation.Validator) error {
	return v.Check(
		validation.Check{Field: "firstName", Value: u.FirstName, Rules: requiredNameRules},
		validation.Check{Field: "lastName", Value: u.LastName, Rules: requiredNameRules},
		validation.Check{Field: "email", Value: u.Email, Rules: requiredEmailRules},
		validation.Check{Field: "dateOfBirth", Value: u.DateOfBirth.Time, Rules: requiredBirthRules},
		validation.Check{Field: "address", Value: optional(u.Address), Rules: addressRules},
		validation.Check{Field: "phoneNumber", Value: optional(u.PhoneNumber), Rules: phoneRules},
	)
}

// Validate checks every field present in the update.
func (u Update) Validate(v *validation.Validator) error {
	var birth any
	if u.DateOfBirth != nil {
		birth = u.DateOfBirth.Time
	}

	return v.Check(
		validation.Check{Field: "firstName", Value: optional(u.FirstName), Rules: nameRules},
		validation.Check{Field: "lastName", Value: optional(u.LastName), Rules: nameRules},
		validation.Check{Field: "email", Value: optional(u.Email), Rules: emailRules},
		validation.Check{Field: "dateOfBirth", Value: birth, Rules: birthRules},
		validation.Check{Field: "address", Value: optional(u.Address), Rules: addressRules},
		validation.Check{Field: "phoneNumber", Value: optional(u.PhoneNumber), Rules: phoneRules},
	)
}

// mergeUpdate copies every non-blank string and non-nil date of upd onto u.
func mergeUpdate(u *User, upd Update) {
	if isNotBlank(upd.FirstName) {
		u.FirstName = *upd.FirstName
	}
	if isNotBlank(upd.LastName) {
		u.LastName = *upd.LastName
	}
	if isNotBlank(upd.Email) {
		u.Email = *upd.Email
	}
	if upd.DateOfBirth != nil && !upd.DateOfBirth.IsZero() {
		u.DateOfBirth = *upd.DateOfBirth
	}
	if isNotBlank(upd.Address) {
		address := *upd.Address
		u.Address = &address
	}
	if isNotBlank(upd.PhoneNumber) {
		phone := *upd.PhoneNumber
		u.PhoneNumber = &phone
	}
}

func isNotBlank(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

// optional unwraps s, mapping nil to an untyped nil.
func optional(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
