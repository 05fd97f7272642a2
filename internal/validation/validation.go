// Package validation collects field-level validation failures.
package validation

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

const (
	MsgRequired     = "This field is required"
	MsgInvalidPhone = "Please enter a valid phone number"
	MsgInvalidEmail = "Please enter a valid email address"
)

// Errors maps a field name to a human-readable message. A nil or empty
// Errors means the input is valid.
type Errors map[string]string

func (e Errors) Error() string {
	if len(e) == 0 {
		return "validation passed"
	}
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records msg for field unless the field already has a message.
func (e Errors) Add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

// Set records msg for field, replacing any previous message.
func (e Errors) Set(field, msg string) {
	e[field] = msg
}

// Required adds MsgRequired when value is blank.
func (e Errors) Required(field, value string) {
	if strings.TrimSpace(value) == "" {
		e.Add(field, MsgRequired)
	}
}

// Check adds msg for field when ok is false.
func (e Errors) Check(ok bool, field, msg string) {
	if !ok {
		e.Add(field, msg)
	}
}

// Err returns e as an error, or nil when there are no failures.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

var emailRe = regexp.MustCompile(`^\S+@\S+\.\S+$`)

func IsEmail(s string) bool {
	return emailRe.MatchString(s)
}

// PasswordProblem returns a message describing why password is rejected,
// or "" if it satisfies the policy.
func PasswordProblem(password string) string {
	if len(password) < 6 {
		return "Password must be at least 6 characters"
	}
	var upper, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper {
		return "Password must contain at least one uppercase letter"
	}
	if !digit {
		return "Password must contain at least one number"
	}
	return ""
}
