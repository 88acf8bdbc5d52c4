// Package validator checks password strength against a fixed, ordered set of rules.
package validator

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// MinLength is the minimum accepted password length in bytes.
const MinLength = 8

// SpecialChars is the set a password must draw at least one character from.
const SpecialChars = `!@#$%^&*()_+-=[]{}|;:'",.<>?/`

// ValidMessage is returned when every rule passes.
const ValidMessage = "Password is valid."

// ErrInvalidInput is wrapped by every rule violation.
var ErrInvalidInput = errors.New("invalid password")

// Rule violations, in evaluation order.
var (
	ErrTooShort    = fmt.Errorf("%w: must be at least %d characters long", ErrInvalidInput, MinLength)
	ErrNoUppercase = fmt.Errorf("%w: must contain at least one uppercase letter", ErrInvalidInput)
	ErrNoLowercase = fmt.Errorf("%w: must contain at least one lowercase letter", ErrInvalidInput)
	ErrNoDigit     = fmt.Errorf("%w: must contain at least one number", ErrInvalidInput)
	ErrNoSpecial   = fmt.Errorf("%w: must contain at least one special character", ErrInvalidInput)
)

type rule struct {
	err error
	ok  func(string) bool
}

// rules are evaluated in order; the first failure is reported.
var rules = []rule{
	{ErrTooShort, func(s string) bool { return len(s) >= MinLength }},
	{ErrNoUppercase, func(s string) bool { return strings.IndexFunc(s, unicode.IsUpper) >= 0 }},
	{ErrNoLowercase, func(s string) bool { return strings.IndexFunc(s, unicode.IsLower) >= 0 }},
	{ErrNoDigit, func(s string) bool { return strings.IndexFunc(s, unicode.IsNumber) >= 0 }},
	{ErrNoSpecial, func(s string) bool { return strings.ContainsAny(s, SpecialChars) }},
}

// Validate returns nil if value satisfies every rule, or the error of the
// first rule it violates.
func Validate(value string) error {
	for _, r := range rules {
		if !r.ok(value) {
			return r.err
		}
	}
	return nil
}
