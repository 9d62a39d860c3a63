package password

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Length bounds, counted in runes.
const (
	minLength = 12
	maxLength = 128
)

// specialChars is the fixed set of accepted special characters.
const specialChars = "!@#$%^&*()_+-=[]{}|;:,.<>?"

// Policy violation reasons, ordered by the check that produces them.
const (
	ReasonTooShort      = "must be at least 12 characters"
	ReasonTooLong       = "must be at most 128 characters"
	ReasonNoUppercase   = "must contain an uppercase letter"
	ReasonNoLowercase   = "must contain a lowercase letter"
	ReasonNoDigit       = "must contain a digit"
	ReasonNoSpecial     = "must contain a special character"
	ReasonDenyListed    = "contains a commonly used password"
	ReasonRepeatedChars = "must not repeat the same character 3 or more times in a row"
)

// PolicyError reports the first violated password rule. Always recoverable
// by the caller supplying a different password.
type PolicyError struct {
	Reason string
}

func (e *PolicyError) Error() string { return "password policy: " + e.Reason }

// denyList holds common passwords rejected as case-insensitive substrings.
// Substring matching is intentionally broad: it catches e.g. "MyPassword123!"
// embedding "mypassword".
var denyList = []string{
	"123456", "123456789", "12345678", "1234567890",
	"qwerty", "qwertyuiop", "asdfghjkl", "zxcvbnm",
	"abc123", "passw0rd", "mypassword", "letmein",
	"welcome", "monkey", "dragon", "iloveyou",
	"sunshine", "princess", "football", "baseball",
	"soccer", "hockey", "superman", "batman",
	"starwars", "pokemon", "shadow", "master",
	"freedom", "whatever", "trustno1", "login",
	"admin", "root", "guest", "secret",
	"hello123", "charlie", "michael", "jessica",
	"ashley", "jordan", "hunter", "harley",
	"mustang", "ranger", "buster", "pepper",
	"cookie", "summer", "flower", "ginger",
	"banana", "killer", "george", "access",
}

// checkPolicy applies the rules in order and returns the first violation.
func checkPolicy(plaintext string) *PolicyError {
	switch n := utf8.RuneCountInString(plaintext); {
	case n < minLength:
		return &PolicyError{Reason: ReasonTooShort}
	case n > maxLength:
		return &PolicyError{Reason: ReasonTooLong}
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range plaintext {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(specialChars, r):
			hasSpecial = true
		}
	}
	switch {
	case !hasUpper:
		return &PolicyError{Reason: ReasonNoUppercase}
	case !hasLower:
		return &PolicyError{Reason: ReasonNoLowercase}
	case !hasDigit:
		return &PolicyError{Reason: ReasonNoDigit}
	case !hasSpecial:
		return &PolicyError{Reason: ReasonNoSpecial}
	}

	lowered := strings.ToLower(plaintext)
	for _, deny := range denyList {
		if strings.Contains(lowered, deny) {
			return &PolicyError{Reason: ReasonDenyListed}
		}
	}

	// Reject a run of 3+ identical characters anywhere in the input.
	run := 0
	var prev rune
	for i, r := range plaintext {
		if i > 0 && r == prev {
			run++
			if run >= 3 {
				return &PolicyError{Reason: ReasonRepeatedChars}
			}
		} else {
			run = 1
		}
		prev = r
	}

	return nil
}
