package core

import (
	"strings"
	"unicode/utf8"
)

// MaxUsernameLen is the maximum accepted display name length in code points.
const MaxUsernameLen = 20

// ValidateUsername checks a proposed display name and returns the accepted
// form (surrounding whitespace trimmed) or a rejection error. Accepted names
// are non-empty, at most MaxUsernameLen code points, and contain only ASCII
// letters, digits, and spaces.
func ValidateUsername(raw string) (string, *Error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", coreError(ErrCodeEmptyUsername, "username is required")
	}
	if utf8.RuneCountInString(name) > MaxUsernameLen {
		return "", coreError(ErrCodeUsernameTooLong, "username exceeds 20 characters")
	}
	for _, r := range name {
		if !isUsernameRune(r) {
			return "", coreError(ErrCodeInvalidCharacters, "username may only contain letters, digits, and spaces")
		}
	}
	return name, nil
}

func isUsernameRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == ' ':
		return true
	}
	return false
}
