package validation

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// ValidateName validates a person's display name (2-80 characters)
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return errors.New("name is required")
	}

	n := utf8.RuneCountInString(trimmed)
	if n < 2 {
		return errors.New("name is too short (min 2 characters)")
	}
	if n > 80 {
		return errors.New("name is too long (max 80 characters)")
	}

	return nil
}
