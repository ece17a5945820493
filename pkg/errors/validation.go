package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// usernameRegex matches profile handles: letters, digits, dot, dash and
// underscore, starting with a letter or digit.
var usernameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateUsername validates a profile username used as a persistence key.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - Maximum length of 64 characters
//   - No control characters or path separators
//   - Only letters, digits, '.', '-' and '_'
func ValidateUsername(name string) error {
	if name == "" {
		return New(ErrCodeInvalidUsername, "username cannot be empty")
	}

	if len(name) > 64 {
		return New(ErrCodeInvalidUsername, "username too long (max 64 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidUsername, "username contains invalid control characters")
		}
	}

	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidUsername, "username contains invalid characters: %q", "..")
	}

	if !usernameRegex.MatchString(name) {
		return New(ErrCodeInvalidUsername, "invalid username: %q", name)
	}

	return nil
}

// ValidateWidgetID validates an opaque widget identifier.
func ValidateWidgetID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "widget id cannot be empty")
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "widget id too long (max 128 characters)")
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "widget id contains invalid characters")
		}
	}
	return nil
}

// ValidateURL validates a widget link for safety.
// Empty links are allowed since a widget may carry only an image or title.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return nil
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
