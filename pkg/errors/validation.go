package errors

import (
	"strings"
	"unicode"
)

// maxIDLength bounds node ids and resolver names.
const maxIDLength = 256

// ValidateNodeID validates a node id taken from user input, such as a JSON
// graph file or an HTTP path segment.
//
// The validation rules are intentionally conservative:
//   - No empty ids
//   - No control characters or null bytes
//   - No surrounding whitespace
//   - Maximum length of 256 characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidNodeID, "node id cannot be empty")
	}

	if len(id) > maxIDLength {
		return New(ErrCodeInvalidNodeID, "node id too long (max %d characters)", maxIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidNodeID, "node id contains invalid control characters")
		}
	}

	if strings.TrimSpace(id) != id {
		return New(ErrCodeInvalidNodeID, "node id cannot start or end with whitespace")
	}

	return nil
}

// ValidateResolverName validates the name a resolver is registered under.
// Names are written into persisted documents and cache keys, so they are
// restricted to letters, digits, '-', '_' and '.'.
func ValidateResolverName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "resolver name cannot be empty")
	}

	if len(name) > maxIDLength {
		return New(ErrCodeInvalidInput, "resolver name too long (max %d characters)", maxIDLength)
	}

	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.':
		default:
			return New(ErrCodeInvalidInput, "resolver name contains invalid character %q", r)
		}
	}

	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidInput, "resolver name cannot contain '..'")
	}

	return nil
}
