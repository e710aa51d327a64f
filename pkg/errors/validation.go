package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateSetID validates a client-supplied set identifier for safety.
// It rejects identifiers that could be used for path traversal or injection
// attacks when the ID ends up in cache keys, file paths, or store queries.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters
//   - No path separators or traversal sequences
//   - No null bytes
//   - Maximum length of 128 characters
//
// Server-assigned IDs are UUIDs and always pass; the rules exist for
// client-chosen identifiers.
func ValidateSetID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "set id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "set id too long (max 128 characters)")
	}

	// Check for control characters and null bytes
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "set id contains invalid control characters")
		}
	}

	// Check for path traversal patterns
	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidInput, "set id contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// formatNameRegex matches plausible output format names.
var formatNameRegex = regexp.MustCompile(`^[a-z][a-z0-9]*$`)

// ValidateFormats validates client-supplied output format names for safety.
// It checks shape only (short lowercase tokens, no duplicates); whether a
// format is actually supported is decided by the pipeline options.
func ValidateFormats(formats []string) error {
	if len(formats) == 0 {
		return New(ErrCodeInvalidFormat, "at least one output format is required")
	}

	seen := make(map[string]bool, len(formats))
	for _, f := range formats {
		if len(f) > 16 {
			return New(ErrCodeInvalidFormat, "format name too long: %q", f)
		}
		if !formatNameRegex.MatchString(f) {
			return New(ErrCodeInvalidFormat, "invalid format name: %q", f)
		}
		if seen[f] {
			return New(ErrCodeInvalidFormat, "duplicate format: %q", f)
		}
		seen[f] = true
	}

	return nil
}
