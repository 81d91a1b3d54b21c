package errors

import (
	"strings"
	"unicode"
)

// maxWordLength bounds search words; anything longer is not a word
// a lineage can be traced for.
const maxWordLength = 100

// ValidateWord validates a search word before it is sent to the
// generation service. It rejects input that could not be a word and
// input that could be used for injection into prompts or file paths.
//
// The validation rules are intentionally conservative:
//   - No empty words (after trimming)
//   - No control characters
//   - No path separators or null bytes
//   - Maximum length of 100 characters
//
// Hyphens, apostrophes, spaces (multi-word phrases) and the leading
// asterisk convention for reconstructed forms (*nahts) are all allowed.
func ValidateWord(word string) error {
	trimmed := strings.TrimSpace(word)
	if trimmed == "" {
		return New(ErrCodeInvalidWord, "search word cannot be empty")
	}

	if len(trimmed) > maxWordLength {
		return New(ErrCodeInvalidWord, "search word too long (max %d characters)", maxWordLength)
	}

	for _, r := range trimmed {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidWord, "search word contains control characters")
		}
	}

	dangerous := []string{"/", "\\", "\x00", ".."}
	for _, pattern := range dangerous {
		if strings.Contains(trimmed, pattern) {
			return New(ErrCodeInvalidWord, "search word contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidatePath validates an output file path for safety.
// It prevents path traversal and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || (unicode.IsControl(r) && r != '\t') {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
