package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// identifierRegex matches the identifiers accepted in graph documents: node
// ids and cluster ids.
var identifierRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateIdentifier validates a node or cluster identifier from an external
// document. It rejects identifiers that could be used for path traversal or
// injection when echoed into filenames, DOT output, or storage keys.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters
//   - Maximum length of 256 characters
//   - Leading alphanumeric, then alphanumerics, dot, underscore, hyphen
func ValidateIdentifier(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "identifier cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidInput, "identifier too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "identifier contains control characters")
		}
	}

	if !identifierRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid identifier: %q", id)
	}

	return nil
}

// ValidateOutputFormat validates a requested artifact format.
func ValidateOutputFormat(format string) error {
	switch format {
	case "json", "dot", "svg":
		return nil
	}
	return New(ErrCodeInvalidFormat, "unsupported output format: %q (want json, dot, or svg)", format)
}

// ValidatePath validates a user-supplied file path for safety.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	// Check for null bytes and control characters
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	// Check for path traversal
	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	// No backslashes (potential Windows path injection)
	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
